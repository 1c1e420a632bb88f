package calais

import mapset "github.com/deckarep/golang-set/v2"

// Group names the service uses for the _typeGroup discriminator.
const (
	GroupTopics    = "topics"
	GroupEntities  = "entities"
	GroupRelations = "relations"

	// GroupUngrouped collects entries without a usable _typeGroup.
	GroupUngrouped = "_ungrouped"
)

var knownGroups = mapset.NewSet(GroupTopics, GroupEntities, GroupRelations)

// IsKnownGroup reports whether name is one of the groups exposed through
// dedicated Result accessors.
func IsKnownGroup(name string) bool {
	return knownGroups.Contains(name)
}

func groupOf(fields map[string]interface{}) string {
	name, ok := fields[FieldTypeGroup].(string)
	if !ok || name == "" {
		return GroupUngrouped
	}
	return name
}
