package calais

import (
	"encoding/json"
	"sort"
)

const otherKey = "other"

// Result is the normalized outcome of one analysis call. It is immutable:
// every accessor returns a copy.
type Result struct {
	info   Object
	meta   Object
	groups map[string][]Object
}

func (r *Result) Info() Object { return r.info }

func (r *Result) Meta() Object { return r.meta }

func (r *Result) Topics() []Object { return r.Group(GroupTopics) }

func (r *Result) Entities() []Object { return r.Group(GroupEntities) }

func (r *Result) Relations() []Object { return r.Group(GroupRelations) }

// Group returns the objects whose _typeGroup equals name, ordered by URI.
func (r *Result) Group(name string) []Object {
	objs := r.groups[name]
	out := make([]Object, len(objs))
	copy(out, objs)
	return out
}

// Other returns every object outside topics, entities and relations,
// including those without a _typeGroup.
func (r *Result) Other() []Object {
	var out []Object
	for _, name := range r.GroupNames() {
		if IsKnownGroup(name) {
			continue
		}
		out = append(out, r.groups[name]...)
	}
	return out
}

// GroupNames lists the non-empty groups in sorted order.
func (r *Result) GroupNames() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DocID is the identifier the service assigned to the submitted document.
func (r *Result) DocID() string {
	s, _ := r.info.Field("docId")
	return s
}

// ExternalID echoes the externalID user directive.
func (r *Result) ExternalID() string {
	s, _ := r.info.Field("externalID")
	return s
}

// Language is the language the service detected.
func (r *Result) Language() string {
	s, _ := r.meta.Field("language")
	return s
}

// MarshalJSON renders info, meta and the three known groups at the top
// level. Every other group is nested under "other" by name, so a group can
// never shadow info or meta.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		infoKey:        r.info,
		metaKey:        r.meta,
		GroupTopics:    []Object{},
		GroupEntities:  []Object{},
		GroupRelations: []Object{},
	}
	other := map[string][]Object{}
	for name, objs := range r.groups {
		if IsKnownGroup(name) {
			out[name] = objs
		} else {
			other[name] = objs
		}
	}
	out[otherKey] = other
	return json.Marshal(out)
}
