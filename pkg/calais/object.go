package calais

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Well-known fields of analysis objects.
const (
	FieldTypeGroup = "_typeGroup"
	FieldURI       = "_uri"
	FieldType      = "_type"
	FieldName      = "name"
	FieldRelevance = "relevance"
)

// Object is one normalized, read-only entry of an analysis response.
// Its zero value is an empty object.
type Object struct {
	fields map[string]interface{}
}

// NewObject builds an Object from a copy of fields.
func NewObject(fields map[string]interface{}) Object {
	return Object{fields: copyMap(fields)}
}

// Field returns the string form of a scalar field. It reports false when the
// field is missing, null, a list or a nested object.
func (o Object) Field(name string) (string, bool) {
	switch v := o.fields[name].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

// List returns a copy of a list-valued field. Any other value reports false.
func (o Object) List(name string) ([]interface{}, bool) {
	v, ok := o.fields[name].([]interface{})
	if !ok {
		return nil, false
	}
	return copySlice(v), true
}

// Ref follows an inlined cross-reference, i.e. a field whose value is
// another entry of the same response.
func (o Object) Ref(name string) (Object, bool) {
	v, ok := o.fields[name].(map[string]interface{})
	if !ok {
		return Object{}, false
	}
	return NewObject(v), true
}

// Has reports whether the field is present, whatever its type.
func (o Object) Has(name string) bool {
	_, ok := o.fields[name]
	return ok
}

// URI is the key this object had in the raw response.
func (o Object) URI() string {
	s, _ := o.Field(FieldURI)
	return s
}

// TypeGroup is the group discriminator the service assigned to the object.
func (o Object) TypeGroup() string {
	s, _ := o.fields[FieldTypeGroup].(string)
	return s
}

// Type is the service type, e.g. "Person" or "Company".
func (o Object) Type() string {
	s, _ := o.fields[FieldType].(string)
	return s
}

func (o Object) Name() string {
	s, _ := o.fields[FieldName].(string)
	return s
}

// Relevance reports the relevance score when the service computed one.
func (o Object) Relevance() (float64, bool) {
	f, ok := o.fields[FieldRelevance].(float64)
	return f, ok
}

// Keys returns the field names in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o Object) Len() int {
	return len(o.fields)
}

// Map returns a deep copy of the backing fields.
func (o Object) Map() map[string]interface{} {
	return copyMap(o.fields)
}

func (o Object) MarshalJSON() ([]byte, error) {
	if o.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.fields)
}

func (o Object) String() string {
	b, err := o.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copySlice(s []interface{}) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyMap(t)
	case []interface{}:
		return copySlice(t)
	default:
		return v
	}
}
