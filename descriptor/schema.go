package descriptor

import "sort"

// Schema is a named set of field descriptors used to validate an object's
// declared fields. Fields not present in the schema are never checked; the
// schema is a whitelist of checked fields, not an exhaustive shape
// contract.
type Schema struct {
	Name    string
	Version string
	Fields  map[string]*Descriptor
}

// NewSchema creates a schema over the given field descriptors.
func NewSchema(name string, fields map[string]*Descriptor) *Schema {
	if fields == nil {
		fields = make(map[string]*Descriptor)
	}
	return &Schema{Name: name, Fields: fields}
}

// FieldNames returns the declared field names in sorted order. Checks
// iterate fields in this order so the first reported failure is
// deterministic.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize assigns each field's default into data when the key is absent.
// It mutates data in place and returns it; a nil map is replaced by an
// empty one. Normalize performs no validation and is idempotent.
func (s *Schema) Normalize(data map[string]any) map[string]any {
	if data == nil {
		data = make(map[string]any)
	}
	for name, d := range s.Fields {
		def, ok := d.DefaultValue()
		if !ok {
			continue
		}
		if _, exists := data[name]; !exists {
			data[name] = def
		}
	}
	return data
}
