// Package schemafile loads schema definitions from YAML or JSON
// documents into descriptor schemas.
//
// The file syntax mirrors the descriptor variants:
//
//	schemas:
//	  User:
//	    version: "1.0"
//	    fields:
//	      name: string               # primitive
//	      age: number
//	      tags: [array, string]      # array of element kind
//	      id: [string, number]       # union of kinds
//	      country:                   # long form with modifiers
//	        kind: string
//	        optional: true
//	        default: "NO"
//
// Predicate and instance descriptors are code-level constructs and have
// no file form. Constraint keys such as min, max, or pattern are
// rejected as unknown.
package schemafile

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/typevet/typevet-go/descriptor"
)

type document struct {
	Schemas map[string]schemaDoc `yaml:"schemas"`
}

type schemaDoc struct {
	Version string         `yaml:"version"`
	Fields  map[string]any `yaml:"fields"`
}

// fieldSpec is the long form of a field definition.
type fieldSpec struct {
	Kind     string   `mapstructure:"kind"`
	Elem     string   `mapstructure:"elem"`
	OneOf    []string `mapstructure:"oneOf"`
	Optional bool     `mapstructure:"optional"`
	Default  any      `mapstructure:"default"`
	HasDef   bool     `mapstructure:"-"`
}

// Load reads and parses a schema file.
func Load(path string) (map[string]*descriptor.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}

// Parse parses a schema document. YAML and JSON are both accepted.
func Parse(data []byte) (map[string]*descriptor.Schema, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}
	if len(doc.Schemas) == 0 {
		return nil, fmt.Errorf("schema document declares no schemas")
	}

	schemas := make(map[string]*descriptor.Schema, len(doc.Schemas))
	for name, sd := range doc.Schemas {
		fields := make(map[string]*descriptor.Descriptor, len(sd.Fields))
		for fieldName, raw := range sd.Fields {
			d, err := parseField(raw)
			if err != nil {
				return nil, fmt.Errorf("schema %s, field %s: %w", name, fieldName, err)
			}
			fields[fieldName] = d
		}
		schema := descriptor.NewSchema(name, fields)
		schema.Version = sd.Version
		schemas[name] = schema
	}
	return schemas, nil
}

// parseField builds a descriptor from one field definition.
func parseField(raw any) (*descriptor.Descriptor, error) {
	switch v := raw.(type) {
	case string:
		kind, err := descriptor.ParseKind(v)
		if err != nil {
			return nil, err
		}
		return descriptor.Primitive(kind), nil

	case []any:
		return parseKindList(v)

	case map[string]any:
		return parseLongForm(v)

	default:
		return nil, fmt.Errorf("unsupported field definition of type %T", raw)
	}
}

// parseKindList handles the sequence forms: a two-element list with a
// leading "array" marker is an array descriptor, any other list of kind
// names is a union.
func parseKindList(items []any) (*descriptor.Descriptor, error) {
	names := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("kind list entries must be strings, got %T", item)
		}
		names[i] = s
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("kind list cannot be empty")
	}

	if len(names) == 2 && names[0] == string(descriptor.KindArray) {
		elem, err := descriptor.ParseKind(names[1])
		if err != nil {
			return nil, err
		}
		return descriptor.ArrayOf(elem), nil
	}

	kinds := make([]descriptor.Kind, len(names))
	for i, name := range names {
		kind, err := descriptor.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds[i] = kind
	}
	if len(kinds) == 1 {
		return descriptor.Primitive(kinds[0]), nil
	}
	return descriptor.Union(kinds...), nil
}

func parseLongForm(m map[string]any) (*descriptor.Descriptor, error) {
	var spec fieldSpec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &spec,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("invalid field definition: %w", err)
	}
	_, spec.HasDef = m["default"]

	var d *descriptor.Descriptor
	switch {
	case len(spec.OneOf) > 0:
		if spec.Kind != "" {
			return nil, fmt.Errorf("kind and oneOf are mutually exclusive")
		}
		kinds := make([]descriptor.Kind, len(spec.OneOf))
		for i, name := range spec.OneOf {
			kind, err := descriptor.ParseKind(name)
			if err != nil {
				return nil, err
			}
			kinds[i] = kind
		}
		d = descriptor.Union(kinds...)

	case spec.Kind == string(descriptor.KindArray) && spec.Elem != "":
		elem, err := descriptor.ParseKind(spec.Elem)
		if err != nil {
			return nil, err
		}
		d = descriptor.ArrayOf(elem)

	case spec.Kind != "":
		if spec.Elem != "" {
			return nil, fmt.Errorf("elem is only valid with kind: array")
		}
		kind, err := descriptor.ParseKind(spec.Kind)
		if err != nil {
			return nil, err
		}
		d = descriptor.Primitive(kind)

	default:
		return nil, fmt.Errorf("field definition needs a kind or oneOf")
	}

	if spec.Optional {
		d = d.Optional()
	}
	if spec.HasDef {
		d = d.Default(spec.Default)
	}
	return d, nil
}
