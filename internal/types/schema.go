package types

import (
	"github.com/liminal-lang/liminal/internal/errors"
)

// JSONSchema renders a Schema as a JSON Schema (Draft 2020-12-compatible
// subset, §4.C): an object with properties, required names, and per-field
// constraints (minimum/maximum/minLength/maxLength/pattern/description).
func (s *Schema) JSONSchema() map[string]any {
	props := map[string]any{}
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = fieldSchema(f)
		required = append(required, f.Name)
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func fieldSchema(f Field) map[string]any {
	m := map[string]any{}
	switch t := unwrap(f.Type).(type) {
	case *Primitive:
		switch t.Name {
		case "Int":
			m["type"] = "integer"
		case "Real":
			m["type"] = "number"
		case "Bool":
			m["type"] = "boolean"
		default:
			m["type"] = "string"
		}
	case *Schema:
		m["type"] = "object"
	case *Record:
		m["type"] = "object"
	case *Enum:
		m["type"] = "integer"
	case *Array:
		m["type"] = "array"
	default:
		m["type"] = "string"
	}

	if f.Min != nil {
		if m["type"] == "string" {
			m["minLength"] = int(*f.Min)
		} else {
			m["minimum"] = *f.Min
		}
	}
	if f.Max != nil {
		if m["type"] == "string" {
			m["maxLength"] = int(*f.Max)
		} else {
			m["maximum"] = *f.Max
		}
	}
	if f.Regex != nil {
		m["pattern"] = *f.Regex
	}
	if f.Description != "" {
		m["description"] = f.Description
	}
	return m
}

// JSONSchemaString renders the schema as deterministic JSON text.
func (s *Schema) JSONSchemaString() (string, error) {
	data, err := errors.MarshalDeterministic(s.JSONSchema())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
