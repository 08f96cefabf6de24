package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/liminal-lang/liminal/internal/types"
)

// ValidateSchema checks that text parses as a single flat JSON object
// whose fields satisfy schema (§4.F): every field present; String
// fields are JSON strings; Int fields are JSON numbers written without
// a decimal point or exponent; Real fields are JSON numbers; Bool fields
// are JSON booleans. Arrays and nested objects are rejected — the object
// must be flat. Returns an error naming the offending field or shape on
// failure.
func ValidateSchema(text string, schema *types.Schema) error {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("response is not a JSON object: %s", err)
	}

	// The object must be flat, full stop: any key's value that is itself
	// an array or object fails the parse, whether or not that key is
	// declared in schema (ground truth: validate_json_against_schema in
	// the original C implementation parses object values as only
	// string/number/bool and fails the whole object on anything else).
	for key, val := range raw {
		var generic any
		if err := json.Unmarshal(val, &generic); err != nil {
			return fmt.Errorf("field %q: invalid JSON value", key)
		}
		switch generic.(type) {
		case []any, map[string]any:
			return fmt.Errorf("field %q: nested arrays/objects are not permitted in oracle responses", key)
		}
	}

	for _, f := range schema.Fields {
		val, ok := raw[f.Name]
		if !ok {
			return fmt.Errorf("missing field %q", f.Name)
		}
		if err := validateField(f, val); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

func validateField(f types.Field, val json.RawMessage) error {
	var generic any
	if err := json.Unmarshal(val, &generic); err != nil {
		return fmt.Errorf("invalid JSON value")
	}

	prim, _ := unwrapPrimitive(f.Type)
	switch prim {
	case "String", "Char", "Bytes":
		if _, ok := generic.(string); !ok {
			return fmt.Errorf("expected a string")
		}
	case "Bool":
		if _, ok := generic.(bool); !ok {
			return fmt.Errorf("expected a boolean")
		}
	case "Int":
		n, ok := generic.(float64)
		if !ok {
			return fmt.Errorf("expected a number")
		}
		if hasFraction(val) {
			return fmt.Errorf("expected an integer, got a fractional number %v", n)
		}
	case "Real":
		if _, ok := generic.(float64); !ok {
			return fmt.Errorf("expected a number")
		}
	default:
		switch generic.(type) {
		case []any, map[string]any:
			return fmt.Errorf("nested arrays/objects are not permitted in oracle responses")
		}
	}
	return nil
}

// hasFraction reports whether a JSON number literal's raw text contains
// a decimal point or exponent — the schema's Int/Real distinction is a
// lexical one, not a value-range one (§4.F).
func hasFraction(raw json.RawMessage) bool {
	for _, b := range raw {
		if b == '.' || b == 'e' || b == 'E' {
			return true
		}
	}
	return false
}

func unwrapPrimitive(t types.Type) (string, bool) {
	if p, ok := t.(*types.Primitive); ok {
		return p.Name, true
	}
	return "", false
}
