// Package interp executes lowered Liminal programs (§4.E): a flat
// slot array plus a field-path-addressed environment walking an
// ir.Program one instruction at a time.
package interp

import "fmt"

// Value is a runtime value. The IR's slots and environment hold only
// these scalar shapes — arrays and records exist purely as flattened
// named variables (§4.E), never as a Value of their own.
type Value interface {
	Type() string
	String() string
}

// IntValue is a Liminal Int.
type IntValue struct{ V int64 }

func (v IntValue) Type() string   { return "Int" }
func (v IntValue) String() string { return fmt.Sprintf("%d", v.V) }

// RealValue is a Liminal Real.
type RealValue struct{ V float64 }

func (v RealValue) Type() string   { return "Real" }
func (v RealValue) String() string { return fmt.Sprintf("%g", v.V) }

// StringValue is a Liminal String (also used for Char/Bytes, which the
// IR never distinguishes from String at the slot level).
type StringValue struct{ V string }

func (v StringValue) Type() string   { return "String" }
func (v StringValue) String() string { return v.V }

// BoolValue is a Liminal Bool.
type BoolValue struct{ V bool }

func (v BoolValue) Type() string { return "Bool" }
func (v BoolValue) String() string {
	if v.V {
		return "true"
	}
	return "false"
}

// NoneValue is the absent/unset value: the zero value returned by a
// failed lookup, an unset optional, or a dropped construct (§7:
// runtime errors are "silently defaulted to an empty/zero value").
type NoneValue struct{}

func (NoneValue) Type() string   { return "None" }
func (NoneValue) String() string { return "" }

// ResultValue is the runtime shape of Ok(...)/Err(...) (§4.E). Payload
// always holds text: oracle responses are inherently textual, and
// result-unwrap/result-unwrap-err are specified to yield strings, so
// Liminal's Result is uniformly a tagged string rather than a tagged
// arbitrary value.
type ResultValue struct {
	OK      bool
	Payload string
}

func (v ResultValue) Type() string { return "Result" }
func (v ResultValue) String() string {
	if v.OK {
		return "Ok(" + v.Payload + ")"
	}
	return "Err(" + v.Payload + ")"
}

// RefValue marks that the variable it's stored under is an alias for
// another variable's flattened field-path namespace (§4.E addressing
// model: "the base variable is consulted for a reference-name alias").
// It's produced when a bare identifier names a composite (record/array)
// variable that has no value of its own, only flattened descendants,
// and it's what lets a function parameter bound to such an identifier
// resolve `param.Field` against the caller's actual storage.
type RefValue struct{ Base string }

func (v RefValue) Type() string   { return "Ref" }
func (v RefValue) String() string { return "" }

// Truthy implements the "boolean truthy check" for non-bool operands
// used by and/or/not and jump-if-false (§4.E): non-zero number,
// non-empty string, an Ok result, otherwise false.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case BoolValue:
		return t.V
	case IntValue:
		return t.V != 0
	case RealValue:
		return t.V != 0
	case StringValue:
		return t.V != ""
	case ResultValue:
		return t.OK
	default:
		return false
	}
}

// numeric reports v's value as a float64 and whether v is Int or Real.
func numeric(v Value) (float64, bool) {
	switch t := v.(type) {
	case IntValue:
		return float64(t.V), true
	case RealValue:
		return t.V, true
	default:
		return 0, false
	}
}

// bothInt reports whether a and b are both IntValue, for arithmetic
// that must stay integral (Div/Mod truncate; a Real operand promotes
// the whole expression to Real).
func bothInt(a, b Value) (int64, int64, bool) {
	ai, aok := a.(IntValue)
	bi, bok := b.(IntValue)
	if aok && bok {
		return ai.V, bi.V, true
	}
	return 0, 0, false
}
