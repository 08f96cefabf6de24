// Package types implements Liminal's semantic type system (§4.C): a
// small structurally-compared type lattice built by the checker from the
// AST's type syntax, plus JSON Schema emission for oracle schemas.
package types

import (
	"fmt"
	"strings"
)

// Type is a semantic type. Unlike the AST's Type nodes, these are
// compared structurally and primitives are shared singletons.
type Type interface {
	String() string
	Equals(Type) bool
}

// Primitive is a built-in scalar type. Instances are shared immutable
// singletons (Int, Real, Bool, String, Bytes, Char, Byte below).
type Primitive struct {
	Name string
}

func (p *Primitive) String() string { return p.Name }
func (p *Primitive) Equals(other Type) bool {
	o := unwrap(other)
	op, ok := o.(*Primitive)
	return ok && op.Name == p.Name
}

// Shared primitive singletons — never allocate a new *Primitive for
// these; always hand out these values.
var (
	Int     = &Primitive{Name: "Int"}
	Real    = &Primitive{Name: "Real"}
	Bool    = &Primitive{Name: "Bool"}
	String  = &Primitive{Name: "String"}
	Bytes   = &Primitive{Name: "Bytes"}
	Char    = &Primitive{Name: "Char"}
	Byte    = &Primitive{Name: "Byte"}
	Unknown = &unknownType{}
)

type unknownType struct{}

func (*unknownType) String() string        { return "Unknown" }
func (*unknownType) Equals(other Type) bool { _, ok := unwrap(other).(*unknownType); return ok }

// PrimitiveByName looks up one of the shared singletons, or nil if name
// does not name a primitive.
func PrimitiveByName(name string) *Primitive {
	switch name {
	case "Int":
		return Int
	case "Real":
		return Real
	case "Bool":
		return Bool
	case "String":
		return String
	case "Bytes":
		return Bytes
	case "Char":
		return Char
	case "Byte":
		return Byte
	default:
		return nil
	}
}

// Array is a homogeneous sequence type.
type Array struct {
	Elem Type
}

func (a *Array) String() string { return fmt.Sprintf("[%s]", a.Elem) }
func (a *Array) Equals(other Type) bool {
	o, ok := unwrap(other).(*Array)
	return ok && a.Elem.Equals(o.Elem)
}

// Tuple is a fixed-size heterogeneous product type.
type Tuple struct {
	Elems []Type
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
func (t *Tuple) Equals(other Type) bool {
	o, ok := unwrap(other).(*Tuple)
	if !ok || len(o.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equals(o.Elems[i]) {
			return false
		}
	}
	return true
}

// Field is one named, typed member of a Record, Schema, or the field
// list the checker binds for a schema's JSON emission.
type Field struct {
	Name        string
	Type        Type
	Description string
	Min, Max    *float64
	Regex       *string
}

// Record is a named product type with field access.
type Record struct {
	Name   string
	Fields []Field
}

func (r *Record) String() string { return r.Name }
func (r *Record) Equals(other Type) bool {
	o, ok := unwrap(other).(*Record)
	return ok && o.Name == r.Name
}
func (r *Record) FieldType(name string) (Type, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Schema is a named record-shaped contract usable as an oracle `into`
// target and emittable as JSON Schema.
type Schema struct {
	Name   string
	Fields []Field
}

func (s *Schema) String() string { return s.Name }
func (s *Schema) Equals(other Type) bool {
	o, ok := unwrap(other).(*Schema)
	return ok && o.Name == s.Name
}
func (s *Schema) FieldType(name string) (Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Enum is a named set of integer-valued variants.
type Enum struct {
	Name     string
	Variants []string
}

func (e *Enum) String() string { return e.Name }
func (e *Enum) Equals(other Type) bool {
	o := unwrap(other)
	if oe, ok := o.(*Enum); ok {
		return oe.Name == e.Name
	}
	// Enum is assignment-compatible with Int (§4.C second equivalence).
	if op, ok := o.(*Primitive); ok {
		return op.Name == "Int"
	}
	return false
}
func (e *Enum) IndexOf(variant string) (int, bool) {
	for i, v := range e.Variants {
		if v == variant {
			return i, true
		}
	}
	return 0, false
}

// Alias names a type that is transparent under structural comparison:
// Alias(name, target).Equals(x) == target.Equals(x) and vice versa.
type Alias struct {
	Name   string
	Target Type
}

func (a *Alias) String() string { return a.Name }
func (a *Alias) Equals(other Type) bool {
	return a.Target.Equals(other)
}

// Optional wraps a type as present-or-absent.
type Optional struct {
	Inner Type
}

func (o *Optional) String() string { return o.Inner.String() + "?" }
func (o *Optional) Equals(other Type) bool {
	oo, ok := unwrap(other).(*Optional)
	return ok && o.Inner.Equals(oo.Inner)
}

// Result is a tagged ok/err type. Err may be Unknown when unspecified in
// source (`Result(Ok)`).
type Result struct {
	Ok  Type
	Err Type
}

func (r *Result) String() string { return fmt.Sprintf("Result(%s, %s)", r.Ok, r.Err) }
func (r *Result) Equals(other Type) bool {
	o, ok := unwrap(other).(*Result)
	if !ok {
		return false
	}
	okMatch := r.Ok.Equals(Unknown) || o.Ok.Equals(Unknown) || r.Ok.Equals(o.Ok)
	errMatch := r.Err.Equals(Unknown) || o.Err.Equals(Unknown) || r.Err.Equals(o.Err)
	return okMatch && errMatch
}

// unwrap strips every level of Alias transparency so Equals implementations
// never need to special-case it themselves.
func unwrap(t Type) Type {
	if a, ok := t.(*Alias); ok {
		return unwrap(a.Target)
	}
	return t
}

// Equal is the free-function form of structural equality, handling Alias
// transparency symmetrically regardless of which side it appears on.
func Equal(a, b Type) bool {
	if alias, ok := a.(*Alias); ok {
		return Equal(alias.Target, b)
	}
	return a.Equals(b)
}
