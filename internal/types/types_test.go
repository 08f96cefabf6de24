package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimitiveSingletonsShared(t *testing.T) {
	assert.True(t, Int == PrimitiveByName("Int"))
	assert.True(t, Int.Equals(Int))
	assert.False(t, Int.Equals(Real))
}

func TestAliasIsTransparent(t *testing.T) {
	alias := &Alias{Name: "UserId", Target: Int}
	assert.True(t, alias.Equals(Int))
	assert.True(t, Equal(Int, alias))
	assert.True(t, Equal(alias, Int))
}

func TestEnumAssignmentCompatibleWithInt(t *testing.T) {
	e := &Enum{Name: "Color", Variants: []string{"Red", "Green", "Blue"}}
	assert.True(t, e.Equals(Int))
	assert.False(t, Int.Equals(e)) // relaxation is carried on the Enum side, per §4.C
}

func TestArrayAndTupleStructuralEquality(t *testing.T) {
	a1 := &Array{Elem: Int}
	a2 := &Array{Elem: Int}
	a3 := &Array{Elem: String}
	assert.True(t, a1.Equals(a2))
	assert.False(t, a1.Equals(a3))

	t1 := &Tuple{Elems: []Type{Int, String}}
	t2 := &Tuple{Elems: []Type{Int, String}}
	t3 := &Tuple{Elems: []Type{Int}}
	assert.True(t, t1.Equals(t2))
	assert.False(t, t1.Equals(t3))
}

func TestResultUnknownSidesPermitted(t *testing.T) {
	concrete := &Result{Ok: String, Err: String}
	partial := &Result{Ok: Unknown, Err: Unknown}
	assert.True(t, concrete.Equals(partial))
	assert.True(t, partial.Equals(concrete))
}

func TestOptionalEquality(t *testing.T) {
	o1 := &Optional{Inner: Int}
	o2 := &Optional{Inner: Int}
	assert.True(t, o1.Equals(o2))
}

func TestRecordAndSchemaFieldLookup(t *testing.T) {
	rec := &Record{Name: "Point", Fields: []Field{{Name: "X", Type: Int}, {Name: "Y", Type: Int}}}
	ty, ok := rec.FieldType("X")
	assert.True(t, ok)
	assert.True(t, ty.Equals(Int))
	_, ok = rec.FieldType("Z")
	assert.False(t, ok)

	schema := &Schema{Name: "Person", Fields: []Field{{Name: "Name", Type: String}}}
	assert.True(t, schema.Equals(&Schema{Name: "Person"}))
	assert.False(t, schema.Equals(&Schema{Name: "Other"}))
}
