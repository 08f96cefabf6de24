package types

import (
	"testing"

	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDeclareRecordAndResolveNamedType(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Declare(&ast.TypeDecl{
		Name: "Point",
		Type: &ast.RecordType{Fields: []*ast.RecordField{
			{Name: "X", Type: &ast.PrimitiveType{Name: "Int"}},
			{Name: "Y", Type: &ast.PrimitiveType{Name: "Int"}},
		}},
	})
	require.NoError(t, err)

	resolved, err := reg.Resolve(&ast.NamedType{Name: "Point"})
	require.NoError(t, err)
	rec, ok := resolved.(*Record)
	require.True(t, ok)
	assert.Equal(t, "Point", rec.Name)
	ty, ok := rec.FieldType("X")
	require.True(t, ok)
	assert.True(t, ty.Equals(Int))
}

func TestRegistryDeclareSchema(t *testing.T) {
	reg := NewRegistry()
	desc := "full name"
	_, err := reg.Declare(&ast.TypeDecl{
		Name: "Person",
		Type: &ast.SchemaType{Name: "Person", Fields: []*ast.RecordField{
			{Name: "Name", Type: &ast.PrimitiveType{Name: "String"}, Description: desc},
			{Name: "Age", Type: &ast.PrimitiveType{Name: "Int"}},
		}},
	})
	require.NoError(t, err)

	resolved, ok := reg.Lookup("Person")
	require.True(t, ok)
	schema := resolved.(*Schema)
	m := schema.JSONSchema()
	assert.Equal(t, "object", m["type"])
}

func TestRegistryUndeclaredNameFails(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve(&ast.NamedType{Name: "Nope"})
	assert.Error(t, err)
}

func TestRegistryEnumDeclaration(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Declare(&ast.TypeDecl{
		Name: "Color",
		Type: &ast.EnumType{Names: []string{"Red", "Green", "Blue"}},
	})
	require.NoError(t, err)
	resolved, _ := reg.Lookup("Color")
	enum := resolved.(*Enum)
	idx, ok := enum.IndexOf("Green")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.True(t, enum.Equals(Int))
}

func TestRegistryAliasDeclaration(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Declare(&ast.TypeDecl{Name: "UserId", Type: &ast.PrimitiveType{Name: "Int"}})
	require.NoError(t, err)
	resolved, _ := reg.Lookup("UserId")
	assert.True(t, resolved.Equals(Int))
}
