package typecheck

import (
	"testing"

	"github.com/liminal-lang/liminal/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHelloWorldIsClean(t *testing.T) {
	src := `
program Hello;
begin
  WriteLn('Hello, World!');
end.
`
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	ok, errs := Check(prog)
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestCheckUndeclaredIdentifierIsReported(t *testing.T) {
	src := `
program P;
begin
  WriteLn(Missing);
end.
`
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	ok, errs := Check(prog)
	assert.False(t, ok)
	require.NotEmpty(t, errs)
	assert.Equal(t, "TYP001", errs[0].Code)
}

func TestCheckAssignmentIncompatibilityIsReported(t *testing.T) {
	src := `
program P;
var x: Int;
begin
  x := 'hello';
end.
`
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	ok, errs := Check(prog)
	assert.False(t, ok)
	found := false
	for _, e := range errs {
		if e.Code == "TYP002" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckEnumAssignableToInt(t *testing.T) {
	src := `
program P;
types
  Color = enum { Red, Green, Blue };
var c: Color;
begin
  c := 1;
end.
`
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	ok, errs := Check(prog)
	assert.True(t, ok, "%v", errs)
}

func TestCheckSchemaFieldAccess(t *testing.T) {
	src := `
program P;
types
  Person = schema { Name: String; Age: Int; };
var p: Person;
begin
  WriteLn(p.Name);
end.
`
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	ok, errs := Check(prog)
	assert.True(t, ok, "%v", errs)
}

func TestCheckFunctionCallArityMismatch(t *testing.T) {
	src := `
program P;
function Add(a, b: Int): Int;
begin
  return a + b;
end;
begin
  WriteLn(Add(1));
end.
`
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	ok, errs := Check(prog)
	assert.False(t, ok)
	assert.Equal(t, "TYP005", errs[0].Code)
}

func TestCheckAskIntoSchemaYieldsSchemaResult(t *testing.T) {
	src := `
program P;
types
  Person = schema { Name: String; };
oracles
  Assistant;
var r: Result(Person);
begin
  r := ask Assistant <- 'hi' into Person;
end.
`
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	ok, errs := Check(prog)
	assert.True(t, ok, "%v", errs)
}

func TestCheckBreakOutsideLoopIsReported(t *testing.T) {
	src := `
program P;
begin
  break;
end.
`
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	ok, errs := Check(prog)
	assert.False(t, ok)
	assert.NotEmpty(t, errs)
}
