package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/liminal-lang/liminal/internal/parser"
	"github.com/liminal-lang/liminal/internal/typecheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerSource(t *testing.T, src string) *Program {
	t.Helper()
	prog, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	checker, ok, terrs := typecheck.CheckWithChecker(prog)
	require.True(t, ok, "%v", terrs)
	irProg := Lower(prog, checker.Schemas)
	require.Nil(t, Validate(irProg))
	return irProg
}

func opSeq(fn *Function) []Opcode {
	ops := make([]Opcode, len(fn.Instrs))
	for i, ins := range fn.Instrs {
		ops[i] = ins.Op
	}
	return ops
}

func hasOp(fn *Function, op Opcode) bool {
	for _, ins := range fn.Instrs {
		if ins.Op == op {
			return true
		}
	}
	return false
}

func TestLowerHelloWorldEmitsPrintln(t *testing.T) {
	src := `
program Hello;
begin
  WriteLn('Hello, World!');
end.
`
	p := lowerSource(t, src)
	require.NotNil(t, p.Main)
	assert.True(t, hasOp(p.Main, OpConstString))
	assert.True(t, hasOp(p.Main, OpPrintln))
}

func TestLowerAssignEmitsStoreVar(t *testing.T) {
	src := `
program P;
var x: Int;
begin
  x := 1 + 2;
end.
`
	p := lowerSource(t, src)
	assert.True(t, hasOp(p.Main, OpAdd))
	found := false
	for _, ins := range p.Main.Instrs {
		if ins.Op == OpStoreVar && ins.Str1 == "x" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLowerIfEmitsJumpIfFalse(t *testing.T) {
	src := `
program P;
var x: Int;
begin
  if x = 1 then
    WriteLn('one')
  else
    WriteLn('other');
end.
`
	p := lowerSource(t, src)
	assert.True(t, hasOp(p.Main, OpJumpIfFalse))
	assert.True(t, hasOp(p.Main, OpEq))
}

func TestLowerArithmeticProducesExactOpcodeSequence(t *testing.T) {
	src := `
program P;
var x: Int;
begin
  x := 2 + 3 * 4;
end.
`
	p := lowerSource(t, src)
	want := []Opcode{
		OpConstInt, OpConstInt, OpConstInt, OpMul, OpAdd, OpStoreVar,
	}
	got := opSeq(p.Main)[:len(want)]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("opcode sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerForRangeDescendingUsesGe(t *testing.T) {
	src := `
program P;
begin
  for i := 10 downto 1 do
    WriteLn(i);
end.
`
	p := lowerSource(t, src)
	assert.True(t, hasOp(p.Main, OpGe))
	assert.True(t, hasOp(p.Main, OpSub))
}

func TestLowerForRangeAscendingUsesLe(t *testing.T) {
	src := `
program P;
begin
  for i := 1 to 10 do
    WriteLn(i);
end.
`
	p := lowerSource(t, src)
	assert.True(t, hasOp(p.Main, OpLe))
	assert.True(t, hasOp(p.Main, OpAdd))
}

func TestLowerForInUsesIndexAndLen(t *testing.T) {
	src := `
program P;
var a: [Int];
begin
  for v in a do
    WriteLn(v);
end.
`
	p := lowerSource(t, src)
	assert.True(t, hasOp(p.Main, OpIndex))
	found := false
	for _, ins := range p.Main.Instrs {
		if ins.Op == OpLoadVar && ins.Str1 == "a.len" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLowerCaseWithResultPatternsEmitsUnwrap(t *testing.T) {
	src := `
program P;
var r: Result(String);
begin
  case r of
    Ok(v): WriteLn(v);
    Err(e): WriteLn(e);
  end;
end.
`
	p := lowerSource(t, src)
	assert.True(t, hasOp(p.Main, OpResultIsOk))
	assert.True(t, hasOp(p.Main, OpResultUnwrap))
	assert.True(t, hasOp(p.Main, OpResultUnwrapErr))
}

func TestLowerAskEmitsAskInstruction(t *testing.T) {
	src := `
program P;
oracles
  Assistant;
var r: Result(String);
begin
  r := ask Assistant <- 'hello';
end.
`
	p := lowerSource(t, src)
	found := false
	for _, ins := range p.Main.Instrs {
		if ins.Op == OpAsk && ins.Str1 == "Assistant" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLowerConsultEmitsRetryLoop(t *testing.T) {
	src := `
program P;
oracles
  Assistant;
var r: Result(String);
begin
  r := consult Assistant from 'hello' with attempts: 2 on failure
    retry with hint 'Fix the output'
  end;
end.
`
	p := lowerSource(t, src)
	assert.True(t, hasOp(p.Main, OpAsk))
	assert.True(t, hasOp(p.Main, OpConcat))
	labelCount := 0
	for _, ins := range p.Main.Instrs {
		if ins.Op == OpLabel {
			labelCount++
		}
	}
	assert.GreaterOrEqual(t, labelCount, 3)
}

func TestLowerFunctionsProduceSeparateFunctionEntries(t *testing.T) {
	src := `
program P;
function Add(a, b: Int): Int;
begin
  return a + b;
end;
begin
  WriteLn(Add(1, 2));
end.
`
	p := lowerSource(t, src)
	require.Contains(t, p.Functions, "Add")
	addFn := p.Functions["Add"]
	assert.Equal(t, []string{"a", "b"}, addFn.Params)
	assert.True(t, hasOp(addFn, OpRet))
	assert.True(t, hasOp(p.Main, OpCall))
}

func TestLowerArrayLiteralAssignmentFlattens(t *testing.T) {
	src := `
program P;
var a: [Int];
begin
  a := [1, 2, 3];
end.
`
	p := lowerSource(t, src)
	found := map[string]bool{}
	for _, ins := range p.Main.Instrs {
		if ins.Op == OpStoreVar {
			found[ins.Str1] = true
		}
	}
	assert.True(t, found["a.0"])
	assert.True(t, found["a.1"])
	assert.True(t, found["a.2"])
	assert.True(t, found["a.len"])
}

func TestLowerRecordLiteralAssignmentFlattens(t *testing.T) {
	src := `
program P;
types
  Person = schema { Name: String; Age: Int; };
var p: Person;
begin
  p := {Name: 'Ada', Age: 36};
end.
`
	p := lowerSource(t, src)
	found := map[string]bool{}
	for _, ins := range p.Main.Instrs {
		if ins.Op == OpStoreVar {
			found[ins.Str1] = true
		}
	}
	assert.True(t, found["p.Name"])
	assert.True(t, found["p.Age"])
}
