package parser

import (
	"testing"

	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExprString(t *testing.T, src string) ast.Expr {
	t.Helper()
	l := newTestLexer(src)
	p := New(l)
	expr := p.parseExpr(LOWEST)
	require.Empty(t, p.Errors())
	return expr
}

func TestOperatorPrecedenceClimbing(t *testing.T) {
	expr := parseExprString(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestAndBindsTighterThanOr(t *testing.T) {
	expr := parseExprString(t, "a or b and c")
	bin := expr.(*ast.Binary)
	assert.Equal(t, "or", bin.Op)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "and", rhs.Op)
}

func TestUnaryNotAndMinus(t *testing.T) {
	expr := parseExprString(t, "not a = b")
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "=", bin.Op)
	un, ok := bin.Left.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, "not", un.Op)
}

func TestPostfixChaining(t *testing.T) {
	expr := parseExprString(t, "a.b[0](1, 2)")
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	idx, ok := call.Func.(*ast.Index)
	require.True(t, ok)
	field, ok := idx.Base.(*ast.Field)
	require.True(t, ok)
	assert.Equal(t, "b", field.Name)
}

func TestTupleAndArrayAndRecordLiterals(t *testing.T) {
	tup := parseExprString(t, "(1, 2, 3)")
	te, ok := tup.(*ast.TupleExpr)
	require.True(t, ok)
	assert.Len(t, te.Elems, 3)

	arr := parseExprString(t, "[1, 2, 3]")
	ae, ok := arr.(*ast.ArrayExpr)
	require.True(t, ok)
	assert.Len(t, ae.Elems, 3)

	rec := parseExprString(t, "{Name: 'Bob', Age: 30}")
	re, ok := rec.(*ast.RecordExpr)
	require.True(t, ok)
	assert.Len(t, re.Fields, 2)
}

func TestParenthesizedSingleExprIsNotATuple(t *testing.T) {
	expr := parseExprString(t, "(1 + 2)")
	_, isTuple := expr.(*ast.TupleExpr)
	assert.False(t, isTuple)
	_, isBinary := expr.(*ast.Binary)
	assert.True(t, isBinary)
}

func TestSliceExpression(t *testing.T) {
	expr := parseExprString(t, "a[1..3]")
	sl, ok := expr.(*ast.Slice)
	require.True(t, ok)
	assert.NotNil(t, sl.Lo)
	assert.NotNil(t, sl.Hi)
}

func TestFStringDesugarsToConcat(t *testing.T) {
	expr := parseExprString(t, `f'hello {name}, you are {age} years old'`)
	concat, ok := expr.(*ast.Concat)
	require.True(t, ok)
	lit, ok := concat.Left.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "hello ", lit.Value)
}

func TestFStringNoInterpolationIsPlainLiteral(t *testing.T) {
	expr := parseExprString(t, `f'just text'`)
	lit, ok := expr.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "just text", lit.Value)
}

func TestAskExpression(t *testing.T) {
	expr := parseExprString(t, "ask Assistant <- 'hi' into Person else 'fallback'")
	ask, ok := expr.(*ast.Ask)
	require.True(t, ok)
	assert.Equal(t, "Assistant", ask.Oracle)
	assert.NotNil(t, ask.Into)
	assert.NotNil(t, ask.Fallback)
}

func TestConsultExpressionWithOnFailure(t *testing.T) {
	expr := parseExprString(t, `consult Assistant from 'p' into Person with attempts: 2 on failure (reason) retry with hint 'fix'; end`)
	c, ok := expr.(*ast.Consult)
	require.True(t, ok)
	assert.Equal(t, "Assistant", c.Oracle)
	require.NotNil(t, c.Attempts)
	require.Len(t, c.OnFailure, 1)
	assert.Equal(t, "retry", c.OnFailure[0].Kind)
}

func TestEmbedExpression(t *testing.T) {
	expr := parseExprString(t, "embed Assistant <- 'text'")
	e, ok := expr.(*ast.Embed)
	require.True(t, ok)
	assert.Equal(t, "Assistant", e.Oracle)
}
