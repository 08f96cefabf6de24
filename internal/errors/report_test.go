package errors

import (
	"testing"

	"github.com/liminal-lang/liminal/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRoundTripsThroughErrorsAs(t *testing.T) {
	span := token.Span{Line: 3, Column: 5}
	rep := New("parser", PAR001, "unexpected token", &span).WithData("near", "func")

	var err error = rep.Err()
	got, ok := AsReport(err)
	require.True(t, ok)
	assert.Equal(t, rep, got)
}

func TestToJSONIsDeterministic(t *testing.T) {
	rep := New("typecheck", TYP001, "undeclared identifier", nil).
		WithData("b", 2).
		WithData("a", 1)

	first, err := rep.ToJSON()
	require.NoError(t, err)
	second, err := rep.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, `"a":1`)
	assert.Less(t, indexOf(first, `"a"`), indexOf(first, `"b"`))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
