package lexer

import (
	"testing"

	"github.com/liminal-lang/liminal/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(src string) []token.Token {
	l := New(src)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

func TestTerminatesWithSingleEOF(t *testing.T) {
	inputs := []string{"", "   ", "program P ; begin end .", "\x00\x01garbage\xff", "'unterminated"}
	for _, in := range inputs {
		toks := allTokens(in)
		require.NotEmpty(t, toks)
		assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
		for _, tok := range toks[:len(toks)-1] {
			assert.NotEqual(t, token.EOF, tok.Kind)
		}
	}
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	for _, src := range []string{"Program", "PROGRAM", "program", "PrOgRaM"} {
		toks := allTokens(src)
		assert.Equal(t, token.KW_PROGRAM, toks[0].Kind)
	}
	for _, src := range []string{"div", "DIV", "Div"} {
		toks := allTokens(src)
		assert.Equal(t, token.KW_DIV, toks[0].Kind)
	}
}

func TestOperators(t *testing.T) {
	toks := allTokens(":= = <> <= >= < > + - * / . .. ( ) [ ] { } , ; : ? !")
	kinds := []token.Kind{
		token.COLONEQ, token.ASSIGN, token.NEQ, token.LTE, token.GTE, token.LT, token.GT,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.DOT, token.DOTDOT,
		token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET, token.LBRACE, token.RBRACE,
		token.COMMA, token.SEMICOLON, token.COLON, token.QUESTION, token.BANG, token.EOF,
	}
	require.Len(t, toks, len(kinds))
	for i, k := range kinds {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestStringEscapesAndCharReclassification(t *testing.T) {
	toks := allTokens(`'hi\n' 'x' b'abc'`)
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hi\n", toks[0].Lexeme)
	assert.Equal(t, token.CHAR, toks[1].Kind)
	assert.Equal(t, token.BYTES, toks[2].Kind)
}

func TestDurationAndMoneyLiterals(t *testing.T) {
	toks := allTokens("500ms 3s 2m 1h $9.99 $5")
	assert.Equal(t, token.DURATION, toks[0].Kind)
	assert.Equal(t, "500ms", toks[0].Lexeme)
	assert.Equal(t, token.DURATION, toks[1].Kind)
	assert.Equal(t, token.DURATION, toks[2].Kind)
	assert.Equal(t, token.DURATION, toks[3].Kind)
	assert.Equal(t, token.MONEY, toks[4].Kind)
	assert.Equal(t, "$9.99", toks[4].Lexeme)
	assert.Equal(t, token.MONEY, toks[5].Kind)
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := allTokens("1 // line comment\n2 /* block\ncomment */ 3")
	var vals []string
	for _, tok := range toks {
		if tok.Kind == token.INT {
			vals = append(vals, tok.Lexeme)
		}
	}
	assert.Equal(t, []string{"1", "2", "3"}, vals)
}

func TestIllegalByteAdvancesCursor(t *testing.T) {
	toks := allTokens("1 \x01 2")
	require.Len(t, toks, 4)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, token.ILLEGAL, toks[1].Kind)
	assert.Equal(t, token.INT, toks[2].Kind)
	assert.Equal(t, token.EOF, toks[3].Kind)
}

func TestFStringCapturesInterpolationBraces(t *testing.T) {
	toks := allTokens(`f'hi {name}, you are {age + 1}'`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.FSTRING, toks[0].Kind)
	assert.Equal(t, "hi {name}, you are {age + 1}", toks[0].Lexeme)
}

func TestSpansAreTracked(t *testing.T) {
	toks := allTokens("ab\ncd")
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, 1, toks[0].Span.Line)
	assert.Equal(t, 2, toks[1].Span.Line)
}
