package parser

import "github.com/liminal-lang/liminal/internal/lexer"

func newTestLexer(src string) *lexer.Lexer {
	return lexer.New(string(lexer.Normalize([]byte(src))))
}
