// Package parser implements Liminal's recursive-descent, one-token
// lookahead parser with Pratt expression precedence (§4.B).
package parser

import (
	"fmt"

	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/lexer"
	"github.com/liminal-lang/liminal/internal/token"
)

// Parser turns a token stream into an AST. It never aborts: on an
// unexpected token it records a diagnostic, consumes the offending token,
// and keeps going so the caller always gets a (possibly partial) tree
// plus an ordered error list (§4.B error policy).
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errs []*errors.Report

	prefixFns map[token.Kind]func() ast.Expr
	infixFns  map[token.Kind]func(ast.Expr) ast.Expr
}

// Precedence levels, lowest to highest (§4.B).
const (
	LOWEST int = iota
	OR
	AND
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
)

var precedences = map[token.Kind]int{
	token.KW_OR:  OR,
	token.KW_AND: AND,

	token.ASSIGN: COMPARISON,
	token.NEQ:    COMPARISON,
	token.LT:     COMPARISON,
	token.GT:     COMPARISON,
	token.LTE:    COMPARISON,
	token.GTE:    COMPARISON,

	token.PLUS:  ADDITIVE,
	token.MINUS: ADDITIVE,

	token.STAR:   MULTIPLICATIVE,
	token.SLASH:  MULTIPLICATIVE,
	token.KW_DIV: MULTIPLICATIVE,
	token.KW_MOD: MULTIPLICATIVE,

	token.DOT:      POSTFIX,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
}

// New creates a Parser over an already-constructed Lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.prefixFns = map[token.Kind]func() ast.Expr{}
	p.infixFns = map[token.Kind]func(ast.Expr) ast.Expr{}

	p.prefixFns[token.IDENT] = p.parseIdentifier
	p.prefixFns[token.INT] = p.parseIntLiteral
	p.prefixFns[token.REAL] = p.parseRealLiteral
	p.prefixFns[token.STRING] = p.parseStringLiteral
	p.prefixFns[token.CHAR] = p.parseCharLiteral
	p.prefixFns[token.BYTES] = p.parseBytesLiteral
	p.prefixFns[token.FSTRING] = p.parseFStringLiteral
	p.prefixFns[token.DURATION] = p.parseDurationLiteral
	p.prefixFns[token.MONEY] = p.parseMoneyLiteral
	p.prefixFns[token.BOOL] = p.parseBoolLiteral
	p.prefixFns[token.MINUS] = p.parseUnary
	p.prefixFns[token.KW_NOT] = p.parseUnary
	p.prefixFns[token.LPAREN] = p.parseGroupedOrTuple
	p.prefixFns[token.LBRACKET] = p.parseArrayLiteral
	p.prefixFns[token.LBRACE] = p.parseRecordLiteral
	p.prefixFns[token.KW_ASK] = p.parseAsk
	p.prefixFns[token.KW_CONSULT] = p.parseConsult
	p.prefixFns[token.KW_EMBED] = p.parseEmbed
	p.prefixFns[token.KW_CONTEXT] = p.parseContext
	p.prefixFns[token.KW_NOTHING] = p.parseNothing
	p.prefixFns[token.KW_OK] = p.parseResultConstructor
	p.prefixFns[token.KW_ERR] = p.parseResultConstructor

	infix := func(k token.Kind) {
		p.infixFns[k] = p.parseBinary
	}
	infix(token.KW_OR)
	infix(token.KW_AND)
	infix(token.ASSIGN)
	infix(token.NEQ)
	infix(token.LT)
	infix(token.GT)
	infix(token.LTE)
	infix(token.GTE)
	infix(token.PLUS)
	infix(token.MINUS)
	infix(token.STAR)
	infix(token.SLASH)
	infix(token.KW_DIV)
	infix(token.KW_MOD)
	p.infixFns[token.DOT] = p.parseFieldAccess
	p.infixFns[token.LPAREN] = p.parseCallArgs
	p.infixFns[token.LBRACKET] = p.parseIndexOrSlice

	p.next()
	p.next()
	return p
}

// Errors returns every diagnostic recorded during parsing, in source
// order.
func (p *Parser) Errors() []*errors.Report { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) span() token.Span { return p.cur.Span }

func (p *Parser) errorf(code string, expected string) {
	msg := fmt.Sprintf("expected %s, got %s %q", expected, p.cur.Kind, p.cur.Lexeme)
	span := p.cur.Span
	p.errs = append(p.errs, errors.New("parser", code, msg, &span))
}

// expect consumes cur if it matches k; otherwise records a diagnostic and
// still consumes the offending token to make progress.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	tok := p.cur
	if p.cur.Kind != k {
		p.errorf(errors.PAR001, what)
		p.next()
		return tok
	}
	p.next()
	return tok
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

// Parse parses a complete program. Parse errors never abort; Parse
// always returns a (possibly partial) *ast.Program.
func Parse(src string) (*ast.Program, []*errors.Report) {
	normalized := lexer.Normalize([]byte(src))
	l := lexer.New(string(normalized))
	p := New(l)
	prog := p.parseProgram()
	return prog, p.Errors()
}

func (p *Parser) parseProgram() *ast.Program {
	start := p.span()
	prog := &ast.Program{}

	p.expect(token.KW_PROGRAM, "'program'")
	if p.curIs(token.IDENT) {
		prog.Name = p.cur.Lexeme
		p.next()
	} else {
		p.errorf(errors.PAR003, "program name")
	}
	p.expect(token.SEMICOLON, "';'")

	if p.curIs(token.KW_USES) {
		p.next()
		for p.curIs(token.IDENT) {
			prog.Uses = append(prog.Uses, p.cur.Lexeme)
			p.next()
			if p.curIs(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.SEMICOLON, "';'")
	}

	if p.curIs(token.KW_CONFIG) {
		p.next()
		for p.curIs(token.IDENT) {
			prog.Config = append(prog.Config, p.parseConfigItem())
		}
	}

	if p.curIs(token.KW_TYPES) {
		p.next()
		for p.curIs(token.IDENT) {
			prog.Types = append(prog.Types, p.parseTypeDecl())
		}
	}

	if p.curIs(token.KW_ORACLES) {
		p.next()
		for p.curIs(token.IDENT) {
			oSpan := p.span()
			name := p.cur.Lexeme
			p.next()
			p.expect(token.SEMICOLON, "';'")
			prog.Oracles = append(prog.Oracles, &ast.OracleDecl{Name: name, Span: oSpan})
		}
	}

	if p.curIs(token.KW_VAR) {
		p.next()
		for p.curIs(token.IDENT) {
			prog.Vars = append(prog.Vars, p.parseVarDecl())
		}
	}

	for p.curIs(token.KW_FUNCTION) {
		prog.Funcs = append(prog.Funcs, p.parseFuncDecl())
	}

	p.expect(token.KW_BEGIN, "'begin'")
	prog.Body = p.parseBlockUntil(token.KW_END)
	p.expect(token.KW_END, "'end'")
	p.expect(token.DOT, "'.'")

	prog.Span = start
	return prog
}

func (p *Parser) parseConfigItem() *ast.ConfigItem {
	start := p.span()
	name := p.cur.Lexeme
	p.next()
	p.expect(token.COLON, "':'")
	value := p.parseExpr(LOWEST)
	p.expect(token.SEMICOLON, "';'")
	return &ast.ConfigItem{Name: name, Value: value, Span: start}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.span()
	names := []string{p.cur.Lexeme}
	p.next()
	for p.curIs(token.COMMA) {
		p.next()
		if p.curIs(token.IDENT) {
			names = append(names, p.cur.Lexeme)
			p.next()
		}
	}
	p.expect(token.COLON, "':'")
	ty := p.parseType()
	p.expect(token.SEMICOLON, "';'")
	return &ast.VarDecl{Names: names, Type: ty, Span: start}
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.span()
	p.next() // 'function'
	name := ""
	if p.curIs(token.IDENT) {
		name = p.cur.Lexeme
		p.next()
	} else {
		p.errorf(errors.PAR003, "function name")
	}

	var params []*ast.Param
	p.expect(token.LPAREN, "'('")
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		group := []string{}
		for p.curIs(token.IDENT) {
			group = append(group, p.cur.Lexeme)
			p.next()
			if p.curIs(token.COMMA) {
				p.next()
			} else {
				break
			}
		}
		p.expect(token.COLON, "':'")
		ty := p.parseType()
		for _, n := range group {
			params = append(params, &ast.Param{Name: n, Type: ty})
		}
		if p.curIs(token.SEMICOLON) {
			p.next()
		}
	}
	p.expect(token.RPAREN, "')'")
	p.expect(token.COLON, "':'")
	resultType := p.parseType()
	p.expect(token.SEMICOLON, "';'")

	var locals []*ast.VarDecl
	if p.curIs(token.KW_VAR) {
		p.next()
		for p.curIs(token.IDENT) {
			locals = append(locals, p.parseVarDecl())
		}
	}

	p.expect(token.KW_BEGIN, "'begin'")
	body := p.parseBlockUntil(token.KW_END)
	p.expect(token.KW_END, "'end'")
	p.expect(token.SEMICOLON, "';'")

	return &ast.FuncDecl{Name: name, Params: params, ResultType: resultType, Locals: locals, Body: body, Span: start}
}
