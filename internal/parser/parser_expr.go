package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/lexer"
	"github.com/liminal-lang/liminal/internal/token"
)

func parseIntLexeme(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseRealLexeme(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// parseExpr is the Pratt expression-precedence loop (§4.B).
func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.errorf(errors.PAR001, "an expression")
		p.next()
		return &ast.Literal{Kind: ast.IntLit, Value: 0}
	}
	left := prefix()

	for precedence < precedences[p.cur.Kind] {
		infix, ok := p.infixFns[p.cur.Kind]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.Identifier{Name: tok.Lexeme, Span: tok.Span}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.Literal{Kind: ast.IntLit, Value: parseIntLexeme(tok.Lexeme), Span: tok.Span}
}

func (p *Parser) parseRealLiteral() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.Literal{Kind: ast.RealLit, Value: parseRealLexeme(tok.Lexeme), Span: tok.Span}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.Literal{Kind: ast.StringLit, Value: tok.Lexeme, Span: tok.Span}
}

func (p *Parser) parseCharLiteral() ast.Expr {
	tok := p.cur
	p.next()
	r := rune(0)
	for _, c := range tok.Lexeme {
		r = c
		break
	}
	return &ast.Literal{Kind: ast.CharLit, Value: r, Span: tok.Span}
}

func (p *Parser) parseBytesLiteral() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.Literal{Kind: ast.BytesLit, Value: []byte(tok.Lexeme), Span: tok.Span}
}

func (p *Parser) parseDurationLiteral() ast.Expr {
	tok := p.cur
	p.next()
	d, err := time.ParseDuration(tok.Lexeme)
	if err != nil {
		p.errs = append(p.errs, errors.New("parser", errors.PAR004, "invalid duration literal "+tok.Lexeme, &tok.Span))
	}
	return &ast.Literal{Kind: ast.DurationLit, Value: d, Span: tok.Span}
}

func (p *Parser) parseMoneyLiteral() ast.Expr {
	tok := p.cur
	p.next()
	v, _ := strconv.ParseFloat(strings.TrimPrefix(tok.Lexeme, "$"), 64)
	return &ast.Literal{Kind: ast.MoneyLit, Value: v, Span: tok.Span}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.Literal{Kind: ast.BoolLit, Value: strings.EqualFold(tok.Lexeme, "true"), Span: tok.Span}
}

func (p *Parser) parseNothing() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.Identifier{Name: "nothing", Span: tok.Span}
}

// parseResultConstructor parses `Ok(expr)` / `Err(expr)` used as an
// expression (e.g. a case subject or a return value).
func (p *Parser) parseResultConstructor() ast.Expr {
	tok := p.cur
	name := tok.Lexeme
	p.next()
	var arg ast.Expr
	if p.curIs(token.LPAREN) {
		p.next()
		if !p.curIs(token.RPAREN) {
			arg = p.parseExpr(LOWEST)
		}
		p.expect(token.RPAREN, "')'")
	}
	args := []ast.Expr{}
	if arg != nil {
		args = append(args, arg)
	}
	return &ast.Call{Func: &ast.Identifier{Name: name, Span: tok.Span}, Args: args, Span: tok.Span}
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.cur
	op := strings.ToLower(tok.Lexeme)
	p.next()
	operand := p.parseExpr(UNARY)
	return &ast.Unary{Op: op, Expr: operand, Span: tok.Span}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	tok := p.cur
	op := strings.ToLower(tok.Lexeme)
	precedence := precedences[tok.Kind]
	p.next()
	right := p.parseExpr(precedence)
	return &ast.Binary{Left: left, Op: op, Right: right, Span: tok.Span}
}

func (p *Parser) parseGroupedOrTuple() ast.Expr {
	start := p.span()
	p.next() // '('
	if p.curIs(token.RPAREN) {
		p.next()
		return &ast.TupleExpr{Span: start}
	}
	first := p.parseExpr(LOWEST)
	if p.curIs(token.COMMA) {
		elems := []ast.Expr{first}
		for p.curIs(token.COMMA) {
			p.next()
			elems = append(elems, p.parseExpr(LOWEST))
		}
		p.expect(token.RPAREN, "')'")
		return &ast.TupleExpr{Elems: elems, Span: start}
	}
	p.expect(token.RPAREN, "')'")
	return first
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.span()
	p.next() // '['
	var elems []ast.Expr
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseExpr(LOWEST))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACKET, "']'")
	return &ast.ArrayExpr{Elems: elems, Span: start}
}

func (p *Parser) parseRecordLiteral() ast.Expr {
	start := p.span()
	p.next() // '{'
	var fields []*ast.RecordFieldValue
	for p.curIs(token.IDENT) {
		fstart := p.span()
		name := p.cur.Lexeme
		p.next()
		p.expect(token.COLON, "':'")
		val := p.parseExpr(LOWEST)
		fields = append(fields, &ast.RecordFieldValue{Name: name, Value: val, Span: fstart})
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE, "'}'")
	return &ast.RecordExpr{Fields: fields, Span: start}
}

func (p *Parser) parseFieldAccess(left ast.Expr) ast.Expr {
	start := p.span()
	p.next() // '.'
	if !p.curIs(token.IDENT) {
		p.errorf(errors.PAR001, "a field name")
		return left
	}
	name := p.cur.Lexeme
	p.next()
	return &ast.Field{Base: left, Name: name, Span: start}
}

func (p *Parser) parseCallArgs(fn ast.Expr) ast.Expr {
	start := p.span()
	p.next() // '('
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpr(LOWEST))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN, "')'")
	return &ast.Call{Func: fn, Args: args, Span: start}
}

func (p *Parser) parseIndexOrSlice(base ast.Expr) ast.Expr {
	start := p.span()
	p.next() // '['
	first := p.parseExpr(LOWEST)
	if p.curIs(token.DOTDOT) {
		p.next()
		hi := p.parseExpr(LOWEST)
		p.expect(token.RBRACKET, "']'")
		return &ast.Slice{Base: base, Lo: first, Hi: hi, Span: start}
	}
	p.expect(token.RBRACKET, "']'")
	return &ast.Index{Base: base, Index: first, Span: start}
}

// parseFStringLiteral desugars an f'...' token into a right-associative
// Concat tree: literal segments become StringLit nodes, and `{expr}`
// segments are re-lexed/re-parsed as ordinary expressions (§3, §4.B).
func (p *Parser) parseFStringLiteral() ast.Expr {
	tok := p.cur
	p.next()

	segments := splitFStringSegments(tok.Lexeme)
	var parts []ast.Expr
	for _, seg := range segments {
		if seg.isExpr {
			sub := New(lexer.New(seg.text))
			expr := sub.parseExpr(LOWEST)
			p.errs = append(p.errs, sub.Errors()...)
			parts = append(parts, expr)
		} else if seg.text != "" {
			parts = append(parts, &ast.Literal{Kind: ast.StringLit, Value: seg.text, Span: tok.Span})
		}
	}

	if len(parts) == 0 {
		return &ast.Literal{Kind: ast.StringLit, Value: "", Span: tok.Span}
	}
	result := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		result = &ast.Concat{Left: parts[i], Right: result, Span: tok.Span}
	}
	return result
}

type fstringSegment struct {
	text   string
	isExpr bool
}

// splitFStringSegments splits raw f-string body text (as captured by the
// lexer, braces untouched) into alternating literal/expression segments.
func splitFStringSegments(body string) []fstringSegment {
	var segs []fstringSegment
	var lit strings.Builder
	i := 0
	for i < len(body) {
		c := body[i]
		if c == '{' {
			if lit.Len() > 0 {
				segs = append(segs, fstringSegment{text: lit.String()})
				lit.Reset()
			}
			depth := 1
			start := i + 1
			j := start
			for j < len(body) && depth > 0 {
				if body[j] == '{' {
					depth++
				} else if body[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			segs = append(segs, fstringSegment{text: body[start:j], isExpr: true})
			i = j + 1
			continue
		}
		lit.WriteByte(c)
		i++
	}
	if lit.Len() > 0 {
		segs = append(segs, fstringSegment{text: lit.String()})
	}
	return segs
}
