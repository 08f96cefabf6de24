package parser

import (
	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/token"
)

var primitiveNames = map[string]bool{
	"Int": true, "Real": true, "Bool": true, "String": true,
	"Bytes": true, "Char": true, "Byte": true,
}

func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	start := p.span()
	name := p.cur.Lexeme
	p.next()
	p.expect(token.ASSIGN, "'='")
	ty := p.parseTypeBody(name)
	p.expect(token.SEMICOLON, "';'")
	return &ast.TypeDecl{Name: name, Type: ty, Span: start}
}

// parseTypeBody parses the right-hand side of a top-level `types` entry,
// where `record`/`schema`/`enum` keywords introduce a named composite
// rather than appearing only as nested type syntax.
func (p *Parser) parseTypeBody(declName string) ast.Type {
	switch p.cur.Kind {
	case token.KW_RECORD:
		return p.parseRecordType()
	case token.KW_SCHEMA:
		return p.parseSchemaType(declName)
	case token.KW_ENUM:
		return p.parseEnumType()
	default:
		return p.parseType()
	}
}

// parseType parses any type expression (§3), used for var/param/field
// types and for nested composites.
func (p *Parser) parseType() ast.Type {
	base := p.parseTypePrimary()
	for p.curIs(token.QUESTION) {
		start := base.Position()
		p.next()
		base = &ast.OptionalType{Inner: base, Span: start}
	}
	return base
}

func (p *Parser) parseTypePrimary() ast.Type {
	start := p.span()
	switch p.cur.Kind {
	case token.IDENT:
		name := p.cur.Lexeme
		p.next()
		if primitiveNames[name] {
			if p.curIs(token.LPAREN) {
				return p.parseConstraint(&ast.PrimitiveType{Name: name, Span: start})
			}
			return &ast.PrimitiveType{Name: name, Span: start}
		}
		return &ast.NamedType{Name: name, Span: start}
	case token.KW_RESULT:
		p.next()
		p.expect(token.LPAREN, "'('")
		ok := p.parseType()
		var errTy ast.Type
		if p.curIs(token.COMMA) {
			p.next()
			errTy = p.parseType()
		}
		p.expect(token.RPAREN, "')'")
		return &ast.ResultType{Ok: ok, Err: errTy, Span: start}
	case token.LBRACKET:
		p.next()
		elem := p.parseType()
		var length *ast.LengthRange
		if p.curIs(token.SEMICOLON) {
			p.next()
			length = p.parseLengthRange()
		}
		p.expect(token.RBRACKET, "']'")
		return &ast.ArrayType{Elem: elem, Length: length, Span: start}
	case token.LPAREN:
		p.next()
		elems := []ast.Type{p.parseType()}
		for p.curIs(token.COMMA) {
			p.next()
			elems = append(elems, p.parseType())
		}
		p.expect(token.RPAREN, "')'")
		return &ast.TupleType{Elems: elems, Span: start}
	case token.KW_RECORD:
		return p.parseRecordType()
	case token.KW_ENUM:
		return p.parseEnumType()
	default:
		p.errorf(errors.PAR004, "a type")
		p.next()
		return &ast.PrimitiveType{Name: "Unknown", Span: start}
	}
}

func (p *Parser) parseLengthRange() *ast.LengthRange {
	lr := &ast.LengthRange{}
	if p.curIs(token.INT) {
		v := parseIntLexeme(p.cur.Lexeme)
		lr.Min = &v
		p.next()
	}
	if p.curIs(token.DOTDOT) {
		p.next()
		if p.curIs(token.INT) {
			v := parseIntLexeme(p.cur.Lexeme)
			lr.Max = &v
			p.next()
		}
	}
	return lr
}

// parseConstraint parses the `(min: N, max: N, regex: "...")` suffix
// attached to a constrained primitive type.
func (p *Parser) parseConstraint(base ast.Type) ast.Type {
	start := base.Position()
	ct := &ast.ConstrainedType{Base: base, Span: start}
	p.next() // '('
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		key := p.cur.Lexeme
		p.next()
		p.expect(token.COLON, "':'")
		switch key {
		case "min":
			v := p.parseNumberAsFloat()
			ct.Min = &v
		case "max":
			v := p.parseNumberAsFloat()
			ct.Max = &v
		case "regex":
			s := p.cur.Lexeme
			ct.Regex = &s
			p.next()
		default:
			p.next()
		}
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN, "')'")
	return ct
}

func (p *Parser) parseNumberAsFloat() float64 {
	defer p.next()
	switch p.cur.Kind {
	case token.INT:
		return float64(parseIntLexeme(p.cur.Lexeme))
	case token.REAL:
		return parseRealLexeme(p.cur.Lexeme)
	case token.MINUS:
		p.next()
		return -p.parseNumberAsFloat()
	default:
		return 0
	}
}

func (p *Parser) parseRecordType() *ast.RecordType {
	start := p.span()
	p.next() // 'record'
	p.expect(token.LBRACE, "'{'")
	fields := p.parseRecordFields()
	p.expect(token.RBRACE, "'}'")
	return &ast.RecordType{Fields: fields, Span: start}
}

func (p *Parser) parseSchemaType(declName string) *ast.SchemaType {
	start := p.span()
	p.next() // 'schema'
	name := declName
	if p.curIs(token.IDENT) {
		name = p.cur.Lexeme
		p.next()
	}
	p.expect(token.LBRACE, "'{'")
	fields := p.parseRecordFields()
	p.expect(token.RBRACE, "'}'")
	return &ast.SchemaType{Name: name, Fields: fields, Span: start}
}

func (p *Parser) parseEnumType() *ast.EnumType {
	start := p.span()
	p.next() // 'enum'
	p.expect(token.LBRACE, "'{'")
	var names []string
	for p.curIs(token.IDENT) {
		names = append(names, p.cur.Lexeme)
		p.next()
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE, "'}'")
	return &ast.EnumType{Names: names, Span: start}
}

func (p *Parser) parseRecordFields() []*ast.RecordField {
	var fields []*ast.RecordField
	for p.curIs(token.IDENT) {
		fstart := p.span()
		name := p.cur.Lexeme
		p.next()
		p.expect(token.COLON, "':'")
		ty := p.parseType()
		desc := ""
		if p.curIs(token.STRING) {
			desc = p.cur.Lexeme
			p.next()
		}
		p.expect(token.SEMICOLON, "';'")
		fields = append(fields, &ast.RecordField{Name: name, Type: ty, Description: desc, Span: fstart})
	}
	return fields
}
