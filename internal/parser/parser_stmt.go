package parser

import (
	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/token"
)

// parseBlockUntil parses statements until cur matches one of the given
// terminator kinds (without consuming the terminator), producing a Block.
func (p *Parser) parseBlockUntil(terminators ...token.Kind) ast.Stmt {
	start := p.span()
	block := &ast.Block{Span: start}
	for !p.atTerminator(terminators) && !p.curIs(token.EOF) {
		block.Stmts = append(block.Stmts, p.parseStmt())
	}
	return block
}

func (p *Parser) atTerminator(kinds []token.Kind) bool {
	for _, k := range kinds {
		if p.curIs(k) {
			return true
		}
	}
	return false
}

// parseStmtOrBlock parses a single statement body, treating a leading
// `begin` as an explicit block.
func (p *Parser) parseStmtOrBlock() ast.Stmt {
	if p.curIs(token.KW_BEGIN) {
		p.next()
		body := p.parseBlockUntil(token.KW_END)
		p.expect(token.KW_END, "'end'")
		if p.curIs(token.SEMICOLON) {
			p.next()
		}
		return body
	}
	return p.parseStmt()
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case token.KW_BEGIN:
		return p.parseStmtOrBlock()
	case token.KW_IF:
		return p.parseIf()
	case token.KW_WHILE:
		return p.parseWhile()
	case token.KW_REPEAT:
		return p.parseRepeat()
	case token.KW_FOR:
		return p.parseFor()
	case token.KW_CASE:
		return p.parseCase()
	case token.KW_LOOP:
		return p.parseLoop()
	case token.KW_PARALLEL:
		return p.parseParallel()
	case token.KW_BREAK:
		start := p.span()
		p.next()
		p.expect(token.SEMICOLON, "';'")
		return &ast.Break{Span: start}
	case token.KW_CONTINUE:
		start := p.span()
		p.next()
		p.expect(token.SEMICOLON, "';'")
		return &ast.Continue{Span: start}
	case token.KW_RETURN:
		return p.parseReturn()
	case token.KW_TRY:
		return p.parseTry()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseAssignOrExprStmt() ast.Stmt {
	start := p.span()
	lhs := p.parseExpr(LOWEST)
	if p.curIs(token.COLONEQ) {
		p.next()
		rhs := p.parseExpr(LOWEST)
		if !p.curIs(token.KW_ELSE) {
			p.expect(token.SEMICOLON, "';'")
		}
		return &ast.Assign{Target: lhs, Value: rhs, Span: start}
	}
	if !p.curIs(token.KW_ELSE) {
		p.expect(token.SEMICOLON, "';'")
	}
	return &ast.ExprStmt{Expr: lhs, Span: start}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.span()
	p.next() // 'if'
	cond := p.parseExpr(LOWEST)
	p.expect(token.KW_THEN, "'then'")
	then := p.parseStmtOrBlock()
	var els ast.Stmt
	if p.curIs(token.KW_ELSE) {
		p.next()
		els = p.parseStmtOrBlock()
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Span: start}
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.span()
	p.next() // 'while'
	cond := p.parseExpr(LOWEST)
	p.expect(token.KW_DO, "'do'")
	body := p.parseStmtOrBlock()
	return &ast.While{Cond: cond, Body: body, Span: start}
}

func (p *Parser) parseRepeat() ast.Stmt {
	start := p.span()
	p.next() // 'repeat'
	body := p.parseBlockUntil(token.KW_UNTIL)
	p.expect(token.KW_UNTIL, "'until'")
	cond := p.parseExpr(LOWEST)
	p.expect(token.SEMICOLON, "';'")
	return &ast.Repeat{Body: body, Cond: cond, Span: start}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.span()
	p.next() // 'for'
	varName := ""
	if p.curIs(token.IDENT) {
		varName = p.cur.Lexeme
		p.next()
	} else {
		p.errorf(errors.PAR001, "a loop variable")
	}

	if p.curIs(token.KW_IN) {
		p.next()
		arr := p.parseExpr(LOWEST)
		p.expect(token.KW_DO, "'do'")
		body := p.parseStmtOrBlock()
		return &ast.ForIn{Var: varName, Array: arr, Body: body, Span: start}
	}

	p.expect(token.COLONEQ, "':='")
	lo := p.parseExpr(LOWEST)
	descending := false
	if p.curIs(token.KW_DOWNTO) {
		descending = true
		p.next()
	} else {
		p.expect(token.KW_TO, "'to' or 'downto'")
	}
	hi := p.parseExpr(LOWEST)
	p.expect(token.KW_DO, "'do'")
	body := p.parseStmtOrBlock()
	return &ast.ForRange{Var: varName, Lo: lo, Hi: hi, Descending: descending, Body: body, Span: start}
}

func (p *Parser) parseCase() ast.Stmt {
	start := p.span()
	p.next() // 'case'
	subject := p.parseExpr(LOWEST)
	p.expect(token.KW_OF, "'of'")

	c := &ast.Case{Subject: subject, Span: start}
	for !p.curIs(token.KW_END) && !p.curIs(token.EOF) {
		if p.curIs(token.KW_ELSE) {
			p.next()
			p.expect(token.COLON, "':'")
			c.Else = p.parseStmtOrBlock()
			if p.curIs(token.SEMICOLON) {
				p.next()
			}
			continue
		}
		clauseStart := p.span()
		pattern := p.parsePattern()
		p.expect(token.COLON, "':'")
		body := p.parseStmtOrBlock()
		if p.curIs(token.SEMICOLON) {
			p.next()
		}
		c.Clauses = append(c.Clauses, &ast.CaseClause{Pattern: pattern, Body: body, Span: clauseStart})
	}
	p.expect(token.KW_END, "'end'")
	p.expect(token.SEMICOLON, "';'")
	return c
}

func (p *Parser) parsePattern() ast.Pattern {
	start := p.span()
	if p.curIs(token.KW_OK) || p.curIs(token.KW_ERR) {
		name := p.cur.Lexeme
		p.next()
		binding := ""
		if p.curIs(token.LPAREN) {
			p.next()
			if p.curIs(token.IDENT) {
				binding = p.cur.Lexeme
				p.next()
			}
			p.expect(token.RPAREN, "')'")
		}
		return &ast.ConstructorPattern{Name: name, Binding: binding, Span: start}
	}
	val := p.parseExpr(LOWEST)
	return &ast.LiteralPattern{Value: val, Span: start}
}

func (p *Parser) parseLoop() ast.Stmt {
	start := p.span()
	p.next() // 'loop'
	body := p.parseBlockUntil(token.KW_END)
	p.expect(token.KW_END, "'end'")
	p.expect(token.SEMICOLON, "';'")
	return &ast.Loop{Body: body, Span: start}
}

func (p *Parser) parseParallel() ast.Stmt {
	start := p.span()
	p.next() // 'parallel'
	body := p.parseBlockUntil(token.KW_END)
	p.expect(token.KW_END, "'end'")
	p.expect(token.SEMICOLON, "';'")
	return &ast.Parallel{Body: body, Span: start}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.span()
	p.next() // 'return'
	var val ast.Expr
	if !p.curIs(token.SEMICOLON) {
		val = p.parseExpr(LOWEST)
	}
	p.expect(token.SEMICOLON, "';'")
	return &ast.Return{Value: val, Span: start}
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.span()
	p.next() // 'try'
	body := p.parseBlockUntil(token.KW_EXCEPT)
	p.expect(token.KW_EXCEPT, "'except'")
	handler := p.parseBlockUntil(token.KW_END)
	p.expect(token.KW_END, "'end'")
	p.expect(token.SEMICOLON, "';'")
	return &ast.Try{Body: body, Handler: handler, Span: start}
}
