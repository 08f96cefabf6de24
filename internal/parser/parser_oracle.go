package parser

import (
	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/token"
)

// parseAsk parses `ask Oracle <- Input [into Type] [timeout Expr]
// [else Expr] [with cost]` (§4.B, §5).
func (p *Parser) parseAsk() ast.Expr {
	start := p.span()
	p.next() // 'ask'
	oracle := ""
	if p.curIs(token.IDENT) {
		oracle = p.cur.Lexeme
		p.next()
	} else {
		p.errorf(errors.PAR005, "an oracle name")
	}

	ask := &ast.Ask{Oracle: oracle, Span: start}

	p.expect(token.LARROW, "'<-'")
	ask.Input = p.parseExpr(LOWEST)

	for {
		switch p.cur.Kind {
		case token.KW_INTO:
			p.next()
			ask.Into = p.parseType()
		case token.KW_TIMEOUT:
			p.next()
			ask.Timeout = p.parseExpr(LOWEST)
		case token.KW_ELSE:
			p.next()
			ask.Fallback = p.parseExpr(LOWEST)
		case token.KW_WITH:
			p.next()
			p.expect(token.KW_COST, "'cost'")
			ask.WithCost = true
		default:
			return ask
		}
	}
}

// parseConsult parses `consult Oracle from Input [into Type]
// [with attempts: Expr] [on failure(reason) actions end] [else Expr]`.
func (p *Parser) parseConsult() ast.Expr {
	start := p.span()
	p.next() // 'consult'
	oracle := ""
	if p.curIs(token.IDENT) {
		oracle = p.cur.Lexeme
		p.next()
	} else {
		p.errorf(errors.PAR005, "an oracle name")
	}

	c := &ast.Consult{Oracle: oracle, Span: start}
	p.expect(token.KW_FROM, "'from'")
	c.Input = p.parseExpr(LOWEST)

	for {
		switch p.cur.Kind {
		case token.KW_INTO:
			p.next()
			c.Into = p.parseType()
		case token.KW_WITH:
			p.next()
			p.expect(token.KW_ATTEMPTS, "'attempts'")
			p.expect(token.COLON, "':'")
			c.Attempts = p.parseExpr(LOWEST)
		case token.KW_ON:
			p.next()
			p.expect(token.KW_FAILURE, "'failure'")
			if p.curIs(token.LPAREN) {
				p.next()
				if p.curIs(token.IDENT) {
					p.next()
				}
				p.expect(token.RPAREN, "')'")
			}
			c.OnFailure = p.parseConsultActions()
			p.expect(token.KW_END, "'end'")
		case token.KW_ELSE:
			p.next()
			c.Fallback = p.parseExpr(LOWEST)
		default:
			return c
		}
	}
}

// parseConsultActions parses the body of an `on failure(...) ... end`
// block: a sequence of `retry with hint Expr;` / `yield Expr;` actions.
// Any other leading keyword is consumed up to the next ';' and ignored
// (§9: unknown on-failure actions are consumed but have no effect).
func (p *Parser) parseConsultActions() []*ast.ConsultAction {
	var actions []*ast.ConsultAction
	for !p.curIs(token.KW_END) && !p.curIs(token.EOF) {
		start := p.span()
		switch p.cur.Kind {
		case token.KW_RETRY:
			p.next()
			p.expect(token.KW_WITH, "'with'")
			p.expect(token.KW_HINT, "'hint'")
			hint := p.parseExpr(LOWEST)
			actions = append(actions, &ast.ConsultAction{Kind: "retry", Hint: hint, Span: start})
		case token.KW_YIELD:
			p.next()
			val := p.parseExpr(LOWEST)
			actions = append(actions, &ast.ConsultAction{Kind: "yield", Expr: val, Span: start})
		default:
			for !p.curIs(token.SEMICOLON) && !p.curIs(token.KW_END) && !p.curIs(token.EOF) {
				p.next()
			}
		}
		if p.curIs(token.SEMICOLON) {
			p.next()
		}
	}
	return actions
}

// parseEmbed parses `embed Oracle <- Input`.
func (p *Parser) parseEmbed() ast.Expr {
	start := p.span()
	p.next() // 'embed'
	oracle := ""
	if p.curIs(token.IDENT) {
		oracle = p.cur.Lexeme
		p.next()
	} else {
		p.errorf(errors.PAR005, "an oracle name")
	}
	p.expect(token.LARROW, "'<-'")
	input := p.parseExpr(LOWEST)
	return &ast.Embed{Oracle: oracle, Input: input, Span: start}
}

// parseContext parses `context Expr[.method]*`, a forward-compatible
// annotation with no runtime effect (§9).
func (p *Parser) parseContext() ast.Expr {
	start := p.span()
	p.next() // 'context'
	ctx := p.parseExpr(POSTFIX)
	var methods []string
	for p.curIs(token.DOT) {
		p.next()
		if p.curIs(token.IDENT) {
			methods = append(methods, p.cur.Lexeme)
			p.next()
		}
	}
	return &ast.Context{Ctx: ctx, Methods: methods, Span: start}
}
