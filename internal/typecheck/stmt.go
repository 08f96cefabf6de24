package typecheck

import (
	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/types"
)

// checkBody checks one statement (typically a Block) in scope. loop is
// non-nil while inside a loop body, so break/continue can be validated.
func (c *Checker) checkBody(s ast.Stmt, scope *Scope, loop *loopCtx) {
	switch n := s.(type) {
	case nil:
		return
	case *ast.Block:
		for _, stmt := range n.Stmts {
			c.checkBody(stmt, scope, loop)
		}
	case *ast.Assign:
		c.checkAssign(n, scope)
	case *ast.ExprStmt:
		c.checkExpr(n.Expr, scope)
	case *ast.If:
		c.checkExpr(n.Cond, scope)
		c.checkBody(n.Then, scope, loop)
		c.checkBody(n.Else, scope, loop)
	case *ast.While:
		c.checkExpr(n.Cond, scope)
		c.checkBody(n.Body, scope, &loopCtx{depth: loopDepth(loop) + 1})
	case *ast.Repeat:
		c.checkBody(n.Body, scope, &loopCtx{depth: loopDepth(loop) + 1})
		c.checkExpr(n.Cond, scope)
	case *ast.ForRange:
		if _, ok := scope.lookup(n.Var); !ok {
			scope.define(n.Var, types.Int)
		}
		c.checkExpr(n.Lo, scope)
		c.checkExpr(n.Hi, scope)
		c.checkBody(n.Body, scope, &loopCtx{depth: loopDepth(loop) + 1})
	case *ast.ForIn:
		arrTy := c.checkExpr(n.Array, scope)
		elemTy := types.Type(types.Unknown)
		if arr, ok := arrTy.(*types.Array); ok {
			elemTy = arr.Elem
		}
		if _, ok := scope.lookup(n.Var); !ok {
			scope.define(n.Var, elemTy)
		}
		c.checkBody(n.Body, scope, &loopCtx{depth: loopDepth(loop) + 1})
	case *ast.Case:
		c.checkExpr(n.Subject, scope)
		for _, clause := range n.Clauses {
			clauseScope := newScope(scope)
			c.checkPattern(clause.Pattern, n.Subject, clauseScope)
			c.checkBody(clause.Body, clauseScope, loop)
		}
		c.checkBody(n.Else, scope, loop)
	case *ast.Loop:
		c.checkBody(n.Body, scope, &loopCtx{depth: loopDepth(loop) + 1})
	case *ast.Parallel:
		c.checkBody(n.Body, scope, loop)
	case *ast.Break:
		if loop == nil {
			c.errorf(errors.TYP005, n.Span, "break outside a loop")
		}
	case *ast.Continue:
		if loop == nil {
			c.errorf(errors.TYP005, n.Span, "continue outside a loop")
		}
	case *ast.Return:
		if n.Value != nil {
			c.checkExpr(n.Value, scope)
		}
	case *ast.Try:
		c.checkBody(n.Body, scope, loop)
		c.checkBody(n.Handler, scope, loop)
	default:
	}
}

func loopDepth(l *loopCtx) int {
	if l == nil {
		return 0
	}
	return l.depth
}

func (c *Checker) checkPattern(pat ast.Pattern, subject ast.Expr, scope *Scope) {
	switch p := pat.(type) {
	case *ast.ConstructorPattern:
		subjTy := c.checkExpr(subject, scope)
		result, ok := subjTy.(*types.Result)
		if !ok {
			return
		}
		if p.Binding == "" {
			return
		}
		if p.Name == "Ok" {
			scope.define(p.Binding, result.Ok)
		} else {
			scope.define(p.Binding, result.Err)
		}
	case *ast.LiteralPattern:
		c.checkExpr(p.Value, scope)
	}
}

// checkAssign implements §4.D's assignment-compatibility relaxations:
// structural equality, plus String ← Char, Optional(T) ← T|Optional(T),
// Result(?, ?) permissiveness, and Enum ↔ Int. An anonymous record
// literal is also assignable to a record or schema whose fields it
// matches by name and assignable type.
func (c *Checker) checkAssign(a *ast.Assign, scope *Scope) {
	rhsTy := c.checkExpr(a.Value, scope)
	lhsTy := c.checkExpr(a.Target, scope)

	if lhsTy == nil || rhsTy == nil {
		return
	}
	if assignable(lhsTy, rhsTy) {
		return
	}
	c.errorf(errors.TYP002, a.Span, "cannot assign %s to %s", rhsTy, lhsTy)
}

func assignable(lhs, rhs types.Type) bool {
	if types.Equal(lhs, types.Unknown) || types.Equal(rhs, types.Unknown) {
		return true
	}
	if types.Equal(lhs, rhs) || rhs.Equals(lhs) {
		return true
	}
	if types.Equal(lhs, types.String) && types.Equal(rhs, types.Char) {
		return true
	}
	if opt, ok := lhs.(*types.Optional); ok {
		if types.Equal(opt.Inner, rhs) {
			return true
		}
		if rhsOpt, ok := rhs.(*types.Optional); ok {
			return types.Equal(opt.Inner, rhsOpt.Inner) || types.Equal(rhsOpt.Inner, types.Unknown)
		}
		return false
	}
	if lit, ok := rhs.(*types.Record); ok && lit.Name == "" {
		var want []types.Field
		if rec, ok := lhs.(*types.Record); ok {
			want = rec.Fields
		} else if sch, ok := lhs.(*types.Schema); ok {
			want = sch.Fields
		}
		if len(want) == 0 || len(want) != len(lit.Fields) {
			return false
		}
		for _, f := range want {
			if ft, ok := lit.FieldType(f.Name); !ok || !assignable(f.Type, ft) {
				return false
			}
		}
		return true
	}
	return false
}
