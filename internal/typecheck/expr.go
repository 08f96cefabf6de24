package typecheck

import (
	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/types"
)

// builtinResults names the small set of recognized built-in calls and
// their result type, independent of argument types (§4.D).
var builtinResults = map[string]types.Type{
	"ReadFile":  types.String,
	"ReadLn":    types.String,
	"Write":     types.Unknown,
	"WriteLn":   types.Unknown,
	"WriteFile": types.Unknown,
}

func (c *Checker) checkExpr(e ast.Expr, scope *Scope) types.Type {
	switch n := e.(type) {
	case *ast.Literal:
		return c.checkLiteral(n)
	case *ast.Identifier:
		return c.checkIdentifier(n, scope)
	case *ast.Unary:
		return c.checkUnary(n, scope)
	case *ast.Binary:
		return c.checkBinary(n, scope)
	case *ast.Call:
		return c.checkCall(n, scope)
	case *ast.Field:
		return c.checkField(n, scope)
	case *ast.Index:
		return c.checkIndex(n, scope)
	case *ast.Slice:
		c.checkExpr(n.Base, scope)
		if n.Lo != nil {
			c.checkExpr(n.Lo, scope)
		}
		if n.Hi != nil {
			c.checkExpr(n.Hi, scope)
		}
		return c.checkExpr(n.Base, scope)
	case *ast.TupleExpr:
		elems := make([]types.Type, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = c.checkExpr(el, scope)
		}
		return &types.Tuple{Elems: elems}
	case *ast.ArrayExpr:
		elem := types.Type(types.Unknown)
		for _, el := range n.Elems {
			elem = c.checkExpr(el, scope)
		}
		return &types.Array{Elem: elem}
	case *ast.RecordExpr:
		var fields []types.Field
		for _, f := range n.Fields {
			fields = append(fields, types.Field{Name: f.Name, Type: c.checkExpr(f.Value, scope)})
		}
		return &types.Record{Fields: fields}
	case *ast.Concat:
		c.checkExpr(n.Left, scope)
		c.checkExpr(n.Right, scope)
		return types.String
	case *ast.Ask:
		return c.checkAsk(n, scope)
	case *ast.Consult:
		return c.checkConsult(n, scope)
	case *ast.Embed:
		c.checkExpr(n.Input, scope)
		return &types.Array{Elem: types.Real}
	case *ast.Context:
		return c.checkExpr(n.Ctx, scope)
	default:
		return types.Unknown
	}
}

func (c *Checker) checkLiteral(l *ast.Literal) types.Type {
	switch l.Kind {
	case ast.IntLit:
		return types.Int
	case ast.RealLit:
		return types.Real
	case ast.StringLit:
		return types.String
	case ast.CharLit:
		return types.Char
	case ast.BytesLit:
		return types.Bytes
	case ast.BoolLit:
		return types.Bool
	case ast.DurationLit:
		return types.Real
	case ast.MoneyLit:
		return types.Real
	default:
		return types.Unknown
	}
}

func (c *Checker) checkIdentifier(id *ast.Identifier, scope *Scope) types.Type {
	if id.Name == "Nothing" || id.Name == "nothing" {
		return &types.Optional{Inner: types.Unknown}
	}
	if ty, ok := scope.lookup(id.Name); ok {
		return ty
	}
	c.errorf(errors.TYP001, id.Span, "undeclared identifier %q", id.Name)
	return types.Unknown
}

func (c *Checker) checkUnary(u *ast.Unary, scope *Scope) types.Type {
	operand := c.checkExpr(u.Expr, scope)
	if u.Op == "not" {
		return types.Bool
	}
	return operand
}

func isNumeric(t types.Type) bool {
	return types.Equal(t, types.Int) || types.Equal(t, types.Real)
}

func (c *Checker) checkBinary(b *ast.Binary, scope *Scope) types.Type {
	left := c.checkExpr(b.Left, scope)
	right := c.checkExpr(b.Right, scope)

	switch b.Op {
	case "=", "<>", "<", ">", "<=", ">=", "and", "or":
		return types.Bool
	case "+":
		if types.Equal(left, types.String) || types.Equal(right, types.String) ||
			types.Equal(left, types.Char) || types.Equal(right, types.Char) {
			if types.Equal(left, types.String) || types.Equal(right, types.String) {
				return types.String
			}
		}
		fallthrough
	case "-", "*", "/", "div", "mod":
		if !isNumeric(left) || !isNumeric(right) {
			if b.Op == "+" && (types.Equal(left, types.String) || types.Equal(right, types.String)) {
				return types.String
			}
			c.errorf(errors.TYP003, b.Span, "arithmetic on non-numeric operands")
			return types.Unknown
		}
		if types.Equal(left, types.Real) || types.Equal(right, types.Real) {
			return types.Real
		}
		return types.Int
	default:
		return types.Unknown
	}
}

func (c *Checker) checkField(f *ast.Field, scope *Scope) types.Type {
	if base, ok := f.Base.(*ast.Identifier); ok {
		if ty, ok := scope.lookup(base.Name + "." + f.Name); ok {
			return ty
		}
	}
	baseTy := c.checkExpr(f.Base, scope)
	switch t := baseTy.(type) {
	case *types.Record:
		if ft, ok := t.FieldType(f.Name); ok {
			return ft
		}
	case *types.Schema:
		if ft, ok := t.FieldType(f.Name); ok {
			return ft
		}
	}
	c.errorf(errors.TYP004, f.Span, "unknown field %q", f.Name)
	return types.Unknown
}

func (c *Checker) checkIndex(idx *ast.Index, scope *Scope) types.Type {
	baseTy := c.checkExpr(idx.Base, scope)
	c.checkExpr(idx.Index, scope)
	if arr, ok := baseTy.(*types.Array); ok {
		return arr.Elem
	}
	if types.Equal(baseTy, types.Unknown) {
		return types.Unknown
	}
	c.errorf(errors.TYP006, idx.Span, "index target is not an array")
	return types.Unknown
}

func (c *Checker) checkCall(call *ast.Call, scope *Scope) types.Type {
	for _, a := range call.Args {
		c.checkExpr(a, scope)
	}
	ident, isIdent := call.Func.(*ast.Identifier)
	if !isIdent {
		if field, ok := call.Func.(*ast.Field); ok {
			c.checkExpr(field.Base, scope)
			return types.Unknown
		}
		return types.Unknown
	}

	switch ident.Name {
	case "Ok":
		var inner types.Type = types.Unknown
		if len(call.Args) == 1 {
			inner = c.checkExpr(call.Args[0], scope)
		}
		return &types.Result{Ok: inner, Err: types.Unknown}
	case "Err":
		var inner types.Type = types.Unknown
		if len(call.Args) == 1 {
			inner = c.checkExpr(call.Args[0], scope)
		}
		return &types.Result{Ok: types.Unknown, Err: inner}
	}
	if rt, ok := builtinResults[ident.Name]; ok {
		return rt
	}
	if sig, ok := c.Funcs[ident.Name]; ok {
		if len(call.Args) != len(sig.Params) {
			c.errorf(errors.TYP005, call.Span, "function %q expects %d arguments, got %d", ident.Name, len(sig.Params), len(call.Args))
		}
		return sig.Result
	}
	c.errorf(errors.TYP005, call.Span, "unknown function %q", ident.Name)
	return types.Unknown
}

// schemaFromInto resolves an `into` clause type to the Schema it names,
// if any (§4.D: "if an into clause names a schema type, that schema is
// the result type; otherwise String").
func (c *Checker) schemaFromInto(into ast.Type) *types.Schema {
	if into == nil {
		return nil
	}
	ty, err := c.Registry.Resolve(into)
	if err != nil {
		return nil
	}
	if s, ok := ty.(*types.Schema); ok {
		return s
	}
	return nil
}

func (c *Checker) checkAsk(a *ast.Ask, scope *Scope) types.Type {
	c.checkExpr(a.Input, scope)
	if a.Timeout != nil {
		c.checkExpr(a.Timeout, scope)
	}
	if a.Fallback != nil {
		c.checkExpr(a.Fallback, scope)
	}
	okTy := types.Type(types.String)
	if s := c.schemaFromInto(a.Into); s != nil {
		okTy = s
	} else if a.Into != nil {
		c.errorf(errors.PAR005, a.Span, "ask 'into' clause must name a schema type")
	}
	return &types.Result{Ok: okTy, Err: types.String}
}

func (c *Checker) checkConsult(cs *ast.Consult, scope *Scope) types.Type {
	c.checkExpr(cs.Input, scope)
	if cs.Attempts != nil {
		c.checkExpr(cs.Attempts, scope)
	}
	if cs.Fallback != nil {
		c.checkExpr(cs.Fallback, scope)
	}
	for _, action := range cs.OnFailure {
		if action.Hint != nil {
			c.checkExpr(action.Hint, scope)
		}
		if action.Expr != nil {
			c.checkExpr(action.Expr, scope)
		}
	}
	okTy := types.Type(types.String)
	if s := c.schemaFromInto(cs.Into); s != nil {
		okTy = s
	}
	return &types.Result{Ok: okTy, Err: types.String}
}
