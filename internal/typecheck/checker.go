// Package typecheck walks a Liminal AST, resolving identifiers, checking
// assignment/binary/call/field/ask/consult forms, and collecting
// diagnostics without aborting (§4.D).
package typecheck

import (
	"fmt"

	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/token"
	"github.com/liminal-lang/liminal/internal/types"
)

// FuncSig is a declared function's call signature.
type FuncSig struct {
	Params []types.Type
	Result types.Type
}

// Checker holds the declaration tables built by the three declaration
// passes plus the accumulated diagnostics from body checking.
type Checker struct {
	Registry *types.Registry
	Global   *Scope
	Funcs    map[string]*FuncSig
	Schemas  map[string]*types.Schema

	errs []*errors.Report
}

// New creates an empty Checker.
func New() *Checker {
	return &Checker{
		Registry: types.NewRegistry(),
		Global:   newScope(nil),
		Funcs:    map[string]*FuncSig{},
		Schemas:  map[string]*types.Schema{},
	}
}

// Check runs the three declaration passes followed by body checking for
// the main body and every function. It never aborts early; it always
// returns whether the program is error-free plus the full diagnostic
// list (§4.D, §7).
func Check(prog *ast.Program) (bool, []*errors.Report) {
	c, ok, errs := CheckWithChecker(prog)
	_ = c
	return ok, errs
}

// CheckWithChecker runs the same checks as Check but also returns the
// Checker, so callers (IR lowering) can reuse its resolved function and
// schema tables instead of re-deriving them from the AST.
func CheckWithChecker(prog *ast.Program) (*Checker, bool, []*errors.Report) {
	c := New()
	c.declareTypes(prog)
	c.declareGlobals(prog)
	c.declareFuncs(prog)

	for _, fn := range prog.Funcs {
		c.checkFunc(fn)
	}
	c.checkBody(prog.Body, c.Global, nil)

	return c, len(c.errs) == 0, c.errs
}

func (c *Checker) errorf(code string, span token.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.errs = append(c.errs, errors.New("typecheck", code, msg, &span))
}

// declareTypes is pass 1: register every named type, and bind enum
// variants as Int-valued constants in global scope.
func (c *Checker) declareTypes(prog *ast.Program) {
	for _, td := range prog.Types {
		ty, err := c.Registry.Declare(td)
		if err != nil {
			c.errorf(errors.TYP007, td.Span, "%s", err.Error())
			continue
		}
		if schema, ok := ty.(*types.Schema); ok {
			c.Schemas[schema.Name] = schema
		}
		if enum, ok := ty.(*types.Enum); ok {
			for _, v := range enum.Variants {
				if _, exists := c.Global.lookup(v); exists {
					c.errorf(errors.TYP007, td.Span, "duplicate declaration of %q", v)
					continue
				}
				c.Global.define(v, types.Int)
			}
		}
	}
}

// declareGlobals is pass 2: bind every global variable, and for
// record/schema-typed variables also bind flattened dotted field names
// (`P.Name`) so that field access type-checks as a plain identifier
// lookup (§4.D).
func (c *Checker) declareGlobals(prog *ast.Program) {
	for _, vd := range prog.Vars {
		ty, err := c.Registry.Resolve(vd.Type)
		if err != nil {
			c.errorf(errors.TYP001, vd.Span, "%s", err.Error())
			ty = types.Unknown
		}
		for _, name := range vd.Names {
			if _, exists := c.Global.lookup(name); exists {
				c.errorf(errors.TYP007, vd.Span, "duplicate declaration of %q", name)
				continue
			}
			c.Global.define(name, ty)
			c.bindFlattenedFields(name, ty)
		}
	}
}

func (c *Checker) bindFlattenedFields(prefix string, ty types.Type) {
	switch t := ty.(type) {
	case *types.Record:
		for _, f := range t.Fields {
			c.Global.define(prefix+"."+f.Name, f.Type)
		}
	case *types.Schema:
		for _, f := range t.Fields {
			c.Global.define(prefix+"."+f.Name, f.Type)
		}
	}
}

// declareFuncs is pass 3: register every function's call signature.
func (c *Checker) declareFuncs(prog *ast.Program) {
	for _, fn := range prog.Funcs {
		if _, exists := c.Funcs[fn.Name]; exists {
			c.errorf(errors.TYP007, fn.Span, "duplicate declaration of function %q", fn.Name)
			continue
		}
		sig := &FuncSig{}
		for _, p := range fn.Params {
			pt, err := c.Registry.Resolve(p.Type)
			if err != nil {
				c.errorf(errors.TYP001, fn.Span, "%s", err.Error())
				pt = types.Unknown
			}
			sig.Params = append(sig.Params, pt)
		}
		resultTy, err := c.Registry.Resolve(fn.ResultType)
		if err != nil {
			c.errorf(errors.TYP001, fn.Span, "%s", err.Error())
			resultTy = types.Unknown
		}
		sig.Result = resultTy
		c.Funcs[fn.Name] = sig
	}
}

// checkFunc type-checks one function body in a fresh nested scope seeded
// with its parameters, locals, and a synthetic `Result` binding.
func (c *Checker) checkFunc(fn *ast.FuncDecl) {
	sig := c.Funcs[fn.Name]
	scope := newScope(c.Global)
	for i, p := range fn.Params {
		pt := types.Unknown
		if sig != nil && i < len(sig.Params) {
			pt = sig.Params[i]
		}
		scope.define(p.Name, pt)
		c.bindFlattenedFields(p.Name, pt)
	}
	for _, local := range fn.Locals {
		ty, err := c.Registry.Resolve(local.Type)
		if err != nil {
			c.errorf(errors.TYP001, local.Span, "%s", err.Error())
			ty = types.Unknown
		}
		for _, name := range local.Names {
			scope.define(name, ty)
			c.bindFlattenedFields(name, ty)
		}
	}
	resultTy := types.Unknown
	if sig != nil {
		resultTy = sig.Result
	}
	scope.define("Result", resultTy)

	c.checkBody(fn.Body, scope, nil)
}

// loopCtx is threaded through statement checking so break/continue can be
// validated against an enclosing loop (best-effort; never fatal).
type loopCtx struct {
	depth int
}
