package ir

import (
	"fmt"
	"strconv"
	"time"

	"github.com/liminal-lang/liminal/internal/ast"
	"github.com/liminal-lang/liminal/internal/types"
)

// lowerer builds one Function's instruction stream.
type lowerer struct {
	fn        *Function
	nextSlot  int
	nextLabel int
	schemas   map[string]*types.Schema

	breakLabel    string
	continueLabel string
}

func newLowerer(name string, schemas map[string]*types.Schema) *lowerer {
	return &lowerer{
		fn:      &Function{Name: name},
		schemas: schemas,
	}
}

func (lw *lowerer) slot() int {
	s := lw.nextSlot
	lw.nextSlot++
	return s
}

func (lw *lowerer) label(prefix string) string {
	l := fmt.Sprintf("%s%d", prefix, lw.nextLabel)
	lw.nextLabel++
	return l
}

func (lw *lowerer) emit(ins Instruction) {
	lw.fn.Instrs = append(lw.fn.Instrs, ins)
}

func (lw *lowerer) finish() *Function {
	lw.fn.NumSlots = lw.nextSlot
	return lw.fn
}

// Lower compiles a type-checked program into its flat IR form. schemas is
// the checker's resolved schema table, carried through unchanged as the
// IR program's schema table (§4.E).
func Lower(prog *ast.Program, schemas map[string]*types.Schema) *Program {
	ir := &Program{
		Functions: map[string]*Function{},
		Schemas:   schemas,
	}
	for _, fn := range prog.Funcs {
		lw := newLowerer(fn.Name, schemas)
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Name
		}
		lw.fn.Params = params
		lw.lowerStmt(fn.Body)
		f := lw.finish()
		ir.Functions[fn.Name] = f
	}

	lw := newLowerer("main", schemas)
	lw.lowerStmt(prog.Body)
	ir.Main = lw.finish()
	return ir
}

// lvalueName returns the flattened variable name an lvalue expression
// addresses, plus whether it lowered cleanly to a static name. Dynamic
// index targets (non-constant index expr) return ok=false; the caller
// must fall back to the `index` opcode for those.
func (lw *lowerer) lvalueName(e ast.Expr) (string, bool) {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name, true
	case *ast.Field:
		base, ok := lw.lvalueName(n.Base)
		if !ok {
			return "", false
		}
		return base + "." + n.Name, true
	case *ast.Index:
		base, ok := lw.lvalueName(n.Base)
		if !ok {
			return "", false
		}
		if lit, ok := n.Index.(*ast.Literal); ok && lit.Kind == ast.IntLit {
			return base + "." + fmt.Sprint(lit.Value), true
		}
		return "", false
	default:
		return "", false
	}
}

func (lw *lowerer) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case nil:
		return
	case *ast.Block:
		for _, stmt := range n.Stmts {
			lw.lowerStmt(stmt)
		}
	case *ast.Assign:
		lw.lowerAssign(n)
	case *ast.ExprStmt:
		lw.lowerExpr(n.Expr)
	case *ast.If:
		lw.lowerIf(n)
	case *ast.While:
		lw.lowerWhile(n)
	case *ast.Repeat:
		lw.lowerRepeat(n)
	case *ast.ForRange:
		lw.lowerForRange(n)
	case *ast.ForIn:
		lw.lowerForIn(n)
	case *ast.Case:
		lw.lowerCase(n)
	case *ast.Loop:
		lw.lowerLoop(n)
	case *ast.Parallel:
		lw.lowerStmt(n.Body)
	case *ast.Break:
		if lw.breakLabel != "" {
			lw.emit(Instruction{Op: OpJump, Str1: lw.breakLabel})
		}
	case *ast.Continue:
		if lw.continueLabel != "" {
			lw.emit(Instruction{Op: OpJump, Str1: lw.continueLabel})
		}
	case *ast.Return:
		if n.Value != nil {
			v := lw.lowerExpr(n.Value)
			lw.emit(Instruction{Op: OpRet, Src1: v})
		} else {
			lw.emit(Instruction{Op: OpRet, Src1: -1})
		}
	case *ast.Try:
		// The handler is never lowered (§9): only the body runs.
		lw.lowerStmt(n.Body)
	default:
	}
}

func (lw *lowerer) lowerAssign(a *ast.Assign) {
	if name, ok := lw.lvalueName(a.Target); ok {
		if arr, isArr := a.Value.(*ast.ArrayExpr); isArr {
			lw.lowerArrayLiteralInto(name, arr)
			return
		}
		if rec, isRec := a.Value.(*ast.RecordExpr); isRec {
			lw.lowerRecordLiteralInto(name, rec)
			return
		}
		v := lw.lowerExpr(a.Value)
		lw.emit(Instruction{Op: OpStoreVar, Src1: v, Str1: name})
		return
	}
	// Dynamic index target: base[idxExpr] := value.
	if idx, ok := a.Target.(*ast.Index); ok {
		base, baseOK := lw.lvalueName(idx.Base)
		if baseOK {
			idxSlot := lw.lowerExpr(idx.Index)
			v := lw.lowerExpr(a.Value)
			dst := lw.slot()
			lw.emit(Instruction{Op: OpIndex, Dst: dst, Src1: idxSlot, Str1: base})
			lw.emit(Instruction{Op: OpStoreVar, Src1: v, Str1: base})
			return
		}
	}
	// Fallback: evaluate for effect only.
	lw.lowerExpr(a.Value)
}

func (lw *lowerer) lowerIf(n *ast.If) {
	cond := lw.lowerExpr(n.Cond)
	elseLabel := lw.label("Lelse")
	endLabel := lw.label("Lend")
	lw.emit(Instruction{Op: OpJumpIfFalse, Src1: cond, Str1: elseLabel})
	lw.lowerStmt(n.Then)
	lw.emit(Instruction{Op: OpJump, Str1: endLabel})
	lw.emit(Instruction{Op: OpLabel, Str1: elseLabel})
	if n.Else != nil {
		lw.lowerStmt(n.Else)
	}
	lw.emit(Instruction{Op: OpLabel, Str1: endLabel})
}

func (lw *lowerer) lowerWhile(n *ast.While) {
	loop := lw.label("Lloop")
	end := lw.label("Lend")
	lw.emit(Instruction{Op: OpLabel, Str1: loop})
	cond := lw.lowerExpr(n.Cond)
	lw.emit(Instruction{Op: OpJumpIfFalse, Src1: cond, Str1: end})
	lw.withLoop(loop, end, func() { lw.lowerStmt(n.Body) })
	lw.emit(Instruction{Op: OpJump, Str1: loop})
	lw.emit(Instruction{Op: OpLabel, Str1: end})
}

func (lw *lowerer) lowerRepeat(n *ast.Repeat) {
	loop := lw.label("Lloop")
	end := lw.label("Lend")
	lw.emit(Instruction{Op: OpLabel, Str1: loop})
	lw.withLoop(loop, end, func() { lw.lowerStmt(n.Body) })
	cond := lw.lowerExpr(n.Cond)
	lw.emit(Instruction{Op: OpJumpIfFalse, Src1: cond, Str1: loop})
	lw.emit(Instruction{Op: OpLabel, Str1: end})
}

// withLoop runs body with break/continue labels installed, restoring the
// previous ones afterward (loops can nest).
func (lw *lowerer) withLoop(continueLabel, breakLabel string, body func()) {
	prevBreak, prevCont := lw.breakLabel, lw.continueLabel
	lw.breakLabel, lw.continueLabel = breakLabel, continueLabel
	body()
	lw.breakLabel, lw.continueLabel = prevBreak, prevCont
}

// lowerForRange implements `for V := lo to|downto hi do S` (§4.E): store
// lo, loop label, load V, compare against hi (<= ascending, >= descending),
// jump-if-false end, body, step V by +1/-1, store V, jump loop, end label.
func (lw *lowerer) lowerForRange(n *ast.ForRange) {
	lo := lw.lowerExpr(n.Lo)
	lw.emit(Instruction{Op: OpStoreVar, Src1: lo, Str1: n.Var})

	loop := lw.label("Lfor")
	end := lw.label("Lforend")
	lw.emit(Instruction{Op: OpLabel, Str1: loop})

	vSlot := lw.slot()
	lw.emit(Instruction{Op: OpLoadVar, Dst: vSlot, Str1: n.Var})
	hi := lw.lowerExpr(n.Hi)
	cmp := lw.slot()
	if n.Descending {
		lw.emit(Instruction{Op: OpGe, Dst: cmp, Src1: vSlot, Src2: hi})
	} else {
		lw.emit(Instruction{Op: OpLe, Dst: cmp, Src1: vSlot, Src2: hi})
	}
	lw.emit(Instruction{Op: OpJumpIfFalse, Src1: cmp, Str1: end})

	lw.withLoop(loop, end, func() { lw.lowerStmt(n.Body) })

	vSlot2 := lw.slot()
	lw.emit(Instruction{Op: OpLoadVar, Dst: vSlot2, Str1: n.Var})
	one := lw.slot()
	lw.emit(Instruction{Op: OpConstInt, Dst: one, IntImm: 1})
	stepped := lw.slot()
	if n.Descending {
		lw.emit(Instruction{Op: OpSub, Dst: stepped, Src1: vSlot2, Src2: one})
	} else {
		lw.emit(Instruction{Op: OpAdd, Dst: stepped, Src1: vSlot2, Src2: one})
	}
	lw.emit(Instruction{Op: OpStoreVar, Src1: stepped, Str1: n.Var})
	lw.emit(Instruction{Op: OpJump, Str1: loop})
	lw.emit(Instruction{Op: OpLabel, Str1: end})
}

// lowerForIn implements `for V in A do S` via A's flattened `.len` field
// and an `index` opcode to fetch `A.<i>` each iteration (§4.E).
func (lw *lowerer) lowerForIn(n *ast.ForIn) {
	base, ok := lw.lvalueName(n.Array)
	if !ok {
		return
	}
	idxVar := base + "$idx"
	zero := lw.slot()
	lw.emit(Instruction{Op: OpConstInt, Dst: zero, IntImm: 0})
	lw.emit(Instruction{Op: OpStoreVar, Src1: zero, Str1: idxVar})

	loop := lw.label("Lforin")
	end := lw.label("Lforinend")
	lw.emit(Instruction{Op: OpLabel, Str1: loop})

	idxSlot := lw.slot()
	lw.emit(Instruction{Op: OpLoadVar, Dst: idxSlot, Str1: idxVar})
	lenSlot := lw.slot()
	lw.emit(Instruction{Op: OpLoadVar, Dst: lenSlot, Str1: base + ".len"})
	cmp := lw.slot()
	lw.emit(Instruction{Op: OpLt, Dst: cmp, Src1: idxSlot, Src2: lenSlot})
	lw.emit(Instruction{Op: OpJumpIfFalse, Src1: cmp, Str1: end})

	elemSlot := lw.slot()
	lw.emit(Instruction{Op: OpIndex, Dst: elemSlot, Src1: idxSlot, Str1: base})
	lw.emit(Instruction{Op: OpStoreVar, Src1: elemSlot, Str1: n.Var})

	lw.withLoop(loop, end, func() { lw.lowerStmt(n.Body) })

	idxSlot2 := lw.slot()
	lw.emit(Instruction{Op: OpLoadVar, Dst: idxSlot2, Str1: idxVar})
	one := lw.slot()
	lw.emit(Instruction{Op: OpConstInt, Dst: one, IntImm: 1})
	next := lw.slot()
	lw.emit(Instruction{Op: OpAdd, Dst: next, Src1: idxSlot2, Src2: one})
	lw.emit(Instruction{Op: OpStoreVar, Src1: next, Str1: idxVar})
	lw.emit(Instruction{Op: OpJump, Str1: loop})
	lw.emit(Instruction{Op: OpLabel, Str1: end})
}

// lowerCase implements `case E of pat: S; ... else: S end`. Ok/Err
// constructor patterns unwrap the subject's payload into the pattern's
// binding name; all other patterns compare by equality (§4.E).
func (lw *lowerer) lowerCase(n *ast.Case) {
	end := lw.label("Lcaseend")
	subject := lw.lowerExpr(n.Subject)

	var nextLabel string
	for _, clause := range n.Clauses {
		nextLabel = lw.label("Lcase")
		switch pat := clause.Pattern.(type) {
		case *ast.ConstructorPattern:
			isOk := lw.slot()
			lw.emit(Instruction{Op: OpResultIsOk, Dst: isOk, Src1: subject})
			matched := isOk
			if pat.Name == "Err" {
				notOk := lw.slot()
				lw.emit(Instruction{Op: OpNot, Dst: notOk, Src1: isOk})
				matched = notOk
			}
			lw.emit(Instruction{Op: OpJumpIfFalse, Src1: matched, Str1: nextLabel})
			if pat.Binding != "" {
				var val int
				if pat.Name == "Ok" {
					val = lw.slot()
					lw.emit(Instruction{Op: OpResultUnwrap, Dst: val, Src1: subject, Src2: -1})
				} else {
					val = lw.slot()
					lw.emit(Instruction{Op: OpResultUnwrapErr, Dst: val, Src1: subject})
				}
				lw.emit(Instruction{Op: OpStoreVar, Src1: val, Str1: pat.Binding})
			}
		case *ast.LiteralPattern:
			val := lw.lowerExpr(pat.Value)
			eq := lw.slot()
			lw.emit(Instruction{Op: OpEq, Dst: eq, Src1: subject, Src2: val})
			lw.emit(Instruction{Op: OpJumpIfFalse, Src1: eq, Str1: nextLabel})
		}
		lw.lowerStmt(clause.Body)
		lw.emit(Instruction{Op: OpJump, Str1: end})
		lw.emit(Instruction{Op: OpLabel, Str1: nextLabel})
	}
	if n.Else != nil {
		lw.lowerStmt(n.Else)
	}
	lw.emit(Instruction{Op: OpLabel, Str1: end})
}

func (lw *lowerer) lowerLoop(n *ast.Loop) {
	loop := lw.label("Lloop")
	end := lw.label("Lend")
	lw.emit(Instruction{Op: OpLabel, Str1: loop})
	lw.withLoop(loop, end, func() { lw.lowerStmt(n.Body) })
	lw.emit(Instruction{Op: OpJump, Str1: loop})
	lw.emit(Instruction{Op: OpLabel, Str1: end})
}

// lowerExpr evaluates e, emitting instructions that leave its value in a
// freshly allocated slot, and returns that slot index.
func (lw *lowerer) lowerExpr(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.Literal:
		return lw.lowerLiteral(n)
	case *ast.Identifier:
		dst := lw.slot()
		if n.Name == "Nothing" || n.Name == "nothing" {
			lw.emit(Instruction{Op: OpConstNone, Dst: dst})
			return dst
		}
		lw.emit(Instruction{Op: OpLoadVar, Dst: dst, Str1: n.Name})
		return dst
	case *ast.Unary:
		return lw.lowerUnary(n)
	case *ast.Binary:
		return lw.lowerBinary(n)
	case *ast.Call:
		return lw.lowerCall(n)
	case *ast.Field:
		if name, ok := lw.lvalueName(n); ok {
			dst := lw.slot()
			lw.emit(Instruction{Op: OpLoadVar, Dst: dst, Str1: name})
			return dst
		}
		return lw.lowerExpr(n.Base)
	case *ast.Index:
		base, ok := lw.lvalueName(n.Base)
		dst := lw.slot()
		if ok {
			idxSlot := lw.lowerExpr(n.Index)
			lw.emit(Instruction{Op: OpIndex, Dst: dst, Src1: idxSlot, Str1: base})
			return dst
		}
		lw.lowerExpr(n.Base)
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
		return dst
	case *ast.Slice:
		return lw.lowerExpr(n.Base)
	case *ast.TupleExpr:
		var last int
		for _, el := range n.Elems {
			last = lw.lowerExpr(el)
		}
		return last
	case *ast.ArrayExpr:
		return lw.lowerArrayLiteralAnon(n)
	case *ast.RecordExpr:
		dst := lw.slot()
		for _, f := range n.Fields {
			lw.lowerExpr(f.Value)
		}
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
		return dst
	case *ast.Concat:
		l := lw.lowerExpr(n.Left)
		r := lw.lowerExpr(n.Right)
		dst := lw.slot()
		lw.emit(Instruction{Op: OpConcat, Dst: dst, Src1: l, Src2: r})
		return dst
	case *ast.Ask:
		return lw.lowerAsk(n)
	case *ast.Consult:
		return lw.lowerConsult(n)
	case *ast.Embed:
		return lw.lowerExpr(n.Input)
	case *ast.Context:
		return lw.lowerExpr(n.Ctx)
	default:
		dst := lw.slot()
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
		return dst
	}
}

// lowerArrayLiteralAnon lowers an array literal appearing outside a
// direct assignment (e.g. as a call argument) by materializing it under
// a synthetic hidden name, flattened element-by-element (§4.E). Slots
// hold only scalar values in this IR, so the literal itself has no slot
// representation; callers needing its elements address the hidden name
// directly (`$arrN.0`, `$arrN.len`, ...).
func (lw *lowerer) lowerArrayLiteralAnon(n *ast.ArrayExpr) int {
	tmp := fmt.Sprintf("$arr%d", lw.nextLabel)
	lw.nextLabel++
	lw.lowerArrayLiteralInto(tmp, n)
	dst := lw.slot()
	lw.emit(Instruction{Op: OpConstNone, Dst: dst})
	return dst
}

// lowerArrayLiteralInto flattens an array literal's elements into
// `name.0`, `name.1`, ... plus `name.len` (§4.E).
func (lw *lowerer) lowerArrayLiteralInto(name string, n *ast.ArrayExpr) {
	for i, el := range n.Elems {
		v := lw.lowerExpr(el)
		lw.emit(Instruction{Op: OpStoreVar, Src1: v, Str1: name + "." + strconv.Itoa(i)})
	}
	lenSlot := lw.slot()
	lw.emit(Instruction{Op: OpConstInt, Dst: lenSlot, IntImm: int64(len(n.Elems))})
	lw.emit(Instruction{Op: OpStoreVar, Src1: lenSlot, Str1: name + ".len"})
}

// lowerRecordLiteralInto flattens a record literal's fields into
// `name.Field` per §4.E's field-path addressing model.
func (lw *lowerer) lowerRecordLiteralInto(name string, n *ast.RecordExpr) {
	for _, f := range n.Fields {
		if arr, isArr := f.Value.(*ast.ArrayExpr); isArr {
			lw.lowerArrayLiteralInto(name+"."+f.Name, arr)
			continue
		}
		if rec, isRec := f.Value.(*ast.RecordExpr); isRec {
			lw.lowerRecordLiteralInto(name+"."+f.Name, rec)
			continue
		}
		v := lw.lowerExpr(f.Value)
		lw.emit(Instruction{Op: OpStoreVar, Src1: v, Str1: name + "." + f.Name})
	}
}

func (lw *lowerer) lowerLiteral(l *ast.Literal) int {
	dst := lw.slot()
	switch l.Kind {
	case ast.IntLit:
		v, _ := l.Value.(int)
		lw.emit(Instruction{Op: OpConstInt, Dst: dst, IntImm: int64(v)})
	case ast.RealLit:
		v, _ := l.Value.(float64)
		lw.emit(Instruction{Op: OpConstReal, Dst: dst, RealImm: v})
	case ast.StringLit:
		s, _ := l.Value.(string)
		lw.emit(Instruction{Op: OpConstString, Dst: dst, Str1: s})
	case ast.CharLit:
		r, _ := l.Value.(rune)
		lw.emit(Instruction{Op: OpConstString, Dst: dst, Str1: string(r)})
	case ast.BytesLit:
		b, _ := l.Value.([]byte)
		lw.emit(Instruction{Op: OpConstString, Dst: dst, Str1: string(b)})
	case ast.BoolLit:
		v, _ := l.Value.(bool)
		b := int64(0)
		if v {
			b = 1
		}
		lw.emit(Instruction{Op: OpConstBool, Dst: dst, IntImm: b})
	case ast.DurationLit:
		d, _ := l.Value.(time.Duration)
		lw.emit(Instruction{Op: OpConstReal, Dst: dst, RealImm: d.Seconds()})
	case ast.MoneyLit:
		v, _ := l.Value.(float64)
		lw.emit(Instruction{Op: OpConstReal, Dst: dst, RealImm: v})
	default:
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
	}
	return dst
}

func (lw *lowerer) lowerUnary(u *ast.Unary) int {
	v := lw.lowerExpr(u.Expr)
	dst := lw.slot()
	switch u.Op {
	case "not":
		lw.emit(Instruction{Op: OpNot, Dst: dst, Src1: v})
	case "-":
		zero := lw.slot()
		lw.emit(Instruction{Op: OpConstInt, Dst: zero, IntImm: 0})
		lw.emit(Instruction{Op: OpSub, Dst: dst, Src1: zero, Src2: v})
	default:
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
	}
	return dst
}

var binOp = map[string]Opcode{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "div": OpDiv, "mod": OpMod,
	"=": OpEq, "<>": OpNeq, "<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe,
	"and": OpAnd, "or": OpOr,
}

func (lw *lowerer) lowerBinary(b *ast.Binary) int {
	l := lw.lowerExpr(b.Left)
	r := lw.lowerExpr(b.Right)
	dst := lw.slot()
	op, ok := binOp[b.Op]
	if !ok {
		op = OpConstNone
	}
	lw.emit(Instruction{Op: op, Dst: dst, Src1: l, Src2: r})
	return dst
}

func (lw *lowerer) lowerCall(call *ast.Call) int {
	ident, isIdent := call.Func.(*ast.Identifier)
	if !isIdent {
		if field, ok := call.Func.(*ast.Field); ok {
			return lw.lowerFieldCall(field, call.Args)
		}
		dst := lw.slot()
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
		return dst
	}

	switch ident.Name {
	case "Ok":
		dst := lw.slot()
		src := -1
		if len(call.Args) == 1 {
			src = lw.lowerExpr(call.Args[0])
		}
		lw.emit(Instruction{Op: OpMakeResultOk, Dst: dst, Src1: src})
		return dst
	case "Err":
		dst := lw.slot()
		src := -1
		if len(call.Args) == 1 {
			src = lw.lowerExpr(call.Args[0])
		}
		lw.emit(Instruction{Op: OpMakeResultErr, Dst: dst, Src1: src})
		return dst
	case "WriteLn":
		dst := lw.slot()
		src := -1
		if len(call.Args) == 1 {
			src = lw.lowerExpr(call.Args[0])
		}
		lw.emit(Instruction{Op: OpPrintln, Src1: src})
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
		return dst
	case "Write":
		dst := lw.slot()
		src := -1
		if len(call.Args) == 1 {
			src = lw.lowerExpr(call.Args[0])
		}
		lw.emit(Instruction{Op: OpPrint, Src1: src})
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
		return dst
	case "ReadLn":
		dst := lw.slot()
		name := ""
		if len(call.Args) == 1 {
			if id, ok := call.Args[0].(*ast.Identifier); ok {
				name = id.Name
			}
		}
		tmp := name
		if tmp == "" {
			tmp = fmt.Sprintf("$readln%d", lw.nextLabel)
			lw.nextLabel++
		}
		lw.emit(Instruction{Op: OpReadLn, Str1: tmp})
		lw.emit(Instruction{Op: OpLoadVar, Dst: dst, Str1: tmp})
		return dst
	case "ReadFile":
		dst := lw.slot()
		src := -1
		if len(call.Args) == 1 {
			src = lw.lowerExpr(call.Args[0])
		}
		lw.emit(Instruction{Op: OpReadFile, Dst: dst, Src1: src})
		return dst
	case "WriteFile":
		dst := lw.slot()
		if len(call.Args) == 2 {
			path := lw.lowerExpr(call.Args[0])
			content := lw.lowerExpr(call.Args[1])
			lw.emit(Instruction{Op: OpWriteFile, Src1: path, Src2: content})
		}
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
		return dst
	}

	dst := lw.slot()
	a0, a1 := -1, -1
	if len(call.Args) > 0 {
		a0 = lw.lowerExpr(call.Args[0])
	}
	if len(call.Args) > 1 {
		a1 = lw.lowerExpr(call.Args[1])
	}
	lw.emit(Instruction{Op: OpCall, Dst: dst, Src1: a0, Src2: a1, Str1: ident.Name})
	return dst
}

// lowerFieldCall handles `x.Method(args)` forms such as `r.UnwrapOr(v)`,
// `r.IsOk()`, `r.UnwrapErr()` — the Result helper surface (§4.E).
func (lw *lowerer) lowerFieldCall(field *ast.Field, args []ast.Expr) int {
	base := lw.lowerExpr(field.Base)
	dst := lw.slot()
	switch field.Name {
	case "UnwrapOr":
		fallback := -1
		if len(args) == 1 {
			fallback = lw.lowerExpr(args[0])
		}
		lw.emit(Instruction{Op: OpResultUnwrap, Dst: dst, Src1: base, Src2: fallback})
	case "IsOk":
		lw.emit(Instruction{Op: OpResultIsOk, Dst: dst, Src1: base})
	case "UnwrapErr":
		lw.emit(Instruction{Op: OpResultUnwrapErr, Dst: dst, Src1: base})
	case "OrElse":
		fallback := -1
		if len(args) == 1 {
			fallback = lw.lowerExpr(args[0])
		}
		lw.emit(Instruction{Op: OpResultOrFallback, Dst: dst, Src1: base, Src2: fallback})
	default:
		lw.emit(Instruction{Op: OpConstNone, Dst: dst})
	}
	return dst
}

func (lw *lowerer) lowerAsk(a *ast.Ask) int {
	prompt := lw.lowerExpr(a.Input)
	fallback := -1
	if a.Fallback != nil {
		fallback = lw.lowerExpr(a.Fallback)
	}
	schemaName := ""
	if a.Into != nil {
		if named, ok := a.Into.(*ast.NamedType); ok {
			schemaName = named.Name
		}
	}
	dst := lw.slot()
	lw.emit(Instruction{Op: OpAsk, Dst: dst, Src1: prompt, Src2: fallback, Str1: a.Oracle, Str2: schemaName})
	return dst
}

// lowerConsult implements the consult retry loop (§4.E): store prompt and
// remaining attempts, loop, ask, test result-is-ok; success jumps to
// done; failure decrements attempts, and either exits at zero or
// concatenates the hint and retries.
func (lw *lowerer) lowerConsult(cs *ast.Consult) int {
	promptVar := fmt.Sprintf("$consult_prompt%d", lw.nextLabel)
	attemptsVar := fmt.Sprintf("$consult_attempts%d", lw.nextLabel)
	lw.nextLabel++

	prompt := lw.lowerExpr(cs.Input)
	lw.emit(Instruction{Op: OpStoreVar, Src1: prompt, Str1: promptVar})

	attempts := lw.slot()
	if cs.Attempts != nil {
		attempts = lw.lowerExpr(cs.Attempts)
	} else {
		lw.emit(Instruction{Op: OpConstInt, Dst: attempts, IntImm: 1})
	}
	lw.emit(Instruction{Op: OpStoreVar, Src1: attempts, Str1: attemptsVar})

	schemaName := ""
	if cs.Into != nil {
		if named, ok := cs.Into.(*ast.NamedType); ok {
			schemaName = named.Name
		}
	}

	var hint ast.Expr
	for _, action := range cs.OnFailure {
		if action.Kind == "retry" {
			hint = action.Hint
			break
		}
	}

	loop := lw.label("Lconsult")
	done := lw.label("Lconsultdone")
	retryFailLabel := lw.label("Lconsultfail")
	retryLabel := lw.label("Lconsultretry")
	resultSlot := lw.slot()

	lw.emit(Instruction{Op: OpLabel, Str1: loop})
	promptSlot := lw.slot()
	lw.emit(Instruction{Op: OpLoadVar, Dst: promptSlot, Str1: promptVar})
	lw.emit(Instruction{Op: OpAsk, Dst: resultSlot, Src1: promptSlot, Src2: -1, Str1: cs.Oracle, Str2: schemaName})

	okSlot := lw.slot()
	lw.emit(Instruction{Op: OpResultIsOk, Dst: okSlot, Src1: resultSlot})
	lw.emit(Instruction{Op: OpJumpIfFalse, Src1: okSlot, Str1: retryFailLabel})
	lw.emit(Instruction{Op: OpJump, Str1: done})

	lw.emit(Instruction{Op: OpLabel, Str1: retryFailLabel})
	attemptsSlot := lw.slot()
	lw.emit(Instruction{Op: OpLoadVar, Dst: attemptsSlot, Str1: attemptsVar})
	one := lw.slot()
	lw.emit(Instruction{Op: OpConstInt, Dst: one, IntImm: 1})
	decremented := lw.slot()
	lw.emit(Instruction{Op: OpSub, Dst: decremented, Src1: attemptsSlot, Src2: one})
	lw.emit(Instruction{Op: OpStoreVar, Src1: decremented, Str1: attemptsVar})

	zero := lw.slot()
	lw.emit(Instruction{Op: OpConstInt, Dst: zero, IntImm: 0})
	exhausted := lw.slot()
	lw.emit(Instruction{Op: OpLe, Dst: exhausted, Src1: decremented, Src2: zero})
	lw.emit(Instruction{Op: OpJumpIfFalse, Src1: exhausted, Str1: retryLabel})
	lw.emit(Instruction{Op: OpJump, Str1: done})

	lw.emit(Instruction{Op: OpLabel, Str1: retryLabel})
	if hint != nil {
		hintSlot := lw.lowerExpr(hint)
		sep := lw.slot()
		lw.emit(Instruction{Op: OpConstString, Dst: sep, Str1: "\n\nHint: "})
		curPrompt := lw.slot()
		lw.emit(Instruction{Op: OpLoadVar, Dst: curPrompt, Str1: promptVar})
		withSep := lw.slot()
		lw.emit(Instruction{Op: OpConcat, Dst: withSep, Src1: curPrompt, Src2: sep})
		newPrompt := lw.slot()
		lw.emit(Instruction{Op: OpConcat, Dst: newPrompt, Src1: withSep, Src2: hintSlot})
		lw.emit(Instruction{Op: OpStoreVar, Src1: newPrompt, Str1: promptVar})
	}
	lw.emit(Instruction{Op: OpJump, Str1: loop})

	lw.emit(Instruction{Op: OpLabel, Str1: done})

	final := resultSlot
	if cs.Fallback != nil {
		fb := lw.lowerExpr(cs.Fallback)
		withFallback := lw.slot()
		lw.emit(Instruction{Op: OpResultOrFallback, Dst: withFallback, Src1: resultSlot, Src2: fb})
		final = withFallback
	}
	return final
}
