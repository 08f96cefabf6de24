package interp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/liminal-lang/liminal/internal/ir"
	"github.com/liminal-lang/liminal/internal/oracle"
)

// Interp runs one lowered program to completion. Standard input/output
// and the oracle are parameters of the run, not globals (§4.E, §5).
type Interp struct {
	Program *ir.Program
	Oracle  oracle.Oracle // the default/fallback oracle, used by any name with no per-name override
	Stdin   *bufio.Reader
	Stdout  io.Writer

	oracles map[string]oracle.Oracle // per-declared-name overrides, set via SetOracle
	globals *Environment
}

// New builds an Interp against prog, using o as the default oracle and
// in/out as the standard streams. Every declared oracle name resolves to
// o unless a per-name override is registered via SetOracle.
func New(prog *ir.Program, o oracle.Oracle, in io.Reader, out io.Writer) *Interp {
	return &Interp{Program: prog, Oracle: o, Stdin: bufio.NewReader(in), Stdout: out}
}

// SetOracle registers name as resolving to o instead of the default
// Oracle (§4.F, §6: a program's `oracles` section can name more than one
// oracle, each potentially backed by a different provider/model).
func (in *Interp) SetOracle(name string, o oracle.Oracle) {
	if in.oracles == nil {
		in.oracles = make(map[string]oracle.Oracle)
	}
	in.oracles[name] = o
}

func (in *Interp) oracleFor(name string) oracle.Oracle {
	if o, ok := in.oracles[name]; ok {
		return o
	}
	return in.Oracle
}

// Run executes the program's main body and returns its result value
// (the value of a `Result` local, or a `ret`'s slot). The interpreter
// never aborts on its own (§7): every failure is captured as a Result
// value or silently defaulted. The main body's environment doubles as
// the global frame every function call is layered over (§4.E: "a
// per-activation environment layered over the caller's").
func (in *Interp) Run() Value {
	in.globals = NewEnvironment()
	return in.execFunc(in.Program.Main, in.globals)
}

// call invokes a named user function with up to two argument values
// (§4.E: "call passes at most two argument values into the callee's
// environment under its parameter names"), in a frame layered over the
// shared globals so the callee can still see top-level variables.
func (in *Interp) call(name string, args []Value) Value {
	fn, ok := in.Program.Functions[name]
	if !ok {
		return NoneValue{}
	}
	env := in.globals.NewChildEnvironment()
	for i, p := range fn.Params {
		if i < len(args) {
			env.Set(p, args[i])
		} else {
			env.Set(p, NoneValue{})
		}
	}
	return in.execFunc(fn, env)
}

// execFunc runs one function activation: a slot array sized to its
// temp count, an environment layered over env, walking instructions by
// label-resolved index (§4.E).
func (in *Interp) execFunc(fn *ir.Function, env *Environment) Value {
	slots := make([]Value, fn.NumSlots)
	for i := range slots {
		slots[i] = NoneValue{}
	}
	labels := make(map[string]int, len(fn.Instrs))
	for i, ins := range fn.Instrs {
		if ins.Op == ir.OpLabel {
			labels[ins.Str1] = i
		}
	}

	get := func(slot int) Value {
		if slot < 0 || slot >= len(slots) {
			return NoneValue{}
		}
		return slots[slot]
	}
	set := func(slot int, v Value) {
		if slot >= 0 && slot < len(slots) {
			slots[slot] = v
		}
	}

	pc := 0
	for pc < len(fn.Instrs) {
		instr := fn.Instrs[pc]
		switch instr.Op {
		case ir.OpConstInt:
			set(instr.Dst, IntValue{V: instr.IntImm})
		case ir.OpConstReal:
			set(instr.Dst, RealValue{V: instr.RealImm})
		case ir.OpConstString:
			set(instr.Dst, StringValue{V: instr.Str1})
		case ir.OpConstBool:
			set(instr.Dst, BoolValue{V: instr.IntImm != 0})
		case ir.OpConstNone:
			set(instr.Dst, NoneValue{})

		case ir.OpLoadVar:
			set(instr.Dst, env.Lookup(instr.Str1))
		case ir.OpStoreVar:
			env.Store(instr.Str1, get(instr.Src1))

		case ir.OpAdd:
			set(instr.Dst, opAdd(get(instr.Src1), get(instr.Src2)))
		case ir.OpSub:
			set(instr.Dst, opArith(get(instr.Src1), get(instr.Src2), func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }))
		case ir.OpMul:
			set(instr.Dst, opArith(get(instr.Src1), get(instr.Src2), func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }))
		case ir.OpDiv:
			set(instr.Dst, opDiv(get(instr.Src1), get(instr.Src2)))
		case ir.OpMod:
			set(instr.Dst, opMod(get(instr.Src1), get(instr.Src2)))

		case ir.OpEq:
			set(instr.Dst, BoolValue{V: valuesEqual(get(instr.Src1), get(instr.Src2))})
		case ir.OpNeq:
			set(instr.Dst, BoolValue{V: !valuesEqual(get(instr.Src1), get(instr.Src2))})
		case ir.OpLt:
			set(instr.Dst, opCompare(get(instr.Src1), get(instr.Src2), -1))
		case ir.OpGt:
			set(instr.Dst, opCompare(get(instr.Src1), get(instr.Src2), 1))
		case ir.OpLe:
			set(instr.Dst, opCompareOrEq(get(instr.Src1), get(instr.Src2), -1))
		case ir.OpGe:
			set(instr.Dst, opCompareOrEq(get(instr.Src1), get(instr.Src2), 1))

		case ir.OpAnd:
			set(instr.Dst, BoolValue{V: Truthy(get(instr.Src1)) && Truthy(get(instr.Src2))})
		case ir.OpOr:
			set(instr.Dst, BoolValue{V: Truthy(get(instr.Src1)) || Truthy(get(instr.Src2))})
		case ir.OpNot:
			set(instr.Dst, BoolValue{V: !Truthy(get(instr.Src1))})

		case ir.OpJump:
			if target, ok := labels[instr.Str1]; ok {
				pc = target
				continue
			}
		case ir.OpJumpIfFalse:
			if !Truthy(get(instr.Src1)) {
				if target, ok := labels[instr.Str1]; ok {
					pc = target
					continue
				}
			}
		case ir.OpLabel:
			// no-op marker

		case ir.OpRet:
			if instr.Src1 >= 0 {
				return get(instr.Src1)
			}
			return env.Lookup("Result")

		case ir.OpPrint:
			if instr.Src1 >= 0 {
				fmt.Fprint(in.Stdout, get(instr.Src1).String())
			}
		case ir.OpPrintln:
			if instr.Src1 >= 0 {
				fmt.Fprintln(in.Stdout, get(instr.Src1).String())
			} else {
				fmt.Fprintln(in.Stdout)
			}
		case ir.OpReadLn:
			env.Store(instr.Str1, in.readLn())
		case ir.OpReadFile:
			set(instr.Dst, in.readFile(get(instr.Src1)))
		case ir.OpWriteFile:
			in.writeFile(get(instr.Src1), get(instr.Src2))

		case ir.OpAsk:
			set(instr.Dst, in.ask(get(instr.Src1), instr.Str1, instr.Str2, instr.Src2, get(instr.Src2)))

		case ir.OpResultUnwrap:
			set(instr.Dst, StringValue{V: resultUnwrap(get(instr.Src1), instr.Src2, get(instr.Src2))})
		case ir.OpResultIsOk:
			set(instr.Dst, BoolValue{V: resultIsOk(get(instr.Src1))})
		case ir.OpResultUnwrapErr:
			set(instr.Dst, StringValue{V: resultUnwrapErr(get(instr.Src1))})
		case ir.OpMakeResultOk:
			payload := ""
			if instr.Src1 >= 0 {
				payload = get(instr.Src1).String()
			}
			set(instr.Dst, ResultValue{OK: true, Payload: payload})
		case ir.OpMakeResultErr:
			payload := ""
			if instr.Src1 >= 0 {
				payload = get(instr.Src1).String()
			}
			set(instr.Dst, ResultValue{OK: false, Payload: payload})
		case ir.OpConcat:
			set(instr.Dst, StringValue{V: get(instr.Src1).String() + get(instr.Src2).String()})
		case ir.OpResultOrFallback:
			set(instr.Dst, resultOrFallback(get(instr.Src1), instr.Src2, get(instr.Src2)))

		case ir.OpCall:
			var args []Value
			if instr.Src1 >= 0 {
				args = append(args, get(instr.Src1))
			}
			if instr.Src2 >= 0 {
				args = append(args, get(instr.Src2))
			}
			set(instr.Dst, in.call(instr.Str1, args))

		case ir.OpIndex:
			idx := get(instr.Src1)
			n, _ := numeric(idx)
			set(instr.Dst, env.Lookup(instr.Str1+"."+strconv.FormatInt(int64(n), 10)))
		}
		pc++
	}

	// Fell off the end without an explicit return: the local `Result`.
	return env.Lookup("Result")
}

func (in *Interp) readLn() Value {
	line, err := in.Stdin.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return StringValue{V: ""}
	}
	return parseReadLn(line)
}

// parseReadLn implements readln's parse-on-read rule (§4.E): integer if
// all digits after an optional sign, real if numeric with a dot,
// otherwise string.
func parseReadLn(line string) Value {
	if line == "" {
		return StringValue{V: ""}
	}
	if isAllDigits(line) {
		if n, err := strconv.ParseInt(line, 10, 64); err == nil {
			return IntValue{V: n}
		}
	}
	if looksNumericWithDot(line) {
		if f, err := strconv.ParseFloat(line, 64); err == nil {
			return RealValue{V: f}
		}
	}
	return StringValue{V: line}
}

func isAllDigits(s string) bool {
	start := 0
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		start = 1
	}
	if start == len(s) {
		return false
	}
	for _, r := range s[start:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func looksNumericWithDot(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func (in *Interp) readFile(path Value) Value {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return StringValue{V: ""}
	}
	return StringValue{V: string(data)}
}

func (in *Interp) writeFile(path, content Value) {
	_ = os.WriteFile(path.String(), []byte(content.String()), 0o644)
}

// ask executes the `ask` opcode (§4.E, §4.F): call the named oracle,
// validate against the schema if one was given, and on any failure
// apply the fallback slot if present.
func (in *Interp) ask(prompt Value, oracleName, schemaName string, fallbackSlot int, fallback Value) Value {
	resp := in.oracleFor(oracleName).CallText(context.Background(), prompt.String())

	var result ResultValue
	if !resp.OK {
		result = ResultValue{OK: false, Payload: resp.Err}
	} else if schemaName != "" {
		if schema, ok := in.Program.Schemas[schemaName]; ok {
			if err := oracle.ValidateSchema(resp.Text, schema); err != nil {
				result = ResultValue{OK: false, Payload: err.Error()}
			} else {
				result = ResultValue{OK: true, Payload: resp.Text}
			}
		} else {
			result = ResultValue{OK: true, Payload: resp.Text}
		}
	} else {
		result = ResultValue{OK: true, Payload: resp.Text}
	}

	if !result.OK && fallbackSlot >= 0 {
		return ResultValue{OK: true, Payload: fallback.String()}
	}
	return result
}

func resultIsOk(v Value) bool {
	r, ok := v.(ResultValue)
	return ok && r.OK
}

func resultUnwrap(v Value, fallbackSlot int, fallback Value) string {
	if r, ok := v.(ResultValue); ok && r.OK {
		return r.Payload
	}
	if fallbackSlot >= 0 {
		return fallback.String()
	}
	return ""
}

func resultUnwrapErr(v Value) string {
	if r, ok := v.(ResultValue); ok && !r.OK {
		return r.Payload
	}
	return ""
}

func resultOrFallback(v Value, fallbackSlot int, fallback Value) Value {
	if r, ok := v.(ResultValue); ok && r.OK {
		return r
	}
	if fallbackSlot >= 0 {
		return ResultValue{OK: true, Payload: fallback.String()}
	}
	return v
}
