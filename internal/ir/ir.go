// Package ir defines Liminal's flat per-function register IR (§4.E): the
// lowering target for the AST and the instruction set the interpreter
// executes.
package ir

import (
	"fmt"

	"github.com/liminal-lang/liminal/internal/types"
)

// Opcode enumerates every IR instruction kind.
type Opcode int

const (
	OpConstInt Opcode = iota
	OpConstReal
	OpConstString
	OpConstBool
	OpConstNone

	OpLoadVar
	OpStoreVar

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	OpEq
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe

	OpAnd
	OpOr
	OpNot

	OpJump
	OpJumpIfFalse
	OpLabel

	OpRet

	OpPrint
	OpPrintln
	OpReadLn
	OpReadFile
	OpWriteFile

	OpAsk

	OpResultUnwrap
	OpResultIsOk
	OpResultUnwrapErr
	OpMakeResultOk
	OpMakeResultErr
	OpConcat
	OpResultOrFallback

	OpCall
	OpIndex
)

var opNames = map[Opcode]string{
	OpConstInt: "const.int", OpConstReal: "const.real", OpConstString: "const.string",
	OpConstBool: "const.bool", OpConstNone: "const.none",
	OpLoadVar: "load-var", OpStoreVar: "store-var",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpEq: "eq", OpNeq: "neq", OpLt: "lt", OpGt: "gt", OpLe: "le", OpGe: "ge",
	OpAnd: "and", OpOr: "or", OpNot: "not",
	OpJump: "jump", OpJumpIfFalse: "jump-if-false", OpLabel: "label",
	OpRet: "ret",
	OpPrint: "print", OpPrintln: "println", OpReadLn: "readln",
	OpReadFile: "read-file", OpWriteFile: "write-file",
	OpAsk:              "ask",
	OpResultUnwrap:     "result-unwrap",
	OpResultIsOk:       "result-is-ok",
	OpResultUnwrapErr:  "result-unwrap-err",
	OpMakeResultOk:     "make-result-ok",
	OpMakeResultErr:    "make-result-err",
	OpConcat:           "concat",
	OpResultOrFallback: "result-or-fallback",
	OpCall:             "call",
	OpIndex:            "index",
}

func (o Opcode) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%d)", int(o))
}

// Instruction is one IR operation. Dst/Src1/Src2 are slot indices, or -1
// when absent. Str1/Str2 carry variable/label/oracle/schema names; their
// meaning is opcode-dependent.
type Instruction struct {
	Op      Opcode
	Dst     int
	Src1    int
	Src2    int
	IntImm  int64
	RealImm float64
	Str1    string
	Str2    string
}

// Function is one lowered function (or the program's main body, named
// "main"): a name, positional parameter names, its instruction stream,
// and how many temp slots its activation needs.
type Function struct {
	Name     string
	Params   []string
	Instrs   []Instruction
	NumSlots int
}

// Program is the full lowering output: every function plus the schema
// table referenced by `ask`/`consult` instructions' schema-name field.
type Program struct {
	Functions map[string]*Function
	Main      *Function
	Schemas   map[string]*types.Schema
}
