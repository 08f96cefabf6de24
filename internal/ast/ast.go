// Package ast defines the Liminal abstract syntax tree: a family of
// tagged-sum node types for types, expressions, and statements, each
// carrying its own source span.
package ast

import (
	"fmt"
	"strings"

	"github.com/liminal-lang/liminal/internal/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	String() string
	Position() token.Span
}

// Program is the root of the tree.
type Program struct {
	Name    string
	Uses    []string
	Config  []*ConfigItem
	Types   []*TypeDecl
	Oracles []*OracleDecl
	Vars    []*VarDecl
	Funcs   []*FuncDecl
	Body    Stmt
	Span    token.Span
}

// TypeDecl names a top-level type: a record, schema, enum, or alias to a
// constrained/primitive type.
type TypeDecl struct {
	Name string
	Type Type
	Span token.Span
}

func (t *TypeDecl) Position() token.Span { return t.Span }
func (t *TypeDecl) String() string        { return fmt.Sprintf("type %s = %s", t.Name, t.Type) }

func (p *Program) Position() token.Span { return p.Span }
func (p *Program) String() string {
	return fmt.Sprintf("program %s", p.Name)
}

// ConfigItem is a single `config` section key/value pair.
type ConfigItem struct {
	Name  string
	Value Expr
	Span  token.Span
}

func (c *ConfigItem) Position() token.Span { return c.Span }
func (c *ConfigItem) String() string        { return fmt.Sprintf("%s: %s", c.Name, c.Value) }

// OracleDecl declares a named oracle available to ask/consult/embed.
type OracleDecl struct {
	Name string
	Span token.Span
}

func (o *OracleDecl) Position() token.Span { return o.Span }
func (o *OracleDecl) String() string        { return fmt.Sprintf("oracle %s", o.Name) }

// VarDecl declares one or more names sharing a type.
type VarDecl struct {
	Names []string
	Type  Type
	Span  token.Span
}

func (v *VarDecl) Position() token.Span { return v.Span }
func (v *VarDecl) String() string {
	return fmt.Sprintf("var %s: %s", strings.Join(v.Names, ", "), v.Type)
}

// Param is one function parameter.
type Param struct {
	Name string
	Type Type
	Span token.Span
}

// FuncDecl declares a function.
type FuncDecl struct {
	Name       string
	Params     []*Param
	ResultType Type
	Locals     []*VarDecl
	Body       Stmt
	Span       token.Span
}

func (f *FuncDecl) Position() token.Span { return f.Span }
func (f *FuncDecl) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name + ": " + p.Type.String()
	}
	return fmt.Sprintf("function %s(%s): %s", f.Name, strings.Join(names, ", "), f.ResultType)
}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

// Type is the tagged sum of AST-level type syntax (§3).
type Type interface {
	Node
	typeNode()
}

// PrimitiveType names a built-in scalar type (Int, Real, Bool, String,
// Bytes, Char, Byte).
type PrimitiveType struct {
	Name string
	Span token.Span
}

func (*PrimitiveType) typeNode()            {}
func (t *PrimitiveType) Position() token.Span { return t.Span }
func (t *PrimitiveType) String() string       { return t.Name }

// NamedType references a declared record/schema/enum/alias by name.
type NamedType struct {
	Name string
	Span token.Span
}

func (*NamedType) typeNode()            {}
func (t *NamedType) Position() token.Span { return t.Span }
func (t *NamedType) String() string       { return t.Name }

// LengthRange is an optional array length constraint `[min..max]`.
type LengthRange struct {
	Min, Max *int
}

// ArrayType is `[ElemType]` or `[ElemType; min..max]`.
type ArrayType struct {
	Elem   Type
	Length *LengthRange
	Span   token.Span
}

func (*ArrayType) typeNode()            {}
func (t *ArrayType) Position() token.Span { return t.Span }
func (t *ArrayType) String() string       { return fmt.Sprintf("[%s]", t.Elem) }

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	Elems []Type
	Span  token.Span
}

func (*TupleType) typeNode()            {}
func (t *TupleType) Position() token.Span { return t.Span }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// RecordField is a single field in a record/schema declaration: a name,
// a type, and an optional natural-language description used for JSON
// Schema emission.
type RecordField struct {
	Name        string
	Type        Type
	Description string
	Span        token.Span
}

// RecordType is `record { field: Type; ... }`.
type RecordType struct {
	Fields []*RecordField
	Span   token.Span
}

func (*RecordType) typeNode()            {}
func (t *RecordType) Position() token.Span { return t.Span }
func (t *RecordType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return fmt.Sprintf("record { %s }", strings.Join(parts, "; "))
}

// SchemaType is `schema Name { field: Type "description"; ... }` — a
// record shape additionally usable as an oracle `into` target.
type SchemaType struct {
	Name   string
	Fields []*RecordField
	Span   token.Span
}

func (*SchemaType) typeNode()            {}
func (t *SchemaType) Position() token.Span { return t.Span }
func (t *SchemaType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return fmt.Sprintf("schema %s { %s }", t.Name, strings.Join(parts, "; "))
}

// EnumType is `enum { A, B, C }`.
type EnumType struct {
	Names []string
	Span  token.Span
}

func (*EnumType) typeNode()            {}
func (t *EnumType) Position() token.Span { return t.Span }
func (t *EnumType) String() string       { return fmt.Sprintf("enum { %s }", strings.Join(t.Names, ", ")) }

// OptionalType is `Type?`.
type OptionalType struct {
	Inner Type
	Span  token.Span
}

func (*OptionalType) typeNode()            {}
func (t *OptionalType) Position() token.Span { return t.Span }
func (t *OptionalType) String() string       { return t.Inner.String() + "?" }

// ResultType is `Result(Ok, Err)` or `Result(Ok)`.
type ResultType struct {
	Ok   Type
	Err  Type // nil when unspecified
	Span token.Span
}

func (*ResultType) typeNode()            {}
func (t *ResultType) Position() token.Span { return t.Span }
func (t *ResultType) String() string {
	if t.Err != nil {
		return fmt.Sprintf("Result(%s, %s)", t.Ok, t.Err)
	}
	return fmt.Sprintf("Result(%s)", t.Ok)
}

// ConstrainedType adds a min/max/regex constraint on a base type.
type ConstrainedType struct {
	Base  Type
	Min   *float64
	Max   *float64
	Regex *string
	Span  token.Span
}

func (*ConstrainedType) typeNode()            {}
func (t *ConstrainedType) Position() token.Span { return t.Span }
func (t *ConstrainedType) String() string       { return t.Base.String() }

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is the tagged sum of expression node kinds.
type Expr interface {
	Node
	exprNode()
}

// LiteralKind partitions Literal by the lexical kind that produced it.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	RealLit
	StringLit
	CharLit
	BytesLit
	BoolLit
	DurationLit
	MoneyLit
)

// Literal is a scalar constant.
type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Span  token.Span
}

func (*Literal) exprNode()            {}
func (l *Literal) Position() token.Span { return l.Span }
func (l *Literal) String() string       { return fmt.Sprintf("%v", l.Value) }

// Identifier references a variable, constant, or function by name.
type Identifier struct {
	Name string
	Span token.Span
}

func (*Identifier) exprNode()            {}
func (i *Identifier) Position() token.Span { return i.Span }
func (i *Identifier) String() string       { return i.Name }

// Unary is a prefix operator applied to one operand (`-x`, `not x`).
type Unary struct {
	Op   string
	Expr Expr
	Span token.Span
}

func (*Unary) exprNode()            {}
func (u *Unary) Position() token.Span { return u.Span }
func (u *Unary) String() string       { return fmt.Sprintf("(%s %s)", u.Op, u.Expr) }

// Binary is an infix operator applied to two operands.
type Binary struct {
	Left  Expr
	Op    string
	Right Expr
	Span  token.Span
}

func (*Binary) exprNode()            {}
func (b *Binary) Position() token.Span { return b.Span }
func (b *Binary) String() string       { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// Call is a function or built-in invocation.
type Call struct {
	Func Expr
	Args []Expr
	Span token.Span
}

func (*Call) exprNode()            {}
func (c *Call) Position() token.Span { return c.Span }
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(args, ", "))
}

// Index is `base[index]`.
type Index struct {
	Base  Expr
	Index Expr
	Span  token.Span
}

func (*Index) exprNode()            {}
func (i *Index) Position() token.Span { return i.Span }
func (i *Index) String() string       { return fmt.Sprintf("%s[%s]", i.Base, i.Index) }

// Slice is `base[lo..hi]`.
type Slice struct {
	Base   Expr
	Lo, Hi Expr
	Span   token.Span
}

func (*Slice) exprNode()            {}
func (s *Slice) Position() token.Span { return s.Span }
func (s *Slice) String() string       { return fmt.Sprintf("%s[%s..%s]", s.Base, s.Lo, s.Hi) }

// Field is `base.Name`.
type Field struct {
	Base Expr
	Name string
	Span token.Span
}

func (*Field) exprNode()            {}
func (f *Field) Position() token.Span { return f.Span }
func (f *Field) String() string       { return fmt.Sprintf("%s.%s", f.Base, f.Name) }

// TupleExpr is a tuple literal `(a, b, c)`.
type TupleExpr struct {
	Elems []Expr
	Span  token.Span
}

func (*TupleExpr) exprNode()            {}
func (t *TupleExpr) Position() token.Span { return t.Span }
func (t *TupleExpr) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// ArrayExpr is an array literal `[a, b, c]`.
type ArrayExpr struct {
	Elems []Expr
	Span  token.Span
}

func (*ArrayExpr) exprNode()            {}
func (a *ArrayExpr) Position() token.Span { return a.Span }
func (a *ArrayExpr) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// RecordFieldValue is one `key: value` entry in a record literal.
type RecordFieldValue struct {
	Name  string
	Value Expr
	Span  token.Span
}

// RecordExpr is a record literal `{key: value, ...}`.
type RecordExpr struct {
	Fields []*RecordFieldValue
	Span   token.Span
}

func (*RecordExpr) exprNode()            {}
func (r *RecordExpr) Position() token.Span { return r.Span }
func (r *RecordExpr) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// Concat is the right-associative string-concatenation tree produced by
// desugaring an f-string at parse time.
type Concat struct {
	Left  Expr
	Right Expr
	Span  token.Span
}

func (*Concat) exprNode()            {}
func (c *Concat) Position() token.Span { return c.Span }
func (c *Concat) String() string       { return fmt.Sprintf("(%s ++ %s)", c.Left, c.Right) }

// Ask is a one-shot oracle call yielding a Result.
type Ask struct {
	Oracle   string
	Input    Expr
	Into     Type // nil when absent
	Timeout  Expr // nil when absent; parsed, never enforced (§5)
	Fallback Expr // nil when absent
	WithCost bool
	Span     token.Span
}

func (*Ask) exprNode()            {}
func (a *Ask) Position() token.Span { return a.Span }
func (a *Ask) String() string       { return fmt.Sprintf("ask %s <- %s", a.Oracle, a.Input) }

// ConsultAction is one `on failure` clause action: `retry with hint E`
// or `yield E`. Other action keywords are parsed and ignored (§9).
// Lowering uses only the hint of the first `retry` action; `yield`
// actions are parsed and type-checked but have no runtime effect.
type ConsultAction struct {
	Kind string // "retry" or "yield"
	Hint Expr   // set when Kind == "retry"
	Expr Expr   // set when Kind == "yield"
	Span token.Span
}

// Consult is a bounded-retry oracle call.
type Consult struct {
	Oracle    string
	Input     Expr
	Into      Type
	Attempts  Expr // nil defaults to 1
	OnFailure []*ConsultAction
	Fallback  Expr
	Span      token.Span
}

func (*Consult) exprNode()            {}
func (c *Consult) Position() token.Span { return c.Span }
func (c *Consult) String() string       { return fmt.Sprintf("consult %s from %s", c.Oracle, c.Input) }

// Embed requests an embedding vector from an oracle. Parsed for forward
// compatibility; not lowered to an executable operation (§9 scope).
type Embed struct {
	Oracle string
	Input  Expr
	Span   token.Span
}

func (*Embed) exprNode()            {}
func (e *Embed) Position() token.Span { return e.Span }
func (e *Embed) String() string       { return fmt.Sprintf("embed %s <- %s", e.Oracle, e.Input) }

// Context wraps an expression with a context/method annotation. Parsed
// for forward compatibility; carries no runtime effect.
type Context struct {
	Ctx     Expr
	Methods []string
	Span    token.Span
}

func (*Context) exprNode()            {}
func (c *Context) Position() token.Span { return c.Span }
func (c *Context) String() string       { return fmt.Sprintf("context %s", c.Ctx) }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Stmt is the tagged sum of statement node kinds.
type Stmt interface {
	Node
	stmtNode()
}

// Assign is `lhs := rhs`.
type Assign struct {
	Target Expr
	Value  Expr
	Span   token.Span
}

func (*Assign) stmtNode()            {}
func (a *Assign) Position() token.Span { return a.Span }
func (a *Assign) String() string       { return fmt.Sprintf("%s := %s", a.Target, a.Value) }

// If is `if Cond then Then else Else`.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
	Span token.Span
}

func (*If) stmtNode()            {}
func (i *If) Position() token.Span { return i.Span }
func (i *If) String() string       { return fmt.Sprintf("if %s then ...", i.Cond) }

// While is `while Cond do Body`.
type While struct {
	Cond Expr
	Body Stmt
	Span token.Span
}

func (*While) stmtNode()            {}
func (w *While) Position() token.Span { return w.Span }
func (w *While) String() string       { return fmt.Sprintf("while %s do ...", w.Cond) }

// Repeat is `repeat Body until Cond`.
type Repeat struct {
	Body Stmt
	Cond Expr
	Span token.Span
}

func (*Repeat) stmtNode()            {}
func (r *Repeat) Position() token.Span { return r.Span }
func (r *Repeat) String() string       { return fmt.Sprintf("repeat ... until %s", r.Cond) }

// ForRange is `for V := Lo to|downto Hi do Body`.
type ForRange struct {
	Var        string
	Lo, Hi     Expr
	Descending bool
	Body       Stmt
	Span       token.Span
}

func (*ForRange) stmtNode()            {}
func (f *ForRange) Position() token.Span { return f.Span }
func (f *ForRange) String() string       { return fmt.Sprintf("for %s := %s to %s do ...", f.Var, f.Lo, f.Hi) }

// ForIn is `for V in Array do Body`.
type ForIn struct {
	Var   string
	Array Expr
	Body  Stmt
	Span  token.Span
}

func (*ForIn) stmtNode()            {}
func (f *ForIn) Position() token.Span { return f.Span }
func (f *ForIn) String() string       { return fmt.Sprintf("for %s in %s do ...", f.Var, f.Array) }

// Pattern is the tagged sum of `case` match patterns.
type Pattern interface {
	Node
	patternNode()
}

// LiteralPattern matches a literal value by equality.
type LiteralPattern struct {
	Value Expr
	Span  token.Span
}

func (*LiteralPattern) patternNode()            {}
func (p *LiteralPattern) Position() token.Span { return p.Span }
func (p *LiteralPattern) String() string       { return p.Value.String() }

// ConstructorPattern matches `Ok(binding)` or `Err(binding)`.
type ConstructorPattern struct {
	Name    string // "Ok" or "Err"
	Binding string
	Span    token.Span
}

func (*ConstructorPattern) patternNode()            {}
func (p *ConstructorPattern) Position() token.Span { return p.Span }
func (p *ConstructorPattern) String() string       { return fmt.Sprintf("%s(%s)", p.Name, p.Binding) }

// CaseClause is one `pattern: Body` arm of a case statement.
type CaseClause struct {
	Pattern Pattern
	Body    Stmt
	Span    token.Span
}

// Case is `case E of pat: S; ... else: S end`.
type Case struct {
	Subject Expr
	Clauses []*CaseClause
	Else    Stmt // nil when absent
	Span    token.Span
}

func (*Case) stmtNode()            {}
func (c *Case) Position() token.Span { return c.Span }
func (c *Case) String() string       { return fmt.Sprintf("case %s of ...", c.Subject) }

// Loop is an unconditional loop, exited only by break/return.
type Loop struct {
	Body Stmt
	Span token.Span
}

func (*Loop) stmtNode()            {}
func (l *Loop) Position() token.Span { return l.Span }
func (l *Loop) String() string       { return "loop ..." }

// Parallel is a `parallel` block. Parsed for forward compatibility; it
// never introduces concurrency at execution time (§5, §9).
type Parallel struct {
	Body Stmt
	Span token.Span
}

func (*Parallel) stmtNode()            {}
func (p *Parallel) Position() token.Span { return p.Span }
func (p *Parallel) String() string       { return "parallel ..." }

// Break exits the innermost loop.
type Break struct{ Span token.Span }

func (*Break) stmtNode()            {}
func (b *Break) Position() token.Span { return b.Span }
func (b *Break) String() string       { return "break" }

// Continue jumps to the next iteration of the innermost loop.
type Continue struct{ Span token.Span }

func (*Continue) stmtNode()            {}
func (c *Continue) Position() token.Span { return c.Span }
func (c *Continue) String() string       { return "continue" }

// Return returns a value from the enclosing function.
type Return struct {
	Value Expr // nil for a bare return
	Span  token.Span
}

func (*Return) stmtNode()            {}
func (r *Return) Position() token.Span { return r.Span }
func (r *Return) String() string       { return "return" }

// Try is `try Body except Handler end`. Lowering emits Body only; Handler
// is never lowered (§9 Open Question). Present so the grammar is total.
type Try struct {
	Body    Stmt
	Handler Stmt
	Span    token.Span
}

func (*Try) stmtNode()            {}
func (t *Try) Position() token.Span { return t.Span }
func (t *Try) String() string       { return "try ... except ... end" }

// Block is a statement sequence, such as a `begin ... end` body.
type Block struct {
	Stmts []Stmt
	Span  token.Span
}

func (*Block) stmtNode()            {}
func (b *Block) Position() token.Span { return b.Span }
func (b *Block) String() string       { return fmt.Sprintf("{ %d stmts }", len(b.Stmts)) }

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	Expr Expr
	Span token.Span
}

func (*ExprStmt) stmtNode()            {}
func (e *ExprStmt) Position() token.Span { return e.Span }
func (e *ExprStmt) String() string       { return e.Expr.String() }
