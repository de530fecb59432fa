// Package ast defines the typed abstract syntax tree consumed by the NAAb
// interpreter. Surface-syntax concerns (optional semicolons, multi-line
// struct literals, trailing commas) belong to whatever parser produces this
// tree; the core only relies on the node shapes defined here.
package ast

// Pos is a 1-based source position used for diagnostics.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	return p.File
}

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

type base struct {
	Pos Pos
}

func (b base) Position() Pos { return b.Pos }

// ---------------------------------------------------------------------
// Top level
// ---------------------------------------------------------------------

// Program is the root of a parsed .naab file.
type Program struct {
	base
	Uses    []*UseStmt
	Structs []*StructDecl
	Enums   []*EnumDecl
	Funcs   []*FuncDecl
	Stmts   []Stmt // executable top-level statements, in source order
	Main    *Block // nil if the file has no main block (library module)
}

// UseStmt is `use path.dotted [as alias]`.
type UseStmt struct {
	base
	Path  string // dotted form, e.g. "a.b.c"
	Alias string // resolved alias: explicit "as x", else last dotted component
}

// StructDecl declares a (possibly generic) struct type.
type StructDecl struct {
	base
	Name       string
	TypeParams []string // empty => concrete
	Fields     []FieldDecl
}

// FieldDecl is one field of a struct.
type FieldDecl struct {
	Name string
	Type *Type
}

// EnumDecl declares an enumeration: a name and its ordered variant names.
type EnumDecl struct {
	base
	Name     string
	Variants []string
}

// FuncDecl declares a named function.
type FuncDecl struct {
	base
	Name       string
	Exported   bool
	TypeParams []string
	Params     []ParamDecl
	ReturnType *Type
	Body       *Block
}

// ParamDecl is one formal parameter.
type ParamDecl struct {
	Name      string
	Type      *Type
	IsRef     bool
	HasDefault bool
	Default   Expr
}

// Block is an ordered sequence of statements forming a lexical scope.
type Block struct {
	base
	Stmts []Stmt
}

func (b *Block) stmtNode() {}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

// Kind enumerates the structural categories a Type can carry.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindVoid
	KindAny
	KindList
	KindDict
	KindStruct
	KindEnum
	KindFunction
	KindUnion
	KindTypeParam
)

// Type is a structured type descriptor.
type Type struct {
	Kind        Kind
	IsNullable  bool
	IsReference bool

	Elem *Type // List element type

	Key   *Type // Dict key type
	Value *Type // Dict value type

	StructName string // Struct kind: name
	ModulePath string // Struct kind: optional module-prefix namespace

	Union []*Type // Union kind: member types

	ParamName string // TypeParam kind: parameter name
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// LetStmt declares a new binding in the current scope.
type LetStmt struct {
	base
	Name  string
	Value Expr
}

func (s *LetStmt) stmtNode() {}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	base
	X Expr
}

func (s *ExprStmt) stmtNode() {}

// IfStmt is `if cond { ... } else { ... }`. Else may be nil.
type IfStmt struct {
	base
	Cond Expr
	Then *Block
	Else *Block
}

func (s *IfStmt) stmtNode() {}

// WhileStmt is `while cond { ... }`.
type WhileStmt struct {
	base
	Cond Expr
	Body *Block
}

func (s *WhileStmt) stmtNode() {}

// ForInStmt is `for v in x { ... }`.
type ForInStmt struct {
	base
	Var  string
	Iter Expr
	Body *Block
}

func (s *ForInStmt) stmtNode() {}

// BreakStmt exits the nearest enclosing loop.
type BreakStmt struct{ base }

func (s *BreakStmt) stmtNode() {}

// ContinueStmt re-enters the nearest enclosing loop's next iteration.
type ContinueStmt struct{ base }

func (s *ContinueStmt) stmtNode() {}

// ReturnStmt unwinds to the enclosing function call.
type ReturnStmt struct {
	base
	Value Expr // nil for bare `return`
}

func (s *ReturnStmt) stmtNode() {}

// ThrowStmt raises an exception.
type ThrowStmt struct {
	base
	Value Expr
}

func (s *ThrowStmt) stmtNode() {}

// TryStmt is `try { } catch (name) { } [finally { }]`.
type TryStmt struct {
	base
	Try       *Block
	CatchName string
	Catch     *Block // nil if there is no catch clause
	Finally   *Block // nil if there is no finally clause
}

func (s *TryStmt) stmtNode() {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// IntLit is an integer literal.
type IntLit struct {
	base
	Value int64
}

func (e *IntLit) exprNode() {}

// FloatLit is a floating-point literal.
type FloatLit struct {
	base
	Value float64
}

func (e *FloatLit) exprNode() {}

// StringLit is a string literal.
type StringLit struct {
	base
	Value string
}

func (e *StringLit) exprNode() {}

// BoolLit is a boolean literal.
type BoolLit struct {
	base
	Value bool
}

func (e *BoolLit) exprNode() {}

// NullLit is the `null` literal.
type NullLit struct{ base }

func (e *NullLit) exprNode() {}

// Ident is an identifier reference.
type Ident struct {
	base
	Name string
}

func (e *Ident) exprNode() {}

// ListLit is `[e1, e2, ...]`.
type ListLit struct {
	base
	Elems []Expr
}

func (e *ListLit) exprNode() {}

// DictEntry is one key/value pair of a DictLit.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictLit is `{k1: v1, k2: v2, ...}`.
type DictLit struct {
	base
	Entries []DictEntry
}

func (e *DictLit) exprNode() {}

// StructFieldInit is one field initializer in a StructLit.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructLit is `Name { f1: v1, ... }`.
type StructLit struct {
	base
	Name   string
	Fields []StructFieldInit
}

func (e *StructLit) exprNode() {}

// BinaryExpr is a two-operand operator expression.
type BinaryExpr struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) exprNode() {}

// UnaryExpr is a one-operand prefix operator expression.
type UnaryExpr struct {
	base
	Op string
	X  Expr
}

func (e *UnaryExpr) exprNode() {}

// LogicalExpr is `and`/`or`, which short-circuit (handled specially from
// BinaryExpr so the interpreter need not special-case operator strings
// deep in evaluation).
type LogicalExpr struct {
	base
	Op    string // "and" | "or"
	Left  Expr
	Right Expr
}

func (e *LogicalExpr) exprNode() {}

// AssignExpr is `lhs = rhs`; Lhs is one of Ident, MemberExpr, IndexExpr.
type AssignExpr struct {
	base
	Lhs Expr
	Rhs Expr
}

func (e *AssignExpr) exprNode() {}

// MemberExpr is `obj.field`.
type MemberExpr struct {
	base
	X     Expr
	Field string
}

func (e *MemberExpr) exprNode() {}

// IndexExpr is `x[k]`.
type IndexExpr struct {
	base
	X     Expr
	Index Expr
}

func (e *IndexExpr) exprNode() {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	base
	Callee    Expr
	Args      []Expr
	TypeArgs  []*Type // explicit generic type arguments, if supplied
}

func (e *CallExpr) exprNode() {}

// PipelineExpr is `x |> f(args...)`.
type PipelineExpr struct {
	base
	X    Expr
	Call *CallExpr
}

func (e *PipelineExpr) exprNode() {}

// LambdaExpr is an anonymous function literal.
type LambdaExpr struct {
	base
	Params     []ParamDecl
	ReturnType *Type
	Body       *Block
}

func (e *LambdaExpr) exprNode() {}

// PolyglotExpr is a `<<lang[v1, v2] ...>>` block.
type PolyglotExpr struct {
	base
	Language string
	Code     string
	BoundVars []string
	// AssignTo, if non-empty, is the host-side name the dependency
	// analyzer treats this block's result as writing into (set by the
	// parser when the block is the RHS of a `let`/assignment).
	AssignTo string
}

func (e *PolyglotExpr) exprNode() {}
