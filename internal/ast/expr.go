package ast

import "github.com/astra-lang/astra/internal/source"

// Expr is any expression node. Astra is expression-oriented: if/match/
// block all produce values, so control flow lives here rather than in a
// separate statement hierarchy.
type Expr interface {
	Node
	exprNode()
}

type IntLit struct {
	Value int64
	SpanV source.Span
}

func (l *IntLit) Span() source.Span { return l.SpanV }
func (*IntLit) exprNode()           {}

type FloatLit struct {
	Value float64
	SpanV source.Span
}

func (l *FloatLit) Span() source.Span { return l.SpanV }
func (*FloatLit) exprNode()           {}

type BoolLit struct {
	Value bool
	SpanV source.Span
}

func (l *BoolLit) Span() source.Span { return l.SpanV }
func (*BoolLit) exprNode()           {}

type UnitLit struct {
	SpanV source.Span
}

func (l *UnitLit) Span() source.Span { return l.SpanV }
func (*UnitLit) exprNode()           {}

// TextLit is a plain string literal with no interpolation.
type TextLit struct {
	Value string
	SpanV source.Span
}

func (l *TextLit) Span() source.Span { return l.SpanV }
func (*TextLit) exprNode()           {}

// InterpolatedText holds the alternating literal/expr pieces of a
// `"...${expr}..."` literal. Parts[i] is literal text; Exprs[i] is the
// expression that follows it (len(Exprs) == len(Parts)-1).
type InterpolatedText struct {
	Parts []string
	Exprs []Expr
	SpanV source.Span
}

func (l *InterpolatedText) Span() source.Span { return l.SpanV }
func (*InterpolatedText) exprNode()           {}

// Hole is the `???` unimplemented-expression marker (spec §3): valid
// anywhere an expression is, always a runtime error E4013 if evaluated.
type Hole struct {
	SpanV source.Span
}

func (l *Hole) Span() source.Span { return l.SpanV }
func (*Hole) exprNode()           {}

type Identifier struct {
	Name  string
	SpanV source.Span
}

func (i *Identifier) Span() source.Span { return i.SpanV }
func (*Identifier) exprNode()           {}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	SpanV source.Span
}

func (b *BinaryExpr) Span() source.Span { return b.SpanV }
func (*BinaryExpr) exprNode()           {}

type UnaryExpr struct {
	Op    string
	X     Expr
	SpanV source.Span
}

func (u *UnaryExpr) Span() source.Span { return u.SpanV }
func (*UnaryExpr) exprNode()           {}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	SpanV  source.Span
}

func (c *CallExpr) Span() source.Span { return c.SpanV }
func (*CallExpr) exprNode()           {}

// MethodCallExpr is `recv.name(args)`, resolved by the checker/interpreter
// against the builtin method tables (spec component I) before falling
// back to a trait method or record field holding a closure.
type MethodCallExpr struct {
	Receiver Expr
	Name     string
	Args     []Expr
	SpanV    source.Span
}

func (m *MethodCallExpr) Span() source.Span { return m.SpanV }
func (*MethodCallExpr) exprNode()           {}

type FieldAccessExpr struct {
	X     Expr
	Name  string
	SpanV source.Span
}

func (f *FieldAccessExpr) Span() source.Span { return f.SpanV }
func (*FieldAccessExpr) exprNode()           {}

type IndexExpr struct {
	X     Expr
	Index Expr
	SpanV source.Span
}

func (i *IndexExpr) Span() source.Span { return i.SpanV }
func (*IndexExpr) exprNode()           {}

type IfExpr struct {
	Cond  Expr
	Then  *Block
	Else  Expr // *Block, *IfExpr, or nil
	SpanV source.Span
}

func (i *IfExpr) Span() source.Span { return i.SpanV }
func (*IfExpr) exprNode()           {}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional `if` guard
	Body    Expr
}

type MatchExpr struct {
	Subject Expr
	Arms    []MatchArm
	SpanV   source.Span
}

func (m *MatchExpr) Span() source.Span { return m.SpanV }
func (*MatchExpr) exprNode()           {}

// BlockExpr wraps a Block so it can appear in expression position (e.g.
// as an if/else arm or a lambda body).
type BlockExpr struct {
	Block *Block
}

func (b *BlockExpr) Span() source.Span { return b.Block.Span() }
func (*BlockExpr) exprNode()           {}

type LambdaExpr struct {
	Params []Param
	Body   Expr
	SpanV  source.Span
}

func (l *LambdaExpr) Span() source.Span { return l.SpanV }
func (*LambdaExpr) exprNode()           {}

type ListLit struct {
	Elems []Expr
	SpanV source.Span
}

func (l *ListLit) Span() source.Span { return l.SpanV }
func (*ListLit) exprNode()           {}

type TupleLit struct {
	Elems []Expr
	SpanV source.Span
}

func (t *TupleLit) Span() source.Span { return t.SpanV }
func (*TupleLit) exprNode()           {}

type MapEntry struct {
	Key   Expr
	Value Expr
}

type MapLit struct {
	Entries []MapEntry
	SpanV   source.Span
}

func (m *MapLit) Span() source.Span { return m.SpanV }
func (*MapLit) exprNode()           {}

type SetLit struct {
	Elems []Expr
	SpanV source.Span
}

func (s *SetLit) Span() source.Span { return s.SpanV }
func (*SetLit) exprNode()           {}

// RangeExpr is `a..b` (exclusive) or `a..=b` (inclusive).
type RangeExpr struct {
	From      Expr
	To        Expr
	Inclusive bool
	SpanV     source.Span
}

func (r *RangeExpr) Span() source.Span { return r.SpanV }
func (*RangeExpr) exprNode()           {}

type RecordFieldInit struct {
	Name  string
	Value Expr
}

// RecordLit is `Name { field: value, ... }`.
type RecordLit struct {
	TypeName string
	Fields   []RecordFieldInit
	Spread   Expr // optional `...base` update-spread
	SpanV    source.Span
}

func (r *RecordLit) Span() source.Span { return r.SpanV }
func (*RecordLit) exprNode()           {}

// VariantLit is `Enum.Variant(args...)` or a bare `Variant(args...)` when
// the enum can be inferred; Enum is empty in the latter case until the
// checker resolves it.
type VariantLit struct {
	Enum    string
	Variant string
	Args    []Expr
	SpanV   source.Span
}

func (v *VariantLit) Span() source.Span { return v.SpanV }
func (*VariantLit) exprNode()           {}

// TryExpr is the postfix `?` early-return operator.
type TryExpr struct {
	X     Expr
	SpanV source.Span
}

func (t *TryExpr) Span() source.Span { return t.SpanV }
func (*TryExpr) exprNode()           {}

type ReturnExpr struct {
	Value Expr // nil means Unit
	SpanV source.Span
}

func (r *ReturnExpr) Span() source.Span { return r.SpanV }
func (*ReturnExpr) exprNode()           {}

type BreakExpr struct {
	SpanV source.Span
}

func (b *BreakExpr) Span() source.Span { return b.SpanV }
func (*BreakExpr) exprNode()           {}

type ContinueExpr struct {
	SpanV source.Span
}

func (c *ContinueExpr) Span() source.Span { return c.SpanV }
func (*ContinueExpr) exprNode()           {}

type WhileExpr struct {
	Cond  Expr
	Body  *Block
	SpanV source.Span
}

func (w *WhileExpr) Span() source.Span { return w.SpanV }
func (*WhileExpr) exprNode()           {}

// ForExpr is `for pat in iterable { body }` over anything implementing
// the built-in iteration protocol (List/Map/Set/Range).
type ForExpr struct {
	Pattern  Pattern
	Iterable Expr
	Body     *Block
	SpanV    source.Span
}

func (f *ForExpr) Span() source.Span { return f.SpanV }
func (*ForExpr) exprNode()           {}

// PerformExpr invokes a user-defined effect operation: `perform Effect.op(args)`.
type PerformExpr struct {
	Effect string
	Op     string
	Args   []Expr
	SpanV  source.Span
}

func (p *PerformExpr) Span() source.Span { return p.SpanV }
func (*PerformExpr) exprNode()           {}
