// Package ast defines the spanned abstract syntax tree produced by the
// parser (spec component C / §3 "AST").
//
// Grounded on funvibe/funxy's internal/ast package split
// (ast_core/ast_expressions/ast_types) generalized to Astra's smaller,
// closed grammar, and on the exact item/expression shapes exercised by
// original_source/src/parser/tests.rs (Item::FnDef with
// name/requires/ensures, Item::Test with an optional `using` clause and
// effect bindings).
package ast

import "github.com/astra-lang/astra/internal/source"

// Node is implemented by every AST node; it exposes the source span it
// covers (spec invariant: every span lies within the owning source file).
type Node interface {
	Span() source.Span
}

// Module is the parser's single top-level output: a name and an ordered
// sequence of items.
type Module struct {
	Name     string
	Items    []Item
	FileSpan source.Span
}

func (m *Module) Span() source.Span { return m.FileSpan }

// Item is any top-level declaration.
type Item interface {
	Node
	itemNode()
}

type FunctionDef struct {
	NamePos    source.Span
	Name       string
	TypeParams []string
	Params     []Param
	ReturnType TypeExpr // nil means Unit
	Effects    []string
	Requires   []Expr
	Ensures    []Expr
	Body       *Block
	Public     bool
	SpanV      source.Span
}

type Param struct {
	Name string
	Type TypeExpr
	Span source.Span
}

func (f *FunctionDef) Span() source.Span { return f.SpanV }
func (*FunctionDef) itemNode()           {}

type TypeAliasDef struct {
	Name       string
	TypeParams []string
	Target     TypeExpr
	Public     bool
	SpanV      source.Span
}

func (t *TypeAliasDef) Span() source.Span { return t.SpanV }
func (*TypeAliasDef) itemNode()           {}

type RecordDef struct {
	Name       string
	TypeParams []string
	Fields     []RecordFieldDef
	Public     bool
	SpanV      source.Span
}

type RecordFieldDef struct {
	Name string
	Type TypeExpr
}

func (r *RecordDef) Span() source.Span { return r.SpanV }
func (*RecordDef) itemNode()           {}

type EnumDef struct {
	Name       string
	TypeParams []string
	Variants   []EnumVariantDef
	Public     bool
	SpanV      source.Span
}

type EnumVariantDef struct {
	Name   string
	Fields []TypeExpr // positional payload types; empty means nullary
}

func (e *EnumDef) Span() source.Span { return e.SpanV }
func (*EnumDef) itemNode()           {}

type TraitDef struct {
	Name    string
	Methods []TraitMethodSig
	SpanV   source.Span
}

type TraitMethodSig struct {
	Name       string
	Params     []TypeExpr
	ReturnType TypeExpr
}

func (t *TraitDef) Span() source.Span { return t.SpanV }
func (*TraitDef) itemNode()           {}

type TraitImpl struct {
	TraitName  string
	TargetType TypeExpr
	Methods    []*FunctionDef
	SpanV      source.Span
}

func (t *TraitImpl) Span() source.Span { return t.SpanV }
func (*TraitImpl) itemNode()           {}

type EffectDef struct {
	Name       string
	Operations []EffectOpSig
	SpanV      source.Span
}

type EffectOpSig struct {
	Name       string
	Params     []TypeExpr
	ReturnType TypeExpr
}

func (e *EffectDef) Span() source.Span { return e.SpanV }
func (*EffectDef) itemNode()           {}

// TestDef is a top-level `test "name" [using effects(...)] { ... }` item.
type TestDef struct {
	Name  string
	Using *UsingEffects
	Body  *Block
	SpanV source.Span
}

type UsingEffects struct {
	Bindings []EffectBinding
}

type EffectBinding struct {
	Effect string
	Value  Expr
}

func (t *TestDef) Span() source.Span { return t.SpanV }
func (*TestDef) itemNode()           {}

type ImportDef struct {
	Path  string
	Alias string // empty if none
	SpanV source.Span
}

func (i *ImportDef) Span() source.Span { return i.SpanV }
func (*ImportDef) itemNode()           {}

// TypeExpr is the parsed (unresolved) syntax for a type annotation,
// converted to types.Type by the checker.
type TypeExpr interface {
	Node
	typeExprNode()
}

type NamedTypeExpr struct {
	Name  string
	Args  []TypeExpr
	SpanV source.Span
}

func (n *NamedTypeExpr) Span() source.Span { return n.SpanV }
func (*NamedTypeExpr) typeExprNode()       {}

type FuncTypeExpr struct {
	Params  []TypeExpr
	Ret     TypeExpr
	Effects []string
	SpanV   source.Span
}

func (f *FuncTypeExpr) Span() source.Span { return f.SpanV }
func (*FuncTypeExpr) typeExprNode()       {}

type TupleTypeExpr struct {
	Elems []TypeExpr
	SpanV source.Span
}

func (t *TupleTypeExpr) Span() source.Span { return t.SpanV }
func (*TupleTypeExpr) typeExprNode()       {}

type RecordTypeExpr struct {
	Fields []RecordFieldDef
	SpanV  source.Span
}

func (r *RecordTypeExpr) Span() source.Span { return r.SpanV }
func (*RecordTypeExpr) typeExprNode()       {}

// Block is a brace-delimited statement sequence whose value is the last
// expression statement's value (or Unit if empty / last stmt is a
// binding).
type Block struct {
	Stmts []Stmt
	SpanV source.Span
}

func (b *Block) Span() source.Span { return b.SpanV }

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

type LetStmt struct {
	Pattern Pattern
	Type    TypeExpr // optional annotation
	Value   Expr
	SpanV   source.Span
}

func (l *LetStmt) Span() source.Span { return l.SpanV }
func (*LetStmt) stmtNode()           {}

type ExprStmt struct {
	X     Expr
	SpanV source.Span
}

func (e *ExprStmt) Span() source.Span { return e.SpanV }
func (*ExprStmt) stmtNode()           {}

type AssignStmt struct {
	Target Expr // Identifier or field/index access
	Op     string // "=", "+=", "-=", ...
	Value  Expr
	SpanV  source.Span
}

func (a *AssignStmt) Span() source.Span { return a.SpanV }
func (*AssignStmt) stmtNode()           {}
