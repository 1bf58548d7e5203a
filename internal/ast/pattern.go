package ast

import "github.com/astra-lang/astra/internal/source"

// Pattern is any match/let-binding pattern (spec §3 Data Model, Pattern).
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern is the bare `_` pattern: always matches, binds nothing.
type WildcardPattern struct {
	SpanV source.Span
}

func (w *WildcardPattern) Span() source.Span { return w.SpanV }
func (*WildcardPattern) patternNode()        {}

// IdentPattern binds the whole scrutinee to a name. A bare lowercase
// identifier is always a binding, never a catch-all type test -- this is
// what makes it (together with Wildcard) one of exhaustiveness's two
// catch-all pattern kinds.
type IdentPattern struct {
	Name  string
	SpanV source.Span
}

func (i *IdentPattern) Span() source.Span { return i.SpanV }
func (*IdentPattern) patternNode()        {}

type LitPattern struct {
	Value interface{} // int64, float64, bool, or string
	SpanV source.Span
}

func (l *LitPattern) Span() source.Span { return l.SpanV }
func (*LitPattern) patternNode()        {}

// VariantPattern matches an enum/Option/Result constructor, optionally
// destructuring its payload positionally.
type VariantPattern struct {
	Enum    string // empty when inferred from context (Some/None/Ok/Err)
	Variant string
	Fields  []Pattern
	SpanV   source.Span
}

func (v *VariantPattern) Span() source.Span { return v.SpanV }
func (*VariantPattern) patternNode()        {}

type RecordFieldPattern struct {
	Name    string
	Pattern Pattern // nil means shorthand `{name}` binding `name`
}

// RecordPattern destructures a record; Rest reports whether a trailing
// `, ..` was present, allowing unmatched fields to be ignored.
type RecordPattern struct {
	TypeName string // empty when untyped
	Fields   []RecordFieldPattern
	Rest     bool
	SpanV    source.Span
}

func (r *RecordPattern) Span() source.Span { return r.SpanV }
func (*RecordPattern) patternNode()        {}

type TuplePattern struct {
	Elems []Pattern
	SpanV source.Span
}

func (t *TuplePattern) Span() source.Span { return t.SpanV }
func (*TuplePattern) patternNode()        {}

// ListPattern destructures a list as `[head, ...tail]`-style patterns;
// Rest, when non-nil, binds the remaining elements (nil Rest means the
// list length must match len(Elems) exactly).
type ListPattern struct {
	Elems []Pattern
	Rest  *IdentPattern
	SpanV source.Span
}

func (l *ListPattern) Span() source.Span { return l.SpanV }
func (*ListPattern) patternNode()        {}

// OrPattern matches if any alternative matches (`pat1 | pat2`); all
// alternatives must bind the same names.
type OrPattern struct {
	Alternatives []Pattern
	SpanV        source.Span
}

func (o *OrPattern) Span() source.Span { return o.SpanV }
func (*OrPattern) patternNode()        {}
