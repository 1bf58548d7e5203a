// Package object implements the runtime value model (spec component F):
// a closed algebraic Value sum with structural equality and ordering.
//
// Grounded on funvibe/funxy's internal/evaluator/object.go (an Object
// interface with Type()/Inspect() implemented by concrete structs
// dispatched via type switch) and on original_source/src/interpreter's
// Value enum for the exact equality/ordering semantics (NaN != NaN,
// Int/Float cross-promotion when compared, Closures and Futures never
// equal or ordered).
package object

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/google/uuid"
)

// Kind names the runtime type of a Value, used in error messages and by
// the `type_name`-style introspection the interpreter exposes.
type Kind string

const (
	KindInt      Kind = "Int"
	KindFloat    Kind = "Float"
	KindBool     Kind = "Bool"
	KindText     Kind = "Text"
	KindUnit     Kind = "Unit"
	KindList     Kind = "List"
	KindTuple    Kind = "Tuple"
	KindMap      Kind = "Map"
	KindSet      Kind = "Set"
	KindOption   Kind = "Option"
	KindResult   Kind = "Result"
	KindRecord   Kind = "Record"
	KindVariant  Kind = "Variant"
	KindVariantC Kind = "VariantConstructor"
	KindClosure  Kind = "Closure"
	KindFuture   Kind = "Future"
)

// Value is any runtime value. The scalar kinds are value types; lists,
// maps, sets, records, tuples, Option/Result, variants and function
// values are pointers, keeping mutation-through-reference semantics
// aligned with the original's reference-counted interior mutability.
type Value interface {
	Kind() Kind
	String() string
}

type Int int64

func (Int) Kind() Kind        { return KindInt }
func (i Int) String() string  { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (Float) Kind() Kind { return KindFloat }
func (f Float) String() string {
	if math.IsNaN(float64(f)) {
		return "NaN"
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

type Text string

func (Text) Kind() Kind        { return KindText }
func (t Text) String() string  { return string(t) }

type Unit struct{}

func (Unit) Kind() Kind       { return KindUnit }
func (Unit) String() string  { return "()" }

// List is a growable, reference-shared sequence (mirrors funxy's Array
// object: a pointer to a backing slice so built-in methods that mutate
// in place are visible to all holders of the value).
type List struct {
	Elems []Value
}

func NewList(elems []Value) *List { return &List{Elems: elems} }
func (*List) Kind() Kind          { return KindList }
func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type Tuple struct {
	Elems []Value
}

func (*Tuple) Kind() Kind { return KindTuple }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Map preserves insertion order for deterministic iteration and
// stringification, backed by an order slice alongside the lookup map
// (the same technique funxy's object.go uses for its Map object).
type Map struct {
	keys   []Value
	values map[string]Value
	index  map[string]Value // key string -> original key Value
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value), index: make(map[string]Value)}
}

func (*Map) Kind() Kind { return KindMap }

func keyString(v Value) string {
	return v.Kind().String() + ":" + v.String()
}

func (m *Map) Get(key Value) (Value, bool) {
	v, ok := m.values[keyString(key)]
	return v, ok
}

func (m *Map) Set(key, val Value) {
	ks := keyString(key)
	if _, exists := m.values[ks]; !exists {
		m.keys = append(m.keys, key)
		m.index[ks] = key
	}
	m.values[ks] = val
}

func (m *Map) Delete(key Value) bool {
	ks := keyString(key)
	if _, ok := m.values[ks]; !ok {
		return false
	}
	delete(m.values, ks)
	delete(m.index, ks)
	for i, k := range m.keys {
		if keyString(k) == ks {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Keys() []Value { return append([]Value(nil), m.keys...) }

func (m *Map) Entries() [][2]Value {
	out := make([][2]Value, 0, len(m.keys))
	for _, k := range m.keys {
		v := m.values[keyString(k)]
		out = append(out, [2]Value{k, v})
	}
	return out
}

func (m *Map) String() string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		v := m.values[keyString(k)]
		parts = append(parts, fmt.Sprintf("%s: %s", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set is an insertion-ordered unique collection, mirrored on Map's
// keying scheme.
type Set struct {
	order []Value
	has   map[string]bool
}

func NewSet() *Set { return &Set{has: make(map[string]bool)} }
func (*Set) Kind() Kind { return KindSet }

func (s *Set) Add(v Value) bool {
	ks := keyString(v)
	if s.has[ks] {
		return false
	}
	s.has[ks] = true
	s.order = append(s.order, v)
	return true
}

func (s *Set) Contains(v Value) bool { return s.has[keyString(v)] }

func (s *Set) Remove(v Value) bool {
	ks := keyString(v)
	if !s.has[ks] {
		return false
	}
	delete(s.has, ks)
	for i, e := range s.order {
		if keyString(e) == ks {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) Len() int         { return len(s.order) }
func (s *Set) Elems() []Value   { return append([]Value(nil), s.order...) }

func (s *Set) String() string {
	parts := make([]string, len(s.order))
	for i, e := range s.order {
		parts[i] = e.String()
	}
	return "Set{" + strings.Join(parts, ", ") + "}"
}

// Option is Some(v) or None.
type Option struct {
	Value Value // nil when None
}

func Some(v Value) *Option { return &Option{Value: v} }
func None() *Option        { return &Option{Value: nil} }
func (o *Option) IsSome() bool { return o.Value != nil }
func (*Option) Kind() Kind     { return KindOption }
func (o *Option) String() string {
	if o.Value == nil {
		return "None"
	}
	return "Some(" + o.Value.String() + ")"
}

// Result is Ok(v) or Err(e).
type Result struct {
	OkVal  Value // nil when this is an Err
	ErrVal Value // nil when this is an Ok
}

func Ok(v Value) *Result  { return &Result{OkVal: v} }
func Err(v Value) *Result { return &Result{ErrVal: v} }
func (r *Result) IsOk() bool { return r.ErrVal == nil }
func (*Result) Kind() Kind   { return KindResult }
func (r *Result) String() string {
	if r.IsOk() {
		return "Ok(" + r.OkVal.String() + ")"
	}
	return "Err(" + r.ErrVal.String() + ")"
}

// Record is a named, field-mutable structure (record update-spread
// copies the field map; field assignment on an existing binding mutates
// in place, same reference semantics as funxy's Record object).
type Record struct {
	TypeName string
	Fields   map[string]Value
	Order    []string
}

func NewRecord(typeName string) *Record {
	return &Record{TypeName: typeName, Fields: make(map[string]Value)}
}

func (r *Record) Set(name string, v Value) {
	if _, exists := r.Fields[name]; !exists {
		r.Order = append(r.Order, name)
	}
	r.Fields[name] = v
}

func (*Record) Kind() Kind { return KindRecord }
func (r *Record) String() string {
	parts := make([]string, 0, len(r.Order))
	for _, name := range r.Order {
		parts = append(parts, fmt.Sprintf("%s: %s", name, r.Fields[name]))
	}
	return r.TypeName + " { " + strings.Join(parts, ", ") + " }"
}

// Variant is a constructed enum value, e.g. `Color.Red` or
// `Shape.Circle(3.0)`.
type Variant struct {
	EnumName string
	Name     string
	Fields   []Value
}

func (*Variant) Kind() Kind { return KindVariant }
func (v *Variant) String() string {
	if len(v.Fields) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.String()
	}
	return v.Name + "(" + strings.Join(parts, ", ") + ")"
}

// VariantConstructor is a bare `Variant` reference used as a function
// value, e.g. passed to `List.map(Some)`.
type VariantConstructor struct {
	EnumName string
	Name     string
	Arity    int
}

func (*VariantConstructor) Kind() Kind      { return KindVariantC }
func (v *VariantConstructor) String() string { return v.Name }

// Closure is a user or built-in function value. Body holds either an
// *ast.Block (named function / `test` body) or an ast.Expr (lambda
// body); the interpreter's call path type-switches on it so both
// function shapes share one runtime representation.
type Closure struct {
	ID       uuid.UUID
	Params   []ast.Param
	Body     interface{}
	Env      *Environment
	Name     string // empty for anonymous lambdas
	Requires []ast.Expr
	Ensures  []ast.Expr
	Builtin  func(args []Value) (Value, error)
}

func (*Closure) Kind() Kind { return KindClosure }
func (c *Closure) String() string {
	if c.Name != "" {
		return "<fn " + c.Name + ">"
	}
	return "<closure#" + c.ID.String() + ">"
}

// Future is a reserved placeholder value for asynchronous effect
// results; Astra's tree-walking interpreter is synchronous, so Futures
// are always already resolved by the time they're observable, but the
// type is retained so `effects(Net)` signatures can round-trip through
// it (spec §4.J Open Question: "Future" reserved for later async work).
type Future struct {
	ID       uuid.UUID
	Resolved bool
	Value    Value
	Err      error
}

func (*Future) Kind() Kind      { return KindFuture }
func (f *Future) String() string { return "<future#" + f.ID.String() + ">" }

// Equal implements the structural equality spec'd in §4.F: NaN never
// equals anything including itself; Int and Float compare equal across
// kinds when numerically equal; Closures and Futures are never equal.
func Equal(a, b Value) bool {
	if af, ok := a.(Float); ok && math.IsNaN(float64(af)) {
		return false
	}
	if bf, ok := b.(Float); ok && math.IsNaN(float64(bf)) {
		return false
	}
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv
		case Float:
			return float64(av) == float64(bv)
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Int:
			return float64(av) == float64(bv)
		case Float:
			return av == bv
		}
		return false
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Unit:
		_, ok := b.(Unit)
		return ok
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.keys {
			bval, ok := bv.Get(k)
			if !ok || !Equal(av.values[keyString(k)], bval) {
				return false
			}
		}
		return true
	case *Set:
		bv, ok := b.(*Set)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.order {
			if !bv.Contains(e) {
				return false
			}
		}
		return true
	case *Option:
		bv, ok := b.(*Option)
		if !ok {
			return false
		}
		if av.Value == nil || bv.Value == nil {
			return av.Value == nil && bv.Value == nil
		}
		return Equal(av.Value, bv.Value)
	case *Result:
		bv, ok := b.(*Result)
		if !ok {
			return false
		}
		if av.IsOk() != bv.IsOk() {
			return false
		}
		if av.IsOk() {
			return Equal(av.OkVal, bv.OkVal)
		}
		return Equal(av.ErrVal, bv.ErrVal)
	case *Record:
		bv, ok := b.(*Record)
		if !ok || av.TypeName != bv.TypeName || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for name, fv := range av.Fields {
			bfv, ok := bv.Fields[name]
			if !ok || !Equal(fv, bfv) {
				return false
			}
		}
		return true
	case *Variant:
		bv, ok := b.(*Variant)
		if !ok || av.EnumName != bv.EnumName || av.Name != bv.Name || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if !Equal(av.Fields[i], bv.Fields[i]) {
				return false
			}
		}
		return true
	default:
		return false // Closure, Future, VariantConstructor: never equal
	}
}

// Compare returns -1/0/1 for ordered values following spec §4.F's IEEE
// 754 ordering for numbers (cross-promoting Int/Float) and
// lexicographic ordering for Text/List/Tuple; ok is false for
// unorderable pairs (Closures, Futures, Maps, Sets, Records, Variants,
// differing kinds, or a NaN operand).
func Compare(a, b Value) (cmp int, ok bool) {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return cmpInt64(int64(av), int64(bv)), true
		case Float:
			return cmpFloat(float64(av), float64(bv))
		}
	case Float:
		if math.IsNaN(float64(av)) {
			return 0, false
		}
		switch bv := b.(type) {
		case Int:
			return cmpFloat(float64(av), float64(bv))
		case Float:
			return cmpFloat(float64(av), float64(bv))
		}
	case Bool:
		bv, isBool := b.(Bool)
		if !isBool {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !bool(av) && bool(bv) {
			return -1, true
		}
		return 1, true
	case Text:
		bv, isText := b.(Text)
		if !isText {
			return 0, false
		}
		return strings.Compare(string(av), string(bv)), true
	case *Tuple:
		bv, isTup := b.(*Tuple)
		if !isTup || len(av.Elems) != len(bv.Elems) {
			return 0, false
		}
		for i := range av.Elems {
			c, cok := Compare(av.Elems[i], bv.Elems[i])
			if !cok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		return 0, true
	case *List:
		bv, isList := b.(*List)
		if !isList {
			return 0, false
		}
		n := len(av.Elems)
		if len(bv.Elems) < n {
			n = len(bv.Elems)
		}
		for i := 0; i < n; i++ {
			c, cok := Compare(av.Elems[i], bv.Elems[i])
			if !cok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		return cmpInt64(int64(len(av.Elems)), int64(len(bv.Elems))), true
	}
	return 0, false
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) (int, bool) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}

// Hash returns a structural 32-bit hash of v, grounded on funxy's
// internal/evaluator hashString/fnv.New32a() convention (there, part of
// the Object interface itself; here a free function alongside Equal and
// Compare, since Value stays a minimal Kind()/String() interface).
// Hash is derived from Kind and String only, so values that Equal treats
// as equal can still hash differently: Int 2 and Float 2.0 differ in
// kind, and Maps with the same entries inserted in a different order
// differ in String.
func Hash(v Value) uint32 {
	h := fnv.New32a()
	h.Write([]byte(v.Kind()))
	h.Write([]byte{0})
	h.Write([]byte(v.String()))
	return h.Sum32()
}

// SortValues sorts a slice of Values in place using Compare, used by
// List.sort; unorderable pairs are treated as
// equal so the sort remains total (spec leaves cross-kind comparisons
// unspecified; built-in sort is only ever invoked on homogeneous lists).
func SortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool {
		c, ok := Compare(vs[i], vs[j])
		return ok && c < 0
	})
}
