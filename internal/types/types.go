// Package types implements the Hindley-Milner type primitives of spec
// component D: the Type sum, a union-find Substitution, unification,
// the occurs check, and generic instantiation.
//
// Grounded on original_source/src/typechecker/substitution.rs (the
// Rust Type enum and Substitution this spec was distilled from) adapted
// into Go in the manner of funvibe/funxy's internal/typesystem package
// (a Type interface with concrete struct variants, dispatched by type
// switch, as in internal/typesystem/unify.go's unifyInternal).
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the sum of all type shapes in the language. It is implemented
// by a closed set of structs below; callers type-switch on it.
type Type interface {
	isType()
	String() string
}

type (
	TUnit      struct{}
	TInt       struct{}
	TFloat     struct{}
	TBool      struct{}
	TText      struct{}
	TUnknown   struct{}
	TTypeParam struct{ Name string }
	TVar       struct{ ID int }

	TFunc struct {
		Params  []Type
		Ret     Type
		Effects []string // declared effect row, order-insensitive set
	}

	// TRecord is an ordered field list; field order matters for display
	// but not for structural unification (spec §4.D: "same field set,
	// same field types, order-insensitive").
	TRecord struct {
		Fields []RecordField
	}

	RecordField struct {
		Name string
		Type Type
	}

	TNamed struct {
		Name string
		Args []Type
	}

	TOption struct{ Elem Type }
	TResult struct {
		Ok  Type
		Err Type
	}
	TList  struct{ Elem Type }
	TTuple struct{ Elems []Type }
)

func (TUnit) isType()      {}
func (TInt) isType()       {}
func (TFloat) isType()     {}
func (TBool) isType()      {}
func (TText) isType()      {}
func (TUnknown) isType()   {}
func (TTypeParam) isType() {}
func (TVar) isType()       {}
func (TFunc) isType()      {}
func (TRecord) isType()    {}
func (TNamed) isType()     {}
func (TOption) isType()    {}
func (TResult) isType()    {}
func (TList) isType()      {}
func (TTuple) isType()     {}

func (TUnit) String() string    { return "Unit" }
func (TInt) String() string     { return "Int" }
func (TFloat) String() string   { return "Float" }
func (TBool) String() string    { return "Bool" }
func (TText) String() string    { return "Text" }
func (TUnknown) String() string { return "Unknown" }
func (t TTypeParam) String() string {
	return t.Name
}
func (t TVar) String() string {
	return fmt.Sprintf("'t%d", t.ID)
}
func (t TFunc) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret)
}
func (t TRecord) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
func (t TNamed) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", t.Name, strings.Join(parts, ", "))
}
func (t TOption) String() string { return fmt.Sprintf("Option[%s]", t.Elem) }
func (t TResult) String() string { return fmt.Sprintf("Result[%s, %s]", t.Ok, t.Err) }
func (t TList) String() string   { return fmt.Sprintf("List[%s]", t.Elem) }
func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Field looks up a named field in a record type.
func (t TRecord) Field(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// FieldNames returns a sorted copy of the record's field names, used for
// the order-insensitive "same field set" comparison in unification.
func (t TRecord) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	sort.Strings(names)
	return names
}

// Scheme is a generic function signature: a set of TypeParam names
// universally quantified over a TFunc.
type Scheme struct {
	TypeParams []string
	Type       TFunc
}
