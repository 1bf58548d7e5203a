package checker

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/types"
)

// convertType turns a parsed ast.TypeExpr into a types.Type, resolving
// the closed set of built-in type constructor names (spec §3 "Type")
// and treating any other bare name as either a declared type parameter
// (if it's in typeParams) or a Named reference to a record/enum/alias
// declared elsewhere in the module.
func (c *Checker) convertType(te ast.TypeExpr, typeParams map[string]bool) types.Type {
	switch t := te.(type) {
	case nil:
		return types.TUnit{}
	case *ast.NamedTypeExpr:
		switch t.Name {
		case "Unit":
			return types.TUnit{}
		case "Int":
			return types.TInt{}
		case "Float":
			return types.TFloat{}
		case "Bool":
			return types.TBool{}
		case "Text":
			return types.TText{}
		case "Option":
			if len(t.Args) == 1 {
				return types.TOption{Elem: c.convertType(t.Args[0], typeParams)}
			}
			return types.TOption{Elem: types.TUnknown{}}
		case "Result":
			if len(t.Args) == 2 {
				return types.TResult{Ok: c.convertType(t.Args[0], typeParams), Err: c.convertType(t.Args[1], typeParams)}
			}
			return types.TResult{Ok: types.TUnknown{}, Err: types.TUnknown{}}
		case "List":
			if len(t.Args) == 1 {
				return types.TList{Elem: c.convertType(t.Args[0], typeParams)}
			}
			return types.TList{Elem: types.TUnknown{}}
		case "Unknown":
			return types.TUnknown{}
		}
		if typeParams[t.Name] && len(t.Args) == 0 {
			return types.TTypeParam{Name: t.Name}
		}
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.convertType(a, typeParams)
		}
		return types.TNamed{Name: t.Name, Args: args}
	case *ast.FuncTypeExpr:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.convertType(p, typeParams)
		}
		return types.TFunc{Params: params, Ret: c.convertType(t.Ret, typeParams), Effects: t.Effects}
	case *ast.TupleTypeExpr:
		elems := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = c.convertType(e, typeParams)
		}
		return types.TTuple{Elems: elems}
	case *ast.RecordTypeExpr:
		fields := make([]types.RecordField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.RecordField{Name: f.Name, Type: c.convertType(f.Type, typeParams)}
		}
		return types.TRecord{Fields: fields}
	default:
		return types.TUnknown{}
	}
}

// recordType builds the TRecord shape of a declared record definition,
// substituting its own type parameters with the concrete args a
// specific usage supplies (e.g. `Box[Int]` against `record Box[T] { value: T }`).
func (c *Checker) recordType(def *ast.RecordDef, args []types.Type) types.TRecord {
	tpSet := make(map[string]bool, len(def.TypeParams))
	for _, t := range def.TypeParams {
		tpSet[t] = true
	}
	fields := make([]types.RecordField, len(def.Fields))
	for i, f := range def.Fields {
		ft := c.convertType(f.Type, tpSet)
		if len(args) == len(def.TypeParams) {
			ft = substTypeParams(ft, def.TypeParams, args)
		}
		fields[i] = types.RecordField{Name: f.Name, Type: ft}
	}
	return types.TRecord{Fields: fields}
}

// substTypeParams replaces TTypeParam occurrences by position, used to
// specialize a generic record's field types at a concrete usage site
// without touching the Subst (these are source-level substitutions, not
// unification bindings).
func substTypeParams(t types.Type, names []string, args []types.Type) types.Type {
	idx := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		return -1
	}
	var rec func(types.Type) types.Type
	rec = func(t types.Type) types.Type {
		switch tt := t.(type) {
		case types.TTypeParam:
			if i := idx(tt.Name); i >= 0 && i < len(args) {
				return args[i]
			}
			return tt
		case types.TOption:
			return types.TOption{Elem: rec(tt.Elem)}
		case types.TResult:
			return types.TResult{Ok: rec(tt.Ok), Err: rec(tt.Err)}
		case types.TList:
			return types.TList{Elem: rec(tt.Elem)}
		case types.TTuple:
			elems := make([]types.Type, len(tt.Elems))
			for i, e := range tt.Elems {
				elems[i] = rec(e)
			}
			return types.TTuple{Elems: elems}
		case types.TRecord:
			fields := make([]types.RecordField, len(tt.Fields))
			for i, f := range tt.Fields {
				fields[i] = types.RecordField{Name: f.Name, Type: rec(f.Type)}
			}
			return types.TRecord{Fields: fields}
		case types.TNamed:
			nargs := make([]types.Type, len(tt.Args))
			for i, a := range tt.Args {
				nargs[i] = rec(a)
			}
			return types.TNamed{Name: tt.Name, Args: nargs}
		case types.TFunc:
			params := make([]types.Type, len(tt.Params))
			for i, p := range tt.Params {
				params[i] = rec(p)
			}
			return types.TFunc{Params: params, Ret: rec(tt.Ret), Effects: tt.Effects}
		default:
			return t
		}
	}
	return rec(t)
}

// resolveNamed dereferences a Named type that is actually a type alias
// to its target, one level (aliases in this language are not
// recursive).
func (c *Checker) resolveNamed(t types.Type) types.Type {
	n, ok := t.(types.TNamed)
	if !ok {
		return t
	}
	target, ok := c.aliases[n.Name]
	if !ok {
		return t
	}
	tpSet := map[string]bool{}
	return c.convertType(target, tpSet)
}
