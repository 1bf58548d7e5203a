package checker

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/types"
)

// bindPattern introduces every name a pattern binds into s, using typ
// (the already-inferred scrutinee/value type) to recover field types for
// destructuring patterns. It never reports a type-mismatch itself --
// that's inferMatch/checkLet's job via unification -- it only degrades
// to Unknown for fields it cannot resolve.
func (c *Checker) bindPattern(p ast.Pattern, typ types.Type, s *scope) {
	if p == nil {
		return
	}
	typ = c.subst.Resolve(typ)
	switch pt := p.(type) {
	case *ast.WildcardPattern:
	case *ast.IdentPattern:
		c.define(s, pt.Name, typ, pt.SpanV)
	case *ast.LitPattern:
	case *ast.VariantPattern:
		c.bindVariantPattern(pt, typ, s)
	case *ast.RecordPattern:
		c.bindRecordPattern(pt, typ, s)
	case *ast.TuplePattern:
		c.bindTuplePattern(pt, typ, s)
	case *ast.ListPattern:
		c.bindListPattern(pt, typ, s)
	case *ast.OrPattern:
		for _, alt := range pt.Alternatives {
			c.bindPattern(alt, typ, s)
		}
	}
}

func (c *Checker) bindVariantPattern(pt *ast.VariantPattern, typ types.Type, s *scope) {
	fields := c.variantFieldTypes(pt, typ)
	for i, f := range pt.Fields {
		var ft types.Type = types.TUnknown{}
		if i < len(fields) {
			ft = fields[i]
		}
		c.bindPattern(f, ft, s)
	}
}

// variantFieldTypes recovers a matched variant's payload field types from
// the scrutinee type, covering the built-in Option/Result shapes and
// user enums (generic enums get their type parameters substituted by the
// scrutinee's own type arguments, mirroring recordType's approach).
func (c *Checker) variantFieldTypes(pt *ast.VariantPattern, typ types.Type) []types.Type {
	if pt.Enum == "" && isBuiltinOptionResultName(pt.Variant) {
		switch t := typ.(type) {
		case types.TOption:
			if pt.Variant == "Some" {
				return []types.Type{t.Elem}
			}
			return nil
		case types.TResult:
			if pt.Variant == "Ok" {
				return []types.Type{t.Ok}
			}
			if pt.Variant == "Err" {
				return []types.Type{t.Err}
			}
		}
		// scrutinee didn't resolve yet (Unknown, or a fresh var) -- bind
		// fields with fresh type variables rather than guessing wrong.
		if pt.Variant == "Some" || pt.Variant == "Ok" || pt.Variant == "Err" {
			return []types.Type{c.subst.FreshVar()}
		}
		return nil
	}
	enumName := pt.Enum
	var typeArgs []types.Type
	if named, ok := typ.(types.TNamed); ok {
		if enumName == "" {
			enumName = named.Name
		}
		typeArgs = named.Args
	}
	if enumName == "" {
		enumName = c.variantOf[pt.Variant]
	}
	def := c.enums[enumName]
	if def == nil {
		return nil
	}
	for _, v := range def.Variants {
		if v.Name != pt.Variant {
			continue
		}
		tpSet := make(map[string]bool, len(def.TypeParams))
		for _, tp := range def.TypeParams {
			tpSet[tp] = true
		}
		out := make([]types.Type, len(v.Fields))
		for i, fte := range v.Fields {
			ft := c.convertType(fte, tpSet)
			if len(typeArgs) == len(def.TypeParams) {
				ft = substTypeParams(ft, def.TypeParams, typeArgs)
			}
			out[i] = ft
		}
		return out
	}
	return nil
}

func (c *Checker) bindRecordPattern(pt *ast.RecordPattern, typ types.Type, s *scope) {
	fieldType := func(name string) types.Type {
		switch rt := typ.(type) {
		case types.TRecord:
			if ft, ok := rt.Field(name); ok {
				return ft
			}
		case types.TNamed:
			if def, ok := c.records[rt.Name]; ok {
				rec := c.recordType(def, rt.Args)
				if ft, ok := rec.Field(name); ok {
					return ft
				}
			}
		}
		return types.TUnknown{}
	}
	for _, f := range pt.Fields {
		ft := fieldType(f.Name)
		if f.Pattern == nil {
			c.define(s, f.Name, ft, pt.SpanV)
			continue
		}
		c.bindPattern(f.Pattern, ft, s)
	}
}

func (c *Checker) bindTuplePattern(pt *ast.TuplePattern, typ types.Type, s *scope) {
	tt, ok := typ.(types.TTuple)
	for i, el := range pt.Elems {
		var et types.Type = types.TUnknown{}
		if ok && i < len(tt.Elems) {
			et = tt.Elems[i]
		}
		c.bindPattern(el, et, s)
	}
}

func (c *Checker) bindListPattern(pt *ast.ListPattern, typ types.Type, s *scope) {
	elem := types.Type(types.TUnknown{})
	if lt, ok := typ.(types.TList); ok {
		elem = lt.Elem
	}
	for _, el := range pt.Elems {
		c.bindPattern(el, elem, s)
	}
	if pt.Rest != nil {
		c.define(s, pt.Rest.Name, types.TList{Elem: elem}, pt.Rest.SpanV)
	}
}
