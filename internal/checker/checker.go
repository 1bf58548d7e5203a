// Package checker implements spec component E: Hindley-Milner bidirectional
// type inference over the parsed AST, effect-row checking, contract
// (requires/ensures) bookkeeping, match exhaustiveness analysis, and the
// lint-scope bookkeeping for unused bindings, shadowing and wildcard
// matches.
//
// Grounded on funvibe/funxy's internal/analyzer package (a walker struct
// accumulating diagnostics into an errorSet keyed "line:col:code" for
// deduplication, then sorted by position before being returned --
// internal/analyzer/analyzer.go's walker/addError/getErrors) and on
// original_source/src/typechecker/mod.rs for the exact single-pass
// pre-declare-then-check-each-function algorithm this spec's §4.E
// describes.
package checker

import (
	"fmt"
	"sort"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/types"
)

// Checker holds everything needed to check one module: the shared
// substitution, the pre-declared top-level environment, and the
// accumulating diagnostic set. A Checker is single-use -- construct one
// per CheckModule call, exactly as original_source's TypeChecker is
// constructed fresh per module (spec §5: "no mutable state shared
// across files").
type Checker struct {
	subst *types.Subst

	functions map[string]types.Scheme
	records   map[string]*ast.RecordDef
	enums     map[string]*ast.EnumDef
	variantOf map[string]string // bare variant name -> owning enum name
	aliases   map[string]ast.TypeExpr
	traits    map[string]*ast.TraitDef
	traitImpl map[string]map[string]*ast.FunctionDef // "Trait:Type" -> method -> def
	userEff   map[string]*ast.EffectDef

	// currentEffects/usedEffects track the declared-vs-used effect row
	// of the function currently being checked (spec §4.E point 2).
	currentEffects map[string]bool
	usedEffects    map[string]bool

	errorSet map[string]*diagnostics.DiagnosticError
}

// builtinCapabilities are the six names routed through the effects
// dispatcher (spec §4.J) rather than a user `effect` declaration; a
// method call whose receiver is one of these identifiers is effect
// usage for row-checking purposes just like a `perform` expression.
var builtinCapabilities = map[string]bool{
	"Console": true, "Fs": true, "Net": true,
	"Clock": true, "Rand": true, "Env": true,
}

// CheckModule is the core library's public entry point (spec §6:
// `check_module(module) -> Vec[Diagnostic]`). It never fails outright:
// every static problem becomes a diagnostic and checking continues with
// Unknown standing in for the offending type, per spec §4.E's preamble.
func CheckModule(mod *ast.Module) []*diagnostics.DiagnosticError {
	c := &Checker{
		subst:     types.NewSubst(),
		functions: map[string]types.Scheme{},
		records:   map[string]*ast.RecordDef{},
		enums:     map[string]*ast.EnumDef{},
		variantOf: map[string]string{},
		aliases:   map[string]ast.TypeExpr{},
		traits:    map[string]*ast.TraitDef{},
		traitImpl: map[string]map[string]*ast.FunctionDef{},
		userEff:   map[string]*ast.EffectDef{},
		errorSet:  map[string]*diagnostics.DiagnosticError{},
	}
	c.predeclare(mod)
	c.checkItems(mod)
	c.checkUnusedImports(mod)
	return c.sortedDiagnostics()
}

// predeclare is pass 1 of spec §4.E: gather every item name into the
// top-level environment before checking any function body, so mutual
// recursion and forward references type-check.
func (c *Checker) predeclare(mod *ast.Module) {
	for _, it := range mod.Items {
		switch d := it.(type) {
		case *ast.FunctionDef:
			c.functions[d.Name] = c.schemeOf(d)
		case *ast.RecordDef:
			c.records[d.Name] = d
		case *ast.EnumDef:
			c.enums[d.Name] = d
			for _, v := range d.Variants {
				c.variantOf[v.Name] = d.Name
			}
		case *ast.TypeAliasDef:
			c.aliases[d.Name] = d.Target
		case *ast.TraitDef:
			c.traits[d.Name] = d
		case *ast.EffectDef:
			c.userEff[d.Name] = d
		case *ast.TraitImpl:
			key := d.TraitName + ":" + typeExprName(d.TargetType)
			if c.traitImpl[key] == nil {
				c.traitImpl[key] = map[string]*ast.FunctionDef{}
			}
			for _, m := range d.Methods {
				c.traitImpl[key][m.Name] = m
				// Trait methods are schemed too, so calls through
				// `recv.method(...)` can be instantiated generically.
				c.functions["$impl$"+key+"$"+m.Name] = c.schemeOf(m)
			}
		}
	}
}

func (c *Checker) checkItems(mod *ast.Module) {
	for _, it := range mod.Items {
		switch d := it.(type) {
		case *ast.FunctionDef:
			c.checkFunction(d)
		case *ast.TraitImpl:
			for _, m := range d.Methods {
				c.checkFunction(m)
			}
		case *ast.TestDef:
			c.checkTest(d)
		}
	}
}

// schemeOf builds the generic scheme for a function definition's
// declared signature, without looking at its body.
func (c *Checker) schemeOf(d *ast.FunctionDef) types.Scheme {
	tpSet := make(map[string]bool, len(d.TypeParams))
	for _, t := range d.TypeParams {
		tpSet[t] = true
	}
	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = c.convertType(p.Type, tpSet)
	}
	ret := types.Type(types.TUnit{})
	if d.ReturnType != nil {
		ret = c.convertType(d.ReturnType, tpSet)
	}
	return types.Scheme{
		TypeParams: d.TypeParams,
		Type:       types.TFunc{Params: params, Ret: ret, Effects: d.Effects},
	}
}

// checkTest type-checks a top-level `test` item's body as a Unit-typed
// function with no declared effects beyond those supplied by its
// `using effects(...)` bindings (spec §4.C item grammar).
func (c *Checker) checkTest(d *ast.TestDef) {
	c.currentEffects = map[string]bool{}
	if d.Using != nil {
		for _, b := range d.Using.Bindings {
			c.currentEffects[b.Effect] = true
		}
	}
	c.usedEffects = map[string]bool{}
	s := newScope(nil)
	c.inferBlock(d.Body, s)
	c.popScope(s)
}

// checkFunction is spec §4.E point 2: enter a lint scope, bind
// parameters, infer the body, and require its type to unify with the
// declared return type. Declared effects are the function's upper
// bound; unused ones are reported once the body has been walked.
func (c *Checker) checkFunction(d *ast.FunctionDef) {
	tpSet := make(map[string]bool, len(d.TypeParams))
	for _, t := range d.TypeParams {
		tpSet[t] = true
	}
	c.currentEffects = make(map[string]bool, len(d.Effects))
	for _, e := range d.Effects {
		c.currentEffects[e] = true
	}
	c.usedEffects = map[string]bool{}

	s := newScope(nil)
	paramTypes := make(map[string]types.Type, len(d.Params))
	for _, p := range d.Params {
		pt := c.convertType(p.Type, tpSet)
		paramTypes[p.Name] = pt
		c.define(s, p.Name, pt, p.Span)
	}

	declaredRet := types.Type(types.TUnit{})
	if d.ReturnType != nil {
		declaredRet = c.convertType(d.ReturnType, tpSet)
	}

	// requires: pre-state scope, parameters only, must type Bool.
	for _, req := range d.Requires {
		t := c.inferExpr(req, s, types.TBool{})
		if err := c.subst.Unify(t, types.TBool{}); err != nil {
			c.addf(diagnostics.ErrPreconditionType, req.Span(),
				"requires clause must be Bool, found %s", c.subst.Apply(t))
		}
	}

	bodyType := c.inferBlock(d.Body, s)
	if err := c.subst.Unify(bodyType, declaredRet); err != nil {
		c.addf(diagnostics.ErrTypeMismatch, d.SpanV,
			"function %q returns %s, declared %s", d.Name,
			c.subst.Apply(bodyType), c.subst.Apply(declaredRet))
	}

	// ensures: post-state scope, parameters plus an implicit `result`.
	if len(d.Ensures) > 0 {
		post := newScope(s)
		c.define(post, "result", declaredRet, d.SpanV)
		for _, ens := range d.Ensures {
			t := c.inferExpr(ens, post, types.TBool{})
			if err := c.subst.Unify(t, types.TBool{}); err != nil {
				c.addf(diagnostics.ErrPostconditionType, ens.Span(),
					"ensures clause must be Bool, found %s", c.subst.Apply(t))
			}
		}
		post.vars["result"].used = true // implicit binding, never lint it
	}

	c.popScope(s)

	for _, e := range d.Effects {
		if !c.usedEffects[e] {
			c.warnf(diagnostics.WarnUnusedEffect, d.SpanV,
				"function %q declares effect %s but never uses it", d.Name, e)
		}
	}
}

// useEffect records that name (a built-in capability or a user effect)
// was invoked in the function currently being checked, emitting
// EFFECT_NOT_DECLARED when it falls outside the declared row.
func (c *Checker) useEffect(name string, span source.Span) {
	if c.currentEffects == nil {
		return
	}
	c.usedEffects[name] = true
	if !c.currentEffects[name] {
		c.addf(diagnostics.ErrEffectNotDeclared, span,
			"effect %s is used but not declared in this function's effect row", name)
	}
}

func (c *Checker) checkUnusedImports(mod *ast.Module) {
	used := map[string]bool{}
	var walk func(ast.Node)
	walk = nil // no generic walker; scan identifiers via a light expression visitor instead
	_ = walk
	names := map[string]source.Span{}
	for _, it := range mod.Items {
		imp, ok := it.(*ast.ImportDef)
		if !ok {
			continue
		}
		n := imp.Alias
		if n == "" {
			n = lastSegment(imp.Path)
		}
		names[n] = imp.SpanV
	}
	if len(names) == 0 {
		return
	}
	collectIdentifierNames(mod, used)
	for n, span := range names {
		if !used[n] {
			c.warnf(diagnostics.WarnUnusedImport, span, "unused import %q", n)
		}
	}
}

func lastSegment(path string) string {
	last := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '.' {
			last = path[i+1:]
			break
		}
	}
	return last
}

// --- diagnostic accumulation, grounded on funxy's walker.addError /
// walker.getErrors (errorSet dedup keyed "line:col:code", then a final
// position sort) ---

func (c *Checker) add(d *diagnostics.DiagnosticError) {
	c.errorSet[d.Key()] = d
}

func (c *Checker) addf(code string, span source.Span, format string, args ...interface{}) {
	c.add(diagnostics.NewError(code, span, fmt.Sprintf(format, args...)))
}

func (c *Checker) warnf(code string, span source.Span, format string, args ...interface{}) {
	c.add(diagnostics.NewWarning(code, span, fmt.Sprintf(format, args...)))
}

func (c *Checker) addWithSuggestion(code string, span source.Span, message, suggestion string, edit *diagnostics.Edit) {
	c.add(diagnostics.Warning(code).Message(message).Span(span).Suggestion(suggestion, edit).Build())
}

func (c *Checker) sortedDiagnostics() []*diagnostics.DiagnosticError {
	out := make([]*diagnostics.DiagnosticError, 0, len(c.errorSet))
	for _, d := range c.errorSet {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Span.StartLine != out[j].Span.StartLine {
			return out[i].Span.StartLine < out[j].Span.StartLine
		}
		if out[i].Span.StartCol != out[j].Span.StartCol {
			return out[i].Span.StartCol < out[j].Span.StartCol
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func typeExprName(te ast.TypeExpr) string {
	if n, ok := te.(*ast.NamedTypeExpr); ok {
		return n.Name
	}
	return ""
}
