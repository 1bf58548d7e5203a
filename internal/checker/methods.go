package checker

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/types"
)

// inferMethodCall implements spec §4.E point 3's method-typing rule:
// "Method calls first try built-in dispatch rules (§4.I), then
// trait-impl registry, then fail with unknown method." A receiver that
// is a bare Identifier naming one of the six capabilities, or a
// user-declared effect, is also effect *usage* for row-checking (spec
// §4.J is reached through ordinary method-call syntax, e.g.
// `Console.println(...)`).
func (c *Checker) inferMethodCall(n *ast.MethodCallExpr, s *scope) types.Type {
	if recvName, ok := n.Receiver.(*ast.Identifier); ok {
		if _, isLocal := s.lookup(recvName.Name); !isLocal {
			if builtinCapabilities[recvName.Name] {
				c.useEffect(recvName.Name, n.SpanV)
				return c.capabilityReturnType(recvName.Name, n.Name, n, s)
			}
			if def, isEffect := c.userEff[recvName.Name]; isEffect {
				c.useEffect(recvName.Name, n.SpanV)
				return c.userEffectReturnType(def, n, s)
			}
		}
	}

	recvType := c.subst.Apply(c.inferExpr(n.Receiver, s, nil))
	switch n.Name {
	case "to_json":
		for _, a := range n.Args {
			c.inferExpr(a, s, nil)
		}
		return types.TText{}
	case "to_yaml":
		for _, a := range n.Args {
			c.inferExpr(a, s, nil)
		}
		return types.TResult{Ok: types.TText{}, Err: types.TText{}}
	}
	if ret, ok := c.builtinMethod(recvType, n, s); ok {
		return ret
	}
	if ret, ok := c.traitMethod(recvType, n, s); ok {
		return ret
	}
	for _, a := range n.Args {
		c.inferExpr(a, s, nil)
	}
	c.addf(diagnostics.ErrUnknownMethod, n.SpanV, "%s has no method %q", recvType, n.Name)
	return types.TUnknown{}
}

// capabilityReturnType types the six built-in effect operations of
// spec §4.J directly; arguments are still inferred for their side
// effect of populating the lint scope and catching misused bindings.
func (c *Checker) capabilityReturnType(cap, op string, n *ast.MethodCallExpr, s *scope) types.Type {
	for _, a := range n.Args {
		c.inferExpr(a, s, nil)
	}
	switch cap {
	case "Console":
		switch op {
		case "print", "println":
			return types.TUnit{}
		case "read_line":
			return types.TOption{Elem: types.TText{}}
		}
	case "Fs":
		switch op {
		case "read":
			return types.TResult{Ok: types.TText{}, Err: types.TText{}}
		case "write":
			return types.TResult{Ok: types.TUnit{}, Err: types.TText{}}
		case "exists":
			return types.TBool{}
		}
	case "Net":
		switch op {
		case "get", "post":
			return types.TResult{Ok: types.TUnknown{}, Err: types.TText{}}
		}
	case "Clock":
		switch op {
		case "now":
			return types.TInt{}
		case "sleep":
			return types.TUnit{}
		}
	case "Rand":
		switch op {
		case "int":
			return types.TInt{}
		case "bool":
			return types.TBool{}
		case "float":
			return types.TFloat{}
		}
	case "Env":
		switch op {
		case "get":
			return types.TOption{Elem: types.TText{}}
		case "args":
			return types.TList{Elem: types.TText{}}
		}
	}
	c.addf(diagnostics.ErrUnknownEffectOp, n.SpanV, "%s has no operation %s", cap, op)
	return types.TUnknown{}
}

// userEffectReturnType mirrors capabilityReturnType for a user-declared
// effect invoked through method-call syntax (`MyEffect.op(...)`), the
// same operation inferPerform resolves for `perform MyEffect.op(...)`.
func (c *Checker) userEffectReturnType(def *ast.EffectDef, n *ast.MethodCallExpr, s *scope) types.Type {
	for _, a := range n.Args {
		c.inferExpr(a, s, nil)
	}
	for _, op := range def.Operations {
		if op.Name == n.Name {
			if op.ReturnType != nil {
				return c.convertType(op.ReturnType, nil)
			}
			return types.TUnit{}
		}
	}
	c.addf(diagnostics.ErrUnknownEffectOp, n.SpanV, "%s has no operation %s", def.Name, n.Name)
	return types.TUnknown{}
}

// traitMethod looks up a user trait-impl method by the receiver's
// concrete type name, matching the runtime's name-based dispatch
// (spec §9 "Disambiguate ... by type name for Variant receivers").
func (c *Checker) traitMethod(recvType types.Type, n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	name := namedTypeName(recvType)
	if name == "" {
		return nil, false
	}
	for key, methods := range c.traitImpl {
		if !hasSuffix(key, ":"+name) {
			continue
		}
		if _, ok := methods[n.Name]; !ok {
			continue
		}
		scheme := c.functions["$impl$"+key+"$"+n.Name]
		fn := c.subst.InstantiateScheme(scheme)
		// receiver occupies the first declared parameter by convention
		// (methods are plain functions taking self first).
		if len(fn.Params) > 0 {
			if err := c.subst.Unify(fn.Params[0], recvType); err == nil {
				return c.applyArgs(types.TFunc{Params: fn.Params[1:], Ret: fn.Ret}, n.Args, s, n.SpanV), true
			}
		}
		return c.applyArgs(fn, n.Args, s, n.SpanV), true
	}
	return nil, false
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func namedTypeName(t types.Type) string {
	switch tt := t.(type) {
	case types.TNamed:
		return tt.Name
	case types.TOption:
		return "Option"
	case types.TResult:
		return "Result"
	case types.TList:
		return "List"
	case types.TText:
		return "Text"
	}
	return ""
}

// builtinMethod implements the dispatch table of spec §4.I. Every
// listed method is non-mutating; argument expressions are always
// inferred (for lint purposes) even along a path that ultimately fails.
func (c *Checker) builtinMethod(recvType types.Type, n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	switch rt := c.subst.Resolve(recvType).(type) {
	case types.TList:
		return c.listMethod(rt, n, s)
	case types.TText:
		return c.textMethod(n, s)
	case types.TOption:
		return c.optionMethod(rt, n, s)
	case types.TResult:
		return c.resultMethod(rt, n, s)
	case types.TTuple:
		return c.tupleMethod(rt, n, s)
	case types.TNamed:
		switch rt.Name {
		case "Map":
			return c.mapMethod(rt, n, s)
		case "Set":
			return c.setMethod(rt, n, s)
		}
	}
	return nil, false
}

func (c *Checker) argTypes(n *ast.MethodCallExpr, s *scope, expected ...types.Type) []types.Type {
	out := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		var exp types.Type
		if i < len(expected) {
			exp = expected[i]
		}
		out[i] = c.inferExpr(a, s, exp)
	}
	return out
}

func (c *Checker) callbackReturn(cb types.Type) types.Type {
	if fn, ok := c.subst.Resolve(cb).(types.TFunc); ok {
		return fn.Ret
	}
	return types.TUnknown{}
}

func (c *Checker) listMethod(rt types.TList, n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	elem := rt.Elem
	switch n.Name {
	case "len":
		c.argTypes(n, s)
		return types.TInt{}, true
	case "is_empty":
		c.argTypes(n, s)
		return types.TBool{}, true
	case "head", "last":
		c.argTypes(n, s)
		return types.TOption{Elem: elem}, true
	case "tail", "reverse", "sort", "concat", "take", "drop", "slice", "push":
		args := c.argTypes(n, s)
		if n.Name == "push" && len(args) > 0 {
			if err := c.subst.Unify(elem, args[0]); err != nil {
				c.addf(diagnostics.ErrTypeMismatch, n.SpanV, "push expects %s, found %s", elem, args[0])
			}
		}
		if n.Name == "concat" && len(args) > 0 {
			_ = args
		}
		return types.TList{Elem: elem}, true
	case "get":
		c.argTypes(n, s, types.TInt{})
		return types.TOption{Elem: elem}, true
	case "contains":
		c.argTypes(n, s, elem)
		return types.TBool{}, true
	case "enumerate":
		c.argTypes(n, s)
		return types.TList{Elem: types.TTuple{Elems: []types.Type{types.TInt{}, elem}}}, true
	case "zip":
		args := c.argTypes(n, s)
		other := elem
		if len(args) == 1 {
			if lt, ok := c.subst.Resolve(args[0]).(types.TList); ok {
				other = lt.Elem
			}
		}
		return types.TList{Elem: types.TTuple{Elems: []types.Type{elem, other}}}, true
	case "join":
		c.argTypes(n, s, types.TText{})
		return types.TText{}, true
	case "map":
		args := c.argTypes(n, s, types.TFunc{Params: []types.Type{elem}})
		ret := elem
		if len(args) == 1 {
			ret = c.callbackReturn(args[0])
		}
		return types.TList{Elem: ret}, true
	case "flat_map":
		args := c.argTypes(n, s, types.TFunc{Params: []types.Type{elem}})
		if len(args) == 1 {
			if lt, ok := c.subst.Resolve(c.callbackReturn(args[0])).(types.TList); ok {
				return types.TList{Elem: lt.Elem}, true
			}
		}
		return types.TList{Elem: c.subst.FreshVar()}, true
	case "filter", "each":
		c.argTypes(n, s, types.TFunc{Params: []types.Type{elem}})
		if n.Name == "each" {
			return types.TUnit{}, true
		}
		return types.TList{Elem: elem}, true
	case "any", "all":
		c.argTypes(n, s, types.TFunc{Params: []types.Type{elem}})
		return types.TBool{}, true
	case "find":
		c.argTypes(n, s, types.TFunc{Params: []types.Type{elem}})
		return types.TOption{Elem: elem}, true
	case "fold":
		args := c.argTypes(n, s)
		if len(args) == 2 {
			return c.subst.Apply(args[0]), true
		}
		return types.TUnknown{}, true
	default:
		return nil, false
	}
}

func (c *Checker) textMethod(n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	switch n.Name {
	case "len", "index_of":
		c.argTypes(n, s)
		if n.Name == "index_of" {
			return types.TOption{Elem: types.TInt{}}, true
		}
		return types.TInt{}, true
	case "to_upper", "to_lower", "trim", "replace", "substring", "repeat",
		"replace_pattern":
		c.argTypes(n, s)
		return types.TText{}, true
	case "contains", "starts_with", "ends_with", "matches":
		c.argTypes(n, s, types.TText{})
		return types.TBool{}, true
	case "split", "chars", "split_pattern":
		c.argTypes(n, s)
		return types.TList{Elem: types.TText{}}, true
	case "slice":
		c.argTypes(n, s, types.TInt{}, types.TInt{})
		return types.TText{}, true
	case "find_pattern":
		c.argTypes(n, s, types.TText{})
		return types.TOption{Elem: types.TNamed{Name: "Record"}}, true
	case "find_all_pattern":
		c.argTypes(n, s, types.TText{})
		return types.TList{Elem: types.TNamed{Name: "Record"}}, true
	case "parse_json", "parse_yaml":
		c.argTypes(n, s)
		return types.TResult{Ok: types.TUnknown{}, Err: types.TText{}}, true
	case "to_int":
		c.argTypes(n, s)
		return types.TOption{Elem: types.TInt{}}, true
	case "to_float":
		c.argTypes(n, s)
		return types.TOption{Elem: types.TFloat{}}, true
	case "to_text", "concat":
		c.argTypes(n, s)
		return types.TText{}, true
	default:
		return nil, false
	}
}

func (c *Checker) optionMethod(rt types.TOption, n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	switch n.Name {
	case "unwrap":
		c.argTypes(n, s)
		return rt.Elem, true
	case "is_some", "is_none":
		c.argTypes(n, s)
		return types.TBool{}, true
	case "unwrap_or":
		c.argTypes(n, s, rt.Elem)
		return rt.Elem, true
	case "map":
		args := c.argTypes(n, s, types.TFunc{Params: []types.Type{rt.Elem}})
		ret := rt.Elem
		if len(args) == 1 {
			ret = c.callbackReturn(args[0])
		}
		return types.TOption{Elem: ret}, true
	default:
		return nil, false
	}
}

func (c *Checker) resultMethod(rt types.TResult, n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	switch n.Name {
	case "unwrap":
		c.argTypes(n, s)
		return rt.Ok, true
	case "is_ok", "is_err":
		c.argTypes(n, s)
		return types.TBool{}, true
	case "unwrap_or":
		c.argTypes(n, s, rt.Ok)
		return rt.Ok, true
	case "map":
		args := c.argTypes(n, s, types.TFunc{Params: []types.Type{rt.Ok}})
		ok := rt.Ok
		if len(args) == 1 {
			ok = c.callbackReturn(args[0])
		}
		return types.TResult{Ok: ok, Err: rt.Err}, true
	case "map_err":
		args := c.argTypes(n, s, types.TFunc{Params: []types.Type{rt.Err}})
		errT := rt.Err
		if len(args) == 1 {
			errT = c.callbackReturn(args[0])
		}
		return types.TResult{Ok: rt.Ok, Err: errT}, true
	default:
		return nil, false
	}
}

func (c *Checker) tupleMethod(rt types.TTuple, n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	switch n.Name {
	case "len":
		c.argTypes(n, s)
		return types.TInt{}, true
	case "to_list":
		c.argTypes(n, s)
		if len(rt.Elems) == 0 {
			return types.TList{Elem: types.TUnknown{}}, true
		}
		return types.TList{Elem: rt.Elems[0]}, true
	default:
		return nil, false
	}
}

func (c *Checker) mapMethod(rt types.TNamed, n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	var k, v types.Type = types.TUnknown{}, types.TUnknown{}
	if len(rt.Args) == 2 {
		k, v = rt.Args[0], rt.Args[1]
	}
	switch n.Name {
	case "len", "is_empty":
		c.argTypes(n, s)
		if n.Name == "is_empty" {
			return types.TBool{}, true
		}
		return types.TInt{}, true
	case "get":
		c.argTypes(n, s, k)
		return types.TOption{Elem: v}, true
	case "contains_key":
		c.argTypes(n, s, k)
		return types.TBool{}, true
	case "keys":
		c.argTypes(n, s)
		return types.TList{Elem: k}, true
	case "values":
		c.argTypes(n, s)
		return types.TList{Elem: v}, true
	case "entries":
		c.argTypes(n, s)
		return types.TList{Elem: types.TTuple{Elems: []types.Type{k, v}}}, true
	case "set":
		c.argTypes(n, s, k, v)
		return types.TNamed{Name: "Map", Args: []types.Type{k, v}}, true
	case "remove":
		c.argTypes(n, s, k)
		return types.TNamed{Name: "Map", Args: []types.Type{k, v}}, true
	default:
		return nil, false
	}
}

func (c *Checker) setMethod(rt types.TNamed, n *ast.MethodCallExpr, s *scope) (types.Type, bool) {
	var elem types.Type = types.TUnknown{}
	if len(rt.Args) == 1 {
		elem = rt.Args[0]
	}
	switch n.Name {
	case "len", "is_empty":
		c.argTypes(n, s)
		if n.Name == "is_empty" {
			return types.TBool{}, true
		}
		return types.TInt{}, true
	case "contains":
		c.argTypes(n, s, elem)
		return types.TBool{}, true
	case "add", "remove":
		c.argTypes(n, s, elem)
		return types.TNamed{Name: "Set", Args: []types.Type{elem}}, true
	case "to_list":
		c.argTypes(n, s)
		return types.TList{Elem: elem}, true
	case "union", "intersection":
		c.argTypes(n, s, types.TNamed{Name: "Set", Args: []types.Type{elem}})
		return types.TNamed{Name: "Set", Args: []types.Type{elem}}, true
	default:
		return nil, false
	}
}
