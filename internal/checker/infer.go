package checker

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/types"
)

// inferBlock types a brace-delimited statement sequence: its own value
// is its last expression statement's type, or Unit if empty or the last
// statement is a binding (spec §3 "Block").
func (c *Checker) inferBlock(b *ast.Block, s *scope) types.Type {
	if b == nil {
		return types.TUnit{}
	}
	inner := newScope(s)
	var last types.Type = types.TUnit{}
	for i, st := range b.Stmts {
		last = types.TUnit{}
		switch stmt := st.(type) {
		case *ast.LetStmt:
			c.checkLet(stmt, inner)
		case *ast.ExprStmt:
			t := c.inferExpr(stmt.X, inner, nil)
			if i == len(b.Stmts)-1 {
				last = t
			}
		case *ast.AssignStmt:
			c.checkAssign(stmt, inner)
		}
	}
	c.popScope(inner)
	return last
}

func (c *Checker) checkLet(st *ast.LetStmt, s *scope) {
	var expected types.Type
	if st.Type != nil {
		expected = c.convertType(st.Type, nil)
	}
	valType := c.inferExpr(st.Value, s, expected)
	if expected != nil {
		if err := c.subst.Unify(valType, expected); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, st.SpanV,
				"let binding declared %s but value has type %s", expected, c.subst.Apply(valType))
		}
	}
	c.bindPattern(st.Pattern, c.subst.Apply(valType), s)
}

func (c *Checker) checkAssign(st *ast.AssignStmt, s *scope) {
	targetType := c.inferExpr(st.Target, s, nil)
	valType := c.inferExpr(st.Value, s, targetType)
	if err := c.subst.Unify(targetType, valType); err != nil {
		c.addf(diagnostics.ErrTypeMismatch, st.SpanV,
			"cannot assign %s to %s", c.subst.Apply(valType), c.subst.Apply(targetType))
	}
}

// inferExpr is the bidirectional entry point: expected may be nil
// (infer bottom-up) or a pushed-down expectation (spec §4.E point 3).
func (c *Checker) inferExpr(e ast.Expr, s *scope, expected types.Type) types.Type {
	if e == nil {
		return types.TUnit{}
	}
	switch n := e.(type) {
	case *ast.IntLit:
		if _, ok := expected.(types.TFloat); ok {
			return types.TFloat{}
		}
		return types.TInt{}
	case *ast.FloatLit:
		return types.TFloat{}
	case *ast.BoolLit:
		return types.TBool{}
	case *ast.UnitLit:
		return types.TUnit{}
	case *ast.TextLit:
		return types.TText{}
	case *ast.InterpolatedText:
		for _, sub := range n.Exprs {
			c.inferExpr(sub, s, nil)
		}
		return types.TText{}
	case *ast.Hole:
		return types.TUnknown{}
	case *ast.Identifier:
		return c.inferIdentifier(n, s)
	case *ast.BinaryExpr:
		return c.inferBinary(n, s)
	case *ast.UnaryExpr:
		return c.inferUnary(n, s)
	case *ast.RangeExpr:
		c.inferExpr(n.From, s, types.TInt{})
		c.inferExpr(n.To, s, types.TInt{})
		return types.TList{Elem: types.TInt{}}
	case *ast.CallExpr:
		return c.inferCall(n, s)
	case *ast.MethodCallExpr:
		return c.inferMethodCall(n, s)
	case *ast.FieldAccessExpr:
		return c.inferFieldAccess(n, s)
	case *ast.IndexExpr:
		return c.inferIndex(n, s)
	case *ast.IfExpr:
		return c.inferIf(n, s, expected)
	case *ast.MatchExpr:
		return c.inferMatch(n, s, expected)
	case *ast.BlockExpr:
		return c.inferBlock(n.Block, s)
	case *ast.LambdaExpr:
		return c.inferLambda(n, s, expected)
	case *ast.ListLit:
		return c.inferListLit(n, s, expected)
	case *ast.TupleLit:
		elemExp := make([]types.Type, len(n.Elems))
		if te, ok := expected.(types.TTuple); ok && len(te.Elems) == len(n.Elems) {
			elemExp = te.Elems
		}
		elems := make([]types.Type, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = c.inferExpr(el, s, elemExp[i])
		}
		return types.TTuple{Elems: elems}
	case *ast.MapLit:
		return c.inferMapLit(n, s)
	case *ast.SetLit:
		return c.inferSetLit(n, s)
	case *ast.RecordLit:
		return c.inferRecordLit(n, s)
	case *ast.VariantLit:
		return c.inferVariantLit(n, s)
	case *ast.TryExpr:
		return c.inferTry(n, s)
	case *ast.ReturnExpr:
		if n.Value != nil {
			c.inferExpr(n.Value, s, nil)
		}
		return types.TUnknown{}
	case *ast.BreakExpr, *ast.ContinueExpr:
		return types.TUnknown{}
	case *ast.WhileExpr:
		cond := c.inferExpr(n.Cond, s, types.TBool{})
		if err := c.subst.Unify(cond, types.TBool{}); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, n.Cond.Span(), "while condition must be Bool, found %s", c.subst.Apply(cond))
		}
		c.inferBlock(n.Body, s)
		return types.TUnit{}
	case *ast.ForExpr:
		return c.inferFor(n, s)
	case *ast.PerformExpr:
		return c.inferPerform(n, s)
	default:
		return types.TUnknown{}
	}
}

func (c *Checker) inferIdentifier(n *ast.Identifier, s *scope) types.Type {
	if b, ok := s.lookup(n.Name); ok {
		b.used = true
		return b.typ
	}
	if isBuiltinOptionResultName(n.Name) {
		return c.builtinVariantType(n.Name)
	}
	if sc, ok := c.functions[n.Name]; ok {
		return c.subst.InstantiateScheme(sc)
	}
	if enumName, ok := c.variantOf[n.Name]; ok {
		return c.variantReferenceType(enumName, n.Name)
	}
	c.addf(diagnostics.ErrUnresolvedVar, n.SpanV, "undefined variable %q", n.Name)
	return types.TUnknown{}
}

func isBuiltinOptionResultName(name string) bool {
	switch name {
	case "Some", "None", "Ok", "Err":
		return true
	}
	return false
}

// builtinVariantType gives a fresh, under-constrained Option/Result
// type for a bare reference to Some/None/Ok/Err; unification with
// surrounding context narrows the free type variables.
func (c *Checker) builtinVariantType(name string) types.Type {
	switch name {
	case "None":
		return types.TOption{Elem: c.subst.FreshVar()}
	case "Some":
		elem := c.subst.FreshVar()
		return types.TFunc{Params: []types.Type{elem}, Ret: types.TOption{Elem: elem}}
	case "Ok":
		ok := c.subst.FreshVar()
		return types.TFunc{Params: []types.Type{ok}, Ret: types.TResult{Ok: ok, Err: c.subst.FreshVar()}}
	case "Err":
		errT := c.subst.FreshVar()
		return types.TFunc{Params: []types.Type{errT}, Ret: types.TResult{Ok: c.subst.FreshVar(), Err: errT}}
	}
	return types.TUnknown{}
}

func (c *Checker) variantReferenceType(enumName, variantName string) types.Type {
	def := c.enums[enumName]
	if def == nil {
		return types.TUnknown{}
	}
	tpSet := make(map[string]bool, len(def.TypeParams))
	for _, t := range def.TypeParams {
		tpSet[t] = true
	}
	var fields []ast.TypeExpr
	for _, v := range def.Variants {
		if v.Name == variantName {
			fields = v.Fields
		}
	}
	ret := types.Type(types.TNamed{Name: enumName})
	if len(def.TypeParams) > 0 {
		args := make([]types.Type, len(def.TypeParams))
		for i, tp := range def.TypeParams {
			args[i] = types.TTypeParam{Name: tp}
		}
		ret = types.TNamed{Name: enumName, Args: args}
	}
	if len(fields) == 0 {
		return c.instantiateGeneric(def.TypeParams, ret)
	}
	params := make([]types.Type, len(fields))
	for i, f := range fields {
		params[i] = c.convertType(f, tpSet)
	}
	fn := types.TFunc{Params: params, Ret: ret}
	return c.instantiateGeneric(def.TypeParams, fn)
}

func (c *Checker) instantiateGeneric(typeParams []string, t types.Type) types.Type {
	if len(typeParams) == 0 {
		return t
	}
	paramMap := make(map[string]types.Type, len(typeParams))
	for _, n := range typeParams {
		paramMap[n] = c.subst.FreshVar()
	}
	return c.subst.Instantiate(t, paramMap)
}

func (c *Checker) inferUnary(n *ast.UnaryExpr, s *scope) types.Type {
	t := c.inferExpr(n.X, s, nil)
	switch n.Op {
	case "!":
		if err := c.subst.Unify(t, types.TBool{}); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, n.SpanV, "'!' requires Bool, found %s", c.subst.Apply(t))
		}
		return types.TBool{}
	case "-":
		r := c.subst.Resolve(t)
		if _, ok := r.(types.TFloat); ok {
			return types.TFloat{}
		}
		return types.TInt{}
	}
	return types.TUnknown{}
}

func (c *Checker) inferBinary(n *ast.BinaryExpr, s *scope) types.Type {
	lt := c.inferExpr(n.Left, s, nil)
	rt := c.inferExpr(n.Right, s, lt)
	switch n.Op {
	case "&&", "||":
		if err := c.subst.Unify(lt, types.TBool{}); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, n.Left.Span(), "%q requires Bool operands", n.Op)
		}
		if err := c.subst.Unify(rt, types.TBool{}); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, n.Right.Span(), "%q requires Bool operands", n.Op)
		}
		return types.TBool{}
	case "==", "!=":
		if err := c.subst.Unify(lt, rt); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, n.SpanV, "cannot compare %s with %s", c.subst.Apply(lt), c.subst.Apply(rt))
		}
		return types.TBool{}
	case "<", ">", "<=", ">=":
		if err := c.subst.Unify(lt, rt); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, n.SpanV, "cannot compare %s with %s", c.subst.Apply(lt), c.subst.Apply(rt))
		}
		return types.TBool{}
	case "+":
		lr := c.subst.Resolve(lt)
		if _, ok := lr.(types.TText); ok {
			if err := c.subst.Unify(rt, types.TText{}); err != nil {
				c.addf(diagnostics.ErrTypeMismatch, n.SpanV, "cannot concatenate Text with %s", c.subst.Apply(rt))
			}
			return types.TText{}
		}
		fallthrough
	case "-", "*", "/", "%":
		if err := c.subst.Unify(lt, rt); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, n.SpanV, "arithmetic on mismatched types %s and %s", c.subst.Apply(lt), c.subst.Apply(rt))
		}
		r := c.subst.Resolve(lt)
		if _, ok := r.(types.TFloat); ok {
			return types.TFloat{}
		}
		return types.TInt{}
	}
	return types.TUnknown{}
}

func (c *Checker) inferIf(n *ast.IfExpr, s *scope, expected types.Type) types.Type {
	cond := c.inferExpr(n.Cond, s, types.TBool{})
	if err := c.subst.Unify(cond, types.TBool{}); err != nil {
		c.addf(diagnostics.ErrTypeMismatch, n.Cond.Span(), "if condition must be Bool, found %s", c.subst.Apply(cond))
	}
	thenT := c.inferBlock(n.Then, s)
	if n.Else == nil {
		return types.TUnit{}
	}
	elseT := c.inferExpr(n.Else, s, expected)
	if err := c.subst.Unify(thenT, elseT); err != nil {
		c.addf(diagnostics.ErrTypeMismatch, n.SpanV, "if/else branches disagree: %s vs %s", c.subst.Apply(thenT), c.subst.Apply(elseT))
	}
	return c.subst.Apply(thenT)
}

func (c *Checker) inferLambda(n *ast.LambdaExpr, s *scope, expected types.Type) types.Type {
	inner := newScope(s)
	var expectedParams []types.Type
	if ft, ok := expected.(types.TFunc); ok && len(ft.Params) == len(n.Params) {
		expectedParams = ft.Params
	}
	params := make([]types.Type, len(n.Params))
	for i, p := range n.Params {
		var pt types.Type
		if p.Type != nil {
			pt = c.convertType(p.Type, nil)
		} else if expectedParams != nil {
			pt = expectedParams[i]
		} else {
			pt = c.subst.FreshVar()
		}
		params[i] = pt
		c.define(inner, p.Name, pt, p.Span)
	}
	ret := c.inferExpr(n.Body, inner, nil)
	c.popScope(inner)
	return types.TFunc{Params: params, Ret: c.subst.Apply(ret)}
}

func (c *Checker) inferListLit(n *ast.ListLit, s *scope, expected types.Type) types.Type {
	var elemExpected types.Type
	if lt, ok := expected.(types.TList); ok {
		elemExpected = lt.Elem
	}
	if len(n.Elems) == 0 {
		if elemExpected != nil {
			return types.TList{Elem: elemExpected}
		}
		return types.TList{Elem: c.subst.FreshVar()}
	}
	first := c.inferExpr(n.Elems[0], s, elemExpected)
	for _, el := range n.Elems[1:] {
		t := c.inferExpr(el, s, first)
		if err := c.subst.Unify(first, t); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, el.Span(), "list elements must share a type: %s vs %s", c.subst.Apply(first), c.subst.Apply(t))
		}
	}
	return types.TList{Elem: c.subst.Apply(first)}
}

func (c *Checker) inferMapLit(n *ast.MapLit, s *scope) types.Type {
	if len(n.Entries) == 0 {
		return types.TNamed{Name: "Map", Args: []types.Type{c.subst.FreshVar(), c.subst.FreshVar()}}
	}
	kt := c.inferExpr(n.Entries[0].Key, s, nil)
	vt := c.inferExpr(n.Entries[0].Value, s, nil)
	for _, e := range n.Entries[1:] {
		k := c.inferExpr(e.Key, s, kt)
		if err := c.subst.Unify(kt, k); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, e.Key.Span(), "map keys must share a type")
		}
		v := c.inferExpr(e.Value, s, vt)
		if err := c.subst.Unify(vt, v); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, e.Value.Span(), "map values must share a type")
		}
	}
	return types.TNamed{Name: "Map", Args: []types.Type{c.subst.Apply(kt), c.subst.Apply(vt)}}
}

func (c *Checker) inferSetLit(n *ast.SetLit, s *scope) types.Type {
	if len(n.Elems) == 0 {
		return types.TNamed{Name: "Set", Args: []types.Type{c.subst.FreshVar()}}
	}
	et := c.inferExpr(n.Elems[0], s, nil)
	for _, el := range n.Elems[1:] {
		t := c.inferExpr(el, s, et)
		if err := c.subst.Unify(et, t); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, el.Span(), "set elements must share a type")
		}
	}
	return types.TNamed{Name: "Set", Args: []types.Type{c.subst.Apply(et)}}
}

func (c *Checker) inferRecordLit(n *ast.RecordLit, s *scope) types.Type {
	def, ok := c.records[n.TypeName]
	if !ok {
		for _, f := range n.Fields {
			c.inferExpr(f.Value, s, nil)
		}
		c.addf(diagnostics.ErrUnresolvedVar, n.SpanV, "unknown record type %q", n.TypeName)
		return types.TUnknown{}
	}
	tpSet := make(map[string]bool, len(def.TypeParams))
	for _, t := range def.TypeParams {
		tpSet[t] = true
	}
	declared := map[string]types.Type{}
	for _, f := range def.Fields {
		declared[f.Name] = c.convertType(f.Type, tpSet)
	}
	if n.Spread != nil {
		c.inferExpr(n.Spread, s, types.TNamed{Name: n.TypeName})
	}
	paramMap := map[string]types.Type{}
	for _, f := range n.Fields {
		ft, ok := declared[f.Name]
		if !ok {
			c.inferExpr(f.Value, s, nil)
			c.addf(diagnostics.ErrInvalidFieldAccess, n.SpanV, "record %s has no field %q", n.TypeName, f.Name)
			continue
		}
		instFt := c.subst.Instantiate(ft, paramMap)
		vt := c.inferExpr(f.Value, s, instFt)
		if err := c.subst.Unify(instFt, vt); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, f.Value.Span(),
				"field %q expects %s, found %s", f.Name, c.subst.Apply(instFt), c.subst.Apply(vt))
		}
	}
	if len(def.TypeParams) == 0 {
		return types.TNamed{Name: n.TypeName}
	}
	args := make([]types.Type, len(def.TypeParams))
	for i, tp := range def.TypeParams {
		if v, ok := paramMap[tp]; ok {
			args[i] = c.subst.Apply(v)
		} else {
			args[i] = c.subst.FreshVar()
		}
	}
	return types.TNamed{Name: n.TypeName, Args: args}
}

func (c *Checker) inferVariantLit(n *ast.VariantLit, s *scope) types.Type {
	if n.Enum == "" && isBuiltinOptionResultName(n.Variant) {
		ft := c.builtinVariantType(n.Variant)
		return c.applyArgs(ft, n.Args, s, n.SpanV)
	}
	enumName := n.Enum
	if enumName == "" {
		enumName = c.variantOf[n.Variant]
	}
	if enumName == "" {
		for _, a := range n.Args {
			c.inferExpr(a, s, nil)
		}
		c.addf(diagnostics.ErrUnresolvedVar, n.SpanV, "unknown variant %q", n.Variant)
		return types.TUnknown{}
	}
	ft := c.variantReferenceType(enumName, n.Variant)
	return c.applyArgs(ft, n.Args, s, n.SpanV)
}

// applyArgs checks a call against a (possibly already-instantiated)
// function type or, for a nullary constructor, the bare value type
// itself (erroring if args were supplied where none are expected).
func (c *Checker) applyArgs(callee types.Type, args []ast.Expr, s *scope, span source.Span) types.Type {
	fn, ok := c.subst.Resolve(callee).(types.TFunc)
	if !ok {
		for _, a := range args {
			c.inferExpr(a, s, nil)
		}
		if len(args) > 0 {
			c.addf(diagnostics.ErrArityMismatch, span, "value is not callable but was given %d argument(s)", len(args))
		}
		return callee
	}
	if len(args) != len(fn.Params) {
		for _, a := range args {
			c.inferExpr(a, s, nil)
		}
		c.addf(diagnostics.ErrArityMismatch, span, "expected %d argument(s), got %d", len(fn.Params), len(args))
		return fn.Ret
	}
	for i, a := range args {
		at := c.inferExpr(a, s, fn.Params[i])
		if err := c.subst.Unify(fn.Params[i], at); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, a.Span(), "argument %d: expected %s, found %s", i+1, c.subst.Apply(fn.Params[i]), c.subst.Apply(at))
		}
	}
	return c.subst.Apply(fn.Ret)
}

func (c *Checker) inferCall(n *ast.CallExpr, s *scope) types.Type {
	calleeType := c.inferExpr(n.Callee, s, nil)
	return c.applyArgs(calleeType, n.Args, s, n.SpanV)
}

func (c *Checker) inferFieldAccess(n *ast.FieldAccessExpr, s *scope) types.Type {
	xt := c.subst.Apply(c.inferExpr(n.X, s, nil))
	resolved := c.resolveNamed(xt)
	switch rt := resolved.(type) {
	case types.TRecord:
		if ft, ok := rt.Field(n.Name); ok {
			return ft
		}
	case types.TNamed:
		if def, ok := c.records[rt.Name]; ok {
			rec := c.recordType(def, rt.Args)
			if ft, ok := rec.Field(n.Name); ok {
				return ft
			}
		}
	case types.TTuple:
		if idx, ok := tupleIndex(n.Name); ok && idx < len(rt.Elems) {
			return rt.Elems[idx]
		}
	case types.TUnknown:
		return types.TUnknown{}
	}
	c.addf(diagnostics.ErrInvalidFieldAccess, n.SpanV, "%s has no field %q", resolved, n.Name)
	return types.TUnknown{}
}

func tupleIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	n := 0
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func (c *Checker) inferIndex(n *ast.IndexExpr, s *scope) types.Type {
	xt := c.subst.Resolve(c.inferExpr(n.X, s, nil))
	idxT := c.inferExpr(n.Index, s, types.TInt{})
	if err := c.subst.Unify(idxT, types.TInt{}); err != nil {
		c.addf(diagnostics.ErrTypeMismatch, n.Index.Span(), "index must be Int")
	}
	switch xr := xt.(type) {
	case types.TList:
		return xr.Elem
	case types.TTuple:
		return types.TUnknown{}
	case types.TNamed:
		if xr.Name == "Map" && len(xr.Args) == 2 {
			return types.TOption{Elem: xr.Args[1]}
		}
	}
	c.addf(diagnostics.ErrInvalidFieldAccess, n.SpanV, "%s is not indexable", xt)
	return types.TUnknown{}
}

func (c *Checker) inferTry(n *ast.TryExpr, s *scope) types.Type {
	xt := c.subst.Resolve(c.inferExpr(n.X, s, nil))
	switch t := xt.(type) {
	case types.TOption:
		return t.Elem
	case types.TResult:
		return t.Ok
	case types.TUnknown:
		return types.TUnknown{}
	}
	c.addf(diagnostics.ErrTypeMismatch, n.SpanV, "'?' requires Option or Result, found %s", xt)
	return types.TUnknown{}
}

func (c *Checker) inferFor(n *ast.ForExpr, s *scope) types.Type {
	iterT := c.subst.Resolve(c.inferExpr(n.Iterable, s, nil))
	var elem types.Type = types.TUnknown{}
	switch t := iterT.(type) {
	case types.TList:
		elem = t.Elem
	case types.TNamed:
		if (t.Name == "Set" || t.Name == "Map") && len(t.Args) > 0 {
			if t.Name == "Map" && len(t.Args) == 2 {
				elem = types.TTuple{Elems: []types.Type{t.Args[0], t.Args[1]}}
			} else {
				elem = t.Args[0]
			}
		}
	}
	inner := newScope(s)
	c.bindPattern(n.Pattern, elem, inner)
	c.inferBlock(n.Body, inner)
	c.popScope(inner)
	return types.TUnit{}
}

func (c *Checker) inferPerform(n *ast.PerformExpr, s *scope) types.Type {
	c.useEffect(n.Effect, n.SpanV)
	for _, a := range n.Args {
		c.inferExpr(a, s, nil)
	}
	if def, ok := c.userEff[n.Effect]; ok {
		for _, op := range def.Operations {
			if op.Name == n.Op {
				if op.ReturnType != nil {
					return c.convertType(op.ReturnType, nil)
				}
				return types.TUnit{}
			}
		}
		c.addf(diagnostics.ErrUnknownEffectOp, n.SpanV, "%s has no operation %s", n.Effect, n.Op)
	}
	return types.TUnknown{}
}
