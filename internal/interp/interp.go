// Package interp implements the tree-walking interpreter core (spec
// component H): expression/statement evaluation, pattern-match
// execution, and dispatch into the built-in method tables (component I)
// and the effect/capability layer (component J).
//
// Grounded on funvibe/funxy's internal/evaluator/evaluator.go (a single
// Eval(node, env) dispatch over a Go type switch, returning
// (object.Object, error) with a sentinel error type for control flow,
// mirrored here as the `signal` type) and on original_source's
// interpreter module for exact runtime semantics (arity/type-mismatch
// checks, the `?` operator's Option/Result unwrap-or-propagate rule, and
// the E4xxx error code assignment).
package interp

import (
	"fmt"
	"math"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/effects"
	"github.com/astra-lang/astra/internal/object"
	"github.com/astra-lang/astra/internal/source"
	"github.com/google/uuid"
)

// RuntimeError wraps a diagnostics.DiagnosticError raised during
// evaluation, keeping the stable E4xxx code family attached to runtime
// failures the same way the checker's E2xxx/E3xxx codes are attached to
// static failures.
type RuntimeError struct {
	*diagnostics.DiagnosticError
}

func rtErr(code string, span source.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{&diagnostics.DiagnosticError{
		Code: code, Severity: diagnostics.SeverityError, Span: span,
		Message: fmt.Sprintf(format, args...),
	}}
}

// Interp holds the program-wide declarations and capability table needed
// to evaluate any expression: top-level functions, record/enum
// definitions (for construction and JSON round-tripping), trait impls,
// user effect handlers, and the built-in capability set.
type Interp struct {
	Functions map[string]*ast.FunctionDef
	Records   map[string]*ast.RecordDef
	Enums     map[string]*ast.EnumDef
	Variants  map[string]string // bare variant name -> owning enum name
	Impls     map[string]map[string]*ast.FunctionDef // trait name -> method name -> def (single global impl set, keyed loosely)
	Caps      *effects.Capabilities
}

// New constructs an Interp over a parsed module's top-level items.
func New(items []ast.Item, caps *effects.Capabilities) *Interp {
	ip := &Interp{
		Functions: map[string]*ast.FunctionDef{},
		Records:   map[string]*ast.RecordDef{},
		Enums:     map[string]*ast.EnumDef{},
		Variants:  map[string]string{},
		Impls:     map[string]map[string]*ast.FunctionDef{},
		Caps:      caps,
	}
	for _, it := range items {
		switch d := it.(type) {
		case *ast.FunctionDef:
			ip.Functions[d.Name] = d
		case *ast.RecordDef:
			ip.Records[d.Name] = d
		case *ast.EnumDef:
			ip.Enums[d.Name] = d
			for _, v := range d.Variants {
				ip.Variants[v.Name] = d.Name
			}
		case *ast.TraitImpl:
			name := d.TraitName
			if ip.Impls[name] == nil {
				ip.Impls[name] = map[string]*ast.FunctionDef{}
			}
			for _, m := range d.Methods {
				ip.Impls[name][m.Name] = m
			}
		}
	}
	return ip
}

// Eval evaluates an expression in env, returning its value or a
// *RuntimeError / *signal (the latter only escapes to a caller that
// forgot to bound a loop/function, which the checker should have
// already ruled out).
func (ip *Interp) Eval(e ast.Expr, env *object.Environment) (object.Value, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return object.Int(n.Value), nil
	case *ast.FloatLit:
		return object.Float(n.Value), nil
	case *ast.BoolLit:
		return object.Bool(n.Value), nil
	case *ast.UnitLit:
		return object.Unit{}, nil
	case *ast.TextLit:
		return object.Text(n.Value), nil
	case *ast.Hole:
		return nil, rtErr(diagnostics.ErrHoleEncountered, n.SpanV, "encountered ??? (not yet implemented)")
	case *ast.InterpolatedText:
		return ip.evalInterpolated(n, env)
	case *ast.Identifier:
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		if v, ok := builtinVariantRef(n.Name); ok {
			return v, nil
		}
		if fn, ok := ip.Functions[n.Name]; ok {
			return ip.closureFromDef(fn, env), nil
		}
		if enumName, ok := ip.Variants[n.Name]; ok {
			if arity := ip.variantArity(enumName, n.Name); arity == 0 {
				return &object.Variant{EnumName: enumName, Name: n.Name}, nil
			} else {
				return &object.VariantConstructor{EnumName: enumName, Name: n.Name, Arity: arity}, nil
			}
		}
		return nil, rtErr(diagnostics.ErrUndefinedVariable, n.SpanV, "undefined variable %q", n.Name)
	case *ast.UnaryExpr:
		return ip.evalUnary(n, env)
	case *ast.BinaryExpr:
		return ip.evalBinary(n, env)
	case *ast.RangeExpr:
		return ip.evalRange(n, env)
	case *ast.CallExpr:
		return ip.evalCall(n, env)
	case *ast.MethodCallExpr:
		return ip.evalMethodCall(n, env)
	case *ast.FieldAccessExpr:
		return ip.evalFieldAccess(n, env)
	case *ast.IndexExpr:
		return ip.evalIndex(n, env)
	case *ast.IfExpr:
		return ip.evalIf(n, env)
	case *ast.MatchExpr:
		return ip.evalMatch(n, env)
	case *ast.BlockExpr:
		return ip.evalBlock(n.Block, env)
	case *ast.LambdaExpr:
		return ip.closureFromLambda(n, env), nil
	case *ast.ListLit:
		elems := make([]object.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := ip.Eval(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return object.NewList(elems), nil
	case *ast.TupleLit:
		elems := make([]object.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := ip.Eval(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &object.Tuple{Elems: elems}, nil
	case *ast.MapLit:
		m := object.NewMap()
		for _, entry := range n.Entries {
			k, err := ip.Eval(entry.Key, env)
			if err != nil {
				return nil, err
			}
			v, err := ip.Eval(entry.Value, env)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case *ast.SetLit:
		s := object.NewSet()
		for _, el := range n.Elems {
			v, err := ip.Eval(el, env)
			if err != nil {
				return nil, err
			}
			s.Add(v)
		}
		return s, nil
	case *ast.RecordLit:
		return ip.evalRecordLit(n, env)
	case *ast.VariantLit:
		return ip.evalVariantLit(n, env)
	case *ast.TryExpr:
		return ip.evalTry(n, env)
	case *ast.ReturnExpr:
		var v object.Value = object.Unit{}
		if n.Value != nil {
			var err error
			v, err = ip.Eval(n.Value, env)
			if err != nil {
				return nil, err
			}
		}
		return nil, &signal{kind: signalReturn, value: v}
	case *ast.BreakExpr:
		return nil, &signal{kind: signalBreak}
	case *ast.ContinueExpr:
		return nil, &signal{kind: signalContinue}
	case *ast.WhileExpr:
		return ip.evalWhile(n, env)
	case *ast.ForExpr:
		return ip.evalFor(n, env)
	case *ast.PerformExpr:
		return ip.evalPerform(n, env)
	default:
		return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, e.Span(), "unhandled expression node %T", e)
	}
}

func (ip *Interp) variantArity(enumName, variantName string) int {
	enum := ip.Enums[enumName]
	if enum == nil {
		return 0
	}
	for _, v := range enum.Variants {
		if v.Name == variantName {
			return len(v.Fields)
		}
	}
	return 0
}

func (ip *Interp) closureFromDef(fn *ast.FunctionDef, env *object.Environment) *object.Closure {
	return &object.Closure{
		ID: uuid.New(), Params: fn.Params, Body: fn.Body, Env: env, Name: fn.Name,
		Requires: fn.Requires, Ensures: fn.Ensures,
	}
}

func (ip *Interp) closureFromLambda(l *ast.LambdaExpr, env *object.Environment) *object.Closure {
	return &object.Closure{ID: uuid.New(), Params: l.Params, Body: l.Body, Env: env.Child()}
}

// callClosure binds args into a fresh child scope of the closure's
// captured environment and evaluates its body, dispatching on whether
// the body is a block (named function) or a bare expression (lambda). A
// signalReturn unwinds exactly one call frame here; it never escapes
// past the function that issued it.
func (ip *Interp) callClosure(c *object.Closure, args []object.Value, span source.Span) (object.Value, error) {
	if c.Builtin != nil {
		return c.Builtin(args)
	}
	if len(args) != len(c.Params) {
		return nil, rtErr(diagnostics.ErrArityMismatch, span, "expected %d argument(s), got %d", len(c.Params), len(args))
	}
	callEnv := c.Env.Child()
	callEnv.Push()
	for i, p := range c.Params {
		callEnv.Define(p.Name, args[i])
	}
	for _, req := range c.Requires {
		ok, err := ip.evalContractExpr(req, callEnv)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, rtErr(diagnostics.ErrPreconditionViolated, req.Span(), "precondition violated in %s", closureLabel(c))
		}
	}
	var result object.Value
	var err error
	switch body := c.Body.(type) {
	case *ast.Block:
		result, err = ip.evalBlock(body, callEnv)
	case ast.Expr:
		result, err = ip.Eval(body, callEnv)
	default:
		return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "closure has no body")
	}
	if err != nil {
		if s, ok := asSignal(err); ok && s.kind == signalReturn {
			result, err = s.value, nil
		} else {
			return nil, err
		}
	}
	if len(c.Ensures) > 0 {
		postEnv := callEnv.Child()
		postEnv.Push()
		postEnv.Define("result", result)
		for _, ens := range c.Ensures {
			ok, err := ip.evalContractExpr(ens, postEnv)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, rtErr(diagnostics.ErrPostconditionViolated, ens.Span(), "postcondition violated in %s", closureLabel(c))
			}
		}
	}
	return result, nil
}

// evalContractExpr evaluates a requires/ensures expression, which the
// checker has already verified is Bool-typed.
func (ip *Interp) evalContractExpr(e ast.Expr, env *object.Environment) (bool, error) {
	v, err := ip.Eval(e, env)
	if err != nil {
		return false, err
	}
	b, ok := v.(object.Bool)
	if !ok {
		return false, rtErr(diagnostics.ErrRuntimeTypeMismatch, e.Span(), "contract expression did not evaluate to Bool")
	}
	return bool(b), nil
}

func closureLabel(c *object.Closure) string {
	if c.Name != "" {
		return c.Name
	}
	return "<lambda>"
}

// evalBlock threads the block's statements, returning the value of a
// trailing bare expression statement or Unit otherwise.
func (ip *Interp) evalBlock(b *ast.Block, env *object.Environment) (object.Value, error) {
	env.Push()
	defer env.Pop()
	var last object.Value = object.Unit{}
	for i, stmt := range b.Stmts {
		v, err := ip.evalStmt(stmt, env)
		if err != nil {
			return nil, err
		}
		if i == len(b.Stmts)-1 {
			if _, ok := stmt.(*ast.ExprStmt); ok {
				last = v
			} else {
				last = object.Unit{}
			}
		}
	}
	return last, nil
}

func (ip *Interp) evalStmt(s ast.Stmt, env *object.Environment) (object.Value, error) {
	switch n := s.(type) {
	case *ast.LetStmt:
		v, err := ip.Eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		if !ip.bindPattern(n.Pattern, v, env) {
			return nil, rtErr(diagnostics.ErrMatchFailure, n.SpanV, "let pattern did not match value %s", v)
		}
		return object.Unit{}, nil
	case *ast.ExprStmt:
		return ip.Eval(n.X, env)
	case *ast.AssignStmt:
		v, err := ip.Eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		return object.Unit{}, ip.evalAssign(n.Target, v, env)
	default:
		return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, s.Span(), "unhandled statement node %T", s)
	}
}

func (ip *Interp) evalAssign(target ast.Expr, v object.Value, env *object.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if !env.Assign(t.Name, v) {
			return rtErr(diagnostics.ErrUndefinedVariable, t.SpanV, "undefined variable %q", t.Name)
		}
		return nil
	case *ast.FieldAccessExpr:
		recv, err := ip.Eval(t.X, env)
		if err != nil {
			return err
		}
		rec, ok := recv.(*object.Record)
		if !ok {
			return rtErr(diagnostics.ErrInvalidFieldAccess, t.SpanV, "cannot assign field %q on non-record", t.Name)
		}
		rec.Set(t.Name, v)
		return nil
	case *ast.IndexExpr:
		recv, err := ip.Eval(t.X, env)
		if err != nil {
			return err
		}
		idx, err := ip.Eval(t.Index, env)
		if err != nil {
			return err
		}
		switch c := recv.(type) {
		case *object.List:
			i, ok := idx.(object.Int)
			if !ok || int(i) < 0 || int(i) >= len(c.Elems) {
				return rtErr(diagnostics.ErrRuntimeTypeMismatch, t.SpanV, "list index out of range")
			}
			c.Elems[i] = v
			return nil
		case *object.Map:
			c.Set(idx, v)
			return nil
		}
		return rtErr(diagnostics.ErrInvalidFieldAccess, t.SpanV, "cannot index-assign %s", recv.Kind())
	default:
		return rtErr(diagnostics.ErrRuntimeTypeMismatch, target.Span(), "invalid assignment target")
	}
}

func (ip *Interp) evalInterpolated(n *ast.InterpolatedText, env *object.Environment) (object.Value, error) {
	var out string
	for i, part := range n.Parts {
		out += part
		if i < len(n.Exprs) {
			v, err := ip.Eval(n.Exprs[i], env)
			if err != nil {
				return nil, err
			}
			out += DisplayString(v)
		}
	}
	return object.Text(out), nil
}

func (ip *Interp) evalIf(n *ast.IfExpr, env *object.Environment) (object.Value, error) {
	cond, err := ip.Eval(n.Cond, env)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(object.Bool)
	if !ok {
		return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "if condition must be Bool, got %s", cond.Kind())
	}
	if bool(b) {
		return ip.evalBlock(n.Then, env)
	}
	if n.Else != nil {
		return ip.Eval(n.Else, env)
	}
	return object.Unit{}, nil
}

func (ip *Interp) evalWhile(n *ast.WhileExpr, env *object.Environment) (object.Value, error) {
	for {
		cond, err := ip.Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(object.Bool)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "while condition must be Bool, got %s", cond.Kind())
		}
		if !bool(b) {
			return object.Unit{}, nil
		}
		_, err = ip.evalBlock(n.Body, env)
		if err != nil {
			if s, ok := asSignal(err); ok {
				if s.kind == signalBreak {
					return object.Unit{}, nil
				}
				if s.kind == signalContinue {
					continue
				}
			}
			return nil, err
		}
	}
}

func (ip *Interp) evalFor(n *ast.ForExpr, env *object.Environment) (object.Value, error) {
	iterable, err := ip.Eval(n.Iterable, env)
	if err != nil {
		return nil, err
	}
	items, err := iterate(iterable)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		env.Push()
		ip.bindPattern(n.Pattern, item, env)
		_, err := ip.evalBlock(n.Body, env)
		env.Pop()
		if err != nil {
			if s, ok := asSignal(err); ok {
				if s.kind == signalBreak {
					return object.Unit{}, nil
				}
				if s.kind == signalContinue {
					continue
				}
			}
			return nil, err
		}
	}
	return object.Unit{}, nil
}

// iterate realizes any built-in iterable as a slice of values, per
// spec §4.I's iteration protocol: List yields elements, Map yields
// (key, value) tuples, Set yields elements, Range yields Ints.
func iterate(v object.Value) ([]object.Value, error) {
	switch c := v.(type) {
	case *object.List:
		return c.Elems, nil
	case *object.Set:
		return c.Elems(), nil
	case *object.Map:
		entries := c.Entries()
		out := make([]object.Value, len(entries))
		for i, e := range entries {
			out[i] = &object.Tuple{Elems: []object.Value{e[0], e[1]}}
		}
		return out, nil
	case *rangeValue:
		var out []object.Value
		if c.inclusive {
			for i := c.from; i <= c.to; i++ {
				out = append(out, object.Int(i))
			}
		} else {
			for i := c.from; i < c.to; i++ {
				out = append(out, object.Int(i))
			}
		}
		return out, nil
	default:
		return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, source.Span{}, "%s is not iterable", v.Kind())
	}
}

// rangeValue is the runtime representation of `a..b` / `a..=b`; it is
// not part of the object.Value surface exposed to user code directly
// except through `for x in a..b`.
type rangeValue struct {
	from, to  int64
	inclusive bool
}

func (*rangeValue) Kind() object.Kind { return "Range" }
func (r *rangeValue) String() string {
	if r.inclusive {
		return fmt.Sprintf("%d..=%d", r.from, r.to)
	}
	return fmt.Sprintf("%d..%d", r.from, r.to)
}

func (ip *Interp) evalRange(n *ast.RangeExpr, env *object.Environment) (object.Value, error) {
	from, err := ip.Eval(n.From, env)
	if err != nil {
		return nil, err
	}
	to, err := ip.Eval(n.To, env)
	if err != nil {
		return nil, err
	}
	fi, ok1 := from.(object.Int)
	ti, ok2 := to.(object.Int)
	if !ok1 || !ok2 {
		return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "range bounds must be Int")
	}
	return &rangeValue{from: int64(fi), to: int64(ti), inclusive: n.Inclusive}, nil
}

func (ip *Interp) evalTry(n *ast.TryExpr, env *object.Environment) (object.Value, error) {
	v, err := ip.Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	switch c := v.(type) {
	case *object.Option:
		if c.IsSome() {
			return c.Value, nil
		}
		return nil, &signal{kind: signalReturn, value: object.None()}
	case *object.Result:
		if c.IsOk() {
			return c.OkVal, nil
		}
		return nil, &signal{kind: signalReturn, value: object.Err(c.ErrVal)}
	default:
		return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "'?' requires Option or Result, got %s", v.Kind())
	}
}

func (ip *Interp) evalUnary(n *ast.UnaryExpr, env *object.Environment) (object.Value, error) {
	v, err := ip.Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		switch x := v.(type) {
		case object.Int:
			return -x, nil
		case object.Float:
			return object.Float(-float64(x)), nil
		}
	case "!":
		if b, ok := v.(object.Bool); ok {
			return !b, nil
		}
	}
	return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "invalid operand %s for unary %q", v.Kind(), n.Op)
}

func (ip *Interp) evalBinary(n *ast.BinaryExpr, env *object.Environment) (object.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		l, err := ip.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		lb, ok := l.(object.Bool)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "operand of %q must be Bool", n.Op)
		}
		if n.Op == "&&" && !bool(lb) {
			return object.Bool(false), nil
		}
		if n.Op == "||" && bool(lb) {
			return object.Bool(true), nil
		}
		r, err := ip.Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := r.(object.Bool)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "operand of %q must be Bool", n.Op)
		}
		return rb, nil
	}

	l, err := ip.Eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := ip.Eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return object.Bool(object.Equal(l, r)), nil
	case "!=":
		return object.Bool(!object.Equal(l, r)), nil
	case "<", "<=", ">", ">=":
		c, ok := object.Compare(l, r)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "%s and %s are not orderable", l.Kind(), r.Kind())
		}
		switch n.Op {
		case "<":
			return object.Bool(c < 0), nil
		case "<=":
			return object.Bool(c <= 0), nil
		case ">":
			return object.Bool(c > 0), nil
		default:
			return object.Bool(c >= 0), nil
		}
	}

	if n.Op == "+" {
		if ls, ok := l.(object.Text); ok {
			if rs, ok := r.(object.Text); ok {
				return ls + rs, nil
			}
		}
		if ll, ok := l.(*object.List); ok {
			if rl, ok := r.(*object.List); ok {
				out := make([]object.Value, 0, len(ll.Elems)+len(rl.Elems))
				out = append(out, ll.Elems...)
				out = append(out, rl.Elems...)
				return object.NewList(out), nil
			}
		}
	}

	return arith(n.Op, l, r, n.SpanV)
}

func arith(op string, l, r object.Value, span source.Span) (object.Value, error) {
	li, lInt := l.(object.Int)
	ri, rInt := r.(object.Int)
	if lInt && rInt {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "/":
			if ri == 0 {
				return nil, rtErr(diagnostics.ErrDivisionByZero, span, "division by zero")
			}
			return li / ri, nil
		case "%":
			if ri == 0 {
				return nil, rtErr(diagnostics.ErrDivisionByZero, span, "division by zero")
			}
			return li % ri, nil
		}
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if lok && rok {
		switch op {
		case "+":
			return object.Float(lf + rf), nil
		case "-":
			return object.Float(lf - rf), nil
		case "*":
			return object.Float(lf * rf), nil
		case "/":
			return object.Float(lf / rf), nil
		case "%":
			return object.Float(math.Mod(lf, rf)), nil
		}
	}
	return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "invalid operands %s %s %s", l.Kind(), op, r.Kind())
}

func toFloat(v object.Value) (float64, bool) {
	switch x := v.(type) {
	case object.Int:
		return float64(x), true
	case object.Float:
		return float64(x), true
	}
	return 0, false
}

// DisplayString renders a value the way text interpolation and
// Console.print do: Text values render without quotes, everything else
// uses its String() form.
func DisplayString(v object.Value) string {
	if t, ok := v.(object.Text); ok {
		return string(t)
	}
	return v.String()
}
