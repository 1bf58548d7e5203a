package interp

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/config"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/object"
	"github.com/astra-lang/astra/internal/source"
)

func (ip *Interp) evalArgs(args []ast.Expr, env *object.Environment) ([]object.Value, error) {
	out := make([]object.Value, len(args))
	for i, a := range args {
		v, err := ip.Eval(a, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ip *Interp) evalCall(n *ast.CallExpr, env *object.Environment) (object.Value, error) {
	args, err := ip.evalArgs(n.Args, env)
	if err != nil {
		return nil, err
	}
	callee, err := ip.Eval(n.Callee, env)
	if err != nil {
		return nil, err
	}
	switch c := callee.(type) {
	case *object.Closure:
		return ip.callClosure(c, args, n.SpanV)
	case *object.VariantConstructor:
		if (c.EnumName == "Option" || c.EnumName == "Result") && isBuiltinVariantName(c.Name) {
			if v, ok, err := builtinVariant(c.Name, args, n.SpanV); ok {
				return v, err
			}
		}
		if len(args) != c.Arity {
			return nil, rtErr(diagnostics.ErrArityMismatch, n.SpanV, "variant %q expects %d argument(s), got %d", c.Name, c.Arity, len(args))
		}
		return &object.Variant{EnumName: c.EnumName, Name: c.Name, Fields: args}, nil
	default:
		return nil, rtErr(diagnostics.ErrNotCallable, n.SpanV, "%s is not callable", callee.Kind())
	}
}

func (ip *Interp) evalFieldAccess(n *ast.FieldAccessExpr, env *object.Environment) (object.Value, error) {
	x, err := ip.Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	switch r := x.(type) {
	case *object.Record:
		if v, ok := r.Fields[n.Name]; ok {
			return v, nil
		}
		return nil, rtErr(diagnostics.ErrInvalidFieldAccess, n.SpanV, "record %s has no field %q", r.TypeName, n.Name)
	case *object.Tuple:
		idx, tupleIdx := tupleFieldIndex(n.Name)
		if tupleIdx && idx >= 0 && idx < len(r.Elems) {
			return r.Elems[idx], nil
		}
		return nil, rtErr(diagnostics.ErrInvalidFieldAccess, n.SpanV, "tuple has no field %q", n.Name)
	default:
		return nil, rtErr(diagnostics.ErrInvalidFieldAccess, n.SpanV, "%s has no field %q", x.Kind(), n.Name)
	}
}

// tupleFieldIndex recognizes the conventional `.0`, `.1`, ... tuple
// positional field syntax (the lexer yields an INT token after the DOT,
// which the parser accepts as the field name).
func tupleFieldIndex(name string) (int, bool) {
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

func (ip *Interp) evalIndex(n *ast.IndexExpr, env *object.Environment) (object.Value, error) {
	x, err := ip.Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	idx, err := ip.Eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	switch c := x.(type) {
	case *object.List:
		i, ok := idx.(object.Int)
		if !ok || int(i) < 0 || int(i) >= len(c.Elems) {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "list index out of range")
		}
		return c.Elems[i], nil
	case *object.Map:
		if v, ok := c.Get(idx); ok {
			return v, nil
		}
		return object.None(), nil
	case *object.Tuple:
		i, ok := idx.(object.Int)
		if !ok || int(i) < 0 || int(i) >= len(c.Elems) {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "tuple index out of range")
		}
		return c.Elems[i], nil
	default:
		return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, n.SpanV, "%s is not indexable", x.Kind())
	}
}

func (ip *Interp) evalRecordLit(n *ast.RecordLit, env *object.Environment) (object.Value, error) {
	rec := object.NewRecord(n.TypeName)
	if n.Spread != nil {
		base, err := ip.Eval(n.Spread, env)
		if err != nil {
			return nil, err
		}
		if br, ok := base.(*object.Record); ok {
			for _, name := range br.Order {
				rec.Set(name, br.Fields[name])
			}
		}
	}
	for _, f := range n.Fields {
		v, err := ip.Eval(f.Value, env)
		if err != nil {
			return nil, err
		}
		rec.Set(f.Name, v)
	}
	return rec, nil
}

func (ip *Interp) evalVariantLit(n *ast.VariantLit, env *object.Environment) (object.Value, error) {
	args, err := ip.evalArgs(n.Args, env)
	if err != nil {
		return nil, err
	}
	if n.Enum == "" {
		if v, ok, err := builtinVariant(n.Variant, args, n.SpanV); ok {
			return v, err
		}
	}
	enum := n.Enum
	if enum == "" {
		enum = ip.Variants[n.Variant]
	}
	return &object.Variant{EnumName: enum, Name: n.Variant, Fields: args}, nil
}

// builtinVariantRef resolves a bare (uncalled) reference to one of the
// four built-in Option/Result constructors: `None` is a value so it
// resolves directly, while `Some`/`Ok`/`Err` need an argument, so they
// resolve to a VariantConstructor tagged with the Option/Result enum
// name, which evalCall recognizes and routes to builtinVariant instead
// of building a generic object.Variant.
func builtinVariantRef(name string) (object.Value, bool) {
	switch name {
	case "None":
		return object.None(), true
	case "Some":
		return &object.VariantConstructor{EnumName: "Option", Name: "Some", Arity: 1}, true
	case "Ok":
		return &object.VariantConstructor{EnumName: "Result", Name: "Ok", Arity: 1}, true
	case "Err":
		return &object.VariantConstructor{EnumName: "Result", Name: "Err", Arity: 1}, true
	}
	return nil, false
}

// isBuiltinVariantName reports whether name is one of the language's four
// built-in Option/Result constructors, which are spelled like ordinary bare-uppercase variant
// constructors in source (`Some(1)`, `None`, `Ok(x)`, `Err(e)`) but are
// not user enum variants -- the parser (internal/parser/expr.go,
// parseUpperPrimary) can't tell them apart from a real enum constructor,
// so evaluation resolves them through builtinVariant, ahead of the
// user-Variants table.
func isBuiltinVariantName(name string) bool {
	switch name {
	case "Some", "None", "Ok", "Err":
		return true
	}
	return false
}

func builtinVariant(name string, args []object.Value, span source.Span) (object.Value, bool, error) {
	switch name {
	case "Some":
		if len(args) != 1 {
			return nil, true, rtErr(diagnostics.ErrArityMismatch, span, "Some expects 1 argument, got %d", len(args))
		}
		return object.Some(args[0]), true, nil
	case "None":
		if len(args) != 0 {
			return nil, true, rtErr(diagnostics.ErrArityMismatch, span, "None expects 0 arguments, got %d", len(args))
		}
		return object.None(), true, nil
	case "Ok":
		if len(args) != 1 {
			return nil, true, rtErr(diagnostics.ErrArityMismatch, span, "Ok expects 1 argument, got %d", len(args))
		}
		return object.Ok(args[0]), true, nil
	case "Err":
		if len(args) != 1 {
			return nil, true, rtErr(diagnostics.ErrArityMismatch, span, "Err expects 1 argument, got %d", len(args))
		}
		return object.Err(args[0]), true, nil
	}
	return nil, false, nil
}

// evalMethodCall evaluates a `recv.method(args)` call. A bare identifier
// receiver naming one of the six built-in capabilities, or a
// user-declared effect, is routed to the capability/handler dispatcher
// instead of being resolved as an ordinary value -- mirroring the
// checker's inferMethodCall special-casing (spec §4.J: "Receivers named
// Console, Fs, Net, Clock, Rand, Env route method calls to the
// corresponding capability"), so plain `Console.println(...)` syntax
// works without requiring the `perform` keyword.
func (ip *Interp) evalMethodCall(n *ast.MethodCallExpr, env *object.Environment) (object.Value, error) {
	if recvName, ok := n.Receiver.(*ast.Identifier); ok {
		if _, isLocal := env.Get(recvName.Name); !isLocal {
			if isBuiltinCapability(recvName.Name) || ip.isUserEffect(recvName.Name) {
				args, err := ip.evalArgs(n.Args, env)
				if err != nil {
					return nil, err
				}
				return ip.Caps.Dispatch(recvName.Name, n.Name, args, env, ip.callUserHandler)
			}
		}
	}

	recv, err := ip.Eval(n.Receiver, env)
	if err != nil {
		return nil, err
	}
	args, err := ip.evalArgs(n.Args, env)
	if err != nil {
		return nil, err
	}
	return ip.dispatchMethod(recv, n.Name, args, n.SpanV)
}

func isBuiltinCapability(name string) bool {
	for _, n := range config.EffectCapabilityNames {
		if n == name {
			return true
		}
	}
	return false
}

// isUserEffect reports whether an unbound identifier receiver counts as
// a user effect name. The Interp itself doesn't track effect
// declarations (the checker owns that), so this is a runtime
// approximation: any name that is not a built-in Option/Result
// constructor, top-level function, user variant, record or enum counts.
// Such a name dispatches through callUserHandler, which yields Unit
// when no `__handler_{name}` binding is in scope.
func (ip *Interp) isUserEffect(name string) bool {
	return !isBuiltinVariantName(name) && ip.Functions[name] == nil && ip.Variants[name] == "" && ip.Records[name] == nil && ip.Enums[name] == nil
}

func (ip *Interp) evalPerform(n *ast.PerformExpr, env *object.Environment) (object.Value, error) {
	args, err := ip.evalArgs(n.Args, env)
	if err != nil {
		return nil, err
	}
	return ip.Caps.Dispatch(n.Effect, n.Op, args, env, ip.callUserHandler)
}

// callUserHandler invokes the `__handler_{EffectName}` closure bound in
// env for a user-declared effect, falling back to Unit when unhandled
// per spec §4.J.
func (ip *Interp) callUserHandler(effect, op string, args []object.Value, env *object.Environment) (object.Value, error) {
	handlerName := "__handler_" + effect
	h, ok := env.Get(handlerName)
	if !ok {
		return object.Unit{}, nil
	}
	switch hv := h.(type) {
	case *object.Record:
		fn, ok := hv.Fields[op]
		if !ok {
			return object.Unit{}, nil
		}
		closure, ok := fn.(*object.Closure)
		if !ok {
			return object.Unit{}, nil
		}
		return ip.callClosure(closure, args, emptySpan())
	case *object.Closure:
		callArgs := append([]object.Value{object.Text(op)}, args...)
		return ip.callClosure(hv, callArgs, emptySpan())
	default:
		return object.Unit{}, nil
	}
}
