package interp

import (
	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/object"
)

// bindPattern attempts to match pat against v, defining any bound names
// in env's innermost scope. Reports whether the match succeeded; on
// failure no partial bindings from this pattern are guaranteed removed
// (callers treat failure as fatal for `let`, or simply try the next
// match arm).
func (ip *Interp) bindPattern(pat ast.Pattern, v object.Value, env *object.Environment) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.IdentPattern:
		env.Define(p.Name, v)
		return true
	case *ast.LitPattern:
		return litMatches(p.Value, v)
	case *ast.TuplePattern:
		t, ok := v.(*object.Tuple)
		if !ok || len(t.Elems) != len(p.Elems) {
			return false
		}
		for i, sub := range p.Elems {
			if !ip.bindPattern(sub, t.Elems[i], env) {
				return false
			}
		}
		return true
	case *ast.ListPattern:
		l, ok := v.(*object.List)
		if !ok {
			return false
		}
		if p.Rest == nil {
			if len(l.Elems) != len(p.Elems) {
				return false
			}
		} else if len(l.Elems) < len(p.Elems) {
			return false
		}
		for i, sub := range p.Elems {
			if !ip.bindPattern(sub, l.Elems[i], env) {
				return false
			}
		}
		if p.Rest != nil {
			env.Define(p.Rest.Name, object.NewList(append([]object.Value(nil), l.Elems[len(p.Elems):]...)))
		}
		return true
	case *ast.RecordPattern:
		r, ok := v.(*object.Record)
		if !ok {
			return false
		}
		if p.TypeName != "" && r.TypeName != p.TypeName {
			return false
		}
		matched := map[string]bool{}
		for _, f := range p.Fields {
			fv, ok := r.Fields[f.Name]
			if !ok {
				return false
			}
			matched[f.Name] = true
			if f.Pattern == nil {
				env.Define(f.Name, fv)
				continue
			}
			if !ip.bindPattern(f.Pattern, fv, env) {
				return false
			}
		}
		if !p.Rest && len(matched) != len(r.Fields) {
			return false
		}
		return true
	case *ast.VariantPattern:
		return ip.matchVariant(p, v, env)
	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			if ip.bindPattern(alt, v, env) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (ip *Interp) matchVariant(p *ast.VariantPattern, v object.Value, env *object.Environment) bool {
	switch p.Variant {
	case "Some":
		opt, ok := v.(*object.Option)
		if !ok || !opt.IsSome() {
			return false
		}
		if len(p.Fields) == 1 {
			return ip.bindPattern(p.Fields[0], opt.Value, env)
		}
		return true
	case "None":
		opt, ok := v.(*object.Option)
		return ok && !opt.IsSome()
	case "Ok":
		res, ok := v.(*object.Result)
		if !ok || !res.IsOk() {
			return false
		}
		if len(p.Fields) == 1 {
			return ip.bindPattern(p.Fields[0], res.OkVal, env)
		}
		return true
	case "Err":
		res, ok := v.(*object.Result)
		if !ok || res.IsOk() {
			return false
		}
		if len(p.Fields) == 1 {
			return ip.bindPattern(p.Fields[0], res.ErrVal, env)
		}
		return true
	}
	variant, ok := v.(*object.Variant)
	if !ok || variant.Name != p.Variant {
		return false
	}
	if p.Enum != "" && variant.EnumName != p.Enum {
		return false
	}
	if len(p.Fields) != len(variant.Fields) {
		return false
	}
	for i, sub := range p.Fields {
		if !ip.bindPattern(sub, variant.Fields[i], env) {
			return false
		}
	}
	return true
}

func litMatches(lit interface{}, v object.Value) bool {
	switch lv := lit.(type) {
	case int64:
		iv, ok := v.(object.Int)
		return ok && int64(iv) == lv
	case float64:
		fv, ok := v.(object.Float)
		return ok && float64(fv) == lv
	case bool:
		bv, ok := v.(object.Bool)
		return ok && bool(bv) == lv
	case string:
		tv, ok := v.(object.Text)
		return ok && string(tv) == lv
	default:
		return false
	}
}

func (ip *Interp) evalMatch(n *ast.MatchExpr, env *object.Environment) (object.Value, error) {
	subject, err := ip.Eval(n.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		env.Push()
		if ip.bindPattern(arm.Pattern, subject, env) {
			if arm.Guard != nil {
				g, err := ip.Eval(arm.Guard, env)
				if err != nil {
					env.Pop()
					return nil, err
				}
				if b, ok := g.(object.Bool); !ok || !bool(b) {
					env.Pop()
					continue
				}
			}
			v, err := ip.Eval(arm.Body, env)
			env.Pop()
			return v, err
		}
		env.Pop()
	}
	return nil, rtErr(diagnostics.ErrMatchFailure, n.SpanV, "no match arm matched value %s", subject)
}
