// Built-in method dispatch (spec component I): List/Text/Map/Set/
// Option/Result/Tuple method tables, keyed by receiver kind then method
// name. Grounded on original_source/src/interpreter/builtins.rs's
// per-kind method-name match arms, rendered in Go as a type switch on
// the receiver followed by a switch on the method name.
package interp

import (
	"strings"

	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/object"
	"github.com/astra-lang/astra/internal/source"
)

func (ip *Interp) dispatchMethod(recv object.Value, name string, args []object.Value, span source.Span) (object.Value, error) {
	if name == "to_json" {
		return object.Text(jsonStringify(recv)), nil
	}
	if name == "to_yaml" {
		out, err := yamlStringify(recv)
		if err != nil {
			return object.Err(object.Text(err.Error())), nil
		}
		return object.Ok(object.Text(out)), nil
	}
	switch r := recv.(type) {
	case *object.List:
		return ip.listMethod(r, name, args, span)
	case object.Text:
		return textMethod(r, name, args, span)
	case *object.Map:
		return mapMethod(r, name, args, span)
	case *object.Set:
		return setMethod(r, name, args, span)
	case *object.Option:
		return ip.optionMethod(r, name, args, span)
	case *object.Result:
		return ip.resultMethod(r, name, args, span)
	case *object.Tuple:
		return tupleMethod(r, name, args, span)
	case object.Int, object.Float:
		return numberMethod(r, name, args, span)
	case *object.Record:
		if fn, ok := r.Fields[name]; ok {
			if c, ok := fn.(*object.Closure); ok {
				return ip.callClosure(c, args, span)
			}
		}
		return nil, rtErr(diagnostics.ErrUnknownMethod, span, "record %s has no method %q", r.TypeName, name)
	default:
		return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "%s has no method %q", recv.Kind(), name)
	}
}

func argErr(span source.Span, method string, want, got int) error {
	return rtErr(diagnostics.ErrArityMismatch, span, "%s expects %d argument(s), got %d", method, want, got)
}

func (ip *Interp) callFn(fn object.Value, args []object.Value, span source.Span) (object.Value, error) {
	c, ok := fn.(*object.Closure)
	if !ok {
		vc, ok := fn.(*object.VariantConstructor)
		if ok {
			return &object.Variant{EnumName: vc.EnumName, Name: vc.Name, Fields: args}, nil
		}
		return nil, rtErr(diagnostics.ErrNotCallable, span, "expected a function argument, got %s", fn.Kind())
	}
	return ip.callClosure(c, args, span)
}

// ---- List ------------------------------------------------------------

func (ip *Interp) listMethod(l *object.List, name string, args []object.Value, span source.Span) (object.Value, error) {
	switch name {
	case "length", "len":
		return object.Int(len(l.Elems)), nil
	case "is_empty":
		return object.Bool(len(l.Elems) == 0), nil
	case "push", "append":
		if len(args) != 1 {
			return nil, argErr(span, "push", 1, len(args))
		}
		l.Elems = append(l.Elems, args[0])
		return l, nil
	case "pop":
		if len(l.Elems) == 0 {
			return object.None(), nil
		}
		last := l.Elems[len(l.Elems)-1]
		l.Elems = l.Elems[:len(l.Elems)-1]
		return object.Some(last), nil
	case "head":
		if len(l.Elems) == 0 {
			return object.None(), nil
		}
		return object.Some(l.Elems[0]), nil
	case "last":
		if len(l.Elems) == 0 {
			return object.None(), nil
		}
		return object.Some(l.Elems[len(l.Elems)-1]), nil
	case "tail":
		if len(l.Elems) == 0 {
			return object.NewList(nil), nil
		}
		return object.NewList(append([]object.Value(nil), l.Elems[1:]...)), nil
	case "take":
		if len(args) != 1 {
			return nil, argErr(span, "take", 1, len(args))
		}
		n, ok := args[0].(object.Int)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "take expects an Int")
		}
		f, t := clampRange(0, int(n), len(l.Elems))
		return object.NewList(append([]object.Value(nil), l.Elems[f:t]...)), nil
	case "drop":
		if len(args) != 1 {
			return nil, argErr(span, "drop", 1, len(args))
		}
		n, ok := args[0].(object.Int)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "drop expects an Int")
		}
		f, t := clampRange(int(n), len(l.Elems), len(l.Elems))
		return object.NewList(append([]object.Value(nil), l.Elems[f:t]...)), nil
	case "enumerate":
		out := make([]object.Value, len(l.Elems))
		for i, e := range l.Elems {
			out[i] = &object.Tuple{Elems: []object.Value{object.Int(i), e}}
		}
		return object.NewList(out), nil
	case "zip":
		if len(args) != 1 {
			return nil, argErr(span, "zip", 1, len(args))
		}
		other, ok := args[0].(*object.List)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "zip expects a List")
		}
		n := len(l.Elems)
		if len(other.Elems) < n {
			n = len(other.Elems)
		}
		out := make([]object.Value, n)
		for i := 0; i < n; i++ {
			out[i] = &object.Tuple{Elems: []object.Value{l.Elems[i], other.Elems[i]}}
		}
		return object.NewList(out), nil
	case "get":
		if len(args) != 1 {
			return nil, argErr(span, "get", 1, len(args))
		}
		i, ok := args[0].(object.Int)
		if !ok || int(i) < 0 || int(i) >= len(l.Elems) {
			return object.None(), nil
		}
		return object.Some(l.Elems[i]), nil
	case "contains":
		if len(args) != 1 {
			return nil, argErr(span, "contains", 1, len(args))
		}
		for _, e := range l.Elems {
			if object.Equal(e, args[0]) {
				return object.Bool(true), nil
			}
		}
		return object.Bool(false), nil
	case "reverse":
		out := make([]object.Value, len(l.Elems))
		for i, e := range l.Elems {
			out[len(out)-1-i] = e
		}
		return object.NewList(out), nil
	case "sort":
		out := append([]object.Value(nil), l.Elems...)
		object.SortValues(out)
		return object.NewList(out), nil
	case "map":
		if len(args) != 1 {
			return nil, argErr(span, "map", 1, len(args))
		}
		out := make([]object.Value, len(l.Elems))
		for i, e := range l.Elems {
			v, err := ip.callFn(args[0], []object.Value{e}, span)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return object.NewList(out), nil
	case "filter":
		if len(args) != 1 {
			return nil, argErr(span, "filter", 1, len(args))
		}
		var out []object.Value
		for _, e := range l.Elems {
			v, err := ip.callFn(args[0], []object.Value{e}, span)
			if err != nil {
				return nil, err
			}
			if b, ok := v.(object.Bool); ok && bool(b) {
				out = append(out, e)
			}
		}
		return object.NewList(out), nil
	case "fold", "reduce":
		if len(args) != 2 {
			return nil, argErr(span, "fold", 2, len(args))
		}
		acc := args[0]
		for _, e := range l.Elems {
			v, err := ip.callFn(args[1], []object.Value{acc, e}, span)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	case "each":
		if len(args) != 1 {
			return nil, argErr(span, "each", 1, len(args))
		}
		for _, e := range l.Elems {
			if _, err := ip.callFn(args[0], []object.Value{e}, span); err != nil {
				return nil, err
			}
		}
		return object.Unit{}, nil
	case "find":
		if len(args) != 1 {
			return nil, argErr(span, "find", 1, len(args))
		}
		for _, e := range l.Elems {
			v, err := ip.callFn(args[0], []object.Value{e}, span)
			if err != nil {
				return nil, err
			}
			if b, ok := v.(object.Bool); ok && bool(b) {
				return object.Some(e), nil
			}
		}
		return object.None(), nil
	case "any":
		if len(args) != 1 {
			return nil, argErr(span, "any", 1, len(args))
		}
		for _, e := range l.Elems {
			v, err := ip.callFn(args[0], []object.Value{e}, span)
			if err != nil {
				return nil, err
			}
			if b, ok := v.(object.Bool); ok && bool(b) {
				return object.Bool(true), nil
			}
		}
		return object.Bool(false), nil
	case "all":
		if len(args) != 1 {
			return nil, argErr(span, "all", 1, len(args))
		}
		for _, e := range l.Elems {
			v, err := ip.callFn(args[0], []object.Value{e}, span)
			if err != nil {
				return nil, err
			}
			if b, ok := v.(object.Bool); !ok || !bool(b) {
				return object.Bool(false), nil
			}
		}
		return object.Bool(true), nil
	case "concat":
		if len(args) != 1 {
			return nil, argErr(span, "concat", 1, len(args))
		}
		other, ok := args[0].(*object.List)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "concat expects a List")
		}
		out := append(append([]object.Value(nil), l.Elems...), other.Elems...)
		return object.NewList(out), nil
	case "slice":
		if len(args) != 2 {
			return nil, argErr(span, "slice", 2, len(args))
		}
		from, ok1 := args[0].(object.Int)
		to, ok2 := args[1].(object.Int)
		if !ok1 || !ok2 {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "slice bounds must be Int")
		}
		f, t := clampRange(int(from), int(to), len(l.Elems))
		return object.NewList(append([]object.Value(nil), l.Elems[f:t]...)), nil
	case "join":
		if len(args) != 1 {
			return nil, argErr(span, "join", 1, len(args))
		}
		sep, ok := args[0].(object.Text)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "join separator must be Text")
		}
		parts := make([]string, len(l.Elems))
		for i, e := range l.Elems {
			parts[i] = DisplayString(e)
		}
		return object.Text(strings.Join(parts, string(sep))), nil
	case "to_set":
		s := object.NewSet()
		for _, e := range l.Elems {
			s.Add(e)
		}
		return s, nil
	case "unique":
		s := object.NewSet()
		var out []object.Value
		for _, e := range l.Elems {
			if s.Add(e) {
				out = append(out, e)
			}
		}
		return object.NewList(out), nil
	case "flat_map":
		if len(args) != 1 {
			return nil, argErr(span, "flat_map", 1, len(args))
		}
		var out []object.Value
		for _, e := range l.Elems {
			v, err := ip.callFn(args[0], []object.Value{e}, span)
			if err != nil {
				return nil, err
			}
			inner, ok := v.(*object.List)
			if !ok {
				return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "flat_map callback must return a List")
			}
			out = append(out, inner.Elems...)
		}
		return object.NewList(out), nil
	case "to_text":
		return object.Text(l.String()), nil
	default:
		return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "List has no method %q", name)
	}
}

func clampRange(from, to, length int) (int, int) {
	if from < 0 {
		from = 0
	}
	if to > length {
		to = length
	}
	if from > to {
		from = to
	}
	return from, to
}

// ---- Tuple -------------------------------------------------------------

func tupleMethod(t *object.Tuple, name string, args []object.Value, span source.Span) (object.Value, error) {
	switch name {
	case "length", "len":
		return object.Int(len(t.Elems)), nil
	case "to_text":
		return object.Text(t.String()), nil
	default:
		return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "Tuple has no method %q", name)
	}
}

// ---- Option --------------------------------------------------------------

func (ip *Interp) optionMethod(o *object.Option, name string, args []object.Value, span source.Span) (object.Value, error) {
	switch name {
	case "is_some":
		return object.Bool(o.IsSome()), nil
	case "is_none":
		return object.Bool(!o.IsSome()), nil
	case "unwrap":
		if !o.IsSome() {
			return nil, rtErr(diagnostics.ErrUnwrapNone, span, "called unwrap on None")
		}
		return o.Value, nil
	case "unwrap_or":
		if len(args) != 1 {
			return nil, argErr(span, "unwrap_or", 1, len(args))
		}
		if o.IsSome() {
			return o.Value, nil
		}
		return args[0], nil
	case "map":
		if len(args) != 1 {
			return nil, argErr(span, "map", 1, len(args))
		}
		if !o.IsSome() {
			return o, nil
		}
		v, err := ip.callFn(args[0], []object.Value{o.Value}, span)
		if err != nil {
			return nil, err
		}
		return object.Some(v), nil
	case "and_then":
		if len(args) != 1 {
			return nil, argErr(span, "and_then", 1, len(args))
		}
		if !o.IsSome() {
			return o, nil
		}
		return ip.callFn(args[0], []object.Value{o.Value}, span)
	default:
		return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "Option has no method %q", name)
	}
}

// ---- Result ----------------------------------------------------------

func (ip *Interp) resultMethod(r *object.Result, name string, args []object.Value, span source.Span) (object.Value, error) {
	switch name {
	case "is_ok":
		return object.Bool(r.IsOk()), nil
	case "is_err":
		return object.Bool(!r.IsOk()), nil
	case "unwrap":
		if !r.IsOk() {
			return nil, rtErr(diagnostics.ErrUnwrapErr, span, "called unwrap on Err(%s)", r.ErrVal)
		}
		return r.OkVal, nil
	case "unwrap_or":
		if len(args) != 1 {
			return nil, argErr(span, "unwrap_or", 1, len(args))
		}
		if r.IsOk() {
			return r.OkVal, nil
		}
		return args[0], nil
	case "map":
		if len(args) != 1 {
			return nil, argErr(span, "map", 1, len(args))
		}
		if !r.IsOk() {
			return r, nil
		}
		v, err := ip.callFn(args[0], []object.Value{r.OkVal}, span)
		if err != nil {
			return nil, err
		}
		return object.Ok(v), nil
	case "map_err":
		if len(args) != 1 {
			return nil, argErr(span, "map_err", 1, len(args))
		}
		if r.IsOk() {
			return r, nil
		}
		v, err := ip.callFn(args[0], []object.Value{r.ErrVal}, span)
		if err != nil {
			return nil, err
		}
		return object.Err(v), nil
	case "and_then":
		if len(args) != 1 {
			return nil, argErr(span, "and_then", 1, len(args))
		}
		if !r.IsOk() {
			return r, nil
		}
		return ip.callFn(args[0], []object.Value{r.OkVal}, span)
	default:
		return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "Result has no method %q", name)
	}
}

// ---- Map ---------------------------------------------------------------

func mapMethod(m *object.Map, name string, args []object.Value, span source.Span) (object.Value, error) {
	switch name {
	case "length", "len":
		return object.Int(m.Len()), nil
	case "is_empty":
		return object.Bool(m.Len() == 0), nil
	case "get":
		if len(args) != 1 {
			return nil, argErr(span, "get", 1, len(args))
		}
		if v, ok := m.Get(args[0]); ok {
			return object.Some(v), nil
		}
		return object.None(), nil
	case "set", "insert":
		if len(args) != 2 {
			return nil, argErr(span, "set", 2, len(args))
		}
		m.Set(args[0], args[1])
		return m, nil
	case "has", "contains_key":
		if len(args) != 1 {
			return nil, argErr(span, "has", 1, len(args))
		}
		_, ok := m.Get(args[0])
		return object.Bool(ok), nil
	case "remove", "delete":
		if len(args) != 1 {
			return nil, argErr(span, "remove", 1, len(args))
		}
		return object.Bool(m.Delete(args[0])), nil
	case "keys":
		return object.NewList(m.Keys()), nil
	case "values":
		entries := m.Entries()
		out := make([]object.Value, len(entries))
		for i, e := range entries {
			out[i] = e[1]
		}
		return object.NewList(out), nil
	case "entries":
		entries := m.Entries()
		out := make([]object.Value, len(entries))
		for i, e := range entries {
			out[i] = &object.Tuple{Elems: []object.Value{e[0], e[1]}}
		}
		return object.NewList(out), nil
	default:
		return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "Map has no method %q", name)
	}
}

// ---- Set ---------------------------------------------------------------

func setMethod(s *object.Set, name string, args []object.Value, span source.Span) (object.Value, error) {
	switch name {
	case "length", "len":
		return object.Int(s.Len()), nil
	case "is_empty":
		return object.Bool(s.Len() == 0), nil
	case "add", "insert":
		if len(args) != 1 {
			return nil, argErr(span, "add", 1, len(args))
		}
		return object.Bool(s.Add(args[0])), nil
	case "contains", "has":
		if len(args) != 1 {
			return nil, argErr(span, "contains", 1, len(args))
		}
		return object.Bool(s.Contains(args[0])), nil
	case "remove", "delete":
		if len(args) != 1 {
			return nil, argErr(span, "remove", 1, len(args))
		}
		return object.Bool(s.Remove(args[0])), nil
	case "to_list":
		return object.NewList(s.Elems()), nil
	case "union":
		if len(args) != 1 {
			return nil, argErr(span, "union", 1, len(args))
		}
		other, ok := args[0].(*object.Set)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "union expects a Set")
		}
		out := object.NewSet()
		for _, e := range s.Elems() {
			out.Add(e)
		}
		for _, e := range other.Elems() {
			out.Add(e)
		}
		return out, nil
	case "intersection":
		if len(args) != 1 {
			return nil, argErr(span, "intersection", 1, len(args))
		}
		other, ok := args[0].(*object.Set)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "intersection expects a Set")
		}
		out := object.NewSet()
		for _, e := range s.Elems() {
			if other.Contains(e) {
				out.Add(e)
			}
		}
		return out, nil
	case "difference":
		if len(args) != 1 {
			return nil, argErr(span, "difference", 1, len(args))
		}
		other, ok := args[0].(*object.Set)
		if !ok {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "difference expects a Set")
		}
		out := object.NewSet()
		for _, e := range s.Elems() {
			if !other.Contains(e) {
				out.Add(e)
			}
		}
		return out, nil
	default:
		return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "Set has no method %q", name)
	}
}

// ---- Number ------------------------------------------------------------

func numberMethod(v object.Value, name string, args []object.Value, span source.Span) (object.Value, error) {
	switch name {
	case "to_text":
		return object.Text(v.String()), nil
	case "abs":
		switch n := v.(type) {
		case object.Int:
			if n < 0 {
				return -n, nil
			}
			return n, nil
		case object.Float:
			if n < 0 {
				return -n, nil
			}
			return n, nil
		}
	}
	return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "%s has no method %q", v.Kind(), name)
}
