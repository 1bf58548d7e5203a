package types

import "fmt"

// UnifyError reports incompatible types during unification.
type UnifyError struct {
	Left, Right Type
	Reason      string
}

func (e *UnifyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}

// Unify attempts to extend s so that Apply(a) == Apply(b), following the
// algorithm of spec.md §4.D exactly (and original_source's
// Substitution::unify):
//
//  1. resolve both sides
//  2. Unknown or TypeParam on either side: succeed trivially
//  3. equal: succeed
//  4. Var(id) vs T: occurs-check, then bind
//  5. structural recursion, matching arity/shape
//
// On success s is mutated in place; on failure s is left unchanged.
func (s *Subst) Unify(a, b Type) (err error) {
	a = s.Resolve(a)
	b = s.Resolve(b)

	if _, ok := a.(TUnknown); ok {
		return nil
	}
	if _, ok := b.(TUnknown); ok {
		return nil
	}
	if _, ok := a.(TTypeParam); ok {
		return nil
	}
	if _, ok := b.(TTypeParam); ok {
		return nil
	}
	if typesEqualShallow(a, b) {
		return nil
	}

	if va, ok := a.(TVar); ok {
		if s.occursIn(va.ID, b) {
			return &UnifyError{Left: a, Right: b, Reason: "occurs check failed"}
		}
		s.bind(va.ID, b)
		return nil
	}
	if vb, ok := b.(TVar); ok {
		if s.occursIn(vb.ID, a) {
			return &UnifyError{Left: a, Right: b, Reason: "occurs check failed"}
		}
		s.bind(vb.ID, a)
		return nil
	}

	// A structural case can bind variables before a later part fails;
	// restore the bindings held on entry when that happens.
	saved := make(map[int]Type, len(s.bindings))
	for id, t := range s.bindings {
		saved[id] = t
	}
	defer func() {
		if err != nil {
			s.bindings = saved
		}
	}()

	switch at := a.(type) {
	case TOption:
		bt, ok := b.(TOption)
		if !ok {
			return &UnifyError{Left: a, Right: b}
		}
		return s.Unify(at.Elem, bt.Elem)
	case TResult:
		bt, ok := b.(TResult)
		if !ok {
			return &UnifyError{Left: a, Right: b}
		}
		if err := s.Unify(at.Ok, bt.Ok); err != nil {
			return err
		}
		return s.Unify(at.Err, bt.Err)
	case TList:
		bt, ok := b.(TList)
		if !ok {
			return &UnifyError{Left: a, Right: b}
		}
		return s.Unify(at.Elem, bt.Elem)
	case TTuple:
		bt, ok := b.(TTuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return &UnifyError{Left: a, Right: b, Reason: "arity mismatch"}
		}
		for i := range at.Elems {
			if err := s.Unify(at.Elems[i], bt.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case TRecord:
		bt, ok := b.(TRecord)
		if !ok || len(at.Fields) != len(bt.Fields) {
			return &UnifyError{Left: a, Right: b, Reason: "field count mismatch"}
		}
		for _, f := range at.Fields {
			bty, ok := bt.Field(f.Name)
			if !ok {
				return &UnifyError{Left: a, Right: b, Reason: "missing field " + f.Name}
			}
			if err := s.Unify(f.Type, bty); err != nil {
				return err
			}
		}
		return nil
	case TFunc:
		bt, ok := b.(TFunc)
		if !ok || len(at.Params) != len(bt.Params) {
			return &UnifyError{Left: a, Right: b, Reason: "arity mismatch"}
		}
		for i := range at.Params {
			if err := s.Unify(at.Params[i], bt.Params[i]); err != nil {
				return err
			}
		}
		return s.Unify(at.Ret, bt.Ret)
	case TNamed:
		bt, ok := b.(TNamed)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return &UnifyError{Left: a, Right: b}
		}
		for i := range at.Args {
			if err := s.Unify(at.Args[i], bt.Args[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return &UnifyError{Left: a, Right: b}
	}
}

// typesEqualShallow reports whether a and b are identical for the
// zero-arg primitive variants (Unit/Int/Float/Bool/Text) or identical
// TVar ids; composite types fall through to structural unification even
// when equal so nested Vars still get bound consistently.
func typesEqualShallow(a, b Type) bool {
	switch at := a.(type) {
	case TUnit:
		_, ok := b.(TUnit)
		return ok
	case TInt:
		_, ok := b.(TInt)
		return ok
	case TFloat:
		_, ok := b.(TFloat)
		return ok
	case TBool:
		_, ok := b.(TBool)
		return ok
	case TText:
		_, ok := b.(TText)
		return ok
	case TVar:
		bt, ok := b.(TVar)
		return ok && at.ID == bt.ID
	default:
		return false
	}
}

// OneShotUnify binds a to b when a resolves to a still-unbound type
// variable, and otherwise leaves s as it is, so only the first binding
// seen for a variable is recorded (spec.md §4.E, "Generic
// unification"). It does not recurse into composite types, does not
// bind a variable that appears only on the b side, and performs no
// occurs check.
func OneShotUnify(s *Subst, a, b Type) {
	resolved := s.Resolve(a)
	if v, ok := resolved.(TVar); ok {
		if _, already := s.bindings[v.ID]; !already {
			s.bind(v.ID, b)
		}
	}
}
