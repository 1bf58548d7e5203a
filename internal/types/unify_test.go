package types

import "testing"

func TestUnifyPrimitivesSucceed(t *testing.T) {
	s := NewSubst()
	if err := s.Unify(TInt{}, TInt{}); err != nil {
		t.Fatalf("Int/Int should unify: %v", err)
	}
	if err := s.Unify(TBool{}, TInt{}); err == nil {
		t.Fatalf("Bool/Int should not unify")
	}
}

func TestUnifyUnknownAndTypeParamAreTop(t *testing.T) {
	s := NewSubst()
	if err := s.Unify(TUnknown{}, TInt{}); err != nil {
		t.Errorf("Unknown should unify trivially with anything: %v", err)
	}
	if err := s.Unify(TText{}, TUnknown{}); err != nil {
		t.Errorf("Unknown should unify trivially with anything: %v", err)
	}
	if err := s.Unify(TTypeParam{Name: "T"}, TBool{}); err != nil {
		t.Errorf("TypeParam should unify trivially: %v", err)
	}
}

func TestUnifyVarBindsAndResolves(t *testing.T) {
	s := NewSubst()
	v := s.FreshVar()
	if err := s.Unify(v, TInt{}); err != nil {
		t.Fatalf("unify var with Int: %v", err)
	}
	if resolved := s.Resolve(v); resolved != Type(TInt{}) {
		t.Errorf("Resolve(v) = %v, want Int", resolved)
	}
}

func TestUnifyOccursCheckFails(t *testing.T) {
	s := NewSubst()
	v := s.FreshVar()
	list := TList{Elem: v}
	if err := s.Unify(v, list); err == nil {
		t.Fatalf("expected occurs-check failure binding v to List[v]")
	}
	if _, bound := s.bindings[v.ID]; bound {
		t.Errorf("failed unify must not bind the variable")
	}
}

func TestUnifyStructural(t *testing.T) {
	s := NewSubst()
	a := TOption{Elem: TInt{}}
	b := TOption{Elem: TInt{}}
	if err := s.Unify(a, b); err != nil {
		t.Errorf("Option[Int]/Option[Int] should unify: %v", err)
	}

	recA := TRecord{Fields: []RecordField{{Name: "a", Type: TInt{}}, {Name: "b", Type: TText{}}}}
	recB := TRecord{Fields: []RecordField{{Name: "b", Type: TText{}}, {Name: "a", Type: TInt{}}}}
	if err := s.Unify(recA, recB); err != nil {
		t.Errorf("records with same field set (order-insensitive) should unify: %v", err)
	}

	tupA := TTuple{Elems: []Type{TInt{}, TBool{}}}
	tupB := TTuple{Elems: []Type{TInt{}}}
	if err := s.Unify(tupA, tupB); err == nil {
		t.Errorf("tuples of different arity must not unify")
	}

	namedA := TNamed{Name: "Box", Args: []Type{TInt{}}}
	namedB := TNamed{Name: "Box", Args: []Type{TBool{}}}
	if err := s.Unify(namedA, namedB); err == nil {
		t.Errorf("Named args should recurse and fail on mismatch")
	}
}

func TestUnifyFunctionArity(t *testing.T) {
	s := NewSubst()
	f1 := TFunc{Params: []Type{TInt{}}, Ret: TBool{}}
	f2 := TFunc{Params: []Type{TInt{}, TInt{}}, Ret: TBool{}}
	if err := s.Unify(f1, f2); err == nil {
		t.Errorf("functions of different arity must not unify")
	}
}

// ApplyIdempotent verifies apply(s, apply(s, T)) == apply(s, T), per spec §8.
func TestApplyIdempotent(t *testing.T) {
	s := NewSubst()
	v := s.FreshVar()
	if err := s.Unify(v, TInt{}); err != nil {
		t.Fatal(err)
	}
	ty := TList{Elem: v}
	once := s.Apply(ty)
	twice := s.Apply(once)
	if once.String() != twice.String() {
		t.Errorf("Apply not idempotent: once=%v twice=%v", once, twice)
	}
}

func TestInstantiateDedupesPerCall(t *testing.T) {
	s := NewSubst()
	scheme := Scheme{
		TypeParams: []string{"T"},
		Type: TFunc{
			Params: []Type{TTypeParam{Name: "T"}, TTypeParam{Name: "T"}},
			Ret:    TTypeParam{Name: "T"},
		},
	}
	fn := s.InstantiateScheme(scheme)
	p0, ok0 := fn.Params[0].(TVar)
	p1, ok1 := fn.Params[1].(TVar)
	ret, okR := fn.Ret.(TVar)
	if !ok0 || !ok1 || !okR {
		t.Fatalf("expected fresh TVars, got %v %v %v", fn.Params[0], fn.Params[1], fn.Ret)
	}
	if p0.ID != p1.ID || p1.ID != ret.ID {
		t.Errorf("same TypeParam name must map to the same fresh var within one instantiation: %v %v %v", p0, p1, ret)
	}
}

func TestInstantiateFreshAcrossCalls(t *testing.T) {
	s := NewSubst()
	scheme := Scheme{
		TypeParams: []string{"T"},
		Type:       TFunc{Params: []Type{TTypeParam{Name: "T"}}, Ret: TTypeParam{Name: "T"}},
	}
	fn1 := s.InstantiateScheme(scheme)
	fn2 := s.InstantiateScheme(scheme)
	v1 := fn1.Params[0].(TVar)
	v2 := fn2.Params[0].(TVar)
	if v1.ID == v2.ID {
		t.Errorf("separate instantiations must not share fresh vars")
	}
}

func TestOneShotUnifyRecordsFirstBindingOnly(t *testing.T) {
	s := NewSubst()
	v := s.FreshVar()
	OneShotUnify(s, v, TInt{})
	OneShotUnify(s, v, TBool{})
	if resolved := s.Resolve(v); resolved != Type(TInt{}) {
		t.Errorf("OneShotUnify should keep the first binding, got %v", resolved)
	}
}
