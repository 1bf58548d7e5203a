package types

// Subst is a union-find substitution from type-variable id to a bound
// type, plus a fresh-variable counter. Grounded directly on
// original_source/src/typechecker/substitution.rs's `Substitution`.
type Subst struct {
	bindings map[int]Type
	nextVar  int
}

// NewSubst returns an empty substitution.
func NewSubst() *Subst {
	return &Subst{bindings: make(map[int]Type)}
}

// FreshVar mints a unique TVar.
func (s *Subst) FreshVar() TVar {
	id := s.nextVar
	s.nextVar++
	return TVar{ID: id}
}

// Resolve chases Var -> Var -> ... to a concrete type or an unresolved Var.
// Idempotent: Resolve(Resolve(t)) == Resolve(t).
func (s *Subst) Resolve(t Type) Type {
	v, ok := t.(TVar)
	if !ok {
		return t
	}
	if bound, ok := s.bindings[v.ID]; ok {
		return s.Resolve(bound)
	}
	return t
}

// Apply deep-substitutes every type variable in t with its resolved type.
func (s *Subst) Apply(t Type) Type {
	switch tt := t.(type) {
	case TVar:
		if bound, ok := s.bindings[tt.ID]; ok {
			return s.Apply(bound)
		}
		return tt
	case TOption:
		return TOption{Elem: s.Apply(tt.Elem)}
	case TResult:
		return TResult{Ok: s.Apply(tt.Ok), Err: s.Apply(tt.Err)}
	case TList:
		return TList{Elem: s.Apply(tt.Elem)}
	case TTuple:
		elems := make([]Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = s.Apply(e)
		}
		return TTuple{Elems: elems}
	case TRecord:
		fields := make([]RecordField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = RecordField{Name: f.Name, Type: s.Apply(f.Type)}
		}
		return TRecord{Fields: fields}
	case TFunc:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = s.Apply(p)
		}
		return TFunc{Params: params, Ret: s.Apply(tt.Ret), Effects: tt.Effects}
	case TNamed:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = s.Apply(a)
		}
		return TNamed{Name: tt.Name, Args: args}
	default:
		return t
	}
}

// bind records id -> t in the substitution. It performs no occurs check
// itself; Unify runs one before calling it.
func (s *Subst) bind(id int, t Type) {
	s.bindings[id] = t
}

// occursIn reports whether the resolved type variable `id` appears
// anywhere inside ty.
func (s *Subst) occursIn(id int, ty Type) bool {
	ty = s.Resolve(ty)
	switch t := ty.(type) {
	case TVar:
		return t.ID == id
	case TOption:
		return s.occursIn(id, t.Elem)
	case TList:
		return s.occursIn(id, t.Elem)
	case TResult:
		return s.occursIn(id, t.Ok) || s.occursIn(id, t.Err)
	case TTuple:
		for _, e := range t.Elems {
			if s.occursIn(id, e) {
				return true
			}
		}
		return false
	case TRecord:
		for _, f := range t.Fields {
			if s.occursIn(id, f.Type) {
				return true
			}
		}
		return false
	case TFunc:
		for _, p := range t.Params {
			if s.occursIn(id, p) {
				return true
			}
		}
		return s.occursIn(id, t.Ret)
	case TNamed:
		for _, a := range t.Args {
			if s.occursIn(id, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Instantiate walks a type, replacing every TypeParam with a fresh
// variable, deduplicated per name within this one instantiation via
// paramMap (so `T` always maps to the same fresh var within one call).
func (s *Subst) Instantiate(t Type, paramMap map[string]Type) Type {
	switch tt := t.(type) {
	case TTypeParam:
		if existing, ok := paramMap[tt.Name]; ok {
			return existing
		}
		fresh := s.FreshVar()
		paramMap[tt.Name] = fresh
		return fresh
	case TOption:
		return TOption{Elem: s.Instantiate(tt.Elem, paramMap)}
	case TResult:
		return TResult{Ok: s.Instantiate(tt.Ok, paramMap), Err: s.Instantiate(tt.Err, paramMap)}
	case TList:
		return TList{Elem: s.Instantiate(tt.Elem, paramMap)}
	case TTuple:
		elems := make([]Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = s.Instantiate(e, paramMap)
		}
		return TTuple{Elems: elems}
	case TRecord:
		fields := make([]RecordField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = RecordField{Name: f.Name, Type: s.Instantiate(f.Type, paramMap)}
		}
		return TRecord{Fields: fields}
	case TFunc:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = s.Instantiate(p, paramMap)
		}
		return TFunc{Params: params, Ret: s.Instantiate(tt.Ret, paramMap), Effects: tt.Effects}
	case TNamed:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = s.Instantiate(a, paramMap)
		}
		return TNamed{Name: tt.Name, Args: args}
	default:
		return t
	}
}

// InstantiateScheme instantiates a generic function scheme at a call
// site, minting one fresh variable per declared type parameter and
// returning the instantiated TFunc. The fresh vars are local to this
// call; they are never persisted back into the scheme.
func (s *Subst) InstantiateScheme(sc Scheme) TFunc {
	paramMap := make(map[string]Type, len(sc.TypeParams))
	for _, name := range sc.TypeParams {
		paramMap[name] = s.FreshVar()
	}
	return s.Instantiate(sc.Type, paramMap).(TFunc)
}
