package object

// Environment is a stack of binding scopes. The bottom scope (index 0)
// is never popped; Push/Pop give O(1) block-scope entry/exit and lookup
// scans innermost-to-outermost, matching original_source's
// interpreter/environment.rs and funvibe/funxy's
// internal/evaluator/environment.go scope-stack design.
type Environment struct {
	scopes []map[string]Value
}

// NewEnvironment returns an Environment with a single, permanent bottom
// scope.
func NewEnvironment() *Environment {
	return &Environment{scopes: []map[string]Value{make(map[string]Value)}}
}

// Push enters a new, empty innermost scope.
func (e *Environment) Push() {
	e.scopes = append(e.scopes, make(map[string]Value))
}

// Pop discards the innermost scope. Never pops the bottom scope.
func (e *Environment) Pop() {
	if len(e.scopes) > 1 {
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

// Define binds name in the innermost scope, shadowing any outer binding.
func (e *Environment) Define(name string, v Value) {
	e.scopes[len(e.scopes)-1][name] = v
}

// Get looks up name from innermost to outermost scope.
func (e *Environment) Get(name string) (Value, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign updates an existing binding in the nearest scope that defines
// it, reporting false if name is unbound anywhere.
func (e *Environment) Assign(name string, v Value) bool {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i][name]; ok {
			e.scopes[i][name] = v
			return true
		}
	}
	return false
}

// Child returns a fresh Environment sharing no scopes with e but seeded
// with a single bottom scope copied from e's full flattened bindings;
// used to build a closure's captured environment at creation time.
func (e *Environment) Child() *Environment {
	flat := make(map[string]Value)
	for _, scope := range e.scopes {
		for k, v := range scope {
			flat[k] = v
		}
	}
	return &Environment{scopes: []map[string]Value{flat}}
}
