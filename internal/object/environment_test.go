package object

import "testing"

// TestEnvironmentPushPopRestoresLookup exercises the spec §8 invariant:
// after push_scope; define(x,v); pop_scope, lookup(x) returns whatever
// it returned before push_scope.
func TestEnvironmentPushPopRestoresLookup(t *testing.T) {
	env := NewEnvironment()
	_, before := env.Get("x")
	if before {
		t.Fatalf("x should be unbound before any definition")
	}

	env.Push()
	env.Define("x", Int(1))
	if v, ok := env.Get("x"); !ok || !Equal(v, Int(1)) {
		t.Fatalf("x should resolve to 1 inside the pushed scope")
	}
	env.Pop()

	_, after := env.Get("x")
	if after != before {
		t.Errorf("lookup(x) after pop = %v, want %v (same as before push)", after, before)
	}
}

func TestEnvironmentInnermostShadows(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Int(1))
	env.Push()
	env.Define("x", Int(2))
	if v, _ := env.Get("x"); !Equal(v, Int(2)) {
		t.Errorf("innermost binding should shadow outer: got %v", v)
	}
	env.Pop()
	if v, _ := env.Get("x"); !Equal(v, Int(1)) {
		t.Errorf("after pop, outer binding should be visible again: got %v", v)
	}
}

func TestEnvironmentBottomScopeNeverPopped(t *testing.T) {
	env := NewEnvironment()
	env.Define("g", Int(99))
	for i := 0; i < 3; i++ {
		env.Pop()
	}
	if v, ok := env.Get("g"); !ok || !Equal(v, Int(99)) {
		t.Errorf("bottom scope must survive extra Pop calls: got %v, %v", v, ok)
	}
}

func TestEnvironmentAssignUpdatesNearestScope(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Int(1))
	env.Push()
	if ok := env.Assign("x", Int(42)); !ok {
		t.Fatalf("Assign should find x in the outer scope")
	}
	if v, _ := env.Get("x"); !Equal(v, Int(42)) {
		t.Errorf("Assign should have mutated the outer binding: got %v", v)
	}
	if ok := env.Assign("never_defined", Int(1)); ok {
		t.Errorf("Assign on an unbound name should report false")
	}
}

func TestEnvironmentSameScopeRedefinitionReplaces(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Int(1))
	env.Define("x", Int(2))
	if v, _ := env.Get("x"); !Equal(v, Int(2)) {
		t.Errorf("same-scope redefinition should replace: got %v", v)
	}
}

func TestEnvironmentChildFlattensCapture(t *testing.T) {
	env := NewEnvironment()
	env.Define("g", Int(1))
	env.Push()
	env.Define("l", Int(2))
	child := env.Child()
	if v, ok := child.Get("g"); !ok || !Equal(v, Int(1)) {
		t.Errorf("Child() should capture outer bindings: got %v,%v", v, ok)
	}
	if v, ok := child.Get("l"); !ok || !Equal(v, Int(2)) {
		t.Errorf("Child() should capture inner bindings: got %v,%v", v, ok)
	}
	child.Define("g", Int(999))
	if v, _ := env.Get("g"); !Equal(v, Int(1)) {
		t.Errorf("mutating the child must not affect the parent environment: got %v", v)
	}
}
