package interp

import (
	"testing"

	"github.com/astra-lang/astra/internal/effects"
	"github.com/astra-lang/astra/internal/object"
	"github.com/astra-lang/astra/internal/parser"
)

func evalMain(t *testing.T, src string) (object.Value, error) {
	t.Helper()
	return evalMainWithCaps(t, src, nil)
}

func evalMainWithCaps(t *testing.T, src string, caps *effects.Capabilities) (object.Value, error) {
	t.Helper()
	mod, err := parser.ParseSource(src, "test.astra")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ip := New(mod.Items, caps)
	main, ok := ip.Functions["main"]
	if !ok {
		t.Fatalf("source has no main function")
	}
	env := object.NewEnvironment()
	env.Push()
	closure := ip.closureFromDef(main, env)
	return ip.callClosure(closure, nil, main.SpanV)
}

// mockConsole records calls instead of writing to stdio.
type mockConsole struct{ lines []string }

func (m *mockConsole) Print(text string)       {}
func (m *mockConsole) Println(text string)     { m.lines = append(m.lines, text) }
func (m *mockConsole) ReadLine() (string, bool) { return "", false }

// TestBareCapabilityMethodCallDispatches is spec §8 scenario 5, reached
// through the plain `Console.println(...)` syntax (no `perform`
// keyword) -- evalMethodCall must route a bare-identifier Console
// receiver through Caps.Dispatch rather than trying to resolve Console
// as an ordinary variable.
func TestBareCapabilityMethodCallDispatches(t *testing.T) {
	console := &mockConsole{}
	caps := &effects.Capabilities{Console: console}
	_, err := evalMainWithCaps(t, `fn main() -> Unit {
  Console.println("hi")
}`, caps)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	if len(console.lines) != 1 || console.lines[0] != "hi" {
		t.Errorf("expected the mock console to record [\"hi\"], got %v", console.lines)
	}
}

// TestHigherOrderEvaluation is spec §8 scenario 4.
func TestHigherOrderEvaluation(t *testing.T) {
	src := `fn main() -> Int {
  [1, 2, 3].map(fn(x) x + 1).fold(0, fn(a, b) a + b)
}`
	got, err := evalMain(t, src)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	if !object.Equal(got, object.Int(9)) {
		t.Errorf("got %v, want 9", got)
	}
}

func TestListFilterAndLen(t *testing.T) {
	src := `fn main() -> Int {
  [1, 2, 3, 4, 5, 6].filter(fn(x) x % 2 == 0).len()
}`
	got, err := evalMain(t, src)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	if !object.Equal(got, object.Int(3)) {
		t.Errorf("got %v, want 3", got)
	}
}

func TestOptionUnwrapOr(t *testing.T) {
	src := `fn main() -> Int {
  None.unwrap_or(42)
}`
	got, err := evalMain(t, src)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	if !object.Equal(got, object.Int(42)) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestMatchExhaustiveEvaluation(t *testing.T) {
	src := `fn main() -> Text {
  match Some(1) {
    Some(x) => "got it",
    None => "nothing",
  }
}`
	got, err := evalMain(t, src)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	if !object.Equal(got, object.Text("got it")) {
		t.Errorf("got %v, want %q", got, "got it")
	}
}

func TestDivisionByZeroRuntimeError(t *testing.T) {
	_, err := evalMain(t, `fn main() -> Int { 1 / 0 }`)
	if err == nil {
		t.Fatalf("expected a division-by-zero runtime error")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if rerr.Code != "E4003" {
		t.Errorf("Code = %q, want E4003", rerr.Code)
	}
}

func TestHoleRaisesRuntimeError(t *testing.T) {
	_, err := evalMain(t, `fn main() -> Int { ??? }`)
	if err == nil {
		t.Fatalf("expected a hole runtime error")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Code != "E4013" {
		t.Fatalf("expected *RuntimeError E4013, got %#v", err)
	}
}

func TestEarlyReturnPropagatesNoneFromTry(t *testing.T) {
	src := `fn inner() -> Option[Int] {
  None
}

fn main() -> Option[Int] {
  let v = inner()?
  Some(v)
}`
	got, err := evalMain(t, src)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	opt, ok := got.(*object.Option)
	if !ok || opt.IsSome() {
		t.Errorf("expected None from early-return propagation, got %v", got)
	}
}
