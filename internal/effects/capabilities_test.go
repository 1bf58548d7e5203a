package effects

import (
	"errors"
	"testing"

	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/object"
)

// mockConsole records print/println calls instead of writing to stdio,
// matching spec §8 scenario 5 ("a Console capability that records
// calls").
type mockConsole struct {
	printed []string
	lines   []string
}

func (m *mockConsole) Print(text string)   { m.printed = append(m.printed, text) }
func (m *mockConsole) Println(text string) { m.lines = append(m.lines, text) }
func (m *mockConsole) ReadLine() (string, bool) {
	return "", false
}

func noopUserHandler(effect, op string, args []object.Value, env *object.Environment) (object.Value, error) {
	return object.Unit{}, nil
}

// TestDispatchConsoleRecordsCall is spec §8 scenario 5.
func TestDispatchConsoleRecordsCall(t *testing.T) {
	console := &mockConsole{}
	caps := &Capabilities{Console: console}
	got, err := caps.Dispatch("Console", "println", []object.Value{object.Text("hi")}, nil, noopUserHandler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(got, object.Unit{}) {
		t.Errorf("Console.println should return Unit, got %v", got)
	}
	if len(console.lines) != 1 || console.lines[0] != "hi" {
		t.Errorf("expected the mock console to record [\"hi\"], got %v", console.lines)
	}
}

func TestDispatchMissingCapabilityReportsE4004(t *testing.T) {
	caps := &Capabilities{}
	_, err := caps.Dispatch("Console", "println", []object.Value{object.Text("hi")}, nil, noopUserHandler)
	if err == nil {
		t.Fatalf("expected an error when Console capability is unavailable")
	}
	var derr *diagnostics.DiagnosticError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *diagnostics.DiagnosticError, got %T", err)
	}
	if derr.Code != diagnostics.ErrCapabilityMissing {
		t.Errorf("Code = %q, want %q", derr.Code, diagnostics.ErrCapabilityMissing)
	}
}

func TestDispatchUnknownEffectFallsBackToUserHandler(t *testing.T) {
	caps := &Capabilities{}
	called := false
	handler := func(effect, op string, args []object.Value, env *object.Environment) (object.Value, error) {
		called = true
		if effect != "Logger" || op != "warn" {
			t.Errorf("unexpected handler args: effect=%q op=%q", effect, op)
		}
		return object.Unit{}, nil
	}
	_, err := caps.Dispatch("Logger", "warn", []object.Value{object.Text("careful")}, nil, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Errorf("expected the user handler to be invoked for a non-built-in effect")
	}
}

func TestDispatchRandIntIsInclusiveInclusive(t *testing.T) {
	caps := &Capabilities{Rand: NewMathRand(42)}
	for i := 0; i < 50; i++ {
		got, err := caps.Dispatch("Rand", "int", []object.Value{object.Int(1), object.Int(6)}, nil, noopUserHandler)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, ok := got.(object.Int)
		if !ok || n < 1 || n > 6 {
			t.Fatalf("Rand.int(1, 6) produced out-of-range value: %v", got)
		}
	}
}

func TestDispatchEnvGetSessionID(t *testing.T) {
	caps := &Capabilities{Env: NewOSEnv()}
	got, err := caps.Dispatch("Env", "get", []object.Value{object.Text("ASTRA_SESSION_ID")}, nil, noopUserHandler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opt, ok := got.(*object.Option)
	if !ok || !opt.IsSome() {
		t.Fatalf("expected Some(session id), got %v", got)
	}
	if opt.Value.(object.Text) != object.Text(caps.SessionID.String()) {
		t.Errorf("Env.get(ASTRA_SESSION_ID) should answer with the run's own session id, got %v", opt.Value)
	}
}

func TestDispatchUnknownOpReportsError(t *testing.T) {
	caps := &Capabilities{Console: &mockConsole{}}
	_, err := caps.Dispatch("Console", "beep", nil, nil, noopUserHandler)
	if err == nil {
		t.Fatalf("expected an unknown-operation error")
	}
}
