package checker_test

import (
	"strings"
	"testing"

	"github.com/astra-lang/astra/internal/checker"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/parser"
)

func checkSource(t *testing.T, src string) []*diagnostics.DiagnosticError {
	t.Helper()
	mod, err := parser.ParseSource(src, "test.astra")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return checker.CheckModule(mod)
}

func findCode(diags []*diagnostics.DiagnosticError, code string) *diagnostics.DiagnosticError {
	for _, d := range diags {
		if d.Code == code {
			return d
		}
	}
	return nil
}

// TestNonExhaustiveMatch is spec §8 scenario 2.
func TestNonExhaustiveMatch(t *testing.T) {
	src := `fn f(opt: Option[Int]) -> Int {
  match opt {
    Some(x) => x,
  }
}`
	diags := checkSource(t, src)
	d := findCode(diags, diagnostics.ErrNonExhaustiveMatch)
	if d == nil {
		t.Fatalf("expected %s diagnostic, got %v", diagnostics.ErrNonExhaustiveMatch, diags)
	}
	if !strings.Contains(d.Message, "None") {
		t.Errorf("message should mention the missing None arm: %q", d.Message)
	}
}

func TestExhaustiveMatchNoDiagnostic(t *testing.T) {
	src := `fn f(opt: Option[Int]) -> Int {
  match opt {
    Some(x) => x,
    None => 0,
  }
}`
	diags := checkSource(t, src)
	if d := findCode(diags, diagnostics.ErrNonExhaustiveMatch); d != nil {
		t.Errorf("did not expect a non-exhaustive diagnostic: %v", d)
	}
}

// TestUnusedVariable is spec §8 scenario 3.
func TestUnusedVariable(t *testing.T) {
	src := `fn f() -> Int {
  let x = 1
  let _y = 2
  0
}`
	diags := checkSource(t, src)
	var unused []*diagnostics.DiagnosticError
	for _, d := range diags {
		if d.Code == diagnostics.WarnUnusedVariable {
			unused = append(unused, d)
		}
	}
	if len(unused) != 1 {
		t.Fatalf("expected exactly one UNUSED_VARIABLE warning, got %d: %v", len(unused), unused)
	}
	if !strings.Contains(unused[0].Message, "x") {
		t.Errorf("unused-variable warning should name x: %q", unused[0].Message)
	}
}

func TestWildcardMatchWarning(t *testing.T) {
	src := `fn f(opt: Option[Int]) -> Int {
  match opt {
    Some(x) => x,
    _ => 0,
  }
}`
	diags := checkSource(t, src)
	if d := findCode(diags, diagnostics.WarnWildcardMatch); d == nil {
		t.Errorf("expected a WILDCARD_MATCH warning when a bare _ covers a known match-kind, got %v", diags)
	}
}

func TestShadowedBindingWarning(t *testing.T) {
	src := `fn f() -> Int {
  let x = 1
  let x = 2
  x
}`
	diags := checkSource(t, src)
	if d := findCode(diags, diagnostics.WarnShadowedBinding); d == nil {
		t.Errorf("expected a SHADOWED_BINDING warning, got %v", diags)
	}
}

func TestTypeMismatchOnReturn(t *testing.T) {
	src := `fn f() -> Int {
  "not an int"
}`
	diags := checkSource(t, src)
	if d := findCode(diags, diagnostics.ErrTypeMismatch); d == nil {
		t.Errorf("expected a type-mismatch diagnostic on the bad return, got %v", diags)
	}
}

func TestEffectUsedWithoutDeclarationIsError(t *testing.T) {
	src := `fn f() -> Unit {
  Console.println("hi")
}`
	diags := checkSource(t, src)
	if d := findCode(diags, diagnostics.ErrEffectNotDeclared); d == nil {
		t.Errorf("expected an effect-not-declared diagnostic, got %v", diags)
	}
}

func TestEffectDeclaredAndUsedIsClean(t *testing.T) {
	src := `fn f() -> Unit effects(Console) {
  Console.println("hi")
}`
	diags := checkSource(t, src)
	if d := findCode(diags, diagnostics.ErrEffectNotDeclared); d != nil {
		t.Errorf("declared+used effect should not be flagged: %v", d)
	}
}
