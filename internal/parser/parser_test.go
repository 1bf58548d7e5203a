package parser_test

import (
	"testing"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/parser"
)

func TestParseSourceSimpleFunction(t *testing.T) {
	src := `fn add(a: Int, b: Int) -> Int {
  a + b
}`
	mod, err := parser.ParseSource(src, "add.astra")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(mod.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(mod.Items))
	}
	fn, ok := mod.Items[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, got %T", mod.Items[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Errorf("unexpected function shape: name=%q params=%d", fn.Name, len(fn.Params))
	}
}

func TestParseSourceModuleNameFromPath(t *testing.T) {
	mod, err := parser.ParseSource("fn main() { 1 }", "/a/b/hello.astra")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if mod.Name != "hello" {
		t.Errorf("module name = %q, want %q", mod.Name, "hello")
	}
}

func TestParseSourceRecoversAfterSyntaxError(t *testing.T) {
	src := `fn broken( {
}

fn ok() -> Int {
  42
}`
	mod, err := parser.ParseSource(src, "recover.astra")
	if err == nil {
		t.Fatalf("expected a parse error for the malformed first function")
	}
	var found bool
	for _, it := range mod.Items {
		if fn, ok := it.(*ast.FunctionDef); ok && fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Errorf("parser should recover and still parse the second, valid function")
	}
}

func TestParseSpansLieWithinSource(t *testing.T) {
	src := "fn f() -> Int {\n  1 + 2\n}"
	mod, err := parser.ParseSource(src, "spans.astra")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := mod.Items[0].(*ast.FunctionDef)
	sp := fn.Span()
	if sp.Start < 0 || sp.End > len(src) || sp.Start > sp.End {
		t.Errorf("function span out of bounds: %+v", sp)
	}
}

func TestParseMatchExpression(t *testing.T) {
	src := `fn describe(o: Option[Int]) -> Text {
  match o {
    Some(x) => "has value",
    None => "empty",
  }
}`
	mod, err := parser.ParseSource(src, "match.astra")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := mod.Items[0].(*ast.FunctionDef)
	if len(fn.Body.Stmts) == 0 {
		t.Fatalf("expected at least one statement in function body")
	}
}

func TestParseRecordAndEnumDefs(t *testing.T) {
	src := `record Point {
  x: Int,
  y: Int,
}

enum Shape {
  Circle(Float),
  Square(Float),
}`
	mod, err := parser.ParseSource(src, "types.astra")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(mod.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(mod.Items))
	}
	rec, ok := mod.Items[0].(*ast.RecordDef)
	if !ok || rec.Name != "Point" || len(rec.Fields) != 2 {
		t.Errorf("unexpected record shape: %#v", mod.Items[0])
	}
	enum, ok := mod.Items[1].(*ast.EnumDef)
	if !ok || enum.Name != "Shape" || len(enum.Variants) != 2 {
		t.Errorf("unexpected enum shape: %#v", mod.Items[1])
	}
}
