package interp

import (
	"fmt"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/effects"
	"github.com/astra-lang/astra/internal/object"
	"github.com/astra-lang/astra/internal/source"
)

// RunModule evaluates a module's top-level definitions and, if present,
// calls its `main` function, mirroring
// original_source's evaluate_module(ast, capabilities) entry point.
// Grounded on funvibe/funxy's cmd/funxy main.go evaluateModule, which
// populates a module environment from top-level items and then drives
// evaluation from it. args are passed as a List of Text only when main
// declares exactly one parameter; otherwise main is called with none.
func RunModule(mod *ast.Module, caps *effects.Capabilities, args []string) error {
	ip := New(mod.Items, caps)
	env := object.NewEnvironment()
	env.Push()

	main, ok := ip.Functions["main"]
	if !ok {
		return nil
	}
	closure := ip.closureFromDef(main, env)

	var callArgs []object.Value
	if len(main.Params) == 1 {
		elems := make([]object.Value, len(args))
		for i, a := range args {
			elems[i] = object.Text(a)
		}
		callArgs = []object.Value{object.NewList(elems)}
	}
	_, err := ip.callClosure(closure, callArgs, main.SpanV)
	return err
}

// TestResult is the outcome of running one `test` item.
type TestResult struct {
	Name   string
	Passed bool
	Err    error
}

// RunTests evaluates every top-level `test` item in mod, each in its own
// fresh environment so one test's bindings can't leak into another's,
// matching original_source's per-test isolation. Tests are run in
// declaration order for reproducibility.
func RunTests(mod *ast.Module, caps *effects.Capabilities) []TestResult {
	ip := New(mod.Items, caps)
	var results []TestResult
	for _, it := range mod.Items {
		td, ok := it.(*ast.TestDef)
		if !ok {
			continue
		}
		results = append(results, runOneTest(ip, td))
	}
	return results
}

func runOneTest(ip *Interp, td *ast.TestDef) TestResult {
	env := object.NewEnvironment()
	env.Push()
	if td.Using != nil {
		for _, b := range td.Using.Bindings {
			v, err := ip.Eval(b.Value, env)
			if err != nil {
				return TestResult{Name: td.Name, Passed: false, Err: err}
			}
			env.Define(b.Effect, v)
		}
	}
	_, err := ip.evalBlock(td.Body, env)
	if err != nil {
		if s, ok := asSignal(err); ok && s.kind == signalReturn {
			return TestResult{Name: td.Name, Passed: true}
		}
		return TestResult{Name: td.Name, Passed: false, Err: err}
	}
	return TestResult{Name: td.Name, Passed: true}
}

// PrintTestSummary writes a "FAIL" line for each failed test (and an
// "ok" line for each passed test when verbose is set) in test
// declaration order, followed by a pass/fail tally, grounded on funxy's
// evaluator.PrintTestSummary text shape.
func PrintTestSummary(results []TestResult, verbose bool) (passed, failed int) {
	for _, r := range results {
		if r.Passed {
			passed++
			if verbose {
				fmt.Printf("ok   %s\n", r.Name)
			}
		} else {
			failed++
			fmt.Printf("FAIL %s: %v\n", r.Name, r.Err)
		}
	}
	fmt.Printf("%d passed, %d failed\n", passed, failed)
	return passed, failed
}

// CallFunction calls a previously-evaluated function value (a Closure)
// with args, the `call_function(value, args) → value` entry point named
// in spec §5.H — used by the LSP/test runner to invoke a specific
// function without re-running the whole module.
func CallFunction(ip *Interp, fn object.Value, args []object.Value) (object.Value, error) {
	closure, ok := fn.(*object.Closure)
	if !ok {
		return nil, rtErr("E4009", source.Span{}, "value is not callable")
	}
	return ip.callClosure(closure, args, source.Span{})
}
