package main

import (
	"fmt"
	"os"

	"github.com/astra-lang/astra/internal/effects"
	"github.com/astra-lang/astra/internal/interp"
)

// runRun type-checks then evaluates a single file's module, calling
// `main` if present (passing the remaining CLI args when main takes
// one parameter), per spec §4.H's
// evaluate_module(ast, capabilities) entry point.
func runRun(path string, args []string, seed int64, jsonOut bool) int {
	result, err := loadAndCheck(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 1
	}
	if errs, _ := countBySeverity(result.diagnostics); errs > 0 {
		printDiagnostics(path, result.diagnostics, jsonOut)
		return 1
	}

	caps := effects.New()
	caps.Rand = effects.NewMathRand(seed)

	if err := interp.RunModule(result.mod, caps, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
