package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/astra-lang/astra/internal/effects"
	"github.com/astra-lang/astra/internal/interp"
)

// runTest type-checks each file then runs all of its `test` items; when
// filter is set, only results whose name contains filter are reported
// and tallied (the other tests still run). Mirrors funxy's
// cmd/funxy test-file loop (per-file header line, then pass/fail tally).
func runTest(files []string, filter string, seed int64, verbose bool) int {
	caps := effects.New()
	caps.Rand = effects.NewMathRand(seed)

	var all []interp.TestResult
	for _, path := range files {
		result, err := loadAndCheck(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			return 1
		}
		if errs, _ := countBySeverity(result.diagnostics); errs > 0 {
			printDiagnostics(path, result.diagnostics, false)
			return 1
		}

		fmt.Printf("\n=== %s ===\n", path)
		results := interp.RunTests(result.mod, caps)
		if filter != "" {
			filtered := results[:0]
			for _, r := range results {
				if strings.Contains(r.Name, filter) {
					filtered = append(filtered, r)
				}
			}
			results = filtered
		}
		all = append(all, results...)
	}

	_, failed := interp.PrintTestSummary(all, verbose)
	if failed > 0 {
		return 1
	}
	return 0
}
