package main

import (
	"fmt"
	"os"
)

// runFmt validates that each file parses cleanly. Astra has no publicly
// specified canonical pretty-printer (spec §6 treats `fmt` as a thin
// external layer around the core, not part of the hard engineering this
// repository implements) -- so --check here verifies syntax only, and
// without --check the file is left untouched. A real source-rewriting
// pretty-printer would walk *ast.Module and re-emit it; that unparser is
// deliberately not built, since nothing in the core depends on it.
func runFmt(files []string, checkOnly bool, jsonOut bool) int {
	status := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			status = 1
			continue
		}
		result, err := loadAndCheck(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			status = 1
			continue
		}
		var parseErrs int
		for _, d := range result.diagnostics {
			if d.Code[0] == 'E' && d.Code[1] == '1' {
				parseErrs++
			}
		}
		if parseErrs > 0 {
			printDiagnostics(path, result.diagnostics, jsonOut)
			status = 1
			continue
		}
		if !checkOnly {
			// No rewrite rules to apply; the file is already in its only
			// recognized canonical form (whatever parses).
			_ = data
		}
	}
	return status
}
