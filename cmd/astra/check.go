package main

import (
	"fmt"
	"os"

	"github.com/astra-lang/astra/internal/cache"
	"github.com/astra-lang/astra/internal/config"
)

// runCheck type-checks each file, reporting diagnostics and using the
// incremental cache (spec §6's `./.astra-cache/check-cache.json`) to
// skip re-checking files whose content hash hasn't changed since the
// last check; for such files the cached counts are tallied and the
// cached diagnostic messages are printed as plain text.
func runCheck(files []string, jsonOut, quiet bool) int {
	root := cache.FindProjectRoot(".")
	if len(files) > 0 {
		root = cache.FindProjectRoot(files[0])
	}
	c := cache.Load(root)
	c.Prune()

	totalErrs, totalWarns := 0, 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			totalErrs++
			continue
		}
		h := cache.HashContent(string(data))
		if cached, ok := c.Lookup(path, h); ok {
			totalErrs += cached.Errors
			totalWarns += cached.Warnings
			if !quiet && (cached.Errors > 0 || cached.Warnings > 0) {
				for _, msg := range cached.Diagnostics {
					fmt.Println(msg)
				}
			}
			continue
		}

		result, err := loadAndCheck(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			totalErrs++
			continue
		}
		errs, warns := countBySeverity(result.diagnostics)
		totalErrs += errs
		totalWarns += warns
		if !quiet {
			printDiagnostics(path, result.diagnostics, jsonOut)
		}

		msgs := make([]string, len(result.diagnostics))
		for i, d := range result.diagnostics {
			msgs[i] = d.Error()
		}
		c.Store(path, cache.CachedFileResult{ContentHash: h, Errors: errs, Warnings: warns, Diagnostics: msgs})
	}

	if err := c.Save(root); err != nil && !quiet {
		fmt.Fprintf(os.Stderr, "warning: failed to save %s: %v\n", config.CacheFileName, err)
	}

	if totalErrs > 0 {
		return 1
	}
	return 0
}
