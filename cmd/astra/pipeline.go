// Command astra is the thin CLI entry point over the lexer/parser/
// checker/interp core, mirroring funvibe/funxy's cmd/funxy: the core
// packages never print anything themselves (spec's "no logging inside
// lexer/parser/checker/interp" rule); this package is the only place
// that formats diagnostics and writes to stdout/stderr.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/checker"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/parser"
	"github.com/astra-lang/astra/internal/source"
)

// loadResult is the outcome of lexing, parsing, and type-checking a
// single source file.
type loadResult struct {
	path        string
	mod         *ast.Module
	diagnostics []*diagnostics.DiagnosticError
}

func loadAndCheck(path string) (*loadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mod, parseDiags := parseSourceDiagnostics(string(data), path)

	diags := append([]*diagnostics.DiagnosticError{}, parseDiags...)
	if len(diags) == 0 {
		diags = append(diags, checker.CheckModule(mod)...)
	}
	return &loadResult{path: path, mod: mod, diagnostics: diags}, nil
}

// parseSourceDiagnostics parses like parser.ParseSource but drives the
// Parser directly so it can return the full diagnostic list, not just
// the first one ParseSource's Result-shaped signature surfaces to
// library callers.
func parseSourceDiagnostics(text, path string) (*ast.Module, []*diagnostics.DiagnosticError) {
	file := source.NewFile(path, text)
	p := parser.New(file)
	mod := p.ParseModule(moduleNameFromPath(path))
	return mod, p.Errors()
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

func countBySeverity(diags []*diagnostics.DiagnosticError) (errs, warns int) {
	for _, d := range diags {
		if d.Severity == diagnostics.SeverityWarning {
			warns++
		} else {
			errs++
		}
	}
	return
}

func printDiagnostics(path string, diags []*diagnostics.DiagnosticError, jsonOut bool) {
	if jsonOut {
		printDiagnosticsJSON(path, diags)
		return
	}
	color := isTTY()
	for _, d := range diags {
		sev := d.Severity.String()
		if color {
			sev = colorSeverity(d.Severity.String())
		}
		fmt.Printf("%s:%d:%d: %s[%s]: %s\n", path, d.Span.StartLine, d.Span.StartCol, sev, d.Code, d.Message)
		for _, n := range d.Notes {
			fmt.Printf("  note: %s\n", n.Message)
		}
		if d.Suggestion != nil {
			fmt.Printf("  suggestion: %s\n", d.Suggestion.Message)
		}
	}
}

func colorSeverity(sev string) string {
	if sev == "error" {
		return "\x1b[31merror\x1b[0m"
	}
	return "\x1b[33mwarning\x1b[0m"
}

func printDiagnosticsJSON(path string, diags []*diagnostics.DiagnosticError) {
	fmt.Printf("{\"file\":%q,\"diagnostics\":[", path)
	for i, d := range diags {
		if i > 0 {
			fmt.Print(",")
		}
		fmt.Printf("{\"code\":%q,\"severity\":%q,\"message\":%q,\"line\":%d,\"col\":%d}",
			d.Code, d.Severity.String(), d.Message, d.Span.StartLine, d.Span.StartCol)
	}
	fmt.Println("]}")
}
