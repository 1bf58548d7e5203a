package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// isTTY reports whether stdout is an interactive terminal, used to decide
// whether plain diagnostics get ANSI severity coloring. Grounded on
// funvibe/funxy's internal/evaluator/builtins_term.go isatty usage
// (IsTerminal || IsCygwinTerminal).
func isTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: astra <command> [arguments]

commands:
  fmt [--check] <files...>      validate that source files parse
  check [files...]              type-check files and report diagnostics
  test [filter] [--seed N] <files...>   run test items
  run <file> [args...] [--seed N]       evaluate a module's main
  package [-o DIR]               build a distributable archive

global flags: --json  --quiet/-q  --verbose/-v`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}

	cmd := args[0]
	rest := args[1:]

	var jsonOut, quiet, verbose bool
	var files []string
	var seed int64
	var checkOnly bool
	var outDir string
	var filter string

	i := 0
	for i < len(rest) {
		a := rest[i]
		switch a {
		case "--json":
			jsonOut = true
		case "--quiet", "-q":
			quiet = true
		case "--verbose", "-v":
			verbose = true
		case "--check":
			checkOnly = true
		case "--seed":
			i++
			if i < len(rest) {
				fmt.Sscanf(rest[i], "%d", &seed)
			}
		case "-o":
			i++
			if i < len(rest) {
				outDir = rest[i]
			}
		default:
			if cmd == "test" && filter == "" && len(files) == 0 && !isSourcePathLike(a) {
				filter = a
			} else {
				files = append(files, a)
			}
		}
		i++
	}
	switch cmd {
	case "fmt":
		return runFmt(files, checkOnly, jsonOut)
	case "check":
		return runCheck(files, jsonOut, quiet)
	case "test":
		return runTest(files, filter, seed, verbose)
	case "run":
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "run: missing <file>")
			return 1
		}
		return runRun(files[0], files[1:], seed, jsonOut)
	case "package":
		return runPackage(outDir)
	case "help", "-help", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		return 1
	}
}

func isSourcePathLike(a string) bool {
	return len(a) > 0 && (a[0] == '.' || a[0] == '/' || hasAnySuffix(a))
}

func hasAnySuffix(a string) bool {
	for _, ext := range sourceExtCandidates {
		if len(a) > len(ext) && a[len(a)-len(ext):] == ext {
			return true
		}
	}
	return false
}

var sourceExtCandidates = []string{".astra"}
