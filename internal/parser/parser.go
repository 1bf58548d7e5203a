// Package parser implements Astra's recursive-descent parser (spec
// component C), consuming internal/lexer/internal/token and producing
// internal/ast.
//
// Grounded on funvibe/funxy's internal/parser package structure (a
// single Parser struct holding cur/peek tokens with curTokenIs/
// expectPeek helpers) adapted to Astra's smaller closed grammar:
// binary expressions use precedence climbing over the binPrecedence
// table keyed by token.Kind, and prefix forms are dispatched by a switch
// in parsePrimary. Error recovery follows the same funxy convention of
// collecting diagnostics rather than aborting on the first syntax error,
// and works at item boundaries: ParseModule skips to the next item
// keyword after an unparsable item, and a function whose parameter list
// runs into an item keyword ends there. There is no statement-level
// resynchronization inside blocks.
package parser

import (
	"fmt"
	"path/filepath"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/lexer"
	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/token"
)

// precedence levels, lowest to highest, per spec §4.C.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precComparison
	precRange
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binPrecedence = map[token.Kind]int{
	token.OR:         precOr,
	token.AND:        precAnd,
	token.EQ:         precEquality,
	token.NOT_EQ:     precEquality,
	token.LT:         precComparison,
	token.GT:         precComparison,
	token.LTE:        precComparison,
	token.GTE:        precComparison,
	token.DOT_DOT:    precRange,
	token.DOT_DOT_EQ: precRange,
	token.PLUS:       precAdditive,
	token.MINUS:      precAdditive,
	token.ASTERISK:   precMultiplicative,
	token.SLASH:      precMultiplicative,
	token.PERCENT:    precMultiplicative,
}

// Parser consumes a token stream and produces an *ast.Module, collecting
// diagnostics instead of stopping at the first error.
type Parser struct {
	file  *source.File
	lex   *lexer.Lexer
	cur   token.Token
	peek  token.Token
	errs  []*diagnostics.DiagnosticError
}

// New constructs a Parser over a source file.
func New(file *source.File) *Parser {
	p := &Parser{file: file, lex: lexer.New(file)}
	p.advance()
	p.advance()
	return p
}

// Errors returns the diagnostics collected while parsing.
func (p *Parser) Errors() []*diagnostics.DiagnosticError { return p.errs }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
	// Statements never care about raw newlines except as terminators;
	// the grammar treats them like funxy does, as insignificant outside
	// of text-literal scanning, so we filter them here.
	for p.peek.Kind == token.NEWLINE {
		p.peek = p.lex.NextToken()
	}
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k token.Kind, context string) bool {
	if p.cur.Kind == k {
		p.advance()
		return true
	}
	p.errorf(diagnostics.ErrUnexpectedToken, p.cur.Span,
		"expected %s, found %q", context, p.cur.Lexeme)
	return false
}

func (p *Parser) errorf(code string, span source.Span, format string, args ...interface{}) {
	p.errs = append(p.errs, diagnostics.NewError(code, span, fmt.Sprintf(format, args...)))
}

// ParseModule parses an entire source file into a Module, recovering
// from per-item syntax errors by skipping to the next plausible item
// start so a single mistake doesn't blank the whole file's diagnostics.
func (p *Parser) ParseModule(name string) *ast.Module {
	start := p.cur.Span
	mod := &ast.Module{Name: name}
	for !p.curIs(token.EOF) {
		item := p.parseItem()
		if item != nil {
			mod.Items = append(mod.Items, item)
		} else {
			p.recoverToNextItem()
		}
	}
	end := p.cur.Span
	mod.FileSpan = start.Merge(end)
	return mod
}

// ParseSource is the core library's public parsing entry point (spec
// §6: `parse_source(text, path) → Result[Module, Diagnostic]`). The
// module name is derived from the file's base name, matching
// cmd/astra's moduleNameFromPath convention. Parser errors are still
// recovered internally so a single bad item doesn't blank the rest of
// the file; the first recorded diagnostic is returned as the error
// alongside the best-effort module, letting a caller choose to keep
// going with partial results the way `astra check` does.
func ParseSource(text, path string) (*ast.Module, error) {
	file := source.NewFile(path, text)
	p := New(file)
	name := moduleNameFromPath(path)
	mod := p.ParseModule(name)
	if len(p.errs) > 0 {
		return mod, p.errs[0]
	}
	return mod, nil
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return base[:len(base)-len(ext)]
}

func (p *Parser) recoverToNextItem() {
	for !p.curIs(token.EOF) {
		switch p.cur.Kind {
		case token.FN, token.PUBLIC, token.TYPE, token.RECORD, token.ENUM,
			token.TRAIT, token.IMPL, token.EFFECT, token.TEST, token.IMPORT:
			return
		}
		p.advance()
	}
}

func isItemStart(k token.Kind) bool {
	switch k {
	case token.FN, token.PUBLIC, token.TYPE, token.RECORD, token.ENUM,
		token.TRAIT, token.IMPL, token.EFFECT, token.TEST, token.IMPORT:
		return true
	}
	return false
}
