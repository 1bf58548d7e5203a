// Package lexer tokenizes Astra source text into a stream of kinded,
// spanned tokens (spec component B).
//
// Grounded on funvibe/funxy's internal/lexer/lexer.go: single-pass,
// greedy longest-match scanning over a rune cursor with a (position,
// readPosition, ch) triple, peek-ahead for multi-char operators, and a
// stack-based scan for string interpolation
// (Lexer.readStringWithInterpolation). Escape-sequence and dedent
// behavior are fixed to original_source/src/parser/tests.rs
// (`unescape_string`, `dedent_multiline_string`), which this spec's text
// literal section was distilled from.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/token"
)

// Lexer scans a single source file into tokens on demand via NextToken.
type Lexer struct {
	file         *source.File
	input        string
	position     int
	readPosition int
	ch           rune
	pendingDoc   string
}

// New constructs a Lexer over a source file.
func New(file *source.File) *Lexer {
	l := &Lexer{file: file, input: file.Text}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekCharAt(n int) rune {
	pos := l.readPosition
	for i := 0; i < n; i++ {
		if pos >= len(l.input) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) skipWhitespaceExceptNewline() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipDocComment scans a `##` doc comment line and appends its text
// (trimmed) to the pending doc buffer, where it stays until TakeDoc is
// called. The parser does not call TakeDoc, so doc text is not attached
// to AST items.
func (l *Lexer) skipDocComment() {
	l.readChar() // first '#'
	l.readChar() // second '#'
	start := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	text := strings.TrimSpace(l.input[start:l.position])
	if l.pendingDoc != "" {
		l.pendingDoc += "\n"
	}
	l.pendingDoc += text
}

// TakeDoc returns and clears any doc-comment text accumulated since the
// last call.
func (l *Lexer) TakeDoc() string {
	doc := l.pendingDoc
	l.pendingDoc = ""
	return doc
}

func (l *Lexer) tok(kind token.Kind, lexeme string, literal interface{}, start int) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Literal: literal, Span: l.file.Span(start, l.position+1)}
}

// NextToken scans and returns the next token. Yields an EOF token
// exactly once at the end of input.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceExceptNewline()

	for {
		if l.ch == '/' && l.peekChar() == '/' {
			l.skipLineComment()
			l.skipWhitespaceExceptNewline()
			continue
		}
		if l.ch == '#' && l.peekChar() == '#' {
			l.skipDocComment()
			l.skipWhitespaceExceptNewline()
			if l.ch == '\n' {
				l.readChar()
				l.skipWhitespaceExceptNewline()
			}
			continue
		}
		break
	}

	start := l.position

	switch {
	case l.ch == 0:
		return token.Token{Kind: token.EOF, Lexeme: "", Span: l.file.Span(start, start)}
	case l.ch == '\n':
		t := l.tok(token.NEWLINE, "\n", nil, start)
		l.readChar()
		return t
	case l.ch == '"':
		return l.readText(start)
	case isDigit(l.ch):
		return l.readNumber(start)
	case isIdentStart(l.ch):
		return l.readIdent(start)
	default:
		return l.readOperator(start)
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) readIdent(start int) token.Token {
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	kind := token.LookupIdent(lexeme)
	span := l.file.Span(start, l.position)
	if kind == token.BOOL {
		return token.Token{Kind: token.BOOL, Lexeme: lexeme, Literal: lexeme == "true", Span: span}
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Literal: lexeme, Span: span}
}

func (l *Lexer) readNumber(start int) token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save := l.position
		savePos, saveRead, saveCh := l.position, l.readPosition, l.ch
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if isDigit(l.ch) {
			isFloat = true
			for isDigit(l.ch) {
				l.readChar()
			}
		} else {
			l.position, l.readPosition, l.ch = savePos, saveRead, saveCh
			_ = save
		}
	}
	lexeme := l.input[start:l.position]
	span := l.file.Span(start, l.position)
	if isFloat {
		v, _ := strconv.ParseFloat(lexeme, 64)
		return token.Token{Kind: token.FLOAT, Lexeme: lexeme, Literal: v, Span: span}
	}
	v, _ := strconv.ParseInt(lexeme, 10, 64)
	return token.Token{Kind: token.INT, Lexeme: lexeme, Literal: v, Span: span}
}

// InvalidEscapeError reports a `\x` sequence the lexer doesn't recognize.
type InvalidEscapeError struct {
	Offending rune
	Span      source.Span
}

func (e *InvalidEscapeError) Error() string {
	return "invalid escape sequence: \\" + string(e.Offending)
}

// readText scans a `"..."` or triple-quoted `"""..."""` literal. The
// token's Literal carries the raw (un-unescaped) body; interpolation
// markers `${...}` are left intact in that raw body for the parser to
// split out, matching the division of labor in original_source (the
// lexer only scans; `unescape_string`/`dedent_multiline_string` run in
// the parser).
func (l *Lexer) readText(start int) token.Token {
	triple := l.peekChar() == '"' && l.peekCharAt(1) == '"'
	if triple {
		l.readChar() // 2nd quote
		l.readChar() // 3rd quote
		l.readChar() // first body char
		bodyStart := l.position
		for {
			if l.ch == 0 {
				break
			}
			if l.ch == '"' && l.peekChar() == '"' && l.peekCharAt(1) == '"' {
				body := l.input[bodyStart:l.position]
				l.readChar()
				l.readChar()
				l.readChar()
				span := l.file.Span(start, l.position)
				return token.Token{Kind: token.TEXT, Lexeme: l.input[start:l.position], Literal: dedentMultiline(body), Span: span}
			}
			l.readChar()
		}
		span := l.file.Span(start, l.position)
		return token.Token{Kind: token.ILLEGAL, Lexeme: "unterminated triple-quoted text", Span: span}
	}

	// Single-line text with ${...} interpolation tracked via brace depth.
	l.readChar() // consume opening quote
	bodyStart := l.position
	depth := 0
	for {
		if l.ch == 0 {
			break
		}
		if depth == 0 && l.ch == '"' {
			body := l.input[bodyStart:l.position]
			span := l.file.Span(start, l.position+1)
			l.readChar()
			return token.Token{Kind: token.TEXT, Lexeme: l.input[start:l.position], Literal: body, Span: span}
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				break
			}
			l.readChar()
			continue
		}
		if depth == 0 && l.ch == '$' && l.peekChar() == '{' {
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if depth > 0 && l.ch == '{' {
			depth++
			l.readChar()
			continue
		}
		if depth > 0 && l.ch == '}' {
			depth--
			l.readChar()
			continue
		}
		l.readChar()
	}
	span := l.file.Span(start, l.position)
	return token.Token{Kind: token.ILLEGAL, Lexeme: "unterminated text literal", Span: span}
}

// Unescape expands escape sequences in the raw body of a text literal.
// Valid escapes: \n \r \t \\ \" \0 \$. Any other `\x` is reported via the
// returned error, matching original_source's unescape_string exactly
// (the offending rune is carried on the error for diagnostic rendering).
func Unescape(raw string) (string, error) {
	var b strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			return b.String(), &InvalidEscapeError{Offending: 0}
		}
		i++
		esc := runes[i]
		switch esc {
		case 'n':
			b.WriteRune('\n')
		case 'r':
			b.WriteRune('\r')
		case 't':
			b.WriteRune('\t')
		case '\\':
			b.WriteRune('\\')
		case '"':
			b.WriteRune('"')
		case '0':
			b.WriteRune(0)
		case '$':
			b.WriteRune('$')
		default:
			return b.String(), &InvalidEscapeError{Offending: esc}
		}
	}
	return b.String(), nil
}

// dedentMultiline strips the common leading whitespace of interior
// lines from a triple-quoted literal's raw body, matching
// original_source's dedent_multiline_string: the literal's opening and
// closing newline/whitespace-only lines are dropped first.
func dedentMultiline(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	minIndent := -1
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		indent := len(ln) - len(strings.TrimLeft(ln, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.Join(lines, "\n")
	}
	out := make([]string, len(lines))
	for i, ln := range lines {
		if len(ln) >= minIndent {
			out[i] = ln[minIndent:]
		} else {
			out[i] = strings.TrimLeft(ln, " \t")
		}
	}
	return strings.Join(out, "\n")
}

func (l *Lexer) readOperator(start int) token.Token {
	ch := l.ch
	two := func(next rune, kind token.Kind, lexeme string) (token.Token, bool) {
		if l.peekChar() == next {
			l.readChar()
			l.readChar()
			return token.Token{Kind: kind, Lexeme: lexeme, Span: l.file.Span(start, l.position)}, true
		}
		return token.Token{}, false
	}

	switch ch {
	case '=':
		if t, ok := two('=', token.EQ, "=="); ok {
			return t
		}
		if t, ok := two('>', token.FAT_ARROW, "=>"); ok {
			return t
		}
		l.readChar()
		return token.Token{Kind: token.ASSIGN, Lexeme: "=", Span: l.file.Span(start, l.position)}
	case '!':
		if t, ok := two('=', token.NOT_EQ, "!="); ok {
			return t
		}
		l.readChar()
		return token.Token{Kind: token.BANG, Lexeme: "!", Span: l.file.Span(start, l.position)}
	case '<':
		if t, ok := two('=', token.LTE, "<="); ok {
			return t
		}
		l.readChar()
		return token.Token{Kind: token.LT, Lexeme: "<", Span: l.file.Span(start, l.position)}
	case '>':
		if t, ok := two('=', token.GTE, ">="); ok {
			return t
		}
		l.readChar()
		return token.Token{Kind: token.GT, Lexeme: ">", Span: l.file.Span(start, l.position)}
	case '&':
		if t, ok := two('&', token.AND, "&&"); ok {
			return t
		}
	case '|':
		if t, ok := two('|', token.OR, "||"); ok {
			return t
		}
		l.readChar()
		return token.Token{Kind: token.PIPE, Lexeme: "|", Span: l.file.Span(start, l.position)}
	case '-':
		if t, ok := two('>', token.ARROW, "->"); ok {
			return t
		}
		l.readChar()
		return token.Token{Kind: token.MINUS, Lexeme: "-", Span: l.file.Span(start, l.position)}
	case '?':
		if l.peekChar() == '?' && l.peekCharAt(1) == '?' {
			l.readChar()
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.HOLE, Lexeme: "???", Span: l.file.Span(start, l.position)}
		}
		l.readChar()
		return token.Token{Kind: token.QUESTION, Lexeme: "?", Span: l.file.Span(start, l.position)}
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return token.Token{Kind: token.DOT_DOT_EQ, Lexeme: "..=", Span: l.file.Span(start, l.position)}
			}
			l.readChar()
			return token.Token{Kind: token.DOT_DOT, Lexeme: "..", Span: l.file.Span(start, l.position)}
		}
		l.readChar()
		return token.Token{Kind: token.DOT, Lexeme: ".", Span: l.file.Span(start, l.position)}
	}

	single := map[rune]token.Kind{
		'+': token.PLUS, '*': token.ASTERISK, '/': token.SLASH, '%': token.PERCENT,
		'(': token.LPAREN, ')': token.RPAREN, '{': token.LBRACE, '}': token.RBRACE,
		'[': token.LBRACKET, ']': token.RBRACKET, ',': token.COMMA, ':': token.COLON,
		';': token.SEMICOLON, '@': token.AT,
	}
	if kind, ok := single[ch]; ok {
		l.readChar()
		return token.Token{Kind: kind, Lexeme: string(ch), Span: l.file.Span(start, l.position)}
	}
	l.readChar()
	return token.Token{Kind: token.ILLEGAL, Lexeme: string(ch), Span: l.file.Span(start, l.position)}
}
