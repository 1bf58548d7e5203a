package lexer

import (
	"errors"
	"testing"

	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/token"
)

func lexAll(t *testing.T, text string) []token.Token {
	t.Helper()
	f := source.NewFile("test.astra", text)
	l := New(f)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexerKeywordsAndPunctuation(t *testing.T) {
	toks := lexAll(t, "fn add(a, b) -> Int { a + b }")
	got := kinds(toks)
	want := []token.Kind{
		token.FN, token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT,
		token.RPAREN, token.ARROW, token.IDENT, token.LBRACE, token.IDENT, token.PLUS,
		token.IDENT, token.RBRACE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerEOFExactlyOnce(t *testing.T) {
	toks := lexAll(t, "let x = 1")
	eofCount := 0
	for _, tk := range toks {
		if tk.Kind == token.EOF {
			eofCount++
		}
	}
	if eofCount != 1 {
		t.Errorf("expected exactly one EOF token, got %d", eofCount)
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Errorf("EOF must be the last token")
	}
}

func TestLexerRangeTokensDistinguishedFromDot(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want token.Kind
	}{
		{"field access", "a.b", token.DOT},
		{"exclusive range", "a..b", token.DOT_DOT},
		{"inclusive range", "a..=b", token.DOT_DOT_EQ},
	} {
		t.Run(tc.name, func(t *testing.T) {
			toks := lexAll(t, tc.src)
			if toks[1].Kind != tc.want {
				t.Errorf("got %v, want %v", toks[1].Kind, tc.want)
			}
		})
	}
}

func TestLexerIntAndFloatLiterals(t *testing.T) {
	toks := lexAll(t, "42 3.14")
	if toks[0].Kind != token.INT || toks[0].Literal != int64(42) {
		t.Errorf("int literal = %v %v, want INT 42", toks[0].Kind, toks[0].Literal)
	}
	if toks[1].Kind != token.FLOAT || toks[1].Literal != 3.14 {
		t.Errorf("float literal = %v %v, want FLOAT 3.14", toks[1].Kind, toks[1].Literal)
	}
}

func TestLexerBoolLiteralsAreKeywordClassified(t *testing.T) {
	toks := lexAll(t, "true false")
	if toks[0].Kind != token.BOOL || toks[1].Kind != token.BOOL {
		t.Errorf("true/false should lex as BOOL, got %v %v", toks[0].Kind, toks[1].Kind)
	}
}

func TestLexerTextEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\tc\\d\"e"`)
	if toks[0].Kind != token.TEXT {
		t.Fatalf("expected TEXT, got %v", toks[0].Kind)
	}
	want := `a\nb\tc\\d\"e`
	if toks[0].Literal != want {
		t.Errorf("raw text literal = %q, want %q", toks[0].Literal, want)
	}
}

func TestUnescapeValidSequences(t *testing.T) {
	got, err := Unescape(`a\nb\tc\\d\"e\0f\$g`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\tc\\d\"e\x00f$g"
	if got != want {
		t.Errorf("Unescape = %q, want %q", got, want)
	}
}

func TestUnescapeInvalidSequenceReportsOffendingChar(t *testing.T) {
	_, err := Unescape(`bad \q escape`)
	if err == nil {
		t.Fatalf("expected an error for an unrecognized escape sequence")
	}
	var escErr *InvalidEscapeError
	if !errors.As(err, &escErr) {
		t.Fatalf("expected *InvalidEscapeError, got %T", err)
	}
	if escErr.Offending != 'q' {
		t.Errorf("Offending = %q, want 'q'", escErr.Offending)
	}
}

func TestLexerDocCommentTextCaptured(t *testing.T) {
	l := New(source.NewFile("test.astra", "## does a thing\nfn f() {}"))
	tok := l.NextToken()
	if tok.Kind != token.FN {
		t.Fatalf("expected FN, got %v", tok.Kind)
	}
	if doc := l.TakeDoc(); doc != "does a thing" {
		t.Errorf("TakeDoc() = %q, want %q", doc, "does a thing")
	}
}

func TestLexerSpanCoverageReproducesSource(t *testing.T) {
	src := "let x = 1\nlet y = 2"
	toks := lexAll(t, src)
	var rebuilt string
	for _, tk := range toks {
		if tk.Kind == token.EOF {
			continue
		}
		rebuilt += tk.Span.Text()
	}
	if rebuilt != "letx=1\nlety=2" {
		t.Errorf("span text concatenation = %q", rebuilt)
	}
}

func TestLexerDocCommentSkippedBeforeNextItem(t *testing.T) {
	toks := lexAll(t, "## does a thing\nfn f() {}")
	found := false
	for _, tk := range toks {
		if tk.Kind == token.FN {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected FN token after doc comment")
	}
}
