package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineCol(t *testing.T) {
	f := NewFile("test.astra", "fn a() {\nlet x = 1\n}\n")
	for _, tc := range []struct {
		name      string
		offset    int
		line, col int
	}{
		{"start", 0, 1, 1},
		{"mid-first-line", 3, 1, 4},
		{"start-second-line", 9, 2, 1},
		{"mid-second-line", 13, 2, 5},
		{"clamped-negative", -5, 1, 1},
		{"clamped-past-end", 1000, 4, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			line, col := f.LineCol(tc.offset)
			require.Equal(t, tc.line, line, "line for offset %d", tc.offset)
			require.Equal(t, tc.col, col, "col for offset %d", tc.offset)
		})
	}
}

func TestGetLine(t *testing.T) {
	f := NewFile("test.astra", "one\ntwo\nthree")
	for _, tc := range []struct {
		n    int
		want string
	}{
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
		{0, ""},
	} {
		require.Equal(t, tc.want, f.GetLine(tc.n))
	}
}

func TestSpanText(t *testing.T) {
	f := NewFile("test.astra", "let x = 42")
	sp := f.Span(4, 5)
	require.Equal(t, "x", sp.Text())
	require.Equal(t, 1, sp.StartLine)
	require.Equal(t, 5, sp.StartCol)
}

func TestSpanMerge(t *testing.T) {
	f := NewFile("test.astra", "abcdefghij")
	a := f.Span(2, 4)
	b := f.Span(6, 9)
	merged := a.Merge(b)
	require.Equal(t, 2, merged.Start)
	require.Equal(t, 9, merged.End)
}

func TestSpanString(t *testing.T) {
	f := NewFile("foo.astra", "abc\ndef")
	sp := f.Span(4, 5)
	require.Equal(t, "foo.astra:2:1", sp.String())
}
