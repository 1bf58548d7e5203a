// Package source owns source text and maps byte offsets to line/column
// positions, grounded on funvibe/funxy's lexer.line/column bookkeeping
// (internal/lexer/lexer.go) generalized into a standalone, reusable
// source map as called for by spec component A.
package source

import (
	"fmt"
	"sort"
)

// File is an immutable pair of path and text, with a precomputed
// line-start table for fast line/column resolution.
type File struct {
	Path       string
	Text       string
	lineStarts []int
}

// NewFile constructs a File and precomputes its line-start offsets.
func NewFile(path, text string) *File {
	f := &File{Path: path, Text: text}
	f.lineStarts = []int{0}
	for i, r := range text {
		if r == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// LineCol resolves a byte offset to a 1-indexed (line, col) pair.
func (f *File) LineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Text) {
		offset = len(f.Text)
	}
	// Binary search for the last line start <= offset.
	i := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	})
	lineIdx := i - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	line = lineIdx + 1
	col = offset - f.lineStarts[lineIdx] + 1
	return line, col
}

// GetLine returns the 1-indexed line's text, without its terminator.
func (f *File) GetLine(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.Text)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	if end < start {
		end = start
	}
	for end > start && (f.Text[end-1] == '\n' || f.Text[end-1] == '\r') {
		end--
	}
	return f.Text[start:end]
}

// Span produces a fully resolved Span over [start, end) in this file.
func (f *File) Span(start, end int) Span {
	sl, sc := f.LineCol(start)
	el, ec := f.LineCol(end)
	return Span{
		File:      f,
		Start:     start,
		End:       end,
		StartLine: sl,
		StartCol:  sc,
		EndLine:   el,
		EndCol:    ec,
	}
}

// Span is a displayable, file-owning source range.
// Invariant: Start <= End, and both index into File.Text.
type Span struct {
	File      *File
	Start     int
	End       int
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Text returns the source slice covered by the span.
func (s Span) Text() string {
	if s.File == nil {
		return ""
	}
	return s.File.Text[s.Start:s.End]
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	if s.File == nil {
		return other
	}
	start, end := s.Start, s.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return s.File.Span(start, end)
}

func (s Span) String() string {
	path := "<unknown>"
	if s.File != nil {
		path = s.File.Path
	}
	return fmt.Sprintf("%s:%d:%d", path, s.StartLine, s.StartCol)
}
