// Package span provides source position and span types shared by the
// lexer, parser, and interpreter.
package span

import "fmt"

// Position represents a position in source code.
type Position struct {
	Offset int `json:"offset"` // byte offset from beginning of source
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number
}

// IsValid reports whether the position points into real source text.
// The zero Position is used for synthesized tokens.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a range in source code [Start, End).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Between returns the span covering a through b.
func Between(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Line returns the line the span starts on.
func (s Span) Line() int {
	return s.Start.Line
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}
