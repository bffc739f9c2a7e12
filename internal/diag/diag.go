// Package diag provides diagnostic (error/warning) types shared by the
// lexer, parser, and interpreter.
package diag

import (
	"carp-lang/internal/span"
	"fmt"
	"io"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single reported problem.
type Diagnostic struct {
	Code     string    `json:"code"`           // stable error code, e.g. "E2001"
	Severity Severity  `json:"severity"`       // error or warning
	Message  string    `json:"message"`        // human-readable description
	Span     span.Span `json:"span"`           // source location
	Hint     string    `json:"hint,omitempty"` // optional suggested fix
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	prefix := d.Severity.String()
	var msg string
	if d.Code == "" && !d.Span.Start.IsValid() {
		msg = fmt.Sprintf("%s: %s", prefix, d.Message)
	} else {
		msg = fmt.Sprintf("[%s] %s at %s: %s", d.Code, prefix, d.Span.Start, d.Message)
	}
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Reporter receives diagnostics as they are produced.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// WriterReporter writes one diagnostic per line to W.
type WriterReporter struct {
	W io.Writer
}

func (r WriterReporter) Report(d Diagnostic) {
	fmt.Fprintln(r.W, d.String())
}

// Collector keeps every reported diagnostic, in order.
type Collector struct {
	Diags []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Diags = append(c.Diags, d)
}
