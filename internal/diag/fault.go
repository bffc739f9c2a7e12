package diag

import (
	"carp-lang/internal/span"
	"errors"
	"fmt"
)

// Category classifies a Fault.
type Category int

const (
	Lex        Category = iota // malformed source text
	Parse                      // grammar violations
	Resolution                 // undeclared names, redeclaration, arity
	Type                       // operand type errors
	Internal                   // broken invariants and runtime limits
)

func (c Category) String() string {
	switch c {
	case Lex:
		return "lex"
	case Parse:
		return "parse"
	case Resolution:
		return "resolution"
	case Type:
		return "type"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Fault is the single error type returned by the front end and the
// interpreter. The first fault halts the run that produced it.
type Fault struct {
	Category Category
	Diagnostic
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s error at %s: %s", f.Category, f.Span.Start, f.Message)
}

// Line returns the source line the fault was raised at.
func (f *Fault) Line() int {
	return f.Span.Start.Line
}

// Faultf creates a Fault with an error-severity diagnostic.
func Faultf(cat Category, code string, s span.Span, format string, args ...interface{}) *Fault {
	return &Fault{Category: cat, Diagnostic: Errorf(code, s, format, args...)}
}

// AsFault unwraps err to a *Fault.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
