package main

import (
	"carp-lang/internal/diag"
	"carp-lang/internal/span"
	"carp-lang/internal/token"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ---- output helpers ----

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: JSON encoding failed: %v\n", err)
		os.Exit(1)
	}
}

func printDiagsText(r diag.Reporter, diags []diag.Diagnostic) {
	for _, d := range diags {
		r.Report(d)
	}
}

// reportError hands err to r as a diagnostic. Errors that are not faults
// (I/O, config) are reported without a code or position.
func reportError(r diag.Reporter, err error) {
	if f, ok := diag.AsFault(err); ok {
		r.Report(f.Diagnostic)
		return
	}
	r.Report(diag.Errorf("", span.Span{}, "%v", err))
}

// faultDiags returns the diagnostic carried by err, if it is a fault.
func faultDiags(err error) []diag.Diagnostic {
	if f, ok := diag.AsFault(err); ok {
		return []diag.Diagnostic{f.Diagnostic}
	}
	return nil
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"severity": d.Severity.String(),
			"message":  d.Message,
			"line":     d.Span.Start.Line,
			"column":   d.Span.Start.Column,
			"offset":   d.Span.Start.Offset,
		}
		if d.Hint != "" {
			result[i]["hint"] = d.Hint
		}
	}
	return result
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.STRING {
			lexeme = strconv.Quote(lexeme)
		}
		fmt.Fprintf(w, "%-12s %-20s %d:%d\n", tok.Kind, lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

func printTokensJSON(tokens []token.Token, diags []diag.Diagnostic) {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Offset int    `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		toks = append(toks, tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		})
	}

	output := map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	}
	printJSON(output)
}
