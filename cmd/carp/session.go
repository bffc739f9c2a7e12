package main

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/config"
	"carp-lang/internal/lexer"
	"carp-lang/internal/parser"
	"carp-lang/internal/runtime"
	"carp-lang/internal/token"
	"fmt"
	"io"
	"time"
)

// tracer prints phase timings to w when enabled.
type tracer struct {
	w       io.Writer
	enabled bool
}

func (t tracer) phase(name string, start time.Time, format string, args ...interface{}) {
	if !t.enabled {
		return
	}
	fmt.Fprintf(t.w, "trace: %-6s %10s  %s\n", name, time.Since(start).Round(time.Microsecond), fmt.Sprintf(format, args...))
}

// session owns the arena and interpreter shared by successive chunks of
// source. Globals defined by one chunk stay visible to the next.
type session struct {
	arena  *ast.Arena
	interp *runtime.Interpreter
	out    io.Writer
	trace  tracer
}

func newSession(cfg *config.Config, out, traceOut io.Writer) *session {
	arena := ast.NewArena()
	return &session{
		arena:  arena,
		interp: runtime.NewInterpreter(arena, out, runtime.Options{MaxCallDepth: cfg.CallDepthLimit()}),
		out:    out,
		trace:  tracer{w: traceOut, enabled: cfg.Trace},
	}
}

// exec lexes, parses and runs source. With echo set, source that is a
// single bare expression is evaluated and its value printed, as the REPL
// does.
func (s *session) exec(source, filename string, echo bool) error {
	start := time.Now()
	tokens, err := lexer.Scan(source, filename)
	if err != nil {
		return err
	}
	s.trace.phase("lex", start, "%d tokens", len(tokens))

	if echo && !endsWithSemicolon(tokens) {
		start = time.Now()
		if expr, err := parser.New(s.arena, tokens).ParseExpr(); err == nil {
			s.trace.phase("parse", start, "1 expression")
			start = time.Now()
			v, err := s.interp.Eval(expr)
			if err != nil {
				return err
			}
			fmt.Fprintln(s.out, s.interp.Stringify(v))
			s.trace.phase("eval", start, "")
			return nil
		}
	}

	start = time.Now()
	prog, err := parser.New(s.arena, tokens).Parse()
	if err != nil {
		return err
	}
	s.trace.phase("parse", start, "%d statements, %d exprs, %d scopes",
		s.arena.StmtCount(), s.arena.ExprCount(), s.arena.ScopeCount())

	start = time.Now()
	before := s.interp.Stats()
	err = s.interp.Run(prog)
	after := s.interp.Stats()
	s.trace.phase("run", start, "%d statements, %d calls, max depth %d",
		after.Statements-before.Statements, after.Calls-before.Calls, after.MaxDepth)
	return err
}

func endsWithSemicolon(tokens []token.Token) bool {
	n := len(tokens)
	// The last token is always EOF.
	return n >= 2 && tokens[n-2].Kind == token.SEMICOLON
}
