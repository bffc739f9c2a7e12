// Package runtime evaluates carp programs held in an ast.Arena.
//
// The interpreter keeps one cursor into the scope chain. Every block and
// every call pushes an activation frame on the arena, moves the cursor to
// it, and restores both with defer on every exit path.
package runtime

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/diag"
	"carp-lang/internal/span"
	"carp-lang/internal/value"
	"fmt"
	"io"
)

// ============================================================
// Control flow signals
// ============================================================

// ExecSignal represents a control flow signal from statement execution.
type ExecSignal int

const (
	SigNone   ExecSignal = iota
	SigReturn            // return from function
)

// ExecResult carries a control flow signal and, for SigReturn, the
// returned value.
type ExecResult struct {
	Signal ExecSignal
	Value  value.Value
}

var resultNone = ExecResult{Signal: SigNone}

// ============================================================
// Runtime faults
// ============================================================

// Runtime error codes.
const (
	codeUndefined      = "E3001"
	codeRedeclared     = "E3002"
	codeArity          = "E3003"
	codeReturnOutside  = "E3004"
	codeMismatched     = "E4001"
	codeNotNumber      = "E4002"
	codeNotCallable    = "E4003"
	codeStackOverflow  = "E5001"
	codeBadNode        = "E5002"
	codeDivisionByZero = "E5003"
)

func fault(cat diag.Category, code string, s span.Span, format string, args ...interface{}) *diag.Fault {
	return diag.Faultf(cat, code, s, format, args...)
}

// ============================================================
// Interpreter
// ============================================================

// DefaultMaxCallDepth bounds recursion when Options leaves it unset.
const DefaultMaxCallDepth = 1024

// Options configures an Interpreter.
type Options struct {
	// MaxCallDepth is the deepest allowed call nesting. Zero selects
	// DefaultMaxCallDepth; a negative value disables the limit.
	MaxCallDepth int
}

// Stats counts work done by an interpreter since it was created.
type Stats struct {
	Statements int
	Calls      int
	MaxDepth   int
}

// Interpreter walks the arena and executes it. It is not safe for
// concurrent use.
type Interpreter struct {
	arena  *ast.Arena
	global Env
	env    Env
	output io.Writer

	depth    int
	maxDepth int
	stats    Stats
}

// NewInterpreter creates an interpreter over arena that prints to output.
// Globals live in the arena's global scope, so successive Runs over the
// same arena share them.
func NewInterpreter(arena *ast.Arena, output io.Writer, opts Options) *Interpreter {
	maxDepth := opts.MaxCallDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxCallDepth
	}
	global := NewEnv(arena, ast.GlobalScope)
	return &Interpreter{
		arena:    arena,
		global:   global,
		env:      global,
		output:   output,
		maxDepth: maxDepth,
	}
}

// Run executes the statements of prog in the global scope. The first
// fault stops the run and is returned as a *diag.Fault.
func (i *Interpreter) Run(prog *ast.Program) error {
	i.env = i.global
	for _, s := range prog.Stmts {
		result, err := i.execute(s)
		if err != nil {
			return err
		}
		if result.Signal == SigReturn {
			return fault(diag.Resolution, codeReturnOutside, i.arena.Stmt(s).Span, "return outside of function")
		}
	}
	return nil
}

// Eval evaluates a single expression in the global scope.
func (i *Interpreter) Eval(expr ast.ExprIndex) (value.Value, error) {
	i.env = i.global
	return i.evaluate(expr)
}

// Env returns the current environment (the global one between runs).
func (i *Interpreter) Env() Env {
	return i.env
}

// Stats returns the counters accumulated so far.
func (i *Interpreter) Stats() Stats {
	return i.stats
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execute(idx ast.StmtIndex) (ExecResult, error) {
	i.stats.Statements++
	s := i.arena.Stmt(idx)
	switch s.Kind {
	case ast.StmtExpression:
		_, err := i.evaluate(s.Expr)
		return resultNone, err

	case ast.StmtPrint:
		v, err := i.evaluate(s.Expr)
		if err != nil {
			return resultNone, err
		}
		fmt.Fprintln(i.output, i.Stringify(v))
		return resultNone, nil

	case ast.StmtVarDeclare:
		v, err := i.evaluate(s.Expr)
		if err != nil {
			return resultNone, err
		}
		if err := i.env.Define(i.arena.Name(s.Name), v); err != nil {
			return resultNone, fault(diag.Resolution, codeRedeclared, s.Span, "%s", err)
		}
		return resultNone, nil

	case ast.StmtBlock:
		return i.execBlock(s.Scope)

	case ast.StmtIf:
		cond, err := i.evaluate(s.Expr)
		if err != nil {
			return resultNone, err
		}
		if i.IsTruthy(cond) {
			return i.execute(s.Then)
		}
		if s.Else != ast.NoStmt {
			return i.execute(s.Else)
		}
		return resultNone, nil

	case ast.StmtWhile:
		for {
			cond, err := i.evaluate(s.Expr)
			if err != nil {
				return resultNone, err
			}
			if !i.IsTruthy(cond) {
				return resultNone, nil
			}
			result, err := i.execute(s.Then)
			if err != nil || result.Signal != SigNone {
				return result, err
			}
		}

	case ast.StmtReturn:
		v := value.Nil()
		if s.Expr != ast.NoExpr {
			var err error
			if v, err = i.evaluate(s.Expr); err != nil {
				return resultNone, err
			}
		}
		return ExecResult{Signal: SigReturn, Value: v}, nil

	case ast.StmtFunctionDecl:
		// Bound in the global scope when the parse succeeded.
		return resultNone, nil

	default:
		return resultNone, fault(diag.Internal, codeBadNode, s.Span, "unexpected statement kind %s", s.Kind)
	}
}

// execBlock runs the statements of a block record under a fresh frame
// whose parent is the current scope.
func (i *Interpreter) execBlock(scope ast.ScopeIndex) (ExecResult, error) {
	prevEnv := i.env
	i.env = prevEnv.push(prevEnv.Scope())
	defer func() {
		i.env.pop()
		i.env = prevEnv
	}()

	return i.execStmts(i.arena.Scope(scope).Stmts)
}

func (i *Interpreter) execStmts(stmts []ast.StmtIndex) (ExecResult, error) {
	for _, s := range stmts {
		result, err := i.execute(s)
		if err != nil {
			return resultNone, err
		}
		if result.Signal != SigNone {
			return result, nil // propagate signal
		}
	}
	return resultNone, nil
}
