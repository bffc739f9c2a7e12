package runtime

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/diag"
	"carp-lang/internal/token"
	"carp-lang/internal/value"
)

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evaluate(idx ast.ExprIndex) (value.Value, error) {
	e := i.arena.Expr(idx)
	switch e.Kind {
	case ast.ExprLiteral:
		return e.Value, nil
	case ast.ExprGrouping:
		return i.evaluate(e.Right)
	case ast.ExprVariable:
		name := i.arena.Name(e.Name)
		v, ok := i.env.Get(name)
		if !ok {
			return value.Nil(), fault(diag.Resolution, codeUndefined, e.Span, "undefined variable '%s'", name)
		}
		return v, nil
	case ast.ExprAssign:
		v, err := i.evaluate(e.Right)
		if err != nil {
			return value.Nil(), err
		}
		if err := i.env.Set(i.arena.Name(e.Name), v); err != nil {
			return value.Nil(), fault(diag.Resolution, codeUndefined, e.Span, "%s", err)
		}
		return v, nil
	case ast.ExprUnary:
		return i.evalUnary(&e)
	case ast.ExprBinary:
		return i.evalBinary(&e)
	case ast.ExprLogical:
		return i.evalLogical(&e)
	case ast.ExprCall:
		return i.evalCall(&e)
	default:
		return value.Nil(), fault(diag.Internal, codeBadNode, e.Span, "unexpected expression kind %s", e.Kind)
	}
}

func (i *Interpreter) evalUnary(e *ast.Expr) (value.Value, error) {
	operand, err := i.evaluate(e.Right)
	if err != nil {
		return value.Nil(), err
	}

	switch e.Op {
	case token.BANG:
		// Flips the raw payload, so !0.0 and !"" depend on bits alone.
		return value.Boolean(operand.Bits() == 0), nil
	case token.MINUS:
		switch operand.Kind {
		case value.Int:
			return value.Integer(-operand.AsInt()), nil
		case value.Float:
			return value.Number(-operand.AsFloat()), nil
		default:
			return value.Nil(), fault(diag.Type, codeNotNumber, e.Span, "operand of '-' must be a number, got %s", operand.Kind)
		}
	default:
		return value.Nil(), fault(diag.Internal, codeBadNode, e.Span, "unknown unary operator: %s", e.Op)
	}
}

func (i *Interpreter) evalBinary(e *ast.Expr) (value.Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return value.Nil(), err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return value.Nil(), err
	}

	switch {
	case left.IsNumber() && right.IsNumber():
		v, ok, err := arith(e.Op, left, right)
		if err != nil {
			return value.Nil(), fault(diag.Internal, codeDivisionByZero, e.Span, "%s", err)
		}
		if ok {
			return v, nil
		}
	case left.Kind == value.String && right.Kind == value.String && e.Op == token.PLUS:
		s := i.arena.String(left.Index()) + i.arena.String(right.Index())
		return value.Str(uint32(i.arena.Intern(s))), nil
	}
	return value.Nil(), fault(diag.Type, codeMismatched, e.Span,
		"mismatched operand types: cannot apply '%s' to %s and %s", e.Op, left.Kind, right.Kind)
}

// evalLogical returns one of its operands, evaluating the right one only
// when the left does not decide the result.
func (i *Interpreter) evalLogical(e *ast.Expr) (value.Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return value.Nil(), err
	}
	if e.Op == token.KW_OR {
		if i.IsTruthy(left) {
			return left, nil
		}
	} else if !i.IsTruthy(left) {
		return left, nil
	}
	return i.evaluate(e.Right)
}

// ============================================================
// Calls
// ============================================================

func (i *Interpreter) evalCall(e *ast.Expr) (value.Value, error) {
	callee, err := i.evaluate(e.Left)
	if err != nil {
		return value.Nil(), err
	}
	if callee.Kind != value.Func {
		return value.Nil(), fault(diag.Type, codeNotCallable, e.Span, "can only call functions, got %s", callee.Kind)
	}

	decl := i.arena.Stmt(ast.StmtIndex(callee.Index()))
	if e.Argc != decl.Arity {
		return value.Nil(), fault(diag.Resolution, codeArity, e.Span,
			"%s expected %d arguments but got %d", i.Stringify(callee), decl.Arity, e.Argc)
	}

	// Arguments are evaluated in the caller's scope.
	var args [ast.MaxArgs]value.Value
	for n := 0; n < int(e.Argc); n++ {
		if args[n], err = i.evaluate(e.Args[n]); err != nil {
			return value.Nil(), err
		}
	}

	return i.callFunc(&decl, args[:e.Argc], e)
}

// callFunc runs a function body under a new frame whose parent is the
// global scope. Function bodies never see the caller's locals.
func (i *Interpreter) callFunc(decl *ast.Stmt, args []value.Value, call *ast.Expr) (value.Value, error) {
	if i.maxDepth > 0 && i.depth >= i.maxDepth {
		return value.Nil(), fault(diag.Internal, codeStackOverflow, call.Span,
			"stack overflow: call depth exceeds %d", i.maxDepth)
	}
	i.depth++
	i.stats.Calls++
	if i.depth > i.stats.MaxDepth {
		i.stats.MaxDepth = i.depth
	}

	prevEnv := i.env
	i.env = prevEnv.push(ast.GlobalScope)
	defer func() {
		i.env.pop()
		i.env = prevEnv
		i.depth--
	}()

	for n, arg := range args {
		// Parameter names are distinct, so Define cannot fail here.
		_ = i.env.Define(i.arena.Name(decl.Params[n]), arg)
	}

	result, err := i.execStmts(i.arena.Scope(decl.Scope).Stmts)
	if err != nil {
		return value.Nil(), err
	}
	if result.Signal == SigReturn {
		return result.Value, nil
	}
	return value.Nil(), nil
}
