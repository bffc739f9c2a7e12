package runtime

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/token"
	"carp-lang/internal/value"
)

// Stringify renders v the way print does. Functions render with the name
// they were declared under.
func (i *Interpreter) Stringify(v value.Value) string {
	if v.Kind == value.Func {
		decl := i.arena.Stmt(ast.StmtIndex(v.Index()))
		return "<func " + i.arena.Name(decl.Name) + ">"
	}
	return value.Format(v, i.arena)
}

// IsTruthy reports the truthiness of v.
func (i *Interpreter) IsTruthy(v value.Value) bool {
	return value.Truthy(v, i.arena)
}

// errDivZero is returned by intArith for integer division by zero.
type errDivZero struct{}

// arith applies an arithmetic or comparison operator to two numbers. The
// result is a Float if either operand is one.
func arith(op token.Kind, a, b value.Value) (value.Value, bool, error) {
	if a.Kind == value.Float || b.Kind == value.Float {
		v, ok := floatArith(op, a.Float64(), b.Float64())
		return v, ok, nil
	}
	return intArith(op, a.AsInt(), b.AsInt())
}

func floatArith(op token.Kind, x, y float64) (value.Value, bool) {
	switch op {
	case token.PLUS:
		return value.Number(x + y), true
	case token.MINUS:
		return value.Number(x - y), true
	case token.STAR:
		return value.Number(x * y), true
	case token.SLASH:
		return value.Number(x / y), true
	case token.GT:
		return value.Boolean(x > y), true
	case token.GTE:
		return value.Boolean(x >= y), true
	case token.LT:
		return value.Boolean(x < y), true
	case token.LTE:
		return value.Boolean(x <= y), true
	case token.EQ:
		return value.Boolean(x == y), true
	case token.NEQ:
		return value.Boolean(x != y), true
	}
	return value.Nil(), false
}

// intArith uses Go's int64 arithmetic, which wraps on overflow.
func intArith(op token.Kind, x, y int64) (value.Value, bool, error) {
	switch op {
	case token.PLUS:
		return value.Integer(x + y), true, nil
	case token.MINUS:
		return value.Integer(x - y), true, nil
	case token.STAR:
		return value.Integer(x * y), true, nil
	case token.SLASH:
		if y == 0 {
			return value.Nil(), true, errDivZero{}
		}
		return value.Integer(x / y), true, nil
	case token.GT:
		return value.Boolean(x > y), true, nil
	case token.GTE:
		return value.Boolean(x >= y), true, nil
	case token.LT:
		return value.Boolean(x < y), true, nil
	case token.LTE:
		return value.Boolean(x <= y), true, nil
	case token.EQ:
		return value.Boolean(x == y), true, nil
	case token.NEQ:
		return value.Boolean(x != y), true, nil
	}
	return value.Nil(), false, nil
}

func (errDivZero) Error() string { return "division by zero" }
