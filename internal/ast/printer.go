package ast

import (
	"carp-lang/internal/value"
	"strconv"
	"strings"
)

// Print renders the expression at i in parenthesized prefix form, e.g.
// "(* (- 123) (group 45.67))". The output is for debugging only and is
// not meant to be parsed back.
func Print(a *Arena, i ExprIndex) string {
	var sb strings.Builder
	printExpr(&sb, a, i)
	return sb.String()
}

func printExpr(sb *strings.Builder, a *Arena, i ExprIndex) {
	e := a.Expr(i)
	switch e.Kind {
	case ExprLiteral:
		if e.Value.Kind == value.String {
			sb.WriteString(strconv.Quote(a.String(e.Value.Index())))
		} else {
			sb.WriteString(value.Format(e.Value, a))
		}
	case ExprVariable:
		sb.WriteString(a.Name(e.Name))
	case ExprUnary:
		parenthesize(sb, a, e.Op.String(), e.Right)
	case ExprBinary, ExprLogical:
		parenthesize(sb, a, e.Op.String(), e.Left, e.Right)
	case ExprGrouping:
		parenthesize(sb, a, "group", e.Right)
	case ExprAssign:
		sb.WriteString("(= ")
		sb.WriteString(a.Name(e.Name))
		sb.WriteByte(' ')
		printExpr(sb, a, e.Right)
		sb.WriteByte(')')
	case ExprCall:
		args := append([]ExprIndex{e.Left}, e.Args[:e.Argc]...)
		parenthesize(sb, a, "call", args...)
	default:
		sb.WriteString("<invalid>")
	}
}

func parenthesize(sb *strings.Builder, a *Arena, name string, exprs ...ExprIndex) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteByte(' ')
		printExpr(sb, a, e)
	}
	sb.WriteByte(')')
}
