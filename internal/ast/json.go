package ast

import (
	"carp-lang/internal/span"
	"carp-lang/internal/value"
)

// ProgramToMap converts a parsed program to a map suitable for JSON
// serialization. Every node becomes a tagged object with a "kind" field.
func ProgramToMap(a *Arena, prog *Program) map[string]interface{} {
	body := make([]interface{}, len(prog.Stmts))
	for i, s := range prog.Stmts {
		body[i] = StmtToMap(a, s)
	}
	return map[string]interface{}{
		"kind":      "Program",
		"body":      body,
		"functions": functionsMap(a),
	}
}

// StmtToMap converts the statement at i and its children.
func StmtToMap(a *Arena, i StmtIndex) map[string]interface{} {
	if i == NoStmt {
		return nil
	}
	s := a.Stmt(i)
	switch s.Kind {
	case StmtExpression, StmtPrint:
		return m(s.Kind.String(), s.Span, "expr", ExprToMap(a, s.Expr))
	case StmtVarDeclare:
		return m("VarDeclare", s.Span, "name", a.Name(s.Name), "init", ExprToMap(a, s.Expr))
	case StmtBlock:
		return m("Block", s.Span, "scope", int(s.Scope), "stmts", scopeStmts(a, s.Scope))
	case StmtIf:
		result := m("If", s.Span,
			"condition", ExprToMap(a, s.Expr),
			"then", StmtToMap(a, s.Then))
		if s.Else != NoStmt {
			result["else"] = StmtToMap(a, s.Else)
		}
		return result
	case StmtWhile:
		return m("While", s.Span,
			"condition", ExprToMap(a, s.Expr),
			"body", StmtToMap(a, s.Then))
	case StmtFunctionDecl:
		params := make([]string, s.Arity)
		for p := range params {
			params[p] = a.Name(s.Params[p])
		}
		return m("FunctionDecl", s.Span,
			"name", a.Name(s.Name),
			"params", params,
			"scope", int(s.Scope),
			"body", scopeStmts(a, s.Scope))
	case StmtReturn:
		result := m("Return", s.Span)
		if s.Expr != NoExpr {
			result["value"] = ExprToMap(a, s.Expr)
		}
		return result
	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ExprToMap converts the expression at i and its children.
func ExprToMap(a *Arena, i ExprIndex) map[string]interface{} {
	if i == NoExpr {
		return nil
	}
	e := a.Expr(i)
	switch e.Kind {
	case ExprLiteral:
		return m("Literal", e.Span, "type", e.Value.Kind.String(), "value", literalJSON(a, e.Value))
	case ExprUnary:
		return m("Unary", e.Span, "op", e.Op.String(), "operand", ExprToMap(a, e.Right))
	case ExprBinary, ExprLogical:
		return m(e.Kind.String(), e.Span,
			"op", e.Op.String(),
			"left", ExprToMap(a, e.Left),
			"right", ExprToMap(a, e.Right))
	case ExprGrouping:
		return m("Grouping", e.Span, "inner", ExprToMap(a, e.Right))
	case ExprVariable:
		return m("Variable", e.Span, "name", a.Name(e.Name))
	case ExprAssign:
		return m("Assign", e.Span, "name", a.Name(e.Name), "value", ExprToMap(a, e.Right))
	case ExprCall:
		args := make([]interface{}, e.Argc)
		for n := range args {
			args[n] = ExprToMap(a, e.Args[n])
		}
		return m("Call", e.Span, "callee", ExprToMap(a, e.Left), "args", args)
	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"line":   s.Start.Line,
		"column": s.Start.Column,
		"offset": s.Start.Offset,
	}
}

func scopeStmts(a *Arena, scope ScopeIndex) []interface{} {
	stmts := a.Scope(scope).Stmts
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = StmtToMap(a, s)
	}
	return result
}

// functionsMap lists the functions registered in the global scope, keyed
// by name. Their declarations are not part of any statement list.
func functionsMap(a *Arena) map[string]interface{} {
	result := map[string]interface{}{}
	for name, v := range a.Scope(GlobalScope).Vars {
		if v.Kind == value.Func {
			result[name] = StmtToMap(a, StmtIndex(v.Index()))
		}
	}
	return result
}

func literalJSON(a *Arena, v value.Value) interface{} {
	switch v.Kind {
	case value.Bool:
		return v.AsBool()
	case value.Int:
		return v.AsInt()
	case value.Float:
		return v.AsFloat()
	case value.String:
		return a.String(v.Index())
	default:
		return nil
	}
}
