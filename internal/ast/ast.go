// Package ast defines the arena-backed syntax tree for carp.
//
// Nodes never point at each other. Expressions, statements, scope records
// and interned strings live in append-only slices owned by an Arena, and
// every cross reference is an index into one of those slices. Indices are
// stable for the lifetime of the Arena.
package ast

import (
	"carp-lang/internal/span"
	"carp-lang/internal/token"
	"carp-lang/internal/value"
	"math"
)

// MaxArgs is the maximum number of call arguments and function parameters.
const MaxArgs = 4

// Index types. Each names a slot in one Arena slice.
type (
	ExprIndex   uint32
	StmtIndex   uint32
	ScopeIndex  int32
	StringIndex uint32
)

// Sentinels for absent optional children.
const (
	NoExpr  ExprIndex  = math.MaxUint32
	NoStmt  StmtIndex  = math.MaxUint32
	NoScope ScopeIndex = -1

	// GlobalScope is the root scope record, created with the Arena.
	GlobalScope ScopeIndex = 0
)

// ============================================================
// Expressions
// ============================================================

// ExprKind discriminates Expr.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLiteral
	ExprUnary
	ExprBinary
	ExprLogical
	ExprGrouping
	ExprVariable
	ExprAssign
	ExprCall
)

var exprKindNames = [...]string{
	ExprInvalid:  "Invalid",
	ExprLiteral:  "Literal",
	ExprUnary:    "Unary",
	ExprBinary:   "Binary",
	ExprLogical:  "Logical",
	ExprGrouping: "Grouping",
	ExprVariable: "Variable",
	ExprAssign:   "Assign",
	ExprCall:     "Call",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// Expr is a single expression node. Which fields are meaningful depends
// on Kind:
//
//	Literal   Value
//	Unary     Op, Right (operand)
//	Binary    Op, Left, Right
//	Logical   Op (KW_AND / KW_OR), Left, Right
//	Grouping  Right (inner)
//	Variable  Name
//	Assign    Name, Right (value)
//	Call      Left (callee), Args[:Argc]
type Expr struct {
	Kind  ExprKind
	Op    token.Kind
	Argc  uint8
	Name  StringIndex
	Value value.Value
	Left  ExprIndex
	Right ExprIndex
	Args  [MaxArgs]ExprIndex
	Span  span.Span
}

// Children returns the indices the node refers to, in evaluation order.
func (e *Expr) Children() []ExprIndex {
	switch e.Kind {
	case ExprUnary, ExprGrouping, ExprAssign:
		return []ExprIndex{e.Right}
	case ExprBinary, ExprLogical:
		return []ExprIndex{e.Left, e.Right}
	case ExprCall:
		out := make([]ExprIndex, 0, 1+int(e.Argc))
		out = append(out, e.Left)
		return append(out, e.Args[:e.Argc]...)
	default:
		return nil
	}
}

// ============================================================
// Statements
// ============================================================

// StmtKind discriminates Stmt.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtExpression
	StmtPrint
	StmtVarDeclare
	StmtBlock
	StmtIf
	StmtWhile
	StmtFunctionDecl
	StmtReturn
)

var stmtKindNames = [...]string{
	StmtInvalid:      "Invalid",
	StmtExpression:   "ExpressionStmt",
	StmtPrint:        "Print",
	StmtVarDeclare:   "VarDeclare",
	StmtBlock:        "Block",
	StmtIf:           "If",
	StmtWhile:        "While",
	StmtFunctionDecl: "FunctionDecl",
	StmtReturn:       "Return",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Unknown"
}

// Stmt is a single statement node. Which fields are meaningful depends
// on Kind:
//
//	ExpressionStmt  Expr
//	Print           Expr
//	VarDeclare      Name, Expr (initializer)
//	Block           Scope
//	If              Expr (condition), Then, Else (or NoStmt)
//	While           Expr (condition), Then (body)
//	FunctionDecl    Name, Params[:Arity], Scope (body)
//	Return          Expr (or NoExpr)
type Stmt struct {
	Kind   StmtKind
	Arity  uint8
	Name   StringIndex
	Expr   ExprIndex
	Then   StmtIndex
	Else   StmtIndex
	Scope  ScopeIndex
	Params [MaxArgs]StringIndex
	Span   span.Span
}

// ============================================================
// Scope records
// ============================================================

// Scope is a lexical environment record: the statements of a block or
// function body plus the variables bound in it.
type Scope struct {
	Parent ScopeIndex
	Stmts  []StmtIndex
	Vars   map[string]value.Value
}

// Program is the result of one parse: the statements appended to the
// global scope by that parse, in source order.
type Program struct {
	Root  ScopeIndex
	Stmts []StmtIndex
}
