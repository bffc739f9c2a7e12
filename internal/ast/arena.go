package ast

import (
	"carp-lang/internal/value"
	"fmt"
)

// Arena owns every node of one program. It is append-only, with one
// exception: activation frames pushed by the interpreter with PushScope
// are removed again with PopScope, strictly last-in first-out.
type Arena struct {
	exprs    []Expr
	stmts    []Stmt
	scopes   []Scope
	strings  []string
	interned map[string]StringIndex
}

// NewArena returns an arena holding only the empty global scope.
func NewArena() *Arena {
	a := &Arena{interned: make(map[string]StringIndex)}
	a.scopes = append(a.scopes, Scope{Parent: NoScope, Vars: make(map[string]value.Value)})
	return a
}

// ---- expressions ----

// AddExpr appends e and returns its index. Every child index must already
// exist.
func (a *Arena) AddExpr(e Expr) ExprIndex {
	for _, c := range e.Children() {
		if int(c) >= len(a.exprs) {
			panic(fmt.Sprintf("ast: %s node refers to expression %d, arena has %d", e.Kind, c, len(a.exprs)))
		}
	}
	a.exprs = append(a.exprs, e)
	return ExprIndex(len(a.exprs) - 1)
}

// Expr returns a copy of the expression at i.
func (a *Arena) Expr(i ExprIndex) Expr {
	return a.exprs[i]
}

// ExprCount returns the number of expression nodes.
func (a *Arena) ExprCount() int { return len(a.exprs) }

// ---- statements ----

// AddStmt appends s and returns its index.
func (a *Arena) AddStmt(s Stmt) StmtIndex {
	a.stmts = append(a.stmts, s)
	return StmtIndex(len(a.stmts) - 1)
}

// Stmt returns a copy of the statement at i.
func (a *Arena) Stmt(i StmtIndex) Stmt {
	return a.stmts[i]
}

// StmtCount returns the number of statement nodes.
func (a *Arena) StmtCount() int { return len(a.stmts) }

// ---- scopes ----

// AddScope appends an empty scope record with the given parent.
func (a *Arena) AddScope(parent ScopeIndex) ScopeIndex {
	a.scopes = append(a.scopes, Scope{Parent: parent, Vars: make(map[string]value.Value)})
	return ScopeIndex(len(a.scopes) - 1)
}

// Scope returns the record at i. The pointer is only valid until the next
// AddScope or PushScope; do not hold on to it.
func (a *Arena) Scope(i ScopeIndex) *Scope {
	return &a.scopes[i]
}

// AppendStmt adds a statement to the end of a scope's statement list.
func (a *Arena) AppendStmt(scope ScopeIndex, s StmtIndex) {
	a.scopes[scope].Stmts = append(a.scopes[scope].Stmts, s)
}

// ScopeCount returns the number of scope records, including live frames.
func (a *Arena) ScopeCount() int { return len(a.scopes) }

// PushScope appends an activation frame and returns its index.
func (a *Arena) PushScope(parent ScopeIndex) ScopeIndex {
	return a.AddScope(parent)
}

// PopScope removes the frame at i, which must be the most recently pushed
// record.
func (a *Arena) PopScope(i ScopeIndex) {
	if int(i) != len(a.scopes)-1 {
		panic(fmt.Sprintf("ast: pop of scope %d, top is %d", i, len(a.scopes)-1))
	}
	a.scopes[i] = Scope{}
	a.scopes = a.scopes[:i]
}

// ---- strings ----

// Intern returns the index of s in the string table, adding it if needed.
func (a *Arena) Intern(s string) StringIndex {
	if idx, ok := a.interned[s]; ok {
		return idx
	}
	a.strings = append(a.strings, s)
	idx := StringIndex(len(a.strings) - 1)
	a.interned[s] = idx
	return idx
}

// String returns entry idx of the string table.
func (a *Arena) String(idx uint32) string {
	return a.strings[idx]
}

// Name is String for a StringIndex.
func (a *Arena) Name(idx StringIndex) string {
	return a.strings[idx]
}

// StringCount returns the number of interned strings.
func (a *Arena) StringCount() int { return len(a.strings) }
