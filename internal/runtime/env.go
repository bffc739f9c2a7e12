package runtime

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/value"
	"fmt"
)

// Env is a view of one scope record in the arena. Lookups walk the
// record's Parent links up to the global scope.
type Env struct {
	arena *ast.Arena
	scope ast.ScopeIndex
}

// NewEnv returns the environment rooted at scope.
func NewEnv(arena *ast.Arena, scope ast.ScopeIndex) Env {
	return Env{arena: arena, scope: scope}
}

// Scope returns the index of the innermost record.
func (e Env) Scope() ast.ScopeIndex { return e.scope }

// Define binds name in the innermost record. It fails if the name is
// already bound in that exact record; outer bindings may be shadowed.
func (e Env) Define(name string, v value.Value) error {
	vars := e.arena.Scope(e.scope).Vars
	if _, exists := vars[name]; exists {
		return fmt.Errorf("variable '%s' already declared in this scope", name)
	}
	vars[name] = v
	return nil
}

// Get looks up a variable by walking the scope chain.
func (e Env) Get(name string) (value.Value, bool) {
	for s := e.scope; s != ast.NoScope; s = e.arena.Scope(s).Parent {
		if v, exists := e.arena.Scope(s).Vars[name]; exists {
			return v, true
		}
	}
	return value.Nil(), false
}

// Set overwrites the nearest existing binding of name. It never creates
// one.
func (e Env) Set(name string, v value.Value) error {
	for s := e.scope; s != ast.NoScope; s = e.arena.Scope(s).Parent {
		vars := e.arena.Scope(s).Vars
		if _, exists := vars[name]; exists {
			vars[name] = v
			return nil
		}
	}
	return fmt.Errorf("undefined variable '%s'", name)
}

// push appends an activation frame whose parent is parent and returns an
// Env for it. The caller must pop it before any frame pushed earlier.
func (e Env) push(parent ast.ScopeIndex) Env {
	return Env{arena: e.arena, scope: e.arena.PushScope(parent)}
}

func (e Env) pop() {
	e.arena.PopScope(e.scope)
}
