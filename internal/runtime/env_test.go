package runtime

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/value"
	"testing"
)

func TestEnvDefineAndGet(t *testing.T) {
	arena := ast.NewArena()
	global := NewEnv(arena, ast.GlobalScope)
	if err := global.Define("x", value.Integer(1)); err != nil {
		t.Fatal(err)
	}
	if err := global.Define("x", value.Integer(2)); err == nil {
		t.Error("expected redeclaration error")
	}
	v, ok := global.Get("x")
	if !ok || v.AsInt() != 1 {
		t.Errorf("expected x = 1, got %v %v", v, ok)
	}
	if _, ok := global.Get("missing"); ok {
		t.Error("expected missing lookup to fail")
	}
}

func TestEnvChain(t *testing.T) {
	arena := ast.NewArena()
	global := NewEnv(arena, ast.GlobalScope)
	_ = global.Define("x", value.Integer(1))

	inner := global.push(ast.GlobalScope)
	defer inner.pop()

	if v, _ := inner.Get("x"); v.AsInt() != 1 {
		t.Errorf("expected outer x, got %d", v.AsInt())
	}
	if err := inner.Define("x", value.Integer(2)); err != nil {
		t.Fatalf("shadowing should be allowed: %v", err)
	}
	if v, _ := inner.Get("x"); v.AsInt() != 2 {
		t.Errorf("expected shadowed x, got %d", v.AsInt())
	}
	if v, _ := global.Get("x"); v.AsInt() != 1 {
		t.Errorf("global x changed to %d", v.AsInt())
	}
}

func TestEnvSetNearest(t *testing.T) {
	arena := ast.NewArena()
	global := NewEnv(arena, ast.GlobalScope)
	_ = global.Define("y", value.Integer(1))

	inner := global.push(ast.GlobalScope)
	defer inner.pop()

	if err := inner.Set("y", value.Integer(9)); err != nil {
		t.Fatal(err)
	}
	if v, _ := global.Get("y"); v.AsInt() != 9 {
		t.Errorf("expected assignment to reach global, got %d", v.AsInt())
	}
	if err := inner.Set("nope", value.Nil()); err == nil {
		t.Error("expected error assigning an undefined name")
	}
	if _, ok := inner.Get("nope"); ok {
		t.Error("Set must not create bindings")
	}
}
