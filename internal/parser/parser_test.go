package parser

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/diag"
	"carp-lang/internal/lexer"
	"carp-lang/internal/value"
	"encoding/json"
	"strings"
	"testing"
)

// helper: parse source and return the arena and program, failing on any error
func parseOK(t *testing.T, source string) (*ast.Arena, *ast.Program) {
	t.Helper()
	tokens, err := lexer.Scan(source, "test.carp")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	arena := ast.NewArena()
	prog, err := New(arena, tokens).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return arena, prog
}

// helper: parse source that must fail and return the fault
func parseErr(t *testing.T, source string) *diag.Fault {
	t.Helper()
	tokens, err := lexer.Scan(source, "test.carp")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = New(ast.NewArena(), tokens).Parse()
	if err == nil {
		t.Fatalf("expected parse error for %q", source)
	}
	f, ok := diag.AsFault(err)
	if !ok {
		t.Fatalf("expected *diag.Fault, got %T", err)
	}
	if f.Category != diag.Parse {
		t.Errorf("expected parse fault, got %s", f.Category)
	}
	return f
}

// helper: parse a single expression and print it in prefix form
func printExpr(t *testing.T, source string) string {
	t.Helper()
	tokens, err := lexer.Scan(source, "test.carp")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	arena := ast.NewArena()
	expr, err := New(arena, tokens).ParseExpr()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return ast.Print(arena, expr)
}

func expectPrinted(t *testing.T, source, expected string) {
	t.Helper()
	if got := printExpr(t, source); got != expected {
		t.Errorf("%s: expected %s, got %s", source, expected, got)
	}
}

func TestParseVarDecl(t *testing.T) {
	arena, prog := parseOK(t, `var x = 42;`)
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	decl := arena.Stmt(prog.Stmts[0])
	if decl.Kind != ast.StmtVarDeclare {
		t.Fatalf("expected VarDeclare, got %s", decl.Kind)
	}
	if name := arena.Name(decl.Name); name != "x" {
		t.Errorf("expected name 'x', got %q", name)
	}
	init := arena.Expr(decl.Expr)
	if init.Kind != ast.ExprLiteral || init.Value.Kind != value.Int || init.Value.AsInt() != 42 {
		t.Errorf("expected literal 42, got %s", ast.Print(arena, decl.Expr))
	}
}

func TestStatementsAppendedToGlobalScope(t *testing.T) {
	arena, prog := parseOK(t, `print 1; print 2;`)
	global := arena.Scope(ast.GlobalScope).Stmts
	if len(global) != 2 || global[0] != prog.Stmts[0] || global[1] != prog.Stmts[1] {
		t.Errorf("global scope statements %v do not match program %v", global, prog.Stmts)
	}
}

func TestPrecedence(t *testing.T) {
	expectPrinted(t, `1 + 2 * 3`, "(+ 1 (* 2 3))")
	expectPrinted(t, `(1 + 2) * 3`, "(* (group (+ 1 2)) 3)")
	expectPrinted(t, `-123 * (45.67)`, "(* (- 123) (group 45.67))")
	expectPrinted(t, `a < b == c >= d`, "(== (< a b) (>= c d))")
	expectPrinted(t, `a or b and c`, "(or a (and b c))")
	expectPrinted(t, `!!x`, "(! (! x))")
}

func TestLeftAssociative(t *testing.T) {
	expectPrinted(t, `1 - 2 - 3`, "(- (- 1 2) 3)")
	expectPrinted(t, `8 / 4 / 2`, "(/ (/ 8 4) 2)")
	expectPrinted(t, `a or b or c`, "(or (or a b) c)")
}

func TestAssignRightAssociative(t *testing.T) {
	expectPrinted(t, `a = b = 1`, "(= a (= b 1))")
}

func TestLiterals(t *testing.T) {
	expectPrinted(t, `"hi"`, `"hi"`)
	expectPrinted(t, `true`, "true")
	expectPrinted(t, `nil`, "nil")
	expectPrinted(t, `2.5`, "2.5")
}

func TestCallChain(t *testing.T) {
	expectPrinted(t, `f(1, 2)(3)`, "(call (call f 1 2) 3)")
	expectPrinted(t, `f()`, "(call f)")
}

func TestInvalidAssignTarget(t *testing.T) {
	f := parseErr(t, `1 = 2;`)
	if f.Code != codeInvalidTarget {
		t.Errorf("expected %s, got %s", codeInvalidTarget, f.Code)
	}
	if f.Hint != "only a variable name can be assigned to" {
		t.Errorf("unexpected hint %q", f.Hint)
	}
	parseErr(t, `(a) = 2;`)
	parseErr(t, `a + b = 2;`)
}

func TestTooManyArguments(t *testing.T) {
	f := parseErr(t, `f(1, 2, 3, 4, 5);`)
	if f.Code != codeTooManyArgs {
		t.Errorf("expected %s, got %s", codeTooManyArgs, f.Code)
	}
	parseOK(t, `f(1, 2, 3, 4);`)
}

func TestTooManyParameters(t *testing.T) {
	f := parseErr(t, `func f(a, b, c, d, e) {}`)
	if f.Code != codeTooManyParams {
		t.Errorf("expected %s, got %s", codeTooManyParams, f.Code)
	}
}

func TestDuplicateParameter(t *testing.T) {
	f := parseErr(t, `func f(a, a) {}`)
	if f.Code != codeDuplicateParam {
		t.Errorf("expected %s, got %s", codeDuplicateParam, f.Code)
	}
}

func TestUnterminatedBlock(t *testing.T) {
	f := parseErr(t, "{\n  print 1;\n")
	if f.Code != codeUnterminated {
		t.Errorf("expected %s, got %s", codeUnterminated, f.Code)
	}
	if !strings.Contains(f.Message, "opened at 1:1") {
		t.Errorf("expected opening brace location in %q", f.Message)
	}
	if f.Hint != "add '}' to close the block" {
		t.Errorf("unexpected hint %q", f.Hint)
	}
	if !strings.HasSuffix(f.String(), "(hint: add '}' to close the block)") {
		t.Errorf("expected hint in rendered diagnostic, got %q", f.String())
	}
}

func TestMissingSemicolon(t *testing.T) {
	f := parseErr(t, `print 1`)
	if f.Code != codeExpected {
		t.Errorf("expected %s, got %s", codeExpected, f.Code)
	}
	if f.Hint != "" {
		t.Errorf("expected no hint, got %q", f.Hint)
	}
	if !strings.Contains(f.Message, "end of input") {
		t.Errorf("expected end of input in %q", f.Message)
	}
}

func TestUnexpectedToken(t *testing.T) {
	f := parseErr(t, `print ;`)
	if f.Code != codeUnexpected {
		t.Errorf("expected %s, got %s", codeUnexpected, f.Code)
	}
	parseErr(t, `for (;;) {}`)
	parseErr(t, `print this;`)
}

func TestVarRequiresInitializer(t *testing.T) {
	f := parseErr(t, `var x;`)
	if f.Code != codeMissingInitExpr {
		t.Errorf("expected %s, got %s", codeMissingInitExpr, f.Code)
	}
	if f.Hint != "write 'var x = nil;' to declare it without a value" {
		t.Errorf("unexpected hint %q", f.Hint)
	}
}

func TestFuncNotAllowedAsBody(t *testing.T) {
	f := parseErr(t, `if (true) func f() {}`)
	if f.Code != codeMisplacedFunc {
		t.Errorf("expected %s, got %s", codeMisplacedFunc, f.Code)
	}
	if f.Hint != "declare the function at top level" {
		t.Errorf("unexpected hint %q", f.Hint)
	}
}

func TestIntegerOutOfRange(t *testing.T) {
	f := parseErr(t, `print 99999999999999999999;`)
	if f.Code != codeIntRange {
		t.Errorf("expected %s, got %s", codeIntRange, f.Code)
	}
}

func TestFunctionRegisteredGlobally(t *testing.T) {
	arena, prog := parseOK(t, `
func add(a, b) {
  return a + b;
}
print add(1, 2);
`)
	if len(prog.Stmts) != 1 {
		t.Fatalf("function declaration should not emit a statement, got %d", len(prog.Stmts))
	}
	fn, ok := arena.Scope(ast.GlobalScope).Vars["add"]
	if !ok || fn.Kind != value.Func {
		t.Fatalf("expected 'add' bound to a function, got %v", fn)
	}
	decl := arena.Stmt(ast.StmtIndex(fn.Index()))
	if decl.Kind != ast.StmtFunctionDecl || decl.Arity != 2 {
		t.Fatalf("unexpected declaration %s arity %d", decl.Kind, decl.Arity)
	}
	if arena.Name(decl.Params[0]) != "a" || arena.Name(decl.Params[1]) != "b" {
		t.Errorf("unexpected params %q %q", arena.Name(decl.Params[0]), arena.Name(decl.Params[1]))
	}
	body := arena.Scope(decl.Scope)
	if len(body.Stmts) != 1 || arena.Stmt(body.Stmts[0]).Kind != ast.StmtReturn {
		t.Errorf("expected body with one return statement")
	}
}

func TestFailedParseRegistersNothing(t *testing.T) {
	tokens, err := lexer.Scan(`func f() {} print 1 +;`, "test.carp")
	if err != nil {
		t.Fatal(err)
	}
	arena := ast.NewArena()
	if _, err := New(arena, tokens).Parse(); err == nil {
		t.Fatal("expected parse error")
	}
	if len(arena.Scope(ast.GlobalScope).Vars) != 0 {
		t.Errorf("expected no global bindings, got %v", arena.Scope(ast.GlobalScope).Vars)
	}
	if len(arena.Scope(ast.GlobalScope).Stmts) != 0 {
		t.Errorf("expected no global statements")
	}
}

func TestNestedBlockScopes(t *testing.T) {
	arena, prog := parseOK(t, `{ var a = 1; { var b = 2; } }`)
	outer := arena.Stmt(prog.Stmts[0])
	if outer.Kind != ast.StmtBlock {
		t.Fatalf("expected Block, got %s", outer.Kind)
	}
	outerScope := arena.Scope(outer.Scope)
	if outerScope.Parent != ast.GlobalScope {
		t.Errorf("outer block parent: expected global, got %d", outerScope.Parent)
	}
	if len(outerScope.Stmts) != 2 {
		t.Fatalf("expected 2 statements in outer block, got %d", len(outerScope.Stmts))
	}
	inner := arena.Stmt(outerScope.Stmts[1])
	if arena.Scope(inner.Scope).Parent != outer.Scope {
		t.Errorf("inner block parent: expected %d, got %d", outer.Scope, arena.Scope(inner.Scope).Parent)
	}
}

func TestIfElseStructure(t *testing.T) {
	arena, prog := parseOK(t, `if (x) print 1; else if (y) print 2; else print 3;`)
	s := arena.Stmt(prog.Stmts[0])
	if s.Kind != ast.StmtIf || s.Else == ast.NoStmt {
		t.Fatalf("expected if with else")
	}
	nested := arena.Stmt(s.Else)
	if nested.Kind != ast.StmtIf || nested.Else == ast.NoStmt {
		t.Errorf("expected else-if chain")
	}
}

func TestReturnWithoutValue(t *testing.T) {
	arena, prog := parseOK(t, `return;`)
	if s := arena.Stmt(prog.Stmts[0]); s.Kind != ast.StmtReturn || s.Expr != ast.NoExpr {
		t.Errorf("expected bare return")
	}
}

func TestParseExprTrailingInput(t *testing.T) {
	tokens, _ := lexer.Scan(`1 + 2 3`, "test.carp")
	if _, err := New(ast.NewArena(), tokens).ParseExpr(); err == nil {
		t.Error("expected error for trailing input")
	}
}

func TestProgramJSON(t *testing.T) {
	arena, prog := parseOK(t, `
func inc(n) { return n + 1; }
var x = inc(1);
`)
	data, err := json.Marshal(ast.ProgramToMap(arena, prog))
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"kind":"VarDeclare"`, `"kind":"Call"`, `"inc":{`, `"params":["n"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}
