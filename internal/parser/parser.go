// Package parser implements syntax analysis for carp.
//
// It is a recursive-descent parser that writes nodes straight into an
// ast.Arena. Parsing is fail-fast: the first error aborts the whole parse
// and is returned as a *diag.Fault; there is no resynchronization.
package parser

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/diag"
	"carp-lang/internal/span"
	"carp-lang/internal/token"
	"carp-lang/internal/value"
	"fmt"
	"strconv"
)

// Parser error codes.
const (
	codeExpected        = "E2001"
	codeUnexpected      = "E2002"
	codeInvalidTarget   = "E2003"
	codeTooManyArgs     = "E2004"
	codeTooManyParams   = "E2005"
	codeUnterminated    = "E2006"
	codeIntRange        = "E2007"
	codeDuplicateParam  = "E2008"
	codeMisplacedFunc   = "E2009"
	codeMissingInitExpr = "E2010"
)

// bailout carries the first parse error up to Parse.
type bailout struct {
	fault *diag.Fault
}

// registration is a function name to bind in the global scope once the
// parse succeeds.
type registration struct {
	name string
	stmt ast.StmtIndex
}

// Parser consumes a token stream and builds nodes in an arena.
type Parser struct {
	arena  *ast.Arena
	tokens []token.Token
	pos    int

	scope ast.ScopeIndex // scope record receiving statements
	funcs []registration
}

// New creates a parser that appends to arena.
func New(arena *ast.Arena, tokens []token.Token) *Parser {
	return &Parser{arena: arena, tokens: tokens, scope: ast.GlobalScope}
}

// Parse parses the whole token stream. The statements are appended to the
// global scope and returned as a Program; declared functions are bound in
// the global scope. On error nothing is appended to the global scope.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, err = nil, b.fault
		}
	}()

	prog = &ast.Program{Root: ast.GlobalScope}
	for !p.isAtEnd() {
		if s, ok := p.declaration(); ok {
			prog.Stmts = append(prog.Stmts, s)
		}
	}

	for _, s := range prog.Stmts {
		p.arena.AppendStmt(ast.GlobalScope, s)
	}
	p.registerFuncs()
	return prog, nil
}

// ParseExpr parses a single expression that must span the whole token
// stream.
func (p *Parser) ParseExpr() (idx ast.ExprIndex, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			idx, err = ast.NoExpr, b.fault
		}
	}()

	idx = p.expression()
	if !p.isAtEnd() {
		p.errorAt(p.peek(), codeUnexpected, "unexpected token after expression")
	}
	return idx, nil
}

func (p *Parser) registerFuncs() {
	vars := p.arena.Scope(ast.GlobalScope).Vars
	for _, f := range p.funcs {
		vars[f.name] = value.Function(uint32(f.stmt))
	}
	p.funcs = nil
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

// eof synthesizes the end-of-input token for reads past the stream.
func (p *Parser) eof() token.Token {
	tok := token.Token{Kind: token.EOF}
	if n := len(p.tokens); n > 0 {
		end := p.tokens[n-1].Span.End
		tok.Span = span.Span{Start: end, End: end}
	}
	return tok
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.peek()
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

// match consumes the next token if it is one of kinds.
func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// consume returns the next token if it has the expected kind, otherwise
// it aborts the parse with msg.
func (p *Parser) consume(kind token.Kind, msg string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.peek(), codeExpected, msg)
	panic("unreachable")
}

func (p *Parser) errorAt(tok token.Token, code, msg string) {
	p.errorAtHint(tok, code, msg, "")
}

// errorAtHint aborts the parse like errorAt and attaches a fix suggestion.
func (p *Parser) errorAtHint(tok token.Token, code, msg, hint string) {
	f := diag.Faultf(diag.Parse, code, tok.Span, "%s, got %s", msg, describe(tok))
	f.Hint = hint
	panic(bailout{fault: f})
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.STRING:
		return strconv.Quote(tok.Lexeme)
	default:
		return "'" + tok.Lexeme + "'"
	}
}

func (p *Parser) spanFrom(start token.Token) span.Span {
	return span.Between(start.Span, p.previous().Span)
}

// ============================================================
// Statements
// ============================================================

// declaration parses one statement. Function declarations only register
// themselves and report ok == false.
func (p *Parser) declaration() (ast.StmtIndex, bool) {
	switch p.peek().Kind {
	case token.KW_FUNC:
		p.funcDecl()
		return ast.NoStmt, false
	case token.KW_VAR:
		return p.varDecl(), true
	default:
		return p.statement(), true
	}
}

func (p *Parser) statement() ast.StmtIndex {
	switch p.peek().Kind {
	case token.KW_IF:
		return p.ifStmt()
	case token.KW_WHILE:
		return p.whileStmt()
	case token.KW_PRINT:
		return p.printStmt()
	case token.KW_RETURN:
		return p.returnStmt()
	case token.LBRACE:
		return p.blockStmt()
	default:
		return p.exprStmt()
	}
}

// body parses the statement controlled by an if or while.
func (p *Parser) body() ast.StmtIndex {
	if p.check(token.KW_FUNC) {
		p.errorAtHint(p.peek(), codeMisplacedFunc, "function declaration cannot be the body of a control statement",
			"declare the function at top level")
	}
	s, _ := p.declaration()
	return s
}

// varDecl parses: var IDENT = expr ;
func (p *Parser) varDecl() ast.StmtIndex {
	start := p.advance() // consume 'var'
	name := p.consume(token.IDENT, "expected variable name")
	if !p.match(token.ASSIGN) {
		p.errorAtHint(p.peek(), codeMissingInitExpr, fmt.Sprintf("expected '=' after variable '%s'", name.Lexeme),
			fmt.Sprintf("write 'var %s = nil;' to declare it without a value", name.Lexeme))
	}
	init := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after variable declaration")

	return p.arena.AddStmt(ast.Stmt{
		Kind: ast.StmtVarDeclare,
		Name: p.arena.Intern(name.Lexeme),
		Expr: init,
		Then: ast.NoStmt,
		Else: ast.NoStmt,
		Span: p.spanFrom(start),
	})
}

// ifStmt parses: if ( expr ) stmt [ else stmt ]
func (p *Parser) ifStmt() ast.StmtIndex {
	start := p.advance() // consume 'if'
	p.consume(token.LPAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(token.RPAREN, "expected ')' after if condition")

	then := p.body()
	els := ast.NoStmt
	if p.match(token.KW_ELSE) {
		els = p.body()
	}

	return p.arena.AddStmt(ast.Stmt{
		Kind: ast.StmtIf,
		Expr: cond,
		Then: then,
		Else: els,
		Span: p.spanFrom(start),
	})
}

// whileStmt parses: while ( expr ) stmt
func (p *Parser) whileStmt() ast.StmtIndex {
	start := p.advance() // consume 'while'
	p.consume(token.LPAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(token.RPAREN, "expected ')' after while condition")

	return p.arena.AddStmt(ast.Stmt{
		Kind: ast.StmtWhile,
		Expr: cond,
		Then: p.body(),
		Else: ast.NoStmt,
		Span: p.spanFrom(start),
	})
}

// printStmt parses: print expr ;
func (p *Parser) printStmt() ast.StmtIndex {
	start := p.advance() // consume 'print'
	expr := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after value")
	return p.arena.AddStmt(ast.Stmt{
		Kind: ast.StmtPrint,
		Expr: expr,
		Then: ast.NoStmt,
		Else: ast.NoStmt,
		Span: p.spanFrom(start),
	})
}

// returnStmt parses: return [expr] ;
func (p *Parser) returnStmt() ast.StmtIndex {
	start := p.advance() // consume 'return'
	expr := ast.NoExpr
	if !p.check(token.SEMICOLON) {
		expr = p.expression()
	}
	p.consume(token.SEMICOLON, "expected ';' after return value")
	return p.arena.AddStmt(ast.Stmt{
		Kind: ast.StmtReturn,
		Expr: expr,
		Then: ast.NoStmt,
		Else: ast.NoStmt,
		Span: p.spanFrom(start),
	})
}

func (p *Parser) exprStmt() ast.StmtIndex {
	start := p.peek()
	expr := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after expression")
	return p.arena.AddStmt(ast.Stmt{
		Kind: ast.StmtExpression,
		Expr: expr,
		Then: ast.NoStmt,
		Else: ast.NoStmt,
		Span: p.spanFrom(start),
	})
}

// blockStmt parses: { declarations }
func (p *Parser) blockStmt() ast.StmtIndex {
	start := p.advance() // consume '{'
	scope := p.block(start)
	return p.arena.AddStmt(ast.Stmt{
		Kind:  ast.StmtBlock,
		Expr:  ast.NoExpr,
		Then:  ast.NoStmt,
		Else:  ast.NoStmt,
		Scope: scope,
		Span:  p.spanFrom(start),
	})
}

// block parses declarations up to the closing '}' into a new scope record
// nested in the current one. The opening brace has been consumed.
func (p *Parser) block(open token.Token) ast.ScopeIndex {
	scope := p.arena.AddScope(p.scope)
	outer := p.scope
	p.scope = scope

	for !p.check(token.RBRACE) {
		if p.isAtEnd() {
			p.errorAtHint(p.peek(), codeUnterminated, fmt.Sprintf("unterminated block opened at %s", open.Span.Start),
				"add '}' to close the block")
		}
		if s, ok := p.declaration(); ok {
			p.arena.AppendStmt(scope, s)
		}
	}
	p.advance() // consume '}'

	p.scope = outer
	return scope
}

// funcDecl parses: func IDENT ( params ) { block }
// The function is bound in the global scope when the parse succeeds.
func (p *Parser) funcDecl() {
	start := p.advance() // consume 'func'
	name := p.consume(token.IDENT, "expected function name")
	p.consume(token.LPAREN, "expected '(' after function name")

	stmt := ast.Stmt{
		Kind: ast.StmtFunctionDecl,
		Name: p.arena.Intern(name.Lexeme),
		Expr: ast.NoExpr,
		Then: ast.NoStmt,
		Else: ast.NoStmt,
	}
	seen := make(map[string]bool, ast.MaxArgs)
	if !p.check(token.RPAREN) {
		for {
			if int(stmt.Arity) == ast.MaxArgs {
				p.errorAt(p.peek(), codeTooManyParams, fmt.Sprintf("too many parameters (max %d)", ast.MaxArgs))
			}
			param := p.consume(token.IDENT, "expected parameter name")
			if seen[param.Lexeme] {
				p.errorAt(param, codeDuplicateParam, fmt.Sprintf("duplicate parameter '%s'", param.Lexeme))
			}
			seen[param.Lexeme] = true
			stmt.Params[stmt.Arity] = p.arena.Intern(param.Lexeme)
			stmt.Arity++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expected ')' after parameters")
	open := p.consume(token.LBRACE, "expected '{' before function body")
	stmt.Scope = p.block(open)
	stmt.Span = p.spanFrom(start)

	idx := p.arena.AddStmt(stmt)
	p.funcs = append(p.funcs, registration{name: name.Lexeme, stmt: idx})
}

// ============================================================
// Expressions, lowest to highest precedence
// ============================================================

func (p *Parser) expression() ast.ExprIndex {
	return p.assignment()
}

// assignment is right-associative: a = b = c parses as a = (b = c).
func (p *Parser) assignment() ast.ExprIndex {
	start := p.peek()
	target := p.or()

	if p.check(token.ASSIGN) {
		eq := p.advance()
		left := p.arena.Expr(target)
		if left.Kind != ast.ExprVariable {
			p.errorAtHint(eq, codeInvalidTarget, "invalid assignment target", "only a variable name can be assigned to")
		}
		rhs := p.assignment()
		return p.arena.AddExpr(ast.Expr{
			Kind:  ast.ExprAssign,
			Name:  left.Name,
			Right: rhs,
			Span:  p.spanFrom(start),
		})
	}
	return target
}

func (p *Parser) or() ast.ExprIndex {
	return p.leftAssoc(ast.ExprLogical, p.and, token.KW_OR)
}

func (p *Parser) and() ast.ExprIndex {
	return p.leftAssoc(ast.ExprLogical, p.equality, token.KW_AND)
}

func (p *Parser) equality() ast.ExprIndex {
	return p.leftAssoc(ast.ExprBinary, p.comparison, token.NEQ, token.EQ)
}

func (p *Parser) comparison() ast.ExprIndex {
	return p.leftAssoc(ast.ExprBinary, p.term, token.GT, token.GTE, token.LT, token.LTE)
}

func (p *Parser) term() ast.ExprIndex {
	return p.leftAssoc(ast.ExprBinary, p.factor, token.MINUS, token.PLUS)
}

func (p *Parser) factor() ast.ExprIndex {
	return p.leftAssoc(ast.ExprBinary, p.unary, token.SLASH, token.STAR)
}

// leftAssoc parses one left-associative precedence level: operands come
// from next, and each operator in ops folds into a left-deepening node.
func (p *Parser) leftAssoc(kind ast.ExprKind, next func() ast.ExprIndex, ops ...token.Kind) ast.ExprIndex {
	start := p.peek()
	left := next()
	for p.match(ops...) {
		op := p.previous().Kind
		right := next()
		left = p.arena.AddExpr(ast.Expr{
			Kind:  kind,
			Op:    op,
			Left:  left,
			Right: right,
			Span:  p.spanFrom(start),
		})
	}
	return left
}

func (p *Parser) unary() ast.ExprIndex {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		operand := p.unary()
		return p.arena.AddExpr(ast.Expr{
			Kind:  ast.ExprUnary,
			Op:    op.Kind,
			Right: operand,
			Span:  p.spanFrom(op),
		})
	}
	return p.call()
}

// call parses a primary followed by any number of argument lists, so
// f(1)(2) is a call of the result of f(1).
func (p *Parser) call() ast.ExprIndex {
	start := p.peek()
	expr := p.primary()

	for p.match(token.LPAREN) {
		call := ast.Expr{Kind: ast.ExprCall, Left: expr}
		if !p.check(token.RPAREN) {
			for {
				if int(call.Argc) == ast.MaxArgs {
					p.errorAt(p.peek(), codeTooManyArgs, fmt.Sprintf("too many arguments (max %d)", ast.MaxArgs))
				}
				call.Args[call.Argc] = p.expression()
				call.Argc++
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		p.consume(token.RPAREN, "expected ')' after arguments")
		call.Span = p.spanFrom(start)
		expr = p.arena.AddExpr(call)
	}
	return expr
}

func (p *Parser) primary() ast.ExprIndex {
	tok := p.peek()

	switch tok.Kind {
	case token.KW_FALSE:
		p.advance()
		return p.literal(tok, value.Boolean(false))
	case token.KW_TRUE:
		p.advance()
		return p.literal(tok, value.Boolean(true))
	case token.KW_NIL:
		p.advance()
		return p.literal(tok, value.Nil())

	case token.IDENT:
		p.advance()
		return p.arena.AddExpr(ast.Expr{
			Kind: ast.ExprVariable,
			Name: p.arena.Intern(tok.Lexeme),
			Span: tok.Span,
		})

	case token.STRING:
		p.advance()
		return p.literal(tok, value.Str(uint32(p.arena.Intern(tok.Lexeme))))

	case token.FLOAT:
		p.advance()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorAt(tok, codeUnexpected, "malformed number literal")
		}
		return p.literal(tok, value.Number(f))

	case token.INT:
		p.advance()
		i, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.errorAt(tok, codeIntRange, "integer literal out of range")
		}
		return p.literal(tok, value.Integer(i))

	case token.LPAREN:
		p.advance()
		inner := p.expression()
		p.consume(token.RPAREN, "expected ')' after expression")
		return p.arena.AddExpr(ast.Expr{
			Kind:  ast.ExprGrouping,
			Right: inner,
			Span:  p.spanFrom(tok),
		})
	}

	p.errorAt(tok, codeUnexpected, "expected expression")
	panic("unreachable")
}

func (p *Parser) literal(tok token.Token, v value.Value) ast.ExprIndex {
	return p.arena.AddExpr(ast.Expr{Kind: ast.ExprLiteral, Value: v, Span: tok.Span})
}
