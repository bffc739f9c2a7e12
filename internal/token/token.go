// Package token defines the token kinds produced by the lexer and consumed
// by the parser.
package token

import (
	"carp-lang/internal/span"
	"fmt"
)

// Kind represents the type of a token.
type Kind uint8

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Single-character punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	MINUS     // -
	PLUS      // +
	SEMICOLON // ;
	SLASH     // /
	STAR      // *

	// One or two character operators
	BANG   // !
	NEQ    // !=
	ASSIGN // =
	EQ     // ==
	GT     // >
	GTE    // >=
	LT     // <
	LTE    // <=

	// Literals
	IDENT  // identifiers: x, foo, my_var
	STRING // string literals: "hello"
	INT    // integer literals: 123
	FLOAT  // float literals: 3.14

	// Keywords
	KW_AND
	KW_CLASS
	KW_ELSE
	KW_FALSE
	KW_TRUE
	KW_FUNC
	KW_IF
	KW_NIL
	KW_OR
	KW_PRINT
	KW_RETURN
	KW_SUPER
	KW_THIS
	KW_VAR
	KW_WHILE
	KW_FOR
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	MINUS:     "-",
	PLUS:      "+",
	SEMICOLON: ";",
	SLASH:     "/",
	STAR:      "*",

	BANG:   "!",
	NEQ:    "!=",
	ASSIGN: "=",
	EQ:     "==",
	GT:     ">",
	GTE:    ">=",
	LT:     "<",
	LTE:    "<=",

	IDENT:  "IDENT",
	STRING: "STRING",
	INT:    "INT",
	FLOAT:  "FLOAT",

	KW_AND:    "and",
	KW_CLASS:  "class",
	KW_ELSE:   "else",
	KW_FALSE:  "false",
	KW_TRUE:   "true",
	KW_FUNC:   "func",
	KW_IF:     "if",
	KW_NIL:    "nil",
	KW_OR:     "or",
	KW_PRINT:  "print",
	KW_RETURN: "return",
	KW_SUPER:  "super",
	KW_THIS:   "this",
	KW_VAR:    "var",
	KW_WHILE:  "while",
	KW_FOR:    "for",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_AND && k <= KW_FOR
}

// IsLiteral returns true if the kind is a literal (ident/string/int/float).
func (k Kind) IsLiteral() bool {
	return k >= IDENT && k <= FLOAT
}

var keywords = map[string]Kind{
	"and":    KW_AND,
	"class":  KW_CLASS,
	"else":   KW_ELSE,
	"false":  KW_FALSE,
	"true":   KW_TRUE,
	"func":   KW_FUNC,
	"if":     KW_IF,
	"nil":    KW_NIL,
	"or":     KW_OR,
	"print":  KW_PRINT,
	"return": KW_RETURN,
	"super":  KW_SUPER,
	"this":   KW_THIS,
	"var":    KW_VAR,
	"while":  KW_WHILE,
	"for":    KW_FOR,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token is one lexical token. For STRING tokens Lexeme holds the string
// contents without quotes; for every other kind it is the source text.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// Line returns the 1-based source line of the token.
func (t Token) Line() int {
	return t.Span.Start.Line
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
