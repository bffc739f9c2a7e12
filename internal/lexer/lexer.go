// Package lexer turns carp source text into a token stream.
package lexer

import (
	"carp-lang/internal/diag"
	"carp-lang/internal/span"
	"carp-lang/internal/token"
	"fmt"
	"unicode/utf8"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
// The returned slice always ends with an EOF token, even when errors were
// reported.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		if tok.Kind == token.ILLEGAL {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// Scan tokenizes source and returns the first lexical error as a
// *diag.Fault.
func Scan(source, filename string) ([]token.Token, error) {
	tokens, diags := New(source, filename).Tokenize()
	if len(diags) > 0 {
		return tokens, &diag.Fault{Category: diag.Lex, Diagnostic: diags[0]}
	}
	return tokens, nil
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) makeToken(kind token.Kind, start span.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: l.source[start.Offset:l.pos], Span: l.makeSpan(start)}
}

// skipTrivia skips whitespace, newlines, and // comments.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) addError(code string, s span.Span, msg string) {
	l.diags = append(l.diags, diag.Errorf(code, s, "%s", msg))
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	l.skipTrivia()

	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Lexeme: "", Span: l.makeSpan(l.curPos())}
	}

	start := l.curPos()
	ch := l.peek()

	if ch == '"' {
		return l.readString(start)
	}
	if isDigit(ch) {
		return l.readNumber(start)
	}
	if isIdentStart(ch) {
		return l.readIdentifier(start)
	}
	return l.readOperator(start)
}

// readString reads a double-quoted string literal. Strings may span
// lines; the usual backslash escapes are decoded.
func (l *Lexer) readString(start span.Position) token.Token {
	l.advance() // skip opening "
	var value []byte

	for l.pos < len(l.source) {
		ch := l.peek()
		if ch == '"' {
			l.advance() // skip closing "
			return token.Token{
				Kind:   token.STRING,
				Lexeme: string(value),
				Span:   l.makeSpan(start),
			}
		}
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.advance()
			esc := l.peek()
			switch esc {
			case 'n':
				value = append(value, '\n')
			case 't':
				value = append(value, '\t')
			case '\\':
				value = append(value, '\\')
			case '"':
				value = append(value, '"')
			default:
				l.addError("E1002", l.makeSpan(start), fmt.Sprintf("unknown escape sequence: \\%c", esc))
				value = append(value, esc)
			}
			l.advance()
			continue
		}
		value = append(value, ch)
		l.advance()
	}

	l.addError("E1001", l.makeSpan(start), "unterminated string literal")
	return token.Token{Kind: token.ILLEGAL, Lexeme: string(value), Span: l.makeSpan(start)}
}

// readNumber reads an integer or float literal. A '.' is only part of the
// number when a digit follows it.
func (l *Lexer) readNumber(start span.Position) token.Token {
	kind := token.INT

	for l.pos < len(l.source) && isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		kind = token.FLOAT
		l.advance() // skip '.'
		for l.pos < len(l.source) && isDigit(l.peek()) {
			l.advance()
		}
	}

	return l.makeToken(kind, start)
}

func (l *Lexer) readIdentifier(start span.Position) token.Token {
	for l.pos < len(l.source) && isIdentPart(l.peek()) {
		l.advance()
	}
	tok := l.makeToken(token.IDENT, start)
	tok.Kind = token.LookupIdent(tok.Lexeme)
	return tok
}

// readOperator reads an operator or delimiter token.
func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.advance()

	switch ch {
	case '(':
		return l.makeToken(token.LPAREN, start)
	case ')':
		return l.makeToken(token.RPAREN, start)
	case '{':
		return l.makeToken(token.LBRACE, start)
	case '}':
		return l.makeToken(token.RBRACE, start)
	case ',':
		return l.makeToken(token.COMMA, start)
	case '.':
		return l.makeToken(token.DOT, start)
	case '-':
		return l.makeToken(token.MINUS, start)
	case '+':
		return l.makeToken(token.PLUS, start)
	case ';':
		return l.makeToken(token.SEMICOLON, start)
	case '*':
		return l.makeToken(token.STAR, start)
	case '/':
		return l.makeToken(token.SLASH, start)
	case '!':
		return l.makeToken(l.either('=', token.NEQ, token.BANG), start)
	case '=':
		return l.makeToken(l.either('=', token.EQ, token.ASSIGN), start)
	case '<':
		return l.makeToken(l.either('=', token.LTE, token.LT), start)
	case '>':
		return l.makeToken(l.either('=', token.GTE, token.GT), start)
	default:
		if ch >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(l.source[start.Offset:])
			l.pos += size - 1 // one column per rune
			l.addError("E1003", l.makeSpan(start), fmt.Sprintf("unexpected character: '%c'", r))
		} else {
			l.addError("E1003", l.makeSpan(start), fmt.Sprintf("unexpected character: '%c'", ch))
		}
		return l.makeToken(token.ILLEGAL, start)
	}
}

// either consumes next and returns two if it is the current character,
// otherwise returns one.
func (l *Lexer) either(next byte, two, one token.Kind) token.Kind {
	if l.peek() == next {
		l.advance()
		return two
	}
	return one
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

