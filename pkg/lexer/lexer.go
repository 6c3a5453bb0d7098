package lexer

import "strings"

type Lexer struct {
	input        string // input string to be tokenized
	length       int    // length of the input string
	position     int    // current position in the input string
	line         int    // current line number for error reporting
	column       int    // current column number for error reporting
	currentToken Token  // current token for context
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:        s,
		length:       len(s),
		position:     0,
		line:         1,
		column:       1,
		currentToken: Token{},
	}
}

// Get the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	// End of input
	if l.position >= l.length {
		tok := NewToken(EOF, "", "", l.currentPosition())
		l.currentToken = tok
		return tok
	}

	pos := l.currentPosition()
	remaining := l.input[l.position:]
	tokenType, lexeme, matched := MatchToken(remaining)

	if !matched {
		l.advance(len(lexeme))

		tok := NewToken(ILLEGAL, lexeme, "", pos)
		l.currentToken = tok
		return tok
	}

	var literal string
	switch tokenType {
	case VAR, INT, BOOL, NIL, STRING:
		// everything after the first @ (the kind or frame prefix is in the lexeme)
		_, literal, _ = strings.Cut(lexeme, "@")
	default:
		literal = lexeme
	}

	tok := NewToken(tokenType, lexeme, literal, pos)
	l.advance(len(lexeme))
	l.currentToken = tok

	return tok
}

// View next token without advancing the position
func (l *Lexer) Peek() Token {
	// save state
	cpos := l.position
	cline := l.line
	ccol := l.column
	ctok := l.currentToken

	token := l.NextToken()

	// restore state
	l.position = cpos
	l.line = cline
	l.column = ccol
	l.currentToken = ctok

	return token
}

// Line returns the source line with the given 1-based number, for error context
func (l *Lexer) Line(n int) string {
	lines := strings.Split(l.input, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// Skip whitespace and comments; newlines are tokens
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		tokenType, lexeme, matched := MatchToken(l.input[l.position:])
		if !matched || tokenType != EOF || lexeme == "" {
			return
		}
		l.advance(len(lexeme))
	}
}

// Advance the lexer position by n characters
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}
