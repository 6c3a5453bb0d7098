package lexer

import (
	"fmt"
)

type TokenType int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Text after the @ for variables and constants
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, Pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     Pos,
	}
}

const (
	EOF     TokenType = iota // End of file
	ILLEGAL                  // anything the token table does not match
	NEWLINE                  // end of an instruction line

	HEADER // .IPPcode23

	VAR    // GF@x, LF@x, TF@x
	INT    // int@42
	BOOL   // bool@true
	NIL    // nil@nil
	STRING // string@text
	ID     // opcodes, labels and type names
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	NEWLINE: "NEWLINE",
	HEADER:  "HEADER",
	VAR:     "VAR",
	INT:     "INT",
	BOOL:    "BOOL",
	NIL:     "NIL",
	STRING:  "STRING",
	ID:      "ID",
}

// String returns the name of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsConstant reports whether the token is a typed constant
func (t TokenType) IsConstant() bool {
	switch t {
	case INT, BOOL, NIL, STRING:
		return true
	default:
		return false
	}
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Lexeme, t.Pos)
}
