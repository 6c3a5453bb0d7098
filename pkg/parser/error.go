package parser

import (
	"fmt"

	"ippinterp/pkg/color"
	"ippinterp/pkg/lexer"
)

// SyntaxError is a lexical or syntactic error in IPPcode23 source text
type SyntaxError struct {
	Code    int
	Pos     lexer.Position
	Msg     string
	Context string // offending source line
}

// ExitCode returns the process exit status for the error
func (e *SyntaxError) ExitCode() int {
	return e.Code
}

func (e *SyntaxError) Error() string {
	return color.ErrorWithPosition(e.Pos.Line, e.Pos.Column, e.Msg, e.Context)
}

// addError records a parsing error at the current token
func (p *Parser) addError(code int, msg string) {
	tok := p.currentToken
	if tok.Type != lexer.EOF && tok.Type != lexer.NEWLINE {
		msg = fmt.Sprintf("%s '%s'", msg, tok.Lexeme)
	}

	p.errors = append(p.errors, &SyntaxError{
		Code:    code,
		Pos:     tok.Pos,
		Msg:     msg,
		Context: p.lexer.Line(tok.Pos.Line),
	})
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}
