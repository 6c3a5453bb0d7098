package parser

import (
	"ippinterp/pkg/interpreter"
	"ippinterp/pkg/lexer"
)

type Parser struct {
	lexer        *lexer.Lexer              // lexer instance
	currentToken lexer.Token               // current token
	instructions []interpreter.Instruction // parsed instructions, orders 1..N
	errors       []*SyntaxError            // list of errors
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{
		lexer:  l,
		errors: []*SyntaxError{},
	}

	// Initialize current token
	p.nextToken()

	return p
}

// Parse reads the header and every instruction line. It returns the first
// error found; the rest are available through Errors.
func (p *Parser) Parse() ([]interpreter.Instruction, error) {
	p.skipNewlines()
	if !p.parseHeader() {
		return nil, p.errors[0]
	}

	for {
		p.skipNewlines()
		if p.currentToken.Type == lexer.EOF {
			break
		}

		if !p.parseInstruction() {
			p.skipLine()
		}
	}

	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return p.instructions, nil
}

// parseHeader expects .IPPcode23 alone on the first non-empty line
func (p *Parser) parseHeader() bool {
	if p.currentToken.Type != lexer.HEADER {
		p.addError(interpreter.CodeBadHeader, "Missing .IPPcode23 header")
		return false
	}
	p.nextToken()

	if !p.atLineEnd() {
		p.addError(interpreter.CodeBadHeader, "Unexpected token after header")
		return false
	}
	return true
}

// parseInstruction parses one opcode and its operands up to the end of line
func (p *Parser) parseInstruction() bool {
	switch p.currentToken.Type {
	case lexer.ILLEGAL:
		p.addError(interpreter.CodeLexSyntax, "Illegal token")
		return false
	case lexer.ID:
	default:
		p.addError(interpreter.CodeBadOpcode, "Expected opcode")
		return false
	}

	op, ok := interpreter.LookupOpcode(p.currentToken.Lexeme)
	if !ok {
		p.addError(interpreter.CodeBadOpcode, "Unknown opcode")
		return false
	}
	p.nextToken()

	in := interpreter.Instruction{Order: len(p.instructions) + 1, Op: op}
	for _, class := range interpreter.Signature(op) {
		if p.atLineEnd() {
			p.addError(interpreter.CodeLexSyntax, "Missing operand for "+string(op))
			return false
		}

		arg, ok := p.parseOperand(class)
		if !ok {
			return false
		}
		in.Args = append(in.Args, arg)
		p.nextToken()
	}

	if !p.atLineEnd() {
		p.addError(interpreter.CodeLexSyntax, "Too many operands for "+string(op))
		return false
	}

	p.instructions = append(p.instructions, in)
	return true
}

// parseOperand converts the current token into an argument of the given class
func (p *Parser) parseOperand(class interpreter.Operand) (interpreter.Argument, bool) {
	tok := p.currentToken
	if tok.Type == lexer.ILLEGAL {
		p.addError(interpreter.CodeLexSyntax, "Illegal token")
		return interpreter.Argument{}, false
	}

	switch class {
	case interpreter.OperandVar:
		if tok.Type == lexer.VAR {
			return interpreter.Var(tok.Lexeme), true
		}
		p.addError(interpreter.CodeLexSyntax, "Expected variable")

	case interpreter.OperandSymb:
		if tok.Type == lexer.VAR {
			return interpreter.Var(tok.Lexeme), true
		}
		if kind, ok := constantKinds[tok.Type]; ok {
			return interpreter.Const(kind, tok.Literal), true
		}
		p.addError(interpreter.CodeLexSyntax, "Expected variable or constant")

	case interpreter.OperandLabel:
		if tok.Type == lexer.ID {
			return interpreter.Label(tok.Lexeme), true
		}
		p.addError(interpreter.CodeLexSyntax, "Expected label")

	case interpreter.OperandType:
		if tok.Type == lexer.ID && typeNames[tok.Lexeme] {
			return interpreter.Type(tok.Lexeme), true
		}
		p.addError(interpreter.CodeLexSyntax, "Expected type name")
	}

	return interpreter.Argument{}, false
}

var constantKinds = map[lexer.TokenType]interpreter.ArgKind{
	lexer.INT:    interpreter.ArgInt,
	lexer.BOOL:   interpreter.ArgBool,
	lexer.NIL:    interpreter.ArgNil,
	lexer.STRING: interpreter.ArgString,
}

var typeNames = map[string]bool{
	"int":    true,
	"bool":   true,
	"string": true,
}

// nextToken advances to the next token from the lexer
func (p *Parser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

func (p *Parser) skipNewlines() {
	for p.currentToken.Type == lexer.NEWLINE {
		p.nextToken()
	}
}

func (p *Parser) atLineEnd() bool {
	return p.currentToken.Type == lexer.NEWLINE || p.currentToken.Type == lexer.EOF
}

// skipLine skips the rest of a broken line
func (p *Parser) skipLine() {
	for !p.atLineEnd() {
		p.nextToken()
	}
}

// Parse is a shortcut that lexes and parses src into a program
func Parse(src string) (*interpreter.Program, error) {
	instrs, err := NewParser(lexer.NewLexer(src)).Parse()
	if err != nil {
		return nil, err
	}
	return interpreter.NewProgram(instrs)
}
