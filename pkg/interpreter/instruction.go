package interpreter

import (
	"fmt"
	"strings"
)

type Opcode string

// List of IPPcode23 opcodes
const (
	OpMove        Opcode = "MOVE"
	OpCreateFrame Opcode = "CREATEFRAME"
	OpPushFrame   Opcode = "PUSHFRAME"
	OpPopFrame    Opcode = "POPFRAME"
	OpDefVar      Opcode = "DEFVAR"
	OpCall        Opcode = "CALL"
	OpReturn      Opcode = "RETURN"
	OpPushS       Opcode = "PUSHS"
	OpPopS        Opcode = "POPS"
	OpAdd         Opcode = "ADD"
	OpSub         Opcode = "SUB"
	OpMul         Opcode = "MUL"
	OpIDiv        Opcode = "IDIV"
	OpLt          Opcode = "LT"
	OpGt          Opcode = "GT"
	OpEq          Opcode = "EQ"
	OpAnd         Opcode = "AND"
	OpOr          Opcode = "OR"
	OpNot         Opcode = "NOT"
	OpInt2Char    Opcode = "INT2CHAR"
	OpStri2Int    Opcode = "STRI2INT"
	OpRead        Opcode = "READ"
	OpWrite       Opcode = "WRITE"
	OpConcat      Opcode = "CONCAT"
	OpStrLen      Opcode = "STRLEN"
	OpGetChar     Opcode = "GETCHAR"
	OpSetChar     Opcode = "SETCHAR"
	OpType        Opcode = "TYPE"
	OpLabel       Opcode = "LABEL"
	OpJump        Opcode = "JUMP"
	OpJumpIfEq    Opcode = "JUMPIFEQ"
	OpJumpIfNeq   Opcode = "JUMPIFNEQ"
	OpExit        Opcode = "EXIT"
	OpDPrint      Opcode = "DPRINT"
	OpBreak       Opcode = "BREAK"
)

// ArgKind is the declared kind of an operand.
type ArgKind string

const (
	ArgVar    ArgKind = "var"
	ArgNil    ArgKind = "nil"
	ArgInt    ArgKind = "int"
	ArgBool   ArgKind = "bool"
	ArgString ArgKind = "string"
	ArgLabel  ArgKind = "label"
	ArgType   ArgKind = "type"
)

// Operand is the class of value an opcode expects in an operand position.
type Operand int

const (
	OperandVar   Operand = iota // <var>
	OperandSymb                 // <symb>: variable or constant
	OperandLabel                // <label>
	OperandType                 // <type>
)

var signatures = map[Opcode][]Operand{
	OpMove:        {OperandVar, OperandSymb},
	OpCreateFrame: {},
	OpPushFrame:   {},
	OpPopFrame:    {},
	OpDefVar:      {OperandVar},
	OpCall:        {OperandLabel},
	OpReturn:      {},
	OpPushS:       {OperandSymb},
	OpPopS:        {OperandVar},
	OpAdd:         {OperandVar, OperandSymb, OperandSymb},
	OpSub:         {OperandVar, OperandSymb, OperandSymb},
	OpMul:         {OperandVar, OperandSymb, OperandSymb},
	OpIDiv:        {OperandVar, OperandSymb, OperandSymb},
	OpLt:          {OperandVar, OperandSymb, OperandSymb},
	OpGt:          {OperandVar, OperandSymb, OperandSymb},
	OpEq:          {OperandVar, OperandSymb, OperandSymb},
	OpAnd:         {OperandVar, OperandSymb, OperandSymb},
	OpOr:          {OperandVar, OperandSymb, OperandSymb},
	OpNot:         {OperandVar, OperandSymb},
	OpInt2Char:    {OperandVar, OperandSymb},
	OpStri2Int:    {OperandVar, OperandSymb, OperandSymb},
	OpRead:        {OperandVar, OperandType},
	OpWrite:       {OperandSymb},
	OpConcat:      {OperandVar, OperandSymb, OperandSymb},
	OpStrLen:      {OperandVar, OperandSymb},
	OpGetChar:     {OperandVar, OperandSymb, OperandSymb},
	OpSetChar:     {OperandVar, OperandSymb, OperandSymb},
	OpType:        {OperandVar, OperandSymb},
	OpLabel:       {OperandLabel},
	OpJump:        {OperandLabel},
	OpJumpIfEq:    {OperandLabel, OperandSymb, OperandSymb},
	OpJumpIfNeq:   {OperandLabel, OperandSymb, OperandSymb},
	OpExit:        {OperandSymb},
	OpDPrint:      {OperandSymb},
	OpBreak:       {},
}

// LookupOpcode maps an opcode name, in any letter case, to an Opcode.
func LookupOpcode(name string) (Opcode, bool) {
	op := Opcode(strings.ToUpper(strings.TrimSpace(name)))
	_, ok := signatures[op]
	return op, ok
}

// Signature returns the operand classes of op, or nil for unknown opcodes.
func Signature(op Opcode) []Operand {
	return signatures[op]
}

// Arity returns the number of operands op takes, or -1 for unknown opcodes.
func Arity(op Opcode) int {
	sig, ok := signatures[op]
	if !ok {
		return -1
	}
	return len(sig)
}

// Argument is one operand: its declared kind and raw text.
type Argument struct {
	Kind ArgKind
	Text string
}

// String renders the argument in IPPcode23 source form.
func (a Argument) String() string {
	switch a.Kind {
	case ArgVar, ArgLabel, ArgType:
		return a.Text
	default:
		return string(a.Kind) + "@" + a.Text
	}
}

// Var splits a variable operand such as GF@x into its frame and name.
func (a Argument) Var() (FrameTag, string, error) {
	if a.Kind != ArgVar {
		return "", "", newError(CodeBadStructure, "expected variable, got %s", a.Kind)
	}

	tag, name, ok := strings.Cut(a.Text, "@")
	if !ok || name == "" {
		return "", "", newError(CodeBadStructure, "malformed variable %q", a.Text)
	}

	switch FrameTag(tag) {
	case GlobalFrame, LocalFrame, TemporaryFrame:
		return FrameTag(tag), name, nil
	default:
		return "", "", newError(CodeBadStructure, "malformed variable %q", a.Text)
	}
}

// Instruction is one IPPcode23 instruction at a given order.
type Instruction struct {
	Order int
	Op    Opcode
	Args  []Argument
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	var b strings.Builder
	b.WriteString(string(i.Op))
	for _, a := range i.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	return b.String()
}

// Validate checks the opcode, the operand count and the operand kinds.
func (i Instruction) Validate() error {
	sig, ok := signatures[i.Op]
	if !ok {
		return newError(CodeBadStructure, "unknown opcode %q at order %d", i.Op, i.Order)
	}
	if len(i.Args) != len(sig) {
		return newError(CodeBadStructure, "%s expects %d operands, got %d", i.Op, len(sig), len(i.Args))
	}

	for n, class := range sig {
		a := i.Args[n]
		switch class {
		case OperandVar:
			if _, _, err := a.Var(); err != nil {
				return err
			}
		case OperandSymb:
			switch a.Kind {
			case ArgVar:
				if _, _, err := a.Var(); err != nil {
					return err
				}
			case ArgNil, ArgInt, ArgBool, ArgString:
			default:
				return newError(CodeBadStructure, "%s operand %d: %s is not a symbol", i.Op, n+1, a.Kind)
			}
		case OperandLabel:
			if a.Kind != ArgLabel || a.Text == "" {
				return newError(CodeBadStructure, "%s operand %d: expected label", i.Op, n+1)
			}
		case OperandType:
			if a.Kind != ArgType {
				return newError(CodeBadStructure, "%s operand %d: expected type", i.Op, n+1)
			}
		}
	}

	return nil
}

// Ins builds an instruction; handy for programs assembled in code.
func Ins(order int, op Opcode, args ...Argument) Instruction {
	return Instruction{Order: order, Op: op, Args: args}
}

// Var builds a variable operand.
func Var(ref string) Argument { return Argument{Kind: ArgVar, Text: ref} }

// Label builds a label operand.
func Label(name string) Argument { return Argument{Kind: ArgLabel, Text: name} }

// Type builds a type operand.
func Type(name string) Argument { return Argument{Kind: ArgType, Text: name} }

// Const builds a constant operand of the given kind.
func Const(kind ArgKind, text string) Argument { return Argument{Kind: kind, Text: text} }

// Int builds an int constant operand.
func Int(n int64) Argument { return Argument{Kind: ArgInt, Text: fmt.Sprint(n)} }

// Str builds a string constant operand.
func Str(s string) Argument { return Argument{Kind: ArgString, Text: s} }

// Bool builds a bool constant operand.
func Bool(b bool) Argument { return Argument{Kind: ArgBool, Text: fmt.Sprint(b)} }

// NilArg builds the nil constant operand.
func NilArg() Argument { return Argument{Kind: ArgNil, Text: "nil"} }
