package interpreter

import (
	"errors"
	"fmt"
)

// Process exit statuses reported by the interpreter and its front end.
const (
	CodeOK              = 0
	CodeMissingParam    = 10 // no --source and no --input
	CodeInputFile       = 11 // input or source file cannot be opened
	CodeBadHeader       = 21 // text source: missing or wrong .IPPcode23 header
	CodeBadOpcode       = 22 // text source: unknown opcode
	CodeLexSyntax       = 23 // text source: other lexical or syntax error
	CodeMalformedXML    = 31
	CodeBadStructure    = 32
	CodeSemantic        = 52 // redefinition, undefined label
	CodeOperandType     = 53
	CodeUndefinedVar    = 54
	CodeFrameMissing    = 55
	CodeMissingValue    = 56 // empty data or call stack
	CodeOperandValue    = 57 // division by zero, bad exit code
	CodeStringOperation = 58
	CodeInternal        = 99
)

// MaxExitCode is the highest status a program may request through EXIT.
const MaxExitCode = 49

var (
	ErrNotImplemented   = errors.New("interpreter step function not linked")
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
)

// Error is a fatal runtime violation. It carries the exit status the process
// must terminate with.
type Error struct {
	Code  int
	Order int    // order of the failing instruction, 0 when not known
	Op    Opcode // opcode of the failing instruction, empty when not known
	Msg   string
}

// ExitCode returns the process exit status for the error.
func (e *Error) ExitCode() int {
	return e.Code
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s (order %d): %s", e.Op, e.Order, e.Msg)
	}
	return e.Msg
}

// ExitError is returned by Run when the program executed EXIT.
type ExitError struct {
	Code int
}

// ExitCode returns the status requested by the program.
func (e *ExitError) ExitCode() int {
	return e.Code
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("program exited with code %d", e.Code)
}

func newError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Errorf creates a fatal error with the given exit status.
func Errorf(code int, format string, args ...any) error {
	return newError(code, format, args...)
}

// at annotates err with the instruction being executed, if it is an *Error
// that is not yet annotated.
func at(err error, in Instruction) error {
	var e *Error
	if errors.As(err, &e) && e.Op == "" {
		e.Order = in.Order
		e.Op = in.Op
	}
	return err
}

// Coder is implemented by errors that carry a process exit status.
type Coder interface {
	error
	ExitCode() int
}

// CodeOf maps an error returned by the interpreter or a loader to a process
// exit status. Errors without a status map to CodeInternal.
func CodeOf(err error) int {
	if err == nil {
		return CodeOK
	}

	var c Coder
	if errors.As(err, &c) {
		return c.ExitCode()
	}

	return CodeInternal
}
