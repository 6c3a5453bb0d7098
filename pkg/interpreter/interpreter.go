package interpreter

import (
	"bufio"
	"io"
	"os"
	"strings"

	"ippinterp/pkg/stack"
)

// Interpreter executes an IPPcode23 Program. All engine state lives here, so
// independent instances never share frames or stacks.
type Interpreter struct {
	prog *Program
	pc   int // current order
	next int // order to continue at after the current instruction

	frames *Frames
	data   *stack.Stack[Value] // data stack (PUSHS/POPS)
	calls  *stack.Stack[int]   // return orders (CALL/RETURN)

	in     *bufio.Reader // input for READ
	out    io.Writer     // output writer for WRITE
	errOut io.Writer     // diagnostic writer for DPRINT and BREAK

	// Exec hook (implemented in step.go, via SetExecStep)
	execStep func(*Interpreter) (halted bool, err error)

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
}

type Option func(*Interpreter)

// WithWriter sets the output writer for WRITE
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithErrWriter sets the diagnostic writer for DPRINT and BREAK
func WithErrWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.errOut = w }
}

// WithInput sets the stream READ consumes lines from
func WithInput(r io.Reader) Option {
	return func(i *Interpreter) { i.in = bufio.NewReader(r) }
}

// WithMaxSteps sets a maximum number of interpreter steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// NewInterpreter creates a new Interpreter instance
func NewInterpreter(prog *Program, opts ...Option) *Interpreter {
	it := &Interpreter{
		prog:     prog,
		maxSteps: 0, // 0 => unlimited
	}
	it.Reset()

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}
	if it.errOut == nil {
		it.errOut = os.Stderr
	}
	if it.in == nil {
		it.in = bufio.NewReader(os.Stdin)
	}

	if it.execStep == nil {
		it.execStep = coreStep
	}

	return it
}

// Load replaces the current program with a new one, resetting state
func (i *Interpreter) Load(prog *Program) {
	i.prog = prog
	i.Reset()
}

// Reset clears runtime state (frames, stacks, counter, step count)
func (i *Interpreter) Reset() {
	if i.prog == nil {
		i.prog = MustProgram()
	}
	i.pc, _ = i.prog.Bounds()
	i.next = i.pc
	i.frames = NewFrames()
	i.data = stack.NewStack[Value]()
	i.calls = stack.NewStack[int]()
	i.steps = 0
}

// Program returns the loaded program
func (i *Interpreter) Program() *Program {
	return i.prog
}

// Frames returns the frame registers
func (i *Interpreter) Frames() *Frames {
	return i.frames
}

// DataDepth returns the number of values on the data stack
func (i *Interpreter) DataDepth() int {
	return i.data.Len()
}

// CallDepth returns the number of pending return orders
func (i *Interpreter) CallDepth() int {
	return i.calls.Len()
}

// Steps returns the number of steps executed so far
func (i *Interpreter) Steps() int {
	return i.steps
}

// SetExecStep installs the core step function
func (i *Interpreter) SetExecStep(fn func(*Interpreter) (bool, error)) {
	i.execStep = fn
}

// Step executes the order at the program counter, returning (halted, error)
func (i *Interpreter) Step() (bool, error) {
	if i.execStep == nil {
		return false, ErrNotImplemented
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	halted, err := i.execStep(i)
	i.steps++

	return halted, err
}

// Run executes until the program is exhausted, EXIT runs, or an error occurs.
// EXIT is reported as an *ExitError.
func (i *Interpreter) Run() error {
	for {
		halted, err := i.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

// PC returns the current order
func (i *Interpreter) PC() int {
	return i.pc
}

// SetPC sets the current order
func (i *Interpreter) SetPC(pc int) {
	i.pc = pc
	i.next = pc
}

// jump makes the dispatcher continue at order instead of the next one
func (i *Interpreter) jump(order int) {
	i.next = order
}

// readLine consumes one line of input without its terminator. ok is false at
// end of input.
func (i *Interpreter) readLine() (string, bool) {
	line, err := i.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true
}
