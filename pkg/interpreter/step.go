package interpreter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"ippinterp/pkg/color"
)

// Exec runs a program with the default step function; streams not set
// through opts default to the process streams.
func Exec(prog *Program, opts ...Option) error {
	it := NewInterpreter(prog, opts...)
	it.SetExecStep(coreStep)
	return it.Run()
}

// coreStep is the main single-step execution function
// it returns (halted, error).
func coreStep(i *Interpreter) (bool, error) {
	_, last := i.prog.Bounds()
	if i.pc > last {
		return true, nil
	}

	in, ok := i.prog.At(i.pc)
	if !ok {
		// gaps in the order space are walked one unit at a time
		i.SetPC(i.pc + 1)
		return false, nil
	}

	i.next = i.pc + 1
	if err := i.execute(in); err != nil {
		return true, at(err, in)
	}
	i.pc = i.next

	return false, nil
}

// execute runs one instruction against the engine state. Operand type and
// range checks happen before the destination is written.
func (i *Interpreter) execute(in Instruction) error {
	args := in.Args

	switch in.Op {
	case OpLabel:
		// resolved while building the program
		return nil

	case OpMove:
		f, name, err := i.dest(args[0])
		if err != nil {
			return err
		}
		v, err := i.symbol(args[1])
		if err != nil {
			return err
		}
		return f.Bind(name, v)

	case OpCreateFrame:
		i.frames.CreateFrame()
		return nil

	case OpPushFrame:
		return i.frames.PushFrame()

	case OpPopFrame:
		return i.frames.PopFrame()

	case OpDefVar:
		f, name, err := i.dest(args[0])
		if err != nil {
			return err
		}
		return f.Declare(name)

	case OpCall:
		target, err := i.prog.Labels().Lookup(args[0].Text)
		if err != nil {
			return err
		}
		i.calls.Push(i.pc)
		i.jump(target)
		return nil

	case OpReturn:
		ret, ok := i.calls.Pop()
		if !ok {
			return newError(CodeMissingValue, "call stack is empty")
		}
		i.jump(ret + 1)
		return nil

	case OpPushS:
		v, err := i.symbol(args[0])
		if err != nil {
			return err
		}
		i.data.Push(v)
		return nil

	case OpPopS:
		f, name, err := i.dest(args[0])
		if err != nil {
			return err
		}
		v, ok := i.data.Pop()
		if !ok {
			return newError(CodeMissingValue, "data stack is empty")
		}
		return f.Bind(name, v)

	case OpAdd, OpSub, OpMul, OpIDiv:
		return i.binary(args, arith(in.Op))

	case OpLt:
		return i.binary(args, func(a, b Value) (Value, error) {
			lt, err := Less(a, b)
			return NewBool(lt), err
		})

	case OpGt:
		return i.binary(args, func(a, b Value) (Value, error) {
			gt, err := Less(b, a)
			return NewBool(gt), err
		})

	case OpEq:
		return i.binary(args, func(a, b Value) (Value, error) {
			eq, err := Equal(a, b)
			return NewBool(eq), err
		})

	case OpAnd, OpOr:
		return i.binary(args, func(a, b Value) (Value, error) {
			x, err := a.AsBool()
			if err != nil {
				return Value{}, err
			}
			y, err := b.AsBool()
			if err != nil {
				return Value{}, err
			}
			if in.Op == OpAnd {
				return NewBool(x && y), nil
			}
			return NewBool(x || y), nil
		})

	case OpNot:
		return i.unary(args, func(v Value) (Value, error) {
			b, err := v.AsBool()
			return NewBool(!b), err
		})

	case OpInt2Char:
		return i.unary(args, func(v Value) (Value, error) {
			n, err := v.AsInt()
			if err != nil {
				return Value{}, err
			}
			if n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
				return Value{}, newError(CodeStringOperation, "%d is not a valid code point", n)
			}
			return NewString(string(rune(n))), nil
		})

	case OpStri2Int:
		return i.binary(args, func(a, b Value) (Value, error) {
			r, err := charAt(a, b)
			return NewInt(int64(r)), err
		})

	case OpGetChar:
		return i.binary(args, func(a, b Value) (Value, error) {
			r, err := charAt(a, b)
			return NewString(string(r)), err
		})

	case OpConcat:
		return i.binary(args, func(a, b Value) (Value, error) {
			x, err := a.AsString()
			if err != nil {
				return Value{}, err
			}
			y, err := b.AsString()
			if err != nil {
				return Value{}, err
			}
			return NewString(x + y), nil
		})

	case OpStrLen:
		return i.unary(args, func(v Value) (Value, error) {
			s, err := v.AsString()
			return NewInt(int64(utf8.RuneCountInString(s))), err
		})

	case OpSetChar:
		return i.setChar(args)

	case OpType:
		return i.typeOf(args)

	case OpRead:
		return i.read(args)

	case OpWrite:
		v, err := i.symbol(args[0])
		if err != nil {
			return err
		}
		return i.print(i.out, v)

	case OpDPrint:
		v, err := i.symbol(args[0])
		if err != nil {
			return err
		}
		return i.print(i.errOut, v)

	case OpJump:
		target, err := i.prog.Labels().Lookup(args[0].Text)
		if err != nil {
			return err
		}
		i.jump(target)
		return nil

	case OpJumpIfEq, OpJumpIfNeq:
		a, err := i.symbol(args[1])
		if err != nil {
			return err
		}
		b, err := i.symbol(args[2])
		if err != nil {
			return err
		}
		eq, err := Equal(a, b)
		if err != nil {
			return err
		}
		if eq != (in.Op == OpJumpIfEq) {
			return nil
		}
		target, err := i.prog.Labels().Lookup(args[0].Text)
		if err != nil {
			return err
		}
		i.jump(target)
		return nil

	case OpExit:
		v, err := i.symbol(args[0])
		if err != nil {
			return err
		}
		code, err := v.AsInt()
		if err != nil {
			return err
		}
		if code < 0 || code > MaxExitCode {
			return newError(CodeOperandValue, "exit code %d out of range 0-%d", code, MaxExitCode)
		}
		return &ExitError{Code: int(code)}

	case OpBreak:
		i.dump()
		return nil

	default:
		return newError(CodeBadStructure, "unknown opcode %q", in.Op)
	}
}

// dest resolves the frame of a destination variable.
func (i *Interpreter) dest(a Argument) (*Frame, string, error) {
	tag, name, err := a.Var()
	if err != nil {
		return nil, "", err
	}
	f, err := i.frames.Resolve(tag)
	if err != nil {
		return nil, "", err
	}
	return f, name, nil
}

// symbol evaluates a variable or constant operand.
func (i *Interpreter) symbol(a Argument) (Value, error) {
	if a.Kind != ArgVar {
		return ParseLiteral(a.Kind, a.Text)
	}

	f, name, err := i.dest(a)
	if err != nil {
		return Value{}, err
	}
	return f.Read(name)
}

// unary evaluates args[1], applies fn and binds the result to args[0].
func (i *Interpreter) unary(args []Argument, fn func(Value) (Value, error)) error {
	f, name, err := i.dest(args[0])
	if err != nil {
		return err
	}
	v, err := i.symbol(args[1])
	if err != nil {
		return err
	}
	res, err := fn(v)
	if err != nil {
		return err
	}
	return f.Bind(name, res)
}

// binary evaluates args[1] and args[2], applies fn and binds the result to args[0].
func (i *Interpreter) binary(args []Argument, fn func(a, b Value) (Value, error)) error {
	f, name, err := i.dest(args[0])
	if err != nil {
		return err
	}
	a, err := i.symbol(args[1])
	if err != nil {
		return err
	}
	b, err := i.symbol(args[2])
	if err != nil {
		return err
	}
	res, err := fn(a, b)
	if err != nil {
		return err
	}
	return f.Bind(name, res)
}

// arith returns the integer operation for ADD, SUB, MUL and IDIV.
func arith(op Opcode) func(a, b Value) (Value, error) {
	return func(a, b Value) (Value, error) {
		x, err := a.AsInt()
		if err != nil {
			return Value{}, err
		}
		y, err := b.AsInt()
		if err != nil {
			return Value{}, err
		}

		switch op {
		case OpAdd:
			return NewInt(x + y), nil
		case OpSub:
			return NewInt(x - y), nil
		case OpMul:
			return NewInt(x * y), nil
		default:
			if y == 0 {
				return Value{}, newError(CodeOperandValue, "division by zero")
			}
			return NewInt(floorDiv(x, y)), nil
		}
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(x, y int64) int64 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q
}

// charAt returns the character of string s at integer index idx.
func charAt(s, idx Value) (rune, error) {
	str, err := s.AsString()
	if err != nil {
		return 0, err
	}
	n, err := idx.AsInt()
	if err != nil {
		return 0, err
	}

	runes := []rune(str)
	if n < 0 || n >= int64(len(runes)) {
		return 0, newError(CodeStringOperation, "index %d out of range", n)
	}
	return runes[n], nil
}

func (i *Interpreter) setChar(args []Argument) error {
	f, name, err := i.dest(args[0])
	if err != nil {
		return err
	}
	cur, err := f.Read(name)
	if err != nil {
		return err
	}
	idx, err := i.symbol(args[1])
	if err != nil {
		return err
	}
	repl, err := i.symbol(args[2])
	if err != nil {
		return err
	}

	s, err := cur.AsString()
	if err != nil {
		return err
	}
	n, err := idx.AsInt()
	if err != nil {
		return err
	}
	r, err := repl.AsString()
	if err != nil {
		return err
	}

	runes := []rune(s)
	if n < 0 || n >= int64(len(runes)) {
		return newError(CodeStringOperation, "index %d out of range", n)
	}
	if r == "" {
		return newError(CodeStringOperation, "empty replacement string")
	}

	// the replacement is spliced in whole, replacing one character
	out := string(runes[:n]) + r + string(runes[n+1:])

	return f.Bind(name, NewString(out))
}

func (i *Interpreter) typeOf(args []Argument) error {
	f, name, err := i.dest(args[0])
	if err != nil {
		return err
	}

	if args[1].Kind == ArgVar {
		src, srcName, err := i.dest(args[1])
		if err != nil {
			return err
		}
		declared, bound := src.Has(srcName)
		if !declared {
			return newError(CodeUndefinedVar, "variable %s does not exist", srcName)
		}
		if !bound {
			return f.Bind(name, NewString(""))
		}
	}

	v, err := i.symbol(args[1])
	if err != nil {
		return err
	}
	return f.Bind(name, NewString(v.TypeName()))
}

func (i *Interpreter) read(args []Argument) error {
	f, name, err := i.dest(args[0])
	if err != nil {
		return err
	}

	kind := args[1].Text
	switch kind {
	case "int", "string", "bool":
	default:
		return newError(CodeBadStructure, "READ cannot read type %q", kind)
	}

	line, ok := i.readLine()
	if !ok {
		return f.Bind(name, Nil())
	}

	v := Nil()
	switch kind {
	case "int":
		if n, err := ParseLiteral(ArgInt, line); err == nil {
			v = n
		}
	case "string":
		v = NewString(line)
	case "bool":
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "true":
			v = NewBool(true)
		case "false":
			v = NewBool(false)
		}
	}

	return f.Bind(name, v)
}

type flusher interface {
	Flush() error
}

// print writes the external rendering of v and flushes buffered writers.
func (i *Interpreter) print(w io.Writer, v Value) error {
	if _, err := io.WriteString(w, v.String()); err != nil {
		return newError(CodeInternal, "write failed: %v", err)
	}
	if fl, ok := w.(flusher); ok {
		if err := fl.Flush(); err != nil {
			return newError(CodeInternal, "flush failed: %v", err)
		}
	}
	return nil
}

// dump reports the engine state for BREAK.
func (i *Interpreter) dump() {
	w := i.errOut
	fmt.Fprintf(w, "%s %s (step %d)\n", color.YellowText("BREAK at order"), color.CyanText(fmt.Sprint(i.pc)), i.steps)
	fmt.Fprintf(w, "  %s %s\n", color.BlueText("GF:"), describeFrame(i.frames.Global))
	fmt.Fprintf(w, "  %s %s\n", color.BlueText("LF:"), describeFrame(i.frames.Local))
	fmt.Fprintf(w, "  %s %s\n", color.BlueText("TF:"), describeFrame(i.frames.Temp))
	fmt.Fprintf(w, "  data stack: %d, frame stack: %d, call stack: %d\n",
		i.data.Len(), i.frames.Depth(), i.calls.Len())
}

func describeFrame(f *Frame) string {
	if f == nil {
		return color.GrayText("<none>")
	}
	if f.Len() == 0 {
		return color.GrayText("<empty>")
	}

	parts := make([]string, 0, f.Len())
	for _, name := range f.Names() {
		v, err := f.Read(name)
		if err != nil {
			parts = append(parts, name+"=<unset>")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%#v", name, v))
	}
	return strings.Join(parts, " ")
}
