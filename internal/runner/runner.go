package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"ippinterp/pkg/color"
	"ippinterp/pkg/interpreter"
	"ippinterp/pkg/loader"
	"ippinterp/pkg/parser"

	"github.com/charmbracelet/log"
)

type Runner struct {
	Help        bool   // Show help message
	Verbose     bool   // Enable verbose output
	NoColor     bool   // Disable colored output
	SourceFile  string // Path to the program (XML or source text); stdin when empty
	InputFile   string // Path to the input read by READ; stdin when empty
	MaxSteps    int    // Step budget, 0 for unlimited
	DumpProgram bool   // List the loaded program before running it

	Stdin  io.Reader // defaults to os.Stdin
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

// Run loads the program, executes it and returns the process exit status.
func (opts *Runner) Run() int {
	stdin, stdout, stderr := opts.streams()

	if opts.SourceFile == "" && opts.InputFile == "" {
		log.Error("Neither --source nor --input was given")
		return interpreter.CodeMissingParam
	}

	source, closeSource, err := open(opts.SourceFile, stdin)
	if err != nil {
		log.Error("Failed to open source", "file", opts.SourceFile, "error", err)
		return interpreter.CodeInputFile
	}
	defer closeSource()

	input, closeInput, err := open(opts.InputFile, stdin)
	if err != nil {
		log.Error("Failed to open input", "file", opts.InputFile, "error", err)
		return interpreter.CodeInputFile
	}
	defer closeInput()

	log.Debug("Loading program", "source", name(opts.SourceFile), "input", name(opts.InputFile))

	prog, err := loader.Load(source)
	if err != nil {
		return opts.report(stderr, err)
	}

	first, last := prog.Bounds()
	log.Debug("Program loaded", "instructions", prog.Len(), "first", first, "last", last, "labels", prog.Labels().Len())

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	intr := interpreter.NewInterpreter(prog,
		interpreter.WithWriter(out),
		interpreter.WithErrWriter(stderr),
		interpreter.WithInput(input),
		interpreter.WithMaxSteps(opts.MaxSteps),
	)

	if opts.DumpProgram {
		list(stderr, intr.Program())
	}

	err = intr.Run()
	log.Debug("Program finished", "steps", intr.Steps(), "error", err)

	if err := out.Flush(); err != nil {
		log.Error("Failed to write output", "error", err)
		return interpreter.CodeInternal
	}

	return opts.report(stderr, err)
}

func (opts *Runner) streams() (io.Reader, io.Writer, io.Writer) {
	stdin, stdout, stderr := opts.Stdin, opts.Stdout, opts.Stderr
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdin, stdout, stderr
}

// report logs err and returns its exit status.
func (opts *Runner) report(stderr io.Writer, err error) int {
	code := interpreter.CodeOf(err)

	var (
		exitErr   *interpreter.ExitError
		runErr    *interpreter.Error
		syntaxErr *parser.SyntaxError
	)

	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		log.Debug("Program requested exit", "code", code)
	case errors.As(err, &syntaxErr):
		fmt.Fprintln(stderr, color.BrightRedText("=== Syntax Errors ==="))
		fmt.Fprintln(stderr, syntaxErr)
		log.Error("Parsing failed", "code", code)
	case errors.As(err, &runErr) && runErr.Op != "":
		log.Error(runErr.Msg, "code", code, "order", runErr.Order, "op", runErr.Op)
	case errors.Is(err, interpreter.ErrMaxStepsExceeded):
		log.Error("Step budget exhausted", "code", code, "max", opts.MaxSteps)
	default:
		log.Error("Interpretation failed", "code", code, "error", err)
	}

	return code
}

// list prints the loaded program, one instruction per line.
func list(w io.Writer, prog *interpreter.Program) {
	fmt.Fprintln(w, color.GreenText("=== Program ==="))
	if prog.Len() == 0 {
		fmt.Fprintln(w, color.GrayText("No instructions."))
		return
	}

	for _, order := range prog.Orders() {
		in, _ := prog.At(order)
		fmt.Fprintf(w, "%s: %s\n", color.CyanText(fmt.Sprintf("%4d", order)), color.YellowText(in.String()))
	}
}

// open returns the named file, or fallback when path is empty.
func open(path string, fallback io.Reader) (io.Reader, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func name(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}
