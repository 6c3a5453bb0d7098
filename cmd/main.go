package main

import (
	"flag"
	"fmt"
	"os"

	"ippinterp/internal/logger"
	"ippinterp/internal/runner"
	"ippinterp/pkg/color"
)

// Main entry point for the IPPcode23 interpreter.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.StringVar(&options.SourceFile, "source", "", "Program file, XML or .IPPcode23 text (default stdin)")
	flag.StringVar(&options.InputFile, "input", "", "File read by READ (default stdin)")
	flag.IntVar(&options.MaxSteps, "max-steps", 0, "Stop after this many steps, 0 for no limit")
	flag.BoolVar(&options.DumpProgram, "list", false, "List the loaded program on stderr")

	flag.Parse()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options]\n", os.Args[0])
		fmt.Println("At least one of --source and --input must be given; the other is read from stdin.")
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %v (see %s -h)\n", flag.Args(), os.Args[0])
		os.Exit(10)
	}

	os.Exit(options.Run())
}
