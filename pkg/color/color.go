package color

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"

	BrightRed = "\033[91m"
)

var colorEnabled = true

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr) {
		colorEnabled = false
	}
}

// isTerminal reports whether f is attached to a terminal that understands
// escape sequences.
func isTerminal(f *os.File) bool {
	if term := os.Getenv("TERM"); term == "" || term == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

func Colorize(color, text string) string {
	if !colorEnabled {
		return text
	}
	return color + text + Reset
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func BlueText(text string) string {
	return Colorize(Blue, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	return Colorize(Bold, text)
}

func Position(line, col int) string {
	pos := fmt.Sprintf("%d:%d", line, col)
	if !colorEnabled {
		return pos
	}
	return CyanText(pos)
}

// ErrorWithPosition formats a source error with its line and column and the
// offending source line.
func ErrorWithPosition(line, col int, message, context string) string {
	if !colorEnabled {
		return fmt.Sprintf("Error at %d:%d: %s\n%s", line, col, message, context)
	}

	return fmt.Sprintf("%s at %s: %s\n%s",
		BrightRedText(BoldText("Error")),
		Position(line, col),
		message,
		GrayText(context))
}
