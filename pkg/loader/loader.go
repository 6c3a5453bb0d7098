// Package loader turns IPPcode23 programs, either XML documents or source
// text, into interpreter programs.
package loader

import (
	"bytes"
	"io"

	"ippinterp/pkg/interpreter"
	"ippinterp/pkg/parser"
)

type Format int

const (
	FormatText Format = iota // .IPPcode23 source text
	FormatXML                // <program language="IPPcode23"> document
)

func (f Format) String() string {
	if f == FormatXML {
		return "xml"
	}
	return "text"
}

// Detect picks XML when the first non-space byte is '<'.
func Detect(src []byte) Format {
	trimmed := bytes.TrimLeft(src, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return FormatXML
	}
	return FormatText
}

// Load reads the whole of r and parses it in the detected format.
func Load(r io.Reader) (*interpreter.Program, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, interpreter.Errorf(interpreter.CodeInputFile, "reading source: %v", err)
	}
	return LoadBytes(src)
}

// LoadBytes parses src in the detected format.
func LoadBytes(src []byte) (*interpreter.Program, error) {
	if Detect(src) == FormatXML {
		return LoadXML(src)
	}
	return parser.Parse(string(src))
}
