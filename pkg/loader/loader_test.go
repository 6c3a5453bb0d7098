package loader_test

import (
	"bytes"
	"strings"
	"testing"

	"ippinterp/pkg/interpreter"
	"ippinterp/pkg/loader"
)

const xmlProgram = `<?xml version="1.0" encoding="UTF-8"?>
<program language="IPPcode23" name="demo">
  <!-- instructions may come in any order -->
  <instruction order="3" opcode="write">
    <arg1 type="var"> GF@s </arg1>
  </instruction>
  <instruction order="1" opcode="DEFVAR">
    <arg1 type="var">GF@s</arg1>
  </instruction>
  <instruction order="2" opcode="CONCAT">
    <arg3 type="string">\032world</arg3>
    <arg1 type="var">GF@s</arg1>
    <arg2 type="string">hello</arg2>
  </instruction>
</program>
`

const textProgram = `.IPPcode23
DEFVAR GF@s
CONCAT GF@s string@hello string@\032world
WRITE GF@s
`

func TestDetect(t *testing.T) {
	tests := []struct {
		src      string
		expected loader.Format
	}{
		{xmlProgram, loader.FormatXML},
		{"\n\t  <program/>", loader.FormatXML},
		{textProgram, loader.FormatText},
		{"# comment <program>\n.IPPcode23", loader.FormatText},
		{"", loader.FormatText},
	}

	for _, test := range tests {
		if got := loader.Detect([]byte(test.src)); got != test.expected {
			t.Errorf("Detect(%q): expected %s, got %s", test.src, test.expected, got)
		}
	}
}

func TestTextAndXMLAgree(t *testing.T) {
	fromXML, err := loader.Load(strings.NewReader(xmlProgram))
	if err != nil {
		t.Fatalf("xml: %v", err)
	}
	fromText, err := loader.Load(strings.NewReader(textProgram))
	if err != nil {
		t.Fatalf("text: %v", err)
	}

	xmlOrders, textOrders := fromXML.Orders(), fromText.Orders()
	if len(xmlOrders) != len(textOrders) {
		t.Fatalf("expected %d instructions, got %d", len(textOrders), len(xmlOrders))
	}
	for n, order := range xmlOrders {
		a, _ := fromXML.At(order)
		b, _ := fromText.At(textOrders[n])
		if a.String() != b.String() {
			t.Errorf("order %d: xml %q, text %q", order, a, b)
		}
	}

	for _, prog := range []*interpreter.Program{fromXML, fromText} {
		var out bytes.Buffer
		err := interpreter.Exec(prog, interpreter.WithWriter(&out), interpreter.WithInput(strings.NewReader("")))
		if err != nil {
			t.Fatalf("exec: %v", err)
		}
		if out.String() != "hello world" {
			t.Errorf("expected %q, got %q", "hello world", out.String())
		}
	}
}

func TestXMLKeepsStringWhitespace(t *testing.T) {
	src := `<program language="ippcode23">
  <instruction order="1" opcode="WRITE"><arg1 type="string"> a b </arg1></instruction>
  <instruction order="2" opcode="WRITE"><arg1 type="string"/></instruction>
</program>`

	prog, err := loader.LoadXML([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in, _ := prog.At(1)
	if in.Args[0].Text != " a b " {
		t.Errorf("expected string text to be kept, got %q", in.Args[0].Text)
	}
	in, _ = prog.At(2)
	if in.Args[0].Kind != interpreter.ArgString || in.Args[0].Text != "" {
		t.Errorf("expected empty string, got %s", in.Args[0])
	}
}

func TestXMLErrors(t *testing.T) {
	wrap := func(body string) string {
		return `<program language="IPPcode23">` + body + `</program>`
	}

	tests := []struct {
		name string
		src  string
		code int
	}{
		{"empty", "<", interpreter.CodeMalformedXML},
		{"unclosed", `<program language="IPPcode23">`, interpreter.CodeMalformedXML},
		{"mismatched", `<program language="IPPcode23"></prog>`, interpreter.CodeMalformedXML},
		{"two roots", `<program language="IPPcode23"/><program/>`, interpreter.CodeMalformedXML},
		{"wrong root", `<prog language="IPPcode23"/>`, interpreter.CodeBadStructure},
		{"wrong language", `<program language="IPPcode22"/>`, interpreter.CodeBadStructure},
		{"missing language", `<program/>`, interpreter.CodeBadStructure},
		{"foreign child", wrap(`<ins order="1" opcode="BREAK"/>`), interpreter.CodeBadStructure},
		{"missing order", wrap(`<instruction opcode="BREAK"/>`), interpreter.CodeBadStructure},
		{"bad order", wrap(`<instruction order="one" opcode="BREAK"/>`), interpreter.CodeBadStructure},
		{"negative order", wrap(`<instruction order="-1" opcode="BREAK"/>`), interpreter.CodeBadStructure},
		{"duplicate order", wrap(`<instruction order="1" opcode="BREAK"/><instruction order="1" opcode="BREAK"/>`), interpreter.CodeBadStructure},
		{"missing opcode", wrap(`<instruction order="1"/>`), interpreter.CodeBadStructure},
		{"unknown opcode", wrap(`<instruction order="1" opcode="PRINT"/>`), interpreter.CodeBadStructure},
		{"gap in args", wrap(`<instruction order="1" opcode="MOVE"><arg1 type="var">GF@a</arg1><arg3 type="int">1</arg3></instruction>`), interpreter.CodeBadStructure},
		{"duplicate arg", wrap(`<instruction order="1" opcode="WRITE"><arg1 type="int">1</arg1><arg1 type="int">2</arg1></instruction>`), interpreter.CodeBadStructure},
		{"arg0", wrap(`<instruction order="1" opcode="WRITE"><arg0 type="int">1</arg0></instruction>`), interpreter.CodeBadStructure},
		{"missing type", wrap(`<instruction order="1" opcode="WRITE"><arg1>1</arg1></instruction>`), interpreter.CodeBadStructure},
		{"unknown type", wrap(`<instruction order="1" opcode="WRITE"><arg1 type="float">1</arg1></instruction>`), interpreter.CodeBadStructure},
		{"wrong arity", wrap(`<instruction order="1" opcode="WRITE"/>`), interpreter.CodeBadStructure},
		{"bad variable", wrap(`<instruction order="1" opcode="DEFVAR"><arg1 type="var">XF@a</arg1></instruction>`), interpreter.CodeBadStructure},
		{"duplicate label", wrap(`<instruction order="1" opcode="LABEL"><arg1 type="label">a</arg1></instruction><instruction order="2" opcode="LABEL"><arg1 type="label">a</arg1></instruction>`), interpreter.CodeSemantic},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prog, err := loader.LoadXML([]byte(test.src))
			if prog != nil {
				t.Fatalf("expected no program")
			}
			if code := interpreter.CodeOf(err); code != test.code {
				t.Errorf("expected code %d, got %d (%v)", test.code, code, err)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, bytes.ErrTooLarge
}

func TestLoadReadFailure(t *testing.T) {
	_, err := loader.Load(failingReader{})
	if code := interpreter.CodeOf(err); code != interpreter.CodeInputFile {
		t.Errorf("expected code %d, got %d", interpreter.CodeInputFile, code)
	}
}
