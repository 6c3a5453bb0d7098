package loader

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"ippinterp/pkg/interpreter"
)

// node is a generic XML element; the document shape is checked by hand so
// every violation can be reported with the right status.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

func (n node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

var argKinds = map[string]interpreter.ArgKind{
	"var":    interpreter.ArgVar,
	"nil":    interpreter.ArgNil,
	"int":    interpreter.ArgInt,
	"bool":   interpreter.ArgBool,
	"string": interpreter.ArgString,
	"label":  interpreter.ArgLabel,
	"type":   interpreter.ArgType,
}

// LoadXML decodes an XML program. Malformed documents fail with 31, documents
// of the wrong shape with 32.
func LoadXML(src []byte) (*interpreter.Program, error) {
	root, err := decode(src)
	if err != nil {
		return nil, err
	}

	instrs, err := instructions(root)
	if err != nil {
		return nil, err
	}
	return interpreter.NewProgram(instrs)
}

func decode(src []byte) (node, error) {
	var root node

	dec := xml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&root); err != nil {
		return root, interpreter.Errorf(interpreter.CodeMalformedXML, "malformed XML: %v", err)
	}

	// only comments, processing instructions and whitespace may follow the root
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return root, interpreter.Errorf(interpreter.CodeMalformedXML, "malformed XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return root, interpreter.Errorf(interpreter.CodeMalformedXML, "malformed XML: second root element <%s>", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return root, interpreter.Errorf(interpreter.CodeMalformedXML, "malformed XML: text after root element")
			}
		}
	}

	return root, nil
}

func instructions(root node) ([]interpreter.Instruction, error) {
	if root.XMLName.Local != "program" {
		return nil, structure("root element is <%s>, expected <program>", root.XMLName.Local)
	}
	if lang, _ := root.attr("language"); !strings.EqualFold(lang, "IPPcode23") {
		return nil, structure("unsupported language %q", lang)
	}
	if strings.TrimSpace(root.Text) != "" {
		return nil, structure("unexpected text in <program>")
	}

	instrs := make([]interpreter.Instruction, 0, len(root.Children))
	for _, child := range root.Children {
		in, err := instruction(child)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, in)
	}
	return instrs, nil
}

func instruction(n node) (interpreter.Instruction, error) {
	var in interpreter.Instruction

	if n.XMLName.Local != "instruction" {
		return in, structure("unexpected element <%s> in <program>", n.XMLName.Local)
	}

	orderText, ok := n.attr("order")
	if !ok {
		return in, structure("instruction without order")
	}
	order, err := strconv.Atoi(strings.TrimSpace(orderText))
	if err != nil {
		return in, structure("invalid order %q", orderText)
	}
	in.Order = order

	opText, ok := n.attr("opcode")
	if !ok {
		return in, structure("instruction %d without opcode", order)
	}
	op, ok := interpreter.LookupOpcode(opText)
	if !ok {
		return in, structure("instruction %d: unknown opcode %q", order, opText)
	}
	in.Op = op

	if strings.TrimSpace(n.Text) != "" {
		return in, structure("instruction %d: unexpected text", order)
	}

	args, err := arguments(n.Children, order)
	if err != nil {
		return in, err
	}
	in.Args = args

	return in, nil
}

// arguments orders arg1..argN by their number; they may appear in any
// document order but must be contiguous.
func arguments(children []node, order int) ([]interpreter.Argument, error) {
	slots := make(map[int]interpreter.Argument, len(children))

	for _, c := range children {
		name := c.XMLName.Local
		num, err := strconv.Atoi(strings.TrimPrefix(name, "arg"))
		if !strings.HasPrefix(name, "arg") || err != nil || num < 1 {
			return nil, structure("instruction %d: unexpected element <%s>", order, name)
		}
		if _, dup := slots[num]; dup {
			return nil, structure("instruction %d: duplicate <%s>", order, name)
		}
		if len(c.Children) > 0 {
			return nil, structure("instruction %d: <%s> has child elements", order, name)
		}

		typ, ok := c.attr("type")
		if !ok {
			return nil, structure("instruction %d: <%s> without type", order, name)
		}
		kind, ok := argKinds[typ]
		if !ok {
			return nil, structure("instruction %d: <%s> has unknown type %q", order, name, typ)
		}

		text := c.Text
		if kind != interpreter.ArgString {
			text = strings.TrimSpace(text)
		}
		slots[num] = interpreter.Argument{Kind: kind, Text: text}
	}

	args := make([]interpreter.Argument, len(slots))
	for i := range args {
		a, ok := slots[i+1]
		if !ok {
			return nil, structure("instruction %d: missing <arg%d>", order, i+1)
		}
		args[i] = a
	}
	return args, nil
}

func structure(format string, args ...any) error {
	return interpreter.Errorf(interpreter.CodeBadStructure, format, args...)
}
