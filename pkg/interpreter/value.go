package interpreter

import (
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindNil ValueKind = iota
	KindInt
	KindBool
	KindString
)

// String returns the IPPcode23 type name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "nil"
	}
}

// Value represents a dynamically-typed value in the interpreter.
// The zero Value is nil.
type Value struct {
	Kind ValueKind
	Int  int64
	Bool bool
	Str  string
}

// String renders the value the way WRITE prints it.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// GoString renders the value with its type, as in a literal (int@5).
func (v Value) GoString() string {
	if v.Kind == KindNil {
		return "nil@nil"
	}
	return v.Kind.String() + "@" + v.String()
}

// TypeName returns the name TYPE stores for the value.
func (v Value) TypeName() string {
	return v.Kind.String()
}

// IsNil reports whether v is nil.
func (v Value) IsNil() bool {
	return v.Kind == KindNil
}

// AsInt returns the integer held by v, or a type error.
func (v Value) AsInt() (int64, error) {
	if v.Kind != KindInt {
		return 0, newError(CodeOperandType, "expected int, got %s", v.Kind)
	}
	return v.Int, nil
}

// AsBool returns the boolean held by v, or a type error.
func (v Value) AsBool() (bool, error) {
	if v.Kind != KindBool {
		return false, newError(CodeOperandType, "expected bool, got %s", v.Kind)
	}
	return v.Bool, nil
}

// AsString returns the string held by v, or a type error.
func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", newError(CodeOperandType, "expected string, got %s", v.Kind)
	}
	return v.Str, nil
}

// Nil returns the nil value.
func Nil() Value {
	return Value{Kind: KindNil}
}

// NewInt creates a new integer Value.
func NewInt(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// NewBool creates a new boolean Value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewString creates a new string Value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Equal compares two values. Values of different kinds are only comparable
// when one of them is nil, and nil equals only nil.
func Equal(a, b Value) (bool, error) {
	if a.Kind != b.Kind {
		if a.Kind == KindNil || b.Kind == KindNil {
			return false, nil
		}
		return false, newError(CodeOperandType, "cannot compare %s with %s", a.Kind, b.Kind)
	}

	switch a.Kind {
	case KindInt:
		return a.Int == b.Int, nil
	case KindBool:
		return a.Bool == b.Bool, nil
	case KindString:
		return a.Str == b.Str, nil
	default:
		return true, nil
	}
}

// Less reports whether a orders before b. Both values must share a kind and
// neither may be nil.
func Less(a, b Value) (bool, error) {
	if a.Kind == KindNil || b.Kind == KindNil {
		return false, newError(CodeOperandType, "nil is not orderable")
	}
	if a.Kind != b.Kind {
		return false, newError(CodeOperandType, "cannot compare %s with %s", a.Kind, b.Kind)
	}

	switch a.Kind {
	case KindInt:
		return a.Int < b.Int, nil
	case KindBool:
		return !a.Bool && b.Bool, nil
	case KindString:
		return a.Str < b.Str, nil
	default:
		return false, newError(CodeOperandType, "unorderable kind %s", a.Kind)
	}
}

// ParseLiteral converts a constant operand into a Value. String escapes
// (\DDD) are decoded here, once.
func ParseLiteral(kind ArgKind, text string) (Value, error) {
	switch kind {
	case ArgNil:
		if text != "nil" {
			return Value{}, newError(CodeBadStructure, "invalid nil literal %q", text)
		}
		return Nil(), nil

	case ArgInt:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, newError(CodeBadStructure, "invalid int literal %q", text)
		}
		return NewInt(n), nil

	case ArgBool:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		default:
			return Value{}, newError(CodeBadStructure, "invalid bool literal %q", text)
		}

	case ArgString:
		s, err := DecodeEscapes(text)
		if err != nil {
			return Value{}, err
		}
		return NewString(s), nil

	default:
		return Value{}, newError(CodeBadStructure, "%s is not a constant", kind)
	}
}

// DecodeEscapes replaces every \DDD sequence (three decimal digits) with the
// character of that code point. A backslash not followed by three digits is
// kept verbatim.
func DecodeEscapes(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+4 > len(s) || !isDigits(s[i+1:i+4]) {
			b.WriteByte(s[i])
			continue
		}

		code, err := strconv.Atoi(s[i+1 : i+4])
		if err != nil {
			return "", newError(CodeBadStructure, "invalid escape sequence in %q", s)
		}
		b.WriteRune(rune(code))
		i += 3
	}

	return b.String(), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
