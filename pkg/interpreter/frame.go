package interpreter

import "sort"

// Frame is a variable scope. A declared variable owns a slot; the slot stays
// nil until the first value is bound to it.
type Frame struct {
	vars map[string]*Value
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{vars: make(map[string]*Value)}
}

// Declare reserves name without a value.
func (f *Frame) Declare(name string) error {
	if _, ok := f.vars[name]; ok {
		return newError(CodeSemantic, "redefinition of variable %s", name)
	}
	f.vars[name] = nil
	return nil
}

// Bind stores v into a declared variable.
func (f *Frame) Bind(name string, v Value) error {
	if _, ok := f.vars[name]; !ok {
		return newError(CodeUndefinedVar, "variable %s does not exist", name)
	}
	f.vars[name] = &v
	return nil
}

// Read returns the value bound to name.
func (f *Frame) Read(name string) (Value, error) {
	slot, ok := f.vars[name]
	if !ok {
		return Value{}, newError(CodeUndefinedVar, "variable %s does not exist", name)
	}
	if slot == nil {
		return Value{}, newError(CodeUndefinedVar, "variable %s is not initialized", name)
	}
	return *slot, nil
}

// Has reports whether name is declared, and whether it holds a value.
func (f *Frame) Has(name string) (declared, bound bool) {
	slot, ok := f.vars[name]
	return ok, ok && slot != nil
}

// Len returns the number of declared variables.
func (f *Frame) Len() int {
	return len(f.vars)
}

// Names returns the declared variable names in sorted order.
func (f *Frame) Names() []string {
	names := make([]string, 0, len(f.vars))
	for name := range f.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
