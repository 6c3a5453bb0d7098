package interpreter

// Labels maps label names to instruction orders.
type Labels struct {
	orders map[string]int
}

// NewLabels creates an empty label table.
func NewLabels() *Labels {
	return &Labels{orders: make(map[string]int)}
}

// Add registers name at order. Registering the same name at the same order
// again is allowed.
func (l *Labels) Add(name string, order int) error {
	if prev, ok := l.orders[name]; ok && prev != order {
		return newError(CodeSemantic, "label %s already defined at order %d", name, prev)
	}
	l.orders[name] = order
	return nil
}

// Lookup returns the order of name.
func (l *Labels) Lookup(name string) (int, error) {
	order, ok := l.orders[name]
	if !ok {
		return 0, newError(CodeSemantic, "undefined label %s", name)
	}
	return order, nil
}

// Len returns the number of labels.
func (l *Labels) Len() int {
	return len(l.orders)
}
