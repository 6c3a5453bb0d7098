package interpreter

import "sort"

// Program is a validated, order-indexed instruction set with its label table.
type Program struct {
	instructions map[int]Instruction
	labels       *Labels
	min, max     int
}

// NewProgram validates instrs and resolves every LABEL before execution, so
// forward jumps need no runtime search.
func NewProgram(instrs []Instruction) (*Program, error) {
	p := &Program{
		instructions: make(map[int]Instruction, len(instrs)),
		labels:       NewLabels(),
	}

	for n, in := range instrs {
		if in.Order < 0 {
			return nil, newError(CodeBadStructure, "negative order %d", in.Order)
		}
		if _, dup := p.instructions[in.Order]; dup {
			return nil, newError(CodeBadStructure, "duplicate order %d", in.Order)
		}
		if err := in.Validate(); err != nil {
			return nil, err
		}

		p.instructions[in.Order] = in
		if n == 0 || in.Order < p.min {
			p.min = in.Order
		}
		if n == 0 || in.Order > p.max {
			p.max = in.Order
		}
	}

	for _, order := range p.Orders() {
		in := p.instructions[order]
		if in.Op != OpLabel {
			continue
		}
		if err := p.labels.Add(in.Args[0].Text, in.Order); err != nil {
			return nil, at(err, in)
		}
	}

	return p, nil
}

// MustProgram is like NewProgram but panics on error.
func MustProgram(instrs ...Instruction) *Program {
	p, err := NewProgram(instrs)
	if err != nil {
		panic(err)
	}
	return p
}

// At returns the instruction at order, if any.
func (p *Program) At(order int) (Instruction, bool) {
	in, ok := p.instructions[order]
	return in, ok
}

// Bounds returns the smallest and largest declared order. An empty program
// reports (0, -1) so that no order falls inside it.
func (p *Program) Bounds() (int, int) {
	if len(p.instructions) == 0 {
		return 0, -1
	}
	return p.min, p.max
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// Labels returns the label table built from the program.
func (p *Program) Labels() *Labels {
	return p.labels
}

// Orders returns the declared orders in ascending order.
func (p *Program) Orders() []int {
	orders := make([]int, 0, len(p.instructions))
	for order := range p.instructions {
		orders = append(orders, order)
	}
	sort.Ints(orders)
	return orders
}
