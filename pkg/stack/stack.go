package stack

type Stack[T any] struct {
	a []T
	l int
}

// NewStack creates a new stack instance
func NewStack[T any](elm ...T) *Stack[T] {
	stack := Stack[T]{
		a: make([]T, 0, len(elm)),
		l: 0,
	}

	for _, e := range elm {
		stack.l++
		stack.a = append(stack.a, e)
	}

	return &stack
}

// Push adds an element to the top of the stack
func (s *Stack[T]) Push(elm T) {
	s.l++
	s.a = append(s.a, elm)
}

// Pop removes and returns the top element of the stack.
// The second result is false when the stack was empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if s.l < 1 {
		return zero, false
	}

	s.l--
	elm := s.a[s.l]
	s.a[s.l] = zero
	s.a = s.a[:s.l]

	return elm, true
}

// Peek returns the top element of the stack without removing it
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	if s.l < 1 {
		return zero, false
	}

	return s.a[s.l-1], true
}

// Len returns the size of the stack
func (s *Stack[T]) Len() int {
	return s.l
}

// Items returns the underlying array of the stack, bottom first
func (s *Stack[T]) Items() []T {
	return s.a
}
