package ds

// Stack is a LIFO of pending work. The zero value is ready to use.
type Stack[T any] struct {
	slice []T
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{
		slice: make([]T, 0),
	}
}

func (r *Stack[T]) Len() int {
	return len(r.slice)
}

func (r *Stack[T]) Push(ts ...T) {
	r.slice = append(r.slice, ts...)
}

// Pop reports false on an empty stack.
func (r *Stack[T]) Pop() (T, bool) {
	var last T
	if r.Len() == 0 {
		return last, false
	}
	last = r.slice[r.Len()-1]
	r.slice = r.slice[:r.Len()-1]
	return last, true
}

// Peek reports false on an empty stack.
func (r *Stack[T]) Peek() (T, bool) {
	var last T
	if r.Len() == 0 {
		return last, false
	}
	return r.slice[r.Len()-1], true
}
