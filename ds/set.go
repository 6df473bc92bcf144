package ds

// Set is a plain membership set. Traversals over handle graphs use it as their
// visited set.
type Set[T comparable] struct {
	items map[T]struct{}
}

func NewSet[T comparable]() *Set[T] {
	return &Set[T]{
		items: map[T]struct{}{},
	}
}

// Add reports whether t was not a member before the call.
func (r *Set[T]) Add(t T) bool {
	if _, ok := r.items[t]; ok {
		return false
	}
	r.items[t] = struct{}{}
	return true
}

func (r *Set[T]) Contains(t T) bool {
	_, ok := r.items[t]
	return ok
}

func (r *Set[T]) Len() int {
	return len(r.items)
}
