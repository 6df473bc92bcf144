package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	stack := NewStack[int]()
	_, ok := stack.Pop()
	assert.False(t, ok)

	stack.Push(1, 2)
	stack.Push(3)
	assert.Equal(t, 3, stack.Len())

	last, ok := stack.Peek()
	assert.True(t, ok)
	assert.Equal(t, 3, last)

	popped := make([]int, 0)
	for {
		value, ok := stack.Pop()
		if !ok {
			break
		}
		popped = append(popped, value)
	}
	assert.Equal(t, []int{3, 2, 1}, popped)

	var zero Stack[string]
	_, ok = zero.Peek()
	assert.False(t, ok)
}
