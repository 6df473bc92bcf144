package ds

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

func integerBounds[T constraints.Integer]() (T, T) {
	var zero T
	bits := unsafe.Sizeof(zero) * 8
	if ^zero < 0 {
		lowest := T(1) << (bits - 1)
		return lowest, ^lowest
	}
	return zero, ^zero
}

// SaturatingAdd adds b to a, clamping to the bounds of T instead of wrapping.
func SaturatingAdd[T constraints.Integer](a, b T) T {
	lowest, highest := integerBounds[T]()
	sum := a + b
	if b > 0 && sum < a {
		return highest
	}
	if b < 0 && sum > a {
		return lowest
	}
	return sum
}

// SaturatingSub subtracts b from a, clamping to the bounds of T instead of wrapping.
func SaturatingSub[T constraints.Integer](a, b T) T {
	lowest, highest := integerBounds[T]()
	difference := a - b
	if b > 0 && difference > a {
		return lowest
	}
	if b < 0 && difference < a {
		return highest
	}
	return difference
}
