package lbits

import (
	"fmt"

	"opendwg/ds"
)

// Uint interprets the handle bytes as a big-endian absolute value.
func (h Handle) Uint() uint64 {
	result := uint64(0)
	for _, b := range h.Value {
		result = result<<8 | uint64(b)
	}
	return result
}

func (h Handle) IsNull() bool {
	return h.Uint() == 0
}

// Resolve turns the handle into an absolute value. Codes 0x6, 0x8, 0xA and 0xC
// are offsets from ref, the handle of the object holding the reference; every
// other code is absolute.
func (h Handle) Resolve(ref uint64) uint64 {
	switch h.Code {
	case HandleCodeNext:
		return ds.SaturatingAdd(ref, 1)
	case HandleCodePrevious:
		return ds.SaturatingSub(ref, 1)
	case HandleCodeForward:
		return ds.SaturatingAdd(ref, h.Uint())
	case HandleCodeBackward:
		return ds.SaturatingSub(ref, h.Uint())
	default:
		return h.Uint()
	}
}

func (h Handle) String() string {
	return fmt.Sprintf("%d.%d.%X", h.Code, h.Counter, h.Uint())
}

func NewHandle(code uint8, value uint64) Handle {
	bs := make([]byte, 0, 8)
	for value > 0 {
		bs = append([]byte{byte(value)}, bs...)
		value >>= 8
	}
	return Handle{
		Code:    code,
		Counter: uint8(len(bs)),
		Value:   bs,
	}
}

func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vector) Scale(factor float64) Vector {
	return Vector{X: v.X * factor, Y: v.Y * factor, Z: v.Z * factor}
}
