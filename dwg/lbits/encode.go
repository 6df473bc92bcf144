package lbits

import (
	"encoding/binary"
	"math"
)

// Writer packs values with the same encodings Reader understands. It is used
// to build synthetic drawings and to re-encode values in tests.
type Writer struct {
	buf      []byte
	position int
}

func NewBitsWriter() *Writer {
	return &Writer{
		buf: make([]byte, 0, 64),
	}
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

// Position is the number of bits written so far.
func (w *Writer) Position() int {
	return w.position
}

func (w *Writer) WriteBit(bit bool) {
	if w.position%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit {
		w.buf[w.position/8] |= 1 << (7 - uint(w.position%8))
	}
	w.position++
}

func (w *Writer) WriteBits(value uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit((value>>uint(i))&1 == 1)
	}
}

func (w *Writer) Write2Bits(value uint8) {
	w.WriteBits(uint64(value), 2)
}

func (w *Writer) PadToByte() {
	for w.position%8 != 0 {
		w.WriteBit(false)
	}
}

func (w *Writer) WriteRawChar(b byte) {
	w.WriteBits(uint64(b), 8)
}

func (w *Writer) WriteBytes(bs []byte) {
	for _, b := range bs {
		w.WriteRawChar(b)
	}
}

func (w *Writer) WriteRawShort(value int16) {
	bs := make([]byte, 2)
	binary.LittleEndian.PutUint16(bs, uint16(value))
	w.WriteBytes(bs)
}

func (w *Writer) WriteRawLong(value int32) {
	bs := make([]byte, 4)
	binary.LittleEndian.PutUint32(bs, uint32(value))
	w.WriteBytes(bs)
}

func (w *Writer) WriteRawDouble(value float64) {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, math.Float64bits(value))
	w.WriteBytes(bs)
}

func (w *Writer) WriteBitShort(value int16) {
	switch {
	case value == 0:
		w.Write2Bits(2)
	case value == 256:
		w.Write2Bits(3)
	case value > 0 && value < 256:
		w.Write2Bits(1)
		w.WriteRawChar(byte(value))
	default:
		w.Write2Bits(0)
		w.WriteRawShort(value)
	}
}

func (w *Writer) WriteBitLong(value int32) {
	switch {
	case value == 0:
		w.Write2Bits(2)
	case value > 0 && value < 256:
		w.Write2Bits(1)
		w.WriteRawChar(byte(value))
	default:
		w.Write2Bits(0)
		w.WriteRawLong(value)
	}
}

func (w *Writer) WriteBitDouble(value float64) {
	switch value {
	case 1.0:
		w.Write2Bits(1)
	case 0.0:
		if math.Signbit(value) {
			w.Write2Bits(0)
			w.WriteRawDouble(value)
			return
		}
		w.Write2Bits(2)
	default:
		w.Write2Bits(0)
		w.WriteRawDouble(value)
	}
}

// WriteDefaultDouble picks the shortest patch of def that yields value.
func (w *Writer) WriteDefaultDouble(value float64, def float64) {
	w.WriteDefaultDoubleCode(value, def, DefaultDoubleCode(value, def))
}

// DefaultDoubleCode reports the tag WriteDefaultDouble would use.
func DefaultDoubleCode(value float64, def float64) uint8 {
	valueBits := math.Float64bits(value)
	defBits := math.Float64bits(def)
	switch {
	case valueBits == defBits:
		return 0
	case valueBits>>32 == defBits>>32:
		return 1
	case valueBits>>48 == defBits>>48:
		return 2
	default:
		return 3
	}
}

// WriteDefaultDoubleCode writes value with the given tag. The caller is
// responsible for the tag being able to express value.
func (w *Writer) WriteDefaultDoubleCode(value float64, def float64, code uint8) {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, math.Float64bits(value))
	w.Write2Bits(code)
	switch code {
	case 0:
	case 1:
		w.WriteBytes(bs[0:4])
	case 2:
		w.WriteBytes(bs[4:6])
		w.WriteBytes(bs[0:4])
	default:
		w.WriteBytes(bs)
	}
}

func (w *Writer) WriteModularChar(value int64) {
	negative := value < 0
	if negative {
		value = -value
	}
	for value > 0x3F {
		w.WriteRawChar(byte(value&0x7F) | 0x80)
		value >>= 7
	}
	last := byte(value)
	if negative {
		last |= 0x40
	}
	w.WriteRawChar(last)
}

func (w *Writer) WriteUModularChar(value uint64) {
	for value > 0x7F {
		w.WriteRawChar(byte(value&0x7F) | 0x80)
		value >>= 7
	}
	w.WriteRawChar(byte(value))
}

func (w *Writer) WriteModularShort(value uint64) {
	for value > 0x7FFF {
		w.WriteRawShort(int16(uint16(value&0x7FFF) | 0x8000))
		value >>= 15
	}
	w.WriteRawShort(int16(uint16(value)))
}

func (w *Writer) WriteText(text string) {
	w.WriteBitShort(int16(len(text)))
	w.WriteBytes([]byte(text))
}

func (w *Writer) WriteHandle(h Handle) {
	w.WriteBits(uint64(h.Code), 4)
	w.WriteBits(uint64(len(h.Value)), 4)
	w.WriteBytes(h.Value)
}

func (w *Writer) WriteHandle8(h Handle) {
	w.WriteRawChar(byte(len(h.Value)))
	w.WriteBytes(h.Value)
}

func (w *Writer) WriteVector(v Vector) {
	w.WriteBitDouble(v.X)
	w.WriteBitDouble(v.Y)
	w.WriteBitDouble(v.Z)
}

func (w *Writer) WriteRawVector(v Vector) {
	w.WriteRawDouble(v.X)
	w.WriteRawDouble(v.Y)
}

func (w *Writer) WriteExtrusion(v Vector) {
	if v == (Vector{Z: 1}) {
		w.WriteBit(true)
		return
	}
	w.WriteBit(false)
	w.WriteVector(v)
}

func (w *Writer) WriteThickness(value float64) {
	if value == 0 {
		w.WriteBit(true)
		return
	}
	w.WriteBit(false)
	w.WriteBitDouble(value)
}

// Append writes the bits of other after the bits already written.
func (w *Writer) Append(other *Writer) {
	for i := 0; i < other.position; i++ {
		w.WriteBit(other.buf[i/8]&(1<<(7-uint(i%8))) != 0)
	}
}
