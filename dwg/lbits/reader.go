package lbits

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/pkg/errors"

	"opendwg/ds"
)

func NewBitsReader(bs []byte) *Reader {
	return &Reader{
		buf: bs,
	}
}

// Position returns the cursor offset in bits.
func (r *Reader) Position() int {
	return r.position
}

// BytePosition returns the index of the byte holding the next bit.
func (r *Reader) BytePosition() int {
	return r.position / 8
}

func (r *Reader) Len() int {
	return len(r.buf)
}

// RemainingBits is never negative.
func (r *Reader) RemainingBits() int {
	remaining := len(r.buf)*8 - r.position
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r *Reader) Bytes() []byte {
	return r.buf
}

// Seek moves the cursor to an absolute bit offset.
func (r *Reader) Seek(bitPosition int) error {
	if bitPosition < 0 || bitPosition > len(r.buf)*8 {
		return errors.Wrapf(ErrEndOfBuffer, "Seek to bit %d of %d", bitPosition, len(r.buf)*8)
	}
	r.position = bitPosition
	return nil
}

func (r *Reader) SeekBits(delta int) error {
	return r.Seek(r.position + delta)
}

func (r *Reader) SeekBytes(bytePosition int) error {
	return r.Seek(bytePosition * 8)
}

func (r *Reader) AlignToByte() error {
	return r.Seek(ds.NearestDivisibleByM(r.position, 8))
}

func (r *Reader) ensure(bits int) error {
	if bits < 0 || r.position+bits > len(r.buf)*8 {
		return ErrEndOfBuffer
	}
	return nil
}

func (r *Reader) ReadBit() (bool, error) {
	if err := r.ensure(1); err != nil {
		return false, err
	}
	b := r.buf[r.position/8]
	bit := (b >> (7 - uint(r.position%8))) & 1
	r.position++
	return bit == 1, nil
}

// ReadBits reads up to 64 bits into the low end of the result.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n > 64 {
		return 0, errors.Wrapf(ErrInvalidCode, "ReadBits width %d", n)
	}
	if err := r.ensure(n); err != nil {
		return 0, err
	}
	result := uint64(0)
	for i := 0; i < n; i++ {
		b := r.buf[r.position/8]
		bit := (b >> (7 - uint(r.position%8))) & 1
		result = result<<1 | uint64(bit)
		r.position++
	}
	return result, nil
}

func (r *Reader) Read2Bits() (uint8, error) {
	value, err := r.ReadBits(2)
	return uint8(value), err
}

func (r *Reader) Read3Bits() (uint8, error) {
	value, err := r.ReadBits(3)
	return uint8(value), err
}

func (r *Reader) Read4Bits() (uint8, error) {
	value, err := r.ReadBits(4)
	return uint8(value), err
}

// ReadRawChar reads 8 bits, stitching two adjacent bytes when the cursor is
// not on a byte boundary.
func (r *Reader) ReadRawChar() (byte, error) {
	if err := r.ensure(8); err != nil {
		return 0, err
	}
	index := r.position / 8
	shift := uint(r.position % 8)
	b := r.buf[index] << shift
	if shift != 0 {
		b |= r.buf[index+1] >> (8 - shift)
	}
	r.position += 8
	return b, nil
}

// ReadBytes refuses to allocate more than what is left in the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if err := r.ensure(n * 8); err != nil {
		return nil, err
	}
	bs := make([]byte, n)
	if r.position%8 == 0 {
		copy(bs, r.buf[r.position/8:])
		r.position += n * 8
		return bs, nil
	}
	for i := range bs {
		b, err := r.ReadRawChar()
		if err != nil {
			return nil, err
		}
		bs[i] = b
	}
	return bs, nil
}

func (r *Reader) ReadRawShort() (int16, error) {
	bs, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(bs)), nil
}

func (r *Reader) ReadRawLong() (int32, error) {
	bs, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(bs)), nil
}

func (r *Reader) ReadRawLongLong() (int64, error) {
	bs, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(bs)), nil
}

func (r *Reader) ReadRawDouble() (float64, error) {
	bs, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(bs)), nil
}

// ReadBitShort: 00 raw short, 01 unsigned char, 10 zero, 11 256.
func (r *Reader) ReadBitShort() (int16, error) {
	code, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	switch code {
	case 0:
		return r.ReadRawShort()
	case 1:
		b, err := r.ReadRawChar()
		return int16(b), err
	case 2:
		return 0, nil
	default:
		return 256, nil
	}
}

// ReadBitLong: 00 raw long, 01 unsigned char, 10 zero. 11 is not used.
func (r *Reader) ReadBitLong() (int32, error) {
	code, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	switch code {
	case 0:
		return r.ReadRawLong()
	case 1:
		b, err := r.ReadRawChar()
		return int32(b), err
	case 2:
		return 0, nil
	default:
		return 0, errors.Wrap(ErrInvalidCode, "ReadBitLong error")
	}
}

// ReadBitLongLong reads a 3-bit byte count followed by that many little
// endian bytes.
func (r *Reader) ReadBitLongLong() (uint64, error) {
	count, err := r.Read3Bits()
	if err != nil {
		return 0, err
	}
	bs, err := r.ReadBytes(int(count))
	if err != nil {
		return 0, err
	}
	result := uint64(0)
	for i := len(bs) - 1; i >= 0; i-- {
		result = result<<8 | uint64(bs[i])
	}
	return result, nil
}

// ReadBitDouble: 00 raw double, 01 1.0, 10 0.0. 11 is not used.
func (r *Reader) ReadBitDouble() (float64, error) {
	code, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	switch code {
	case 0:
		return r.ReadRawDouble()
	case 1:
		return 1.0, nil
	case 2:
		return 0.0, nil
	default:
		return 0, errors.Wrap(ErrInvalidCode, "ReadBitDouble error")
	}
}

// ReadDefaultDouble patches the little endian bytes of def:
// 00 keeps def, 01 replaces bytes 0-3, 10 replaces bytes 4-5 then 0-3,
// 11 reads a whole raw double.
func (r *Reader) ReadDefaultDouble(def float64) (float64, error) {
	code, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, math.Float64bits(def))
	switch code {
	case 0:
		return def, nil
	case 1:
		low, err := r.ReadBytes(4)
		if err != nil {
			return 0, err
		}
		copy(bs[0:4], low)
	case 2:
		middle, err := r.ReadBytes(2)
		if err != nil {
			return 0, err
		}
		low, err := r.ReadBytes(4)
		if err != nil {
			return 0, err
		}
		copy(bs[4:6], middle)
		copy(bs[0:4], low)
	default:
		return r.ReadRawDouble()
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(bs)), nil
}

const maxModularChars = 10

// ReadModularChar reads a signed value in 7-bit groups, least significant
// group first. 0x80 marks continuation; 0x40 on the last byte is the sign.
func (r *Reader) ReadModularChar() (int64, error) {
	result := int64(0)
	shift := uint(0)
	for i := 0; i < maxModularChars; i++ {
		b, err := r.ReadRawChar()
		if err != nil {
			return 0, err
		}
		if b&0x80 != 0 {
			result |= int64(b&0x7F) << shift
			shift += 7
			continue
		}
		result |= int64(b&0x3F) << shift
		if b&0x40 != 0 {
			result = -result
		}
		return result, nil
	}
	return 0, errors.Wrap(ErrMalformed, "ReadModularChar error")
}

func (r *Reader) ReadUModularChar() (uint64, error) {
	result := uint64(0)
	shift := uint(0)
	for i := 0; i < maxModularChars; i++ {
		b, err := r.ReadRawChar()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, errors.Wrap(ErrMalformed, "ReadUModularChar error")
}

const maxModularShorts = 4

// ReadModularShort reads little endian 16-bit words carrying 15 bits each;
// the high bit of a word marks continuation.
func (r *Reader) ReadModularShort() (uint64, error) {
	result := uint64(0)
	shift := uint(0)
	for i := 0; i < maxModularShorts; i++ {
		word, err := r.ReadRawShort()
		if err != nil {
			return 0, err
		}
		w := uint16(word)
		result |= uint64(w&0x7FFF) << shift
		if w&0x8000 == 0 {
			return result, nil
		}
		shift += 15
	}
	return 0, errors.Wrap(ErrMalformed, "ReadModularShort error")
}

// ReadText reads a bit short length followed by that many bytes, decoded
// through the reader's code page.
func (r *Reader) ReadText() (string, error) {
	length, err := r.ReadBitShort()
	if err != nil {
		return "", err
	}
	bs, err := r.ReadBytes(int(uint16(length)))
	if err != nil {
		return "", errors.Wrap(err, "ReadText error")
	}
	return r.decode(bs), nil
}

func (r *Reader) decode(bs []byte) string {
	raw := strings.TrimRight(string(bs), "\u0000")
	if r.decoder == nil {
		return raw
	}
	decoded, err := r.decoder.String(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func (r *Reader) ReadHandle() (Handle, error) {
	code, err := r.Read4Bits()
	if err != nil {
		return Handle{}, err
	}
	counter, err := r.Read4Bits()
	if err != nil {
		return Handle{}, err
	}
	if counter > 8 {
		return Handle{}, errors.Wrapf(ErrMalformed, "ReadHandle counter %d", counter)
	}
	value, err := r.ReadBytes(int(counter))
	if err != nil {
		return Handle{}, err
	}
	return Handle{Code: code, Counter: counter, Value: value}, nil
}

// ReadHandle8 reads a raw char byte count followed by the handle bytes.
func (r *Reader) ReadHandle8() (Handle, error) {
	counter, err := r.ReadRawChar()
	if err != nil {
		return Handle{}, err
	}
	if counter > 8 {
		return Handle{}, errors.Wrapf(ErrMalformed, "ReadHandle8 counter %d", counter)
	}
	value, err := r.ReadBytes(int(counter))
	if err != nil {
		return Handle{}, err
	}
	return Handle{Counter: counter, Value: value}, nil
}

func (r *Reader) ReadVector() (Vector, error) {
	x, err := r.ReadBitDouble()
	if err != nil {
		return Vector{}, err
	}
	y, err := r.ReadBitDouble()
	if err != nil {
		return Vector{}, err
	}
	z, err := r.ReadBitDouble()
	if err != nil {
		return Vector{}, err
	}
	return Vector{X: x, Y: y, Z: z}, nil
}

func (r *Reader) ReadRawVector() (Vector, error) {
	x, err := r.ReadRawDouble()
	if err != nil {
		return Vector{}, err
	}
	y, err := r.ReadRawDouble()
	if err != nil {
		return Vector{}, err
	}
	return Vector{X: x, Y: y}, nil
}

// ReadExtrusion returns the default (0, 0, 1) when the leading bit is set.
func (r *Reader) ReadExtrusion() (Vector, error) {
	isDefault, err := r.ReadBit()
	if err != nil {
		return Vector{}, err
	}
	if isDefault {
		return Vector{Z: 1}, nil
	}
	return r.ReadVector()
}

// ReadThickness returns 0 when the leading bit is set.
func (r *Reader) ReadThickness() (float64, error) {
	isZero, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if isZero {
		return 0, nil
	}
	return r.ReadBitDouble()
}
