package lbits

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadRawChar_Unaligned(t *testing.T) {
	reader := NewBitsReader([]byte{0b10110011, 0b01010101})

	bit, err := reader.ReadBit()
	require.NoError(t, err)
	assert.True(t, bit)

	b, err := reader.ReadRawChar()
	require.NoError(t, err)
	assert.Equal(t, byte(0b01100110), b)
	assert.Equal(t, 9, reader.Position())
}

func TestReader_ReadRawShort(t *testing.T) {
	reader := NewBitsReader([]byte{3, 1, 4, 3})

	first, err := reader.ReadRawShort()
	require.NoError(t, err)
	assert.Equal(t, int16(259), first)

	second, err := reader.ReadRawShort()
	require.NoError(t, err)
	assert.Equal(t, int16(772), second)
}

func TestReader_ReadBitShort(t *testing.T) {
	writer := NewBitsWriter()
	writer.WriteBit(true)
	writer.WriteBitShort(0)
	writer.WriteBitShort(256)
	writer.WriteBitShort(200)
	writer.WriteBitShort(-7)

	reader := NewBitsReader(writer.Bytes())
	_, err := reader.ReadBit()
	require.NoError(t, err)
	for _, expected := range []int16{0, 256, 200, -7} {
		value, err := reader.ReadBitShort()
		require.NoError(t, err)
		assert.Equal(t, expected, value)
	}
}

func TestReader_ReadBitLong_InvalidCode(t *testing.T) {
	reader := NewBitsReader([]byte{0b11000000})

	_, err := reader.ReadBitLong()
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestReader_ReadBitDouble(t *testing.T) {
	writer := NewBitsWriter()
	writer.WriteBitDouble(1.0)
	writer.WriteBitDouble(0.0)
	writer.WriteBitDouble(-12.375)

	reader := NewBitsReader(writer.Bytes())
	for _, expected := range []float64{1.0, 0.0, -12.375} {
		value, err := reader.ReadBitDouble()
		require.NoError(t, err)
		assert.Equal(t, expected, value)
	}
}

func TestReader_ReadDefaultDouble_AllCodes(t *testing.T) {
	def := 1234.5678
	patchedLow := math.Float64frombits(math.Float64bits(def) ^ 0x00000000DEADBEEF)
	patchedMiddle := math.Float64frombits(math.Float64bits(def) ^ 0x0000123400000001)

	cases := []struct {
		value float64
		code  uint8
	}{
		{def, 0},
		{patchedLow, 1},
		{patchedMiddle, 2},
		{0.0, 3},
		{1.0, 3},
		{-98765.4321, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, DefaultDoubleCode(c.value, def), c.value)

		writer := NewBitsWriter()
		writer.WriteBit(false)
		writer.WriteDefaultDouble(c.value, def)
		reader := NewBitsReader(writer.Bytes())
		_, err := reader.ReadBit()
		require.NoError(t, err)

		value, err := reader.ReadDefaultDouble(def)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(c.value), math.Float64bits(value))
	}
}

func TestReader_ReadDefaultDouble_ZeroAndOneDefaults(t *testing.T) {
	for _, def := range []float64{0.0, 1.0} {
		for code := uint8(0); code < 4; code++ {
			value := def
			writer := NewBitsWriter()
			writer.WriteDefaultDoubleCode(value, def, code)
			reader := NewBitsReader(writer.Bytes())

			decoded, err := reader.ReadDefaultDouble(def)
			require.NoError(t, err)
			assert.Equal(t, value, decoded)
		}
	}
}

func TestReader_ReadModularChar(t *testing.T) {
	// 0x82 0x24: low group 2, then 0x24 (positive) shifted by 7
	reader := NewBitsReader([]byte{0x82, 0x24, 0x41, 0xE9, 0x57})

	value, err := reader.ReadModularChar()
	require.NoError(t, err)
	assert.Equal(t, int64(2+0x24<<7), value)

	value, err = reader.ReadModularChar()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), value)

	unsigned, err := reader.ReadUModularChar()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x69+0x57<<7), unsigned)
}

func TestReader_ReadModularChar_Unterminated(t *testing.T) {
	reader := NewBitsReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01})

	_, err := reader.ReadModularChar()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReader_ReadModularShort(t *testing.T) {
	writer := NewBitsWriter()
	writer.WriteModularShort(40000)
	reader := NewBitsReader(writer.Bytes())

	value, err := reader.ReadModularShort()
	require.NoError(t, err)
	assert.Equal(t, uint64(40000), value)
	assert.Equal(t, 32, reader.Position())
}

func TestReader_ReadHandle(t *testing.T) {
	reader := NewBitsReader([]byte{0x52, 0x01, 0x0F})

	handle, err := reader.ReadHandle()
	require.NoError(t, err)
	assert.Equal(t, uint8(5), handle.Code)
	assert.Equal(t, uint8(2), handle.Counter)
	assert.Equal(t, uint64(0x010F), handle.Uint())
}

func TestHandle_Resolve(t *testing.T) {
	assert.Equal(t, uint64(0x21), NewHandle(HandleCodeNext, 0).Resolve(0x20))
	assert.Equal(t, uint64(0x1F), NewHandle(HandleCodePrevious, 0).Resolve(0x20))
	assert.Equal(t, uint64(0x25), NewHandle(HandleCodeForward, 5).Resolve(0x20))
	assert.Equal(t, uint64(0x1B), NewHandle(HandleCodeBackward, 5).Resolve(0x20))
	assert.Equal(t, uint64(0x44), NewHandle(HandleCodeHardPointer, 0x44).Resolve(0x20))
	assert.Equal(t, uint64(0), NewHandle(HandleCodeBackward, 0x40).Resolve(0x20))
	assert.Equal(t, uint64(math.MaxUint64), NewHandle(HandleCodeNext, 0).Resolve(math.MaxUint64))
}

func TestReader_ReadText_CodePage(t *testing.T) {
	writer := NewBitsWriter()
	writer.WriteBit(true)
	writer.WriteText("Ma\xdfe\x00")
	reader := NewBitsReader(writer.Bytes())
	reader.SetCodePage(30)
	_, err := reader.ReadBit()
	require.NoError(t, err)

	text, err := reader.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "Maße", text)
}

func TestReader_ReadBytes_PastEnd(t *testing.T) {
	reader := NewBitsReader([]byte{1, 2, 3})

	_, err := reader.ReadBytes(1 << 30)
	assert.ErrorIs(t, err, ErrEndOfBuffer)
	assert.Equal(t, 0, reader.Position())

	_, err = reader.ReadBytes(-1)
	assert.ErrorIs(t, err, ErrNegativeSize)
}

func TestReader_SkipMatchesRead(t *testing.T) {
	writer := NewBitsWriter()
	writer.WriteBitShort(1000)
	writer.WriteBitLong(77)
	writer.WriteBitDouble(3.5)
	writer.WriteText("layer")
	writer.WriteHandle(NewHandle(HandleCodeSoftPointer, 0x1234))
	writer.WriteVector(Vector{X: 1, Y: 2.5, Z: 0})

	full := NewBitsReader(writer.Bytes())
	_, _ = full.ReadBitShort()
	_, _ = full.ReadBitLong()
	_, _ = full.ReadBitDouble()
	_, _ = full.ReadText()
	_, _ = full.ReadHandle()
	_, _ = full.ReadVector()

	fast := NewBitsReader(writer.Bytes())
	require.NoError(t, fast.SkipBitShort())
	require.NoError(t, fast.SkipBitLong())
	require.NoError(t, fast.SkipBitDouble())
	require.NoError(t, fast.SkipText())
	require.NoError(t, fast.SkipHandle())
	require.NoError(t, fast.SkipVector())

	assert.Equal(t, full.Position(), fast.Position())
}

func TestReader_AlignToByte(t *testing.T) {
	reader := NewBitsReader([]byte{0, 0, 0})
	require.NoError(t, reader.SeekBits(3))
	require.NoError(t, reader.AlignToByte())
	assert.Equal(t, 8, reader.Position())
	require.NoError(t, reader.AlignToByte())
	assert.Equal(t, 8, reader.Position())
}
