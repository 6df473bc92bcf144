package dmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendwg/dwg/lbits"
)

func TestDecode(t *testing.T) {
	first := []Entry{
		{Handle: 0x01, Offset: 0x1000},
		{Handle: 0x02, Offset: 0x1040},
		{Handle: 0x10, Offset: 0x0F00},
	}
	second := []Entry{
		{Handle: 0x2A, Offset: 0x2000},
		{Handle: 0x2B, Offset: 0x2100},
	}
	prefix := []byte{0xAA, 0xBB, 0xCC}
	bs := append(prefix, Encode(first, second)...)

	index, err := Decode(bs, int32(len(prefix)))
	require.NoError(t, err)
	assert.Equal(t, 5, index.Len())
	assert.Equal(t, append(first, second...), index.Entries())

	offset, ok := index.Lookup(0x10)
	assert.True(t, ok)
	assert.Equal(t, int64(0x0F00), offset)

	offset, ok = index.Lookup(0x2B)
	assert.True(t, ok)
	assert.Equal(t, int64(0x2100), offset)
}

func TestIndex_LookupNotFound(t *testing.T) {
	index, err := Decode(Encode([]Entry{{Handle: 0x05, Offset: 0}}), 0)
	require.NoError(t, err)

	offset, ok := index.Lookup(0x05)
	assert.True(t, ok)
	assert.Equal(t, int64(0), offset)

	_, ok = index.Lookup(0x06)
	assert.False(t, ok)
}

func TestDecode_CRCMismatch(t *testing.T) {
	bs := Encode([]Entry{{Handle: 0x01, Offset: 0x100}, {Handle: 0x02, Offset: 0x180}})
	bs[2] ^= 0x01

	_, err := Decode(bs, 0)
	assert.ErrorIs(t, err, ErrCRCMismatch)
}

func TestDecode_Truncated(t *testing.T) {
	bs := Encode([]Entry{{Handle: 0x01, Offset: 0x100}})

	_, err := Decode(bs[:3], 0)
	assert.ErrorIs(t, err, lbits.ErrEndOfBuffer)
}

func TestDecodeSection_Saturates(t *testing.T) {
	writer := lbits.NewBitsWriter()
	writer.WriteUModularChar(math.MaxUint64 - 1)
	writer.WriteModularChar(math.MaxInt64 - 1)
	writer.WriteUModularChar(10)
	writer.WriteModularChar(10)
	writer.WriteUModularChar(0)
	writer.WriteModularChar(math.MinInt64 + 1)

	entries, err := DecodeSection(writer.Bytes())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(math.MaxUint64), entries[1].Handle)
	assert.Equal(t, int64(math.MaxInt64), entries[1].Offset)
	assert.Equal(t, int64(0), entries[2].Offset)
}
