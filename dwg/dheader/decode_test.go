package dheader

import (
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendwg/dwg/lbits"
)

func createFileHeader(numLocators int) FileHeader {
	header := FileHeader{
		Version:     VersionR2000,
		Maintenance: []byte{0, 0, 0, 0, 0, 0x0F, 0x01},
		PreviewSeek: 0x1C0,
		CodePage:    30,
	}
	for i := 0; i < numLocators; i++ {
		header.Locators = append(header.Locators, Locator{
			Number: uint8(i),
			Offset: int32(0x100 * (i + 1)),
			Size:   int32(0x10 * (i + 1)),
		})
	}
	return header
}

func TestDecode(t *testing.T) {
	bs := Encode(createFileHeader(5))

	header, err := Decode(lbits.NewBitsReader(bs))
	require.NoError(t, err)
	assert.Equal(t, VersionR2000, header.Version)
	assert.Equal(t, int16(30), header.CodePage)
	assert.Equal(t, int32(0x1C0), header.PreviewSeek)
	assert.Len(t, header.Locators, 5)

	locator, err := header.Locator(LocatorObjectMap)
	require.NoError(t, err)
	assert.Equal(t, Locator{Number: 2, Offset: 0x300, Size: 0x30}, locator)
}

func TestDecode_TooFewLocators(t *testing.T) {
	bs := Encode(createFileHeader(2))

	_, err := Decode(lbits.NewBitsReader(bs))
	assert.ErrorIs(t, err, ErrTooFewLocators)
}

func TestDecode_WrongVersion(t *testing.T) {
	fileHeader := createFileHeader(3)
	fileHeader.Version = "AC1018"
	bs := Encode(fileHeader)

	_, err := Decode(lbits.NewBitsReader(bs))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeSection(t *testing.T) {
	payload := []byte("header variables payload")
	bs := append([]byte{0xAA, 0xBB}, EncodeSection(payload, HeaderStart, HeaderEnd)...)

	decoded, err := DecodeSection(bs, 2, HeaderStart, HeaderEnd)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodeSection_FlippedCRC(t *testing.T) {
	payload := []byte("header variables payload")
	bs := EncodeSection(payload, HeaderStart, HeaderEnd)
	bs[SentinelLength+4+len(payload)] ^= 0xFF

	_, err := DecodeSection(bs, 0, HeaderStart, HeaderEnd)
	assert.ErrorIs(t, err, ErrCRCMismatch)
}

func TestDecodeSection_WrongSentinels(t *testing.T) {
	payload := []byte{1, 2, 3}

	_, err := DecodeSection(EncodeSection(payload, HeaderEnd, HeaderEnd), 0, HeaderStart, HeaderEnd)
	assert.ErrorIs(t, err, ErrSentinelMismatch)

	_, err = DecodeSection(EncodeSection(payload, HeaderStart, HeaderStart), 0, HeaderStart, HeaderEnd)
	assert.ErrorIs(t, err, ErrSentinelMismatch)
}

func TestDecodeSection_Truncated(t *testing.T) {
	bs := EncodeSection([]byte{1, 2, 3, 4}, HeaderStart, HeaderEnd)

	_, err := DecodeSection(bs[:SentinelLength+6], 0, HeaderStart, HeaderEnd)
	assert.Error(t, err)
	_, err = DecodeSection(bs, int32(len(bs)+10), HeaderStart, HeaderEnd)
	assert.Error(t, err)
}

func createHeader() Header {
	values := orderedmap.New()
	values.Set("DIMASO", true)
	values.Set("LUNITS", int16(2))
	values.Set("LTSCALE", 2.5)
	values.Set("MENU", "acad")
	values.Set("TDCREATE", Date{Day: 2451545, Milliseconds: 43200000})
	values.Set("HANDSEED", uint64(0x2F1))
	values.Set("EXTMAX", lbits.Vector{X: 100, Y: 50, Z: 0})
	values.Set("LIMMAX", lbits.Vector{X: 420, Y: 297})
	values.Set("INSUNITS", int16(4))
	values.Set("CEPSNTYPE", int16(3))
	values.Set("CEPSNID", uint64(0x0F))
	values.Set("FINGERPRINTGUID", "{C3A0A1A0-0000-0000-0000-000000000000}")
	return Header{
		Values: values,
		Tables: Tables{
			TableLayers:       0x02,
			TableBlocks:       0x01,
			TableNamedObjects: 0x0C,
			TableModelSpace:   0x1F,
		},
	}
}

func TestDecodeVariables_ReadAll(t *testing.T) {
	payload := EncodeVariables(createHeader())

	header, err := DecodeVariables(payload, ReadAll, 30)
	require.NoError(t, err)

	dimaso, _ := header.Values.Get("DIMASO")
	assert.Equal(t, true, dimaso)
	assert.Equal(t, 2, header.Int("LUNITS", 0))
	assert.Equal(t, 4, header.Int("INSUNITS", 0))
	assert.Equal(t, "acad", header.String("MENU"))
	extMax, ok := header.Vector("EXTMAX")
	assert.True(t, ok)
	assert.Equal(t, lbits.Vector{X: 100, Y: 50}, extMax)
	created, _ := header.Values.Get("TDCREATE")
	assert.Equal(t, 2000, created.(Date).Time().Year())
	plotStyle, _ := header.Values.Get("CEPSNID")
	assert.Equal(t, uint64(0x0F), plotStyle)
	assert.Equal(t, uint64(0x02), header.Tables[TableLayers])
	assert.Equal(t, uint64(0x1F), header.Tables[TableModelSpace])
	assert.Equal(t, uint64(0x0C), header.Tables[TableNamedObjects])
}

func TestDecodeVariables_FastModesStayAligned(t *testing.T) {
	payload := EncodeVariables(createHeader())

	full, err := DecodeVariables(payload, ReadAll, 30)
	require.NoError(t, err)
	fast, err := DecodeVariables(payload, ReadFast, 30)
	require.NoError(t, err)

	assert.Equal(t, full.Tables, fast.Tables)
	assert.Equal(t, full.String("FINGERPRINTGUID"), fast.String("FINGERPRINTGUID"))
	assert.Equal(t, 4, fast.Int("INSUNITS", 0))
	_, ok := fast.Values.Get("MENU")
	assert.False(t, ok)
}

func TestDecodeVariables_Truncated(t *testing.T) {
	payload := EncodeVariables(createHeader())

	_, err := DecodeVariables(payload[:len(payload)/2], ReadAll, 30)
	assert.ErrorIs(t, err, lbits.ErrEndOfBuffer)
}
