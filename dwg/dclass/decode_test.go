package dclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendwg/dwg/dheader"
)

func createTable() Table {
	return Table{
		Classes: []Class{
			{Number: 500, AppName: "ISM", CppClassName: "AcDbRasterImage", DXFName: "IMAGE", ProxyFlags: 127, IsEntity: true},
			{Number: 501, AppName: "ISM", CppClassName: "AcDbRasterImageDef", DXFName: "IMAGEDEF"},
			{Number: 502, AppName: "ObjectDBX Classes", CppClassName: "AcDbDictionaryWithDefault", DXFName: "ACDBDICTIONARYWDFLT"},
		},
	}
}

func TestDecode(t *testing.T) {
	bs := Encode(createTable())

	table, err := Decode(bs, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, createTable(), *table)

	class, ok := table.ByNumber(501)
	assert.True(t, ok)
	assert.Equal(t, "AcDbRasterImageDef", class.CppClassName)

	_, ok = table.ByNumber(600)
	assert.False(t, ok)
}

func TestDecode_CorruptedCRC(t *testing.T) {
	bs := Encode(createTable())
	bs[dheader.SentinelLength+5] ^= 0x01

	_, err := Decode(bs, 0, 30)
	assert.ErrorIs(t, err, dheader.ErrCRCMismatch)
}
