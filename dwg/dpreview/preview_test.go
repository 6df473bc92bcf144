package dpreview

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"opendwg/dwg/dheader"
	"opendwg/dwg/dlimit"
)

func createBitmap(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	buf := bytes.Buffer{}
	require.NoError(t, bmp.Encode(&buf, img))
	return buf.Bytes()[fileHeaderSize:]
}

func TestDecode(t *testing.T) {
	prefix := []byte("leading bytes")
	wmf := []byte{0xD7, 0xCD, 0xC6, 0x9A}
	section := Encode(int32(len(prefix)), map[uint8][]byte{
		CodeBMP: createBitmap(t),
		CodeWMF: wmf,
	})
	data := append(append([]byte{}, prefix...), section...)

	preview, err := Decode(data, int32(len(prefix)))
	require.NoError(t, err)
	require.Len(t, preview.Entries, 2)
	assert.Equal(t, uint8(CodeBMP), preview.Entries[0].Code)
	assert.Equal(t, uint8(CodeWMF), preview.Entries[1].Code)

	got, ok := preview.WMF()
	require.True(t, ok)
	assert.Equal(t, wmf, got)

	img, err := preview.BMP()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0, 0}, []uint32{r, g, b})
	r, g, b, _ = img.At(0, 1).RGBA()
	assert.Equal(t, []uint32{0, 0, 0xFFFF}, []uint32{r, g, b})
}

func TestDecode_NoBitmap(t *testing.T) {
	data := Encode(0, map[uint8][]byte{CodeWMF: {1, 2, 3}})
	preview, err := Decode(data, 0)
	require.NoError(t, err)

	_, err = preview.BMP()
	assert.ErrorIs(t, err, ErrNoPreview)
}

func TestDecode_BadSentinel(t *testing.T) {
	data := Encode(0, map[uint8][]byte{CodeWMF: {1, 2, 3}})
	data[0] ^= 0xFF
	_, err := Decode(data, 0)
	assert.ErrorIs(t, err, dheader.ErrSentinelMismatch)
}

func TestDecode_EntryOutOfBounds(t *testing.T) {
	data := Encode(0, map[uint8][]byte{CodeWMF: {1, 2, 3}})
	// size of the only entry
	data[len(Start)+4+1+5] = 0xFF
	_, err := Decode(data, 0)
	assert.Error(t, err)
}

func TestDecode_SizeLimit(t *testing.T) {
	data := Encode(0, map[uint8][]byte{CodeWMF: {1, 2, 3}})
	data[len(Start)+3] = 0x7F
	_, err := Decode(data, 0)
	assert.ErrorIs(t, err, dlimit.ErrLimitExceeded)
}
