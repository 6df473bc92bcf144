// Package dpreview reads the thumbnail a drawing carries in its preview
// section.
package dpreview

import (
	"bytes"
	"encoding/binary"
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"opendwg/dwg/dheader"
	"opendwg/dwg/dlimit"
	"opendwg/dwg/lbits"
)

type (
	// Entry locates one picture. Start is an offset in the whole file.
	Entry struct {
		Code  uint8 `json:"code"`
		Start int32 `json:"start"`
		Size  int32 `json:"size"`
	}
	Preview struct {
		Entries []Entry `json:"entries"`
		data    []byte
	}
)

const (
	CodeHeader = 1
	CodeBMP    = 2
	CodeWMF    = 3

	fileHeaderSize = 14
)

var (
	Start = []byte{
		0x1F, 0x25, 0x6D, 0x07, 0xD4, 0x36, 0x28, 0x28,
		0x9D, 0x57, 0xCA, 0x3F, 0x9D, 0x44, 0x10, 0x2B,
	}
	End = []byte{
		0xE0, 0xDA, 0x92, 0xF8, 0x2B, 0xC9, 0xD7, 0xD7,
		0x62, 0xA8, 0x35, 0xC0, 0x62, 0xBB, 0xEF, 0xD4,
	}

	ErrNoPreview = errors.New("drawing has no preview of that kind")
)

// Decode reads the preview section at seeker:
//
//	start sentinel | RL size | RC count | count × (RC code, RL start, RL size) | pictures | end sentinel
func Decode(data []byte, seeker int32) (*Preview, error) {
	reader := lbits.NewBitsReader(data)
	if err := reader.SeekBytes(int(seeker)); err != nil {
		return nil, errors.Wrap(err, "dpreview.Decode error")
	}
	sentinel, err := reader.ReadBytes(dheader.SentinelLength)
	if err != nil {
		return nil, errors.Wrap(err, "dpreview.Decode error reading start sentinel")
	}
	if !bytes.Equal(sentinel, Start) {
		return nil, errors.Wrapf(dheader.ErrSentinelMismatch, "preview at %d", seeker)
	}
	size, err := reader.ReadRawLong()
	if err != nil {
		return nil, errors.Wrap(err, "dpreview.Decode error reading size")
	}
	if err := dlimit.Check("preview size", size, dlimit.MaxPreviewSize); err != nil {
		return nil, errors.Wrap(err, "dpreview.Decode error")
	}
	count, err := reader.ReadRawChar()
	if err != nil {
		return nil, errors.Wrap(err, "dpreview.Decode error reading count")
	}

	preview := &Preview{
		Entries: make([]Entry, 0, count),
		data:    data,
	}
	for i := 0; i < int(count); i++ {
		instructions := []lbits.Instruction{
			{"code", lbits.CreateRawCharReadFunction(reader)},
			{"start", lbits.CreateRawLongReadFunction(reader)},
			{"size", lbits.CreateRawLongReadFunction(reader)},
		}
		entry, err := lbits.ExecuteInstructions[Entry](instructions)
		if err != nil {
			return nil, errors.Wrapf(err, "dpreview.Decode error reading entry %d", i)
		}
		if entry.Start < 0 || entry.Size < 0 || int64(entry.Start)+int64(entry.Size) > int64(len(data)) {
			return nil, errors.Wrapf(lbits.ErrEndOfBuffer, "preview entry %d at %d of %d bytes", i, entry.Start, entry.Size)
		}
		if err := dlimit.Check("preview entry size", entry.Size, dlimit.MaxPreviewSize); err != nil {
			return nil, errors.Wrap(err, "dpreview.Decode error")
		}
		preview.Entries = append(preview.Entries, *entry)
	}

	end := int64(seeker) + dheader.SentinelLength + 4 + int64(size)
	if end+dheader.SentinelLength > int64(len(data)) {
		return nil, errors.Wrapf(lbits.ErrEndOfBuffer, "preview of %d bytes at %d", size, seeker)
	}
	if !bytes.Equal(data[end:end+dheader.SentinelLength], End) {
		return nil, errors.Wrapf(dheader.ErrSentinelMismatch, "end of preview at %d", seeker)
	}
	return preview, nil
}

func (p *Preview) bytesOf(code uint8) ([]byte, bool) {
	for _, entry := range p.Entries {
		if entry.Code == code {
			return p.data[entry.Start : entry.Start+entry.Size], true
		}
	}
	return nil, false
}

// WMF returns the metafile picture as stored.
func (p *Preview) WMF() ([]byte, bool) {
	return p.bytesOf(CodeWMF)
}

// BMP decodes the bitmap picture. It is stored without its file header,
// which is rebuilt from the bitmap header.
func (p *Preview) BMP() (image.Image, error) {
	dib, ok := p.bytesOf(CodeBMP)
	if !ok {
		return nil, errors.Wrap(ErrNoPreview, "no bitmap")
	}
	if len(dib) < 40 {
		return nil, errors.Wrapf(lbits.ErrEndOfBuffer, "bitmap of %d bytes", len(dib))
	}
	headerSize := binary.LittleEndian.Uint32(dib[0:4])
	bitCount := binary.LittleEndian.Uint16(dib[14:16])
	colorsUsed := binary.LittleEndian.Uint32(dib[32:36])
	if colorsUsed == 0 && bitCount <= 8 {
		colorsUsed = 1 << bitCount
	}

	file := make([]byte, 0, fileHeaderSize+len(dib))
	file = append(file, 'B', 'M')
	file = binary.LittleEndian.AppendUint32(file, uint32(fileHeaderSize+len(dib)))
	file = binary.LittleEndian.AppendUint32(file, 0)
	file = binary.LittleEndian.AppendUint32(file, fileHeaderSize+headerSize+4*colorsUsed)
	file = append(file, dib...)

	img, err := bmp.Decode(bytes.NewReader(file))
	if err != nil {
		return nil, errors.Wrap(err, "dpreview.BMP error")
	}
	return img, nil
}

// Encode frames pictures as a preview section placed at offset.
func Encode(offset int32, pictures map[uint8][]byte) []byte {
	codes := []uint8{CodeHeader, CodeBMP, CodeWMF}
	present := make([]uint8, 0, len(codes))
	for _, code := range codes {
		if _, ok := pictures[code]; ok {
			present = append(present, code)
		}
	}

	writer := lbits.NewBitsWriter()
	writer.WriteBytes(Start)
	tableSize := 1 + 9*len(present)
	total := tableSize
	for _, code := range present {
		total += len(pictures[code])
	}
	writer.WriteRawLong(int32(total))
	writer.WriteRawChar(uint8(len(present)))
	start := offset + int32(dheader.SentinelLength+4+tableSize)
	for _, code := range present {
		writer.WriteRawChar(code)
		writer.WriteRawLong(start)
		writer.WriteRawLong(int32(len(pictures[code])))
		start += int32(len(pictures[code]))
	}
	for _, code := range present {
		writer.WriteBytes(pictures[code])
	}
	writer.WriteBytes(End)
	return writer.Bytes()
}
