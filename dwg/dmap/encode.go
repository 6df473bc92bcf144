package dmap

import (
	"encoding/binary"

	"opendwg/dwg/dcrc"
	"opendwg/dwg/lbits"
)

// EncodeSection delta encodes entries into one map section, CRC included.
func EncodeSection(entries []Entry) []byte {
	writer := lbits.NewBitsWriter()
	var previous Entry
	for i, entry := range entries {
		if i == 0 {
			writer.WriteUModularChar(entry.Handle)
			writer.WriteModularChar(entry.Offset)
		} else {
			writer.WriteUModularChar(entry.Handle - previous.Handle)
			writer.WriteModularChar(entry.Offset - previous.Offset)
		}
		previous = entry
	}
	body := writer.Bytes()

	bs := make([]byte, 0, len(body)+4)
	bs = binary.BigEndian.AppendUint16(bs, uint16(len(body)+crcSize))
	bs = append(bs, body...)
	return binary.BigEndian.AppendUint16(bs, dcrc.Checksum(dcrc.Seed, bs))
}

// Encode writes every section followed by the closing empty section.
func Encode(sections ...[]Entry) []byte {
	bs := make([]byte, 0)
	for _, entries := range sections {
		bs = append(bs, EncodeSection(entries)...)
	}
	bs = binary.BigEndian.AppendUint16(bs, lastSectionSize)
	return binary.BigEndian.AppendUint16(bs, 0)
}

// IndexOf builds an index straight from entries.
func IndexOf(entries ...Entry) *Index {
	index := NewIndex()
	for _, entry := range entries {
		index.put(entry)
	}
	return index
}
