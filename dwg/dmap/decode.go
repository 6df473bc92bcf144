package dmap

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"opendwg/dlog"
	"opendwg/ds"
	"opendwg/dwg/dcrc"
	"opendwg/dwg/dlimit"
	"opendwg/dwg/lbits"
)

func NewIndex() *Index {
	return &Index{
		offsets: map[uint64]int64{},
		handles: make([]uint64, 0),
	}
}

// Lookup reports false for handles the map does not know about.
func (r *Index) Lookup(handle uint64) (int64, bool) {
	offset, ok := r.offsets[handle]
	return offset, ok
}

func (r *Index) Len() int {
	return len(r.handles)
}

// Entries lists the pairs in map order.
func (r *Index) Entries() []Entry {
	entries := make([]Entry, 0, len(r.handles))
	for _, handle := range r.handles {
		entries = append(entries, Entry{Handle: handle, Offset: r.offsets[handle]})
	}
	return entries
}

func (r *Index) put(entry Entry) {
	if _, existed := r.offsets[entry.Handle]; existed {
		dlog.Debugf("object map lists handle %X twice, keeping the last offset", entry.Handle)
	} else {
		r.handles = append(r.handles, entry.Handle)
	}
	r.offsets[entry.Handle] = entry.Offset
}

// DecodeSection reads the pairs of one map section body. The first pair is
// absolute, the next ones are deltas against the previous pair.
func DecodeSection(body []byte) ([]Entry, error) {
	reader := lbits.NewBitsReader(body)
	entries := make([]Entry, 0)
	var previous Entry
	for reader.BytePosition() < len(body) {
		handleDelta, err := reader.ReadUModularChar()
		if err != nil {
			return nil, errors.Wrap(err, "dmap.DecodeSection error reading handle delta")
		}
		offsetDelta, err := reader.ReadModularChar()
		if err != nil {
			return nil, errors.Wrap(err, "dmap.DecodeSection error reading offset delta")
		}
		if len(entries) == 0 {
			previous = Entry{Handle: handleDelta, Offset: offsetDelta}
		} else {
			previous = Entry{
				Handle: ds.SaturatingAdd(previous.Handle, handleDelta),
				Offset: ds.SaturatingAdd(previous.Offset, offsetDelta),
			}
		}
		entries = append(entries, previous)
	}
	return entries, nil
}

// Decode reads the object map starting at offset. Each section is
//
//   RS size (big endian, counts the CRC) | pairs | RS CRC (big endian)
//
// and a section of size 2 closes the map.
func Decode(data []byte, offset int32) (*Index, error) {
	reader := lbits.NewBitsReader(data)
	if err := reader.SeekBytes(int(offset)); err != nil {
		return nil, errors.Wrap(err, "dmap.Decode error")
	}

	index := NewIndex()
	for section := 0; ; section++ {
		sectionStart := reader.BytePosition()
		sizeBytes, err := reader.ReadBytes(2)
		if err != nil {
			return nil, errors.Wrapf(err, "dmap.Decode error reading size of section %d", section)
		}
		size := int(binary.BigEndian.Uint16(sizeBytes))
		if size == lastSectionSize {
			break
		}
		if size < crcSize {
			return nil, errors.Wrapf(lbits.ErrMalformed, "dmap.Decode section %d size %d", section, size)
		}
		if err := dlimit.Check("object map section size", size, dlimit.MaxSectionSize); err != nil {
			return nil, errors.Wrap(err, "dmap.Decode error")
		}

		body, err := reader.ReadBytes(size - crcSize)
		if err != nil {
			return nil, errors.Wrapf(err, "dmap.Decode error reading section %d", section)
		}
		crcBytes, err := reader.ReadBytes(crcSize)
		if err != nil {
			return nil, errors.Wrapf(err, "dmap.Decode error reading CRC of section %d", section)
		}
		storedCRC := binary.BigEndian.Uint16(crcBytes)
		calculatedCRC := dcrc.Checksum(dcrc.Seed, data[sectionStart:sectionStart+size])
		if storedCRC != calculatedCRC {
			return nil, errors.Wrapf(
				ErrCRCMismatch, "section %d: stored %04X, calculated %04X",
				section, storedCRC, calculatedCRC,
			)
		}

		entries, err := DecodeSection(body)
		if err != nil {
			return nil, errors.Wrapf(err, "dmap.Decode error in section %d", section)
		}
		if index.Len()+len(entries) > dlimit.MaxChainLength {
			return nil, errors.Wrap(dlimit.ErrLimitExceeded, "dmap.Decode too many entries")
		}
		for _, entry := range entries {
			index.put(entry)
		}
	}
	return index, nil
}
