package dmap

import (
	"github.com/pkg/errors"
)

type (
	// Index maps a persistent object handle to the absolute byte offset of
	// the object in the file.
	Index struct {
		offsets map[uint64]int64
		handles []uint64
	}
	// Entry is one decoded (handle, offset) pair of the object map.
	Entry struct {
		Handle uint64 `json:"handle"`
		Offset int64  `json:"offset"`
	}
)

const (
	// lastSectionSize is the size of the empty section closing the map: it
	// holds nothing but its own CRC.
	lastSectionSize = 2
	crcSize         = 2
)

var (
	ErrCRCMismatch = errors.New("object map section CRC mismatch")
)
