package lbits

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

type (
	// Reader is a cursor over a byte buffer that is addressed in bits.
	// Fields are packed most significant bit first; multi-byte values are
	// little endian once re-assembled.
	Reader struct {
		buf      []byte
		position int
		decoder  *encoding.Decoder
	}
	// Handle is a reference to another object as it is stored on the wire.
	Handle struct {
		Code    uint8  `json:"code"`
		Counter uint8  `json:"counter"`
		Value   []byte `json:"value"`
	}
	Vector struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	}
	Instruction struct {
		Key          string
		ReadFunction ReadFunction
	}
	ReadFunction func() (any, error)
)

const (
	HandleCodeSoftOwner   = 0x2
	HandleCodeHardOwner   = 0x3
	HandleCodeSoftPointer = 0x4
	HandleCodeHardPointer = 0x5
	HandleCodeNext        = 0x6
	HandleCodePrevious    = 0x8
	HandleCodeForward     = 0xA
	HandleCodeBackward    = 0xC
)

var (
	ErrEndOfBuffer  = errors.New("read past the end of the buffer")
	ErrInvalidCode  = errors.New("invalid encoding code")
	ErrMalformed    = errors.New("malformed variable-length value")
	ErrNegativeSize = errors.New("negative length prefix")
)
