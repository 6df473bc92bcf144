package dgeom

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"opendwg/dlog"
	"opendwg/dwg/dobject"
)

const (
	eedString       = 0
	eedInvalid      = 1
	eedBrace        = 2
	eedLayerRef     = 3
	eedBinary       = 4
	eedEntityRef    = 5
	eedPointFirst   = 10
	eedPointLast    = 13
	eedDoubleFirst  = 40
	eedDoubleLast   = 42
	eedShort        = 70
	eedLong         = 71
	eedHandleLength = 8
)

// EEDList holds the extended data records of a geometry as read. They are
// rendered as text only when asked for, or when marshalled.
type EEDList []dobject.EED

func (l EEDList) Strings() []string {
	return EEDStrings(l)
}

func (l EEDList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Strings())
}

// EEDStrings renders every extended data record as text. Records that
// cannot be read become empty strings.
func EEDStrings(records []dobject.EED) []string {
	if len(records) == 0 {
		return nil
	}
	result := make([]string, 0, len(records))
	for _, record := range records {
		result = append(result, EEDString(record.Data))
	}
	return result
}

// EEDString renders one record. The first byte tells how the rest of it is
// laid out.
func EEDString(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	body := data[1:]
	switch tag := data[0]; {
	case tag == eedString:
		// RC length, RS code page, then the bytes
		if len(body) < 3 {
			break
		}
		size := int(body[0])
		if len(body) < 3+size {
			break
		}
		return string(body[3 : 3+size])
	case tag == eedInvalid:
		dlog.Debugf("EED record with an invalid tag")
		return ""
	case tag == eedBrace:
		if len(body) < 1 {
			break
		}
		if body[0] == 0 {
			return "{"
		}
		return "}"
	case tag == eedLayerRef:
		if len(body) < eedHandleLength {
			break
		}
		return "Layer table ref (handle):" + hex.EncodeToString(body[:eedHandleLength])
	case tag == eedBinary:
		if len(body) < 1 || len(body) < 1+int(body[0]) {
			break
		}
		return "Binary chunk (chars):" + hex.EncodeToString(body[1:1+int(body[0])])
	case tag == eedEntityRef:
		if len(body) < eedHandleLength {
			break
		}
		return "Entity handle ref (handle):" + hex.EncodeToString(body[:eedHandleLength])
	case tag >= eedPointFirst && tag <= eedPointLast:
		if len(body) < 24 {
			break
		}
		return fmt.Sprintf("Point: {%f;%f;%f}", double(body[0:]), double(body[8:]), double(body[16:]))
	case tag >= eedDoubleFirst && tag <= eedDoubleLast:
		if len(body) < 8 {
			break
		}
		return fmt.Sprintf("Double:%f", double(body))
	case tag == eedShort:
		if len(body) < 2 {
			break
		}
		return fmt.Sprintf("Short:%d", int16(binary.LittleEndian.Uint16(body)))
	case tag == eedLong:
		if len(body) < 4 {
			break
		}
		return fmt.Sprintf("Long Int:%d", int32(binary.LittleEndian.Uint32(body)))
	default:
		dlog.Debugf("EED record with unknown tag %d", tag)
		return ""
	}
	dlog.Debugf("EED record with tag %d is truncated (%d bytes)", data[0], len(data))
	return ""
}

func double(bs []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(bs))
}
