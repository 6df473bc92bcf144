package dheader

import (
	"encoding/binary"

	"opendwg/dwg/dcrc"
	"opendwg/dwg/lbits"
)

// Encode writes the preamble and locator table. It backs the synthetic
// drawings used in tests.
func Encode(header FileHeader) []byte {
	writer := lbits.NewBitsWriter()
	writer.WriteBytes([]byte(header.Version))
	writer.WriteBytes(padded(header.Maintenance, 7))
	writer.WriteRawLong(header.PreviewSeek)
	writer.WriteBytes(padded(header.Reserved, 2))
	writer.WriteRawShort(header.CodePage)
	writer.WriteRawLong(int32(len(header.Locators)))
	for _, locator := range header.Locators {
		writer.WriteRawChar(locator.Number)
		writer.WriteRawLong(locator.Offset)
		writer.WriteRawLong(locator.Size)
	}
	bs := writer.Bytes()
	crc := make([]byte, 2)
	binary.LittleEndian.PutUint16(crc, dcrc.Checksum(dcrc.Seed, bs))
	bs = append(bs, crc...)
	return append(bs, FileHeaderEnd...)
}

// EncodeSection frames payload between the sentinels with its size and CRC.
func EncodeSection(payload []byte, start []byte, end []byte) []byte {
	bs := make([]byte, 0, len(payload)+2*SentinelLength+6)
	bs = append(bs, start...)
	size := make([]byte, 4)
	binary.LittleEndian.PutUint32(size, uint32(len(payload)))
	crc := dcrc.Checksum(dcrc.Checksum(dcrc.Seed, size), payload)
	bs = append(bs, size...)
	bs = append(bs, payload...)
	bs = binary.LittleEndian.AppendUint16(bs, crc)
	return append(bs, end...)
}

// EncodeVariables writes every variable in read_all layout. Values missing
// from header are written as zero values.
func EncodeVariables(header Header) []byte {
	writer := lbits.NewBitsWriter()
	for _, variable := range Variables {
		var value any
		if header.Values != nil {
			value, _ = header.Values.Get(variable.Name)
		}
		switch variable.Kind {
		case KindBit:
			b, _ := value.(bool)
			writer.WriteBit(b)
		case KindBitShort:
			v, _ := value.(int16)
			writer.WriteBitShort(v)
		case KindBitLong:
			v, _ := value.(int32)
			writer.WriteBitLong(v)
		case KindBitDouble:
			v, _ := value.(float64)
			writer.WriteBitDouble(v)
		case KindText:
			s, _ := value.(string)
			writer.WriteText(s)
		case KindHandle:
			v, _ := value.(uint64)
			if variable.Table != "" {
				v = header.Tables[variable.Table]
			}
			writer.WriteHandle(lbits.NewHandle(lbits.HandleCodeHardOwner, v))
		case KindHandle8:
			v, _ := value.(uint64)
			writer.WriteHandle8(lbits.NewHandle(0, v))
		case KindVector:
			v, _ := value.(lbits.Vector)
			writer.WriteVector(v)
		case KindPoint2D:
			v, _ := value.(lbits.Vector)
			writer.WriteRawVector(v)
		case KindDate:
			v, _ := value.(Date)
			writer.WriteBitLong(v.Day)
			writer.WriteBitLong(v.Milliseconds)
		case KindFlags:
			writer.WriteBitLong(0)
		case KindPlotStyle:
			if header.Values == nil {
				continue
			}
			plotStyleType, _ := header.Values.Get("CEPSNTYPE")
			if plotStyleType == int16(3) {
				v, _ := value.(uint64)
				writer.WriteHandle(lbits.NewHandle(lbits.HandleCodeHardPointer, v))
			}
		}
	}
	return writer.Bytes()
}

func padded(bs []byte, n int) []byte {
	result := make([]byte, n)
	copy(result, bs)
	return result
}
