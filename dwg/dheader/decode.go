package dheader

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"opendwg/dwg/dcrc"
	"opendwg/dwg/dlimit"
	"opendwg/dwg/lbits"
)

func createVersionReadFunction(reader *lbits.Reader) lbits.ReadFunction {
	return func() (any, error) {
		versionBytes, err := reader.ReadBytes(len(VersionR2000))
		if err != nil {
			return nil, err
		}
		if string(versionBytes) != VersionR2000 {
			msg := fmt.Sprintf(
				`expected version "%s", got "%s"`,
				VersionR2000, string(versionBytes),
			)
			return nil, errors.Wrap(ErrUnsupportedVersion, msg)
		}
		return string(versionBytes), nil
	}
}

func DecodeLocator(reader *lbits.Reader) (*Locator, error) {
	instructions := []lbits.Instruction{
		{"number", lbits.CreateRawCharReadFunction(reader)},
		{"offset", lbits.CreateRawLongReadFunction(reader)},
		{"size", lbits.CreateRawLongReadFunction(reader)},
	}
	locator, err := lbits.ExecuteInstructions[Locator](instructions)
	if err != nil {
		return nil, errors.Wrap(err, "DecodeLocator error")
	}
	return locator, nil
}

// Decode reads the fixed preamble and the section locator table.
func Decode(reader *lbits.Reader) (*FileHeader, error) {
	readLong := lbits.CreateRawLongReadFunction(reader)
	instructions := []lbits.Instruction{
		{"version", createVersionReadFunction(reader)},
		{"maintenance", lbits.CreateNBytesReadFunction(reader, 7)},
		{"preview_seek", readLong},
		{"reserved", lbits.CreateNBytesReadFunction(reader, 2)},
		{"code_page", lbits.CreateRawShortReadFunction(reader)},
		{"num_locators", readLong},
	}
	header, err := lbits.ExecuteInstructions[FileHeader](instructions)
	if err != nil {
		return nil, errors.Wrap(err, "dheader.Decode error")
	}

	if header.NumLocators < MinLocators {
		err := errors.Wrapf(ErrTooFewLocators, "got %d", header.NumLocators)
		return nil, errors.Wrap(err, "dheader.Decode error")
	}
	if err := dlimit.Check("num_locators", header.NumLocators, dlimit.MaxLocators); err != nil {
		return nil, errors.Wrap(err, "dheader.Decode error")
	}

	header.Locators = make([]Locator, 0, header.NumLocators)
	for i := int32(0); i < header.NumLocators; i++ {
		locator, err := DecodeLocator(reader)
		if err != nil {
			return nil, errors.Wrap(err, "dheader.Decode error")
		}
		header.Locators = append(header.Locators, *locator)
	}

	return header, nil
}

// DecodeSection checks the framing of a sentinel delimited section starting
// at offset and returns its payload:
//
//   start sentinel | RL size | payload | RS CRC | end sentinel
//
// The CRC covers the size field and the payload.
func DecodeSection(data []byte, offset int32, start []byte, end []byte) ([]byte, error) {
	reader := lbits.NewBitsReader(data)
	if err := reader.SeekBytes(int(offset)); err != nil {
		return nil, errors.Wrap(err, "DecodeSection error")
	}

	sentinel, err := reader.ReadBytes(SentinelLength)
	if err != nil {
		return nil, errors.Wrap(err, "DecodeSection error reading start sentinel")
	}
	if !bytes.Equal(sentinel, start) {
		return nil, errors.Wrapf(ErrSentinelMismatch, "start sentinel at %d", offset)
	}

	sizeStart := reader.BytePosition()
	size, err := reader.ReadRawLong()
	if err != nil {
		return nil, errors.Wrap(err, "DecodeSection error reading size")
	}
	if err := dlimit.Check("section size", size, dlimit.MaxSectionSize); err != nil {
		return nil, errors.Wrap(err, "DecodeSection error")
	}
	payload, err := reader.ReadBytes(int(size))
	if err != nil {
		return nil, errors.Wrap(err, "DecodeSection error reading payload")
	}

	storedCRC, err := reader.ReadRawShort()
	if err != nil {
		return nil, errors.Wrap(err, "DecodeSection error reading CRC")
	}
	calculatedCRC := dcrc.Checksum(dcrc.Seed, data[sizeStart:reader.BytePosition()-2])
	if uint16(storedCRC) != calculatedCRC {
		return nil, errors.Wrapf(
			ErrCRCMismatch, "stored %04X, calculated %04X",
			uint16(storedCRC), calculatedCRC,
		)
	}

	sentinel, err = reader.ReadBytes(SentinelLength)
	if err != nil {
		return nil, errors.Wrap(err, "DecodeSection error reading end sentinel")
	}
	if !bytes.Equal(sentinel, end) {
		return nil, errors.Wrapf(ErrSentinelMismatch, "end sentinel of section at %d", offset)
	}

	return payload, nil
}
