package dclass

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"opendwg/dwg/dheader"
	"opendwg/dwg/lbits"
)

func DecodeEntry(reader *lbits.Reader) (*Class, error) {
	var (
		class Class
		err   error
	)
	if class.Number, err = reader.ReadBitShort(); err != nil {
		return nil, errors.Wrap(err, "DecodeEntry error reading number")
	}
	if class.ProxyFlags, err = reader.ReadBitShort(); err != nil {
		return nil, errors.Wrap(err, "DecodeEntry error reading proxy flags")
	}
	if class.AppName, err = reader.ReadText(); err != nil {
		return nil, errors.Wrap(err, "DecodeEntry error reading app name")
	}
	if class.CppClassName, err = reader.ReadText(); err != nil {
		return nil, errors.Wrap(err, "DecodeEntry error reading C++ class name")
	}
	if class.DXFName, err = reader.ReadText(); err != nil {
		return nil, errors.Wrap(err, "DecodeEntry error reading DXF name")
	}
	if class.WasZombie, err = reader.ReadBit(); err != nil {
		return nil, errors.Wrap(err, "DecodeEntry error reading zombie flag")
	}
	itemClassID, err := reader.ReadBitShort()
	if err != nil {
		return nil, errors.Wrap(err, "DecodeEntry error reading item class id")
	}
	class.IsEntity = itemClassID == ItemClassEntity
	return &class, nil
}

// DecodeBlock reads class entries until fewer than one whole byte of the
// payload is left.
func DecodeBlock(payload []byte, codePage int) (*Table, error) {
	reader := lbits.NewBitsReader(payload)
	reader.SetCodePage(codePage)
	table := Table{Classes: make([]Class, 0)}
	for reader.BytePosition()+1 < len(payload) {
		class, err := DecodeEntry(reader)
		if err != nil {
			return nil, errors.Wrapf(err, "dclass.DecodeBlock error at class %d", len(table.Classes))
		}
		table.Classes = append(table.Classes, *class)
	}
	return &table, nil
}

// Decode validates the classes section at offset and reads its entries.
func Decode(data []byte, offset int32, codePage int) (*Table, error) {
	payload, err := dheader.DecodeSection(data, offset, ClassesStart, ClassesEnd)
	if err != nil {
		return nil, errors.Wrap(err, "dclass.Decode error")
	}
	return DecodeBlock(payload, codePage)
}

func (t Table) ByNumber(number int16) (Class, bool) {
	return lo.Find(t.Classes, func(class Class) bool {
		return class.Number == number
	})
}
