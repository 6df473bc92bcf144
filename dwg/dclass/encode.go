package dclass

import (
	"opendwg/dwg/dheader"
	"opendwg/dwg/lbits"
)

func Encode(table Table) []byte {
	writer := lbits.NewBitsWriter()
	for _, class := range table.Classes {
		writer.WriteBitShort(class.Number)
		writer.WriteBitShort(class.ProxyFlags)
		writer.WriteText(class.AppName)
		writer.WriteText(class.CppClassName)
		writer.WriteText(class.DXFName)
		writer.WriteBit(class.WasZombie)
		if class.IsEntity {
			writer.WriteBitShort(ItemClassEntity)
		} else {
			writer.WriteBitShort(0x1F3)
		}
	}
	return dheader.EncodeSection(writer.Bytes(), ClassesStart, ClassesEnd)
}
