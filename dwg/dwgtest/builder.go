// Package dwgtest builds complete synthetic R2000 drawings for tests.
package dwgtest

import (
	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"opendwg/dwg/dclass"
	"opendwg/dwg/dheader"
	"opendwg/dwg/dmap"
	"opendwg/dwg/dobject"
	"opendwg/dwg/dpreview"
	"opendwg/dwg/lbits"
)

const (
	LayerControl = 0x02
	NamedObjects = 0x0C
	DefaultLayer = 0x10
	WallsLayer   = 0x11
	ModelSpace   = 0x1F
	ESRIRecord   = 0x20

	// MapSectionEntries is how many pairs go into one object map section.
	MapSectionEntries = 64
)

// Drawing is laid out as
//
//	preamble | header | classes | preview | objects | object map
//
// with the preview left out when there are no pictures.
type Drawing struct {
	CodePage int16
	Header   dheader.Header
	Classes  dclass.Table
	Pictures map[uint8][]byte
	Objects  []dobject.Object
}

// NewDrawing is a drawing with the layers "0" and "WALLS", a named object
// dictionary and a model space whose entity chain runs from first to last.
// The objects are added after the tables.
func NewDrawing(first uint64, last uint64, objects ...dobject.Object) *Drawing {
	values := orderedmap.New()
	values.Set("INSUNITS", int16(4))
	values.Set("FINGERPRINTGUID", "{8C8B5A2E-0E4B-4C8D-9F4A-2B1E7D3C6A10}")
	values.Set("EXTMIN", lbits.Vector{})
	values.Set("EXTMAX", lbits.Vector{X: 100, Y: 50})

	drawing := &Drawing{
		CodePage: 30,
		Header: dheader.Header{
			Values: values,
			Tables: dheader.Tables{
				dheader.TableLayers:       LayerControl,
				dheader.TableNamedObjects: NamedObjects,
				dheader.TableModelSpace:   ModelSpace,
			},
		},
	}
	drawing.Objects = append(Tables(first, last), objects...)
	return drawing
}

// Tables returns the layer table, the model space block header and the
// named object dictionary NewDrawing starts with.
func Tables(first uint64, last uint64) []dobject.Object {
	return []dobject.Object{
		&dobject.Control{
			Record:     dobject.NewRecord(dobject.TypeLayerControl, LayerControl, 0),
			NumEntries: 2,
			Entries: []lbits.Handle{
				lbits.NewHandle(lbits.HandleCodeSoftOwner, DefaultLayer),
				lbits.NewHandle(lbits.HandleCodeSoftOwner, WallsLayer),
			},
		},
		&dobject.Dictionary{
			Record:      dobject.NewRecord(dobject.TypeDictionary, NamedObjects, 0),
			ItemNames:   []string{},
			ItemHandles: []lbits.Handle{},
		},
		&dobject.Layer{
			Record: dobject.NewRecord(dobject.TypeLayer, DefaultLayer, LayerControl),
			Name:   "0",
			Flags:  0x02,
			Color:  7,
		},
		&dobject.Layer{
			Record: dobject.NewRecord(dobject.TypeLayer, WallsLayer, LayerControl),
			Name:   "WALLS",
			Flags:  0x02 | 0x08 | 9<<5,
			Color:  3,
		},
		&dobject.BlockHeader{
			Record:      dobject.NewRecord(dobject.TypeBlockHeader, ModelSpace, 0x01),
			Name:        "*Model_Space",
			FirstEntity: lbits.NewHandle(lbits.HandleCodeSoftPointer, first),
			LastEntity:  lbits.NewHandle(lbits.HandleCodeSoftPointer, last),
		},
	}
}

// Name adds an entry to the named object dictionary.
func (d *Drawing) Name(name string, handle uint64) {
	dictionary, ok := lo.Find(d.Objects, func(object dobject.Object) bool {
		return object.ObjectHandle() == NamedObjects
	})
	if !ok {
		return
	}
	entries := dictionary.(*dobject.Dictionary)
	entries.ItemNames = append(entries.ItemNames, name)
	entries.ItemHandles = append(entries.ItemHandles, lbits.NewHandle(lbits.HandleCodeSoftOwner, handle))
}

// ESRI stores prj as the ESRI_PRJ record of the named object dictionary,
// behind some leading bytes the way the record is written in practice.
func (d *Drawing) ESRI(prj string) {
	d.Objects = append(d.Objects, &dobject.XRecord{
		Record: dobject.NewRecord(dobject.TypeXRecord, ESRIRecord, NamedObjects),
		Data:   append([]byte{0x01, 0x00, 0x00}, prj...),
	})
	d.Name("ESRI_PRJ", ESRIRecord)
}

// Bytes lays the drawing out and returns the file contents.
func (d *Drawing) Bytes() ([]byte, error) {
	header := dheader.EncodeSection(dheader.EncodeVariables(d.Header), dheader.HeaderStart, dheader.HeaderEnd)
	classes := dclass.Encode(d.Classes)

	preamble := dheader.FileHeader{
		Version:  dheader.VersionR2000,
		CodePage: d.CodePage,
		Locators: make([]dheader.Locator, dheader.MinLocators),
	}
	offset := int32(len(dheader.Encode(preamble)))

	preamble.Locators[dheader.LocatorHeader] = dheader.Locator{
		Number: dheader.LocatorHeader, Offset: offset, Size: int32(len(header)),
	}
	offset += int32(len(header))
	preamble.Locators[dheader.LocatorClasses] = dheader.Locator{
		Number: dheader.LocatorClasses, Offset: offset, Size: int32(len(classes)),
	}
	offset += int32(len(classes))

	var preview []byte
	if len(d.Pictures) > 0 {
		preamble.PreviewSeek = offset
		preview = dpreview.Encode(offset, d.Pictures)
		offset += int32(len(preview))
	}

	objects, entries, err := dobject.EncodeAll(int64(offset), d.Objects...)
	if err != nil {
		return nil, errors.Wrap(err, "Drawing.Bytes error")
	}
	offset += int32(len(objects))

	objectMap := dmap.Encode(lo.Chunk(entries, MapSectionEntries)...)
	preamble.Locators[dheader.LocatorObjectMap] = dheader.Locator{
		Number: dheader.LocatorObjectMap, Offset: offset, Size: int32(len(objectMap)),
	}

	bs := dheader.Encode(preamble)
	bs = append(bs, header...)
	bs = append(bs, classes...)
	bs = append(bs, preview...)
	bs = append(bs, objects...)
	return append(bs, objectMap...), nil
}
