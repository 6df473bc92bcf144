package dobject

import (
	"github.com/pkg/errors"

	"opendwg/dwg/dlimit"
)

var recordDecoders = map[Type]recordDecoder{
	TypeDictionary:      decodeDictionary,
	TypeLayer:           decodeLayer,
	TypeLayerControl:    decodeControl,
	TypeBlockControl:    decodeControl,
	TypeLTypeControl:    decodeControl,
	TypeBlockHeader:     decodeBlockHeader,
	TypeLType:           decodeLType,
	TypeImageDef:        decodeImageDef,
	TypeImageDefReactor: decodeImageDefReactor,
	TypeXRecord:         decodeXRecord,
}

// controlExtraEntries is the number of entries block and linetype controls
// list beyond their entry count.
const controlExtraEntries = 2

func decodeDictionary(r *fieldReader, frame Frame) Object {
	dictionary := &Dictionary{Record: r.commonRecord(frame, false)}
	n := r.count("dictionary items", int64(r.bitLong()), dlimit.MaxItems)
	dictionary.CloningFlag = r.bitShort()
	dictionary.HardOwnerFlag = r.rawChar()
	for i := 0; i < n && r.err == nil; i++ {
		dictionary.ItemNames = append(dictionary.ItemNames, r.text())
	}
	r.recordHandles(&dictionary.Record)
	dictionary.ItemHandles = r.handles(n)
	return dictionary
}

// Lookup returns the handle stored under name.
func (d *Dictionary) Lookup(name string) (uint64, bool) {
	for i, itemName := range d.ItemNames {
		if itemName == name && i < len(d.ItemHandles) {
			return d.Resolve(d.ItemHandles[i]), true
		}
	}
	return 0, false
}

func decodeLayer(r *fieldReader, frame Frame) Object {
	layer := &Layer{Record: r.commonRecord(frame, false)}
	layer.Name = r.text()
	layer.Flag64 = r.bit()
	layer.XRefIndex = r.bitShort()
	layer.XDep = r.bit()
	layer.Flags = r.bitShort()
	layer.Color = r.bitShort()
	r.recordHandles(&layer.Record)
	layer.ExternalReferenceBlock = r.handle()
	layer.PlotStyle = r.handle()
	layer.Linetype = r.handle()
	return layer
}

func decodeControl(r *fieldReader, frame Frame) Object {
	control := &Control{Record: r.commonRecord(frame, false)}
	control.NumEntries = r.bitLong()
	n := r.count("control entries", int64(control.NumEntries), dlimit.MaxItems)
	if frame.Kind != TypeLayerControl {
		n += controlExtraEntries
	}
	r.recordHandles(&control.Record)
	control.Entries = r.handles(n)
	return control
}

func decodeBlockHeader(r *fieldReader, frame Frame) Object {
	header := &BlockHeader{Record: r.commonRecord(frame, false)}
	header.Name = r.text()
	header.Flag64 = r.bit()
	header.XRefIndex = r.bitShort()
	header.XDep = r.bit()
	header.Anonymous = r.bit()
	header.HasAttribs = r.bit()
	header.IsXRef = r.bit()
	header.XRefOverlaid = r.bit()
	header.Loaded = r.bit()
	header.BasePoint = r.vector()
	header.XRefPath = r.text()
	for r.err == nil {
		count := r.rawChar()
		if count == 0 || r.err != nil {
			break
		}
		if len(header.InsertCounts) >= dlimit.MaxInsertCount {
			r.fail(errors.Wrapf(dlimit.ErrLimitExceeded, "more than %d block insert counts", dlimit.MaxInsertCount))
			break
		}
		header.InsertCounts = append(header.InsertCounts, count)
	}
	header.Description = r.text()
	previewSize := r.count("block preview size", int64(r.bitLong()), dlimit.MaxPreviewSize)
	header.PreviewData = r.bytes(previewSize)

	r.recordHandles(&header.Record)
	header.Null = r.handle()
	header.BlockEntity = r.handle()
	if header.HasEntities() {
		header.FirstEntity = r.handle()
		header.LastEntity = r.handle()
	}
	header.EndBlock = r.handle()
	header.Inserts = r.handles(len(header.InsertCounts))
	header.Layout = r.handle()
	return header
}

func decodeLType(r *fieldReader, frame Frame) Object {
	ltype := &LType{Record: r.commonRecord(frame, false)}
	ltype.Name = r.text()
	ltype.Flag64 = r.bit()
	ltype.XRefIndex = r.bitShort()
	ltype.XDep = r.bit()
	ltype.Description = r.text()
	ltype.PatternLength = r.bitDouble()
	ltype.Alignment = r.rawChar()
	n := r.count("linetype dashes", int64(r.rawChar()), dlimit.MaxDashes)
	for i := 0; i < n && r.err == nil; i++ {
		ltype.Dashes = append(ltype.Dashes, Dash{
			Length:    r.bitDouble(),
			ShapeCode: r.bitShort(),
			XOffset:   r.rawDouble(),
			YOffset:   r.rawDouble(),
			Scale:     r.bitDouble(),
			Rotation:  r.bitDouble(),
			ShapeFlag: r.bitShort(),
		})
	}
	ltype.TextArea = r.bytes(textAreaSize)
	r.recordHandles(&ltype.Record)
	ltype.XRefBlock = r.handle()
	return ltype
}

func decodeImageDef(r *fieldReader, frame Frame) Object {
	def := &ImageDef{Record: r.commonRecord(frame, true)}
	def.ClassVersion = r.bitLong()
	def.ImageWidth = r.rawDouble()
	def.ImageHeight = r.rawDouble()
	def.FilePath = r.text()
	def.IsLoaded = r.bit()
	def.ResolutionUnits = r.rawChar()
	def.PixelWidth = r.rawDouble()
	def.PixelHeight = r.rawDouble()
	r.recordHandles(&def.Record)
	return def
}

func decodeImageDefReactor(r *fieldReader, frame Frame) Object {
	reactor := &ImageDefReactor{Record: r.commonRecord(frame, true)}
	reactor.ClassVersion = r.bitLong()
	r.recordHandles(&reactor.Record)
	return reactor
}

func decodeXRecord(r *fieldReader, frame Frame) Object {
	xrecord := &XRecord{Record: r.commonRecord(frame, true)}
	n := r.count("xrecord data bytes", int64(r.bitLong()), dlimit.MaxDataBytes)
	xrecord.Data = r.bytes(n)
	xrecord.CloningFlag = r.bitShort()
	r.recordHandles(&xrecord.Record)
	for r.err == nil && r.reader.RemainingBits() >= 8 {
		if len(xrecord.ObjectIDs) >= dlimit.MaxItems {
			break
		}
		xrecord.ObjectIDs = append(xrecord.ObjectIDs, r.handle())
	}
	return xrecord
}
