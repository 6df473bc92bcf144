package dobject

import (
	"github.com/pkg/errors"

	"opendwg/dlog"
	"opendwg/dwg/dclass"
	"opendwg/dwg/dcrc"
	"opendwg/dwg/dlimit"
	"opendwg/dwg/dmap"
	"opendwg/dwg/lbits"
)

// Decoder reads objects out of the drawing bytes on demand. It holds no
// state between calls: decoding the same handle twice reads the bytes twice.
type Decoder struct {
	data     []byte
	index    *dmap.Index
	classes  *dclass.Table
	codePage int
}

const crcSize = 2

func NewDecoder(data []byte, index *dmap.Index, classes *dclass.Table, codePage int) *Decoder {
	return &Decoder{
		data:     data,
		index:    index,
		classes:  classes,
		codePage: codePage,
	}
}

// Decode reads the object stored for handle. With handlesOnly set, entities
// are decoded no further than the common entity data and the common handle
// block, and come back as *GenericEntity.
//
// An object is laid out as
//
//	MS size | type and fields (size bytes) | RS CRC
//
// The CRC covers the size prefix and the fields. A mismatch is logged and
// reported by CRCValid, the object is still returned.
func (d *Decoder) Decode(handle uint64, handlesOnly bool) (Object, error) {
	offset, ok := d.index.Lookup(handle)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "handle %X", handle)
	}
	if offset < 0 || offset >= int64(len(d.data)) {
		return nil, errors.Wrapf(lbits.ErrEndOfBuffer, "object %X at offset %d", handle, offset)
	}
	record := d.data[offset:]

	prefix := lbits.NewBitsReader(record)
	size, err := prefix.ReadModularShort()
	if err != nil {
		return nil, errors.Wrapf(err, "object %X size", handle)
	}
	if size > dlimit.MaxObjectSize {
		return nil, errors.Wrapf(ErrObjectTooLarge, "object %X declares %d bytes", handle, size)
	}
	start := prefix.BytePosition()
	end := start + int(size)
	if end+crcSize > len(record) {
		return nil, errors.Wrapf(lbits.ErrEndOfBuffer, "object %X of %d bytes", handle, size)
	}

	reader := lbits.NewBitsReader(record[:end])
	reader.SetCodePage(d.codePage)
	if err := reader.SeekBytes(start); err != nil {
		return nil, errors.Wrapf(err, "object %X", handle)
	}
	r := &fieldReader{reader: reader, base: start * 8}

	rawType := r.bitShort()
	kind, isEntity := d.resolveType(rawType)
	frame := Frame{
		Kind:        kind,
		RawType:     rawType,
		Handle:      handle,
		Size:        int(size),
		HandlesOnly: handlesOnly && isEntity,
	}

	var object Object
	if isEntity {
		object = decodeEntity(r, frame, handlesOnly)
	} else {
		object = decodeRecord(r, frame)
	}
	if r.err != nil {
		return nil, errors.Wrapf(r.err, "decoding %s object %X", kind, handle)
	}

	f := object.frame()
	f.StoredCRC = uint16(record[end]) | uint16(record[end+1])<<8
	f.CalculatedCRC = dcrc.Checksum(dcrc.Seed, record[:end])
	if !f.CRCValid() {
		dlog.Debugf(
			"object %X (%s): stored CRC %04X, calculated %04X",
			handle, kind, f.StoredCRC, f.CalculatedCRC,
		)
	}
	return object, nil
}

// resolveType folds known custom classes into their pseudo type and tells
// whether the object starts with the common entity data.
func (d *Decoder) resolveType(rawType int16) (Type, bool) {
	t := Type(rawType)
	if rawType < dclass.FirstCustomType {
		return t, t.IsEntity()
	}
	if d.classes == nil {
		return t, false
	}
	class, ok := d.classes.ByNumber(rawType)
	if !ok {
		dlog.Debugf("object type %d has no class", rawType)
		return t, false
	}
	if mapped, ok := classTypes[class.CppClassName]; ok {
		return mapped, mapped.IsEntity()
	}
	return t, class.IsEntity
}

func (r *fieldReader) commonEntity(frame Frame) Entity {
	e := Entity{Frame: frame}
	e.SizeInBits = r.rawLong()
	r.ownHandle(&e.Frame, r.handle())
	e.EED = r.eed()
	e.GraphicsPresent = r.bit()
	if e.GraphicsPresent {
		size := r.rawLong()
		n := r.count("graphics size", int64(size), dlimit.MaxGraphicsSize)
		r.skip(n * 8)
	}
	e.EntityMode = r.twoBits()
	e.NumReactors = r.bitLong()
	r.count("reactors", int64(e.NumReactors), dlimit.MaxReactors)
	e.NoLinks = r.bit()
	e.Color = r.bitShort()
	e.LinetypeScale = r.bitDouble()
	e.LinetypeFlags = r.twoBits()
	e.PlotStyleFlags = r.twoBits()
	e.Invisibility = r.bitShort()
	e.LineWeight = r.rawChar()
	r.handleStream = r.base + int(e.SizeInBits)
	return e
}

// entityHandles reads the common entity handle block from the start of the
// handle stream.
func (r *fieldReader) entityHandles(e *Entity) {
	r.seek(r.handleStream)
	if e.EntityMode == EntityModeOwned {
		e.Owner = r.handle()
	}
	e.Reactors = r.handles(int(e.NumReactors))
	e.XDictionary = r.handle()
	if !e.NoLinks {
		e.Previous = r.handle()
		e.Next = r.handle()
	}
	e.Layer = r.handle()
	if e.LinetypeFlags == flagsHandlePresent {
		e.Linetype = r.handle()
	}
	if e.PlotStyleFlags == flagsHandlePresent {
		e.PlotStyle = r.handle()
	}
}

// commonRecord reads the common data of non-entities. A few custom classes
// store their own handle with a byte length instead of the usual code and
// counter nibbles.
func (r *fieldReader) commonRecord(frame Frame, handle8 bool) Record {
	rec := Record{Frame: frame}
	rec.SizeInBits = r.rawLong()
	if handle8 {
		r.ownHandle(&rec.Frame, r.handle8())
	} else {
		r.ownHandle(&rec.Frame, r.handle())
	}
	rec.EED = r.eed()
	rec.NumReactors = r.bitLong()
	r.count("reactors", int64(rec.NumReactors), dlimit.MaxReactors)
	r.handleStream = r.base + int(rec.SizeInBits)
	return rec
}

func (r *fieldReader) recordHandles(rec *Record) {
	r.seek(r.handleStream)
	rec.Owner = r.handle()
	rec.Reactors = r.handles(int(rec.NumReactors))
	rec.XDictionary = r.handle()
}

// ownHandle keeps the handle the object stores for itself, which is what
// relative references inside the object are resolved against.
func (r *fieldReader) ownHandle(frame *Frame, h lbits.Handle) {
	if r.err != nil {
		return
	}
	if h.Uint() != frame.Handle {
		dlog.Debugf("object mapped as %X stores handle %X", frame.Handle, h.Uint())
	}
	frame.Handle = h.Uint()
}

func decodeEntity(r *fieldReader, frame Frame, handlesOnly bool) Object {
	entity := r.commonEntity(frame)
	decode, ok := entityDecoders[frame.Kind]
	if handlesOnly || !ok {
		r.entityHandles(&entity)
		return &GenericEntity{Entity: entity}
	}
	return decode(r, entity)
}

func decodeRecord(r *fieldReader, frame Frame) Object {
	if decode, ok := recordDecoders[frame.Kind]; ok {
		return decode(r, frame)
	}
	rec := r.commonRecord(frame, false)
	r.recordHandles(&rec)
	if r.err != nil {
		dlog.Debugf("%s object %X: %v", frame.Kind, frame.Handle, r.err)
		r.err = nil
		return &Unsupported{Record: Record{Frame: frame}}
	}
	return &Unsupported{Record: rec}
}
