package dobject

import (
	"github.com/pkg/errors"

	"opendwg/dwg/dcrc"
	"opendwg/dwg/dmap"
	"opendwg/dwg/lbits"
)

// fieldWriter splits an object into its data stream and its handle stream,
// which are concatenated once the size of the data is known.
type fieldWriter struct {
	data    *lbits.Writer
	handles *lbits.Writer
}

var ErrNoEncoder = errors.New("object type has no encoder")

// Encode writes object the way Decode reads it: size prefix, data, handle
// stream and CRC. Drawings built with it are only meant for tests and
// fixtures; sizes in bits and counts are derived from the object, the
// corresponding fields are ignored.
func Encode(object Object) ([]byte, error) {
	first, err := encodeStreams(object, 0)
	if err != nil {
		return nil, errors.Wrap(err, "Encode error")
	}
	second, err := encodeStreams(object, int32(first.data.Position()))
	if err != nil {
		return nil, errors.Wrap(err, "Encode error")
	}
	body := second.data
	body.Append(second.handles)

	w := lbits.NewBitsWriter()
	w.WriteModularShort(uint64(len(body.Bytes())))
	w.WriteBytes(body.Bytes())
	crc := dcrc.Checksum(dcrc.Seed, w.Bytes())
	w.WriteRawShort(int16(crc))
	return w.Bytes(), nil
}

func encodeStreams(object Object, sizeInBits int32) (*fieldWriter, error) {
	w := &fieldWriter{
		data:    lbits.NewBitsWriter(),
		handles: lbits.NewBitsWriter(),
	}
	f := object.frame()
	rawType := f.RawType
	if rawType == 0 {
		rawType = int16(f.Kind)
	}
	w.data.WriteBitShort(rawType)

	if e, ok := object.(EntityObject); ok {
		w.commonEntity(e.EntityData(), sizeInBits)
		if err := w.entity(object); err != nil {
			return nil, err
		}
		return w, nil
	}
	if rec, ok := object.(RecordObject); ok {
		handle8 := false
		switch f.Kind {
		case TypeImageDef, TypeImageDefReactor, TypeXRecord:
			handle8 = true
		}
		w.commonRecord(rec.RecordData(), sizeInBits, handle8)
		if err := w.record(object); err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, errors.Wrapf(ErrNoEncoder, "%T", object)
}

func (w *fieldWriter) eed(records []EED) {
	for _, record := range records {
		w.data.WriteBitShort(int16(len(record.Data)))
		w.data.WriteHandle(record.Application)
		w.data.WriteBytes(record.Data)
	}
	w.data.WriteBitShort(0)
}

func (w *fieldWriter) commonEntity(e *Entity, sizeInBits int32) {
	d := w.data
	d.WriteRawLong(sizeInBits)
	d.WriteHandle(lbits.NewHandle(0, e.Handle))
	w.eed(e.EED)
	d.WriteBit(e.GraphicsPresent)
	if e.GraphicsPresent {
		d.WriteRawLong(0)
	}
	d.Write2Bits(e.EntityMode)
	d.WriteBitLong(int32(len(e.Reactors)))
	d.WriteBit(e.NoLinks)
	d.WriteBitShort(e.Color)
	d.WriteBitDouble(e.LinetypeScale)
	d.Write2Bits(e.LinetypeFlags)
	d.Write2Bits(e.PlotStyleFlags)
	d.WriteBitShort(e.Invisibility)
	d.WriteRawChar(e.LineWeight)

	h := w.handles
	if e.EntityMode == EntityModeOwned {
		h.WriteHandle(e.Owner)
	}
	for _, reactor := range e.Reactors {
		h.WriteHandle(reactor)
	}
	h.WriteHandle(e.XDictionary)
	if !e.NoLinks {
		h.WriteHandle(e.Previous)
		h.WriteHandle(e.Next)
	}
	h.WriteHandle(e.Layer)
	if e.LinetypeFlags == flagsHandlePresent {
		h.WriteHandle(e.Linetype)
	}
	if e.PlotStyleFlags == flagsHandlePresent {
		h.WriteHandle(e.PlotStyle)
	}
}

func (w *fieldWriter) commonRecord(rec *Record, sizeInBits int32, handle8 bool) {
	d := w.data
	d.WriteRawLong(sizeInBits)
	if handle8 {
		d.WriteHandle8(lbits.NewHandle(0, rec.Handle))
	} else {
		d.WriteHandle(lbits.NewHandle(0, rec.Handle))
	}
	w.eed(rec.EED)
	d.WriteBitLong(int32(len(rec.Reactors)))

	h := w.handles
	h.WriteHandle(rec.Owner)
	for _, reactor := range rec.Reactors {
		h.WriteHandle(reactor)
	}
	h.WriteHandle(rec.XDictionary)
}

func (w *fieldWriter) writeHandles(hs ...lbits.Handle) {
	for _, h := range hs {
		w.handles.WriteHandle(h)
	}
}

func (w *fieldWriter) textData(t *TextData) {
	d := w.data
	d.WriteRawChar(t.DataFlags)
	if t.DataFlags&textNoElevation == 0 {
		d.WriteRawDouble(t.Elevation)
	}
	d.WriteRawVector(t.Insertion)
	if t.DataFlags&textNoAlignment == 0 {
		d.WriteDefaultDouble(t.Alignment.X, t.Insertion.X)
		d.WriteDefaultDouble(t.Alignment.Y, t.Insertion.Y)
	}
	d.WriteExtrusion(t.Extrusion)
	d.WriteThickness(t.Thickness)
	if t.DataFlags&textNoOblique == 0 {
		d.WriteRawDouble(t.ObliqueAngle)
	}
	if t.DataFlags&textNoRotation == 0 {
		d.WriteRawDouble(t.RotationAngle)
	}
	d.WriteRawDouble(t.Height)
	if t.DataFlags&textNoWidth == 0 {
		d.WriteRawDouble(t.WidthFactor)
	}
	d.WriteText(t.Value)
	if t.DataFlags&textNoGeneration == 0 {
		d.WriteBitShort(t.Generation)
	}
	if t.DataFlags&textNoHorizontal == 0 {
		d.WriteBitShort(t.HorizontalAlign)
	}
	if t.DataFlags&textNoVertical == 0 {
		d.WriteBitShort(t.VerticalAlign)
	}
}

// insertScaleFlags picks the most compact scale encoding.
func insertScaleFlags(scale lbits.Vector) uint8 {
	switch {
	case scale == (lbits.Vector{X: 1, Y: 1, Z: 1}):
		return 3
	case scale.X == scale.Y && scale.X == scale.Z:
		return 2
	case scale.X == 1:
		return 1
	default:
		return 0
	}
}

func (w *fieldWriter) entity(object Object) error {
	d := w.data
	switch o := object.(type) {
	case *GenericEntity:
	case *Block:
		d.WriteText(o.Name)
	case *Ellipse:
		d.WriteVector(o.Center)
		d.WriteVector(o.MajorAxis)
		d.WriteVector(o.Extrusion)
		d.WriteBitDouble(o.AxisRatio)
		d.WriteBitDouble(o.StartAngle)
		d.WriteBitDouble(o.EndAngle)
	case *Solid:
		d.WriteThickness(o.Thickness)
		d.WriteBitDouble(o.Elevation)
		for _, corner := range o.Corners {
			d.WriteRawVector(corner)
		}
		d.WriteExtrusion(o.Extrusion)
	case *Point:
		d.WriteVector(o.Position)
		d.WriteThickness(o.Thickness)
		d.WriteExtrusion(o.Extrusion)
		d.WriteBitDouble(o.XAxisAngle)
	case *Polyline3D:
		d.WriteRawChar(o.SplinedFlags)
		d.WriteRawChar(o.ClosedFlags)
		w.writeHandles(o.FirstVertex, o.LastVertex, o.SeqEnd)
	case *Ray:
		d.WriteVector(o.Position)
		d.WriteVector(o.Direction)
	case *Line:
		zIsZero := o.Start.Z == 0 && o.End.Z == 0
		d.WriteBit(zIsZero)
		d.WriteRawDouble(o.Start.X)
		d.WriteDefaultDouble(o.End.X, o.Start.X)
		d.WriteRawDouble(o.Start.Y)
		d.WriteDefaultDouble(o.End.Y, o.Start.Y)
		if !zIsZero {
			d.WriteRawDouble(o.Start.Z)
			d.WriteDefaultDouble(o.End.Z, o.Start.Z)
		}
		d.WriteThickness(o.Thickness)
		d.WriteExtrusion(o.Extrusion)
	case *Text:
		w.textData(&o.TextData)
		w.writeHandles(o.Style)
	case *Attrib:
		w.textData(&o.TextData)
		d.WriteText(o.Tag)
		d.WriteBitShort(o.FieldLength)
		d.WriteRawChar(o.Flags)
		if o.Kind == TypeAttdef {
			d.WriteText(o.Prompt)
		}
		w.writeHandles(o.Style)
	case *Vertex:
		d.WriteRawChar(o.Flags)
		d.WriteVector(o.Position)
	case *Circle:
		d.WriteVector(o.Center)
		d.WriteBitDouble(o.Radius)
		d.WriteThickness(o.Thickness)
		d.WriteExtrusion(o.Extrusion)
	case *Polyline2D:
		d.WriteBitShort(o.Flags)
		d.WriteBitShort(o.CurveType)
		d.WriteBitDouble(o.StartWidth)
		d.WriteBitDouble(o.EndWidth)
		d.WriteThickness(o.Thickness)
		d.WriteBitDouble(o.Elevation)
		d.WriteExtrusion(o.Extrusion)
		w.writeHandles(o.FirstVertex, o.LastVertex, o.SeqEnd)
	case *LWPolyline:
		w.lwPolyline(o)
	case *Arc:
		d.WriteVector(o.Center)
		d.WriteBitDouble(o.Radius)
		d.WriteThickness(o.Thickness)
		d.WriteExtrusion(o.Extrusion)
		d.WriteBitDouble(o.StartAngle)
		d.WriteBitDouble(o.EndAngle)
	case *Spline:
		w.spline(o)
	case *Insert:
		w.insert(o)
	case *MLine:
		w.mline(o)
	case *PolylinePFace:
		d.WriteBitShort(o.NumVertices)
		d.WriteBitShort(o.NumFaces)
		w.writeHandles(o.FirstVertex, o.LastVertex, o.SeqEnd)
	case *Image:
		w.image(o)
	case *Face3D:
		d.WriteBit(o.HasNoFlags)
		d.WriteBit(o.ZIsZero)
		d.WriteRawVector(o.Corners[0])
		if !o.ZIsZero {
			d.WriteRawDouble(o.Corners[0].Z)
		}
		for i := 1; i < len(o.Corners); i++ {
			previous := o.Corners[i-1]
			d.WriteDefaultDouble(o.Corners[i].X, previous.X)
			d.WriteDefaultDouble(o.Corners[i].Y, previous.Y)
			d.WriteDefaultDouble(o.Corners[i].Z, previous.Z)
		}
		if !o.HasNoFlags {
			d.WriteBitShort(o.InvisibleFlags)
		}
	case *MText:
		d.WriteVector(o.Insertion)
		d.WriteVector(o.Extrusion)
		d.WriteVector(o.XAxisDirection)
		d.WriteBitDouble(o.RectWidth)
		d.WriteBitDouble(o.TextHeight)
		d.WriteBitShort(o.Attachment)
		d.WriteBitShort(o.DrawingDirection)
		d.WriteBitDouble(o.Extents)
		d.WriteBitDouble(o.ExtentsWidth)
		d.WriteText(o.Value)
		d.WriteBitShort(o.LineSpacingStyle)
		d.WriteBitDouble(o.LineSpacingFactor)
		d.WriteBit(o.UnknownBit)
	case *Dimension:
		w.dimension(o)
	default:
		return errors.Wrapf(ErrNoEncoder, "%T", object)
	}
	return nil
}

func (w *fieldWriter) lwPolyline(o *LWPolyline) {
	d := w.data
	d.WriteBitShort(o.Flags)
	if o.Flags&lwPolylineConstWidth != 0 {
		d.WriteBitDouble(o.ConstWidth)
	}
	if o.Flags&lwPolylineElevation != 0 {
		d.WriteBitDouble(o.Elevation)
	}
	if o.Flags&lwPolylineThickness != 0 {
		d.WriteBitDouble(o.Thickness)
	}
	if o.Flags&lwPolylineExtrusion != 0 {
		d.WriteVector(o.Extrusion)
	}
	d.WriteBitLong(int32(len(o.Vertices)))
	if o.Flags&lwPolylineBulges != 0 {
		d.WriteBitLong(int32(len(o.Bulges)))
	}
	if o.Flags&lwPolylineWidths != 0 {
		d.WriteBitLong(int32(len(o.Widths)))
	}
	for i, vertex := range o.Vertices {
		if i == 0 {
			d.WriteRawVector(vertex)
			continue
		}
		d.WriteDefaultDouble(vertex.X, o.Vertices[i-1].X)
		d.WriteDefaultDouble(vertex.Y, o.Vertices[i-1].Y)
	}
	if o.Flags&lwPolylineBulges != 0 {
		for _, bulge := range o.Bulges {
			d.WriteBitDouble(bulge)
		}
	}
	if o.Flags&lwPolylineWidths != 0 {
		for _, width := range o.Widths {
			d.WriteBitDouble(width.Start)
			d.WriteBitDouble(width.End)
		}
	}
}

func (w *fieldWriter) spline(o *Spline) {
	d := w.data
	d.WriteBitLong(o.Scenario)
	d.WriteBitLong(o.Degree)
	switch o.Scenario {
	case 2:
		d.WriteBitDouble(o.FitTolerance)
		d.WriteVector(o.BeginTangent)
		d.WriteVector(o.EndTangent)
		d.WriteBitLong(int32(len(o.FitPoints)))
	case 1:
		d.WriteBit(o.Rational)
		d.WriteBit(o.Closed)
		d.WriteBit(o.Periodic)
		d.WriteBitDouble(o.KnotTolerance)
		d.WriteBitDouble(o.ControlTolerance)
		d.WriteBitLong(int32(len(o.Knots)))
		d.WriteBitLong(int32(len(o.ControlPoints)))
		d.WriteBit(o.Weighted)
	default:
		return
	}
	for _, knot := range o.Knots {
		d.WriteBitDouble(knot)
	}
	for i, point := range o.ControlPoints {
		d.WriteVector(point)
		if o.Weighted {
			weight := 0.0
			if i < len(o.Weights) {
				weight = o.Weights[i]
			}
			d.WriteBitDouble(weight)
		}
	}
	if o.Scenario == 2 {
		for _, point := range o.FitPoints {
			d.WriteVector(point)
		}
	}
}

func (w *fieldWriter) insert(o *Insert) {
	d := w.data
	d.WriteVector(o.InsertionPoint)
	flags := insertScaleFlags(o.Scale)
	d.Write2Bits(flags)
	switch flags {
	case 0:
		d.WriteRawDouble(o.Scale.X)
		d.WriteDefaultDouble(o.Scale.Y, o.Scale.X)
		d.WriteDefaultDouble(o.Scale.Z, o.Scale.X)
	case 1:
		d.WriteDefaultDouble(o.Scale.Y, 1)
		d.WriteDefaultDouble(o.Scale.Z, 1)
	case 2:
		d.WriteRawDouble(o.Scale.X)
	}
	d.WriteBitDouble(o.Rotation)
	d.WriteVector(o.Extrusion)
	d.WriteBit(o.HasAttribs)
	if o.Kind == TypeMInsert {
		d.WriteBitShort(o.NumColumns)
		d.WriteBitShort(o.NumRows)
		d.WriteBitDouble(o.ColumnSpacing)
		d.WriteBitDouble(o.RowSpacing)
	}
	w.writeHandles(o.BlockHeader)
	if o.HasAttribs {
		w.writeHandles(o.FirstAttrib, o.LastAttrib, o.SeqEnd)
	}
}

func (w *fieldWriter) mline(o *MLine) {
	d := w.data
	d.WriteBitDouble(o.Scale)
	d.WriteRawChar(o.Justification)
	d.WriteVector(o.BasePoint)
	d.WriteVector(o.Extrusion)
	d.WriteBitShort(o.OpenClosed)
	d.WriteRawChar(o.LinesInStyle)
	d.WriteBitShort(int16(len(o.Vertices)))
	for _, vertex := range o.Vertices {
		d.WriteVector(vertex.Position)
		d.WriteVector(vertex.Direction)
		d.WriteVector(vertex.MiterDirection)
		for i := 0; i < int(o.LinesInStyle); i++ {
			var params MLineStyleParams
			if i < len(vertex.LineStyleParams) {
				params = vertex.LineStyleParams[i]
			}
			d.WriteBitShort(int16(len(params.SegmentParams)))
			for _, p := range params.SegmentParams {
				d.WriteBitDouble(p)
			}
			d.WriteBitShort(int16(len(params.AreaFillParams)))
			for _, p := range params.AreaFillParams {
				d.WriteBitDouble(p)
			}
		}
	}
}

func (w *fieldWriter) image(o *Image) {
	d := w.data
	d.WriteBitLong(o.ClassVersion)
	d.WriteVector(o.Insertion)
	d.WriteVector(o.UDirection)
	d.WriteVector(o.VDirection)
	d.WriteRawDouble(o.SizeX)
	d.WriteRawDouble(o.SizeY)
	d.WriteBitShort(o.DisplayProps)
	d.WriteBit(o.Clipping)
	d.WriteRawChar(o.Brightness)
	d.WriteRawChar(o.Contrast)
	d.WriteRawChar(o.Fade)
	d.WriteBitShort(o.ClipBoundaryType)
	if o.IsRectangleClip() {
		corners := make([]lbits.Vector, 2)
		copy(corners, o.ClipVertices)
		d.WriteRawVector(corners[0])
		d.WriteRawVector(corners[1])
	} else {
		d.WriteBitLong(int32(len(o.ClipVertices)))
		for _, vertex := range o.ClipVertices {
			d.WriteRawVector(vertex)
		}
	}
	w.writeHandles(o.ImageDef, o.ImageDefReactor)
}

func (w *fieldWriter) dimension(o *Dimension) {
	d := w.data
	d.WriteVector(o.Extrusion)
	d.WriteRawVector(o.TextMidpoint)
	d.WriteBitDouble(o.Elevation)
	d.WriteRawChar(o.Flags)
	d.WriteText(o.UserText)
	d.WriteBitDouble(o.TextRotation)
	d.WriteBitDouble(o.HorizontalDirection)
	d.WriteBitDouble(o.InsertScale.X)
	d.WriteBitDouble(o.InsertScale.Y)
	d.WriteBitDouble(o.InsertScale.Z)
	d.WriteBitDouble(o.InsertRotation)
	d.WriteBitShort(o.AttachmentPoint)
	d.WriteBitShort(o.LineSpacingStyle)
	d.WriteBitDouble(o.LineSpacingFactor)
	d.WriteBitDouble(o.ActualMeasurement)
	d.WriteRawVector(o.Point12)
	switch o.Kind {
	case TypeDimensionOrdinate:
		d.WriteVector(o.Point10)
		d.WriteVector(o.Point13)
		d.WriteVector(o.Point14)
		d.WriteRawChar(o.Flags2)
	case TypeDimensionLinear:
		d.WriteVector(o.Point13)
		d.WriteVector(o.Point14)
		d.WriteVector(o.Point10)
		d.WriteBitDouble(o.ExtLineRotation)
		d.WriteBitDouble(o.DimensionRotation)
	case TypeDimensionAligned:
		d.WriteVector(o.Point13)
		d.WriteVector(o.Point14)
		d.WriteVector(o.Point10)
		d.WriteBitDouble(o.ExtLineRotation)
	case TypeDimensionAngular3Pt:
		d.WriteVector(o.Point10)
		d.WriteVector(o.Point13)
		d.WriteVector(o.Point14)
		d.WriteVector(o.Point15)
	case TypeDimensionAngular2Ln:
		d.WriteVector(o.Point16)
		d.WriteVector(o.Point13)
		d.WriteVector(o.Point14)
		d.WriteVector(o.Point15)
		d.WriteVector(o.Point10)
	case TypeDimensionRadius:
		d.WriteVector(o.Point10)
		d.WriteVector(o.Point15)
		d.WriteBitDouble(o.LeaderLength)
	case TypeDimensionDiameter:
		d.WriteVector(o.Point15)
		d.WriteVector(o.Point10)
		d.WriteBitDouble(o.LeaderLength)
	}
	w.writeHandles(o.DimStyle, o.AnonymousBlock)
}

func (w *fieldWriter) record(object Object) error {
	d := w.data
	switch o := object.(type) {
	case *Unsupported:
	case *Dictionary:
		d.WriteBitLong(int32(len(o.ItemNames)))
		d.WriteBitShort(o.CloningFlag)
		d.WriteRawChar(o.HardOwnerFlag)
		for _, name := range o.ItemNames {
			d.WriteText(name)
		}
		w.writeHandles(o.ItemHandles...)
	case *Layer:
		d.WriteText(o.Name)
		d.WriteBit(o.Flag64)
		d.WriteBitShort(o.XRefIndex)
		d.WriteBit(o.XDep)
		d.WriteBitShort(o.Flags)
		d.WriteBitShort(o.Color)
		w.writeHandles(o.ExternalReferenceBlock, o.PlotStyle, o.Linetype)
	case *Control:
		d.WriteBitLong(o.NumEntries)
		w.writeHandles(o.Entries...)
	case *BlockHeader:
		w.blockHeader(o)
	case *LType:
		d.WriteText(o.Name)
		d.WriteBit(o.Flag64)
		d.WriteBitShort(o.XRefIndex)
		d.WriteBit(o.XDep)
		d.WriteText(o.Description)
		d.WriteBitDouble(o.PatternLength)
		d.WriteRawChar(o.Alignment)
		d.WriteRawChar(uint8(len(o.Dashes)))
		for _, dash := range o.Dashes {
			d.WriteBitDouble(dash.Length)
			d.WriteBitShort(dash.ShapeCode)
			d.WriteRawDouble(dash.XOffset)
			d.WriteRawDouble(dash.YOffset)
			d.WriteBitDouble(dash.Scale)
			d.WriteBitDouble(dash.Rotation)
			d.WriteBitShort(dash.ShapeFlag)
		}
		textArea := make([]byte, textAreaSize)
		copy(textArea, o.TextArea)
		d.WriteBytes(textArea)
		w.writeHandles(o.XRefBlock)
	case *ImageDef:
		d.WriteBitLong(o.ClassVersion)
		d.WriteRawDouble(o.ImageWidth)
		d.WriteRawDouble(o.ImageHeight)
		d.WriteText(o.FilePath)
		d.WriteBit(o.IsLoaded)
		d.WriteRawChar(o.ResolutionUnits)
		d.WriteRawDouble(o.PixelWidth)
		d.WriteRawDouble(o.PixelHeight)
	case *ImageDefReactor:
		d.WriteBitLong(o.ClassVersion)
	case *XRecord:
		d.WriteBitLong(int32(len(o.Data)))
		d.WriteBytes(o.Data)
		d.WriteBitShort(o.CloningFlag)
		w.writeHandles(o.ObjectIDs...)
	default:
		return errors.Wrapf(ErrNoEncoder, "%T", object)
	}
	return nil
}

func (w *fieldWriter) blockHeader(o *BlockHeader) {
	d := w.data
	d.WriteText(o.Name)
	d.WriteBit(o.Flag64)
	d.WriteBitShort(o.XRefIndex)
	d.WriteBit(o.XDep)
	d.WriteBit(o.Anonymous)
	d.WriteBit(o.HasAttribs)
	d.WriteBit(o.IsXRef)
	d.WriteBit(o.XRefOverlaid)
	d.WriteBit(o.Loaded)
	d.WriteVector(o.BasePoint)
	d.WriteText(o.XRefPath)
	for _, count := range o.InsertCounts {
		d.WriteRawChar(count)
	}
	d.WriteRawChar(0)
	d.WriteText(o.Description)
	d.WriteBitLong(int32(len(o.PreviewData)))
	d.WriteBytes(o.PreviewData)

	w.writeHandles(o.Null, o.BlockEntity)
	if o.HasEntities() {
		w.writeHandles(o.FirstEntity, o.LastEntity)
	}
	w.writeHandles(o.EndBlock)
	w.writeHandles(o.Inserts...)
	w.writeHandles(o.Layout)
}

// EncodeAll lays the objects out one after the other, starting at offset,
// and returns the bytes with the map entry of every object.
func EncodeAll(offset int64, objects ...Object) ([]byte, []dmap.Entry, error) {
	bs := make([]byte, 0)
	entries := make([]dmap.Entry, 0, len(objects))
	for _, object := range objects {
		encoded, err := Encode(object)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "EncodeAll object %X", object.ObjectHandle())
		}
		entries = append(entries, dmap.Entry{
			Handle: object.ObjectHandle(),
			Offset: offset + int64(len(bs)),
		})
		bs = append(bs, encoded...)
	}
	return bs, entries, nil
}

// NewEntity is an entity of model space or a block stored right after the
// previous one, colored BYLAYER.
func NewEntity(kind Type, handle uint64, layer uint64) Entity {
	return Entity{
		Frame:         Frame{Kind: kind, Handle: handle},
		EntityMode:    2,
		NoLinks:       true,
		Color:         ColorByLayer,
		LinetypeScale: 1,
		XDictionary:   lbits.NewHandle(0, 0),
		Layer:         lbits.NewHandle(lbits.HandleCodeHardPointer, layer),
	}
}

func NewRecord(kind Type, handle uint64, owner uint64) Record {
	return Record{
		Frame:       Frame{Kind: kind, Handle: handle},
		Owner:       lbits.NewHandle(lbits.HandleCodeSoftPointer, owner),
		XDictionary: lbits.NewHandle(0, 0),
	}
}
