package dobject

import (
	"opendwg/dwg/dlimit"
	"opendwg/dwg/lbits"
)

type (
	entityDecoder func(r *fieldReader, e Entity) Object
	recordDecoder func(r *fieldReader, frame Frame) Object
)

var entityDecoders = map[Type]entityDecoder{
	TypeBlock:               decodeBlock,
	TypeEllipse:             decodeEllipse,
	TypeSolid:               decodeSolid,
	TypePoint:               decodePoint,
	TypePolyline3D:          decodePolyline3D,
	TypeRay:                 decodeRay,
	TypeXLine:               decodeRay,
	TypeLine:                decodeLine,
	TypeText:                decodeText,
	TypeAttrib:              decodeAttrib,
	TypeAttdef:              decodeAttrib,
	TypeVertex3D:            decodeVertex,
	TypeVertexMesh:          decodeVertex,
	TypeVertexPFace:         decodeVertex,
	TypeCircle:              decodeCircle,
	TypePolyline2D:          decodePolyline2D,
	TypeLWPolyline:          decodeLWPolyline,
	TypeArc:                 decodeArc,
	TypeSpline:              decodeSpline,
	TypeInsert:              decodeInsert,
	TypeMInsert:             decodeInsert,
	TypeMLine:               decodeMLine,
	TypePolylinePFace:       decodePolylinePFace,
	TypeImage:               decodeImage,
	TypeWipeout:             decodeImage,
	TypeFace3D:              decodeFace3D,
	TypeMText:               decodeMText,
	TypeDimensionOrdinate:   decodeDimension,
	TypeDimensionLinear:     decodeDimension,
	TypeDimensionAligned:    decodeDimension,
	TypeDimensionAngular3Pt: decodeDimension,
	TypeDimensionAngular2Ln: decodeDimension,
	TypeDimensionRadius:     decodeDimension,
	TypeDimensionDiameter:   decodeDimension,
}

func decodeBlock(r *fieldReader, e Entity) Object {
	block := &Block{Entity: e}
	block.Name = r.text()
	r.entityHandles(&block.Entity)
	return block
}

func decodeEllipse(r *fieldReader, e Entity) Object {
	ellipse := &Ellipse{Entity: e}
	ellipse.Center = r.vector()
	ellipse.MajorAxis = r.vector()
	ellipse.Extrusion = r.vector()
	ellipse.AxisRatio = r.bitDouble()
	ellipse.StartAngle = r.bitDouble()
	ellipse.EndAngle = r.bitDouble()
	r.entityHandles(&ellipse.Entity)
	return ellipse
}

func decodeSolid(r *fieldReader, e Entity) Object {
	solid := &Solid{Entity: e}
	solid.Thickness = r.thickness()
	solid.Elevation = r.bitDouble()
	for i := range solid.Corners {
		solid.Corners[i] = r.rawVector()
		solid.Corners[i].Z = solid.Elevation
	}
	solid.Extrusion = r.extrusion()
	r.entityHandles(&solid.Entity)
	return solid
}

func decodePoint(r *fieldReader, e Entity) Object {
	point := &Point{Entity: e}
	point.Position = r.vector()
	point.Thickness = r.thickness()
	point.Extrusion = r.extrusion()
	point.XAxisAngle = r.bitDouble()
	r.entityHandles(&point.Entity)
	return point
}

func decodePolyline3D(r *fieldReader, e Entity) Object {
	polyline := &Polyline3D{Entity: e}
	polyline.SplinedFlags = r.rawChar()
	polyline.ClosedFlags = r.rawChar()
	r.entityHandles(&polyline.Entity)
	polyline.FirstVertex = r.handle()
	polyline.LastVertex = r.handle()
	polyline.SeqEnd = r.handle()
	return polyline
}

func decodeRay(r *fieldReader, e Entity) Object {
	ray := &Ray{Entity: e}
	ray.Position = r.vector()
	ray.Direction = r.vector()
	r.entityHandles(&ray.Entity)
	return ray
}

// decodeLine reads the end point as patches of the start point.
func decodeLine(r *fieldReader, e Entity) Object {
	line := &Line{Entity: e}
	zIsZero := r.bit()
	line.Start.X = r.rawDouble()
	line.End.X = r.defaultDouble(line.Start.X)
	line.Start.Y = r.rawDouble()
	line.End.Y = r.defaultDouble(line.Start.Y)
	if !zIsZero {
		line.Start.Z = r.rawDouble()
		line.End.Z = r.defaultDouble(line.Start.Z)
	}
	line.Thickness = r.thickness()
	line.Extrusion = r.extrusion()
	r.entityHandles(&line.Entity)
	return line
}

func decodeText(r *fieldReader, e Entity) Object {
	text := &Text{Entity: e}
	text.TextData = r.textData()
	r.entityHandles(&text.Entity)
	text.Style = r.handle()
	return text
}

func decodeAttrib(r *fieldReader, e Entity) Object {
	attrib := &Attrib{Entity: e}
	attrib.TextData = r.textData()
	attrib.Tag = r.text()
	attrib.FieldLength = r.bitShort()
	attrib.Flags = r.rawChar()
	if e.Kind == TypeAttdef {
		attrib.Prompt = r.text()
	}
	r.entityHandles(&attrib.Entity)
	attrib.Style = r.handle()
	return attrib
}

func decodeVertex(r *fieldReader, e Entity) Object {
	vertex := &Vertex{Entity: e}
	vertex.Flags = r.rawChar()
	vertex.Position = r.vector()
	r.entityHandles(&vertex.Entity)
	return vertex
}

func decodeCircle(r *fieldReader, e Entity) Object {
	circle := &Circle{Entity: e}
	circle.Center = r.vector()
	circle.Radius = r.bitDouble()
	circle.Thickness = r.thickness()
	circle.Extrusion = r.extrusion()
	r.entityHandles(&circle.Entity)
	return circle
}

func decodePolyline2D(r *fieldReader, e Entity) Object {
	polyline := &Polyline2D{Entity: e}
	polyline.Flags = r.bitShort()
	polyline.CurveType = r.bitShort()
	polyline.StartWidth = r.bitDouble()
	polyline.EndWidth = r.bitDouble()
	polyline.Thickness = r.thickness()
	polyline.Elevation = r.bitDouble()
	polyline.Extrusion = r.extrusion()
	r.entityHandles(&polyline.Entity)
	polyline.FirstVertex = r.handle()
	polyline.LastVertex = r.handle()
	polyline.SeqEnd = r.handle()
	return polyline
}

// decodeLWPolyline reads the first vertex raw and every next one as patches
// of the previous vertex.
func decodeLWPolyline(r *fieldReader, e Entity) Object {
	polyline := &LWPolyline{Entity: e, Extrusion: lbits.Vector{Z: 1}}
	polyline.Flags = r.bitShort()
	if polyline.Flags&lwPolylineConstWidth != 0 {
		polyline.ConstWidth = r.bitDouble()
	}
	if polyline.Flags&lwPolylineElevation != 0 {
		polyline.Elevation = r.bitDouble()
	}
	if polyline.Flags&lwPolylineThickness != 0 {
		polyline.Thickness = r.bitDouble()
	}
	if polyline.Flags&lwPolylineExtrusion != 0 {
		polyline.Extrusion = r.vector()
	}
	numVertices := r.count("lwpolyline vertices", int64(r.bitLong()), dlimit.MaxVertices)
	numBulges := 0
	if polyline.Flags&lwPolylineBulges != 0 {
		numBulges = r.count("lwpolyline bulges", int64(r.bitLong()), dlimit.MaxVertices)
	}
	numWidths := 0
	if polyline.Flags&lwPolylineWidths != 0 {
		numWidths = r.count("lwpolyline widths", int64(r.bitLong()), dlimit.MaxVertices)
	}

	polyline.Vertices = make([]lbits.Vector, 0, numVertices)
	for i := 0; i < numVertices && r.err == nil; i++ {
		if i == 0 {
			polyline.Vertices = append(polyline.Vertices, r.rawVector())
			continue
		}
		previous := polyline.Vertices[i-1]
		x := r.defaultDouble(previous.X)
		y := r.defaultDouble(previous.Y)
		polyline.Vertices = append(polyline.Vertices, lbits.Vector{X: x, Y: y})
	}
	for i := 0; i < numBulges && r.err == nil; i++ {
		polyline.Bulges = append(polyline.Bulges, r.bitDouble())
	}
	for i := 0; i < numWidths && r.err == nil; i++ {
		start := r.bitDouble()
		end := r.bitDouble()
		polyline.Widths = append(polyline.Widths, Width{Start: start, End: end})
	}
	r.entityHandles(&polyline.Entity)
	return polyline
}

func decodeArc(r *fieldReader, e Entity) Object {
	arc := &Arc{Entity: e}
	arc.Center = r.vector()
	arc.Radius = r.bitDouble()
	arc.Thickness = r.thickness()
	arc.Extrusion = r.extrusion()
	arc.StartAngle = r.bitDouble()
	arc.EndAngle = r.bitDouble()
	r.entityHandles(&arc.Entity)
	return arc
}

func decodeSpline(r *fieldReader, e Entity) Object {
	spline := &Spline{Entity: e}
	spline.Scenario = r.bitLong()
	spline.Degree = r.bitLong()
	numKnots, numControlPoints, numFitPoints := 0, 0, 0
	switch spline.Scenario {
	case 2:
		spline.FitTolerance = r.bitDouble()
		spline.BeginTangent = r.vector()
		spline.EndTangent = r.vector()
		numFitPoints = r.count("spline fit points", int64(r.bitLong()), dlimit.MaxVertices)
	case 1:
		spline.Rational = r.bit()
		spline.Closed = r.bit()
		spline.Periodic = r.bit()
		spline.KnotTolerance = r.bitDouble()
		spline.ControlTolerance = r.bitDouble()
		numKnots = r.count("spline knots", int64(r.bitLong()), dlimit.MaxKnots)
		numControlPoints = r.count("spline control points", int64(r.bitLong()), dlimit.MaxVertices)
		spline.Weighted = r.bit()
	}
	for i := 0; i < numKnots && r.err == nil; i++ {
		spline.Knots = append(spline.Knots, r.bitDouble())
	}
	for i := 0; i < numControlPoints && r.err == nil; i++ {
		spline.ControlPoints = append(spline.ControlPoints, r.vector())
		if spline.Weighted {
			spline.Weights = append(spline.Weights, r.bitDouble())
		}
	}
	for i := 0; i < numFitPoints && r.err == nil; i++ {
		spline.FitPoints = append(spline.FitPoints, r.vector())
	}
	r.entityHandles(&spline.Entity)
	return spline
}

// decodeInsert reads the scale in one of three encodings picked by a 2-bit
// flag: 00 x raw and y, z patched from x; 01 x is 1 and y, z patched from it;
// 10 one raw value for all three; 11 unit scale.
func decodeInsert(r *fieldReader, e Entity) Object {
	insert := &Insert{Entity: e}
	insert.InsertionPoint = r.vector()
	insert.ScaleFlags = r.twoBits()
	switch insert.ScaleFlags {
	case 0:
		x := r.rawDouble()
		insert.Scale = lbits.Vector{X: x, Y: r.defaultDouble(x), Z: r.defaultDouble(x)}
	case 1:
		insert.Scale = lbits.Vector{X: 1, Y: r.defaultDouble(1), Z: r.defaultDouble(1)}
	case 2:
		x := r.rawDouble()
		insert.Scale = lbits.Vector{X: x, Y: x, Z: x}
	default:
		insert.Scale = lbits.Vector{X: 1, Y: 1, Z: 1}
	}
	insert.Rotation = r.bitDouble()
	insert.Extrusion = r.vector()
	insert.HasAttribs = r.bit()
	if e.Kind == TypeMInsert {
		insert.NumColumns = r.bitShort()
		insert.NumRows = r.bitShort()
		insert.ColumnSpacing = r.bitDouble()
		insert.RowSpacing = r.bitDouble()
	}
	r.entityHandles(&insert.Entity)
	insert.BlockHeader = r.handle()
	if insert.HasAttribs {
		insert.FirstAttrib = r.handle()
		insert.LastAttrib = r.handle()
		insert.SeqEnd = r.handle()
	}
	return insert
}

func decodeMLine(r *fieldReader, e Entity) Object {
	mline := &MLine{Entity: e}
	mline.Scale = r.bitDouble()
	mline.Justification = r.rawChar()
	mline.BasePoint = r.vector()
	mline.Extrusion = r.vector()
	mline.OpenClosed = r.bitShort()
	mline.LinesInStyle = r.rawChar()
	numLines := r.count("mline lines in style", int64(mline.LinesInStyle), dlimit.MaxMLineLines)
	numVertices := r.count("mline vertices", int64(r.bitShort()), dlimit.MaxVertices)
	for i := 0; i < numVertices && r.err == nil; i++ {
		vertex := MLineVertex{
			Position:       r.vector(),
			Direction:      r.vector(),
			MiterDirection: r.vector(),
		}
		for j := 0; j < numLines && r.err == nil; j++ {
			var params MLineStyleParams
			numSegments := r.count("mline segment params", int64(r.bitShort()), dlimit.MaxMLineSegParms)
			for k := 0; k < numSegments && r.err == nil; k++ {
				params.SegmentParams = append(params.SegmentParams, r.bitDouble())
			}
			numAreaFills := r.count("mline area fill params", int64(r.bitShort()), dlimit.MaxMLineSegParms)
			for k := 0; k < numAreaFills && r.err == nil; k++ {
				params.AreaFillParams = append(params.AreaFillParams, r.bitDouble())
			}
			vertex.LineStyleParams = append(vertex.LineStyleParams, params)
		}
		mline.Vertices = append(mline.Vertices, vertex)
	}
	r.entityHandles(&mline.Entity)
	return mline
}

func decodePolylinePFace(r *fieldReader, e Entity) Object {
	polyline := &PolylinePFace{Entity: e}
	polyline.NumVertices = r.bitShort()
	polyline.NumFaces = r.bitShort()
	r.entityHandles(&polyline.Entity)
	polyline.FirstVertex = r.handle()
	polyline.LastVertex = r.handle()
	polyline.SeqEnd = r.handle()
	return polyline
}

func decodeImage(r *fieldReader, e Entity) Object {
	image := &Image{Entity: e}
	image.ClassVersion = r.bitLong()
	image.Insertion = r.vector()
	image.UDirection = r.vector()
	image.VDirection = r.vector()
	image.SizeX = r.rawDouble()
	image.SizeY = r.rawDouble()
	image.DisplayProps = r.bitShort()
	image.Clipping = r.bit()
	image.Brightness = r.rawChar()
	image.Contrast = r.rawChar()
	image.Fade = r.rawChar()
	image.ClipBoundaryType = r.bitShort()
	if image.IsRectangleClip() {
		image.ClipVertices = []lbits.Vector{r.rawVector(), r.rawVector()}
	} else {
		n := r.count("image clip vertices", int64(r.bitLong()), dlimit.MaxClipVertices)
		for i := 0; i < n && r.err == nil; i++ {
			image.ClipVertices = append(image.ClipVertices, r.rawVector())
		}
	}
	r.entityHandles(&image.Entity)
	image.ImageDef = r.handle()
	image.ImageDefReactor = r.handle()
	return image
}

// decodeFace3D reads the first corner raw and the next ones as patches of
// the previous corner.
func decodeFace3D(r *fieldReader, e Entity) Object {
	face := &Face3D{Entity: e}
	face.HasNoFlags = r.bit()
	face.ZIsZero = r.bit()
	face.Corners[0] = r.rawVector()
	if !face.ZIsZero {
		face.Corners[0].Z = r.rawDouble()
	}
	for i := 1; i < len(face.Corners); i++ {
		previous := face.Corners[i-1]
		face.Corners[i] = lbits.Vector{
			X: r.defaultDouble(previous.X),
			Y: r.defaultDouble(previous.Y),
			Z: r.defaultDouble(previous.Z),
		}
	}
	if !face.HasNoFlags {
		face.InvisibleFlags = r.bitShort()
	}
	r.entityHandles(&face.Entity)
	return face
}

func decodeMText(r *fieldReader, e Entity) Object {
	text := &MText{Entity: e}
	text.Insertion = r.vector()
	text.Extrusion = r.vector()
	text.XAxisDirection = r.vector()
	text.RectWidth = r.bitDouble()
	text.TextHeight = r.bitDouble()
	text.Attachment = r.bitShort()
	text.DrawingDirection = r.bitShort()
	text.Extents = r.bitDouble()
	text.ExtentsWidth = r.bitDouble()
	text.Value = r.text()
	text.LineSpacingStyle = r.bitShort()
	text.LineSpacingFactor = r.bitDouble()
	text.UnknownBit = r.bit()
	r.entityHandles(&text.Entity)
	return text
}

func (r *fieldReader) dimensionData() DimensionData {
	var d DimensionData
	d.Extrusion = r.vector()
	d.TextMidpoint = r.rawVector()
	d.Elevation = r.bitDouble()
	d.Flags = r.rawChar()
	d.UserText = r.text()
	d.TextRotation = r.bitDouble()
	d.HorizontalDirection = r.bitDouble()
	d.InsertScale = lbits.Vector{X: r.bitDouble(), Y: r.bitDouble(), Z: r.bitDouble()}
	d.InsertRotation = r.bitDouble()
	d.AttachmentPoint = r.bitShort()
	d.LineSpacingStyle = r.bitShort()
	d.LineSpacingFactor = r.bitDouble()
	d.ActualMeasurement = r.bitDouble()
	d.Point12 = r.rawVector()
	return d
}

// decodeDimension reads the common dimension data and then the points of
// the variant, in the order the variant stores them.
func decodeDimension(r *fieldReader, e Entity) Object {
	dimension := &Dimension{Entity: e}
	dimension.DimensionData = r.dimensionData()
	switch e.Kind {
	case TypeDimensionOrdinate:
		dimension.Point10 = r.vector()
		dimension.Point13 = r.vector()
		dimension.Point14 = r.vector()
		dimension.Flags2 = r.rawChar()
	case TypeDimensionLinear:
		dimension.Point13 = r.vector()
		dimension.Point14 = r.vector()
		dimension.Point10 = r.vector()
		dimension.ExtLineRotation = r.bitDouble()
		dimension.DimensionRotation = r.bitDouble()
	case TypeDimensionAligned:
		dimension.Point13 = r.vector()
		dimension.Point14 = r.vector()
		dimension.Point10 = r.vector()
		dimension.ExtLineRotation = r.bitDouble()
	case TypeDimensionAngular3Pt:
		dimension.Point10 = r.vector()
		dimension.Point13 = r.vector()
		dimension.Point14 = r.vector()
		dimension.Point15 = r.vector()
	case TypeDimensionAngular2Ln:
		dimension.Point16 = r.vector()
		dimension.Point13 = r.vector()
		dimension.Point14 = r.vector()
		dimension.Point15 = r.vector()
		dimension.Point10 = r.vector()
	case TypeDimensionRadius:
		dimension.Point10 = r.vector()
		dimension.Point15 = r.vector()
		dimension.LeaderLength = r.bitDouble()
	case TypeDimensionDiameter:
		dimension.Point15 = r.vector()
		dimension.Point10 = r.vector()
		dimension.LeaderLength = r.bitDouble()
	}
	r.entityHandles(&dimension.Entity)
	dimension.DimStyle = r.handle()
	dimension.AnonymousBlock = r.handle()
	return dimension
}
