package dgeom

import (
	"math"

	"github.com/pkg/errors"

	"opendwg/dlog"
	"opendwg/dwg/dlimit"
	"opendwg/dwg/dobject"
	"opendwg/dwg/lbits"
)

type (
	// Placement is where an entity ends up: the color of the layer it is
	// classified under, the insert it was reached through (0 for model space)
	// and the transform composed along the way (nil for none).
	Placement struct {
		LayerColor int16
		Insert     uint64
		Transform  *Matrix
	}

	// Materializer turns decoded entities into geometries. Nothing is cached,
	// every call decodes again.
	Materializer struct {
		source dobject.Source
	}
)

const (
	lwPolylineClosed = 0x200
	polylineClosed   = 0x01
)

func NewMaterializer(source dobject.Source) *Materializer {
	return &Materializer{source: source}
}

func (m *Materializer) Materialize(handle uint64, placement Placement) (Geometry, error) {
	object, err := m.source.Decode(handle, false)
	if err != nil {
		return nil, errors.Wrapf(err, "dgeom.Materialize error decoding %X", handle)
	}
	entity, ok := object.(dobject.EntityObject)
	if !ok {
		return nil, errors.Wrapf(ErrNotEntity, "%s object %X", object.ObjectType(), handle)
	}

	geometry, err := m.convert(entity)
	if err != nil {
		return nil, errors.Wrapf(err, "dgeom.Materialize error converting %X", handle)
	}

	data := entity.EntityData()
	base := geometry.Common()
	base.Handle = data.Handle
	base.Color = ResolveColor(data.Color, placement.LayerColor)
	base.EED = data.EED
	if placement.Insert != 0 {
		base.BlockAttributes = m.insertAttributes(placement.Insert)
	}
	if placement.Transform != nil {
		geometry.Transform(*placement.Transform)
	}
	return geometry, nil
}

func (m *Materializer) convert(entity dobject.EntityObject) (Geometry, error) {
	switch o := entity.(type) {
	case *dobject.Point:
		return &Point{
			Base:       Base{Thickness: o.Thickness, Extrusion: o.Extrusion},
			Position:   o.Position,
			XAxisAngle: o.XAxisAngle,
		}, nil
	case *dobject.Line:
		return &Line{
			Base:  Base{Thickness: o.Thickness, Extrusion: o.Extrusion},
			Start: o.Start,
			End:   o.End,
		}, nil
	case *dobject.Circle:
		return &Circle{
			Base:   Base{Thickness: o.Thickness, Extrusion: o.Extrusion},
			Center: o.Center,
			Radius: o.Radius,
		}, nil
	case *dobject.Arc:
		return &Arc{
			Base:       Base{Thickness: o.Thickness, Extrusion: o.Extrusion},
			Center:     o.Center,
			Radius:     o.Radius,
			StartAngle: o.StartAngle,
			EndAngle:   o.EndAngle,
		}, nil
	case *dobject.Ellipse:
		return &Ellipse{
			Base:       Base{Extrusion: o.Extrusion},
			Center:     o.Center,
			MajorAxis:  o.MajorAxis,
			AxisRatio:  o.AxisRatio,
			StartAngle: o.StartAngle,
			EndAngle:   o.EndAngle,
		}, nil
	case *dobject.LWPolyline:
		return lwPolyline(o), nil
	case *dobject.Polyline3D:
		return &Polyline3D{
			Base:     Base{Extrusion: defaultExtrusion},
			Closed:   o.ClosedFlags&polylineClosed != 0,
			Vertices: m.vertices(&o.Entity, o.FirstVertex, o.LastVertex, dobject.TypeVertex3D),
		}, nil
	case *dobject.PolylinePFace:
		return &Polyface{
			Base:     Base{Extrusion: defaultExtrusion},
			Vertices: m.vertices(&o.Entity, o.FirstVertex, o.LastVertex, dobject.TypeVertexPFace),
		}, nil
	case *dobject.Spline:
		return &Spline{
			Base:          Base{Extrusion: defaultExtrusion},
			Scenario:      o.Scenario,
			Degree:        o.Degree,
			Rational:      o.Rational,
			Closed:        o.Closed,
			Weighted:      o.Weighted,
			FitTolerance:  o.FitTolerance,
			Knots:         o.Knots,
			ControlPoints: o.ControlPoints,
			Weights:       o.Weights,
			FitPoints:     o.FitPoints,
		}, nil
	case *dobject.Solid:
		return &Solid{
			Base:      Base{Thickness: o.Thickness, Extrusion: o.Extrusion},
			Elevation: o.Elevation,
			Corners:   o.Corners,
		}, nil
	case *dobject.Text:
		return &Text{
			Base:          Base{Thickness: o.Thickness, Extrusion: o.Extrusion},
			Position:      o.Insertion,
			Alignment:     o.Alignment,
			Value:         o.Value,
			Height:        o.Height,
			RotationAngle: o.RotationAngle,
			ObliqueAngle:  o.ObliqueAngle,
		}, nil
	case *dobject.MText:
		return &MText{
			Base:         Base{Extrusion: o.Extrusion},
			Position:     o.Insertion,
			XAxisAngle:   math.Atan2(o.XAxisDirection.Y, o.XAxisDirection.X),
			Value:        o.Value,
			Height:       o.TextHeight,
			RectWidth:    o.RectWidth,
			Extents:      o.Extents,
			ExtentsWidth: o.ExtentsWidth,
		}, nil
	case *dobject.Ray:
		if o.ObjectType() == dobject.TypeXLine {
			return &XLine{
				Base:      Base{Extrusion: defaultExtrusion},
				Position:  o.Position,
				Direction: o.Direction,
			}, nil
		}
		return &Ray{
			Base:      Base{Extrusion: defaultExtrusion},
			Position:  o.Position,
			Direction: o.Direction,
		}, nil
	case *dobject.Face3D:
		return &Face3D{
			Base:           Base{Extrusion: defaultExtrusion},
			Corners:        o.Corners,
			InvisibleFlags: o.InvisibleFlags,
		}, nil
	case *dobject.MLine:
		vertices := make([]lbits.Vector, 0, len(o.Vertices))
		for _, vertex := range o.Vertices {
			vertices = append(vertices, vertex.Position)
		}
		return &MLine{
			Base:     Base{Extrusion: o.Extrusion},
			Scale:    o.Scale,
			Open:     o.OpenClosed == mlineOpen,
			Vertices: vertices,
		}, nil
	case *dobject.Image:
		return m.image(o)
	case *dobject.Attrib:
		attrib := attribGeometry(o)
		if o.ObjectType() == dobject.TypeAttdef {
			return &Attdef{Attrib: attrib, Prompt: o.Prompt}, nil
		}
		return &attrib, nil
	case *dobject.Insert:
		return nil, errors.Wrap(ErrNotGeometry, "inserts are expanded into the entities of their block")
	default:
		return &Unknown{
			Base: Base{Extrusion: defaultExtrusion},
			Type: entity.ObjectType(),
		}, nil
	}
}

var defaultExtrusion = lbits.Vector{Z: 1}

func lwPolyline(o *dobject.LWPolyline) *LWPolyline {
	vertices := make([]lbits.Vector, len(o.Vertices))
	for i, vertex := range o.Vertices {
		vertices[i] = lbits.Vector{X: vertex.X, Y: vertex.Y, Z: o.Elevation}
	}
	return &LWPolyline{
		Base:       Base{Thickness: o.Thickness, Extrusion: o.Extrusion},
		Closed:     o.Flags&lwPolylineClosed != 0,
		ConstWidth: o.ConstWidth,
		Elevation:  o.Elevation,
		Vertices:   vertices,
		Bulges:     o.Bulges,
		Widths:     append([]dobject.Width(nil), o.Widths...),
	}
}

func attribGeometry(o *dobject.Attrib) Attrib {
	return Attrib{
		Base: Base{
			Handle:    o.Handle,
			Thickness: o.Thickness,
			Extrusion: o.Extrusion,
		},
		Position:      o.Insertion,
		Alignment:     o.Alignment,
		Elevation:     o.Elevation,
		Tag:           o.Tag,
		Value:         o.Value,
		Height:        o.Height,
		RotationAngle: o.RotationAngle,
		ObliqueAngle:  o.ObliqueAngle,
		Flags:         o.Flags,
	}
}

// vertices collects the positions along a polyline's vertex chain, skipping
// links of other types such as face records.
func (m *Materializer) vertices(owner *dobject.Entity, first lbits.Handle, last lbits.Handle, vertexType dobject.Type) []lbits.Vector {
	result := make([]lbits.Vector, 0)
	err := dobject.WalkChain(
		m.source, owner.Resolve(first), owner.Resolve(last), false,
		func(entity dobject.EntityObject) bool {
			vertex, ok := entity.(*dobject.Vertex)
			if !ok || vertex.ObjectType() != vertexType {
				return true
			}
			if len(result) >= dlimit.MaxVertices {
				dlog.Debugf("polyline %X has more than %d vertices", owner.Handle, dlimit.MaxVertices)
				return false
			}
			result = append(result, vertex.Position)
			return true
		},
	)
	if err != nil {
		dlog.Debugf("polyline %X: %v", owner.Handle, err)
	}
	return result
}

// image pairs the image with its definition. Without a definition there
// is nothing to show, so the image is dropped.
func (m *Materializer) image(o *dobject.Image) (Geometry, error) {
	defHandle := o.Resolve(o.ImageDef)
	object, err := m.source.Decode(defHandle, false)
	if err != nil {
		return nil, errors.Wrapf(ErrNoDefinition, "image %X definition %X: %v", o.Handle, defHandle, err)
	}
	def, err := dobject.As[*dobject.ImageDef](object)
	if err != nil {
		return nil, errors.Wrapf(ErrNoDefinition, "image %X: %v", o.Handle, err)
	}
	return &Image{
		Base:             Base{Extrusion: defaultExtrusion},
		Insertion:        o.Insertion,
		UDirection:       o.UDirection,
		VDirection:       o.VDirection,
		ImageSize:        lbits.Vector{X: o.SizeX, Y: o.SizeY},
		ImageSizeInPx:    lbits.Vector{X: def.ImageWidth, Y: def.ImageHeight},
		PixelSize:        lbits.Vector{X: def.PixelWidth, Y: def.PixelHeight},
		FilePath:         def.FilePath,
		ResolutionUnits:  def.ResolutionUnits,
		Show:             o.DisplayProps&imageDisplayShow != 0,
		Clipping:         o.Clipping,
		Brightness:       o.Brightness,
		Contrast:         o.Contrast,
		ClipBoundaryType: o.ClipBoundaryType,
		ClipVertices:     o.ClipVertices,
	}, nil
}

// insertAttributes copies the attributes attached to an insert. Failures
// only cost the attributes.
func (m *Materializer) insertAttributes(insertHandle uint64) []Attrib {
	object, err := m.source.Decode(insertHandle, false)
	if err != nil {
		dlog.Debugf("attributes of insert %X: %v", insertHandle, err)
		return nil
	}
	insert, err := dobject.As[*dobject.Insert](object)
	if err != nil {
		dlog.Debugf("attributes of insert %X: %v", insertHandle, err)
		return nil
	}
	if !insert.HasAttribs {
		return nil
	}

	attributes := make([]Attrib, 0)
	err = dobject.WalkChain(
		m.source, insert.Resolve(insert.FirstAttrib), insert.Resolve(insert.LastAttrib), false,
		func(entity dobject.EntityObject) bool {
			attrib, ok := entity.(*dobject.Attrib)
			if !ok || attrib.ObjectType() != dobject.TypeAttrib {
				return true
			}
			attributes = append(attributes, attribGeometry(attrib))
			return len(attributes) < dlimit.MaxItems
		},
	)
	if err != nil {
		dlog.Debugf("attributes of insert %X: %v", insertHandle, err)
	}
	return attributes
}
