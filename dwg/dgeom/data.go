package dgeom

import (
	"github.com/pkg/errors"

	"opendwg/dwg/dobject"
	"opendwg/dwg/lbits"
)

type Kind string

const (
	KindPoint      Kind = "point"
	KindLine       Kind = "line"
	KindCircle     Kind = "circle"
	KindArc        Kind = "arc"
	KindEllipse    Kind = "ellipse"
	KindPolyline3D Kind = "polyline3d"
	KindLWPolyline Kind = "lwpolyline"
	KindPolyface   Kind = "polyface"
	KindSpline     Kind = "spline"
	KindSolid      Kind = "solid"
	KindText       Kind = "text"
	KindMText      Kind = "mtext"
	KindRay        Kind = "ray"
	KindXLine      Kind = "xline"
	KindFace3D     Kind = "face3d"
	KindMLine      Kind = "mline"
	KindImage      Kind = "image"
	KindAttrib     Kind = "attrib"
	KindAttdef     Kind = "attdef"
	KindUnknown    Kind = "unknown"
)

type (
	Geometry interface {
		Kind() Kind
		Common() *Base
		Transform(m Matrix)
	}

	RGB struct {
		R uint8 `json:"r"`
		G uint8 `json:"g"`
		B uint8 `json:"b"`
	}

	// Base is what every geometry carries. Color is nil when the entity
	// color is neither BYLAYER nor a palette index.
	Base struct {
		Handle          uint64       `json:"handle"`
		Color           *RGB         `json:"color,omitempty"`
		Thickness       float64      `json:"thickness,omitempty"`
		Extrusion       lbits.Vector `json:"extrusion"`
		EED             EEDList      `json:"eed,omitempty"`
		BlockAttributes []Attrib     `json:"block_attributes,omitempty"`
	}

	Point struct {
		Base
		Position   lbits.Vector `json:"position"`
		XAxisAngle float64      `json:"x_axis_angle"`
	}
	Line struct {
		Base
		Start lbits.Vector `json:"start"`
		End   lbits.Vector `json:"end"`
	}
	Circle struct {
		Base
		Center lbits.Vector `json:"center"`
		Radius float64      `json:"radius"`
	}
	Arc struct {
		Base
		Center     lbits.Vector `json:"center"`
		Radius     float64      `json:"radius"`
		StartAngle float64      `json:"start_angle"`
		EndAngle   float64      `json:"end_angle"`
	}
	Ellipse struct {
		Base
		Center     lbits.Vector `json:"center"`
		MajorAxis  lbits.Vector `json:"major_axis"`
		AxisRatio  float64      `json:"axis_ratio"`
		StartAngle float64      `json:"start_angle"`
		EndAngle   float64      `json:"end_angle"`
	}
	Polyline3D struct {
		Base
		Closed   bool           `json:"closed"`
		Vertices []lbits.Vector `json:"vertices"`
	}
	LWPolyline struct {
		Base
		Closed     bool            `json:"closed"`
		ConstWidth float64         `json:"const_width"`
		Elevation  float64         `json:"elevation"`
		Vertices   []lbits.Vector  `json:"vertices"`
		Bulges     []float64       `json:"bulges,omitempty"`
		Widths     []dobject.Width `json:"widths,omitempty"`
	}
	Polyface struct {
		Base
		Vertices []lbits.Vector `json:"vertices"`
	}
	Spline struct {
		Base
		Scenario      int32          `json:"scenario"`
		Degree        int32          `json:"degree"`
		Rational      bool           `json:"rational"`
		Closed        bool           `json:"closed"`
		Weighted      bool           `json:"weighted"`
		FitTolerance  float64        `json:"fit_tolerance"`
		Knots         []float64      `json:"knots,omitempty"`
		ControlPoints []lbits.Vector `json:"control_points,omitempty"`
		Weights       []float64      `json:"weights,omitempty"`
		FitPoints     []lbits.Vector `json:"fit_points,omitempty"`
	}
	Solid struct {
		Base
		Elevation float64         `json:"elevation"`
		Corners   [4]lbits.Vector `json:"corners"`
	}
	Text struct {
		Base
		Position      lbits.Vector `json:"position"`
		Alignment     lbits.Vector `json:"alignment"`
		Value         string       `json:"value"`
		Height        float64      `json:"height"`
		RotationAngle float64      `json:"rotation_angle"`
		ObliqueAngle  float64      `json:"oblique_angle"`
	}
	MText struct {
		Base
		Position     lbits.Vector `json:"position"`
		XAxisAngle   float64      `json:"x_axis_angle"`
		Value        string       `json:"value"`
		Height       float64      `json:"height"`
		RectWidth    float64      `json:"rect_width"`
		Extents      float64      `json:"extents"`
		ExtentsWidth float64      `json:"extents_width"`
	}
	Ray struct {
		Base
		Position  lbits.Vector `json:"position"`
		Direction lbits.Vector `json:"direction"`
	}
	XLine struct {
		Base
		Position  lbits.Vector `json:"position"`
		Direction lbits.Vector `json:"direction"`
	}
	Face3D struct {
		Base
		Corners        [4]lbits.Vector `json:"corners"`
		InvisibleFlags int16           `json:"invisible_flags"`
	}
	MLine struct {
		Base
		Scale    float64        `json:"scale"`
		Open     bool           `json:"open"`
		Vertices []lbits.Vector `json:"vertices"`
	}
	// Image is a raster image placed by its insertion point and the
	// directions of one pixel along U and V.
	Image struct {
		Base
		Insertion        lbits.Vector   `json:"insertion"`
		UDirection       lbits.Vector   `json:"u_direction"`
		VDirection       lbits.Vector   `json:"v_direction"`
		ImageSize        lbits.Vector   `json:"image_size"`
		ImageSizeInPx    lbits.Vector   `json:"image_size_in_px"`
		PixelSize        lbits.Vector   `json:"pixel_size"`
		FilePath         string         `json:"file_path"`
		ResolutionUnits  uint8          `json:"resolution_units"`
		Show             bool           `json:"show"`
		Clipping         bool           `json:"clipping"`
		Brightness       uint8          `json:"brightness"`
		Contrast         uint8          `json:"contrast"`
		ClipBoundaryType int16          `json:"clip_boundary_type"`
		ClipVertices     []lbits.Vector `json:"clip_vertices,omitempty"`
	}
	Attrib struct {
		Base
		Position      lbits.Vector `json:"position"`
		Alignment     lbits.Vector `json:"alignment"`
		Elevation     float64      `json:"elevation"`
		Tag           string       `json:"tag"`
		Value         string       `json:"value"`
		Height        float64      `json:"height"`
		RotationAngle float64      `json:"rotation_angle"`
		ObliqueAngle  float64      `json:"oblique_angle"`
		Flags         uint8        `json:"flags"`
	}
	Attdef struct {
		Attrib
		Prompt string `json:"prompt"`
	}
	// Unknown stands for entities without a geometry of their own.
	Unknown struct {
		Base
		Type dobject.Type `json:"type"`
	}
)

const (
	imageDisplayShow = 0x08
	mlineOpen        = 1
)

var (
	ErrNotEntity    = errors.New("object is not an entity")
	ErrNotGeometry  = errors.New("entity has no geometry of its own")
	ErrNoDefinition = errors.New("image definition cannot be resolved")
)

func (b *Base) Common() *Base {
	return b
}

func (*Point) Kind() Kind      { return KindPoint }
func (*Line) Kind() Kind       { return KindLine }
func (*Circle) Kind() Kind     { return KindCircle }
func (*Arc) Kind() Kind        { return KindArc }
func (*Ellipse) Kind() Kind    { return KindEllipse }
func (*Polyline3D) Kind() Kind { return KindPolyline3D }
func (*LWPolyline) Kind() Kind { return KindLWPolyline }
func (*Polyface) Kind() Kind   { return KindPolyface }
func (*Spline) Kind() Kind     { return KindSpline }
func (*Solid) Kind() Kind      { return KindSolid }
func (*Text) Kind() Kind       { return KindText }
func (*MText) Kind() Kind      { return KindMText }
func (*Ray) Kind() Kind        { return KindRay }
func (*XLine) Kind() Kind      { return KindXLine }
func (*Face3D) Kind() Kind     { return KindFace3D }
func (*MLine) Kind() Kind      { return KindMLine }
func (*Image) Kind() Kind      { return KindImage }
func (*Attrib) Kind() Kind     { return KindAttrib }
func (*Attdef) Kind() Kind     { return KindAttdef }
func (*Unknown) Kind() Kind    { return KindUnknown }

var materializable = map[dobject.Type]bool{
	dobject.TypePoint:         true,
	dobject.TypeLine:          true,
	dobject.TypeCircle:        true,
	dobject.TypeArc:           true,
	dobject.TypeEllipse:       true,
	dobject.TypeLWPolyline:    true,
	dobject.TypePolyline3D:    true,
	dobject.TypePolylinePFace: true,
	dobject.TypeSpline:        true,
	dobject.TypeSolid:         true,
	dobject.TypeText:          true,
	dobject.TypeMText:         true,
	dobject.TypeRay:           true,
	dobject.TypeXLine:         true,
	dobject.TypeFace3D:        true,
	dobject.TypeMLine:         true,
	dobject.TypeImage:         true,
	dobject.TypeAttrib:        true,
	dobject.TypeAttdef:        true,
}

// Materializable reports whether entities of type t have a geometry of
// their own. Others materialize as Unknown, inserts not at all.
func Materializable(t dobject.Type) bool {
	return materializable[t]
}
