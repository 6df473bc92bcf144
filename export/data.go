// Package export writes opened drawings out as JSON, DXF, PDF and XLSX.
package export

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"opendwg/ds"
	"opendwg/dwg"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/dlayer"
	"opendwg/dwg/lbits"
)

type (
	Options struct {
		PDFPage         string  `yaml:"pdf_page"`
		PDFMarginMM     float64 `yaml:"pdf_margin_mm"`
		DXFColorByLayer bool    `yaml:"dxf_color_by_layer"`
	}

	// Drawn is a layer with the geometries of its members, in member order.
	// Members that did not materialize are left out of both slices.
	Drawn struct {
		Layer      *dlayer.Layer
		Members    []dlayer.Member
		Geometries []dgeom.Geometry
	}

	Extents struct {
		Min lbits.Vector
		Max lbits.Vector
		set bool
	}
)

const (
	// arcSegments is how many segments a full circle is cut into.
	arcSegments = 72
)

var (
	ErrEmptyDrawing = errors.New("drawing has nothing to draw")
)

func DefaultOptions() Options {
	return Options{
		PDFPage:         "A4",
		PDFMarginMM:     10,
		DXFColorByLayer: true,
	}
}

// Collect materializes every layer of file.
func Collect(file *dwg.File) ([]Drawn, error) {
	drawn := make([]Drawn, 0, len(file.Layers()))
	for i, layer := range file.Layers() {
		d := Drawn{
			Layer:      layer,
			Members:    make([]dlayer.Member, 0, len(layer.Members)),
			Geometries: make([]dgeom.Geometry, 0, len(layer.Members)),
		}
		err := file.EachGeometry(i, func(member dlayer.Member, geometry dgeom.Geometry) bool {
			d.Members = append(d.Members, member)
			d.Geometries = append(d.Geometries, geometry)
			return true
		})
		if err != nil {
			return nil, errors.Wrapf(err, `export.Collect error on layer "%s"`, layer.Name)
		}
		drawn = append(drawn, d)
	}
	return drawn, nil
}

func (e *Extents) Add(v lbits.Vector) {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		return
	}
	if !e.set {
		e.Min, e.Max, e.set = v, v, true
		return
	}
	e.Min.X = math.Min(e.Min.X, v.X)
	e.Min.Y = math.Min(e.Min.Y, v.Y)
	e.Max.X = math.Max(e.Max.X, v.X)
	e.Max.Y = math.Max(e.Max.Y, v.Y)
}

func (e Extents) Valid() bool {
	return e.set
}

func (e Extents) Width() float64 {
	return e.Max.X - e.Min.X
}

func (e Extents) Height() float64 {
	return e.Max.Y - e.Min.Y
}

// ExtentsOf bounds the outlines and anchors of every geometry.
func ExtentsOf(drawn []Drawn) Extents {
	extents := Extents{}
	for _, d := range drawn {
		for _, geometry := range d.Geometries {
			for _, path := range Outline(geometry) {
				for _, v := range path {
					extents.Add(v)
				}
			}
			if anchor, ok := Anchor(geometry); ok {
				extents.Add(anchor)
			}
		}
	}
	return extents
}

// Outline approximates a geometry by polylines. Curves are cut into
// segments. Text, rays and unknown geometries have no outline.
func Outline(geometry dgeom.Geometry) [][]lbits.Vector {
	switch g := geometry.(type) {
	case *dgeom.Point:
		return [][]lbits.Vector{{g.Position}}
	case *dgeom.Line:
		return [][]lbits.Vector{{g.Start, g.End}}
	case *dgeom.Circle:
		return curve(arc(g.Center, g.Radius, 0, 2*math.Pi))
	case *dgeom.Arc:
		return curve(arc(g.Center, g.Radius, g.StartAngle, g.EndAngle))
	case *dgeom.Ellipse:
		return curve(ellipse(g))
	case *dgeom.LWPolyline:
		return [][]lbits.Vector{closed(g.Vertices, g.Closed)}
	case *dgeom.Polyline3D:
		return [][]lbits.Vector{closed(g.Vertices, g.Closed)}
	case *dgeom.Polyface:
		return [][]lbits.Vector{g.Vertices}
	case *dgeom.MLine:
		return [][]lbits.Vector{closed(g.Vertices, !g.Open)}
	case *dgeom.Spline:
		if len(g.FitPoints) > 0 {
			return [][]lbits.Vector{closed(g.FitPoints, g.Closed)}
		}
		return [][]lbits.Vector{closed(g.ControlPoints, g.Closed)}
	case *dgeom.Solid:
		// solids store their corners in zig-zag order
		c := g.Corners
		return [][]lbits.Vector{{c[0], c[1], c[3], c[2], c[0]}}
	case *dgeom.Face3D:
		c := g.Corners
		return [][]lbits.Vector{{c[0], c[1], c[2], c[3], c[0]}}
	case *dgeom.Image:
		u := g.UDirection.Scale(g.ImageSize.X)
		v := g.VDirection.Scale(g.ImageSize.Y)
		p := g.Insertion
		return [][]lbits.Vector{{p, p.Add(u), p.Add(u).Add(v), p.Add(v), p}}
	default:
		return nil
	}
}

// Anchor is where a text-like geometry is written.
func Anchor(geometry dgeom.Geometry) (lbits.Vector, bool) {
	switch g := geometry.(type) {
	case *dgeom.Text:
		return g.Position, true
	case *dgeom.MText:
		return g.Position, true
	case *dgeom.Attrib:
		return g.Position, true
	case *dgeom.Attdef:
		return g.Position, true
	default:
		return lbits.Vector{}, false
	}
}

// Label is the text written at the anchor, with its height and rotation.
func Label(geometry dgeom.Geometry) (string, float64, float64, bool) {
	switch g := geometry.(type) {
	case *dgeom.Text:
		return g.Value, g.Height, g.RotationAngle, true
	case *dgeom.MText:
		return g.Value, g.Height, g.XAxisAngle, true
	case *dgeom.Attrib:
		return g.Value, g.Height, g.RotationAngle, true
	case *dgeom.Attdef:
		return g.Tag, g.Height, g.RotationAngle, true
	default:
		return "", 0, 0, false
	}
}

// steps reduces an angle range to a sweep in (0, 2π] and picks the number
// of segments for it. Ranges with an infinite or NaN bound have no sweep.
func steps(start float64, end float64) (float64, []int, bool) {
	sweep := math.Mod(end-start, 2*math.Pi)
	if math.IsNaN(sweep) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return 0, nil, false
	}
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	n := int(math.Ceil(sweep / (2 * math.Pi) * arcSegments))
	n = max(min(n, arcSegments), 1)
	return sweep, ds.MakeRange(0, n+1, 1), true
}

func curve(path []lbits.Vector) [][]lbits.Vector {
	if len(path) == 0 {
		return nil
	}
	return [][]lbits.Vector{path}
}

func arc(center lbits.Vector, radius float64, start float64, end float64) []lbits.Vector {
	sweep, indexes, ok := steps(start, end)
	if !ok {
		return nil
	}
	n := float64(len(indexes) - 1)
	return lo.Map(indexes, func(i int, _ int) lbits.Vector {
		angle := start + sweep*float64(i)/n
		return lbits.Vector{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
			Z: center.Z,
		}
	})
}

func ellipse(g *dgeom.Ellipse) []lbits.Vector {
	major := g.MajorAxis
	minor := lbits.Vector{X: -major.Y, Y: major.X}.Scale(g.AxisRatio)
	sweep, indexes, ok := steps(g.StartAngle, g.EndAngle)
	if !ok {
		return nil
	}
	n := float64(len(indexes) - 1)
	return lo.Map(indexes, func(i int, _ int) lbits.Vector {
		t := g.StartAngle + sweep*float64(i)/n
		return g.Center.Add(major.Scale(math.Cos(t))).Add(minor.Scale(math.Sin(t)))
	})
}

func closed(vertices []lbits.Vector, isClosed bool) []lbits.Vector {
	if !isClosed || len(vertices) < 2 {
		return vertices
	}
	return ds.ShallowCopy(vertices, vertices[0])
}
