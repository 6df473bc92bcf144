package export

import (
	"math"

	"github.com/pkg/errors"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"opendwg/dlog"
	"opendwg/dwg"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/lbits"
)

// WriteDXF saves the materialized layers of file as an ASCII DXF drawing.
// Lines, points, circles, arcs and text are written as such, every other
// outline as line segments.
func WriteDXF(path string, file *dwg.File, options Options) error {
	drawn, err := Collect(file)
	if err != nil {
		return errors.Wrap(err, "export.WriteDXF error")
	}

	d := dxf.NewDrawing()
	for _, layer := range drawn {
		cl := dxf.DefaultColor
		if options.DXFColorByLayer {
			cl = layerColor(layer.Layer.Color)
		}
		if _, err := d.AddLayer(layer.Layer.Name, cl, dxf.DefaultLineType, true); err != nil {
			// "0" exists in every new drawing
			if err := d.ChangeLayer(layer.Layer.Name); err != nil {
				return errors.Wrapf(err, `export.WriteDXF error adding layer "%s"`, layer.Layer.Name)
			}
		}
		for _, geometry := range layer.Geometries {
			if err := drawDXF(d, geometry); err != nil {
				dlog.Debugf("dxf: skipping %s %X: %v", geometry.Kind(), geometry.Common().Handle, err)
			}
		}
	}
	return errors.Wrap(d.SaveAs(path), "export.WriteDXF error")
}

func layerColor(index int16) color.ColorNumber {
	if index < 0 {
		index = -index
	}
	if index < 1 || index > 255 {
		return dxf.DefaultColor
	}
	return color.ColorNumber(index)
}

func degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

func drawDXF(d *drawing.Drawing, geometry dgeom.Geometry) error {
	var err error
	switch g := geometry.(type) {
	case *dgeom.Point:
		_, err = d.Point(g.Position.X, g.Position.Y, g.Position.Z)
	case *dgeom.Line:
		_, err = d.Line(g.Start.X, g.Start.Y, g.Start.Z, g.End.X, g.End.Y, g.End.Z)
	case *dgeom.Circle:
		_, err = d.Circle(g.Center.X, g.Center.Y, g.Center.Z, g.Radius)
	case *dgeom.Arc:
		_, err = d.Arc(g.Center.X, g.Center.Y, g.Center.Z, g.Radius, degrees(g.StartAngle), degrees(g.EndAngle))
	default:
		if label, height, _, ok := Label(geometry); ok {
			anchor, _ := Anchor(geometry)
			_, err = d.Text(label, anchor.X, anchor.Y, anchor.Z, height)
			return err
		}
		for _, path := range Outline(geometry) {
			if err := segments(d, path); err != nil {
				return err
			}
		}
	}
	return err
}

func segments(d *drawing.Drawing, path []lbits.Vector) error {
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if _, err := d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z); err != nil {
			return err
		}
	}
	return nil
}
