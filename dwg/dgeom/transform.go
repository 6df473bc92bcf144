package dgeom

import (
	"opendwg/dwg/lbits"
)

func applyAll(m Matrix, points []lbits.Vector) {
	for i := range points {
		points[i] = m.Apply(points[i])
	}
}

func (b *Base) transform(m Matrix) {
	b.Thickness *= m.ZScale
}

func (g *Point) Transform(m Matrix) {
	g.Base.transform(m)
	g.Position = m.Apply(g.Position)
	g.XAxisAngle += m.Rotation()
}

func (g *Line) Transform(m Matrix) {
	g.Base.transform(m)
	g.Start = m.Apply(g.Start)
	g.End = m.Apply(g.End)
}

func (g *Circle) Transform(m Matrix) {
	g.Base.transform(m)
	g.Center = m.Apply(g.Center)
	g.Radius *= m.ScaleFactor()
}

func (g *Arc) Transform(m Matrix) {
	g.Base.transform(m)
	g.Center = m.Apply(g.Center)
	g.Radius *= m.ScaleFactor()
	rotation := m.Rotation()
	g.StartAngle += rotation
	g.EndAngle += rotation
}

func (g *Ellipse) Transform(m Matrix) {
	g.Base.transform(m)
	g.Center = m.Apply(g.Center)
	g.MajorAxis = m.ApplyDirection(g.MajorAxis)
}

func (g *Polyline3D) Transform(m Matrix) {
	g.Base.transform(m)
	applyAll(m, g.Vertices)
}

func (g *LWPolyline) Transform(m Matrix) {
	g.Base.transform(m)
	applyAll(m, g.Vertices)
	g.Elevation = m.ZScale*g.Elevation + m.ZShift
	factor := m.ScaleFactor()
	g.ConstWidth *= factor
	for i := range g.Widths {
		g.Widths[i].Start *= factor
		g.Widths[i].End *= factor
	}
}

func (g *Polyface) Transform(m Matrix) {
	g.Base.transform(m)
	applyAll(m, g.Vertices)
}

func (g *Spline) Transform(m Matrix) {
	g.Base.transform(m)
	applyAll(m, g.ControlPoints)
	applyAll(m, g.FitPoints)
	g.FitTolerance *= m.ScaleFactor()
}

func (g *Solid) Transform(m Matrix) {
	g.Base.transform(m)
	applyAll(m, g.Corners[:])
	g.Elevation = m.ZScale*g.Elevation + m.ZShift
}

func (g *Text) Transform(m Matrix) {
	g.Base.transform(m)
	g.Position = m.Apply(g.Position)
	g.Alignment = m.Apply(g.Alignment)
	g.Height *= m.ScaleFactor()
	g.RotationAngle += m.Rotation()
}

func (g *MText) Transform(m Matrix) {
	g.Base.transform(m)
	factor := m.ScaleFactor()
	g.Position = m.Apply(g.Position)
	g.Height *= factor
	g.RectWidth *= factor
	g.Extents *= factor
	g.ExtentsWidth *= factor
	g.XAxisAngle += m.Rotation()
}

func (g *Ray) Transform(m Matrix) {
	g.Base.transform(m)
	g.Position = m.Apply(g.Position)
	g.Direction = m.ApplyDirection(g.Direction)
}

func (g *XLine) Transform(m Matrix) {
	g.Base.transform(m)
	g.Position = m.Apply(g.Position)
	g.Direction = m.ApplyDirection(g.Direction)
}

func (g *Face3D) Transform(m Matrix) {
	g.Base.transform(m)
	applyAll(m, g.Corners[:])
}

func (g *MLine) Transform(m Matrix) {
	g.Base.transform(m)
	applyAll(m, g.Vertices)
	g.Scale *= m.ScaleFactor()
}

// Transform moves the image frame. Clip vertices are in pixel space and
// stay as they are.
func (g *Image) Transform(m Matrix) {
	g.Base.transform(m)
	g.Insertion = m.Apply(g.Insertion)
	g.UDirection = m.ApplyDirection(g.UDirection)
	g.VDirection = m.ApplyDirection(g.VDirection)
}

func (g *Attrib) Transform(m Matrix) {
	g.Base.transform(m)
	g.Position = m.Apply(g.Position)
	g.Alignment = m.Apply(g.Alignment)
	g.Elevation = m.ZScale*g.Elevation + m.ZShift
	g.Height *= m.ScaleFactor()
	g.RotationAngle += m.Rotation()
}

func (g *Unknown) Transform(m Matrix) {
	g.Base.transform(m)
}
