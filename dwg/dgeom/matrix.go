package dgeom

import (
	"math"

	"opendwg/dwg/lbits"
)

// Matrix is a planar affine transform in homogeneous coordinates. Z is only
// scaled and shifted, rotations are about the Z axis.
type Matrix struct {
	M      [3][3]float64 `json:"m"`
	ZScale float64       `json:"z_scale"`
	ZShift float64       `json:"z_shift"`
}

func Identity() Matrix {
	return Matrix{
		M: [3][3]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		ZScale: 1,
	}
}

// InsertTransform places block coordinates: the block base point moves to
// the origin, then the block is rotated, scaled and moved to the insertion
// point.
func InsertTransform(insertion lbits.Vector, scale lbits.Vector, rotation float64, base lbits.Vector) Matrix {
	return Identity().
		Translate(insertion).
		Scale(scale).
		Rotate(rotation).
		Translate(base.Scale(-1))
}

// Multiply returns m × other, which applies other first.
func (m Matrix) Multiply(other Matrix) Matrix {
	var result Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				result.M[i][j] += m.M[i][k] * other.M[k][j]
			}
		}
	}
	result.ZScale = m.ZScale * other.ZScale
	result.ZShift = m.ZScale*other.ZShift + m.ZShift
	return result
}

func (m Matrix) Translate(v lbits.Vector) Matrix {
	t := Identity()
	t.M[0][2] = v.X
	t.M[1][2] = v.Y
	t.ZShift = v.Z
	return m.Multiply(t)
}

func (m Matrix) Scale(v lbits.Vector) Matrix {
	s := Identity()
	s.M[0][0] = v.X
	s.M[1][1] = v.Y
	s.ZScale = v.Z
	return m.Multiply(s)
}

func (m Matrix) Rotate(angle float64) Matrix {
	r := Identity()
	sin, cos := math.Sincos(angle)
	r.M[0][0] = cos
	r.M[0][1] = -sin
	r.M[1][0] = sin
	r.M[1][1] = cos
	return m.Multiply(r)
}

func (m Matrix) Apply(v lbits.Vector) lbits.Vector {
	return lbits.Vector{
		X: m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2],
		Y: m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2],
		Z: m.ZScale*v.Z + m.ZShift,
	}
}

// ApplyDirection transforms a vector without the translation part.
func (m Matrix) ApplyDirection(v lbits.Vector) lbits.Vector {
	return lbits.Vector{
		X: m.M[0][0]*v.X + m.M[0][1]*v.Y,
		Y: m.M[1][0]*v.X + m.M[1][1]*v.Y,
		Z: m.ZScale * v.Z,
	}
}

// ScaleFactor is the factor lengths grow by, exact for uniform scales.
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.M[0][0]*m.M[1][1] - m.M[0][1]*m.M[1][0]))
}

// Rotation is the angle the X axis is turned by.
func (m Matrix) Rotation() float64 {
	return math.Atan2(m.M[1][0], m.M[0][0])
}

func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
