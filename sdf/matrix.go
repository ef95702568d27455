package sdf

import (
	"math"

	"github.com/soypat/pcbbox/internal/d2"
	"github.com/soypat/pcbbox/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Affine transformation matrices. The last row of an M44 (and of an M33)
// is always the identity row so inversion only deals with the linear block.

// M44 is a 3d affine transformation matrix.
type M44 struct {
	x00, x01, x02, x03 float64
	x10, x11, x12, x13 float64
	x20, x21, x22, x23 float64
}

// M33 is a 2d affine transformation matrix.
type M33 struct {
	x00, x01, x02 float64
	x10, x11, x12 float64
}

// Identity3D returns the 3d identity transform.
func Identity3D() M44 {
	return M44{x00: 1, x11: 1, x22: 1}
}

// Translate3D returns a 3d translation matrix.
func Translate3D(v r3.Vec) M44 {
	return M44{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
	}
}

// Scale3D returns a 3d scaling matrix.
func Scale3D(v r3.Vec) M44 {
	return M44{x00: v.X, x11: v.Y, x22: v.Z}
}

// RotateX returns a 3d rotation about the x axis. a is in radians.
func RotateX(a float64) M44 {
	s, c := math.Sincos(a)
	return M44{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
	}
}

// RotateY returns a 3d rotation about the y axis. a is in radians.
func RotateY(a float64) M44 {
	s, c := math.Sincos(a)
	return M44{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
	}
}

// RotateZ returns a 3d rotation about the z axis. a is in radians.
func RotateZ(a float64) M44 {
	s, c := math.Sincos(a)
	return M44{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
	}
}

// MirrorXZ returns a 3d matrix mirroring about the XZ plane (y -> -y).
func MirrorXZ() M44 {
	return M44{x00: 1, x11: -1, x22: 1}
}

// Basis3D returns the matrix that maps local x, y, z axes onto u, v, n
// and the local origin onto origin.
func Basis3D(origin, u, v, n r3.Vec) M44 {
	return M44{
		u.X, v.X, n.X, origin.X,
		u.Y, v.Y, n.Y, origin.Y,
		u.Z, v.Z, n.Z, origin.Z,
	}
}

// Mul multiplies two 3d transforms. The result applies b first.
func (a M44) Mul(b M44) M44 {
	return M44{
		x00: a.x00*b.x00 + a.x01*b.x10 + a.x02*b.x20,
		x01: a.x00*b.x01 + a.x01*b.x11 + a.x02*b.x21,
		x02: a.x00*b.x02 + a.x01*b.x12 + a.x02*b.x22,
		x03: a.x00*b.x03 + a.x01*b.x13 + a.x02*b.x23 + a.x03,
		x10: a.x10*b.x00 + a.x11*b.x10 + a.x12*b.x20,
		x11: a.x10*b.x01 + a.x11*b.x11 + a.x12*b.x21,
		x12: a.x10*b.x02 + a.x11*b.x12 + a.x12*b.x22,
		x13: a.x10*b.x03 + a.x11*b.x13 + a.x12*b.x23 + a.x13,
		x20: a.x20*b.x00 + a.x21*b.x10 + a.x22*b.x20,
		x21: a.x20*b.x01 + a.x21*b.x11 + a.x22*b.x21,
		x22: a.x20*b.x02 + a.x21*b.x12 + a.x22*b.x22,
		x23: a.x20*b.x03 + a.x21*b.x13 + a.x22*b.x23 + a.x23,
	}
}

// MulPosition applies the transform to a position.
func (a M44) MulPosition(b r3.Vec) r3.Vec {
	return r3.Vec{
		X: a.x00*b.X + a.x01*b.Y + a.x02*b.Z + a.x03,
		Y: a.x10*b.X + a.x11*b.Y + a.x12*b.Z + a.x13,
		Z: a.x20*b.X + a.x21*b.Y + a.x22*b.Z + a.x23,
	}
}

// MulBox returns the axis aligned box containing the transformed box.
func (a M44) MulBox(box r3.Box) r3.Box {
	v := d3.Box(box).Vertices()
	for i := range v {
		v[i] = a.MulPosition(v[i])
	}
	return r3.Box{Min: v.Min(), Max: v.Max()}
}

// Determinant returns the determinant of the linear part of the transform.
func (a M44) Determinant() float64 {
	return a.x00*(a.x11*a.x22-a.x12*a.x21) -
		a.x01*(a.x10*a.x22-a.x12*a.x20) +
		a.x02*(a.x10*a.x21-a.x11*a.x20)
}

// Inverse returns the inverse of the transform. A singular matrix
// yields a matrix of NaNs.
func (a M44) Inverse() M44 {
	k := 1 / a.Determinant()
	var m M44
	m.x00 = k * (a.x11*a.x22 - a.x12*a.x21)
	m.x01 = k * (a.x02*a.x21 - a.x01*a.x22)
	m.x02 = k * (a.x01*a.x12 - a.x02*a.x11)
	m.x10 = k * (a.x12*a.x20 - a.x10*a.x22)
	m.x11 = k * (a.x00*a.x22 - a.x02*a.x20)
	m.x12 = k * (a.x02*a.x10 - a.x00*a.x12)
	m.x20 = k * (a.x10*a.x21 - a.x11*a.x20)
	m.x21 = k * (a.x01*a.x20 - a.x00*a.x21)
	m.x22 = k * (a.x00*a.x11 - a.x01*a.x10)
	m.x03 = -(m.x00*a.x03 + m.x01*a.x13 + m.x02*a.x23)
	m.x13 = -(m.x10*a.x03 + m.x11*a.x13 + m.x12*a.x23)
	m.x23 = -(m.x20*a.x03 + m.x21*a.x13 + m.x22*a.x23)
	return m
}

// Equals tests the equality of two transforms within tolerance.
func (a M44) Equals(b M44, tol float64) bool {
	x := [12]float64{a.x00, a.x01, a.x02, a.x03, a.x10, a.x11, a.x12, a.x13, a.x20, a.x21, a.x22, a.x23}
	y := [12]float64{b.x00, b.x01, b.x02, b.x03, b.x10, b.x11, b.x12, b.x13, b.x20, b.x21, b.x22, b.x23}
	for i := range x {
		if math.Abs(x[i]-y[i]) > tol {
			return false
		}
	}
	return true
}

// Translate2D returns a 2d translation matrix.
func Translate2D(v r2.Vec) M33 {
	return M33{
		1, 0, v.X,
		0, 1, v.Y,
	}
}

// Rotate2D returns a 2d rotation matrix. a is in radians.
func Rotate2D(a float64) M33 {
	s, c := math.Sincos(a)
	return M33{
		c, -s, 0,
		s, c, 0,
	}
}

// MirrorY returns a 2d matrix mirroring about the y axis (x -> -x).
func MirrorY() M33 {
	return M33{x00: -1, x11: 1}
}

// Mul multiplies two 2d transforms. The result applies b first.
func (a M33) Mul(b M33) M33 {
	return M33{
		x00: a.x00*b.x00 + a.x01*b.x10,
		x01: a.x00*b.x01 + a.x01*b.x11,
		x02: a.x00*b.x02 + a.x01*b.x12 + a.x02,
		x10: a.x10*b.x00 + a.x11*b.x10,
		x11: a.x10*b.x01 + a.x11*b.x11,
		x12: a.x10*b.x02 + a.x11*b.x12 + a.x12,
	}
}

// MulPosition applies the transform to a position.
func (a M33) MulPosition(b r2.Vec) r2.Vec {
	return r2.Vec{
		X: a.x00*b.X + a.x01*b.Y + a.x02,
		Y: a.x10*b.X + a.x11*b.Y + a.x12,
	}
}

// MulBox returns the axis aligned box containing the transformed box.
func (a M33) MulBox(box r2.Box) r2.Box {
	v := d2.Box(box).Vertices()
	for i := range v {
		v[i] = a.MulPosition(v[i])
	}
	return r2.Box{Min: v.Min(), Max: v.Max()}
}

// Inverse returns the inverse of the 2d transform.
func (a M33) Inverse() M33 {
	k := 1 / (a.x00*a.x11 - a.x01*a.x10)
	var m M33
	m.x00 = k * a.x11
	m.x01 = -k * a.x01
	m.x10 = -k * a.x10
	m.x11 = k * a.x00
	m.x02 = -(m.x00*a.x02 + m.x01*a.x12)
	m.x12 = -(m.x10*a.x02 + m.x11*a.x12)
	return m
}
