package sdf

import (
	"math"
	"strconv"

	"github.com/soypat/pcbbox/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

type SDF3Union interface {
	SDF3
	SetMin(MinFunc)
}

type SDF3Diff interface {
	SDF3
	SetMax(MaxFunc)
}

// extrude3 extrudes an SDF2 to an SDF3.
type extrude3 struct {
	sdf    SDF2
	height float64
	bb     r3.Box
}

// Extrude3D does a linear extrude on an SDF2. The result is centered
// about the z=0 plane.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if height <= 0 {
		return empty3{}
	}
	s := extrude3{}
	s.sdf = sdf
	s.height = height / 2
	bb := sdf.Bounds()
	s.bb = r3.Box{Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height}, Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height}}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// sdf for the projected 2d surface
	a := s.sdf.Evaluate(r2.Vec{X: p.X, Y: p.Y})
	// sdf for the extrusion region: z = [-height, height]
	b := math.Abs(p.Z) - s.height
	// return the intersection
	return math.Max(a, b)
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// extrudeRounded extrudes an SDF2 to an SDF3 with rounded edges.
type extrudeRounded struct {
	sdf    SDF2
	height float64
	round  float64
	bb     r3.Box
}

// ExtrudeRounded3D extrudes an SDF2 to an SDF3 with rounded top and bottom edges.
// The rounding grows the profile by round, callers wanting the profile's
// exact footprint should pass Offset2D(sdf, -round).
func ExtrudeRounded3D(sdf SDF2, height, round float64) SDF3 {
	switch {
	case round == 0:
		return Extrude3D(sdf, height)
	case sdf == nil:
		panic("nil SDF2 argument")
	case height <= 0, round < 0, height < 2*round:
		return empty3{}
	}
	s := extrudeRounded{
		sdf:    sdf,
		height: (height / 2) - round,
		round:  round,
	}
	bb := sdf.Bounds()
	s.bb = r3.Box{
		Min: r3.Sub(r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height}, d3.Elem(round)),
		Max: r3.Add(r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height}, d3.Elem(round)),
	}
	return &s
}

// Evaluate returns the minimum distance to a rounded extrusion.
func (s *extrudeRounded) Evaluate(p r3.Vec) float64 {
	a := s.sdf.Evaluate(r2.Vec{X: p.X, Y: p.Y})
	b := math.Abs(p.Z) - s.height
	var d float64
	if b > 0 {
		// outside the object Z extent
		if a < 0 {
			d = b
		} else {
			d = math.Hypot(a, b)
		}
	} else {
		// within the object Z extent
		if a < 0 {
			d = math.Max(a, b)
		} else {
			d = a
		}
	}
	return d - s.round
}

// Bounds returns the bounding box for a rounded extrusion.
func (s *extrudeRounded) Bounds() r3.Box {
	return s.bb
}

// transform3 is an SDF3 transformed with an affine transformation matrix.
type transform3 struct {
	sdf     SDF3
	matrix  M44
	inverse M44
	bb      r3.Box
}

// Transform3D applies a transformation matrix to an SDF3.
// Distance is only preserved for rigid transforms.
func Transform3D(sdf SDF3, matrix M44) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if t, ok := sdf.(*transform3); ok {
		// collapse nested transforms so evaluation stays a single multiply.
		return Transform3D(t.sdf, matrix.Mul(t.matrix))
	}
	s := transform3{}
	s.sdf = sdf
	s.matrix = matrix
	s.inverse = matrix.Inverse()
	s.bb = matrix.MulBox(sdf.Bounds())
	return &s
}

// Translate is shorthand for translating an SDF3 by v.
func Translate(sdf SDF3, v r3.Vec) SDF3 {
	return Transform3D(sdf, Translate3D(v))
}

// Evaluate returns the minimum distance to a transformed SDF3.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.MulPosition(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// scaleUniform3 is an SDF3 scaled uniformly in XYZ directions.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	m := Scale3D(r3.Vec{X: k, Y: k, Z: k})
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1.0 / k,
		bb:   m.MulBox(sdf.Bounds()),
	}
}

// Evaluate returns the minimum distance to a uniformly scaled SDF3.
// The distance is correct with scaling.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	q := r3.Scale(s.invK, p)
	return s.sdf.Evaluate(q) * s.k
}

// Bounds returns the bounding box of a uniformly scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	min MinFunc
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list is empty or if
// an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3Union {
	if len(sdf) == 0 {
		panic("union requires at least 1 sdf")
	}
	s := union3{
		sdf: sdf,
	}
	for i, x := range s.sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	s.min = math.Min
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = s.min(d, x.Evaluate(p))
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *union3) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3Diff {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	s := diff3{}
	s.s0 = s0
	s.s1 = s1
	s.max = math.Max
	s.bb = s0.Bounds()
	return &s
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *diff3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.bb
}

// intersection3 is the intersection of two SDF3s.
type intersection3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
// Intersect3D will panic if any of the arguments are nil.
func Intersect3D(s0, s1 SDF3) SDF3Diff {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect3D")
	}
	s := intersection3{}
	s.s0 = s0
	s.s1 = s1
	s.max = math.Max
	b0, b1 := s0.Bounds(), s1.Bounds()
	s.bb = r3.Box{Min: d3.MaxElem(b0.Min, b1.Min), Max: d3.MinElem(b0.Max, b1.Max)}
	return &s
}

// Evaluate returns the minimum distance to the SDF3 intersection.
func (s *intersection3) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *intersection3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of an SDF3 intersection.
func (s *intersection3) Bounds() r3.Box {
	return s.bb
}

// cut3 makes a planar cut through an SDF3.
type cut3 struct {
	sdf SDF3
	a   r3.Vec // point on plane
	n   r3.Vec // normal to plane
	bb  r3.Box // bounding box
}

// Cut3D cuts an SDF3 along a plane passing through a with normal n.
// The SDF3 on the same side as the normal remains.
func Cut3D(sdf SDF3, a, n r3.Vec) SDF3 {
	s := cut3{}
	s.sdf = sdf
	s.a = a
	s.n = r3.Scale(-1, r3.Unit(n))
	s.bb = sdf.Bounds()
	// Axis aligned cuts shrink the bounding box exactly.
	switch {
	case n.X == 0 && n.Y == 0 && n.Z > 0:
		s.bb.Min.Z = math.Max(s.bb.Min.Z, a.Z)
	case n.X == 0 && n.Y == 0 && n.Z < 0:
		s.bb.Max.Z = math.Min(s.bb.Max.Z, a.Z)
	}
	return &s
}

// Evaluate returns the minimum distance to the cut SDF3.
func (s *cut3) Evaluate(p r3.Vec) float64 {
	return math.Max(r3.Dot(r3.Sub(p, s.a), s.n), s.sdf.Evaluate(p))
}

// Bounds returns the bounding box of the cut SDF3.
func (s *cut3) Bounds() r3.Box {
	return s.bb
}

type empty3 struct {
	center r3.Vec
}

var _ SDF3 = empty3{}

func (e empty3) Evaluate(r3.Vec) float64 {
	return math.MaxFloat64
}

func (e empty3) Bounds() r3.Box {
	return r3.Box{
		Min: e.center,
		Max: e.center,
	}
}

func (e empty3) SetMin(MinFunc) {}
func (e empty3) SetMax(MaxFunc) {}

// rotateCopy3 rotates and copies an SDF3 about the z axis.
type rotateCopy3 struct {
	sdf   SDF3
	theta float64
	bb    r3.Box
}

// RotateCopy3D returns num copies of sdf evenly rotated about the z axis.
func RotateCopy3D(sdf SDF3, num int) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if num <= 0 {
		return empty3{center: d3.Box(sdf.Bounds()).Center()}
	}
	s := rotateCopy3{
		sdf:   sdf,
		theta: 2 * math.Pi / float64(num),
	}
	bb := d3.Box(sdf.Bounds())
	rmax := 0.0
	for _, v := range bb.Vertices() {
		rmax = math.Max(rmax, math.Hypot(v.X, v.Y))
	}
	s.bb = r3.Box{Min: r3.Vec{X: -rmax, Y: -rmax, Z: bb.Min.Z}, Max: r3.Vec{X: rmax, Y: rmax, Z: bb.Max.Z}}
	return &s
}

// Evaluate maps p into the first copy's sector and evaluates it there.
func (s *rotateCopy3) Evaluate(p r3.Vec) float64 {
	r := math.Hypot(p.X, p.Y)
	sin, cos := math.Sincos(sawTooth(math.Atan2(p.Y, p.X), s.theta))
	return s.sdf.Evaluate(r3.Vec{X: r * cos, Y: r * sin, Z: p.Z})
}

// Bounds returns the bounding box of a rotate/copy SDF3.
func (s *rotateCopy3) Bounds() r3.Box {
	return s.bb
}
