package sdf

import (
	"math"
	"strconv"

	"github.com/soypat/pcbbox/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// 2D signed distance function utility functions.

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate takes a point in 2D space as input and returns
	// the minimum distance of the SDF2 to the point. The distance
	// is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64

	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

type SDF2Union interface {
	SDF2
	SetMin(MinFunc)
}

type SDF2Diff interface {
	SDF2
	SetMax(MaxFunc)
}

// transform2 is an SDF2 transformed with a 3x3 affine matrix.
type transform2 struct {
	sdf     SDF2
	matrix  M33
	inverse M33
	bb      r2.Box
}

// Transform2D applies a transformation matrix to an SDF2.
func Transform2D(sdf SDF2, m M33) SDF2 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	s := transform2{}
	s.sdf = sdf
	s.matrix = m
	s.inverse = m.Inverse()
	s.bb = m.MulBox(sdf.Bounds())
	return &s
}

// Translate2 is shorthand for translating an SDF2 by v.
func Translate2(sdf SDF2, v r2.Vec) SDF2 {
	return Transform2D(sdf, Translate2D(v))
}

// Evaluate returns the minimum distance to a transformed SDF2.
// Distance is *not* preserved with scaling.
func (s *transform2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.MulPosition(p))
}

// Bounds returns the bounding box of a transformed SDF2.
func (s *transform2) Bounds() r2.Box {
	return s.bb
}

// array2 is a rectangular array of an SDF2 centered about the origin.
type array2 struct {
	sdf  SDF2
	num  V2i
	step r2.Vec
	half r2.Vec // (num-1)/2, index of the array center.
	min  MinFunc
	bb   r2.Box
}

// Array2D returns a num[0] x num[1] array of sdf spaced by step and centered
// about the origin. Only the nearest element is evaluated so the distance is
// exact when sdf is symmetric and fits within a single step cell. Setting a
// MinFunc also evaluates the four neighbouring elements.
func Array2D(sdf SDF2, num V2i, step r2.Vec) SDF2Union {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if num[0] <= 0 || num[1] <= 0 {
		return empty2From(sdf)
	}
	s := array2{
		sdf:  sdf,
		num:  num,
		step: step,
		half: r2.Vec{X: float64(num[0]-1) / 2, Y: float64(num[1]-1) / 2},
	}
	ext := r2.Vec{X: s.half.X * step.X, Y: s.half.Y * step.Y}
	bb := d2.Box(sdf.Bounds())
	s.bb = r2.Box(bb.Translate(r2.Scale(-1, ext)).Extend(bb.Translate(ext)))
	return &s
}

// Evaluate returns the distance to the closest array element.
func (s *array2) Evaluate(p r2.Vec) float64 {
	ix := clamp(math.Round(p.X/s.step.X+s.half.X), 0, float64(s.num[0]-1))
	iy := clamp(math.Round(p.Y/s.step.Y+s.half.Y), 0, float64(s.num[1]-1))
	q := r2.Vec{
		X: p.X - (ix-s.half.X)*s.step.X,
		Y: p.Y - (iy-s.half.Y)*s.step.Y,
	}
	d := s.sdf.Evaluate(q)
	if s.min == nil {
		return d
	}
	// Neighbouring elements only matter for blended minimums.
	for _, off := range [4]r2.Vec{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
		jx, jy := ix+off.X, iy+off.Y
		if jx < 0 || jy < 0 || jx > float64(s.num[0]-1) || jy > float64(s.num[1]-1) {
			continue
		}
		q := r2.Vec{X: p.X - (jx-s.half.X)*s.step.X, Y: p.Y - (jy-s.half.Y)*s.step.Y}
		d = s.min(d, s.sdf.Evaluate(q))
	}
	return d
}

// SetMin sets the minimum function to control blending. A nil MinFunc
// evaluates only the nearest element.
func (s *array2) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of the array.
func (s *array2) Bounds() r2.Box {
	return s.bb
}

// union2 is a union of SDF2s.
type union2 struct {
	sdf []SDF2
	min MinFunc
	bb  r2.Box
}

// Union2D returns the union of multiple SDF2 objects.
func Union2D(sdf ...SDF2) SDF2Union {
	if len(sdf) == 0 {
		panic("union requires at least 1 sdf")
	}
	s := union2{
		sdf: sdf,
		min: math.Min,
	}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union2D")
		}
	}
	bb := d2.Box(sdf[0].Bounds())
	for _, x := range sdf[1:] {
		bb = bb.Extend(d2.Box(x.Bounds()))
	}
	s.bb = r2.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the SDF2 union.
func (s *union2) Evaluate(p r2.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = s.min(d, x.Evaluate(p))
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *union2) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF2 union.
func (s *union2) Bounds() r2.Box {
	return s.bb
}

// diff2 is the difference of two SDF2s.
type diff2 struct {
	s0  SDF2
	s1  SDF2
	max MaxFunc
	bb  r2.Box
}

// Difference2D returns the difference of two SDF2 objects, s0 - s1.
func Difference2D(s0, s1 SDF2) SDF2Diff {
	if s0 == nil || s1 == nil {
		panic("nil argument to Difference2D")
	}
	s := diff2{
		s0:  s0,
		s1:  s1,
		max: math.Max,
		bb:  s0.Bounds(),
	}
	return &s
}

// Evaluate returns the minimum distance to the difference of two SDF2s.
func (s *diff2) Evaluate(p r2.Vec) float64 {
	return s.max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *diff2) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box for the difference of two SDF2s.
func (s *diff2) Bounds() r2.Box {
	return s.bb
}

// offset2 offsets the distance function of an existing SDF2.
type offset2 struct {
	sdf      SDF2
	distance float64
	bb       r2.Box
}

// Offset2D returns an SDF2 that offsets the distance function of another SDF2.
// Negative offsets shrink the shape.
func Offset2D(sdf SDF2, offset float64) SDF2 {
	s := offset2{
		sdf:      sdf,
		distance: offset,
	}
	bb := d2.Box(sdf.Bounds())
	s.bb = r2.Box(d2.NewBox(bb.Center(), r2.Add(bb.Size(), d2.Elem(2*offset))))
	return &s
}

// Evaluate returns the minimum distance to an offset SDF2.
func (s *offset2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(p) - s.distance
}

// Bounds returns the bounding box of an offset SDF2.
func (s *offset2) Bounds() r2.Box {
	return s.bb
}

func empty2From(s SDF2) empty2 {
	return empty2{
		center: d2.Box(s.Bounds()).Center(),
	}
}

type empty2 struct {
	center r2.Vec
}

var _ SDF2 = empty2{}

func (e empty2) Evaluate(r2.Vec) float64 {
	return math.MaxFloat64
}

func (e empty2) Bounds() r2.Box {
	return r2.Box{
		Min: e.center,
		Max: e.center,
	}
}

func (e empty2) SetMin(MinFunc) {}
func (e empty2) SetMax(MaxFunc) {}
