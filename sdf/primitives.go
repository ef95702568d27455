package sdf

import (
	"errors"
	"math"

	"github.com/soypat/pcbbox/internal/d2"
	"github.com/soypat/pcbbox/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const tolerance = 1e-9

var (
	errNonPositiveSize = errors.New("size must be positive")
	errNegativeRound   = errors.New("rounding must not be negative")
	errRoundTooLarge   = errors.New("rounding exceeds half of smallest dimension")
)

// box3 is a 3d box.
type box3 struct {
	size  r3.Vec
	round float64
	bb    r3.Box
}

// Box3D return an SDF3 for a 3d box centered at the origin
// (rounded corners with round > 0).
func Box3D(size r3.Vec, round float64) (SDF3, error) {
	switch {
	case d3.LTEZero(size):
		return nil, errNonPositiveSize
	case round < 0:
		return nil, errNegativeRound
	case 2*round > math.Min(size.X, math.Min(size.Y, size.Z)):
		return nil, errRoundTooLarge
	}
	size = r3.Scale(0.5, size)
	s := box3{
		size:  r3.Sub(size, d3.Elem(round)),
		round: round,
		bb:    r3.Box{Min: r3.Scale(-1, size), Max: size},
	}
	return &s, nil
}

// Evaluate returns the minimum distance to a 3d box.
func (s *box3) Evaluate(p r3.Vec) float64 {
	return sdfBox3d(p, s.size) - s.round
}

// Bounds returns the bounding box for a 3d box.
func (s *box3) Bounds() r3.Box {
	return s.bb
}

// cylinder3 is a cylinder along the z axis.
type cylinder3 struct {
	height float64
	radius float64
	round  float64
	bb     r3.Box
}

// Cylinder3D return an SDF3 for a cylinder centered at the origin with
// its axis along z (rounded edges with round > 0).
func Cylinder3D(height, radius, round float64) (SDF3, error) {
	switch {
	case radius <= 0 || height <= 0:
		return nil, errNonPositiveSize
	case round < 0:
		return nil, errNegativeRound
	case round > radius || height < 2*round:
		return nil, errRoundTooLarge
	}
	s := cylinder3{}
	s.height = (height / 2) - round
	s.radius = radius - round
	s.round = round
	d := r3.Vec{X: radius, Y: radius, Z: height / 2}
	s.bb = r3.Box{Min: r3.Scale(-1, d), Max: d}
	return &s, nil
}

// Evaluate returns the minimum distance to a cylinder.
func (s *cylinder3) Evaluate(p r3.Vec) float64 {
	d := sdfBox2d(r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}, r2.Vec{X: s.radius, Y: s.height})
	return d - s.round
}

// Bounds returns the bounding box for a cylinder.
func (s *cylinder3) Bounds() r3.Box {
	return s.bb
}

// circle2 is a 2d circle.
type circle2 struct {
	radius float64
	bb     r2.Box
}

// Circle2D returns the SDF2 for a 2d circle centered at the origin.
func Circle2D(radius float64) (SDF2, error) {
	if radius <= 0 {
		return nil, errNonPositiveSize
	}
	d := r2.Vec{X: radius, Y: radius}
	s := circle2{
		radius: radius,
		bb:     r2.Box{Min: r2.Scale(-1, d), Max: d},
	}
	return &s, nil
}

// Evaluate returns the minimum distance to a 2d circle.
func (s *circle2) Evaluate(p r2.Vec) float64 {
	return r2.Norm(p) - s.radius
}

// Bounds returns the bounding box of a 2d circle.
func (s *circle2) Bounds() r2.Box {
	return s.bb
}

// box2 is a 2d box with optionally rounded corners.
type box2 struct {
	size  r2.Vec
	round float64
	bb    r2.Box
}

// Box2D returns a 2d box centered at the origin (rounded corners with round > 0).
func Box2D(size r2.Vec, round float64) (SDF2, error) {
	switch {
	case d2.LTEZero(size):
		return nil, errNonPositiveSize
	case round < 0:
		return nil, errNegativeRound
	case 2*round > math.Min(size.X, size.Y):
		return nil, errRoundTooLarge
	}
	size = r2.Scale(0.5, size)
	s := box2{
		size:  r2.Sub(size, d2.Elem(round)),
		round: round,
		bb:    r2.Box{Min: r2.Scale(-1, size), Max: size},
	}
	return &s, nil
}

// Evaluate returns the minimum distance to a 2d box.
func (s *box2) Evaluate(p r2.Vec) float64 {
	return sdfBox2d(p, s.size) - s.round
}

// Bounds returns the bounding box for a 2d box.
func (s *box2) Bounds() r2.Box {
	return s.bb
}

// polygon2 is an SDF2 made from a closed set of line segments.
type polygon2 struct {
	vertex []r2.Vec  // vertices
	vector []r2.Vec  // unit line vectors
	length []float64 // line lengths
	bb     r2.Box    // bounding box
}

// Polygon2D returns an SDF2 made from a closed set of line segments.
// The polygon is closed automatically if the last vertex does not
// match the first.
func Polygon2D(vertex []r2.Vec) (SDF2, error) {
	n := len(vertex)
	if n < 3 {
		return nil, errors.New("polygon needs at least 3 vertices")
	}
	s := polygon2{}
	s.vertex = append(s.vertex, vertex...)
	if !d2.EqualWithin(vertex[0], vertex[n-1], tolerance) {
		s.vertex = append(s.vertex, vertex[0])
	}

	nsegs := len(s.vertex) - 1
	s.vector = make([]r2.Vec, nsegs)
	s.length = make([]float64, nsegs)
	vmin := s.vertex[0]
	vmax := s.vertex[0]
	for i := 0; i < nsegs; i++ {
		l := r2.Sub(s.vertex[i+1], s.vertex[i])
		s.length[i] = r2.Norm(l)
		if s.length[i] < tolerance {
			return nil, errors.New("polygon has repeated vertices")
		}
		s.vector[i] = r2.Unit(l)
		vmin = d2.MinElem(vmin, s.vertex[i])
		vmax = d2.MaxElem(vmax, s.vertex[i])
	}
	s.bb = r2.Box{Min: vmin, Max: vmax}
	return &s, nil
}

// Evaluate returns the minimum distance for a 2d polygon.
func (s *polygon2) Evaluate(p r2.Vec) float64 {
	dd := math.MaxFloat64 // d^2 to polygon (>0)
	wn := 0               // winding number (inside/outside)

	nsegs := len(s.vertex) - 1
	pb := r2.Sub(p, s.vertex[0])
	for i := 0; i < nsegs; i++ {
		a := s.vertex[i]
		b := s.vertex[i+1]

		pa := pb
		pb = r2.Sub(p, b)

		t := r2.Dot(pa, s.vector[i])                                  // t-parameter of projection onto line
		dn := r2.Dot(pa, r2.Vec{X: s.vector[i].Y, Y: -s.vector[i].X}) // normal distance from p to line

		// Distance to line segment
		if t < 0 {
			dd = math.Min(dd, r2.Norm2(pa))
		} else if t > s.length[i] {
			dd = math.Min(dd, r2.Norm2(pb))
		} else {
			dd = math.Min(dd, dn*dn)
		}

		// Is the point in the polygon?
		// See: http://geomalgorithms.com/a03-_inclusion.html
		if a.Y <= p.Y {
			if b.Y > p.Y && dn < 0 {
				wn++ // upward crossing, p left of segment.
			}
		} else if b.Y <= p.Y && dn > 0 {
			wn-- // downward crossing, p right of segment.
		}
	}

	d := math.Sqrt(dd)
	if wn != 0 {
		return -d
	}
	return d
}

// Bounds returns the bounding box of a 2d polygon.
func (s *polygon2) Bounds() r2.Box {
	return s.bb
}

func sdfBox3d(p, s r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), s)
	if d.X > 0 && d.Y > 0 && d.Z > 0 {
		return r3.Norm(d)
	}
	if d.X > 0 && d.Y > 0 {
		return math.Hypot(d.X, d.Y)
	}
	if d.X > 0 && d.Z > 0 {
		return math.Hypot(d.X, d.Z)
	}
	if d.Y > 0 && d.Z > 0 {
		return math.Hypot(d.Y, d.Z)
	}
	if d.X > 0 {
		return d.X
	}
	if d.Y > 0 {
		return d.Y
	}
	if d.Z > 0 {
		return d.Z
	}
	return d3.Max(d)
}

func sdfBox2d(p, s r2.Vec) float64 {
	p = d2.AbsElem(p)
	d := r2.Sub(p, s)
	if d.X > 0 && d.Y > 0 {
		return r2.Norm(d)
	}
	return math.Max(d.X, d.Y)
}
