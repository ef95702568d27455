package render

import (
	"math"

	"github.com/soypat/pcbbox/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams the triangles of a surface mesh. ReadTriangles
// returns io.EOF once the mesh is exhausted.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle. Vertices are ordered counter clockwise
// when viewed from outside the solid.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two of the triangle's vertices are within tol
// of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// Bounds returns the bounding box of a set of triangles.
func Bounds(model []Triangle3) r3.Box {
	if len(model) == 0 {
		return r3.Box{}
	}
	bb := d3.Box{Min: model[0].V[0], Max: model[0].V[0]}
	for _, t := range model {
		for _, v := range t.V {
			bb = bb.Include(v)
		}
	}
	return r3.Box(bb)
}

// Area returns the total surface area of the triangles.
func Area(model []Triangle3) float64 {
	var a float64
	for _, t := range model {
		a += 0.5 * r3.Norm(r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0])))
	}
	return a
}

// Volume returns the signed volume enclosed by a closed, outward facing mesh.
func Volume(model []Triangle3) float64 {
	var v float64
	for _, t := range model {
		v += r3.Dot(t.V[0], r3.Cross(t.V[1], t.V[2]))
	}
	return v / 6
}

func isBad(v r3.Vec) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) ||
		math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0)
}
