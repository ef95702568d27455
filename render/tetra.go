package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// marchingTetraMaxTriangles is the most triangles a single cube can produce:
// six tetrahedra with at most two triangles each.
const marchingTetraMaxTriangles = 12

// cubeTetrahedra splits a cube into six tetrahedra sharing the 0-6 diagonal.
// Neighbouring cubes split their shared faces along the same diagonal so the
// resulting mesh is watertight.
var cubeTetrahedra = [6][4]int{
	{0, 6, 1, 2},
	{0, 6, 2, 3},
	{0, 6, 3, 7},
	{0, 6, 7, 4},
	{0, 6, 4, 5},
	{0, 6, 5, 1},
}

// mtToTriangles writes the zero isosurface of a cube to dst and returns
// the number of triangles written. dst must have room for
// marchingTetraMaxTriangles triangles.
func mtToTriangles(dst []Triangle3, p *[8]r3.Vec, v *[8]float64) int {
	n := 0
	for _, tet := range cubeTetrahedra {
		n += tetraToTriangles(dst[n:], p, v, tet)
	}
	return n
}

func tetraToTriangles(dst []Triangle3, p *[8]r3.Vec, v *[8]float64, tet [4]int) int {
	var in, out [4]int
	var nin, nout int
	for _, i := range tet {
		if v[i] < 0 {
			in[nin] = i
			nin++
		} else {
			out[nout] = i
			nout++
		}
	}
	if nin == 0 || nout == 0 {
		return 0
	}
	// Outward direction, from the inside centroid to the outside centroid.
	var cin, cout r3.Vec
	for _, i := range in[:nin] {
		cin = r3.Add(cin, p[i])
	}
	for _, i := range out[:nout] {
		cout = r3.Add(cout, p[i])
	}
	dir := r3.Sub(r3.Scale(1/float64(nout), cout), r3.Scale(1/float64(nin), cin))
	n := 0
	emit := func(a, b, c r3.Vec) {
		normal := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		if r3.Norm2(normal) < 1e-24 {
			return // zero area, vertices sit on a corner or are collinear.
		}
		t := Triangle3{V: [3]r3.Vec{a, b, c}}
		if r3.Dot(normal, dir) < 0 {
			t.V[1], t.V[2] = t.V[2], t.V[1]
		}
		dst[n] = t
		n++
	}
	switch nin {
	case 1:
		a := in[0]
		emit(zeroCross(p, v, a, out[0]), zeroCross(p, v, a, out[1]), zeroCross(p, v, a, out[2]))
	case 3:
		a := out[0]
		emit(zeroCross(p, v, in[0], a), zeroCross(p, v, in[1], a), zeroCross(p, v, in[2], a))
	case 2:
		ac := zeroCross(p, v, in[0], out[0])
		ad := zeroCross(p, v, in[0], out[1])
		bd := zeroCross(p, v, in[1], out[1])
		bc := zeroCross(p, v, in[1], out[0])
		emit(ac, ad, bd)
		emit(ac, bd, bc)
	}
	return n
}

// zeroCross interpolates the zero crossing on the edge between corners i and j,
// which must have distances of differing sign.
func zeroCross(p *[8]r3.Vec, v *[8]float64, i, j int) r3.Vec {
	t := v[i] / (v[i] - v[j])
	return r3.Add(p[i], r3.Scale(t, r3.Sub(p[j], p[i])))
}
