package d2

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// NewBox creates a 2d box with a given center and size.
func NewBox(center, size r2.Vec) Box {
	half := r2.Scale(0.5, size)
	return Box{r2.Sub(center, half), r2.Add(center, half)}
}

// Extend returns a box enclosing two 2d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Translate translates a 2d box.
func (a Box) Translate(v r2.Vec) Box {
	return Box{r2.Add(a.Min, v), r2.Add(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Center returns the center of a 2d box.
func (a Box) Center() r2.Vec {
	return r2.Add(a.Min, r2.Scale(0.5, a.Size()))
}

// Vertices returns a slice of 2d box corner vertices.
func (a Box) Vertices() Set {
	v := make([]r2.Vec, 4)
	v[0] = a.Min                          // bl
	v[1] = r2.Vec{X: a.Max.X, Y: a.Min.Y} // br
	v[2] = r2.Vec{X: a.Min.X, Y: a.Max.Y} // tl
	v[3] = a.Max                          // tr
	return v
}
