package pcbbox

import (
	"fmt"

	"github.com/soypat/pcbbox/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Face selects a planar face of the box by the direction of its outward
// normal: ">X" is the face with greatest x.
type Face string

const (
	FaceXPos Face = ">X"
	FaceXNeg Face = "<X"
	FaceYPos Face = ">Y"
	FaceYNeg Face = "<Y"
	// FaceZPos is the open rim of the box. Holes drilled from it go
	// through the floor.
	FaceZPos Face = ">Z"
	// FaceZNeg is the outside of the floor.
	FaceZNeg Face = "<Z"
)

// ParseFace parses a face selector.
func ParseFace(s string) (Face, error) {
	f := Face(s)
	switch f {
	case FaceXPos, FaceXNeg, FaceYPos, FaceYNeg, FaceZPos, FaceZNeg:
		return f, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFace, s)
}

// IsSide reports whether f is one of the four vertical walls.
func (f Face) IsSide() bool {
	switch f {
	case FaceXPos, FaceXNeg, FaceYPos, FaceYNeg:
		return true
	}
	return false
}

// alongY reports whether the face lies in an XZ plane, so its horizontal
// axis runs along the box length.
func (f Face) alongY() bool { return f == FaceYPos || f == FaceYNeg }

// FaceFrame is the workplane of a face: an origin at the center of the
// face's bounding box, the outward normal and the in-plane axes.
// Local -z always points into the part.
type FaceFrame struct {
	Face   Face   `yaml:"face"`
	Center r3.Vec `yaml:"center"`
	Normal r3.Vec `yaml:"normal"`
	XDir   r3.Vec `yaml:"x_dir"`
	YDir   r3.Vec `yaml:"y_dir"`
}

// Global converts a point in face coordinates to box coordinates.
// z is measured along the outward normal.
func (f FaceFrame) Global(local r2.Vec, z float64) r3.Vec {
	p := r3.Add(f.Center, r3.Scale(local.X, f.XDir))
	p = r3.Add(p, r3.Scale(local.Y, f.YDir))
	return r3.Add(p, r3.Scale(z, f.Normal))
}

// Matrix returns the transform from face coordinates to box coordinates.
func (f FaceFrame) Matrix() sdf.M44 {
	return sdf.Basis3D(f.Center, f.XDir, f.YDir, f.Normal)
}

// Face returns the workplane frame of a box face. Side faces keep their
// local y axis pointing up (+Z) and take x as Z cross normal. Horizontal
// faces keep x along +X.
func (l Layout) Face(face Face) (FaceFrame, error) {
	var (
		center r3.Vec
		normal r3.Vec
	)
	mid := l.Depth / 2
	switch face {
	case FaceXPos:
		center, normal = r3.Vec{X: l.Length / 2, Z: mid}, r3.Vec{X: 1}
	case FaceXNeg:
		center, normal = r3.Vec{X: -l.Length / 2, Z: mid}, r3.Vec{X: -1}
	case FaceYPos:
		center, normal = r3.Vec{Y: l.Width / 2, Z: mid}, r3.Vec{Y: 1}
	case FaceYNeg:
		center, normal = r3.Vec{Y: -l.Width / 2, Z: mid}, r3.Vec{Y: -1}
	case FaceZPos:
		center, normal = r3.Vec{Z: l.Depth}, r3.Vec{Z: 1}
	case FaceZNeg:
		center, normal = r3.Vec{}, r3.Vec{Z: -1}
	default:
		return FaceFrame{}, fmt.Errorf("%w %q", ErrUnknownFace, string(face))
	}
	xdir := r3.Cross(r3.Vec{Z: 1}, normal)
	if r3.Norm(xdir) < 0.5 {
		xdir = r3.Vec{X: 1}
	}
	return FaceFrame{
		Face:   face,
		Center: center,
		Normal: normal,
		XDir:   xdir,
		YDir:   r3.Cross(normal, xdir),
	}, nil
}
