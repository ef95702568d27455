package obj3

import (
	"errors"

	"github.com/soypat/pcbbox/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// holeClearance extends hole cutters past the surfaces they open.
const holeClearance = 0.5

// BoltHoleParams defines a bolt clearance hole drilled from z=0 upward.
type BoltHoleParams struct {
	Diameter float64
	Depth    float64
	// Counterbore for the bolt head. Zero HeadDiameter means a plain hole.
	HeadDiameter float64
	HeadDepth    float64
}

// BoltHole returns a cutting tool for a bolt hole. The entry face is the
// z=0 plane and the hole runs through to z=Depth, overshooting both ends.
func BoltHole(k BoltHoleParams) (sdf.SDF3, error) {
	if k.Diameter <= 0 || k.Depth <= 0 {
		return nil, errors.New("bolt hole dimensions must be positive")
	}
	shaft, err := sdf.Cylinder3D(k.Depth+2*holeClearance, k.Diameter/2, 0)
	if err != nil {
		return nil, err
	}
	s := sdf.Translate(shaft, r3.Vec{Z: k.Depth / 2})
	if k.HeadDiameter == 0 {
		return s, nil
	}
	switch {
	case k.HeadDiameter <= k.Diameter:
		return nil, errors.New("counterbore must be wider than the bolt hole")
	case k.HeadDepth <= 0 || k.HeadDepth > k.Depth:
		return nil, errors.New("counterbore depth must be within the hole depth")
	}
	cbore, err := sdf.Cylinder3D(k.HeadDepth+holeClearance, k.HeadDiameter/2, 0)
	if err != nil {
		return nil, err
	}
	cbore = sdf.Translate(cbore, r3.Vec{Z: (k.HeadDepth - holeClearance) / 2})
	return sdf.Union3D(s, cbore), nil
}
