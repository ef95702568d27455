package obj3

import (
	"errors"
	"math"

	"github.com/soypat/pcbbox/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// PCB Standoffs, Mounting Pillars

// StandoffParams defines the parameters for a board standoff pillar.
type StandoffParams struct {
	PillarHeight   float64
	PillarDiameter float64
	HoleDepth      float64 // > 0 is a hole, < 0 is a support stub
	HoleDiameter   float64
	NumberWebs     int // number of triangular gussets around the standoff base
	WebHeight      float64
	WebDiameter    float64
	WebWidth       float64
}

// Standoff returns a single board standoff centered at the origin with its
// axis along z. Holes are open at the top of the pillar.
func Standoff(k StandoffParams) (s sdf.SDF3, err error) {
	switch {
	case k.PillarHeight <= 0 || k.PillarDiameter <= 0:
		return nil, errors.New("standoff pillar dimensions must be positive")
	case k.HoleDepth > k.PillarHeight:
		return nil, errors.New("standoff hole deeper than pillar")
	case k.HoleDiameter < 0 || (k.HoleDepth > 0 && k.HoleDiameter >= k.PillarDiameter):
		return nil, errors.New("standoff hole diameter must fit inside pillar")
	case k.NumberWebs < 0:
		return nil, errors.New("negative standoff web count")
	}
	s, err = pillar(k)
	if err != nil {
		return nil, err
	}
	if k.NumberWebs > 0 {
		web, err := pillarWeb(k)
		if err != nil {
			return nil, err
		}
		s = sdf.Union3D(s, sdf.RotateCopy3D(web, k.NumberWebs))
		// Webs taller than the pillar are trimmed flush with its top.
		cut, err := sdf.Cylinder3D(k.PillarHeight, 0.5*math.Max(k.WebDiameter, k.PillarDiameter), 0)
		if err != nil {
			return nil, err
		}
		s = sdf.Intersect3D(s, cut)
	}
	hole, err := pillarHole(k)
	if err != nil || hole == nil {
		return s, err
	}
	if k.HoleDepth > 0 {
		return sdf.Difference3D(s, hole), nil
	}
	return sdf.Union3D(s, hole), nil
}

// pillarWeb returns a single gusset standing in the xz plane on the +x side.
func pillarWeb(k StandoffParams) (sdf.SDF3, error) {
	if k.WebHeight <= 0 || k.WebWidth <= 0 || k.WebDiameter <= k.PillarDiameter {
		return nil, errors.New("standoff webs need positive height and width and a diameter wider than the pillar")
	}
	w, err := sdf.Polygon2D([]r2.Vec{
		{X: 0, Y: 0},
		{X: 0.5 * k.WebDiameter, Y: 0},
		{X: 0, Y: k.WebHeight},
	})
	if err != nil {
		return nil, err
	}
	m := sdf.Translate3D(r3.Vec{Z: -0.5 * k.PillarHeight}).Mul(sdf.RotateX(sdf.DtoR(90)))
	return sdf.Transform3D(sdf.Extrude3D(w, k.WebWidth), m), nil
}

func pillar(k StandoffParams) (sdf.SDF3, error) {
	return sdf.Cylinder3D(k.PillarHeight, 0.5*k.PillarDiameter, 0)
}

// pillarHole returns the screw hole or support stub, nil if there is none.
// Holes poke out of the pillar top by holeClearance.
func pillarHole(k StandoffParams) (sdf.SDF3, error) {
	if k.HoleDiameter == 0 || k.HoleDepth == 0 {
		return nil, nil
	}
	// Stubs sit on the pillar top.
	depth := -k.HoleDepth
	zOfs := 0.5 * (k.PillarHeight + depth)
	if k.HoleDepth > 0 {
		depth = k.HoleDepth + holeClearance
		zOfs = 0.5 * (k.PillarHeight + holeClearance - k.HoleDepth)
	}
	s, err := sdf.Cylinder3D(depth, 0.5*k.HoleDiameter, 0)
	if err != nil {
		return nil, err
	}
	return sdf.Translate(s, r3.Vec{Z: zOfs}), nil
}
