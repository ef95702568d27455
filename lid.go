package pcbbox

import (
	"fmt"
	"math"

	"github.com/soypat/pcbbox/form3/obj3"
	"github.com/soypat/pcbbox/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// BuildLid returns the lid in its print orientation: the base plate on z=0
// with the locating rim on top. Flipped about the x axis it closes the box.
func BuildLid(l Layout) (sdf.SDF3, error) {
	if l.Length <= 0 {
		return nil, fmt.Errorf("%w: layout not derived", ErrInvalidParams)
	}
	b := l.Params.Box
	var r float64
	if b.RoundVerticalEdges {
		r = l.RoundingRadius
	}
	plate, err := lidPlate(l, r)
	if err != nil {
		return nil, fmt.Errorf("lid plate: %w", err)
	}
	lid := sdf.Translate(sdf.Extrude3D(plate, l.LidThickness), r3.Vec{Z: l.LidThickness / 2})

	rimOuter, err := sdf.Box2D(l.RimOuter, r)
	if err != nil {
		return nil, fmt.Errorf("lid rim: %w", err)
	}
	rimInner, err := sdf.Box2D(l.RimInner, fitRound(l.RimInner, r))
	if err != nil {
		return nil, fmt.Errorf("lid rim: %w", err)
	}
	rim := sdf.Extrude3D(sdf.Difference2D(rimOuter, rimInner), l.RimHeight)
	lid = sdf.Union3D(lid, sdf.Translate(rim, r3.Vec{Z: l.LidThickness + l.RimHeight/2}))

	holes, err := lidBoltHoles(l)
	if err != nil {
		return nil, fmt.Errorf("lid bolt holes: %w", err)
	}
	return sdf.Difference3D(lid, holes), nil
}

// lidPlate returns the 2D outline of the lid base, with slotted mounting
// tabs on both ends when mounts are enabled.
func lidPlate(l Layout, round float64) (sdf.SDF2, error) {
	body, err := sdf.Box2D(r2.Vec{X: l.Length, Y: l.Width}, round)
	if err != nil {
		return nil, err
	}
	if !l.Params.Mounting.Mounts {
		return body, nil
	}
	tabSize := r2.Vec{X: l.Length + l.MountTabWidth, Y: l.MountTabWidth}
	tabs, err := sdf.Box2D(tabSize, fitRound(tabSize, round))
	if err != nil {
		return nil, err
	}
	slot, err := sdf.Box2D(l.SlotSize, fitRound(l.SlotSize, round))
	if err != nil {
		return nil, err
	}
	slots := make([]sdf.SDF2, len(l.MountSlots))
	for i, c := range l.MountSlots {
		slots[i] = sdf.Translate2(slot, c)
	}
	plate := sdf.Union2D(body, tabs)
	if round > 0 {
		// Fillet where the tabs meet the body.
		plate.SetMin(sdf.PolyMin(round))
	}
	return sdf.Difference2D(plate, sdf.Union2D(slots...)), nil
}

// fitRound clamps a corner radius so it fits a rectangle of the given size.
func fitRound(size r2.Vec, round float64) float64 {
	return math.Min(round, 0.49*math.Min(size.X, size.Y))
}

// lidBoltHoles returns the bolt hole cutters, counterbored from the
// outside face (z=0) when the bolt has a head.
func lidBoltHoles(l Layout) (sdf.SDF3, error) {
	k := obj3.BoltHoleParams{
		Diameter: l.BoltHole,
		Depth:    l.LidThickness + l.RimHeight,
	}
	if l.Params.LidBolt.Head {
		k.HeadDiameter = l.HeadHole
		k.HeadDepth = l.LidThickness
	}
	tool, err := obj3.BoltHole(k)
	if err != nil {
		return nil, err
	}
	holes := make([]sdf.SDF3, len(l.LidHoles))
	for i, h := range l.LidHoles {
		holes[i] = sdf.Translate(tool, r3.Vec{X: h.X, Y: h.Y})
	}
	return sdf.Union3D(holes...), nil
}
