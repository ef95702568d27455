// Package drawing produces 2D documentation of an enclosure layout: DXF
// outlines for machining or checking a print, a PDF dimension sheet and
// per face hole plots.
package drawing

import (
	"github.com/soypat/pcbbox"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind classifies a drawn feature.
type Kind string

const (
	KindVent   Kind = "vent"
	KindPost   Kind = "post"
	KindDrill  Kind = "drill"
	KindBolt   Kind = "bolt"
	KindHead   Kind = "head"
	KindSlot   Kind = "slot"
	KindCutout Kind = "cutout"
)

// Feature is a hole, post or opening in plan view. Round features store
// their diameter in Size.X.
type Feature struct {
	Kind   Kind
	Center r2.Vec
	Size   r2.Vec
	Round  bool
}

// Radius returns the radius of a round feature.
func (f Feature) Radius() float64 { return f.Size.X / 2 }

const parallelTol = 1e-9

// FaceFeatures returns the features visible on a face, in the face's own
// coordinates. Vent grids drilled from the opposite face and through
// cutouts show up on every parallel face. Posts are drawn on the
// horizontal faces.
func FaceFeatures(l pcbbox.Layout, face pcbbox.Face) ([]Feature, error) {
	frame, err := l.Face(face)
	if err != nil {
		return nil, err
	}
	project := func(g r3.Vec) r2.Vec {
		d := r3.Sub(g, frame.Center)
		return r2.Vec{X: r3.Dot(d, frame.XDir), Y: r3.Dot(d, frame.YDir)}
	}
	var feats []Feature
	for _, perf := range l.Perforations() {
		pf, err := l.Face(perf.Face)
		if err != nil {
			return nil, err
		}
		if !parallel(pf.Normal, frame.Normal) {
			continue
		}
		for _, h := range perf.Holes() {
			feats = append(feats, Feature{
				Kind:   KindVent,
				Center: project(pf.Global(h, 0)),
				Size:   r2.Vec{X: perf.Diameter, Y: perf.Diameter},
				Round:  true,
			})
		}
	}
	if !face.IsSide() {
		for _, p := range l.Posts {
			c := project(r3.Vec{X: p.X, Y: p.Y})
			d := 2 * l.PostRadius
			feats = append(feats,
				Feature{Kind: KindPost, Center: c, Size: r2.Vec{X: d, Y: d}, Round: true},
				Feature{Kind: KindDrill, Center: c, Size: r2.Vec{X: l.BoltHole, Y: l.BoltHole}, Round: true},
			)
		}
	}
	for _, c := range l.Cutouts() {
		cf, err := l.Face(c.Face)
		if err != nil {
			return nil, err
		}
		if c.Face != face && !(c.Through && parallel(cf.Normal, frame.Normal)) {
			continue
		}
		feats = append(feats, Feature{
			Kind:   KindCutout,
			Center: project(cf.Global(c.Center, 0)),
			Size:   c.Cut,
			Round:  c.Round(),
		})
	}
	return feats, nil
}

// LidFeatures returns the lid holes and mounting slots in the lid's print
// coordinates.
func LidFeatures(l pcbbox.Layout) []Feature {
	var feats []Feature
	for _, h := range l.LidHoles {
		feats = append(feats, Feature{Kind: KindBolt, Center: h, Size: r2.Vec{X: l.BoltHole, Y: l.BoltHole}, Round: true})
		if l.Params.LidBolt.Head {
			feats = append(feats, Feature{Kind: KindHead, Center: h, Size: r2.Vec{X: l.HeadHole, Y: l.HeadHole}, Round: true})
		}
	}
	for _, s := range l.MountSlots {
		feats = append(feats, Feature{Kind: KindSlot, Center: s, Size: l.SlotSize})
	}
	return feats
}

// FaceSize returns the extent of a face in its own coordinates.
func FaceSize(l pcbbox.Layout, face pcbbox.Face) r2.Vec {
	switch face {
	case pcbbox.FaceXPos, pcbbox.FaceXNeg:
		return r2.Vec{X: l.Width, Y: l.Depth}
	case pcbbox.FaceYPos, pcbbox.FaceYNeg:
		return r2.Vec{X: l.Length, Y: l.Depth}
	}
	return r2.Vec{X: l.Length, Y: l.Width}
}

func parallel(a, b r3.Vec) bool {
	return r3.Norm(r3.Cross(a, b)) < parallelTol
}

func count(feats []Feature, kind Kind) (n int) {
	for _, f := range feats {
		if f.Kind == kind {
			n++
		}
	}
	return n
}
