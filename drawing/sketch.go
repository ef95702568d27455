package drawing

import (
	"math"

	"github.com/soypat/pcbbox"
	"gonum.org/v1/gonum/spatial/r2"
)

// Layer names shared by the DXF and PDF output.
const (
	LayerOutline = "OUTLINE"
	LayerCavity  = "CAVITY"
	LayerVents   = "VENTS"
	LayerPosts   = "POSTS"
	LayerHoles   = "HOLES"
	LayerCutouts = "CUTOUTS"
)

// pen is a 2D drawing backend. Angles are in degrees, counter clockwise
// from +x.
type pen interface {
	layer(name string)
	line(a, b r2.Vec)
	arc(c r2.Vec, r, start, end float64)
	circle(c r2.Vec, r float64)
}

// roundedRect draws a w x h rectangle centered on c with corner radius r.
func roundedRect(p pen, c, size r2.Vec, r float64) {
	hx, hy := size.X/2, size.Y/2
	r = math.Min(r, math.Min(hx, hy))
	pt := func(x, y float64) r2.Vec { return r2.Add(c, r2.Vec{X: x, Y: y}) }
	p.line(pt(-hx+r, -hy), pt(hx-r, -hy))
	p.line(pt(hx, -hy+r), pt(hx, hy-r))
	p.line(pt(hx-r, hy), pt(-hx+r, hy))
	p.line(pt(-hx, hy-r), pt(-hx, -hy+r))
	if r <= 0 {
		return
	}
	p.arc(pt(hx-r, -hy+r), r, 270, 360)
	p.arc(pt(hx-r, hy-r), r, 0, 90)
	p.arc(pt(-hx+r, hy-r), r, 90, 180)
	p.arc(pt(-hx+r, -hy+r), r, 180, 270)
}

// drawFeatures draws features translated by off, each on its layer.
func drawFeatures(p pen, feats []Feature, off r2.Vec) {
	for _, f := range feats {
		p.layer(featureLayer(f.Kind))
		c := r2.Add(off, f.Center)
		if f.Round {
			p.circle(c, f.Radius())
			continue
		}
		roundedRect(p, c, f.Size, 0)
	}
}

func featureLayer(k Kind) string {
	switch k {
	case KindVent:
		return LayerVents
	case KindPost, KindDrill:
		return LayerPosts
	case KindCutout:
		return LayerCutouts
	}
	return LayerHoles
}

// sheetRadius is the rounding of the vertical box edges in plan view.
func sheetRadius(l pcbbox.Layout) float64 {
	if l.Params.Box.RoundVerticalEdges {
		return l.RoundingRadius
	}
	return 0
}

// drawFloor draws the box in plan view seen from the rim: outline,
// cavity, floor vents, posts and floor cutouts.
func drawFloor(p pen, l pcbbox.Layout, off r2.Vec) error {
	feats, err := FaceFeatures(l, pcbbox.FaceZPos)
	if err != nil {
		return err
	}
	p.layer(LayerOutline)
	roundedRect(p, off, r2.Vec{X: l.Length, Y: l.Width}, sheetRadius(l))
	p.layer(LayerCavity)
	roundedRect(p, off, r2.Vec{X: l.InnerLength, Y: l.InnerWidth}, 0)
	drawFeatures(p, feats, off)
	return nil
}

// drawLid draws the lid plate outline with its mounting tabs, the rim and
// the lid holes.
func drawLid(p pen, l pcbbox.Layout, off r2.Vec) {
	r := sheetRadius(l)
	p.layer(LayerOutline)
	hx, hy := l.Length/2, l.Width/2
	ht := l.MountTabWidth / 2
	if !l.Params.Mounting.Mounts || ht > hy-r {
		roundedRect(p, off, r2.Vec{X: l.Length, Y: l.Width}, r)
		if l.Params.Mounting.Mounts {
			roundedRect(p, off, r2.Vec{X: l.Length + l.MountTabWidth, Y: l.MountTabWidth}, 0)
		}
	} else {
		pt := func(x, y float64) r2.Vec { return r2.Add(off, r2.Vec{X: x, Y: y}) }
		tx := hx + ht
		p.line(pt(-hx+r, -hy), pt(hx-r, -hy))
		p.line(pt(hx, -hy+r), pt(hx, -ht))
		polylineOpen(p, pt(hx, -ht), pt(tx, -ht), pt(tx, ht), pt(hx, ht))
		p.line(pt(hx, ht), pt(hx, hy-r))
		p.line(pt(hx-r, hy), pt(-hx+r, hy))
		p.line(pt(-hx, hy-r), pt(-hx, ht))
		polylineOpen(p, pt(-hx, ht), pt(-tx, ht), pt(-tx, -ht), pt(-hx, -ht))
		p.line(pt(-hx, -ht), pt(-hx, -hy+r))
		if r > 0 {
			p.arc(pt(hx-r, -hy+r), r, 270, 360)
			p.arc(pt(hx-r, hy-r), r, 0, 90)
			p.arc(pt(-hx+r, hy-r), r, 90, 180)
			p.arc(pt(-hx+r, -hy+r), r, 180, 270)
		}
	}
	p.layer(LayerCavity)
	roundedRect(p, off, l.RimOuter, r)
	roundedRect(p, off, l.RimInner, 0)
	drawFeatures(p, LidFeatures(l), off)
}

func polylineOpen(p pen, pts ...r2.Vec) {
	for i := 1; i < len(pts); i++ {
		p.line(pts[i-1], pts[i])
	}
}
