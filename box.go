package pcbbox

import (
	"fmt"
	"math"

	"github.com/soypat/pcbbox/form3/obj3"
	"github.com/soypat/pcbbox/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// clearance extends cutting tools past the surfaces they open so no
// zero thickness skin is left behind.
const clearance = 0.5

// BuildBox returns the box solid: the shell, vent perforation, screw posts
// and connector and sensor cutouts, applied in that order.
func BuildBox(l Layout) (sdf.SDF3, error) {
	if l.Length <= 0 {
		return nil, fmt.Errorf("%w: layout not derived", ErrInvalidParams)
	}
	box, err := shell(l)
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}
	for _, perf := range l.Perforations() {
		rods, err := perforationRods(l, perf)
		if err != nil {
			return nil, fmt.Errorf("%s perforation: %w", perf.Face, err)
		}
		box = sdf.Difference3D(box, rods)
	}
	box, err = screwPosts(l, box)
	if err != nil {
		return nil, fmt.Errorf("screw posts: %w", err)
	}
	for _, c := range l.Cutouts() {
		box, err = applyCutout(l, box, c)
		if err != nil {
			return nil, fmt.Errorf("%s cutout: %w", c.Kind, err)
		}
	}
	return box, nil
}

// shell returns the outer body minus the cavity.
func shell(l Layout) (sdf.SDF3, error) {
	b := l.Params.Box
	r := l.RoundingRadius
	var vr float64
	if b.RoundVerticalEdges {
		vr = r
	}
	profile, err := sdf.Box2D(r2.Vec{X: l.Length, Y: l.Width}, vr)
	if err != nil {
		return nil, err
	}
	var outer sdf.SDF3
	switch {
	case !b.RoundTopEdges:
		outer = sdf.Translate(sdf.Extrude3D(profile, l.Depth), r3.Vec{Z: l.Depth / 2})
	case b.RoundVerticalEdges:
		// A rounded extrusion of twice the depth is cut at the rim, leaving
		// only the floor edges rounded.
		core, err := sdf.Box2D(r2.Vec{X: l.Length - 2*r, Y: l.Width - 2*r}, 0)
		if err != nil {
			return nil, err
		}
		outer = sdf.Translate(sdf.ExtrudeRounded3D(core, 2*l.Depth, r), r3.Vec{Z: l.Depth})
		outer = sdf.Cut3D(outer, r3.Vec{Z: l.Depth}, r3.Vec{Z: -1})
	default:
		// Sharp vertical edges with rounded floor edges: intersect a prism
		// rounded in XZ with one rounded in YZ.
		xz, err := sdf.Box2D(r2.Vec{X: l.Length, Y: 2 * l.Depth}, r)
		if err != nil {
			return nil, err
		}
		yz, err := sdf.Box2D(r2.Vec{X: l.Width, Y: 2 * l.Depth}, r)
		if err != nil {
			return nil, err
		}
		origin := r3.Vec{Z: l.Depth}
		px := sdf.Transform3D(sdf.Extrude3D(xz, l.Width), sdf.Basis3D(origin, r3.Vec{X: 1}, r3.Vec{Z: 1}, r3.Vec{Y: -1}))
		py := sdf.Transform3D(sdf.Extrude3D(yz, l.Length), sdf.Basis3D(origin, r3.Vec{Y: 1}, r3.Vec{Z: 1}, r3.Vec{X: 1}))
		outer = sdf.Cut3D(sdf.Intersect3D(px, py), origin, r3.Vec{Z: -1})
	}
	// The cavity pokes past the rim so the top stays open.
	cavity, err := sdf.Box3D(r3.Vec{X: l.InnerLength, Y: l.InnerWidth, Z: b.InnerDepth + clearance}, 0)
	if err != nil {
		return nil, err
	}
	cavity = sdf.Translate(cavity, r3.Vec{Z: b.Wall + (b.InnerDepth+clearance)/2})
	return sdf.Difference3D(outer, cavity), nil
}

// perforationRods returns the vent hole cutters of a face. The rods run
// through the whole box along the face normal.
func perforationRods(l Layout, perf Perforation) (sdf.SDF3, error) {
	frame, err := l.Face(perf.Face)
	if err != nil {
		return nil, err
	}
	hole, err := sdf.Circle2D(perf.Diameter / 2)
	if err != nil {
		return nil, err
	}
	step := r2.Vec{X: perf.Distance, Y: perf.Distance}
	grid := []sdf.SDF2{sdf.Array2D(hole, sdf.V2i{perf.LCount, perf.WCount}, step)}
	if perf.Stagger {
		grid = append(grid, sdf.Array2D(hole, sdf.V2i{perf.LCount - 1, perf.WCount - 1}, step))
	}
	through := 2 * (math.Max(l.Length, math.Max(l.Width, l.Depth)) + clearance)
	rods := sdf.Extrude3D(sdf.Union2D(grid...), through)
	return sdf.Transform3D(rods, frame.Matrix()), nil
}

// screwPosts adds the posts that hold the PCB and the lid bolts. Each post
// rises from the floor and is drilled from its top for two thirds of its
// length. Posts get gussets at their base when box.post_webs is set.
func screwPosts(l Layout, box sdf.SDF3) (sdf.SDF3, error) {
	if len(l.Posts) == 0 {
		return box, nil
	}
	wall := l.Params.Box.Wall
	k := obj3.StandoffParams{
		PillarHeight:   l.PostLength,
		PillarDiameter: 2 * l.PostRadius,
		HoleDepth:      l.PostLength * 2 / 3,
		HoleDiameter:   l.BoltHole,
	}
	if webs := l.Params.Box.PostWebs; webs > 0 {
		// Gussets stop at the inner walls.
		p := l.Posts[0]
		reach := math.Min(l.InnerLength/2-math.Abs(p.X), l.InnerWidth/2-math.Abs(p.Y))
		if r := math.Min(2*l.PostRadius, reach); r > l.PostRadius {
			k.NumberWebs = webs
			k.WebDiameter = 2 * r
			k.WebHeight = l.PostLength / 2
			k.WebWidth = wall
		}
	}
	post, err := obj3.Standoff(k)
	if err != nil {
		return nil, err
	}
	posts := make([]sdf.SDF3, 0, len(l.Posts)+1)
	posts = append(posts, box)
	for _, p := range l.Posts {
		posts = append(posts, sdf.Translate(post, r3.Vec{X: p.X, Y: p.Y, Z: wall + l.PostLength/2}))
	}
	return sdf.Union3D(posts...), nil
}

// applyCutout restores the wall around a cutout with a boss and then cuts
// the opening. Both are built in face coordinates where -z points inward.
func applyCutout(l Layout, box sdf.SDF3, c Cutout) (sdf.SDF3, error) {
	frame, err := l.Face(c.Face)
	if err != nil {
		return nil, err
	}
	wall := l.Params.Box.Wall
	var boss, cut sdf.SDF2
	if c.Round() {
		boss, err = sdf.Circle2D(c.Boss.X / 2)
		if err == nil {
			cut, err = sdf.Circle2D(c.Cut.X / 2)
		}
	} else {
		boss, err = sdf.Box2D(c.Boss, 0)
		if err == nil {
			cut, err = sdf.Box2D(c.Cut, 0)
		}
	}
	if err != nil {
		return nil, err
	}
	place := func(s sdf.SDF3, z float64) sdf.SDF3 {
		m := frame.Matrix().Mul(sdf.Translate3D(r3.Vec{X: c.Center.X, Y: c.Center.Y, Z: z}))
		return sdf.Transform3D(s, m)
	}
	box = sdf.Union3D(box, place(sdf.Extrude3D(boss, wall), -wall/2))
	cutDepth := wall + 2*clearance
	if c.Through {
		cutDepth = 2 * (l.Depth + clearance)
	}
	// Shallow cuts stop just past the inner wall surface.
	return sdf.Difference3D(box, place(sdf.Extrude3D(cut, cutDepth), clearance-cutDepth/2)), nil
}
