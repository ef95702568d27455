package pcbbox

import (
	"testing"

	"github.com/soypat/pcbbox/sdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func inside(t *testing.T, s sdf.SDF3, p r3.Vec, msg string) {
	t.Helper()
	assert.Negative(t, s.Evaluate(p), "%s at %v should be solid", msg, p)
}

func outside(t *testing.T, s sdf.SDF3, p r3.Vec, msg string) {
	t.Helper()
	assert.Positive(t, s.Evaluate(p), "%s at %v should be empty", msg, p)
}

func TestBuildBox(t *testing.T) {
	l := defaultLayout(t)
	box, err := BuildBox(l)
	require.NoError(t, err)

	bb := box.Bounds()
	assert.InDelta(t, 0, bb.Min.Z, 1e-6)
	assert.InDelta(t, 24, bb.Max.Z, 1e-6)
	assert.InDelta(t, 27, bb.Max.X, 1e-6)

	inside(t, box, r3.Vec{Z: 1}, "floor")
	outside(t, box, r3.Vec{Z: 12}, "cavity")
	outside(t, box, r3.Vec{Z: 25}, "above rim")
	inside(t, box, r3.Vec{X: 26, Z: 20}, "x wall")

	// Vent holes through the floor.
	top, err := l.PerforationFor(FaceZPos)
	require.NoError(t, err)
	hole := top.Holes()[0]
	outside(t, box, r3.Vec{X: hole.X, Y: hole.Y, Z: 1}, "floor vent")

	// Side perforation goes through both x walls. The staggered row
	// has a hole on the face center.
	outside(t, box, r3.Vec{X: 26, Z: 12}, ">X vent")
	outside(t, box, r3.Vec{X: -26, Z: 12}, "<X vent")

	// Screw posts, drilled from the top.
	post := l.Posts[0]
	inside(t, box, r3.Vec{X: post.X + 2, Y: post.Y, Z: 10}, "post")
	outside(t, box, r3.Vec{X: post.X, Y: post.Y, Z: 15}, "post drill")
	inside(t, box, r3.Vec{X: post.X, Y: post.Y, Z: 4}, "post below drill")

	// Rectangular connector on >Y, centered at local (-12, 3.4).
	outside(t, box, r3.Vec{X: 12, Y: 19, Z: 15.4}, "rectangular cutout")
	inside(t, box, r3.Vec{X: 7, Y: 19, Z: 15.4}, "rectangular boss")

	// Sensor hole at global (14, 9), through the floor.
	outside(t, box, r3.Vec{X: 14, Y: 9, Z: 1}, "sensor hole")
	inside(t, box, r3.Vec{X: 14 + 3.5, Y: 9, Z: 1}, "sensor boss")
}

func TestBuildBoxEdgeRounding(t *testing.T) {
	corner := r3.Vec{X: 26.9, Y: 19.9, Z: 12}
	floorEdge := r3.Vec{X: 26.9, Z: 0.1}
	for _, test := range []struct {
		vertical, top               bool
		cornerSolid, floorEdgeSolid bool
	}{
		{false, false, true, true},
		{true, false, false, true},
		{true, true, false, false},
		{false, true, true, false},
	} {
		p := DefaultParams()
		p.Box.RoundVerticalEdges = test.vertical
		p.Box.RoundTopEdges = test.top
		l, err := Derive(p)
		require.NoError(t, err)
		box, err := BuildBox(l)
		require.NoError(t, err)
		assert.Equal(t, test.cornerSolid, box.Evaluate(corner) < 0, "vertical=%v top=%v corner", test.vertical, test.top)
		assert.Equal(t, test.floorEdgeSolid, box.Evaluate(floorEdge) < 0, "vertical=%v top=%v floor edge", test.vertical, test.top)
		// The rim stays sharp.
		assert.Negative(t, box.Evaluate(r3.Vec{X: 26.9, Z: 23.9}))
	}
}

func TestBuildBoxCircularConnector(t *testing.T) {
	p := DefaultParams()
	p.Circular.Enabled = true
	p.Circular.Face = FaceXNeg
	p.Perforation.XSidePerforation = true
	l, err := Derive(p)
	require.NoError(t, err)
	box, err := BuildBox(l)
	require.NoError(t, err)
	frame, err := l.Face(FaceXNeg)
	require.NoError(t, err)
	c := l.Cutouts()[0]
	outside(t, box, frame.Global(c.Center, -1), "circular cutout")
	inside(t, box, frame.Global(r2.Add(c.Center, r2.Vec{X: 4}), -1), "circular boss")
}

func TestBuildLid(t *testing.T) {
	l := defaultLayout(t)
	lid, err := BuildLid(l)
	require.NoError(t, err)

	bb := lid.Bounds()
	assert.InDelta(t, 0, bb.Min.Z, 1e-6)
	assert.InDelta(t, 7.5, bb.Max.Z, 1e-6)
	assert.InDelta(t, 37, bb.Max.X, 1e-6)

	inside(t, lid, r3.Vec{Z: 1.5}, "plate")
	inside(t, lid, r3.Vec{X: 23, Z: 5}, "rim")
	outside(t, lid, r3.Vec{Z: 5}, "rim opening")
	inside(t, lid, r3.Vec{X: 36, Z: 1.5}, "mount tab")
	outside(t, lid, r3.Vec{X: 32.2, Z: 1.5}, "mount slot")
	outside(t, lid, r3.Vec{X: -32.2, Z: 1.5}, "mirrored mount slot")

	h := l.LidHoles[0]
	outside(t, lid, r3.Vec{X: h.X, Y: h.Y, Z: 1.5}, "lid bolt hole")
	outside(t, lid, r3.Vec{X: h.X + 2.5, Y: h.Y, Z: 1.5}, "counterbore")

	p := DefaultParams()
	p.Mounting.Mounts = false
	p.LidBolt.Head = false
	l, err = Derive(p)
	require.NoError(t, err)
	lid, err = BuildLid(l)
	require.NoError(t, err)
	outside(t, lid, r3.Vec{X: 36, Z: 1.5}, "no mount tab")
	inside(t, lid, r3.Vec{X: h.X + 2.5, Y: h.Y, Z: 1.5}, "plain hole edge")
}

func TestLidVerticalEdgesRounded(t *testing.T) {
	l := defaultLayout(t)
	lid, err := BuildLid(l)
	require.NoError(t, err)
	outside(t, lid, r3.Vec{X: 36.9, Y: 9.9, Z: 1.5}, "rounded tab corner")
	inside(t, lid, r3.Vec{X: 27.3, Y: 10.3, Z: 1.5}, "tab fillet")
	inside(t, lid, r3.Vec{X: 32.2 + 1.95, Y: 5.95, Z: 1.5}, "rounded slot end")

	// Two bolts leave two rim corners free of holes.
	p := DefaultParams()
	p.LidBolt.Count = 2
	rimCorners := func(p Params) (solid int) {
		l, err := Derive(p)
		require.NoError(t, err)
		lid, err := BuildLid(l)
		require.NoError(t, err)
		c := r2.Scale(0.5, l.RimInner)
		for _, sx := range []float64{-1, 1} {
			for _, sy := range []float64{-1, 1} {
				if lid.Evaluate(r3.Vec{X: sx * (c.X - 0.05), Y: sy * (c.Y - 0.05), Z: 5}) < 0 {
					solid++
				}
			}
		}
		return solid
	}
	assert.Equal(t, 2, rimCorners(p))
	p.Box.RoundVerticalEdges = false
	assert.Equal(t, 0, rimCorners(p))
}

func TestBuildAssembly(t *testing.T) {
	l := defaultLayout(t)
	asm, err := BuildAssembly(l)
	require.NoError(t, err)
	inside(t, asm, r3.Vec{Z: 1}, "box floor")
	inside(t, asm, r3.Vec{Y: l.AssemblyOffset, Z: 1.5}, "lid plate")
	assert.InDelta(t, l.AssemblyOffset+l.Width/2, asm.Bounds().Max.Y, 1e-6)

	_, err = BuildPart(l, "lamp")
	assert.Error(t, err)
	_, err = BuildBox(Layout{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestBuildBoxPostWebs(t *testing.T) {
	p := DefaultParams()
	plain, err := BuildBox(defaultLayout(t))
	require.NoError(t, err)
	p.Box.PostWebs = 4
	l, err := Derive(p)
	require.NoError(t, err)
	webbed, err := BuildBox(l)
	require.NoError(t, err)

	post := l.Posts[0]
	onWeb := r3.Vec{X: post.X + 3.8, Y: post.Y, Z: 2.5}
	betweenWebs := r3.Vec{X: post.X + 2.5, Y: post.Y + 2.5, Z: 2.5}
	outside(t, plain, onWeb, "no gusset")
	inside(t, webbed, onWeb, "gusset")
	outside(t, webbed, betweenWebs, "between gussets")
	// Gussets stay below half the post length.
	outside(t, webbed, r3.Vec{X: post.X + 3.8, Y: post.Y, Z: 12}, "above gusset")
}
