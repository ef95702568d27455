package pcbbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const delta = 1e-9

func defaultLayout(t *testing.T) Layout {
	t.Helper()
	l, err := Derive(DefaultParams())
	require.NoError(t, err)
	return l
}

func TestDeriveDimensions(t *testing.T) {
	l := defaultLayout(t)
	assert.InDelta(t, 3, l.AuxX, delta)
	assert.InDelta(t, 3, l.AuxY, delta)
	assert.InDelta(t, 6.5, l.XPadding, delta)
	assert.InDelta(t, 6.5, l.YPadding, delta)
	assert.InDelta(t, 54, l.Length, delta)
	assert.InDelta(t, 40, l.Width, delta)
	assert.InDelta(t, 24, l.Depth, delta)
	assert.InDelta(t, 50, l.InnerLength, delta)
	assert.InDelta(t, 36, l.InnerWidth, delta)
	assert.InDelta(t, 7.5, l.XForbidden, delta)
	assert.InDelta(t, 7.5, l.YForbidden, delta)
	assert.InDelta(t, 7.1, l.ZForbidden, delta)
	assert.InDelta(t, 0.3, l.GridDensity, delta)
	assert.InDelta(t, 1.5, l.RoundingRadius, delta)
	assert.InDelta(t, 14.9, l.PostLength, delta)
	assert.InDelta(t, 3, l.PostRadius, delta)
	assert.InDelta(t, 44, l.AssemblyOffset, delta)
	assert.Empty(t, l.Adjustments)

	assert.InDelta(t, 3, l.LidThickness, delta)
	assert.InDelta(t, 4.5, l.RimHeight, delta)
	assert.InDelta(t, 50, l.RimOuter.X, delta)
	assert.InDelta(t, 36, l.RimOuter.Y, delta)
	assert.InDelta(t, 41.4, l.RimInner.X, delta)
	assert.InDelta(t, 27.4, l.RimInner.Y, delta)
	assert.InDelta(t, 20, l.MountTabWidth, delta)
	require.Len(t, l.MountSlots, 2)
	assert.InDelta(t, 32.2, l.MountSlots[0].X, delta)
	assert.InDelta(t, -32.2, l.MountSlots[1].X, delta)
	assert.InDelta(t, 12, l.SlotSize.Y, delta)
}

func TestDeriveInvalid(t *testing.T) {
	p := DefaultParams()
	p.Box.PCBLength = -1
	_, err := Derive(p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestDeriveClamps(t *testing.T) {
	p := DefaultParams()
	p.Perforation.GridDensity = 0.9
	p.Box.RoundingRadius = 3
	l, err := Derive(p)
	require.NoError(t, err)
	assert.InDelta(t, maxGridDensity, l.GridDensity, delta)
	assert.InDelta(t, 1.99, l.RoundingRadius, delta)
	assert.Len(t, l.Adjustments, 2)

	// The lower bound pitch spans the whole perforable height.
	p.Perforation.GridDensity = 0.01
	l, err = Derive(p)
	require.NoError(t, err)
	assert.InDelta(t, 2/14.9, l.GridDensity, delta)
	d, _, _ := l.GridParams(1, 1)
	assert.InDelta(t, 14.9, d, 1e-6)

	// The upper clamp wins when the lower bound exceeds it.
	p.Box.InnerDepth = 10
	p.Perforation.VentHoleDiameter = 2.5
	l, err = Derive(p)
	require.NoError(t, err)
	assert.InDelta(t, maxGridDensity, l.GridDensity, delta)
}

func TestPosts(t *testing.T) {
	l := defaultLayout(t)
	assert.ElementsMatch(t, []r2.Vec{{X: 20.5, Y: 13.5}, {X: -20.5, Y: 13.5}, {X: -20.5, Y: -13.5}, {X: 20.5, Y: -13.5}}, l.Posts)

	p := DefaultParams()
	p.LidBolt.Count = 2
	l, err := Derive(p)
	require.NoError(t, err)
	assert.Equal(t, []r2.Vec{{X: 20.5, Y: 13.5}, {X: -20.5, Y: -13.5}}, l.Posts)
	assert.Equal(t, []r2.Vec{{X: 20.5, Y: -13.5}, {X: -20.5, Y: 13.5}}, l.LidHoles)

	p.LidBolt.Mirror = true
	l, err = Derive(p)
	require.NoError(t, err)
	assert.Equal(t, []r2.Vec{{X: 20.5, Y: -13.5}, {X: -20.5, Y: 13.5}}, l.Posts)
	assert.Equal(t, []r2.Vec{{X: 20.5, Y: 13.5}, {X: -20.5, Y: -13.5}}, l.LidHoles)
}

func TestGridParams(t *testing.T) {
	l := defaultLayout(t)
	d, lc, wc := l.GridParams(28.5, 14.9)
	assert.InDelta(t, 2/0.3, d, delta)
	assert.Equal(t, 4, lc)
	assert.Equal(t, 2, wc)
	_, lc, wc = l.GridParams(-3, 1)
	assert.Zero(t, lc)
	assert.Zero(t, wc)
}

func TestPerforationFor(t *testing.T) {
	l := defaultLayout(t)
	for _, test := range []struct {
		face           Face
		region         r2.Vec
		lCount, wCount int
	}{
		{FaceXPos, r2.Vec{X: 28.5, Y: 14.9}, 4, 2},
		{FaceYPos, r2.Vec{X: 35, Y: 14.9}, 5, 2},
		{FaceZPos, r2.Vec{X: 35, Y: 28.5}, 5, 4},
	} {
		perf, err := l.PerforationFor(test.face)
		require.NoError(t, err)
		assert.InDelta(t, test.region.X, perf.Region.X, delta, test.face)
		assert.InDelta(t, test.region.Y, perf.Region.Y, delta, test.face)
		assert.Equal(t, test.lCount, perf.LCount, test.face)
		assert.Equal(t, test.wCount, perf.WCount, test.face)
		assert.True(t, perf.Stagger)
		assert.Len(t, perf.Holes(), test.lCount*test.wCount+(test.lCount-1)*(test.wCount-1))
	}
	for _, face := range []Face{FaceXNeg, FaceYNeg, FaceZNeg, "sideways"} {
		_, err := l.PerforationFor(face)
		assert.ErrorIs(t, err, ErrUnknownFace, face)
	}
	// Defaults perforate >X and >Z only.
	perfs := l.Perforations()
	require.Len(t, perfs, 2)
	assert.Equal(t, FaceXPos, perfs[0].Face)
	assert.Equal(t, FaceZPos, perfs[1].Face)
}

func TestPerforationHolesCentered(t *testing.T) {
	perf := Perforation{Distance: 2, LCount: 3, WCount: 2, Stagger: true}
	holes := perf.Holes()
	assert.ElementsMatch(t, []r2.Vec{
		{X: -2, Y: -1}, {X: -2, Y: 1}, {X: 0, Y: -1}, {X: 0, Y: 1}, {X: 2, Y: -1}, {X: 2, Y: 1},
		{X: -1, Y: 0}, {X: 1, Y: 0},
	}, holes)
}

func TestFaceFrames(t *testing.T) {
	l := defaultLayout(t)
	for _, test := range []struct {
		face       Face
		center     r3.Vec
		xdir, ydir r3.Vec
	}{
		{FaceXPos, r3.Vec{X: 27, Z: 12}, r3.Vec{Y: 1}, r3.Vec{Z: 1}},
		{FaceXNeg, r3.Vec{X: -27, Z: 12}, r3.Vec{Y: -1}, r3.Vec{Z: 1}},
		{FaceYPos, r3.Vec{Y: 20, Z: 12}, r3.Vec{X: -1}, r3.Vec{Z: 1}},
		{FaceYNeg, r3.Vec{Y: -20, Z: 12}, r3.Vec{X: 1}, r3.Vec{Z: 1}},
		{FaceZPos, r3.Vec{Z: 24}, r3.Vec{X: 1}, r3.Vec{Y: 1}},
		{FaceZNeg, r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: -1}},
	} {
		f, err := l.Face(test.face)
		require.NoError(t, err)
		assert.Equal(t, test.center, f.Center, test.face)
		assert.Equal(t, test.xdir, f.XDir, test.face)
		assert.Equal(t, test.ydir, f.YDir, test.face)
		// The matrix and Global agree.
		local := r2.Vec{X: 1.5, Y: -2}
		got := f.Matrix().MulPosition(r3.Vec{X: local.X, Y: local.Y, Z: 0.25})
		want := f.Global(local, 0.25)
		assert.InDelta(t, want.X, got.X, delta)
		assert.InDelta(t, want.Y, got.Y, delta)
		assert.InDelta(t, want.Z, got.Z, delta)
	}
	_, err := l.Face("^Q")
	assert.ErrorIs(t, err, ErrUnknownFace)
	_, err = ParseFace("<Y")
	assert.NoError(t, err)
}

func TestSideFaceIgnoresTopRounding(t *testing.T) {
	rounded := defaultLayout(t)
	require.True(t, rounded.Params.Box.RoundTopEdges)
	p := DefaultParams()
	p.Box.RoundTopEdges = false
	sharp, err := Derive(p)
	require.NoError(t, err)
	for _, face := range []Face{FaceXPos, FaceYNeg} {
		fr, err := rounded.Face(face)
		require.NoError(t, err)
		fs, err := sharp.Face(face)
		require.NoError(t, err)
		assert.Equal(t, fs.Center, fr.Center, face)
		assert.InDelta(t, 12, fr.Center.Z, delta, face)
	}
	// The connector sits from_pcb above the board whatever the rounding.
	frame, err := rounded.Face(FaceYPos)
	require.NoError(t, err)
	c := rounded.Cutouts()[0]
	b := p.Box
	board := rounded.Depth - b.PCBLidDist - b.GapZ - b.PCBThick
	assert.InDelta(t, board-p.Rectangular.FromPCB, frame.Global(c.Center, 0).Z, delta)
}

func TestCutouts(t *testing.T) {
	l := defaultLayout(t)
	cuts := l.Cutouts()
	require.Len(t, cuts, 2)

	rect := cuts[0]
	assert.Equal(t, CutoutRectangular, rect.Kind)
	assert.Equal(t, FaceYPos, rect.Face)
	assert.InDelta(t, -12, rect.Center.X, delta)
	assert.InDelta(t, 3.4, rect.Center.Y, delta)
	assert.Equal(t, r2.Vec{X: 8, Y: 3.5}, rect.Cut)
	assert.Equal(t, r2.Vec{X: 12, Y: 7.5}, rect.Boss)
	assert.False(t, rect.Round())

	sensor := cuts[1]
	assert.Equal(t, CutoutSensor, sensor.Kind)
	assert.True(t, sensor.Through)
	assert.InDelta(t, 14, sensor.Center.X, delta)
	assert.InDelta(t, -9, sensor.Center.Y, delta)

	p := DefaultParams()
	p.Circular.Enabled = true
	p.Circular.Face = FaceXNeg
	l, err := Derive(p)
	require.NoError(t, err)
	circ := l.Cutouts()[0]
	assert.Equal(t, CutoutCircular, circ.Kind)
	// X faces run along the width and use the y gap.
	assert.InDelta(t, 18-1-10, circ.Center.X, delta)
	assert.InDelta(t, 12-(3+1.6+0.5+5), circ.Center.Y, delta)
	assert.InDelta(t, 6, circ.Cut.X, delta)
	assert.InDelta(t, 10, circ.Boss.X, delta)
}

func TestCutoutsUnevenGaps(t *testing.T) {
	p := DefaultParams()
	p.Box.GapX = 3
	p.Box.GapY = 0.5
	p.Circular.Enabled = true
	p.Circular.Face = FaceXPos
	l, err := Derive(p)
	require.NoError(t, err)
	require.InDelta(t, 54, l.InnerLength, delta)
	require.InDelta(t, 35, l.InnerWidth, delta)
	cuts := l.Cutouts()
	require.Len(t, cuts, 3)

	// Offsets are measured from the board corner, so the gap along the
	// face cancels the wider cavity: 17.5-0.5-10 and -27+3+12.
	circ, rect, sensor := cuts[0], cuts[1], cuts[2]
	assert.Equal(t, CutoutCircular, circ.Kind)
	assert.InDelta(t, 7, circ.Center.X, delta)
	assert.Equal(t, CutoutRectangular, rect.Kind)
	assert.Equal(t, FaceYPos, rect.Face)
	assert.InDelta(t, -12, rect.Center.X, delta)
	assert.InDelta(t, 14, sensor.Center.X, delta)
	assert.InDelta(t, -9, sensor.Center.Y, delta)
}

func TestHoleCompensation(t *testing.T) {
	p := DefaultParams()
	p.Material = Material{Name: "PLA", CompensateHoles: true}
	l, err := Derive(p)
	require.NoError(t, err)
	assert.InDelta(t, 2.5*1.002+0.45, l.BoltHole, delta)
	assert.InDelta(t, 5*1.002+0.45, l.SensorHole, delta)
	assert.NotEmpty(t, l.Adjustments)
	// Grid pitch keeps using the nominal vent diameter.
	d, _, _ := l.GridParams(10, 10)
	assert.InDelta(t, 2/0.3, d, delta)
}
