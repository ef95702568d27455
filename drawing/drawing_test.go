package drawing

import (
	"bytes"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/pcbbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
	"gonum.org/v1/gonum/spatial/r2"
)

const delta = 1e-9

func defaultLayout(t *testing.T) pcbbox.Layout {
	t.Helper()
	l, err := pcbbox.Derive(pcbbox.DefaultParams())
	require.NoError(t, err)
	return l
}

func TestFloorFeatures(t *testing.T) {
	l := defaultLayout(t)
	feats, err := FaceFeatures(l, pcbbox.FaceZPos)
	require.NoError(t, err)

	perf, err := l.PerforationFor(pcbbox.FaceZPos)
	require.NoError(t, err)
	assert.Equal(t, len(perf.Holes()), count(feats, KindVent))
	assert.Equal(t, 4, count(feats, KindPost))
	assert.Equal(t, 4, count(feats, KindDrill))
	require.Equal(t, 1, count(feats, KindCutout))

	for _, f := range feats {
		if f.Kind != KindCutout {
			continue
		}
		// The sensor hole is placed from the floor whose y axis is flipped.
		assert.InDelta(t, 14, f.Center.X, delta)
		assert.InDelta(t, 9, f.Center.Y, delta)
		assert.True(t, f.Round)
		assert.InDelta(t, l.SensorHole, f.Size.X, delta)
	}
}

func TestSideFeatures(t *testing.T) {
	l := defaultLayout(t)
	xpos, err := FaceFeatures(l, pcbbox.FaceXPos)
	require.NoError(t, err)
	xneg, err := FaceFeatures(l, pcbbox.FaceXNeg)
	require.NoError(t, err)
	ypos, err := FaceFeatures(l, pcbbox.FaceYPos)
	require.NoError(t, err)

	// Side vents go through both walls.
	require.NotZero(t, count(xpos, KindVent))
	require.Equal(t, count(xpos, KindVent), count(xneg, KindVent))
	for i := range xpos {
		assert.InDelta(t, -xpos[i].Center.X, xneg[i].Center.X, delta)
		assert.InDelta(t, xpos[i].Center.Y, xneg[i].Center.Y, delta)
	}
	assert.Zero(t, count(xpos, KindPost))
	assert.Zero(t, count(xpos, KindCutout))

	// Y side perforation is off, the USB cutout is on >Y.
	assert.Zero(t, count(ypos, KindVent))
	require.Equal(t, 1, count(ypos, KindCutout))
	assert.False(t, ypos[0].Round)
	assert.InDelta(t, -12, ypos[0].Center.X, delta)
	assert.InDelta(t, 3.4, ypos[0].Center.Y, delta)
	assert.Equal(t, r2.Vec{X: 8, Y: 3.5}, ypos[0].Size)

	_, err = FaceFeatures(l, pcbbox.Face("top"))
	assert.ErrorIs(t, err, pcbbox.ErrUnknownFace)
}

func TestLidFeatures(t *testing.T) {
	l := defaultLayout(t)
	feats := LidFeatures(l)
	assert.Equal(t, 4, count(feats, KindBolt))
	assert.Equal(t, 4, count(feats, KindHead))
	assert.Equal(t, 2, count(feats, KindSlot))

	p := pcbbox.DefaultParams()
	p.LidBolt.Head = false
	p.Mounting.Mounts = false
	l, err := pcbbox.Derive(p)
	require.NoError(t, err)
	feats = LidFeatures(l)
	assert.Equal(t, 4, count(feats, KindBolt))
	assert.Zero(t, count(feats, KindHead))
	assert.Zero(t, count(feats, KindSlot))
}

func TestFaceSize(t *testing.T) {
	l := defaultLayout(t)
	assert.Equal(t, r2.Vec{X: 40, Y: 24}, FaceSize(l, pcbbox.FaceXNeg))
	assert.Equal(t, r2.Vec{X: 54, Y: 24}, FaceSize(l, pcbbox.FaceYPos))
	assert.Equal(t, r2.Vec{X: 54, Y: 40}, FaceSize(l, pcbbox.FaceZNeg))
}

func TestWriteDXF(t *testing.T) {
	l := defaultLayout(t)
	path := filepath.Join(t.TempDir(), "enclosure.dxf")
	require.NoError(t, WriteDXF(path, l))

	floor, err := FaceFeatures(l, pcbbox.FaceZPos)
	require.NoError(t, err)
	lid := LidFeatures(l)
	wantCircles := 0
	for _, f := range append(floor, lid...) {
		if f.Round {
			wantCircles++
		}
	}

	d, err := dxf.Open(path)
	require.NoError(t, err)
	var circles, lines, arcs int
	for _, e := range d.Entities() {
		switch e.(type) {
		case *entity.Circle:
			circles++
		case *entity.Line:
			lines++
		case *entity.Arc:
			arcs++
		}
	}
	assert.Equal(t, wantCircles, circles)
	// Box and lid plate plus two rim corners sets are rounded.
	assert.Equal(t, 12, arcs)
	assert.NotZero(t, lines)
}

func TestWritePDF(t *testing.T) {
	l := defaultLayout(t)
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, l))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("%%EOF")))

	rows := dimensionRows(l)
	var labels []string
	for _, r := range rows {
		labels = append(labels, r[0])
	}
	joined := strings.Join(labels, "|")
	assert.Contains(t, joined, "Counterbore")
	assert.Contains(t, joined, "Mount slot")
	assert.Contains(t, joined, "rectangular cutout >Y")
}

func TestPlotFace(t *testing.T) {
	l := defaultLayout(t)
	p, err := PlotFace(l, pcbbox.FaceZPos)
	require.NoError(t, err)
	assert.Equal(t, "Face >Z", p.Title.Text)

	var buf bytes.Buffer
	require.NoError(t, WriteFacePlot(&buf, l, pcbbox.FaceXPos, "png"))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.NotZero(t, img.Bounds().Dx())

	buf.Reset()
	require.NoError(t, WriteFacePlot(&buf, l, pcbbox.FaceYPos, "svg"))
	assert.Contains(t, buf.String(), "<svg")

	_, err = PlotFace(l, pcbbox.Face("?"))
	assert.Error(t, err)
}
