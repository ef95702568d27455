package drawing

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/soypat/pcbbox"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Plot size used by WriteFacePlot.
const (
	PlotWidth  = 16 * vg.Centimeter
	PlotHeight = 12 * vg.Centimeter
)

// circleSegments is the number of segments used to draw round features.
const circleSegments = 32

var kindColors = map[Kind]color.RGBA{
	KindVent:   {R: 40, G: 140, B: 60, A: 255},
	KindPost:   {R: 190, G: 140, A: 255},
	KindDrill:  {R: 120, G: 90, A: 255},
	KindCutout: {R: 150, G: 40, B: 150, A: 255},
	KindBolt:   {R: 200, G: 30, B: 30, A: 255},
	KindHead:   {R: 200, G: 120, B: 120, A: 255},
	KindSlot:   {R: 60, G: 60, B: 200, A: 255},
}

// PlotFace plots the outline of a face with its vent holes, posts and
// cutouts drawn to scale, plus a scatter of the feature centers.
func PlotFace(l pcbbox.Layout, face pcbbox.Face) (*plot.Plot, error) {
	feats, err := FaceFeatures(l, face)
	if err != nil {
		return nil, err
	}
	size := FaceSize(l, face)
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Face %s", face)
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"
	p.Add(plotter.NewGrid())

	outline, err := plotter.NewLine(rectXYs(r2.Vec{}, size))
	if err != nil {
		return nil, err
	}
	outline.LineStyle.Width = vg.Points(1.5)
	p.Add(outline)

	centers := make(map[Kind]plotter.XYs)
	var order []Kind
	for _, f := range feats {
		var xys plotter.XYs
		if f.Round {
			xys = circleXYs(f.Center, f.Radius())
		} else {
			xys = rectXYs(f.Center, f.Size)
		}
		ln, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		ln.LineStyle.Color = kindColors[f.Kind]
		p.Add(ln)
		if _, ok := centers[f.Kind]; !ok {
			order = append(order, f.Kind)
		}
		centers[f.Kind] = append(centers[f.Kind], plotter.XY{X: f.Center.X, Y: f.Center.Y})
	}
	for _, k := range order {
		sc, err := plotter.NewScatter(centers[k])
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Color = kindColors[k]
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("%s (%d)", k, len(centers[k])), sc)
	}

	// Equal axis ranges keep holes round.
	half := math.Max(size.X, size.Y)/2 + 2
	p.X.Min, p.X.Max = -half, half
	p.Y.Min, p.Y.Max = -half, half
	return p, nil
}

// WriteFacePlot renders the plot of a face in the given image format,
// e.g. "png" or "svg".
func WriteFacePlot(w io.Writer, l pcbbox.Layout, face pcbbox.Face, format string) error {
	p, err := PlotFace(l, face)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func rectXYs(c, size r2.Vec) plotter.XYs {
	hx, hy := size.X/2, size.Y/2
	return plotter.XYs{
		{X: c.X - hx, Y: c.Y - hy},
		{X: c.X + hx, Y: c.Y - hy},
		{X: c.X + hx, Y: c.Y + hy},
		{X: c.X - hx, Y: c.Y + hy},
		{X: c.X - hx, Y: c.Y - hy},
	}
}

func circleXYs(c r2.Vec, r float64) plotter.XYs {
	xys := make(plotter.XYs, circleSegments+1)
	for i := range xys {
		s, co := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		xys[i] = plotter.XY{X: c.X + r*co, Y: c.Y + r*s}
	}
	return xys
}
