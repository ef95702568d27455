package drawing

import (
	"fmt"

	"github.com/soypat/pcbbox"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	dxfdrawing "github.com/yofu/dxf/drawing"
	"gonum.org/v1/gonum/spatial/r2"
)

var dxfLayers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerOutline, color.White},
	{LayerCavity, color.Cyan},
	{LayerVents, color.Green},
	{LayerPosts, color.Yellow},
	{LayerHoles, color.Red},
	{LayerCutouts, color.Magenta},
}

// WriteDXF writes the floor plan at the origin and the lid beside it,
// offset along y as in the assembly. Units are millimeters.
func WriteDXF(path string, l pcbbox.Layout) error {
	d := dxf.NewDrawing()
	for _, ly := range dxfLayers {
		if _, err := d.AddLayer(ly.name, ly.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("dxf layer %s: %w", ly.name, err)
		}
	}
	p := &dxfPen{d: d}
	if err := drawFloor(p, l, r2.Vec{}); err != nil {
		return err
	}
	drawLid(p, l, r2.Vec{Y: l.AssemblyOffset})
	if p.err != nil {
		return fmt.Errorf("dxf: %w", p.err)
	}
	return d.SaveAs(path)
}

// dxfPen draws entities on a DXF drawing, keeping the first error.
type dxfPen struct {
	d   *dxfdrawing.Drawing
	err error
}

func (p *dxfPen) layer(name string) {
	if p.err == nil {
		p.err = p.d.ChangeLayer(name)
	}
}

func (p *dxfPen) line(a, b r2.Vec) {
	if p.err == nil {
		_, p.err = p.d.Line(a.X, a.Y, 0, b.X, b.Y, 0)
	}
}

func (p *dxfPen) arc(c r2.Vec, r, start, end float64) {
	if p.err == nil {
		_, p.err = p.d.Arc(c.X, c.Y, 0, r, start, end)
	}
}

func (p *dxfPen) circle(c r2.Vec, r float64) {
	if p.err == nil {
		_, p.err = p.d.Circle(c.X, c.Y, 0, r)
	}
}
