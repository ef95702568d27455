package drawing

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/soypat/pcbbox"
	"gonum.org/v1/gonum/spatial/r2"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth   = 297.0
	pageHeight  = 210.0
	margin      = 12.0
	tableWidth  = 105.0
	rowHeight   = 5.2
	titleHeight = 10.0
	planGap     = 8.0
)

// WritePDF writes a one page dimension sheet: a table with the derived
// dimensions next to the floor and lid plans drawn to scale.
func WritePDF(w io.Writer, l pcbbox.Layout) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle("PCB enclosure dimensions", false)
	pdf.SetCreator("pcbbox", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(margin, margin)
	title := fmt.Sprintf("Enclosure %.1f x %.1f x %.1f mm", l.Length, l.Width, l.Depth)
	pdf.CellFormat(pageWidth-2*margin, titleHeight, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	y := margin + titleHeight + 2
	for _, row := range dimensionRows(l) {
		if y > pageHeight-margin-rowHeight {
			break
		}
		pdf.SetXY(margin, y)
		pdf.CellFormat(tableWidth*0.55, rowHeight, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(tableWidth*0.45, rowHeight, row[1], "1", 0, "R", false, 0, "")
		y += rowHeight
	}

	// Floor plan on top, lid plan below, sharing a scale.
	areaX := margin + tableWidth + planGap
	areaW := pageWidth - areaX - margin
	areaTop := margin + titleHeight + 2
	areaH := (pageHeight - areaTop - margin - planGap) / 2
	extent := r2.Vec{X: l.Length + l.MountTabWidth, Y: l.Width}
	scale := math.Min(areaW/extent.X, areaH/extent.Y)

	pdf.SetLineWidth(0.2)
	floor := &pdfPen{pdf: pdf, origin: r2.Vec{X: areaX + areaW/2, Y: areaTop + areaH/2}, scale: scale}
	if err := drawFloor(floor, l, r2.Vec{}); err != nil {
		return err
	}
	lid := &pdfPen{pdf: pdf, origin: r2.Vec{X: areaX + areaW/2, Y: areaTop + areaH + planGap + areaH/2}, scale: scale}
	drawLid(lid, l, r2.Vec{})

	pdf.SetFont("Helvetica", "I", 7)
	pdf.SetTextColor(80, 80, 80)
	pdf.Text(areaX, areaTop+2, fmt.Sprintf("box, seen from the rim (1:%.2g)", 1/scale))
	pdf.Text(areaX, areaTop+areaH+planGap+2, "lid, print orientation")
	return pdf.Output(w)
}

// dimensionRows returns the label and value of every tabulated dimension.
func dimensionRows(l pcbbox.Layout) [][2]string {
	mm := func(v float64) string { return fmt.Sprintf("%.2f mm", v) }
	vec := func(v r2.Vec) string { return fmt.Sprintf("%.2f x %.2f mm", v.X, v.Y) }
	rows := [][2]string{
		{"Outer length x width", vec(r2.Vec{X: l.Length, Y: l.Width})},
		{"Outer depth", mm(l.Depth)},
		{"Inner length x width", vec(r2.Vec{X: l.InnerLength, Y: l.InnerWidth})},
		{"Wall", mm(l.Params.Box.Wall)},
		{"Rounding radius", mm(l.RoundingRadius)},
		{"Screw posts", fmt.Sprintf("%d", len(l.Posts))},
		{"Post length", mm(l.PostLength)},
		{"Post diameter", mm(2 * l.PostRadius)},
		{"Post padding x, y", fmt.Sprintf("%.2f, %.2f mm", l.XPadding, l.YPadding)},
		{"Bolt hole", mm(l.BoltHole)},
	}
	if l.Params.LidBolt.Head {
		rows = append(rows, [2]string{"Counterbore", mm(l.HeadHole)})
	}
	rows = append(rows,
		[2]string{"Lid thickness", mm(l.LidThickness)},
		[2]string{"Rim height", mm(l.RimHeight)},
		[2]string{"Rim outer", vec(l.RimOuter)},
		[2]string{"Rim inner", vec(l.RimInner)},
	)
	if l.Params.Mounting.Mounts {
		rows = append(rows,
			[2]string{"Mount tab width", mm(l.MountTabWidth)},
			[2]string{"Mount slot", vec(l.SlotSize)},
		)
	}
	if l.GridDensity > 0 {
		rows = append(rows, [2]string{"Grid density", fmt.Sprintf("%.3f", l.GridDensity)})
	}
	for _, p := range l.Perforations() {
		rows = append(rows, [2]string{
			fmt.Sprintf("Vents %s (pitch %.2f)", p.Face, p.Distance),
			fmt.Sprintf("%d holes of %.2f mm", len(p.Holes()), p.Diameter),
		})
	}
	for _, c := range l.Cutouts() {
		rows = append(rows, [2]string{
			fmt.Sprintf("%s cutout %s", c.Kind, c.Face),
			fmt.Sprintf("at %.2f, %.2f", c.Center.X, c.Center.Y),
		})
	}
	for _, adj := range l.Adjustments {
		rows = append(rows, [2]string{"Note", adj})
	}
	return rows
}

var pdfColors = map[string][3]int{
	LayerOutline: {0, 0, 0},
	LayerCavity:  {0, 130, 160},
	LayerVents:   {40, 140, 60},
	LayerPosts:   {190, 140, 0},
	LayerHoles:   {200, 30, 30},
	LayerCutouts: {150, 40, 150},
}

// pdfPen draws on a page with the model's y axis pointing up.
type pdfPen struct {
	pdf    *fpdf.Fpdf
	origin r2.Vec // page position of the model origin
	scale  float64
}

func (p *pdfPen) page(v r2.Vec) (x, y float64) {
	return p.origin.X + p.scale*v.X, p.origin.Y - p.scale*v.Y
}

func (p *pdfPen) layer(name string) {
	c := pdfColors[name]
	p.pdf.SetDrawColor(c[0], c[1], c[2])
}

func (p *pdfPen) line(a, b r2.Vec) {
	x1, y1 := p.page(a)
	x2, y2 := p.page(b)
	p.pdf.Line(x1, y1, x2, y2)
}

func (p *pdfPen) arc(c r2.Vec, r, start, end float64) {
	x, y := p.page(c)
	p.pdf.Arc(x, y, p.scale*r, p.scale*r, 0, start, end, "D")
}

func (p *pdfPen) circle(c r2.Vec, r float64) {
	x, y := p.page(c)
	p.pdf.Circle(x, y, p.scale*r, "D")
}
