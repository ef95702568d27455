package pcbbox

import (
	"fmt"
	"math"

	"github.com/soypat/pcbbox/helpers/matter"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// maxGridDensity caps the vent hole to pitch ratio so neighbouring
	// holes of the staggered grids never merge.
	maxGridDensity = 0.55
	// roundingMargin keeps a clamped rounding radius strictly below the wall.
	roundingMargin = 0.01
	// lidOffset separates the lid from the box in an assembly.
	lidOffset = 10.0
)

// Layout holds every dimension derived from Params. Coordinates follow the
// box: the origin is centered on the outside of the floor (z=0), the
// cavity opens at z=Depth where the lid closes it.
type Layout struct {
	Params Params `yaml:"-"`

	AuxX     float64 `yaml:"aux_x"` // gap_x + wall
	AuxY     float64 `yaml:"aux_y"`
	XPadding float64 `yaml:"x_padding"` // outer edge to screw post center along x
	YPadding float64 `yaml:"y_padding"`

	Length      float64 `yaml:"length"`
	Width       float64 `yaml:"width"`
	Depth       float64 `yaml:"depth"`
	InnerLength float64 `yaml:"inner_length"`
	InnerWidth  float64 `yaml:"inner_width"`

	// Forbidden zones keep vent holes clear of posts and the PCB.
	XForbidden float64 `yaml:"x_forbidden"`
	YForbidden float64 `yaml:"y_forbidden"`
	ZForbidden float64 `yaml:"z_forbidden"`

	GridDensity    float64 `yaml:"grid_density"`
	RoundingRadius float64 `yaml:"rounding_radius"`

	PostLength float64 `yaml:"post_length"`
	PostRadius float64 `yaml:"post_radius"`
	// Posts are the screw post centers in the box's XY plane.
	Posts []r2.Vec `yaml:"posts"`
	// LidHoles are the bolt hole centers in the lid's XY plane.
	LidHoles []r2.Vec `yaml:"lid_holes"`

	LidThickness  float64 `yaml:"lid_thickness"`
	RimHeight     float64 `yaml:"rim_height"`
	RimOuter      r2.Vec  `yaml:"rim_outer"`
	RimInner      r2.Vec  `yaml:"rim_inner"`
	MountTabWidth float64 `yaml:"mount_tab_width,omitempty"`
	// MountSlots are the slot centers on the lid tabs.
	MountSlots []r2.Vec `yaml:"mount_slots,omitempty"`
	SlotSize   r2.Vec   `yaml:"slot_size,omitempty"`

	// Hole diameters to be modelled, after material compensation.
	BoltHole     float64 `yaml:"bolt_hole"`
	HeadHole     float64 `yaml:"head_hole"`
	VentHole     float64 `yaml:"vent_hole"`
	SensorHole   float64 `yaml:"sensor_hole"`
	CircularHole float64 `yaml:"circular_hole"`

	// AssemblyOffset is the lid's y offset in an assembly.
	AssemblyOffset float64 `yaml:"assembly_offset"`

	// Adjustments lists parameters that were clamped during derivation.
	Adjustments []string `yaml:"adjustments,omitempty"`
}

// Derive validates p and computes the enclosure layout.
func Derive(p Params) (Layout, error) {
	if err := p.Validate(); err != nil {
		return Layout{}, err
	}
	mat, err := matter.Lookup(p.Material.Name)
	if err != nil {
		return Layout{}, err
	}
	b := p.Box
	l := Layout{Params: p}
	l.AuxX = b.GapX + b.Wall
	l.AuxY = b.GapY + b.Wall
	l.XPadding = b.PCBHoleCornerDist + l.AuxX
	l.YPadding = b.PCBHoleCornerDist + l.AuxY
	l.Length = b.PCBLength + 2*l.AuxX
	l.Width = b.PCBWidth + 2*l.AuxY
	l.Depth = b.InnerDepth + b.Wall
	l.InnerLength = l.Length - 2*b.Wall
	l.InnerWidth = l.Width - 2*b.Wall

	l.XForbidden = b.GapX + b.PCBHoleCornerDist + b.PCBHoleDiameter
	l.YForbidden = b.GapY + b.PCBHoleCornerDist + b.PCBHoleDiameter
	l.ZForbidden = b.PCBLidDist + b.GapZ + b.PCBThick

	if vent := p.Perforation.VentHoleDiameter; vent > 0 {
		minDensity := vent / (b.InnerDepth - l.ZForbidden)
		d := math.Min(math.Max(p.Perforation.GridDensity, minDensity), maxGridDensity)
		if d != p.Perforation.GridDensity {
			l.adjust("perforation.grid_density clamped from %g to %g", p.Perforation.GridDensity, d)
		}
		l.GridDensity = d
	}

	l.RoundingRadius = b.RoundingRadius
	if l.RoundingRadius >= b.Wall {
		l.RoundingRadius = b.Wall - roundingMargin
		l.adjust("box.rounding_radius clamped from %g to %g", b.RoundingRadius, l.RoundingRadius)
	}

	l.PostLength = b.InnerDepth - b.PCBLidDist - b.PCBThick - b.GapZ
	l.PostRadius = b.PCBHoleDiameter
	hx, hy := (l.Length-2*l.XPadding)/2, (l.Width-2*l.YPadding)/2
	switch {
	case p.LidBolt.Count == 4:
		l.Posts = []r2.Vec{{X: hx, Y: hy}, {X: -hx, Y: hy}, {X: -hx, Y: -hy}, {X: hx, Y: -hy}}
	case p.LidBolt.Mirror:
		l.Posts = []r2.Vec{{X: hx, Y: -hy}, {X: -hx, Y: hy}}
	default:
		l.Posts = []r2.Vec{{X: hx, Y: hy}, {X: -hx, Y: -hy}}
	}
	// The lid is printed upside down so its holes mirror the posts in y.
	l.LidHoles = make([]r2.Vec, len(l.Posts))
	for i, post := range l.Posts {
		l.LidHoles[i] = r2.Vec{X: post.X, Y: -post.Y}
	}

	l.LidThickness = p.LidBolt.HeadLength
	l.RimHeight = b.PCBLidDist - b.GapZ
	l.RimOuter = r2.Vec{X: l.Length - 2*b.Wall, Y: l.Width - 2*b.Wall}
	l.RimInner = r2.Vec{X: l.Length - 2*(l.XPadding-b.Tolerance), Y: l.Width - 2*(l.YPadding-b.Tolerance)}
	if m := p.Mounting; m.Mounts {
		l.MountTabWidth = 5 * m.BoltDiameter
		slotX := (l.Length+l.MountTabWidth)/2 - 1.2*m.BoltDiameter
		l.MountSlots = []r2.Vec{{X: slotX}, {X: -slotX}}
		l.SlotSize = r2.Vec{X: m.BoltDiameter, Y: l.MountTabWidth - 2*m.BoltDiameter}
	}

	compensate := func(name string, d float64) float64 {
		if !p.Material.CompensateHoles || d <= 0 {
			return d
		}
		c, err := mat.InternalDimScale(d)
		if err != nil {
			// unreachable, d is positive.
			panic(err)
		}
		l.adjust("%s compensated from %g to %g for %s", name, d, c, mat)
		return c
	}
	l.BoltHole = compensate("lid_bolt.bolt_diameter", p.LidBolt.BoltDiameter)
	l.HeadHole = compensate("lid_bolt.head_diameter", p.LidBolt.HeadDiameter)
	l.VentHole = compensate("perforation.vent_hole_diameter", p.Perforation.VentHoleDiameter)
	l.SensorHole = compensate("sensor_hole_at_top.hole_diameter", p.Sensor.HoleDiameter)
	l.CircularHole = compensate("circular_connector.diameter", p.Circular.Diameter)

	l.AssemblyOffset = b.PCBWidth + lidOffset
	return l, nil
}

func (l *Layout) adjust(format string, args ...interface{}) {
	l.Adjustments = append(l.Adjustments, fmt.Sprintf(format, args...))
}

// GridParams returns the vent hole pitch and the number of holes that fit
// along each side of an l x w region.
func (l Layout) GridParams(length, width float64) (distance float64, lCount, wCount int) {
	distance = l.Params.Perforation.VentHoleDiameter / l.GridDensity
	lCount = int(length / distance)
	wCount = int(width / distance)
	return distance, max(lCount, 0), max(wCount, 0)
}

// Perforation is the vent hole grid of one face. Both grids are centered on
// the face frame origin and share the same pitch. The staggered grid sits
// in the gaps of the primary one.
type Perforation struct {
	Face     Face    `yaml:"face"`
	Region   r2.Vec  `yaml:"region"` // area the grid was fitted into
	Distance float64 `yaml:"distance"`
	LCount   int     `yaml:"l_count"`
	WCount   int     `yaml:"w_count"`
	Stagger  bool    `yaml:"stagger"`
	Diameter float64 `yaml:"diameter"`
}

// PerforationFor returns the vent grid of face. Only >X, >Y and >Z carry
// vent grids.
func (l Layout) PerforationFor(face Face) (Perforation, error) {
	var region r2.Vec
	switch face {
	case FaceXPos:
		region = r2.Vec{X: l.InnerWidth - l.YForbidden, Y: l.Params.Box.InnerDepth - l.ZForbidden}
	case FaceYPos:
		region = r2.Vec{X: l.InnerLength - 2*l.XForbidden, Y: l.Params.Box.InnerDepth - l.ZForbidden}
	case FaceZPos:
		region = r2.Vec{X: l.InnerLength - 2*l.XForbidden, Y: l.InnerWidth - l.YForbidden}
	default:
		return Perforation{}, fmt.Errorf("%w %q for perforation", ErrUnknownFace, string(face))
	}
	if l.GridDensity <= 0 {
		return Perforation{Face: face, Region: region}, nil
	}
	distance, lc, wc := l.GridParams(region.X, region.Y)
	return Perforation{
		Face:     face,
		Region:   region,
		Distance: distance,
		LCount:   lc,
		WCount:   wc,
		Stagger:  lc > 1 && wc > 1,
		Diameter: l.VentHole,
	}, nil
}

// Perforations returns the grids of every face enabled in the parameters.
func (l Layout) Perforations() []Perforation {
	var perfs []Perforation
	per := l.Params.Perforation
	for _, f := range []struct {
		on   bool
		face Face
	}{
		{per.XSidePerforation, FaceXPos},
		{per.YSidePerforation, FaceYPos},
		{per.TopPerforation, FaceZPos},
	} {
		if !f.on {
			continue
		}
		p, err := l.PerforationFor(f.face)
		if err == nil && p.LCount > 0 && p.WCount > 0 {
			perfs = append(perfs, p)
		}
	}
	return perfs
}

// Holes returns the hole centers of the grid in face coordinates.
func (p Perforation) Holes() []r2.Vec {
	holes := rarray(p.Distance, p.LCount, p.WCount)
	if p.Stagger {
		holes = append(holes, rarray(p.Distance, p.LCount-1, p.WCount-1)...)
	}
	return holes
}

// rarray returns an n x m array of points at pitch d centered on the origin.
func rarray(d float64, n, m int) []r2.Vec {
	pts := make([]r2.Vec, 0, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			pts = append(pts, r2.Vec{
				X: (float64(i) - float64(n-1)/2) * d,
				Y: (float64(j) - float64(m-1)/2) * d,
			})
		}
	}
	return pts
}

// CutoutKind identifies a connector or sensor cutout.
type CutoutKind string

const (
	CutoutCircular    CutoutKind = "circular"
	CutoutRectangular CutoutKind = "rectangular"
	CutoutSensor      CutoutKind = "sensor"
)

// Cutout is an opening in the box wall or floor. A boss of the wall's
// thickness is added around it before cutting so perforation never
// breaks into the opening. Round cutouts store their diameter in X of
// Cut and Boss.
type Cutout struct {
	Kind   CutoutKind `yaml:"kind"`
	Face   Face       `yaml:"face"`
	Center r2.Vec     `yaml:"center"` // face coordinates
	Cut    r2.Vec     `yaml:"cut"`
	Boss   r2.Vec     `yaml:"boss"`
	// Through cuts through the whole part rather than just the wall.
	Through bool `yaml:"through"`
}

// Round reports whether the cutout is circular.
func (c Cutout) Round() bool { return c.Kind != CutoutRectangular }

// aux returns the wall gap and inner length along a side face's
// horizontal axis.
func (l Layout) aux(face Face) (gap, length float64) {
	if face.alongY() {
		return l.Params.Box.GapX, l.InnerLength
	}
	return l.Params.Box.GapY, l.InnerWidth
}

// rimDistance converts a distance above the PCB plane to the face y
// coordinate, measured down from the box rim.
func (l Layout) rimDistance(fromPCB float64) float64 {
	b := l.Params.Box
	return l.Depth/2 - (fromPCB + b.PCBThick + b.GapZ + b.PCBLidDist)
}

// Cutouts returns the enabled connector and sensor cutouts in the order
// they are applied to the box.
func (l Layout) Cutouts() []Cutout {
	var cuts []Cutout
	p := l.Params
	wall := p.Box.Wall
	if c := p.Circular; c.Enabled {
		gap, length := l.aux(c.Face)
		d := l.CircularHole
		boss := c.Diameter + 2*wall
		cuts = append(cuts, Cutout{
			Kind:   CutoutCircular,
			Face:   c.Face,
			Center: r2.Vec{X: length/2 - gap - c.FromPCBCorner, Y: l.rimDistance(c.FromPCBPlane)},
			Cut:    r2.Vec{X: d, Y: d},
			Boss:   r2.Vec{X: boss, Y: boss},
		})
	}
	if r := p.Rectangular; r.Enabled {
		gap, length := l.aux(r.Face)
		cuts = append(cuts, Cutout{
			Kind:   CutoutRectangular,
			Face:   r.Face,
			Center: r2.Vec{X: -length/2 + gap + r.FromPCBCorner, Y: l.rimDistance(r.FromPCB)},
			Cut:    r2.Vec{X: r.Height, Y: r.Width},
			Boss:   r2.Vec{X: r.Height + 2*wall, Y: r.Width + 2*wall},
		})
	}
	if s := p.Sensor; s.Enabled {
		d := l.SensorHole
		boss := s.HoleDiameter + 2*wall
		// The floor frame's y axis points along -Y.
		cuts = append(cuts, Cutout{
			Kind: CutoutSensor,
			Face: FaceZNeg,
			Center: r2.Vec{
				X: l.InnerLength/2 - s.DistanceFromYEdge - p.Box.GapX,
				Y: -l.InnerWidth/2 + s.DistanceFromXEdge + p.Box.GapY,
			},
			Cut:     r2.Vec{X: d, Y: d},
			Boss:    r2.Vec{X: boss, Y: boss},
			Through: true,
		})
	}
	return cuts
}
