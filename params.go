package pcbbox

import (
	"fmt"
	"strings"

	"github.com/soypat/pcbbox/helpers/matter"
)

// Params holds every user supplied dimension and feature flag of an enclosure.
// All lengths are in millimeters. The toml tags match the configuration file
// sections so a decoded file maps onto Params directly.
type Params struct {
	Box         BoxParams            `toml:"box" yaml:"box"`
	Perforation PerforationParams    `toml:"perforation" yaml:"perforation"`
	Circular    CircularConnector    `toml:"circular_connector" yaml:"circular_connector"`
	Rectangular RectangularConnector `toml:"rectangular_connector" yaml:"rectangular_connector"`
	Sensor      SensorHole           `toml:"sensor_hole_at_top" yaml:"sensor_hole_at_top"`
	LidBolt     LidBolt              `toml:"lid_bolt" yaml:"lid_bolt"`
	Mounting    Mounting             `toml:"mounting" yaml:"mounting"`
	Material    Material             `toml:"material" yaml:"material"`
}

// BoxParams describes the PCB and the shell around it.
type BoxParams struct {
	Tolerance float64 `toml:"tolerance" yaml:"tolerance"`

	PCBLength         float64 `toml:"pcb_length" yaml:"pcb_length"`
	PCBWidth          float64 `toml:"pcb_width" yaml:"pcb_width"`
	PCBThick          float64 `toml:"pcb_thick" yaml:"pcb_thick"`
	PCBHoleDiameter   float64 `toml:"pcb_hole_diameter" yaml:"pcb_hole_diameter"`
	PCBHoleCornerDist float64 `toml:"pcb_hole_corner_dist" yaml:"pcb_hole_corner_dist"`
	// PCBLidDist is the clearance between the PCB and the lid.
	PCBLidDist float64 `toml:"pcb_lid_dist" yaml:"pcb_lid_dist"`

	InnerDepth         float64 `toml:"inner_depth" yaml:"inner_depth"`
	Wall               float64 `toml:"wall" yaml:"wall"`
	RoundVerticalEdges bool    `toml:"rounding_vertical_edges" yaml:"rounding_vertical_edges"`
	// RoundTopEdges rounds the edges of the floor, which is the top of
	// the enclosure once mounted.
	RoundTopEdges  bool    `toml:"rounding_top_edges" yaml:"rounding_top_edges"`
	RoundingRadius float64 `toml:"rounding_radius" yaml:"rounding_radius"`
	// PostWebs is the number of gussets around each screw post base.
	PostWebs int `toml:"post_webs" yaml:"post_webs"`

	// Gaps between PCB and box walls.
	GapX float64 `toml:"gap_x" yaml:"gap_x"`
	GapY float64 `toml:"gap_y" yaml:"gap_y"`
	// GapZ is the gap between PCB and lid rim.
	GapZ float64 `toml:"gap_z" yaml:"gap_z"`
}

// PerforationParams configures the ventilation grids.
type PerforationParams struct {
	TopPerforation   bool    `toml:"top_perforation" yaml:"top_perforation"`
	XSidePerforation bool    `toml:"x_side_perforation" yaml:"x_side_perforation"`
	YSidePerforation bool    `toml:"y_side_perforation" yaml:"y_side_perforation"`
	VentHoleDiameter float64 `toml:"vent_hole_diameter" yaml:"vent_hole_diameter"`
	// GridDensity is the ratio of hole diameter to hole pitch. It is clamped
	// during layout derivation.
	GridDensity float64 `toml:"grid_density" yaml:"grid_density"`
}

// CircularConnector is a round cutout on a side face, e.g. a DC barrel jack.
type CircularConnector struct {
	Enabled       bool    `toml:"circular" yaml:"circular"`
	Diameter      float64 `toml:"diameter" yaml:"diameter"`
	FromPCBPlane  float64 `toml:"from_pcb_plane" yaml:"from_pcb_plane"`
	FromPCBCorner float64 `toml:"from_pcb_corner" yaml:"from_pcb_corner"`
	Face          Face    `toml:"faces" yaml:"faces"`
}

// RectangularConnector is a rectangular cutout on a side face, e.g. a USB port.
type RectangularConnector struct {
	Enabled bool `toml:"rectangular" yaml:"rectangular"`
	// Height spans the face's horizontal axis and Width its vertical axis.
	Height        float64 `toml:"height" yaml:"height"`
	Width         float64 `toml:"width" yaml:"width"`
	FromPCB       float64 `toml:"from_pcb" yaml:"from_pcb"`
	FromPCBCorner float64 `toml:"from_pcb_corner" yaml:"from_pcb_corner"`
	Face          Face    `toml:"faces" yaml:"faces"`
}

// SensorHole is a round hole through the floor above an on-board sensor.
// DistanceFromYEdge positions the hole along x and DistanceFromXEdge along y.
type SensorHole struct {
	Enabled           bool    `toml:"sensor" yaml:"sensor"`
	HoleDiameter      float64 `toml:"hole_diameter" yaml:"hole_diameter"`
	DistanceFromXEdge float64 `toml:"distance_from_x_edge" yaml:"distance_from_x_edge"`
	DistanceFromYEdge float64 `toml:"distance_from_y_edge" yaml:"distance_from_y_edge"`
}

// LidBolt describes the bolts holding the lid to the screw posts.
type LidBolt struct {
	// Head selects a counterbored hole for the bolt head.
	Head         bool    `toml:"head" yaml:"head"`
	BoltDiameter float64 `toml:"bolt_diameter" yaml:"bolt_diameter"`
	HeadDiameter float64 `toml:"head_diameter" yaml:"head_diameter"`
	// HeadLength is also the lid base thickness.
	HeadLength float64 `toml:"head_length" yaml:"head_length"`
	// Count is 2 (one diagonal) or 4 (every corner).
	Count int `toml:"nr" yaml:"nr"`
	// Mirror selects the other diagonal when Count is 2.
	Mirror bool `toml:"mirror" yaml:"mirror"`
}

// Mounting adds slotted tabs to the lid ends.
type Mounting struct {
	Mounts       bool    `toml:"mounts" yaml:"mounts"`
	BoltDiameter float64 `toml:"bolt_diameter" yaml:"bolt_diameter"`
}

// Material selects print compensation.
type Material struct {
	Name string `toml:"name" yaml:"name"`
	// CompensateHoles enlarges hole diameters for the material's pull shrink.
	CompensateHoles bool `toml:"compensate_holes" yaml:"compensate_holes"`
	// CompensateShrink scales rendered parts up by the thermal shrinkage.
	CompensateShrink bool `toml:"compensate_shrink" yaml:"compensate_shrink"`
}

// DefaultParams returns the parameters of an enclosure for an ESP-12F
// sensor board with a micro USB port.
func DefaultParams() Params {
	return Params{
		Box: BoxParams{
			Tolerance:          0.2,
			PCBLength:          48,
			PCBWidth:           34,
			PCBThick:           1.6,
			PCBHoleDiameter:    3,
			PCBHoleCornerDist:  3.5,
			PCBLidDist:         5,
			InnerDepth:         22,
			Wall:               2,
			RoundVerticalEdges: true,
			RoundTopEdges:      true,
			RoundingRadius:     1.5,
			GapX:               1,
			GapY:               1,
			GapZ:               0.5,
		},
		Perforation: PerforationParams{
			TopPerforation:   true,
			XSidePerforation: true,
			YSidePerforation: false,
			VentHoleDiameter: 2,
			GridDensity:      0.3,
		},
		Circular: CircularConnector{
			Enabled:       false,
			Diameter:      6,
			FromPCBPlane:  3,
			FromPCBCorner: 10,
			Face:          FaceXNeg,
		},
		Rectangular: RectangularConnector{
			Enabled:       true,
			Height:        8,
			Width:         3.5,
			FromPCB:       1.5,
			FromPCBCorner: 12,
			Face:          FaceYPos,
		},
		Sensor: SensorHole{
			Enabled:           true,
			HoleDiameter:      5,
			DistanceFromXEdge: 8,
			DistanceFromYEdge: 10,
		},
		LidBolt: LidBolt{
			Head:         true,
			BoltDiameter: 2.5,
			HeadDiameter: 5.5,
			HeadLength:   3,
			Count:        4,
			Mirror:       false,
		},
		Mounting: Mounting{
			Mounts:       true,
			BoltDiameter: 4,
		},
		Material: Material{Name: "none"},
	}
}

// Validate checks p for values that cannot produce an enclosure. Every
// problem found is reported in the returned *ValidationError.
func (p Params) Validate() error {
	var v ValidationError
	b := p.Box
	v.positive("box.pcb_length", b.PCBLength)
	v.positive("box.pcb_width", b.PCBWidth)
	v.positive("box.pcb_thick", b.PCBThick)
	v.positive("box.pcb_hole_diameter", b.PCBHoleDiameter)
	v.positive("box.inner_depth", b.InnerDepth)
	v.positive("box.wall", b.Wall)
	v.nonNegative("box.tolerance", b.Tolerance)
	v.nonNegative("box.pcb_hole_corner_dist", b.PCBHoleCornerDist)
	v.nonNegative("box.pcb_lid_dist", b.PCBLidDist)
	v.nonNegative("box.gap_x", b.GapX)
	v.nonNegative("box.gap_y", b.GapY)
	v.nonNegative("box.gap_z", b.GapZ)
	if b.PostWebs < 0 {
		v.add("box.post_webs", "must not be negative, got %d", b.PostWebs)
	}
	if b.RoundVerticalEdges || b.RoundTopEdges {
		v.positive("box.rounding_radius", b.RoundingRadius)
	}

	// Posts sit pcb_hole_corner_dist in from each board corner.
	if b.PCBLength > 0 && b.PCBLength <= 2*b.PCBHoleCornerDist {
		v.add("box.pcb_length", "must exceed twice pcb_hole_corner_dist (%g)", 2*b.PCBHoleCornerDist)
	}
	if b.PCBWidth > 0 && b.PCBWidth <= 2*b.PCBHoleCornerDist {
		v.add("box.pcb_width", "must exceed twice pcb_hole_corner_dist (%g)", 2*b.PCBHoleCornerDist)
	}

	zForbidden := b.PCBLidDist + b.GapZ + b.PCBThick
	if b.InnerDepth > 0 && b.InnerDepth <= zForbidden {
		v.add("box.inner_depth", "must exceed pcb_lid_dist + gap_z + pcb_thick (%g)", zForbidden)
	}
	if b.PCBLidDist > 0 && b.PCBLidDist <= b.GapZ {
		v.add("box.pcb_lid_dist", "must exceed gap_z (%g) to leave room for the lid rim", b.GapZ)
	}
	if b.PCBHoleCornerDist+b.GapX <= b.Tolerance || b.PCBHoleCornerDist+b.GapY <= b.Tolerance {
		v.add("box.tolerance", "must be smaller than pcb_hole_corner_dist plus the wall gaps")
	}

	per := p.Perforation
	if per.TopPerforation || per.XSidePerforation || per.YSidePerforation {
		v.positive("perforation.vent_hole_diameter", per.VentHoleDiameter)
		v.positive("perforation.grid_density", per.GridDensity)
	}

	if c := p.Circular; c.Enabled {
		v.positive("circular_connector.diameter", c.Diameter)
		v.nonNegative("circular_connector.from_pcb_plane", c.FromPCBPlane)
		v.nonNegative("circular_connector.from_pcb_corner", c.FromPCBCorner)
		v.sideFace("circular_connector.faces", c.Face)
	}
	if r := p.Rectangular; r.Enabled {
		v.positive("rectangular_connector.height", r.Height)
		v.positive("rectangular_connector.width", r.Width)
		v.nonNegative("rectangular_connector.from_pcb", r.FromPCB)
		v.nonNegative("rectangular_connector.from_pcb_corner", r.FromPCBCorner)
		v.sideFace("rectangular_connector.faces", r.Face)
	}
	if s := p.Sensor; s.Enabled {
		v.positive("sensor_hole_at_top.hole_diameter", s.HoleDiameter)
		v.nonNegative("sensor_hole_at_top.distance_from_x_edge", s.DistanceFromXEdge)
		v.nonNegative("sensor_hole_at_top.distance_from_y_edge", s.DistanceFromYEdge)
	}

	// Hole diameters are checked at the size Derive models them.
	mat, matErr := matter.Lookup(p.Material.Name)
	if matErr != nil {
		v.add("material.name", "%v", matErr)
	}
	modeled := func(d float64) float64 {
		if !p.Material.CompensateHoles || matErr != nil || d <= 0 {
			return d
		}
		c, err := mat.InternalDimScale(d)
		if err != nil {
			return d
		}
		return c
	}

	lb := p.LidBolt
	v.positive("lid_bolt.bolt_diameter", lb.BoltDiameter)
	v.positive("lid_bolt.head_length", lb.HeadLength)
	if lb.Count != 2 && lb.Count != 4 {
		v.add("lid_bolt.nr", "must be 2 or 4, got %d", lb.Count)
	}
	boltHole := modeled(lb.BoltDiameter)
	if lb.Head {
		v.positive("lid_bolt.head_diameter", lb.HeadDiameter)
		if headHole := modeled(lb.HeadDiameter); lb.HeadDiameter > 0 && boltHole >= headHole {
			v.add("lid_bolt.bolt_diameter", "hole of %g must be smaller than the head hole (%g)", boltHole, headHole)
		}
	}
	if b.PCBHoleDiameter > 0 && boltHole >= 2*b.PCBHoleDiameter {
		v.add("lid_bolt.bolt_diameter", "hole of %g must fit in a screw post of diameter %g", boltHole, 2*b.PCBHoleDiameter)
	}

	if p.Mounting.Mounts {
		v.positive("mounting.bolt_diameter", p.Mounting.BoltDiameter)
	}

	if len(v.Fields) > 0 {
		return &v
	}
	return nil
}

// FieldError is a single invalid parameter.
type FieldError struct {
	Field   string // configuration key, section.key
	Message string
}

func (f FieldError) String() string { return f.Field + " " + f.Message }

// ValidationError lists every invalid parameter found by Params.Validate.
// It matches ErrInvalidParams with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (v *ValidationError) Error() string {
	msgs := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		msgs[i] = f.String()
	}
	return ErrInvalidParams.Error() + ": " + strings.Join(msgs, "; ")
}

func (v *ValidationError) Unwrap() error { return ErrInvalidParams }

func (v *ValidationError) add(field, format string, args ...interface{}) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *ValidationError) positive(field string, x float64) {
	if !(x > 0) {
		v.add(field, "must be positive, got %g", x)
	}
}

func (v *ValidationError) nonNegative(field string, x float64) {
	if !(x >= 0) {
		v.add(field, "must not be negative, got %g", x)
	}
}

func (v *ValidationError) sideFace(field string, f Face) {
	if !f.IsSide() {
		v.add(field, "must be one of >X <X >Y <Y, got %q", string(f))
	}
}
