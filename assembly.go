package pcbbox

import (
	"fmt"

	"github.com/soypat/pcbbox/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Part names a renderable solid.
type Part string

const (
	PartBox      Part = "box"
	PartLid      Part = "lid"
	PartAssembly Part = "assembly"
)

// ParsePart parses a part name.
func ParsePart(s string) (Part, error) {
	switch p := Part(s); p {
	case PartBox, PartLid, PartAssembly:
		return p, nil
	}
	return "", fmt.Errorf("unknown part %q, want box, lid or assembly", s)
}

// BuildAssembly returns the box at the origin with the lid placed beside it,
// offset along y, ready to print on a single plate.
func BuildAssembly(l Layout) (sdf.SDF3, error) {
	box, err := BuildBox(l)
	if err != nil {
		return nil, err
	}
	lid, err := BuildLid(l)
	if err != nil {
		return nil, err
	}
	return sdf.Union3D(box, sdf.Translate(lid, r3.Vec{Y: l.AssemblyOffset})), nil
}

// BuildPart builds the named part.
func BuildPart(l Layout, part Part) (sdf.SDF3, error) {
	switch part {
	case PartBox:
		return BuildBox(l)
	case PartLid:
		return BuildLid(l)
	case PartAssembly:
		return BuildAssembly(l)
	}
	return nil, fmt.Errorf("unknown part %q", string(part))
}
