// Package matter compensates printed parts for material behaviour.
package matter

import (
	"fmt"
	"strings"

	"github.com/soypat/pcbbox/sdf"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{name: "PLA", shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// PETG shrinks less than PLA but strings and pulls holes slightly more.
	PETG = ViscousMaterial{name: "PETG", shrink: 0.15e-2, pullShrink: .5}
	// None applies no compensation.
	None = ViscousMaterial{name: "none"}
)

// ViscousMaterial models the dimensional error of a thermoplastic print.
type ViscousMaterial struct {
	name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage. Holes close
	// up by roughly this many millimeters.
	pullShrink float64
}

// Lookup returns the material with the given name, case insensitive.
// The empty string selects None.
func Lookup(name string) (ViscousMaterial, error) {
	for _, m := range []ViscousMaterial{None, PLA, PETG} {
		if strings.EqualFold(name, m.name) {
			return m, nil
		}
	}
	if name == "" {
		return None, nil
	}
	return ViscousMaterial{}, fmt.Errorf("unknown material %q", name)
}

func (m ViscousMaterial) String() string { return m.name }

// Scale enlarges a part so it measures its nominal size once cooled.
func (m ViscousMaterial) Scale(s sdf.SDF3) sdf.SDF3 {
	if m.shrink == 0 {
		return s
	}
	return sdf.ScaleUniform3D(s, 1/(1-m.shrink))
}

// InternalDimScale returns the size to model an internal dimension (a hole
// diameter) at so the printed hole measures real.
func (m ViscousMaterial) InternalDimScale(real float64) (float64, error) {
	if real <= 0 {
		return 0, fmt.Errorf("internal dimension must be positive, got %g", real)
	}
	return real*(m.shrink+1) + m.pullShrink, nil
}
