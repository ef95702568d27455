package sdf

import (
	"math"
	"testing"

	"github.com/soypat/pcbbox/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestBox3D(t *testing.T) {
	box, err := Box3D(r3.Vec{X: 4, Y: 2, Z: 1}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		p    r3.Vec
		want float64
	}{
		{r3.Vec{}, -0.5},
		{r3.Vec{X: 3}, 1},
		{r3.Vec{Y: 1}, 0},
		{r3.Vec{X: 3, Y: 2}, math.Hypot(1, 1)},
	} {
		got := box.Evaluate(test.p)
		if math.Abs(got-test.want) > tol {
			t.Errorf("Evaluate(%v) = %g, want %g", test.p, got, test.want)
		}
	}
	bb := box.Bounds()
	if !d3.EqualWithin(bb.Max, r3.Vec{X: 2, Y: 1, Z: 0.5}, tol) {
		t.Errorf("bad bounds max %v", bb.Max)
	}
}

func TestPrimitiveErrors(t *testing.T) {
	if _, err := Box3D(r3.Vec{X: 1, Y: 0, Z: 1}, 0); err == nil {
		t.Error("expected error for zero size box")
	}
	if _, err := Box3D(r3.Vec{X: 1, Y: 1, Z: 1}, 0.6); err == nil {
		t.Error("expected error for excessive rounding")
	}
	if _, err := Cylinder3D(1, -1, 0); err == nil {
		t.Error("expected error for negative radius")
	}
	if _, err := Circle2D(0); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := Box2D(r2.Vec{X: 1, Y: 1}, -1); err == nil {
		t.Error("expected error for negative rounding")
	}
	if _, err := Polygon2D([]r2.Vec{{}, {X: 1}}); err == nil {
		t.Error("expected error for two vertex polygon")
	}
}

func TestCylinder3D(t *testing.T) {
	cyl, err := Cylinder3D(2, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d := cyl.Evaluate(r3.Vec{X: 2}); math.Abs(d-1) > tol {
		t.Errorf("radial distance got %g, want 1", d)
	}
	if d := cyl.Evaluate(r3.Vec{Z: 3}); math.Abs(d-2) > tol {
		t.Errorf("axial distance got %g, want 2", d)
	}
	if d := cyl.Evaluate(r3.Vec{}); d >= 0 {
		t.Errorf("center should be inside, got %g", d)
	}
}

func TestPolygon2D(t *testing.T) {
	square, err := Polygon2D([]r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}})
	if err != nil {
		t.Fatal(err)
	}
	box, _ := Box2D(r2.Vec{X: 2, Y: 2}, 0)
	for _, p := range []r2.Vec{{}, {X: 2}, {X: 0.5, Y: -0.25}, {X: -3, Y: 3}} {
		got, want := square.Evaluate(p), box.Evaluate(p)
		if math.Abs(got-want) > tol {
			t.Errorf("polygon(%v)=%g, box=%g", p, got, want)
		}
	}
}

func TestDifferenceAndUnion(t *testing.T) {
	outer, _ := Box3D(r3.Vec{X: 10, Y: 10, Z: 10}, 0)
	inner, _ := Box3D(r3.Vec{X: 8, Y: 8, Z: 8}, 0)
	shell := Difference3D(outer, inner)
	if d := shell.Evaluate(r3.Vec{}); d <= 0 {
		t.Errorf("shell center should be outside, got %g", d)
	}
	if d := shell.Evaluate(r3.Vec{X: 4.5}); d >= 0 {
		t.Errorf("shell wall should be inside, got %g", d)
	}
	post, _ := Cylinder3D(8, 1, 0)
	u := Union3D(shell, post)
	if d := u.Evaluate(r3.Vec{}); d >= 0 {
		t.Errorf("union should contain post, got %g", d)
	}
	// Near the post foot both surfaces are within the blend radius.
	foot := r3.Vec{X: 1.1, Z: -3.9}
	if d := u.Evaluate(foot); d <= 0 {
		t.Errorf("sharp union should leave the corner empty, got %g", d)
	}
	u.SetMin(PolyMin(0.5))
	if d := u.Evaluate(foot); math.Abs(d-(-0.025)) > 1e-9 {
		t.Errorf("blended union should fillet the post foot, got %g want -0.025", d)
	}
	if d := u.Evaluate(r3.Vec{X: 1.1}); math.Abs(d-0.1) > 1e-9 {
		t.Errorf("blend should not reach far from the shell, got %g", d)
	}
}

func TestArray2D(t *testing.T) {
	circle, _ := Circle2D(0.25)
	arr := Array2D(circle, V2i{3, 2}, r2.Vec{X: 1, Y: 2})
	// centers at x = -1, 0, 1 and y = -1, 1.
	for _, c := range []r2.Vec{{X: -1, Y: -1}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
		if d := arr.Evaluate(c); math.Abs(d+0.25) > tol {
			t.Errorf("element at %v: got %g, want -0.25", c, d)
		}
	}
	if d := arr.Evaluate(r2.Vec{X: 2, Y: 1}); math.Abs(d-0.75) > tol {
		t.Errorf("distance past last column got %g, want 0.75", d)
	}
	bb := arr.Bounds()
	if math.Abs(bb.Min.X+1.25) > tol || math.Abs(bb.Max.Y-1.25) > tol {
		t.Errorf("bad array bounds %+v", bb)
	}
	// brute force comparison against a union of the individual elements.
	var elems []SDF2
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			elems = append(elems, Translate2(circle, r2.Vec{X: float64(i) - 1, Y: 2*float64(j) - 1}))
		}
	}
	brute := Union2D(elems...)
	for _, p := range []r2.Vec{{X: 0.3, Y: 0.1}, {X: -0.6, Y: -1.2}, {X: 0.9, Y: 0.9}} {
		got, want := arr.Evaluate(p), brute.Evaluate(p)
		if d := math.Abs(got - want); d > tol && !(got > 0 && want > 0) {
			t.Errorf("array(%v)=%g, union=%g", p, got, want)
		}
	}
}

func TestTransform3D(t *testing.T) {
	box, _ := Box3D(r3.Vec{X: 2, Y: 2, Z: 2}, 0)
	moved := Translate(Translate(box, r3.Vec{X: 5}), r3.Vec{Y: 5})
	if d := moved.Evaluate(r3.Vec{X: 5, Y: 5}); math.Abs(d+1) > tol {
		t.Errorf("translated center got %g, want -1", d)
	}
	if _, ok := moved.(*transform3); !ok {
		t.Fatal("expected transform3")
	}
	if inner := moved.(*transform3).sdf; inner != box {
		t.Error("nested transforms were not collapsed")
	}
	rot := Transform3D(box, RotateZ(math.Pi/4).Mul(Translate3D(r3.Vec{X: 3})))
	p := RotateZ(math.Pi / 4).MulPosition(r3.Vec{X: 3})
	if d := rot.Evaluate(p); math.Abs(d+1) > tol {
		t.Errorf("rotated center got %g, want -1", d)
	}
}

func TestMatrixInverse(t *testing.T) {
	m := Translate3D(r3.Vec{X: 1, Y: 2, Z: 3}).Mul(RotateX(0.3)).Mul(RotateY(-1.1)).Mul(Scale3D(r3.Vec{X: 2, Y: 1, Z: 0.5}))
	if !m.Mul(m.Inverse()).Equals(Identity3D(), 1e-12) {
		t.Error("m * m^-1 is not identity")
	}
	mirror := MirrorXZ()
	if p := mirror.MulPosition(r3.Vec{X: 1, Y: 2, Z: 3}); !d3.EqualWithin(p, r3.Vec{X: 1, Y: -2, Z: 3}, tol) {
		t.Errorf("mirror got %v", p)
	}
	m2 := Translate2D(r2.Vec{X: 3}).Mul(Rotate2D(1)).Mul(MirrorY())
	p := r2.Vec{X: 0.3, Y: -7}
	back := m2.Inverse().MulPosition(m2.MulPosition(p))
	if math.Abs(back.X-p.X) > tol || math.Abs(back.Y-p.Y) > tol {
		t.Errorf("2d inverse roundtrip got %v, want %v", back, p)
	}
}

func TestExtrudeAndCut(t *testing.T) {
	sq, _ := Box2D(r2.Vec{X: 2, Y: 2}, 0)
	ext := Extrude3D(sq, 4)
	if d := ext.Evaluate(r3.Vec{Z: 3}); math.Abs(d-1) > tol {
		t.Errorf("extrude distance got %g, want 1", d)
	}
	if _, ok := Extrude3D(sq, 0).(empty3); !ok {
		t.Error("zero height extrude should be empty")
	}
	cut := Cut3D(ext, r3.Vec{}, r3.Vec{Z: 1})
	if d := cut.Evaluate(r3.Vec{Z: -1}); d <= 0 {
		t.Errorf("cut region should be outside, got %g", d)
	}
	if bb := cut.Bounds(); bb.Min.Z != 0 {
		t.Errorf("cut bounds min z got %g, want 0", bb.Min.Z)
	}
	rounded := ExtrudeRounded3D(Offset2D(sq, -0.2), 4, 0.2)
	if d := rounded.Evaluate(r3.Vec{X: 1, Z: 0}); math.Abs(d) > 1e-6 {
		t.Errorf("rounded extrude side should be on surface, got %g", d)
	}
}
