package xform

import "math"

import "testing"

func approxEq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestIdentity(t *testing.T) {
	m := Identity()
	if !m.IsIdentity() {
		t.Errorf("Identity() should be identity, got %+v", m)
	}
}

func TestParseTransformTranslate(t *testing.T) {
	m := ParseTransform("translate(10,20)")
	x, y := m.Transform(0, 0)
	if !approxEq(x, 10) || !approxEq(y, 20) {
		t.Errorf("translate(10,20) applied to origin = (%v,%v), want (10,20)", x, y)
	}
}

func TestParseTransformComposition(t *testing.T) {
	// translate then scale, textual left-to-right: point (1,0) scaled
	// by 2 then translated by (10,0) per spec composition rule -> (12,0)
	m := ParseTransform("translate(10,0) scale(2)")
	x, y := m.Transform(1, 0)
	if !approxEq(x, 12) || !approxEq(y, 0) {
		t.Errorf("composed transform (1,0) = (%v,%v), want (12,0)", x, y)
	}
}

func TestParseTransformRoundTrip(t *testing.T) {
	// Scene round-trip property: parse(s) applied to a point equals the
	// manually composed matrix applied to the same point.
	s := "translate(5,7) rotate(30) scale(2,3)"
	m := ParseTransform(s)
	manual := Translation(5, 7).Multiply(RotationDegrees(30)).Multiply(Scale(2, 3))
	x1, y1 := m.Transform(3, 4)
	x2, y2 := manual.Transform(3, 4)
	if !approxEq(x1, x2) || !approxEq(y1, y2) {
		t.Errorf("parsed vs manual matrix diverge: (%v,%v) vs (%v,%v)", x1, y1, x2, y2)
	}
}

func TestInvert(t *testing.T) {
	m := Translation(10, 20).Multiply(Scale(2, 4))
	inv, err := m.Invert()
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	x, y := m.Transform(3, 5)
	x2, y2 := inv.Transform(x, y)
	if !approxEq(x2, 3) || !approxEq(y2, 5) {
		t.Errorf("Invert round trip = (%v,%v), want (3,5)", x2, y2)
	}
}

func TestRotatePivot(t *testing.T) {
	m := ParseTransform("rotate(90,10,10)")
	x, y := m.Transform(10, 0)
	if !approxEq(x, 20) || !approxEq(y, 10) {
		t.Errorf("rotate(90,10,10) on (10,0) = (%v,%v), want (20,10)", x, y)
	}
}
