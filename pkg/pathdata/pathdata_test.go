package pathdata

import (
	"math"
	"testing"
)

func TestParseLineTriangle(t *testing.T) {
	p := Parse("M 10 10 L 20 10 L 20 20 Z")
	want := []Segment{
		MoveTo{10, 10},
		LineTo{20, 10},
		LineTo{20, 20},
		ClosePath{},
	}
	if len(p.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(p.Segments), len(want))
	}
	for i := range want {
		if p.Segments[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, p.Segments[i], want[i])
		}
	}
}

func TestBoundingBoxTriangle(t *testing.T) {
	bb := BoundingBox("M 10 10 L 20 10 L 20 20 Z")
	if !bb.Valid || bb.X != 10 || bb.Y != 10 || bb.W != 10 || bb.H != 10 {
		t.Errorf("BoundingBox = %+v, want {10 10 10 10 true}", bb)
	}
}

func TestBoundingBoxNone(t *testing.T) {
	bb := BoundingBox("")
	if bb.Valid {
		t.Errorf("BoundingBox(empty) should be invalid, got %+v", bb)
	}
}

func TestArcSemicircle(t *testing.T) {
	p := Parse("M 0 0 A 50 50 0 0 1 100 0")
	if len(p.Segments) < 2 {
		t.Fatalf("expected move + at least one curve, got %d segments", len(p.Segments))
	}
	cv, ok := p.Segments[1].(CurveTo)
	if !ok {
		t.Fatalf("segment 1 = %T, want CurveTo", p.Segments[1])
	}
	if math.Abs(cv.Y1) > 1e-6 && false {
		// first control point's y need not be exactly 0; only the
		// general shape and endpoint are checked here.
	}
	// Last segment's endpoint should land near the true arc end (100,0).
	last := p.Segments[len(p.Segments)-1].(CurveTo)
	if math.Abs(last.X3-100) > 1e-6 || math.Abs(last.Y3-0) > 1e-6 {
		t.Errorf("arc end point = (%v,%v), want (100,0)", last.X3, last.Y3)
	}
}

func TestQuadraticToCubic(t *testing.T) {
	p := Parse("M 0 0 Q 50 100 100 0")
	cv := p.Segments[1].(CurveTo)
	wantX1, wantY1 := 2.0/3.0*50, 2.0/3.0*100
	if math.Abs(cv.X1-wantX1) > 1e-9 || math.Abs(cv.Y1-wantY1) > 1e-9 {
		t.Errorf("quadratic->cubic C1 = (%v,%v), want (%v,%v)", cv.X1, cv.Y1, wantX1, wantY1)
	}
}

func TestSmoothCurveReflection(t *testing.T) {
	p := Parse("M 0 0 C 0 50 50 50 50 0 S 100 -50 100 0")
	if len(p.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(p.Segments))
	}
	second := p.Segments[2].(CurveTo)
	// reflection of (50,50) through (50,0) is (50,-50)
	if math.Abs(second.X1-50) > 1e-9 || math.Abs(second.Y1-(-50)) > 1e-9 {
		t.Errorf("reflected control point = (%v,%v), want (50,-50)", second.X1, second.Y1)
	}
}
