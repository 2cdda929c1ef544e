package pathdata

import "math"

// BBox is an axis-aligned bounding box; Valid is false when no points
// were recorded (spec's "bounding_box(d) -> ... | none").
type BBox struct {
	X, Y, W, H float64
	Valid      bool
}

// BoundingBox walks the parsed command stream, tracking min/max over
// every endpoint and, conservatively, every control point (no true
// cubic extremum analysis), per spec §4.4.
func BoundingBox(d string) BBox {
	p := Parse(d)
	return boundingBoxOf(p)
}

func boundingBoxOf(p *Path) BBox {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	have := false

	track := func(x, y float64) {
		have = true
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case MoveTo:
			track(s.X, s.Y)
		case LineTo:
			track(s.X, s.Y)
		case CurveTo:
			track(s.X1, s.Y1)
			track(s.X2, s.Y2)
			track(s.X3, s.Y3)
		case ClosePath:
			// no coordinate carried
		}
	}

	if !have {
		return BBox{}
	}
	return BBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY, Valid: true}
}
