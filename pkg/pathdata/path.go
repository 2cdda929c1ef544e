// Package pathdata tokenizes SVG-style path "d" data into a command
// stream of move/line/curve/close operations, converting quadratic
// curves and elliptical arcs to cubic Bezier segments, and computes a
// conservative bounding box over the same stream.
package pathdata

// Segment is one PDL path-construction command.
type Segment interface {
	isSegment()
}

type MoveTo struct{ X, Y float64 }
type LineTo struct{ X, Y float64 }
type CurveTo struct{ X1, Y1, X2, Y2, X3, Y3 float64 }
type ClosePath struct{}

func (MoveTo) isSegment()    {}
func (LineTo) isSegment()    {}
func (CurveTo) isSegment()   {}
func (ClosePath) isSegment() {}

// Path is an ordered command stream (no subpath grouping needed beyond
// what MoveTo/ClosePath already imply for the emitter).
type Path struct {
	Segments []Segment
}

func (p *Path) moveTo(x, y float64)                               { p.Segments = append(p.Segments, MoveTo{x, y}) }
func (p *Path) lineTo(x, y float64)                                { p.Segments = append(p.Segments, LineTo{x, y}) }
func (p *Path) curveTo(x1, y1, x2, y2, x3, y3 float64) {
	p.Segments = append(p.Segments, CurveTo{x1, y1, x2, y2, x3, y3})
}
func (p *Path) closePath() { p.Segments = append(p.Segments, ClosePath{}) }

func (p *Path) IsEmpty() bool { return len(p.Segments) == 0 }
