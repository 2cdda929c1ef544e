package compile

import (
	"math"
	"strconv"

	"github.com/inkdoc/inkdoc/pkg/pathdata"
	"github.com/inkdoc/inkdoc/pkg/units"
)

// bbox is a shape's axis-aligned bounding box in local (pre-CTM)
// coordinates, fed to apply_fill_and_stroke for gradient/pattern
// coordinate resolution (spec §4.6 "Paint application").
type bbox struct {
	X, Y, W, H float64
	Valid      bool
}

// kappa is the cubic-Bezier circle approximation constant (spec §4.6).
const kappa = 0.5522847498

// pathLines is a shape's path-construction operators, built once and
// replayed into the content stream as many times as paint application
// needs (once for a plain fill/stroke, twice when a gradient-fill
// clip trick consumes the path before a separate stroke pass; spec
// §4.6 step 3).
type pathLines struct {
	lines []string
}

func (p *pathLines) op(parts ...string) {
	p.lines = append(p.lines, parts[0]+joinRest(parts[1:]))
}

func joinRest(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	s := ""
	for _, p := range parts {
		s += " " + p
	}
	return s
}

func (p *pathLines) writeTo(em *emitter) {
	for _, l := range p.lines {
		em.line(l)
	}
}

// buildRect builds a rectangle path, rounding corners with an
// 8-Bezier approximation when rx/ry are present, per spec §4.6.
func buildRect(x, y, w, h, rx, ry float64, rxSet, rySet bool) (*pathLines, bbox) {
	p := &pathLines{}
	if !rxSet && !rySet {
		p.op(fnums(x, y, w, h), "re")
		return p, bbox{x, y, w, h, true}
	}
	if rxSet && !rySet {
		ry = rx
	} else if rySet && !rxSet {
		rx = ry
	}
	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}

	kx, ky := rx*kappa, ry*kappa
	p.op(fnums(x+rx, y), "m")
	p.op(fnums(x+w-rx, y), "l")
	p.op(fnums(x+w-rx+kx, y), fnums(x+w, y+ry-ky), fnums(x+w, y+ry), "c")
	p.op(fnums(x+w, y+h-ry), "l")
	p.op(fnums(x+w, y+h-ry+ky), fnums(x+w-rx+kx, y+h), fnums(x+w-rx, y+h), "c")
	p.op(fnums(x+rx, y+h), "l")
	p.op(fnums(x+rx-kx, y+h), fnums(x, y+h-ry+ky), fnums(x, y+h-ry), "c")
	p.op(fnums(x, y+ry), "l")
	p.op(fnums(x, y+ry-ky), fnums(x+rx-kx, y), fnums(x+rx, y), "c")
	p.op("h")
	return p, bbox{x, y, w, h, true}
}

// buildEllipse builds a 4-Bezier ellipse centered at (cx,cy) with
// radii (rx,ry), per spec §4.6.
func buildEllipse(cx, cy, rx, ry float64) (*pathLines, bbox) {
	p := &pathLines{}
	kx, ky := rx*kappa, ry*kappa
	p.op(fnums(cx+rx, cy), "m")
	p.op(fnums(cx+rx, cy+ky), fnums(cx+kx, cy+ry), fnums(cx, cy+ry), "c")
	p.op(fnums(cx-kx, cy+ry), fnums(cx-rx, cy+ky), fnums(cx-rx, cy), "c")
	p.op(fnums(cx-rx, cy-ky), fnums(cx-kx, cy-ry), fnums(cx, cy-ry), "c")
	p.op(fnums(cx+kx, cy-ry), fnums(cx+rx, cy-ky), fnums(cx+rx, cy), "c")
	p.op("h")
	return p, bbox{cx - rx, cy - ry, 2 * rx, 2 * ry, true}
}

func buildLine(x1, y1, x2, y2 float64) (*pathLines, bbox) {
	p := &pathLines{}
	p.op(fnums(x1, y1), "m")
	p.op(fnums(x2, y2), "l")
	return p, boundsOfPoints([][2]float64{{x1, y1}, {x2, y2}})
}

func buildPolyPoints(points [][2]float64, closed bool) (*pathLines, bbox) {
	p := &pathLines{}
	if len(points) == 0 {
		return p, bbox{}
	}
	p.op(fnums(points[0][0], points[0][1]), "m")
	for _, pt := range points[1:] {
		p.op(fnums(pt[0], pt[1]), "l")
	}
	if closed {
		p.op("h")
	}
	return p, boundsOfPoints(points)
}

func boundsOfPoints(points [][2]float64) bbox {
	if len(points) == 0 {
		return bbox{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		if p[0] < minX {
			minX = p[0]
		}
		if p[0] > maxX {
			maxX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}
	return bbox{minX, minY, maxX - minX, maxY - minY, true}
}

// buildPath emits a parsed "d" command stream verbatim, per spec
// §4.4/§4.6.
func buildPath(d string) (*pathLines, bbox) {
	parsed := pathdata.Parse(d)
	p := &pathLines{}
	for _, seg := range parsed.Segments {
		switch s := seg.(type) {
		case pathdata.MoveTo:
			p.op(fnums(s.X, s.Y), "m")
		case pathdata.LineTo:
			p.op(fnums(s.X, s.Y), "l")
		case pathdata.CurveTo:
			p.op(fnums(s.X1, s.Y1), fnums(s.X2, s.Y2), fnums(s.X3, s.Y3), "c")
		case pathdata.ClosePath:
			p.op("h")
		}
	}
	bb := pathdata.BoundingBox(d)
	return p, bbox{bb.X, bb.Y, bb.W, bb.H, bb.Valid}
}

// parsePoints parses a polyline/polygon "points" attribute into
// coordinate pairs, tolerant of comma or whitespace separators
// (units.ParseList's field splitter, same as everywhere else a
// separator-tolerant number list is needed).
func parsePoints(s string) [][2]float64 {
	fields := units.ParseList(s, 0)
	var out [][2]float64
	for i := 0; i+1 < len(fields); i += 2 {
		x, err1 := strconv.ParseFloat(fields[i], 64)
		y, err2 := strconv.ParseFloat(fields[i+1], 64)
		if err1 == nil && err2 == nil {
			out = append(out, [2]float64{x, y})
		}
	}
	return out
}
