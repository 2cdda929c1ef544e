package compile

import (
	"math"

	"github.com/inkdoc/inkdoc/pkg/paint"
	"github.com/inkdoc/inkdoc/pkg/pathdata"
	"github.com/inkdoc/inkdoc/pkg/scene"
	"github.com/inkdoc/inkdoc/pkg/xform"
)

// vertex is one path endpoint with its incoming/outgoing tangent
// angles (degrees), per spec §4.6 "Markers".
type vertex struct {
	X, Y               float64
	InAngle, OutAngle  float64
	HasIn, HasOut      bool
}

// extractVertices runs the vertex extractor described in spec §4.6
// over a path's "d" string: each endpoint records the incoming
// tangent (from the previous point) and the outgoing tangent
// (overwritten once the next vertex arrives).
func extractVertices(d string) []vertex {
	p := pathdata.Parse(d)
	var verts []vertex
	curX, curY := 0.0, 0.0

	setOut := func(dx, dy float64) {
		if len(verts) == 0 || (dx == 0 && dy == 0) {
			return
		}
		ang := math.Atan2(dy, dx) * 180 / math.Pi
		verts[len(verts)-1].OutAngle = ang
		verts[len(verts)-1].HasOut = true
	}

	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case pathdata.MoveTo:
			verts = append(verts, vertex{X: s.X, Y: s.Y})
			curX, curY = s.X, s.Y
		case pathdata.LineTo:
			setOut(s.X-curX, s.Y-curY)
			v := vertex{X: s.X, Y: s.Y}
			if len(verts) > 0 {
				v.InAngle, v.HasIn = verts[len(verts)-1].OutAngle, true
			}
			verts = append(verts, v)
			curX, curY = s.X, s.Y
		case pathdata.CurveTo:
			odx, ody := s.X1-curX, s.Y1-curY
			if odx == 0 && ody == 0 {
				odx, ody = s.X3-curX, s.Y3-curY
			}
			setOut(odx, ody)

			idx, idy := s.X3-s.X2, s.Y3-s.Y2
			if idx == 0 && idy == 0 {
				idx, idy = s.X3-curX, s.Y3-curY
			}
			inAngle := math.Atan2(idy, idx) * 180 / math.Pi
			verts = append(verts, vertex{X: s.X3, Y: s.Y3, InAngle: inAngle, HasIn: true})
			curX, curY = s.X3, s.Y3
		case pathdata.ClosePath:
			// No coordinate carried; tangent continuity at the closing
			// point isn't tracked (markers don't apply to the implicit
			// closing segment).
		}
	}
	return verts
}

// renderMarkers places marker-start/mid/end content at a path's
// vertices, per spec §4.6.
func (c *compiler) renderMarkers(style *scene.Style, d string) {
	if style.MarkerStart == "" && style.MarkerMid == "" && style.MarkerEnd == "" {
		return
	}
	verts := extractVertices(d)
	for i, v := range verts {
		var refID string
		switch {
		case i == 0:
			refID = style.MarkerStart
		case i == len(verts)-1:
			refID = style.MarkerEnd
		default:
			refID = style.MarkerMid
		}
		if refID == "" {
			continue
		}
		mk, ok := c.doc.Markers[refID]
		if !ok {
			continue
		}
		c.renderMarkerAt(mk, v, i == 0, style)
	}
}

func (c *compiler) renderMarkerAt(mk *paint.Marker, v vertex, isStart bool, style *scene.Style) {
	var angle float64
	switch mk.Orient {
	case paint.OrientAuto:
		if isStart {
			if v.HasOut {
				angle = v.OutAngle
			}
		} else if v.HasIn {
			angle = v.InAngle
		} else if v.HasOut {
			angle = v.OutAngle
		}
	case paint.OrientAutoStartReverse:
		if isStart {
			if v.HasOut {
				angle = v.OutAngle + 180
			}
		} else if v.HasIn {
			angle = v.InAngle
		}
	case paint.OrientAngle:
		angle = mk.OrientAngleDegrees
	}

	c.em.line("q")
	c.em.op(fnums(1, 0, 0, 1, v.X, v.Y), "cm")
	if angle != 0 {
		c.em.op(xform.RotationDegrees(angle).String(), "cm")
	}
	if mk.Units == paint.MarkerUnitsStrokeWidth {
		sw := style.StrokeWidth
		c.em.op(fnums(sw, 0, 0, sw, 0, 0), "cm")
	}
	if mk.HasViewBox && mk.ViewBox[2] > 0 && mk.ViewBox[3] > 0 {
		sx := mk.Width / mk.ViewBox[2]
		sy := mk.Height / mk.ViewBox[3]
		c.em.op(fnums(sx, 0, 0, sy, -mk.ViewBox[0]*sx, -mk.ViewBox[1]*sy), "cm")
	}
	c.em.op(fnums(1, 0, 0, 1, -mk.RefX, -mk.RefY), "cm")

	if el, ok := c.doc.Definitions[mk.ID]; ok {
		for _, ch := range el.Children {
			c.render(ch, ch.Style)
		}
	}
	c.em.line("Q")
}
