package compile

import "github.com/inkdoc/inkdoc/pkg/scene"

// applyFillAndStroke implements spec §4.6's apply_fill_and_stroke,
// first emitting the simplified drop-shadow copy spec §1 names as the
// one supported `<filter>` approximation, if style references a
// filter recognized as one: it replays path's construction operators
// as many times as needed and emits the paint operators and final
// painting op. A path with neither fill nor stroke is dropped with an
// implicit "n".
func (c *compiler) applyFillAndStroke(path *pathLines, style *scene.Style, bb bbox) {
	c.emitDropShadow(path, style)
	c.paintPath(path, style, bb)
}

// emitDropShadow draws an offset copy of path flood-filled with the
// filter's color, beneath the shape's own paint. This is an
// approximation only: it ignores stdDeviation entirely rather than
// blurring, per spec §1's "simplified offset-copy drop shadow".
func (c *compiler) emitDropShadow(path *pathLines, style *scene.Style) {
	if style.Filter == "" {
		return
	}
	f, ok := c.doc.Filters[style.Filter]
	if !ok || !f.IsDropShadow {
		return
	}
	c.em.line("q")
	c.em.op(fnums(1, 0, 0, 1, f.DX, f.DY), "cm")
	path.writeTo(c.em)
	c.em.op(fnums(f.FloodColor.R, f.FloodColor.G, f.FloodColor.B), "rg")
	if f.FloodOpacity < 1 {
		blob := []byte("<< /ca " + fnum(f.FloodOpacity) + " >>")
		c.em.op("/"+c.res.addGraphicsState(blob), "gs")
	}
	if style.FillRule == scene.FillEvenOdd {
		c.em.line("f*")
	} else {
		c.em.line("f")
	}
	c.em.line("Q")
}

func (c *compiler) paintPath(path *pathLines, style *scene.Style, bb bbox) {
	fillKind := style.Fill.Kind
	strokeKind := style.Stroke.Kind

	if fillKind == scene.PaintNone && strokeKind == scene.PaintNone {
		path.writeTo(c.em)
		c.em.line("n")
		return
	}

	doFill := fillKind != scene.PaintNone
	doStroke := strokeKind != scene.PaintNone
	pathConsumed := false

	// Gradient fill consumes the path via a clip-and-shade trick (spec
	// §4.6 step 3), so it always gets its own path replay and its own
	// q/W n/sh/Q block; any stroke is a second, independent pass. The
	// "n" inside that block already terminates the path, so nothing
	// below may assume a live path unless it replays one itself.
	if doFill && fillKind == scene.PaintGradientRef && bb.Valid {
		if g, ok := c.doc.Gradients[style.Fill.RefID]; ok {
			name := c.res.addShading(buildShading(g, bb))
			c.em.line("q")
			path.writeTo(c.em)
			if style.FillRule == scene.FillEvenOdd {
				c.em.line("W*")
			} else {
				c.em.line("W")
			}
			c.em.line("n")
			c.em.op("/" + name, "sh")
			c.em.line("Q")
			pathConsumed = true
		}
		doFill = false
	}

	if doFill && fillKind == scene.PaintPatternRef {
		if pt, ok := c.doc.Patterns[style.Fill.RefID]; ok {
			name := c.buildTilingPattern(pt)
			path.writeTo(c.em)
			c.em.line("/Pattern cs")
			c.em.op("/"+name, "scn")
			doFill = true
		} else {
			doFill = false
		}
	} else if doFill && fillKind == scene.PaintSolid {
		path.writeTo(c.em)
		c.em.op(fnums(style.Fill.Color.R, style.Fill.Color.G, style.Fill.Color.B), "rg")
	} else if doFill {
		doFill = false
	}

	opacityName := c.registerOpacityState(style)
	if opacityName != "" {
		c.em.op("/"+opacityName, "gs")
	}

	if doStroke {
		if !doFill {
			path.writeTo(c.em)
		}
		if strokeKind == scene.PaintSolid {
			c.em.op(fnums(style.Stroke.Color.R, style.Stroke.Color.G, style.Stroke.Color.B), "RG")
		}
		c.em.op(fnum(style.StrokeWidth), "w")
		c.em.op(fnum(lineCapCode(style.LineCap)), "J")
		c.em.op(fnum(lineJoinCode(style.LineJoin)), "j")
		c.em.op(fnum(style.MiterLimit), "M")
		if style.DashArray != "" {
			c.em.op("["+dashArrayOperand(style.DashArray)+"]", fnum(style.DashOffset), "d")
		}
	}

	switch {
	case doFill && doStroke:
		if style.FillRule == scene.FillEvenOdd {
			c.em.line("B*")
		} else {
			c.em.line("B")
		}
	case doFill:
		if style.FillRule == scene.FillEvenOdd {
			c.em.line("f*")
		} else {
			c.em.line("f")
		}
	case doStroke:
		c.em.line("S")
	case pathConsumed:
		// Gradient block already closed the path with its own "n".
	default:
		c.em.line("n")
	}
}

func lineCapCode(v string) float64 {
	switch v {
	case "round":
		return 1
	case "square":
		return 2
	default:
		return 0
	}
}

func lineJoinCode(v string) float64 {
	switch v {
	case "round":
		return 1
	case "bevel":
		return 2
	default:
		return 0
	}
}

func dashArrayOperand(raw string) string {
	fields := splitDash(raw)
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += " "
		}
		out += f
	}
	return out
}

func splitDash(s string) []string {
	var fields []string
	var cur []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ',' || c == ' ' {
			if len(cur) > 0 {
				fields = append(fields, string(cur))
				cur = cur[:0]
			}
			continue
		}
		cur = append(cur, c)
	}
	if len(cur) > 0 {
		fields = append(fields, string(cur))
	}
	return fields
}

// registerOpacityState registers an extended-graphics-state record
// when fill-opacity*opacity or stroke-opacity*opacity is below 1, per
// spec §4.6 step 2.
func (c *compiler) registerOpacityState(style *scene.Style) string {
	ca := style.FillOpacity * style.Opacity
	CA := style.StrokeOpacity * style.Opacity
	if ca >= 1 && CA >= 1 {
		return ""
	}
	blob := []byte("<< /ca " + fnum(ca) + " /CA " + fnum(CA) + " >>")
	return c.res.addGraphicsState(blob)
}
