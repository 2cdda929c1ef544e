package compile

import (
	"strings"

	"github.com/inkdoc/inkdoc/pkg/scene"
	"github.com/inkdoc/inkdoc/pkg/textmetrics"
	"github.com/inkdoc/inkdoc/pkg/units"
)

// baseFontName maps a logical family+weight+style to a reserved PDL
// base-14 font name, per spec §4.6.1's fixed variant table.
func baseFontName(family, weight, style string) string {
	bold := weight == "bold" || weight == "700" || weight == "800" || weight == "900"
	italic := style == "italic" || style == "oblique"

	switch fontClass(family) {
	case classMonospace:
		switch {
		case bold && italic:
			return "Courier-BoldOblique"
		case bold:
			return "Courier-Bold"
		case italic:
			return "Courier-Oblique"
		default:
			return "Courier"
		}
	case classSerif:
		switch {
		case bold && italic:
			return "Times-BoldItalic"
		case bold:
			return "Times-Bold"
		case italic:
			return "Times-Italic"
		default:
			return "Times-Roman"
		}
	default:
		switch {
		case bold && italic:
			return "Helvetica-BoldOblique"
		case bold:
			return "Helvetica-Bold"
		case italic:
			return "Helvetica-Oblique"
		default:
			return "Helvetica"
		}
	}
}

type fontClassKind int

const (
	classSans fontClassKind = iota
	classSerif
	classMonospace
)

func fontClass(family string) fontClassKind {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono") || strings.Contains(f, "courier") || strings.Contains(f, "consolas"):
		return classMonospace
	case strings.Contains(f, "serif") && !strings.Contains(f, "sans-serif"),
		strings.Contains(f, "times"), strings.Contains(f, "georgia"), strings.Contains(f, "garamond"):
		return classSerif
	default:
		return classSans
	}
}

// avgWidthFactor is the per-family average glyph-width-to-font-size
// ratio used for width estimation without a loaded face, per spec
// §4.6.1. A future embedded-font pass can override this with a
// textmetrics measurement.
func avgWidthFactor(family string) float64 {
	switch fontClass(family) {
	case classMonospace:
		return monospaceFactor
	case classSerif:
		return 0.45
	default:
		return 0.5
	}
}

// estimateWidth is spec §4.6.1's estimate_width fallback for families
// with no embedded font to measure exactly: Courier gets
// textmetrics.MonospaceWidth's per-rune cell width instead of the flat
// average factor, since go-runewidth already knows each rune's real
// terminal-cell width; every other family uses the flat factor.
func estimateWidth(text string, fontSize, factor float64) float64 {
	if factor == monospaceFactor {
		return textmetrics.MonospaceWidth(text, fontSize)
	}
	return float64(len([]rune(text))) * fontSize * factor
}

const monospaceFactor = 0.6

// renderText implements spec §4.6.1: simple text when no tspan child
// carries dx/dy/x/y, otherwise one BT..ET block with per-tspan
// positioning.
func (c *compiler) renderText(e *scene.Element, style *scene.Style) {
	if hasPositionedTspan(e) {
		c.renderPositionedText(e, style)
		return
	}

	x := units.ParseLength(firstAttrC(e, "x"), 0, style.FontSize, 0)
	y := units.ParseLength(firstAttrC(e, "y"), 0, style.FontSize, 0)
	text := e.Text
	font := baseFontName(style.FontFamily, style.FontWeight, style.FontStyle)
	factor := avgWidthFactor(style.FontFamily)
	width := estimateWidth(text, style.FontSize, factor)

	hScale := 100.0
	if tl, ok := e.Attr("textLength"); ok && width > 0 {
		target := units.ParseLength(tl, width, style.FontSize, width)
		hScale = target / width * 100
	}
	switch style.TextAnchor {
	case "middle":
		x -= width * (hScale / 100) / 2
	case "end":
		x -= width * (hScale / 100)
	}

	c.em.line("BT")
	c.em.op("/"+font, fnum(style.FontSize), "Tf")
	if hScale != 100 {
		c.em.op(fnum(hScale), "Tz")
	}
	c.em.op(fnum(x), fnum(y), "Td")
	c.em.op(fnums(style.Fill.Color.R, style.Fill.Color.G, style.Fill.Color.B), "rg")
	if gs := c.registerOpacityState(style); gs != "" {
		c.em.op("/"+gs, "gs")
	}
	c.em.line("(" + escapeString(text) + ") Tj")
	c.em.line("ET")

	c.emitTextDecoration(style, x, y, width)
}

func (c *compiler) renderPositionedText(e *scene.Element, style *scene.Style) {
	x0 := units.ParseLength(firstAttrC(e, "x"), 0, style.FontSize, 0)
	y0 := units.ParseLength(firstAttrC(e, "y"), 0, style.FontSize, 0)

	c.em.line("BT")
	lastX, lastY := 0.0, 0.0
	curX, curY := x0, y0

	emitRun := func(st *scene.Style, text string) {
		font := baseFontName(st.FontFamily, st.FontWeight, st.FontStyle)
		factor := avgWidthFactor(st.FontFamily)
		c.em.op("/"+font, fnum(st.FontSize), "Tf")
		c.em.op(fnum(curX-lastX), fnum(curY-lastY), "Td")
		c.em.op(fnums(st.Fill.Color.R, st.Fill.Color.G, st.Fill.Color.B), "rg")
		c.em.line("(" + escapeString(text) + ") Tj")
		lastX, lastY = curX, curY
		curX += estimateWidth(text, st.FontSize, factor)
	}

	if e.Text != "" {
		emitRun(style, e.Text)
	}

	for _, ch := range e.Children {
		if ch.Type != scene.TagTspan {
			continue
		}
		if v, ok := ch.Attr("x"); ok {
			curX = units.ParseLength(v, curX, ch.Style.FontSize, 0)
		} else if v, ok := ch.Attr("dx"); ok {
			curX += units.ParseLength(v, 0, ch.Style.FontSize, 0)
		}
		if v, ok := ch.Attr("y"); ok {
			curY = units.ParseLength(v, curY, ch.Style.FontSize, 0)
		} else if v, ok := ch.Attr("dy"); ok {
			curY += units.ParseLength(v, 0, ch.Style.FontSize, 0)
		}
		emitRun(ch.Style, ch.Text)
	}
	c.em.line("ET")
}

// hasPositionedTspan reports whether any tspan child carries dx, dy,
// x, or y, triggering spec §4.6.1's positioned-text path.
func hasPositionedTspan(e *scene.Element) bool {
	for _, ch := range e.Children {
		if ch.Type != scene.TagTspan {
			continue
		}
		for _, attr := range []string{"dx", "dy", "x", "y"} {
			if _, ok := ch.Attr(attr); ok {
				return true
			}
		}
	}
	return false
}

// emitTextDecoration draws an underline/overline/line-through segment
// after ET, at the y-offsets and thickness fraction given by spec
// §4.6.1.
func (c *compiler) emitTextDecoration(style *scene.Style, x, y, width float64) {
	var offsetFrac float64
	switch {
	case strings.Contains(style.TextDecoration, "underline"):
		offsetFrac = -0.10
	case strings.Contains(style.TextDecoration, "overline"):
		offsetFrac = 0.90
	case strings.Contains(style.TextDecoration, "line-through"):
		offsetFrac = 0.30
	default:
		return
	}
	ly := y - offsetFrac*style.FontSize
	c.em.op(fnum(style.Fill.Color.R), fnum(style.Fill.Color.G), fnum(style.Fill.Color.B), "RG")
	c.em.op(fnum(style.FontSize*0.05), "w")
	c.em.op(fnums(x, ly), "m")
	c.em.op(fnums(x+width, ly), "l")
	c.em.line("S")
}

func firstAttrC(e *scene.Element, name string) string {
	v, _ := e.Attr(name)
	return v
}
