package scene

import (
	"strings"

	"github.com/inkdoc/inkdoc/pkg/color"
	"github.com/inkdoc/inkdoc/pkg/units"
)

type FillRule int

const (
	FillNonzero FillRule = iota
	FillEvenOdd
)

// PaintRefKind classifies a fill/stroke value, per §4.6 "apply_fill_and_stroke".
type PaintRefKind int

const (
	PaintNone PaintRefKind = iota
	PaintSolid
	PaintGradientRef
	PaintPatternRef
)

type Paint struct {
	Kind  PaintRefKind
	Color color.RGB // valid when Kind == PaintSolid
	RefID string    // valid when Kind == PaintGradientRef/PaintPatternRef
}

// Style is the flat presentation-property record described in spec §3.
// Absent values carry sentinel meanings (e.g. Stroke.Kind == PaintNone
// means no stroke is painted; an absent stroke and an explicit "none"
// both produce it).
type Style struct {
	Fill          Paint
	FillOpacity   float64
	FillRule      FillRule
	Stroke        Paint
	StrokeOpacity float64
	StrokeWidth   float64
	LineCap       string
	LineJoin      string
	MiterLimit    float64
	DashArray     string
	DashOffset    float64
	Opacity       float64
	Display       string
	Visibility    string
	FontFamily    string
	FontSize      float64
	FontWeight    string
	FontStyle     string
	TextAnchor    string
	TextDecoration string
	Color         color.RGB
	ClipPath      string
	Mask          string
	MarkerStart   string
	MarkerMid     string
	MarkerEnd     string
	Filter        string
}

// DefaultStyle is the root style per spec §3 defaults.
func DefaultStyle() *Style {
	return &Style{
		Fill:          Paint{Kind: PaintSolid, Color: color.Black},
		FillOpacity:   1,
		FillRule:      FillNonzero,
		Stroke:        Paint{Kind: PaintNone},
		StrokeOpacity: 1,
		StrokeWidth:   1,
		LineCap:       "butt",
		LineJoin:      "miter",
		MiterLimit:    4,
		Opacity:       1,
		Display:       "inline",
		Visibility:    "visible",
		FontFamily:    "sans-serif",
		FontSize:      16,
		FontWeight:    "normal",
		FontStyle:     "normal",
		TextAnchor:    "start",
		Color:         color.Black,
	}
}

// Clone deep-copies the style for the "clone parent, overlay child"
// cascade step (spec §4.1 step 3), the same pattern the teacher uses
// for graphics-state push (clone-on-push).
func (s *Style) Clone() *Style {
	c := *s
	return &c
}

// overlayPresentationAttr overlays one recognized presentation
// attribute (spec §4.1 step 3) onto style, given the element's own
// font-size (already resolved) for em-relative properties.
func overlayPresentationAttr(st *Style, name, value string) {
	switch name {
	case "fill":
		st.Fill = parsePaintFillStroke(value, st.Fill, st.Color)
	case "fill-opacity":
		st.FillOpacity = units.ParseLength(value, st.FillOpacity, st.FontSize, 1)
	case "fill-rule":
		st.FillRule = parseFillRule(value)
	case "stroke":
		st.Stroke = parsePaintFillStroke(value, st.Stroke, st.Color)
	case "stroke-opacity":
		st.StrokeOpacity = units.ParseLength(value, st.StrokeOpacity, st.FontSize, 1)
	case "stroke-width":
		st.StrokeWidth = units.ParseLength(value, 1, st.FontSize, 1)
	case "stroke-linecap":
		st.LineCap = value
	case "stroke-linejoin":
		st.LineJoin = value
	case "stroke-miterlimit":
		st.MiterLimit = units.ParseLength(value, st.MiterLimit, st.FontSize, 1)
	case "stroke-dasharray":
		st.DashArray = value
	case "stroke-dashoffset":
		st.DashOffset = units.ParseLength(value, st.DashOffset, st.FontSize, 1)
	case "opacity":
		st.Opacity = units.ParseLength(value, st.Opacity, st.FontSize, 1)
	case "display":
		st.Display = value
	case "visibility":
		st.Visibility = value
	case "font-family":
		st.FontFamily = value
	case "font-size":
		st.FontSize = units.ParseLength(value, 16, st.FontSize, st.FontSize)
	case "font-weight":
		st.FontWeight = value
	case "font-style":
		st.FontStyle = value
	case "text-anchor":
		st.TextAnchor = value
	case "text-decoration":
		st.TextDecoration = value
	case "color":
		st.Color = color.Parse(value, st.Color)
	case "clip-path":
		st.ClipPath = extractURLRef(value)
	case "mask":
		st.Mask = extractURLRef(value)
	case "marker-start":
		st.MarkerStart = extractURLRef(value)
	case "marker-mid":
		st.MarkerMid = extractURLRef(value)
	case "marker-end":
		st.MarkerEnd = extractURLRef(value)
	case "filter":
		st.Filter = extractURLRef(value)
	}
}

func parsePaintFillStroke(raw string, cur Paint, currentColor color.RGB) Paint {
	v := strings.TrimSpace(raw)
	switch v {
	case "none":
		return Paint{Kind: PaintNone}
	case "currentColor":
		return Paint{Kind: PaintSolid, Color: currentColor}
	}
	if strings.HasPrefix(v, "url(") {
		close := strings.Index(v, ")")
		if close < 0 {
			return Paint{Kind: PaintNone}
		}
		ref := strings.Trim(v[4:close], "'\" ")
		ref = strings.TrimPrefix(ref, "#")
		if ref == "" {
			return cur
		}
		return Paint{Kind: PaintGradientRef, RefID: ref}
	}
	return Paint{Kind: PaintSolid, Color: color.Parse(v, color.Black)}
}

func parseFillRule(v string) FillRule {
	if strings.TrimSpace(v) == "evenodd" {
		return FillEvenOdd
	}
	return FillNonzero
}

func extractURLRef(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") {
		return ""
	}
	close := strings.Index(v, ")")
	if close < 0 {
		return ""
	}
	ref := strings.Trim(v[4:close], "'\" ")
	return strings.TrimPrefix(ref, "#")
}

// presentationAttrNames lists every attribute name recognized as a
// presentation attribute (as opposed to a geometry attribute like
// x/y/width which is shape-specific and read separately by the
// compiler).
var presentationAttrNames = []string{
	"fill", "fill-opacity", "fill-rule",
	"stroke", "stroke-opacity", "stroke-width", "stroke-linecap",
	"stroke-linejoin", "stroke-miterlimit", "stroke-dasharray", "stroke-dashoffset",
	"opacity", "display", "visibility",
	"font-family", "font-size", "font-weight", "font-style",
	"text-anchor", "text-decoration", "color",
	"clip-path", "mask", "marker-start", "marker-mid", "marker-end", "filter",
}

// ApplyPresentationAttrs overlays every recognized presentation
// attribute present on attrs onto st, in the fixed declaration order
// above (stable, so later CSS overlay still wins ties per §4.5).
func ApplyPresentationAttrs(st *Style, attrs map[string]string) {
	// font-size must be resolved before any property that might be
	// expressed in em units on the same element.
	if v, ok := attrs["font-size"]; ok {
		overlayPresentationAttr(st, "font-size", v)
	}
	for _, name := range presentationAttrNames {
		if name == "font-size" {
			continue
		}
		if v, ok := attrs[name]; ok {
			overlayPresentationAttr(st, name, v)
		}
	}
}

// ApplyInlineStyle tokenizes the style="..." attribute by ';' then by
// the first ':', overlaying each recognized declaration (§4.1 step 3).
func ApplyInlineStyle(st *Style, styleAttr string) {
	decls := strings.Split(styleAttr, ";")
	for _, d := range decls {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		idx := strings.Index(d, ":")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(d[:idx])
		value := strings.TrimSpace(d[idx+1:])
		overlayPresentationAttr(st, name, value)
	}
}
