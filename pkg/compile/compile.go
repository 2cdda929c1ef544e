package compile

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/inkdoc/inkdoc/pkg/paint"
	"github.com/inkdoc/inkdoc/pkg/scene"
	"github.com/inkdoc/inkdoc/pkg/units"
)

// Output is compile's result, per spec §4.6's contract: a content
// stream plus the opaque resource blobs it references, to be merged
// by the caller into a page resource dictionary.
type Output struct {
	ContentStream  []byte
	Shadings       map[string][]byte
	Patterns       map[string][]byte
	XObjects       map[string][]byte
	GraphicsStates map[string][]byte
}

// compiler holds the state threaded through one Compile call: the
// source document, the content-stream emitter, and the resource
// tables being accumulated. Scoped to a single call and never shared
// (spec §5's "resource lifecycle").
type compiler struct {
	doc *scene.Document
	em  *emitter
	res *resources
	ctm *ctmStack
}

// Compile implements spec §4.6: compile(document) -> {content_stream,
// shadings, patterns, xobjects, graphics_states}.
func Compile(doc *scene.Document) (*Output, error) {
	c := &compiler{
		doc: doc,
		em:  newEmitter(),
		res: newResources(),
		ctm: newCTMStack(),
	}

	c.em.line("q")
	h := doc.Height
	c.em.op(fnums(1, 0, 0, -1, 0, h), "cm")
	if doc.HasViewBox && doc.ViewBox[2] != 0 && doc.ViewBox[3] != 0 {
		sx := doc.Width / doc.ViewBox[2]
		sy := doc.Height / doc.ViewBox[3]
		c.em.op(fnums(sx, 0, 0, sy, -doc.ViewBox[0]*sx, -doc.ViewBox[1]*sy), "cm")
	}

	if doc.Root != nil {
		for _, ch := range doc.Root.Children {
			c.render(ch, ch.Style)
		}
	}
	c.em.line("Q")

	return &Output{
		ContentStream:  c.em.popBuffer(),
		Shadings:       c.res.Shadings,
		Patterns:       c.res.Patterns,
		XObjects:       c.res.XObjects,
		GraphicsStates: c.res.GraphicsStates,
	}, nil
}

// render is the per-element traversal step of spec §4.6's
// "Traversal" paragraph.
func (c *compiler) render(e *scene.Element, style *scene.Style) {
	if style.Display == "none" {
		return
	}
	if e.Type == scene.TagDefs {
		return
	}

	c.em.line("q")
	if e.HasTransform {
		c.ctm.push(e.Transform)
		c.em.op(e.Transform.String(), "cm")
	}

	if style.ClipPath != "" {
		c.emitClip(style.ClipPath)
	}

	visible := style.Visibility != "hidden"

	switch e.Type {
	case scene.TagG, scene.TagSymbol, scene.TagSVG:
		for _, ch := range e.Children {
			c.render(ch, ch.Style)
		}
	case scene.TagText:
		if visible {
			c.renderText(e, style)
		}
	default:
		if visible {
			c.dispatchShape(e, style)
		}
		for _, ch := range e.Children {
			c.render(ch, ch.Style)
		}
	}

	if e.HasTransform {
		c.ctm.pop()
	}
	c.em.line("Q")
}

// dispatchShape emits one shape's geometry and paint, per spec §4.6's
// "Shape emission" paragraph.
func (c *compiler) dispatchShape(e *scene.Element, style *scene.Style) {
	switch e.Type {
	case scene.TagRect:
		x := units.ParseLength(firstAttrC(e, "x"), 0, style.FontSize, 0)
		y := units.ParseLength(firstAttrC(e, "y"), 0, style.FontSize, 0)
		w := units.ParseLength(firstAttrC(e, "width"), 0, style.FontSize, 0)
		h := units.ParseLength(firstAttrC(e, "height"), 0, style.FontSize, 0)
		rxStr, rxOK := e.Attr("rx")
		ryStr, ryOK := e.Attr("ry")
		rx := units.ParseLength(rxStr, 0, style.FontSize, w)
		ry := units.ParseLength(ryStr, 0, style.FontSize, h)
		path, bb := buildRect(x, y, w, h, rx, ry, rxOK, ryOK)
		c.applyFillAndStroke(path, style, bb)

	case scene.TagCircle:
		cx := units.ParseLength(firstAttrC(e, "cx"), 0, style.FontSize, 0)
		cy := units.ParseLength(firstAttrC(e, "cy"), 0, style.FontSize, 0)
		r := units.ParseLength(firstAttrC(e, "r"), 0, style.FontSize, 0)
		path, bb := buildEllipse(cx, cy, r, r)
		c.applyFillAndStroke(path, style, bb)

	case scene.TagEllipse:
		cx := units.ParseLength(firstAttrC(e, "cx"), 0, style.FontSize, 0)
		cy := units.ParseLength(firstAttrC(e, "cy"), 0, style.FontSize, 0)
		rx := units.ParseLength(firstAttrC(e, "rx"), 0, style.FontSize, 0)
		ry := units.ParseLength(firstAttrC(e, "ry"), 0, style.FontSize, 0)
		path, bb := buildEllipse(cx, cy, rx, ry)
		c.applyFillAndStroke(path, style, bb)

	case scene.TagLine:
		x1 := units.ParseLength(firstAttrC(e, "x1"), 0, style.FontSize, 0)
		y1 := units.ParseLength(firstAttrC(e, "y1"), 0, style.FontSize, 0)
		x2 := units.ParseLength(firstAttrC(e, "x2"), 0, style.FontSize, 0)
		y2 := units.ParseLength(firstAttrC(e, "y2"), 0, style.FontSize, 0)
		path, bb := buildLine(x1, y1, x2, y2)
		lineOnly := *style
		lineOnly.Fill = scene.Paint{Kind: scene.PaintNone}
		c.applyFillAndStroke(path, &lineOnly, bb)

	case scene.TagPolyline, scene.TagPolygon:
		points := parsePoints(firstAttrC(e, "points"))
		path, bb := buildPolyPoints(points, e.Type == scene.TagPolygon)
		c.applyFillAndStroke(path, style, bb)

	case scene.TagPath:
		d := firstAttrC(e, "d")
		path, bb := buildPath(d)
		c.applyFillAndStroke(path, style, bb)
		c.renderMarkers(style, d)

	case scene.TagUse:
		c.renderUse(e, style)

	case scene.TagImage:
		c.renderImage(e, style)
	}
}

// renderUse implements spec §4.6's use expansion via an
// override-context (spec §9's preferred alternative (b) over mutating
// the referenced element's parent/style in place): the target's own
// presentation attributes are reapplied on top of a clone of the use
// element's style, so the use site acts as the target's effective
// parent for inheritance purposes without mutating the shared tree.
func (c *compiler) renderUse(e *scene.Element, style *scene.Style) {
	refID, ok := hrefAttr(e)
	if !ok {
		return
	}
	target, ok := c.doc.Definitions[refID]
	if !ok {
		return
	}

	x := units.ParseLength(firstAttrC(e, "x"), 0, style.FontSize, 0)
	y := units.ParseLength(firstAttrC(e, "y"), 0, style.FontSize, 0)
	if x != 0 || y != 0 {
		c.em.op(fnums(1, 0, 0, 1, x, y), "cm")
	}

	overrideStyle := style.Clone()
	scene.ApplyPresentationAttrs(overrideStyle, target.Attrs)
	if sv, ok := target.Attrs["style"]; ok {
		scene.ApplyInlineStyle(overrideStyle, sv)
	}
	c.render(target, overrideStyle)
}

func hrefAttr(e *scene.Element) (string, bool) {
	if v, ok := e.Attr("href"); ok {
		return strings.TrimPrefix(v, "#"), true
	}
	if v, ok := e.Attr("xlink:href"); ok {
		return strings.TrimPrefix(v, "#"), true
	}
	return "", false
}

// renderImage implements spec §4.6's image emission: only data: URIs
// with a base64 payload are embedded; external URLs and local file
// references are skipped (render-best-effort, spec §7). The decoded
// image is re-sampled to raw, uncompressed DeviceRGB bytes so the
// XObject blob is a plain dict+stream, matching every other resource
// table's opaque-blob convention (spec §6's "Resource dictionaries").
func (c *compiler) renderImage(e *scene.Element, style *scene.Style) {
	href, ok := hrefAttrRaw(e)
	if !ok || !strings.HasPrefix(href, "data:") {
		return
	}
	idx := strings.Index(href, ",")
	if idx < 0 || !strings.Contains(href[:idx], "base64") {
		return
	}
	data, err := base64.StdEncoding.DecodeString(href[idx+1:])
	if err != nil {
		return
	}
	blob, ok := buildImageXObject(data)
	if !ok {
		return
	}

	x := units.ParseLength(firstAttrC(e, "x"), 0, style.FontSize, 0)
	y := units.ParseLength(firstAttrC(e, "y"), 0, style.FontSize, 0)
	w := units.ParseLength(firstAttrC(e, "width"), 0, style.FontSize, 0)
	h := units.ParseLength(firstAttrC(e, "height"), 0, style.FontSize, 0)

	name := c.res.addXObject(blob)
	c.em.line("q")
	c.em.op(fnums(w, 0, 0, h, x, y), "cm")
	c.em.op("/"+name, "Do")
	c.em.line("Q")
}

// buildImageXObject decodes a raster image (PNG, JPEG, GIF, or WebP)
// and re-encodes it as a DeviceRGB Image XObject dict+stream, 8 bits
// per component, with no compression filter: simplest correct
// embedding, and consistent with the rest of pkg/compile's preference
// for emitting uncompressed PDL directly rather than round-tripping
// through a filter pipeline.
func buildImageXObject(data []byte) ([]byte, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	bnds := img.Bounds()
	w, h := bnds.Dx(), bnds.Dy()
	if w <= 0 || h <= 0 {
		return nil, false
	}

	rgb := make([]byte, 0, w*h*3)
	for y := bnds.Min.Y; y < bnds.Max.Y; y++ {
		for x := bnds.Min.X; x < bnds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rgb = append(rgb, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	dict := "<< /Type /XObject /Subtype /Image /Width " + fnum(float64(w)) +
		" /Height " + fnum(float64(h)) +
		" /ColorSpace /DeviceRGB /BitsPerComponent 8 >>\nstream\n"
	return append(append([]byte(dict), rgb...), []byte("\nendstream")...), true
}

func hrefAttrRaw(e *scene.Element) (string, bool) {
	if v, ok := e.Attr("href"); ok {
		return v, true
	}
	if v, ok := e.Attr("xlink:href"); ok {
		return v, true
	}
	return "", false
}

// emitClip expands a clip-path reference into its primitive shapes
// followed by W/W* and n, per spec §4.6's "Traversal" paragraph.
// Content elements are the clipPath element's own children, looked up
// via the document's id-keyed definitions table.
func (c *compiler) emitClip(refID string) {
	cp, ok := c.doc.ClipPaths[refID]
	if !ok {
		return
	}
	el, ok := c.doc.Definitions[refID]
	if !ok {
		return
	}
	for _, ch := range el.Children {
		geom := clipGeometry(ch)
		if geom != nil {
			geom.writeTo(c.em)
		}
	}
	if cp.Rule == paint.ClipEvenOdd {
		c.em.line("W*")
	} else {
		c.em.line("W")
	}
	c.em.line("n")
}

// clipGeometry builds a clip child's path-construction operators
// without any paint, mirroring dispatchShape's geometry building.
func clipGeometry(e *scene.Element) *pathLines {
	st := e.Style
	switch e.Type {
	case scene.TagRect:
		x := units.ParseLength(firstAttrC(e, "x"), 0, st.FontSize, 0)
		y := units.ParseLength(firstAttrC(e, "y"), 0, st.FontSize, 0)
		w := units.ParseLength(firstAttrC(e, "width"), 0, st.FontSize, 0)
		h := units.ParseLength(firstAttrC(e, "height"), 0, st.FontSize, 0)
		rxStr, rxOK := e.Attr("rx")
		ryStr, ryOK := e.Attr("ry")
		rx := units.ParseLength(rxStr, 0, st.FontSize, w)
		ry := units.ParseLength(ryStr, 0, st.FontSize, h)
		p, _ := buildRect(x, y, w, h, rx, ry, rxOK, ryOK)
		return p
	case scene.TagCircle:
		cx := units.ParseLength(firstAttrC(e, "cx"), 0, st.FontSize, 0)
		cy := units.ParseLength(firstAttrC(e, "cy"), 0, st.FontSize, 0)
		r := units.ParseLength(firstAttrC(e, "r"), 0, st.FontSize, 0)
		p, _ := buildEllipse(cx, cy, r, r)
		return p
	case scene.TagEllipse:
		cx := units.ParseLength(firstAttrC(e, "cx"), 0, st.FontSize, 0)
		cy := units.ParseLength(firstAttrC(e, "cy"), 0, st.FontSize, 0)
		rx := units.ParseLength(firstAttrC(e, "rx"), 0, st.FontSize, 0)
		ry := units.ParseLength(firstAttrC(e, "ry"), 0, st.FontSize, 0)
		p, _ := buildEllipse(cx, cy, rx, ry)
		return p
	case scene.TagPolyline, scene.TagPolygon:
		points := parsePoints(firstAttrC(e, "points"))
		p, _ := buildPolyPoints(points, e.Type == scene.TagPolygon)
		return p
	case scene.TagPath:
		p, _ := buildPath(firstAttrC(e, "d"))
		return p
	default:
		return nil
	}
}
