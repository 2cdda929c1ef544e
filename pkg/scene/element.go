// Package scene implements the scene parser and style cascade (C1) and
// the CSS rule engine (C2): XML-shaped parsing into a typed element
// tree with inherited, overlaid presentation style.
package scene

import "github.com/inkdoc/inkdoc/pkg/xform"

// ElementType is the closed tag vocabulary named in spec §3.
type ElementType string

const (
	TagSVG             ElementType = "svg"
	TagG               ElementType = "g"
	TagDefs            ElementType = "defs"
	TagSymbol          ElementType = "symbol"
	TagUse             ElementType = "use"
	TagRect            ElementType = "rect"
	TagCircle          ElementType = "circle"
	TagEllipse         ElementType = "ellipse"
	TagLine            ElementType = "line"
	TagPolyline        ElementType = "polyline"
	TagPolygon         ElementType = "polygon"
	TagPath            ElementType = "path"
	TagText            ElementType = "text"
	TagTspan           ElementType = "tspan"
	TagImage           ElementType = "image"
	TagLinearGradient  ElementType = "linearGradient"
	TagRadialGradient  ElementType = "radialGradient"
	TagStop            ElementType = "stop"
	TagClipPath        ElementType = "clipPath"
	TagMask            ElementType = "mask"
	TagPattern         ElementType = "pattern"
	TagMarker          ElementType = "marker"
	TagFilter          ElementType = "filter"
	TagFeDropShadow    ElementType = "feDropShadow"
	TagFeOffset        ElementType = "feOffset"
	TagFeGaussianBlur  ElementType = "feGaussianBlur"
	TagFeMerge         ElementType = "feMerge"
	TagStyle           ElementType = "style"
)

// Element is one node of the typed scene tree. Parent is a weak,
// non-owning back-reference (the tree itself owns Children); the
// compiler's `use` expansion may temporarily rewrite Parent/Style and
// must restore both on every return path (spec §9, §5).
type Element struct {
	Type       ElementType
	ID         string
	Attrs      map[string]string
	Text       string
	Parent     *Element
	Children   []*Element
	Style      *Style
	Transform  xform.Matrix
	HasTransform bool
}

func NewElement(t ElementType) *Element {
	return &Element{Type: t, Attrs: map[string]string{}}
}

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

func (e *Element) AddChild(c *Element) {
	c.Parent = e
	e.Children = append(e.Children, c)
}
