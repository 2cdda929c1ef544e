package scene

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/inkdoc/inkdoc/internal/errs"
	"github.com/inkdoc/inkdoc/pkg/paint"
	"github.com/inkdoc/inkdoc/pkg/units"
	"github.com/inkdoc/inkdoc/pkg/xform"
)

// Document is the parsed scene: the typed element tree plus the
// side-tables named in spec §4.1's contract.
type Document struct {
	Root        *Element
	Definitions map[string]*Element
	Gradients   map[string]*paint.Gradient
	ClipPaths   map[string]*paint.ClipPath
	Patterns    map[string]*paint.Pattern
	Masks       map[string]*paint.Mask
	Markers     map[string]*paint.Marker
	Filters     map[string]*paint.Filter
	Stylesheet  []Rule

	Width, Height float64 // effective page size in points
	ViewBox       [4]float64
	HasViewBox    bool
}

// rawNode is the intermediate tree produced from encoding/xml before
// the typed-element conversion pass (spec §4.1 step: "Standard XML
// parsing produces a raw tree").
type rawNode struct {
	Local    string
	Attrs    map[string]string
	Text     string
	Children []*rawNode
}

// ParseScene parses a byte/character scene document into a Document,
// per the contract in spec §4.1. Returns *errs.Error{MalformedScene}
// if the root is absent or isn't named "svg".
func ParseScene(data []byte) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	dec.Strict = false

	root, err := decodeRaw(dec)
	if err != nil {
		return nil, errs.Malformed("parse_scene", "xml decode failed", err)
	}
	if root == nil {
		return nil, errs.Malformed("parse_scene", "no root element", nil)
	}
	if root.Local != "svg" {
		return nil, errs.Malformed("parse_scene", "root element is not svg", nil)
	}

	doc := &Document{
		Definitions: map[string]*Element{},
		Gradients:   map[string]*paint.Gradient{},
		ClipPaths:   map[string]*paint.ClipPath{},
		Patterns:    map[string]*paint.Pattern{},
		Masks:       map[string]*paint.Mask{},
		Markers:     map[string]*paint.Marker{},
		Filters:     map[string]*paint.Filter{},
	}

	doc.Root = buildTree(root, nil, DefaultStyle())
	resolveViewport(doc, root)
	collectDefinitions(doc, doc.Root)
	collectStylesheets(doc, doc.Root)
	applyStylesheetCascade(doc, doc.Root)

	return doc, nil
}

// decodeRaw walks the xml.Decoder token stream into a rawNode tree,
// consulting only local names (namespace-tolerant per spec §6).
func decodeRaw(dec *xml.Decoder) (*rawNode, error) {
	var stack []*rawNode
	var root *rawNode

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF && root == nil {
				return nil, nil
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &rawNode{Local: t.Name.Local, Attrs: map[string]string{}}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 && root != nil {
				return root, nil
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
}

// buildTree is the recursive descent of spec §4.1 steps 1-5.
func buildTree(n *rawNode, parent *Element, parentStyle *Style) *Element {
	e := NewElement(ElementType(n.Local))
	e.Parent = parent
	for k, v := range n.Attrs {
		e.Attrs[k] = v
	}
	if id, ok := n.Attrs["id"]; ok {
		e.ID = id
	}
	if e.Type == TagText || e.Type == TagTspan {
		e.Text = strings.TrimSpace(n.Text)
	} else if e.Type == TagStyle {
		e.Text = n.Text
	}

	st := parentStyle.Clone()
	ApplyPresentationAttrs(st, n.Attrs)
	if styleAttr, ok := n.Attrs["style"]; ok {
		ApplyInlineStyle(st, styleAttr)
	}
	e.Style = st

	if tf, ok := n.Attrs["transform"]; ok {
		e.Transform = xform.ParseTransform(tf)
		e.HasTransform = !e.Transform.IsIdentity()
	}

	for _, c := range n.Children {
		child := buildTree(c, e, st)
		e.Children = append(e.Children, child)
	}
	return e
}

// resolveViewport parses root's viewBox/width/height per spec §4.1's
// Viewport paragraph.
func resolveViewport(doc *Document, root *rawNode) {
	if vb, ok := root.Attrs["viewBox"]; ok {
		vals := units.ParseLengthList(vb, 4)
		if vals != nil {
			doc.ViewBox = [4]float64{vals[0], vals[1], vals[2], vals[3]}
			doc.HasViewBox = true
		}
	}

	widthAttr, hasWidth := root.Attrs["width"]
	heightAttr, hasHeight := root.Attrs["height"]

	if hasWidth {
		doc.Width = units.ParseLength(widthAttr, 0, 16, 0) * 0.75
	} else if doc.HasViewBox {
		doc.Width = doc.ViewBox[2]
	}
	if hasHeight {
		doc.Height = units.ParseLength(heightAttr, 0, 16, 0) * 0.75
	} else if doc.HasViewBox {
		doc.Height = doc.ViewBox[3]
	}
	if doc.Width == 0 && doc.HasViewBox {
		doc.Width = doc.ViewBox[2]
	}
	if doc.Height == 0 && doc.HasViewBox {
		doc.Height = doc.ViewBox[3]
	}
}
