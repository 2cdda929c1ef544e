package scene

import "testing"

func TestParseSceneRejectsNonSVGRoot(t *testing.T) {
	_, err := ParseScene([]byte(`<notsvg></notsvg>`))
	if err == nil {
		t.Fatal("expected error for non-svg root")
	}
}

func TestParseSceneRejectsMalformedXML(t *testing.T) {
	_, err := ParseScene([]byte(`<svg><rect`))
	if err == nil {
		t.Fatal("expected error for malformed xml")
	}
}

// TestParseSceneBasicRect is spec §8 item 1: a viewBox'd svg with a
// single filled rect parses into a document whose root's only child
// carries the expected fill color and geometry attributes.
func TestParseSceneBasicRect(t *testing.T) {
	doc, err := ParseScene([]byte(`<svg viewBox="0 0 100 100"><rect x="10" y="10" width="50" height="50" fill="#ff0000"/></svg>`))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if !doc.HasViewBox {
		t.Fatal("expected viewBox to be parsed")
	}
	if doc.ViewBox != [4]float64{0, 0, 100, 100} {
		t.Fatalf("viewBox = %v", doc.ViewBox)
	}
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Root.Children))
	}
	rect := doc.Root.Children[0]
	if rect.Type != TagRect {
		t.Fatalf("expected rect, got %s", rect.Type)
	}
	if rect.Style.Fill.Kind != PaintSolid {
		t.Fatalf("expected solid fill, got kind %v", rect.Style.Fill.Kind)
	}
	if rect.Style.Fill.Color.R != 1 || rect.Style.Fill.Color.G != 0 || rect.Style.Fill.Color.B != 0 {
		t.Fatalf("fill color = %+v", rect.Style.Fill.Color)
	}
}

func TestStyleInheritance(t *testing.T) {
	doc, err := ParseScene([]byte(`<svg><g fill="#00ff00"><rect/></g></svg>`))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	g := doc.Root.Children[0]
	rect := g.Children[0]
	if rect.Style.Fill.Color.G != 1 {
		t.Fatalf("expected rect to inherit green fill, got %+v", rect.Style.Fill.Color)
	}
}

func TestPresentationAttrOverridesInheritance(t *testing.T) {
	doc, err := ParseScene([]byte(`<svg><g fill="#00ff00"><rect fill="#0000ff"/></g></svg>`))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	rect := doc.Root.Children[0].Children[0]
	if rect.Style.Fill.Color.B != 1 || rect.Style.Fill.Color.G != 0 {
		t.Fatalf("expected rect's own fill to win, got %+v", rect.Style.Fill.Color)
	}
}

// TestCSSSpecificityOrdering exercises spec §8's CSS specificity
// ordering invariant: an id selector beats a class selector regardless
// of source order, and both beat a bare type selector.
func TestCSSSpecificityOrdering(t *testing.T) {
	svg := `<svg>
<style>
rect { fill: #000000; }
.box { fill: #00ff00; }
#target { fill: #0000ff; }
</style>
<rect id="target" class="box"/>
</svg>`
	doc, err := ParseScene([]byte(svg))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	rect := doc.Definitions["target"]
	if rect == nil {
		t.Fatal("expected #target to be registered")
	}
	if rect.Style.Fill.Color.B != 1 {
		t.Fatalf("expected id-selector rule to win, got %+v", rect.Style.Fill.Color)
	}
}

func TestCSSRuleLowerSpecificityStillApplies(t *testing.T) {
	svg := `<svg>
<style>
.box { fill: #00ff00; }
</style>
<rect class="box"/>
</svg>`
	doc, err := ParseScene([]byte(svg))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	rect := doc.Root.Children[1]
	if rect.Style.Fill.Color.G != 1 {
		t.Fatalf("expected class rule to apply, got %+v", rect.Style.Fill.Color)
	}
}

func TestInlineStyleBeatsCSSRule(t *testing.T) {
	svg := `<svg>
<style>
.box { fill: #00ff00; }
</style>
<rect class="box" style="fill:#ff0000"/>
</svg>`
	doc, err := ParseScene([]byte(svg))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	rect := doc.Root.Children[1]
	if rect.Style.Fill.Color.R != 1 {
		t.Fatalf("expected inline style to win, got %+v", rect.Style.Fill.Color)
	}
}

func TestGradientHrefInheritance(t *testing.T) {
	svg := `<svg>
<defs>
<linearGradient id="base" x1="0" y1="0" x2="1" y2="0">
<stop offset="0" stop-color="#ff0000"/>
<stop offset="1" stop-color="#0000ff"/>
</linearGradient>
<linearGradient id="derived" href="#base" x2="0.5"/>
</defs>
</svg>`
	doc, err := ParseScene([]byte(svg))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	g, ok := doc.Gradients["derived"]
	if !ok {
		t.Fatal("expected derived gradient to be registered")
	}
	if g.X2 != 0.5 {
		t.Fatalf("expected derived's own x2 to win, got %v", g.X2)
	}
	if g.X1 != 0 {
		t.Fatalf("expected x1 inherited from base, got %v", g.X1)
	}
	if len(g.Stops) != 2 {
		t.Fatalf("expected 2 stops inherited from base, got %d", len(g.Stops))
	}
}

func TestTransformAttrParsed(t *testing.T) {
	doc, err := ParseScene([]byte(`<svg><g transform="translate(10,20)"><rect/></g></svg>`))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	g := doc.Root.Children[0]
	if !g.HasTransform {
		t.Fatal("expected HasTransform")
	}
	if g.Transform.E != 10 || g.Transform.F != 20 {
		t.Fatalf("transform = %+v", g.Transform)
	}
}

func TestFilterDropShadowRecognized(t *testing.T) {
	svg := `<svg>
<defs>
<filter id="sh"><feDropShadow dx="3" dy="4" flood-color="#0000ff" flood-opacity="0.5"/></filter>
</defs>
</svg>`
	doc, err := ParseScene([]byte(svg))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	f, ok := doc.Filters["sh"]
	if !ok {
		t.Fatal("expected filter \"sh\" to be registered")
	}
	if !f.IsDropShadow {
		t.Fatal("expected IsDropShadow")
	}
	if f.DX != 3 || f.DY != 4 {
		t.Fatalf("offset = (%v,%v), want (3,4)", f.DX, f.DY)
	}
	if f.FloodOpacity != 0.5 {
		t.Fatalf("FloodOpacity = %v, want 0.5", f.FloodOpacity)
	}
	if f.FloodColor.B != 1 {
		t.Fatalf("FloodColor = %+v, want blue", f.FloodColor)
	}
}

func TestFilterUnrecognizedPrimitiveIsDataOnly(t *testing.T) {
	doc, err := ParseScene([]byte(`<svg><defs><filter id="blur"><feGaussianBlur stdDeviation="3"/></filter></defs></svg>`))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	f, ok := doc.Filters["blur"]
	if !ok {
		t.Fatal("expected filter \"blur\" to be registered even though unrecognized")
	}
	if f.IsDropShadow {
		t.Fatal("a lone feGaussianBlur should not be treated as a drop shadow")
	}
}
