package compile

import (
	"strings"
	"testing"

	"github.com/inkdoc/inkdoc/pkg/scene"
)

// TestCompileBasicRectScenario is spec §8 concrete scenario 1.
func TestCompileBasicRectScenario(t *testing.T) {
	src := `<svg viewBox="0 0 100 50" width="200pt" height="100pt"><rect x="10" y="10" width="80" height="30" fill="#ff0000"/></svg>`
	doc, err := scene.ParseScene([]byte(src))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if doc.Width != 200 || doc.Height != 100 {
		t.Fatalf("effective size = (%v,%v), want (200,100)", doc.Width, doc.Height)
	}

	out, err := Compile(doc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cs := string(out.ContentStream)

	if !strings.HasPrefix(cs, "q\n1 0 0 -1 0 100 cm\n2 0 0 2 0 0 cm\n") {
		t.Fatalf("content stream prefix = %q", cs[:minInt(60, len(cs))])
	}
	for _, want := range []string{"10 10 80 30 re", "1 0 0 rg", "f"} {
		if !strings.Contains(cs, want) {
			t.Fatalf("content stream missing %q:\n%s", want, cs)
		}
	}
	trimmed := strings.TrimRight(cs, "\n")
	if !strings.HasSuffix(trimmed, "Q") {
		t.Fatalf("content stream does not end with Q: %q", cs)
	}
}

// TestCompileGradientFillScenario is spec §8 concrete scenario 4.
func TestCompileGradientFillScenario(t *testing.T) {
	src := `<svg width="100" height="100">
		<defs>
			<linearGradient id="g">
				<stop offset="0" stop-color="red"/>
				<stop offset="1" stop-color="blue"/>
			</linearGradient>
		</defs>
		<rect x="0" y="0" width="50" height="50" fill="url(#g)"/>
	</svg>`
	doc, err := scene.ParseScene([]byte(src))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	out, err := Compile(doc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(out.Shadings) != 1 {
		t.Fatalf("expected one shading resource, got %d", len(out.Shadings))
	}
	cs := string(out.ContentStream)
	if !strings.Contains(cs, "q\n0 0 50 50 re\nW\nn\n/Sh1 sh\nQ\n") {
		t.Fatalf("content stream missing gradient clip-fill block:\n%s", cs)
	}
	if strings.Contains(cs, "\nf\n") {
		t.Fatalf("gradient fill should suppress the ordinary f operator:\n%s", cs)
	}
}

func TestCompileRoundedRectUsesBezierApprox(t *testing.T) {
	src := `<svg width="50" height="50"><rect x="0" y="0" width="40" height="20" rx="5"/></svg>`
	doc, err := scene.ParseScene([]byte(src))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	out, err := Compile(doc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cs := string(out.ContentStream)
	if !strings.Contains(cs, " c\n") {
		t.Fatalf("expected at least one bezier curve op for rounded rect:\n%s", cs)
	}
	if strings.Contains(cs, " re\n") {
		t.Fatalf("rounded rect should not emit a plain re op:\n%s", cs)
	}
}

func TestCompileLineIsStrokeOnly(t *testing.T) {
	src := `<svg width="50" height="50"><line x1="0" y1="0" x2="10" y2="10" stroke="#000000"/></svg>`
	doc, err := scene.ParseScene([]byte(src))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	out, err := Compile(doc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cs := string(out.ContentStream)
	if strings.Contains(cs, " rg\n") {
		t.Fatalf("line should never emit a fill color op:\n%s", cs)
	}
	if !strings.Contains(cs, "\nS\n") {
		t.Fatalf("expected stroke-only paint op S:\n%s", cs)
	}
}

// TestCompileDropShadowFilterEmitsOffsetCopy covers the one `<filter>`
// shape spec §1 names as supported: a simplified offset-copy drop
// shadow, recognized from a <feDropShadow> primitive.
func TestCompileDropShadowFilterEmitsOffsetCopy(t *testing.T) {
	src := `<svg width="50" height="50">
		<defs>
			<filter id="sh"><feDropShadow dx="3" dy="4" flood-color="#0000ff" flood-opacity="0.5"/></filter>
		</defs>
		<rect x="0" y="0" width="10" height="10" fill="#ff0000" filter="url(#sh)"/>
	</svg>`
	doc, err := scene.ParseScene([]byte(src))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	out, err := Compile(doc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cs := string(out.ContentStream)
	if !strings.Contains(cs, "1 0 0 1 3 4 cm") {
		t.Fatalf("expected a 3,4 offset cm before the shadow copy:\n%s", cs)
	}
	if !strings.Contains(cs, "0 0 1 rg") {
		t.Fatalf("expected the shadow's flood color 0 0 1 rg:\n%s", cs)
	}
	if len(out.GraphicsStates) != 1 {
		t.Fatalf("expected one ExtGState for flood-opacity 0.5, got %d", len(out.GraphicsStates))
	}
	redIdx := strings.Index(cs, "1 0 0 rg")
	blueIdx := strings.Index(cs, "0 0 1 rg")
	if redIdx < 0 || blueIdx < 0 || blueIdx >= redIdx {
		t.Fatalf("shadow copy should be emitted before the shape's own fill:\n%s", cs)
	}
}

func TestCompilePathWithNoFillOrStrokeEmitsN(t *testing.T) {
	src := `<svg width="50" height="50"><path d="M 0 0 L 10 10" fill="none" stroke="none"/></svg>`
	doc, err := scene.ParseScene([]byte(src))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	out, err := Compile(doc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cs := string(out.ContentStream)
	if !strings.Contains(cs, "\nn\n") {
		t.Fatalf("expected an implicit n for a path with neither fill nor stroke:\n%s", cs)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
