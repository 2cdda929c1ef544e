package font

import (
	"reflect"
	"testing"

	"github.com/inkdoc/inkdoc/pkg/sfntcodec"
)

func TestDirectorySearchParams(t *testing.T) {
	sr, es, rs := directorySearchParams(4, 16)
	if sr != 64 || es != 2 || rs != 0 {
		t.Fatalf("got (%d,%d,%d), want (64,2,0)", sr, es, rs)
	}
}

// TestCmapFormat4Scenario is spec §8 item 6's exact worked example.
func TestCmapFormat4Scenario(t *testing.T) {
	charMap := map[rune]uint16{0x41: 1, 0x42: 2, 0x43: 3, 0x61: 4}
	w := sfntcodec.NewWriter()
	buildCmapFormat4(w, charMap)
	body := w.Bytes()

	r := sfntcodec.NewReader(body)
	format, err := r.U16()
	if err != nil || format != 4 {
		t.Fatalf("format = %v, err = %v", format, err)
	}

	decoded, err := parseCmapFormat4(r)
	if err != nil {
		t.Fatalf("parseCmapFormat4: %v", err)
	}
	want := map[rune]uint16{0x41: 1, 0x42: 2, 0x43: 3, 0x61: 4}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("decoded = %v, want %v", decoded, want)
	}
}

func TestCmapFormat4RoundTripArbitrary(t *testing.T) {
	charMap := map[rune]uint16{
		'a': 10, 'b': 11, 'c': 12,
		'x': 50, 'z': 52,
		0x1F600: 200,
	}
	w := sfntcodec.NewWriter()
	buildCmapFormat4(w, charMap)
	r := sfntcodec.NewReader(w.Bytes())
	r.Skip(2) // format
	decoded, err := parseCmapFormat4(r)
	if err != nil {
		t.Fatalf("parseCmapFormat4: %v", err)
	}
	for c, gid := range charMap {
		if c > 0xFFFF {
			continue // format 4 only covers the BMP; not expected to round-trip
		}
		if decoded[c] != gid {
			t.Fatalf("char %U: got gid %d, want %d", c, decoded[c], gid)
		}
	}
}

// TestCmapFormat4DoesNotCoalesceNonConsecutiveGlyphIds covers a
// non-subset font whose chars are consecutive but glyph ids are not:
// a single constant-idDelta segment spanning 'A'..'C' would give 'B'
// the wrong glyph id, so the segment must split where the glyph id
// run breaks even though the char run doesn't.
func TestCmapFormat4DoesNotCoalesceNonConsecutiveGlyphIds(t *testing.T) {
	charMap := map[rune]uint16{0x41: 10, 0x42: 50, 0x43: 12}
	w := sfntcodec.NewWriter()
	buildCmapFormat4(w, charMap)
	r := sfntcodec.NewReader(w.Bytes())
	r.Skip(2) // format
	decoded, err := parseCmapFormat4(r)
	if err != nil {
		t.Fatalf("parseCmapFormat4: %v", err)
	}
	if !reflect.DeepEqual(decoded, charMap) {
		t.Fatalf("decoded = %v, want %v", decoded, charMap)
	}
}

func TestSubsetTagDeterministicAndUppercase(t *testing.T) {
	a := subsetTag("MyFont-Regular")
	b := subsetTag("MyFont-Regular")
	if a != b {
		t.Fatalf("subsetTag not deterministic: %q vs %q", a, b)
	}
	if len(a) != 6 {
		t.Fatalf("expected 6-letter tag, got %q", a)
	}
	for _, r := range a {
		if r < 'A' || r > 'Z' {
			t.Fatalf("tag %q contains non-uppercase-letter rune %q", a, r)
		}
	}
}

func TestCompositeComponentsSimpleGlyphHasNone(t *testing.T) {
	// A simple glyph: numberOfContours = 1 (non-negative).
	outline := make([]byte, 12)
	outline[0], outline[1] = 0x00, 0x01
	if got := compositeComponents(outline); got != nil {
		t.Fatalf("expected no components for a simple glyph, got %v", got)
	}
}

func TestCompositeComponentsSingleComponent(t *testing.T) {
	// numberOfContours = -1 (composite); one component with word args,
	// no scale, and MORE_COMPONENTS unset.
	outline := make([]byte, 10+4+4)
	outline[0], outline[1] = 0xFF, 0xFF // -1
	// skip xMin/yMin/xMax/yMax (8 bytes) at offset 2..10
	flags := uint16(1 << 0) // ARGS_ARE_WORDS, no MORE_COMPONENTS
	outline[10] = byte(flags >> 8)
	outline[11] = byte(flags)
	outline[12] = 0x00
	outline[13] = 0x07 // component gid = 7
	comps := compositeComponents(outline)
	if len(comps) != 1 || comps[0] != 7 {
		t.Fatalf("comps = %v, want [7]", comps)
	}
}

func TestRemapCompositeComponents(t *testing.T) {
	outline := make([]byte, 10+4+4)
	outline[0], outline[1] = 0xFF, 0xFF
	flags := uint16(1 << 0)
	outline[10] = byte(flags >> 8)
	outline[11] = byte(flags)
	outline[12] = 0x00
	outline[13] = 0x07
	remapCompositeComponents(outline, map[uint16]uint16{7: 2})
	gid := uint16(outline[12])<<8 | uint16(outline[13])
	if gid != 2 {
		t.Fatalf("remapped gid = %d, want 2", gid)
	}
}

func TestAdvanceWidthClampsToLastMetric(t *testing.T) {
	f := &Font{HMetrics: []HMetric{{AdvanceWidth: 500}, {AdvanceWidth: 600}}}
	if f.AdvanceWidth(0) != 500 {
		t.Fatalf("gid 0: got %d, want 500", f.AdvanceWidth(0))
	}
	if f.AdvanceWidth(1) != 600 {
		t.Fatalf("gid 1: got %d, want 600", f.AdvanceWidth(1))
	}
	if f.AdvanceWidth(99) != 600 {
		t.Fatalf("out-of-range gid: got %d, want clamp to 600", f.AdvanceWidth(99))
	}
}

func TestSubsetRejectsPostScriptFlavor(t *testing.T) {
	f := &Font{Flavor: FlavorPostScript}
	_, err := Subset(f, map[rune]bool{'a': true})
	if err == nil {
		t.Fatal("expected UnsupportedFontFlavor error")
	}
}

func TestSubsetRejectsEmptyCharSet(t *testing.T) {
	f := &Font{Flavor: FlavorTrueType}
	_, err := Subset(f, map[rune]bool{})
	if err == nil {
		t.Fatal("expected InvalidArgument error")
	}
}

// TestSubsetGlyphZeroSurvivesAndRemaps exercises spec §8's concrete
// scenario 5: 'A'->36, 'B'->37, ' '->3, used={'A','B'}.
func TestSubsetGlyphZeroSurvivesAndRemaps(t *testing.T) {
	glyphCount := 38
	glyphs := make([][]byte, glyphCount)
	for i := range glyphs {
		glyphs[i] = []byte{byte(i), byte(i + 1)} // distinguishable payload per gid
	}
	metrics := make([]HMetric, glyphCount)
	for i := range metrics {
		metrics[i] = HMetric{AdvanceWidth: uint16(100 + i)}
	}

	f := &Font{
		Flavor:      FlavorTrueType,
		Maxp:        MaxpTable{NumGlyphs: uint16(glyphCount)},
		HMetrics:    metrics,
		Glyphs:      glyphs,
		CharToGlyph: map[rune]uint16{'A': 36, 'B': 37, ' ': 3},
	}

	out, err := Subset(f, map[rune]bool{'A': true, 'B': true})
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if out.Maxp.NumGlyphs != 3 {
		t.Fatalf("expected 3 glyphs (0, A, B), got %d", out.Maxp.NumGlyphs)
	}
	if out.CharToGlyph['A'] != 1 || out.CharToGlyph['B'] != 2 {
		t.Fatalf("remap = %v, want A->1 B->2", out.CharToGlyph)
	}
	if _, ok := out.CharToGlyph[' ']; ok {
		t.Fatal("space was not in used_chars and should be dropped")
	}
	if !reflect.DeepEqual(out.Outline(1), f.Outline(36)) {
		t.Fatalf("new glyph 1 outline = %v, want source glyph 36's outline %v", out.Outline(1), f.Outline(36))
	}
	if !reflect.DeepEqual(out.Outline(2), f.Outline(37)) {
		t.Fatalf("new glyph 2 outline = %v, want source glyph 37's outline %v", out.Outline(2), f.Outline(37))
	}
	if out.AdvanceWidth(1) != f.AdvanceWidth(36) {
		t.Fatalf("advance width mismatch for remapped glyph 1")
	}
}

// TestSubsetAssignsIdsByCharOrderNotGlyphOrder covers the case scenario
// 5 can't: a font whose glyph order runs opposite to codepoint order
// ('A'->37, 'B'->36). §4.8 step 1 assigns new ids while iterating
// used_chars sorted ascending, so 'A' (the smaller char) must still
// get the smaller new id even though its old glyph id is larger.
func TestSubsetAssignsIdsByCharOrderNotGlyphOrder(t *testing.T) {
	glyphCount := 38
	glyphs := make([][]byte, glyphCount)
	for i := range glyphs {
		glyphs[i] = []byte{byte(i), byte(i + 1)}
	}
	metrics := make([]HMetric, glyphCount)
	for i := range metrics {
		metrics[i] = HMetric{AdvanceWidth: uint16(100 + i)}
	}

	f := &Font{
		Flavor:      FlavorTrueType,
		Maxp:        MaxpTable{NumGlyphs: uint16(glyphCount)},
		HMetrics:    metrics,
		Glyphs:      glyphs,
		CharToGlyph: map[rune]uint16{'A': 37, 'B': 36},
	}

	out, err := Subset(f, map[rune]bool{'A': true, 'B': true})
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if out.CharToGlyph['A'] != 1 || out.CharToGlyph['B'] != 2 {
		t.Fatalf("remap = %v, want A->1 B->2 (char order), not glyph order", out.CharToGlyph)
	}
	if !reflect.DeepEqual(out.Outline(1), f.Outline(37)) {
		t.Fatalf("new glyph 1 outline = %v, want source glyph 37's outline %v", out.Outline(1), f.Outline(37))
	}
	if !reflect.DeepEqual(out.Outline(2), f.Outline(36)) {
		t.Fatalf("new glyph 2 outline = %v, want source glyph 36's outline %v", out.Outline(2), f.Outline(36))
	}
}
