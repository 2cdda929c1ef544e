package textmetrics

import "testing"

func TestLoadFaceRejectsNonFontData(t *testing.T) {
	if _, ok := LoadFace([]byte("not a font")); ok {
		t.Fatal("expected LoadFace to reject non-font bytes")
	}
}

func TestMeasureWithFaceReportsNotOkForGarbage(t *testing.T) {
	width, ok := MeasureWithFace([]byte{0, 1, 2, 3}, "hello", 12)
	if ok {
		t.Fatal("expected ok=false for unparseable font data")
	}
	if width != 0 {
		t.Fatalf("width = %v, want 0", width)
	}
}

func TestMonospaceWidthScalesWithRuneCount(t *testing.T) {
	w5 := MonospaceWidth("hello", 10)
	w10 := MonospaceWidth("helloworld", 10)
	if w10 <= w5 {
		t.Fatalf("expected wider measurement for more runes: %v vs %v", w10, w5)
	}
	if w5 != MonospaceWidth("abcde", 10) {
		t.Fatalf("expected equal-length ASCII runs to measure equally")
	}
}

func TestMonospaceWidthScalesWithFontSize(t *testing.T) {
	small := MonospaceWidth("abc", 10)
	large := MonospaceWidth("abc", 20)
	if large != small*2 {
		t.Fatalf("width should scale linearly with font size: %v vs %v", small, large)
	}
}
