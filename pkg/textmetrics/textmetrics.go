// Package textmetrics measures text runs for spec §4.6.1's width
// estimation step. MeasureWithFace gives exact glyph-advance widths
// once a scene font has been resolved to an embedded sfnt container;
// the average-width-factor heuristic in pkg/compile remains the
// fallback when no embedded font is available, which is the common
// case since the base-14 fonts have no container to open.
//
// LoadFace/Measure/MeasureWithFace are exercised today only by this
// package's own tests: pkg/scene has no notion of an embedded font
// resource (no @font-face/data-URI equivalent), so pkg/compile never
// has sfnt bytes to hand these in production. They stay as the
// measurement half of a feature whose other half — resolving a scene
// font reference to bytes — doesn't exist yet. MonospaceWidth is the
// one export pkg/compile actually calls (text.go's estimateWidth).
package textmetrics

import (
	"bytes"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/go-text/typesetting/font"
	"github.com/mattn/go-runewidth"
)

// Face wraps a loaded sfnt face for repeated measurement calls against
// the same embedded font, so a text run with many tspans only pays the
// parse cost once.
type Face struct {
	face *font.Face
	upem float64
}

// LoadFace parses raw sfnt bytes into a measurable face. ok is false
// when data isn't a font go-text/typesetting can parse, in which case
// callers fall back to the average-width-factor heuristic.
func LoadFace(data []byte) (f *Face, ok bool) {
	parsed, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	face := font.NewFace(parsed)
	upem := float64(face.Upem())
	if upem == 0 {
		upem = 1000
	}
	return &Face{face: face, upem: upem}, true
}

// Measure returns text's width in font-size units, summing each
// grapheme cluster's glyph advance (spec §4.6.1 "measure the run by
// grapheme cluster, not raw byte"). Clusters with no glyph in the face
// (missing cmap entry) fall back to a half-em default advance so a
// single unsupported character doesn't collapse the whole run's width.
func (f *Face) Measure(text string, fontSize float64) float64 {
	var total float64
	seg := graphemes.FromString(text)
	for seg.Next() {
		total += f.clusterAdvance(seg.Value()) * fontSize / f.upem
	}
	return total
}

func (f *Face) clusterAdvance(cluster string) float64 {
	var advance float64
	for _, r := range cluster {
		gid, ok := f.face.Font.NominalGlyph(r)
		if !ok {
			advance += f.upem / 2
			continue
		}
		advance += float64(f.face.HorizontalAdvance(gid))
	}
	return advance
}

// MeasureWithFace is the one-shot convenience form: it loads data and
// measures text in a single call, reporting ok=false (with width 0) if
// data isn't a parseable embedded font.
func MeasureWithFace(data []byte, text string, fontSize float64) (width float64, ok bool) {
	f, ok := LoadFace(data)
	if !ok {
		return 0, false
	}
	return f.Measure(text, fontSize), true
}

// MonospaceWidth estimates a monospace run's width using go-runewidth's
// per-rune cell width instead of a flat average factor, for the
// Courier family variant of spec §4.6.1's estimate_width when no
// embedded face is available.
func MonospaceWidth(text string, fontSize float64) float64 {
	cells := 0
	for _, r := range text {
		cells += runewidth.RuneWidth(r)
	}
	return float64(cells) * fontSize * 0.6
}
