// Package font implements the font container codec (C4: table parsers),
// the glyph subsetter (C5), and the re-serializer (C6) described in
// spec §4.7/§4.8: a big-endian sfnt-style table directory plus the ten
// required/optional tables needed to embed a subset of a TrueType-
// flavored font into a document.
package font

import "github.com/inkdoc/inkdoc/pkg/sfntcodec"

// Flavor is the sfnt version field's outline family.
type Flavor int

const (
	FlavorTrueType Flavor = iota
	FlavorPostScript
	FlavorOther
)

var sfntVersions = map[uint32]Flavor{
	0x00010000: FlavorTrueType,
	0x74727565: FlavorTrueType, // 'true'
	0x4F54544F: FlavorPostScript,
	0x74797031: FlavorOther, // 'typ1'
}

// HeadTable is the subset of `head` fields the codec round-trips.
type HeadTable struct {
	FontRevision      sfntcodec.Fixed
	CheckSumAdj       uint32
	Flags             uint16
	UnitsPerEm        uint16
	Created           sfntcodec.LongDateTime
	Modified          sfntcodec.LongDateTime
	XMin, YMin        int16
	XMax, YMax        int16
	MacStyle          uint16
	LowestRecPPEM     uint16
	FontDirectionHint int16
	IndexToLocFormat  int16
}

// HheaTable is the subset of `hhea` fields the codec round-trips.
type HheaTable struct {
	Ascender            int16
	Descender           int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	NumberOfHMetrics    uint16
}

// MaxpTable holds the glyph count only; the version-1.0 maxima are not
// stored, and serializeMaxp writes fixed conservative values for them.
type MaxpTable struct {
	NumGlyphs uint16
}

// HMetric is one glyph's advance width and left-side bearing.
type HMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// NameRecord is a single decoded `name` table entry.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Value      string
}

// OS2Table is the subset of `OS/2` fields the codec reads and
// preserves across subsetting.
type OS2Table struct {
	Version       uint16
	XAvgCharWidth int16
	WeightClass   uint16
	WidthClass    uint16
	FsType        uint16
	YSubXSize     int16
	YSubYSize     int16
	YSubXOff      int16
	YSubYOff      int16
	YSupXSize     int16
	YSupYSize     int16
	YSupXOff      int16
	YSupYOff      int16
	StrikeoutSize int16
	StrikeoutPos  int16
	FamilyClass   int16
	Panose        [10]byte
	UnicodeRange  [4]uint32
	VendID        sfntcodec.Tag
	FsSelection   uint16
	FirstCharIdx  uint16
	LastCharIdx   uint16
	TypoAscender  int16
	TypoDescender int16
	TypoLineGap   int16
	WinAscent     uint16
	WinDescent    uint16
}

// PostTable is the subset of `post` fields the codec preserves. The
// glyph-name array of a version-2.0 table is not read, and serializePost
// always writes version 3.0 (no glyph names), so names are not
// round-tripped.
type PostTable struct {
	ItalicAngle        sfntcodec.Fixed
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       uint32
}

// Font is a fully parsed, in-memory font container: every table the
// codec understands, keyed by glyph id where applicable. Glyph outline
// bytes (`glyf`) are kept as opaque, per-glyph byte slices so they can
// be copied verbatim during subsetting without re-encoding (spec §4.8
// step 2).
type Font struct {
	Flavor Flavor

	Head HeadTable
	Hhea HheaTable
	Maxp MaxpTable
	OS2  *OS2Table // nil if the source font carried no OS/2 table
	Post PostTable

	Names []NameRecord

	// HMetrics has exactly Maxp.NumGlyphs entries; the last advance
	// width is replicated for glyphs beyond Hhea.NumberOfHMetrics per
	// spec §4.7's hmtx parsing rule.
	HMetrics []HMetric

	// CharToGlyph is the char -> glyph-id map rebuilt from cmap.
	CharToGlyph map[rune]uint16

	// Glyphs holds each glyph's raw `glyf` outline bytes indexed by
	// glyph id; length equals Maxp.NumGlyphs.
	Glyphs [][]byte

	// Kerning holds old-glyph-id-pair -> value entries from an optional
	// `kern` table (format 0), a supplemented feature beyond the
	// distilled spec (see SPEC_FULL.md); nil if the source had none.
	Kerning map[GlyphPair]int16

	// PostScriptName is read from the `name` table (nameID 6) for use
	// in the subsetter's tag-prefixed rename (spec §4.8 step 3).
	PostScriptName string
}

// GlyphPair is a kerning pair key, (left glyph id, right glyph id).
type GlyphPair struct {
	Left, Right uint16
}

// AdvanceWidth returns gid's advance width, clamping to the last valid
// index the way spec §4.7's hmtx parsing replicates the final glyph's
// width for the trailing LSB-only run.
func (f *Font) AdvanceWidth(gid uint16) uint16 {
	if int(gid) >= len(f.HMetrics) {
		if len(f.HMetrics) == 0 {
			return 0
		}
		return f.HMetrics[len(f.HMetrics)-1].AdvanceWidth
	}
	return f.HMetrics[gid].AdvanceWidth
}

// Outline returns gid's raw glyf bytes, or nil if gid is out of range.
func (f *Font) Outline(gid uint16) []byte {
	if int(gid) >= len(f.Glyphs) {
		return nil
	}
	return f.Glyphs[gid]
}
