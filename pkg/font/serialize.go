package font

import (
	"math/bits"
	"sort"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/inkdoc/inkdoc/pkg/sfntcodec"
)

// directorySearchParams computes the binary-search helper fields shared
// by the sfnt offset table and the cmap format-4 subtable header (spec
// §4.7 step 5 / §4.8's cmap construction), given a count of unitSize-
// byte records.
func directorySearchParams(count uint16, unitSize uint16) (searchRange, entrySelector, rangeShift uint16) {
	if count == 0 {
		return 0, 0, 0
	}
	entrySelector = uint16(bits.Len16(count) - 1)
	searchRange = unitSize * (uint16(1) << entrySelector)
	rangeShift = count*unitSize - searchRange
	return
}

// Serialize re-emits f as a self-consistent straight-outline container,
// following spec §4.7's re-serialization algorithm exactly: generate
// tables, sort directory entries by tag, checksum each table, lay out
// 4-byte-aligned offsets, then emit offset table + directory + payloads.
func Serialize(f *Font) ([]byte, error) {
	tables := map[string][]byte{
		"head": serializeHead(f),
		"hhea": serializeHhea(f),
		"maxp": serializeMaxp(f),
		"hmtx": serializeHmtx(f),
		"name": serializeName(f),
		"cmap": serializeCmap(f),
		"post": serializePost(f),
	}
	loca, glyf := serializeLocaAndGlyf(f)
	tables["loca"] = loca
	tables["glyf"] = glyf
	if f.OS2 != nil {
		tables["OS/2"] = serializeOS2(f)
	}

	tags := make([]string, 0, len(tables))
	for t := range tables {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	numTables := uint16(len(tags))
	dirSize := 12 + 16*int(numTables)

	type laidOut struct {
		tag      string
		offset   int
		length   int
		checksum uint32
	}
	offsets := make([]laidOut, 0, numTables)
	cursor := dirSize
	for _, tag := range tags {
		body := tables[tag]
		offsets = append(offsets, laidOut{
			tag: tag, offset: cursor, length: len(body),
			checksum: sfntcodec.Checksum(body),
		})
		padded := (len(body) + 3) &^ 3
		cursor += padded
	}

	w := sfntcodec.NewWriter()
	searchRange, entrySelector, rangeShift := directorySearchParams(numTables, 16)
	w.U32(0x00010000)
	w.U16(numTables)
	w.U16(searchRange)
	w.U16(entrySelector)
	w.U16(rangeShift)

	for _, lo := range offsets {
		w.WriteTag(sfntcodec.MakeTag(lo.tag))
		w.U32(lo.checksum)
		w.U32(uint32(lo.offset))
		w.U32(uint32(lo.length))
	}

	for _, lo := range offsets {
		w.Write(tables[lo.tag])
		w.PadTo4()
	}

	return w.Bytes(), nil
}

func serializeHead(f *Font) []byte {
	w := sfntcodec.NewWriter()
	w.WriteFixed(sfntcodec.FixedFromFloat64(1.0))
	rev := f.Head.FontRevision
	if rev == 0 {
		rev = sfntcodec.FixedFromFloat64(1.0)
	}
	w.WriteFixed(rev)
	w.U32(0) // checkSumAdjustment placeholder
	w.U32(0x5F0F3CF5)
	flags := f.Head.Flags
	if flags == 0 {
		flags = 0x0003
	}
	w.U16(flags)
	unitsPerEm := f.Head.UnitsPerEm
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	w.U16(unitsPerEm)
	now := sfntcodec.LongDateTimeFromUnixSeconds(time.Now().Unix())
	w.WriteLongDateTime(now)
	w.WriteLongDateTime(now)
	w.I16(f.Head.XMin)
	w.I16(f.Head.YMin)
	w.I16(f.Head.XMax)
	w.I16(f.Head.YMax)

	macStyle := uint16(0)
	if f.OS2 != nil && f.OS2.WeightClass >= 700 {
		macStyle |= 1 << 0
	}
	if f.Post.ItalicAngle != 0 {
		macStyle |= 1 << 1
	}
	w.U16(macStyle)
	w.U16(9) // lowestRecPPEM
	w.I16(f.Head.FontDirectionHint)
	indexToLocFormat := int16(0)
	if len(f.Glyphs) > 0 {
		if total := totalGlyfLength(f.Glyphs); total > 0xFFFF*2 {
			indexToLocFormat = 1
		}
	}
	w.I16(indexToLocFormat)
	w.I16(0) // glyphDataFormat
	return w.Bytes()
}

func totalGlyfLength(glyphs [][]byte) int {
	total := 0
	for _, g := range glyphs {
		total += (len(g) + 1) &^ 1
	}
	return total
}

func serializeMaxp(f *Font) []byte {
	w := sfntcodec.NewWriter()
	w.WriteFixed(sfntcodec.FixedFromFloat64(1.0))
	w.U16(uint16(len(f.Glyphs)))
	w.U16(100) // maxPoints (conservative default)
	w.U16(50)  // maxContours
	w.U16(100) // maxCompositePoints
	w.U16(50)  // maxCompositeContours
	w.U16(2)   // maxZones
	w.U16(0)   // maxTwilightPoints
	w.U16(32)  // maxStorage
	w.U16(1)   // maxFunctionDefs
	w.U16(0)   // maxInstructionDefs
	w.U16(64)  // maxStackElements
	w.U16(0)   // maxSizeOfInstructions
	w.U16(1)   // maxComponentElements
	w.U16(1)   // maxComponentDepth
	return w.Bytes()
}

// glyphXMinXMax reads the xMin/xMax fields (bytes 2-3 and 6-7) out of a raw
// `glyf` outline; ok is false for an empty (no-contour) outline, which
// contributes nothing to the hhea min/max below.
func glyphXMinXMax(outline []byte) (xMin, xMax int16, ok bool) {
	if len(outline) < 10 {
		return 0, 0, false
	}
	r := sfntcodec.NewReader(outline)
	r.Skip(2) // numberOfContours
	xMin, err := r.I16()
	if err != nil {
		return 0, 0, false
	}
	r.Skip(2) // yMin
	xMax, err = r.I16()
	if err != nil {
		return 0, 0, false
	}
	return xMin, xMax, true
}

func serializeHhea(f *Font) []byte {
	w := sfntcodec.NewWriter()
	w.WriteFixed(sfntcodec.FixedFromFloat64(1.0))
	w.I16(f.Hhea.Ascender)
	w.I16(f.Hhea.Descender)
	w.I16(f.Hhea.LineGap)

	var awMax uint16
	var minLSB, minRSB, xMaxExtent int16 = 0x7FFF, 0x7FFF, -0x8000
	haveExtent := false
	for i, m := range f.HMetrics {
		if m.AdvanceWidth > awMax {
			awMax = m.AdvanceWidth
		}
		if m.LeftSideBearing < minLSB {
			minLSB = m.LeftSideBearing
		}
		if i >= len(f.Glyphs) {
			continue
		}
		xMin, xMax, ok := glyphXMinXMax(f.Glyphs[i])
		if !ok {
			continue
		}
		rsb := int16(m.AdvanceWidth) - m.LeftSideBearing - (xMax - xMin)
		extent := m.LeftSideBearing + (xMax - xMin)
		if !haveExtent || rsb < minRSB {
			minRSB = rsb
		}
		if !haveExtent || extent > xMaxExtent {
			xMaxExtent = extent
		}
		haveExtent = true
	}
	w.U16(awMax)
	if len(f.HMetrics) == 0 {
		minLSB, minRSB, xMaxExtent = 0, 0, 0
	} else if !haveExtent {
		minRSB, xMaxExtent = 0, 0
	}
	w.I16(minLSB)
	w.I16(minRSB)
	w.I16(xMaxExtent)
	w.I16(f.Hhea.CaretSlopeRise)
	w.I16(f.Hhea.CaretSlopeRun)
	w.I16(f.Hhea.CaretOffset)
	w.I16(0) // reserved
	w.I16(0)
	w.I16(0)
	w.I16(0)
	w.I16(0) // metricDataFormat
	w.U16(uint16(len(f.HMetrics)))
	return w.Bytes()
}

func serializeHmtx(f *Font) []byte {
	w := sfntcodec.NewWriter()
	for _, m := range f.HMetrics {
		w.U16(m.AdvanceWidth)
		w.I16(m.LeftSideBearing)
	}
	return w.Bytes()
}

func serializeLocaAndGlyf(f *Font) (loca, glyf []byte) {
	gw := sfntcodec.NewWriter()
	offsets := make([]uint32, len(f.Glyphs)+1)
	for i, g := range f.Glyphs {
		offsets[i] = uint32(gw.Len())
		gw.Write(g)
		if len(g)%2 != 0 {
			gw.U8(0)
		}
	}
	offsets[len(f.Glyphs)] = uint32(gw.Len())
	glyf = gw.Bytes()

	long := len(glyf) > 0xFFFF*2
	lw := sfntcodec.NewWriter()
	if long {
		for _, o := range offsets {
			lw.U32(o)
		}
	} else {
		for _, o := range offsets {
			lw.U16(uint16(o / 2))
		}
	}
	return lw.Bytes(), glyf
}

func serializeName(f *Font) []byte {
	type entry struct {
		nameID uint16
		value  string
	}
	byID := map[uint16]string{}
	for _, n := range f.Names {
		if n.NameID == 1 || n.NameID == 2 || n.NameID == 4 || n.NameID == 6 {
			byID[n.NameID] = n.Value
		}
	}
	var entries []entry
	for _, id := range []uint16{1, 2, 4, 6} {
		if v, ok := byID[id]; ok {
			entries = append(entries, entry{id, v})
		}
	}

	w := sfntcodec.NewWriter()
	w.U16(0) // format
	w.U16(uint16(len(entries)))
	storageOffset := 6 + 12*len(entries)
	w.U16(uint16(storageOffset))

	var storage []byte
	for _, e := range entries {
		encoded := encodeUTF16BE(e.value)
		w.U16(3) // platform Microsoft
		w.U16(1) // encoding unicode BMP
		w.U16(0x0409)
		w.U16(e.nameID)
		w.U16(uint16(len(encoded)))
		w.U16(uint16(len(storage)))
		storage = append(storage, encoded...)
	}
	w.Write(storage)
	return w.Bytes()
}

var utf16BEEncoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()

func encodeUTF16BE(s string) []byte {
	out, err := utf16BEEncoder.Bytes([]byte(s))
	if err != nil {
		return nil
	}
	return out
}

func serializeCmap(f *Font) []byte {
	w := sfntcodec.NewWriter()
	w.U16(0) // version
	w.U16(1) // numTables
	w.U16(3) // platform Microsoft
	w.U16(1) // encoding unicode BMP
	w.U32(12)
	buildCmapFormat4(w, f.CharToGlyph)
	return w.Bytes()
}

func serializePost(f *Font) []byte {
	w := sfntcodec.NewWriter()
	w.U32(0x00030000) // version 3.0
	w.WriteFixed(f.Post.ItalicAngle)
	w.I16(f.Post.UnderlinePosition)
	w.I16(f.Post.UnderlineThickness)
	w.U32(f.Post.IsFixedPitch)
	w.U32(0) // minMemType42
	w.U32(0) // maxMemType42
	w.U32(0) // minMemType1
	w.U32(0) // maxMemType1
	return w.Bytes()
}

func serializeOS2(f *Font) []byte {
	o := f.OS2
	w := sfntcodec.NewWriter()
	version := o.Version
	if version < 4 {
		version = 4
	}
	w.U16(version)
	w.I16(o.XAvgCharWidth)
	w.U16(o.WeightClass)
	w.U16(o.WidthClass)
	w.U16(o.FsType)
	w.I16(0) // ySubscriptXSize
	w.I16(0)
	w.I16(0)
	w.I16(0)
	w.I16(0) // ySuperscriptXSize
	w.I16(0)
	w.I16(0)
	w.I16(0)
	w.I16(o.StrikeoutSize)
	w.I16(o.StrikeoutPos)
	w.I16(o.FamilyClass)
	w.Write(o.Panose[:])
	w.U32(0xFFFFFFFF) // ulUnicodeRange1..4 all-set
	w.U32(0xFFFFFFFF)
	w.U32(0xFFFFFFFF)
	w.U32(0xFFFFFFFF)
	w.WriteTag(o.VendID)
	w.U16(o.FsSelection)

	firstChar, lastChar := scanCharRange(f.CharToGlyph)
	w.U16(firstChar)
	w.U16(lastChar)

	w.I16(o.TypoAscender)
	w.I16(o.TypoDescender)
	w.I16(o.TypoLineGap)
	w.U16(o.WinAscent)
	w.U16(o.WinDescent)
	if version >= 1 {
		w.U32(0) // ulCodePageRange1
		w.U32(0) // ulCodePageRange2
	}
	if version >= 2 {
		w.I16(0) // sxHeight
		w.I16(0) // sCapHeight
		w.U16(0) // usDefaultChar
		w.U16(0x0020) // usBreakChar
		w.U16(1)      // usMaxContext
	}
	return w.Bytes()
}

func scanCharRange(charToGlyph map[rune]uint16) (first, last uint16) {
	first = 0xFFFF
	for c := range charToGlyph {
		if c < 0 || c > 0xFFFF {
			continue
		}
		if uint16(c) < first {
			first = uint16(c)
		}
		if uint16(c) > last {
			last = uint16(c)
		}
	}
	if first == 0xFFFF && last == 0 {
		first = 0
	}
	return
}
