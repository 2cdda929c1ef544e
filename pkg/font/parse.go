package font

import (
	"github.com/inkdoc/inkdoc/internal/errs"
	"github.com/inkdoc/inkdoc/pkg/sfntcodec"
	pkgerrors "github.com/pkg/errors"
)

// ParseFont parses a big-endian sfnt-style container into a Font,
// following spec §4.7's dependency order: head -> maxp -> hhea -> hmtx
// -> name -> cmap -> loca -> glyf -> post -> OS/2.
func ParseFont(data []byte) (*Font, error) {
	r := sfntcodec.NewReader(data)
	dir, err := readDirectory(r)
	if err != nil {
		return nil, err
	}

	f := &Font{Flavor: dir.flavor}

	headR, _, err := dir.sub(r, "head")
	if err != nil {
		return nil, err
	}
	if err := parseHead(headR, f); err != nil {
		return nil, err
	}

	maxpR, _, err := dir.sub(r, "maxp")
	if err != nil {
		return nil, err
	}
	if err := parseMaxp(maxpR, f); err != nil {
		return nil, err
	}

	hheaR, _, err := dir.sub(r, "hhea")
	if err != nil {
		return nil, err
	}
	if err := parseHhea(hheaR, f); err != nil {
		return nil, err
	}

	hmtxR, _, err := dir.sub(r, "hmtx")
	if err != nil {
		return nil, err
	}
	if err := parseHmtx(hmtxR, f); err != nil {
		return nil, err
	}

	nameR, _, err := dir.sub(r, "name")
	if err != nil {
		return nil, err
	}
	if err := parseName(nameR, f); err != nil {
		return nil, err
	}

	cmapR, _, err := dir.sub(r, "cmap")
	if err != nil {
		return nil, err
	}
	charMap, err := parseCmap(cmapR)
	if err != nil {
		return nil, err
	}
	f.CharToGlyph = charMap

	if dir.has("glyf") && dir.has("loca") {
		locaR, _, err := dir.sub(r, "loca")
		if err != nil {
			return nil, err
		}
		offsets, err := parseLoca(locaR, f)
		if err != nil {
			return nil, err
		}
		glyfR, _, err := dir.sub(r, "glyf")
		if err != nil {
			return nil, err
		}
		if err := parseGlyf(glyfR, offsets, f); err != nil {
			return nil, err
		}
	}

	if dir.has("post") {
		postR, _, err := dir.sub(r, "post")
		if err != nil {
			return nil, err
		}
		if err := parsePost(postR, f); err != nil {
			return nil, err
		}
	}

	if dir.has("OS/2") {
		os2R, _, err := dir.sub(r, "OS/2")
		if err != nil {
			return nil, err
		}
		if err := parseOS2(os2R, f); err != nil {
			return nil, err
		}
	}

	if dir.has("kern") {
		kernR, _, err := dir.sub(r, "kern")
		if err != nil {
			return nil, err
		}
		kerning, err := parseKern(kernR)
		if err == nil {
			f.Kerning = kerning
		}
	}

	for _, n := range f.Names {
		if n.NameID == 6 && f.PostScriptName == "" {
			f.PostScriptName = n.Value
		}
	}

	return f, nil
}

func parseHead(r *sfntcodec.Reader, f *Font) error {
	r.Skip(4) // version
	rev, err := r.Fixed()
	if err != nil {
		return pkgerrors.Wrap(err, "head fontRevision")
	}
	f.Head.FontRevision = rev
	checksumAdj, err := r.U32()
	if err != nil {
		return pkgerrors.Wrap(err, "head checkSumAdjustment")
	}
	f.Head.CheckSumAdj = checksumAdj
	r.Skip(4) // magicNumber
	flags, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "head flags")
	}
	f.Head.Flags = flags
	unitsPerEm, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "head unitsPerEm")
	}
	f.Head.UnitsPerEm = unitsPerEm
	created, err := r.LongDateTime()
	if err != nil {
		return pkgerrors.Wrap(err, "head created")
	}
	f.Head.Created = created
	modified, err := r.LongDateTime()
	if err != nil {
		return pkgerrors.Wrap(err, "head modified")
	}
	f.Head.Modified = modified
	xmin, _ := r.I16()
	ymin, _ := r.I16()
	xmax, _ := r.I16()
	ymax, _ := r.I16()
	f.Head.XMin, f.Head.YMin, f.Head.XMax, f.Head.YMax = xmin, ymin, xmax, ymax
	macStyle, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "head macStyle")
	}
	f.Head.MacStyle = macStyle
	lowestRecPPEM, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "head lowestRecPPEM")
	}
	f.Head.LowestRecPPEM = lowestRecPPEM
	fontDirectionHint, err := r.I16()
	if err != nil {
		return pkgerrors.Wrap(err, "head fontDirectionHint")
	}
	f.Head.FontDirectionHint = fontDirectionHint
	indexToLocFormat, err := r.I16()
	if err != nil {
		return pkgerrors.Wrap(err, "head indexToLocFormat")
	}
	f.Head.IndexToLocFormat = indexToLocFormat
	glyphDataFormat, err := r.I16()
	if err != nil {
		return pkgerrors.Wrap(err, "head glyphDataFormat")
	}
	if glyphDataFormat != 0 {
		return errs.InvalidFont("parse_font", "unsupported glyphDataFormat", nil)
	}
	return nil
}

func parseMaxp(r *sfntcodec.Reader, f *Font) error {
	r.Skip(4) // version
	numGlyphs, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "maxp numGlyphs")
	}
	f.Maxp.NumGlyphs = numGlyphs
	return nil
}

func parseHhea(r *sfntcodec.Reader, f *Font) error {
	r.Skip(4) // version
	asc, _ := r.I16()
	desc, _ := r.I16()
	lineGap, _ := r.I16()
	awMax, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "hhea advanceWidthMax")
	}
	minLSB, _ := r.I16()
	minRSB, _ := r.I16()
	xMaxExtent, _ := r.I16()
	caretRise, _ := r.I16()
	caretRun, _ := r.I16()
	caretOffset, _ := r.I16()
	r.Skip(8) // reserved x4
	r.Skip(2) // metricDataFormat
	numHMetrics, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "hhea numberOfHMetrics")
	}
	f.Hhea = HheaTable{
		Ascender: asc, Descender: desc, LineGap: lineGap,
		AdvanceWidthMax: awMax, MinLeftSideBearing: minLSB,
		MinRightSideBearing: minRSB, XMaxExtent: xMaxExtent,
		CaretSlopeRise: caretRise, CaretSlopeRun: caretRun,
		CaretOffset: caretOffset, NumberOfHMetrics: numHMetrics,
	}
	return nil
}

func parseHmtx(r *sfntcodec.Reader, f *Font) error {
	n := int(f.Maxp.NumGlyphs)
	numH := int(f.Hhea.NumberOfHMetrics)
	if numH > n {
		numH = n
	}
	metrics := make([]HMetric, n)
	var lastWidth uint16
	for i := 0; i < numH; i++ {
		aw, err := r.U16()
		if err != nil {
			return pkgerrors.Wrap(err, "hmtx advanceWidth")
		}
		lsb, err := r.I16()
		if err != nil {
			return pkgerrors.Wrap(err, "hmtx lsb")
		}
		metrics[i] = HMetric{AdvanceWidth: aw, LeftSideBearing: lsb}
		lastWidth = aw
	}
	for i := numH; i < n; i++ {
		lsb, err := r.I16()
		if err != nil {
			return pkgerrors.Wrap(err, "hmtx trailing lsb")
		}
		metrics[i] = HMetric{AdvanceWidth: lastWidth, LeftSideBearing: lsb}
	}
	f.HMetrics = metrics
	return nil
}

// parseName extracts every record, preferring platform 3 encoding 1
// language 0x0409 (spec §4.7 name-table parsing).
func parseName(r *sfntcodec.Reader, f *Font) error {
	r.Skip(2) // format
	count, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "name count")
	}
	storageOffset, err := r.U16()
	if err != nil {
		return pkgerrors.Wrap(err, "name storageOffset")
	}

	type rawRecord struct {
		platform, encoding, language, nameID uint16
		offset, length                       uint16
	}
	raws := make([]rawRecord, count)
	for i := range raws {
		p, _ := r.U16()
		e, _ := r.U16()
		l, _ := r.U16()
		nid, _ := r.U16()
		length, _ := r.U16()
		offset, err := r.U16()
		if err != nil {
			return pkgerrors.Wrap(err, "name record offset")
		}
		raws[i] = rawRecord{p, e, l, nid, offset, length}
	}

	preferred := func(rr rawRecord) bool {
		return rr.platform == 3 && rr.encoding == 1 && rr.language == 0x0409
	}
	best := map[uint16]rawRecord{}
	for _, rr := range raws {
		cur, ok := best[rr.nameID]
		if !ok || (preferred(rr) && !preferred(cur)) {
			best[rr.nameID] = rr
		}
	}

	for _, rr := range best {
		raw, err := r.ReadAt(int(storageOffset)+int(rr.offset), int(rr.length))
		if err != nil {
			continue
		}
		f.Names = append(f.Names, NameRecord{
			PlatformID: rr.platform, EncodingID: rr.encoding,
			LanguageID: rr.language, NameID: rr.nameID,
			Value: decodeNameString(rr.platform, raw),
		})
	}
	return nil
}

func decodeNameString(platform uint16, raw []byte) string {
	if platform == 1 {
		return string(raw)
	}
	// Platform 3 (and 0) strings are UTF-16BE.
	runes := make([]rune, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		runes = append(runes, rune(uint16(raw[i])<<8|uint16(raw[i+1])))
	}
	return string(runes)
}

func parseLoca(r *sfntcodec.Reader, f *Font) ([]uint32, error) {
	n := int(f.Maxp.NumGlyphs) + 1
	offsets := make([]uint32, n)
	if f.Head.IndexToLocFormat == 0 {
		for i := 0; i < n; i++ {
			v, err := r.U16()
			if err != nil {
				return nil, pkgerrors.Wrap(err, "loca short offset")
			}
			offsets[i] = uint32(v) * 2
		}
	} else {
		for i := 0; i < n; i++ {
			v, err := r.U32()
			if err != nil {
				return nil, pkgerrors.Wrap(err, "loca long offset")
			}
			offsets[i] = v
		}
	}
	return offsets, nil
}

func parseGlyf(r *sfntcodec.Reader, offsets []uint32, f *Font) error {
	n := len(offsets) - 1
	glyphs := make([][]byte, n)
	for gid := 0; gid < n; gid++ {
		start, end := offsets[gid], offsets[gid+1]
		if end < start {
			return errs.InvalidFont("parse_font", "glyf: negative-length glyph entry", nil)
		}
		raw, err := r.ReadAt(int(start), int(end-start))
		if err != nil {
			return pkgerrors.Wrapf(err, "glyf glyph %d", gid)
		}
		glyphs[gid] = raw
	}
	f.Glyphs = glyphs
	return nil
}

func parsePost(r *sfntcodec.Reader, f *Font) error {
	_, err := r.U32() // version (a version-2.0 glyph-name array is not read)
	if err != nil {
		return pkgerrors.Wrap(err, "post version")
	}
	angle, err := r.Fixed()
	if err != nil {
		return pkgerrors.Wrap(err, "post italicAngle")
	}
	underlinePos, _ := r.I16()
	underlineThickness, _ := r.I16()
	isFixedPitch, err := r.U32()
	if err != nil {
		return pkgerrors.Wrap(err, "post isFixedPitch")
	}
	f.Post = PostTable{
		ItalicAngle: angle, UnderlinePosition: underlinePos,
		UnderlineThickness: underlineThickness, IsFixedPitch: isFixedPitch,
	}
	return nil
}

func parseOS2(r *sfntcodec.Reader, f *Font) error {
	o := &OS2Table{}
	var err error
	if o.Version, err = r.U16(); err != nil {
		return pkgerrors.Wrap(err, "OS/2 version")
	}
	if o.XAvgCharWidth, err = r.I16(); err != nil {
		return pkgerrors.Wrap(err, "OS/2 xAvgCharWidth")
	}
	if o.WeightClass, err = r.U16(); err != nil {
		return pkgerrors.Wrap(err, "OS/2 usWeightClass")
	}
	if o.WidthClass, err = r.U16(); err != nil {
		return pkgerrors.Wrap(err, "OS/2 usWidthClass")
	}
	if o.FsType, err = r.U16(); err != nil {
		return pkgerrors.Wrap(err, "OS/2 fsType")
	}
	o.YSubXSize, _ = r.I16()
	o.YSubYSize, _ = r.I16()
	o.YSubXOff, _ = r.I16()
	o.YSubYOff, _ = r.I16()
	o.YSupXSize, _ = r.I16()
	o.YSupYSize, _ = r.I16()
	o.YSupXOff, _ = r.I16()
	o.YSupYOff, _ = r.I16()
	o.StrikeoutSize, _ = r.I16()
	o.StrikeoutPos, _ = r.I16()
	o.FamilyClass, _ = r.I16()
	panose, err := r.Bytes(10)
	if err != nil {
		return pkgerrors.Wrap(err, "OS/2 panose")
	}
	copy(o.Panose[:], panose)
	for i := 0; i < 4; i++ {
		o.UnicodeRange[i], _ = r.U32()
	}
	vendID, err := r.Tag()
	if err != nil {
		return pkgerrors.Wrap(err, "OS/2 achVendID")
	}
	o.VendID = vendID
	o.FsSelection, _ = r.U16()
	o.FirstCharIdx, _ = r.U16()
	o.LastCharIdx, _ = r.U16()
	if o.TypoAscender, err = r.I16(); err != nil {
		return pkgerrors.Wrap(err, "OS/2 typoAscender")
	}
	o.TypoDescender, _ = r.I16()
	o.TypoLineGap, _ = r.I16()
	o.WinAscent, _ = r.U16()
	o.WinDescent, _ = r.U16()
	f.OS2 = o
	return nil
}

// parseKern reads a format-0 `kern` subtable into glyph-pair kerning
// values (a supplemented feature; see SPEC_FULL.md's kern-table note).
func parseKern(r *sfntcodec.Reader) (map[GlyphPair]int16, error) {
	r.Skip(2) // version
	numTables, err := r.U16()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "kern numTables")
	}
	out := map[GlyphPair]int16{}
	for t := uint16(0); t < numTables; t++ {
		r.Skip(2) // subtable version
		length, err := r.U16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "kern subtable length")
		}
		coverage, err := r.U16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "kern subtable coverage")
		}
		format := coverage >> 8
		if format != 0 {
			r.Skip(int(length) - 6)
			continue
		}
		nPairs, err := r.U16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "kern nPairs")
		}
		r.Skip(6) // searchRange, entrySelector, rangeShift
		for p := uint16(0); p < nPairs; p++ {
			left, _ := r.U16()
			right, _ := r.U16()
			value, err := r.I16()
			if err != nil {
				return nil, pkgerrors.Wrap(err, "kern pair value")
			}
			out[GlyphPair{Left: left, Right: right}] = value
		}
	}
	return out, nil
}
