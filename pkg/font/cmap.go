package font

import (
	"sort"

	"github.com/inkdoc/inkdoc/internal/errs"
	"github.com/inkdoc/inkdoc/pkg/sfntcodec"
	pkgerrors "github.com/pkg/errors"
)

// parseCmap walks the cmap's encoding records, selects the best Unicode
// subtable (preferring platform 3 encoding 1, then platform 0 encoding
// 3/4, then platform 3 encoding 10), and parses it as format 0, 4, or
// 12 into a char->glyph map (spec §4.7 cmap parsing).
func parseCmap(r *sfntcodec.Reader) (map[rune]uint16, error) {
	r.SeekTo(2) // skip version
	numSubtables, err := r.U16()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read cmap numSubtables")
	}

	type record struct {
		platform, encoding uint16
		offset             uint32
	}
	var records []record
	for i := uint16(0); i < numSubtables; i++ {
		platform, err := r.U16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap platform")
		}
		encoding, err := r.U16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap encoding")
		}
		offset, err := r.U32()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap subtable offset")
		}
		records = append(records, record{platform, encoding, offset})
	}

	score := func(p, e uint16) int {
		switch {
		case p == 3 && e == 1:
			return 3
		case p == 0 && (e == 3 || e == 4):
			return 2
		case p == 3 && e == 10:
			return 1
		default:
			return 0
		}
	}

	best := -1
	bestScore := -1
	for i, rec := range records {
		if s := score(rec.platform, rec.encoding); s > bestScore {
			bestScore = s
			best = i
		}
	}
	if best < 0 {
		return nil, errs.InvalidFont("parse_font", "no usable cmap subtable found", nil)
	}

	r.SeekTo(int(records[best].offset))
	format, err := r.U16()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read cmap subtable format")
	}

	switch format {
	case 0:
		return parseCmapFormat0(r)
	case 4:
		return parseCmapFormat4(r)
	case 12:
		return parseCmapFormat12(r)
	default:
		return nil, errs.InvalidFont("parse_font", "unsupported cmap format", nil)
	}
}

func parseCmapFormat0(r *sfntcodec.Reader) (map[rune]uint16, error) {
	r.Skip(4) // length, language
	out := map[rune]uint16{}
	for c := 0; c < 256; c++ {
		gid, err := r.U8()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap format 0 glyph id")
		}
		if gid != 0 {
			out[rune(c)] = uint16(gid)
		}
	}
	return out, nil
}

func parseCmapFormat4(r *sfntcodec.Reader) (map[rune]uint16, error) {
	r.Skip(2) // length
	r.Skip(2) // language
	segCountX2, err := r.U16()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read cmap format 4 segCountX2")
	}
	segCount := int(segCountX2 / 2)
	r.Skip(6) // searchRange, entrySelector, rangeShift

	endCodes := make([]uint16, segCount)
	for i := range endCodes {
		endCodes[i], err = r.U16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap format 4 endCode")
		}
	}
	r.Skip(2) // reservedPad
	startCodes := make([]uint16, segCount)
	for i := range startCodes {
		startCodes[i], err = r.U16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap format 4 startCode")
		}
	}
	idDeltas := make([]int16, segCount)
	for i := range idDeltas {
		v, err := r.I16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap format 4 idDelta")
		}
		idDeltas[i] = v
	}
	idRangeOffsetPos := r.Pos()
	idRangeOffsets := make([]uint16, segCount)
	for i := range idRangeOffsets {
		idRangeOffsets[i], err = r.U16()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap format 4 idRangeOffset")
		}
	}

	out := map[rune]uint16{}
	for i := 0; i < segCount; i++ {
		if startCodes[i] == 0xFFFF && endCodes[i] == 0xFFFF {
			continue
		}
		for c := uint32(startCodes[i]); c <= uint32(endCodes[i]); c++ {
			var gid uint16
			if idRangeOffsets[i] == 0 {
				gid = uint16(uint32(int32(c)+int32(idDeltas[i])) & 0xFFFF)
			} else {
				glyphOffset := idRangeOffsetPos + i*2 + int(idRangeOffsets[i]) + int(c-uint32(startCodes[i]))*2
				raw, err := r.ReadAt(glyphOffset, 2)
				if err != nil {
					return nil, pkgerrors.Wrap(err, "read cmap format 4 glyph index array")
				}
				g := uint16(raw[0])<<8 | uint16(raw[1])
				if g != 0 {
					gid = uint16(uint32(g)+uint32(idDeltas[i])) & 0xFFFF
				}
			}
			if gid != 0 {
				out[rune(c)] = gid
			}
			if c == 0xFFFF {
				break
			}
		}
	}
	return out, nil
}

func parseCmapFormat12(r *sfntcodec.Reader) (map[rune]uint16, error) {
	r.Skip(2) // reserved
	r.Skip(4) // length
	r.Skip(4) // language
	numGroups, err := r.U32()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read cmap format 12 numGroups")
	}
	out := map[rune]uint16{}
	for i := uint32(0); i < numGroups; i++ {
		startChar, err := r.U32()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap format 12 startCharCode")
		}
		endChar, err := r.U32()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap format 12 endCharCode")
		}
		startGlyph, err := r.U32()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read cmap format 12 startGlyphID")
		}
		for c := startChar; c <= endChar; c++ {
			out[rune(c)] = uint16(startGlyph + (c - startChar))
		}
	}
	return out, nil
}

// cmapSegment is one contiguous run of chars that also map to
// consecutive glyph ids, so a single idDelta covers the whole run
// (spec §4.7/§4.8 cmap format 4 construction, grounded on the
// segment-coalescing algorithm in aff1fe58_kofi-q-scribe-go's
// genCmap). Coalescing on consecutive chars alone would be wrong for
// a non-subset font whose consecutive chars don't map to consecutive
// glyphs; subset output happens to assign sequential ids to its
// sorted-by-char glyph list, but this check doesn't rely on that.
type cmapSegment struct {
	start, end uint16
	idDelta    uint16
}

// buildCmapFormat4 writes a complete format-4 subtable, starting with
// its format field, for charToGlyph, matching the construction
// algorithm and concrete scenario in spec §8 item 6.
func buildCmapFormat4(w *sfntcodec.Writer, charToGlyph map[rune]uint16) {
	chars := make([]uint16, 0, len(charToGlyph))
	for c := range charToGlyph {
		chars = append(chars, uint16(c))
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	var segments []cmapSegment
	if len(chars) > 0 {
		segStart := chars[0]
		prev := chars[0]
		for _, c := range chars[1:] {
			if c == prev+1 && charToGlyph[rune(c)] == charToGlyph[rune(prev)]+1 {
				prev = c
				continue
			}
			segments = append(segments, cmapSegment{
				start:   segStart,
				end:     prev,
				idDelta: uint16(charToGlyph[rune(segStart)] - segStart),
			})
			segStart = c
			prev = c
		}
		segments = append(segments, cmapSegment{
			start:   segStart,
			end:     prev,
			idDelta: uint16(charToGlyph[rune(segStart)] - segStart),
		})
	}
	segments = append(segments, cmapSegment{start: 0xFFFF, end: 0xFFFF, idDelta: 1})

	segCount := len(segments)
	segCountX2 := uint16(segCount * 2)
	searchRange, entrySelector, rangeShift := directorySearchParams(uint16(segCount), 2)

	length := 14 + segCountX2*4 + 2 // header fields + 4 parallel arrays + reservedPad
	w.U16(4)                        // format
	w.U16(length)
	w.U16(0) // language
	w.U16(segCountX2)
	w.U16(searchRange)
	w.U16(entrySelector)
	w.U16(rangeShift)
	for _, s := range segments {
		w.U16(s.end)
	}
	w.U16(0) // reservedPad
	for _, s := range segments {
		w.U16(s.start)
	}
	for _, s := range segments {
		w.U16(s.idDelta)
	}
	for range segments {
		w.U16(0) // idRangeOffset: always 0, since idDelta-only segments suffice
	}
}
