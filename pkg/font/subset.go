package font

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/inkdoc/inkdoc/internal/errs"
)

// Subset implements spec §4.8: builds a fresh Font containing only the
// glyphs reachable from usedChars (plus glyph 0 and any composite-glyph
// components), remapped to a dense new glyph-id space.
//
// Fails with UnsupportedFontFlavor if f uses PostScript outlines, since
// outline data can't be passed through verbatim without re-encoding.
func Subset(f *Font, usedChars map[rune]bool) (*Font, error) {
	if f.Flavor == FlavorPostScript {
		return nil, errs.UnsupportedFlavor("subset_font", "font uses PostScript outlines")
	}
	if len(usedChars) == 0 {
		return nil, errs.InvalidArg("subset_font", "used_chars is empty")
	}

	chars := make([]rune, 0, len(usedChars))
	for c := range usedChars {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	// New ids are assigned in ascending used-char order (spec §4.8 step
	// 1: "iterate used_chars sorted ascending … assign the next new
	// id"), not ascending old-glyph-id order — those only coincide when
	// glyph order already matches codepoint order. Glyph 0 (.notdef)
	// always keeps id 0; composite components pulled in afterward are
	// appended in discovery order.
	seenGids := bitset.New(uint(len(f.Glyphs)))
	seenGids.Set(0)
	oldGids := []uint{0}
	for _, c := range chars {
		if gid, ok := f.CharToGlyph[c]; ok && !seenGids.Test(uint(gid)) {
			seenGids.Set(uint(gid))
			oldGids = append(oldGids, uint(gid))
		}
	}
	// Walk composite glyphs to pull in every component (spec §4.8 step
	// 2's "independent copies" implicitly requires every referenced
	// glyph to survive, matching genGlyfAndLoca's gidStack walk).
	stack := append([]uint(nil), oldGids...)
	for len(stack) > 0 {
		gid := stack[0]
		stack = stack[1:]
		for _, comp := range compositeComponents(f.Outline(uint16(gid))) {
			if !seenGids.Test(uint(comp)) {
				seenGids.Set(uint(comp))
				oldGids = append(oldGids, uint(comp))
				stack = append(stack, uint(comp))
			}
		}
	}

	remap := make(map[uint16]uint16, len(oldGids))
	for newID, oldID := range oldGids {
		remap[uint16(oldID)] = uint16(newID)
	}

	out := &Font{
		Flavor: f.Flavor,
		Head:   f.Head,
		Hhea:   f.Hhea,
		Post:   f.Post,
		Names:  append([]NameRecord(nil), f.Names...),
	}
	if f.OS2 != nil {
		cp := *f.OS2
		out.OS2 = &cp
	}

	out.Maxp = MaxpTable{NumGlyphs: uint16(len(oldGids))}
	out.Glyphs = make([][]byte, len(oldGids))
	out.HMetrics = make([]HMetric, len(oldGids))
	for newID, oldID := range oldGids {
		outline := append([]byte(nil), f.Outline(uint16(oldID))...)
		remapCompositeComponents(outline, remap)
		out.Glyphs[newID] = outline
		out.HMetrics[newID] = HMetric{
			AdvanceWidth:    f.AdvanceWidth(uint16(oldID)),
			LeftSideBearing: leftSideBearing(f, uint16(oldID)),
		}
	}

	out.CharToGlyph = map[rune]uint16{}
	for _, c := range chars {
		oldGid, ok := f.CharToGlyph[c]
		if !ok {
			continue
		}
		newGid, ok := remap[oldGid]
		if !ok {
			continue
		}
		out.CharToGlyph[c] = newGid
	}

	if f.Kerning != nil {
		out.Kerning = map[GlyphPair]int16{}
		for pair, v := range f.Kerning {
			newLeft, okL := remap[pair.Left]
			newRight, okR := remap[pair.Right]
			if okL && okR {
				out.Kerning[GlyphPair{Left: newLeft, Right: newRight}] = v
			}
		}
	}

	out.PostScriptName = subsetTag(f.PostScriptName) + "+" + f.PostScriptName
	for i, n := range out.Names {
		if n.NameID == 6 {
			out.Names[i].Value = out.PostScriptName
		}
	}

	return out, nil
}

func leftSideBearing(f *Font, gid uint16) int16 {
	if int(gid) >= len(f.HMetrics) {
		return 0
	}
	return f.HMetrics[gid].LeftSideBearing
}

// compositeComponents scans a glyf entry for component glyph ids if the
// entry is a composite glyph (negative contour count), matching the
// component-walk in aff1fe58_kofi-q-scribe-go's genGlyfAndLoca.
func compositeComponents(outline []byte) []uint16 {
	if len(outline) < 10 {
		return nil
	}
	contourCount := int16(uint16(outline[0])<<8 | uint16(outline[1]))
	if contourCount >= 0 {
		return nil
	}
	var out []uint16
	pos := 10
	for {
		if pos+4 > len(outline) {
			break
		}
		flags := uint16(outline[pos])<<8 | uint16(outline[pos+1])
		componentGid := uint16(outline[pos+2])<<8 | uint16(outline[pos+3])
		out = append(out, componentGid)
		pos += 4

		const argsAreWords = 1 << 0
		const weHaveAScale = 1 << 3
		const moreComponents = 1 << 5
		const weHaveXYScale = 1 << 6
		const weHaveTwoByTwo = 1 << 7

		if flags&argsAreWords != 0 {
			pos += 4
		} else {
			pos += 2
		}
		switch {
		case flags&weHaveAScale != 0:
			pos += 2
		case flags&weHaveXYScale != 0:
			pos += 4
		case flags&weHaveTwoByTwo != 0:
			pos += 8
		}
		if flags&moreComponents == 0 {
			break
		}
	}
	return out
}

// remapCompositeComponents rewrites a composite glyph's component gid
// references in place, the same byte-patch approach genGlyfAndLoca uses.
func remapCompositeComponents(outline []byte, remap map[uint16]uint16) {
	if len(outline) < 10 {
		return
	}
	contourCount := int16(uint16(outline[0])<<8 | uint16(outline[1]))
	if contourCount >= 0 {
		return
	}
	pos := 10
	for {
		if pos+4 > len(outline) {
			break
		}
		flags := uint16(outline[pos])<<8 | uint16(outline[pos+1])
		oldGid := uint16(outline[pos+2])<<8 | uint16(outline[pos+3])
		if newGid, ok := remap[oldGid]; ok {
			outline[pos+2] = byte(newGid >> 8)
			outline[pos+3] = byte(newGid)
		}
		pos += 4

		const argsAreWords = 1 << 0
		const weHaveAScale = 1 << 3
		const moreComponents = 1 << 5
		const weHaveXYScale = 1 << 6
		const weHaveTwoByTwo = 1 << 7

		if flags&argsAreWords != 0 {
			pos += 4
		} else {
			pos += 2
		}
		switch {
		case flags&weHaveAScale != 0:
			pos += 2
		case flags&weHaveXYScale != 0:
			pos += 4
		case flags&weHaveTwoByTwo != 0:
			pos += 8
		}
		if flags&moreComponents == 0 {
			break
		}
	}
}

// subsetTag derives a deterministic 6-uppercase-letter tag from name,
// per spec §4.8 step 3 (`TTTTTT+<old name>`).
func subsetTag(name string) string {
	var sum uint32
	for _, r := range strings.ToUpper(name) {
		sum = sum*31 + uint32(r)
	}
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	buf := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		buf[i] = letters[sum%26]
		sum /= 26
	}
	return string(buf)
}
