package font

import (
	"github.com/inkdoc/inkdoc/internal/errs"
	"github.com/inkdoc/inkdoc/pkg/sfntcodec"
	pkgerrors "github.com/pkg/errors"
)

// tableEntry is one directory record: tag plus its checksum/offset/length.
type tableEntry struct {
	Checksum uint32
	Offset   uint32
	Length   uint32
}

// directory is the tag-keyed table map built from the offset table plus
// numTables directory records (spec §4.7 steps 1-2).
type directory struct {
	flavor Flavor
	tables map[string]tableEntry
}

var requiredTables = []string{"head", "hhea", "hmtx", "maxp", "name", "cmap"}

func readDirectory(r *sfntcodec.Reader) (*directory, error) {
	version, err := r.U32()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read sfnt version")
	}
	flavor, ok := sfntVersions[version]
	if !ok {
		return nil, errs.InvalidFont("parse_font", "unknown sfnt version", nil)
	}

	numTables, err := r.U16()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read numTables")
	}
	r.Skip(6) // searchRange, entrySelector, rangeShift

	dir := &directory{flavor: flavor, tables: map[string]tableEntry{}}
	for i := uint16(0); i < numTables; i++ {
		tag, err := r.Tag()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read table tag")
		}
		checksum, err := r.U32()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read table checksum")
		}
		offset, err := r.U32()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read table offset")
		}
		length, err := r.U32()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read table length")
		}
		if int(offset+length) > r.Len() {
			return nil, errs.InvalidFont("parse_font", "table "+tag.String()+" exceeds container", nil)
		}
		dir.tables[tag.String()] = tableEntry{Checksum: checksum, Offset: offset, Length: length}
	}

	for _, name := range requiredTables {
		if _, ok := dir.tables[name]; !ok {
			return nil, errs.InvalidFont("parse_font", "missing required table "+name, nil)
		}
	}
	_, hasGlyf := dir.tables["glyf"]
	_, hasLoca := dir.tables["loca"]
	_, hasCFF := dir.tables["CFF "]
	if !(hasGlyf && hasLoca) && !hasCFF {
		return nil, errs.InvalidFont("parse_font", "no outline table (glyf+loca or CFF )", nil)
	}

	return dir, nil
}

func (d *directory) has(tag string) bool {
	_, ok := d.tables[tag]
	return ok
}

func (d *directory) sub(r *sfntcodec.Reader, tag string) (*sfntcodec.Reader, tableEntry, error) {
	e, ok := d.tables[tag]
	if !ok {
		return nil, tableEntry{}, errs.InvalidFont("parse_font", "table not present: "+tag, nil)
	}
	raw, err := r.ReadAt(int(e.Offset), int(e.Length))
	if err != nil {
		return nil, e, pkgerrors.Wrapf(err, "read table %s", tag)
	}
	return sfntcodec.NewReader(raw), e, nil
}
