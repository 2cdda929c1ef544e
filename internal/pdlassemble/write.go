package pdlassemble

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/inkdoc/inkdoc/pkg/compile"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// objTable numbers objects in insertion order, 1-based, matching the
// teacher's own Resources map-of-maps ordering discipline
// (pkg/gopdf/resources.go never reorders what it's handed).
type objTable struct {
	objects []types.Object
}

func (t *objTable) insert(obj types.Object) types.IndirectRef {
	t.objects = append(t.objects, obj)
	return ref(len(t.objects))
}

func (t *objTable) set(r types.IndirectRef, obj types.Object) {
	t.objects[int(r.ObjectNumber)-1] = obj
}

// standard14 are the base-14 Type1 fonts pkg/compile's text.go can
// reference by name (spec §4.6's text operators emit "/Helvetica 12
// Tf" etc. directly, with no font resource bookkeeping of their own),
// so the assembler declares all 14 unconditionally rather than
// tracking which ones a given scene actually used.
var standard14 = []string{
	"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique",
	"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic",
	"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique",
	"Symbol", "ZapfDingbats",
}

// Assemble builds a minimal one-page PDF from a compile.Output and the
// page's dimensions in points, per spec §6's "resource dictionaries are
// merged by the caller" contract. It is the write-path counterpart to
// the teacher's read-only pdfcpu usage (pkg/gopdf/reader.go): since no
// pack example demonstrates pdfcpu's internal object-graph writer, this
// numbers objects, substitutes resource-name placeholders, and writes
// the xref table and trailer itself, using only pdfcpu's documented
// value types for the object model.
func Assemble(out *compile.Output, width, height float64) ([]byte, error) {
	tab := &objTable{}

	xobjRefs := map[string]types.IndirectRef{}
	for name := range out.XObjects {
		xobjRefs[name] = tab.insert(nil)
	}
	for name, blob := range out.XObjects {
		tab.set(xobjRefs[name], parseBlob(blob, nil))
	}

	patternRefs := map[string]types.IndirectRef{}
	for name, blob := range out.Patterns {
		patternRefs[name] = tab.insert(parseBlob(blob, xobjRefs))
	}

	shadingRefs := map[string]types.IndirectRef{}
	for name, blob := range out.Shadings {
		shadingRefs[name] = tab.insert(parseBlob(blob, nil))
	}

	gstateRefs := map[string]types.IndirectRef{}
	for name, blob := range out.GraphicsStates {
		gstateRefs[name] = tab.insert(parseBlob(blob, nil))
	}

	fontRefs := map[string]types.IndirectRef{}
	for _, name := range standard14 {
		fontRefs[name] = tab.insert(types.Dict{
			"Type":     types.Name("Font"),
			"Subtype":  types.Name("Type1"),
			"BaseFont": types.Name(name),
		})
	}

	resourceDict := types.Dict{
		"Font":      namedDict(fontRefs),
		"XObject":   namedDict(xobjRefs),
		"Pattern":   namedDict(patternRefs),
		"Shading":   namedDict(shadingRefs),
		"ExtGState": namedDict(gstateRefs),
	}

	contentRef := tab.insert(types.StreamDict{
		Dict:    types.Dict{"Length": types.Integer(len(out.ContentStream))},
		Content: out.ContentStream,
	})

	pageRef := tab.insert(nil)
	pagesRef := tab.insert(types.Dict{
		"Type":  types.Name("Pages"),
		"Kids":  types.Array{pageRef},
		"Count": types.Integer(1),
	})
	tab.set(pageRef, types.Dict{
		"Type":      types.Name("Page"),
		"Parent":    pagesRef,
		"MediaBox":  types.Array{types.Integer(0), types.Integer(0), numObj(width), numObj(height)},
		"Resources": resourceDict,
		"Contents":  contentRef,
	})

	catalogRef := tab.insert(types.Dict{
		"Type":  types.Name("Catalog"),
		"Pages": pagesRef,
	})

	return writePDF(tab, catalogRef)
}

func numObj(v float64) types.Object {
	if v == float64(int64(v)) {
		return types.Integer(int(v))
	}
	return types.Float(v)
}

func namedDict(refs map[string]types.IndirectRef) types.Dict {
	d := types.Dict{}
	for name, r := range refs {
		d[name] = r
	}
	return d
}

func writePDF(tab *objTable, root types.IndirectRef) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(tab.objects)+1)
	for i, obj := range tab.objects {
		num := i + 1
		offsets[num] = buf.Len()
		buf.WriteString(strconv.Itoa(num))
		buf.WriteString(" 0 obj\n")
		if err := writeObject(&buf, obj); err != nil {
			return nil, fmt.Errorf("pdlassemble: object %d: %w", num, err)
		}
		buf.WriteString("\nendobj\n")
	}

	xrefStart := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", len(tab.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= len(tab.objects); num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}

	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d /Root %s >>\n", len(tab.objects)+1, root.PDFString())
	buf.WriteString("startxref\n")
	fmt.Fprintf(&buf, "%d\n", xrefStart)
	buf.WriteString("%%EOF\n")

	return buf.Bytes(), nil
}

func writeObject(buf *bytes.Buffer, obj types.Object) error {
	switch v := obj.(type) {
	case types.StreamDict:
		if err := writeValue(buf, v.Dict); err != nil {
			return err
		}
		buf.WriteString("\nstream\n")
		buf.Write(v.Content)
		buf.WriteString("\nendstream")
		return nil
	default:
		return writeValue(buf, obj)
	}
}

func writeValue(buf *bytes.Buffer, obj types.Object) error {
	switch v := obj.(type) {
	case nil:
		buf.WriteString("null")
	case types.IndirectRef:
		buf.WriteString(v.PDFString())
	case types.Name:
		buf.WriteByte('/')
		buf.WriteString(string(v))
	case types.Integer:
		buf.WriteString(strconv.Itoa(int(v)))
	case types.Float:
		buf.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 64))
	case types.Boolean:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case types.Array:
		buf.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case types.Dict:
		buf.WriteString("<< ")
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteByte('/')
			buf.WriteString(k)
			buf.WriteByte(' ')
			if err := writeValue(buf, v[k]); err != nil {
				return err
			}
			buf.WriteByte(' ')
		}
		buf.WriteString(">>")
	case types.StreamDict:
		return writeObject(buf, v)
	default:
		return fmt.Errorf("pdlassemble: unsupported object type %T", obj)
	}
	return nil
}
