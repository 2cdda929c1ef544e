package compile

import "github.com/inkdoc/inkdoc/pkg/paint"

// buildTilingPattern renders a pattern's content elements into a
// nested content stream, wraps it in a Form XObject, and wraps that in
// a Type-1 tiling-pattern dictionary, per spec §4.6 step 4. The nested
// stream capture uses the emitter's explicit buffer push/pop (spec
// §9's refactor of the teacher's swap-and-restore dance).
func (c *compiler) buildTilingPattern(pt *paint.Pattern) string {
	c.em.pushBuffer()
	for _, id := range pt.ContentElementIDs {
		if el, ok := c.doc.Definitions[id]; ok {
			c.render(el, el.Style)
		}
	}
	content := c.em.popBuffer()

	formDict := "<< /Type /XObject /Subtype /Form /BBox [0 0 " + fnums(pt.Width, pt.Height) + "] >>\nstream\n" + string(content) + "endstream"
	formName := c.res.addFormXObject([]byte(formDict))

	matrix := fnums(1, 0, 0, 1, pt.X, pt.Y)
	if pt.HasMatrix {
		m := pt.PatternTransform
		matrix = fnums(m[0], m[1], m[2], m[3], m[4], m[5])
	}

	dict := "<< /PatternType 1 /PaintType 1 /TilingType 1" +
		" /BBox [0 0 " + fnums(pt.Width, pt.Height) + "]" +
		" /XStep " + fnum(pt.Width) + " /YStep " + fnum(pt.Height) +
		" /Matrix [" + matrix + "]" +
		" /Resources << /XObject << /" + formName + " " + formName + " >> >>" +
		" >>\nstream\n/" + formName + " Do\nendstream"
	return c.res.addPattern([]byte(dict))
}
