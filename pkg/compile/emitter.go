// Package compile implements the scene -> PDL compiler (spec §4.6): it
// walks a parsed scene.Document and emits a content-stream byte
// sequence plus the resource blobs (shadings, patterns, xobjects,
// extended graphics states) it references.
package compile

import (
	"bytes"
	"strconv"
	"strings"
)

// emitter owns the stack of content-stream buffers. Pattern tile
// rendering needs a nested content stream; rather than the teacher's
// swap-the-active-buffer-and-swap-it-back dance (flagged in spec §9 as
// error-prone), the active sink is always the top of an explicit
// stack, pushed and popped in lockstep with the render call that needs
// a nested stream.
type emitter struct {
	stack []*bytes.Buffer
}

func newEmitter() *emitter {
	return &emitter{stack: []*bytes.Buffer{{}}}
}

func (em *emitter) top() *bytes.Buffer {
	return em.stack[len(em.stack)-1]
}

// pushBuffer starts a new nested content stream as the active sink.
func (em *emitter) pushBuffer() {
	em.stack = append(em.stack, &bytes.Buffer{})
}

// popBuffer ends the active nested content stream and returns its
// bytes, restoring the previous sink.
func (em *emitter) popBuffer() []byte {
	buf := em.stack[len(em.stack)-1]
	em.stack = em.stack[:len(em.stack)-1]
	return buf.Bytes()
}

func (em *emitter) line(s string) {
	em.top().WriteString(s)
	em.top().WriteByte('\n')
}

func (em *emitter) op(parts ...string) {
	em.line(strings.Join(parts, " "))
}

// fnum renders a float with a locale-independent '.' and no trailing
// zeros, matching the content stream's decimal number rule (spec §6).
func fnum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func fnums(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fnum(v)
	}
	return strings.Join(parts, " ")
}

// escapeString escapes '(', ')' and '\' for a PDL literal string
// operand, per spec §6.
func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
