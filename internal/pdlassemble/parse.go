// Package pdlassemble turns a compiled content stream plus its opaque
// resource blobs (pkg/compile's Output, spec §4.6's contract) into a
// minimal, valid one-page PDF file. The blobs are restricted-grammar
// PDF object syntax (plain dicts, or dict+stream pairs) that
// pkg/compile itself emits, so a small recursive-descent parser turns
// each one into pdfcpu's pkg/pdfcpu/types value types before the
// assembler numbers every object and writes the file.
package pdlassemble

import (
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ref builds the indirect reference this assembler uses in place of
// pkg/compile's resource-name placeholders (e.g. a pattern's nested
// "/FXO1 FXO1" sentinel, spec §9's XObject-name-vs-object-number
// resolution) once num has been assigned. types.IndirectRef already
// satisfies types.Object (PDFString/String/Clone), so it's used
// directly rather than a hand-rolled stand-in type.
func ref(num int) types.IndirectRef {
	return *types.NewIndirectRef(num, 0)
}

type tokenKind int

const (
	tokDictOpen tokenKind = iota
	tokDictClose
	tokArrOpen
	tokArrClose
	tokName
	tokBare
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits head (a "<< ... >>" blob with no stream body) into
// tokens. Brackets are often glued directly to neighboring dict/array
// punctuation (e.g. "[<< ... >>]"), so this scans character by
// character rather than splitting on whitespace.
func tokenize(head []byte) []token {
	var toks []token
	i, n := 0, len(head)
	isDelim := func(c byte) bool {
		switch c {
		case ' ', '\t', '\r', '\n', '/', '[', ']':
			return true
		}
		return c == '<' || c == '>'
	}
	for i < n {
		c := head[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '<' && i+1 < n && head[i+1] == '<':
			toks = append(toks, token{tokDictOpen, "<<"})
			i += 2
		case c == '>' && i+1 < n && head[i+1] == '>':
			toks = append(toks, token{tokDictClose, ">>"})
			i += 2
		case c == '[':
			toks = append(toks, token{tokArrOpen, "["})
			i++
		case c == ']':
			toks = append(toks, token{tokArrClose, "]"})
			i++
		case c == '/':
			j := i + 1
			for j < n && !isDelim(head[j]) {
				j++
			}
			toks = append(toks, token{tokName, string(head[i+1 : j])})
			i = j
		default:
			j := i
			for j < n && !isDelim(head[j]) {
				j++
			}
			if j == i {
				i++
				continue
			}
			toks = append(toks, token{tokBare, string(head[i:j])})
			i = j
		}
	}
	return toks
}

type parser struct {
	toks         []token
	pos          int
	placeholders map[string]types.IndirectRef
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseValue() types.Object {
	t := p.next()
	switch t.kind {
	case tokDictOpen:
		return p.parseDictBody()
	case tokArrOpen:
		return p.parseArrayBody()
	case tokName:
		return types.Name(t.text)
	case tokBare:
		return p.parseBare(t.text)
	default:
		return nil
	}
}

func (p *parser) parseBare(text string) types.Object {
	switch text {
	case "true":
		return types.Boolean(true)
	case "false":
		return types.Boolean(false)
	}
	if r, ok := p.placeholders[text]; ok {
		return r
	}
	if iv, err := strconv.Atoi(text); err == nil {
		return types.Integer(iv)
	}
	if fv, err := strconv.ParseFloat(text, 64); err == nil {
		return types.Float(fv)
	}
	return types.Name(text)
}

func (p *parser) parseDictBody() types.Dict {
	d := types.Dict{}
	for {
		t := p.peek()
		if t.kind == tokDictClose || t.kind == tokEOF {
			p.pos++
			return d
		}
		key := p.next().text
		d[key] = p.parseValue()
	}
}

func (p *parser) parseArrayBody() types.Array {
	var arr types.Array
	for {
		t := p.peek()
		if t.kind == tokArrClose {
			p.pos++
			return arr
		}
		if t.kind == tokEOF {
			return arr
		}
		arr = append(arr, p.parseValue())
	}
}

// parseDictText parses a standalone "<< ... >>" blob (no stream body).
func parseDictText(blob []byte, placeholders map[string]types.IndirectRef) types.Dict {
	p := &parser{toks: tokenize(blob), placeholders: placeholders}
	if p.peek().kind == tokDictOpen {
		p.pos++
		return p.parseDictBody()
	}
	return types.Dict{}
}

var streamMarker = []byte(">>\nstream\n")
var endstreamMarker = []byte("\nendstream")

// splitStream reports whether blob is a dict+stream pair, per
// pkg/compile's emitter convention (gradient.go/pattern.go's head
// dict always ends in " >>\nstream\n", closed by "\nendstream" with no
// trailing bytes). Returns the head dict bytes (including the closing
// ">>") and the raw stream content.
func splitStream(blob []byte) (head, content []byte, isStream bool) {
	idx := indexOf(blob, streamMarker)
	if idx < 0 {
		return blob, nil, false
	}
	head = blob[:idx+2] // keep ">>"
	rest := blob[idx+len(streamMarker):]
	if end := lastIndexOf(rest, endstreamMarker); end >= 0 {
		rest = rest[:end]
	}
	return head, rest, true
}

func indexOf(haystack, needle []byte) int {
	n, m := len(haystack), len(needle)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if string(haystack[i:i+m]) == string(needle) {
			return i
		}
	}
	return -1
}

func lastIndexOf(haystack, needle []byte) int {
	n, m := len(haystack), len(needle)
	if m == 0 || m > n {
		return -1
	}
	for i := n - m; i >= 0; i-- {
		if string(haystack[i:i+m]) == string(needle) {
			return i
		}
	}
	return -1
}

// parseBlob turns one pkg/compile resource blob into either a
// types.Dict or a types.StreamDict, substituting any bare
// resource-name placeholder found in placeholders.
func parseBlob(blob []byte, placeholders map[string]types.IndirectRef) types.Object {
	head, content, isStream := splitStream(blob)
	dict := parseDictText(head, placeholders)
	if !isStream {
		return dict
	}
	dict["Length"] = types.Integer(len(content))
	return types.StreamDict{Dict: dict, Content: content}
}
