package pdlassemble

import (
	"bytes"
	"strings"
	"testing"

	"github.com/inkdoc/inkdoc/pkg/compile"
)

func TestAssembleProducesWellFormedPDF(t *testing.T) {
	out := &compile.Output{
		ContentStream:  []byte("q 1 0 0 1 0 0 cm 0 0 100 100 re f Q"),
		Shadings:       map[string][]byte{},
		Patterns:       map[string][]byte{},
		XObjects:       map[string][]byte{},
		GraphicsStates: map[string][]byte{"GS1": []byte("<< /Type /ExtGState /ca 0.5 >>")},
	}

	pdf, err := Assemble(out, 200, 200)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF-1.7")) {
		t.Fatalf("missing PDF header, got %q", pdf[:20])
	}
	if !bytes.Contains(pdf, []byte("/Type /Catalog")) {
		t.Fatalf("missing catalog object")
	}
	if !bytes.Contains(pdf, []byte("q 1 0 0 1 0 0 cm")) {
		t.Fatalf("missing content stream body")
	}
	if !bytes.Contains(pdf, []byte("trailer")) || !bytes.Contains(pdf, []byte("startxref")) {
		t.Fatalf("missing trailer/startxref")
	}
	if got := strings.Count(string(pdf), " obj\n"); got == 0 {
		t.Fatalf("no objects written")
	}
}

func TestAssembleWiresPatternToXObjectPlaceholder(t *testing.T) {
	out := &compile.Output{
		ContentStream: []byte("q Q"),
		Shadings:      map[string][]byte{},
		Patterns: map[string][]byte{
			"P1": []byte("<< /Type /Pattern /PatternType 1 /Resources << /XObject << /FXO1 FXO1 >> >> >>\nstream\n1 0 0 1 0 0 cm /FXO1 Do\nendstream"),
		},
		XObjects: map[string][]byte{
			"FXO1": []byte("<< /Type /XObject /Subtype /Form /BBox [0 0 10 10] >>\nstream\n0 0 10 10 re f\nendstream"),
		},
		GraphicsStates: map[string][]byte{},
	}

	pdf, err := Assemble(out, 50, 50)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if bytes.Contains(pdf, []byte("/FXO1 FXO1")) {
		t.Fatalf("pattern still references bare placeholder token, want resolved indirect reference:\n%s", pdf)
	}
	if !bytes.Contains(pdf, []byte("/Subtype /Form")) {
		t.Fatalf("missing form xobject dict")
	}
}
