package pdlassemble

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func TestParseDictTextSimple(t *testing.T) {
	d := parseDictText([]byte("<< /Type /ExtGState /ca 0.5 /BM /Multiply >>"), nil)
	if d["Type"] != types.Name("ExtGState") {
		t.Fatalf("Type = %#v, want /ExtGState", d["Type"])
	}
	if d["ca"] != types.Float(0.5) {
		t.Fatalf("ca = %#v, want 0.5", d["ca"])
	}
	if d["BM"] != types.Name("Multiply") {
		t.Fatalf("BM = %#v, want /Multiply", d["BM"])
	}
}

func TestParseDictTextNestedArrayOfDicts(t *testing.T) {
	blob := []byte("<< /FunctionType 3 /Functions [<< /FunctionType 2 /N 1 >> << /FunctionType 2 /N 1 >>] /Bounds [0.5] /Encode [0 1 0 1] >>")
	d := parseDictText(blob, nil)
	funcs, ok := d["Functions"].(types.Array)
	if !ok || len(funcs) != 2 {
		t.Fatalf("Functions = %#v, want 2-element array", d["Functions"])
	}
	inner, ok := funcs[0].(types.Dict)
	if !ok || inner["N"] != types.Integer(1) {
		t.Fatalf("Functions[0] = %#v", funcs[0])
	}
}

func TestParseDictTextGluedBrackets(t *testing.T) {
	d := parseDictText([]byte("<< /Extend [true true] >>"), nil)
	arr, ok := d["Extend"].(types.Array)
	if !ok || len(arr) != 2 || arr[0] != types.Boolean(true) {
		t.Fatalf("Extend = %#v", d["Extend"])
	}
}

func TestParseBlobResolvesPlaceholder(t *testing.T) {
	placeholders := map[string]types.IndirectRef{"FXO1": ref(7)}
	blob := []byte("<< /Resources << /XObject << /FXO1 FXO1 >> >> >>")
	obj := parseBlob(blob, placeholders)
	d, ok := obj.(types.Dict)
	if !ok {
		t.Fatalf("parseBlob returned %T, want types.Dict", obj)
	}
	resources := d["Resources"].(types.Dict)
	xobj := resources["XObject"].(types.Dict)
	if xobj["FXO1"] != ref(7) {
		t.Fatalf("FXO1 = %#v, want ref(7)", xobj["FXO1"])
	}
}

func TestParseBlobSplitsStream(t *testing.T) {
	blob := []byte("<< /Length 5 >>\nstream\nhello\nendstream")
	obj := parseBlob(blob, nil)
	sd, ok := obj.(types.StreamDict)
	if !ok {
		t.Fatalf("parseBlob returned %T, want types.StreamDict", obj)
	}
	if string(sd.Content) != "hello" {
		t.Fatalf("Content = %q, want %q", sd.Content, "hello")
	}
}

func TestParseBlobPlainDictHasNoStream(t *testing.T) {
	obj := parseBlob([]byte("<< /Type /ExtGState /ca 1 >>"), nil)
	if _, ok := obj.(types.StreamDict); ok {
		t.Fatalf("parseBlob treated a plain dict as a stream")
	}
}
