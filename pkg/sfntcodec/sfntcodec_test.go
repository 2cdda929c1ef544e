package sfntcodec

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U16(0xABCD)
	w.U32(0x01020304)
	w.WriteTag(MakeTag("head"))
	w.WriteFixed(FixedFromFloat64(1.5))

	r := NewReader(w.Bytes())
	u16, err := r.U16()
	if err != nil || u16 != 0xABCD {
		t.Fatalf("U16 = %x, %v", u16, err)
	}
	u32, err := r.U32()
	if err != nil || u32 != 0x01020304 {
		t.Fatalf("U32 = %x, %v", u32, err)
	}
	tag, err := r.Tag()
	if err != nil || tag.String() != "head" {
		t.Fatalf("Tag = %q, %v", tag.String(), err)
	}
	fx, err := r.Fixed()
	if err != nil || fx.Float64() != 1.5 {
		t.Fatalf("Fixed = %v, %v", fx.Float64(), err)
	}
}

func TestPadTo4(t *testing.T) {
	w := NewWriter()
	w.U8(1)
	w.U8(2)
	w.U8(3)
	n := w.PadTo4()
	if n != 1 {
		t.Fatalf("PadTo4 = %d, want 1", n)
	}
	if len(w.Bytes())%4 != 0 {
		t.Fatalf("length %d not 4-aligned", len(w.Bytes()))
	}
}

func TestChecksum(t *testing.T) {
	// 4 bytes exactly: 0x00010002 -> checksum equals itself.
	if got := Checksum([]byte{0x00, 0x01, 0x00, 0x02}); got != 0x00010002 {
		t.Errorf("Checksum = %x, want 10002", got)
	}
	// Partial final chunk zero-padded.
	if got := Checksum([]byte{0x00, 0x01}); got != 0x00010000 {
		t.Errorf("Checksum(partial) = %x, want 10000", got)
	}
}

func TestPatch(t *testing.T) {
	w := NewWriter()
	w.U16(0)
	w.U16(0xFFFF)
	w.PatchU16At(0, 0x1234)
	r := NewReader(w.Bytes())
	v, _ := r.U16()
	if v != 0x1234 {
		t.Errorf("PatchU16At = %x, want 1234", v)
	}
}
