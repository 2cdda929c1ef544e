package units

import "testing"

func TestParseLength(t *testing.T) {
	cases := []struct {
		in       string
		def      float64
		fontSize float64
		ref      float64
		want     float64
	}{
		{"10", 0, 16, 100, 10},
		{"10px", 0, 16, 100, 10},
		{"72pt", 0, 16, 100, 96},
		{"1in", 0, 16, 100, 96},
		{"2em", 0, 16, 100, 32},
		{"50%", 0, 16, 100, 50},
		{"", 7, 16, 100, 7},
		{"garbage", 7, 16, 100, 7},
		{"10zz", 7, 16, 100, 7},
	}
	for _, c := range cases {
		got := ParseLength(c.in, c.def, c.fontSize, c.ref)
		if got != c.want {
			t.Errorf("ParseLength(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseList(t *testing.T) {
	got := ParseList("1, 2 ,3\t4", 4)
	want := []string{"1", "2", "3", "4"}
	if len(got) != len(want) {
		t.Fatalf("ParseList length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseList[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if ParseList("1,2", 3) != nil {
		t.Errorf("expected nil for count mismatch")
	}
}
