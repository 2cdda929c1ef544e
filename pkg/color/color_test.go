package color

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
	}{
		{"#f00", RGB{1, 0, 0}},
		{"#ff0000", RGB{1, 0, 0}},
		{"rgb(255, 0, 0)", RGB{1, 0, 0}},
		{"rgb(100%, 0%, 0%)", RGB{1, 0, 0}},
		{"red", RGB{1, 0, 0}},
		{"RED", RGB{1, 0, 0}},
	}
	for _, c := range cases {
		got := Parse(c.in, Black)
		if got != c.want {
			t.Errorf("Parse(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseFallback(t *testing.T) {
	def := RGB{0.1, 0.2, 0.3}
	if got := Parse("not-a-color", def); got != def {
		t.Errorf("Parse(garbage) = %+v, want default %+v", got, def)
	}
	if got := Parse("", def); got != def {
		t.Errorf("Parse(empty) = %+v, want default %+v", got, def)
	}
}
