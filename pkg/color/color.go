// Package color parses scene-document color syntax (#rgb, #rrggbb,
// rgb(...), named colors) into (r,g,b) in [0,1].
package color

import (
	"strconv"
	"strings"
)

// RGB is a color in [0,1] per channel.
type RGB struct {
	R, G, B float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Parse parses s into an RGB, falling back to def on any parse
// failure (ParseFallback policy — the caller's default always wins,
// never a hard error).
func Parse(s string, def RGB) RGB {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	switch {
	case strings.HasPrefix(s, "#"):
		if c, ok := parseHex(s[1:]); ok {
			return c
		}
		return def
	case strings.HasPrefix(strings.ToLower(s), "rgb("):
		if c, ok := parseFunc(s); ok {
			return c
		}
		return def
	default:
		if c, ok := named[strings.ToLower(s)]; ok {
			return c
		}
		return def
	}
}

func parseHex(h string) (RGB, bool) {
	expand := func(c byte) string { return string([]byte{c, c}) }
	var rs, gs, bs string
	switch len(h) {
	case 3:
		rs, gs, bs = expand(h[0]), expand(h[1]), expand(h[2])
	case 6:
		rs, gs, bs = h[0:2], h[2:4], h[4:6]
	default:
		return RGB{}, false
	}
	r, err1 := strconv.ParseUint(rs, 16, 8)
	g, err2 := strconv.ParseUint(gs, 16, 8)
	b, err3 := strconv.ParseUint(bs, 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return RGB{}, false
	}
	return RGB{float64(r) / 255, float64(g) / 255, float64(b) / 255}, true
}

func parseFunc(s string) (RGB, bool) {
	open := strings.Index(s, "(")
	close := strings.LastIndex(s, ")")
	if open < 0 || close < 0 || close < open {
		return RGB{}, false
	}
	inner := s[open+1 : close]
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return RGB{}, false
	}
	comp := func(p string) (float64, bool) {
		p = strings.TrimSpace(p)
		if strings.HasSuffix(p, "%") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			if err != nil {
				return 0, false
			}
			return clamp01(v / 100), true
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return clamp01(v / 255), true
	}
	r, ok1 := comp(parts[0])
	g, ok2 := comp(parts[1])
	b, ok3 := comp(parts[2])
	if !ok1 || !ok2 || !ok3 {
		return RGB{}, false
	}
	return RGB{r, g, b}, true
}

// Black is the style default for fill/color.
var Black = RGB{0, 0, 0}
