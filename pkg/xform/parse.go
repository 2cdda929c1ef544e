package xform

import (
	"strconv"
	"strings"
)

// ParseTransform parses a transform-list string ("translate(10,20)
// rotate(45)") into the composed matrix, per spec's "each parsed
// transform is multiplied on the right of the accumulated matrix"
// composition rule. Unparseable input yields the identity matrix.
func ParseTransform(s string) Matrix {
	m := Identity()
	toks := tokenizeTransforms(s)
	for _, t := range toks {
		tm, ok := parseOne(t.name, t.args)
		if !ok {
			continue
		}
		m = m.Multiply(tm)
	}
	return m
}

type transformToken struct {
	name string
	args []float64
}

// tokenizeTransforms character-scans "name(args)" pairs, tolerating
// whitespace/comma separators both between tokens and inside the
// argument list, matching the teacher's hand character-at-a-time
// tokenizer idiom rather than a regexp split.
func tokenizeTransforms(s string) []transformToken {
	var out []transformToken
	i := 0
	n := len(s)
	for i < n {
		for i < n && isSep(s[i]) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && s[i] != '(' {
			i++
		}
		if i >= n {
			break
		}
		name := strings.TrimSpace(s[start:i])
		i++ // skip '('
		argStart := i
		for i < n && s[i] != ')' {
			i++
		}
		argsStr := s[argStart:i]
		if i < n {
			i++ // skip ')'
		}
		out = append(out, transformToken{name: name, args: parseArgs(argsStr)})
	}
	return out
}

func isSep(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',':
		return true
	}
	return false
}

func parseArgs(s string) []float64 {
	var args []float64
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		if v, err := strconv.ParseFloat(cur.String(), 64); err == nil {
			args = append(args, v)
		}
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSep(c) {
			flush()
			continue
		}
		// A '-'/'+' that doesn't start a new number (not right after a
		// separator) still starts a new token when the builder already
		// holds a complete number (no exponent in progress).
		if (c == '-' || c == '+') && cur.Len() > 0 {
			last := cur.String()[cur.Len()-1]
			if last != 'e' && last != 'E' {
				flush()
			}
		}
		cur.WriteByte(c)
	}
	flush()
	return args
}

func parseOne(name string, args []float64) (Matrix, bool) {
	switch name {
	case "translate":
		switch len(args) {
		case 1:
			return Translation(args[0], 0), true
		case 2:
			return Translation(args[0], args[1]), true
		}
	case "scale":
		switch len(args) {
		case 1:
			return Scale(args[0], args[0]), true
		case 2:
			return Scale(args[0], args[1]), true
		}
	case "rotate":
		switch len(args) {
		case 1:
			return RotationDegrees(args[0]), true
		case 3:
			cx, cy := args[1], args[2]
			return Translation(cx, cy).Multiply(RotationDegrees(args[0])).Multiply(Translation(-cx, -cy)), true
		}
	case "skewX":
		if len(args) == 1 {
			return SkewX(args[0] * 3.141592653589793 / 180.0), true
		}
	case "skewY":
		if len(args) == 1 {
			return SkewY(args[0] * 3.141592653589793 / 180.0), true
		}
	case "matrix":
		if len(args) == 6 {
			return Matrix{A: args[0], B: args[1], C: args[2], D: args[3], E: args[4], F: args[5]}, true
		}
	}
	return Matrix{}, false
}
