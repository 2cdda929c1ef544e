// Package units parses CSS-style lengths and separator-tolerant lists
// into plain float64 pixels.
package units

import (
	"strconv"
	"strings"
)

// ParseLength parses "<number><unit>?" into pixels. def is returned
// when s is empty, unparseable, or uses an unrecognized unit. fontSize
// resolves em/rem; reference resolves percent.
func ParseLength(s string, def, fontSize, reference float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	numEnd := 0
	for numEnd < len(s) {
		c := s[numEnd]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			numEnd++
			continue
		}
		if c == 'e' || c == 'E' {
			// 'e'/'E' is part of the number only in an exponent position
			// (followed by a digit, optionally signed); otherwise it
			// starts the unit, as in "em".
			j := numEnd + 1
			if j < len(s) && (s[j] == '-' || s[j] == '+') {
				j++
			}
			if j < len(s) && s[j] >= '0' && s[j] <= '9' {
				numEnd = j
				continue
			}
		}
		break
	}
	if numEnd == 0 {
		return def
	}

	n, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return def
	}

	unit := strings.TrimSpace(s[numEnd:])
	switch strings.ToLower(unit) {
	case "":
		return n
	case "px":
		return n
	case "pt":
		return n * (96.0 / 72.0)
	case "pc":
		return n * 12.0 * (96.0 / 72.0)
	case "mm":
		return n * (96.0 / 25.4)
	case "cm":
		return n * (96.0 / 2.54)
	case "in":
		return n * 96.0
	case "em", "rem":
		return n * fontSize
	case "%":
		return n / 100.0 * reference
	default:
		return def
	}
}

// ParseList splits s on whitespace and commas. If expect > 0 and the
// resulting count doesn't match, the empty list is returned.
func ParseList(s string, expect int) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\r', '\n', ',':
			return true
		}
		return false
	})
	if expect > 0 && len(fields) != expect {
		return nil
	}
	return fields
}

// ParseLengthList parses ParseList's fields as lengths, each defaulting
// to def/0 context (no em/percent resolution — callers needing that
// should parse fields individually with ParseLength).
func ParseLengthList(s string, expect int) []float64 {
	fields := ParseList(s, expect)
	if fields == nil {
		return nil
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		out[i] = v
	}
	return out
}
