package scene

import (
	"sort"
	"strings"
)

// Rule is one parsed CSS rule: a selector plus its declaration block,
// both kept as raw strings for later matching/overlay.
type Rule struct {
	Selector     string
	Specificity  int
	Declarations map[string]string
	Order        int // source order, for stable specificity ties
}

// ParseStylesheet implements spec §4.5's tokenization: strip /* */
// comments, split on '}' into blocks, each block splits on the first
// '{' into selector-list/declaration-list, declarations split on ';'
// then first ':'. A comma-separated selector list expands into one
// Rule per selector (each carrying its own specificity).
func ParseStylesheet(css string) []Rule {
	css = stripComments(css)
	var rules []Rule
	order := 0
	for _, block := range splitOn(css, '}') {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		brace := strings.Index(block, "{")
		if brace < 0 {
			continue
		}
		selectorList := block[:brace]
		declBlock := block[brace+1:]
		decls := parseDeclarations(declBlock)
		for _, sel := range splitOn(selectorList, ',') {
			sel = strings.TrimSpace(sel)
			if sel == "" {
				continue
			}
			rules = append(rules, Rule{
				Selector:     sel,
				Specificity:  specificity(sel),
				Declarations: decls,
				Order:        order,
			})
			order++
		}
	}
	return rules
}

func stripComments(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				break
			}
			i = i + 2 + end + 2
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func splitOn(s string, sep byte) []string {
	return strings.Split(s, string(sep))
}

func parseDeclarations(block string) map[string]string {
	out := map[string]string{}
	for _, d := range strings.Split(block, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		idx := strings.Index(d, ":")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(d[:idx])
		value := strings.TrimSpace(d[idx+1:])
		out[name] = value
	}
	return out
}

// specificity implements spec §4.5's integer measure: .class = 10,
// #id = 100, element-type = 1, * = 0.
func specificity(sel string) int {
	sel = strings.TrimSpace(sel)
	switch {
	case sel == "*":
		return 0
	case strings.HasPrefix(sel, "#"):
		return 100
	case strings.HasPrefix(sel, "."):
		return 10
	default:
		return 1
	}
}

// matches reports whether rule's selector matches element e, per
// spec's class/id/type matching rules (case-insensitive type match).
func (r Rule) matches(e *Element) bool {
	sel := strings.TrimSpace(r.Selector)
	switch {
	case sel == "*":
		return true
	case strings.HasPrefix(sel, "#"):
		return e.ID == sel[1:]
	case strings.HasPrefix(sel, "."):
		class, _ := e.Attr("class")
		return hasClass(class, sel[1:])
	default:
		return strings.EqualFold(string(e.Type), sel)
	}
}

func hasClass(classAttr, name string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == name {
			return true
		}
	}
	return false
}

// ApplyRules collects every matching rule for e, sorts stably by
// specificity ascending (so highest-specificity wins, ties broken by
// source order per spec's CSS specificity ordering invariant), and
// overlays each declaration set onto st in that order.
func ApplyRules(st *Style, e *Element, rules []Rule) {
	var matched []Rule
	for _, r := range rules {
		if r.matches(e) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Specificity != matched[j].Specificity {
			return matched[i].Specificity < matched[j].Specificity
		}
		return matched[i].Order < matched[j].Order
	})
	for _, r := range matched {
		for name, value := range r.Declarations {
			overlayPresentationAttr(st, name, value)
		}
	}
}
