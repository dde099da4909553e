package style

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/psidex/ptviz/internal/graph"
)

// Selector is a compiled element selector, a list of alternatives any of which may
// match.
type Selector struct {
	source string
	alts   []simple
}

type attrTest struct {
	key    string
	op     string // "", "=" or "!="
	value  string
	quoted bool
}

type simple struct {
	group   graph.Group // "" matches both groups
	classes []string
	attrs   []attrTest
}

func (s Selector) String() string { return s.source }

// Matches reports whether el satisfies at least one alternative.
func (s Selector) Matches(el graph.Element) bool {
	for _, alt := range s.alts {
		if alt.matches(el) {
			return true
		}
	}
	return false
}

func (s simple) matches(el graph.Element) bool {
	if s.group != "" && s.group != el.Group() {
		return false
	}
	for _, c := range s.classes {
		if !el.HasClass(c) {
			return false
		}
	}
	for _, a := range s.attrs {
		v, ok := el.Attr(a.key)
		switch a.op {
		case "":
			if !ok || v == nil {
				return false
			}
		case "=":
			if !ok || graph.AttrString(el.Data(), a.key) != a.value {
				return false
			}
		case "!=":
			if ok && graph.AttrString(el.Data(), a.key) == a.value {
				return false
			}
		}
	}
	return true
}

// ParseSelector compiles selectors such as `node`, `.pt_node`, `edge.hot`,
// `node[type = "PT_NODE"]`, `[name]` and comma separated lists of those.
func ParseSelector(src string) (Selector, error) {
	sel := Selector{source: src}
	for _, part := range splitTopLevel(src) {
		part = strings.TrimSpace(part)
		if part == "" {
			return Selector{}, fmt.Errorf("selector %q: empty alternative", src)
		}
		alt, err := parseSimple(part)
		if err != nil {
			return Selector{}, fmt.Errorf("selector %q: %w", src, err)
		}
		sel.alts = append(sel.alts, alt)
	}
	return sel, nil
}

// splitTopLevel splits on commas that are outside brackets and quotes.
func splitTopLevel(src string) []string {
	var parts []string
	depth, start := 0, 0
	var quote rune
	for i, r := range src {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, src[start:i])
			start = i + 1
		}
	}
	return append(parts, src[start:])
}

func parseSimple(s string) (simple, error) {
	var out simple
	i := 0

	ident := func() string {
		start := i
		for i < len(s) && isIdentByte(s[i]) {
			i++
		}
		return s[start:i]
	}

	switch {
	case strings.HasPrefix(s, "*"):
		i = 1
	case i < len(s) && isIdentByte(s[i]):
		switch g := ident(); g {
		case "node":
			out.group = graph.GroupNodes
		case "edge":
			out.group = graph.GroupEdges
		default:
			return out, fmt.Errorf("unknown group %q", g)
		}
	}

	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			name := ident()
			if name == "" {
				return out, fmt.Errorf("missing class name at offset %d", i)
			}
			out.classes = append(out.classes, name)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return out, fmt.Errorf("unterminated attribute test")
			}
			test, err := parseAttrTest(s[i+1 : i+end])
			if err != nil {
				return out, err
			}
			out.attrs = append(out.attrs, test)
			i += end + 1
		default:
			return out, fmt.Errorf("unexpected %q at offset %d", s[i], i)
		}
	}
	return out, nil
}

func parseAttrTest(body string) (attrTest, error) {
	body = strings.TrimSpace(body)
	var t attrTest
	op := ""
	idx := -1
	if j := strings.Index(body, "!="); j >= 0 {
		op, idx = "!=", j
	} else if j := strings.IndexByte(body, '='); j >= 0 {
		op, idx = "=", j
	}
	if op == "" {
		t.key = body
	} else {
		t.key = strings.TrimSpace(body[:idx])
		t.op = op
		value := strings.TrimSpace(body[idx+len(op):])
		if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
			value = value[1 : n-1]
			t.quoted = true
		} else if value == "" {
			return t, fmt.Errorf("attribute test %q has no value", body)
		}
		t.value = value
	}
	if t.key == "" || strings.IndexFunc(t.key, unicode.IsSpace) >= 0 {
		return t, fmt.Errorf("bad attribute name in %q", body)
	}
	return t, nil
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '-' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
