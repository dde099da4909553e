package graphs

import (
	"fmt"
	"io"
	"strings"

	"github.com/psidex/ptviz/internal/lib"
	"github.com/psidex/ptviz/internal/style"
	"github.com/psidex/ptviz/internal/surface"
)

// DOT writes the view as a graphviz digraph. Node identifiers are n1, n2, ... in view
// order, the element id is kept in the id attribute.
type DOT struct {
	Name string
}

var _ Renderer = DOT{}

func (DOT) Ext() string { return "dot" }

func (d DOT) Render(w io.Writer, v *surface.View) error {
	_, err := io.WriteString(w, d.String(v))
	return err
}

func (d DOT) String(v *surface.View) string {
	name := d.Name
	if name == "" {
		name = "ptviz"
	}
	ids := lib.NewNumberer()

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("digraph %s {\n", quote(name)))
	buf.WriteString("  node [style=filled];\n")
	if v.Failed() {
		buf.WriteString(fmt.Sprintf("  label=%s;\n", quote("load failed: "+v.Error)))
	}

	for _, n := range v.Nodes {
		attrs := []string{"id=" + quote(n.ID)}
		if label, ok := n.Style[style.Label]; ok {
			attrs = append(attrs, "label="+quote(label))
		}
		if color := n.Style[style.BackgroundColor]; color != "" {
			attrs = append(attrs, "fillcolor="+quote(color))
		}
		if len(n.Classes) > 0 {
			attrs = append(attrs, "class="+quote(strings.Join(n.Classes, " ")))
		}
		buf.WriteString(fmt.Sprintf("  n%d [%s];\n", ids.Number(n.ID), strings.Join(attrs, ", ")))
	}

	for _, e := range v.Edges {
		attrs := []string{"id=" + quote(e.ID)}
		if label := e.Style[style.Label]; label != "" {
			attrs = append(attrs, "label="+quote(label))
		}
		if color := e.Style[style.LineColor]; color != "" {
			attrs = append(attrs, "color="+quote(color))
		}
		if width := e.Style[style.Width]; width != "" {
			attrs = append(attrs, "penwidth="+quote(width))
		}
		buf.WriteString(fmt.Sprintf("  n%d -> n%d [%s];\n", ids.Number(e.Source), ids.Number(e.Target), strings.Join(attrs, ", ")))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
