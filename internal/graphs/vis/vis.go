package vis

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/psidex/ptviz/internal/graphs"
	"github.com/psidex/ptviz/internal/style"
	"github.com/psidex/ptviz/internal/surface"
)

// Vis defines a Renderer that writes a standalone vis.js HTML page. Nodes are pinned
// at their layout positions and physics is off.
type Vis struct {
	Title string
	// WebSocket makes the page fetch the graph from a stream at this path instead of
	// embedding it, clicks are sent back over the same socket.
	WebSocket string
}

var _ graphs.Renderer = Vis{}

func (Vis) Ext() string { return "html" }

func (v Vis) title() string {
	if v.Title == "" {
		return "ptviz"
	}
	return v.Title
}

func (v Vis) Render(w io.Writer, view *surface.View) error {
	data := pageData{
		Title:     v.title(),
		Container: view.Container,
		Failed:    view.Failed(),
		Error:     view.Error,
		WebSocket: v.WebSocket,
		Nodes:     []visNode{},
		Edges:     []visEdge{},
	}
	if v.WebSocket == "" {
		data.Nodes, data.Edges = convert(view)
	}
	return page.Execute(w, data)
}

// HostPage is the page a surface attaches to before it has any data.
func (v Vis) HostPage(container string) []byte {
	var buf bytes.Buffer
	// The template only fails on writer errors, which a bytes.Buffer doesn't have.
	_ = page.Execute(&buf, pageData{
		Title:     v.title(),
		Container: container,
		WebSocket: v.WebSocket,
		Nodes:     []visNode{},
		Edges:     []visEdge{},
	})
	return buf.Bytes()
}

func convert(view *surface.View) ([]visNode, []visEdge) {
	nodes := make([]visNode, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		node := visNode{
			ID:    n.ID,
			Label: n.Style[style.Label],
			X:     n.Position.X,
			Y:     n.Position.Y,
		}
		if title, err := json.Marshal(n.Data); err == nil {
			node.Title = string(title)
		}
		if color := n.Style[style.BackgroundColor]; color != "" {
			node.Color = &visColor{Background: color, Border: color}
		}
		nodes = append(nodes, node)
	}

	edges := make([]visEdge, 0, len(view.Edges))
	for _, e := range view.Edges {
		edge := visEdge{
			ID:     e.ID,
			From:   e.Source,
			To:     e.Target,
			Label:  e.Style[style.Label],
			Smooth: e.Style[style.CurveStyle] == "bezier",
		}
		if e.Style[style.TargetArrowShape] != "" && e.Style[style.TargetArrowShape] != "none" {
			edge.Arrows = "to"
		}
		if width, err := strconv.ParseFloat(e.Style[style.Width], 64); err == nil {
			edge.Width = width
		}
		if color := e.Style[style.LineColor]; color != "" {
			edge.Color = &visEdgeColor{Color: color}
		}
		edges = append(edges, edge)
	}
	return nodes, edges
}
