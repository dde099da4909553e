package graphology

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/psidex/ptviz/internal/graphs"
	"github.com/psidex/ptviz/internal/style"
	"github.com/psidex/ptviz/internal/surface"
)

const defaultNodeSize = 5

// Graphology defines a Renderer that writes a serialized Graphology graph as JSON,
// which sigma.js and friends can import directly.
type Graphology struct{}

var _ graphs.Renderer = Graphology{}

func (Graphology) Ext() string { return "json" }

func (Graphology) Render(w io.Writer, v *surface.View) error {
	marshalled, err := json.Marshal(FromView(v))
	if err != nil {
		return err
	}
	_, err = w.Write(marshalled)
	return err
}

func NodeFromView(n surface.ViewNode) Node {
	attrs := NodeAttributes{
		X:       n.Position.X,
		Y:       n.Position.Y,
		Size:    defaultNodeSize,
		Label:   n.Style[style.Label],
		Color:   n.Style[style.BackgroundColor],
		Classes: n.Classes,
	}
	if data, err := json.Marshal(n.Data); err == nil {
		attrs.Data = string(data)
	}
	return Node{Key: n.ID, Attributes: attrs}
}

func EdgeFromView(e surface.ViewEdge) Edge {
	attrs := EdgeAttributes{
		Size:  1,
		Label: e.Style[style.Label],
		Color: e.Style[style.LineColor],
	}
	if width, err := strconv.ParseFloat(e.Style[style.Width], 64); err == nil {
		attrs.Size = width
	}
	return Edge{Key: e.ID, Source: e.Source, Target: e.Target, Attributes: attrs}
}

// FromView converts a whole view. Parse trees can share children, so the graph is a
// directed multigraph that allows self loops.
func FromView(v *surface.View) SerializedGraph {
	g := SerializedGraph{
		Options: Options{Type: "directed", Multi: true, AllowSelfLoops: true},
		Nodes:   make([]Node, 0, len(v.Nodes)),
		Edges:   make([]Edge, 0, len(v.Edges)),
	}
	for _, n := range v.Nodes {
		g.Nodes = append(g.Nodes, NodeFromView(n))
	}
	for _, e := range v.Edges {
		g.Edges = append(g.Edges, EdgeFromView(e))
	}
	return g
}
