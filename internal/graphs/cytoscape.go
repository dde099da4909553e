package graphs

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/psidex/ptviz/internal/graph"
	"github.com/psidex/ptviz/internal/surface"
)

type cytoscapeElement struct {
	Group    graph.Group     `json:"group"`
	Data     graph.Data      `json:"data"`
	Classes  string          `json:"classes,omitempty"`
	Position *graph.Position `json:"position,omitempty"`
}

type cytoscapeDocument struct {
	Elements struct {
		Nodes []cytoscapeElement `json:"nodes"`
		Edges []cytoscapeElement `json:"edges"`
	} `json:"elements"`
	Layout struct {
		Name string `json:"name"`
	} `json:"layout"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// Cytoscape writes the view as Cytoscape.js JSON, classes and positions included, so
// it can be loaded back with graph.Decode.
type Cytoscape struct{}

var _ Renderer = Cytoscape{}

func (Cytoscape) Ext() string { return "cjson" }

func (Cytoscape) Render(w io.Writer, v *surface.View) error {
	var doc cytoscapeDocument
	doc.Layout.Name = v.Layout
	doc.State = v.State
	doc.Error = v.Error
	doc.Elements.Nodes = make([]cytoscapeElement, 0, len(v.Nodes))
	doc.Elements.Edges = make([]cytoscapeElement, 0, len(v.Edges))

	for _, n := range v.Nodes {
		pos := n.Position
		doc.Elements.Nodes = append(doc.Elements.Nodes, cytoscapeElement{
			Group:    graph.GroupNodes,
			Data:     n.Data,
			Classes:  strings.Join(n.Classes, " "),
			Position: &pos,
		})
	}
	for _, e := range v.Edges {
		doc.Elements.Edges = append(doc.Elements.Edges, cytoscapeElement{
			Group:   graph.GroupEdges,
			Data:    e.Data,
			Classes: strings.Join(e.Classes, " "),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
