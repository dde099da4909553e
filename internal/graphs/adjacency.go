package graphs

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/psidex/ptviz/internal/surface"
)

// Adjacency writes a JSON map of node id to the sorted ids its edges point at. Every
// node gets an entry, even without outgoing edges.
type Adjacency struct{}

var _ Renderer = Adjacency{}

func (Adjacency) Ext() string { return "json" }

func (Adjacency) Render(w io.Writer, v *surface.View) error {
	adjacency := make(map[string][]string, len(v.Nodes))
	for _, n := range v.Nodes {
		adjacency[n.ID] = []string{}
	}
	for _, e := range v.Edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
	}
	for _, targets := range adjacency {
		sort.Strings(targets)
	}

	jsonData, err := json.MarshalIndent(adjacency, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(jsonData)
	return err
}
