package graphology

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/ptviz/internal/graph"
	"github.com/psidex/ptviz/internal/style"
	"github.com/psidex/ptviz/internal/surface"
)

func TestRender(t *testing.T) {
	v := &surface.View{
		State: surface.StateReady.String(),
		Nodes: []surface.ViewNode{
			{
				ID:       "a",
				Data:     graph.Data{"id": "a", "type": "PT_NODE"},
				Classes:  []string{"node", "pt_node"},
				Position: graph.Position{X: 1, Y: 2},
				Style:    map[string]string{style.BackgroundColor: "green", style.Label: "PT_NODE"},
			},
			{ID: "b", Data: graph.Data{"id": "b"}, Style: map[string]string{}},
		},
		Edges: []surface.ViewEdge{
			{
				ID: "e1", Source: "a", Target: "b",
				Style: map[string]string{style.Width: "4", style.LineColor: "#9dbaea", style.Label: "rel"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Graphology{}.Render(&buf, v))

	var got SerializedGraph
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	want := SerializedGraph{
		Options: Options{Type: "directed", Multi: true, AllowSelfLoops: true},
		Nodes: []Node{
			{Key: "a", Attributes: NodeAttributes{
				X: 1, Y: 2, Size: defaultNodeSize, Label: "PT_NODE", Color: "green",
				Classes: []string{"node", "pt_node"}, Data: `{"id":"a","type":"PT_NODE"}`,
			}},
			{Key: "b", Attributes: NodeAttributes{Size: defaultNodeSize, Data: `{"id":"b"}`}},
		},
		Edges: []Edge{
			{Key: "e1", Source: "a", Target: "b", Attributes: EdgeAttributes{Size: 4, Label: "rel", Color: "#9dbaea"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
}

func TestEdgeSizeDefaultsToOne(t *testing.T) {
	e := EdgeFromView(surface.ViewEdge{ID: "e", Source: "a", Target: "b", Style: map[string]string{}})
	assert.Equal(t, 1.0, e.Attributes.Size)
}
