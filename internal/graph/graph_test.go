package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const converterDoc = `{
    "elements": {
        "nodes": [
            {"data": {"id": "a", "type": "PT_NODE", "name": "n1"}},
            {"data": {"id": "b", "type": "OTHER"}}
        ],
        "edges": [
            {"data": {"id": "e1", "source": "a", "target": "b", "name": "rel"}}
        ]
    }
}`

func TestDecodeShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"converter", converterDoc},
		{"bare", `{"nodes": [{"data": {"id": "a", "type": "PT_NODE", "name": "n1"}}, {"data": {"id": "b", "type": "OTHER"}}],
			"edges": [{"data": {"id": "e1", "source": "a", "target": "b", "name": "rel"}}]}`},
		{"flat", `[{"group": "nodes", "data": {"id": "a", "type": "PT_NODE", "name": "n1"}},
			{"data": {"id": "b", "type": "OTHER"}},
			{"data": {"id": "e1", "source": "a", "target": "b", "name": "rel"}}]`},
		{"elements array", `{"elements": [{"data": {"id": "a", "type": "PT_NODE", "name": "n1"}},
			{"data": {"id": "b", "type": "OTHER"}},
			{"group": "edges", "data": {"id": "e1", "source": "a", "target": "b", "name": "rel"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(strings.NewReader(tt.doc))
			require.NoError(t, err)
			require.Len(t, c.Nodes(), 2)
			require.Len(t, c.Edges(), 1)

			a, ok := c.Node("a")
			require.True(t, ok)
			assert.Equal(t, "PT_NODE", a.Type())
			if diff := cmp.Diff(Data{"id": "a", "type": "PT_NODE", "name": "n1"}, a.Data()); diff != "" {
				t.Errorf("node data mismatch (-want +got):\n%s", diff)
			}

			e, ok := c.Edge("e1")
			require.True(t, ok)
			assert.Equal(t, "a", e.Source())
			assert.Equal(t, "b", e.Target())
			assert.Equal(t, "rel", e.Name())
			assert.NoError(t, c.Validate())
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "  "},
		{"not json", "<html>"},
		{"node without id", `{"nodes": [{"data": {"type": "X"}}]}`},
		{"edge without target", `{"nodes": [{"data": {"id": "a"}}], "edges": [{"data": {"source": "a"}}]}`},
		{"duplicate node", `{"nodes": [{"data": {"id": "a"}}, {"data": {"id": "a"}}]}`},
		{"unknown group", `[{"group": "hyperedges", "data": {"id": "a"}}]`},
		{"bad classes", `{"nodes": [{"data": {"id": "a"}, "classes": 3}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeGeneratesEdgeIds(t *testing.T) {
	c, err := Decode(strings.NewReader(`{"nodes": [{"data": {"id": "a"}}, {"data": {"id": "b"}}],
		"edges": [{"data": {"source": "a", "target": "b"}}, {"data": {"source": "a", "target": "b"}}]}`))
	require.NoError(t, err)

	edges := c.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, "a_b", edges[0].ID())
	assert.True(t, strings.HasPrefix(edges[1].ID(), "a_b_"))
	assert.NotEqual(t, edges[0].ID(), edges[1].ID())
}

func TestDecodeKeepsNumbersAndClasses(t *testing.T) {
	c, err := Decode(strings.NewReader(`{"nodes": [{"data": {"id": 7, "depth": 2}, "classes": "x y", "position": {"x": 1, "y": 2}}]}`))
	require.NoError(t, err)

	n, ok := c.Node("7")
	require.True(t, ok)
	assert.Equal(t, json.Number("2"), n.Data()["depth"])
	assert.Equal(t, []string{"x", "y"}, n.Classes())
	pos, ok := n.Position()
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 2}, pos)
}

func TestValidateReportsDanglingEdges(t *testing.T) {
	c, err := Decode(strings.NewReader(`{"nodes": [{"data": {"id": "a"}}],
		"edges": [{"data": {"id": "e1", "source": "a", "target": "ghost"}}, {"data": {"id": "e2", "source": "a", "target": "a"}}]}`))
	require.NoError(t, err)

	err = c.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDanglingEdge))
	assert.Contains(t, err.Error(), `"ghost"`)

	e1, _ := c.Edge("e1")
	e2, _ := c.Edge("e2")
	assert.False(t, c.Connected(e1))
	assert.True(t, c.Connected(e2))
}

func TestDataIsACopy(t *testing.T) {
	n, err := NewNode(Data{"id": "a", "type": "PT_NODE"})
	require.NoError(t, err)

	d := n.Data()
	d["type"] = "changed"
	assert.Equal(t, "PT_NODE", n.Type())
}

func TestEncodeRoundTripsClasses(t *testing.T) {
	c, err := Decode(strings.NewReader(converterDoc))
	require.NoError(t, err)
	a, _ := c.Node("a")
	a.AddClass("node", "pt_node")
	a.SetPosition(Position{X: 10, Y: 20})

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))

	again, err := Decode(&buf)
	require.NoError(t, err)
	a2, _ := again.Node("a")
	assert.Equal(t, []string{"node", "pt_node"}, a2.Classes())
	pos, _ := a2.Position()
	assert.Equal(t, Position{X: 10, Y: 20}, pos)
	b2, _ := again.Node("b")
	assert.Empty(t, b2.Classes())
}
