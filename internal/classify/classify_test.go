package classify

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/ptviz/internal/graph"
)

func nodes(t *testing.T, types ...any) []*graph.Node {
	t.Helper()
	out := make([]*graph.Node, 0, len(types))
	for i, typ := range types {
		data := graph.Data{"id": string(rune('a' + i))}
		if typ != nil {
			data["type"] = typ
		}
		n, err := graph.NewNode(data)
		require.NoError(t, err)
		out = append(out, n)
	}
	return out
}

func TestApplyTagsOnlySentinelNodes(t *testing.T) {
	ns := nodes(t, "PT_NODE", "OTHER", nil, "pt_node", "PT_NODE ", "PT_NODE")
	matched := Default().Apply(ns)
	assert.Equal(t, 2, matched)

	for _, n := range ns {
		want := n.Type() == "PT_NODE"
		assert.Equal(t, want, n.HasClass(ClassPtNode), n.ID())
		assert.Equal(t, want, n.HasClass(ClassNode), n.ID())
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	ns := nodes(t, "PT_NODE", "OTHER")
	Default().Apply(ns)
	first := [][]string{ns[0].Classes(), ns[1].Classes()}

	Default().Apply(ns)
	assert.Equal(t, first, [][]string{ns[0].Classes(), ns[1].Classes()})
	assert.Equal(t, []string{"node", "pt_node"}, ns[0].Classes())
	assert.Empty(t, ns[1].Classes())
}

func TestApplyOrderDoesNotMatter(t *testing.T) {
	ns := nodes(t, "PT_NODE", "OTHER", "PT_NODE", "X", "PT_NODE")
	shuffled := append([]*graph.Node(nil), ns...)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assert.Equal(t, 3, Default().Apply(shuffled))
	for _, n := range ns {
		assert.Equal(t, n.Type() == SentinelType, n.HasClass(ClassPtNode))
	}
}

func TestNonStringTypeDoesNotMatch(t *testing.T) {
	c := Classifier{Attr: "type", Sentinel: "1", Classes: []string{"x"}}
	ns := nodes(t, 1.0)
	assert.Equal(t, 0, c.Apply(ns))
}

func TestApplyStripsReservedClassFromInput(t *testing.T) {
	c, err := graph.Decode(strings.NewReader(`{"nodes": [
		{"data": {"id": "a", "type": "PT_NODE"}},
		{"data": {"id": "b", "type": "OTHER"}, "classes": "pt_node node leaf"}]}`))
	require.NoError(t, err)

	assert.Equal(t, 1, Default().Apply(c.Nodes()))

	b, ok := c.Node("b")
	require.True(t, ok)
	assert.False(t, b.HasClass(ClassPtNode))
	assert.Equal(t, []string{"leaf", "node"}, b.Classes())

	a, ok := c.Node("a")
	require.True(t, ok)
	assert.True(t, a.HasClass(ClassPtNode))
}
