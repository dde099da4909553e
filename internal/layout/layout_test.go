package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/ptviz/internal/graph"
)

type namedLayout string

func (n namedLayout) Name() string                                     { return string(n) }
func (namedLayout) Run(ctx context.Context, c *graph.Collection) error { return nil }

func collectionOf(t *testing.T, ids ...string) *graph.Collection {
	t.Helper()
	c := graph.NewCollection()
	for _, id := range ids {
		n, err := graph.NewNode(graph.Data{"id": id})
		require.NoError(t, err)
		require.NoError(t, c.AddNode(n))
	}
	return c
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"grid", "preset"}, r.Names())

	_, err := r.Lookup("dagre")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegistered))
	assert.Contains(t, err.Error(), `"dagre"`)
	assert.Contains(t, err.Error(), "registered: grid, preset")

	require.NoError(t, r.Register(namedLayout("dagre")))
	l, err := r.Lookup("dagre")
	require.NoError(t, err)
	assert.Equal(t, "dagre", l.Name())

	assert.Error(t, r.Register(namedLayout("dagre")))
}

func TestGrid(t *testing.T) {
	c := collectionOf(t, "a", "b", "c", "d", "e")
	require.NoError(t, Grid{Spacing: 10}.Run(context.Background(), c))

	want := map[string]graph.Position{
		"a": {X: 0, Y: 0}, "b": {X: 10, Y: 0}, "c": {X: 20, Y: 0},
		"d": {X: 0, Y: 10}, "e": {X: 10, Y: 10},
	}
	for id, pos := range want {
		n, _ := c.Node(id)
		got, ok := n.Position()
		require.True(t, ok)
		assert.Equal(t, pos, got, id)
	}
}

func TestPresetKeepsGivenPositions(t *testing.T) {
	c := collectionOf(t, "a", "b")
	a, _ := c.Node("a")
	a.SetPosition(graph.Position{X: 3, Y: 4})

	require.NoError(t, Preset{}.Run(context.Background(), c))

	got, _ := a.Position()
	assert.Equal(t, graph.Position{X: 3, Y: 4}, got)
	b, _ := c.Node("b")
	got, ok := b.Position()
	assert.True(t, ok)
	assert.Equal(t, graph.Position{}, got)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Grid{}.Run(ctx, collectionOf(t, "a")))
	assert.Error(t, Preset{}.Run(ctx, collectionOf(t, "a")))
}
