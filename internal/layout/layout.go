// Package layout assigns positions to the nodes of a collection. Layouts are looked up
// by name in a Registry; extensions such as dagre have to be registered explicitly
// before a surface can name them.
package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/psidex/ptviz/internal/graph"
)

var ErrNotRegistered = errors.New("layout is not registered")

type Layout interface {
	Name() string
	// Run sets a position on every node of c.
	Run(ctx context.Context, c *graph.Collection) error
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]Layout
}

// NewRegistry returns a registry holding the built-in grid and preset layouts.
func NewRegistry() *Registry {
	r := &Registry{layouts: make(map[string]Layout)}
	r.layouts[GridName] = Grid{Spacing: 100}
	r.layouts[PresetName] = Preset{}
	return r
}

func (r *Registry) Register(l Layout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.layouts[l.Name()]; ok {
		return fmt.Errorf("layout %q is already registered", l.Name())
	}
	r.layouts[l.Name()] = l
	return nil
}

// Lookup returns the layout registered as name. The error lists what is registered.
func (r *Registry) Lookup(name string) (Layout, error) {
	r.mu.RLock()
	l, ok := r.layouts[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w (registered: %s)", name, ErrNotRegistered, strings.Join(r.Names(), ", "))
	}
	return l, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	GridName   = "grid"
	PresetName = "preset"
)

// Grid places nodes row by row in a square grid, in collection order.
type Grid struct {
	Spacing float64
}

func (Grid) Name() string { return GridName }

func (g Grid) Run(ctx context.Context, c *graph.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nodes := c.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	for i, n := range nodes {
		n.SetPosition(graph.Position{
			X: float64(i%cols) * g.Spacing,
			Y: float64(i/cols) * g.Spacing,
		})
	}
	return nil
}

// Preset keeps the positions given in the input, nodes without one go to the origin.
type Preset struct{}

func (Preset) Name() string { return PresetName }

func (Preset) Run(ctx context.Context, c *graph.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, n := range c.Nodes() {
		if _, ok := n.Position(); !ok {
			n.SetPosition(graph.Position{})
		}
	}
	return nil
}
