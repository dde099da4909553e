// Package dagre is a hierarchical layout for directed graphs: nodes are put on ranks
// so edges point down (or right), and nodes within a rank are ordered to reduce edge
// crossings. It is an extension and must be registered before use:
//
//	reg := layout.NewRegistry()
//	if err := dagre.Register(reg); err != nil { ... }
package dagre

import (
	"context"
	"fmt"
	"sort"

	"github.com/psidex/ptviz/internal/graph"
	"github.com/psidex/ptviz/internal/layout"
)

const Name = "dagre"

const (
	RankDirTB = "TB"
	RankDirLR = "LR"
)

type Options struct {
	RankDir    string
	NodeSep    float64
	RankSep    float64
	NodeWidth  float64
	NodeHeight float64
	// Sweeps is the number of ordering passes, alternating down and up.
	Sweeps int
}

func DefaultOptions() Options {
	return Options{
		RankDir:    RankDirTB,
		NodeSep:    50,
		RankSep:    50,
		NodeWidth:  30,
		NodeHeight: 30,
		Sweeps:     8,
	}
}

type Option func(*Options)

func WithRankDir(dir string) Option { return func(o *Options) { o.RankDir = dir } }

func WithNodeSep(sep float64) Option { return func(o *Options) { o.NodeSep = sep } }

func WithRankSep(sep float64) Option { return func(o *Options) { o.RankSep = sep } }

func WithSweeps(n int) Option { return func(o *Options) { o.Sweeps = n } }

type Layout struct {
	opts Options
}

var _ layout.Layout = (*Layout)(nil)

func New(opts ...Option) (*Layout, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.RankDir == "" {
		o.RankDir = RankDirTB
	}
	if o.RankDir != RankDirTB && o.RankDir != RankDirLR {
		return nil, fmt.Errorf("dagre: unknown rank direction %q", o.RankDir)
	}
	if o.NodeSep < 0 || o.RankSep < 0 || o.Sweeps < 0 {
		return nil, fmt.Errorf("dagre: separations and sweeps must not be negative")
	}
	return &Layout{opts: o}, nil
}

// Register adds the dagre layout to r.
func Register(r *layout.Registry, opts ...Option) error {
	l, err := New(opts...)
	if err != nil {
		return err
	}
	return r.Register(l)
}

func (*Layout) Name() string { return Name }

func (l *Layout) Run(ctx context.Context, c *graph.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nodes := c.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID()] = i
	}
	var edges [][2]int
	for _, e := range c.Edges() {
		if !c.Connected(e) {
			continue
		}
		u, v := index[e.Source()], index[e.Target()]
		if u == v {
			continue
		}
		edges = append(edges, [2]int{u, v})
	}

	edges = acyclic(len(nodes), edges)
	g := layered(len(nodes), edges, longestPath(len(nodes), edges))

	if err := g.order(ctx, l.opts.Sweeps); err != nil {
		return err
	}
	x := g.coordinates(l.opts.NodeWidth + l.opts.NodeSep)

	minX := x[0]
	for i := range nodes {
		if x[i] < minX {
			minX = x[i]
		}
	}
	rankStep := l.opts.NodeHeight + l.opts.RankSep
	for i, n := range nodes {
		p := graph.Position{X: x[i] - minX, Y: float64(g.rank[i]) * rankStep}
		if l.opts.RankDir == RankDirLR {
			p.X, p.Y = p.Y, p.X
		}
		n.SetPosition(p)
	}
	return nil
}

// acyclic reverses the back edges found by a depth-first search in node order.
func acyclic(n int, edges [][2]int) [][2]int {
	out := make([][2]int, len(edges))
	copy(out, edges)

	adj := make([][]int, n)
	for i, e := range edges {
		adj[e[0]] = append(adj[e[0]], i)
	}

	const (
		unvisited = iota
		onStack
		done
	)
	state := make([]int8, n)
	var visit func(u int)
	visit = func(u int) {
		state[u] = onStack
		for _, ei := range adj[u] {
			v := edges[ei][1]
			switch state[v] {
			case unvisited:
				visit(v)
			case onStack:
				out[ei] = [2]int{v, u}
			}
		}
		state[u] = done
	}
	for u := 0; u < n; u++ {
		if state[u] == unvisited {
			visit(u)
		}
	}
	return out
}

// longestPath ranks sources at 0 and every other node one below its deepest
// predecessor. edges must be acyclic.
func longestPath(n int, edges [][2]int) []int {
	indeg := make([]int, n)
	adj := make([][]int, n)
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		indeg[e[1]]++
	}
	rank := make([]int, n)
	queue := make([]int, 0, n)
	for u := 0; u < n; u++ {
		if indeg[u] == 0 {
			queue = append(queue, u)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if rank[u]+1 > rank[v] {
				rank[v] = rank[u] + 1
			}
			indeg[v]--
			if indeg[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return rank
}

// layeredGraph has a dummy node on every rank a long edge crosses, so that every
// segment joins adjacent ranks. Ids below real are the collection's nodes.
type layeredGraph struct {
	real   int
	rank   []int
	preds  [][]int
	succs  [][]int
	layers [][]int
}

func layered(n int, edges [][2]int, rank []int) *layeredGraph {
	g := &layeredGraph{real: n, rank: append([]int(nil), rank...)}
	g.preds = make([][]int, n)
	g.succs = make([][]int, n)

	link := func(u, v int) {
		g.succs[u] = append(g.succs[u], v)
		g.preds[v] = append(g.preds[v], u)
	}
	for _, e := range edges {
		prev := e[0]
		for r := g.rank[e[0]] + 1; r < g.rank[e[1]]; r++ {
			d := len(g.rank)
			g.rank = append(g.rank, r)
			g.preds = append(g.preds, nil)
			g.succs = append(g.succs, nil)
			link(prev, d)
			prev = d
		}
		link(prev, e[1])
	}

	maxRank := 0
	for _, r := range g.rank {
		if r > maxRank {
			maxRank = r
		}
	}
	g.layers = make([][]int, maxRank+1)
	for id, r := range g.rank {
		g.layers[r] = append(g.layers[r], id)
	}
	return g
}

func (g *layeredGraph) positions() []int {
	pos := make([]int, len(g.rank))
	for _, layer := range g.layers {
		for i, id := range layer {
			pos[id] = i
		}
	}
	return pos
}

// order runs barycentre sweeps and keeps the ordering with the fewest crossings.
func (g *layeredGraph) order(ctx context.Context, sweeps int) error {
	best := cloneLayers(g.layers)
	bestCrossings := g.crossings()

	for i := 0; i < sweeps && bestCrossings > 0; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		pos := g.positions()
		if i%2 == 0 {
			for r := 1; r < len(g.layers); r++ {
				reorder(g.layers[r], g.preds, pos)
			}
		} else {
			for r := len(g.layers) - 2; r >= 0; r-- {
				reorder(g.layers[r], g.succs, pos)
			}
		}
		if c := g.crossings(); c < bestCrossings {
			best, bestCrossings = cloneLayers(g.layers), c
		}
	}
	g.layers = best
	return nil
}

func reorder(layer []int, neighbours [][]int, pos []int) {
	bary := make(map[int]float64, len(layer))
	for _, id := range layer {
		ns := neighbours[id]
		if len(ns) == 0 {
			bary[id] = float64(pos[id])
			continue
		}
		sum := 0
		for _, nb := range ns {
			sum += pos[nb]
		}
		bary[id] = float64(sum) / float64(len(ns))
	}
	sort.SliceStable(layer, func(i, j int) bool { return bary[layer[i]] < bary[layer[j]] })
	for i, id := range layer {
		pos[id] = i
	}
}

func (g *layeredGraph) crossings() int {
	pos := g.positions()
	total := 0
	for r := 0; r+1 < len(g.layers); r++ {
		var segs [][2]int
		for _, u := range g.layers[r] {
			for _, v := range g.succs[u] {
				segs = append(segs, [2]int{pos[u], pos[v]})
			}
		}
		total += layerCrossings(segs, len(g.layers[r+1]))
	}
	return total
}

// layerCrossings counts the crossing pairs among segs, given as (upper, lower)
// positions, with an accumulator tree over the lower layer's width positions
// (Barth, Juenger, Mutzel). Segments sharing an end don't cross.
func layerCrossings(segs [][2]int, width int) int {
	if len(segs) < 2 || width == 0 {
		return 0
	}
	sort.Slice(segs, func(i, j int) bool {
		if segs[i][0] != segs[j][0] {
			return segs[i][0] < segs[j][0]
		}
		return segs[i][1] < segs[j][1]
	})

	first := 1
	for first < width {
		first <<= 1
	}
	tree := make([]int, 2*first-1)
	first--

	total := 0
	for _, s := range segs {
		index := s[1] + first
		tree[index]++
		for index > 0 {
			if index%2 == 1 {
				total += tree[index+1]
			}
			index = (index - 1) / 2
			tree[index]++
		}
	}
	return total
}

// coordinates spaces each layer at least step apart, pulling nodes towards the mean of
// their neighbours with a down pass and an up pass.
func (g *layeredGraph) coordinates(step float64) []float64 {
	x := make([]float64, len(g.rank))
	for _, layer := range g.layers {
		for i, id := range layer {
			x[id] = float64(i) * step
		}
	}
	for pass := 0; pass < 2; pass++ {
		for r := 1; r < len(g.layers); r++ {
			place(g.layers[r], g.preds, x, step)
		}
		for r := len(g.layers) - 2; r >= 0; r-- {
			place(g.layers[r], g.succs, x, step)
		}
	}
	return x
}

func place(layer []int, neighbours [][]int, x []float64, step float64) {
	if len(layer) == 0 {
		return
	}
	want := make([]float64, len(layer))
	for i, id := range layer {
		want[i] = x[id]
		if ns := neighbours[id]; len(ns) > 0 {
			sum := 0.0
			for _, nb := range ns {
				sum += x[nb]
			}
			want[i] = sum / float64(len(ns))
		}
	}
	got := append([]float64(nil), want...)
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1]+step {
			got[i] = got[i-1] + step
		}
	}
	shift := mean(want) - mean(got)
	for i, id := range layer {
		x[id] = got[i] + shift
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = append([]int(nil), l...)
	}
	return out
}
