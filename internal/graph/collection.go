package graph

import (
	"errors"
	"fmt"
)

var ErrDanglingEdge = errors.New("edge references a missing node")

// Collection is the full set of nodes and edges for one surface. Insertion order is
// kept so rendering is deterministic.
type Collection struct {
	nodes     []*Node
	edges     []*Edge
	nodeIndex map[string]*Node
	edgeIndex map[string]*Edge
}

func NewCollection() *Collection {
	return &Collection{
		nodeIndex: make(map[string]*Node),
		edgeIndex: make(map[string]*Edge),
	}
}

func (c *Collection) AddNode(n *Node) error {
	if _, ok := c.nodeIndex[n.ID()]; ok {
		return fmt.Errorf("duplicate node id %q", n.ID())
	}
	c.nodes = append(c.nodes, n)
	c.nodeIndex[n.ID()] = n
	return nil
}

func (c *Collection) AddEdge(e *Edge) error {
	if _, ok := c.edgeIndex[e.ID()]; ok {
		return fmt.Errorf("duplicate edge id %q", e.ID())
	}
	c.edges = append(c.edges, e)
	c.edgeIndex[e.ID()] = e
	return nil
}

func (c *Collection) Node(id string) (*Node, bool) {
	n, ok := c.nodeIndex[id]
	return n, ok
}

func (c *Collection) Edge(id string) (*Edge, bool) {
	e, ok := c.edgeIndex[id]
	return e, ok
}

// Nodes returns the nodes in insertion order. The slice is a copy, the nodes are not.
func (c *Collection) Nodes() []*Node {
	return append([]*Node(nil), c.nodes...)
}

func (c *Collection) Edges() []*Edge {
	return append([]*Edge(nil), c.edges...)
}

func (c *Collection) Len() int {
	return len(c.nodes) + len(c.edges)
}

func (c *Collection) IsEmpty() bool {
	return c.Len() == 0
}

// Connected reports whether both ends of e are nodes of c.
func (c *Collection) Connected(e *Edge) bool {
	_, src := c.nodeIndex[e.Source()]
	_, dst := c.nodeIndex[e.Target()]
	return src && dst
}

// Validate reports every edge whose source or target is not in the collection.
func (c *Collection) Validate() error {
	var errs []error
	for _, e := range c.edges {
		if _, ok := c.nodeIndex[e.Source()]; !ok {
			errs = append(errs, fmt.Errorf("edge %q source %q: %w", e.ID(), e.Source(), ErrDanglingEdge))
		}
		if _, ok := c.nodeIndex[e.Target()]; !ok {
			errs = append(errs, fmt.Errorf("edge %q target %q: %w", e.ID(), e.Target(), ErrDanglingEdge))
		}
	}
	return errors.Join(errs...)
}
