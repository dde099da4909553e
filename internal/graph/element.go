// Package graph holds the element collection a surface renders: nodes and edges whose
// only schema is a string-keyed attribute map plus a set of presentation classes.
package graph

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/psidex/ptviz/internal/lib"
)

type Group string

const (
	GroupNodes Group = "nodes"
	GroupEdges Group = "edges"
)

// Data is an element's attribute map, what Cytoscape calls the element's "data".
type Data map[string]any

// Position is a rendered coordinate, in layout units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Element is the behaviour shared by nodes and edges, used by style selectors.
type Element interface {
	Group() Group
	ID() string
	Attr(key string) (any, bool)
	HasClass(name string) bool
	Classes() []string
	Data() Data
}

type element struct {
	data    Data
	classes lib.Set
}

func newElement(data Data) element {
	if data == nil {
		data = Data{}
	}
	return element{data: data, classes: lib.NewSet()}
}

func (e element) ID() string {
	return AttrString(e.data, "id")
}

func (e element) Attr(key string) (any, bool) {
	v, ok := e.data[key]
	return v, ok
}

// Data returns a copy of the attribute map, callers can't reach the element's storage
// through it. Nested values are shared.
func (e element) Data() Data {
	out := make(Data, len(e.data))
	for k, v := range e.data {
		out[k] = v
	}
	return out
}

// AddClass tags the element with presentation classes, it returns how many were new.
func (e element) AddClass(names ...string) int {
	return e.classes.Add(names...)
}

// RemoveClass drops presentation classes, it returns how many were present.
func (e element) RemoveClass(names ...string) int {
	return e.classes.Remove(names...)
}

func (e element) HasClass(name string) bool {
	return e.classes.Contains(name)
}

// Classes returns the element's classes sorted.
func (e element) Classes() []string {
	return e.classes.Sorted()
}

type Node struct {
	element
	pos    Position
	hasPos bool
}

var _ Element = (*Node)(nil)

// NewNode builds a node from its attribute map, which must carry an id.
func NewNode(data Data) (*Node, error) {
	n := &Node{element: newElement(data)}
	if n.ID() == "" {
		return nil, fmt.Errorf("node has no id: %v", data)
	}
	return n, nil
}

func (n *Node) Group() Group { return GroupNodes }

// Type is the node's "type" attribute.
func (n *Node) Type() string {
	return AttrString(n.data, "type")
}

func (n *Node) Position() (Position, bool) {
	return n.pos, n.hasPos
}

func (n *Node) SetPosition(p Position) {
	n.pos = p
	n.hasPos = true
}

type Edge struct {
	element
}

var _ Element = (*Edge)(nil)

// NewEdge builds an edge from its attribute map, which must carry a source and a target.
func NewEdge(data Data) (*Edge, error) {
	e := &Edge{element: newElement(data)}
	if e.Source() == "" || e.Target() == "" {
		return nil, fmt.Errorf("edge needs a source and a target: %v", data)
	}
	return e, nil
}

func (e *Edge) Group() Group { return GroupEdges }

func (e *Edge) Source() string { return AttrString(e.data, "source") }

func (e *Edge) Target() string { return AttrString(e.data, "target") }

// Name is the edge's display label.
func (e *Edge) Name() string { return AttrString(e.data, "name") }

func (e *Edge) setID(id string) { e.data["id"] = id }

// AttrString reads an attribute as a string. Numbers are formatted the way they
// appeared in the input, anything else that isn't a string reads as "".
func AttrString(d Data, key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
