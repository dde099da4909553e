package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// RawElement is one element in Cytoscape's JSON form.
type RawElement struct {
	Group    Group           `json:"group,omitempty"`
	Data     Data            `json:"data"`
	Classes  json.RawMessage `json:"classes,omitempty"`
	Position *Position       `json:"position,omitempty"`
}

// Elements is Cytoscape's grouped elements form.
type Elements struct {
	Nodes []RawElement `json:"nodes"`
	Edges []RawElement `json:"edges"`
}

// Decode reads an element collection. It accepts the converter's
// {"elements": {"nodes": [...], "edges": [...]}} document, a bare
// {"nodes": [...], "edges": [...]} object, and a flat array of elements that carry a
// "group" (or, for edges, a source and target).
func Decode(r io.Reader) (*Collection, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if body[0] == '[' {
		var flat []RawElement
		if err := unmarshal(body, &flat); err != nil {
			return nil, err
		}
		return fromFlat(flat)
	}

	var doc struct {
		Elements json.RawMessage `json:"elements"`
		Nodes    []RawElement    `json:"nodes"`
		Edges    []RawElement    `json:"edges"`
	}
	if err := unmarshal(body, &doc); err != nil {
		return nil, err
	}
	if len(doc.Elements) == 0 {
		return fromGrouped(Elements{Nodes: doc.Nodes, Edges: doc.Edges})
	}

	inner := bytes.TrimSpace(doc.Elements)
	if len(inner) > 0 && inner[0] == '[' {
		var flat []RawElement
		if err := unmarshal(inner, &flat); err != nil {
			return nil, err
		}
		return fromFlat(flat)
	}
	var grouped Elements
	if err := unmarshal(inner, &grouped); err != nil {
		return nil, err
	}
	return fromGrouped(grouped)
}

func unmarshal(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}

func fromFlat(flat []RawElement) (*Collection, error) {
	var grouped Elements
	for i, raw := range flat {
		switch raw.Group {
		case GroupNodes:
			grouped.Nodes = append(grouped.Nodes, raw)
		case GroupEdges:
			grouped.Edges = append(grouped.Edges, raw)
		case "":
			if AttrString(raw.Data, "source") != "" && AttrString(raw.Data, "target") != "" {
				grouped.Edges = append(grouped.Edges, raw)
			} else {
				grouped.Nodes = append(grouped.Nodes, raw)
			}
		default:
			return nil, fmt.Errorf("element %d: unknown group %q", i, raw.Group)
		}
	}
	return fromGrouped(grouped)
}

func fromGrouped(grouped Elements) (*Collection, error) {
	c := NewCollection()

	for i, raw := range grouped.Nodes {
		n, err := NewNode(raw.Data)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		classes, err := parseClasses(raw.Classes)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID(), err)
		}
		n.AddClass(classes...)
		if raw.Position != nil {
			n.SetPosition(*raw.Position)
		}
		if err := c.AddNode(n); err != nil {
			return nil, err
		}
	}

	for i, raw := range grouped.Edges {
		e, err := NewEdge(raw.Data)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if e.ID() == "" {
			// Same convention as the converter that produces these documents.
			id := e.Source() + "_" + e.Target()
			if _, taken := c.Edge(id); taken {
				id += "_" + uuid.NewString()
			}
			e.setID(id)
		}
		classes, err := parseClasses(raw.Classes)
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", e.ID(), err)
		}
		e.AddClass(classes...)
		if err := c.AddEdge(e); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// parseClasses accepts "a b" or ["a", "b"].
func parseClasses(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.Fields(s), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("classes must be a string or a list of strings: %s", raw)
	}
	return list, nil
}

// Elements returns the collection in Cytoscape's grouped form, with classes and
// positions.
func (c *Collection) Elements() Elements {
	out := Elements{
		Nodes: make([]RawElement, 0, len(c.nodes)),
		Edges: make([]RawElement, 0, len(c.edges)),
	}
	for _, n := range c.nodes {
		raw := RawElement{Group: GroupNodes, Data: n.Data(), Classes: encodeClasses(n.Classes())}
		if p, ok := n.Position(); ok {
			raw.Position = &p
		}
		out.Nodes = append(out.Nodes, raw)
	}
	for _, e := range c.edges {
		out.Edges = append(out.Edges, RawElement{Group: GroupEdges, Data: e.Data(), Classes: encodeClasses(e.Classes())})
	}
	return out
}

func encodeClasses(classes []string) json.RawMessage {
	if len(classes) == 0 {
		return nil
	}
	b, _ := json.Marshal(strings.Join(classes, " "))
	return b
}

// Encode writes the collection as {"nodes": [...], "edges": [...]}.
func (c *Collection) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Elements())
}

// EncodeDocument writes the collection as {"elements": {"nodes": [...], "edges": [...]}},
// the shape the converter emits.
func (c *Collection) EncodeDocument(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(struct {
		Elements Elements `json:"elements"`
	}{c.Elements()})
}
