package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Keys of a parse tree dump entry. Any other key holding an object with an ADDRESS
// is a pointer to a child entry.
const (
	KeyAddress = "ADDRESS"
	KeyType    = "TYPE"
)

var ErrNoAddress = errors.New("parse tree root has no ADDRESS")

// FromParseTree converts a nested parse tree dump, as written by the gdb pretty
// printer, into an element collection. Each entry becomes a node whose id is its
// ADDRESS and whose type is its TYPE; the remaining non-pointer keys are copied into
// the node data. Each pointer field becomes an edge from the entry to the child, with
// id "<parent>_<child>" and the field as its name. A child reached twice becomes one
// node with two incoming edges.
func FromParseTree(r io.Reader) (*Collection, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}
	if _, ok := address(root); !ok {
		return nil, ErrNoAddress
	}

	c := NewCollection()
	if _, err := convertEntry(c, root); err != nil {
		return nil, err
	}
	return c, nil
}

func address(entry map[string]any) (string, bool) {
	v, ok := entry[KeyAddress]
	if !ok || v == nil {
		return "", false
	}
	switch a := v.(type) {
	case string:
		return a, a != ""
	case json.Number:
		return a.String(), true
	default:
		return "", false
	}
}

// child returns v as a pointed-to entry.
func child(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	_, ok = address(m)
	return m, ok
}

// convertEntry adds entry and everything below it, parents before children, and
// returns the entry's id. Entries already in c are not revisited.
func convertEntry(c *Collection, entry map[string]any) (string, error) {
	id, _ := address(entry)
	if _, seen := c.Node(id); seen {
		return id, nil
	}

	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := Data{}
	var fields []string
	for _, k := range keys {
		switch k {
		case KeyAddress:
		case KeyType:
			data["type"] = entry[k]
		default:
			if _, ok := child(entry[k]); ok {
				fields = append(fields, k)
			} else {
				data[k] = entry[k]
			}
		}
	}
	data["id"] = id

	n, err := NewNode(data)
	if err != nil {
		return "", fmt.Errorf("entry %q: %w", id, err)
	}
	if err := c.AddNode(n); err != nil {
		return "", err
	}

	for _, field := range fields {
		m, _ := child(entry[field])
		childID, err := convertEntry(c, m)
		if err != nil {
			return "", err
		}
		edgeID := id + "_" + childID
		if _, taken := c.Edge(edgeID); taken {
			edgeID += "_" + field
		}
		e, err := NewEdge(Data{"id": edgeID, "source": id, "target": childID, "name": field})
		if err != nil {
			return "", err
		}
		if err := c.AddEdge(e); err != nil {
			return "", err
		}
	}
	return id, nil
}
