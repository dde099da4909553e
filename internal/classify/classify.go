// Package classify tags nodes of a distinguished type with presentation classes once
// a surface is ready, so the style sheet can pick them out.
package classify

import (
	"context"
	"log/slog"

	"github.com/psidex/ptviz/internal/graph"
	"github.com/psidex/ptviz/internal/lib"
	"github.com/psidex/ptviz/internal/surface"
)

const (
	SentinelType = "PT_NODE"
	ClassNode    = "node"
	ClassPtNode  = "pt_node"
)

type Classifier struct {
	// Attr is the attribute compared against Sentinel.
	Attr     string
	Sentinel string
	Classes  []string
	// Reserved classes belong to matching nodes only, Apply strips them from any
	// other node even when the input document set them.
	Reserved []string
}

// Default tags nodes whose type is PT_NODE with "node pt_node".
func Default() Classifier {
	return Classifier{
		Attr:     "type",
		Sentinel: SentinelType,
		Classes:  []string{ClassNode, ClassPtNode},
		Reserved: []string{ClassPtNode},
	}
}

// Matches compares the attribute as a string, a number that prints like the sentinel
// doesn't match.
func (c Classifier) Matches(n *graph.Node) bool {
	v, ok := n.Attr(c.Attr)
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s == c.Sentinel
}

// Apply adds the classes to every matching node, removes the reserved ones from the
// rest and returns how many matched. Nodes are independent, so order doesn't matter,
// and a second Apply changes nothing.
func (c Classifier) Apply(nodes []*graph.Node) int {
	matched := 0
	for _, n := range nodes {
		if c.Matches(n) {
			n.AddClass(c.Classes...)
			matched++
			continue
		}
		n.RemoveClass(c.Reserved...)
	}
	return matched
}

// Handler classifies the surface's nodes, subscribe it to surface.EventReady.
func (c Classifier) Handler(logger *slog.Logger) surface.Handler {
	logger = lib.LoggerOrDefault(logger)
	return func(ctx context.Context, ev surface.Event) {
		nodes := ev.Surface.Nodes()
		matched := c.Apply(nodes)
		logger.Debug("classified nodes", "sentinel", c.Sentinel, "matched", matched, "nodes", len(nodes))
	}
}
