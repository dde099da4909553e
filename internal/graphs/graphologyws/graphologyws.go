package graphologyws

import (
	"fmt"

	"github.com/psidex/ptviz/internal/graphs/graphology"
	"github.com/psidex/ptviz/internal/surface"
)

// JSONWriter is satisfied by lib.ThreadSafeWebSocket.
type JSONWriter interface {
	WriteJSON(v interface{}) error
}

// Stream sends the view to the page one element at a time: every node, then every
// edge, then "ready", or "loaderror" if the surface failed to load.
func Stream(ws JSONWriter, v *surface.View) error {
	if v.Failed() {
		if err := ws.WriteJSON(loadErrorMessage(v.Error)); err != nil {
			return fmt.Errorf("sending load error: %w", err)
		}
		return nil
	}

	for _, n := range v.Nodes {
		if err := ws.WriteJSON(nodeMessage(graphology.NodeFromView(n))); err != nil {
			return fmt.Errorf("sending node %q: %w", n.ID, err)
		}
	}
	for _, e := range v.Edges {
		if err := ws.WriteJSON(edgeMessage(graphology.EdgeFromView(e))); err != nil {
			return fmt.Errorf("sending edge %q: %w", e.ID, err)
		}
	}
	if err := ws.WriteJSON(readyMessage(len(v.Nodes), len(v.Edges))); err != nil {
		return fmt.Errorf("sending ready: %w", err)
	}
	return nil
}
