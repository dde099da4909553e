package surface

import (
	"github.com/psidex/ptviz/internal/graph"
)

type ViewNode struct {
	ID       string            `json:"id"`
	Data     graph.Data        `json:"data"`
	Classes  []string          `json:"classes,omitempty"`
	Position graph.Position    `json:"position"`
	Style    map[string]string `json:"style"`
}

type ViewEdge struct {
	ID      string            `json:"id"`
	Source  string            `json:"source"`
	Target  string            `json:"target"`
	Name    string            `json:"name"`
	Data    graph.Data        `json:"data"`
	Classes []string          `json:"classes,omitempty"`
	Style   map[string]string `json:"style"`
}

// View is a point-in-time copy of a surface for renderers. Edges whose ends are
// missing are left out.
type View struct {
	Container string     `json:"container"`
	Layout    string     `json:"layout"`
	State     string     `json:"state"`
	Error     string     `json:"error,omitempty"`
	Nodes     []ViewNode `json:"nodes"`
	Edges     []ViewEdge `json:"edges"`
}

// Failed reports whether the surface couldn't load its collection.
func (v *View) Failed() bool {
	return v.State == StateFailed.String()
}

func (s *Surface) View() *View {
	s.mu.RLock()
	c, state, err := s.coll, s.state, s.err
	s.mu.RUnlock()

	v := &View{
		Container: s.cfg.Container,
		Layout:    s.layout.Name(),
		State:     state.String(),
		Nodes:     []ViewNode{},
		Edges:     []ViewEdge{},
	}
	if err != nil {
		v.Error = err.Error()
	}
	for _, n := range c.Nodes() {
		pos, _ := n.Position()
		v.Nodes = append(v.Nodes, ViewNode{
			ID:       n.ID(),
			Data:     n.Data(),
			Classes:  n.Classes(),
			Position: pos,
			Style:    s.style.Resolve(n),
		})
	}
	for _, e := range c.Edges() {
		if !c.Connected(e) {
			continue
		}
		v.Edges = append(v.Edges, ViewEdge{
			ID:      e.ID(),
			Source:  e.Source(),
			Target:  e.Target(),
			Name:    e.Name(),
			Data:    e.Data(),
			Classes: e.Classes(),
			Style:   s.style.Resolve(e),
		})
	}
	return v
}
