package vis

// visNode and visEdge are vis-network's DataSet items.

type visColor struct {
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`
}

type visNode struct {
	ID    string    `json:"id"`
	Label string    `json:"label,omitempty"`
	Title string    `json:"title,omitempty"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Color *visColor `json:"color,omitempty"`
}

type visEdgeColor struct {
	Color string `json:"color,omitempty"`
}

type visEdge struct {
	ID     string        `json:"id"`
	From   string        `json:"from"`
	To     string        `json:"to"`
	Label  string        `json:"label,omitempty"`
	Arrows string        `json:"arrows,omitempty"`
	Width  float64       `json:"width,omitempty"`
	Color  *visEdgeColor `json:"color,omitempty"`
	Smooth bool          `json:"smooth"`
}

type pageData struct {
	Title     string
	Container string
	Failed    bool
	Error     string
	// WebSocket is the path the page streams the graph from, when set Nodes and Edges
	// are left empty and filled in by the stream.
	WebSocket string
	Nodes     []visNode
	Edges     []visEdge
}
