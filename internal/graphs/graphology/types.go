package graphology

type NodeAttributes struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Size    float64  `json:"size"`
	Label   string   `json:"label"`
	Color   string   `json:"color,omitempty"`
	Classes []string `json:"classes,omitempty"`
	// Data is the node's attribute map as JSON, shown when the node is inspected.
	Data string `json:"data,omitempty"`
}

type Node struct {
	Key        string         `json:"key"`
	Attributes NodeAttributes `json:"attributes"`
}

type EdgeAttributes struct {
	Size  float64 `json:"size"`
	Label string  `json:"label,omitempty"`
	Color string  `json:"color,omitempty"`
}

type Edge struct {
	Key        string         `json:"key"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Attributes EdgeAttributes `json:"attributes"`
}

type Options struct {
	Type           string `json:"type"`
	Multi          bool   `json:"multi"`
	AllowSelfLoops bool   `json:"allowSelfLoops"`
}

type SerializedGraph struct {
	Options Options `json:"options"`
	Nodes   []Node  `json:"nodes"`
	Edges   []Edge  `json:"edges"`
}
