package graphologyws

import (
	"github.com/psidex/ptviz/internal/graphs/graphology"
)

const (
	TypeNode      = "node"
	TypeEdge      = "edge"
	TypeReady     = "ready"
	TypeLoadError = "loaderror"
	TypeClick     = "click"
)

// Message is what the server streams to the page.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type readyData struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

type loadErrorData struct {
	Error string `json:"error"`
}

// ClientMessage is what the page sends back, for now only {"type": "click", "id": ...}.
type ClientMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func nodeMessage(n graphology.Node) Message { return Message{Type: TypeNode, Data: n} }

func edgeMessage(e graphology.Edge) Message { return Message{Type: TypeEdge, Data: e} }

func readyMessage(nodes, edges int) Message {
	return Message{Type: TypeReady, Data: readyData{Nodes: nodes, Edges: edges}}
}

func loadErrorMessage(err string) Message {
	return Message{Type: TypeLoadError, Data: loadErrorData{Error: err}}
}
