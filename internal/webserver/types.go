package webserver

// Config holds the webserver settings.
type Config struct {
	// Addr is the ip:port to bind to.
	Addr string
	// StaticDir is served under /static/, leave empty to disable.
	StaticDir string
	Title     string
}

type health struct {
	Status string `json:"status"`
	State  string `json:"state"`
	Error  string `json:"error,omitempty"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
}
