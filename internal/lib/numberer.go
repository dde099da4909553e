package lib

import "sync"

// Numberer assigns small sequential numbers to strings, starting at 1, in the order
// they are first seen. DOT output uses it to name nodes whose ids are not valid DOT
// identifiers.
type Numberer struct {
	mu   sync.Mutex
	seen map[string]int
}

func NewNumberer() *Numberer {
	return &Numberer{seen: make(map[string]int)}
}

// Number returns the number for s, assigning the next one if s is new.
func (n *Numberer) Number(s string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if id, ok := n.seen[s]; ok {
		return id
	}
	id := len(n.seen) + 1
	n.seen[s] = id
	return id
}
