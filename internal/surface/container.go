package surface

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// ContainerError means the surface has nowhere to attach.
type ContainerError struct {
	ID     string
	Reason string
}

func (e *ContainerError) Error() string {
	if e.ID == "" {
		return "surface container: " + e.Reason
	}
	return fmt.Sprintf("surface container %q: %s", e.ID, e.Reason)
}

// checkContainer makes sure page has an element whose id is id.
func checkContainer(page []byte, id string) error {
	if id == "" {
		return &ContainerError{Reason: "no container id given"}
	}
	if len(bytes.TrimSpace(page)) == 0 {
		return &ContainerError{ID: id, Reason: "no page to attach to"}
	}
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return &ContainerError{ID: id, Reason: fmt.Sprintf("parsing page: %v", err)}
	}
	if findByID(doc, id) == nil {
		return &ContainerError{ID: id, Reason: "no element with this id in the page"}
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// BlankPage is the smallest page a surface can attach to.
func BlankPage(container string) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html><html><body><div id="%s"></div></body></html>`, html.EscapeString(container)))
}
