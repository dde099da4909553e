package graphs

import (
	"io"
	"os"

	"github.com/psidex/ptviz/internal/surface"
)

// Renderer turns a surface view into a file format.
type Renderer interface {
	// Render is not assumed to be thread-safe.
	Render(w io.Writer, v *surface.View) error
	// Ext is the file extension used by RenderToFile, without the dot.
	Ext() string
}

// RenderToFile renders v to filename plus the renderer's extension.
// filename should be the desired file name without an extension.
func RenderToFile(r Renderer, v *surface.View, filename string) (string, error) {
	filename = filename + "." + r.Ext()

	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}

	if err := r.Render(file, v); err != nil {
		file.Close()
		return "", err
	}
	return filename, file.Close()
}
