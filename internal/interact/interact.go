// Package interact reports clicked nodes on a diagnostic stream.
package interact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/psidex/ptviz/internal/graph"
	"github.com/psidex/ptviz/internal/lib"
	"github.com/psidex/ptviz/internal/surface"
)

type Mode string

const (
	// ModeData writes the node's attribute map as a JSON object.
	ModeData Mode = "data"
	// ModeID writes "clicked <id>".
	ModeID Mode = "id"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeData, ModeID:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown click report mode %q, want %q or %q", s, ModeData, ModeID)
	}
}

// Reporter writes one line per click to Out.
type Reporter struct {
	Out    io.Writer
	Mode   Mode
	Logger *slog.Logger

	mu sync.Mutex
}

func (r *Reporter) Report(n *graph.Node) error {
	var line []byte
	switch r.Mode {
	case ModeID:
		line = []byte("clicked " + n.ID())
	case ModeData, "":
		b, err := json.Marshal(n.Data())
		if err != nil {
			return fmt.Errorf("encoding node %q: %w", n.ID(), err)
		}
		line = b
	default:
		return fmt.Errorf("unknown click report mode %q", r.Mode)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.Out.Write(line)
	return err
}

// Handler reports the clicked node, subscribe it to surface.EventClick.
func (r *Reporter) Handler() surface.Handler {
	logger := lib.LoggerOrDefault(r.Logger)
	return func(ctx context.Context, ev surface.Event) {
		if ev.Node == nil {
			return
		}
		logger.Debug("node clicked", "id", ev.Node.ID())
		if err := r.Report(ev.Node); err != nil {
			logger.Error("reporting click failed", "id", ev.Node.ID(), "error", err)
		}
	}
}
