// Package surface is the visualization surface: it owns one element collection,
// loads it once from a source, lays it out, resolves styles against it and tells
// subscribers when it is ready and when nodes are clicked.
package surface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/psidex/ptviz/internal/graph"
	"github.com/psidex/ptviz/internal/layout"
	"github.com/psidex/ptviz/internal/lib"
	"github.com/psidex/ptviz/internal/style"
)

var (
	ErrNoSuchNode    = errors.New("no such node")
	ErrAlreadyLoaded = errors.New("surface has already been loaded")
	ErrClosed        = errors.New("surface is closed")
)

// LayoutError means the configured layout can't be used.
type LayoutError struct {
	Name string
	Err  error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout %q: %v", e.Name, e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }

type State int

const (
	StateNew State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Loader produces the element collection for a source.
type Loader interface {
	Load(ctx context.Context, source string) (*graph.Collection, error)
}

type Config struct {
	// Container is the id of the page element the surface attaches to.
	Container string
	// Page is the HTML page the surface is hosted in.
	Page   []byte
	Style  style.Sheet
	Layout string
	Source string
}

type Deps struct {
	Layouts *layout.Registry
	Loader  Loader
	Logger  *slog.Logger
}

type Surface struct {
	cfg    Config
	logger *slog.Logger
	layout layout.Layout
	style  *style.Compiled
	loader Loader
	disp   *dispatcher

	mu       sync.RWMutex
	state    State
	err      error
	coll     *graph.Collection
	handlers map[EventType][]Handler
	closed   bool
}

// New checks the configuration and returns a surface ready to Load. It fails when the
// page has no element with the container id, or when the layout isn't registered.
func New(cfg Config, deps Deps) (*Surface, error) {
	if err := checkContainer(cfg.Page, cfg.Container); err != nil {
		return nil, err
	}
	if deps.Layouts == nil {
		return nil, &LayoutError{Name: cfg.Layout, Err: errors.New("no layout registry")}
	}
	l, err := deps.Layouts.Lookup(cfg.Layout)
	if err != nil {
		return nil, &LayoutError{Name: cfg.Layout, Err: err}
	}
	compiled, err := style.Compile(cfg.Style)
	if err != nil {
		return nil, err
	}
	if deps.Loader == nil {
		return nil, errors.New("surface needs a loader")
	}

	logger := lib.LoggerOrDefault(deps.Logger).With("container", cfg.Container)
	return &Surface{
		cfg:      cfg,
		logger:   logger,
		layout:   l,
		style:    compiled,
		loader:   deps.Loader,
		disp:     newDispatcher(logger),
		state:    StateNew,
		coll:     graph.NewCollection(),
		handlers: make(map[EventType][]Handler),
	}, nil
}

// On subscribes h to events of type t. Handlers run in subscription order.
func (s *Surface) On(t EventType, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[t] = append(s.handlers[t], h)
}

func (s *Surface) emit(ev Event) <-chan struct{} {
	ev.Surface = s
	s.mu.RLock()
	handlers := append([]Handler(nil), s.handlers[ev.Type]...)
	s.mu.RUnlock()
	return s.disp.emit(ev, handlers)
}

func wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load fetches the source once, lays the collection out and fires EventReady, waiting
// for its handlers. If anything fails the surface keeps an empty collection, fires
// EventLoadError and returns the error; the surface stays usable for rendering.
func (s *Surface) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != StateNew {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.state = StateLoading
	s.mu.Unlock()

	s.logger.Debug("loading element collection", "source", s.cfg.Source)

	c, err := s.loader.Load(ctx, s.cfg.Source)
	if err == nil {
		if verr := c.Validate(); verr != nil {
			s.logger.Warn("element collection has edges to missing nodes", "error", verr)
		}
		if lerr := s.layout.Run(ctx, c); lerr != nil {
			err = &LayoutError{Name: s.layout.Name(), Err: lerr}
		}
	}
	if err != nil {
		return s.fail(ctx, err)
	}

	s.mu.Lock()
	s.coll = c
	s.mu.Unlock()

	s.logger.Info("element collection loaded", "nodes", len(c.Nodes()), "edges", len(c.Edges()))
	if err := wait(ctx, s.emit(Event{Type: EventReady})); err != nil {
		// Handlers may still finish later; the surface settles as failed either way.
		return s.fail(ctx, fmt.Errorf("waiting for ready handlers: %w", err))
	}

	s.mu.Lock()
	s.state = StateReady
	s.mu.Unlock()
	return nil
}

func (s *Surface) fail(ctx context.Context, err error) error {
	s.mu.Lock()
	s.coll = graph.NewCollection()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()

	s.logger.Error("loading element collection failed", "source", s.cfg.Source, "error", err)
	if werr := wait(ctx, s.emit(Event{Type: EventLoadError, Err: err})); werr != nil {
		s.logger.Warn("gave up waiting for load error handlers", "error", werr)
	}
	return err
}

// Click fires EventClick for node id and waits for its handlers.
func (s *Surface) Click(ctx context.Context, id string) error {
	s.mu.RLock()
	n, ok := s.coll.Node(id)
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if !ok {
		return fmt.Errorf("click %q: %w", id, ErrNoSuchNode)
	}
	return wait(ctx, s.emit(Event{Type: EventClick, Node: n}))
}

// Nodes returns the surface's nodes, empty before a successful load.
func (s *Surface) Nodes() []*graph.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Nodes()
}

func (s *Surface) Edges() []*graph.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Edges()
}

func (s *Surface) Collection() *graph.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll
}

func (s *Surface) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err is why loading failed, if it did.
func (s *Surface) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Style returns el's resolved style properties.
func (s *Surface) Style(el graph.Element) map[string]string {
	return s.style.Resolve(el)
}

// Close stops the event dispatcher. Pending events are dropped. It's safe to call more
// than once.
func (s *Surface) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.disp.stop()
}
