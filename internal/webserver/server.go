package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/psidex/ptviz/internal/graphs"
	"github.com/psidex/ptviz/internal/graphs/graphologyws"
	"github.com/psidex/ptviz/internal/graphs/vis"
	"github.com/psidex/ptviz/internal/lib"
	"github.com/psidex/ptviz/internal/surface"
)

const (
	wsPath          = "/ws"
	shutdownTimeout = 5 * time.Second
)

// Server serves a surface: the vis.js page, its elements and a websocket that
// streams the graph to the page and carries clicks back.
type Server struct {
	cfg      Config
	surface  *surface.Surface
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	page     vis.Vis

	mu       sync.Mutex
	sessions map[string]lib.ThreadSafeWebSocket
}

func New(cfg Config, s *surface.Surface, logger *slog.Logger) *Server {
	srv := &Server{
		cfg:      cfg,
		surface:  s,
		logger:   lib.LoggerOrDefault(logger),
		page:     pageRenderer(cfg),
		sessions: make(map[string]lib.ThreadSafeWebSocket),
	}
	srv.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	srv.router = srv.buildRouter()
	return srv
}

// HostPage is the page served at /, before any data is streamed into it.
func HostPage(cfg Config, container string) []byte {
	return pageRenderer(cfg).HostPage(container)
}

func pageRenderer(cfg Config) vis.Vis {
	return vis.Vis{Title: cfg.Title, WebSocket: wsPath}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/elements", s.handleElements)
	r.Get("/health", s.handleHealth)
	r.Get(wsPath, s.handleWebSocket)

	if s.cfg.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}
	return r
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Render(w, s.surface.View()); err != nil {
		s.logger.Error("rendering page", "error", err)
	}
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := (graphs.Cytoscape{}).Render(w, s.surface.View()); err != nil {
		s.logger.Error("rendering elements", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	v := s.surface.View()
	h := health{
		Status: "ok",
		State:  v.State,
		Error:  v.Error,
		Nodes:  len(v.Nodes),
		Edges:  len(v.Edges),
	}
	status := http.StatusOK
	if v.Failed() {
		h.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(h)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	ws := lib.NewThreadSafeWebSocket(c)
	id := uuid.NewString()
	s.addSession(id, ws)
	defer s.removeSession(id)

	logger := s.logger.With("session", id)
	logger.Debug("ws session started", "remote", r.RemoteAddr)

	if err := graphologyws.Stream(ws, s.surface.View()); err != nil {
		logger.Warn("streaming view", "error", err)
		return
	}

	for {
		var msg graphologyws.ClientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			// The page closing the socket ends the session.
			logger.Debug("ws session ended", "reason", err)
			return
		}
		switch msg.Type {
		case graphologyws.TypeClick:
			s.click(r.Context(), logger, msg.ID)
		default:
			logger.Debug("ignoring ws message", "type", msg.Type)
		}
	}
}

func (s *Server) click(ctx context.Context, logger *slog.Logger, id string) {
	err := s.surface.Click(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, surface.ErrNoSuchNode):
		logger.Warn("click on unknown node", "id", id)
	default:
		logger.Error("click failed", "id", id, "error", err)
	}
}

func (s *Server) addSession(id string, ws lib.ThreadSafeWebSocket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = ws
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	ws, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		ws.Close()
	}
}

// closeSessions closes every open websocket, http.Server.Shutdown doesn't track
// hijacked connections.
func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ws := range s.sessions {
		ws.Close()
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	httpServer.RegisterOnShutdown(s.closeSessions)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
