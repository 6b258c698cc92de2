package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/mount"
	"github.com/vango-dev/retree/pkg/render"
	"github.com/vango-dev/retree/pkg/snapshot"
	"github.com/vango-dev/retree/pkg/tree"
)

// Config configures the inspector.
type Config struct {
	// Root is the inspected tree. Required.
	Root *mount.Root

	// Renderer renders GET /html. Default: NewRenderer(RendererConfig{Pretty: true}).
	Renderer *render.Renderer

	// Gatherer serves GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	// Exporter serves POST /export. Nil disables the route.
	Exporter *snapshot.Exporter

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// CheckOrigin validates websocket origins. Nil accepts same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout bounds each websocket write (default: 10s).
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown in ListenAndServe (default: 5s).
	ShutdownTimeout time.Duration
}

// Server is an HTTP inspector for a mounted tree:
//
//	GET  /healthz     liveness and mount state
//	GET  /tree        declared snapshot, ?realized=1 for realized children
//	POST /update      run an update cycle, returns its stats
//	POST /export      export the realized snapshot, returns the key
//	GET  /html        the tree rendered as an HTML page
//	GET  /metrics     Prometheus metrics
//	GET  /ws          realized snapshot after every cycle
type Server struct {
	config   Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	mu      sync.Mutex
	clients map[string]*client
	closed  bool
	wg      sync.WaitGroup

	unsubscribe func()
}

// New creates an inspector and subscribes it to cfg.Root.
func New(cfg Config) *Server {
	if cfg.Renderer == nil {
		cfg.Renderer = render.NewRenderer(render.RendererConfig{Pretty: true})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		config:  cfg,
		logger:  cfg.Logger.With("component", "inspect"),
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
	s.router = s.routes()
	s.unsubscribe = cfg.Root.Subscribe(s.broadcast)
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Post("/update", s.handleUpdate)
	r.Get("/html", s.handleHTML)
	r.Get("/ws", s.handleWebSocket)
	if s.config.Exporter != nil {
		r.Post("/export", s.handleExport)
	}
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and closes every websocket client.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close unsubscribes from the root, disconnects every websocket client and
// waits for their goroutines to exit.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	clients := s.clients
	s.clients = make(map[string]*client)
	s.mu.Unlock()

	s.unsubscribe()
	for _, c := range clients {
		c.close()
	}
	s.wg.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"mounted": s.config.Root.Mounted(),
		"clients": s.clientCount(),
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	snap, err := s.config.Root.Snapshot(realized(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	stats, err := s.config.Root.Update(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.config.Root.Snapshot(r.URL.Query().Get("realized") != "0")
	if err != nil {
		s.writeError(w, err)
		return
	}
	key, err := s.config.Exporter.ExportSnapshot(r.Context(), snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("snapshot exported", "key", key)
	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	if !s.config.Root.Mounted() {
		s.writeError(w, errors.New("E062"))
		return
	}
	var buf bytes.Buffer
	err := s.config.Root.View(func(n *tree.Node) error {
		return s.config.Renderer.RenderPage(&buf, render.PageData{Body: n, Title: n.String()})
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func realized(r *http.Request) bool {
	switch r.URL.Query().Get("realized") {
	case "1", "true":
		return true
	}
	return false
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes err as a JSON error body with a status derived from
// its code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var e *errors.Error
	if !stderrors.As(err, &e) {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		e = errors.FromError(err, "E063")
	}
	switch e.Code {
	case "E062":
		status = http.StatusConflict
	case "E060":
		status = http.StatusBadGateway
	}
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(e.FormatJSON()))
}
