// Package control implements the HTTP/JSON introspection and event-injection
// surface for a running simulation: list the component tree, read a
// blackboard key, or inject a send_down event onto a named port.
//
// The transport (golang.org/x/net/http2/h2c, golang.org/x/sync/errgroup)
// matches a ConnectRPC-style server's listen/shutdown coordination, but
// the RPC layer itself is plain net/http + encoding/json rather than
// generated protobuf stubs.
package control

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
)

// Sentinel errors returned by the HTTP handlers, mapped to status codes.
var (
	ErrComponentNotFound = errors.New("component not found")
	ErrKeyNotFound       = errors.New("key not found")
	ErrInvalidPayloadHex = errors.New("payload_hex is not valid hex")
)

// Server exposes a scheduler's component tree, blackboard, and event
// injection over HTTP/JSON.
type Server struct {
	sched   *kernel.Scheduler
	logger  *slog.Logger
	httpSrv *http.Server
}

// New creates a Server bound to addr. It does not start listening until
// Run is called.
func New(sched *kernel.Scheduler, addr string, logger *slog.Logger) *Server {
	s := &Server{
		sched:  sched,
		logger: logger.With(slog.String("component", "control")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /components", s.handleListComponents)
	mux.HandleFunc("GET /state/{id}/{key}", s.handleGetState)
	mux.HandleFunc("POST /events", s.handlePostEvent)

	h2s := &http2.Server{}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(mux, h2s),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler returns the server's h2c-wrapped HTTP handler, for tests that
// want to drive it through httptest.NewServer without binding a real port.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run starts the HTTP listener and blocks until ctx is cancelled, then
// gracefully shuts the server down, the same errgroup-coordinated
// listen/shutdown pattern cmd/snet/main.go uses for its own servers.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("control server listening", slog.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("control server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("control server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// -------------------------------------------------------------------------
// GET /components
// -------------------------------------------------------------------------

// componentView is the JSON shape for one node in the component tree.
// Children is populated from the parent/child relationships the scheduler
// tracks, not stored on kernel.Component itself.
type componentView struct {
	ID       int64   `json:"id"`
	ParentID int64   `json:"parent_id"`
	Name     string  `json:"name"`
	Children []int64 `json:"children"`
}

func (s *Server) handleListComponents(w http.ResponseWriter, _ *http.Request) {
	comps := s.sched.Components()

	childIDs := make(map[int64][]int64, len(comps))
	for _, c := range comps {
		childIDs[int64(c.ParentID)] = append(childIDs[int64(c.ParentID)], int64(c.ID))
	}

	views := make([]componentView, 0, len(comps))
	for _, c := range comps {
		views = append(views, componentView{
			ID:       int64(c.ID),
			ParentID: int64(c.ParentID),
			Name:     c.Name,
			Children: childIDs[int64(c.ID)],
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// -------------------------------------------------------------------------
// GET /state/{id}/{key}
// -------------------------------------------------------------------------

type stateView struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	id, err := parseComponentID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key := r.PathValue("key")

	if _, ok := s.sched.Component(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("component %d: %w", id, ErrComponentNotFound))
		return
	}

	value, ok := s.sched.Board().Get(id, key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("key %q: %w", key, ErrKeyNotFound))
		return
	}

	writeJSON(w, http.StatusOK, stateView{
		Value: value,
		Type:  fmt.Sprintf("%T", value),
	})
}

// -------------------------------------------------------------------------
// POST /events
// -------------------------------------------------------------------------

// injectRequest is the JSON body accepted by POST /events: a send_down
// event delivered to the named component on the named port, carrying a
// hex-encoded raw payload wrapped as a packet.Packet.
type injectRequest struct {
	ComponentID int64  `json:"component_id"`
	Port        string `json:"port"`
	PayloadHex  string `json:"payload_hex"`
}

func (s *Server) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	var req injectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	id := kernel.ComponentID(req.ComponentID)
	target, ok := s.sched.Component(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("component %d: %w", id, ErrComponentNotFound))
		return
	}

	raw, err := hex.DecodeString(req.PayloadHex)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidPayloadHex, err))
		return
	}

	p := packet.New("injected", packet.FormatID(req.ComponentID, 0))
	p.PushBytes(raw)

	s.sched.Inject(target, kernel.EventSendDown, req.Port, p, 0)

	s.logger.Info("event injected",
		slog.Int64("component_id", req.ComponentID),
		slog.String("port", req.Port),
		slog.Int("bytes", len(raw)),
	)

	w.WriteHeader(http.StatusAccepted)
}

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

func parseComponentID(s string) (kernel.ComponentID, error) {
	var n int64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("parse component id %q: %w", s, err)
	}
	return kernel.ComponentID(n), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorView struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorView{Error: err.Error()})
}
