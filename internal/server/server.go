// Package server exposes the simulator over HTTP: a single-page UI, a
// streaming simulate endpoint, the toy hash, and the run history.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/attack"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/logging"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/ratelimit"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/simulate"
)

// maxBodyBytes bounds request bodies, pasted wordlists included.
const maxBodyBytes = 4 << 20

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Empty means "localhost:0".
	Addr string

	// RatePerMinute and Burst limit simulate requests per client address.
	RatePerMinute float64
	Burst         int

	// WordlistDirs lists directories wordlist_ref paths may point into.
	WordlistDirs []string

	// MaxCeiling caps requested ceilings. Zero means simulate.DefaultMaxCeiling.
	MaxCeiling int

	// Paced runs requests that ask for pacing. The Service runner is used
	// otherwise.
	Paced attack.Runner

	Logger *slog.Logger
}

// Server serves the UI and the JSON API.
type Server struct {
	svc     *simulate.Service
	opts    Options
	limiter *ratelimit.Limiter
	logger  *slog.Logger

	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// New creates a server running simulations through svc.
func New(svc *simulate.Service, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = "localhost:0"
	}
	if opts.MaxCeiling <= 0 {
		opts.MaxCeiling = simulate.DefaultMaxCeiling
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 30
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		svc:     svc,
		opts:    opts,
		limiter: ratelimit.PerMinute(opts.RatePerMinute, opts.Burst),
		logger:  logger,
	}
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Handler returns the routing handler. ListenAndServe uses it; tests may
// mount it on an httptest.Server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("POST /api/hash", s.handleHash)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("DELETE /api/history", s.handleClearHistory)
	return mux
}

// ListenAndServe starts the HTTP server and blocks until the context is
// cancelled. Returns nil on clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", s.addr)

	// Graceful shutdown when context is cancelled. In-flight simulations
	// see the cancelled base context and finish as cancelled runs.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	go s.pruneLimiter(ctx)

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// pruneLimiter forgets idle client buckets so the limiter does not grow
// with every address ever seen.
func (s *Server) pruneLimiter(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Prune(10 * time.Minute); n > 0 {
				s.logger.Debug("pruned idle rate limit buckets", "count", n)
			}
		}
	}
}
