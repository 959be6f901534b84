// Package server implements the leaderboard HTTP service: a JSON API over
// the score ledger, a live websocket feed and an HTML scoreboard page.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
	"github.com/vovakirdan/cyberfish/internal/realtime"
)

// Ledger is the persistent best-score store behind the service.
type Ledger interface {
	ListScores(ctx context.Context) ([]leaderboard.ScoreRecord, error)
	UpsertScore(ctx context.Context, r leaderboard.ScoreRecord) (bool, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Stats(ctx context.Context) (leaderboard.Stats, error)
}

// Server serves the leaderboard API.
type Server struct {
	ledger   Ledger
	logger   *log.Logger
	feed     *realtime.Broadcaster[[]leaderboard.ScoreRecord]
	upgrader websocket.Upgrader
	now      func() time.Time

	addr           string
	readTimeout    time.Duration
	writeTimeout   time.Duration
	requestTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithAddress sets the listen address (default ":3000").
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithTimeouts sets the connection read/write timeouts and the per-request
// handler timeout. Zero values keep the defaults.
func WithTimeouts(read, write, request time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
		if request > 0 {
			s.requestTimeout = request
		}
	}
}

// WithClock overrides the clock used to date stored scores.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a server over ledger.
func New(ledger Ledger, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		ledger:         ledger,
		logger:         logger,
		feed:           realtime.NewBroadcaster[[]leaderboard.ScoreRecord](),
		now:            time.Now,
		addr:           ":3000",
		readTimeout:    10 * time.Second,
		writeTimeout:   10 * time.Second,
		requestTimeout: 15 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is public read-only data, served cross-origin like the API.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the service's HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(withCORS)

	// Long-lived connection; kept out of the request timeout.
	r.Get("/api/scores/stream", s.handleStream)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.requestTimeout))

		r.Get("/", s.handlePage)
		r.Get("/api/scores", s.handleList)
		r.Post("/api/scores", s.handleSubmit)
		r.Get("/api/scores/check-name", s.handleCheckName)
		r.Get("/api/scores/stats", s.handleStats)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("leaderboard listening", "addr", s.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	// Hijacked websocket connections are not tracked by Shutdown.
	s.feed.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
