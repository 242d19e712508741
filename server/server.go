// Package server exposes the collected corpus and synthesis results over a
// read-only JSON API. All writes happen through the CLI commands, the server
// only serves what previous runs have stored.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/devscope/pkg/domain"
)

//go:generate moq -out mocks/digest_store.go -pkg mocks -skip-ensure -fmt goimports . DigestStore
//go:generate moq -out mocks/opportunity_store.go -pkg mocks -skip-ensure -fmt goimports . OpportunityStore
//go:generate moq -out mocks/item_store.go -pkg mocks -skip-ensure -fmt goimports . ItemStore

// Server represents HTTP server instance
type Server struct {
	digests       DigestStore
	opportunities OpportunityStore
	items         ItemStore
	listen        string
	timeout       time.Duration
	version       string
	debug         bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// DigestStore provides read access to saved digests
type DigestStore interface {
	GetDigest(ctx context.Context, id int64) (*domain.Digest, error)
	ListDigests(ctx context.Context, dtype domain.DigestType, limit int) ([]domain.Digest, error)
}

// OpportunityStore provides read access to opportunity runs and history
type OpportunityStore interface {
	GetOpportunities(ctx context.Context, filter domain.OpportunityFilter) ([]domain.Opportunity, int, error)
	GetByID(ctx context.Context, id string) (*domain.Opportunity, error)
	GetRun(ctx context.Context, id int64) (*domain.Run, error)
	GetTrends(ctx context.Context, minRuns int) ([]domain.Trend, error)
}

// ItemStore provides corpus statistics
type ItemStore interface {
	Stats(ctx context.Context) (*domain.Stats, error)
}

// Opts holds server construction parameters
type Opts struct {
	Listen  string
	Timeout time.Duration
	Version string
	Debug   bool
}

// New initializes a new server instance
func New(opts Opts, digests DigestStore, opportunities OpportunityStore, items ItemStore) *Server {
	s := &Server{
		digests:       digests,
		opportunities: opportunities,
		items:         items,
		listen:        opts.Listen,
		timeout:       opts.Timeout,
		version:       opts.Version,
		debug:         opts.Debug,
		router:        routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] starting server on %s", s.listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         s.listen,
		Handler:      s.router,
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("devscope", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /status", s.statusHandler)

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /digests", s.listDigestsHandler)
		r.HandleFunc("GET /digests/{id}", s.getDigestHandler)
		r.HandleFunc("GET /opportunities", s.listOpportunitiesHandler)
		r.HandleFunc("GET /opportunities/{id}", s.getOpportunityHandler)
		r.HandleFunc("GET /runs/{id}", s.getRunHandler)
		r.HandleFunc("GET /trends", s.trendsHandler)
		r.HandleFunc("GET /stats", s.statsHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
