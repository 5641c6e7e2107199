// Package server provides the HTTP search API for talent-search.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"math"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jonathan/talent-search/internal/config"
	"github.com/jonathan/talent-search/internal/search"
	"github.com/jonathan/talent-search/internal/server/middleware"
	"github.com/jonathan/talent-search/internal/server/ratelimit"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	search      *search.Service
	store       Pinger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
}

// Config holds server configuration
type Config struct {
	Port int
	// JWT enables bearer authentication on /search routes when non-nil.
	JWT *config.JWTConfig
	// RateLimit defaults to ratelimit.FromEnv(os.Getenv) when nil.
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config, svc *search.Service, store Pinger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("search service is required")
	}

	s := &Server{
		search: svc,
		store:  store,
	}

	rateConfig := cfg.RateLimit
	if rateConfig == nil {
		fromEnv, err := ratelimit.FromEnv(os.Getenv)
		if err != nil {
			return nil, err
		}
		rateConfig = &fromEnv
	}
	s.rateLimiter = ratelimit.New(*rateConfig)

	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /search/jobs", s.handleSearchJobs)
	api.HandleFunc("GET /search/candidates", s.handleSearchCandidates)
	api.HandleFunc("GET /search/unified", s.handleUnifiedSearch)
	api.HandleFunc("GET /search/suggestions/jobs", s.handleSuggestJobs)
	api.HandleFunc("GET /search/suggestions/candidates", s.handleSuggestCandidates)

	// Limits apply after authentication so buckets can be keyed by subject.
	searchHandler := s.withRateLimit(api)
	if s.jwtService != nil {
		searchHandler = middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(searchHandler)
	}

	mux := http.NewServeMux()
	mux.Handle("/search/", searchHandler)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withLogging(s.withCORS(s.withRecovery(mux)))
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-stop:
	}

	log.Println("[server] shutting down")
	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests for up to 15 seconds.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Println("[server] stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRecovery turns a handler panic into a 500 response.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Printf("[server] panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			s.errorResponse(w, http.StatusInternalServerError, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}

// withRateLimit spends one token from the caller's budget for the route.
// Callers are the token subject when authenticated, otherwise the client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := ratelimit.Caller{IP: s.extractClientID(r)}
		if subject, ok := middleware.Subject(r); ok {
			caller.Subject = subject
		}

		d := s.rateLimiter.Allow(caller, r.URL.Path)
		s.setRateLimitHeaders(w, d)
		if !d.Allowed {
			s.rateLimitResponse(w, d)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v (%s)", r.Method, r.URL.Path, rec.status, time.Since(start), r.RemoteAddr)
	})
}

// handleHealth reports server and store health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			log.Printf("[server] health check failed: %v", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders reports the caller's remaining budget.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	if d.Limit > 0 {
		w.Header().Set("X-RateLimit-Policy", d.Policy)
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", d.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", d.Remaining))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, d ratelimit.Decision) {
	retryAfter := int(math.Ceil(d.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))

	log.Printf("[rate-limit] %s budget exhausted, retry in %ds", d.Policy, retryAfter)

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Rate limit exceeded. Please try again later.",
		"policy":      d.Policy,
		"retry_after": retryAfter,
	})
}
