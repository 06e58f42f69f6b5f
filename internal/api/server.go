// Package api serves the companion stores over a local REST and
// websocket API.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ramonehamilton/riftbound-companion/internal/api/handlers"
	"github.com/ramonehamilton/riftbound-companion/internal/api/websocket"
	"github.com/ramonehamilton/riftbound-companion/internal/metrics"
	"github.com/ramonehamilton/riftbound-companion/internal/packs"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/catalog"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	origins    []string

	// WebSocket hub for real-time events
	wsHub *websocket.Hub

	deps Deps
}

// Config holds configuration for the API server.
type Config struct {
	Port int
	// AllowedOrigins are CORS and websocket origin patterns.
	AllowedOrigins []string
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
	}
}

// Deps are the services the routes expose.
type Deps struct {
	Stores  *store.Registry
	Catalog *catalog.Holder
	Packs   *packs.Engine
	// Fetcher refreshes the catalog; nil disables refresh.
	Fetcher   handlers.CardFetcher
	CachePath string
	Locale    string
	// Metrics is served at /api/v1/metrics; created when nil.
	Metrics *metrics.Metrics
}

// NewServer creates a new API server.
func NewServer(cfg *Config, deps Deps) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.NewHolder(nil)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	s := &Server{
		router:  chi.NewRouter(),
		port:    cfg.Port,
		origins: cfg.AllowedOrigins,
		wsHub:   websocket.NewHub(cfg.AllowedOrigins...),
		deps:    deps,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	// Request ID for tracing
	s.router.Use(middleware.RequestID)

	// Real IP detection
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(middleware.Logger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	s.router.Use(s.deps.Metrics.Middleware)

	// Request timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for POST/PUT/PATCH only (not GET/DELETE/OPTIONS)
	s.router.Use(jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the WebSocket hub and the HTTP server in goroutines.
func (s *Server) Start() error {
	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("API server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// Shutdown stops the WebSocket hub and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub for external integration.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// NewWebSocketObserver creates an observer that forwards dispatched store
// events to WebSocket clients.
func (s *Server) NewWebSocketObserver() *websocket.Observer {
	return websocket.NewObserver(s.wsHub)
}
