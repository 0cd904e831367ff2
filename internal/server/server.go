// Package server provides the HTTP server and routing for the dashboard.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/dashboard"
	dashboardhandlers "github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/dashboard/handlers"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/pkg/embedded"
)

// Config holds server configuration
type Config struct {
	Log            zerolog.Logger
	Port           int
	DevMode        bool
	AllowedOrigins []string
	Dashboard      *dashboard.Service
}

// Server represents the HTTP server
type Server struct {
	router           *chi.Mux
	server           *http.Server
	log              zerolog.Logger
	port             int
	devMode          bool
	dashboardHandler *dashboardhandlers.Handler
	systemHandlers   *SystemHandlers

	// baseCtx parents every request context; cancelling it ends WebSocket
	// sessions, which http.Server.Shutdown does not track
	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".mjs", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	s := &Server{
		router:           chi.NewRouter(),
		log:              cfg.Log.With().Str("component", "server").Logger(),
		port:             cfg.Port,
		devMode:          cfg.DevMode,
		dashboardHandler: dashboardhandlers.NewHandler(cfg.Dashboard, cfg.DevMode, cfg.AllowedOrigins, cfg.Log),
		systemHandlers:   NewSystemHandlers(cfg.Log),
	}

	s.baseCtx, s.cancelBase = context.WithCancel(context.Background())

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		BaseContext:  func(net.Listener) context.Context { return s.baseCtx },
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware shared by every route
func (s *Server) setupMiddleware() {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// requestMiddleware applies to short-lived requests only. The WebSocket route
// stays outside it so sessions are neither timed out nor compressed.
func (s *Server) requestMiddleware(r chi.Router) {
	// Timeout
	r.Use(middleware.Timeout(60 * time.Second))

	// Compress responses
	if !s.devMode {
		r.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check (before page routing)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Long-lived dashboard sessions
		s.dashboardHandler.RegisterStreamRoutes(r)

		r.Group(func(r chi.Router) {
			s.requestMiddleware(r)

			s.dashboardHandler.RegisterRoutes(r)

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.systemHandlers.HandleSystemStatus)
			})
		})
	})

	s.setupFrontend()
}

// setupFrontend serves the embedded dashboard page for / and every
// non-API path
func (s *Server) setupFrontend() {
	s.router.Group(func(r chi.Router) {
		s.requestMiddleware(r)
		r.Get("/", s.handleDashboard)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/health") {
			http.NotFound(w, r)
			return
		}
		s.handleDashboard(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server, then ends open dashboard sessions
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	err := s.server.Shutdown(ctx)
	s.cancelBase()
	return err
}

// handleDashboard serves the dashboard HTML from the embedded filesystem
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	// The embed path is frontend/dist relative to the embedded package
	frontendFS, err := fs.Sub(embedded.Files, "frontend/dist")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create frontend filesystem from embedded files")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	indexFile, err := frontendFS.Open("index.html")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to open embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}
	defer indexFile.Close()

	data, err := io.ReadAll(indexFile)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to write index.html response")
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
