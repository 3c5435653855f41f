package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	TemplatesFS fs.FS
	StaticFS    fs.FS
}

// Server is the HTTP server for the web application.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	log      *zap.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig, deps Dependencies) (*Server, error) {
	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{
		router:   chi.NewRouter(),
		handlers: NewHandlers(deps, templates),
		log:      deps.Logger.Named("http"),
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM replies can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	h := s.handlers

	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Pages
	s.router.Get("/", h.Home)
	s.router.Get("/dashboard", h.Dashboard)
	s.router.Get("/partials/mood", h.MoodPartial)
	s.router.Get("/health", h.Health)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", h.Login)
			r.Get("/callback", h.Callback)
			r.Get("/status", h.Status)
			r.Post("/logout", h.Logout)
		})

		r.Route("/spotify", func(r chi.Router) {
			r.Get("/profile", h.Profile)
			r.Get("/top-tracks", h.TopTracks)
			r.Get("/top-artists", h.TopArtists)
			r.Get("/recent", h.Recent)
			r.Get("/audio-features", h.AudioFeatures)
			r.Post("/create-playlist", h.CreatePlaylist)
		})

		r.Route("/mood", func(r chi.Router) {
			r.Post("/analyze", h.Analyze)
			r.Get("/current", h.Current)
			r.Post("/mix", h.Mix)
			r.Get("/genres", h.Genres)
			r.Get("/trends", h.Trends)
			r.Delete("/trends", h.ClearTrends)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/message", h.ChatMessage)
			r.Post("/playlist-recommendation", h.PlaylistRecommendation)
		})
	})
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves in the background. Listen
// errors are returned immediately.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}

	s.log.Info("starting server", zap.String("url", "http://"+ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server stopped unexpectedly", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")
	return s.server.Shutdown(ctx)
}
