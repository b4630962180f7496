package server

import (
	"context"
	"net/http"
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/auth"
	"github.com/nomadcabs/nomad-cabs-be/internal/config"
	"github.com/nomadcabs/nomad-cabs-be/internal/events"
	"github.com/nomadcabs/nomad-cabs-be/internal/http/handlers"
	"github.com/nomadcabs/nomad-cabs-be/internal/middleware"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
	"github.com/nomadcabs/nomad-cabs-be/internal/ws"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, pub events.Publisher) *Server {
	mux := http.NewServeMux()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authmw := middleware.NewAuthenticator(tokens, store)
	hub := ws.NewHub()

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokens, authmw).Register(mux)
	handlers.NewBookingsHandler(store, authmw, hub, pub).Register(mux)
	handlers.NewDriversHandler(store, authmw).Register(mux)
	handlers.NewAdminHandler(store, authmw).Register(mux)
	handlers.NewWSHandler(authmw, hub).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
