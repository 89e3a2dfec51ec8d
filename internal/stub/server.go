package stub

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Server wraps the HTTP server setup around the in-memory store.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server exposing the storefront contract on addr.
func New(addr string, logger *log.Logger, store *Store) *Server {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           buildRouter(logger, store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{httpServer: httpSrv, logger: logger}
}

// Handler exposes the router, mainly for httptest in integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
