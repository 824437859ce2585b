// Package httpapi exposes the authentication and directory endpoints over
// HTTP. Routing is chi; the session guard and role middleware live here.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hopitalsej/sejour/internal/common"
	"github.com/hopitalsej/sejour/internal/logging"
	"github.com/hopitalsej/sejour/internal/server/accounts"
	"github.com/hopitalsej/sejour/internal/server/config"
	"github.com/hopitalsej/sejour/internal/server/patients"
)

// Server is the HTTP front of the sejour service.
type Server struct {
	logger         logging.Logger
	accountService *accounts.Service
	patientRepo    patients.Repository
	secretKey      []byte
	metrics        *Metrics
	httpServer     *http.Server
}

// NewServer wires the handlers, middleware and metrics into an http.Server
// with the configured timeouts.
func NewServer(cfg *config.Config, logger logging.Logger, accountService *accounts.Service, patientRepo patients.Repository) *Server {
	s := &Server{
		logger:         logger.With("component", "httpapi"),
		accountService: accountService,
		patientRepo:    patientRepo,
		secretKey:      []byte(cfg.SecretKey),
		metrics:        NewMetrics(),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.EndpointAddr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Post("/login", s.handleLogin)
	r.Get("/ping", s.handlePing)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	// Everything below requires a valid session token.
	r.Group(func(r chi.Router) {
		r.Use(s.sessionGuard)

		r.Get("/profile", s.handleProfile)
		r.Get("/patients", s.handlePatients)

		// Role-gated on the server as well, not only in the client menu.
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(common.RoleAdmin))
			r.Get("/users", s.handleUsers)
		})
	})

	return r
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.httpServer.WriteTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
