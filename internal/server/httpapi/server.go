// Package httpapi exposes the server's HTTP surface: account endpoints,
// the verification redemption endpoint, and the protected task API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmkoval/metools/internal/logging"
	"github.com/dmkoval/metools/internal/server/config"
	"github.com/dmkoval/metools/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address      string
	users        *services.UserService
	tasks        *services.TaskService
	verification *services.VerificationService
	logger       logging.Logger
	jwtSecret    []byte
	sessionTTL   time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ts *services.TaskService, vs *services.VerificationService) *Server {
	return &Server{
		address:      cfg.EndpointAddrHTTP,
		users:        us,
		tasks:        ts,
		verification: vs,
		logger:       l.With("module", "http_server"),
		jwtSecret:    []byte(cfg.SecretKey),
		sessionTTL:   cfg.SessionTokenValidityDuration,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
