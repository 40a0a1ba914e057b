// Package sweeper runs the background purge of expired verification tokens.
package sweeper

import (
	"context"
	"time"

	"github.com/dmkoval/metools/internal/logging"
	"github.com/dmkoval/metools/internal/server/services"
)

type Sweeper struct {
	verification *services.VerificationService
	interval     time.Duration
	logger       logging.Logger
}

func New(v *services.VerificationService, interval time.Duration, l logging.Logger) *Sweeper {
	return &Sweeper{
		verification: v,
		interval:     interval,
		logger:       l.With("module", "sweeper"),
	}
}

// Run purges expired tokens once per interval until ctx is cancelled. A
// failed sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Starting expired token sweeper", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping expired token sweeper...")
			return
		case <-ticker.C:
			count, err := s.verification.DeleteExpired(ctx)
			if err != nil {
				s.logger.Error(ctx, "error sweeping expired tokens", "error", err.Error())
				continue
			}
			if count > 0 {
				s.logger.Info(ctx, "swept expired tokens", "count", count)
			}
		}
	}
}
