package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmkoval/metools/internal/common"
	"github.com/dmkoval/metools/internal/dbx"
	"github.com/dmkoval/metools/internal/server/config"
	"github.com/dmkoval/metools/internal/server/models"
	"github.com/dmkoval/metools/internal/server/repositories/repomanager"
)

// VerificationService owns the verify-token policy: the validity window,
// token generation, atomic redemption, and expiry purging.
type VerificationService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	validityDuration time.Duration
}

// NewVerificationService constructs a VerificationService using repositories
// and server config.
func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *VerificationService {
	return &VerificationService{
		db:               db,
		repomanager:      m,
		validityDuration: cfg.VerifyTokenValidityDuration,
	}
}

// IssueFor creates a verify token for userID on the provided handle, which
// is expected to be the registration transaction. The token value is a
// random UUIDv4, infeasible to guess or enumerate.
func (s *VerificationService) IssueFor(ctx context.Context, tx dbx.DBTX, userID string) (*models.VerifyToken, error) {
	repo := s.repomanager.VerifyTokens(tx)

	vt, err := repo.Create(ctx, userID, uuid.NewString(), time.Now().Add(s.validityDuration))
	if err != nil {
		return nil, fmt.Errorf("error creating verify token: %w", err)
	}

	return vt, nil
}

// Redeem resolves a live token to its owner, marks the owner verified, and
// deletes the token, all in one transaction. A token that is absent, expired,
// or already consumed yields common.ErrorNotFound; the caller cannot tell
// those cases apart. If any later step fails the token stays live.
func (s *VerificationService) Redeem(ctx context.Context, tokenValue string) (string, error) {
	var userID string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.VerifyTokens(tx)

		vt, err := repo.GetLive(ctx, tokenValue, time.Now())
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error searching verify token: %w", err)
		}

		if err := s.repomanager.Users(tx).MarkVerified(ctx, vt.UserID); err != nil {
			return fmt.Errorf("error marking user verified: %w", err)
		}

		if err := repo.Delete(ctx, vt.ID); err != nil {
			return fmt.Errorf("error deleting verify token: %w", err)
		}

		userID = vt.UserID
		return nil
	})
	if err != nil {
		return "", err
	}

	return userID, nil
}

// DeleteExpired purges every token whose validity window has passed and
// reports the number of rows removed.
func (s *VerificationService) DeleteExpired(ctx context.Context) (int64, error) {
	repo := s.repomanager.VerifyTokens(s.db)

	count, err := repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("error deleting expired verify tokens: %w", err)
	}

	return count, nil
}
