// Package verifytokens declares the server-side repository contract for
// email-verification tokens in persistent storage.
package verifytokens

import (
	"context"
	"time"

	"github.com/dmkoval/metools/internal/server/models"
)

// Repository defines operations for issuing, resolving, and purging verify
// tokens. "Live" means valid_until > now; an existing-but-expired row is
// treated identically to an absent one.
type Repository interface {
	// Create stores a new verify token for userID expiring at validUntil.
	Create(ctx context.Context, userID string, token string, validUntil time.Time) (*models.VerifyToken, error)

	// GetLive looks up a token by value, returning common.ErrorNotFound when
	// it is absent or its expiry has passed.
	GetLive(ctx context.Context, token string, now time.Time) (*models.VerifyToken, error)

	// Delete removes a token row by id. Returns common.ErrorNotFound when no
	// row matches.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every token with valid_until <= now and reports
	// how many rows were removed. Zero matches is not an error.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
