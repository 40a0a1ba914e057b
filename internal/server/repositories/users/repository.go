// Package users declares the server-side repository contract for account
// rows in persistent storage.
package users

import (
	"context"

	"github.com/dmkoval/metools/internal/server/models"
)

// Repository defines the single-key operations on user rows. Atomicity
// across several calls is the caller's job (see dbx.WithTx).
type Repository interface {
	// Create inserts a new unverified user and returns it with its generated
	// id and timestamps filled in. Uniqueness violations surface as a wrapped
	// db error.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername looks a user up by username. Returns common.ErrorNotFound
	// when absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID looks a user up by id. Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// MarkVerified flips is_verified for the given user. Returns
	// common.ErrorNotFound when no row matches.
	MarkVerified(ctx context.Context, id string) error
}
