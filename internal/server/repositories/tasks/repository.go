// Package tasks declares the server-side repository contract for user-owned
// task rows.
package tasks

import (
	"context"

	"github.com/dmkoval/metools/internal/server/models"
)

// Repository defines plain keyed operations on task rows; tasks carry no
// cross-row invariants.
type Repository interface {
	// Create inserts a new task and returns it with its generated id and
	// creation timestamp filled in.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// ListByUser returns all tasks owned by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Task, error)

	// Delete removes the task with the given id if it is owned by userID.
	// Returns common.ErrorNotFound when no row matches.
	Delete(ctx context.Context, id string, userID string) error
}
