package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmkoval/metools/internal/common"
	"github.com/dmkoval/metools/internal/server/models"
	"github.com/dmkoval/metools/internal/server/repositories/repomanager"
)

// TaskService provides per-user task operations. Tasks are plain keyed rows;
// every operation is scoped to the owning user resolved by the request gate.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// ListForUser returns all tasks owned by userID.
func (s *TaskService) ListForUser(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return tasks, nil
}

// Create stores a new task for userID.
func (s *TaskService) Create(ctx context.Context, userID, taskType string, data map[string]string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		UserID: userID,
		Type:   taskType,
		Data:   data,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// Delete removes the task with the given id if userID owns it. Returns
// common.ErrorNotFound otherwise.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Tasks(s.db).Delete(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}
