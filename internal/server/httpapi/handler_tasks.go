package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmkoval/metools/internal/common"
	"github.com/dmkoval/metools/internal/server/models"
)

type taskPayload struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

func toTaskPayload(t *models.Task) taskPayload {
	return taskPayload{ID: t.ID, Type: t.Type, Data: t.Data, CreatedAt: t.CreatedAt}
}

type createTaskRequest struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request, userID string) {
	tasks, err := s.tasks.ListForUser(r.Context(), userID)
	if err != nil {
		s.logger.Error(r.Context(), "listing tasks failed", "user_id", userID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
		return
	}

	payload := make([]taskPayload, 0, len(tasks))
	for i := range tasks {
		payload = append(payload, toTaskPayload(&tasks[i]))
	}
	writeData(w, payload)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, statusInvalidData, "Invalid input data")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, statusInvalidData, "Invalid input data")
		return
	}

	task, err := s.tasks.Create(r.Context(), userID, req.Type, req.Data)
	if err != nil {
		s.logger.Error(r.Context(), "creating task failed", "user_id", userID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
		return
	}
	writeData(w, toTaskPayload(task))
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request, userID string) {
	id := r.PathValue("id")

	if err := s.tasks.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, statusUnknownError, "Task not found")
			return
		}
		s.logger.Error(r.Context(), "deleting task failed", "user_id", userID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
		return
	}
	writeJSON(w, http.StatusOK, response{Status: statusSuccess})
}
