package models

import "time"

// Task is a user-owned task. Data is free-form key/value payload stored as
// JSONB.
type Task struct {
	ID        string
	UserID    string
	Type      string
	Data      map[string]string
	CreatedAt time.Time
}
