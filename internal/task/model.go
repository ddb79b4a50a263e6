package task

import (
	"errors"
	"time"
)

// ErrNotFound is the normal outcome for operations that target a task
// id with no row behind it. Callers must be able to tell it apart from
// a store failure.
var ErrNotFound = errors.New("task not found")

type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateInput struct {
	UserID      int64
	Title       string
	Description *string
	Status      string
	Priority    int
	DueDate     *time.Time
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *int
	DueDate     *time.Time
}
