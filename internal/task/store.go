package task

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"task-service/internal/db"
)

// Store is the durable side of the repository. Absent rows come back
// as (nil, nil) / (false, nil), never as errors.
type Store interface {
	FindByID(ctx context.Context, id int64) (*Task, error)
	// FindByUser returns all of a user's tasks, newest-created first.
	FindByUser(ctx context.Context, userID int64) ([]Task, error)
	Insert(ctx context.Context, in CreateInput) (*Task, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const taskColumns = `id, user_id, title, description, status, priority, due_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (p *PostgresStore) FindByID(ctx context.Context, id int64) (*Task, error) {
	return scanTask(p.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id))
}

func (p *PostgresStore) FindByUser(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (p *PostgresStore) Insert(ctx context.Context, in CreateInput) (*Task, error) {
	return scanTask(p.db.QueryRowContext(ctx, `
		INSERT INTO tasks (user_id, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+taskColumns+`
	`,
		in.UserID,
		in.Title,
		in.Description,
		in.Status,
		in.Priority,
		in.DueDate,
	))
}

func (p *PostgresStore) Update(ctx context.Context, id int64, in UpdateInput) (*Task, error) {
	// updated_at is bumped unconditionally, even for an empty update.
	set := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1

	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Status != nil {
		add("status", *in.Status)
	}
	if in.Priority != nil {
		add("priority", *in.Priority)
	}
	if in.DueDate != nil {
		add("due_date", *in.DueDate)
	}

	args = append(args, id)

	return scanTask(p.db.QueryRowContext(ctx,
		fmt.Sprintf(`
			UPDATE tasks
			SET %s
			WHERE id = $%d
			RETURNING %s
		`, strings.Join(set, ", "), n, taskColumns),
		args...,
	))
}

func (p *PostgresStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		DELETE FROM tasks
		WHERE id = $1
	`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
