package session

import (
	"context"
	"database/sql"
	"time"

	"task-service/internal/db"
)

// PostgresStore keeps session rows in the sessions table.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Insert(ctx context.Context, s Session) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, s.Token, s.UserID, s.CreatedAt, s.ExpiresAt)
	return err
}

func (p *PostgresStore) FindActive(ctx context.Context, token string, now time.Time) (int64, bool, error) {
	var userID int64
	err := p.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM sessions
		WHERE id = $1
		  AND expires_at > $2
	`, token, now).Scan(&userID)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}

func (p *PostgresStore) Delete(ctx context.Context, token string) error {
	_, err := p.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE id = $1
	`, token)
	return err
}
