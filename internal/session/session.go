package session

import (
	"context"
	"errors"
	"time"
)

// TTL is the session lifetime. It bounds both the Redis entry and the
// durable expires_at column; only the Redis side is ever renewed.
const TTL = 24 * time.Hour

// ErrInvalid covers absent, expired and malformed tokens alike. Callers
// never learn which.
var ErrInvalid = errors.New("invalid session")

// Session is one issued login session. ExpiresAt is fixed at creation
// and is never extended.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is the durable side of the session lifecycle. It is the system
// of record: Redis may lose any entry at any time, this must not.
type Store interface {
	Insert(ctx context.Context, s Session) error
	// FindActive returns the owning user of token if the session exists
	// and expires_at is strictly in the future.
	FindActive(ctx context.Context, token string, now time.Time) (userID int64, ok bool, err error)
	Delete(ctx context.Context, token string) error
}
