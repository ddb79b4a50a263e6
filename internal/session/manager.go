package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"task-service/internal/logger"
	"task-service/internal/redis"
)

const keyPrefix = "session:"

// Manager owns the session lifecycle across both stores. Redis is the
// hot lookup path, Postgres the durability backstop; the manager is the
// only place that knows how the two are kept consistent.
type Manager struct {
	cache *redis.Client
	store Store
}

func NewManager(cache *redis.Client, store Store) *Manager {
	return &Manager{
		cache: cache,
		store: store,
	}
}

func key(token string) string {
	return keyPrefix + token
}

// Create issues a fresh session for userID. The token is written to
// Redis with the full TTL and recorded durably with a fixed absolute
// expiry. Both writes must succeed; on a durable failure the Redis
// entry is left to age out on its own.
func (m *Manager) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	now := time.Now()

	err := m.cache.Set(
		ctx,
		key(token),
		strconv.FormatInt(userID, 10),
		TTL,
	).Err()
	if err != nil {
		return "", fmt.Errorf("session: cache write: %w", err)
	}

	err = m.store.Insert(ctx, Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	})
	if err != nil {
		return "", fmt.Errorf("session: store write: %w", err)
	}

	return token, nil
}

// Validate resolves token to its owning user.
//
// A Redis hit slides the Redis TTL back to the full window and never
// touches Postgres. A Redis miss (or a Redis failure, which is treated
// as a miss) falls back to Postgres; a row still inside its validity
// window rehydrates Redis with a fresh TTL. The durable expires_at is
// never extended, so a session hard-expires at creation + TTL no
// matter how actively it is used.
func (m *Manager) Validate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalid
	}

	val, err := m.cache.Get(ctx, key(token)).Result()
	if err == nil {
		userID, parseErr := strconv.ParseInt(val, 10, 64)
		if parseErr == nil {
			if err := m.cache.Expire(ctx, key(token), TTL).Err(); err != nil {
				logger.Warn("session: ttl refresh failed", map[string]any{
					"error": err.Error(),
				})
			}
			return userID, nil
		}
		// Unparseable entry: drop it and treat as a miss.
		logger.Warn("session: malformed cache entry", map[string]any{
			"value": val,
		})
		_ = m.cache.Del(ctx, key(token)).Err()
	} else if !redis.IsMiss(err) {
		logger.Warn("session: cache read failed", map[string]any{
			"error": err.Error(),
		})
	}

	userID, ok, err := m.store.FindActive(ctx, token, time.Now())
	if err != nil {
		// The source of truth is unreachable; fail closed.
		return 0, fmt.Errorf("session: store read: %w", err)
	}
	if !ok {
		return 0, ErrInvalid
	}

	if err := m.cache.Set(
		ctx,
		key(token),
		strconv.FormatInt(userID, 10),
		TTL,
	).Err(); err != nil {
		logger.Warn("session: rehydrate failed", map[string]any{
			"error": err.Error(),
		})
	}

	return userID, nil
}

// Revoke removes token from both stores, best-effort. It fails only
// when neither store accepted the delete.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	cacheErr := m.cache.Del(ctx, key(token)).Err()
	if cacheErr != nil {
		logger.Warn("session: cache delete failed", map[string]any{
			"error": cacheErr.Error(),
		})
	}

	storeErr := m.store.Delete(ctx, token)

	if cacheErr != nil && storeErr != nil {
		return fmt.Errorf("session: revoke failed: %w", storeErr)
	}
	return nil
}
