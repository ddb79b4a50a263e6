package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-service/internal/redis"
	"task-service/internal/session"
)

// memStore is an in-memory stand-in for the Postgres session store.
type memStore struct {
	mu        sync.Mutex
	sessions  map[string]session.Session
	insertErr error
	findErr   error
	deleteErr error
	findCalls int
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]session.Session{}}
}

func (m *memStore) Insert(_ context.Context, s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *memStore) FindActive(_ context.Context, token string, now time.Time) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return 0, false, m.findErr
	}
	s, ok := m.sessions[token]
	if !ok || !s.ExpiresAt.After(now) {
		return 0, false, nil
	}
	return s.UserID, true, nil
}

func (m *memStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.sessions, token)
	return nil
}

func (m *memStore) get(token string) (session.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	return s, ok
}

func newTestManager(t *testing.T) (*session.Manager, *miniredis.Miniredis, *memStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	store := newMemStore()
	return session.NewManager(client, store), mr, store
}

func TestManager_CreateAndValidate(t *testing.T) {
	mgr, mr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Written to both stores.
	assert.True(t, mr.Exists("session:"+token))
	s, ok := store.get(token)
	require.True(t, ok)
	assert.Equal(t, int64(42), s.UserID)
	assert.WithinDuration(t, s.CreatedAt.Add(session.TTL), s.ExpiresAt, time.Second)

	userID, err := mgr.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	// The hot path never consults the durable store.
	assert.Equal(t, 0, store.findCalls)
}

func TestManager_ValidateUnknownToken(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Validate(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, session.ErrInvalid)

	_, err = mgr.Validate(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrInvalid)
}

func TestManager_ValidateFallbackAndRehydrate(t *testing.T) {
	mgr, mr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, 7)
	require.NoError(t, err)

	// Simulate out-of-band eviction of the Redis entry.
	mr.Del("session:" + token)

	userID, err := mgr.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, 1, store.findCalls)

	// The entry was rehydrated with a fresh TTL.
	require.True(t, mr.Exists("session:"+token))
	assert.InDelta(t, session.TTL.Seconds(), mr.TTL("session:"+token).Seconds(), 5)

	// Next lookup is a cache hit again.
	_, err = mgr.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1, store.findCalls)
}

func TestManager_SlidingRenewalIsCacheOnly(t *testing.T) {
	mgr, mr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, 1)
	require.NoError(t, err)

	before, _ := store.get(token)

	// Age the cache entry, then validate: the TTL slides back to the
	// full window.
	mr.SetTTL("session:"+token, time.Hour)
	_, err = mgr.Validate(ctx, token)
	require.NoError(t, err)
	assert.InDelta(t, session.TTL.Seconds(), mr.TTL("session:"+token).Seconds(), 5)

	// The durable expiry never moves.
	after, _ := store.get(token)
	assert.Equal(t, before.ExpiresAt, after.ExpiresAt)
}

func TestManager_DurableExpiryBoundsSession(t *testing.T) {
	mgr, _, store := newTestManager(t)
	ctx := context.Background()

	// A session whose durable window has passed, with no cache entry
	// left, is invalid no matter what.
	store.sessions["stale"] = session.Session{
		Token:     "stale",
		UserID:    3,
		CreatedAt: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := mgr.Validate(ctx, "stale")
	assert.ErrorIs(t, err, session.ErrInvalid)
}

func TestManager_CacheFailureFallsThrough(t *testing.T) {
	mgr, mr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, 9)
	require.NoError(t, err)

	mr.SetError("redis is down")

	userID, err := mgr.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), userID)
	assert.Equal(t, 1, store.findCalls)
}

func TestManager_DurableFailureFailsClosed(t *testing.T) {
	mgr, mr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, 9)
	require.NoError(t, err)

	mr.Del("session:" + token)
	store.findErr = errors.New("connection refused")

	_, err = mgr.Validate(ctx, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrInvalid)
}

func TestManager_CreateFailsOnDurableWrite(t *testing.T) {
	mgr, _, store := newTestManager(t)

	store.insertErr = errors.New("insert failed")

	_, err := mgr.Create(context.Background(), 5)
	require.Error(t, err)
}

func TestManager_Revoke(t *testing.T) {
	mgr, mr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, 11)
	require.NoError(t, err)

	require.NoError(t, mgr.Revoke(ctx, token))

	assert.False(t, mr.Exists("session:"+token))
	_, ok := store.get(token)
	assert.False(t, ok)

	_, err = mgr.Validate(ctx, token)
	assert.ErrorIs(t, err, session.ErrInvalid)
}

func TestManager_RevokeBestEffort(t *testing.T) {
	mgr, mr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, 11)
	require.NoError(t, err)

	// One store failing is still a successful revoke.
	mr.SetError("redis is down")
	require.NoError(t, mgr.Revoke(ctx, token))
	_, ok := store.get(token)
	assert.False(t, ok)

	// Both stores failing is not.
	store.deleteErr = errors.New("connection refused")
	assert.Error(t, mgr.Revoke(ctx, token))
}
