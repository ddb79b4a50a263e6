package task

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"task-service/internal/logger"
	"task-service/internal/redis"
)

// cacheTTL bounds how stale a cached task or list may get. It is a
// tuning constant, deliberately decoupled from write rates.
const cacheTTL = 5 * time.Minute

// Cache key helpers live here so the namespaces cannot drift apart.
func taskKey(id int64) string {
	return "task:" + strconv.FormatInt(id, 10)
}

func userTasksKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":tasks"
}

// Repository serves task reads through Redis with Postgres as the
// source of truth. Mutations write Postgres first and then delete the
// affected cache keys; the cache is never written by a mutation.
// Redis failures are logged and absorbed, Postgres failures propagate.
type Repository struct {
	cache *redis.Client
	store Store
}

func NewRepository(cache *redis.Client, store Store) *Repository {
	return &Repository{
		cache: cache,
		store: store,
	}
}

// GetByID returns the task with the given id, serving from cache when
// possible. Absence is never cached: every miss on a nonexistent id
// goes back to Postgres.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Task, error) {
	key := taskKey(id)

	if data, err := r.cache.Get(ctx, key).Bytes(); err == nil {
		var t Task
		if err := json.Unmarshal(data, &t); err == nil {
			return &t, nil
		}
		logger.Warn("task cache: malformed entry", map[string]any{"key": key})
	} else if !redis.IsMiss(err) {
		logger.Warn("task cache: read failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}

	t, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}

	r.populate(ctx, key, t)
	return t, nil
}

// ListByUser returns all of userID's tasks, newest first. The whole
// list is cached and refilled as one unit.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Task, error) {
	key := userTasksKey(userID)

	if data, err := r.cache.Get(ctx, key).Bytes(); err == nil {
		var tasks []Task
		if err := json.Unmarshal(data, &tasks); err == nil {
			return tasks, nil
		}
		logger.Warn("task cache: malformed entry", map[string]any{"key": key})
	} else if !redis.IsMiss(err) {
		logger.Warn("task cache: read failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}

	tasks, err := r.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.populate(ctx, key, tasks)
	return tasks, nil
}

// Create inserts the task and invalidates the owner's list. The single
// task key is left alone; nothing has been cached for a fresh id.
func (r *Repository) Create(ctx context.Context, in CreateInput) (*Task, error) {
	if in.Status == "" {
		in.Status = "pending"
	}
	if in.Priority == 0 {
		in.Priority = 1
	}

	t, err := r.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, userTasksKey(t.UserID))
	return t, nil
}

// Update applies the non-nil fields of in to the task. The current row
// is read first (possibly from cache) to learn the owner for list
// invalidation. Postgres is written before any key is deleted, so a
// reader can never repopulate the cache with pre-write state after
// Update returns.
func (r *Repository) Update(ctx context.Context, id int64, in UpdateInput) (*Task, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t, err := r.store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}

	r.invalidate(ctx, taskKey(id), userTasksKey(current.UserID))
	return t, nil
}

// Delete removes the task, resolving the owner the same way Update
// does, and invalidates both keys once the row is gone.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := r.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	r.invalidate(ctx, taskKey(id), userTasksKey(current.UserID))
	return nil
}

func (r *Repository) populate(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("task cache: marshal failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	if err := r.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		logger.Warn("task cache: write failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (r *Repository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("task cache: invalidation failed", map[string]any{
			"keys":  keys,
			"error": err.Error(),
		})
	}
}
