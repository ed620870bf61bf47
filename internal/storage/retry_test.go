package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/beercounter/internal/models"
)

// conflictingStore loses the first `conflicts` races, then commits.
type conflictingStore struct {
	Store
	conflicts int
	calls     int
	err       error
}

func (s *conflictingStore) UpdateGroup(ctx context.Context, groupID string, fn UpdateFunc) (*models.Group, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.calls <= s.conflicts {
		return nil, models.ErrConcurrentModification
	}
	return &models.Group{ID: groupID, Version: int64(s.calls)}, nil
}

func TestRetrier_Update(t *testing.T) {
	t.Run("retries until the write lands", func(t *testing.T) {
		store := &conflictingStore{conflicts: 3}
		var conflicts []int
		r := Retrier{MaxAttempts: 5, OnConflict: func(attempt int) { conflicts = append(conflicts, attempt) }}

		g, err := r.Update(context.Background(), store, "g1", nil)
		require.NoError(t, err)
		assert.Equal(t, "g1", g.ID)
		assert.Equal(t, 4, store.calls)
		assert.Equal(t, []int{1, 2, 3}, conflicts)
	})

	t.Run("surfaces the conflict after the last attempt", func(t *testing.T) {
		store := &conflictingStore{conflicts: 100}
		_, err := Retrier{MaxAttempts: 3}.Update(context.Background(), store, "g1", nil)
		require.ErrorIs(t, err, models.ErrConcurrentModification)
		assert.Equal(t, 3, store.calls)
	})

	t.Run("zero attempts uses the default", func(t *testing.T) {
		store := &conflictingStore{conflicts: 100}
		_, err := Retrier{}.Update(context.Background(), store, "g1", nil)
		require.Error(t, err)
		assert.Equal(t, DefaultMaxAttempts, store.calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		store := &conflictingStore{err: models.ErrNotFound}
		_, err := Retrier{MaxAttempts: 5}.Update(context.Background(), store, "g1", nil)
		require.True(t, errors.Is(err, models.ErrNotFound))
		assert.Equal(t, 1, store.calls)
	})

	t.Run("cancelled context stops the backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		store := &conflictingStore{conflicts: 100}
		_, err := Retrier{MaxAttempts: 5, Backoff: time.Hour}.Update(ctx, store, "g1", nil)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, store.calls)
	})
}
