package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/beercounter/internal/models"
)

// DefaultMaxAttempts bounds how often a conflicting update is re-run.
const DefaultMaxAttempts = 10

// Retrier re-runs a versioned update while it keeps losing races.
type Retrier struct {
	// MaxAttempts is the total number of tries, DefaultMaxAttempts when zero.
	MaxAttempts int

	// Backoff is multiplied by the attempt number between tries.
	Backoff time.Duration

	// OnConflict, if set, is called after every lost race.
	OnConflict func(attempt int)
}

// Update runs store.UpdateGroup, retrying on models.ErrConcurrentModification.
// Any other error is returned immediately. After the last attempt the conflict is surfaced.
func (r Retrier) Update(ctx context.Context, store Store, groupID string, fn UpdateFunc) (*models.Group, error) {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		g, err := store.UpdateGroup(ctx, groupID, fn)
		if err == nil || !errors.Is(err, models.ErrConcurrentModification) {
			return g, err
		}
		lastErr = err
		if r.OnConflict != nil {
			r.OnConflict(attempt)
		}

		if attempt < attempts && r.Backoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * r.Backoff):
			}
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
