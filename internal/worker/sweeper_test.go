package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/metrics"
	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/storage/memory"
	"github.com/mmynk/beercounter/internal/workflow"
)

type fakeScanner struct {
	ids      []string
	listErr  error
	failing  map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32

	mu      sync.Mutex
	scanned []string
}

func (f *fakeScanner) ListGroupIDs(context.Context) ([]string, error) {
	return f.ids, f.listErr
}

func (f *fakeScanner) ScanForAging(_ context.Context, groupID string, _ time.Time) ([]ledger.ShameEvent, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.scanned = append(f.scanned, groupID)
	f.mu.Unlock()

	if f.failing[groupID] {
		return nil, errors.New("store unavailable")
	}
	return []ledger.ShameEvent{{DebtorUID: "A", CreditorUID: "B", Count: 1}}, nil
}

func TestSweep_BoundedAndTolerant(t *testing.T) {
	scanner := &fakeScanner{
		ids:     []string{"g1", "g2", "g3", "g4", "g5", "g6"},
		failing: map[string]bool{"g3": true},
	}
	reg := prometheus.NewRegistry()
	s := NewAgingSweeper(scanner, Config{Concurrency: 2, Metrics: metrics.New(reg)})

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Groups: 6, Events: 5, Failed: 1}, res)
	assert.ElementsMatch(t, scanner.ids, scanner.scanned)
	assert.LessOrEqual(t, scanner.peak.Load(), int32(2))

	count, err := testutil.GatherAndCount(reg, "beercounter_aging_sweep_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSweep_ListFailure(t *testing.T) {
	scanner := &fakeScanner{listErr: errors.New("db locked")}
	s := NewAgingSweeper(scanner, Config{})

	_, err := s.Sweep(context.Background())
	require.Error(t, err)
	assert.Empty(t, scanner.scanned)
}

func TestSweep_AgainstWorkflow(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	now := t0

	store := memory.New()
	wf := workflow.New(store, workflow.WithClock(func() time.Time { return now }))

	admin := auth.Identity{UID: "A", Name: "alice"}
	g, err := wf.CreateGroup(ctx, admin, "Pub", "", "")
	require.NoError(t, err)
	_, err = wf.AddMember(ctx, admin, g.ID, auth.Identity{UID: "B", Name: "bob"})
	require.NoError(t, err)
	_, err = wf.SubmitTransaction(ctx, admin, g.ID, "A", []string{"B"}, models.TransOwes)
	require.NoError(t, err)

	s := NewAgingSweeper(wf, Config{Now: func() time.Time { return t0.Add(31 * 24 * time.Hour) }})

	res, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Events)

	// inside the cooldown nothing fires again
	res, err = s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Events)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	s := NewAgingSweeper(&fakeScanner{}, Config{Schedule: "every tuesday-ish"})
	require.Error(t, s.Start(context.Background()))

	s = NewAgingSweeper(&fakeScanner{}, Config{Schedule: "@every 1h"})
	require.NoError(t, s.Start(context.Background()))
	require.Error(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()
}
