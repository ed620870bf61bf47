// Package worker runs the periodic aging sweep that shames stale debts.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/metrics"
)

// DefaultSchedule runs the sweep once an hour.
const DefaultSchedule = "@every 1h"

// Scanner is the part of the workflow the sweeper drives.
type Scanner interface {
	ListGroupIDs(ctx context.Context) ([]string, error)
	ScanForAging(ctx context.Context, groupID string, now time.Time) ([]ledger.ShameEvent, error)
}

// SweepResult summarises one pass over all groups.
type SweepResult struct {
	Groups int
	Events int
	Failed int
}

// AgingSweeper scans every group on a cron schedule with bounded concurrency.
type AgingSweeper struct {
	scanner     Scanner
	schedule    string
	concurrency int
	metrics     *metrics.Recorder
	now         func() time.Time
	logger      *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// Config holds the sweeper settings; zero values fall back to defaults.
type Config struct {
	Schedule    string
	Concurrency int
	Metrics     *metrics.Recorder
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewAgingSweeper creates a sweeper over scanner.
func NewAgingSweeper(scanner Scanner, cfg Config) *AgingSweeper {
	s := &AgingSweeper{
		scanner:     scanner,
		schedule:    cfg.Schedule,
		concurrency: cfg.Concurrency,
		metrics:     cfg.Metrics,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
	if s.schedule == "" {
		s.schedule = DefaultSchedule
	}
	if s.concurrency <= 0 {
		s.concurrency = 4
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Sweep scans every group once. A failing group is logged and counted but does not
// stop the others; only listing the groups can fail the sweep.
func (s *AgingSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	ids, err := s.scanner.ListGroupIDs(ctx)
	if err != nil {
		s.metrics.SweepFinished(time.Since(start).Seconds(), true)
		return SweepResult{}, fmt.Errorf("failed to list groups: %w", err)
	}

	now := s.now()
	var events, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			fired, err := s.scanner.ScanForAging(gctx, id, now)
			if err != nil {
				failed.Add(1)
				s.logger.WarnContext(gctx, "aging scan failed", "group_id", id, "error", err)
				return nil
			}
			events.Add(int64(len(fired)))
			return nil
		})
	}
	_ = g.Wait()

	res := SweepResult{Groups: len(ids), Events: int(events.Load()), Failed: int(failed.Load())}
	s.metrics.SweepFinished(time.Since(start).Seconds(), res.Failed > 0)
	s.logger.InfoContext(ctx, "aging sweep finished",
		"groups", res.Groups,
		"events", res.Events,
		"failed", res.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// Start schedules Sweep. Overlapping runs are skipped. ctx bounds every run.
func (s *AgingSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("aging sweeper already started")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Warn("scheduled aging sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid aging schedule %q: %w", s.schedule, err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("aging sweeper started", "schedule", s.schedule, "concurrency", s.concurrency)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *AgingSweeper) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("aging sweeper stopped")
}
