package workflow

import (
	"context"
	"time"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/ledger"
	"github.com/mmynk/beercounter/internal/models"
	"github.com/mmynk/beercounter/internal/notify"
	"github.com/mmynk/beercounter/internal/storage"
)

// ScanForAging shames every stale edge of the group. Fired edges are stamped and a
// history line per event is written in the same update; members are notified after
// commit. A scan that fires nothing does not write.
//
// It runs without a caller: the sweeper is the only client.
func (s *Service) ScanForAging(ctx context.Context, groupID string, now time.Time) ([]ledger.ShameEvent, error) {
	var events []ledger.ShameEvent
	var members []string
	_, err := s.update(ctx, groupID, func(g *models.Group) (*storage.Effects, error) {
		events = ledger.ScanAging(g, now, s.aging)
		if len(events) == 0 {
			return nil, storage.ErrNoChange
		}
		members = g.MemberUIDs()
		effects := &storage.Effects{}
		for _, ev := range events {
			effects.History = append(effects.History, models.HistoryEntry{
				Message:   ledger.ShameMessage(ev, s.aging.ThresholdDays()),
				Timestamp: now,
			})
		}
		return effects, nil
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	s.metrics.ShameEvents(len(events))
	s.logger.InfoContext(ctx, "aging scan fired", "group_id", groupID, "events", len(events))
	for _, ev := range events {
		s.notify(ctx, notify.Message{
			Kind:       notify.KindShame,
			GroupID:    groupID,
			Recipients: members,
			Text:       ledger.ShameMessage(ev, s.aging.ThresholdDays()),
			CreatedAt:  now,
		})
	}
	return events, nil
}

// ScanGroupForAging lets an admin trigger the scan outside the sweeper schedule.
func (s *Service) ScanGroupForAging(ctx context.Context, caller auth.Identity, groupID string) ([]ledger.ShameEvent, error) {
	if _, err := s.loadAsAdmin(ctx, caller, groupID); err != nil {
		return nil, err
	}
	return s.ScanForAging(ctx, groupID, s.now())
}

// ListGroupIDs returns every group id, for the sweeper.
func (s *Service) ListGroupIDs(ctx context.Context) ([]string, error) {
	return s.store.ListGroupIDs(ctx)
}
