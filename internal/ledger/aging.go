package ledger

import (
	"time"

	"github.com/mmynk/beercounter/internal/models"
)

const (
	// DefaultAgingThreshold is how old an edge must be before it is shamed.
	DefaultAgingThreshold = 30 * 24 * time.Hour
	// DefaultShameCooldown is the minimum gap between two shames of the same edge.
	DefaultShameCooldown = 7 * 24 * time.Hour
)

// AgingPolicy configures the shame monitor. Both comparisons are strict.
type AgingPolicy struct {
	Threshold time.Duration
	Cooldown  time.Duration
}

// DefaultAgingPolicy returns the 30-day threshold with a 7-day cooldown.
func DefaultAgingPolicy() AgingPolicy {
	return AgingPolicy{Threshold: DefaultAgingThreshold, Cooldown: DefaultShameCooldown}
}

// ThresholdDays is the threshold rounded down to whole days, for messages.
func (p AgingPolicy) ThresholdDays() int {
	return int(p.Threshold / (24 * time.Hour))
}

// ShameEvent is emitted once per stale edge per cooldown window.
type ShameEvent struct {
	DebtorUID    string
	DebtorName   string
	CreditorUID  string
	CreditorName string
	Count        int
}

// ScanAging marks stale edges and returns one event per edge that fired.
//
// An edge fires when now-CreatedAt > Threshold and it was never shamed or
// now-LastShamedAt > Cooldown. Fired edges get LastShamedAt = now, so a second
// scan inside the cooldown is a no-op.
func ScanAging(g *models.Group, now time.Time, policy AgingPolicy) []ShameEvent {
	var events []ShameEvent
	for i := range g.Debts {
		d := &g.Debts[i]
		if now.Sub(d.CreatedAt) <= policy.Threshold {
			continue
		}
		if d.LastShamedAt != nil && now.Sub(*d.LastShamedAt) <= policy.Cooldown {
			continue
		}

		shamedAt := now
		d.LastShamedAt = &shamedAt
		events = append(events, ShameEvent{
			DebtorUID:    d.DebtorUID,
			DebtorName:   g.NameOf(d.DebtorUID),
			CreditorUID:  d.CreditorUID,
			CreditorName: g.NameOf(d.CreditorUID),
			Count:        d.Count,
		})
	}
	return events
}
