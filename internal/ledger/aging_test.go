package ledger

import (
	"testing"
	"time"

	"github.com/mmynk/beercounter/internal/models"
)

const day = 24 * time.Hour

func TestScanAging(t *testing.T) {
	g := newGroup("A", "B")
	g.Debts = []models.DebtEdge{{DebtorUID: "A", CreditorUID: "B", Count: 1, CreatedAt: t0}}
	policy := DefaultAgingPolicy()

	steps := []struct {
		at         time.Duration
		wantEvents int
	}{
		{at: 30 * day, wantEvents: 0}, // exactly at threshold, strict comparison
		{at: 31 * day, wantEvents: 1},
		{at: 33 * day, wantEvents: 0},
		{at: 38 * day, wantEvents: 0}, // exactly at cooldown
		{at: 39 * day, wantEvents: 1},
		{at: 39*day + time.Hour, wantEvents: 0},
	}

	for _, step := range steps {
		now := t0.Add(step.at)
		events := ScanAging(g, now, policy)
		if len(events) != step.wantEvents {
			t.Fatalf("at +%v: got %d events, want %d", step.at, len(events), step.wantEvents)
		}
		if step.wantEvents == 1 {
			if !g.Debts[0].LastShamedAt.Equal(now) {
				t.Errorf("at +%v: LastShamedAt = %v, want %v", step.at, g.Debts[0].LastShamedAt, now)
			}
			ev := events[0]
			if ev.DebtorUID != "A" || ev.CreditorUID != "B" || ev.DebtorName != "user A" || ev.Count != 1 {
				t.Errorf("unexpected event %+v", ev)
			}
		}
	}
}

func TestScanAging_FreshEdgesIgnored(t *testing.T) {
	g := newGroup("A", "B", "C")
	g.Debts = []models.DebtEdge{
		{DebtorUID: "A", CreditorUID: "B", Count: 2, CreatedAt: t0},
		{DebtorUID: "C", CreditorUID: "B", Count: 1, CreatedAt: t0.Add(20 * day)},
	}

	events := ScanAging(g, t0.Add(35*day), DefaultAgingPolicy())

	if len(events) != 1 || events[0].DebtorUID != "A" {
		t.Fatalf("events = %+v, want only A", events)
	}
	if g.Debts[1].LastShamedAt != nil {
		t.Error("fresh edge must not be marked")
	}
	want := "🔔 VERGOGNA! User A deve ancora 2 birre a User B da più di 30 giorni."
	if got := ShameMessage(events[0], DefaultAgingPolicy().ThresholdDays()); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mario rossi", "Mario Rossi"},
		{"  luca   bianchi ", "Luca Bianchi"},
		{"McLovin", "McLovin"},
		{"élodie", "Élodie"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatName(tt.in); got != tt.want {
				t.Errorf("FormatName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
