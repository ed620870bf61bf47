package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.TransactionApplied("owes")
	r.TransactionApplied("owes")
	r.TransactionApplied("paid")
	r.RequestTransition("join", "approved")
	r.UpdateConflict()
	r.ShameEvents(3)
	r.ShameEvents(0)
	r.NotificationFailed("shame")
	r.SweepFinished(0.2, false)

	if got := testutil.ToFloat64(r.transactions.WithLabelValues("owes")); got != 2 {
		t.Errorf("owes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.requests.WithLabelValues("join", "approved")); got != 1 {
		t.Errorf("join approved = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.conflicts); got != 1 {
		t.Errorf("conflicts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.shames); got != 3 {
		t.Errorf("shames = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(r.sweeps); got != 1 {
		t.Errorf("sweep series = %d, want 1", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	// must not panic
	r.TransactionApplied("owes")
	r.RequestTransition("join", "rejected")
	r.UpdateConflict()
	r.ShameEvents(1)
	r.NotificationFailed("shame")
	r.SweepFinished(1, true)
}
