// Package metrics exposes Prometheus counters for the ledger workflow.
//
// A nil *Recorder is valid and records nothing, so tests and tools can skip metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "beercounter"

// Recorder holds the ledger collectors.
type Recorder struct {
	transactions *prometheus.CounterVec
	requests     *prometheus.CounterVec
	conflicts    prometheus.Counter
	shames       prometheus.Counter
	notifyErrors *prometheus.CounterVec
	sweeps       *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_applied_total",
			Help:      "Transactions applied to the ledger, by type.",
		}, []string{"type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pending_requests_total",
			Help:      "Pending request transitions, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_conflicts_total",
			Help:      "Versioned group writes that lost a race and were retried.",
		}),
		shames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shame_events_total",
			Help:      "Shame events emitted by the aging monitor.",
		}),
		notifyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be delivered, by kind.",
		}, []string{"kind"}),
		sweeps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aging_sweep_duration_seconds",
			Help:      "Duration of full aging sweeps.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
	}
	reg.MustRegister(r.transactions, r.requests, r.conflicts, r.shames, r.notifyErrors, r.sweeps)
	return r
}

// TransactionApplied counts one applied owes/paid transaction.
func (r *Recorder) TransactionApplied(transType string) {
	if r == nil {
		return
	}
	r.transactions.WithLabelValues(transType).Inc()
}

// RequestTransition counts a pending request being submitted, approved or rejected.
func (r *Recorder) RequestTransition(kind, outcome string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(kind, outcome).Inc()
}

// UpdateConflict counts one lost compare-and-swap.
func (r *Recorder) UpdateConflict() {
	if r == nil {
		return
	}
	r.conflicts.Inc()
}

// ShameEvents counts n shame events.
func (r *Recorder) ShameEvents(n int) {
	if r == nil || n == 0 {
		return
	}
	r.shames.Add(float64(n))
}

// NotificationFailed counts an undelivered notification.
func (r *Recorder) NotificationFailed(kind string) {
	if r == nil {
		return
	}
	r.notifyErrors.WithLabelValues(kind).Inc()
}

// SweepFinished observes one full aging sweep.
func (r *Recorder) SweepFinished(seconds float64, failed bool) {
	if r == nil {
		return
	}
	result := "ok"
	if failed {
		result = "error"
	}
	r.sweeps.WithLabelValues(result).Observe(seconds)
}
