// Package metrics defines and registers all custom Prometheus metrics for
// the attendance system. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time and
// are exposed through the router's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// ── Check-in metrics ──────────────────────────────────────────────────────────

// CheckinsTotal counts successful check-ins.
// Label:
//   - status: the recorded status ("present" or "late")
var CheckinsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkins_total",
		Help:      "Total number of successful attendance check-ins, by status.",
	},
	[]string{"status"},
)

// CheckinRejectionsTotal counts rejected check-in attempts.
// Label:
//   - reason: "not_found", "already_checked", "too_early", or "out_of_range"
var CheckinRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkin_rejections_total",
		Help:      "Total number of rejected check-in attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Sweep metrics ─────────────────────────────────────────────────────────────

// SweepRunsTotal counts sweeper ticks.
// Label:
//   - result: "ok", "error", or "skipped" (previous tick still running)
var SweepRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_runs_total",
		Help:      "Total number of reconciliation sweep ticks, by result.",
	},
	[]string{"result"},
)

// SweepRecordsCreatedTotal counts late records created by the sweeper.
var SweepRecordsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_records_created_total",
		Help:      "Total number of auto-late records created by the sweeper.",
	},
)

// SweepDurationSeconds measures how long one sweep tick takes end-to-end.
var SweepDurationSeconds = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of one reconciliation sweep tick.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
