// Package metrics defines and registers all custom Prometheus metrics for the
// campus admin API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campus"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionLoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var SessionLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionRefreshesTotal counts refresh-token exchanges.
// Label:
//   - result: "ok" or "rejected"
var SessionRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refreshes_total",
		Help:      "Total number of refresh-token exchanges, by result.",
	},
	[]string{"result"},
)

// SessionRoleSwitchesTotal counts active-role changes.
// Label:
//   - role: the requested role (e.g. "teacher")
var SessionRoleSwitchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_role_switches_total",
		Help:      "Total number of successful active-role switches, by role.",
	},
	[]string{"role"},
)

// SessionLookupsTotal counts current-user lookups.
// Label:
//   - result: "user" (a session was live or restored) or "none"
var SessionLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_lookups_total",
		Help:      "Total number of current-user lookups, by outcome.",
	},
	[]string{"result"},
)

// ── Import metrics ────────────────────────────────────────────────────────────

// ImportJobsTotal counts bulk-import jobs by final status.
var ImportJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_jobs_total",
		Help:      "Total number of bulk-import jobs, by final status.",
	},
	[]string{"status"},
)

// ImportQueueDepth tracks the number of import tasks waiting in each worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ImportQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "import_queue_depth",
		Help:      "Current number of import tasks pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
