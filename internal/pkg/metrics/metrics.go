// Package metrics defines and registers all custom Prometheus metrics for the
// lodge membership API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lodge"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationDuration measures each DocumentStore call.
// Labels:
//   - backend: "mongo", "redis" or "memory"
//   - op: "query", "get_all", "get", "create", "update", "set"
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of document store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"backend", "op"},
)

// StoreErrorsTotal counts failed DocumentStore calls.
// Label kind is the store error kind: "network", "permission_denied", "not_found".
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of failed document store operations.",
	},
	[]string{"backend", "op", "kind"},
)

// ── Directory and ledger metrics ──────────────────────────────────────────────

// MemberSavesTotal counts persisted profile saves.
// Label kind: "create" or "update".
var MemberSavesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "member_saves_total",
		Help:      "Total number of member profile saves, by kind.",
	},
	[]string{"kind"},
)

// AttendanceWritesTotal counts attendance records written, by status.
var AttendanceWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_writes_total",
		Help:      "Total number of attendance records written, by status.",
	},
	[]string{"status"},
)

// AuthorizationDeniedTotal counts operations rejected by the authorization gate.
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of operations rejected by the authorization gate.",
	},
	[]string{"operation"},
)

// StaleLoadsDiscardedTotal counts load responses dropped because a newer load already applied.
var StaleLoadsDiscardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_loads_discarded_total",
		Help:      "Total number of out-of-order load responses discarded.",
	},
	[]string{"cache"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// RollCallQueueDepth tracks pending roll-call entries per dispatcher worker.
var RollCallQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rollcall_queue_depth",
		Help:      "Current number of roll-call entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RollCallFailuresTotal counts queued roll-call entries that failed to record.
var RollCallFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rollcall_failures_total",
		Help:      "Total number of queued roll-call entries that failed to record.",
	},
)
