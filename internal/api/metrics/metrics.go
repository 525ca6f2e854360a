// Package metrics defines and registers all custom Prometheus metrics for the
// Fabricat API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fabricat"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict" (nickname taken), or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad credentials), or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts token refresh attempts.
// Label:
//   - result: "success" or "rejected" (missing/invalid/expired token)
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_refreshes_total",
		Help:      "Total number of token refresh attempts, by result.",
	},
	[]string{"result"},
)

// HistoryCacheTotal counts recent-games cache lookups.
// Label:
//   - result: "hit" or "miss"
var HistoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_cache_total",
		Help:      "Total number of recent-games cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// HistorySessionsRecordedTotal counts finished sessions persisted to history.
var HistorySessionsRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_sessions_recorded_total",
		Help:      "Total number of finished game sessions written to history.",
	},
)
