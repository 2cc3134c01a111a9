// Package metrics exposes Prometheus counters for the match pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MatchesRecorded prometheus.Counter
	MatchesDeleted  prometheus.Counter
	PointsMoved     prometheus.Counter
	RecordFailures  prometheus.Counter
}

// New registers the counters on reg. Tests pass a fresh
// prometheus.NewRegistry() so runs never collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MatchesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "rating_matches_recorded_total",
			Help: "Matches accepted and persisted.",
		}),
		MatchesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rating_matches_deleted_total",
			Help: "Matches deleted with their point transfers reversed.",
		}),
		PointsMoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "rating_points_moved_total",
			Help: "Total points moved between sides across all matches.",
		}),
		RecordFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "rating_match_record_failures_total",
			Help: "Match submissions that failed inside the transfer transaction.",
		}),
	}
}
