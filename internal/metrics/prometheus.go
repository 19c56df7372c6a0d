package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the planner's prometheus metrics
type Metrics struct {
	QueueActions             *prometheus.CounterVec
	EventsCommitted          prometheus.Counter
	CommitFailures           prometheus.Counter
	CommitDuration           prometheus.Histogram
	OpenBoards               prometheus.Gauge
	BookingsNeedingAttention prometheus.Gauge
}

// NewMetrics registers the planner metrics on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		QueueActions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_actions_total",
			Help:      "The total number of whiteboard queue actions",
		}, []string{"action"}),
		EventsCommitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_committed_total",
			Help:      "The total number of events created from whiteboard queues",
		}),
		CommitFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_failures_total",
			Help:      "The total number of queue submissions rolled back",
		}),
		CommitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_duration_seconds",
			Help:      "Time taken to persist a submitted queue",
			Buckets:   prometheus.DefBuckets,
		}),
		OpenBoards: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_boards",
			Help:      "Teacher boards currently held in memory",
		}),
		BookingsNeedingAttention: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bookings_needing_attention",
			Help:      "Active bookings flagged by the last attention sweep",
		}),
	}
}
