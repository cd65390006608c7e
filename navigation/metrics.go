package navigation

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes used as the "result" label.
const (
	resultSuccess    = "success"
	resultFailed     = "failed"
	resultCancelled  = "cancelled"
	resultSuperseded = "superseded"
	resultNoop       = "noop"

	triggerAdvanced = "advanced"
	triggerIgnored  = "ignored"
)

// Metrics holds the Prometheus collectors updated by a Session.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Requests       *prometheus.CounterVec
	Attempts       prometheus.Counter
	Escalations    prometheus.Counter
	Triggers       *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	PathLength     prometheus.Histogram
}

// NewMetrics creates the session collectors and registers them on reg.
// Pass prometheus.NewRegistry() in tests to keep them isolated.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waypath",
			Name:      "navigation_requests_total",
			Help:      "Navigation requests by result.",
		}, []string{"result"}),
		Attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "waypath",
			Name:      "search_attempts_total",
			Help:      "Adjacency build + A* search attempts.",
		}),
		Escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "waypath",
			Name:      "radius_escalations_total",
			Help:      "Attempts that failed and widened the search radius.",
		}),
		Triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waypath",
			Name:      "trigger_events_total",
			Help:      "Trigger events by outcome.",
		}, []string{"result"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "waypath",
			Name:      "search_duration_seconds",
			Help:      "Wall time of a full escalation loop.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		PathLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "waypath",
			Name:      "path_nodes",
			Help:      "Number of nodes on installed paths.",
			Buckets:   prometheus.LinearBuckets(1, 4, 10),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Requests, m.Attempts, m.Escalations, m.Triggers, m.SearchDuration, m.PathLength} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("navigation: register metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) request(result string) {
	if m != nil {
		m.Requests.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) attempt(escalated bool) {
	if m == nil {
		return
	}
	m.Attempts.Inc()
	if escalated {
		m.Escalations.Inc()
	}
}

func (m *Metrics) trigger(advanced bool) {
	if m == nil {
		return
	}
	if advanced {
		m.Triggers.WithLabelValues(triggerAdvanced).Inc()
		return
	}
	m.Triggers.WithLabelValues(triggerIgnored).Inc()
}

func (m *Metrics) observeSearch(d time.Duration, pathLen int) {
	if m == nil {
		return
	}
	m.SearchDuration.Observe(d.Seconds())
	if pathLen > 0 {
		m.PathLength.Observe(float64(pathLen))
	}
}
