package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	// Resolved subject roles, by role and whether the badge was shown
	ResolvedRole *prometheus.CounterVec

	// Snapshot loading latencies by source
	LoadLatency *prometheus.HistogramVec

	// State cache lookups by result
	CacheLookups *prometheus.CounterVec

	// Overall state computation latency, including loading
	StateLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the module metrics on reg. Tests pass a fresh
// registry to avoid duplicate registration panics.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ResolvedRole: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_verification_resolved_total",
			Help: "Total subject states resolved by role and badge visibility",
		}, []string{"role", "badge"}),

		LoadLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veritas_verification_load_duration_seconds",
			Help:    "Duration of upstream snapshot loads by source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"source"}), // source: "subject", "viewer", "preferences"

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_verification_cache_lookups_total",
			Help: "State cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss", "error"

		StateLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veritas_verification_state_duration_seconds",
			Help:    "Duration of verification state requests by kind",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}), // kind: "simple", "full"
	}
}

// IncrementResolved records the role a subject resolved to.
func (m *Metrics) IncrementResolved(role string, badgeShown bool) {
	if m == nil {
		return
	}
	badge := "hidden"
	if badgeShown {
		badge = "shown"
	}
	m.ResolvedRole.WithLabelValues(role, badge).Inc()
}

// ObserveLoadLatency records the duration of loading one upstream snapshot.
func (m *Metrics) ObserveLoadLatency(source string, d time.Duration) {
	if m != nil {
		m.LoadLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// ObserveStateLatency records the total duration of a state request.
func (m *Metrics) ObserveStateLatency(kind string, d time.Duration) {
	if m != nil {
		m.StateLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}
