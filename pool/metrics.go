package pool

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks mint activity. Registration happens against the Registerer
// supplied through Config so callers control exposure.
type Metrics struct {
	mintsTotal   prometheus.Counter
	mintFailures prometheus.Counter
	mintDuration prometheus.Histogram
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		mintsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clpool",
			Subsystem: "pool",
			Name:      "mints_total",
			Help:      "Number of mints that settled successfully.",
		}),
		mintFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clpool",
			Subsystem: "pool",
			Name:      "mint_failures_total",
			Help:      "Number of mints that failed and were rolled back.",
		}),
		mintDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clpool",
			Subsystem: "pool",
			Name:      "mint_duration_seconds",
			Help:      "Wall time of mint operations, including the settlement callback.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(m.mintsTotal, m.mintFailures, m.mintDuration)
	return m
}
