package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for trace composition.
type Metrics struct {
	Compositions    *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	ComposeDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Compositions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agrotrace_trace_compositions_total",
			Help: "Total trace compositions, by kind (product or funds)",
		}, []string{"kind"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agrotrace_trace_cache_hits_total",
			Help: "Total composed-trace cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agrotrace_trace_cache_misses_total",
			Help: "Total composed-trace cache misses",
		}),
		ComposeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agrotrace_trace_compose_duration_seconds",
			Help:    "Duration of trace compositions",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}
