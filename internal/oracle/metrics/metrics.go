package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the oracle module.
type Metrics struct {
	ObservationsByTier *prometheus.CounterVec
	MalformedReadings  prometheus.Counter
	IngestDuration     prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		ObservationsByTier: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agrotrace_oracle_observations_total",
			Help: "Total observations produced, by quality tier",
		}, []string{"tier"}),
		MalformedReadings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agrotrace_oracle_malformed_readings_total",
			Help: "Total raw readings rejected as malformed",
		}),
		IngestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agrotrace_oracle_ingest_cycle_duration_seconds",
			Help:    "Duration of oracle ingestion cycles",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}
