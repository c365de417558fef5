package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module.
type Metrics struct {
	FarmsRegistered  prometheus.Counter
	PlotsAccepted    prometheus.Counter
	PlotsSkipped     prometheus.Counter
	DuplicateFarms   prometheus.Counter
	RegisterDuration prometheus.Histogram
}

// New creates a Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		FarmsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agrotrace_farms_registered_total",
			Help: "Total number of farms registered",
		}),
		PlotsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agrotrace_plots_accepted_total",
			Help: "Total number of plots accepted during onboarding",
		}),
		PlotsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agrotrace_plots_skipped_total",
			Help: "Total number of plots skipped for invalid geometry",
		}),
		DuplicateFarms: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agrotrace_duplicate_farm_registrations_total",
			Help: "Total number of registrations rejected as duplicates",
		}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agrotrace_register_farm_duration_seconds",
			Help:    "Duration of RegisterFarm operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveRegister records the duration of a RegisterFarm call. Call with
// time.Now() captured at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
