package probe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healthd_probe_duration_seconds",
			Help:    "Duration of dependency probes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"probe"},
	)

	probeResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthd_probe_results_total",
			Help: "Total number of dependency probe outcomes",
		},
		[]string{"probe", "result", "kind"},
	)

	probeUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "healthd_probe_up",
			Help: "Outcome of the most recent probe run (1 = passed, 0 = failed)",
		},
		[]string{"probe"},
	)
)

func observe(r Result) {
	outcome := "pass"
	up := 1.0
	if !r.OK {
		outcome = "fail"
		up = 0
	}

	probeDuration.WithLabelValues(r.Name).Observe(r.Duration.Seconds())
	probeResults.WithLabelValues(r.Name, outcome, r.Kind().String()).Inc()
	probeUp.WithLabelValues(r.Name).Set(up)
}
