// Package observability exposes Prometheus collectors for domain events.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "activities",
		Name:      "logged_total",
		Help:      "Number of activities logged, labeled by category.",
	}, []string{"category"})

	emissionLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "activities",
		Name:      "emission_kg_total",
		Help:      "Total estimated kg CO2 logged, labeled by category.",
	}, []string{"category"})

	classifierFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "classifier",
		Name:      "fallback_total",
		Help:      "Number of descriptions that fell through every rule to the other category.",
	})

	lastActivityGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "carbon_tracker",
		Subsystem: "activities",
		Name:      "last_logged_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity persisted.",
	})
)

func init() {
	prometheus.MustRegister(activitiesLogged, emissionLogged, classifierFallbacks, lastActivityGauge)
}

// RecordActivityLogged updates the per-category counters and the watermark gauge.
func RecordActivityLogged(category string, emissionKg float64, at time.Time) {
	activitiesLogged.WithLabelValues(category).Inc()
	emissionLogged.WithLabelValues(category).Add(emissionKg)
	if !at.IsZero() {
		lastActivityGauge.Set(float64(at.Unix()))
	}
}

// RecordClassifierFallback counts an unclassifiable description.
func RecordClassifierFallback() {
	classifierFallbacks.Inc()
}
