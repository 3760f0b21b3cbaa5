package archive

import "github.com/prometheus/client_golang/prometheus"

var (
	runsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "archive",
		Name:      "runs_completed_total",
		Help:      "Number of archive runs that finished without error.",
	})

	rowsArchived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "archive",
		Name:      "rows_archived_total",
		Help:      "Number of daily_history rows upserted.",
	})
)

func init() {
	prometheus.MustRegister(runsCompleted, rowsArchived)
}
