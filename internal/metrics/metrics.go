package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TransactionsProcessed counts transactions driven to a terminal status
	// by the job processor.
	TransactionsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_processed_total",
			Help: "Transactions driven to a terminal status by the processor",
		},
		[]string{"status"}, // completed|failed
	)

	// JobsEnqueued counts enqueue calls by outcome.
	JobsEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_enqueued_total",
			Help: "Enqueue calls by outcome",
		},
		[]string{"result"}, // enqueued|deduplicated
	)

	// QueueDepth tracks the number of jobs per queue state.
	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "queue_jobs",
			Help: "Current number of jobs per queue state",
		},
		[]string{"state"}, // waiting|active|completed|failed|delayed
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

// Init registers all collectors. Call once at startup.
func Init() {
	prometheus.MustRegister(TransactionsProcessed)
	prometheus.MustRegister(JobsEnqueued)
	prometheus.MustRegister(QueueDepth)
}
