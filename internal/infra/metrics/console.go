package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(bulkDeleteOutcomes, activeSessions, generatedCodes) }

var bulkDeleteOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_bulk_delete_items_total",
		Help: "Per-voucher outcomes of bulk deletes.",
	},
	[]string{"outcome"}, // 'succeeded', 'failed'
)

var activeSessions = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "console_sessions",
		Help: "Console sessions currently held in memory.",
	},
)

var generatedCodes = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "console_generated_codes_total",
		Help: "Voucher codes returned by generation requests.",
	},
)

func AddBulkDelete(succeeded, failed int) {
	bulkDeleteOutcomes.WithLabelValues("succeeded").Add(float64(succeeded))
	bulkDeleteOutcomes.WithLabelValues("failed").Add(float64(failed))
}

func SetSessions(n int) {
	activeSessions.Set(float64(n))
}

func AddGeneratedCodes(n int) {
	generatedCodes.Add(float64(n))
}
