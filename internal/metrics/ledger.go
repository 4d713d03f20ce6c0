package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for mutation counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// LedgerMetrics records ledger mutations and report builds.
type LedgerMetrics struct {
	mutations      *prometheus.CounterVec
	reportDuration *prometheus.HistogramVec
	exportedRows   *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
// A nil registerer yields a recorder whose methods do nothing.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_mutations_total",
		Help: "Ledger mutations by operation and outcome.",
	}, []string{"op", "outcome"})
	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_report_duration_seconds",
		Help:    "Time spent building reports.",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})
	exportedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_exported_rows_total",
		Help: "Rows written to export destinations.",
	}, []string{"sink"})
	reg.MustRegister(mutations, reportDuration, exportedRows)
	return &LedgerMetrics{
		mutations:      mutations,
		reportDuration: reportDuration,
		exportedRows:   exportedRows,
	}
}

// ObserveMutation counts one mutation of op, classified by err.
func (m *LedgerMetrics) ObserveMutation(op string, err error) {
	if m == nil || m.mutations == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.mutations.WithLabelValues(normalizeLabel(op), outcome).Inc()
}

// ObserveReport records how long the named report took to build.
func (m *LedgerMetrics) ObserveReport(report string, duration time.Duration) {
	if m == nil || m.reportDuration == nil {
		return
	}
	m.reportDuration.WithLabelValues(normalizeLabel(report)).Observe(duration.Seconds())
}

// AddExportedRows counts rows written through the named sink.
func (m *LedgerMetrics) AddExportedRows(sink string, rows int) {
	if m == nil || m.exportedRows == nil || rows <= 0 {
		return
	}
	m.exportedRows.WithLabelValues(normalizeLabel(sink)).Add(float64(rows))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
