// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Session metrics
	SessionsActive       prometheus.Gauge
	DateLoads            *prometheus.CounterVec
	FocusTransitions     *prometheus.CounterVec
	PreferenceWriteFails prometheus.Counter
	RejectedIntents      *prometheus.CounterVec

	// Journal write metrics
	EntriesCreated prometheus.Counter
	FieldAppends   *prometheus.CounterVec
	EntriesSaved   prometheus.Counter
	EntriesDeleted prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "trade_journal"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Session metrics
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of signed-in sessions",
		}),
		DateLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "date_loads_total",
			Help:      "Entry list loads by outcome (applied, stale, error)",
		}, []string{"outcome"}),
		FocusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "focus_transitions_total",
			Help:      "Focus transitions by cause (select, create, restore, clear)",
		}, []string{"cause"}),
		PreferenceWriteFails: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "preference_write_failures_total",
			Help:      "Best-effort lastSelectedPairId writes that failed",
		}),
		RejectedIntents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "rejected_intents_total",
			Help:      "Intents rejected before reaching the store, by kind (validation, policy)",
		}, []string{"kind"}),

		// Journal write metrics
		EntriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "entries_created_total",
			Help:      "Total number of entries created",
		}),
		FieldAppends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "field_appends_total",
			Help:      "Items appended to list fields of existing entries",
		}, []string{"field"}),
		EntriesSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "entries_saved_total",
			Help:      "Total number of entries locked as saved",
		}),
		EntriesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "entries_deleted_total",
			Help:      "Total number of entries deleted",
		}),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"table", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordDBQuery records query latency since start and counts err.
func RecordDBQuery(table, operation string, start time.Time, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(table, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(table, operation).Inc()
	}
}

// SessionStarted increments the active sessions gauge.
func SessionStarted() {
	DefaultMetrics.SessionsActive.Inc()
}

// SessionEnded decrements the active sessions gauge.
func SessionEnded() {
	DefaultMetrics.SessionsActive.Dec()
}

// RecordDateLoad counts an entry list load outcome.
func RecordDateLoad(outcome string) {
	DefaultMetrics.DateLoads.WithLabelValues(outcome).Inc()
}

// RecordFocus counts a focus transition.
func RecordFocus(cause string) {
	DefaultMetrics.FocusTransitions.WithLabelValues(cause).Inc()
}

// RecordPreferenceWriteFailure counts a failed lastSelectedPairId write.
func RecordPreferenceWriteFailure() {
	DefaultMetrics.PreferenceWriteFails.Inc()
}

// RecordRejected counts an intent rejected at the call boundary.
func RecordRejected(kind string) {
	DefaultMetrics.RejectedIntents.WithLabelValues(kind).Inc()
}

// RecordEntryCreated counts a created entry.
func RecordEntryCreated() {
	DefaultMetrics.EntriesCreated.Inc()
}

// RecordFieldAppend counts one item appended to field.
func RecordFieldAppend(field string) {
	DefaultMetrics.FieldAppends.WithLabelValues(field).Inc()
}

// RecordEntrySaved counts an entry locked as saved.
func RecordEntrySaved() {
	DefaultMetrics.EntriesSaved.Inc()
}

// RecordEntryDeleted counts a deleted entry.
func RecordEntryDeleted() {
	DefaultMetrics.EntriesDeleted.Inc()
}
