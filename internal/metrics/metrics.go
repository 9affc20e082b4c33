package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for quizdesk. Methods are
// nil-safe so services can run without metrics in tests.
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	ImportRowsTotal          *prometheus.CounterVec
	ImportBatchesTotal       *prometheus.CounterVec
	ImportDuration           prometheus.Histogram
	EvaluationsReviewedTotal *prometheus.CounterVec
	QuizAttemptsTotal        *prometheus.CounterVec
	AdminSQLDuration         *prometheus.HistogramVec
	StatsRefreshDuration     prometheus.Histogram
}

// NewMetricsRegistry registers every metric with reg.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdesk_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quizdesk_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quizdesk_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdesk_cache_hits_total",
				Help: "Total cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdesk_cache_misses_total",
				Help: "Total cache misses by cache name",
			},
			[]string{"cache"},
		),

		// Business Metrics
		ImportRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdesk_import_rows_total",
				Help: "Member import rows by outcome",
			},
			[]string{"outcome"},
		),
		ImportBatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdesk_import_batches_total",
				Help: "Member import batches by result",
			},
			[]string{"result"},
		),
		ImportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quizdesk_import_duration_seconds",
				Help:    "Member import transaction time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		EvaluationsReviewedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdesk_evaluations_reviewed_total",
				Help: "Evaluations reviewed by decision",
			},
			[]string{"decision"},
		),
		QuizAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdesk_quiz_attempts_total",
				Help: "Quiz attempts by result",
			},
			[]string{"result"},
		),
		AdminSQLDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quizdesk_admin_sql_duration_seconds",
				Help:    "Raw admin statement execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 30},
			},
			[]string{"kind"},
		),
		StatsRefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quizdesk_stats_refresh_duration_seconds",
				Help:    "Dashboard statistics refresh time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
	}
}

func (m *MetricsRegistry) ObserveImport(success, failed int, committed bool, seconds float64) {
	if m == nil {
		return
	}
	m.ImportRowsTotal.WithLabelValues("success").Add(float64(success))
	m.ImportRowsTotal.WithLabelValues("error").Add(float64(failed))
	result := "committed"
	if !committed {
		result = "rolled_back"
	}
	m.ImportBatchesTotal.WithLabelValues(result).Inc()
	m.ImportDuration.Observe(seconds)
}

func (m *MetricsRegistry) EvaluationReviewed(decision string) {
	if m == nil {
		return
	}
	m.EvaluationsReviewedTotal.WithLabelValues(decision).Inc()
}

func (m *MetricsRegistry) QuizAttempt(passed bool) {
	if m == nil {
		return
	}
	result := "failed"
	if passed {
		result = "passed"
	}
	m.QuizAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsRegistry) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

func (m *MetricsRegistry) ObserveAdminSQL(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.AdminSQLDuration.WithLabelValues(kind).Observe(seconds)
}

func (m *MetricsRegistry) ObserveStatsRefresh(seconds float64) {
	if m == nil {
		return
	}
	m.StatsRefreshDuration.Observe(seconds)
}
