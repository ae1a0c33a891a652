package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the match module.
type Metrics struct {
	// Backend queries issued, by target signal
	QueriesIssued *prometheus.CounterVec

	// Backend query failures, contained per query
	QueryFailures prometheus.Counter

	// Fused candidates returned per record
	ResultSize prometheus.Histogram

	// Full single-record match latency
	MatchLatency prometheus.Histogram

	// Records per batch request
	BatchSize prometheus.Histogram

	// Cache hits and misses for fused results
	CacheLookups *prometheus.CounterVec
}

// New creates a new Metrics instance with all match module metrics registered.
func New() *Metrics {
	return &Metrics{
		QueriesIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "companymatch_queries_issued_total",
			Help: "Backend candidate queries issued by signal",
		}, []string{"signal"}),

		QueryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "companymatch_query_failures_total",
			Help: "Backend query failures recovered per query",
		}),

		ResultSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "companymatch_result_size",
			Help:    "Fused candidates returned per matched record",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		}),

		MatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "companymatch_match_duration_seconds",
			Help:    "Duration of a full single-record match including fan-out",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "companymatch_batch_records",
			Help:    "Records per batch match request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "companymatch_cache_lookups_total",
			Help: "Match result cache lookups by outcome",
		}, []string{"outcome"}), // outcome: "hit", "miss"
	}
}

// IncrementQuery records one issued backend query for a signal.
func (m *Metrics) IncrementQuery(signal string) {
	if m != nil {
		m.QueriesIssued.WithLabelValues(signal).Inc()
	}
}

// IncrementQueryFailure records one contained backend failure.
func (m *Metrics) IncrementQueryFailure() {
	if m != nil {
		m.QueryFailures.Inc()
	}
}

// ObserveResultSize records how many fused candidates a record produced.
func (m *Metrics) ObserveResultSize(n int) {
	if m != nil {
		m.ResultSize.Observe(float64(n))
	}
}

// ObserveMatchLatency records the duration of one full record match.
func (m *Metrics) ObserveMatchLatency(d time.Duration) {
	if m != nil {
		m.MatchLatency.Observe(d.Seconds())
	}
}

// ObserveBatchSize records the record count of one batch request.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}

// IncrementCacheLookup records a cache hit or miss.
func (m *Metrics) IncrementCacheLookup(outcome string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(outcome).Inc()
	}
}
