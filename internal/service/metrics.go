package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission and retrieval outcomes used as metric labels
const (
	ResultOK               = "ok"
	ResultInvalid          = "invalid"
	ResultStoreUnavailable = "store_unavailable"
	ResultInFlight         = "in_flight"
	ResultDuplicate        = "duplicate"
	ResultDegraded         = "degraded"
)

// Metrics exposes Prometheus collectors for the journal pipeline.
type Metrics struct {
	submissions        *prometheus.CounterVec
	enrichmentFailures prometheus.Counter
	retrievals         *prometheus.CounterVec
	storeRequests      *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry(); a registration conflict panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lunalog",
			Name:      "submissions_total",
			Help:      "Journal submissions by outcome.",
		}, []string{"result"}),
		enrichmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lunalog",
			Name:      "enrichment_failures_total",
			Help:      "Recommend triggers that failed after the entry was stored.",
		}),
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lunalog",
			Name:      "retrievals_total",
			Help:      "Entry listings by outcome; degraded listings were served empty.",
		}, []string{"result"}),
		storeRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lunalog",
			Name:      "store_request_duration_seconds",
			Help:      "Latency of calls to the journal store, including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
	}
	reg.MustRegister(m.submissions, m.enrichmentFailures, m.retrievals, m.storeRequests)
	return m
}

func (m *Metrics) submission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) enrichmentFailed() {
	m.enrichmentFailures.Inc()
}

func (m *Metrics) retrieval(result string) {
	m.retrievals.WithLabelValues(result).Inc()
}

func (m *Metrics) observeStore(op string, start time.Time, err error) {
	status := ResultOK
	if err != nil {
		status = "error"
	}
	m.storeRequests.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}
