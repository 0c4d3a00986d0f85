package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names exported by the ranking pipeline.
const (
	MetricRankingRunsTotal        = "digest_ranking_runs_total"
	MetricArticlesRankedTotal     = "digest_articles_ranked_total"
	MetricScoreWriteErrorsTotal   = "digest_score_write_errors_total"
	MetricRankingRunDuration      = "digest_ranking_run_duration_seconds"
	MetricRankingLastRunTimestamp = "digest_ranking_last_run_timestamp"
)

// Run outcome label values.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Metrics contains Prometheus metrics for batch ranking runs.
// All operations are thread-safe and a nil *Metrics records nothing.
type Metrics struct {
	runsTotal        *prometheus.CounterVec
	articlesRanked   prometheus.Counter
	writeErrors      prometheus.Counter
	runDuration      *prometheus.HistogramVec
	lastRunTimestamp prometheus.Gauge
}

// NewMetrics creates the collectors without registering them.
func NewMetrics() *Metrics {
	return &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRankingRunsTotal,
			Help: "Total number of ranking runs by mode and outcome",
		}, []string{"mode", "status"}),
		articlesRanked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricArticlesRankedTotal,
			Help: "Total number of articles scored",
		}),
		writeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricScoreWriteErrorsTotal,
			Help: "Total number of failed ranking score writes",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricRankingRunDuration,
			Help:    "Histogram of ranking run duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}, []string{"mode"}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRankingLastRunTimestamp,
			Help: "Unix timestamp of the last completed ranking run",
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.runsTotal,
		m.articlesRanked,
		m.writeErrors,
		m.runDuration,
		m.lastRunTimestamp,
	}
}

// ObserveRun records one finished ranking run.
func (m *Metrics) ObserveRun(mode, status string, ranked, errors int, seconds, finishedAt float64) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(mode, status).Inc()
	m.articlesRanked.Add(float64(ranked))
	m.writeErrors.Add(float64(errors))
	m.runDuration.WithLabelValues(mode).Observe(seconds)
	m.lastRunTimestamp.Set(finishedAt)
}
