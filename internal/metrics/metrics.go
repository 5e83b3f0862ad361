// Package metrics exposes Prometheus metrics for extraction jobs and HTTP
// requests. Collectors are registered on the default registry at init.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/AttrExtract/internal/core"
)

const (
	namespace = "attrextract"

	// Labels
	outcomeLabel = "outcome"
	kindLabel    = "kind"

	outcomeDone   = "done"
	outcomeFailed = "failed"
)

var jobsFinishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_finished_total",
		Help:      "number of extraction jobs that reached a terminal state, by outcome and failure kind",
	},
	[]string{outcomeLabel, kindLabel},
)

var jobsStartedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_started_total",
		Help:      "number of extraction jobs accepted",
	},
)

var jobsRejectedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_rejected_total",
		Help:      "number of job submissions rejected because a job was already running",
	},
)

var jobRunning = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "job_running",
		Help:      "1 while an extraction job is running",
	},
)

var jobDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "wall time of extraction jobs, by outcome",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
	},
	[]string{outcomeLabel},
)

var rowsProcessedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_processed_total",
		Help:      "number of data rows written by successful jobs",
	},
)

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsFinishedTotal)
	prometheus.MustRegister(jobsStartedTotal)
	prometheus.MustRegister(jobsRejectedTotal)
	prometheus.MustRegister(jobRunning)
	prometheus.MustRegister(jobDurationSeconds)
	prometheus.MustRegister(rowsProcessedTotal)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// JobObserver records coordinator events. It satisfies core.Observer.
type JobObserver struct{}

var _ core.Observer = JobObserver{}

func (JobObserver) JobStarted(string) {
	jobsStartedTotal.Inc()
	jobRunning.Set(1)
}

func (JobObserver) JobRejected() {
	jobsRejectedTotal.Inc()
}

func (JobObserver) JobFinished(s core.Status) {
	jobRunning.Set(0)

	outcome, kind := outcomeDone, ""
	if s.Failure != nil {
		outcome, kind = outcomeFailed, string(s.Failure.Kind)
	} else {
		rowsProcessedTotal.Add(float64(s.Rows))
	}

	jobsFinishedTotal.With(prometheus.Labels{outcomeLabel: outcome, kindLabel: kind}).Inc()
	if !s.StartedAt.IsZero() && !s.FinishedAt.IsZero() {
		jobDurationSeconds.WithLabelValues(outcome).Observe(s.FinishedAt.Sub(s.StartedAt).Seconds())
	}
}
