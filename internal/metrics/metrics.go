// Package metrics holds the Prometheus collectors shared by the producer
// run and the dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run results recorded by Recorder.Runs.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder groups the collectors of one process. Each Recorder owns its
// registry, so tests can create as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	Runs              *prometheus.CounterVec
	RepoQueryFailures *prometheus.CounterVec
	WindowCommits     *prometheus.GaugeVec
	PollFailures      prometheus.Counter
	LastPollSuccess   prometheus.Gauge
}

// NewRecorder creates and registers all collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commitrace",
			Name:      "runs_total",
			Help:      "Producer runs by result.",
		}, []string{"result"}),
		RepoQueryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commitrace",
			Name:      "repo_query_failures_total",
			Help:      "Commit queries that failed and were counted as zero.",
		}, []string{"repo"}),
		WindowCommits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "commitrace",
			Name:      "window_commits",
			Help:      "Commits counted in the latest window per team.",
		}, []string{"team"}),
		PollFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "commitrace",
			Subsystem: "dashboard",
			Name:      "poll_failures_total",
			Help:      "Artifact fetches that failed and kept the previous snapshot.",
		}),
		LastPollSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "commitrace",
			Subsystem: "dashboard",
			Name:      "last_poll_success_timestamp_seconds",
			Help:      "Unix time of the last successful artifact fetch.",
		}),
	}
	r.registry.MustRegister(r.Runs, r.RepoQueryFailures, r.WindowCommits, r.PollFailures, r.LastPollSuccess)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current values in the node_exporter textfile
// collector format, for short-lived runs that cannot be scraped.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
