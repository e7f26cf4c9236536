package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/showcase-publisher/internal/progress"
)

// PrometheusSink exports pipeline progress metrics via Prometheus. It owns
// the collectors for runs, per-stage outcomes, URL results, and fetches.
type PrometheusSink struct {
	runsStarted   prometheus.Counter
	runsCompleted prometheus.Counter
	runRuntime    prometheus.Histogram

	stageOutcomes *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	urlResults    *prometheus.CounterVec

	fetchRequests *prometheus.CounterVec
	fetchBytes    *prometheus.CounterVec
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "showcase_runs_started_total",
			Help: "Total publishing runs that have started.",
		}),
		runsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "showcase_runs_completed_total",
			Help: "Total publishing runs that reached the end of their URL list.",
		}),
		runRuntime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "showcase_run_runtime_seconds",
			Help:    "Wall time per completed run.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200, 3600},
		}),
		stageOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "showcase_stage_outcomes_total",
			Help: "Stage completions partitioned by stage and outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "showcase_stage_duration_seconds",
			Help:    "Stage latency partitioned by stage.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"stage"}),
		urlResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "showcase_urls_total",
			Help: "Processed URLs partitioned by final status.",
		}, []string{"status"}),
		fetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "showcase_fetch_requests_total",
			Help: "Page fetches partitioned by site and status class.",
		}, []string{"site", "status_class"}),
		fetchBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "showcase_fetch_bytes_total",
			Help: "Page bytes downloaded per site.",
		}, []string{"site"}),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runRuntime,
		s.stageOutcomes,
		s.stageDuration,
		s.urlResults,
		s.fetchRequests,
		s.fetchBytes,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the Prometheus collectors using the provided batch.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	switch evt.Stage {
	case progress.StageRunStart:
		s.runsStarted.Inc()
		return
	case progress.StageRunDone:
		s.runsCompleted.Inc()
		if evt.Dur > 0 {
			s.runRuntime.Observe(evt.Dur.Seconds())
		}
		return
	case progress.StageURLDone:
		status := evt.Note
		if status == "" {
			status = string(evt.Outcome)
		}
		s.urlResults.WithLabelValues(status).Inc()
		return
	case progress.StageFetch:
		s.handleFetchEvent(evt)
	}
	s.stageOutcomes.WithLabelValues(string(evt.Stage), string(evt.Outcome)).Inc()
	if evt.Dur > 0 {
		s.stageDuration.WithLabelValues(string(evt.Stage)).Observe(evt.Dur.Seconds())
	}
}

func (s *PrometheusSink) handleFetchEvent(evt progress.Event) {
	site := evt.Site
	if site == "" {
		site = "unknown"
	}
	statusClass := string(evt.StatusClass)
	if statusClass == "" {
		statusClass = string(progress.StatusOther)
	}
	s.fetchRequests.WithLabelValues(site, statusClass).Inc()
	if evt.Bytes > 0 {
		s.fetchBytes.WithLabelValues(site).Add(float64(evt.Bytes))
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
