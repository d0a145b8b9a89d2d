package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeslice_runs_started_total",
		Help: "Total number of pipeline runs submitted to the pool.",
	})

	RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeslice_runs_completed_total",
		Help: "Total number of pipeline runs that finished.",
	})

	RunsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeslice_runs_dropped_total",
		Help: "Total number of runs rejected due to a full queue.",
	})

	EventsIn = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timeslice_events_in_total",
		Help: "Total number of events fed into a pipeline, labelled by pipeline ID.",
	}, []string{"pipeline_id"})

	EventsOut = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timeslice_events_out_total",
		Help: "Total number of events produced by a pipeline, labelled by pipeline ID.",
	}, []string{"pipeline_id"})

	StepsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timeslice_steps_applied_total",
		Help: "Total number of step applications, labelled by transform name.",
	}, []string{"transform"})

	MatchEvalErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeslice_match_eval_errors_total",
		Help: "Total number of events excluded by filter_match due to evaluation errors.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "timeslice_run_duration_ms",
		Help:    "End-to-end pipeline run latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)
