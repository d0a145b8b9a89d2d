// Package runner executes compiled pipelines over independent stream sets
// concurrently. Each run is internally sequential (transforms see events in
// order), so parallelism exists only across runs, never inside one.
package runner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/timeslice/event"
	"github.com/gyaneshwarpardhi/timeslice/internal/config"
	"github.com/gyaneshwarpardhi/timeslice/internal/metrics"
	"github.com/gyaneshwarpardhi/timeslice/internal/pipeline"
)

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	RunID      string        `json:"run_id"`
	PipelineID string        `json:"pipeline_id"`
	DurationMs int64         `json:"duration_ms"`
	Events     []event.Event `json:"events"`
	Error      string        `json:"error,omitempty"`
}

type runWork struct {
	runID      string
	pipelineID string
	streams    *pipeline.Streams
	resultC    chan *RunResult
}

// Runner dispatches pipeline runs to a bounded worker pool.
type Runner struct {
	set  atomic.Pointer[pipeline.Set]
	pool *workerPool[*runWork]
	conf *config.RunnerConf
}

// New creates a Runner using conf and starts its worker pool.
func New(ctx context.Context, set *pipeline.Set, conf config.RunnerConf) *Runner {
	r := &Runner{conf: &conf}
	r.set.Store(set)
	r.pool = newWorkerPool(ctx, conf.Workers, conf.QueueDepth, func(ctx context.Context, w *runWork) {
		res := r.processRun(w)
		if w.resultC != nil {
			w.resultC <- res
		}
	})
	return r
}

// SwapSet atomically replaces the pipeline set (used on hot-reload).
func (r *Runner) SwapSet(set *pipeline.Set) {
	r.set.Store(set)
}

// RunSync runs a pipeline over the given streams and waits for the result.
// Returns an error if the queue is full or the run times out.
func (r *Runner) RunSync(ctx context.Context, pipelineID string, streams *pipeline.Streams) (*RunResult, error) {
	resultC := make(chan *RunResult, 1)
	w := &runWork{
		runID:      uuid.New().String(),
		pipelineID: pipelineID,
		streams:    streams,
		resultC:    resultC,
	}

	if !r.pool.Submit(w) {
		metrics.RunsDropped.Inc()
		return nil, fmt.Errorf("run queue full (capacity %d)", r.conf.QueueDepth)
	}
	metrics.RunsStarted.Inc()

	timeout := time.Duration(r.conf.RunTimeoutMs) * time.Millisecond
	select {
	case res := <-resultC:
		return res, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("run %s timeout after %v", w.runID, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunAsync enqueues a run without waiting. Returns false if the queue is full.
func (r *Runner) RunAsync(pipelineID string, streams *pipeline.Streams) bool {
	w := &runWork{
		runID:      uuid.New().String(),
		pipelineID: pipelineID,
		streams:    streams,
	}
	if !r.pool.Submit(w) {
		metrics.RunsDropped.Inc()
		return false
	}
	metrics.RunsStarted.Inc()
	return true
}

// QueueUtilization returns queue used / capacity (0–1).
func (r *Runner) QueueUtilization() float64 {
	if r.pool.QueueCap() == 0 {
		return 0
	}
	return float64(r.pool.QueueLen()) / float64(r.pool.QueueCap())
}

func (r *Runner) processRun(w *runWork) *RunResult {
	start := time.Now()
	result := &RunResult{RunID: w.runID, PipelineID: w.pipelineID}

	p, err := r.set.Load().Get(w.pipelineID)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	metrics.EventsIn.WithLabelValues(w.pipelineID).Add(float64(len(w.streams.Primary)))
	out, err := p.Run(w.streams)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Events = out
		metrics.EventsOut.WithLabelValues(w.pipelineID).Add(float64(len(out)))
	}

	result.DurationMs = time.Since(start).Milliseconds()
	metrics.RunsCompleted.Inc()
	metrics.RunDuration.Observe(float64(result.DurationMs))
	return result
}

// Shutdown drains the pool gracefully.
func (r *Runner) Shutdown() {
	r.pool.Drain()
}
