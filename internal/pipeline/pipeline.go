// Package pipeline compiles YAML-defined transform chains and runs them over
// event streams.
package pipeline

import (
	"fmt"

	"github.com/gyaneshwarpardhi/timeslice/event"
	"github.com/gyaneshwarpardhi/timeslice/internal/metrics"
)

// Streams is the input to a pipeline run: the primary event stream plus any
// named secondary streams referenced by steps (filter_period_intersect).
type Streams struct {
	Primary []event.Event
	Named   map[string][]event.Event
}

// Stream returns the named secondary stream.
func (s *Streams) Stream(name string) ([]event.Event, bool) {
	ev, ok := s.Named[name]
	return ev, ok
}

// Step applies one transform to the working stream. Steps are compiled once by
// the builder and are safe for concurrent use.
type Step interface {
	Name() string
	Apply(in []event.Event, streams *Streams) ([]event.Event, error)
}

// Pipeline is a compiled, immutable chain of steps.
type Pipeline struct {
	id          string
	description string
	steps       []Step
}

func (p *Pipeline) ID() string          { return p.id }
func (p *Pipeline) Description() string { return p.description }
func (p *Pipeline) StepCount() int      { return len(p.steps) }

// Run applies the steps in order to the primary stream and returns the final
// stream. Inputs are never mutated; a failing step aborts the run.
func (p *Pipeline) Run(streams *Streams) ([]event.Event, error) {
	current := streams.Primary
	for i, s := range p.steps {
		next, err := s.Apply(current, streams)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s step %d (%s): %w", p.id, i, s.Name(), err)
		}
		metrics.StepsApplied.WithLabelValues(s.Name()).Inc()
		current = next
	}
	return current, nil
}

// Set is an immutable collection of compiled pipelines keyed by ID. Hot-reload
// builds a new Set and swaps it atomically in the runner.
type Set struct {
	pipelines map[string]*Pipeline
}

// NewSet builds a Set from compiled pipelines.
func NewSet(pipelines []*Pipeline) *Set {
	m := make(map[string]*Pipeline, len(pipelines))
	for _, p := range pipelines {
		m[p.id] = p
	}
	return &Set{pipelines: m}
}

// Get returns the pipeline with the given ID.
func (s *Set) Get(id string) (*Pipeline, error) {
	p, ok := s.pipelines[id]
	if !ok {
		return nil, fmt.Errorf("no pipeline with id %q", id)
	}
	return p, nil
}

// IDs returns all pipeline IDs in the set.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.pipelines))
	for id := range s.pipelines {
		out = append(out, id)
	}
	return out
}

// Len returns the number of pipelines in the set.
func (s *Set) Len() int { return len(s.pipelines) }
