package pipeline

import (
	"fmt"

	"github.com/gyaneshwarpardhi/timeslice/internal/config"
)

// Build compiles a validated config into a Set of pipelines. All expression
// and duration parsing happens here; zero parsing happens at run time.
// Disabled pipelines are skipped.
func Build(cfg *config.PipelineConfig, reg *Registry) (*Set, error) {
	var compiled []*Pipeline
	for _, p := range cfg.Pipelines {
		if !p.Enabled {
			continue
		}
		pl, err := buildPipeline(p, reg)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: %w", p.ID, err)
		}
		compiled = append(compiled, pl)
	}
	return NewSet(compiled), nil
}

func buildPipeline(p config.Pipeline, reg *Registry) (*Pipeline, error) {
	steps := make([]Step, 0, len(p.Steps))
	for i, def := range p.Steps {
		factory, err := reg.Get(def.Transform)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		step, err := factory(def)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		steps = append(steps, step)
	}
	return &Pipeline{id: p.ID, description: p.Description, steps: steps}, nil
}
