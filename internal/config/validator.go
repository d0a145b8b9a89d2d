package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the config for:
//   - Duplicate pipeline IDs
//   - Required fields per transform kind
//   - Parseable pulsetime durations
//
// All problems are collected and reported together.
func Validate(cfg *PipelineConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	ids := make(map[string]int) // id → index first seen
	var errs []string

	for i, p := range cfg.Pipelines {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("pipelines[%d]: id is required", i))
			continue
		}
		if prev, ok := ids[p.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate pipeline id %q (pipelines[%d] and pipelines[%d])", p.ID, prev, i))
		} else {
			ids[p.ID] = i
		}
		if len(p.Steps) == 0 {
			errs = append(errs, fmt.Sprintf("pipeline %s: steps must not be empty", p.ID))
		}
		for j, s := range p.Steps {
			validateStep(s, fmt.Sprintf("pipeline %s steps[%d]", p.ID, j), &errs)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateStep(s Step, loc string, errs *[]string) {
	if s.Transform == "" {
		*errs = append(*errs, fmt.Sprintf("%s: transform is required", loc))
		return
	}
	switch s.Transform {
	case "filter_keyvals":
		if s.Key == "" {
			*errs = append(*errs, fmt.Sprintf("%s (filter_keyvals): key is required", loc))
		}
		if len(s.Values) == 0 {
			*errs = append(*errs, fmt.Sprintf("%s (filter_keyvals): values must not be empty", loc))
		}
	case "filter_period_intersect":
		if s.FilterWith == "" {
			*errs = append(*errs, fmt.Sprintf("%s (filter_period_intersect): filter_with is required", loc))
		}
	case "heartbeat_reduce":
		if s.Pulsetime == "" {
			*errs = append(*errs, fmt.Sprintf("%s (heartbeat_reduce): pulsetime is required", loc))
		} else if d, err := time.ParseDuration(s.Pulsetime); err != nil {
			*errs = append(*errs, fmt.Sprintf("%s (heartbeat_reduce): invalid pulsetime %q: %s", loc, s.Pulsetime, err))
		} else if d < 0 {
			*errs = append(*errs, fmt.Sprintf("%s (heartbeat_reduce): pulsetime must be >= 0, got %s", loc, d))
		}
	case "merge_events_by_keys":
		if len(s.Keys) == 0 {
			*errs = append(*errs, fmt.Sprintf("%s (merge_events_by_keys): keys must not be empty", loc))
		}
	case "filter_match":
		if s.Expression == "" {
			*errs = append(*errs, fmt.Sprintf("%s (filter_match): expression is required", loc))
		}
	case "split_url_events", "sort_by_timestamp", "sort_by_duration":
		// No parameters.
	default:
		// Unknown names surface at build time through the step registry; here
		// we only check the shapes we know.
	}
}
