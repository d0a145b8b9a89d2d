package config

// PipelineConfig is the top-level YAML structure.
type PipelineConfig struct {
	Version   string     `yaml:"version"`
	Runner    RunnerConf `yaml:"runner"`
	Pipelines []Pipeline `yaml:"pipelines"`
}

// RunnerConf holds tunable concurrency settings for the run pool.
type RunnerConf struct {
	Workers      int `yaml:"workers"`
	QueueDepth   int `yaml:"queue_depth"`
	RunTimeoutMs int `yaml:"run_timeout_ms"`
}

// Pipeline names an ordered chain of transform steps.
type Pipeline struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Enabled     bool   `yaml:"enabled"`
	Steps       []Step `yaml:"steps"`
}

// Step is a flat step definition: Transform selects the transform, the other
// fields are its parameters. Which fields are required depends on Transform
// (see Validate); unused fields stay zero.
type Step struct {
	Transform string `yaml:"transform"`

	// filter_keyvals
	Key     string   `yaml:"key,omitempty"`
	Values  []string `yaml:"values,omitempty"`
	Exclude bool     `yaml:"exclude,omitempty"`

	// filter_period_intersect: name of the secondary stream to clip against.
	FilterWith string `yaml:"filter_with,omitempty"`

	// heartbeat_reduce: Go duration string, e.g. "120s".
	Pulsetime string `yaml:"pulsetime,omitempty"`

	// merge_events_by_keys
	Keys []string `yaml:"keys,omitempty"`

	// filter_match
	Expression string `yaml:"expression,omitempty"`
}
