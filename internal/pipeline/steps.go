package pipeline

import (
	"fmt"
	"time"

	"github.com/gyaneshwarpardhi/timeslice/event"
	"github.com/gyaneshwarpardhi/timeslice/internal/config"
	"github.com/gyaneshwarpardhi/timeslice/internal/metrics"
	"github.com/gyaneshwarpardhi/timeslice/match"
	"github.com/gyaneshwarpardhi/timeslice/transform"
)

func registerBuiltins(r *Registry) {
	r.Register("filter_keyvals", newKeyvalsStep)
	r.Register("filter_period_intersect", newIntersectStep)
	r.Register("heartbeat_reduce", newHeartbeatStep)
	r.Register("merge_events_by_keys", newMergeKeysStep)
	r.Register("filter_match", newMatchStep)
	r.Register("split_url_events", newURLStep)
	r.Register("sort_by_timestamp", newSortTimestampStep)
	r.Register("sort_by_duration", newSortDurationStep)
}

// ── filter_keyvals ──────────────────────────────────────────────────────────

type keyvalsStep struct {
	key     string
	values  []string
	exclude bool
}

func newKeyvalsStep(s config.Step) (Step, error) {
	if s.Key == "" {
		return nil, fmt.Errorf("filter_keyvals: key is required")
	}
	if len(s.Values) == 0 {
		return nil, fmt.Errorf("filter_keyvals: values must not be empty")
	}
	return &keyvalsStep{key: s.Key, values: s.Values, exclude: s.Exclude}, nil
}

func (s *keyvalsStep) Name() string { return "filter_keyvals" }

func (s *keyvalsStep) Apply(in []event.Event, _ *Streams) ([]event.Event, error) {
	return transform.FilterKeyvals(in, s.key, s.values, s.exclude), nil
}

// ── filter_period_intersect ─────────────────────────────────────────────────

type intersectStep struct {
	streamName string
}

func newIntersectStep(s config.Step) (Step, error) {
	if s.FilterWith == "" {
		return nil, fmt.Errorf("filter_period_intersect: filter_with is required")
	}
	return &intersectStep{streamName: s.FilterWith}, nil
}

func (s *intersectStep) Name() string { return "filter_period_intersect" }

func (s *intersectStep) Apply(in []event.Event, streams *Streams) ([]event.Event, error) {
	with, ok := streams.Stream(s.streamName)
	if !ok {
		return nil, fmt.Errorf("secondary stream %q not provided", s.streamName)
	}
	return transform.FilterPeriodIntersect(in, with), nil
}

// ── heartbeat_reduce ────────────────────────────────────────────────────────

type heartbeatStep struct {
	pulsetime time.Duration
}

func newHeartbeatStep(s config.Step) (Step, error) {
	d, err := time.ParseDuration(s.Pulsetime)
	if err != nil {
		return nil, fmt.Errorf("heartbeat_reduce: invalid pulsetime %q: %w", s.Pulsetime, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("heartbeat_reduce: pulsetime must be >= 0, got %s", d)
	}
	return &heartbeatStep{pulsetime: d}, nil
}

func (s *heartbeatStep) Name() string { return "heartbeat_reduce" }

func (s *heartbeatStep) Apply(in []event.Event, _ *Streams) ([]event.Event, error) {
	return transform.HeartbeatReduce(in, s.pulsetime), nil
}

// ── merge_events_by_keys ────────────────────────────────────────────────────

type mergeKeysStep struct {
	keys []string
}

func newMergeKeysStep(s config.Step) (Step, error) {
	if len(s.Keys) == 0 {
		return nil, fmt.Errorf("merge_events_by_keys: keys must not be empty")
	}
	return &mergeKeysStep{keys: s.Keys}, nil
}

func (s *mergeKeysStep) Name() string { return "merge_events_by_keys" }

func (s *mergeKeysStep) Apply(in []event.Event, _ *Streams) ([]event.Event, error) {
	return transform.MergeEventsByKeys(in, s.keys), nil
}

// ── filter_match ────────────────────────────────────────────────────────────

type matchStep struct {
	expr match.Expr
}

func newMatchStep(s config.Step) (Step, error) {
	expr, err := match.Parse(s.Expression)
	if err != nil {
		return nil, fmt.Errorf("filter_match: parse %q: %w", s.Expression, err)
	}
	return &matchStep{expr: expr}, nil
}

func (s *matchStep) Name() string { return "filter_match" }

// Apply keeps the events the expression accepts. Evaluation errors fail the
// predicate closed: the event is excluded and the error counted, never fatal
// to the run.
func (s *matchStep) Apply(in []event.Event, _ *Streams) ([]event.Event, error) {
	var out []event.Event
	for _, e := range in {
		ok, err := match.Evaluate(s.expr, e)
		if err != nil {
			metrics.MatchEvalErrors.Inc()
			continue
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── parameterless steps ─────────────────────────────────────────────────────

type urlStep struct{}

func newURLStep(config.Step) (Step, error) { return urlStep{}, nil }

func (urlStep) Name() string { return "split_url_events" }

func (urlStep) Apply(in []event.Event, _ *Streams) ([]event.Event, error) {
	return transform.SplitURLEvents(in), nil
}

type sortTimestampStep struct{}

func newSortTimestampStep(config.Step) (Step, error) { return sortTimestampStep{}, nil }

func (sortTimestampStep) Name() string { return "sort_by_timestamp" }

func (sortTimestampStep) Apply(in []event.Event, _ *Streams) ([]event.Event, error) {
	return transform.SortByTimestamp(in), nil
}

type sortDurationStep struct{}

func newSortDurationStep(config.Step) (Step, error) { return sortDurationStep{}, nil }

func (sortDurationStep) Name() string { return "sort_by_duration" }

func (sortDurationStep) Apply(in []event.Event, _ *Streams) ([]event.Event, error) {
	return transform.SortByDuration(in), nil
}
