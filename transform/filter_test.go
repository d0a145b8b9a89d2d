package transform

import (
	"testing"
	"time"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

func TestFilterKeyvals(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []event.Event{
		mkEvent(now, time.Second, map[string]any{"label": "a"}),
		mkEvent(now, time.Second, map[string]any{"label": "b"}),
		mkEvent(now, time.Second, map[string]any{"label": "c"}),
	}
	labels := []string{"a", "c"}

	included := FilterKeyvals(events, "label", labels, false)
	if len(included) != 2 {
		t.Errorf("included = %d events, want 2", len(included))
	}
	excluded := FilterKeyvals(events, "label", labels, true)
	if len(excluded) != 1 {
		t.Fatalf("excluded = %d events, want 1", len(excluded))
	}
	if excluded[0].Data["label"] != "b" {
		t.Errorf("excluded kept %v, want b", excluded[0].Data["label"])
	}
}

func TestFilterKeyvalsNonString(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []event.Event{
		mkEvent(now, time.Second, map[string]any{"label": 42}),
		mkEvent(now, time.Second, map[string]any{"other": "a"}),
	}

	// Non-string and absent values never match...
	if got := FilterKeyvals(events, "label", []string{"42", "a"}, false); len(got) != 0 {
		t.Errorf("include matched %d events, want 0", len(got))
	}
	// ...so under exclude they pass through.
	if got := FilterKeyvals(events, "label", []string{"42", "a"}, true); len(got) != 2 {
		t.Errorf("exclude kept %d events, want 2", len(got))
	}
}
