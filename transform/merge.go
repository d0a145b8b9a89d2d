package transform

import (
	"strings"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

// groupSep separates rendered key values inside a composite group key.
const groupSep = "\x1f"

// groupKey renders the tuple of the event's values for keys into one string.
// Absent keys render as the empty marker so the tuple stays deterministic;
// callers are expected to pass streams where every key is present.
func groupKey(e event.Event, keys []string) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(groupSep)
		}
		if v, ok := e.Data[k]; ok {
			b.WriteString(event.ValueKey(v))
		}
	}
	return b.String()
}

// MergeEventsByKeys aggregates events sharing identical values for the given
// attribute keys into a single event whose duration is the group's sum. The
// first member seen supplies the output's timestamp and full attribute map, so
// attributes outside the grouped keys resolve first-wins. Output order is the
// first-appearance order of each distinct key tuple; the output timestamp is
// not meaningful after aggregation.
func MergeEventsByKeys(events []event.Event, keys []string) []event.Event {
	if len(keys) == 0 {
		return nil
	}
	index := make(map[string]int)
	var merged []event.Event
	for _, e := range events {
		gk := groupKey(e, keys)
		if i, ok := index[gk]; ok {
			merged[i].Duration += e.Duration
			continue
		}
		index[gk] = len(merged)
		merged = append(merged, event.Event{
			Timestamp: e.Timestamp,
			Duration:  e.Duration,
			Data:      e.Data,
		})
	}
	return merged
}
