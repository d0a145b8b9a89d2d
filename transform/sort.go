package transform

import (
	"sort"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

// SortByTimestamp returns a new slice ordered by timestamp ascending, stable
// on ties. The input is left untouched.
func SortByTimestamp(events []event.Event) []event.Event {
	out := make([]event.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// SortByDuration returns a new slice ordered by duration ascending, stable on
// ties.
func SortByDuration(events []event.Event) []event.Event {
	out := make([]event.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Duration < out[j].Duration
	})
	return out
}
