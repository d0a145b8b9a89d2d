package transform

import "github.com/gyaneshwarpardhi/timeslice/event"

// FilterKeyvals returns the events whose string value for key equals one of
// vals. With exclude set the selection inverts: matching events are dropped
// and everything else kept. Events where key is absent or not a string never
// match, so under exclude they pass through.
func FilterKeyvals(events []event.Event, key string, vals []string, exclude bool) []event.Event {
	var out []event.Event
	for _, e := range events {
		if matchesKeyval(e, key, vals) != exclude {
			out = append(out, e)
		}
	}
	return out
}

func matchesKeyval(e event.Event, key string, vals []string) bool {
	s, ok := e.Data[key].(string)
	if !ok {
		return false
	}
	for _, v := range vals {
		if s == v {
			return true
		}
	}
	return false
}
