// Package transform implements the event interval algebra: period clipping,
// heartbeat coalescing, key-based aggregation, and the small per-event
// transforms applied around them.
package transform

import (
	"time"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

// period is the half-open interval [start, end) covered by an event.
type period struct {
	start time.Time
	end   time.Time
}

func periodOf(e event.Event) period {
	return period{start: e.Timestamp, end: e.End()}
}

// intersect returns the overlap with y. The second value is false when the
// overlap is empty; touching endpoints (end == start) do not count.
func (x period) intersect(y period) (period, bool) {
	start := x.start
	if y.start.After(start) {
		start = y.start
	}
	end := x.end
	if y.end.Before(end) {
		end = y.end
	}
	if !end.After(start) {
		return period{}, false
	}
	return period{start: start, end: end}, true
}

// FilterPeriodIntersect clips every event in toFilter to the periods covered by
// filterWith. Each (e, f) pair that overlaps emits one event carrying e's data,
// clipped to the overlap; pairs are emitted in toFilter-outer, filterWith-inner
// order and are never merged or unioned, so filterWith events covering the same
// region of an input each produce their own output.
func FilterPeriodIntersect(toFilter, filterWith []event.Event) []event.Event {
	var out []event.Event
	for _, e := range toFilter {
		ep := periodOf(e)
		for _, f := range filterWith {
			p, ok := ep.intersect(periodOf(f))
			if !ok {
				continue
			}
			out = append(out, event.Event{
				Timestamp: p.start,
				Duration:  p.end.Sub(p.start),
				Data:      e.Data,
			})
		}
	}
	return out
}
