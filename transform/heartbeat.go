package transform

import (
	"time"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

// HeartbeatMerge decides whether heartbeat may extend last's interval. They
// merge only when their attribute maps are structurally equal, the heartbeat
// does not start before last, and the gap since last ended is within pulsetime
// (a heartbeat entirely inside last's interval has a negative gap and is
// always within tolerance).
//
// On success the returned event keeps last's start and data, with its end
// pushed out to whichever of the two intervals ends later. The false return is
// the "no merge" branch: callers start a fresh interval from the heartbeat.
func HeartbeatMerge(last, heartbeat event.Event, pulsetime time.Duration) (event.Event, bool) {
	if !event.DataEqual(last.Data, heartbeat.Data) {
		return event.Event{}, false
	}
	if heartbeat.Timestamp.Before(last.Timestamp) {
		return event.Event{}, false
	}
	if heartbeat.Timestamp.Sub(last.End()) > pulsetime {
		return event.Event{}, false
	}
	end := last.End()
	if hbEnd := heartbeat.End(); hbEnd.After(end) {
		end = hbEnd
	}
	return event.Event{
		Timestamp: last.Timestamp,
		Duration:  end.Sub(last.Timestamp),
		Data:      last.Data,
	}, true
}

// HeartbeatReduce coalesces an ordered stream of heartbeats into intervals by
// folding HeartbeatMerge left to right. Ordering by timestamp is the caller's
// responsibility. Merge decisions are strictly local: once an event fails to
// merge it closes the previous interval for good, even if a later event would
// have merged with it.
func HeartbeatReduce(events []event.Event, pulsetime time.Duration) []event.Event {
	var reduced []event.Event
	for _, e := range events {
		if n := len(reduced); n > 0 {
			if merged, ok := HeartbeatMerge(reduced[n-1], e, pulsetime); ok {
				reduced[n-1] = merged
				continue
			}
		}
		reduced = append(reduced, e)
	}
	return reduced
}
