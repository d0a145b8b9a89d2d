package event

import (
	"encoding/json"
	"time"
)

// Event is the canonical record flowing through all transforms: a time-stamped,
// duration-bearing sample with an opaque attribute mapping.
type Event struct {
	ID        string         `json:"id,omitempty"` // assigned at ingestion, empty on derived events
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration"` // always >= 0
	Data      map[string]any `json:"data"`
}

// Start returns the beginning of the event's period.
func (e Event) Start() time.Time { return e.Timestamp }

// End returns the exclusive end of the half-open period [Timestamp, Timestamp+Duration).
func (e Event) End() time.Time { return e.Timestamp.Add(e.Duration) }

// wireEvent is the JSON shape used by the upstream collection pipeline:
// RFC 3339 timestamp, duration in seconds.
type wireEvent struct {
	ID        string         `json:"id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Duration  float64        `json:"duration"`
	Data      map[string]any `json:"data"`
}

// MarshalJSON encodes the duration as seconds.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Duration:  e.Duration.Seconds(),
		Data:      e.Data,
	})
}

// UnmarshalJSON decodes the seconds-valued duration back to a time.Duration.
func (e *Event) UnmarshalJSON(b []byte) error {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	e.ID = w.ID
	e.Timestamp = w.Timestamp
	e.Duration = time.Duration(w.Duration * float64(time.Second))
	e.Data = w.Data
	return nil
}

// CloneData returns a shallow copy of the event's attribute map. Transforms that
// derive new attributes copy first so inputs are never mutated.
func (e Event) CloneData() map[string]any {
	if e.Data == nil {
		return nil
	}
	m := make(map[string]any, len(e.Data))
	for k, v := range e.Data {
		m[k] = v
	}
	return m
}
