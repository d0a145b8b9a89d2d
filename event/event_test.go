package event

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEventPeriod(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	e := Event{Timestamp: now, Duration: 90 * time.Second}
	if !e.Start().Equal(now) {
		t.Errorf("Start = %v, want %v", e.Start(), now)
	}
	if !e.End().Equal(now.Add(90 * time.Second)) {
		t.Errorf("End = %v, want %v", e.End(), now.Add(90*time.Second))
	}
}

func TestEventJSONDurationSeconds(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	e := Event{Timestamp: now, Duration: 1500 * time.Millisecond, Data: map[string]any{"app": "editor"}}

	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), `"duration":1.5`) {
		t.Errorf("duration not encoded as seconds: %s", b)
	}

	var back Event
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Duration != e.Duration {
		t.Errorf("duration round-trip = %v, want %v", back.Duration, e.Duration)
	}
	if !back.Timestamp.Equal(e.Timestamp) {
		t.Errorf("timestamp round-trip = %v, want %v", back.Timestamp, e.Timestamp)
	}
}

func TestCloneData(t *testing.T) {
	e := Event{Data: map[string]any{"app": "editor"}}
	c := e.CloneData()
	c["app"] = "browser"
	if e.Data["app"] != "editor" {
		t.Errorf("clone shares storage with original")
	}
	var empty Event
	if empty.CloneData() != nil {
		t.Errorf("clone of nil data should be nil")
	}
}
