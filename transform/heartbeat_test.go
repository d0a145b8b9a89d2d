package transform

import (
	"testing"
	"time"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

func TestHeartbeatMerge(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	data := map[string]any{"status": "active"}

	tests := []struct {
		name      string
		last      event.Event
		heartbeat event.Event
		pulsetime time.Duration
		wantOK    bool
		wantDur   time.Duration
	}{
		{
			name:      "gap within pulsetime",
			last:      mkEvent(now, 10*time.Second, data),
			heartbeat: mkEvent(now.Add(15*time.Second), 0, data),
			pulsetime: 10 * time.Second,
			wantOK:    true,
			wantDur:   15 * time.Second,
		},
		{
			name:      "gap exactly pulsetime",
			last:      mkEvent(now, 10*time.Second, data),
			heartbeat: mkEvent(now.Add(20*time.Second), 0, data),
			pulsetime: 10 * time.Second,
			wantOK:    true,
			wantDur:   20 * time.Second,
		},
		{
			name:      "gap exceeds pulsetime",
			last:      mkEvent(now, 10*time.Second, data),
			heartbeat: mkEvent(now.Add(30*time.Second), 0, data),
			pulsetime: 10 * time.Second,
			wantOK:    false,
		},
		{
			name:      "data mismatch never merges",
			last:      mkEvent(now, 10*time.Second, data),
			heartbeat: mkEvent(now.Add(1*time.Second), 0, map[string]any{"status": "afk"}),
			pulsetime: time.Hour,
			wantOK:    false,
		},
		{
			name:      "heartbeat inside existing interval",
			last:      mkEvent(now, time.Minute, data),
			heartbeat: mkEvent(now.Add(10*time.Second), 0, data),
			pulsetime: 0,
			wantOK:    true,
			wantDur:   time.Minute,
		},
		{
			name:      "heartbeat starting before last never merges",
			last:      mkEvent(now, 10*time.Second, data),
			heartbeat: mkEvent(now.Add(-5*time.Second), time.Second, data),
			pulsetime: time.Hour,
			wantOK:    false,
		},
		{
			name:      "heartbeat end extends past last end",
			last:      mkEvent(now, 10*time.Second, data),
			heartbeat: mkEvent(now.Add(8*time.Second), 30*time.Second, data),
			pulsetime: 10 * time.Second,
			wantOK:    true,
			wantDur:   38 * time.Second,
		},
		{
			name:      "zero-duration events at same instant",
			last:      mkEvent(now, 0, data),
			heartbeat: mkEvent(now, 0, data),
			pulsetime: 0,
			wantOK:    true,
			wantDur:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, ok := HeartbeatMerge(tt.last, tt.heartbeat, tt.pulsetime)
			if ok != tt.wantOK {
				t.Fatalf("merged = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !merged.Timestamp.Equal(tt.last.Timestamp) {
				t.Errorf("start moved: %v, want %v", merged.Timestamp, tt.last.Timestamp)
			}
			if merged.Duration != tt.wantDur {
				t.Errorf("duration = %v, want %v", merged.Duration, tt.wantDur)
			}
			if !event.DataEqual(merged.Data, tt.last.Data) {
				t.Errorf("data changed: %v", merged.Data)
			}
		})
	}
}

func TestHeartbeatReduce(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	active := map[string]any{"status": "active"}
	afk := map[string]any{"status": "afk"}

	events := []event.Event{
		mkEvent(now, 0, active),
		mkEvent(now.Add(5*time.Second), 0, active),
		mkEvent(now.Add(10*time.Second), 0, active),
		mkEvent(now.Add(15*time.Second), 0, afk),
		mkEvent(now.Add(20*time.Second), 0, active),
	}
	got := HeartbeatReduce(events, 10*time.Second)
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].Duration != 10*time.Second {
		t.Errorf("first interval duration = %v, want 10s", got[0].Duration)
	}
	// The afk event splits the actives: the trailing active never merges back
	// into the first interval even though it is within pulsetime of it.
	if !event.DataEqual(got[1].Data, afk) {
		t.Errorf("middle interval data = %v, want afk", got[1].Data)
	}
	if !got[2].Timestamp.Equal(now.Add(20 * time.Second)) {
		t.Errorf("trailing interval start = %v, want %v", got[2].Timestamp, now.Add(20*time.Second))
	}
}

func TestHeartbeatReduceIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	data := map[string]any{"app": "terminal"}

	var events []event.Event
	for i := 0; i < 10; i++ {
		events = append(events, mkEvent(now.Add(time.Duration(i)*time.Second), 0, data))
	}
	once := HeartbeatReduce(events, 5*time.Second)
	twice := HeartbeatReduce(once, 5*time.Second)
	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("lengths = %d, %d, want 1, 1", len(once), len(twice))
	}
	if !once[0].Timestamp.Equal(twice[0].Timestamp) || once[0].Duration != twice[0].Duration {
		t.Errorf("reducing a reduced stream changed it: %+v vs %+v", once[0], twice[0])
	}
}

func TestHeartbeatReduceEmpty(t *testing.T) {
	if got := HeartbeatReduce(nil, time.Second); len(got) != 0 {
		t.Fatalf("got %d events, want 0", len(got))
	}
}
