package transform

import (
	"testing"
	"time"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

func mkEvent(ts time.Time, d time.Duration, data map[string]any) event.Event {
	return event.Event{Timestamp: ts, Duration: d, Data: data}
}

func TestPeriodIntersect(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(m int) time.Time { return base.Add(time.Duration(m) * time.Minute) }
	p := func(startMin, endMin int) period { return period{start: at(startMin), end: at(endMin)} }

	tests := []struct {
		id   int
		x    period
		y    period
		want period
	}{
		{1, p(2, 9), p(3, 5), p(3, 5)},
		{2, p(3, 5), p(2, 9), p(3, 5)},
		{3, p(2, 9), p(1, 7), p(2, 7)},
		{4, p(1, 7), p(2, 9), p(2, 7)},
	}
	for _, tt := range tests {
		got, ok := tt.x.intersect(tt.y)
		if !ok {
			t.Fatalf("test %d: expected an intersection", tt.id)
		}
		if got != tt.want {
			t.Fatalf("test %d: got %v, want %v", tt.id, got, tt.want)
		}
	}

	// Disjoint and touching periods do not intersect; the shared endpoint is
	// open on one side.
	x := p(1, 4)
	for _, y := range []period{p(5, 9), p(4, 9)} {
		if got, ok := x.intersect(y); ok {
			t.Fatalf("expected no intersection, got %v", got)
		}
		if got, ok := y.intersect(x); ok {
			t.Fatalf("expected no intersection, got %v", got)
		}
	}
}

func TestFilterPeriodIntersect(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	data := map[string]any{"app": "editor"}

	// A 1h event clipped by another 1h event at a 30min offset.
	toFilter := []event.Event{mkEvent(now, time.Hour, data)}
	filterWith := []event.Event{mkEvent(now.Add(30*time.Minute), time.Hour, nil)}
	got := FilterPeriodIntersect(toFilter, filterWith)
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Duration != 30*time.Minute {
		t.Errorf("duration = %v, want 30m", got[0].Duration)
	}
	if !got[0].Timestamp.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, now.Add(30*time.Minute))
	}
	if got[0].Data["app"] != "editor" {
		t.Errorf("data not preserved: %v", got[0].Data)
	}
}

func TestFilterPeriodIntersectSplit(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two 30min events with a 15min gap, clipped by one 45min event spanning
	// the middle: each input keeps 15min.
	toFilter := []event.Event{
		mkEvent(now, 30*time.Minute, nil),
		mkEvent(now.Add(45*time.Minute), 30*time.Minute, nil),
	}
	filterWith := []event.Event{
		mkEvent(now.Add(15*time.Minute), 45*time.Minute, nil),
	}
	got := FilterPeriodIntersect(toFilter, filterWith)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	for i, e := range got {
		if e.Duration != 15*time.Minute {
			t.Errorf("event %d: duration = %v, want 15m", i, e.Duration)
		}
	}

	// Swapping the roles yields the same clipped intervals.
	swapped := FilterPeriodIntersect(filterWith, toFilter)
	if len(swapped) != 2 {
		t.Fatalf("swapped: got %d events, want 2", len(swapped))
	}
	for i := range got {
		if !swapped[i].Timestamp.Equal(got[i].Timestamp) || swapped[i].Duration != got[i].Duration {
			t.Errorf("swapped event %d: got [%v, %v], want [%v, %v]",
				i, swapped[i].Timestamp, swapped[i].Duration, got[i].Timestamp, got[i].Duration)
		}
	}
}

func TestFilterPeriodIntersectPairwise(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two filterWith events covering the same region of one input produce one
	// output per pair; overlapping coverage is not unioned.
	toFilter := []event.Event{mkEvent(now, time.Hour, nil)}
	filterWith := []event.Event{
		mkEvent(now, 30*time.Minute, nil),
		mkEvent(now, 30*time.Minute, nil),
	}
	got := FilterPeriodIntersect(toFilter, filterWith)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (one per overlapping pair)", len(got))
	}
}

func TestFilterPeriodIntersectClipsWithinInput(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	toFilter := []event.Event{
		mkEvent(now, 10*time.Minute, nil),
		mkEvent(now.Add(20*time.Minute), 40*time.Minute, nil),
	}
	filterWith := []event.Event{
		mkEvent(now.Add(5*time.Minute), 30*time.Minute, nil),
		mkEvent(now.Add(50*time.Minute), 30*time.Minute, nil),
	}
	maxFilterDur := filterWith[0].Duration
	for _, f := range filterWith[1:] {
		if f.Duration > maxFilterDur {
			maxFilterDur = f.Duration
		}
	}
	for _, e := range FilterPeriodIntersect(toFilter, filterWith) {
		inside := false
		for _, src := range toFilter {
			if !e.Timestamp.Before(src.Timestamp) && !e.End().After(src.End()) {
				inside = true
				break
			}
		}
		if !inside {
			t.Errorf("output [%v, %v] not contained in any input period", e.Timestamp, e.End())
		}
		if e.Duration > maxFilterDur {
			t.Errorf("output duration %v exceeds every filter duration", e.Duration)
		}
	}
}
