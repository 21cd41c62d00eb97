package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"courtflow/models"
)

func boolPtr(b bool) *bool { return &b }

type staticSource struct {
	slots []models.SlotLike
	err   error
}

func (s *staticSource) GetAvailability(ctx context.Context, resourceID, date string, durationMinutes int) ([]models.SlotLike, error) {
	return s.slots, s.err
}

// gatedSource blocks each fetch until the test releases its gate, and signals
// the test once the fetch has been issued. Keyed by resourceID.
type gatedSource struct {
	mu      sync.Mutex
	started map[string]chan struct{}
	gates   map[string]chan struct{}
	slots   map[string][]models.SlotLike
}

func newGatedSource() *gatedSource {
	return &gatedSource{
		started: make(map[string]chan struct{}),
		gates:   make(map[string]chan struct{}),
		slots:   make(map[string][]models.SlotLike),
	}
}

func (s *gatedSource) add(resourceID string, slots []models.SlotLike) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started[resourceID] = make(chan struct{})
	s.gates[resourceID] = make(chan struct{})
	s.slots[resourceID] = slots
}

func (s *gatedSource) GetAvailability(ctx context.Context, resourceID, date string, durationMinutes int) ([]models.SlotLike, error) {
	s.mu.Lock()
	started, gate, slots := s.started[resourceID], s.gates[resourceID], s.slots[resourceID]
	s.mu.Unlock()
	close(started)
	<-gate
	return slots, nil
}

func TestResolveIncompleteTriple(t *testing.T) {
	resolver := NewAvailabilityResolver(&staticSource{slots: []models.SlotLike{{StartTime: "14:00"}}})

	cases := []struct {
		name     string
		resource string
		date     string
		duration int
	}{
		{name: "no resource", date: "2025-03-10", duration: 60},
		{name: "no date", resource: "court-3", duration: 60},
		{name: "no duration", resource: "court-3", date: "2025-03-10"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := resolver.Resolve(context.Background(), tt.resource, tt.date, tt.duration)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(slots) != 0 {
				t.Fatalf("expected no slots for incomplete triple, got %d", len(slots))
			}
		})
	}
}

func TestResolveNormalizesSlots(t *testing.T) {
	source := &staticSource{slots: []models.SlotLike{
		// Minimal record: only a start clock and a price.
		{StartTime: "14:00", Price: 100},
		// Duplicate of the same window, marked unavailable; the available
		// entry must win.
		{StartTime: "14:00:00", EndTime: "15:00:00", Available: boolPtr(false)},
		// Later slot listed first in raw order.
		{Label: "10:00-11:00", Price: 80},
		// Unrecognizable record, silently skipped.
		{Label: "whole day"},
		// Negative price clamped.
		{StartTime: "18:00", Price: -5},
	}}
	resolver := NewAvailabilityResolver(source)

	slots, err := resolver.Resolve(context.Background(), "court-12", "2025-03-10", 60)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3: %+v", len(slots), slots)
	}

	first := slots[0]
	if first.StartTime != "10:00:00" || first.EndTime != "11:00:00" || first.Price != 80 {
		t.Errorf("slots not sorted by start or label range not parsed: %+v", first)
	}

	second := slots[1]
	if second.StartTime != "14:00:00" || second.EndTime != "15:00:00" {
		t.Errorf("minimal record not normalized: %+v", second)
	}
	if !second.Available {
		t.Errorf("available entry should win dedupe over unavailable duplicate")
	}
	if second.Price != 100 {
		t.Errorf("price = %v, want 100", second.Price)
	}
	if second.Label != "14:00 - 15:00" {
		t.Errorf("fallback label = %q, want %q", second.Label, "14:00 - 15:00")
	}

	if slots[2].Price != 0 {
		t.Errorf("negative price should clamp to 0, got %v", slots[2].Price)
	}
}

func TestResolveFetchError(t *testing.T) {
	resolver := NewAvailabilityResolver(&staticSource{err: errors.New("connection refused")})

	_, err := resolver.Resolve(context.Background(), "court-3", "2025-03-10", 60)
	var fetchErr *AvailabilityFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %T (%v), want *AvailabilityFetchError", err, err)
	}
	if got := resolver.Current(); len(got) != 0 {
		t.Fatalf("failed fetch must not populate the cache, got %+v", got)
	}
}

func TestResolveDiscardsStaleResponse(t *testing.T) {
	source := newGatedSource()
	source.add("court-old", []models.SlotLike{{StartTime: "09:00"}})
	source.add("court-new", []models.SlotLike{{StartTime: "17:00"}})
	resolver := NewAvailabilityResolver(source)

	type result struct {
		slots []models.Slot
		err   error
	}
	oldDone := make(chan result, 1)
	newDone := make(chan result, 1)

	go func() {
		slots, err := resolver.Resolve(context.Background(), "court-old", "2025-03-10", 60)
		oldDone <- result{slots, err}
	}()
	<-source.started["court-old"]

	go func() {
		slots, err := resolver.Resolve(context.Background(), "court-new", "2025-03-10", 60)
		newDone <- result{slots, err}
	}()
	<-source.started["court-new"]

	// The newer request's response lands first and is applied.
	close(source.gates["court-new"])
	newRes := <-newDone
	if newRes.err != nil {
		t.Fatalf("newer resolve failed: %v", newRes.err)
	}
	if len(newRes.slots) != 1 || newRes.slots[0].StartTime != "17:00:00" {
		t.Fatalf("newer resolve slots = %+v", newRes.slots)
	}

	// The older request's response lands afterwards and must be discarded.
	close(source.gates["court-old"])
	oldRes := <-oldDone
	if !errors.Is(oldRes.err, ErrSuperseded) {
		t.Fatalf("older resolve error = %v, want ErrSuperseded", oldRes.err)
	}

	current := resolver.Current()
	if len(current) != 1 || current[0].StartTime != "17:00:00" {
		t.Fatalf("cache = %+v, want the newer triple's slots only", current)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	resolver := NewAvailabilityResolver(&staticSource{slots: []models.SlotLike{{StartTime: "14:00"}}})
	if _, err := resolver.Resolve(context.Background(), "court-3", "2025-03-10", 60); err != nil {
		t.Fatal(err)
	}

	got := resolver.Current()
	got[0].StartTime = "mutated"
	if resolver.Current()[0].StartTime != "14:00:00" {
		t.Fatal("Current must return a copy, not the internal slice")
	}
}
