package credentials

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	token, err := s.Get(ctx)
	if err != nil || token != "" {
		t.Fatalf("empty slot: token=%q err=%v", token, err)
	}

	if err := s.Set(ctx, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	token, _ = s.Get(ctx)
	if token != "tok-1" {
		t.Fatalf("token = %q", token)
	}

	if err := s.Set(ctx, "tok-2"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	token, _ = s.Get(ctx)
	if token != "tok-2" {
		t.Fatalf("token = %q", token)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	token, _ = s.Get(ctx)
	if token != "" {
		t.Fatalf("token after clear = %q", token)
	}

	// Clearing an empty slot is fine.
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestMemoryStoreWatchPresenceTransitions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var events []bool
	stop := s.Watch(func(present bool) {
		events = append(events, present)
	})
	defer stop()

	_ = s.Set(ctx, "tok-1")
	// Replacing a present token is not a presence transition.
	_ = s.Set(ctx, "tok-2")
	_ = s.Clear(ctx)
	// Neither is clearing an empty slot.
	_ = s.Clear(ctx)

	want := []bool{true, false}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestMemoryStoreWatchStop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	calls := 0
	stop := s.Watch(func(bool) { calls++ })
	stop()

	_ = s.Set(ctx, "tok")
	if calls != 0 {
		t.Fatalf("stopped watcher fired %d times", calls)
	}
}
