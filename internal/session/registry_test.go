package session

import (
	"context"
	"testing"
	"time"

	"github.com/sanathboddhula/real-estate-AI-marketer/internal/debounce"
)

func TestRegistrySweepsIdleSessions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(Options{Backend: newFake(), Scheduler: debounce.NewManual()}, 10*time.Minute)
	r.now = func() time.Time { return now }

	idle := r.Create()
	active := r.Create()

	now = now.Add(8 * time.Minute)
	if _, ok := r.Get(active.ID()); !ok {
		t.Fatal("active session missing")
	}
	now = now.Add(4 * time.Minute)

	if n := r.Sweep(); n != 1 {
		t.Errorf("swept %d, want 1", n)
	}
	if _, ok := r.Get(idle.ID()); ok {
		t.Error("idle session still registered")
	}
	if _, ok := r.Get(active.ID()); !ok {
		t.Error("active session was swept")
	}
}

func TestRegistryRejectsMalformedIDs(t *testing.T) {
	r := NewRegistry(Options{Backend: newFake()}, time.Minute)
	if _, ok := r.Get("not-a-uuid"); ok {
		t.Error("malformed id accepted")
	}
}

func TestRegistryRunClosesOnCancel(t *testing.T) {
	r := NewRegistry(Options{Backend: newFake(), Scheduler: debounce.NewManual()}, time.Minute)
	r.Create()
	r.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	if r.Len() != 0 {
		t.Errorf("sessions left = %d", r.Len())
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry(Options{Backend: newFake(), Scheduler: debounce.NewManual()}, time.Minute)
	s := r.Create()
	r.Remove(s.ID())
	if r.Len() != 0 {
		t.Error("session not removed")
	}
}
