package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []ports.AuditEventInput
}

func (r *recordingAudit) Record(_ context.Context, in ports.AuditEventInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, in)
	return nil
}

func (r *recordingAudit) List(context.Context, int) ([]domain.AuthEvent, error) {
	return nil, nil
}

func (r *recordingAudit) snapshot() []ports.AuditEventInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.AuditEventInput, len(r.events))
	copy(out, r.events)
	return out
}

func TestDispatcher_PreservesPerActorOrder(t *testing.T) {
	rec := &recordingAudit{}
	d := NewDispatcher(3, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	reasons := []string{"first", "second", "third", "fourth"}
	for _, r := range reasons {
		d.Enqueue(ports.AuditEventInput{Type: domain.EventAdminLogin, Actor: "alice@x.com", Reason: r})
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.snapshot()) < len(reasons) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for events, got %d", len(rec.snapshot()))
		}
		time.Sleep(5 * time.Millisecond)
	}

	got := rec.snapshot()
	for i, r := range reasons {
		if got[i].Reason != r {
			t.Fatalf("event %d: expected %q, got %q", i, r, got[i].Reason)
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, &recordingAudit{}, zerolog.Nop())

	first := d.shardIndex("bob@x.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("bob@x.com"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &recordingAudit{}, zerolog.Nop())

	// No worker running: the buffer fills and the rest is dropped without blocking.
	for i := 0; i < channelBuffer+10; i++ {
		d.Enqueue(ports.AuditEventInput{Actor: "carol"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full buffer of %d, got %d", channelBuffer, got)
	}
}
