package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

func newTestRegistry(p *fakeProvider, ttl time.Duration) *SessionRegistry {
	f := NewSessionFactory(p, directory(), nil, nil, zerolog.Nop())
	return NewSessionRegistry(f, 0, ttl, zerolog.Nop())
}

func TestSessionRegistry_OpenGetClose(t *testing.T) {
	p := &fakeProvider{}
	reg := newTestRegistry(p, time.Hour)
	ctx := context.Background()

	sess, err := reg.Open(ctx, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", reg.Len())
	}

	got, err := reg.Get(sess.ID())
	if err != nil || got != sess {
		t.Fatalf("get returned %v, %v", got, err)
	}

	reg.Close(ctx, sess.ID())
	if _, err := reg.Get(sess.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if p.signOuts.Load() != 1 {
		t.Fatalf("close should sign out once, got %d", p.signOuts.Load())
	}

	reg.Close(ctx, sess.ID())
	if p.signOuts.Load() != 1 {
		t.Fatalf("closing an unknown id must be a no-op")
	}
}

func TestSessionRegistry_DegradedOpenIsRegistered(t *testing.T) {
	reg := newTestRegistry(&fakeProvider{bootErr: errors.New("down")}, time.Hour)

	sess, err := reg.Open(context.Background(), "")
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	if _, err := reg.Get(sess.ID()); err != nil {
		t.Fatalf("degraded session should still be registered: %v", err)
	}
}

func TestSessionRegistry_Expiry(t *testing.T) {
	reg := newTestRegistry(&fakeProvider{}, 30*time.Millisecond)

	sess, err := reg.Open(context.Background(), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	if _, err := reg.Get(sess.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestSessionRegistry_GetDoesNotExtend(t *testing.T) {
	reg := newTestRegistry(&fakeProvider{}, 60*time.Millisecond)

	sess, err := reg.Open(context.Background(), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	if _, err := reg.Get(sess.ID()); err != nil {
		t.Fatalf("session should still be live: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := reg.Get(sess.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expiry counted from bootstrap, got %v", err)
	}
}
