package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/edu-ti/BidFlow-CRM/internal/api/metrics"
	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

const defaultRegistryCapacity = 10000

// SessionRegistry keeps one Session per bootstrapped client, keyed by handle
// id. Entries expire ttl after bootstrap, matching the bearer token lifetime.
type SessionRegistry struct {
	factory  *SessionFactory
	sessions *expirable.LRU[string, *Session]
	log      zerolog.Logger
}

func NewSessionRegistry(factory *SessionFactory, capacity int, ttl time.Duration, log zerolog.Logger) *SessionRegistry {
	if capacity <= 0 {
		capacity = defaultRegistryCapacity
	}
	onEvict := func(id string, _ *Session) {
		metrics.ActiveSessions.Dec()
		log.Debug().Str("session_id", id).Msg("session evicted")
	}
	return &SessionRegistry{
		factory:  factory,
		sessions: expirable.NewLRU[string, *Session](capacity, onEvict, ttl),
		log:      log,
	}
}

// Open bootstraps a new guest session and registers it. The session is
// registered even when bootstrap reports an error; the error is returned so
// the caller can flag the degraded state.
func (r *SessionRegistry) Open(ctx context.Context, initialToken string) (*Session, error) {
	sess := r.factory.New()
	handle, err := sess.Bootstrap(ctx, initialToken)
	r.sessions.Add(handle.ID, sess)
	metrics.ActiveSessions.Inc()
	return sess, err
}

// Get returns the live session with the given id.
func (r *SessionRegistry) Get(id string) (*Session, error) {
	sess, ok := r.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Close logs the session out and forgets it. Unknown ids are ignored.
func (r *SessionRegistry) Close(ctx context.Context, id string) {
	sess, ok := r.sessions.Peek(id)
	if !ok {
		return
	}
	sess.Logout(ctx)
	r.sessions.Remove(id)
}

// Len is the number of live sessions.
func (r *SessionRegistry) Len() int {
	return r.sessions.Len()
}
