package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

// HandleStore tracks live session handles so sign-out revokes bearer tokens.
// Key format: session:handle:<id>
type HandleStore struct {
	client *redis.Client
}

// NewHandleStore creates a HandleStore wrapping the given Redis client.
func NewHandleStore(client *redis.Client) *HandleStore {
	return &HandleStore{client: client}
}

// Save records the handle until ttl elapses.
func (s *HandleStore) Save(ctx context.Context, handle domain.SessionHandle, ttl time.Duration) error {
	payload, err := json.Marshal(handle)
	if err != nil {
		return fmt.Errorf("encode handle: %w", err)
	}
	return s.client.Set(ctx, s.key(handle.ID), payload, ttl).Err()
}

// Exists reports whether the handle is still live.
func (s *HandleStore) Exists(ctx context.Context, handleID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(handleID)).Result()
	if err != nil {
		return false, fmt.Errorf("handle lookup: %w", err)
	}
	return n > 0, nil
}

// Revoke drops the handle. Revoking an unknown handle is not an error.
func (s *HandleStore) Revoke(ctx context.Context, handleID string) error {
	return s.client.Del(ctx, s.key(handleID)).Err()
}

func (s *HandleStore) key(id string) string {
	return "session:handle:" + id
}
