package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const preferenceTTL = 365 * 24 * time.Hour

// PreferenceStore is the browser-scoped key-value store. Each scope is a
// Redis hash: prefs:<scope>.
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

func (s *PreferenceStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.hash(scope), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("preference get: %w", err)
	}
	return v, true, nil
}

func (s *PreferenceStore) Set(ctx context.Context, scope, key, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.hash(scope), key, value)
	pipe.Expire(ctx, s.hash(scope), preferenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("preference set: %w", err)
	}
	return nil
}

func (s *PreferenceStore) hash(scope string) string {
	return "prefs:" + scope
}
