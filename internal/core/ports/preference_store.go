package ports

import "context"

// KeyValueStore is the browser-scoped preference store. Scope identifies
// the browser (its session handle).
type KeyValueStore interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
}

// ThemeService owns the dark-mode preference.
type ThemeService interface {
	IsDark(ctx context.Context, scope string) (bool, error)
	SetDark(ctx context.Context, scope string, dark bool) error
	Toggle(ctx context.Context, scope string) (bool, error)
}
