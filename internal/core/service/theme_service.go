package service

import (
	"context"

	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

const (
	themeKey   = "theme"
	themeDark  = "dark"
	themeLight = "light"
)

// ThemeService persists the dark-mode flag per browser scope. It has no
// bearing on authorization.
type ThemeService struct {
	store ports.KeyValueStore
}

func NewThemeService(store ports.KeyValueStore) *ThemeService {
	return &ThemeService{store: store}
}

// IsDark reads the stored preference; a missing value means light.
func (s *ThemeService) IsDark(ctx context.Context, scope string) (bool, error) {
	v, ok, err := s.store.Get(ctx, scope, themeKey)
	if err != nil {
		return false, err
	}
	return ok && v == themeDark, nil
}

func (s *ThemeService) SetDark(ctx context.Context, scope string, dark bool) error {
	v := themeLight
	if dark {
		v = themeDark
	}
	return s.store.Set(ctx, scope, themeKey, v)
}

// Toggle flips the stored preference and returns the new value.
func (s *ThemeService) Toggle(ctx context.Context, scope string) (bool, error) {
	dark, err := s.IsDark(ctx, scope)
	if err != nil {
		return false, err
	}
	if err := s.SetDark(ctx, scope, !dark); err != nil {
		return false, err
	}
	return !dark, nil
}
