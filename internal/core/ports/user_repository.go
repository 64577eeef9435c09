package ports

import (
	"context"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

// UserRepository defines persistence of client accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
