package ports

import (
	"context"
	"time"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

// AuthProvider is the identity collaborator behind a session. It must accept
// an empty initial token and hand out an anonymous handle in that case.
type AuthProvider interface {
	BootstrapSession(ctx context.Context, initialToken string) (domain.SessionHandle, error)
	SignInWithCredentials(ctx context.Context, email, secret string) (*domain.Principal, error)
	SignOut(ctx context.Context, handle domain.SessionHandle) error
}

// AccountService registers client accounts for credential sign-in.
type AccountService interface {
	Register(ctx context.Context, name, email, password, companyID string) (*domain.User, error)
}

// HandleStore records live session handles so sign-out can revoke them.
type HandleStore interface {
	Save(ctx context.Context, handle domain.SessionHandle, ttl time.Duration) error
	Exists(ctx context.Context, handleID string) (bool, error)
	Revoke(ctx context.Context, handleID string) error
}
