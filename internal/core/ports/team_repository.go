package ports

import (
	"context"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

// PermissionDirectory resolves the team record an admin logs in with.
// FindByEmail returns domain.ErrTeamMemberNotFound when nothing matches;
// any other error is a transport failure.
type PermissionDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.TeamMember, error)
}

// TeamRepository is the full store behind team management.
type TeamRepository interface {
	PermissionDirectory
	List(ctx context.Context) ([]domain.TeamMember, error)
	FindByID(ctx context.Context, id string) (*domain.TeamMember, error)
	Create(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error)
	Update(ctx context.Context, member *domain.TeamMember) error
	SetStatus(ctx context.Context, id string, status domain.TeamStatus) error
}

// TeamMemberInput carries editable fields of a team record.
type TeamMemberInput struct {
	Name        string
	Email       string
	Role        string
	Permissions domain.TeamPermissions
}

// TeamService manages BidFlow staff records.
type TeamService interface {
	List(ctx context.Context) ([]domain.TeamMember, error)
	Create(ctx context.Context, in TeamMemberInput) (*domain.TeamMember, error)
	Update(ctx context.Context, id string, in TeamMemberInput) (*domain.TeamMember, error)
	ToggleStatus(ctx context.Context, id string) (*domain.TeamMember, error)
}
