package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

// TeamService manages the staff records that back admin permissions.
type TeamService struct {
	repo ports.TeamRepository
	log  zerolog.Logger
}

func NewTeamService(repo ports.TeamRepository, log zerolog.Logger) *TeamService {
	return &TeamService{repo: repo, log: log}
}

func (s *TeamService) List(ctx context.Context) ([]domain.TeamMember, error) {
	return s.repo.List(ctx)
}

// Create adds a pending member. Emails are unique across the team.
func (s *TeamService) Create(ctx context.Context, in ports.TeamMemberInput) (*domain.TeamMember, error) {
	email := strings.TrimSpace(in.Email)
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrTeamMemberExists
	case !errors.Is(err, domain.ErrTeamMemberNotFound):
		return nil, fmt.Errorf("create team member: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.TeamMember{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Role:        strings.TrimSpace(in.Role),
		Status:      domain.TeamStatusPending,
		Permissions: in.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("member_id", created.ID).Str("email", created.Email).Msg("team member created")
	return created, nil
}

// Update replaces the editable fields of a member.
func (s *TeamService) Update(ctx context.Context, id string, in ports.TeamMemberInput) (*domain.TeamMember, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	if email != member.Email {
		other, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != member.ID:
			return nil, domain.ErrTeamMemberExists
		case err != nil && !errors.Is(err, domain.ErrTeamMemberNotFound):
			return nil, fmt.Errorf("update team member: %w", err)
		}
	}

	member.Name = strings.TrimSpace(in.Name)
	member.Email = email
	member.Role = strings.TrimSpace(in.Role)
	member.Permissions = in.Permissions
	member.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// ToggleStatus blocks an active member or (re)activates any other one.
func (s *TeamService) ToggleStatus(ctx context.Context, id string) (*domain.TeamMember, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := member.Status.Toggled()
	if err := s.repo.SetStatus(ctx, id, next); err != nil {
		return nil, err
	}
	member.Status = next

	s.log.Info().Str("member_id", id).Str("status", string(next)).Msg("team member status changed")
	return member, nil
}
