package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single audit entry.
func (s *auditService) Record(ctx context.Context, in ports.AuditEventInput) error {
	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	event := &domain.AuthEvent{
		Type:       in.Type,
		Outcome:    in.Outcome,
		Actor:      in.Actor,
		SessionID:  in.SessionID,
		Reason:     in.Reason,
		Path:       in.Path,
		OccurredAt: occurred.UTC(),
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("type", string(in.Type)).
		Str("outcome", in.Outcome).
		Str("actor", in.Actor).
		Msg("audit event recorded")
	return nil
}

// List returns the newest entries; limit is clamped to [1, 200].
func (s *auditService) List(ctx context.Context, limit int) ([]domain.AuthEvent, error) {
	switch {
	case limit <= 0:
		limit = defaultAuditLimit
	case limit > maxAuditLimit:
		limit = maxAuditLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
