package ports

import (
	"context"
	"time"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

// AuditEventInput is the DTO passed from the transport layer to AuditService.
type AuditEventInput struct {
	Type       domain.AuthEventType
	Outcome    string
	Actor      string
	SessionID  string
	Reason     string
	Path       string
	OccurredAt time.Time
}

// AuditService records and lists session audit entries.
type AuditService interface {
	Record(ctx context.Context, in AuditEventInput) error
	List(ctx context.Context, limit int) ([]domain.AuthEvent, error)
}

// AuditRepository persists audit entries, newest first on read.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuthEvent, error)
}
