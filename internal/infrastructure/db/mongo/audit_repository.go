package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

const logsCollection = "logs"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(logsCollection)}
}

type mongoAuthEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Type        string             `bson:"type"`
	Outcome     string             `bson:"outcome"`
	Actor       string             `bson:"actor"`
	SessionID   string             `bson:"session_id,omitempty"`
	Reason      string             `bson:"reason,omitempty"`
	Path        string             `bson:"path,omitempty"`
	OccurredAt  time.Time          `bson:"occurred_at"`
	ProcessedAt time.Time          `bson:"processed_at"`
}

// Insert persists an audit entry to the logs collection.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Type:        string(event.Type),
		Outcome:     event.Outcome,
		Actor:       event.Actor,
		SessionID:   event.SessionID,
		Reason:      event.Reason,
		Path:        event.Path,
		OccurredAt:  event.OccurredAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuthEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAuthEvent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	events := make([]domain.AuthEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, domain.AuthEvent{
			ID:         d.ID.Hex(),
			Type:       domain.AuthEventType(d.Type),
			Outcome:    d.Outcome,
			Actor:      d.Actor,
			SessionID:  d.SessionID,
			Reason:     d.Reason,
			Path:       d.Path,
			OccurredAt: d.OccurredAt,
		})
	}
	return events, nil
}
