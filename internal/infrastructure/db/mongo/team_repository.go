package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

const teamCollection = "team"

// TeamRepository implements ports.TeamRepository using MongoDB. It is also
// the permission directory consulted at admin login.
type TeamRepository struct {
	coll *mongo.Collection
}

func NewTeamRepository(db *mongo.Database) *TeamRepository {
	return &TeamRepository{coll: db.Collection(teamCollection)}
}

// Missing permission flags decode as false.
type mongoTeamMember struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty"`
	Name        string                 `bson:"name"`
	Email       string                 `bson:"email"`
	Role        string                 `bson:"role"`
	Status      string                 `bson:"status"`
	Permissions domain.TeamPermissions `bson:"permissions"`
	CreatedAt   int64                  `bson:"created_at"`
	UpdatedAt   int64                  `bson:"updated_at"`
}

func (m mongoTeamMember) toDomain() domain.TeamMember {
	return domain.TeamMember{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Email:       m.Email,
		Role:        m.Role,
		Status:      domain.TeamStatus(m.Status),
		Permissions: m.Permissions,
		CreatedAt:   unixToTime(m.CreatedAt),
		UpdatedAt:   unixToTime(m.UpdatedAt),
	}
}

func (r *TeamRepository) FindByEmail(ctx context.Context, email string) (*domain.TeamMember, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *TeamRepository) FindByID(ctx context.Context, id string) (*domain.TeamMember, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTeamMemberNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *TeamRepository) findOne(ctx context.Context, filter bson.M) (*domain.TeamMember, error) {
	var m mongoTeamMember
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("find team member: %w", err)
	}
	member := m.toDomain()
	return &member, nil
}

// List returns all members ordered by name.
func (r *TeamRepository) List(ctx context.Context) ([]domain.TeamMember, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list team: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoTeamMember
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode team: %w", err)
	}

	members := make([]domain.TeamMember, 0, len(docs))
	for _, d := range docs {
		members = append(members, d.toDomain())
	}
	return members, nil
}

func (r *TeamRepository) Create(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error) {
	doc := mongoTeamMember{
		Name:        member.Name,
		Email:       member.Email,
		Role:        member.Role,
		Status:      string(member.Status),
		Permissions: member.Permissions,
		CreatedAt:   member.CreatedAt.Unix(),
		UpdatedAt:   member.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrTeamMemberExists
		}
		return nil, fmt.Errorf("insert team member: %w", err)
	}

	created := *member
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *TeamRepository) Update(ctx context.Context, member *domain.TeamMember) error {
	oid, err := primitive.ObjectIDFromHex(member.ID)
	if err != nil {
		return domain.ErrTeamMemberNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":        member.Name,
		"email":       member.Email,
		"role":        member.Role,
		"permissions": member.Permissions,
		"updated_at":  member.UpdatedAt.Unix(),
	}}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrTeamMemberExists
		}
		return fmt.Errorf("update team member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTeamMemberNotFound
	}
	return nil
}

func (r *TeamRepository) SetStatus(ctx context.Context, id string, status domain.TeamStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTeamMemberNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("set team status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTeamMemberNotFound
	}
	return nil
}
