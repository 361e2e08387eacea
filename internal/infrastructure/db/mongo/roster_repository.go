package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/churchops/attendance-system/internal/core/domain"
)

const collectionPendingUsers = "pending_users"

type RosterRepository struct {
	col *mongo.Collection
}

func NewRosterRepository(db *mongo.Database) *RosterRepository {
	return &RosterRepository{col: db.Collection(collectionPendingUsers)}
}

type mongoPendingUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone,omitempty"`
	Email     string             `bson:"email,omitempty"`
	Notes     string             `bson:"notes,omitempty"`
	Active    bool               `bson:"active"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *RosterRepository) Create(ctx context.Context, entry *domain.PendingUser) (*domain.PendingUser, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPendingUser{
		Name:      entry.Name,
		Phone:     entry.Phone,
		Email:     entry.Email,
		Notes:     entry.Notes,
		Active:    entry.Active,
		CreatedAt: entry.CreatedAt.Unix(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert roster entry: %w", err)
	}

	created := *entry
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *RosterRepository) FindActive(ctx context.Context) ([]*domain.PendingUser, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find roster entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []*domain.PendingUser
	for cur.Next(ctx) {
		var mp mongoPendingUser
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode roster entry: %w", err)
		}
		entries = append(entries, mp.toDomain())
	}
	return entries, cur.Err()
}

func (r *RosterRepository) FindByID(ctx context.Context, id string) (*domain.PendingUser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRosterEntryNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *RosterRepository) FindActiveByPhone(ctx context.Context, phone string) (*domain.PendingUser, error) {
	return r.findOne(ctx, bson.M{"phone": phone, "active": true})
}

func (r *RosterRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.PendingUser, error) {
	return r.findOne(ctx, bson.M{"email": email, "active": true})
}

func (r *RosterRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRosterEntryNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return fmt.Errorf("deactivate roster entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRosterEntryNotFound
	}
	return nil
}

func (r *RosterRepository) findOne(ctx context.Context, filter bson.M) (*domain.PendingUser, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPendingUser
	if err := r.col.FindOne(ctx, filter).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRosterEntryNotFound
		}
		return nil, fmt.Errorf("find roster entry: %w", err)
	}
	return mp.toDomain(), nil
}

func (mp *mongoPendingUser) toDomain() *domain.PendingUser {
	return &domain.PendingUser{
		ID:        mp.ID.Hex(),
		Name:      mp.Name,
		Phone:     mp.Phone,
		Email:     mp.Email,
		Notes:     mp.Notes,
		Active:    mp.Active,
		CreatedAt: time.Unix(mp.CreatedAt, 0).UTC(),
	}
}
