package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/churchops/attendance-system/internal/core/domain"
)

const collectionAttendance = "attendance"

// AttendanceRepository is the MongoDB attendance ledger. The unique compound
// index on (user_id, service_id) is what enforces the at-most-one-record
// invariant under concurrent writers.
type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

func (r *AttendanceRepository) ExistsFor(ctx context.Context, userID, serviceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx,
		bson.M{"user_id": userID, "service_id": serviceID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertIfAbsent inserts the record and reports whether this call won. A
// duplicate-key rejection from the unique index is returned as (false, nil):
// losing the race is an expected outcome, not an error.
func (r *AttendanceRepository) InsertIfAbsent(ctx context.Context, record *domain.AttendanceRecord) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.col.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *AttendanceRepository) FindByUser(ctx context.Context, userID string) ([]*domain.AttendanceRecord, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *AttendanceRepository) FindByService(ctx context.Context, serviceID string) ([]*domain.AttendanceRecord, error) {
	return r.find(ctx, bson.M{"service_id": serviceID})
}

func (r *AttendanceRepository) FindAll(ctx context.Context) ([]*domain.AttendanceRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *AttendanceRepository) find(ctx context.Context, filter bson.M) ([]*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "checked_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []*domain.AttendanceRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureIndexes creates the indexes the ledger depends on. The unique
// compound index is load-bearing: without it InsertIfAbsent degrades to a
// plain insert and the uniqueness invariant is lost.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "service_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "service_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
