package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/churchops/attendance-system/internal/core/domain"
)

const collectionServices = "services"

type ServiceRepository struct {
	col *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{col: db.Collection(collectionServices)}
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.ServiceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var svc domain.ServiceEvent
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&svc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (r *ServiceRepository) FindActive(ctx context.Context) ([]*domain.ServiceEvent, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *ServiceRepository) FindAll(ctx context.Context) ([]*domain.ServiceEvent, error) {
	return r.find(ctx, bson.M{})
}

func (r *ServiceRepository) FindNextUpcoming(ctx context.Context, now time.Time) (*domain.ServiceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"active": true, "start_time": bson.M{"$gte": now}}
	opts := options.FindOne().SetSort(bson.D{{Key: "start_time", Value: 1}})

	var svc domain.ServiceEvent
	err := r.col.FindOne(ctx, filter, opts).Decode(&svc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoUpcomingService
		}
		return nil, err
	}
	return &svc, nil
}

// FindEligibleForLateSweep returns active services whose start time lies in
// (from, to]. The bounds are exclusive/inclusive so adjacent sweep windows
// never select the same service twice.
func (r *ServiceRepository) FindEligibleForLateSweep(ctx context.Context, from, to time.Time) ([]*domain.ServiceEvent, error) {
	return r.find(ctx, bson.M{
		"active":     true,
		"start_time": bson.M{"$gt": from, "$lte": to},
	})
}

func (r *ServiceRepository) Create(ctx context.Context, svc *domain.ServiceEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if svc.ID == "" {
		svc.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, svc)
	return err
}

func (r *ServiceRepository) ExistsOnDate(ctx context.Context, t time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	n, err := r.col.CountDocuments(ctx,
		bson.M{"start_time": bson.M{"$gte": dayStart, "$lt": dayEnd}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ServiceRepository) find(ctx context.Context, filter bson.M) ([]*domain.ServiceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var services []*domain.ServiceEvent
	if err := cur.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// EnsureIndexes creates the indexes the sweep window query relies on.
func (r *ServiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "start_time", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "start_time", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
