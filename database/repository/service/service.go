package serviceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autocare/database"
	"autocare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no service matches the given id.
var ErrNotFound = errors.New("service not found")

// ServiceRepository exposes catalog lookups plus the booking counter
// increment. Catalog records themselves are managed elsewhere.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
	IncrementBookingCount(ctx context.Context, id string) error
}

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo constructs a new instance of MongoServiceRepo.
func NewMongoServiceRepo() *MongoServiceRepo {
	return &MongoServiceRepo{coll: database.DB().Collection("services")}
}

func (repo *MongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching service %s: %w", id, err)
	}
	return &svc, nil
}

// IncrementBookingCount bumps the service's booking counter by one.
func (repo *MongoServiceRepo) IncrementBookingCount(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$inc": bson.M{"booking_count": 1}},
	)
	if err != nil {
		return fmt.Errorf("error incrementing booking count for service %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
