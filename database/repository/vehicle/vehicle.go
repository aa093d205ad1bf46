package vehicleRepo

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

// ErrNotFound is returned when no vehicle matches the given id.
var ErrNotFound = errors.New("vehicle not found")

// VehicleRepository is the read-only view of the vehicle directory.
type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
}

// MongoVehicleRepo implements VehicleRepository using MongoDB.
type MongoVehicleRepo struct {
	coll *mongo.Collection
}

// NewMongoVehicleRepo constructs a new instance of MongoVehicleRepo.
func NewMongoVehicleRepo() *MongoVehicleRepo {
	return &MongoVehicleRepo{coll: database.DB().Collection("vehicles")}
}

func (repo *MongoVehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var vehicle models.Vehicle
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&vehicle); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching vehicle %s: %w", id, err)
	}
	return &vehicle, nil
}
