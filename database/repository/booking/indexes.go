package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on booking ID.
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary conflict-check query pattern: mechanic + status.
		{
			Keys:    bson.D{{Key: "mechanic_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("mechanic_status_idx"),
		},
		// Calendar query pattern: mechanic + status + date ordering.
		{
			Keys: bson.D{
				{Key: "mechanic_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "booking_date", Value: 1},
				{Key: "booking_time", Value: 1},
			},
			Options: options.Index().SetName("mechanic_calendar_idx"),
		},
		// Role-scoped listings.
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("owner_created_idx"),
		},
		// Safety net behind the application-level conflict check: at most
		// one active booking per mechanic slot. Partial filter keeps
		// pending/terminal bookings out of the constraint.
		{
			Keys: bson.D{
				{Key: "mechanic_id", Value: 1},
				{Key: "booking_date", Value: 1},
				{Key: "booking_time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_slot").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []string{"confirmed", "in_progress"}},
				}),
		},
	}

	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
