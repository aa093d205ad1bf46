package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"autocare/database"
	"autocare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}

// Create inserts a new booking document.
func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking document by its id.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var booking models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// Replace overwrites the stored document for booking.ID. The whole record
// (status, notes, history) lands in one document write, which is what
// keeps lifecycle mutations atomic.
func (repo *MongoBookingRepo) Replace(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx, bson.M{"id": booking.ID}, booking)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByMechanicAndStatus returns the mechanic's bookings in any of the
// given statuses.
func (repo *MongoBookingRepo) ListByMechanicAndStatus(ctx context.Context, mechanicID string, statuses []models.BookingStatus) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"mechanic_id": mechanicID,
		"status":      bson.M{"$in": statuses},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for mechanic %s: %w", mechanicID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ListMechanicCalendar returns the mechanic's bookings in the given
// statuses, optionally restricted to booking_date in [fromDate, toDate),
// ordered ascending by (booking_date, booking_time).
func (repo *MongoBookingRepo) ListMechanicCalendar(ctx context.Context, mechanicID string, statuses []models.BookingStatus, fromDate, toDate string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"mechanic_id": mechanicID,
		"status":      bson.M{"$in": statuses},
	}
	if fromDate != "" && toDate != "" {
		// Zero-padded "YYYY-MM-DD" strings order lexicographically.
		filter["booking_date"] = bson.M{"$gte": fromDate, "$lt": toDate}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "booking_date", Value: 1},
		{Key: "booking_time", Value: 1},
	})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing calendar for mechanic %s: %w", mechanicID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding calendar bookings: %w", err)
	}
	return bookings, nil
}

// WithTransaction runs fn inside a mongo multi-document transaction. The
// session rides on the context fn receives, so repository calls made with
// it join the transaction.
func (repo *MongoBookingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// List returns bookings matching the filter, newest first.
func (repo *MongoBookingRepo) List(ctx context.Context, f ListFilter) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.MechanicID != "" {
		filter["mechanic_id"] = f.MechanicID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
