package models

// Service is a projection of the service catalog. BaseCost and
// EstimatedDuration are snapshotted onto bookings at creation time.
type Service struct {
	ID                string  `bson:"id" json:"id"`
	Name              string  `bson:"name" json:"name"`
	BaseCost          float64 `bson:"base_cost" json:"base_cost"`
	EstimatedDuration int     `bson:"estimated_duration" json:"estimated_duration"` // minutes
	IsAvailable       bool    `bson:"is_available" json:"is_available"`
	DefaultMechanicID string  `bson:"default_mechanic_id,omitempty" json:"default_mechanic_id,omitempty"`
	BookingCount      int64   `bson:"booking_count" json:"booking_count"`
}
