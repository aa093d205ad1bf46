package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusInProgress  BookingStatus = "in_progress"
	StatusCompleted   BookingStatus = "completed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusNoShow      BookingStatus = "no_show"
	StatusRescheduled BookingStatus = "rescheduled"
)

// Valid reports whether s is one of the seven known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are legal out of s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Active reports whether s occupies a slot on the mechanic's calendar.
// Pending bookings never reserve a slot; only accepted work does.
func (s BookingStatus) Active() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// ActiveStatuses are the statuses considered by conflict checks and the
// mechanic calendar.
var ActiveStatuses = []BookingStatus{StatusConfirmed, StatusInProgress}

// ServiceLocation enumerates where the service is performed.
type ServiceLocation string

const (
	LocationAtGarage       ServiceLocation = "at_garage"
	LocationMobile         ServiceLocation = "mobile"
	LocationPickupDelivery ServiceLocation = "pickup_delivery"
	LocationRoadside       ServiceLocation = "roadside"
)

func (l ServiceLocation) Valid() bool {
	switch l {
	case LocationAtGarage, LocationMobile, LocationPickupDelivery, LocationRoadside:
		return true
	}
	return false
}

// BookingNotes carries per-role free text attached to a booking.
type BookingNotes struct {
	Customer string `bson:"customer,omitempty" json:"customer,omitempty"`
	Mechanic string `bson:"mechanic,omitempty" json:"mechanic,omitempty"`
	Admin    string `bson:"admin,omitempty" json:"admin,omitempty"`
}

// RescheduleEntry is an immutable record of a prior date/time pair
// superseded by a reschedule. Entries are only ever appended.
type RescheduleEntry struct {
	OriginalDate string    `bson:"original_date" json:"original_date"` // "YYYY-MM-DD"
	OriginalTime string    `bson:"original_time" json:"original_time"` // "HH:MM"
	NewDate      string    `bson:"new_date" json:"new_date"`
	NewTime      string    `bson:"new_time" json:"new_time"`
	Reason       string    `bson:"reason,omitempty" json:"reason,omitempty"`
	ChangedBy    string    `bson:"changed_by" json:"changed_by"` // role that made the change
	ChangedAt    time.Time `bson:"changed_at" json:"changed_at"`
}

// Booking is the central record of the engine. Owner, mechanic, vehicle
// and service are references to entities owned by their own directories;
// estimated cost and duration are snapshotted from the service at
// creation time and are not affected by later price changes.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	OwnerID    string `bson:"owner_id" json:"owner_id"`
	MechanicID string `bson:"mechanic_id" json:"mechanic_id"`
	VehicleID  string `bson:"vehicle_id" json:"vehicle_id"`
	ServiceID  string `bson:"service_id" json:"service_id"`

	BookingDate       string `bson:"booking_date" json:"booking_date"` // "YYYY-MM-DD"
	BookingTime       string `bson:"booking_time" json:"booking_time"` // "HH:MM", 24-hour
	EstimatedDuration int    `bson:"estimated_duration" json:"estimated_duration"` // minutes

	Status   BookingStatus   `bson:"status" json:"status"`
	Location ServiceLocation `bson:"location" json:"location"`

	EstimatedCost float64  `bson:"estimated_cost" json:"estimated_cost"`
	ActualCost    *float64 `bson:"actual_cost,omitempty" json:"actual_cost,omitempty"`

	Notes              BookingNotes      `bson:"notes" json:"notes"`
	CancellationReason string            `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	RescheduleHistory  []RescheduleEntry `bson:"reschedule_history,omitempty" json:"reschedule_history,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
