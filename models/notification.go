package models

import "time"

// BookingEventKind identifies which lifecycle event fired. The engine
// only decides when an event fires; formatting and delivery belong to
// the notification collaborator.
type BookingEventKind string

const (
	EventBookingCreated     BookingEventKind = "booking_created"
	EventBookingConfirmed   BookingEventKind = "booking_confirmed"
	EventBookingInProgress  BookingEventKind = "booking_in_progress"
	EventBookingCompleted   BookingEventKind = "booking_completed"
	EventBookingCancelled   BookingEventKind = "booking_cancelled"
	EventBookingNoShow      BookingEventKind = "booking_no_show"
	EventBookingRescheduled BookingEventKind = "booking_rescheduled"
)

// BookingEvent is the payload handed to the notification collaborator
// after a lifecycle mutation has been durably committed.
type BookingEvent struct {
	ID           string           `json:"id"`
	Kind         BookingEventKind `json:"kind"`
	Booking      Booking          `json:"booking"`
	CancelledBy  Role             `json:"cancelled_by,omitempty"`  // set on booking_cancelled
	PromptReview bool             `json:"prompt_review,omitempty"` // set on booking_completed
	OccurredAt   time.Time        `json:"occurred_at"`
}
