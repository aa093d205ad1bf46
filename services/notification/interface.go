package notification

import (
	"context"

	"autocare/models"
)

// Publisher hands lifecycle events off for asynchronous delivery. The
// booking engine only decides when an event fires; a failing publish is
// logged by the caller and never blocks the lifecycle mutation.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEvent) error
}

// Sender is the delivery side of the notification contract: it receives
// an event plus booking snapshot and owns all formatting and transport.
type Sender interface {
	Send(ctx context.Context, event models.BookingEvent) error
}
