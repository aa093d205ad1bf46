package booking

import (
	"context"
	"fmt"

	bookingRepo "autocare/database/repository/booking"
	"autocare/models"
)

// ConflictChecker decides whether a candidate time window collides with a
// mechanic's existing commitments. Only confirmed and in_progress
// bookings occupy a slot; a pending request reserves nothing until it is
// accepted.
type ConflictChecker struct {
	Repo bookingRepo.BookingRepository
}

// HasConflict reports whether any active booking of mechanicID overlaps
// the window described by (date, timeOfDay, durationMinutes). Two
// bookings conflict when they share the identical (date, time) pair or
// when their resolved [start, end) intervals overlap; touching endpoints
// do not conflict. excludeBookingID lets a reschedule check against all
// of the mechanic's other bookings without colliding with itself.
func (c *ConflictChecker) HasConflict(ctx context.Context, mechanicID, date, timeOfDay string, durationMinutes int, excludeBookingID string) (bool, error) {
	start, end, err := ResolveWindow(date, timeOfDay, durationMinutes)
	if err != nil {
		return false, err
	}
	normalized, err := NormalizeTimeOfDay(timeOfDay)
	if err != nil {
		return false, err
	}

	existing, err := c.Repo.ListByMechanicAndStatus(ctx, mechanicID, models.ActiveStatuses)
	if err != nil {
		return false, fmt.Errorf("conflict check failed for mechanic %s: %w", mechanicID, err)
	}

	for _, b := range existing {
		if b.ID == excludeBookingID {
			continue
		}
		if b.BookingDate == date && b.BookingTime == normalized {
			return true, nil
		}
		bStart, bEnd, err := ResolveWindow(b.BookingDate, b.BookingTime, b.EstimatedDuration)
		if err != nil {
			return false, fmt.Errorf("stored booking %s has an unresolvable window: %w", b.ID, err)
		}
		if Overlaps(start, end, bStart, bEnd) {
			return true, nil
		}
	}
	return false, nil
}
