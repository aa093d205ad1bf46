package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"autocare/models"

	"go.uber.org/zap"
)

const calendarCacheTTL = time.Minute

// MechanicCalendar returns the mechanic's active bookings (confirmed or
// in_progress, the same set the conflict checker considers occupied),
// ordered ascending by date and time. When month and year are given the
// result is restricted to [firstOfMonth, firstOfNextMonth). Only the
// admin or the mechanic themselves may read a calendar.
func (s *DefaultLifecycleService) MechanicCalendar(ctx context.Context, actor Actor, mechanicID string, month time.Month, year int) ([]models.Booking, error) {
	if mechanicID == "" {
		return nil, NewError(CodeValidation, "mechanic id is required")
	}
	if actor.Role != models.RoleAdmin && !(actor.Role == models.RoleMechanic && actor.ID == mechanicID) {
		return nil, NewError(CodeForbidden, "only the admin or mechanic %s may view this calendar", mechanicID)
	}

	var fromDate, toDate string
	scope := "all"
	if month != 0 || year != 0 {
		if month < time.January || month > time.December || year <= 0 {
			return nil, NewError(CodeValidation, "month and year must be provided together and be valid")
		}
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
		fromDate = first.Format(DateLayout)
		toDate = first.AddDate(0, 1, 0).Format(DateLayout)
		scope = first.Format("2006-01")
	}

	cacheKey := s.calendarCacheKey(ctx, mechanicID, scope)
	if cacheKey != "" {
		if data, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached []models.Booking
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return cached, nil
			}
		}
	}

	bookings, err := s.Bookings.ListMechanicCalendar(ctx, mechanicID, models.ActiveStatuses, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(bookings); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, data, calendarCacheTTL).Err(); err != nil {
				s.Logger.Debug("calendar cache write failed", zap.Error(err))
			}
		}
	}
	return bookings, nil
}

// calendarCacheKey builds a versioned cache key. The per-mechanic version
// counter is bumped on every mutation touching an active booking, which
// invalidates every cached scope at once. Returns "" when caching is off.
func (s *DefaultLifecycleService) calendarCacheKey(ctx context.Context, mechanicID, scope string) string {
	if s.Cache == nil {
		return ""
	}
	// A missing version key reads as zero, which is fine: bumps only ever
	// move the key forward.
	version, _ := s.Cache.Get(ctx, calendarVersionKey(mechanicID)).Int64()
	return fmt.Sprintf("mechcal:%s:v%d:%s", mechanicID, version, scope)
}

func (s *DefaultLifecycleService) bumpCalendarVersion(ctx context.Context, mechanicID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Incr(ctx, calendarVersionKey(mechanicID)).Err(); err != nil {
		s.Logger.Debug("calendar version bump failed",
			zap.String("mechanicId", mechanicID), zap.Error(err))
	}
}

func calendarVersionKey(mechanicID string) string {
	return "mechcal:ver:" + mechanicID
}
