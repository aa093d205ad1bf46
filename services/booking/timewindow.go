package booking

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the calendar date format bookings are stored with.
const DateLayout = "2006-01-02"

// MinDurationMinutes is the smallest bookable service duration.
const MinDurationMinutes = 15

var timeOfDayRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ResolveWindow combines a calendar date, an "HH:MM" time of day and a
// duration in minutes into the half-open interval [start, end) the
// booking occupies. Seconds and sub-second components are zeroed so both
// sides of any comparison use identical semantics. Pure, no side effects.
func ResolveWindow(date, timeOfDay string, durationMinutes int) (time.Time, time.Time, error) {
	if !timeOfDayRe.MatchString(timeOfDay) {
		return time.Time{}, time.Time{}, NewError(CodeInvalidTimeFormat, "invalid time %q, expected HH:MM (24-hour)", timeOfDay)
	}
	if durationMinutes < MinDurationMinutes {
		return time.Time{}, time.Time{}, NewError(CodeValidation, "duration %d is below the %d minute minimum", durationMinutes, MinDurationMinutes)
	}

	day, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, NewError(CodeValidation, "invalid date %q, expected YYYY-MM-DD", date)
	}

	var hour, minute int
	fmt.Sscanf(timeOfDay, "%d:%d", &hour, &minute)

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local)
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return start, end, nil
}

// NormalizeTimeOfDay returns timeOfDay in zero-padded "HH:MM" form, so
// stored times compare and sort lexicographically ("9:05" -> "09:05").
func NormalizeTimeOfDay(timeOfDay string) (string, error) {
	if !timeOfDayRe.MatchString(timeOfDay) {
		return "", NewError(CodeInvalidTimeFormat, "invalid time %q, expected HH:MM (24-hour)", timeOfDay)
	}
	var hour, minute int
	fmt.Sscanf(timeOfDay, "%d:%d", &hour, &minute)
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
