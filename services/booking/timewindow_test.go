package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindow(t *testing.T) {
	t.Run("ValidWindow", func(t *testing.T) {
		start, end, err := ResolveWindow("2025-03-10", "10:00", 60)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local), start)
		assert.Equal(t, time.Date(2025, 3, 10, 11, 0, 0, 0, time.Local), end)
	})

	t.Run("UnpaddedHourAccepted", func(t *testing.T) {
		start, _, err := ResolveWindow("2025-03-10", "9:05", 15)
		require.NoError(t, err)
		assert.Equal(t, 9, start.Hour())
		assert.Equal(t, 5, start.Minute())
		assert.Zero(t, start.Second())
		assert.Zero(t, start.Nanosecond())
	})

	t.Run("DayBoundaries", func(t *testing.T) {
		_, _, err := ResolveWindow("2025-03-10", "00:00", 15)
		assert.NoError(t, err)
		_, end, err := ResolveWindow("2025-03-10", "23:59", 30)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 11, 0, 29, 0, 0, time.Local), end)
	})

	t.Run("InvalidTimeFormats", func(t *testing.T) {
		for _, bad := range []string{"24:00", "12:60", "1200", "ab:cd", "7", "07:5", ""} {
			_, _, err := ResolveWindow("2025-03-10", bad, 30)
			require.Error(t, err, "time %q should be rejected", bad)
			assert.Equal(t, CodeInvalidTimeFormat, CodeOf(err), "time %q", bad)
		}
	})

	t.Run("DurationBelowMinimum", func(t *testing.T) {
		_, _, err := ResolveWindow("2025-03-10", "10:00", 14)
		require.Error(t, err)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("InvalidDate", func(t *testing.T) {
		_, _, err := ResolveWindow("10/03/2025", "10:00", 30)
		require.Error(t, err)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})
}

func TestNormalizeTimeOfDay(t *testing.T) {
	got, err := NormalizeTimeOfDay("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	got, err = NormalizeTimeOfDay("23:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59", got)

	_, err = NormalizeTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 3, 10, h, m, 0, 0, time.Local)
	}

	t.Run("TouchingEndpointsDoNotOverlap", func(t *testing.T) {
		// [09:00, 09:30) then [09:30, 10:00)
		assert.False(t, Overlaps(at(9, 0), at(9, 30), at(9, 30), at(10, 0)))
		assert.False(t, Overlaps(at(9, 30), at(10, 0), at(9, 0), at(9, 30)))
	})

	t.Run("PartialOverlap", func(t *testing.T) {
		assert.True(t, Overlaps(at(9, 0), at(10, 0), at(9, 30), at(10, 30)))
	})

	t.Run("Containment", func(t *testing.T) {
		assert.True(t, Overlaps(at(9, 0), at(11, 0), at(9, 30), at(10, 0)))
		assert.True(t, Overlaps(at(9, 30), at(10, 0), at(9, 0), at(11, 0)))
	})

	t.Run("Disjoint", func(t *testing.T) {
		assert.False(t, Overlaps(at(9, 0), at(9, 30), at(10, 0), at(10, 30)))
	})
}
