package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k5602/course-pilot/internal/domain"
)

func TestWeekStart(t *testing.T) {
	// 2025-01-08 is a Wednesday; its ISO week starts Monday the 6th.
	wed := time.Date(2025, 1, 8, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), weekStart(wed))

	// Sunday belongs to the week it ends.
	sun := time.Date(2025, 1, 12, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), weekStart(sun))
}

func TestWeekPattern_EvenSpread(t *testing.T) {
	day := func(off time.Duration) int { return int(off / (24 * time.Hour)) }

	three := weekPattern(3, 5)
	require.Len(t, three, 3)
	assert.Equal(t, []int{0, 2, 4}, []int{day(three[0]), day(three[1]), day(three[2])}, "Mon/Wed/Fri")

	one := weekPattern(1, 5)
	require.Len(t, one, 1)
	assert.Equal(t, 0, day(one[0]))

	// More sessions than days: days double up with spaced hours.
	twelve := weekPattern(12, 5)
	assert.Len(t, twelve, 12)
	for i := 1; i < len(twelve); i++ {
		assert.Greater(t, twelve[i], twelve[i-1], "offsets strictly increasing")
	}
}

func TestSessionSlots_MinBreakFilters(t *testing.T) {
	hrs := 72
	settings := domain.PlanSettings{
		StartDate:            time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		SessionsPerWeek:      5,
		SessionLengthMinutes: 60,
		Advanced:             &domain.AdvancedSchedulerSettings{MinBreakBetweenSessionsHrs: &hrs},
	}
	slots := sessionSlots(settings, 6)
	require.Len(t, slots, 6)
	for i := 1; i < len(slots); i++ {
		assert.GreaterOrEqual(t, slots[i].Sub(slots[i-1]), 72*time.Hour)
	}
}

func TestNextAllowedDay(t *testing.T) {
	sat := time.Date(2025, 1, 11, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, nextAllowedDay(sat, false).Weekday())
	assert.Equal(t, sat, nextAllowedDay(sat, true))
}
