package scheduler

import (
	"time"

	"github.com/k5602/course-pilot/internal/domain"
)

// sessionHours are the in-day start times used when a week needs more
// sessions than it has allowed days.
var sessionHours = []int{9, 15, 21}

// sessionSlots generates the first count valid session start times for the
// settings: allowed weekdays only, at most sessions_per_week per ISO week,
// spread evenly across the week, min-break filtered.
func sessionSlots(settings domain.PlanSettings, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	numDays := 5
	if settings.IncludeWeekends {
		numDays = 7
	}
	pattern := weekPattern(settings.SessionsPerWeek, numDays)

	var minBreak time.Duration
	if adv := settings.Advanced; adv != nil && adv.MinBreakBetweenSessionsHrs != nil {
		minBreak = time.Duration(*adv.MinBreakBetweenSessionsHrs) * time.Hour
	}

	start := settings.StartDate.UTC()
	week := weekStart(start)
	var slots []time.Time
	var last time.Time
	for len(slots) < count {
		for _, off := range pattern {
			slot := week.Add(off)
			if slot.Before(start) {
				continue
			}
			if minBreak > 0 && !last.IsZero() && slot.Sub(last) < minBreak {
				continue
			}
			slots = append(slots, slot)
			last = slot
			if len(slots) == count {
				break
			}
		}
		week = week.AddDate(0, 0, 7)
	}
	return slots
}

// weekPattern returns sorted offsets from Monday 00:00 for one week's
// sessions. Sessions spread across the allowed days; days overflow into
// later in-day hours only when the cadence exceeds the day count.
func weekPattern(perWeek, numDays int) []time.Duration {
	perDay := make([]int, numDays)
	if perWeek <= numDays {
		if perWeek == 1 {
			perDay[0] = 1
		} else {
			// Even spread: first and last allowed day always included.
			for i := 0; i < perWeek; i++ {
				day := (i*(numDays-1)*2 + (perWeek - 1)) / (2 * (perWeek - 1))
				perDay[day]++
			}
		}
	} else {
		base, extra := perWeek/numDays, perWeek%numDays
		for d := range perDay {
			perDay[d] = base
			if d < extra {
				perDay[d]++
			}
		}
	}

	var offsets []time.Duration
	for d, n := range perDay {
		for s := 0; s < n && s < len(sessionHours); s++ {
			offsets = append(offsets, time.Duration(d)*24*time.Hour+time.Duration(sessionHours[s])*time.Hour)
		}
	}
	return offsets
}

// weekStart returns Monday 00:00 UTC of t's ISO week.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := t.Truncate(24 * time.Hour)
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7 // Sunday belongs to the week it ends
	}
	return day.AddDate(0, 0, 1-wd)
}

// nextAllowedDay rolls t forward, day by day, until its weekday satisfies
// the weekend policy.
func nextAllowedDay(t time.Time, includeWeekends bool) time.Time {
	if includeWeekends {
		return t
	}
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
