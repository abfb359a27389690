package scheduler

import (
	"sort"
	"time"

	"github.com/k5602/course-pilot/internal/domain"
)

const (
	difficultBudgetScale = 0.8
	beginnerBudgetScale  = 1.1
	adaptiveGrowth       = 1.1
	adaptiveWindow       = 3
)

// defaultReviewIntervals are the spaced-repetition offsets in days when
// the user provides none.
var defaultReviewIntervals = []int{1, 3, 7, 14}

// packDifficultyBased reorders modules by difficulty before module-based
// packing. Beginners work easy-to-hard; advanced learners who prioritize
// difficult content work hard-to-easy. Budgets scale with module
// difficulty when adaptive pacing is on.
func packDifficultyBased(modules []domain.Module, settings domain.PlanSettings) []domain.PlanItem {
	adv := settings.Advanced
	ordered := make([]domain.Module, len(modules))
	copy(ordered, modules)

	descending := adv != nil && adv.PrioritizeDifficult &&
		(adv.UserExperienceLevel == domain.DifficultyAdvanced || adv.UserExperienceLevel == domain.DifficultyExpert)
	sort.SliceStable(ordered, func(i, j int) bool {
		if descending {
			return ordered[i].Difficulty.Rank() > ordered[j].Difficulty.Rank()
		}
		return ordered[i].Difficulty.Rank() < ordered[j].Difficulty.Rank()
	})

	base := settings.SessionBudget()
	return packModuleBased(ordered, func(m domain.Module) time.Duration {
		if adv == nil || !adv.AdaptivePacing {
			return base
		}
		budget := base
		switch m.Difficulty {
		case domain.DifficultyAdvanced, domain.DifficultyExpert:
			budget = time.Duration(float64(base) * difficultBudgetScale)
		case domain.DifficultyBeginner:
			budget = time.Duration(float64(base) * beginnerBudgetScale)
		}
		return capBudget(budget, adv)
	})
}

// packAdaptive is hybrid packing with a per-item budget that tracks the
// rolling mean of the last three items once enough history exists.
func packAdaptive(modules []domain.Module, settings domain.PlanSettings) []domain.PlanItem {
	base := settings.SessionBudget()
	return packHybrid(modules, func(done []domain.PlanItem) time.Duration {
		if len(done) < adaptiveWindow {
			return base
		}
		var sum time.Duration
		for _, it := range done[len(done)-adaptiveWindow:] {
			sum += it.TotalDuration
		}
		budget := time.Duration(float64(sum) / adaptiveWindow * adaptiveGrowth)
		if budget > base {
			budget = base
		}
		return capBudget(budget, settings.Advanced)
	})
}

func capBudget(budget time.Duration, adv *domain.AdvancedSchedulerSettings) time.Duration {
	if adv != nil && adv.MaxSessionDurationMinutes != nil {
		if limit := time.Duration(*adv.MaxSessionDurationMinutes) * time.Minute; budget > limit {
			budget = limit
		}
	}
	return budget
}

// reviewItems builds the spaced-repetition follow-ups for one dated
// content item: one review per interval, each re-referencing the item's
// most recent sections, rolled forward off disallowed weekdays.
func reviewItems(item domain.PlanItem, intervals []int, includeWeekends bool, durationOf map[int]time.Duration) []domain.PlanItem {
	n := len(item.VideoIndices)
	if n > 3 {
		n = 3
	}
	indices := item.VideoIndices[len(item.VideoIndices)-n:]

	var total time.Duration
	for _, vi := range indices {
		total += durationOf[vi]
	}

	reviews := make([]domain.PlanItem, 0, len(intervals))
	for _, days := range intervals {
		reviews = append(reviews, domain.PlanItem{
			Date:          nextAllowedDay(item.Date.AddDate(0, 0, days), includeWeekends),
			ModuleTitle:   "Review: " + item.ModuleTitle,
			SectionTitle:  "Review: " + item.SectionTitle,
			VideoIndices:  append([]int(nil), indices...),
			TotalDuration: total,
			IsReview:      true,
		})
	}
	return reviews
}

func reviewIntervals(adv *domain.AdvancedSchedulerSettings) []int {
	if adv != nil && len(adv.CustomIntervals) > 0 {
		return adv.CustomIntervals
	}
	return defaultReviewIntervals
}
