package scheduler

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/k5602/course-pilot/internal/domain"
)

const (
	bufferDefault    = 0.10
	bufferHighLoad   = 0.20
	highLoadSections = 3
)

// BuildPlan is a pure function of the structure and settings: identical
// inputs produce identical item sequences. Settings are assumed valid
// (the service validates before calling).
func BuildPlan(courseID uuid.UUID, structure *domain.CourseStructure, settings domain.PlanSettings) *domain.Plan {
	plan := domain.NewPlan(courseID, settings)
	if structure == nil || len(structure.Modules) == 0 {
		return plan
	}

	strategy := settings.Strategy()
	budget := settings.SessionBudget()
	fixed := func(domain.Module) time.Duration { return budget }

	var items []domain.PlanItem
	switch strategy {
	case domain.DistributionModuleBased, domain.DistributionSpacedRepetition:
		items = packModuleBased(structure.Modules, fixed)
	case domain.DistributionTimeBased:
		items = packTimeBased(structure.Modules, budget)
	case domain.DistributionDifficultyBased:
		items = packDifficultyBased(structure.Modules, settings)
	case domain.DistributionAdaptive:
		items = packAdaptive(structure.Modules, settings)
	default:
		items = packHybrid(structure.Modules, func([]domain.PlanItem) time.Duration { return budget })
	}

	slots := sessionSlots(settings, len(items))
	for i := range items {
		items[i].Date = slots[i]
		items[i].EstimatedCompletionTime = estimateCompletion(items[i], settings.Advanced)
	}

	if strategy == domain.DistributionSpacedRepetition {
		items = withReviews(items, structure, settings)
	}

	plan.Items = items
	return plan
}

// withReviews appends spaced-repetition follow-ups for every content item
// and re-sorts the merged sequence by date, reviews after content on ties.
func withReviews(items []domain.PlanItem, structure *domain.CourseStructure, settings domain.PlanSettings) []domain.PlanItem {
	durationOf := make(map[int]time.Duration)
	for _, mod := range structure.Modules {
		for _, sec := range mod.Sections {
			durationOf[sec.VideoIndex] = sec.Duration
		}
	}

	intervals := reviewIntervals(settings.Advanced)
	merged := append([]domain.PlanItem(nil), items...)
	for _, item := range items {
		reviews := reviewItems(item, intervals, settings.IncludeWeekends, durationOf)
		for i := range reviews {
			reviews[i].EstimatedCompletionTime = estimateCompletion(reviews[i], settings.Advanced)
		}
		merged = append(merged, reviews...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.Before(merged[j].Date)
		}
		return !merged[i].IsReview && merged[j].IsReview
	})
	return merged
}

// estimateCompletion pads the packed duration with a planning buffer,
// raised for heavy sessions when cognitive load balancing is on.
func estimateCompletion(item domain.PlanItem, adv *domain.AdvancedSchedulerSettings) time.Duration {
	buffer := bufferDefault
	if adv != nil && adv.CognitiveLoadBalancing && len(item.VideoIndices) >= highLoadSections {
		buffer = bufferHighLoad
	}
	return time.Duration(float64(item.TotalDuration) * (1 + buffer))
}

// ChooseStrategy recommends a distribution strategy from the course shape
// when the user has not picked one explicitly.
func ChooseStrategy(structure *domain.CourseStructure, settings domain.PlanSettings) domain.DistributionStrategy {
	adv := settings.Advanced
	if adv != nil && adv.Strategy != "" {
		return adv.Strategy
	}
	if adv != nil && adv.SpacedRepetitionEnabled {
		return domain.DistributionSpacedRepetition
	}
	if structure == nil || len(structure.Modules) == 0 {
		return domain.DistributionHybrid
	}
	if adv != nil && adv.DifficultyAdaptation && difficultySpread(structure.Modules) >= 2 {
		return domain.DistributionDifficultyBased
	}
	if structure.SectionCount() >= 40 || (adv != nil && adv.AdaptivePacing) {
		return domain.DistributionAdaptive
	}
	if len(structure.Modules) == 1 {
		return domain.DistributionTimeBased
	}
	return domain.DistributionHybrid
}

// difficultySpread is the rank distance between the easiest and hardest
// module.
func difficultySpread(modules []domain.Module) int {
	lo, hi := 3, 0
	for _, m := range modules {
		r := m.Difficulty.Rank()
		if r < lo {
			lo = r
		}
		if r > hi {
			hi = r
		}
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}
