package scheduler

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k5602/course-pilot/internal/domain"
)

// testStructure builds modules of the given sizes over consecutive video
// indices, every section lasting dur.
func testStructure(sizes []int, dur time.Duration) *domain.CourseStructure {
	var modules []domain.Module
	next := 0
	for mi, size := range sizes {
		sections := make([]domain.Section, size)
		for i := range sections {
			sections[i] = domain.Section{
				Title:      "Video",
				VideoIndex: next,
				Duration:   dur,
			}
			next++
		}
		modules = append(modules, domain.NewModule([]string{"Basics", "Middle", "Wrap Up", "Extra", "More"}[mi%5], sections))
	}
	s := &domain.CourseStructure{Modules: modules}
	s.Metadata.TotalVideos = next
	return s
}

func mondaySettings(strategy domain.DistributionStrategy, lengthMin int) domain.PlanSettings {
	return domain.PlanSettings{
		StartDate:            time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), // a Monday
		SessionsPerWeek:      3,
		SessionLengthMinutes: lengthMin,
		IncludeWeekends:      false,
		Advanced:             &domain.AdvancedSchedulerSettings{Strategy: strategy},
	}
}

func TestBuildPlan_ModuleBasedPacking(t *testing.T) {
	structure := testStructure([]int{8, 8, 8}, 900*time.Second)
	settings := mondaySettings(domain.DistributionModuleBased, 60)

	plan := BuildPlan(uuid.New(), structure, settings)
	require.NoError(t, plan.Validate(24))

	// 4 sections of 900 s fill a 3600 s session; 8 per module gives 2
	// items per module and no boundary crossing.
	require.Len(t, plan.Items, 6)
	for i, item := range plan.Items {
		assert.LessOrEqual(t, item.TotalDuration, 3600*time.Second, "item %d", i)
		assert.NotContains(t, item.ModuleTitle, "→", "item %d crosses a module boundary", i)
		switch item.Date.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
		default:
			t.Errorf("item %d on %s, want Mon/Wed/Fri", i, item.Date.Weekday())
		}
	}
	assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), plan.Items[0].Date)
}

func TestBuildPlan_OverflowSectionIsAloneAndWarned(t *testing.T) {
	sections := []domain.Section{
		{Title: "Marathon", VideoIndex: 0, Duration: 7200 * time.Second},
		{Title: "Short A", VideoIndex: 1, Duration: 300 * time.Second},
		{Title: "Short B", VideoIndex: 2, Duration: 300 * time.Second},
	}
	structure := &domain.CourseStructure{Modules: []domain.Module{domain.NewModule("Only", sections)}}
	settings := mondaySettings(domain.DistributionModuleBased, 60)

	plan := BuildPlan(uuid.New(), structure, settings)
	require.NoError(t, plan.Validate(3))
	require.Len(t, plan.Items, 2)

	long := plan.Items[0]
	assert.Equal(t, []int{0}, long.VideoIndices)
	assert.Len(t, long.OverflowWarnings, 1)

	assert.Equal(t, []int{1, 2}, plan.Items[1].VideoIndices)
	assert.Empty(t, plan.Items[1].OverflowWarnings)
}

func TestBuildPlan_SpacedRepetitionReviews(t *testing.T) {
	structure := testStructure([]int{6}, 600*time.Second)
	settings := mondaySettings(domain.DistributionSpacedRepetition, 10) // one video per session
	settings.Advanced.SpacedRepetitionEnabled = true
	settings.Advanced.CustomIntervals = []int{1, 3, 7}

	plan := BuildPlan(uuid.New(), structure, settings)
	require.NoError(t, plan.Validate(6), "reviews are excluded from coverage")

	content := plan.ContentItems()
	require.Len(t, content, 6)
	assert.Len(t, plan.Items, 6+6*3)

	for i, item := range plan.Items {
		if item.IsReview {
			assert.Contains(t, item.ModuleTitle, "Review: ", "item %d", i)
			assert.LessOrEqual(t, len(item.VideoIndices), 3)
		}
		switch item.Date.Weekday() {
		case time.Saturday, time.Sunday:
			t.Errorf("item %d scheduled on a weekend", i)
		}
	}
	for i := 1; i < len(plan.Items); i++ {
		assert.False(t, plan.Items[i].Date.Before(plan.Items[i-1].Date), "item %d out of order", i)
	}
}

func TestBuildPlan_HybridCrossesHalfEmptyBoundary(t *testing.T) {
	// First module ends with a single 20-minute leftover; the next
	// module's 20-minute opener fits alongside it.
	structure := &domain.CourseStructure{Modules: []domain.Module{
		domain.NewModule("Basics", []domain.Section{
			{Title: "A", VideoIndex: 0, Duration: 1200 * time.Second},
		}),
		domain.NewModule("Advanced", []domain.Section{
			{Title: "B", VideoIndex: 1, Duration: 1200 * time.Second},
		}),
	}}
	settings := mondaySettings(domain.DistributionHybrid, 60)

	plan := BuildPlan(uuid.New(), structure, settings)
	require.NoError(t, plan.Validate(2))
	require.Len(t, plan.Items, 1)
	assert.Equal(t, "Basics → Advanced", plan.Items[0].ModuleTitle)
	assert.Equal(t, []int{0, 1}, plan.Items[0].VideoIndices)
}

func TestBuildPlan_Deterministic(t *testing.T) {
	structure := testStructure([]int{5, 7, 4}, 777*time.Second)
	settings := mondaySettings(domain.DistributionHybrid, 45)
	courseID := uuid.New()

	a := BuildPlan(courseID, structure, settings)
	b := BuildPlan(courseID, structure, settings)
	assert.True(t, reflect.DeepEqual(a.Items, b.Items))
}

func TestEstimateCompletion_Buffers(t *testing.T) {
	item := domain.PlanItem{TotalDuration: 1000 * time.Second, VideoIndices: []int{0, 1, 2}}

	assert.Equal(t, 1100*time.Second, estimateCompletion(item, nil))

	balancing := &domain.AdvancedSchedulerSettings{CognitiveLoadBalancing: true}
	assert.Equal(t, 1200*time.Second, estimateCompletion(item, balancing))

	item.VideoIndices = []int{0, 1}
	assert.Equal(t, 1100*time.Second, estimateCompletion(item, balancing))
}

func TestChooseStrategy(t *testing.T) {
	structure := testStructure([]int{4, 4}, 600*time.Second)

	explicit := domain.PlanSettings{Advanced: &domain.AdvancedSchedulerSettings{Strategy: domain.DistributionTimeBased}}
	assert.Equal(t, domain.DistributionTimeBased, ChooseStrategy(structure, explicit))

	spaced := domain.PlanSettings{Advanced: &domain.AdvancedSchedulerSettings{SpacedRepetitionEnabled: true}}
	assert.Equal(t, domain.DistributionSpacedRepetition, ChooseStrategy(structure, spaced))

	structure.Modules[0].Difficulty = domain.DifficultyBeginner
	structure.Modules[1].Difficulty = domain.DifficultyExpert
	adaptive := domain.PlanSettings{Advanced: &domain.AdvancedSchedulerSettings{DifficultyAdaptation: true}}
	assert.Equal(t, domain.DistributionDifficultyBased, ChooseStrategy(structure, adaptive))

	single := testStructure([]int{6}, 600*time.Second)
	assert.Equal(t, domain.DistributionTimeBased, ChooseStrategy(single, domain.PlanSettings{}))

	two := testStructure([]int{4, 4}, 600*time.Second)
	assert.Equal(t, domain.DistributionHybrid, ChooseStrategy(two, domain.PlanSettings{}))
}

func TestAnalyze(t *testing.T) {
	plan := domain.NewPlan(uuid.New(), domain.PlanSettings{})
	plan.Items = []domain.PlanItem{
		{Date: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), TotalDuration: time.Hour, Completed: true},
		{Date: time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC), TotalDuration: time.Hour},
		{Date: time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC), TotalDuration: 30 * time.Minute, IsReview: true},
	}

	a := Analyze(plan)
	assert.Equal(t, 3, a.TotalSessions)
	assert.Equal(t, 1, a.CompletedSessions)
	assert.Equal(t, 1, a.ReviewSessions)
	assert.Equal(t, 150*time.Minute, a.TotalStudyTime)
	assert.Equal(t, 90*time.Minute, a.RemainingStudyTime)
	assert.Equal(t, 50*time.Minute, a.AverageSessionLoad)
	assert.Equal(t, time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC), a.FinalSessionDate)
	assert.InDelta(t, 33.33, a.ProgressPercent, 0.01)
}
