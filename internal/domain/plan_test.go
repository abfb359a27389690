package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_Progress(t *testing.T) {
	p := NewPlan(uuid.New(), PlanSettings{})
	completed, total, pct := p.Progress()
	assert.Equal(t, 0, completed)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0.0, pct)

	p.Items = []PlanItem{
		{VideoIndices: []int{0}},
		{VideoIndices: []int{1}},
		{VideoIndices: []int{2}},
		{VideoIndices: []int{3}},
	}
	require.NoError(t, p.SetItemCompletion(0, true))
	require.NoError(t, p.SetItemCompletion(2, true))

	completed, total, pct = p.Progress()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 4, total)
	assert.InDelta(t, 50.0, pct, 0.001)
}

func TestPlan_SetItemCompletion_OutOfBounds(t *testing.T) {
	p := NewPlan(uuid.New(), PlanSettings{})
	assert.Error(t, p.SetItemCompletion(0, true))
	assert.Error(t, p.SetItemCompletion(-1, true))
}

func TestPlan_Validate_Permutation(t *testing.T) {
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	p := NewPlan(uuid.New(), PlanSettings{})
	p.Items = []PlanItem{
		{Date: base, VideoIndices: []int{0, 1}},
		{Date: base.AddDate(0, 0, 2), VideoIndices: []int{2}},
		{Date: base.AddDate(0, 0, 3), VideoIndices: []int{2}, IsReview: true, ModuleTitle: "Review: A"},
	}
	assert.NoError(t, p.Validate(3), "review items are excluded from the permutation check")

	p.Items[1].VideoIndices = []int{0}
	assert.Error(t, p.Validate(3), "duplicate index must fail")

	p.Items[1].VideoIndices = []int{2}
	p.Items[1].Date = base.AddDate(0, 0, -1)
	assert.Error(t, p.Validate(3), "dates must be non-decreasing")
}

func TestPlanSettings_Strategy_Defaults(t *testing.T) {
	s := PlanSettings{}
	assert.Equal(t, DistributionHybrid, s.Strategy())

	s.Advanced = &AdvancedSchedulerSettings{Strategy: DistributionTimeBased}
	assert.Equal(t, DistributionTimeBased, s.Strategy())
}

func TestAdvancedSettingsPresets(t *testing.T) {
	b := ForBeginner()
	assert.Equal(t, DistributionSpacedRepetition, b.Strategy)
	assert.True(t, b.SpacedRepetitionEnabled)
	assert.Equal(t, DifficultyBeginner, b.UserExperienceLevel)

	a := ForAdvanced()
	assert.Equal(t, DistributionAdaptive, a.Strategy)
	assert.True(t, a.PrioritizeDifficult)
	assert.False(t, a.CognitiveLoadBalancing)
}

func TestDifficultyRank(t *testing.T) {
	assert.Less(t, DifficultyBeginner.Rank(), DifficultyIntermediate.Rank())
	assert.Less(t, DifficultyIntermediate.Rank(), DifficultyAdvanced.Rank())
	assert.Less(t, DifficultyAdvanced.Rank(), DifficultyExpert.Rank())
	assert.Equal(t, DifficultyIntermediate.Rank(), DifficultyLevel("unknown").Rank())
}
