package formatter

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/scheduler"
)

func TestFormatPlan(t *testing.T) {
	plan := domain.NewPlan(uuid.New(), domain.PlanSettings{SessionsPerWeek: 3, SessionLengthMinutes: 30})
	plan.Items = []domain.PlanItem{
		{
			Date:          time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			ModuleTitle:   "Ownership",
			SectionTitle:  "Ownership (+1 more)",
			VideoIndices:  []int{0, 1},
			Completed:     true,
			TotalDuration: 25 * time.Minute,
		},
		{
			Date:             time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC),
			ModuleTitle:      "Lifetimes",
			SectionTitle:     "Lifetimes",
			VideoIndices:     []int{2},
			TotalDuration:    64 * time.Minute,
			OverflowWarnings: []string{"section exceeds session budget"},
		},
	}

	out := FormatPlan(plan)
	assert.Contains(t, out, "Mon 2025-01-06")
	assert.Contains(t, out, "Ownership (+1 more)")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "⚠")
}

func TestFormatPlanSummary(t *testing.T) {
	out := FormatPlanSummary(scheduler.PlanAnalytics{
		TotalSessions:      4,
		CompletedSessions:  1,
		ReviewSessions:     1,
		TotalStudyTime:     2 * time.Hour,
		RemainingStudyTime: 90 * time.Minute,
		AverageSessionLoad: 30 * time.Minute,
		ProgressPercent:    25,
		FinalSessionDate:   time.Date(2025, 1, 17, 9, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, out, "1/4 sessions")
	assert.Contains(t, out, "Review sessions:")
	assert.Contains(t, out, "Fri 2025-01-17")
}

func TestFormatPreview(t *testing.T) {
	out := FormatPreview(contract.ClusteringPreview{
		QualityScore:    0.82,
		ConfidenceLevel: 0.75,
		ClusterCount:    3,
		Rationale:       "Grouped by shared topic vocabulary",
		KeyTopics:       []string{"rust", "python", "sql"},
		EstimatedModules: []contract.EstimatedModule{
			{Title: "Rust", VideoCount: 8, Confidence: 0.8, KeyTopics: []string{"rust"}},
		},
	})
	assert.Contains(t, out, "PROPOSED STRUCTURE")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "Rust")
	assert.Contains(t, out, "rust, python, sql")
}
