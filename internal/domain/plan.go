package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanSettings are the user constraints a plan is generated under. A plan
// snapshots the settings used to produce it.
type PlanSettings struct {
	StartDate            time.Time
	SessionsPerWeek      int
	SessionLengthMinutes int
	IncludeWeekends      bool
	Advanced             *AdvancedSchedulerSettings
}

// SessionBudget returns the per-session time budget.
func (s *PlanSettings) SessionBudget() time.Duration {
	return time.Duration(s.SessionLengthMinutes) * time.Minute
}

// Strategy returns the effective distribution strategy (Hybrid by default).
func (s *PlanSettings) Strategy() DistributionStrategy {
	if s.Advanced != nil && s.Advanced.Strategy != "" {
		return s.Advanced.Strategy
	}
	return DistributionHybrid
}

// AdvancedSchedulerSettings tune the scheduler beyond the weekly cadence.
type AdvancedSchedulerSettings struct {
	Strategy                   DistributionStrategy
	DifficultyAdaptation       bool
	SpacedRepetitionEnabled    bool
	CognitiveLoadBalancing     bool
	UserExperienceLevel        DifficultyLevel
	CustomIntervals            []int // review offsets in days
	MaxSessionDurationMinutes  *int
	MinBreakBetweenSessionsHrs *int
	PrioritizeDifficult        bool
	AdaptivePacing             bool
}

// DefaultAdvancedSettings mirrors the product defaults: hybrid packing with
// difficulty adaptation and cognitive load balancing on.
func DefaultAdvancedSettings() *AdvancedSchedulerSettings {
	return &AdvancedSchedulerSettings{
		Strategy:               DistributionHybrid,
		DifficultyAdaptation:   true,
		CognitiveLoadBalancing: true,
		UserExperienceLevel:    DifficultyIntermediate,
		AdaptivePacing:         true,
	}
}

// ForBeginner returns settings tuned for new learners: spaced repetition
// with load balancing.
func ForBeginner() *AdvancedSchedulerSettings {
	s := DefaultAdvancedSettings()
	s.Strategy = DistributionSpacedRepetition
	s.SpacedRepetitionEnabled = true
	s.UserExperienceLevel = DifficultyBeginner
	return s
}

// ForAdvanced returns settings tuned for experienced learners: adaptive
// pacing, difficult content first.
func ForAdvanced() *AdvancedSchedulerSettings {
	s := DefaultAdvancedSettings()
	s.Strategy = DistributionAdaptive
	s.CognitiveLoadBalancing = false
	s.UserExperienceLevel = DifficultyAdvanced
	s.PrioritizeDifficult = true
	return s
}

// PlanItem is a single scheduled study session: a dated bundle of section
// indices with duration and overflow diagnostics. Review items re-reference
// earlier videos and are excluded from coverage accounting.
type PlanItem struct {
	Date                    time.Time
	ModuleTitle             string
	SectionTitle            string
	VideoIndices            []int
	Completed               bool
	TotalDuration           time.Duration
	EstimatedCompletionTime time.Duration
	OverflowWarnings        []string
	IsReview                bool
}

// Plan is a dated sequence of study sessions covering every video exactly
// once (review items aside). It is produced as a value and replaces any
// previous plan for the course atomically.
type Plan struct {
	ID        uuid.UUID
	CourseID  uuid.UUID
	Settings  PlanSettings
	Items     []PlanItem
	CreatedAt time.Time
}

// NewPlan creates an empty plan bound to a course and settings snapshot.
func NewPlan(courseID uuid.UUID, settings PlanSettings) *Plan {
	return &Plan{
		ID:        uuid.New(),
		CourseID:  courseID,
		Settings:  settings,
		CreatedAt: time.Now().UTC(),
	}
}

// SetItemCompletion updates a single item's completion flag.
func (p *Plan) SetItemCompletion(index int, completed bool) error {
	if index < 0 || index >= len(p.Items) {
		return fmt.Errorf("plan item index %d out of bounds (plan has %d items)", index, len(p.Items))
	}
	p.Items[index].Completed = completed
	return nil
}

// Progress returns (completed, total, percentage). Percentage is 0 when the
// plan has no items.
func (p *Plan) Progress() (int, int, float64) {
	total := len(p.Items)
	completed := 0
	for i := range p.Items {
		if p.Items[i].Completed {
			completed++
		}
	}
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(completed) / float64(total)
	}
	return completed, total, pct
}

// ContentItems returns the non-review items in order.
func (p *Plan) ContentItems() []PlanItem {
	items := make([]PlanItem, 0, len(p.Items))
	for i := range p.Items {
		if !p.Items[i].IsReview {
			items = append(items, p.Items[i])
		}
	}
	return items
}

// Validate checks the plan invariants: non-decreasing dates and, across
// non-review items, a permutation of the course's video indices.
func (p *Plan) Validate(videoCount int) error {
	for i := 1; i < len(p.Items); i++ {
		if p.Items[i].Date.Before(p.Items[i-1].Date) {
			return fmt.Errorf("item %d dated before item %d", i, i-1)
		}
	}
	seen := make([]bool, videoCount)
	total := 0
	for i := range p.Items {
		if p.Items[i].IsReview {
			continue
		}
		if len(p.Items[i].VideoIndices) == 0 {
			return fmt.Errorf("item %d has no videos", i)
		}
		for _, vi := range p.Items[i].VideoIndices {
			if vi < 0 || vi >= videoCount {
				return fmt.Errorf("item %d references video index %d outside [0,%d)", i, vi, videoCount)
			}
			if seen[vi] {
				return fmt.Errorf("video index %d scheduled twice", vi)
			}
			seen[vi] = true
			total++
		}
	}
	if total != videoCount {
		return fmt.Errorf("plan schedules %d of %d videos", total, videoCount)
	}
	return nil
}
