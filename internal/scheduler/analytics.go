package scheduler

import (
	"time"

	"github.com/k5602/course-pilot/internal/domain"
)

// PlanAnalytics summarizes a plan for the progress and show views.
type PlanAnalytics struct {
	TotalSessions      int
	CompletedSessions  int
	ReviewSessions     int
	TotalStudyTime     time.Duration
	RemainingStudyTime time.Duration
	AverageSessionLoad time.Duration
	ProgressPercent    float64
	// FinalSessionDate is the zero time for an empty plan.
	FinalSessionDate time.Time
}

// Analyze walks the plan once and derives the aggregate figures.
func Analyze(p *domain.Plan) PlanAnalytics {
	var a PlanAnalytics
	a.TotalSessions = len(p.Items)
	for i := range p.Items {
		item := &p.Items[i]
		if item.IsReview {
			a.ReviewSessions++
		}
		a.TotalStudyTime += item.TotalDuration
		if item.Completed {
			a.CompletedSessions++
		} else {
			a.RemainingStudyTime += item.TotalDuration
		}
		if item.Date.After(a.FinalSessionDate) {
			a.FinalSessionDate = item.Date
		}
	}
	if a.TotalSessions > 0 {
		a.AverageSessionLoad = a.TotalStudyTime / time.Duration(a.TotalSessions)
		a.ProgressPercent = 100 * float64(a.CompletedSessions) / float64(a.TotalSessions)
	}
	return a
}
