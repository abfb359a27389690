package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/scheduler"
)

// FormatPlan renders the session table for "plan" and "show".
func FormatPlan(p *domain.Plan) string {
	headers := []string{"#", "DATE", "MODULE", "SESSION", "DURATION", "DONE"}
	rows := make([][]string, len(p.Items))
	for i, item := range p.Items {
		done := Dim("·")
		if item.Completed {
			done = StyleGreen.Render("✓")
		}
		title := Truncate(item.SectionTitle, 44)
		if item.IsReview {
			title = StylePurple.Render(title)
		}
		if len(item.OverflowWarnings) > 0 {
			title += " " + StyleYellow.Render("⚠")
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			item.Date.Format("Mon 2006-01-02"),
			Truncate(item.ModuleTitle, 28),
			title,
			FormatDuration(item.TotalDuration),
			done,
		}
	}
	return RenderTable(headers, rows)
}

// FormatPlanSummary renders the analytics block shown under the plan table
// and by the progress command.
func FormatPlanSummary(a scheduler.PlanAnalytics) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s\n", Dim("Progress:"),
		RenderProgress(a.ProgressPercent/100, 24),
		Dim(fmt.Sprintf("%d/%d sessions", a.CompletedSessions, a.TotalSessions))))
	if a.ReviewSessions > 0 {
		b.WriteString(fmt.Sprintf("%s %d\n", Dim("Review sessions:"), a.ReviewSessions))
	}
	b.WriteString(fmt.Sprintf("%s %s %s\n", Dim("Study time:"),
		FormatDuration(a.TotalStudyTime),
		Dim(fmt.Sprintf("(%s remaining)", FormatDuration(a.RemainingStudyTime)))))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Avg session:"), FormatDuration(a.AverageSessionLoad)))
	if !a.FinalSessionDate.IsZero() {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Finishes:"), a.FinalSessionDate.Format("Mon 2006-01-02")))
	}
	return b.String()
}

// FormatPreview renders a clustering preview for the approval prompt.
func FormatPreview(p contract.ClusteringPreview) string {
	var b strings.Builder
	b.WriteString(Header("Proposed structure"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s %s\n", Dim("Quality:"),
		QualityIndicator(p.QualityScore), Dim(fmt.Sprintf("(%.2f, confidence %.2f)", p.QualityScore, p.ConfidenceLevel))))
	b.WriteString(fmt.Sprintf("%s %d\n", Dim("Modules:"), p.ClusterCount))
	if len(p.KeyTopics) > 0 {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Topics:"), JoinKeywords(p.KeyTopics, 6)))
	}
	if p.Rationale != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Rationale:"), p.Rationale))
	}
	for _, m := range p.EstimatedModules {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", Dim("•"), m.Title,
			Dim(fmt.Sprintf("(%d videos, confidence %.2f)", m.VideoCount, m.Confidence))))
	}
	return b.String()
}
