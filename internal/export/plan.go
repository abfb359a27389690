package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/scheduler"
)

type planDocument struct {
	Plan     planData    `json:"plan"`
	Progress planSummary `json:"progress_summary"`
	Metadata Metadata    `json:"export_metadata"`
}

type planData struct {
	ID                   string         `json:"id"`
	CourseID             string         `json:"course_id"`
	CreatedAt            time.Time      `json:"created_at"`
	StartDate            time.Time      `json:"start_date"`
	SessionsPerWeek      int            `json:"sessions_per_week"`
	SessionLengthMinutes int            `json:"session_length_minutes"`
	IncludeWeekends      bool           `json:"include_weekends"`
	Strategy             string         `json:"strategy"`
	Items                []planItemData `json:"items"`
}

type planItemData struct {
	Date                 string   `json:"date"`
	ModuleTitle          string   `json:"module_title"`
	SectionTitle         string   `json:"section_title"`
	VideoIndices         []int    `json:"video_indices"`
	Completed            bool     `json:"completed"`
	TotalDurationSeconds int64    `json:"total_duration_seconds"`
	EstimatedSeconds     int64    `json:"estimated_seconds,omitempty"`
	OverflowWarnings     []string `json:"overflow_warnings,omitempty"`
	IsReview             bool     `json:"is_review,omitempty"`
}

type planSummary struct {
	TotalSessions          int     `json:"total_sessions"`
	CompletedSessions      int     `json:"completed_sessions"`
	ReviewSessions         int     `json:"review_sessions,omitempty"`
	ProgressPercentage     float64 `json:"progress_percentage"`
	TotalStudySeconds      int64   `json:"total_study_seconds"`
	RemainingStudySeconds  int64   `json:"remaining_study_seconds"`
	AverageSessionSeconds  int64   `json:"average_session_seconds"`
	EstimatedCompletionISO string  `json:"estimated_completion_date,omitempty"`
}

// PlanJSON renders the plan, its sessions, and a progress summary as an
// indented JSON document with an export envelope.
func PlanJSON(p *domain.Plan) ([]byte, error) {
	a := scheduler.Analyze(p)

	data := planData{
		ID:                   p.ID.String(),
		CourseID:             p.CourseID.String(),
		CreatedAt:            p.CreatedAt.UTC(),
		StartDate:            p.Settings.StartDate.UTC(),
		SessionsPerWeek:      p.Settings.SessionsPerWeek,
		SessionLengthMinutes: p.Settings.SessionLengthMinutes,
		IncludeWeekends:      p.Settings.IncludeWeekends,
		Strategy:             string(p.Settings.Strategy()),
		Items:                make([]planItemData, len(p.Items)),
	}
	for i, item := range p.Items {
		data.Items[i] = planItemData{
			Date:                 item.Date.UTC().Format("2006-01-02"),
			ModuleTitle:          item.ModuleTitle,
			SectionTitle:         item.SectionTitle,
			VideoIndices:         item.VideoIndices,
			Completed:            item.Completed,
			TotalDurationSeconds: int64(item.TotalDuration.Seconds()),
			EstimatedSeconds:     int64(item.EstimatedCompletionTime.Seconds()),
			OverflowWarnings:     item.OverflowWarnings,
			IsReview:             item.IsReview,
		}
	}

	summary := planSummary{
		TotalSessions:         a.TotalSessions,
		CompletedSessions:     a.CompletedSessions,
		ReviewSessions:        a.ReviewSessions,
		ProgressPercentage:    a.ProgressPercent,
		TotalStudySeconds:     int64(a.TotalStudyTime.Seconds()),
		RemainingStudySeconds: int64(a.RemainingStudyTime.Seconds()),
		AverageSessionSeconds: int64(a.AverageSessionLoad.Seconds()),
	}
	if !a.FinalSessionDate.IsZero() {
		summary.EstimatedCompletionISO = a.FinalSessionDate.UTC().Format("2006-01-02")
	}

	doc := planDocument{Plan: data, Progress: summary, Metadata: newMetadata(time.Now())}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing plan: %w", err)
	}
	return out, nil
}

// PlanCSV renders the plan's sessions as flat rows with per-row session and
// week numbers. Week numbers count from the first session's date.
func PlanCSV(p *domain.Plan) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Date", "Module", "Section", "Video_Indices", "Completed", "Review", "Session_Number", "Week_Number"},
	}

	var start time.Time
	if len(p.Items) > 0 {
		start = p.Items[0].Date
	}
	for i, item := range p.Items {
		indices := make([]string, len(item.VideoIndices))
		for j, vi := range item.VideoIndices {
			indices[j] = strconv.Itoa(vi)
		}
		week := int(item.Date.Sub(start).Hours()/24)/7 + 1
		rows = append(rows, []string{
			item.Date.UTC().Format("2006-01-02"),
			item.ModuleTitle,
			item.SectionTitle,
			strings.Join(indices, ";"),
			yesNo(item.Completed),
			yesNo(item.IsReview),
			strconv.Itoa(i + 1),
			strconv.Itoa(week),
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing plan rows: %w", err)
	}
	return buf.Bytes(), nil
}

// Plan renders the plan in the requested format.
func Plan(p *domain.Plan, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return PlanJSON(p)
	case FormatCSV:
		return PlanCSV(p)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
