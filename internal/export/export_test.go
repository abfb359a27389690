package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k5602/course-pilot/internal/domain"
)

func structuredTestCourse() *domain.Course {
	course := domain.NewCourse("Rust Basics", []domain.VideoMetadata{
		{Title: "Ownership", SourceURL: "https://example.com/v/1", SourceID: "a1", Duration: 10 * time.Minute},
		{Title: "Borrowing", SourceURL: "https://example.com/v/2", SourceID: "a2", Duration: 12 * time.Minute},
		{Title: "Lifetimes", SourceURL: "https://example.com/v/3", SourceID: "a3", Duration: 8 * time.Minute},
	})
	course.Structure = &domain.CourseStructure{
		Modules: []domain.Module{
			domain.NewModule("Ownership", []domain.Section{
				{Title: "Ownership", VideoIndex: 0, Duration: 10 * time.Minute},
				{Title: "Borrowing", VideoIndex: 1, Duration: 12 * time.Minute},
			}),
			domain.NewModule("Lifetimes", []domain.Section{
				{Title: "Lifetimes", VideoIndex: 2, Duration: 8 * time.Minute},
			}),
		},
		Metadata: domain.StructureMetadata{
			TotalVideos:            3,
			TotalDuration:          30 * time.Minute,
			ContentTypeDetected:    domain.ContentClustered,
			ProcessingStrategyUsed: domain.StrategyHierarchical,
		},
	}
	return course
}

func testPlan() *domain.Plan {
	plan := domain.NewPlan(uuid.New(), domain.PlanSettings{
		StartDate:            time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		SessionsPerWeek:      2,
		SessionLengthMinutes: 30,
	})
	plan.Items = []domain.PlanItem{
		{
			Date:          time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			ModuleTitle:   "Ownership",
			SectionTitle:  "Ownership (+1 more)",
			VideoIndices:  []int{0, 1},
			Completed:     true,
			TotalDuration: 22 * time.Minute,
		},
		{
			Date:          time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC),
			ModuleTitle:   "Lifetimes",
			SectionTitle:  "Lifetimes",
			VideoIndices:  []int{2},
			TotalDuration: 8 * time.Minute,
		},
		{
			Date:          time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
			ModuleTitle:   "Ownership",
			SectionTitle:  "Review: Ownership",
			VideoIndices:  []int{0},
			TotalDuration: 5 * time.Minute,
			IsReview:      true,
		},
	}
	return plan
}

func TestCourseJSON(t *testing.T) {
	out, err := CourseJSON(structuredTestCourse())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))

	course := doc["course"].(map[string]any)
	assert.Equal(t, "Rust Basics", course["name"])
	assert.Equal(t, float64(3), course["total_videos"])
	assert.Equal(t, float64(1800), course["total_duration_seconds"])
	assert.Len(t, course["videos"], 3)
	assert.Len(t, course["modules"], 2)

	meta := doc["export_metadata"].(map[string]any)
	assert.Equal(t, "1.0", meta["export_version"])
	assert.NotEmpty(t, meta["exported_at"])
}

func TestCourseCSV_Structured(t *testing.T) {
	out, err := CourseCSV(structuredTestCourse())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	// header + course + 2 modules + 3 sections
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"Type", "Title", "Module", "Section", "Duration", "Video_Index", "Created_At"}, rows[0])
	assert.Equal(t, "Course", rows[1][0])
	assert.Equal(t, "Module", rows[2][0])
	assert.Equal(t, []string{"Section", "Ownership", "Ownership", "Ownership", "0:10:00", "0", ""}, rows[3])
}

func TestCourseCSV_Unstructured(t *testing.T) {
	course := structuredTestCourse()
	course.Structure = nil
	out, err := CourseCSV(course)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5) // header + course + 3 videos
	assert.Equal(t, "Video", rows[2][0])
	assert.Equal(t, "Ownership", rows[2][1])
}

func TestPlanJSON(t *testing.T) {
	out, err := PlanJSON(testPlan())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))

	plan := doc["plan"].(map[string]any)
	assert.Equal(t, float64(2), plan["sessions_per_week"])
	assert.Len(t, plan["items"], 3)

	progress := doc["progress_summary"].(map[string]any)
	assert.Equal(t, float64(3), progress["total_sessions"])
	assert.Equal(t, float64(1), progress["completed_sessions"])
	assert.Equal(t, float64(1), progress["review_sessions"])
	assert.Equal(t, "2025-01-13", progress["estimated_completion_date"])
}

func TestPlanCSV(t *testing.T) {
	out, err := PlanCSV(testPlan())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	first := rows[1]
	assert.Equal(t, "2025-01-06", first[0])
	assert.Equal(t, "0;1", first[3])
	assert.Equal(t, "Yes", first[4])
	assert.Equal(t, "1", first[6])
	assert.Equal(t, "1", first[7]) // week 1

	review := rows[3]
	assert.Equal(t, "Yes", review[5])
	assert.Equal(t, "2", review[7]) // second week
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.ErrorContains(t, err, "unsupported export format")
}
