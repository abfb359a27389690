package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/k5602/course-pilot/internal/domain"
)

func testCourse() *domain.Course {
	c := domain.NewCourse("Rust Basics", []domain.VideoMetadata{
		{Title: "Ownership", SourceURL: "u1", SourceID: "a1", Duration: 10 * time.Minute},
		{Title: "Borrowing", SourceURL: "u2", SourceID: "a2", Duration: 12 * time.Minute},
	})
	c.Structure = &domain.CourseStructure{
		Modules: []domain.Module{
			domain.NewModule("Ownership", []domain.Section{
				{Title: "Ownership", VideoIndex: 0, Duration: 10 * time.Minute},
				{Title: "Borrowing", VideoIndex: 1, Duration: 12 * time.Minute},
			}),
		},
		Metadata: domain.StructureMetadata{
			TotalVideos:            2,
			ContentTypeDetected:    domain.ContentSequential,
			ProcessingStrategyUsed: domain.StrategyFallback,
		},
	}
	return c
}

func TestFormatCourseList(t *testing.T) {
	out := FormatCourseList([]*domain.Course{testCourse()})
	assert.Contains(t, out, "Rust Basics")
	assert.Contains(t, out, "NAME")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3) // header + separator + one row
}

func TestFormatCourseInspect(t *testing.T) {
	out := FormatCourseInspect(testCourse())
	assert.Contains(t, out, "RUST BASICS")
	assert.Contains(t, out, "sequential")
	assert.Contains(t, out, "Ownership")
	assert.Contains(t, out, "└─")
}

func TestFormatCourseInspect_Unstructured(t *testing.T) {
	c := testCourse()
	c.Structure = nil
	out := FormatCourseInspect(c)
	assert.Contains(t, out, "Not structured yet")
}
