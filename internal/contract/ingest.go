package contract

import (
	"fmt"
	"time"

	"github.com/k5602/course-pilot/internal/domain"
)

// IngestedVideo is one video as handed over by an ingestion adapter.
type IngestedVideo struct {
	Title           string
	SourceURL       string
	SourceID        string
	OriginalIndex   int
	DurationSeconds int64 // 0 when unknown
	IsLocal         bool
}

// IngestedCourse is the input accepted from ingestion adapters.
type IngestedCourse struct {
	Name   string
	Videos []IngestedVideo
}

// ToCourse validates the ingested videos and builds a domain course.
// Incomplete videos are rejected with a per-video reason.
func (ic *IngestedCourse) ToCourse() (*domain.Course, error) {
	if len(ic.Videos) == 0 {
		return nil, &ValidationError{
			Code:    ErrEmptyCourse,
			Message: "course has no videos",
		}
	}

	videos := make([]domain.VideoMetadata, len(ic.Videos))
	var problems []VideoProblem
	for i, v := range ic.Videos {
		videos[i] = domain.VideoMetadata{
			Title:         v.Title,
			SourceURL:     v.SourceURL,
			SourceID:      v.SourceID,
			OriginalIndex: i,
			Duration:      time.Duration(v.DurationSeconds) * time.Second,
			IsLocal:       v.IsLocal,
		}
		if reason := videos[i].CompletenessProblem(); reason != "" {
			problems = append(problems, VideoProblem{Index: i, Reason: reason})
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{
			Code:    ErrIncompleteVideoMetadata,
			Message: fmt.Sprintf("%d video(s) have incomplete metadata", len(problems)),
			Videos:  problems,
		}
	}

	return domain.NewCourse(ic.Name, videos), nil
}
