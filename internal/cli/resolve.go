package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/k5602/course-pilot/internal/domain"
)

// resolveCourse maps user input to a course: exact name (case-insensitive),
// exact UUID, then UUID prefix.
func resolveCourse(ctx context.Context, app *App, input string) (*domain.Course, error) {
	if input == "" {
		return nil, fmt.Errorf("course name or ID is required")
	}

	courses, err := app.Courses.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range courses {
		if strings.EqualFold(c.Name, input) {
			return c, nil
		}
	}
	for _, c := range courses {
		if c.ID.String() == input {
			return c, nil
		}
	}

	var matches []*domain.Course
	for _, c := range courses {
		if strings.HasPrefix(c.ID.String(), strings.ToLower(input)) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("course not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("course ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
