package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/db"
	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/repository"
)

type testEnv struct {
	courses     repository.CourseRepo
	plans       repository.PlanRepo
	uow         db.UnitOfWork
	courseSvc   CourseService
	structuring StructuringService
	planSvc     PlanService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sqlDB, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	courses := repository.NewCourseRepo(sqlDB)
	plans := repository.NewPlanRepo(sqlDB)
	uow := db.NewUnitOfWork(sqlDB)
	return &testEnv{
		courses:     courses,
		plans:       plans,
		uow:         uow,
		courseSvc:   NewCourseService(courses, uow),
		structuring: NewStructuringService(courses, uow),
		planSvc:     NewPlanService(courses, plans, uow),
	}
}

// ingestedCourse builds a complete remote-video payload from titles.
func ingestedCourse(name string, titles []string, durationSeconds int64) contract.IngestedCourse {
	videos := make([]contract.IngestedVideo, len(titles))
	for i, title := range titles {
		videos[i] = contract.IngestedVideo{
			Title:           title,
			SourceURL:       fmt.Sprintf("https://example.com/v/%d", i),
			SourceID:        fmt.Sprintf("vid-%d", i),
			DurationSeconds: durationSeconds,
		}
	}
	return contract.IngestedCourse{Name: name, Videos: videos}
}

func mustImport(t *testing.T, env *testEnv, in contract.IngestedCourse) *domain.Course {
	t.Helper()
	course, err := env.courseSvc.Import(context.Background(), in)
	require.NoError(t, err)
	return course
}

// topicTitles mixes three recognizable topics, eight titles each.
func topicTitles() []string {
	rust := []string{
		"Rust Ownership Basics", "Rust Ownership Borrowing", "Rust Ownership Lifetimes",
		"Rust Ownership Moves", "Rust Ownership References", "Rust Ownership Slices",
		"Rust Ownership Smart Pointers", "Rust Ownership Closures",
	}
	python := []string{
		"Python Decorators Basics", "Python Decorators Arguments", "Python Decorators Classes",
		"Python Decorators Wraps", "Python Decorators Caching", "Python Decorators Registry",
		"Python Decorators Stacking", "Python Decorators Timing",
	}
	sql := []string{
		"SQL Joins Inner", "SQL Joins Left", "SQL Joins Right",
		"SQL Joins Full", "SQL Joins Cross", "SQL Joins Self",
		"SQL Joins Anti", "SQL Joins Lateral",
	}
	var titles []string
	for i := 0; i < 8; i++ {
		titles = append(titles, rust[i], python[i], sql[i])
	}
	return titles
}

func sequentialTitles(n int) []string {
	titles := make([]string, n)
	for i := range titles {
		titles[i] = fmt.Sprintf("Part %d - Topic", i+1)
	}
	return titles
}
