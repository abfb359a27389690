package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k5602/course-pilot/internal/db"
	"github.com/k5602/course-pilot/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func sampleCourse(t *testing.T) *domain.Course {
	t.Helper()
	videos := []domain.VideoMetadata{
		{Title: "Intro to Go", SourceURL: "https://example.com/v/1", SourceID: "vid-1",
			Duration: 600 * time.Second, Tags: []string{"go", "intro"}},
		{Title: "Structs and Methods", SourceURL: "https://example.com/v/2", SourceID: "vid-2",
			Duration: 900 * time.Second},
		{Title: "Local Recording", SourceID: "/videos/local.mp4", IsLocal: true,
			Duration: 300 * time.Second},
	}
	return domain.NewCourse("Go Basics", videos)
}

func TestCourseRepo_RoundTrip(t *testing.T) {
	repo := NewCourseRepo(openTestDB(t))
	ctx := context.Background()

	course := sampleCourse(t)
	require.NoError(t, repo.Create(ctx, course))

	got, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)

	assert.Equal(t, course.Name, got.Name)
	require.Len(t, got.Videos, 3)
	assert.Equal(t, course.Videos[0].Title, got.Videos[0].Title)
	assert.Equal(t, course.Videos[0].Tags, got.Videos[0].Tags)
	assert.Equal(t, 600*time.Second, got.Videos[0].Duration)
	assert.True(t, got.Videos[2].IsLocal)
	assert.Equal(t, got.RawTitles, got.Titles())
	assert.Nil(t, got.Structure)
	assert.NoError(t, got.Validate())
}

func TestCourseRepo_SaveStructureUpserts(t *testing.T) {
	repo := NewCourseRepo(openTestDB(t))
	ctx := context.Background()

	course := sampleCourse(t)
	require.NoError(t, repo.Create(ctx, course))

	first := &domain.CourseStructure{
		Modules: []domain.Module{domain.NewModule("Module 1", []domain.Section{
			{Title: "Intro to Go", VideoIndex: 0, Duration: 600 * time.Second},
			{Title: "Structs and Methods", VideoIndex: 1, Duration: 900 * time.Second},
			{Title: "Local Recording", VideoIndex: 2, Duration: 300 * time.Second},
		})},
	}
	first.Metadata.ProcessingStrategyUsed = domain.StrategyFallback
	require.NoError(t, repo.SaveStructure(ctx, course.ID, first))

	got, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Structure)
	assert.Len(t, got.Structure.Modules, 1)

	second := &domain.CourseStructure{
		Modules: []domain.Module{
			domain.NewModule("A", first.Modules[0].Sections[:1]),
			domain.NewModule("B", first.Modules[0].Sections[1:]),
		},
	}
	require.NoError(t, repo.SaveStructure(ctx, course.ID, second))

	got, err = repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, got.Structure.Modules, 2, "second save replaces the first")
}

func TestCourseRepo_StructurePayloadStoresSeconds(t *testing.T) {
	sqlDB := openTestDB(t)
	repo := NewCourseRepo(sqlDB)
	ctx := context.Background()

	course := sampleCourse(t)
	require.NoError(t, repo.Create(ctx, course))

	score := 0.42
	structure := &domain.CourseStructure{
		Modules: []domain.Module{domain.NewModule("M", []domain.Section{
			{Title: "Intro to Go", VideoIndex: 0, Duration: 600 * time.Second},
		})},
		ClusteringMetadata: &domain.ClusteringMetadata{
			Algorithm:    domain.AlgorithmKMeans,
			ClusterCount: 1,
			Performance:  domain.PerformanceMetrics{AnalysisTime: 2 * time.Second},
		},
	}
	structure.Modules[0].SimilarityScore = &score
	structure.Metadata.TotalDuration = 600 * time.Second
	require.NoError(t, repo.SaveStructure(ctx, course.ID, structure))

	var payload string
	require.NoError(t, sqlDB.QueryRow(`SELECT payload FROM structures`).Scan(&payload))
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	// Seconds in the payload, not nanoseconds.
	section := raw["Modules"].([]any)[0].(map[string]any)["Sections"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(600), section["DurationSeconds"])
	perf := raw["ClusteringMetadata"].(map[string]any)["Performance"].(map[string]any)
	assert.Equal(t, float64(2), perf["AnalysisSeconds"])

	got, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 600*time.Second, got.Structure.Modules[0].Sections[0].Duration)
	assert.Equal(t, 2*time.Second, got.Structure.ClusteringMetadata.Performance.AnalysisTime)
	assert.Equal(t, &score, got.Structure.Modules[0].SimilarityScore)
}

func TestCourseRepo_DeleteCascades(t *testing.T) {
	sqlDB := openTestDB(t)
	repo := NewCourseRepo(sqlDB)
	ctx := context.Background()

	course := sampleCourse(t)
	require.NoError(t, repo.Create(ctx, course))
	require.NoError(t, repo.SaveStructure(ctx, course.ID, &domain.CourseStructure{
		Modules: []domain.Module{domain.NewModule("M", []domain.Section{{Title: "x"}})},
	}))

	require.NoError(t, repo.Delete(ctx, course.ID))

	var videos, structures int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM videos`).Scan(&videos))
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM structures`).Scan(&structures))
	assert.Zero(t, videos)
	assert.Zero(t, structures)
}

func TestCourseRepo_NotFound(t *testing.T) {
	repo := NewCourseRepo(openTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Rename(ctx, uuid.New(), "x"), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), ErrNotFound)
}

func TestCourseRepo_ListOrdersByCreation(t *testing.T) {
	repo := NewCourseRepo(openTestDB(t))
	ctx := context.Background()

	a := sampleCourse(t)
	a.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := sampleCourse(t)
	b.CreatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, a))

	courses, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, a.ID, courses[0].ID)
	assert.Equal(t, b.ID, courses[1].ID)
}
