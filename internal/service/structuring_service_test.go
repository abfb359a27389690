package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k5602/course-pilot/internal/contract"
)

func TestRunStructuringJob_CompletesAndPersists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := mustImport(t, env, ingestedCourse("Mixed Topics", topicTitles(), 900))

	var updates []contract.JobUpdate
	structure, err := env.structuring.RunStructuringJob(ctx, course.ID, contract.StructuringOptions{},
		func(u contract.JobUpdate) { updates = append(updates, u) }, nil)
	require.NoError(t, err)
	require.NotNil(t, structure)
	assert.NoError(t, structure.Validate(24))

	final := updates[len(updates)-1]
	assert.Equal(t, contract.JobCompleted, final.Status)
	assert.InDelta(t, 1.0, final.AggregateProgress, 1e-9)
	assert.False(t, final.CanCancel)

	// Every stage ran, in order.
	var seen []contract.JobStage
	for _, u := range updates {
		if len(seen) == 0 || seen[len(seen)-1] != u.Stage {
			seen = append(seen, u.Stage)
		}
	}
	assert.Equal(t, []contract.JobStage(contract.Stages), seen[1:], "stages in declared order")

	stored, err := env.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Structure)
	assert.Equal(t, len(structure.Modules), len(stored.Structure.Modules))
}

func TestRunStructuringJob_ProgressMonotonic(t *testing.T) {
	env := newTestEnv(t)
	course := mustImport(t, env, ingestedCourse("Sequential", sequentialTitles(30), 600))

	var updates []contract.JobUpdate
	_, err := env.structuring.RunStructuringJob(context.Background(), course.ID,
		contract.StructuringOptions{},
		func(u contract.JobUpdate) { updates = append(updates, u) }, nil)
	require.NoError(t, err)

	for i := 1; i < len(updates); i++ {
		assert.GreaterOrEqual(t, updates[i].AggregateProgress, updates[i-1].AggregateProgress,
			"aggregate progress regressed at update %d", i)
	}
	assert.InDelta(t, 1.0, updates[len(updates)-1].AggregateProgress, 1e-9)
}

func TestRunStructuringJob_CancelDuringClustering(t *testing.T) {
	env := newTestEnv(t)
	course := mustImport(t, env, ingestedCourse("Big Course", topicTitles(), 900))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var updates []contract.JobUpdate
	_, err := env.structuring.RunStructuringJob(ctx, course.ID, contract.StructuringOptions{},
		func(u contract.JobUpdate) {
			updates = append(updates, u)
			if u.Stage == contract.StageKMeans {
				cancel()
			}
		}, nil)

	var jobErr *contract.JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, contract.ErrCancelled, jobErr.Code)

	final := updates[len(updates)-1]
	assert.Equal(t, contract.JobCancelled, final.Status)
	assert.False(t, final.CanCancel)

	// Nothing persisted.
	stored, err := env.courses.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Structure)
}

func TestRunStructuringJob_PreviewRejectedPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	course := mustImport(t, env, ingestedCourse("Mixed Topics", topicTitles(), 900))

	previewSeen := false
	_, err := env.structuring.RunStructuringJob(context.Background(), course.ID,
		contract.StructuringOptions{}, nil,
		func(p contract.ClusteringPreview) bool {
			previewSeen = true
			assert.Greater(t, p.ClusterCount, 0)
			assert.NotEmpty(t, p.EstimatedModules)
			return false
		})

	assert.True(t, previewSeen)
	var jobErr *contract.JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, contract.ErrCancelled, jobErr.Code)

	stored, err := env.courses.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Structure)
}

func TestRunStructuringJob_SequentialCoursePreviewHasOneModule(t *testing.T) {
	env := newTestEnv(t)
	course := mustImport(t, env, ingestedCourse("Sequential", sequentialTitles(12), 600))

	structure, err := env.structuring.RunStructuringJob(context.Background(), course.ID,
		contract.StructuringOptions{}, nil,
		func(p contract.ClusteringPreview) bool { return true })
	require.NoError(t, err)
	require.Len(t, structure.Modules, 1)
	assert.Nil(t, structure.ClusteringMetadata)
}

func TestRunStructuringJob_UnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	course := mustImport(t, env, ingestedCourse("y", sequentialTitles(3), 60))
	require.NoError(t, env.courses.Delete(context.Background(), course.ID))

	_, err := env.structuring.RunStructuringJob(context.Background(), course.ID,
		contract.StructuringOptions{}, nil, nil)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
