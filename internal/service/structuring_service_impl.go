package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/k5602/course-pilot/internal/cluster"
	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/db"
	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/nlp"
	"github.com/k5602/course-pilot/internal/repository"
)

type structuringService struct {
	courses repository.CourseRepo
	uow     db.UnitOfWork
	engine  *cluster.Engine
	obs     UseCaseObserver
}

func NewStructuringService(courses repository.CourseRepo, uow db.UnitOfWork, observers ...UseCaseObserver) StructuringService {
	return &structuringService{
		courses: courses,
		uow:     uow,
		engine:  cluster.NewEngine(),
		obs:     observerOrNoop(observers...),
	}
}

// RunStructuringJob drives the six-stage pipeline. Cancellation is
// honored from Starting through Optimization; once Saving begins the job
// runs to completion. On any failure or cancel nothing is persisted.
func (s *structuringService) RunStructuringJob(ctx context.Context, courseID uuid.UUID, opts contract.StructuringOptions, sink ProgressSink, approve PreviewApprover) (*domain.CourseStructure, error) {
	start := time.Now()
	run := newJobRunner(uuid.NewString(), sink)
	run.starting()

	structure, err := s.runStages(ctx, run, courseID, opts, approve)
	switch {
	case err == nil:
		run.completed()
	case isCancel(err):
		run.cancelled()
	default:
		run.failed(err)
	}

	observe(ctx, s.obs, "structuring.run", start, err, map[string]any{
		"job_id":    run.jobID,
		"course_id": courseID.String(),
	})
	if err != nil {
		return nil, err
	}
	return structure, nil
}

func (s *structuringService) runStages(ctx context.Context, run *jobRunner, courseID uuid.UUID, opts contract.StructuringOptions, approve PreviewApprover) (*domain.CourseStructure, error) {
	// Fetching: load and validate the course.
	run.startStage(contract.StageFetching)
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(course.Videos) == 0 {
		return nil, &contract.ValidationError{Code: contract.ErrEmptyCourse, Message: "course has no videos"}
	}
	titles := course.Titles()
	durations := make([]time.Duration, len(course.Videos))
	for i := range course.Videos {
		durations[i] = course.Videos[i].Duration
	}
	run.finishStage(fmt.Sprintf("Loaded %d videos", len(titles)))
	if err := run.cancelIfRequested(ctx); err != nil {
		return nil, err
	}

	// Processing: normalize titles into features.
	run.startStage(contract.StageProcessing)
	analysisStart := time.Now()
	features, vocab := nlp.Analyze(titles)
	run.finishStage(fmt.Sprintf("Extracted %d stems", vocab.Size()))
	if err := run.cancelIfRequested(ctx); err != nil {
		return nil, err
	}

	// TF-IDF analysis: vectorize and classify.
	run.startStage(contract.StageTfIdf)
	matrix := nlp.BuildMatrix(features, vocab)
	class := nlp.Classify(features, durations, matrix)
	analysisTime := time.Since(analysisStart)
	run.finishStage(fmt.Sprintf("Detected %s content", class.Type))
	if err := run.cancelIfRequested(ctx); err != nil {
		return nil, err
	}

	// Clustering: the engine polls the cancel callback in its inner
	// loops; the callback doubles as a progress heartbeat.
	run.startStage(contract.StageKMeans)
	clusterStart := time.Now()
	structure, err := s.engine.StructureFrom(cluster.Input{
		CourseID:  courseID.String(),
		Titles:    titles,
		Durations: durations,
		Options: cluster.Options{
			StrategyOverride:    opts.StrategyOverride,
			AlgorithmOverride:   opts.AlgorithmOverride,
			SimilarityThreshold: opts.SimilarityThreshold,
		},
		Cancel: func() error {
			run.heartbeat("Clustering videos")
			return run.cancelIfRequested(ctx)
		},
	}, cluster.Analysis{Features: features, Matrix: matrix, Class: class})
	if err != nil {
		return nil, err
	}
	clusterTime := time.Since(clusterStart)
	run.finishStage(fmt.Sprintf("Grouped into %d modules", len(structure.Modules)))
	if err := run.cancelIfRequested(ctx); err != nil {
		return nil, err
	}

	// Optimization: stamp timings and put the result up for approval.
	run.startStage(contract.StageOptimizing)
	optStart := time.Now()
	if structure.ClusteringMetadata != nil {
		perf := &structure.ClusteringMetadata.Performance
		perf.AnalysisTime = analysisTime
		perf.ClusteringTime = clusterTime
		perf.OptimizationTime = time.Since(optStart)
		perf.TotalProcessingTime = time.Since(analysisStart)
	}
	if approve != nil && !approve(buildPreview(structure)) {
		return nil, &contract.JobError{
			Code:    contract.ErrCancelled,
			Stage:   contract.StageOptimizing,
			Message: "clustering preview rejected",
		}
	}
	run.finishStage("Structure optimized")
	if err := run.cancelIfRequested(ctx); err != nil {
		return nil, err
	}

	// Saving: past the point of no return; ignore cancellation.
	run.startStage(contract.StageSaving)
	saveCtx := context.WithoutCancel(ctx)
	err = s.uow.WithinTx(saveCtx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewCourseRepo(tx).SaveStructure(ctx, courseID, structure)
	})
	if err != nil {
		return nil, fmt.Errorf("persisting structure: %w", err)
	}
	run.finishStage("Course structure saved")
	return structure, nil
}

// buildPreview condenses a structure into the approval summary.
func buildPreview(s *domain.CourseStructure) contract.ClusteringPreview {
	preview := contract.ClusteringPreview{ClusterCount: len(s.Modules)}
	if meta := s.ClusteringMetadata; meta != nil {
		preview.QualityScore = meta.QualityScore
		preview.ConfidenceLevel = meta.Confidence.Overall
		preview.Rationale = meta.Rationale.Explanation
		for _, topic := range meta.ContentTopics {
			preview.KeyTopics = append(preview.KeyTopics, topic.Keyword)
		}
	}
	for i, mod := range s.Modules {
		confidence := 0.0
		if meta := s.ClusteringMetadata; meta != nil && i < len(meta.Confidence.ModuleConfidences) {
			confidence = meta.Confidence.ModuleConfidences[i].Confidence
		}
		preview.EstimatedModules = append(preview.EstimatedModules, contract.EstimatedModule{
			Title:      mod.Title,
			VideoCount: len(mod.Sections),
			Confidence: confidence,
			KeyTopics:  mod.TopicKeywords,
		})
	}
	return preview
}

func isCancel(err error) bool {
	var jobErr *contract.JobError
	if errors.As(err, &jobErr) {
		return jobErr.Code == contract.ErrCancelled
	}
	return errors.Is(err, context.Canceled)
}
