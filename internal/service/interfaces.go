package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/domain"
)

// CourseService manages imported courses.
type CourseService interface {
	Import(ctx context.Context, in contract.IngestedCourse) (*domain.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProgressSink receives structuring job updates. Callbacks run on the
// job's goroutine; sinks must not block.
type ProgressSink func(contract.JobUpdate)

// PreviewApprover decides whether a clustering result is persisted. It is
// consulted after Optimization and before Saving; returning false cancels
// the job without side effects. A nil approver accepts everything.
type PreviewApprover func(contract.ClusteringPreview) bool

// StructuringService runs the course structuring job.
type StructuringService interface {
	RunStructuringJob(ctx context.Context, courseID uuid.UUID, opts contract.StructuringOptions, sink ProgressSink, approve PreviewApprover) (*domain.CourseStructure, error)
}

// RegenSink receives plan regeneration transitions.
type RegenSink func(contract.RegenerationStatus)

// PlanService generates and tracks study plans.
type PlanService interface {
	// RegeneratePlan builds a plan from the course's stored structure and
	// atomically replaces the previous plan.
	RegeneratePlan(ctx context.Context, courseID uuid.UUID, settings domain.PlanSettings, sink RegenSink) (*domain.Plan, error)
	GetByCourse(ctx context.Context, courseID uuid.UUID) (*domain.Plan, error)
	// TogglePlanItem flips one item's completion and returns the new
	// aggregate progress atomically.
	TogglePlanItem(ctx context.Context, planID uuid.UUID, itemIndex int, completed bool) (contract.ProgressCounts, error)
}
