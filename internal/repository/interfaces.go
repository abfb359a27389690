package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/k5602/course-pilot/internal/domain"
)

// CourseRepo persists courses, their video lists, and their structures.
type CourseRepo interface {
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SaveStructure replaces the course's stored structure.
	SaveStructure(ctx context.Context, courseID uuid.UUID, s *domain.CourseStructure) error
}

// PlanRepo persists at most one plan per course.
type PlanRepo interface {
	// Save replaces any existing plan for the plan's course.
	Save(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)
	GetByCourse(ctx context.Context, courseID uuid.UUID) (*domain.Plan, error)
	SetItemCompletion(ctx context.Context, planID uuid.UUID, itemIndex int, completed bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")
