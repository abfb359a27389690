package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/db"
	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/repository"
)

type courseService struct {
	courses repository.CourseRepo
	uow     db.UnitOfWork
	obs     UseCaseObserver
}

func NewCourseService(courses repository.CourseRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CourseService {
	return &courseService{
		courses: courses,
		uow:     uow,
		obs:     observerOrNoop(observers...),
	}
}

// Import validates the ingested payload and persists the course with all
// its videos in one transaction.
func (s *courseService) Import(ctx context.Context, in contract.IngestedCourse) (*domain.Course, error) {
	start := time.Now()
	course, err := in.ToCourse()
	if err == nil {
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return repository.NewCourseRepo(tx).Create(ctx, course)
		})
	}
	observe(ctx, s.obs, "course.import", start, err, map[string]any{
		"name":   in.Name,
		"videos": len(in.Videos),
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *courseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.List(ctx)
}

func (s *courseService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	start := time.Now()
	err := s.courses.Rename(ctx, id, name)
	observe(ctx, s.obs, "course.rename", start, err, map[string]any{"course_id": id.String()})
	return err
}

func (s *courseService) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.courses.Delete(ctx, id)
	observe(ctx, s.obs, "course.delete", start, err, map[string]any{"course_id": id.String()})
	return err
}
