package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/db"
	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/repository"
	"github.com/k5602/course-pilot/internal/scheduler"
)

type planService struct {
	courses repository.CourseRepo
	plans   repository.PlanRepo
	uow     db.UnitOfWork
	obs     UseCaseObserver
}

func NewPlanService(courses repository.CourseRepo, plans repository.PlanRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PlanService {
	return &planService{
		courses: courses,
		plans:   plans,
		uow:     uow,
		obs:     observerOrNoop(observers...),
	}
}

// RegeneratePlan validates the settings, builds a fresh plan from the
// stored structure, and swaps it in atomically. The sink sees
// Idle → InProgress → Completed (or Failed); the stored plan only changes
// on Completed.
func (s *planService) RegeneratePlan(ctx context.Context, courseID uuid.UUID, settings domain.PlanSettings, sink RegenSink) (*domain.Plan, error) {
	start := time.Now()
	plan, err := s.regenerate(ctx, courseID, settings, sink)
	observe(ctx, s.obs, "plan.regenerate", start, err, map[string]any{
		"course_id": courseID.String(),
		"strategy":  string(settings.Strategy()),
	})
	return plan, err
}

func (s *planService) regenerate(ctx context.Context, courseID uuid.UUID, settings domain.PlanSettings, sink RegenSink) (*domain.Plan, error) {
	emit := func(st contract.RegenerationStatus) {
		if sink != nil {
			sink(st)
		}
	}
	fail := func(err error) (*domain.Plan, error) {
		emit(contract.RegenerationStatus{State: contract.RegenFailed, Error: err.Error()})
		return nil, err
	}

	emit(contract.RegenerationStatus{State: contract.RegenIdle})

	if err := contract.ValidateSettings(settings); err != nil {
		return fail(err)
	}

	emit(contract.RegenerationStatus{State: contract.RegenInProgress, Progress: 0.1, Message: "Loading course"})
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return fail(err)
	}
	if course.Structure == nil {
		return fail(fmt.Errorf("course %s has no structure; run structuring first", courseID))
	}

	emit(contract.RegenerationStatus{State: contract.RegenInProgress, Progress: 0.5, Message: "Scheduling sessions"})
	// Resolve the strategy on a copy; the caller's settings stay untouched.
	if settings.Advanced == nil {
		settings.Advanced = domain.DefaultAdvancedSettings()
	} else {
		adv := *settings.Advanced
		settings.Advanced = &adv
	}
	settings.Advanced.Strategy = scheduler.ChooseStrategy(course.Structure, settings)
	plan := scheduler.BuildPlan(courseID, course.Structure, settings)
	if err := plan.Validate(len(course.Videos)); err != nil {
		return fail(fmt.Errorf("generated plan is invalid: %w", err))
	}

	emit(contract.RegenerationStatus{State: contract.RegenInProgress, Progress: 0.9, Message: "Saving plan"})
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewPlanRepo(tx).Save(ctx, plan)
	})
	if err != nil {
		return fail(fmt.Errorf("saving plan: %w", err))
	}

	emit(contract.RegenerationStatus{State: contract.RegenCompleted, Progress: 1})
	return plan, nil
}

func (s *planService) GetByCourse(ctx context.Context, courseID uuid.UUID) (*domain.Plan, error) {
	return s.plans.GetByCourse(ctx, courseID)
}

// TogglePlanItem updates one item and recomputes the aggregate inside a
// single transaction, so concurrent toggles never observe a half-applied
// state.
func (s *planService) TogglePlanItem(ctx context.Context, planID uuid.UUID, itemIndex int, completed bool) (contract.ProgressCounts, error) {
	start := time.Now()
	var counts contract.ProgressCounts
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewPlanRepo(tx)
		if err := repo.SetItemCompletion(ctx, planID, itemIndex, completed); err != nil {
			return err
		}
		plan, err := repo.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		done, total, pct := plan.Progress()
		counts = contract.ProgressCounts{Completed: done, Total: total, Percentage: pct}
		return nil
	})
	observe(ctx, s.obs, "plan.toggle_item", start, err, map[string]any{
		"plan_id": planID.String(),
		"item":    itemIndex,
	})
	if err != nil {
		return contract.ProgressCounts{}, err
	}
	return counts, nil
}
