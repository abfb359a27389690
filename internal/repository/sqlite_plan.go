package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/k5602/course-pilot/internal/db"
	"github.com/k5602/course-pilot/internal/domain"
)

// SQLitePlanRepo implements PlanRepo. One plan per course: Save replaces
// any previous plan and its items.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewPlanRepo(dbtx db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: dbtx}
}

func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	// Replace-by-course: the UNIQUE(course_id) constraint backs this up.
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM plans WHERE course_id = ?`, p.CourseID.String()); err != nil {
		return fmt.Errorf("clearing previous plan: %w", err)
	}

	settings, err := jsonColumn(p.Settings)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO plans (id, course_id, settings, created_at) VALUES (?, ?, ?, ?)`,
		p.ID.String(), p.CourseID.String(), settings,
		p.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	for i, item := range p.Items {
		indices, err := jsonColumn(item.VideoIndices)
		if err != nil {
			return err
		}
		warnings, err := jsonColumn(item.OverflowWarnings)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO plan_items (plan_id, item_index, date, module_title, section_title,
				video_indices, completed, total_duration_seconds, estimated_seconds, overflow_warnings, is_review)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID.String(), i, item.Date.UTC().Format(time.RFC3339),
			item.ModuleTitle, item.SectionTitle, indices, boolToInt(item.Completed),
			seconds(item.TotalDuration), seconds(item.EstimatedCompletionTime),
			warnings, boolToInt(item.IsReview)); err != nil {
			return fmt.Errorf("inserting plan item %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	return r.get(ctx, `SELECT id, course_id, settings, created_at FROM plans WHERE id = ?`, id.String())
}

func (r *SQLitePlanRepo) GetByCourse(ctx context.Context, courseID uuid.UUID) (*domain.Plan, error) {
	return r.get(ctx, `SELECT id, course_id, settings, created_at FROM plans WHERE course_id = ?`, courseID.String())
}

func (r *SQLitePlanRepo) get(ctx context.Context, query, arg string) (*domain.Plan, error) {
	var rawID, rawCourse, settings, createdAt string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&rawID, &rawCourse, &settings, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan for %s: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	p := &domain.Plan{}
	if p.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing plan id: %w", err)
	}
	if p.CourseID, err = uuid.Parse(rawCourse); err != nil {
		return nil, fmt.Errorf("parsing course id: %w", err)
	}
	if err := fromJSONColumn(settings, &p.Settings); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return nil, err
	}
	if p.Items, err = r.loadItems(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) loadItems(ctx context.Context, planID uuid.UUID) ([]domain.PlanItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, module_title, section_title, video_indices, completed,
			total_duration_seconds, estimated_seconds, overflow_warnings, is_review
		FROM plan_items WHERE plan_id = ? ORDER BY item_index`, planID.String())
	if err != nil {
		return nil, fmt.Errorf("loading plan items: %w", err)
	}
	defer rows.Close()

	var items []domain.PlanItem
	for rows.Next() {
		var item domain.PlanItem
		var date, indices, warnings string
		var completed, isReview int
		var total, estimated int64
		if err := rows.Scan(&date, &item.ModuleTitle, &item.SectionTitle, &indices,
			&completed, &total, &estimated, &warnings, &isReview); err != nil {
			return nil, fmt.Errorf("scanning plan item: %w", err)
		}
		if item.Date, err = parseStoredTime(date); err != nil {
			return nil, err
		}
		if err := fromJSONColumn(indices, &item.VideoIndices); err != nil {
			return nil, err
		}
		if err := fromJSONColumn(warnings, &item.OverflowWarnings); err != nil {
			return nil, err
		}
		item.Completed = intToBool(completed)
		item.IsReview = intToBool(isReview)
		item.TotalDuration = durationFromSeconds(total)
		item.EstimatedCompletionTime = durationFromSeconds(estimated)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLitePlanRepo) SetItemCompletion(ctx context.Context, planID uuid.UUID, itemIndex int, completed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plan_items SET completed = ? WHERE plan_id = ? AND item_index = ?`,
		boolToInt(completed), planID.String(), itemIndex)
	if err != nil {
		return fmt.Errorf("updating item completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan %s item %d: %w", planID, itemIndex, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}
