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

// SQLiteCourseRepo implements CourseRepo over a DBTX, so the same code
// runs against the database or inside a unit of work.
type SQLiteCourseRepo struct {
	db db.DBTX
}

func NewCourseRepo(dbtx db.DBTX) *SQLiteCourseRepo {
	return &SQLiteCourseRepo{db: dbtx}
}

func (r *SQLiteCourseRepo) Create(ctx context.Context, c *domain.Course) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating course: %w", err)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID.String(), c.Name, c.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}

	for _, v := range c.Videos {
		tags, err := jsonColumn(v.Tags)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO videos (course_id, original_index, title, source_url, source_id, duration_seconds, is_local, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID.String(), v.OriginalIndex, v.Title, v.SourceURL, v.SourceID,
			seconds(v.Duration), boolToInt(v.IsLocal), tags)
		if err != nil {
			return fmt.Errorf("inserting video %d: %w", v.OriginalIndex, err)
		}
	}

	if c.Structure != nil {
		return r.SaveStructure(ctx, c.ID, c.Structure)
	}
	return nil
}

func (r *SQLiteCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM courses WHERE id = ?`, id.String())

	var rawID, name, createdAt string
	if err := row.Scan(&rawID, &name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading course: %w", err)
	}

	c := &domain.Course{ID: id, Name: name}
	var err error
	if c.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return nil, err
	}
	if c.Videos, err = r.loadVideos(ctx, id); err != nil {
		return nil, err
	}
	c.RawTitles = make([]string, len(c.Videos))
	for i := range c.Videos {
		c.RawTitles[i] = c.Videos[i].Title
	}
	if c.Structure, err = r.loadStructure(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCourseRepo) List(ctx context.Context) ([]*domain.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM courses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning course id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing course id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}

	courses := make([]*domain.Course, 0, len(ids))
	for _, id := range ids {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (r *SQLiteCourseRepo) Rename(ctx context.Context, id uuid.UUID, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE courses SET name = ? WHERE id = ?`, name, id.String())
	if err != nil {
		return fmt.Errorf("renaming course: %w", err)
	}
	return requireRow(res, id)
}

func (r *SQLiteCourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM courses WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return requireRow(res, id)
}

func (r *SQLiteCourseRepo) SaveStructure(ctx context.Context, courseID uuid.UUID, s *domain.CourseStructure) error {
	payload, err := jsonColumn(encodeStructure(s))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO structures (course_id, payload, created_at) VALUES (?, ?, ?)
		ON CONFLICT(course_id) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		courseID.String(), payload, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving structure: %w", err)
	}
	return nil
}

func (r *SQLiteCourseRepo) loadVideos(ctx context.Context, courseID uuid.UUID) ([]domain.VideoMetadata, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT original_index, title, source_url, source_id, duration_seconds, is_local, tags
		FROM videos WHERE course_id = ? ORDER BY original_index`, courseID.String())
	if err != nil {
		return nil, fmt.Errorf("loading videos: %w", err)
	}
	defer rows.Close()

	var videos []domain.VideoMetadata
	for rows.Next() {
		var v domain.VideoMetadata
		var secs int64
		var isLocal int
		var tags string
		if err := rows.Scan(&v.OriginalIndex, &v.Title, &v.SourceURL, &v.SourceID, &secs, &isLocal, &tags); err != nil {
			return nil, fmt.Errorf("scanning video: %w", err)
		}
		v.Duration = durationFromSeconds(secs)
		v.IsLocal = intToBool(isLocal)
		if err := fromJSONColumn(tags, &v.Tags); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *SQLiteCourseRepo) loadStructure(ctx context.Context, courseID uuid.UUID) (*domain.CourseStructure, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM structures WHERE course_id = ?`, courseID.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading structure: %w", err)
	}
	var stored storedStructure
	if err := fromJSONColumn(payload, &stored); err != nil {
		return nil, err
	}
	return decodeStructure(stored), nil
}

func requireRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return nil
}
