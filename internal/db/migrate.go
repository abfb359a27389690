package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations are replayed in order on every open; each statement must be
// idempotent. Additive ALTER TABLE statements rely on the duplicate-column
// tolerance in Migrate.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS videos (
		course_id        TEXT    NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		original_index   INTEGER NOT NULL,
		title            TEXT    NOT NULL,
		source_url       TEXT    NOT NULL DEFAULT '',
		source_id        TEXT    NOT NULL DEFAULT '',
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		is_local         INTEGER NOT NULL DEFAULT 0,
		tags             TEXT    NOT NULL DEFAULT '[]',
		PRIMARY KEY (course_id, original_index)
	)`,

	`CREATE TABLE IF NOT EXISTS structures (
		course_id  TEXT PRIMARY KEY REFERENCES courses(id) ON DELETE CASCADE,
		payload    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id         TEXT PRIMARY KEY,
		course_id  TEXT NOT NULL UNIQUE REFERENCES courses(id) ON DELETE CASCADE,
		settings   TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plan_items (
		plan_id                TEXT    NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		item_index             INTEGER NOT NULL,
		date                   TEXT    NOT NULL,
		module_title           TEXT    NOT NULL DEFAULT '',
		section_title          TEXT    NOT NULL DEFAULT '',
		video_indices          TEXT    NOT NULL,
		completed              INTEGER NOT NULL DEFAULT 0,
		total_duration_seconds INTEGER NOT NULL DEFAULT 0,
		estimated_seconds      INTEGER NOT NULL DEFAULT 0,
		overflow_warnings      TEXT    NOT NULL DEFAULT '[]',
		is_review              INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (plan_id, item_index)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_videos_course ON videos(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_items_plan ON plan_items(plan_id)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
