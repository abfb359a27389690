package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchema(t *testing.T) {
	sqlDB, err := Open(":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, table := range []string{"courses", "videos", "structures", "plans", "plan_items"} {
		var name string
		err := sqlDB.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, "table %s missing", table)
	}
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	sqlDB, err := Open(":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = sqlDB.Exec(
		`INSERT INTO videos (course_id, original_index, title) VALUES ('missing', 0, 'x')`)
	assert.Error(t, err, "orphan video must be rejected")
}

func TestMigrate_Idempotent(t *testing.T) {
	sqlDB, err := Open(":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.NoError(t, Migrate(sqlDB))
	assert.NoError(t, Migrate(sqlDB))
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	sqlDB, err := Open(":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	boom := errors.New("boom")
	uow := NewUnitOfWork(sqlDB)
	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, name, created_at) VALUES ('c1', 'Course', '2025-01-01T00:00:00Z')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM courses`).Scan(&count))
	assert.Zero(t, count, "insert must have been rolled back")
}

func TestUnitOfWork_Commits(t *testing.T) {
	sqlDB, err := Open(":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	uow := NewUnitOfWork(sqlDB)
	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, name, created_at) VALUES ('c1', 'Course', '2025-01-01T00:00:00Z')`)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM courses`).Scan(&count))
	assert.Equal(t, 1, count)
}
