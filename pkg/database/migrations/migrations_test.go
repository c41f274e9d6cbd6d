package migrations_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-companion-be/internal/model"
	"ai-companion-be/pkg/database"
	"ai-companion-be/pkg/database/migrations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func countColumns(t *testing.T, db *gorm.DB, table, column string) int {
	t.Helper()
	columns, err := db.Migrator().ColumnTypes(table)
	require.NoError(t, err)
	n := 0
	for _, c := range columns {
		if c.Name() == column {
			n++
		}
	}
	return n
}

func countIndexes(t *testing.T, db *gorm.DB, name string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?`, name).Scan(&n).Error)
	return n
}

func TestRunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(ctx, db, nil))
	require.NoError(t, migrations.Run(ctx, db, nil))

	assert.Equal(t, 1, countColumns(t, db, "conversations", "deleted_at"))
	assert.Equal(t, int64(1), countIndexes(t, db, model.LiveIndexName))
	assert.Equal(t, int64(1), countIndexes(t, db, "idx_conversations_user_live"))

	applied, err := migrations.Applied(db)
	require.NoError(t, err)
	assert.Len(t, applied, len(migrations.Registered()))

	pending, err := migrations.Pending(db)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReplayWithoutTrackingRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(ctx, db, nil))
	require.NoError(t, db.Exec("DELETE FROM schema_migrations").Error)

	pending, err := migrations.Pending(db)
	require.NoError(t, err)
	assert.Len(t, pending, len(migrations.Registered()))

	// Every step must tolerate a schema that already has its change.
	require.NoError(t, migrations.Run(ctx, db, nil))

	assert.Equal(t, 1, countColumns(t, db, "conversations", "deleted_at"))
	assert.Equal(t, int64(1), countIndexes(t, db, model.LiveIndexName))
}

func TestLiveIndexIsPartial(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, migrations.Run(context.Background(), db, nil))

	def, err := migrations.IndexDefinition(db, model.LiveIndexName)
	require.NoError(t, err)
	assert.Contains(t, def, "(deleted_at)")
	assert.Contains(t, def, "WHERE deleted_at IS NULL")

	missing, err := migrations.IndexDefinition(db, "idx_does_not_exist")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestExistingRowsBecomeLive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.RunUntil(ctx, db, nil, "20250101-000000"))
	assert.Equal(t, 0, countColumns(t, db, "conversations", "deleted_at"))

	id := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO conversations (id, user_id, started_at, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, uuid.New(), now, "active", now, now,
	).Error)

	pending, err := migrations.Pending(db)
	require.NoError(t, err)
	assert.NotEmpty(t, pending)

	require.NoError(t, migrations.Run(ctx, db, nil))

	var liveCount int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM conversations WHERE id = ? AND deleted_at IS NULL`, id).Scan(&liveCount).Error)
	assert.Equal(t, int64(1), liveCount)
}

func TestColumnComment(t *testing.T) {
	db := newTestDB(t)

	comment, err := migrations.ColumnComment(db)
	require.NoError(t, err)
	assert.Empty(t, comment)

	require.NoError(t, migrations.Run(context.Background(), db, nil))

	comment, err = migrations.ColumnComment(db)
	require.NoError(t, err)
	assert.Equal(t, model.DeletedAtComment, comment)
}

func TestRegisteredIsSorted(t *testing.T) {
	registered := migrations.Registered()
	require.NotEmpty(t, registered)
	for i := 1; i < len(registered); i++ {
		assert.Less(t, registered[i-1].Version, registered[i].Version)
	}
}
