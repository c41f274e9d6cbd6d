// Package migrations holds the ordered, replayable schema history.
//
// Each migration is registered from an init() in its own file named
// YYYYMMDD-HHmmss-description.go and recorded in schema_migrations once
// applied. Steps are additionally guarded (IF NOT EXISTS, HasColumn, ...)
// so replaying them against a schema that already has the change is a no-op
// even when the tracking row is missing.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ai-companion-be/internal/model"
	"ai-companion-be/internal/pkg/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// advisoryLockKey serializes concurrent migrators on postgres.
const advisoryLockKey = 727274001

type Migration struct {
	// Version in YYYYMMDD-HHmmss format, used for ordering and tracking.
	Version     string
	Description string
	Up          func(tx *gorm.DB) error
}

var registry []Migration

func Register(m Migration) {
	registry = append(registry, m)
}

// Registered returns all known migrations sorted by version.
func Registered() []Migration {
	sorted := make([]Migration, len(registry))
	copy(sorted, registry)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return sorted
}

// Run applies every pending migration, each in its own transaction.
func Run(ctx context.Context, db *gorm.DB, log logger.ILogger) error {
	return RunUntil(ctx, db, log, "")
}

// RunUntil applies pending migrations up to and including target. An empty
// target means all of them.
func RunUntil(ctx context.Context, db *gorm.DB, log logger.ILogger, target string) error {
	if log == nil {
		log = logger.NewNopLogger()
	}
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&model.SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, m := range Registered() {
		if target != "" && m.Version > target {
			break
		}
		if applied[m.Version] {
			continue
		}

		log.Info("MIGRATE", "Running migration", map[string]interface{}{
			"version":     m.Version,
			"description": m.Description,
		})

		if err := runMigration(db, m); err != nil {
			return fmt.Errorf("migration %s (%s) failed: %w", m.Version, m.Description, err)
		}

		log.Info("MIGRATE", "Migration completed", map[string]interface{}{"version": m.Version})
	}

	return nil
}

func runMigration(db *gorm.DB, m Migration) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if IsPostgres(tx) {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey).Error; err != nil {
				return err
			}
			// Another instance may have applied it while we waited for the lock.
			var count int64
			if err := tx.Model(&model.SchemaMigration{}).Where("version = ?", m.Version).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
		}

		if err := m.Up(tx); err != nil {
			return err
		}

		record := model.SchemaMigration{
			Version:     m.Version,
			Description: m.Description,
			AppliedAt:   time.Now().UTC(),
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
	})
}

func appliedVersions(db *gorm.DB) (map[string]bool, error) {
	var versions []string
	if err := db.Model(&model.SchemaMigration{}).Pluck("version", &versions).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// Applied returns the recorded migrations ordered by version.
func Applied(db *gorm.DB) ([]model.SchemaMigration, error) {
	if !db.Migrator().HasTable(&model.SchemaMigration{}) {
		return []model.SchemaMigration{}, nil
	}
	var rows []model.SchemaMigration
	if err := db.Order("version ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Pending returns registered migrations that have not been recorded yet.
func Pending(db *gorm.DB) ([]Migration, error) {
	applied := map[string]bool{}
	if db.Migrator().HasTable(&model.SchemaMigration{}) {
		var err error
		applied, err = appliedVersions(db)
		if err != nil {
			return nil, err
		}
	}

	var pending []Migration
	for _, m := range Registered() {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// execGuarded runs DDL statements, treating "already exists" outcomes as
// success. On postgres each statement runs under a savepoint so an expected
// failure does not poison the surrounding transaction.
func execGuarded(tx *gorm.DB, stmts ...string) error {
	for i, stmt := range stmts {
		if !IsPostgres(tx) {
			if err := tx.Exec(stmt).Error; err != nil && !isExpectedError(err) {
				return fmt.Errorf("failed to execute statement: %w\n%s", err, stmt)
			}
			continue
		}

		savepoint := fmt.Sprintf("guard_%d", i)
		if err := tx.SavePoint(savepoint).Error; err != nil {
			return err
		}
		if err := tx.Exec(stmt).Error; err != nil {
			if !isExpectedError(err) {
				return fmt.Errorf("failed to execute statement: %w\n%s", err, stmt)
			}
			if err := tx.RollbackTo(savepoint).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// Postgres SQLSTATE codes for objects that already exist.
const (
	pgDuplicateColumn = "42701"
	pgDuplicateTable  = "42P07"
	pgDuplicateObject = "42710"
)

func isExpectedError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDuplicateColumn, pgDuplicateTable, pgDuplicateObject:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
