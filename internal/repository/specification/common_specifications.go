package specification

import (
	"fmt"

	"ai-companion-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByIDs filters by a list of IDs
type ByIDs struct {
	IDs []uuid.UUID
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// UserOwnedBy filters by owner
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// orderableFields guards OrderBy against arbitrary SQL.
var orderableFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"started_at": true,
	"title":      true,
}

// OrderBy applies ordering. The id tie-breaker keeps pages stable for a
// fixed snapshot when several rows share the same sort key.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	field := s.Field
	if !orderableFields[field] {
		field = "updated_at"
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", field, direction)).Order("id ASC")
}

// NotDeleted filters out soft-deleted records explicitly, independent of
// gorm's implicit DeletedAt scope.
type NotDeleted struct{}

func (s NotDeleted) Apply(db *gorm.DB) *gorm.DB {
	return scope.Live(db)
}

// OnlyDeleted matches soft-deleted records.
type OnlyDeleted struct{}

func (s OnlyDeleted) Apply(db *gorm.DB) *gorm.DB {
	return scope.Deleted(db)
}

// IncludeDeleted lifts soft-delete filtering.
type IncludeDeleted struct{}

func (s IncludeDeleted) Apply(db *gorm.DB) *gorm.DB {
	return scope.AnyState(db)
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	if s.Limit > 0 {
		db = db.Limit(s.Limit)
	}
	if s.Offset > 0 {
		db = db.Offset(s.Offset)
	}
	return db
}
