package scope

import "gorm.io/gorm"

// LivePredicate is the canonical visibility predicate. It matches the WHERE
// clause of idx_conversations_deleted_at so the planner can answer live
// listings from the partial index.
const LivePredicate = "deleted_at IS NULL"

const DeletedPredicate = "deleted_at IS NOT NULL"

// Live restricts a query to rows that are not soft-deleted.
func Live(db *gorm.DB) *gorm.DB {
	return db.Where(LivePredicate)
}

// Deleted restricts a query to soft-deleted rows. It lifts gorm's implicit
// soft-delete filter, otherwise nothing could ever match.
func Deleted(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Where(DeletedPredicate)
}

// AnyState includes soft-deleted rows. Used for existence checks only.
func AnyState(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
