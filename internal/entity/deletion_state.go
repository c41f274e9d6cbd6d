package entity

import "time"

// DeletionState is the soft-delete state of a record. It is stored as a single
// nullable deleted_at column but is only ever handled as one of two variants:
// Live or Deleted.
type DeletionState interface {
	IsDeleted() bool
	// DeletedAt returns the deletion instant and true for Deleted, zero and false for Live.
	DeletedAt() (time.Time, bool)
	String() string

	sealed()
}

type Live struct{}

func (Live) IsDeleted() bool              { return false }
func (Live) DeletedAt() (time.Time, bool) { return time.Time{}, false }
func (Live) String() string               { return "live" }
func (Live) sealed()                      {}

type Deleted struct {
	Since time.Time
}

func (d Deleted) IsDeleted() bool              { return true }
func (d Deleted) DeletedAt() (time.Time, bool) { return d.Since, true }
func (d Deleted) String() string               { return "deleted" }
func (Deleted) sealed()                        {}

// DeletionStateFrom converts the nullable column value into a state.
func DeletionStateFrom(deletedAt *time.Time) DeletionState {
	if deletedAt == nil {
		return Live{}
	}
	return Deleted{Since: *deletedAt}
}

// DeletedAtPtr converts a state back into its nullable column value.
func DeletedAtPtr(state DeletionState) *time.Time {
	if state == nil {
		return nil
	}
	t, ok := state.DeletedAt()
	if !ok {
		return nil
	}
	return &t
}
