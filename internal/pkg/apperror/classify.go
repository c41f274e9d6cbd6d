package apperror

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Postgres SQLSTATE codes raised when two transactions race on the same row.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// IsConcurrencyFailure reports whether err is the store telling us a concurrent
// transaction won. Callers decide on retry; nothing here retries.
func IsConcurrencyFailure(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return true
		}
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	return false
}

// Classify converts store-level concurrency failures into ConflictError and
// leaves everything else untouched.
func Classify(resource, id string, err error) error {
	if err == nil {
		return nil
	}
	if IsConcurrencyFailure(err) {
		return &ConflictError{Resource: resource, ID: id, Message: err.Error(), Err: err}
	}
	return err
}
