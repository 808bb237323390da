package services

import (
	"fmt"
	"time"
)

// ItemFailure records one best-effort operation that failed, keyed by the
// identifier the caller can act on (a photo URL or a submission id).
type ItemFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// ValidationError rejects malformed input before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreTransactionError means an atomic batch failed to commit. Nothing was
// persisted; the whole operation can be retried.
type StoreTransactionError struct {
	Op  string
	Err error
}

func (e *StoreTransactionError) Error() string {
	return fmt.Sprintf("%s batch failed to commit: %v", e.Op, e.Err)
}

func (e *StoreTransactionError) Unwrap() error { return e.Err }

// PartialCleanupError means photo blobs were already removed but the final
// document batch did not commit. Retrying the delete is safe: blob deletes
// are idempotent.
type PartialCleanupError struct {
	BlobsDeleted int
	Err          error
}

func (e *PartialCleanupError) Error() string {
	return fmt.Sprintf("documents not deleted after removing %d blobs: %v", e.BlobsDeleted, e.Err)
}

func (e *PartialCleanupError) Unwrap() error { return e.Err }

// EmptyPeriodError reports that a report period contained no qualifying
// tasks. No file is produced; the computed bounds name the empty range.
type EmptyPeriodError struct {
	Start time.Time
	End   time.Time
}

func (e *EmptyPeriodError) Error() string {
	return fmt.Sprintf("no tasks created between %s and %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}
