package services

import "errors"

// Business-rule errors. These are detected locally, before any store call, so
// they never mix with storage failures; storage errors are passed through to
// the caller unwrapped (no retry here, mutating operations are idempotent
// upserts and safe to re-invoke).
var (
	// ErrInvalidAssignment: the subject is not in the teacher's taught set, or
	// the target period is a break. The caller must correct the input.
	ErrInvalidAssignment = errors.New("invalid assignment")

	// ErrNotConfigured: the period number is outside the configured period
	// table. Indicates a caller or configuration bug.
	ErrNotConfigured = errors.New("period not configured")

	// ErrInvalidState: a session operation was invoked from the wrong state
	// (e.g. loading a roster before the session resolved as eligible).
	ErrInvalidState = errors.New("invalid session state")

	// ErrUnknownStudent: a status update referenced a student missing from
	// the roster.
	ErrUnknownStudent = errors.New("student not in roster")

	// ErrInvalidStatus: a status outside the base marking set.
	ErrInvalidStatus = errors.New("invalid attendance status")

	// ErrNotMarked: an edit was requested for a session with no stored
	// records. Creation goes through Resolve, which enforces the rest-day
	// and period guards the edit path skips.
	ErrNotMarked = errors.New("session has no records to edit")

	// ErrInvalidPeriod: a malformed aggregation window, such as an inverted
	// range. The caller must correct the input.
	ErrInvalidPeriod = errors.New("invalid report period")
)
