package models

import "errors"

// Failure taxonomy shared by the ledger, storage and workflow layers.
// Callers wrap these with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrNotFound means a group, member, edge or request no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the caller lacks the role the operation requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidOperation means the request is malformed or conflicts with current state.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConcurrentModification means a versioned write lost a race.
	ErrConcurrentModification = errors.New("concurrent modification")
)
