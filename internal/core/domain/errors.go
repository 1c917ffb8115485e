package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotGrounded indicates the operation requires an analysis that has
	// already been grounded, and none exists yet.
	ErrNotGrounded = errors.New("analysis not grounded")

	// ErrIngestionUnavailable indicates a referenced form version has no
	// ingested sections or chunks. Grounding aborts rather than producing a
	// partially grounded result that could pass for a reviewed one.
	ErrIngestionUnavailable = errors.New("ingestion data unavailable")

	// ErrPersistenceFailure indicates a write to the storage collaborator
	// failed. The prior grounded state is left untouched.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrUnknownGate indicates a decision gate id does not exist on the
	// grounded analysis.
	ErrUnknownGate = errors.New("unknown decision gate")

	// ErrUnknownQuestion indicates an open question id does not exist on the
	// grounded analysis.
	ErrUnknownQuestion = errors.New("unknown open question")

	// ErrInvalidGateStatus indicates a gate transition to an unrecognised or
	// non-decidable status was requested.
	ErrInvalidGateStatus = errors.New("invalid gate status")
)
