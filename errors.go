package main

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes callers branch on. Wrap with
// fmt.Errorf("context: %w", err) so errors.Is still matches.
var (
	// errInvalidInput marks bad metric arguments (non-positive weight, height,
	// or age). Always propagated to the caller, never swallowed.
	errInvalidInput = errors.New("invalid input")

	// errStorageConn marks a failed storage connection. Fatal for the current
	// cycle; a later cycle may succeed after reconnecting.
	errStorageConn = errors.New("storage connection failed")

	// errStorageQuery marks a genuine query failure, distinct from "not found"
	// (which the plan store reports as a nil plan with a nil error).
	errStorageQuery = errors.New("storage query failed")
)

// Planning-engine failure kinds. The kind label is what surfaces in report
// strings and logs — raw provider error text never reaches end users.
const (
	planningKindAuth      = "auth"
	planningKindRateLimit = "rate-limit"
	planningKindMalformed = "malformed-output"
	planningKindNetwork   = "network"
	planningKindOther     = "other"
)

// planningError is any failure from the planning engine, labelled with a kind.
type planningError struct {
	kind string
	err  error
}

func (e *planningError) Error() string {
	return fmt.Sprintf("planning engine failure (%s): %v", e.kind, e.err)
}

func (e *planningError) Unwrap() error { return e.err }

// planningKind extracts the failure-kind label from an error chain. Returns
// "other" for errors that did not originate in the planning engine.
func planningKind(err error) string {
	var pe *planningError
	if errors.As(err, &pe) {
		return pe.kind
	}
	return planningKindOther
}
