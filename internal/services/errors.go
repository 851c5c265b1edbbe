package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError signals an illegal transition or malformed input. The prior
// state is left untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NotFoundError signals an unknown entity id
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError signals that the expected prior status no longer held when the
// conditional write ran, i.e. a concurrent operator got there first.
type ConflictError struct {
	Entity   string
	ID       uuid.UUID
	Expected string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was not in status %q (concurrent modification)", e.Entity, e.ID, e.Expected)
}

// LedgerError signals a mutation that would violate the owed/delivered bound
type LedgerError struct {
	SponsorID       uuid.UUID
	DeliverableType string
	Reason          string
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger rejected %s for sponsor %s: %s", e.DeliverableType, e.SponsorID, e.Reason)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsLedger reports whether err is a LedgerError
func IsLedger(err error) bool {
	var le *LedgerError
	return errors.As(err, &le)
}
