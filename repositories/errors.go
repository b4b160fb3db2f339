package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a part, location, move or count referenced by
// id does not exist, so HTTP handlers can respond with 404.
var ErrNotFound = errors.New("record not found")

// ErrInvalidArgument covers requests rejected before any state is touched:
// zero deltas, non-positive quantities, same source/destination, missing
// required fields.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidStateTransition is returned when mutating or deleting a count
// that is no longer in progress.
var ErrInvalidStateTransition = errors.New("count is not in progress")

// ErrDuplicateRecord is returned when adding a count record for a (part,
// location) pair already present in the count.
var ErrDuplicateRecord = errors.New("record already exists for this part and location")

// InsufficientQuantityError reports a move that would drive a quantity below
// zero. It carries the numbers the caller needs to correct the request.
type InsufficientQuantityError struct {
	Current   int
	Requested int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity. Current: %d, Requested: %d", e.Current, e.Requested)
}

// IncompleteCountError reports a completion attempt while records are still
// pending.
type IncompleteCountError struct {
	Pending int
}

func (e *IncompleteCountError) Error() string {
	return fmt.Sprintf("cannot complete count: %d records not yet counted", e.Pending)
}
