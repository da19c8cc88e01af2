package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound    = errors.New("slot not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// ValidationError rejects malformed input. Safe to retry after
// correction, never partially applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CapacityExceededError is a business-rule rejection: the slot is full.
// Retryable once a seat frees up.
type CapacityExceededError struct {
	SlotID   uuid.UUID
	Capacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("slot %s is full (capacity %d)", e.SlotID, e.Capacity)
}

// DuplicateBookingError guards idempotency: the client already holds an
// active booking for this slot.
type DuplicateBookingError struct {
	SlotID   uuid.UUID
	ClientID uuid.UUID
}

func (e *DuplicateBookingError) Error() string {
	return fmt.Sprintf("client %s already has an active booking for slot %s", e.ClientID, e.SlotID)
}

// InvalidTransitionError rejects an illegal status change. Current
// carries the actual stored status so a stale caller can resynchronize.
type InvalidTransitionError struct {
	BookingID uuid.UUID
	Current   BookingStatus
	Target    BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s: cannot transition from %s to %s", e.BookingID, e.Current, e.Target)
}

// ConflictError blocks a destructive operation due to referential
// state, e.g. deleting a slot that still has non-cancelled bookings.
type ConflictError struct {
	SlotID             uuid.UUID
	ActiveBookingCount int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %s has %d non-cancelled bookings", e.SlotID, e.ActiveBookingCount)
}
