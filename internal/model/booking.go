package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // waiting for trainer approval
	BookingStatusConfirmed BookingStatus = "confirmed" // approved, seat held
	BookingStatusCompleted BookingStatus = "completed" // session delivered, terminal
	BookingStatusCancelled BookingStatus = "cancelled" // seat returned, terminal
)

// allowedTransitions is the single source of truth for lifecycle
// legality. Absent pairs are rejected; terminal states have no entry.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending: {
		BookingStatusConfirmed: true,
		BookingStatusCancelled: true,
	},
	BookingStatusConfirmed: {
		BookingStatusCompleted: true,
		BookingStatusCancelled: true,
	},
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CountsAgainstCapacity reports whether a booking in this status
// occupies a seat. Completed bookings keep their seat; only
// cancellation returns capacity to the slot.
func (s BookingStatus) CountsAgainstCapacity() bool {
	return s != BookingStatusCancelled
}

// CanTransitionTo consults the transition table.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	return allowedTransitions[s][target]
}

// IsValidInitialStatus reports whether a booking may be created
// directly in this status: pending for client-initiated reservations,
// confirmed for trainer-initiated ones.
func IsValidInitialStatus(s BookingStatus) bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking is a client's reservation against a slot. Bookings are never
// physically deleted; cancellation and completion are terminal tags on
// an immutable-once-created record.
type Booking struct {
	ID              uuid.UUID     `json:"id"`
	SlotID          uuid.UUID     `json:"slot_id"`
	ClientID        uuid.UUID     `json:"client_id"`
	Status          BookingStatus `json:"status"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	StatusChangedAt time.Time     `json:"status_changed_at"`
}
