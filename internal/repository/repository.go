package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
)

// SlotRepository owns the canonical list of bookable slots.
type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	// ListByDateRange returns slots whose date falls inside [from, to],
	// ordered by date then start time.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Slot, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Delete removes a slot, or returns *model.ConflictError while any
	// non-cancelled booking still references it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingRepository owns booking records and the atomic writes the
// capacity invariant depends on.
type BookingRepository interface {
	// CreateAdmitted runs the duplicate check, the capacity check and
	// the insert as one atomic unit serialized per slot. It returns
	// model.ErrSlotNotFound, *model.ValidationError (inactive slot),
	// *model.DuplicateBookingError or *model.CapacityExceededError
	// without any partial write.
	CreateAdmitted(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*model.Booking, error)
	ListBySlots(ctx context.Context, slotIDs []uuid.UUID) ([]*model.Booking, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Booking, error)
	// UpdateStatusIf performs a compare-and-swap on the stored status.
	// It reports false, without mutating anything, when the stored
	// status no longer equals from.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (bool, error)
	// CountActiveBySlot counts bookings occupying a seat of the slot.
	CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int, error)
}
