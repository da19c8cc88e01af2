// Package memory provides an in-process implementation of the slot and
// booking repositories. It backs the service when no DB_DSN is
// configured and the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
)

// Store keeps slots and bookings in maps. Admission control is
// serialized per slot through a dedicated mutex per slot id, so
// bookings against different slots proceed independently; the data
// mutex only guards map access and is held briefly.
type Store struct {
	mu       sync.RWMutex
	slots    map[uuid.UUID]*model.Slot
	bookings map[uuid.UUID]*model.Booking

	lockMu    sync.Mutex
	slotLocks map[uuid.UUID]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		slots:     make(map[uuid.UUID]*model.Slot),
		bookings:  make(map[uuid.UUID]*model.Booking),
		slotLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Slots returns the slot repository view of the store.
func (s *Store) Slots() *SlotRepo {
	return &SlotRepo{store: s}
}

// Bookings returns the booking repository view of the store.
func (s *Store) Bookings() *BookingRepo {
	return &BookingRepo{store: s}
}

func (s *Store) slotLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.slotLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.slotLocks[id] = lock
	}
	return lock
}

type SlotRepo struct {
	store *Store
}

// Create persists a new slot.
func (r *SlotRepo) Create(ctx context.Context, slot *model.Slot) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	slot.CreatedAt = time.Now().UTC()
	stored := *slot
	s.slots[slot.ID] = &stored
	return nil
}

// GetByID fetches a slot by id.
func (r *SlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.slots[id]
	if !ok {
		return nil, model.ErrSlotNotFound
	}
	slot := *stored
	return &slot, nil
}

// ListByDateRange returns slots inside [from, to] ordered by date then
// start time.
func (r *SlotRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Slot, error) {
	s := r.store
	s.mu.RLock()
	var slots []*model.Slot
	for _, stored := range s.slots {
		if stored.Date.Before(from) || stored.Date.After(to) {
			continue
		}
		slot := *stored
		slots = append(slots, &slot)
	}
	s.mu.RUnlock()

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime < slots[j].StartTime
	})

	return slots, nil
}

// SetActive toggles the bookable flag.
func (r *SlotRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.slots[id]
	if !ok {
		return model.ErrSlotNotFound
	}
	stored.Active = active
	return nil
}

// Delete removes a slot unless non-cancelled bookings reference it.
// The slot lock keeps a concurrent admission from racing the count.
func (r *SlotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	lock := s.slotLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[id]; !ok {
		return model.ErrSlotNotFound
	}

	activeCount := 0
	for _, b := range s.bookings {
		if b.SlotID == id && b.Status.CountsAgainstCapacity() {
			activeCount++
		}
	}
	if activeCount > 0 {
		return &model.ConflictError{SlotID: id, ActiveBookingCount: activeCount}
	}

	// Cancelled bookings are history; they go with the slot.
	for bid, b := range s.bookings {
		if b.SlotID == id {
			delete(s.bookings, bid)
		}
	}
	delete(s.slots, id)
	return nil
}

type BookingRepo struct {
	store *Store
}

// CreateAdmitted runs the duplicate check, the capacity check and the
// insert under the slot's admission lock. Transitions may cancel
// concurrently without this lock; cancellation only frees seats and
// cannot break the capacity invariant.
func (r *BookingRepo) CreateAdmitted(ctx context.Context, booking *model.Booking) error {
	s := r.store
	lock := s.slotLock(booking.SlotID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[booking.SlotID]
	if !ok {
		return model.ErrSlotNotFound
	}
	if !slot.Active {
		return &model.ValidationError{Field: "slot_id", Reason: "slot is not active"}
	}

	activeCount := 0
	for _, b := range s.bookings {
		if b.SlotID != booking.SlotID || !b.Status.CountsAgainstCapacity() {
			continue
		}
		if b.ClientID == booking.ClientID {
			return &model.DuplicateBookingError{SlotID: booking.SlotID, ClientID: booking.ClientID}
		}
		activeCount++
	}

	if activeCount >= slot.Capacity {
		return &model.CapacityExceededError{SlotID: booking.SlotID, Capacity: slot.Capacity}
	}

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.StatusChangedAt = now
	stored := *booking
	s.bookings[booking.ID] = &stored
	return nil
}

// GetByID fetches a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.bookings[id]
	if !ok {
		return nil, model.ErrBookingNotFound
	}
	booking := *stored
	return &booking, nil
}

// ListBySlot returns all bookings of a slot, oldest first.
func (r *BookingRepo) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*model.Booking, error) {
	return r.ListBySlots(ctx, []uuid.UUID{slotID})
}

// ListBySlots returns all bookings referencing any of the given slots.
func (r *BookingRepo) ListBySlots(ctx context.Context, slotIDs []uuid.UUID) ([]*model.Booking, error) {
	wanted := make(map[uuid.UUID]bool, len(slotIDs))
	for _, id := range slotIDs {
		wanted[id] = true
	}

	s := r.store
	s.mu.RLock()
	var bookings []*model.Booking
	for _, stored := range s.bookings {
		if wanted[stored.SlotID] {
			booking := *stored
			bookings = append(bookings, &booking)
		}
	}
	s.mu.RUnlock()

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// ListByClient returns all bookings of a client, newest first.
func (r *BookingRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Booking, error) {
	s := r.store
	s.mu.RLock()
	var bookings []*model.Booking
	for _, stored := range s.bookings {
		if stored.ClientID == clientID {
			booking := *stored
			bookings = append(bookings, &booking)
		}
	}
	s.mu.RUnlock()

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// UpdateStatusIf swaps the status only when the stored value still
// equals from.
func (r *BookingRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[id]
	if !ok || stored.Status != from {
		return false, nil
	}
	stored.Status = to
	stored.StatusChangedAt = time.Now().UTC()
	return true, nil
}

// CountActiveBySlot counts bookings occupying a seat of the slot.
func (r *BookingRepo) CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.bookings {
		if b.SlotID == slotID && b.Status.CountsAgainstCapacity() {
			count++
		}
	}
	return count, nil
}
