package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
)

func newSlot(t *testing.T, store *Store, capacity int) *model.Slot {
	t.Helper()
	slot := &model.Slot{
		ID:        uuid.New(),
		TrainerID: uuid.New(),
		Title:     "Strength basics",
		Category:  model.SlotCategoryIndividual,
		Date:      time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  capacity,
		Active:    true,
	}
	require.NoError(t, store.Slots().Create(context.Background(), slot))
	return slot
}

func newBooking(slotID uuid.UUID) *model.Booking {
	return &model.Booking{
		ID:       uuid.New(),
		SlotID:   slotID,
		ClientID: uuid.New(),
		Status:   model.BookingStatusPending,
	}
}

func TestCapacityInvariantUnderConcurrency(t *testing.T) {
	const capacity = 5
	const attempts = 40

	store := NewStore()
	slot := newSlot(t, store, capacity)
	bookings := store.Bookings()

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- bookings.CreateAdmitted(context.Background(), newBooking(slot.ID))
		}()
	}
	wg.Wait()
	close(results)

	admitted, rejected := 0, 0
	for err := range results {
		if err == nil {
			admitted++
			continue
		}
		var capErr *model.CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		rejected++
	}

	assert.Equal(t, capacity, admitted, "exactly capacity admissions")
	assert.Equal(t, attempts-capacity, rejected)

	count, err := bookings.CountActiveBySlot(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, count)
}

func TestDifferentSlotsDoNotContend(t *testing.T) {
	store := NewStore()
	a := newSlot(t, store, 1)
	b := newSlot(t, store, 1)
	bookings := store.Bookings()

	require.NoError(t, bookings.CreateAdmitted(context.Background(), newBooking(a.ID)))
	require.NoError(t, bookings.CreateAdmitted(context.Background(), newBooking(b.ID)))
}

func TestDuplicateActiveBookingRejected(t *testing.T) {
	store := NewStore()
	slot := newSlot(t, store, 3)
	bookings := store.Bookings()
	clientID := uuid.New()

	first := newBooking(slot.ID)
	first.ClientID = clientID
	require.NoError(t, bookings.CreateAdmitted(context.Background(), first))

	second := newBooking(slot.ID)
	second.ClientID = clientID
	err := bookings.CreateAdmitted(context.Background(), second)

	var dupErr *model.DuplicateBookingError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, slot.ID, dupErr.SlotID)
	assert.Equal(t, clientID, dupErr.ClientID)
}

func TestCancellationFreesSeat(t *testing.T) {
	store := NewStore()
	slot := newSlot(t, store, 1)
	bookings := store.Bookings()

	first := newBooking(slot.ID)
	require.NoError(t, bookings.CreateAdmitted(context.Background(), first))

	// Slot is full now.
	err := bookings.CreateAdmitted(context.Background(), newBooking(slot.ID))
	var capErr *model.CapacityExceededError
	require.ErrorAs(t, err, &capErr)

	swapped, err := bookings.UpdateStatusIf(context.Background(), first.ID, model.BookingStatusPending, model.BookingStatusCancelled)
	require.NoError(t, err)
	require.True(t, swapped)

	// Exactly one seat came back.
	require.NoError(t, bookings.CreateAdmitted(context.Background(), newBooking(slot.ID)))
	err = bookings.CreateAdmitted(context.Background(), newBooking(slot.ID))
	require.ErrorAs(t, err, &capErr)
}

func TestUpdateStatusIfIsCompareAndSwap(t *testing.T) {
	store := NewStore()
	slot := newSlot(t, store, 1)
	bookings := store.Bookings()

	booking := newBooking(slot.ID)
	require.NoError(t, bookings.CreateAdmitted(context.Background(), booking))

	swapped, err := bookings.UpdateStatusIf(context.Background(), booking.ID, model.BookingStatusPending, model.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.True(t, swapped)

	// Stale expectation loses.
	swapped, err = bookings.UpdateStatusIf(context.Background(), booking.ID, model.BookingStatusPending, model.BookingStatusCancelled)
	require.NoError(t, err)
	assert.False(t, swapped)

	stored, err := bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, stored.Status)
}

func TestConcurrentTransitionsSingleWinner(t *testing.T) {
	store := NewStore()
	slot := newSlot(t, store, 1)
	bookings := store.Bookings()

	booking := newBooking(slot.ID)
	require.NoError(t, bookings.CreateAdmitted(context.Background(), booking))

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan bool, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			swapped, err := bookings.UpdateStatusIf(context.Background(), booking.ID, model.BookingStatusPending, model.BookingStatusConfirmed)
			require.NoError(t, err)
			wins <- swapped
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestInactiveSlotNotBookable(t *testing.T) {
	store := NewStore()
	slot := newSlot(t, store, 2)
	require.NoError(t, store.Slots().SetActive(context.Background(), slot.ID, false))

	err := store.Bookings().CreateAdmitted(context.Background(), newBooking(slot.ID))
	var valErr *model.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestDeleteSlotBlockedByActiveBookings(t *testing.T) {
	store := NewStore()
	slot := newSlot(t, store, 2)
	bookings := store.Bookings()

	booking := newBooking(slot.ID)
	require.NoError(t, bookings.CreateAdmitted(context.Background(), booking))

	err := store.Slots().Delete(context.Background(), slot.ID)
	var conflict *model.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, conflict.ActiveBookingCount)

	swapped, err := bookings.UpdateStatusIf(context.Background(), booking.ID, model.BookingStatusPending, model.BookingStatusCancelled)
	require.NoError(t, err)
	require.True(t, swapped)

	require.NoError(t, store.Slots().Delete(context.Background(), slot.ID))
	_, err = store.Slots().GetByID(context.Background(), slot.ID)
	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}

func TestListByDateRangeOrdering(t *testing.T) {
	store := NewStore()
	slots := store.Slots()

	day1 := time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)

	mk := func(date time.Time, start string) *model.Slot {
		slot := &model.Slot{
			ID:        uuid.New(),
			TrainerID: uuid.New(),
			Title:     "Session",
			Date:      date,
			StartTime: start,
			EndTime:   "23:00",
			Capacity:  1,
			Active:    true,
		}
		require.NoError(t, slots.Create(context.Background(), slot))
		return slot
	}

	mk(day2, "08:00")
	mk(day1, "18:00")
	mk(day1, "07:00")

	listed, err := slots.ListByDateRange(context.Background(), day1, day2)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "07:00", listed[0].StartTime)
	assert.Equal(t, "18:00", listed[1].StartTime)
	assert.Equal(t, day2, listed[2].Date)
}
