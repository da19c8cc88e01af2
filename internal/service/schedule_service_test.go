package service

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
)

func (f *fixture) createSlotOn(t *testing.T, date time.Time, start, end string, capacity int) *model.Slot {
	t.Helper()
	slot, err := f.slots.CreateSlot(context.Background(), CreateSlotInput{
		TrainerID: uuid.New(),
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
		Title:     "Session",
	})
	require.NoError(t, err)
	return slot
}

func TestOccupancy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	slot := f.createSlot(t, 3)

	occ, err := f.schedule.Occupancy(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, &Occupancy{Booked: 0, Capacity: 3}, occ)

	booking, err := f.bookings.CreateBooking(ctx, slot.ID, uuid.New(), model.BookingStatusPending, "")
	require.NoError(t, err)
	_, err = f.bookings.CreateBooking(ctx, slot.ID, uuid.New(), model.BookingStatusConfirmed, "")
	require.NoError(t, err)

	occ, err = f.schedule.Occupancy(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, &Occupancy{Booked: 2, Capacity: 3}, occ)

	_, err = f.bookings.TransitionStatus(ctx, booking.ID, model.BookingStatusCancelled)
	require.NoError(t, err)

	occ, err = f.schedule.Occupancy(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, &Occupancy{Booked: 1, Capacity: 3}, occ)
}

func TestOccupancyUnknownSlot(t *testing.T) {
	f := newFixture()
	_, err := f.schedule.Occupancy(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}

func TestSlotsForDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	day := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)

	late := f.createSlotOn(t, day, "17:00", "18:00", 1)
	early := f.createSlotOn(t, day, "08:00", "09:00", 2)
	f.createSlotOn(t, day.AddDate(0, 0, 1), "08:00", "09:00", 1)

	_, err := f.bookings.CreateBooking(ctx, early.ID, uuid.New(), model.BookingStatusPending, "")
	require.NoError(t, err)

	views, err := f.schedule.SlotsForDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, early.ID, views[0].Slot.ID)
	assert.Equal(t, 1, views[0].BookedCount)
	require.Len(t, views[0].Bookings, 1)

	assert.Equal(t, late.ID, views[1].Slot.ID)
	assert.Equal(t, 0, views[1].BookedCount)
	assert.Empty(t, views[1].Bookings)
}

func TestCancelledBookingsListedButNotCounted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	day := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)
	slot := f.createSlotOn(t, day, "08:00", "09:00", 2)

	booking, err := f.bookings.CreateBooking(ctx, slot.ID, uuid.New(), model.BookingStatusPending, "")
	require.NoError(t, err)
	_, err = f.bookings.TransitionStatus(ctx, booking.ID, model.BookingStatusCancelled)
	require.NoError(t, err)

	views, err := f.schedule.SlotsForDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, views, 1)

	// History stays visible; the seat does not.
	assert.Len(t, views[0].Bookings, 1)
	assert.Equal(t, 0, views[0].BookedCount)
}

func TestSlotsForWeekBounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 2025-03-25 is a Tuesday; its week runs 03-24 through 03-30.
	tuesday := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	f.createSlotOn(t, monday, "08:00", "09:00", 1)
	f.createSlotOn(t, sunday, "08:00", "09:00", 1)
	f.createSlotOn(t, nextMonday, "08:00", "09:00", 1)

	views, err := f.schedule.SlotsForWeek(ctx, tuesday)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestWeekImageRendersPNG(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	day := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)

	slot := f.createSlotOn(t, day, "09:00", "10:30", 2)
	_, err := f.bookings.CreateBooking(ctx, slot.ID, uuid.New(), model.BookingStatusConfirmed, "")
	require.NoError(t, err)

	data, err := f.schedule.WeekImage(ctx, day)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestWeekImageEmptyWeek(t *testing.T) {
	f := newFixture()
	data, err := f.schedule.WeekImage(context.Background(), time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
