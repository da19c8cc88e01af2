package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/repository"
)

// Occupancy is the seat usage of a single slot.
type Occupancy struct {
	Booked   int `json:"booked"`
	Capacity int `json:"capacity"`
}

// SlotView is a slot together with its bookings and booked count, the
// read shape consumed by the request layer.
type SlotView struct {
	Slot        *model.Slot      `json:"slot"`
	BookedCount int              `json:"booked_count"`
	Bookings    []*model.Booking `json:"bookings"`
}

// ScheduleService is the read side: slot/booking projections composed
// from the stores, no side effects.
type ScheduleService struct {
	slotRepo    repository.SlotRepository
	bookingRepo repository.BookingRepository
	logger      *zap.Logger
}

func NewScheduleService(slotRepo repository.SlotRepository, bookingRepo repository.BookingRepository, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Occupancy returns booked seats versus capacity for a slot.
func (s *ScheduleService) Occupancy(ctx context.Context, slotID uuid.UUID) (*Occupancy, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookingRepo.CountActiveBySlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	return &Occupancy{Booked: booked, Capacity: slot.Capacity}, nil
}

// SlotsForRange returns slot views for [from, to], ordered by date then
// start time.
func (s *ScheduleService) SlotsForRange(ctx context.Context, from, to time.Time) ([]*SlotView, error) {
	from = normalizeDate(from)
	to = normalizeDate(to)
	if to.Before(from) {
		return nil, &model.ValidationError{Field: "date_to", Reason: "must not be before date_from"}
	}

	slots, err := s.slotRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}

	slotIDs := make([]uuid.UUID, len(slots))
	for i, slot := range slots {
		slotIDs[i] = slot.ID
	}

	bookings, err := s.bookingRepo.ListBySlots(ctx, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("load bookings for slots: %w", err)
	}

	bySlot := make(map[uuid.UUID][]*model.Booking, len(slots))
	for _, booking := range bookings {
		bySlot[booking.SlotID] = append(bySlot[booking.SlotID], booking)
	}

	views := make([]*SlotView, len(slots))
	for i, slot := range slots {
		view := &SlotView{Slot: slot, Bookings: bySlot[slot.ID]}
		for _, booking := range view.Bookings {
			if booking.Status.CountsAgainstCapacity() {
				view.BookedCount++
			}
		}
		views[i] = view
	}

	return views, nil
}

// SlotsForDay returns the slot views of a single day.
func (s *ScheduleService) SlotsForDay(ctx context.Context, date time.Time) ([]*SlotView, error) {
	return s.SlotsForRange(ctx, date, date)
}

// SlotsForWeek returns the slot views for the week containing
// weekStart, Monday through Sunday.
func (s *ScheduleService) SlotsForWeek(ctx context.Context, weekStart time.Time) ([]*SlotView, error) {
	start, end := weekBoundsFor(weekStart)
	return s.SlotsForRange(ctx, start, end)
}

// WeekImage renders the week containing weekStart as a PNG grid with
// slots colored by occupancy.
func (s *ScheduleService) WeekImage(ctx context.Context, weekStart time.Time) ([]byte, error) {
	start, _ := weekBoundsFor(weekStart)
	views, err := s.SlotsForWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	return renderWeekImage(start, views)
}

// weekBoundsFor normalizes a date to its Monday-Sunday week bounds.
func weekBoundsFor(date time.Time) (time.Time, time.Time) {
	day := normalizeDate(date)

	daysSinceMonday := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := day.AddDate(0, 0, -daysSinceMonday)
	return start, start.AddDate(0, 0, 6)
}
