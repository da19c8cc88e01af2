package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/repository"
)

// Slot times are naive zero-padded wall-clock values. Zero padding is
// what makes lexical comparison chronological.
var wallClockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type SlotService struct {
	slotRepo    repository.SlotRepository
	bookingRepo repository.BookingRepository
	logger      *zap.Logger
}

func NewSlotService(slotRepo repository.SlotRepository, bookingRepo repository.BookingRepository, logger *zap.Logger) *SlotService {
	return &SlotService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// CreateSlotInput carries the trainer's slot definition.
type CreateSlotInput struct {
	TrainerID uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
	Capacity  int
	Title     string
	Category  string
	Notes     string
}

// CreateSlot validates and publishes a new bookable slot.
func (s *SlotService) CreateSlot(ctx context.Context, in CreateSlotInput) (*model.Slot, error) {
	if in.Capacity < 1 {
		return nil, &model.ValidationError{Field: "capacity", Reason: "must be at least 1"}
	}
	if !wallClockPattern.MatchString(in.StartTime) {
		return nil, &model.ValidationError{Field: "start_time", Reason: "must be HH:MM"}
	}
	if !wallClockPattern.MatchString(in.EndTime) {
		return nil, &model.ValidationError{Field: "end_time", Reason: "must be HH:MM"}
	}
	if in.StartTime >= in.EndTime {
		return nil, &model.ValidationError{Field: "start_time", Reason: "must be before end_time"}
	}
	if in.Date.IsZero() {
		return nil, &model.ValidationError{Field: "date", Reason: "is required"}
	}

	category := in.Category
	if category == "" {
		category = model.SlotCategoryIndividual
	}

	slot := &model.Slot{
		ID:        uuid.New(),
		TrainerID: in.TrainerID,
		Title:     in.Title,
		Category:  category,
		Date:      normalizeDate(in.Date),
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Capacity:  in.Capacity,
		Active:    true,
		Notes:     in.Notes,
	}

	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("trainer_id", slot.TrainerID.String()),
		zap.String("date", slot.DateKey()),
		zap.String("start_time", slot.StartTime),
		zap.Int("capacity", slot.Capacity),
	)

	return slot, nil
}

// GetSlot fetches a slot by id.
func (s *SlotService) GetSlot(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	return s.slotRepo.GetByID(ctx, id)
}

// ListSlots returns slots inside the date range, ordered by date then
// start time.
func (s *SlotService) ListSlots(ctx context.Context, from, to time.Time) ([]*model.Slot, error) {
	from = normalizeDate(from)
	to = normalizeDate(to)
	if to.Before(from) {
		return nil, &model.ValidationError{Field: "date_to", Reason: "must not be before date_from"}
	}
	return s.slotRepo.ListByDateRange(ctx, from, to)
}

// DeactivateSlot makes a slot unbookable without touching existing
// bookings.
func (s *SlotService) DeactivateSlot(ctx context.Context, id uuid.UUID) error {
	if err := s.slotRepo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info("Slot deactivated", zap.String("slot_id", id.String()))
	return nil
}

// ActivateSlot makes a slot bookable again.
func (s *SlotService) ActivateSlot(ctx context.Context, id uuid.UUID) error {
	if err := s.slotRepo.SetActive(ctx, id, true); err != nil {
		return err
	}
	s.logger.Info("Slot activated", zap.String("slot_id", id.String()))
	return nil
}

// DeleteSlot removes a slot. While non-cancelled bookings reference it
// the repository rejects with *model.ConflictError; the trainer has to
// cancel those bookings first.
func (s *SlotService) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	if err := s.slotRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Slot deleted", zap.String("slot_id", id.String()))
	return nil
}

// normalizeDate strips any time component, keeping a date-only value.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
