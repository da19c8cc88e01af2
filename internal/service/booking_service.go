package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/repository"
)

// transitionAttempts bounds the CAS retry loop. A booking status only
// ever advances toward a terminal state, so a handful of attempts is
// already more than any real chain of concurrent transitions.
const transitionAttempts = 4

type BookingService struct {
	slotRepo    repository.SlotRepository
	bookingRepo repository.BookingRepository
	logger      *zap.Logger
}

func NewBookingService(slotRepo repository.SlotRepository, bookingRepo repository.BookingRepository, logger *zap.Logger) *BookingService {
	return &BookingService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// CreateBooking reserves a seat on a slot. Client-initiated requests
// start pending, trainer-initiated ones start confirmed. Admission
// control happens inside the repository's atomic unit; on rejection
// nothing is written.
func (s *BookingService) CreateBooking(ctx context.Context, slotID, clientID uuid.UUID, initialStatus model.BookingStatus, notes string) (*model.Booking, error) {
	if !model.IsValidInitialStatus(initialStatus) {
		return nil, &model.ValidationError{Field: "status", Reason: "initial status must be pending or confirmed"}
	}

	booking := &model.Booking{
		ID:       uuid.New(),
		SlotID:   slotID,
		ClientID: clientID,
		Status:   initialStatus,
		Notes:    notes,
	}

	if err := s.bookingRepo.CreateAdmitted(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("slot_id", slotID.String()),
		zap.String("client_id", clientID.String()),
		zap.String("status", string(booking.Status)),
	)

	return booking, nil
}

// TransitionStatus moves a booking through the lifecycle table. Illegal
// or stale transitions fail with *model.InvalidTransitionError carrying
// the actual current status, and leave the booking untouched.
func (s *BookingService) TransitionStatus(ctx context.Context, bookingID uuid.UUID, target model.BookingStatus) (*model.Booking, error) {
	if !target.IsValid() {
		return nil, &model.ValidationError{Field: "status", Reason: "unknown status"}
	}

	for attempt := 0; attempt < transitionAttempts; attempt++ {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		if !booking.Status.CanTransitionTo(target) {
			return nil, &model.InvalidTransitionError{
				BookingID: bookingID,
				Current:   booking.Status,
				Target:    target,
			}
		}

		swapped, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID, booking.Status, target)
		if err != nil {
			return nil, fmt.Errorf("transition booking status: %w", err)
		}
		if !swapped {
			// Lost the race; re-read and re-validate from the new status.
			continue
		}

		s.logger.Info("Booking status changed",
			zap.String("booking_id", bookingID.String()),
			zap.String("from", string(booking.Status)),
			zap.String("to", string(target)),
		)

		return s.bookingRepo.GetByID(ctx, bookingID)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return nil, &model.InvalidTransitionError{
		BookingID: bookingID,
		Current:   booking.Status,
		Target:    target,
	}
}

// GetBooking fetches a booking by id.
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// ListBookingsForSlot returns all bookings of a slot, oldest first.
func (s *BookingService) ListBookingsForSlot(ctx context.Context, slotID uuid.UUID) ([]*model.Booking, error) {
	if _, err := s.slotRepo.GetByID(ctx, slotID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListBySlot(ctx, slotID)
}

// ListBookingsForClient returns all bookings of a client, newest first.
func (s *BookingService) ListBookingsForClient(ctx context.Context, clientID uuid.UUID) ([]*model.Booking, error) {
	return s.bookingRepo.ListByClient(ctx, clientID)
}
