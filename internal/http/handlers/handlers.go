package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/service"
)

// Handler carries the service dependencies of every endpoint.
type Handler struct {
	slots    *service.SlotService
	bookings *service.BookingService
	schedule *service.ScheduleService
	logger   *zap.Logger
}

func New(
	slots *service.SlotService,
	bookings *service.BookingService,
	schedule *service.ScheduleService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		slots:    slots,
		bookings: bookings,
		schedule: schedule,
		logger:   logger,
	}
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Business
// rejections answer 409 with enough context for the caller to
// resynchronize or retry later.
func (h *Handler) writeDomainError(c *gin.Context, err error) {
	var validation *model.ValidationError
	var capacity *model.CapacityExceededError
	var duplicate *model.DuplicateBookingError
	var transition *model.InvalidTransitionError
	var conflict *model.ConflictError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_error",
			"field":  validation.Field,
			"reason": validation.Reason,
		})
	case errors.Is(err, model.ErrSlotNotFound), errors.Is(err, model.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.As(err, &capacity):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "capacity_exceeded",
			"slotId":   capacity.SlotID.String(),
			"capacity": capacity.Capacity,
		})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "duplicate_booking",
			"slotId":   duplicate.SlotID.String(),
			"clientId": duplicate.ClientID.String(),
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error":         "invalid_transition",
			"bookingId":     transition.BookingID.String(),
			"currentStatus": string(transition.Current),
			"targetStatus":  string(transition.Target),
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":              "conflict",
			"slotId":             conflict.SlotID.String(),
			"activeBookingCount": conflict.ActiveBookingCount,
		})
	default:
		h.logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
