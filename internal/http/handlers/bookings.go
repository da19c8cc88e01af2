package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
)

type createBookingRequest struct {
	SlotID    string `json:"slotId" binding:"required"`
	ClientID  string `json:"clientId" binding:"required"`
	Notes     string `json:"notes"`
	AsTrainer bool   `json:"asTrainer"`
}

// CreateBooking reserves a seat. Client requests start pending; a
// trainer booking on behalf of a client starts confirmed.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		h.writeDomainError(c, &model.ValidationError{Field: "slotId", Reason: "must be a UUID"})
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.writeDomainError(c, &model.ValidationError{Field: "clientId", Reason: "must be a UUID"})
		return
	}

	initialStatus := model.BookingStatusPending
	if req.AsTrainer {
		initialStatus = model.BookingStatusConfirmed
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), slotID, clientID, initialStatus, req.Notes)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"bookingId": booking.ID.String(),
		"status":    string(booking.Status),
	})
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// TransitionBooking moves a booking through the lifecycle table.
func (h *Handler) TransitionBooking(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.bookings.TransitionStatus(c.Request.Context(), id, model.BookingStatus(req.Status))
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookingId": booking.ID.String(),
		"status":    string(booking.Status),
	})
}

// ListClientBookings returns a client's bookings, newest first.
func (h *Handler) ListClientBookings(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	bookings, err := h.bookings.ListBookingsForClient(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": toBookingResponses(bookings)})
}
