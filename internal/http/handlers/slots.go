package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/service"
)

type createSlotRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Capacity  int    `json:"capacity" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Category  string `json:"category"`
	Notes     string `json:"notes"`
}

// CreateSlot publishes a new bookable slot.
func (h *Handler) CreateSlot(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	trainerID, err := uuid.Parse(req.TrainerID)
	if err != nil {
		h.writeDomainError(c, &model.ValidationError{Field: "trainerId", Reason: "must be a UUID"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.writeDomainError(c, &model.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"})
		return
	}

	slot, err := h.slots.CreateSlot(c.Request.Context(), service.CreateSlotInput{
		TrainerID: trainerID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		Title:     req.Title,
		Category:  req.Category,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slotId": slot.ID.String()})
}

// ListSlots returns slot views for the from/to date range.
func (h *Handler) ListSlots(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		h.writeDomainError(c, &model.ValidationError{Field: "from", Reason: "must be YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		h.writeDomainError(c, &model.ValidationError{Field: "to", Reason: "must be YYYY-MM-DD"})
		return
	}

	views, err := h.schedule.SlotsForRange(c.Request.Context(), from, to)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": toSlotViewResponses(views)})
}

// GetSlot returns a single slot.
func (h *Handler) GetSlot(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	slot, err := h.slots.GetSlot(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSlotResponse(slot))
}

// Occupancy returns booked seats versus capacity.
func (h *Handler) Occupancy(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	occupancy, err := h.schedule.Occupancy(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, occupancy)
}

// ListSlotBookings returns every booking of a slot, history included.
func (h *Handler) ListSlotBookings(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	bookings, err := h.bookings.ListBookingsForSlot(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": toBookingResponses(bookings)})
}

// ActivateSlot makes a slot bookable again.
func (h *Handler) ActivateSlot(c *gin.Context) {
	h.setSlotActive(c, true)
}

// DeactivateSlot makes a slot unbookable; existing bookings stay.
func (h *Handler) DeactivateSlot(c *gin.Context) {
	h.setSlotActive(c, false)
}

func (h *Handler) setSlotActive(c *gin.Context, active bool) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var err error
	if active {
		err = h.slots.ActivateSlot(c.Request.Context(), id)
	} else {
		err = h.slots.DeactivateSlot(c.Request.Context(), id)
	}
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slotId": id.String(), "active": active})
}

// DeleteSlot removes a slot; blocked while non-cancelled bookings
// reference it.
func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.slots.DeleteSlot(c.Request.Context(), id); err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.writeDomainError(c, &model.ValidationError{Field: "id", Reason: "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
