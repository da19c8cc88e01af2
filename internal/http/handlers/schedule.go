package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
)

// SlotsForDay returns the slot views of a single day.
func (h *Handler) SlotsForDay(c *gin.Context) {
	date, ok := h.parseDateParam(c, "date")
	if !ok {
		return
	}

	views, err := h.schedule.SlotsForDay(c.Request.Context(), date)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": toSlotViewResponses(views)})
}

// SlotsForWeek returns the slot views of the Monday-Sunday week
// containing the given date.
func (h *Handler) SlotsForWeek(c *gin.Context) {
	start, ok := h.parseDateParam(c, "start")
	if !ok {
		return
	}

	views, err := h.schedule.SlotsForWeek(c.Request.Context(), start)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": toSlotViewResponses(views)})
}

// WeekImage renders the week as a PNG occupancy grid.
func (h *Handler) WeekImage(c *gin.Context) {
	start, ok := h.parseDateParam(c, "start")
	if !ok {
		return
	}

	png, err := h.schedule.WeekImage(c.Request.Context(), start)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", c.Param(name))
	if err != nil {
		h.writeDomainError(c, &model.ValidationError{Field: name, Reason: "must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}
