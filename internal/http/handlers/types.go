package handlers

import (
	"time"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/model"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/service"
)

// Wire shapes. Dates travel as YYYY-MM-DD, slot times as the literal
// HH:MM wall-clock values the trainer entered.

type slotResponse struct {
	SlotID    string `json:"slotId"`
	TrainerID string `json:"trainerId"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity"`
	Active    bool   `json:"active"`
	Notes     string `json:"notes,omitempty"`
}

type bookingResponse struct {
	BookingID       string    `json:"bookingId"`
	SlotID          string    `json:"slotId"`
	ClientID        string    `json:"clientId"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	StatusChangedAt time.Time `json:"statusChangedAt"`
}

type slotViewResponse struct {
	slotResponse
	BookedCount int               `json:"bookedCount"`
	Bookings    []bookingResponse `json:"bookings"`
}

func toSlotResponse(slot *model.Slot) slotResponse {
	return slotResponse{
		SlotID:    slot.ID.String(),
		TrainerID: slot.TrainerID.String(),
		Title:     slot.Title,
		Category:  slot.Category,
		Date:      slot.DateKey(),
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Capacity:  slot.Capacity,
		Active:    slot.Active,
		Notes:     slot.Notes,
	}
}

func toBookingResponse(booking *model.Booking) bookingResponse {
	return bookingResponse{
		BookingID:       booking.ID.String(),
		SlotID:          booking.SlotID.String(),
		ClientID:        booking.ClientID.String(),
		Status:          string(booking.Status),
		Notes:           booking.Notes,
		CreatedAt:       booking.CreatedAt,
		StatusChangedAt: booking.StatusChangedAt,
	}
}

func toBookingResponses(bookings []*model.Booking) []bookingResponse {
	out := make([]bookingResponse, len(bookings))
	for i, booking := range bookings {
		out[i] = toBookingResponse(booking)
	}
	return out
}

func toSlotViewResponses(views []*service.SlotView) []slotViewResponse {
	out := make([]slotViewResponse, len(views))
	for i, view := range views {
		out[i] = slotViewResponse{
			slotResponse: toSlotResponse(view.Slot),
			BookedCount:  view.BookedCount,
			Bookings:     toBookingResponses(view.Bookings),
		}
	}
	return out
}
