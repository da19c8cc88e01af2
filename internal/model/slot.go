package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot category labels. Category is free-form; these are the two the
// product UI offers by default.
const (
	SlotCategoryIndividual = "individual"
	SlotCategoryGroup      = "group"
)

// Slot is a trainer-published, date/time-bounded, capacity-limited
// bookable unit. StartTime and EndTime are naive wall-clock values in
// zero-padded "HH:MM" form, stored exactly as the trainer entered them;
// lexical order equals chronological order within a day.
type Slot struct {
	ID        uuid.UUID `json:"id"`
	TrainerID uuid.UUID `json:"trainer_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"` // date-only, time component is always midnight UTC
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Capacity  int       `json:"capacity"`
	Active    bool      `json:"active"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DateKey returns the canonical YYYY-MM-DD form of the slot date.
func (s *Slot) DateKey() string {
	return s.Date.Format("2006-01-02")
}
