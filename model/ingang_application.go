package model

import (
	"time"

	"github.com/google/uuid"
)

type IngangApplication struct {
	ID        uuid.UUID `json:"id"`
	ApplierID uuid.UUID `json:"applier"`
	Date      time.Time `json:"date"`
	Time      int       `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

// IngangStatus describes the study-hall booking rules in effect.
type IngangStatus struct {
	TicketCount int   `json:"ticketCount"`
	MaxApplier  int   `json:"maxApplier"`
	TimeSlots   []int `json:"timeSlots"`
}
