package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceLog is one check-in. Student is populated on reads.
type AttendanceLog struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"-"`
	Student   *User     `json:"student"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	Location  string    `json:"location"`
	Remark    string    `json:"remark"`
	CreatedAt time.Time `json:"createdAt"`
}
