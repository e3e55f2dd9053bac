package model

import (
	"time"

	"github.com/google/uuid"
)

type Meal struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Breakfast []string  `json:"breakfast"`
	Lunch     []string  `json:"lunch"`
	Dinner    []string  `json:"dinner"`
	UpdatedAt time.Time `json:"updatedAt"`
}
