package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a stored session. Only the SHA-256 of the opaque token is kept.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
