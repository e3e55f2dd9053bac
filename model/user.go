package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the userType code stored on every user.
type Role string

const (
	RoleTeacher Role = "T"
	RoleStudent Role = "S"
)

func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	UserType     Role      `json:"userType"`
	Grade        int       `json:"grade"`
	Class        int       `json:"class"`
	Serial       int       `json:"serial"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the caller as resolved for a single request.
type Identity struct {
	ID     uuid.UUID `json:"id"`
	Role   Role      `json:"userType"`
	Grade  int       `json:"grade"`
	Class  int       `json:"class"`
	Serial int       `json:"serial"`
	Name   string    `json:"name"`
}

func (u *User) Identity() Identity {
	return Identity{
		ID:     u.ID,
		Role:   u.UserType,
		Grade:  u.Grade,
		Class:  u.Class,
		Serial: u.Serial,
		Name:   u.Name,
	}
}

// ScopeValue returns the identity attribute a scoped request field is compared against.
func (i Identity) ScopeValue(field string) (int, bool) {
	switch field {
	case "grade":
		return i.Grade, true
	case "class":
		return i.Class, true
	case "serial":
		return i.Serial, true
	}
	return 0, false
}
