package model

import (
	"time"

	"github.com/google/uuid"
)

type OutgoRequestStatus string

const (
	OutgoApplied  OutgoRequestStatus = "applied"
	OutgoApproved OutgoRequestStatus = "approved"
	OutgoDenied   OutgoRequestStatus = "denied"
)

type Duration struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// OutgoRequest is the stored form, referencing users by id.
type OutgoRequest struct {
	ID           uuid.UUID          `json:"id"`
	Applier      []uuid.UUID        `json:"applier"`
	Approver     uuid.UUID          `json:"approver"`
	Reason       string             `json:"reason"`
	DetailReason string             `json:"detailReason"`
	Duration     Duration           `json:"duration"`
	Status       OutgoRequestStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (o *OutgoRequest) HasApplier(id uuid.UUID) bool {
	for _, a := range o.Applier {
		if a == id {
			return true
		}
	}
	return false
}

// PopulatedOutgoRequest is the response shape with appliers and approver resolved to users.
type PopulatedOutgoRequest struct {
	ID           uuid.UUID          `json:"id"`
	Applier      []*User            `json:"applier"`
	Approver     *User              `json:"approver"`
	Reason       string             `json:"reason"`
	DetailReason string             `json:"detailReason"`
	Duration     Duration           `json:"duration"`
	Status       OutgoRequestStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}
