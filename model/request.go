// file: model/request.go

package model

import "time"

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateUserRequest defines the payload a teacher uses to register a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	UserType Role   `json:"userType" validate:"required,oneof=T S"`
	Grade    int    `json:"grade" validate:"gte=0,lte=6"`
	Class    int    `json:"class" validate:"gte=0,lte=20"`
	Serial   int    `json:"serial" validate:"gte=0"`
}

// CreateAttendanceLogRequest is the normalized body of POST /attendance-log.
type CreateAttendanceLogRequest struct {
	Location string `json:"location"`
	Remark   string `json:"remark"`
}

type ClassStatusRequest struct {
	Grade int `json:"grade"`
	Class int `json:"class"`
}

type IngangApplicationRequest struct {
	Time int `json:"time"`
}

type MealRequest struct {
	Date      time.Time `json:"date"`
	Breakfast []string  `json:"breakfast"`
	Lunch     []string  `json:"lunch"`
	Dinner    []string  `json:"dinner"`
}

// EditMealRequest uses pointers so that menus absent from the payload stay untouched.
type EditMealRequest struct {
	Breakfast *[]string `json:"breakfast"`
	Lunch     *[]string `json:"lunch"`
	Dinner    *[]string `json:"dinner"`
}

type OutgoRequestPayload struct {
	Applier      []string `json:"applier"`
	Approver     string   `json:"approver"`
	Reason       string   `json:"reason"`
	DetailReason string   `json:"detailReason"`
	Duration     Duration `json:"duration"`
}

type OutgoDecisionRequest struct {
	Status OutgoRequestStatus `json:"status"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
