package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrMealNotFound = errors.New("no meal is published for that date")
	ErrMealExists   = errors.New("a meal is already published for that date")

	ErrOutsideCheckInWindow = errors.New("attendance cannot be logged at this time")

	ErrAlreadyApplied          = errors.New("already applied for the study hall at that time")
	ErrIngangFull              = errors.New("the study hall is full for your class at that time")
	ErrIngangApplicationAbsent = errors.New("no study hall application for that time")

	ErrOutgoNotFound      = errors.New("outgo request not found")
	ErrNotSelfApplier     = errors.New("you can only request an outgo that includes yourself")
	ErrApplierNotFound    = errors.New("one or more appliers do not exist")
	ErrApproverNotFound   = errors.New("approver not found")
	ErrApproverNotTeacher = errors.New("the approver must be a teacher")
	ErrInvalidDuration    = errors.New("the outgo window must start in the future and end after it starts")
	ErrNotApprover        = errors.New("only the designated approver can decide this request")
	ErrOutgoClosed        = errors.New("the outgo request has already been decided")
)
