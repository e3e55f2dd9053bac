package handler

import (
	"errors"
	"net/http"
	"school-api/common"
	"school-api/service"
)

// serviceError maps business errors to status codes; anything unknown becomes a 500 with fallback.
func serviceError(err error, fallback string) *common.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUserNotFound):
		return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrNotSelfApplier),
		errors.Is(err, service.ErrApproverNotTeacher),
		errors.Is(err, service.ErrNotApprover),
		errors.Is(err, service.ErrIngangFull):
		return common.NewAppError(http.StatusForbidden, err.Error(), err)
	case errors.Is(err, service.ErrMealNotFound),
		errors.Is(err, service.ErrIngangApplicationAbsent),
		errors.Is(err, service.ErrOutgoNotFound),
		errors.Is(err, service.ErrApproverNotFound),
		errors.Is(err, service.ErrApplierNotFound):
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrMealExists),
		errors.Is(err, service.ErrAlreadyApplied),
		errors.Is(err, service.ErrOutgoClosed):
		return common.NewAppError(http.StatusConflict, err.Error(), err)
	case errors.Is(err, service.ErrOutsideCheckInWindow):
		return common.NewAppError(http.StatusLocked, err.Error(), err)
	case errors.Is(err, service.ErrInvalidDuration):
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}
