package handler

import (
	"net/http"
	"school-api/common"
	"school-api/model"
	"school-api/service"
)

type AttendanceHandler struct {
	service *service.AttendanceService
}

func NewAttendanceHandler(service *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// CreateAttendanceLog godoc
// @Summary      Check in
// @Description  Records the calling student's check-in at a location with the current date and time.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        log body model.CreateAttendanceLogRequest true "Location and remark"
// @Success      200  {object}  map[string]model.AttendanceLog
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      423  {object}  common.AppError "Outside check-in hours"
// @Router       /attendance-log [post]
func (h *AttendanceHandler) CreateAttendanceLog(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	var req model.CreateAttendanceLogRequest
	if appErr := decodePayload(r, &req); appErr != nil {
		return appErr
	}

	entry, err := h.service.CreateLog(r.Context(), identity, req)
	if err != nil {
		return serviceError(err, "Could not record attendance")
	}
	common.WriteResource(w, "attendanceLog", entry)
	return nil
}

// ClassStatus godoc
// @Summary      Today's check-ins of a class
// @Description  Students may only query their own grade and class.
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        grade query int true "Grade"
// @Param        class query int true "Class"
// @Success      200  {object}  map[string]map[string][]model.AttendanceLog
// @Failure      403  {object}  common.AppError
// @Router       /attendance-log/class-status [get]
func (h *AttendanceHandler) ClassStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ClassStatusRequest
	if appErr := decodePayload(r, &req); appErr != nil {
		return appErr
	}

	classLogs, err := h.service.ClassStatus(r.Context(), req.Grade, req.Class)
	if err != nil {
		return serviceError(err, "Could not retrieve class status")
	}
	common.WriteResource(w, "classLogs", classLogs)
	return nil
}
