package handler

import (
	"net/http"
	"school-api/common"
	"school-api/model"
	"school-api/service"
)

// IngangHandler serves study-hall reservations.
type IngangHandler struct {
	service *service.IngangService
}

func NewIngangHandler(service *service.IngangService) *IngangHandler {
	return &IngangHandler{service: service}
}

// Status godoc
// @Summary      Study hall rules
// @Tags         ingang
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.IngangStatus
// @Router       /ingang/status [get]
func (h *IngangHandler) Status(w http.ResponseWriter, r *http.Request) *common.AppError {
	common.WriteJSON(w, http.StatusOK, h.service.Status())
	return nil
}

func (h *IngangHandler) ListApplications(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	apps, err := h.service.ListApplications(r.Context(), identity)
	if err != nil {
		return serviceError(err, "Could not retrieve ingang applications")
	}
	common.WriteResource(w, "ingangApplications", apps)
	return nil
}

// Apply godoc
// @Summary      Reserve a study hall seat for today
// @Tags         ingang
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        application body model.IngangApplicationRequest true "Time slot"
// @Success      200  {object}  map[string]model.IngangApplication
// @Failure      403  {object}  common.AppError "Class is at capacity"
// @Failure      409  {object}  common.AppError "Already applied"
// @Router       /ingang/application [post]
func (h *IngangHandler) Apply(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	var req model.IngangApplicationRequest
	if appErr := decodePayload(r, &req); appErr != nil {
		return appErr
	}

	app, err := h.service.Apply(r.Context(), identity, req.Time)
	if err != nil {
		return serviceError(err, "Could not create ingang application")
	}
	common.WriteResource(w, "ingangApplication", app)
	return nil
}

func (h *IngangHandler) Cancel(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	var req model.IngangApplicationRequest
	if appErr := decodePayload(r, &req); appErr != nil {
		return appErr
	}

	app, err := h.service.Cancel(r.Context(), identity, req.Time)
	if err != nil {
		return serviceError(err, "Could not remove ingang application")
	}
	common.WriteResource(w, "ingangApplication", app)
	return nil
}
