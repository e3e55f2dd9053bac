package handler

import (
	"net/http"
	"school-api/common"
	"school-api/model"
	"school-api/service"

	"github.com/google/uuid"
)

type OutgoHandler struct {
	service *service.OutgoService
}

func NewOutgoHandler(service *service.OutgoService) *OutgoHandler {
	return &OutgoHandler{service: service}
}

func outgoRequestID(r *http.Request) (uuid.UUID, *common.AppError) {
	id, err := uuid.Parse(r.PathValue("requestId"))
	if err != nil {
		return uuid.Nil, common.NewAppError(http.StatusBadRequest, "Invalid outgo request ID in URL path", err)
	}
	return id, nil
}

// ListMine godoc
// @Summary      My outgo requests
// @Tags         outgo
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]model.PopulatedOutgoRequest
// @Router       /outgo-request [get]
func (h *OutgoHandler) ListMine(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	requests, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		return serviceError(err, "Could not retrieve outgo requests")
	}
	common.WriteResource(w, "outgoRequests", requests)
	return nil
}

// Get godoc
// @Summary      One outgo request
// @Tags         outgo
// @Produce      json
// @Security     BearerAuth
// @Param        requestId path string true "Outgo request ID"
// @Success      200  {object}  map[string]model.PopulatedOutgoRequest
// @Failure      403  {object}  common.AppError "Student is not an applier"
// @Failure      404  {object}  common.AppError
// @Router       /outgo-request/{requestId} [get]
func (h *OutgoHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := outgoRequestID(r)
	if appErr != nil {
		return appErr
	}
	req, err := h.service.Get(r.Context(), identity, id)
	if err != nil {
		return serviceError(err, "Could not retrieve outgo request")
	}
	common.WriteResource(w, "outgoRequest", req)
	return nil
}

// Create godoc
// @Summary      Request to leave campus
// @Description  The caller must be an applier and the approver a teacher. The window must lie in the future.
// @Tags         outgo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.OutgoRequestPayload true "Outgo request"
// @Success      200  {object}  map[string]model.PopulatedOutgoRequest
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Approver or applier not found"
// @Router       /outgo-request [post]
func (h *OutgoHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	var payload model.OutgoRequestPayload
	if appErr := decodePayload(r, &payload); appErr != nil {
		return appErr
	}
	req, err := h.service.Create(r.Context(), identity, payload)
	if err != nil {
		return serviceError(err, "Could not create outgo request")
	}
	common.WriteResource(w, "outgoRequest", req)
	return nil
}

func (h *OutgoHandler) Edit(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := outgoRequestID(r)
	if appErr != nil {
		return appErr
	}
	var payload model.OutgoRequestPayload
	if appErr := decodePayload(r, &payload); appErr != nil {
		return appErr
	}
	req, err := h.service.Edit(r.Context(), identity, id, payload)
	if err != nil {
		return serviceError(err, "Could not edit outgo request")
	}
	common.WriteResource(w, "outgoRequest", req)
	return nil
}

// Decide godoc
// @Summary      Approve or deny an outgo request
// @Tags         outgo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        requestId path string true "Outgo request ID"
// @Param        decision body model.OutgoDecisionRequest true "approved or denied"
// @Success      200  {object}  map[string]model.PopulatedOutgoRequest
// @Failure      403  {object}  common.AppError "Caller is not the approver"
// @Failure      409  {object}  common.AppError "Already decided"
// @Router       /outgo-request/{requestId}/status [patch]
func (h *OutgoHandler) Decide(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := outgoRequestID(r)
	if appErr != nil {
		return appErr
	}
	var req model.OutgoDecisionRequest
	if appErr := decodePayload(r, &req); appErr != nil {
		return appErr
	}
	decided, err := h.service.Decide(r.Context(), identity, id, req.Status)
	if err != nil {
		return serviceError(err, "Could not decide outgo request")
	}
	common.WriteResource(w, "outgoRequest", decided)
	return nil
}
