package handler

import (
	"net/http"
	"school-api/common"
	"school-api/model"
	"school-api/service"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me godoc
// @Summary      Current user
// @Description  Returns the caller's identity as stored now.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]model.Identity
// @Failure      401  {object}  common.AppError
// @Router       /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	common.WriteResource(w, "user", identity)
	return nil
}

// CreateUser godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user body model.CreateUserRequest true "New account"
// @Success      200  {object}  map[string]model.User
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Username already taken"
// @Router       /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateUserRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		return serviceError(err, "Could not create user")
	}

	common.WriteResource(w, "user", user)
	return nil
}
