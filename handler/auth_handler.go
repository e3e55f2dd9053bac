package handler

import (
	"net/http"
	"school-api/common"
	"school-api/model"
	"school-api/service"
)

type AuthHandler struct {
	service *service.AuthService
	tokens  *service.TokenService
}

func NewAuthHandler(service *service.AuthService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges a username and password for an access token and a refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Credentials"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return serviceError(err, "Could not log in")
	}
	refresh, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not start session", err)
	}

	common.WriteJSON(w, http.StatusOK, LoginResponse{AccessToken: token, RefreshToken: refresh, User: user})
	return nil
}

// Refresh godoc
// @Summary      Refresh an access token
// @Description  Consumes a refresh token and returns a new access token with a new refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token body model.RefreshRequest true "Refresh token"
// @Success      200  {object}  RefreshResponse
// @Failure      401  {object}  common.AppError
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	access, refresh, err := h.tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		return serviceError(err, "Could not refresh token")
	}

	common.WriteJSON(w, http.StatusOK, RefreshResponse{AccessToken: access, RefreshToken: refresh})
	return nil
}

// Logout ends all of the caller's sessions. Access tokens already issued stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, appErr := identityOf(r)
	if appErr != nil {
		return appErr
	}
	if err := h.tokens.Revoke(r.Context(), identity.ID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
	return nil
}
