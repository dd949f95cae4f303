package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"catalog-backend/application/services"
	"catalog-backend/pkg/auth"
	"catalog-backend/pkg/common"
	apperrors "catalog-backend/pkg/errors"
)

// AuthHandler serves the account endpoints backed by the identity provider.
type AuthHandler struct {
	service *services.AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(service *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	userID, err := h.service.Register(r.Context(), req)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"userId": userID})
}

// Confirm handles POST /auth/confirm.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req services.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	if err := h.service.Confirm(r.Context(), req); err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "account confirmed"})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	creds, err := h.service.Login(r.Context(), req)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, creds)
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req services.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req); err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "reset code sent"})
}

// ConfirmForgotPassword handles POST /auth/confirm-forgot-password.
func (h *AuthHandler) ConfirmForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req services.ConfirmForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	if err := h.service.ConfirmForgotPassword(r.Context(), req); err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// AddToGroup handles POST /auth/add-to-group. Privileged callers only; this
// is how ADMIN and SUPER_ADMIN roles get assigned.
func (h *AuthHandler) AddToGroup(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}
	if !actor.Privileged() {
		common.RespondError(w, apperrors.NewForbiddenError("not authorized to manage groups"))
		return
	}

	var req services.AddToGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	if err := h.service.AddToGroup(r.Context(), req); err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("user added to group",
		zap.String("email", req.Email),
		zap.String("group", req.Group),
		zap.String("actor", actor.Username),
	)
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "user added to group"})
}
