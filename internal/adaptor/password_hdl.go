package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"account-service/internal/apperr"
	"account-service/internal/dto/request"
	"account-service/internal/usecase"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

type PasswordHandler struct {
	service usecase.PasswordService
	log     *zap.Logger
}

func NewPasswordHandler(service usecase.PasswordService, log *zap.Logger) *PasswordHandler {
	return &PasswordHandler{
		service: service,
		log:     log,
	}
}

// RequestReset handles POST /api/users/password-reset
func (h *PasswordHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.RequestReset(r.Context(), req.Email); err != nil {
		h.handleServiceError(w, err, "request password reset")
		return
	}

	http.Redirect(w, r, "/password-reset/sent", http.StatusSeeOther)
}

// ConfirmReset handles POST /api/users/password-reset/confirm
func (h *PasswordHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetConfirmRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.ConfirmReset(r.Context(), req.Email, req.Password, req.Token); err != nil {
		// Every expected rejection re-renders the form with its message,
		// including an unknown account.
		if apperr.CodeOf(err) == apperr.CodeUserNotFound {
			var appErr *apperr.Error
			errors.As(err, &appErr)
			h.log.Warn("confirm password reset rejected", zap.Error(err))
			utils.ResponseBadRequest(w, appErr.Message, appErr)
			return
		}
		h.handleServiceError(w, err, "confirm password reset")
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleServiceError keeps the reset-flow failures distinguishable: not
// found, invalid token, expired token and reused password each carry their
// own message back to the form.
func (h *PasswordHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch appErr.Code {
	case apperr.CodeUserNotFound:
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, appErr.Message)

	case apperr.CodeTokenInvalid, apperr.CodeTokenExpired, apperr.CodePasswordReused:
		h.log.Warn(operation+" rejected",
			zap.String("code", string(appErr.Code)),
			zap.Error(err))
		utils.ResponseBadRequest(w, appErr.Message, appErr)

	default:
		h.log.Error("Failed to "+operation,
			zap.String("code", string(appErr.Code)),
			zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
