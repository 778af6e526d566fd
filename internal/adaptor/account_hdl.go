package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"account-service/internal/apperr"
	"account-service/internal/usecase"
	"account-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AccountHandler struct {
	service usecase.AccountService
	log     *zap.Logger
}

func NewAccountHandler(service usecase.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		log:     log,
	}
}

// GetProfile handles GET /api/users/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// AdminView handles GET /api/users/admin. The admin middleware already
// rejected non-admin callers with 403.
func (h *AccountHandler) AdminView(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "Admin dashboard", nil)
}

// ListUsers handles GET /api/users (admin only)
func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list users")
		return
	}

	utils.ResponsePayload(w, users)
}

// TogglePremium handles PUT /api/users/premium/{uid}
func (h *AccountHandler) TogglePremium(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		utils.ResponseBadRequest(w, "User ID is required", nil)
		return
	}

	updated, err := h.service.TogglePremium(r.Context(), uid)
	if err != nil {
		h.handleServiceError(w, err, "toggle premium")
		return
	}

	// The contract returns the updated record itself, not the envelope.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}

// PruneInactive handles DELETE /api/users/inactive (admin only)
func (h *AccountHandler) PruneInactive(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.PruneInactive(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "prune inactive users")
		return
	}

	utils.ResponseSuccess(w, "Inactive users removed successfully", report)
}

// handleServiceError maps application errors for account operations
func (h *AccountHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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

	case apperr.CodeDocumentsMissing:
		h.log.Warn(operation+" failed - missing documents", zap.Error(err))
		utils.ResponseBadRequest(w, appErr.Message, appErr.Details)

	case apperr.CodeForbidden:
		h.log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, appErr.Message)

	default:
		h.log.Error("Failed to "+operation,
			zap.String("code", string(appErr.Code)),
			zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
