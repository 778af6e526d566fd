package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"account-service/internal/apperr"
	"account-service/internal/dto/request"
	"account-service/internal/usecase"
	"account-service/pkg/oauth"
	"account-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionCookie    = "session_token"
	oauthStateCookie = "oauth_state"
)

type AuthHandler struct {
	service  usecase.AuthService
	strategy oauth.Strategy
	log      *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, strategy oauth.Strategy, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		strategy: strategy,
		log:      log,
	}
}

// Register handles POST /api/users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.Register(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "register")
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	auth, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	h.setSessionCookie(w, auth.Token, auth.ExpiresAt)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// Logout handles POST /api/users/logout. It works with or without a live
// session: an authenticated caller gets their last connection persisted
// first, everyone ends up redirected to the login view.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.extractToken(r); token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.handleServiceError(w, err, "logout")
			return
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GitHubLogin handles GET /api/users/github and starts the delegated flow.
func (h *AuthHandler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
	})

	http.Redirect(w, r, h.strategy.AuthURL(state), http.StatusFound)
}

// GitHubCallback handles GET /api/users/github/callback
func (h *AuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.log.Warn("OAuth provider returned error", zap.String("error", errParam))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.log.Warn("OAuth state mismatch")
		utils.ResponseBadRequest(w, "Invalid OAuth state", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.ResponseBadRequest(w, "Missing OAuth code", nil)
		return
	}

	identity, err := h.strategy.Authenticate(r.Context(), code)
	if err != nil {
		h.log.Error("OAuth authentication failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	auth, err := h.service.LoginWithIdentity(r.Context(), identity)
	if err != nil {
		// A provider identity without a matching account goes back to login.
		if apperr.CodeOf(err) == apperr.CodeUserNotFound {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.handleServiceError(w, err, "oauth callback")
		return
	}

	h.setSessionCookie(w, auth.Token, auth.ExpiresAt)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *AuthHandler) extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// handleServiceError maps application errors to responses. Outside the reset
// flow every business failure collapses into a generic 500, matching the
// register/login/logout contracts.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch appErr.Code {
	case apperr.CodeValidationFailed:
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, appErr.Message, appErr.Details)

	default:
		h.log.Warn("Failed to "+operation,
			zap.String("code", string(appErr.Code)),
			zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
