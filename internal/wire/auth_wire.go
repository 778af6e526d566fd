package wire

import (
	"account-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, log *zap.Logger) {
	// Public routes. Logout stays public so a caller without a live session
	// is still redirected to the login view.
	r.Post("/api/users/register", authHandler.Register)
	r.Post("/api/users/login", authHandler.Login)
	r.Post("/api/users/logout", authHandler.Logout)

	// OAuth delegation
	r.Get("/api/users/github", authHandler.GitHubLogin)
	r.Get("/api/users/github/callback", authHandler.GitHubCallback)
}
