package wire

import (
	"account-service/internal/adaptor"
	"account-service/internal/data/repository"
	"account-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAccount configures profile and admin account-management routes
func wireAccount(
	r chi.Router,
	accountHandler *adaptor.AccountHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo.Session, repo.User, log)
	admin := middleware.Admin(log)

	// Profile - requires authentication
	r.With(auth).Get("/api/users/profile", accountHandler.GetProfile)

	// Admin account management - requires authentication AND admin role
	r.With(auth, admin).Get("/api/users", accountHandler.ListUsers)
	r.With(auth, admin).Get("/api/users/admin", accountHandler.AdminView)
	r.With(auth, admin).Put("/api/users/premium/{uid}", accountHandler.TogglePremium)
	r.With(auth, admin).Delete("/api/users/inactive", accountHandler.PruneInactive)
}
