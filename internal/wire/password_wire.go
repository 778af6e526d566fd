package wire

import (
	"account-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePassword(r chi.Router, passwordHandler *adaptor.PasswordHandler, log *zap.Logger) {
	r.Post("/api/users/password-reset", passwordHandler.RequestReset)
	r.Post("/api/users/password-reset/confirm", passwordHandler.ConfirmReset)
}
