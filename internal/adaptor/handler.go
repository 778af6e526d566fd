package adaptor

import (
	"account-service/internal/usecase"
	"account-service/pkg/oauth"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Account  *AccountHandler
	Password *PasswordHandler
}

func NewHandler(service *usecase.Service, strategy oauth.Strategy, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, strategy, log),
		Account:  NewAccountHandler(service.Account, log),
		Password: NewPasswordHandler(service.Password, log),
	}
}
