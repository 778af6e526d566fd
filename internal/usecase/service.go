package usecase

import (
	"account-service/internal/data/repository"
	"account-service/pkg/mailer"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Account  AccountService
	Password PasswordService
}

func NewService(repo *repository.Repository, mail mailer.Mailer, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, log),
		Account:  NewAccountService(repo, mail, config, log),
		Password: NewPasswordService(repo, mail, config, log),
	}
}
