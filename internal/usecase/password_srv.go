package usecase

import (
	"context"
	"time"

	"account-service/internal/apperr"
	"account-service/internal/data/repository"
	"account-service/pkg/mailer"
	"account-service/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Reset-flow messages are the one place where failures stay distinguishable
// to the caller.
const (
	msgResetUserNotFound = "user not found"
	msgResetTokenInvalid = "the reset code is invalid"
	msgResetTokenExpired = "the reset code has expired"
	msgPasswordReused    = "the new password must differ from the previous one"
)

type PasswordService interface {
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, email, password, token string) error
}

type passwordService struct {
	repo   *repository.Repository
	mail   mailer.Mailer
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewPasswordService(repo *repository.Repository, mail mailer.Mailer, config *utils.Config, log *zap.Logger) PasswordService {
	return &passwordService{
		repo:   repo,
		mail:   mail,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

func (s *passwordService) RequestReset(ctx context.Context, email string) error {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for reset", zap.Error(err), zap.String("email", email))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to find user")
	}
	if user == nil {
		return apperr.New(apperr.CodeUserNotFound, msgResetUserNotFound)
	}

	expiryMinutes := s.config.Reset.ExpiryMinutes
	if expiryMinutes <= 0 {
		expiryMinutes = 60
	}

	token := utils.GenerateResetToken()
	expiresAt := s.now().Add(time.Duration(expiryMinutes) * time.Minute)

	if err := s.repo.User.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		s.log.Error("Failed to store reset token",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to store reset token")
	}

	if err := s.mail.SendPasswordReset(ctx, user.Email, user.FirstName, token); err != nil {
		s.log.Error("Failed to send reset email",
			zap.Error(err), zap.String("email", user.Email))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to send reset email")
	}

	s.log.Info("Password reset requested",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", expiresAt))

	return nil
}

// ConfirmReset validates in order: account exists, token matches, token not
// expired, new password differs from the stored one. The first failing check
// short-circuits with its own message.
func (s *passwordService) ConfirmReset(ctx context.Context, email, password, token string) error {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for reset confirm",
			zap.Error(err), zap.String("email", email))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to find user")
	}
	if user == nil {
		return apperr.New(apperr.CodeUserNotFound, msgResetUserNotFound)
	}

	if !user.HasResetToken() || *user.ResetToken != token {
		return apperr.New(apperr.CodeTokenInvalid, msgResetTokenInvalid)
	}

	if s.now().After(*user.ResetExpiresAt) {
		return apperr.New(apperr.CodeTokenExpired, msgResetTokenExpired)
	}

	// Hash comparison, never plaintext: reusing the current password is
	// detected by verifying the candidate against the stored hash.
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
		return apperr.New(apperr.CodePasswordReused, msgPasswordReused)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to process password")
	}

	// UpdatePassword clears the token columns in the same statement, making
	// the token single-use.
	if err := s.repo.User.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		s.log.Error("Failed to update password",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to update password")
	}

	s.log.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}
