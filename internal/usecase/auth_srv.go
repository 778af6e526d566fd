package usecase

import (
	"context"
	"time"

	"account-service/internal/apperr"
	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/internal/dto/request"
	"account-service/internal/dto/response"
	"account-service/pkg/oauth"
	"account-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	LoginWithIdentity(ctx context.Context, identity *oauth.Identity) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// errInvalidUser is returned for an unknown email and for a wrong password
// alike, so the two cases are indistinguishable to the caller.
func errInvalidUser() *apperr.Error {
	return apperr.New(apperr.CodeInvalidUser, "invalid user")
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return apperr.New(apperr.CodeValidationFailed, utils.FormatValidationErrors(errs)).WithDetails(errs)
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to check email")
	}
	if existing != nil {
		return apperr.New(apperr.CodeRegisterFailed, "registration failed").WithDetails(map[string]any{
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"email":      req.Email,
			"age":        req.Age,
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to process password")
	}

	now := s.now()

	cart := &entity.Cart{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
	}
	if err := s.repo.Cart.Create(ctx, cart); err != nil {
		s.log.Error("Failed to create cart", zap.Error(err), zap.String("email", req.Email))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to create account")
	}

	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PasswordHash:   string(hashedPassword),
		Age:            req.Age,
		Role:           entity.RoleRegular,
		CartID:         cart.ID.String(),
		LastConnection: now,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		// Compensate so the cart does not outlive the failed registration.
		if delErr := s.repo.Cart.Delete(ctx, cart.ID); delErr != nil {
			s.log.Warn("Failed to clean up orphan cart",
				zap.Error(delErr), zap.String("cart_id", cart.ID.String()))
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to create account")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, apperr.New(apperr.CodeValidationFailed, utils.FormatValidationErrors(errs)).WithDetails(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", req.Email))
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to find user")
	}

	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, errInvalidUser()
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, errInvalidUser()
	}

	return s.establishSession(ctx, user)
}

// LoginWithIdentity completes an OAuth callback: the provider already proved
// ownership of the email, so only the account lookup remains.
func (s *authService) LoginWithIdentity(ctx context.Context, identity *oauth.Identity) (*response.AuthResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, identity.Email)
	if err != nil {
		s.log.Error("Failed to find user for identity",
			zap.Error(err), zap.String("email", identity.Email))
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to find user")
	}

	if user == nil {
		s.log.Warn("No account for provider identity", zap.String("email", identity.Email))
		return nil, apperr.New(apperr.CodeUserNotFound, "user not found")
	}

	return s.establishSession(ctx, user)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	session, err := s.repo.Session.FindValidSession(ctx, token)
	if err != nil {
		s.log.Error("Failed to look up session for logout", zap.Error(err))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to logout")
	}

	// No live session: nothing to persist, logout is a no-op.
	if session == nil {
		return nil
	}

	// The timestamp must be persisted before the session goes away; a write
	// failure aborts the logout.
	if err := s.repo.User.UpdateLastConnection(ctx, session.UserID, s.now()); err != nil {
		s.log.Error("Failed to persist last connection on logout",
			zap.Error(err), zap.String("user_id", session.UserID.String()))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to persist last connection")
	}

	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return apperr.Wrap(err, apperr.CodeInternal, "failed to logout")
	}

	s.log.Info("User logged out", zap.String("user_id", session.UserID.String()))
	return nil
}

// establishSession stamps the last connection and creates a session row.
func (s *authService) establishSession(ctx context.Context, user *entity.User) (*response.AuthResponse, error) {
	now := s.now()

	if err := s.repo.User.UpdateLastConnection(ctx, user.ID, now); err != nil {
		s.log.Error("Failed to update last connection",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to update last connection")
	}

	expiry := time.Duration(s.config.Session.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     user.ID,
		Token:      utils.GenerateSessionToken(),
		ExpiresAt:  now.Add(expiry),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to create session")
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &response.AuthResponse{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      string(user.Role),
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

