package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"account-service/internal/apperr"
	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/internal/dto/response"
	"account-service/pkg/mailer"
	"account-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AccountService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	ListUsers(ctx context.Context) ([]response.UserSummary, error)
	TogglePremium(ctx context.Context, userID string) (*response.UserResponse, error)
	PruneInactive(ctx context.Context) (*response.PruneReport, error)
}

type accountService struct {
	repo   *repository.Repository
	mail   mailer.Mailer
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAccountService(repo *repository.Repository, mail mailer.Mailer, config *utils.Config, log *zap.Logger) AccountService {
	return &accountService{
		repo:   repo,
		mail:   mail,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

func (s *accountService) Profile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to get profile")
	}
	if user == nil {
		return nil, apperr.New(apperr.CodeUserNotFound, "user not found")
	}

	return toUserResponse(user), nil
}

// ListUsers returns the admin projection of every account. An empty result
// is a valid listing, not an error.
func (s *accountService) ListUsers(ctx context.Context) ([]response.UserSummary, error) {
	users, err := s.repo.User.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err))
		return nil, apperr.Wrap(err, apperr.CodeListFailed, "failed to list users")
	}

	summaries := make([]response.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = response.UserSummary{
			FirstName:      user.FirstName,
			LastName:       user.LastName,
			Email:          user.Email,
			Role:           string(user.Role),
			LastConnection: user.LastConnection,
		}
	}

	s.log.Info("Users listed", zap.Int("count", len(summaries)))
	return summaries, nil
}

func (s *accountService) TogglePremium(ctx context.Context, userID string) (*response.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.New(apperr.CodeUserNotFound, "user not found")
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find user for role toggle",
			zap.Error(err), zap.String("user_id", userID))
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to find user")
	}
	if user == nil {
		return nil, apperr.New(apperr.CodeUserNotFound, "user not found")
	}

	// The admin role is never part of the toggle.
	if user.Role == entity.RoleAdmin {
		return nil, apperr.New(apperr.CodeForbidden, "admin role cannot be changed")
	}

	names, err := s.repo.Document.NamesByUser(ctx, id)
	if err != nil {
		s.log.Error("Failed to load user documents",
			zap.Error(err), zap.String("user_id", userID))
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to load documents")
	}

	required := entity.RequiredDocuments()
	uploaded := make(map[string]bool, len(names))
	for _, name := range names {
		uploaded[name] = true
	}

	var missing []string
	for _, name := range required {
		if !uploaded[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		msg := fmt.Sprintf("the user must upload the following documents: %s",
			strings.Join(required, ", "))
		return nil, apperr.New(apperr.CodeDocumentsMissing, msg).WithDetails(map[string]any{
			"required": required,
			"missing":  missing,
		})
	}

	newRole := entity.RolePremium
	if user.Role == entity.RolePremium {
		newRole = entity.RoleRegular
	}

	if err := s.repo.User.UpdateRole(ctx, id, newRole); err != nil {
		s.log.Error("Failed to update role",
			zap.Error(err), zap.String("user_id", userID))
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to update role")
	}

	user.Role = newRole

	s.log.Info("User role toggled",
		zap.String("user_id", userID),
		zap.String("role", string(newRole)))

	return toUserResponse(user), nil
}

// PruneInactive removes accounts whose last connection is strictly older
// than the retention window, notifying each by email first. All per-user
// operations run concurrently, are awaited, and failures are aggregated.
func (s *accountService) PruneInactive(ctx context.Context) (*response.PruneReport, error) {
	days := s.config.Retention.InactiveDays
	if days <= 0 {
		days = 2
	}
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)

	inactive, err := s.repo.User.FindInactiveSince(ctx, cutoff)
	if err != nil {
		s.log.Error("Failed to select inactive users", zap.Error(err))
		return nil, apperr.Wrap(err, apperr.CodePruneFailed, "failed to select inactive users")
	}

	report := &response.PruneReport{Selected: len(inactive)}
	if len(inactive) == 0 {
		return report, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, user := range inactive {
		g.Go(func() error {
			// Notification failure does not block removal; it is recorded
			// and the sweep continues.
			if err := s.mail.SendInactivityNotice(gctx, user.Email, user.FirstName); err != nil {
				s.log.Warn("Failed to send inactivity notice",
					zap.Error(err), zap.String("email", user.Email))
				mu.Lock()
				report.Errors = append(report.Errors,
					fmt.Sprintf("notify %s: %v", user.Email, err))
				mu.Unlock()
			}

			if err := s.repo.User.Delete(gctx, user.ID); err != nil {
				mu.Lock()
				report.Failed++
				report.Errors = append(report.Errors,
					fmt.Sprintf("delete %s: %v", user.Email, err))
				mu.Unlock()
				return nil
			}

			mu.Lock()
			report.Removed++
			mu.Unlock()
			return nil
		})
	}

	// Goroutines record their own failures, so Wait only observes context
	// cancellation.
	if err := g.Wait(); err != nil {
		return report, apperr.Wrap(err, apperr.CodePruneFailed, "prune interrupted")
	}

	s.log.Info("Inactive users pruned",
		zap.Int("selected", report.Selected),
		zap.Int("removed", report.Removed),
		zap.Int("failed", report.Failed),
		zap.Time("cutoff", cutoff))

	if report.Failed > 0 {
		return report, apperr.New(apperr.CodePruneFailed,
			fmt.Sprintf("failed to remove %d of %d inactive users", report.Failed, report.Selected)).
			WithDetails(report)
	}

	return report, nil
}

func toUserResponse(user *entity.User) *response.UserResponse {
	return &response.UserResponse{
		ID:             user.ID.String(),
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		Age:            user.Age,
		Role:           string(user.Role),
		CartID:         user.CartID,
		LastConnection: user.LastConnection,
	}
}
