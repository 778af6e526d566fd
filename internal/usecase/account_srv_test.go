package usecase

import (
	"context"
	"testing"
	"time"

	"account-service/internal/apperr"
	"account-service/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, env *testEnv, email string, role entity.UserRole, lastConnection time.Time) uuid.UUID {
	t.Helper()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: lastConnection,
			UpdatedAt: lastConnection,
		},
		FirstName:      "Test",
		LastName:       "User",
		Email:          email,
		PasswordHash:   "$2a$10$abcdefghijklmnopqrstuv",
		Age:            40,
		Role:           role,
		CartID:         uuid.NewString(),
		LastConnection: lastConnection,
	}
	require.NoError(t, env.users.Create(context.Background(), user))
	return user.ID
}

func TestProfileReturnsUser(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())
	id := seedUser(t, env, "ada@example.com", entity.RoleRegular, time.Now())

	profile, err := svc.Profile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, string(entity.RoleRegular), profile.Role)
}

func TestProfileUnknownUser(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())

	_, err := svc.Profile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUserNotFound, apperr.CodeOf(err))
}

func TestListUsersProjectsSummaryFields(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, env, "ada@example.com", entity.RoleRegular, at)
	seedUser(t, env, "root@example.com", entity.RoleAdmin, at)

	summaries, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	for _, s := range summaries {
		assert.NotEmpty(t, s.Email)
		assert.NotEmpty(t, s.Role)
		assert.True(t, s.LastConnection.Equal(at))
	}
}

func TestListUsersEmptyStoreIsValid(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())

	summaries, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NotNil(t, summaries)
}

func TestTogglePremiumRequiresAllDocuments(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())
	id := seedUser(t, env, "ada@example.com", entity.RoleRegular, time.Now())

	// Two of the three required documents is not enough.
	env.docs.names[id] = []string{entity.DocIdentification, entity.DocProofOfAddress}

	_, err := svc.TogglePremium(context.Background(), id.String())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDocumentsMissing, apperr.CodeOf(err))
	assert.ErrorContains(t, err, entity.DocProofOfAccount)

	user, _ := env.users.get(id)
	assert.Equal(t, entity.RoleRegular, user.Role, "a rejected toggle must not change the role")
}

func TestTogglePremiumAcceptsDocumentSuperset(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())
	id := seedUser(t, env, "ada@example.com", entity.RoleRegular, time.Now())

	env.docs.names[id] = append(entity.RequiredDocuments(), "Utility bill", "Selfie")

	updated, err := svc.TogglePremium(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, string(entity.RolePremium), updated.Role)
}

func TestTogglePremiumIsAnInvolution(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())
	id := seedUser(t, env, "ada@example.com", entity.RoleRegular, time.Now())
	env.docs.names[id] = entity.RequiredDocuments()

	first, err := svc.TogglePremium(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, string(entity.RolePremium), first.Role)

	second, err := svc.TogglePremium(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleRegular), second.Role)
}

func TestTogglePremiumNeverTouchesAdmin(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())
	id := seedUser(t, env, "root@example.com", entity.RoleAdmin, time.Now())
	env.docs.names[id] = entity.RequiredDocuments()

	_, err := svc.TogglePremium(context.Background(), id.String())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	user, _ := env.users.get(id)
	assert.Equal(t, entity.RoleAdmin, user.Role)
}

func TestTogglePremiumMalformedID(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())

	_, err := svc.TogglePremium(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUserNotFound, apperr.CodeOf(err))
}

func TestPruneInactiveRespectsCutoffBoundary(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())

	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	svc.(*accountService).now = func() time.Time { return now }

	// Exactly at the 48-hour mark: kept. One second beyond: pruned.
	boundaryID := seedUser(t, env, "boundary@example.com", entity.RoleRegular, now.Add(-48*time.Hour))
	staleID := seedUser(t, env, "stale@example.com", entity.RoleRegular, now.Add(-48*time.Hour-time.Second))
	freshID := seedUser(t, env, "fresh@example.com", entity.RoleRegular, now.Add(-time.Hour))

	report, err := svc.PruneInactive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Selected)
	assert.Equal(t, 1, report.Removed)
	assert.Equal(t, 0, report.Failed)

	_, boundaryKept := env.users.get(boundaryID)
	_, staleKept := env.users.get(staleID)
	_, freshKept := env.users.get(freshID)
	assert.True(t, boundaryKept)
	assert.False(t, staleKept)
	assert.True(t, freshKept)

	assert.Equal(t, []string{"stale@example.com"}, env.mail.notices)
}

func TestPruneInactiveEmptySelection(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())
	seedUser(t, env, "fresh@example.com", entity.RoleRegular, time.Now())

	report, err := svc.PruneInactive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Selected)
	assert.Equal(t, 0, report.Removed)
}

func TestPruneInactiveNotificationFailureDoesNotBlockRemoval(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())

	now := time.Now()
	svc.(*accountService).now = func() time.Time { return now }
	staleID := seedUser(t, env, "stale@example.com", entity.RoleRegular, now.Add(-72*time.Hour))
	env.mail.failFor["stale@example.com"] = true

	report, err := svc.PruneInactive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Removed)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "notify stale@example.com")

	_, kept := env.users.get(staleID)
	assert.False(t, kept)
}

func TestPruneInactiveAggregatesDeleteFailures(t *testing.T) {
	env := newTestEnv()
	svc := NewAccountService(env.repo, env.mail, env.config, testLogger())

	now := time.Now()
	svc.(*accountService).now = func() time.Time { return now }
	stuckID := seedUser(t, env, "stuck@example.com", entity.RoleRegular, now.Add(-72*time.Hour))
	goneID := seedUser(t, env, "gone@example.com", entity.RoleRegular, now.Add(-72*time.Hour))
	env.users.failDelete[stuckID] = true

	report, err := svc.PruneInactive(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.CodePruneFailed, apperr.CodeOf(err))
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Selected)
	assert.Equal(t, 1, report.Removed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "delete stuck@example.com")

	_, stuckKept := env.users.get(stuckID)
	_, goneKept := env.users.get(goneID)
	assert.True(t, stuckKept, "a failed delete leaves the account in place")
	assert.False(t, goneKept)
}
