package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory fakes for the repository and mailer interfaces. They behave like
// the DB-backed implementations: lookups return copies, misses return
// (nil, nil).

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[uuid.UUID]entity.User
	failStamp  bool
	failDelete map[uuid.UUID]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[uuid.UUID]entity.User),
		failDelete: make(map[uuid.UUID]bool),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.User
	for _, u := range f.users {
		copied := u
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeUserRepo) FindInactiveSince(ctx context.Context, cutoff time.Time) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.User
	for _, u := range f.users {
		if u.LastConnection.Before(cutoff) {
			copied := u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateLastConnection(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStamp {
		return fmt.Errorf("write failed")
	}
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	u.LastConnection = at
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	u.Role = role
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	u.ResetToken = &token
	u.ResetExpiresAt = &expiresAt
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetExpiresAt = nil
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[id] {
		return fmt.Errorf("delete failed")
	}
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *fakeUserRepo) get(id uuid.UUID) (entity.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	return u, ok
}

type fakeCartRepo struct {
	mu      sync.Mutex
	created []uuid.UUID
	deleted []uuid.UUID
}

func (f *fakeCartRepo) Create(ctx context.Context, cart *entity.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, cart.ID)
	return nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeDocumentRepo struct {
	names map[uuid.UUID][]string
}

func (f *fakeDocumentRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error) {
	var docs []*entity.Document
	for _, name := range f.names[userID] {
		docs = append(docs, &entity.Document{UserID: userID, Name: name})
	}
	return docs, nil
}

func (f *fakeDocumentRepo) NamesByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f.names[userID], nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]entity.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.Token.String()] = *session
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil || !s.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil {
		return fmt.Errorf("session not found or already revoked")
	}
	now := time.Now()
	s.RevokedAt = &now
	f.sessions[token] = s
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for token, s := range f.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			f.sessions[token] = s
		}
	}
	return nil
}

type resetEmail struct {
	To    string
	Token string
}

type fakeMailer struct {
	mu      sync.Mutex
	resets  []resetEmail
	notices []string
	failFor map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: make(map[string]bool)}
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, to, firstName, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[to] {
		return fmt.Errorf("smtp unavailable")
	}
	f.resets = append(f.resets, resetEmail{To: to, Token: token})
	return nil
}

func (f *fakeMailer) SendInactivityNotice(ctx context.Context, to, firstName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[to] {
		return fmt.Errorf("smtp unavailable")
	}
	f.notices = append(f.notices, to)
	return nil
}

func (f *fakeMailer) lastResetToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.resets) == 0 {
		return ""
	}
	return f.resets[len(f.resets)-1].Token
}

type testEnv struct {
	users    *fakeUserRepo
	carts    *fakeCartRepo
	docs     *fakeDocumentRepo
	sessions *fakeSessionRepo
	mail     *fakeMailer
	repo     *repository.Repository
	config   *utils.Config
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	carts := &fakeCartRepo{}
	docs := &fakeDocumentRepo{names: make(map[uuid.UUID][]string)}
	sessions := newFakeSessionRepo()

	return &testEnv{
		users:    users,
		carts:    carts,
		docs:     docs,
		sessions: sessions,
		mail:     newFakeMailer(),
		repo: &repository.Repository{
			User:     users,
			Cart:     carts,
			Document: docs,
			Session:  sessions,
		},
		config: &utils.Config{
			Session:   utils.SessionConfig{ExpiryHours: 24},
			Reset:     utils.ResetConfig{ExpiryMinutes: 60},
			Retention: utils.RetentionConfig{InactiveDays: 2},
		},
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
