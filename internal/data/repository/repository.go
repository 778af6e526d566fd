package repository

import (
	"account-service/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Cart     CartRepository
	Document DocumentRepository
	Session  SessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Cart:     NewCartRepository(db, log),
		Document: NewDocumentRepository(db, log),
		Session:  NewSessionRepository(db, log),
	}
}
