package repository

import (
	"context"
	"fmt"

	"account-service/internal/data/entity"
	"account-service/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error)
	NamesByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type documentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDocumentRepository(db database.PgxIface, log *zap.Logger) DocumentRepository {
	return &documentRepository{
		db:  db,
		log: log.With(zap.String("repository", "document")),
	}
}

func (r *documentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error) {
	query := `
		SELECT id, user_id, name, reference, created_at
		FROM user_documents
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find user documents",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find documents for %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var doc entity.Document
		err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Name,
			&doc.Reference,
			&doc.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan document row", zap.Error(err))
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return docs, nil
}

// NamesByUser returns just the uploaded document names, which is all the
// premium-upgrade gate needs.
func (r *documentRepository) NamesByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	docs, err := r.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}

	return names, nil
}
