package repository

import (
	"context"
	"fmt"

	"account-service/internal/data/entity"
	"account-service/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	query := `INSERT INTO carts (id, created_at) VALUES ($1, $2)`

	_, err := r.db.Exec(ctx, query, cart.ID, cart.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create cart",
			zap.Error(err),
			zap.String("cart_id", cart.ID.String()),
		)
		return fmt.Errorf("create cart %s: %w", cart.ID.String(), err)
	}

	return nil
}

// Delete removes a cart. Used to compensate when user creation fails
// after its cart was already persisted.
func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM carts WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete cart",
			zap.Error(err),
			zap.String("cart_id", id.String()),
		)
		return fmt.Errorf("delete cart %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cart %s not found", id.String())
	}

	return nil
}
