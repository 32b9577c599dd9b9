package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	catalogstore "github.com/Kesavaawalakbari/konek/internal/catalog/store"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*catalog.Product, error) {
	return AdjustStock(ctx, s.db, id, delta)
}

const adjustStock = `
	UPDATE products
	SET stock = stock + $2, updated_at = NOW()
	WHERE id = $1 AND deleted_at IS NULL AND stock + $2 >= 0
	RETURNING ` + catalogstore.ProductColumns

// AdjustStock runs the guarded stock update through q, which is either the
// pool or an open checkout transaction. The guard is evaluated against the
// row at write time, so concurrent callers can never drive stock negative.
func AdjustStock(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, delta int) (*catalog.Product, error) {
	var p catalog.Product

	err := sqlx.GetContext(ctx, q, &p, adjustStock, id, delta)
	if err == nil {
		return &p, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, database.Classify("adjusting stock", err)
	}

	// No row matched: either the product is gone or the guard failed.
	if _, err := catalogstore.GetProduct(ctx, q, id); err != nil {
		return nil, err
	}

	return nil, inventory.ErrInsufficientStock
}
