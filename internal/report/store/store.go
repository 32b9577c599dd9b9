package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	catalogstore "github.com/Kesavaawalakbari/konek/internal/catalog/store"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/report"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
	transactionstore "github.com/Kesavaawalakbari/konek/internal/transaction/store"
)

// Store reads the transaction and product tables on behalf of the report
// service. Range and low stock queries are delegated to the owning stores.
type Store struct {
	db           *sqlx.DB
	transactions *transactionstore.Store
	products     *catalogstore.Store
}

func New(db *sqlx.DB) *Store {
	return &Store{
		db:           db,
		transactions: transactionstore.New(db),
		products:     catalogstore.New(db),
	}
}

func (s *Store) QueryTransactions(ctx context.Context, filter transaction.QueryFilter) ([]*transaction.Transaction, error) {
	return s.transactions.QueryTransactions(ctx, filter)
}

func (s *Store) ListLowStock(ctx context.Context) ([]*catalog.Product, error) {
	return s.products.ListLowStock(ctx)
}

// TopProducts ranks products by units sold in active transactions created in [from, to).
func (s *Store) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]report.ProductSales, error) {
	query := `
		SELECT ti.product_id::text AS product_id, COALESCE(p.name, '') AS name,
			SUM(ti.quantity) AS quantity, SUM(ti.subtotal) AS revenue
		FROM transaction_items ti
		JOIN transactions t ON t.id = ti.transaction_id
		LEFT JOIN products p ON p.id = ti.product_id
		WHERE t.status = 'active' AND t.created_at >= $1 AND t.created_at < $2
		GROUP BY ti.product_id, p.name
		ORDER BY quantity DESC, revenue DESC
		LIMIT $3
	`

	var sales []report.ProductSales
	if err := s.db.SelectContext(ctx, &sales, query, from, to, limit); err != nil {
		return nil, database.Classify("ranking products", err)
	}

	return sales, nil
}
