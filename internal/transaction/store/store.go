package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/database"
	inventorystore "github.com/Kesavaawalakbari/konek/internal/inventory/store"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const selectTransactionColumns = `
	t.id, t.transaction_number, t.store_id, COALESCE(t.customer_name, '') AS customer_name,
	COALESCE(t.customer_phone, '') AS customer_phone, t.total_amount, t.discount, t.tax,
	t.final_amount, COALESCE(t.payment_method, '') AS payment_method, t.payment_status,
	t.status, COALESCE(t.notes, '') AS notes, COALESCE(t.created_by, '') AS created_by,
	t.created_at, t.updated_at
`

const selectItemColumns = `
	ti.id, ti.transaction_id, ti.product_id, COALESCE(p.name, '') AS product_name,
	ti.quantity, ti.price, ti.subtotal, ti.created_at
`

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.status <> 'deleted'`

	if err := s.db.GetContext(ctx, &tx, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, database.Classify("getting transaction", err)
	}

	if err := s.attachItems(ctx, []*transaction.Transaction{&tx}); err != nil {
		return nil, err
	}

	return &tx, nil
}

var transactionSorts = map[string]string{
	"created_at":         "t.created_at",
	"final_amount":       "t.final_amount",
	"transaction_number": "t.transaction_number",
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	conditions := []string{"t.status = :status"}
	args := map[string]any{"status": filter.Status}

	if filter.Search != "" {
		conditions = append(conditions, "(t.transaction_number ILIKE :search OR t.customer_name ILIKE :search)")
		args["search"] = "%" + filter.Search + "%"
	}

	if filter.StoreID != nil {
		conditions = append(conditions, "t.store_id = :store_id")
		args["store_id"] = *filter.StoreID
	}

	if filter.PaymentStatus != nil {
		conditions = append(conditions, "t.payment_status = :payment_status")
		args["payment_status"] = *filter.PaymentStatus
	}

	if filter.StartDate != nil {
		conditions = append(conditions, "t.created_at >= :start_date")
		args["start_date"] = *filter.StartDate
	}

	if filter.EndDate != nil {
		conditions = append(conditions, "t.created_at < :end_date")
		args["end_date"] = *filter.EndDate
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	total, err := database.NamedCount(ctx, s.db, "SELECT count(*) FROM transactions t"+where, args)
	if err != nil {
		return nil, 0, database.Classify("counting transactions", err)
	}

	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t` + where +
		database.OrderBy(transactionSorts, filter.SortBy, filter.SortOrder, "t.created_at") + filter.Page.Clause()

	var txs []*transaction.Transaction
	if err := database.NamedSelect(ctx, s.db, &txs, query, args); err != nil {
		return nil, 0, database.Classify("listing transactions", err)
	}

	if err := s.attachItems(ctx, txs); err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// QueryTransactions returns headers only; the aggregator never needs items.
func (s *Store) QueryTransactions(ctx context.Context, filter transaction.QueryFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.created_at >= $1 AND t.created_at < $2 AND t.status = $3
		ORDER BY t.created_at ASC`

	var txs []*transaction.Transaction
	if err := s.db.SelectContext(ctx, &txs, query, filter.From, filter.To, filter.Status); err != nil {
		return nil, database.Classify("querying transactions", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET customer_name = :customer_name, customer_phone = :customer_phone, payment_method = :payment_method,
			payment_status = :payment_status, notes = :notes, updated_at = NOW()
		WHERE id = :id AND status <> 'deleted'
		RETURNING updated_at
	`

	if err := database.NamedReturning(ctx, s.db, query, tx, &tx.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return database.Classify("updating transaction", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET status = 'deleted', updated_at = NOW()
		WHERE id = $1 AND status <> 'deleted'
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return database.Classify("deleting transaction", err)
	}

	return database.ExpectOne(res, transaction.ErrNotFound)
}

func (s *Store) attachItems(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(txs))
	byID := make(map[uuid.UUID]*transaction.Transaction, len(txs))

	for i, tx := range txs {
		ids[i] = tx.ID
		byID[tx.ID] = tx
	}

	query, args, err := sqlx.In(`SELECT `+selectItemColumns+`
		FROM transaction_items ti
		LEFT JOIN products p ON p.id = ti.product_id
		WHERE ti.transaction_id IN (?)
		ORDER BY ti.created_at ASC, ti.id ASC`, ids)
	if err != nil {
		return err
	}

	var items []transaction.Item
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return database.Classify("loading transaction items", err)
	}

	for _, it := range items {
		if tx, ok := byID[it.TransactionID]; ok {
			tx.Items = append(tx.Items, it)
		}
	}

	return nil
}

type checkoutTx struct {
	tx *sqlx.Tx
}

func (s *Store) BeginCheckout(ctx context.Context) (transaction.CheckoutTx, error) {
	dbTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, database.Classify("beginning checkout", err)
	}

	return &checkoutTx{tx: dbTx}, nil
}

func (c *checkoutTx) Commit() error   { return c.tx.Commit() }
func (c *checkoutTx) Rollback() error { return c.tx.Rollback() }

func (c *checkoutTx) InsertTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			transaction_number, store_id, customer_name, customer_phone, total_amount, discount, tax,
			final_amount, payment_method, payment_status, status, notes, created_by, created_at, updated_at
		)
		VALUES (
			:transaction_number, :store_id, :customer_name, :customer_phone, :total_amount, :discount, :tax,
			:final_amount, :payment_method, :payment_status, :status, :notes, :created_by, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	if err := database.NamedReturning(ctx, c.tx, query, tx, &tx.ID, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return database.Classify("inserting transaction", err)
	}

	return nil
}

func (c *checkoutTx) InsertItems(ctx context.Context, txID uuid.UUID, items []transaction.Item) error {
	query := `
		INSERT INTO transaction_items (transaction_id, product_id, quantity, price, subtotal, created_at)
		VALUES (:transaction_id, :product_id, :quantity, :price, :subtotal, NOW())
		RETURNING id, created_at
	`

	stmt, err := c.tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return database.Classify("preparing item insert", err)
	}
	defer stmt.Close()

	for i := range items {
		items[i].TransactionID = txID
		if err := stmt.QueryRowxContext(ctx, &items[i]).Scan(&items[i].ID, &items[i].CreatedAt); err != nil {
			return database.Classify("inserting transaction item", err)
		}
	}

	return nil
}

func (c *checkoutTx) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (*catalog.Product, error) {
	return inventorystore.AdjustStock(ctx, c.tx, productID, -quantity)
}
