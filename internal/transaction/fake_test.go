package transaction_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

// memStore is an in-memory Repository and Catalog. Stock decrements are
// applied immediately under a lock with the same guard as the SQL update and
// undone on rollback, which mirrors row locking inside a database
// transaction closely enough to exercise concurrent checkouts.
type memStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
	stores   map[uuid.UUID]*catalog.Store
	txs      map[uuid.UUID]*transaction.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[uuid.UUID]*catalog.Product),
		stores:   make(map[uuid.UUID]*catalog.Store),
		txs:      make(map[uuid.UUID]*transaction.Transaction),
	}
}

func (m *memStore) addProduct(name string, stock int) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.products[id] = &catalog.Product{ID: id, Name: name, Stock: stock, MinStock: 1, IsActive: true}

	return id
}

func (m *memStore) stock(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.products[id].Stock
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.txs)
}

func (m *memStore) GetStore(_ context.Context, id uuid.UUID) (*catalog.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.stores[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	cp := *st

	return &cp, nil
}

func (m *memStore) GetProduct(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	cp := *p

	return &cp, nil
}

func (m *memStore) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.txs[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	return tx, nil
}

func (m *memStore) ListTransactions(context.Context, transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (m *memStore) QueryTransactions(context.Context, transaction.QueryFilter) ([]*transaction.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (m *memStore) UpdateTransaction(context.Context, *transaction.Transaction) error {
	return errors.New("not implemented")
}

func (m *memStore) DeleteTransaction(context.Context, uuid.UUID) error {
	return errors.New("not implemented")
}

func (m *memStore) BeginCheckout(context.Context) (transaction.CheckoutTx, error) {
	return &memCheckout{store: m}, nil
}

type memCheckout struct {
	store    *memStore
	tx       *transaction.Transaction
	undo     []func()
	finished bool
}

func (c *memCheckout) InsertTransaction(_ context.Context, tx *transaction.Transaction) error {
	tx.ID = uuid.New()
	c.tx = tx

	return nil
}

func (c *memCheckout) InsertItems(_ context.Context, txID uuid.UUID, items []transaction.Item) error {
	for i := range items {
		items[i].ID = uuid.New()
		items[i].TransactionID = txID
	}

	return nil
}

func (c *memCheckout) DecrementStock(_ context.Context, productID uuid.UUID, quantity int) (*catalog.Product, error) {
	m := c.store
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	if p.Stock-quantity < 0 {
		return nil, transaction.ErrInsufficientStock
	}

	p.Stock -= quantity
	c.undo = append(c.undo, func() { p.Stock += quantity })

	cp := *p

	return &cp, nil
}

func (c *memCheckout) Commit() error {
	m := c.store
	m.mu.Lock()
	defer m.mu.Unlock()

	c.finished = true
	m.txs[c.tx.ID] = c.tx

	return nil
}

func (c *memCheckout) Rollback() error {
	if c.finished {
		return nil
	}

	m := c.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(c.undo) - 1; i >= 0; i-- {
		c.undo[i]()
	}

	c.finished = true

	return nil
}
