package inventory_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/event"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
)

// memRepo applies the same guard as the SQL statement under a mutex.
type memRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemRepo(ps ...*catalog.Product) *memRepo {
	r := &memRepo{products: make(map[uuid.UUID]*catalog.Product)}
	for _, p := range ps {
		r.products[p.ID] = p
	}

	return r
}

func (r *memRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	if p.Stock+delta < 0 {
		return nil, inventory.ErrInsufficientStock
	}

	p.Stock += delta
	cp := *p

	return &cp, nil
}

func (r *memRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.products[id].Stock
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, events...)

	return nil
}

func product(stock, minStock int) *catalog.Product {
	return &catalog.Product{ID: uuid.New(), Name: "Gula Aren", Stock: stock, MinStock: minStock, IsActive: true}
}

func TestLedger_AdjustStock_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		dir      inventory.Direction
	}{
		{name: "ZeroQuantity", quantity: 0, dir: inventory.DirectionAdd},
		{name: "NegativeQuantity", quantity: -2, dir: inventory.DirectionSubtract},
		{name: "UnknownDirection", quantity: 1, dir: "sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No repository calls are expected.
			repo := inventory.NewMockRepository(ctrl)
			ledger := inventory.NewLedger(repo, event.Nop{})

			_, err := ledger.AdjustStock(context.Background(), uuid.New(), tt.quantity, tt.dir)
			assert.ErrorIs(t, err, inventory.ErrInvalidInput)
		})
	}
}

func TestLedger_AdjustStock_Delta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := inventory.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().AdjustStock(gomock.Any(), id, 4).Return(&catalog.Product{ID: id, Stock: 24, MinStock: 10, IsActive: true}, nil),
		repo.EXPECT().AdjustStock(gomock.Any(), id, -3).Return(&catalog.Product{ID: id, Stock: 21, MinStock: 10, IsActive: true}, nil),
	)

	ledger := inventory.NewLedger(repo, event.Nop{})

	p, err := ledger.AdjustStock(context.Background(), id, 4, inventory.DirectionAdd)
	require.NoError(t, err)
	assert.Equal(t, 24, p.Stock)

	p, err = ledger.AdjustStock(context.Background(), id, 3, inventory.DirectionSubtract)
	require.NoError(t, err)
	assert.Equal(t, 21, p.Stock)
}

func TestLedger_AdjustStock_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	repo.EXPECT().AdjustStock(gomock.Any(), gomock.Any(), -1).Return(nil, catalog.ErrNotFound)

	_, err := inventory.NewLedger(repo, event.Nop{}).AdjustStock(context.Background(), uuid.New(), 1, inventory.DirectionSubtract)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestLedger_SubtractWholeStock(t *testing.T) {
	p := product(5, 1)
	repo := newMemRepo(p)
	ledger := inventory.NewLedger(repo, event.Nop{})

	got, err := ledger.AdjustStock(context.Background(), p.ID, 5, inventory.DirectionSubtract)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, 0, repo.stock(p.ID))
}

func TestLedger_SubtractBeyondStock(t *testing.T) {
	p := product(5, 1)
	repo := newMemRepo(p)
	ledger := inventory.NewLedger(repo, event.Nop{})

	_, err := ledger.AdjustStock(context.Background(), p.ID, 6, inventory.DirectionSubtract)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 5, repo.stock(p.ID))
}

func TestLedger_StockNeverNegative(t *testing.T) {
	p := product(50, 0)
	repo := newMemRepo(p)
	ledger := inventory.NewLedger(repo, event.Nop{})
	rng := rand.New(rand.NewPCG(1, 2))

	for range 1000 {
		dir := inventory.DirectionSubtract
		if rng.IntN(3) == 0 {
			dir = inventory.DirectionAdd
		}

		_, err := ledger.AdjustStock(context.Background(), p.ID, rng.IntN(20)+1, dir)
		if err != nil {
			require.ErrorIs(t, err, inventory.ErrInsufficientStock)
		}

		require.GreaterOrEqual(t, repo.stock(p.ID), 0)
	}
}

func TestLedger_ConcurrentSubtracts(t *testing.T) {
	p := product(10, 0)
	repo := newMemRepo(p)
	ledger := inventory.NewLedger(repo, event.Nop{})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for range 25 {
		wg.Go(func() {
			if _, err := ledger.AdjustStock(context.Background(), p.ID, 1, inventory.DirectionSubtract); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, repo.stock(p.ID))
}

func TestLedger_PublishesLowStock(t *testing.T) {
	p := product(12, 10)
	pub := &recordingPublisher{}
	ledger := inventory.NewLedger(newMemRepo(p), pub)

	_, err := ledger.AdjustStock(context.Background(), p.ID, 1, inventory.DirectionSubtract)
	require.NoError(t, err)
	assert.Empty(t, pub.events)

	_, err = ledger.AdjustStock(context.Background(), p.ID, 1, inventory.DirectionSubtract)
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeStockLow, pub.events[0].Type)
	assert.Equal(t, p.ID.String(), pub.events[0].Key)
}
