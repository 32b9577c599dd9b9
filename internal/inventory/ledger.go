package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/event"
)

//go:generate mockgen -source=ledger.go -destination=repository_mock.go -package=inventory
type Repository interface {
	// AdjustStock applies delta in one conditional statement and fails with
	// ErrInsufficientStock instead of letting stock drop below zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*catalog.Product, error)
}

// Ledger is the only sanctioned path for changing a product's stock.
type Ledger struct {
	repo   Repository
	events event.Publisher
}

func NewLedger(repo Repository, events event.Publisher) *Ledger {
	return &Ledger{repo: repo, events: events}
}

func (l *Ledger) AdjustStock(ctx context.Context, productID uuid.UUID, quantity int, dir Direction) (*catalog.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	if !dir.Valid() {
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, dir)
	}

	delta := quantity
	if dir == DirectionSubtract {
		delta = -quantity
	}

	p, err := l.repo.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}

	slog.Info("Stock adjusted", "product_id", p.ID, "direction", dir, "quantity", quantity, "stock", p.Stock)

	if p.IsLowStock() {
		event.PublishBestEffort(ctx, l.events, LowStockEvent(p))
	}

	return p, nil
}

func LowStockEvent(p *catalog.Product) event.Event {
	return event.New(event.TypeStockLow, p.ID.String(), StockLowPayload{
		ProductID: p.ID.String(),
		Name:      p.Name,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		Unit:      p.Unit,
	})
}
