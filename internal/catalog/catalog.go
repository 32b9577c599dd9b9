package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultUnit     = "pcs"
	DefaultMinStock = 10
)

// Product is a sellable catalog item with its on-hand stock.
// Stock is only ever changed through the inventory ledger.
type Product struct {
	ID          uuid.UUID       `db:"id"`
	UMKMID      *uuid.UUID      `db:"umkm_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	SKU         string          `db:"sku"`
	Unit        string          `db:"unit"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	MinStock    int             `db:"min_stock"`
	IsActive    bool            `db:"is_active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   *time.Time      `db:"updated_at"`
	DeletedAt   *time.Time      `db:"deleted_at"`
}

// IsLowStock reports whether the product has reached its alert threshold.
func (p *Product) IsLowStock() bool {
	return p.IsActive && p.Stock <= p.MinStock
}

// Store is a physical outlet that transactions can be attributed to.
type Store struct {
	ID         uuid.UUID  `db:"id"`
	Name       string     `db:"name"`
	Category   string     `db:"category"`
	Address    string     `db:"address"`
	City       string     `db:"city"`
	Province   string     `db:"province"`
	PostalCode string     `db:"postal_code"`
	Phone      string     `db:"phone"`
	Email      string     `db:"email"`
	OwnerName  string     `db:"owner_name"`
	IsActive   bool       `db:"is_active"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}
