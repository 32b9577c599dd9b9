package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus tracks settlement of a transaction. There is no payment
// gateway; owners move it from pending to paid or failed by hand.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}

	return false
}

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Transaction is a completed checkout with its line items.
type Transaction struct {
	ID            uuid.UUID       `db:"id"`
	Number        string          `db:"transaction_number"`
	StoreID       *uuid.UUID      `db:"store_id"`
	CustomerName  string          `db:"customer_name"`
	CustomerPhone string          `db:"customer_phone"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Discount      decimal.Decimal `db:"discount"`
	Tax           decimal.Decimal `db:"tax"`
	FinalAmount   decimal.Decimal `db:"final_amount"`
	PaymentMethod string          `db:"payment_method"`
	PaymentStatus PaymentStatus   `db:"payment_status"`
	Status        Status          `db:"status"`
	Notes         string          `db:"notes"`
	CreatedBy     string          `db:"created_by"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     *time.Time      `db:"updated_at"`
	Items         []Item          `db:"-"`
}

// Item is one order line. Price is the unit price at the time of sale as
// supplied by the cashier, not the current catalog price.
type Item struct {
	ID            uuid.UUID       `db:"id"`
	TransactionID uuid.UUID       `db:"transaction_id"`
	ProductID     uuid.UUID       `db:"product_id"`
	ProductName   string          `db:"product_name"`
	Quantity      int             `db:"quantity"`
	Price         decimal.Decimal `db:"price"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	CreatedAt     time.Time       `db:"created_at"`
}
