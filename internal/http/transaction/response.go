package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

type transactionResponse struct {
	ID                uuid.UUID                 `json:"id"`
	TransactionNumber string                    `json:"transaction_number"`
	StoreID           *uuid.UUID                `json:"store_id,omitempty"`
	CustomerName      string                    `json:"customer_name,omitempty"`
	CustomerPhone     string                    `json:"customer_phone,omitempty"`
	TotalAmount       decimal.Decimal           `json:"total_amount"`
	Discount          decimal.Decimal           `json:"discount"`
	Tax               decimal.Decimal           `json:"tax"`
	FinalAmount       decimal.Decimal           `json:"final_amount"`
	PaymentMethod     string                    `json:"payment_method,omitempty"`
	PaymentStatus     transaction.PaymentStatus `json:"payment_status"`
	Status            transaction.Status        `json:"status"`
	Notes             string                    `json:"notes,omitempty"`
	CreatedBy         string                    `json:"created_by,omitempty"`
	Items             []itemResponse            `json:"items"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         *time.Time                `json:"updated_at,omitempty"`
}

type itemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	items := make([]itemResponse, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = itemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal,
		}
	}

	return transactionResponse{
		ID:                tx.ID,
		TransactionNumber: tx.Number,
		StoreID:           tx.StoreID,
		CustomerName:      tx.CustomerName,
		CustomerPhone:     tx.CustomerPhone,
		TotalAmount:       tx.TotalAmount,
		Discount:          tx.Discount,
		Tax:               tx.Tax,
		FinalAmount:       tx.FinalAmount,
		PaymentMethod:     tx.PaymentMethod,
		PaymentStatus:     tx.PaymentStatus,
		Status:            tx.Status,
		Notes:             tx.Notes,
		CreatedBy:         tx.CreatedBy,
		Items:             items,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
