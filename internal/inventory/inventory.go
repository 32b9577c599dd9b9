package inventory

import (
	"errors"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
)

type Direction string

const (
	DirectionAdd      Direction = "add"
	DirectionSubtract Direction = "subtract"
)

func (d Direction) Valid() bool {
	return d == DirectionAdd || d == DirectionSubtract
}

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = catalog.ErrInvalidInput
)

// StockLowPayload is published when an adjustment leaves a product at or
// below its alert threshold.
type StockLowPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
	Unit      string `json:"unit"`
}
