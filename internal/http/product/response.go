package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
)

type productResponse struct {
	ID          uuid.UUID       `json:"id"`
	UMKMID      *uuid.UUID      `json:"umkm_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	SKU         string          `json:"sku,omitempty"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		UMKMID:      p.UMKMID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		SKU:         p.SKU,
		Unit:        p.Unit,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.IsLowStock(),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toResponseList(ps []*catalog.Product) []productResponse {
	resp := make([]productResponse, len(ps))
	for i, p := range ps {
		resp[i] = toResponse(p)
	}

	return resp
}
