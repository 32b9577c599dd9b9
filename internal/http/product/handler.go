package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
	"github.com/Kesavaawalakbari/konek/internal/report"
)

type Handler struct {
	catalog *catalog.Service
	ledger  *inventory.Ledger
	reports *report.Service
}

func NewHandler(cat *catalog.Service, ledger *inventory.Ledger, reports *report.Service) *Handler {
	return &Handler{catalog: cat, ledger: ledger, reports: reports}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/low-stock", h.lowStock)
	r.Get("/best-sellers", h.bestSellers)
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/stock", h.adjustStock)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := respond.Int(r, "page", 1)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	limit, err := respond.Int(r, "limit", 10)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	umkmID, err := respond.UUID(r, "umkm_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter := catalog.ProductFilter{
		Page:      database.Page{Page: page, Limit: limit},
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		UMKMID:    umkmID,
		LowStock:  q.Get("low_stock") == "true",
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	products, total, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Page(w, r, "ProductsFetched", toResponseList(products),
		respond.NewPagination(filter.Page, total))
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.LowStock(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "LowStockFetched", toResponseList(products))
}

func (h *Handler) bestSellers(w http.ResponseWriter, r *http.Request) {
	limit, err := respond.Int(r, "limit", report.DefaultBestSellers)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	top, err := h.reports.BestSellers(r.Context(), limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "BestSellersFetched", top)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "ProductsFetched", toResponse(p))
}

type createProductRequest struct {
	UMKMID      *uuid.UUID      `json:"umkm_id"`
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Category    string          `json:"category" validate:"required"`
	SKU         string          `json:"sku" validate:"max=100"`
	Unit        string          `json:"unit" validate:"max=50"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	MinStock    *int            `json:"min_stock" validate:"omitempty,gte=0"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), catalog.ProductParams{
		UMKMID:      req.UMKMID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SKU:         req.SKU,
		Unit:        req.Unit,
		Price:       req.Price,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, "ProductCreated", toResponse(p))
}

type updateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Category    *string          `json:"category" validate:"omitempty,min=1"`
	SKU         *string          `json:"sku" validate:"omitempty,max=100"`
	Unit        *string          `json:"unit" validate:"omitempty,max=50"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,gte=0"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateProductRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), id, catalog.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SKU:         req.SKU,
		Unit:        req.Unit,
		Price:       req.Price,
		MinStock:    req.MinStock,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "ProductUpdated", toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "ProductDeleted", nil)
}

type adjustStockRequest struct {
	Quantity  int                 `json:"quantity" validate:"gt=0"`
	Operation inventory.Direction `json:"operation" validate:"required,oneof=add subtract"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req adjustStockRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.ledger.AdjustStock(r.Context(), id, req.Quantity, req.Operation)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "StockUpdated", toResponse(p))
}
