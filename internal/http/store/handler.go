package store

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/http/guard"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireRole(auth.RoleOwner))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type storeResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category,omitempty"`
	Address    string     `json:"address,omitempty"`
	City       string     `json:"city,omitempty"`
	Province   string     `json:"province,omitempty"`
	PostalCode string     `json:"postal_code,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	OwnerName  string     `json:"owner_name,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func toResponse(s *catalog.Store) storeResponse {
	return storeResponse{
		ID:         s.ID,
		Name:       s.Name,
		Category:   s.Category,
		Address:    s.Address,
		City:       s.City,
		Province:   s.Province,
		PostalCode: s.PostalCode,
		Phone:      s.Phone,
		Email:      s.Email,
		OwnerName:  s.OwnerName,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// fail reports a missing store as such rather than as a missing product.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		respond.Fail(w, r, http.StatusNotFound, "StoreNotFound")
		return
	}

	respond.Error(w, r, err)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := respond.Int(r, "page", 1)
	if err != nil {
		fail(w, r, err)
		return
	}

	limit, err := respond.Int(r, "limit", 10)
	if err != nil {
		fail(w, r, err)
		return
	}

	filter := catalog.StoreFilter{
		Page:      database.Page{Page: page, Limit: limit},
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		City:      q.Get("city"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	stores, total, err := h.svc.ListStores(r.Context(), filter)
	if err != nil {
		fail(w, r, err)
		return
	}

	resp := make([]storeResponse, len(stores))
	for i, s := range stores {
		resp[i] = toResponse(s)
	}

	respond.Page(w, r, "StoresFetched", resp, respond.NewPagination(filter.Page, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	s, err := h.svc.GetStore(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "StoresFetched", toResponse(s))
}

type storeRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=200"`
	Category   string `json:"category" validate:"max=100"`
	Address    string `json:"address" validate:"max=500"`
	City       string `json:"city" validate:"max=100"`
	Province   string `json:"province" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,numeric,len=5"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Email      string `json:"email" validate:"omitempty,email"`
	OwnerName  string `json:"owner_name" validate:"max=200"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := respond.Decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	s, err := h.svc.CreateStore(r.Context(), catalog.StoreParams{
		Name:       req.Name,
		Category:   req.Category,
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		Email:      req.Email,
		OwnerName:  req.OwnerName,
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, "StoreCreated", toResponse(s))
}

type updateStoreRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=200"`
	Category   *string `json:"category" validate:"omitempty,max=100"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	Province   *string `json:"province" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,numeric,len=5"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Email      *string `json:"email" validate:"omitempty,email"`
	OwnerName  *string `json:"owner_name" validate:"omitempty,max=200"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	var req updateStoreRequest
	if err := respond.Decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	s, err := h.svc.UpdateStore(r.Context(), id, catalog.UpdateStoreParams{
		Name:       req.Name,
		Category:   req.Category,
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		Email:      req.Email,
		OwnerName:  req.OwnerName,
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "StoreUpdated", toResponse(s))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.svc.DeleteStore(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "StoreDeleted", nil)
}
