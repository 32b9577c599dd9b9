package supplier

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/http/guard"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
	"github.com/Kesavaawalakbari/konek/internal/supplier"
)

type Handler struct {
	svc *supplier.Service
}

func NewHandler(svc *supplier.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Use(guard.RequireRole(auth.RoleOwner))

	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type supplierResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	ContactPerson string     `json:"contact_person,omitempty"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email,omitempty"`
	Address       string     `json:"address"`
	City          string     `json:"city,omitempty"`
	Province      string     `json:"province,omitempty"`
	PostalCode    string     `json:"postal_code,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func toResponse(s *supplier.Supplier) supplierResponse {
	return supplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		City:          s.City,
		Province:      s.Province,
		PostalCode:    s.PostalCode,
		Notes:         s.Notes,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
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

	filter := supplier.Filter{
		Page:      database.Page{Page: page, Limit: limit},
		Search:    q.Get("search"),
		City:      q.Get("city"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := q.Get("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			respond.Fail(w, r, http.StatusBadRequest, "InvalidInput", "is_active must be true or false")
			return
		}

		filter.IsActive = &active
	}

	suppliers, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]supplierResponse, len(suppliers))
	for i, s := range suppliers {
		resp[i] = toResponse(s)
	}

	respond.Page(w, r, "SuppliersFetched", resp, respond.NewPagination(filter.Page, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "SuppliersFetched", toResponse(s))
}

type supplierRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
	Phone         string `json:"phone" validate:"required,max=20,phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address" validate:"required,max=500"`
	City          string `json:"city" validate:"max=100"`
	Province      string `json:"province" validate:"max=100"`
	PostalCode    string `json:"postal_code" validate:"omitempty,numeric,len=5"`
	Notes         string `json:"notes" validate:"max=1000"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	s, err := h.svc.Create(r.Context(), supplier.Params{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		City:          req.City,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
		Notes:         req.Notes,
		CreatedBy:     respond.Caller(r),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, "SupplierCreated", toResponse(s))
}

type updateSupplierRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=200"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=200"`
	Phone         *string `json:"phone" validate:"omitempty,max=20,phone"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	Province      *string `json:"province" validate:"omitempty,max=100"`
	PostalCode    *string `json:"postal_code" validate:"omitempty,numeric,len=5"`
	Notes         *string `json:"notes" validate:"omitempty,max=1000"`
	IsActive      *bool   `json:"is_active"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateSupplierRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	s, err := h.svc.Update(r.Context(), id, supplier.UpdateParams{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		City:          req.City,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
		Notes:         req.Notes,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "SupplierUpdated", toResponse(s))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "SupplierDeleted", nil)
}
