package employee

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/employee"
	"github.com/Kesavaawalakbari/konek/internal/http/guard"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
)

type Handler struct {
	svc *employee.Service
}

func NewHandler(svc *employee.Service) *Handler {
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

type employeeResponse struct {
	ID        uuid.UUID        `json:"id"`
	UserID    *uuid.UUID       `json:"user_id,omitempty"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Position  string           `json:"position"`
	Address   string           `json:"address,omitempty"`
	JoinDate  string           `json:"join_date"`
	Salary    *decimal.Decimal `json:"salary,omitempty"`
	Status    employee.Status  `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Position:  e.Position,
		Address:   e.Address,
		JoinDate:  e.JoinDate.Format(time.DateOnly),
		Salary:    e.Salary,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
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

	filter := employee.Filter{
		Page:      database.Page{Page: page, Limit: limit},
		Search:    q.Get("search"),
		Position:  q.Get("position"),
		Status:    employee.Status(q.Get("status")),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	employees, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]employeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = toResponse(e)
	}

	respond.Page(w, r, "EmployeesFetched", resp, respond.NewPagination(filter.Page, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "EmployeesFetched", toResponse(e))
}

type employeeRequest struct {
	UserID   *uuid.UUID       `json:"user_id"`
	Name     string           `json:"name" validate:"required,min=2,max=100"`
	Email    string           `json:"email" validate:"required,email"`
	Phone    string           `json:"phone" validate:"required,max=20,phone"`
	Position string           `json:"position" validate:"required,max=100"`
	Address  string           `json:"address" validate:"max=500"`
	JoinDate string           `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
	Salary   *decimal.Decimal `json:"salary"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	joinDate, err := parseDate(req.JoinDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	e, err := h.svc.Create(r.Context(), employee.Params{
		UserID:    req.UserID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Position:  req.Position,
		Address:   req.Address,
		JoinDate:  joinDate,
		Salary:    req.Salary,
		CreatedBy: respond.Caller(r),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, "EmployeeCreated", toResponse(e))
}

type updateEmployeeRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string          `json:"email" validate:"omitempty,email"`
	Phone    *string          `json:"phone" validate:"omitempty,max=20,phone"`
	Position *string          `json:"position" validate:"omitempty,max=100"`
	Address  *string          `json:"address" validate:"omitempty,max=500"`
	JoinDate string           `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
	Salary   *decimal.Decimal `json:"salary"`
	Status   *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateEmployeeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	joinDate, err := parseDate(req.JoinDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	params := employee.UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Position: req.Position,
		Address:  req.Address,
		JoinDate: joinDate,
		Salary:   req.Salary,
	}

	if req.Status != nil {
		params.Status = new(employee.Status(*req.Status))
	}

	e, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "EmployeeUpdated", toResponse(e))
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

	respond.JSON(w, r, http.StatusOK, "EmployeeDeleted", nil)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: join_date must be YYYY-MM-DD", employee.ErrInvalidInput)
	}

	return &t, nil
}
