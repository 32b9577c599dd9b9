package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/http/guard"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
	"github.com/Kesavaawalakbari/konek/internal/report"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

type Handler struct {
	svc     *transaction.Service
	reports *report.Service
	now     func() time.Time
}

func NewHandler(svc *transaction.Service, reports *report.Service) *Handler {
	return &Handler{svc: svc, reports: reports, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/validate", h.validate)
	r.Get("/", h.list)
	r.Get("/summary/daily", h.dailySummary)
	r.Get("/summary/monthly", h.monthlySummary)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireRole(auth.RoleOwner))
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type itemRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal  `json:"price"`
	Subtotal  *decimal.Decimal `json:"subtotal"`
}

type createTransactionRequest struct {
	StoreID       *uuid.UUID                `json:"store_id"`
	CustomerName  string                    `json:"customer_name" validate:"max=200"`
	CustomerPhone string                    `json:"customer_phone" validate:"max=20"`
	PaymentMethod string                    `json:"payment_method" validate:"max=50"`
	PaymentStatus transaction.PaymentStatus `json:"payment_status" validate:"omitempty,oneof=pending paid failed"`
	Notes         string                    `json:"notes" validate:"max=1000"`
	Discount      decimal.Decimal           `json:"discount"`
	Tax           decimal.Decimal           `json:"tax"`
	TotalAmount   *decimal.Decimal          `json:"total_amount"`
	FinalAmount   *decimal.Decimal          `json:"final_amount"`
	Items         []itemRequest             `json:"items" validate:"required,min=1,dive"`
}

func (req createTransactionRequest) params(r *http.Request) transaction.CreateParams {
	items := make([]transaction.ItemParams, len(req.Items))
	for i, it := range req.Items {
		items[i] = transaction.ItemParams{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal,
		}
	}

	var createdBy string
	if c, ok := auth.FromContext(r.Context()); ok {
		createdBy = c.UserID
	}

	return transaction.CreateParams{
		StoreID:       req.StoreID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
		CreatedBy:     createdBy,
		Discount:      req.Discount,
		Tax:           req.Tax,
		TotalAmount:   req.TotalAmount,
		FinalAmount:   req.FinalAmount,
		Items:         items,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Create(r.Context(), req.params(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, "TransactionCreated", toResponse(tx))
}

// validate runs every checkout check without writing anything.
func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Validate(r.Context(), req.params(r)); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "OK", nil)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := h.reports.Location()

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

	storeID, err := respond.UUID(r, "store_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	start, err := respond.Date(r, "start_date", loc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	end, err := respond.Date(r, "end_date", loc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	// end_date is inclusive for callers; the store filters on [start, end).
	if end != nil {
		end = new(end.AddDate(0, 0, 1))
	}

	filter := transaction.ListFilter{
		Page:      database.Page{Page: page, Limit: limit},
		Search:    q.Get("search"),
		StoreID:   storeID,
		Status:    transaction.Status(q.Get("status")),
		StartDate: start,
		EndDate:   end,
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if s := q.Get("payment_status"); s != "" {
		filter.PaymentStatus = new(transaction.PaymentStatus(s))
	}

	txs, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Page(w, r, "TransactionsFetched", toResponseList(txs), respond.NewPagination(filter.Page, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "TransactionsFetched", toResponse(tx))
}

type updateTransactionRequest struct {
	CustomerName  *string                    `json:"customer_name,omitempty" validate:"omitempty,max=200"`
	CustomerPhone *string                    `json:"customer_phone,omitempty" validate:"omitempty,max=20"`
	PaymentMethod *string                    `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	PaymentStatus *transaction.PaymentStatus `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed"`
	Notes         *string                    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Update(r.Context(), id, transaction.UpdateParams{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "TransactionUpdated", toResponse(tx))
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

	respond.JSON(w, r, http.StatusOK, "TransactionDeleted", nil)
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	date, err := respond.Date(r, "date", h.reports.Location())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if date == nil {
		date = new(h.now())
	}

	summary, err := h.reports.DailySummary(r.Context(), *date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "DailySummaryFetched", summary)
}

func (h *Handler) monthlySummary(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.reports.Location())

	year, err := respond.Int(r, "year", now.Year())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	month, err := respond.Int(r, "month", int(now.Month()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	summary, err := h.reports.MonthlySummary(r.Context(), year, month)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "MonthlySummaryFetched", summary)
}
