package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/employee"
	"github.com/Kesavaawalakbari/konek/internal/i18n"
	"github.com/Kesavaawalakbari/konek/internal/importer/product"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
	"github.com/Kesavaawalakbari/konek/internal/report"
	"github.com/Kesavaawalakbari/konek/internal/supplier"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination describes the window page selected out of total rows.
func NewPagination(page database.Page, total int) *Pagination {
	page.Offset()

	return &Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: (total + page.Limit - 1) / page.Limit,
	}
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// JSON writes a successful response whose message is the translation of msgID.
func JSON(w http.ResponseWriter, r *http.Request, status int, msgID string, data any) {
	write(w, status, Envelope{
		Success: true,
		Message: i18n.FromContext(r.Context()).T(msgID),
		Data:    data,
	})
}

// Message is JSON with template data for the message.
func Message(w http.ResponseWriter, r *http.Request, status int, msgID string, msgData map[string]any, data any) {
	write(w, status, Envelope{
		Success: true,
		Message: i18n.FromContext(r.Context()).T(msgID, msgData),
		Data:    data,
	})
}

func Page(w http.ResponseWriter, r *http.Request, msgID string, data any, p *Pagination) {
	write(w, http.StatusOK, Envelope{
		Success:    true,
		Message:    i18n.FromContext(r.Context()).T(msgID),
		Data:       data,
		Pagination: p,
	})
}

// Fail writes an error response with a translated message and optional details.
func Fail(w http.ResponseWriter, r *http.Request, status int, msgID string, details ...string) {
	write(w, status, Envelope{
		Success: false,
		Message: i18n.FromContext(r.Context()).T(msgID),
		Errors:  details,
	})
}

// Error maps err onto a status code and message. Unexpected errors are
// logged and reported without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		applyErr *transaction.ApplyError
		lineErr  *transaction.LineError
		rowErrs  product.RowErrors
		valErrs  validator.ValidationErrors
	)

	switch {
	case errors.As(err, &applyErr) && applyErr.NeedsReconciliation():
		slog.Error("Checkout outcome unknown", "step", applyErr.Step, "error", err)
		Fail(w, r, http.StatusInternalServerError, "TransactionReconcile")
	case errors.As(err, &valErrs):
		Fail(w, r, http.StatusBadRequest, "ValidationFailed", fieldErrors(valErrs)...)
	case errors.As(err, &rowErrs):
		details := make([]string, len(rowErrs))
		for i, re := range rowErrs {
			details[i] = re.Error()
		}

		Fail(w, r, http.StatusBadRequest, "InvalidInput", details...)
	case errors.Is(err, inventory.ErrInsufficientStock):
		Fail(w, r, http.StatusBadRequest, "InsufficientStock", err.Error())
	case errors.Is(err, transaction.ErrInvalidStore):
		Fail(w, r, http.StatusBadRequest, "InvalidStore")
	case errors.Is(err, transaction.ErrProductNotFound):
		Fail(w, r, http.StatusBadRequest, "ProductNotFound", err.Error())
	case errors.As(err, &lineErr), errors.Is(err, catalog.ErrInvalidInput), errors.Is(err, product.ErrNoHeader),
		errors.Is(err, supplier.ErrInvalidInput), errors.Is(err, employee.ErrInvalidInput):
		Fail(w, r, http.StatusBadRequest, "InvalidInput", err.Error())
	case errors.Is(err, transaction.ErrNotFound):
		Fail(w, r, http.StatusNotFound, "TransactionNotFound")
	case errors.Is(err, catalog.ErrNotFound):
		Fail(w, r, http.StatusNotFound, "ProductNotFound")
	case errors.Is(err, supplier.ErrNotFound):
		Fail(w, r, http.StatusNotFound, "SupplierNotFound")
	case errors.Is(err, employee.ErrNotFound):
		Fail(w, r, http.StatusNotFound, "EmployeeNotFound")
	case errors.Is(err, employee.ErrDuplicate):
		Fail(w, r, http.StatusBadRequest, "EmployeeExists")
	case errors.Is(err, report.ErrNoData):
		Fail(w, r, http.StatusNotFound, "NoDataToExport")
	case errors.Is(err, auth.ErrExpiredToken):
		Fail(w, r, http.StatusUnauthorized, "TokenExpired")
	case errors.Is(err, auth.ErrInvalidToken):
		Fail(w, r, http.StatusUnauthorized, "TokenInvalid")
	case errors.Is(err, auth.ErrMissingToken):
		Fail(w, r, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, auth.ErrForbidden):
		Fail(w, r, http.StatusForbidden, "Forbidden")
	case errors.Is(err, database.ErrTransient):
		slog.Warn("Transient storage failure", "path", r.URL.Path, "error", err)
		Fail(w, r, http.StatusServiceUnavailable, "ServiceUnavailable")
	default:
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Fail(w, r, http.StatusInternalServerError, "InternalError")
	}
}
