package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/http/guard"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
	"github.com/Kesavaawalakbari/konek/internal/report"
)

type Handler struct {
	svc *report.Service
	now func() time.Time
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireRole(auth.RoleOwner))
		r.Get("/daily", h.daily)
		r.Get("/monthly", h.monthly)
		r.Get("/download/daily", h.downloadDaily)
		r.Get("/download/monthly", h.downloadMonthly)
	})
}

func (h *Handler) date(r *http.Request) (time.Time, error) {
	d, err := respond.Date(r, "date", h.svc.Location())
	if err != nil || d == nil {
		return h.now(), err
	}

	return *d, nil
}

func (h *Handler) yearMonth(r *http.Request) (int, int, error) {
	now := h.now().In(h.svc.Location())

	year, err := respond.Int(r, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}

	month, err := respond.Int(r, "month", int(now.Month()))
	if err != nil {
		return 0, 0, err
	}

	return year, month, nil
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context(), h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "DashboardFetched", d)
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	date, err := h.date(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rep, err := h.svc.DailyReport(r.Context(), date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "DailyReportFetched", rep)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.yearMonth(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rep, err := h.svc.MonthlyReport(r.Context(), year, month)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, "MonthlyReportFetched", rep)
}

func (h *Handler) downloadDaily(w http.ResponseWriter, r *http.Request) {
	date, err := h.date(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.ExportDaily(r.Context(), date, &buf); err != nil {
		respond.Error(w, r, err)
		return
	}

	sendCSV(w, report.DailyFilename(date, h.svc.Location()), &buf)
}

func (h *Handler) downloadMonthly(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.yearMonth(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.ExportMonthly(r.Context(), year, month, &buf); err != nil {
		respond.Error(w, r, err)
		return
	}

	sendCSV(w, report.MonthlyFilename(year, month), &buf)
}

// sendCSV streams a fully rendered export so a failure never leaves a
// half-written attachment behind.
func sendCSV(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "file", filename, "error", err)
	}
}
