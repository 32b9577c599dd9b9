package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/export"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report

type Repository interface {
	QueryTransactions(ctx context.Context, filter transaction.QueryFilter) ([]*transaction.Transaction, error)
	ListLowStock(ctx context.Context) ([]*catalog.Product, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
}

const (
	dailyTopProducts   = 5
	monthlyTopProducts = 10

	DefaultBestSellers = 10
	MaxBestSellers     = 100
)

// Service aggregates sales. Calendar boundaries are computed in loc, the
// business time zone, and every window is half-open.
type Service struct {
	repo Repository
	loc  *time.Location
}

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, loc: loc}
}

// Location returns the business time zone used for calendar boundaries.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) dayWindow(date time.Time) (time.Time, time.Time) {
	y, m, d := date.In(s.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)

	return from, from.AddDate(0, 0, 1)
}

func (s *Service) monthWindow(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}

	if year < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid year %d", ErrInvalidInput, year)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)

	return from, from.AddDate(0, 1, 0), nil
}

func (s *Service) query(ctx context.Context, from, to time.Time) ([]*transaction.Transaction, error) {
	txs, err := s.repo.QueryTransactions(ctx, transaction.QueryFilter{
		From:   from,
		To:     to,
		Status: transaction.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}

	return txs, nil
}

// DailySummary rolls up active transactions created on date's calendar day.
func (s *Service) DailySummary(ctx context.Context, date time.Time) (Summary, error) {
	from, to := s.dayWindow(date)

	txs, err := s.query(ctx, from, to)
	if err != nil {
		return Summary{}, err
	}

	return Summarize(txs), nil
}

// MonthlySummary rolls up active transactions of the given month, with a
// per-day breakdown.
func (s *Service) MonthlySummary(ctx context.Context, year, month int) (MonthSummary, error) {
	from, to, err := s.monthWindow(year, month)
	if err != nil {
		return MonthSummary{}, err
	}

	txs, err := s.query(ctx, from, to)
	if err != nil {
		return MonthSummary{}, err
	}

	return SummarizeMonth(txs, s.loc), nil
}

func (s *Service) DailyReport(ctx context.Context, date time.Time) (*DailyReport, error) {
	from, to := s.dayWindow(date)

	summary, err := s.DailySummary(ctx, date)
	if err != nil {
		return nil, err
	}

	low, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing low stock: %w", err)
	}

	top, err := s.repo.TopProducts(ctx, from, to, dailyTopProducts)
	if err != nil {
		return nil, fmt.Errorf("ranking products: %w", err)
	}

	return &DailyReport{
		Date:             from.Format(time.DateOnly),
		Transactions:     summary,
		LowStockAlerts:   len(low),
		LowStockProducts: lowStockItems(low, LowStockPreview),
		TopProducts:      nonNil(top),
	}, nil
}

func (s *Service) MonthlyReport(ctx context.Context, year, month int) (*MonthlyReport, error) {
	from, to, err := s.monthWindow(year, month)
	if err != nil {
		return nil, err
	}

	summary, err := s.MonthlySummary(ctx, year, month)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.TopProducts(ctx, from, to, monthlyTopProducts)
	if err != nil {
		return nil, fmt.Errorf("ranking products: %w", err)
	}

	return &MonthlyReport{
		Year:         year,
		Month:        month,
		MonthName:    MonthName(time.Month(month)),
		Transactions: summary,
		TopProducts:  nonNil(top),
	}, nil
}

// BestSellers ranks products by units sold across all active transactions.
// limit is clamped to [1, MaxBestSellers]; zero means DefaultBestSellers.
func (s *Service) BestSellers(ctx context.Context, limit int) ([]ProductSales, error) {
	switch {
	case limit <= 0:
		limit = DefaultBestSellers
	case limit > MaxBestSellers:
		limit = MaxBestSellers
	}

	top, err := s.repo.TopProducts(ctx, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC), limit)
	if err != nil {
		return nil, fmt.Errorf("ranking products: %w", err)
	}

	return nonNil(top), nil
}

// Dashboard combines today's report with the month to date, both relative to now.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	local := now.In(s.loc)

	today, err := s.DailyReport(ctx, local)
	if err != nil {
		return nil, err
	}

	month, err := s.MonthlyReport(ctx, local.Year(), int(local.Month()))
	if err != nil {
		return nil, err
	}

	return &Dashboard{Today: *today, ThisMonth: *month}, nil
}

// ExportDaily writes the day's summary and transactions as CSV.
func (s *Service) ExportDaily(ctx context.Context, date time.Time, w io.Writer) error {
	from, to := s.dayWindow(date)

	txs, err := s.query(ctx, from, to)
	if err != nil {
		return err
	}

	if len(txs) == 0 {
		return ErrNoData
	}

	summary := Summarize(txs)

	slog.Info("Exporting daily report", "date", from.Format(time.DateOnly), "transactions", len(txs))

	return export.WriteCSV(w,
		summarySection("Ringkasan "+from.Format("02/01/2006"), summary),
		export.TransactionSection(txs, s.loc),
	)
}

// ExportMonthly writes the month's summary, daily breakdown and transactions as CSV.
func (s *Service) ExportMonthly(ctx context.Context, year, month int, w io.Writer) error {
	from, to, err := s.monthWindow(year, month)
	if err != nil {
		return err
	}

	txs, err := s.query(ctx, from, to)
	if err != nil {
		return err
	}

	if len(txs) == 0 {
		return ErrNoData
	}

	summary := SummarizeMonth(txs, s.loc)

	slog.Info("Exporting monthly report", "year", year, "month", month, "transactions", len(txs))

	title := fmt.Sprintf("Ringkasan %s %d", MonthName(time.Month(month)), year)

	return export.WriteCSV(w,
		summarySection(title, summary.Summary),
		breakdownSection(from, to, summary),
		export.TransactionSection(txs, s.loc),
	)
}

func summarySection(title string, s Summary) export.Section {
	return export.Section{
		Title:  title,
		Header: []string{"Metrik", "Nilai"},
		Rows: [][]string{
			{"Total Transaksi", export.Number(s.TotalTransactions)},
			{"Total Pendapatan", export.Rupiah(s.TotalAmount)},
			{"Transaksi Lunas", export.Number(s.PaidTransactions)},
			{"Transaksi Pending", export.Number(s.PendingTransactions)},
		},
	}
}

// breakdownSection lists only days that had sales, in calendar order.
func breakdownSection(from, to time.Time, s MonthSummary) export.Section {
	var rows [][]string

	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		total, ok := s.DailyBreakdown[d.Day()]
		if !ok {
			continue
		}

		rows = append(rows, []string{
			d.Format("02/01/2006"),
			strconv.Itoa(total.Count),
			export.Rupiah(total.Amount),
		})
	}

	return export.Section{
		Title:  "Breakdown Harian",
		Header: []string{"Tanggal", "Jumlah Transaksi", "Total Pendapatan"},
		Rows:   rows,
	}
}

func nonNil(ps []ProductSales) []ProductSales {
	if ps == nil {
		return []ProductSales{}
	}

	return ps
}
