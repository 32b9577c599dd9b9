package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

var (
	ErrInvalidInput = catalog.ErrInvalidInput
	ErrNoData       = errors.New("no transactions in range")
)

// LowStockPreview is how many low stock products a report lists inline.
const LowStockPreview = 5

type DayTotal struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is a rollup over active transactions in a window.
type Summary struct {
	TotalTransactions   int             `json:"totalTransactions"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	PaidTransactions    int             `json:"paidTransactions"`
	PendingTransactions int             `json:"pendingTransactions"`
}

// MonthSummary adds a per-day breakdown to a monthly Summary. The breakdown
// is sparse: days without sales are absent, and a month without sales has
// an empty map.
type MonthSummary struct {
	Summary

	DailyBreakdown map[int]DayTotal `json:"dailyBreakdown"`
}

// Summarize folds txs into a Summary.
func Summarize(txs []*transaction.Transaction) Summary {
	s := Summary{TotalAmount: decimal.Zero}

	for _, tx := range active(txs) {
		s.TotalTransactions++
		s.TotalAmount = s.TotalAmount.Add(tx.FinalAmount)

		switch tx.PaymentStatus {
		case transaction.PaymentPaid:
			s.PaidTransactions++
		case transaction.PaymentPending:
			s.PendingTransactions++
		}
	}

	return s
}

// SummarizeMonth is Summarize plus a breakdown by day of month in loc.
func SummarizeMonth(txs []*transaction.Transaction, loc *time.Location) MonthSummary {
	m := MonthSummary{
		Summary:        Summarize(txs),
		DailyBreakdown: make(map[int]DayTotal),
	}

	for _, tx := range active(txs) {
		day := tx.CreatedAt.In(loc).Day()
		d := m.DailyBreakdown[day]
		d.Count++
		d.Amount = d.Amount.Add(tx.FinalAmount)
		m.DailyBreakdown[day] = d
	}

	return m
}

func active(txs []*transaction.Transaction) []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if tx.Status == transaction.StatusActive {
			out = append(out, tx)
		}
	}

	return out
}

type ProductSales struct {
	ProductID string          `db:"product_id" json:"productId"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Revenue   decimal.Decimal `db:"revenue" json:"revenue"`
}

type LowStockItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Unit     string    `json:"unit"`
	Stock    int       `json:"stock"`
	MinStock int       `json:"minStock"`
}

func lowStockItems(ps []*catalog.Product, limit int) []LowStockItem {
	items := make([]LowStockItem, 0, min(len(ps), limit))
	for _, p := range ps[:min(len(ps), limit)] {
		items = append(items, LowStockItem{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Unit:     p.Unit,
			Stock:    p.Stock,
			MinStock: p.MinStock,
		})
	}

	return items
}

type DailyReport struct {
	Date             string         `json:"date"`
	Transactions     Summary        `json:"transactions"`
	LowStockAlerts   int            `json:"lowStockAlerts"`
	LowStockProducts []LowStockItem `json:"lowStockProducts"`
	TopProducts      []ProductSales `json:"topProducts"`
}

type MonthlyReport struct {
	Year         int            `json:"year"`
	Month        int            `json:"month"`
	MonthName    string         `json:"monthName"`
	Transactions MonthSummary   `json:"transactions"`
	TopProducts  []ProductSales `json:"topProducts"`
}

type Dashboard struct {
	Today     DailyReport   `json:"today"`
	ThisMonth MonthlyReport `json:"thisMonth"`
}

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthName returns the Indonesian name of month m (1-12).
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}

	return monthNames[m-1]
}

// DailyFilename names the CSV export of the business day containing date.
func DailyFilename(date time.Time, loc *time.Location) string {
	return fmt.Sprintf("laporan-harian-%s.csv", date.In(loc).Format(time.DateOnly))
}

func MonthlyFilename(year, month int) string {
	return fmt.Sprintf("laporan-bulanan-%d-%02d.csv", year, month)
}
