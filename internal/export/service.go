package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

// Section is one titled table of a CSV report.
type Section struct {
	Title  string
	Header []string
	Rows   [][]string
}

var printer = message.NewPrinter(language.Indonesian)

// Rupiah formats an amount the way Indonesian invoices do, e.g. "Rp 100.000".
// Amounts are rounded to whole rupiah.
func Rupiah(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return printer.Sprintf("-Rp %d", -n)
	}

	return printer.Sprintf("Rp %d", n)
}

// Number formats an integer with Indonesian digit grouping.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// WriteCSV writes each section as a title line, a header row and its rows,
// separated by a blank line. Fields are ';' separated so the file opens
// cleanly in spreadsheet programs set to an Indonesian locale.
func WriteCSV(w io.Writer, sections ...Section) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	for i, s := range sections {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return fmt.Errorf("writing separator: %w", err)
			}
		}

		if s.Title != "" {
			if err := cw.Write([]string{s.Title}); err != nil {
				return fmt.Errorf("writing title %q: %w", s.Title, err)
			}
		}

		if err := cw.Write(s.Header); err != nil {
			return fmt.Errorf("writing header of %q: %w", s.Title, err)
		}

		if err := cw.WriteAll(s.Rows); err != nil {
			return fmt.Errorf("writing rows of %q: %w", s.Title, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// TransactionSection lists transactions with their local creation time.
func TransactionSection(txs []*transaction.Transaction, loc *time.Location) Section {
	rows := make([][]string, 0, len(txs))

	for _, tx := range txs {
		rows = append(rows, []string{
			tx.Number,
			tx.CreatedAt.In(loc).Format("02/01/2006 15:04"),
			tx.CustomerName,
			tx.PaymentMethod,
			string(tx.PaymentStatus),
			Rupiah(tx.FinalAmount),
		})
	}

	return Section{
		Title:  "Detail Transaksi",
		Header: []string{"No. Transaksi", "Waktu", "Nama Pelanggan", "Metode Pembayaran", "Status Pembayaran", "Total"},
		Rows:   rows,
	}
}
