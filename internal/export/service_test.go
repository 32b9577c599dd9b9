package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kesavaawalakbari/konek/internal/export"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

func TestRupiah(t *testing.T) {
	tests := []struct {
		name string
		in   decimal.Decimal
		want string
	}{
		{name: "Thousands", in: decimal.NewFromInt(100000), want: "Rp 100.000"},
		{name: "Millions", in: decimal.NewFromInt(1250000), want: "Rp 1.250.000"},
		{name: "Small", in: decimal.NewFromInt(500), want: "Rp 500"},
		{name: "RoundsCents", in: decimal.RequireFromString("15000.50"), want: "Rp 15.001"},
		{name: "Negative", in: decimal.NewFromInt(-2500), want: "-Rp 2.500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, export.Rupiah(tt.in))
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	err := export.WriteCSV(&buf,
		export.Section{
			Title:  "Ringkasan",
			Header: []string{"Metrik", "Nilai"},
			Rows:   [][]string{{"Total Transaksi", "2"}},
		},
		export.Section{
			Title:  "Detail",
			Header: []string{"A", "B"},
			Rows:   [][]string{{"x;y", "z"}},
		},
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Ringkasan",
		"Metrik;Nilai",
		"Total Transaksi;2",
		"",
		"Detail",
		"A;B",
		`"x;y";z`,
	}, lines)
}

func TestTransactionSection(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	s := export.TransactionSection([]*transaction.Transaction{{
		Number:        "TRX-20251101-AAAAAA",
		CreatedAt:     time.Date(2025, 11, 1, 2, 15, 0, 0, time.UTC),
		CustomerName:  "Siti",
		PaymentMethod: "qris",
		PaymentStatus: transaction.PaymentPaid,
		FinalAmount:   decimal.NewFromInt(100000),
	}}, jakarta)

	require.Len(t, s.Rows, 1)
	assert.Equal(t, []string{"TRX-20251101-AAAAAA", "01/11/2025 09:15", "Siti", "qris", "paid", "Rp 100.000"}, s.Rows[0])
	assert.Len(t, s.Header, len(s.Rows[0]))
}
