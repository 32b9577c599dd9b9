package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kesavaawalakbari/konek/internal/report"
)

type DashboardModel struct {
	CommonModel
	reports *report.Service
	now     func() time.Time

	dashboard *report.Dashboard
	top       table.Model
	loading   bool
	err       error
}

func NewDashboardModel(reports *report.Service, now func() time.Time) DashboardModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Produk", Width: 28},
			{Title: "Terjual", Width: 8},
			{Title: "Pendapatan", Width: 16},
		}),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	return DashboardModel{
		reports: reports,
		now:     now,
		top:     t,
		loading: true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		m.err = msg.err
		m.dashboard = msg.dashboard

		if msg.dashboard != nil {
			rows := make([]table.Row, 0, len(msg.dashboard.ThisMonth.TopProducts))
			for _, p := range msg.dashboard.ThisMonth.TopProducts {
				rows = append(rows, table.Row{p.Name, strconv.Itoa(p.Quantity), FormatAmount(p.Revenue)})
			}
			m.top.SetRows(rows)
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Memuat dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	d := m.dashboard

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(38)

	today := panel.Render(
		headerStyle.Render("Hari Ini ("+d.Today.Date+")") + "\n\n" +
			summaryLines(d.Today.Transactions) +
			warnStyle.Render(fmt.Sprintf("\nStok menipis: %d produk", d.Today.LowStockAlerts)),
	)

	month := panel.Render(
		headerStyle.Render(fmt.Sprintf("%s %d", d.ThisMonth.MonthName, d.ThisMonth.Year)) + "\n\n" +
			summaryLines(d.ThisMonth.Transactions.Summary),
	)

	lowStock := "Stok aman."
	if len(d.Today.LowStockProducts) > 0 {
		lowStock = ""
		for _, p := range d.Today.LowStockProducts {
			lowStock += fmt.Sprintf("%s  %d/%d %s\n", p.Name, p.Stock, p.MinStock, p.Unit)
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, today, month),
		"",
		headerStyle.Render("Produk Terlaris Bulan Ini"),
		m.top.View(),
		"",
		headerStyle.Render("Stok Menipis"),
		lowStock,
	))
}

func summaryLines(s report.Summary) string {
	return fmt.Sprintf(
		"Transaksi:  %d\nPendapatan: %s\nLunas:      %d\nPending:    %d\n",
		s.TotalTransactions,
		FormatAmount(s.TotalAmount),
		s.PaidTransactions,
		s.PendingTransactions,
	)
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}

type dashboardMsg struct {
	dashboard *report.Dashboard
	err       error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.reports.Dashboard(ctx, m.now())
		return dashboardMsg{dashboard: d, err: err}
	}
}
