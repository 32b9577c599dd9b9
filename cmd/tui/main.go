package main

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/Kesavaawalakbari/konek/cmd/tui/internal/view"
	"github.com/Kesavaawalakbari/konek/internal/catalog"
	catalogStore "github.com/Kesavaawalakbari/konek/internal/catalog/store"
	"github.com/Kesavaawalakbari/konek/internal/config"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/event"
	"github.com/Kesavaawalakbari/konek/internal/importer"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
	inventoryStore "github.com/Kesavaawalakbari/konek/internal/inventory/store"
	"github.com/Kesavaawalakbari/konek/internal/report"
	reportStore "github.com/Kesavaawalakbari/konek/internal/report/store"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
	txStore "github.com/Kesavaawalakbari/konek/internal/transaction/store"
)

type model struct {
	catalogService *catalog.Service
	ledger         *inventory.Ledger
	txService      *transaction.Service
	reportService  *report.Service
	importService  *importer.Service
	loc            *time.Location

	currentView View

	dashboardView    view.DashboardModel
	stockView        view.StockModel
	transactionsView view.TransactionsModel
	importView       view.ImportModel
	exportView       view.ExportModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewStock        View = 2
	ViewTransactions View = 3
	ViewImport       View = 4
	ViewExport       View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var publisher event.Publisher = event.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	catalogs := catalogStore.New(db)
	catSvc := catalog.NewService(catalogs)
	ledger := inventory.NewLedger(inventoryStore.New(db), publisher)
	txSvc := transaction.NewService(txStore.New(db), catalogs,
		transaction.WithLocation(loc),
		transaction.WithPublisher(publisher),
	)
	repSvc := report.NewService(reportStore.New(db), loc)
	impSvc := importer.NewService()

	return model{
		catalogService: catSvc,
		ledger:         ledger,
		txService:      txSvc,
		reportService:  repSvc,
		importService:  impSvc,
		loc:            loc,
		currentView:    ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.reportService, time.Now)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewStock
				m.stockView = view.NewStockModel(m.catalogService, m.ledger)

				return m, m.stockView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.txService, m.loc, time.Now)

				return m, m.transactionsView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.catalogService, m.importService)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.reportService, time.Now)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewStock:
		var newModel tea.Model
		newModel, cmd = m.stockView.Update(msg)
		m.stockView = newModel.(view.StockModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"KONEK UMKM Centre\n\n" +
				"1. Dashboard\n" +
				"2. Stok Produk\n" +
				"3. Transaksi\n" +
				"4. Impor Produk\n" +
				"5. Unduh Laporan\n\n" +
				"q. Keluar",
		)
	case ViewDashboard:
		current = m.dashboardView
	case ViewStock:
		current = m.stockView
	case ViewTransactions:
		current = m.transactionsView
	case ViewImport:
		current = m.importView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.Title() + " | " + current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
