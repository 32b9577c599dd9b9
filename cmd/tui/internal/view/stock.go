package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
)

type stockState int

const (
	stockStateBrowse stockState = iota
	stockStateRestock
)

// stockPageSize bounds the "all products" listing; the low stock filter is unpaged.
const stockPageSize = 100

type StockModel struct {
	CommonModel
	catalog *catalog.Service
	ledger  *inventory.Ledger

	state    stockState
	table    table.Model
	products []*catalog.Product
	form     *huh.Form
	showAll  bool

	loading bool
	err     error
	status  string

	adjust *adjustForm
}

// adjustForm holds the restock form bindings, shared by every copy of the model.
type adjustForm struct {
	quantity  string
	direction inventory.Direction
}

func NewStockModel(cat *catalog.Service, ledger *inventory.Ledger) StockModel {
	columns := []table.Column{
		{Title: "Produk", Width: 28},
		{Title: "Kategori", Width: 16},
		{Title: "Stok", Width: 8},
		{Title: "Min", Width: 6},
		{Title: "Satuan", Width: 8},
		{Title: "Harga", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return StockModel{
		catalog: cat,
		ledger:  ledger,
		table:   t,
		loading: true,
	}
}

func (m StockModel) Title() string { return "Stock" }

func (m StockModel) ShortHelp() string {
	if m.state == stockStateRestock {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | e: adjust stock | a: all/low stock | r: refresh"
}

func (m StockModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStockMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.products = msg.products
		m.refreshTable()
		return m, nil

	case adjustStockMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Stok %s sekarang %d %s", msg.product.Name, msg.product.Stock, msg.product.Unit)
		}
		m.state = stockStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case stockStateBrowse:
		return m.updateBrowse(msg)
	case stockStateRestock:
		return m.updateRestock(msg)
	}

	return m, nil
}

func (m StockModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			m.showAll = !m.showAll
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterRestock()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m StockModel) enterRestock() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return m, nil
	}

	m.adjust = &adjustForm{direction: inventory.DirectionAdd}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[inventory.Direction]().
				Key("operation").
				Title("Operasi").
				Options(
					huh.NewOption("Tambah", inventory.DirectionAdd),
					huh.NewOption("Kurangi", inventory.DirectionSubtract),
				).
				Value(&m.adjust.direction),

			huh.NewInput().
				Key("quantity").
				Title("Jumlah").
				Value(&m.adjust.quantity).
				Validate(validateQuantity),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = stockStateRestock
	m.table.Blur()
	return m, m.form.Init()
}

func validateQuantity(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("jumlah harus bilangan bulat positif")
	}

	return nil
}

func (m StockModel) updateRestock(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = stockStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.adjustCmd()
}

func (m StockModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Memuat produk...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	scope := "Stok Menipis"
	if m.showAll {
		scope = "Semua Produk"
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Tampilan: [a] "+activeStyle(scope)),
		tableView,
	)

	if m.state == stockStateRestock && m.form != nil {
		p := m.products[m.table.Cursor()]

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(
				fmt.Sprintf("Ubah Stok\n\n%s\nStok: %d %s\n\n%s", p.Name, p.Stock, p.Unit, m.form.View()),
			)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *StockModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		stock := strconv.Itoa(p.Stock)
		if p.IsLowStock() {
			stock += " !"
		}

		rows = append(rows, table.Row{
			p.Name,
			p.Category,
			stock,
			strconv.Itoa(p.MinStock),
			p.Unit,
			FormatAmount(p.Price),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Messages

type loadStockMsg struct {
	products []*catalog.Product
	err      error
}

func (m StockModel) loadCmd() tea.Cmd {
	showAll := m.showAll

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if !showAll {
			products, err := m.catalog.LowStock(ctx)
			return loadStockMsg{products: products, err: err}
		}

		products, _, err := m.catalog.ListProducts(ctx, catalog.ProductFilter{
			Page:   database.Page{Page: 1, Limit: stockPageSize},
			SortBy: "name",
		})
		return loadStockMsg{products: products, err: err}
	}
}

type adjustStockMsg struct {
	product *catalog.Product
	err     error
}

func (m StockModel) adjustCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return nil
	}

	id := m.products[idx].ID
	dir := m.adjust.direction
	qty, _ := strconv.Atoi(strings.TrimSpace(m.adjust.quantity))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.ledger.AdjustStock(ctx, id, qty, dir)
		return adjustStockMsg{product: p, err: err}
	}
}
