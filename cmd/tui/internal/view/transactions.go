package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

// txPageSize caps how many transactions one period loads into the list.
const txPageSize = 100

type txState int

const (
	txStatePeriod txState = iota
	txStateList
	txStateEditing
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx  *transaction.Transaction
	loc *time.Location
}

func (i txItem) Title() string {
	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.PaymentStatus))

	return fmt.Sprintf("%s  %s  %s  %s",
		i.tx.CreatedAt.In(i.loc).Format("02/01/2006 15:04"),
		i.tx.Number,
		FormatAmount(i.tx.FinalAmount),
		status,
	)
}

func (i txItem) Description() string {
	parts := make([]string, 0, 3)
	if i.tx.CustomerName != "" {
		parts = append(parts, i.tx.CustomerName)
	}

	if i.tx.PaymentMethod != "" {
		parts = append(parts, i.tx.PaymentMethod)
	}

	parts = append(parts, fmt.Sprintf("%d item", len(i.tx.Items)))

	return strings.Join(parts, " | ")
}

func (i txItem) FilterValue() string {
	return i.tx.Number + " " + i.tx.CustomerName
}

type TransactionsModel struct {
	CommonModel
	txService *transaction.Service
	loc       *time.Location

	state      txState
	picker     PeriodPicker
	period     Period
	list       list.Model
	form       *huh.Form
	txs        []*transaction.Transaction
	selectedTx *transaction.Transaction

	loading bool
	status  string

	edit *txForm
}

// txForm holds the edit form bindings, shared by every copy of the model.
type txForm struct {
	paymentStatus transaction.PaymentStatus
	paymentMethod string
	notes         string
}

func NewTransactionsModel(txSvc *transaction.Service, loc *time.Location, now func() time.Time) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transaksi"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return TransactionsModel{
		txService: txSvc,
		loc:       loc,
		picker:    NewPeriodPicker(loc, now),
		list:      l,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStatePeriod:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | Enter: edit | /: filter"
	case txStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.period = msg.Period
		m.loading = true
		m.state = txStateList
		m.list.Title = "Transaksi " + msg.Period.Label()

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.refreshListItems()

		m.status = ""
		if len(msg.txs) == 0 {
			m.status = "Tidak ada transaksi."
		} else if msg.total > len(msg.txs) {
			m.status = fmt.Sprintf("Menampilkan %d dari %d transaksi.", len(msg.txs), msg.total)
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = "Tersimpan."

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStatePeriod:
		return m.updatePeriod(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m TransactionsModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = txStatePeriod
			m.picker.Reset()
			return m, nil
		case tea.KeyEnter:
			return m.startEditing()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startEditing() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.selectedTx = selected.tx
	m.edit = &txForm{
		paymentStatus: selected.tx.PaymentStatus,
		paymentMethod: selected.tx.PaymentMethod,
		notes:         selected.tx.Notes,
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.PaymentStatus]().
				Key("payment_status").
				Title("Status Pembayaran").
				Options(
					huh.NewOption("Pending", transaction.PaymentPending),
					huh.NewOption("Lunas", transaction.PaymentPaid),
					huh.NewOption("Gagal", transaction.PaymentFailed),
				).
				Value(&m.edit.paymentStatus),

			huh.NewInput().
				Key("payment_method").
				Title("Metode Pembayaran").
				Placeholder("cash, qris, transfer").
				Value(&m.edit.paymentMethod),

			huh.NewText().
				Key("notes").
				Title("Catatan").
				Value(&m.edit.notes),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

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

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Memuat transaksi...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case txStateEditing:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.txInfoView() + "\n" + m.form.View())
	}

	return ""
}

func (m TransactionsModel) txInfoView() string {
	if m.selectedTx == nil {
		return ""
	}

	var items strings.Builder
	for _, it := range m.selectedTx.Items {
		fmt.Fprintf(&items, "\n  %d x %s @ %s = %s", it.Quantity, it.ProductName, FormatAmount(it.Price), FormatAmount(it.Subtotal))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"%s  |  %s  |  Total: %s%s",
			m.selectedTx.Number,
			m.selectedTx.CreatedAt.In(m.loc).Format("02/01/2006 15:04"),
			FormatAmount(m.selectedTx.FinalAmount),
			items.String(),
		))
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx, loc: m.loc}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs   []*transaction.Transaction
	total int
	err   error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	from, to := m.period.Range(m.loc)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, total, err := m.txService.List(ctx, transaction.ListFilter{
			Page:      database.Page{Page: 1, Limit: txPageSize},
			StartDate: &from,
			EndDate:   &to,
		})

		return loadTxsMsg{txs: txs, total: total, err: err}
	}
}

type saveTxResultMsg struct {
	err error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	id := m.selectedTx.ID
	params := transaction.UpdateParams{
		PaymentStatus: new(m.edit.paymentStatus),
		PaymentMethod: new(m.edit.paymentMethod),
		Notes:         new(m.edit.notes),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Update(ctx, id, params)

		return saveTxResultMsg{err: err}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
