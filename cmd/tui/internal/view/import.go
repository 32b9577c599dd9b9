package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/importer"
	"github.com/Kesavaawalakbari/konek/internal/importer/product"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateParsing
	importStatePreview
	importStateResult
)

type ImportModel struct {
	CommonModel
	catalog       *catalog.Service
	importService *importer.Service

	state          importState
	filePicker     filepicker.Model
	selectedFormat importer.Format
	formatOptions  []importer.Format
	formatCursor   int

	params  []catalog.ProductParams
	preview list.Model

	status string
	err    error
}

func NewImportModel(cat *catalog.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		catalog:       cat,
		importService: impSvc,
		filePicker:    fp,
		formatOptions: []importer.Format{importer.FormatProductCSV},
	}
}

func (m ImportModel) Title() string { return "Import Products" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateFormatSelect:
			return m.updateFormatSelect(msg)
		case importStatePreview:
			if msg.Type == tea.KeyEnter {
				m.state = importStateParsing
				m.status = fmt.Sprintf("Menyimpan %d produk...", len(m.params))
				return m, m.confirmCmd()
			}

			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = describeImportError(msg.err)

			return m, nil
		}

		m.params = msg.params
		m.state = importStatePreview

		items := make([]list.Item, len(m.params))
		for i, p := range m.params {
			items[i] = productItem{params: p}
		}

		m.preview = list.New(items, productDelegate{}, 80, 20)
		m.preview.Title = fmt.Sprintf("%d produk siap diimpor", len(items))
		m.preview.SetShowStatusBar(false)
		m.preview.SetFilteringEnabled(false)
		m.preview.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("%d produk berhasil diimpor.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateParsing
		m.status = fmt.Sprintf("Membaca %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateFormatSelect
		return m, nil
	case importStateResult, importStatePreview:
		m.state = importStateFormatSelect
		m.params = nil
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(m.formatOptions)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.selectedFormat = m.formatOptions[m.formatCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Pilih file (%s):\n\n%s", m.selectedFormat, m.filePicker.View()),
		)
	case importStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.preview.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFormatSelect() string {
	s := "Pilih Format:\n\n"

	for i, f := range m.formatOptions {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(f))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := successStyle
	if m.err != nil {
		style = errorStyle
	}

	return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to go back)")
}

// describeImportError lists every rejected row so the file can be fixed in one pass.
func describeImportError(err error) string {
	var rowErrs product.RowErrors
	if !errors.As(err, &rowErrs) {
		return fmt.Sprintf("Error: %v", err)
	}

	s := fmt.Sprintf("%d baris tidak valid:\n", len(rowErrs))
	for _, re := range rowErrs {
		s += fmt.Sprintf("\n  %s", re.Error())
	}

	return s
}

// Messages

type parseResultMsg struct {
	params []catalog.ProductParams
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	format := m.selectedFormat

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(format, f)
		if err != nil {
			return parseResultMsg{err: err}
		}

		return parseResultMsg{params: params}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	params := m.params

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		products, err := m.catalog.ImportProducts(ctx, params)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(products)}
	}
}

// Preview list item

type productItem struct {
	params catalog.ProductParams
}

func (i productItem) Title() string       { return i.params.Name }
func (i productItem) Description() string { return i.params.Category }
func (i productItem) FilterValue() string { return i.params.Name }

type productDelegate struct{}

func (d productDelegate) Height() int                             { return 2 }
func (d productDelegate) Spacing() int                            { return 0 }
func (d productDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d productDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(productItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	p := item.params
	unit := p.Unit
	if unit == "" {
		unit = catalog.DefaultUnit
	}

	fmt.Fprintf(w, "%s%s  %s\n", cursor, p.Name, FormatAmount(p.Price))
	fmt.Fprintf(w, "    %s | stok %d %s | SKU %s\n", p.Category, p.Stock, unit, p.SKU)
}
