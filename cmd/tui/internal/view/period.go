package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kesavaawalakbari/konek/internal/report"
)

// Preset is a predefined or custom reporting period.
type Preset int

const (
	PresetToday       Preset = 0
	PresetYesterday   Preset = 1
	PresetThisMonth   Preset = 2
	PresetLastMonth   Preset = 3
	PresetCustomDay   Preset = 4
	PresetCustomMonth Preset = 5
)

func (p Preset) String() string {
	switch p {
	case PresetToday:
		return "Hari Ini"
	case PresetYesterday:
		return "Kemarin"
	case PresetThisMonth:
		return "Bulan Ini"
	case PresetLastMonth:
		return "Bulan Lalu"
	case PresetCustomDay:
		return "Pilih Tanggal"
	case PresetCustomMonth:
		return "Pilih Bulan"
	}

	return "Unknown"
}

// Period is either a single business day or a calendar month.
type Period struct {
	Monthly bool
	Date    time.Time
	Year    int
	Month   int
}

// Label renders the period the way report titles do.
func (p Period) Label() string {
	if p.Monthly {
		return fmt.Sprintf("%s %d", report.MonthName(time.Month(p.Month)), p.Year)
	}

	return FormatDate(p.Date)
}

// Range returns the half-open window [from, to) covered by the period in loc.
func (p Period) Range(loc *time.Location) (time.Time, time.Time) {
	if p.Monthly {
		from := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0)
	}

	from := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, loc)

	return from, from.AddDate(0, 0, 1)
}

func presetPeriod(p Preset, now time.Time) Period {
	switch p {
	case PresetYesterday:
		return Period{Date: now.AddDate(0, 0, -1)}
	case PresetThisMonth:
		return Period{Monthly: true, Year: now.Year(), Month: int(now.Month())}
	case PresetLastMonth:
		last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return Period{Monthly: true, Year: last.Year(), Month: int(last.Month())}
	}

	return Period{Date: now}
}

func parsePeriod(p Preset, value string, loc *time.Location) (Period, error) {
	if p == PresetCustomMonth {
		t, err := time.ParseInLocation("2006-01", value, loc)
		if err != nil {
			return Period{}, errors.New("invalid month (YYYY-MM)")
		}

		return Period{Monthly: true, Year: t.Year(), Month: int(t.Month())}, nil
	}

	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return Period{}, errors.New("invalid date (YYYY-MM-DD)")
	}

	return Period{Date: t}, nil
}

// PeriodSelectedMsg is emitted when the user has picked a valid period.
type PeriodSelectedMsg struct {
	Period Period
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker is a reusable component for selecting a reporting period.
type PeriodPicker struct {
	state    periodState
	selected Preset
	loc      *time.Location
	now      func() time.Time

	input textinput.Model
	err   error
}

// NewPeriodPicker creates a picker whose presets are resolved in loc.
func NewPeriodPicker(loc *time.Location, now func() time.Time) PeriodPicker {
	ti := textinput.New()
	ti.CharLimit = 10
	ti.Width = 12

	return PeriodPicker{
		state: periodStateSelect,
		loc:   loc,
		now:   now,
		input: ti,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case periodStateSelect:
			return m.updateSelect(keyMsg)
		case periodStateCustom:
			if next, cmd, handled := m.updateCustom(keyMsg); handled {
				return next, cmd
			}
		}
	}

	if m.state != periodStateCustom {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PresetToday {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PresetCustomMonth {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == PresetCustomDay || m.selected == PresetCustomMonth {
			m.state = periodStateCustom
			m.input.SetValue("")
			m.input.Placeholder = "YYYY-MM-DD"
			m.input.Prompt = "Tanggal: "
			if m.selected == PresetCustomMonth {
				m.input.Placeholder = "YYYY-MM"
				m.input.Prompt = "Bulan: "
			}
			m.input.Focus()

			return m, textinput.Blink
		}

		period := presetPeriod(m.selected, m.now().In(m.loc))

		return m, func() tea.Msg { return PeriodSelectedMsg{Period: period} }
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		period, err := parsePeriod(m.selected, m.input.Value(), m.loc)
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil

		return m, func() tea.Msg { return PeriodSelectedMsg{Period: period} }, true

	case tea.KeyEsc:
		m.state = periodStateSelect
		m.input.Blur()
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf("%s\n\n%s\n\n(Enter to confirm, Esc to back)%s", m.selected, m.input.View(), errStr)
	}

	s := "Pilih Periode:\n\n"
	for i := PresetToday; i <= PresetCustomMonth; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, i)
	}
	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m PeriodPicker) IsSelecting() bool {
	return m.state == periodStateSelect
}

// Reset returns the picker to its initial selection state.
func (m *PeriodPicker) Reset() {
	m.state = periodStateSelect
	m.selected = PresetToday
	m.err = nil
	m.input.SetValue("")
	m.input.Blur()
}
