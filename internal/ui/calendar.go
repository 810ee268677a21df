package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-moon/internal/report"
	"github.com/litescript/ls-moon/internal/state"
	"github.com/litescript/ls-moon/pkg/lunar"
)

// calendarDays is how many days the calendar view lists.
const calendarDays = 30

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("189")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	transitionRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("221"))
)

// CalendarModel lists the Moon day by day starting at the viewed instant.
type CalendarModel struct {
	width  int
	height int
	cursor int

	start       time.Time
	days        []lunar.Moon
	transitions []lunar.Transition
	err         error
}

// NewCalendarModel creates a new calendar model.
func NewCalendarModel() CalendarModel {
	return CalendarModel{}
}

// SetSize updates the viewport size.
func (m CalendarModel) SetSize(width, height int) CalendarModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData recomputes the calendar when the viewed day changes.
func (m CalendarModel) UpdateData(snapshot state.Snapshot) CalendarModel {
	if snapshot.Moon == nil {
		return m
	}

	at := snapshot.At
	if !m.start.IsZero() && sameDay(m.start, at) && len(m.days) > 0 {
		return m
	}

	m.start = at
	m.days, m.err = lunar.Calendar(at, calendarDays)
	if m.err == nil {
		m.transitions, m.err = lunar.Transitions(at, at.AddDate(0, 0, calendarDays))
	}
	if m.cursor >= len(m.days) {
		m.cursor = 0
	}
	return m
}

// Update handles messages.
func (m CalendarModel) Update(msg tea.Msg) (CalendarModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.days)-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if len(m.days) > 0 {
				m.cursor = len(m.days) - 1
			}
		}
	}
	return m, nil
}

// View renders the calendar.
func (m CalendarModel) View() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		return b.String()
	}
	if len(m.days) == 0 {
		return "Waiting for lunar data...\n"
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("Next %d days", len(m.days))))
	b.WriteString("\n")

	header := fmt.Sprintf("%-10s  %-19s %7s %7s %12s", "Date", "Phase", "Lit", "Age", "Distance")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 5 {
		maxRows = 5
	}
	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := startIdx + maxRows
	if endIdx > len(m.days) {
		endIdx = len(m.days)
	}

	for i := startIdx; i < endIdx; i++ {
		day := m.start.AddDate(0, 0, i)
		moon := m.days[i]

		marker := " "
		if tr, ok := m.transitionOn(day); ok {
			marker = tr.Phase.Emoji
		}

		row := fmt.Sprintf("%-10s  %s %-16s %7s %6.1fd %12s %s",
			day.Local().Format("Mon Jan 02"),
			moon.PhaseEmoji(),
			moon.PhaseName(),
			report.FormatIllumination(moon.Illumination),
			moon.Age,
			report.FormatDistance(moon.DistanceKm()),
			marker)

		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(row))
		case marker != " ":
			b.WriteString(transitionRowStyle.Render(row))
		default:
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if tr, ok := m.transitionOn(m.start.AddDate(0, 0, m.cursor)); ok {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s %s begins %s",
			tr.Phase.Emoji, tr.Phase.Name, tr.At.Local().Format("15:04 MST"))))
		b.WriteString("\n")
	}

	return b.String()
}

// transitionOn returns the first transition falling on the same local
// calendar day as day.
func (m CalendarModel) transitionOn(day time.Time) (lunar.Transition, bool) {
	for _, tr := range m.transitions {
		if sameDay(tr.At, day) {
			return tr, true
		}
	}
	return lunar.Transition{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
