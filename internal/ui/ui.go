// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-moon/internal/state"
	"github.com/litescript/ls-moon/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewCalendar
)

const viewCount = 2

// Time travel steps bound to the arrow keys.
const (
	dayStep  = 24 * time.Hour
	hourStep = time.Hour
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a fresh lunar state is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a refresh error.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager

	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int

	dashboard DashboardModel
	calendar  CalendarModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager) Model {
	return Model{
		state:     stateMgr,
		viewMode:  ViewDashboard,
		dashboard: NewDashboardModel(),
		calendar:  NewCalendarModel(),
	}
}

// Init implements tea.Model. The first frame gets whatever state the
// manager already holds.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		SendDataUpdate(m.state.Snapshot()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "d":
			m.viewMode = ViewDashboard
		case "2", "c":
			m.viewMode = ViewCalendar
		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		case "right", "l":
			m.travel(dayStep)
		case "left", "h":
			m.travel(-dayStep)
		case "shift+right", "L":
			m.travel(hourStep)
		case "shift+left", "H":
			m.travel(-hourStep)
		case "n":
			m.state.ResetOffset()
			m.refresh()

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo and tabs take ~9 lines, footer ~2
		contentHeight := msg.Height - 11
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)
		m.calendar = m.calendar.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.state.Snapshot()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.applySnapshot(msg.Snapshot)

	case ErrorMsg:
		m.dashboard = m.dashboard.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// travel shifts the viewed instant and recomputes immediately so the
// screen does not wait for the next refresh tick.
func (m *Model) travel(d time.Duration) {
	m.state.Shift(d)
	m.refresh()
}

func (m *Model) refresh() {
	if err := m.state.Refresh(); err != nil {
		m.dashboard = m.dashboard.SetError(err)
	}
	m.applySnapshot(m.state.Snapshot())
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.dashboard = m.dashboard.UpdateData(snap)
	m.calendar = m.calendar.UpdateData(snap)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDashboard:
		content = m.dashboard.View()
	case ViewCalendar:
		content = m.calendar.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  █   █▀▀ ▄▄ █▀▄▀█ █▀█ █▀█ █▄ █`,
		`  █▄▄ ▄▄█    █ ▀ █ █▄█ █▄█ █ ▀█`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Lunar phase · distance · calendar | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient,
// running from pale silver through lavender to deep indigo.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 226 + t*(167-226)
		g = 232 + t*(139-232)
		b = 240 + t*(250-240)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 167 + t*(79-167)
		g = 139 + t*(70-139)
		b = 250 + t*(229-250)
	}

	brightness := 1.0 - yRatio*0.3
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Dashboard", "[2] Calendar"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	spinnerFrames := []string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}
	spinner := spinnerFrames[(m.animTick/4)%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.state.HasData():
		status = accentStyle.Render(spinner) + dimStyle.Render(" "+formatOffset(m.snapshot.Offset))
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" computing...")
	}

	var help string
	switch m.viewMode {
	case ViewCalendar:
		help = dimStyle.Render("↑↓: scroll | ←/→: ±1 day | H/L: ±1 hour | n: now")
	default:
		help = dimStyle.Render("←/→: ±1 day | H/L: ±1 hour | n: now | tab: switch view")
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// formatOffset describes how far the view is from real time.
func formatOffset(d time.Duration) string {
	if d == 0 {
		return "live"
	}

	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}

	days := int(d / (24 * time.Hour))
	hours := int((d % (24 * time.Hour)) / time.Hour)
	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%s%dd %dh", sign, days, hours)
	case days > 0:
		return fmt.Sprintf("%s%dd", sign, days)
	default:
		return fmt.Sprintf("%s%s", sign, d.Round(time.Minute))
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}
