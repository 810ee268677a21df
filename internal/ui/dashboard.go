package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-moon/internal/report"
	"github.com/litescript/ls-moon/internal/state"
	"github.com/litescript/ls-moon/pkg/lunar"
)

// Distance series bounds in Earth radii: 60.4 ∓ (3.3 + 0.6 + 0.5).
const (
	minDistanceRadii = 56.0
	maxDistanceRadii = 64.8
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("189"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("103")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

// DashboardModel shows the Moon at the viewed instant.
type DashboardModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	lastErr  error
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	if snapshot.LastError == nil {
		m.lastErr = nil
	}
	return m
}

// SetError sets the last error for display.
func (m DashboardModel) SetError(err error) DashboardModel {
	m.lastErr = err
	return m
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	if m.snapshot.Moon == nil {
		b.WriteString("Waiting for lunar data...\n")
		return b.String()
	}
	moon := *m.snapshot.Moon

	left := m.renderPhasePanel(moon)
	right := m.renderUpcomingPanel(m.snapshot.At)
	if m.width > 0 && m.width < 90 {
		b.WriteString(left + "\n" + right)
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	}
	b.WriteString("\n")

	b.WriteString(m.renderEvents())
	return b.String()
}

func (m DashboardModel) barWidth() int {
	w := m.width/2 - 30
	if w < 10 {
		w = 10
	}
	if w > 40 {
		w = 40
	}
	return w
}

func (m DashboardModel) renderPhasePanel(moon lunar.Moon) string {
	var b strings.Builder
	width := m.barWidth()

	b.WriteString(titleStyle.Render("Moon @ " + m.snapshot.At.Local().Format("Mon 2006-01-02 15:04 MST")))
	b.WriteString("\n\n")
	b.WriteString("  " + moon.PhaseEmoji() + " " + phaseStyle.Render(moon.PhaseName()))
	b.WriteString(dimStyle.Render("  " + report.Trend(moon)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	row("Illumination", renderFractionBar(moon.Illumination, width)+" "+report.FormatIllumination(moon.Illumination))
	row("Cycle", renderCycleTrack(moon.Phase, width)+fmt.Sprintf(" day %.1f", moon.Age))
	row("Distance", renderFractionBar(distanceRatio(moon.Distance), width)+" "+report.FormatDistance(moon.DistanceKm()))
	row("", fmt.Sprintf("%.3f Earth radii", moon.Distance))
	row("Lunation", fmt.Sprintf("%d", moon.Lunation))
	row("Julian date", fmt.Sprintf("%.5f", moon.JulianDate))

	return panelStyle.Render(b.String())
}

func (m DashboardModel) renderUpcomingPanel(at time.Time) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Upcoming"))
	b.WriteString("\n")

	transitions, err := lunar.Transitions(at, at.Add(time.Duration(lunar.OrbitPeriod*float64(24*time.Hour))))
	if err != nil {
		b.WriteString(errorStyle.Render(err.Error()))
		return panelStyle.Render(b.String())
	}

	for _, tr := range transitions {
		b.WriteString(fmt.Sprintf("%s %-16s %s\n",
			tr.Phase.Emoji,
			tr.Phase.Name,
			dimStyle.Render(tr.At.Local().Format("Jan 02 15:04")+"  "+report.FormatRelative(tr.At, at))))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m DashboardModel) renderEvents() string {
	events := m.snapshot.Events
	if len(events) == 0 {
		return ""
	}
	if len(events) > 5 {
		events = events[len(events)-5:]
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Events") + "\n")
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		var text string
		switch e.Type {
		case state.EventNewLunation:
			text = fmt.Sprintf("lunation %d begins", e.Lunation)
		default:
			text = fmt.Sprintf("%s → %s %s", e.OldPhase, e.Emoji, e.NewPhase)
		}
		b.WriteString("  " + dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04")) + "  " + valueStyle.Render(text) + "\n")
	}
	return b.String()
}

// renderFractionBar renders f in [0, 1] as a bracketed bar of width cells.
func renderFractionBar(f float64, width int) string {
	if math.IsNaN(f) || f < 0 {
		f = 0
	}
	filled := int(math.Round(f * float64(width)))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + barStyle.Render(bar) + "]"
}

// renderCycleTrack renders the synodic month as a track with a marker at phase.
func renderCycleTrack(phase float64, width int) string {
	pos := int(phase * float64(width))
	if pos >= width {
		pos = width - 1
	}
	if pos < 0 {
		pos = 0
	}

	cells := make([]string, width)
	for i := range cells {
		cells[i] = "─"
	}
	// Quarter ticks
	for _, q := range []float64{0.25, 0.5, 0.75} {
		cells[int(q*float64(width))] = "┼"
	}
	cells[pos] = barStyle.Render("●")

	return "[" + strings.Join(cells, "") + "]"
}

// distanceRatio maps a distance in Earth radii onto [0, 1] between the
// series minimum and maximum.
func distanceRatio(radii float64) float64 {
	r := (radii - minDistanceRadii) / (maxDistanceRadii - minDistanceRadii)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
