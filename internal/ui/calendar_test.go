package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-moon/internal/state"
	"github.com/litescript/ls-moon/pkg/lunar"
)

func calendarFor(t *testing.T, at time.Time) CalendarModel {
	t.Helper()
	moon, err := lunar.New(at)
	if err != nil {
		t.Fatalf("lunar.New() error = %v", err)
	}
	c := NewCalendarModel().SetSize(100, 60)
	return c.UpdateData(state.Snapshot{Moon: &moon, At: at})
}

func TestCalendarModel_UpdateData(t *testing.T) {
	c := calendarFor(t, referenceNewMoon)

	if len(c.days) != calendarDays {
		t.Fatalf("days = %d, want %d", len(c.days), calendarDays)
	}
	if len(c.transitions) < 7 {
		t.Errorf("transitions = %d, want at least 7 in %d days", len(c.transitions), calendarDays)
	}
	if c.err != nil {
		t.Errorf("err = %v", c.err)
	}
}

func TestCalendarModel_IgnoresEmptySnapshot(t *testing.T) {
	c := NewCalendarModel().UpdateData(state.Snapshot{})
	if len(c.days) != 0 {
		t.Errorf("days = %d, want 0", len(c.days))
	}
	if !strings.Contains(c.View(), "Waiting") {
		t.Errorf("View() = %q, want waiting message", c.View())
	}
}

func TestCalendarModel_CursorBounds(t *testing.T) {
	c := calendarFor(t, referenceNewMoon)

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c.cursor != 0 {
		t.Errorf("cursor after up at top = %d, want 0", c.cursor)
	}

	for i := 0; i < calendarDays+5; i++ {
		c, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if c.cursor != calendarDays-1 {
		t.Errorf("cursor after scrolling past end = %d, want %d", c.cursor, calendarDays-1)
	}

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyHome})
	if c.cursor != 0 {
		t.Errorf("cursor after home = %d, want 0", c.cursor)
	}
}

func TestCalendarModel_View(t *testing.T) {
	c := calendarFor(t, referenceNewMoon)
	out := c.View()

	if !strings.Contains(out, "Next 30 days") {
		t.Errorf("view missing title:\n%s", out)
	}
	if !strings.Contains(out, "Full Moon") {
		t.Errorf("view missing a full moon row:\n%s", out)
	}
}
