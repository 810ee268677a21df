// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-moon/pkg/lunar"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventPhaseChange EventType = "PHASE_CHANGE"
	EventNewLunation EventType = "NEW_LUNATION"
)

// Event records the Moon crossing into a new phase or lunation.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	OldPhase  string    `json:"old_phase,omitempty"`
	NewPhase  string    `json:"new_phase"`
	Emoji     string    `json:"emoji"`
	Lunation  int64     `json:"lunation"`
}

// Sample is one computed lunar state in the history buffer.
type Sample struct {
	Timestamp time.Time
	Moon      lunar.Moon
}

// Manager holds the clock the UI is looking at and what the Moon was doing
// at each refresh.
type Manager struct {
	mu sync.RWMutex

	clock     func() time.Time
	offset    time.Duration
	maxOffset time.Duration

	// Current state
	current   *lunar.Moon
	currentAt time.Time
	lastError error

	// History buffer
	history       []Sample
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
	// MaxOffset bounds how far the view clock may be shifted from real time.
	MaxOffset time.Duration
	// Clock returns real time; nil means time.Now.
	Clock func() time.Time
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120,
		MaxEvents:       50,
		RefreshInterval: time.Second,
		MaxOffset:       100 * 365 * 24 * time.Hour,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		clock:           clock,
		maxOffset:       cfg.MaxOffset,
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Now returns the instant being viewed: real time plus the current offset.
func (m *Manager) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clock().Add(m.offset)
}

// Offset returns the shift between the viewed instant and real time.
func (m *Manager) Offset() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offset
}

// Shift moves the viewed instant by d, clamped to the configured MaxOffset.
func (m *Manager) Shift(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	off := m.offset + d
	if m.maxOffset > 0 {
		if off > m.maxOffset {
			off = m.maxOffset
		} else if off < -m.maxOffset {
			off = -m.maxOffset
		}
	}
	m.offset = off
}

// ResetOffset returns the view to real time.
func (m *Manager) ResetOffset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = 0
}

// Refresh recomputes the Moon for the viewed instant and records history
// and events. Errors are kept for the next Snapshot and returned.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	at := m.clock().Add(m.offset)
	moon, err := lunar.New(at)
	m.lastError = err
	if err != nil {
		return err
	}

	m.detectEvents(moon, at)

	m.current = &moon
	m.currentAt = at

	m.history = append(m.history, Sample{Timestamp: at, Moon: moon})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}
	return nil
}

// detectEvents compares the new state with the previous one.
func (m *Manager) detectEvents(moon lunar.Moon, at time.Time) {
	if m.current == nil {
		return
	}
	prev := *m.current

	if prev.Lunation != moon.Lunation {
		m.addEvent(Event{
			Type:      EventNewLunation,
			Timestamp: at,
			OldPhase:  prev.PhaseName(),
			NewPhase:  moon.PhaseName(),
			Emoji:     moon.PhaseEmoji(),
			Lunation:  moon.Lunation,
		})
	}
	if prev.PhaseName() != moon.PhaseName() {
		m.addEvent(Event{
			Type:      EventPhaseChange,
			Timestamp: at,
			OldPhase:  prev.PhaseName(),
			NewPhase:  moon.PhaseName(),
			Emoji:     moon.PhaseEmoji(),
			Lunation:  moon.Lunation,
		})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Moon      *lunar.Moon
	At        time.Time
	Offset    time.Duration
	LastError error
	History   []Sample
	Events    []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var moon *lunar.Moon
	if m.current != nil {
		c := *m.current
		moon = &c
	}

	hist := make([]Sample, len(m.history))
	copy(hist, m.history)

	return Snapshot{
		Moon:      moon,
		At:        m.currentAt,
		Offset:    m.offset,
		LastError: m.lastError,
		History:   hist,
		Events:    m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// HasData returns true once Refresh has succeeded at least once.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
