// Package report renders lunar state as JSON snapshots and plain-text tables
// for the headless CLI modes.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/litescript/ls-moon/pkg/lunar"
)

// SnapshotExport is the JSON-serializable representation of the Moon at an instant.
type SnapshotExport struct {
	Timestamp          time.Time `json:"timestamp"`
	JulianDate         float64   `json:"julian_date"`
	Phase              float64   `json:"phase"`
	AgeDays            float64   `json:"age_days"`
	Illumination       float64   `json:"illumination"`
	DistanceEarthRadii float64   `json:"distance_earth_radii"`
	DistanceKm         float64   `json:"distance_km"`
	Lunation           int64     `json:"lunation"`
	PhaseName          string    `json:"phase_name"`
	PhaseEmoji         string    `json:"phase_emoji"`
	Waxing             bool      `json:"waxing"`
	Waning             bool      `json:"waning"`
	NextNewMoon        time.Time `json:"next_new_moon"`
	NextFullMoon       time.Time `json:"next_full_moon"`
}

// ExportSnapshot computes the lunar state at t in exportable form.
func ExportSnapshot(t time.Time) (*SnapshotExport, error) {
	m, err := lunar.New(t)
	if err != nil {
		return nil, fmt.Errorf("compute moon: %w", err)
	}
	nextNew, err := lunar.NextNewMoon(t)
	if err != nil {
		return nil, fmt.Errorf("next new moon: %w", err)
	}
	nextFull, err := lunar.NextFullMoon(t)
	if err != nil {
		return nil, fmt.Errorf("next full moon: %w", err)
	}

	return &SnapshotExport{
		Timestamp:          t.UTC(),
		JulianDate:         m.JulianDate,
		Phase:              m.Phase,
		AgeDays:            m.Age,
		Illumination:       m.Illumination,
		DistanceEarthRadii: m.Distance,
		DistanceKm:         m.DistanceKm(),
		Lunation:           m.Lunation,
		PhaseName:          m.PhaseName(),
		PhaseEmoji:         m.PhaseEmoji(),
		Waxing:             m.IsWaxing(),
		Waning:             m.IsWaning(),
		NextNewMoon:        nextNew.UTC(),
		NextFullMoon:       nextFull.UTC(),
	}, nil
}

// WriteJSON writes the snapshot as indented JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// FormatDistance returns a kilometer distance with thousands separators.
func FormatDistance(km float64) string {
	if km <= 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		return "N/A"
	}
	return humanize.Comma(int64(math.Round(km))) + " km"
}

// FormatIllumination returns a lit fraction as a percentage.
func FormatIllumination(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatLunation returns the lunation as an ordinal ("1234th"). Lunations
// before the first are printed as plain numbers.
func FormatLunation(n int64) string {
	if n <= 0 {
		return strconv.FormatInt(n, 10)
	}
	return humanize.Ordinal(int(n))
}

// FormatRelative describes at relative to ref, e.g. "3 days from now".
func FormatRelative(at, ref time.Time) string {
	return humanize.RelTime(at, ref, "ago", "from now")
}

// Trend returns "waxing", "waning", or "turning" at the exact midpoint.
func Trend(m lunar.Moon) string {
	switch {
	case m.IsWaxing():
		return "waxing"
	case m.IsWaning():
		return "waning"
	default:
		return "turning"
	}
}

// WriteSummary writes a multi-line text summary of the Moon at t.
func WriteSummary(w io.Writer, t time.Time) error {
	s, err := ExportSnapshot(t)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Moon @ %s\n", s.Timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 56))
	fmt.Fprintf(w, "%-14s %s %s\n", "Phase", s.PhaseEmoji, s.PhaseName)
	fmt.Fprintf(w, "%-14s %.4f\n", "Fraction", s.Phase)
	fmt.Fprintf(w, "%-14s %.2f days\n", "Age", s.AgeDays)
	fmt.Fprintf(w, "%-14s %s\n", "Illumination", FormatIllumination(s.Illumination))
	fmt.Fprintf(w, "%-14s %s (%.2f Earth radii)\n", "Distance", FormatDistance(s.DistanceKm), s.DistanceEarthRadii)
	fmt.Fprintf(w, "%-14s %s\n", "Lunation", FormatLunation(s.Lunation))
	fmt.Fprintf(w, "%-14s %.5f\n", "Julian date", s.JulianDate)
	fmt.Fprintln(w, strings.Repeat("─", 56))
	fmt.Fprintf(w, "%-14s %s (%s)\n", "Next new", s.NextNewMoon.Format("2006-01-02 15:04 MST"), FormatRelative(s.NextNewMoon, t))
	fmt.Fprintf(w, "%-14s %s (%s)\n", "Next full", s.NextFullMoon.Format("2006-01-02 15:04 MST"), FormatRelative(s.NextFullMoon, t))
	return nil
}

// WriteNowLine writes a single-line status suitable for prompts and status bars.
func WriteNowLine(w io.Writer, t time.Time) error {
	m, err := lunar.New(t)
	if err != nil {
		return fmt.Errorf("compute moon: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s %s · %s · day %.1f · %s\n",
		m.PhaseEmoji(), m.PhaseName(),
		FormatIllumination(m.Illumination),
		m.Age,
		FormatDistance(m.DistanceKm()))
	return err
}

// WriteCalendar writes one row per day starting at start, followed by the
// phase transitions inside the same span.
func WriteCalendar(w io.Writer, start time.Time, days int) error {
	moons, err := lunar.Calendar(start, days)
	if err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	transitions, err := lunar.Transitions(start, start.AddDate(0, 0, days))
	if err != nil {
		return fmt.Errorf("transitions: %w", err)
	}

	fmt.Fprintf(w, "Lunar calendar from %s (%d days)\n", start.Format("2006-01-02"), days)
	fmt.Fprintln(w, strings.Repeat("─", 64))
	fmt.Fprintf(w, "%-10s  %-18s %7s %7s %14s\n", "Date", "Phase", "Lit", "Age", "Distance")
	fmt.Fprintln(w, strings.Repeat("─", 64))

	for i, m := range moons {
		day := start.AddDate(0, 0, i)
		fmt.Fprintf(w, "%-10s  %s %-16s %7s %6.1fd %14s\n",
			day.Format("2006-01-02"),
			m.PhaseEmoji(),
			m.PhaseName(),
			FormatIllumination(m.Illumination),
			m.Age,
			FormatDistance(m.DistanceKm()))
	}

	if len(transitions) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Transitions")
	for _, tr := range transitions {
		fmt.Fprintf(w, "  %s  %s %s\n",
			tr.At.In(start.Location()).Format("2006-01-02 15:04 MST"),
			tr.Phase.Emoji,
			tr.Phase.Name)
	}
	return nil
}
