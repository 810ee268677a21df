package lunar

import (
	"sort"
	"time"
)

// Transition marks the instant the Moon enters a phase.
type Transition struct {
	Phase Phase
	At    time.Time
}

// startTolerance is how close to a phase start, in fractions of a synodic
// month (about 2.5ms), an instant counts as sitting on it.
const startTolerance = 1e-9

// NextPhase returns the first instant at or after t at which the phase
// fraction reaches p.Start. The mean phase advances linearly, so the wait
// is solved directly rather than searched. If t already sits on p.Start,
// t is returned.
func NextPhase(t time.Time, p Phase) (time.Time, error) {
	m, err := New(t)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(daysToDuration(untilStart(p, m.Phase) * OrbitPeriod)), nil
}

// untilStart returns the fraction of a synodic month from phase until p
// begins, in [0, 1).
func untilStart(p Phase, phase float64) float64 {
	f := fract(p.Start - phase)
	if f > 1-startTolerance {
		return 0
	}
	return f
}

// NextNewMoon returns the start of the next New Moon at or after t.
func NextNewMoon(t time.Time) (time.Time, error) {
	return NextPhase(t, Phases[0])
}

// NextFullMoon returns the start of the next Full Moon at or after t.
func NextFullMoon(t time.Time) (time.Time, error) {
	return NextPhase(t, Phases[4])
}

// Transitions lists every phase start in [from, to) in chronological order.
func Transitions(from, to time.Time) ([]Transition, error) {
	if !to.After(from) {
		return nil, ErrInvalidSpan
	}
	m, err := New(from)
	if err != nil {
		return nil, err
	}

	// Offsets within one synodic month from the start of each cycle.
	type offset struct {
		phase Phase
		wait  time.Duration
	}
	offsets := make([]offset, 0, len(Phases))
	for _, p := range Phases {
		offsets = append(offsets, offset{phase: p, wait: daysToDuration(untilStart(p, m.Phase) * OrbitPeriod)})
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i].wait < offsets[j].wait })

	// Cycles are stepped one month at a time; a single Duration covers
	// only about 292 years.
	month := daysToDuration(OrbitPeriod)
	var out []Transition
	for cycle := from; cycle.Before(to); cycle = cycle.Add(month) {
		for _, o := range offsets {
			at := cycle.Add(o.wait)
			if !at.Before(to) {
				return out, nil
			}
			out = append(out, Transition{Phase: o.phase, At: at})
		}
	}
	return out, nil
}

// Calendar returns one Moon per day starting at start, keeping its wall-clock time.
func Calendar(start time.Time, days int) ([]Moon, error) {
	if days <= 0 {
		return nil, ErrInvalidSpan
	}
	out := make([]Moon, 0, days)
	for i := 0; i < days; i++ {
		m, err := New(start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// daysToDuration converts a span of at most a few synodic months.
func daysToDuration(days float64) time.Duration {
	return time.Duration(days * float64(24*time.Hour))
}
