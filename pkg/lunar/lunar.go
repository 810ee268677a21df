package lunar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Errors returned by the constructors and calendar helpers.
var (
	ErrNonFinite   = errors.New("lunar: time is NaN or infinite")
	ErrOutOfRange  = errors.New("lunar: lunation number out of range")
	ErrInvalidSpan = errors.New("lunar: invalid time span")
)

// Moon is the lunar state at a single instant.
type Moon struct {
	// JulianDate is the continuous day count since noon UT, January 1, 4713 BC.
	JulianDate float64
	// Phase is the position in the synodic month in [0, 1): 0 new, 0.5 full.
	Phase float64
	// Age is the number of days since the last new moon.
	Age float64
	// Illumination is the lit fraction of the visible disk in [0, 1].
	Illumination float64
	// Distance is the Earth-Moon distance in Earth radii.
	Distance float64
	// Lunation counts synodic months since LunationBase. Instants before the
	// first new moon of lunation 1 yield zero or negative values.
	Lunation int64
}

// New computes the lunar state for t.
func New(t time.Time) (Moon, error) {
	return FromJulianDate(JulianDate(t))
}

// FromUnix computes the lunar state for a signed, fractional count of
// seconds since the Unix epoch.
func FromUnix(seconds float64) (Moon, error) {
	if !finite(seconds) {
		return Moon{}, ErrNonFinite
	}
	return FromJulianDate(JulianDateFromUnix(seconds))
}

// FromJulianDate computes the lunar state for a Julian date.
func FromJulianDate(jd float64) (Moon, error) {
	if !finite(jd) {
		return Moon{}, ErrNonFinite
	}

	lunation, err := Lunation(jd)
	if err != nil {
		return Moon{}, err
	}

	phase := PhaseFraction(jd)

	return Moon{
		JulianDate:   jd,
		Phase:        phase,
		Age:          phase * OrbitPeriod,
		Illumination: Illumination(phase),
		Distance:     Distance(phase, jd),
		Lunation:     lunation,
	}, nil
}

// JulianDate converts t to a Julian date. Instants before 1970 produce
// negative Unix seconds and therefore earlier Julian dates.
func JulianDate(t time.Time) float64 {
	seconds := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return JulianDateFromUnix(seconds)
}

// JulianDateFromUnix converts signed seconds since the Unix epoch to a Julian date.
func JulianDateFromUnix(seconds float64) float64 {
	return seconds/SecondsPerDay + UnixEpochJD
}

// PhaseFraction returns the position of jd within the synodic month, in [0, 1).
func PhaseFraction(jd float64) float64 {
	return fract((jd - OrbitOffset) / OrbitPeriod)
}

// DistancePhase returns the position of jd within the anomalistic month, in [0, 1).
func DistancePhase(jd float64) float64 {
	return fract((jd - DistanceOffset) / DistancePeriod)
}

// Illumination returns the lit fraction of the disk for a phase fraction.
func Illumination(phase float64) float64 {
	return 0.5 * (1 - math.Cos(2*math.Pi*phase))
}

// Lunation returns the lunation number containing jd.
func Lunation(jd float64) (int64, error) {
	n := math.Floor(1 + (jd-LunationBase)/OrbitPeriod)
	if !finite(n) || n >= math.MaxInt64 || n < math.MinInt64 {
		return 0, fmt.Errorf("%w: jd %g", ErrOutOfRange, jd)
	}
	return int64(n), nil
}

// Distance returns the Earth-Moon distance in Earth radii using a three-term
// perturbation series over the synodic and anomalistic phases.
func Distance(phase, jd float64) float64 {
	dp := 2 * math.Pi * DistancePhase(jd)
	p := 2 * 2 * math.Pi * phase

	return 60.4 - 3.3*math.Cos(dp) - 0.6*math.Cos(p-dp) - 0.5*math.Cos(p)
}

// DistanceKm returns the Earth-Moon distance in kilometers.
func (m Moon) DistanceKm() float64 {
	return m.Distance * EarthRadiusKm
}

// IsWaning reports whether the Moon is in the first half of the synodic
// month. Exactly at the midpoint neither IsWaning nor IsWaxing holds.
func (m Moon) IsWaning() bool {
	return m.Age < OrbitPeriod/2
}

// IsWaxing reports whether the Moon is in the second half of the synodic month.
func (m Moon) IsWaxing() bool {
	return m.Age > OrbitPeriod/2
}

// CurrentPhase returns the phase table entry containing m.Phase.
func (m Moon) CurrentPhase() Phase {
	p, _ := PhaseFor(m.Phase)
	return p
}

// PhaseName returns the phase name, or Unknown.
func (m Moon) PhaseName() string {
	return m.CurrentPhase().Name
}

// PhaseEmoji returns the phase emoji, or Unknown.
func (m Moon) PhaseEmoji() string {
	return m.CurrentPhase().Emoji
}

func (m Moon) String() string {
	return fmt.Sprintf("%s %s (%.1f%% lit, day %.1f)",
		m.PhaseEmoji(), m.PhaseName(), m.Illumination*100, m.Age)
}

// fract returns x modulo 1 in [0, 1).
func fract(x float64) float64 {
	f := math.Mod(x, 1)
	if f < 0 {
		f += 1
	}
	// Adding 1 to a tiny negative remainder rounds to exactly 1.
	if f >= 1 {
		f = 0
	}
	return f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
