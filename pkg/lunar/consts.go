// Package lunar computes the Moon's phase, age, illumination, distance and
// lunation number from a point in time using closed-form periodic
// approximations.
package lunar

// Orbital constants. Periods are in days, offsets are Julian dates.
const (
	// OrbitPeriod is the mean synodic month (new moon to new moon).
	OrbitPeriod = 29.53058770576
	// OrbitOffset is the Julian date of the reference new moon used for phase.
	OrbitOffset = 2451550.26

	// DistancePeriod is the mean anomalistic month (perigee to perigee).
	DistancePeriod = 27.55454988
	// DistanceOffset is the Julian date of the reference perigee.
	DistanceOffset = 2451562.2

	// LunationBase is the Julian date of the first new moon of lunation 1.
	LunationBase = 2423436.6115277777

	// EarthRadiusKm is the mean radius of the Earth.
	EarthRadiusKm = 6371.0084
)

// Time conversion constants.
const (
	// UnixEpochJD is the Julian date of 1970-01-01T00:00:00Z.
	UnixEpochJD   = 2440587.5
	SecondsPerDay = 86400.0
)

// Phase is a named slice of the synodic month expressed as a half-open
// fraction range [Start, End).
type Phase struct {
	Name  string
	Emoji string
	Start float64
	End   float64
}

// Phases partitions [0, 1) into the eight traditional phases, ordered by Start.
var Phases = [8]Phase{
	{Emoji: "🌑", Name: "New Moon", Start: 0.0, End: 0.02},
	{Emoji: "🌒", Name: "Waxing Crescent", Start: 0.02, End: 0.22},
	{Emoji: "🌓", Name: "First Quarter", Start: 0.22, End: 0.27},
	{Emoji: "🌔", Name: "Waxing Gibbous", Start: 0.27, End: 0.47},
	{Emoji: "🌕", Name: "Full Moon", Start: 0.47, End: 0.52},
	{Emoji: "🌖", Name: "Waning Gibbous", Start: 0.52, End: 0.72},
	{Emoji: "🌗", Name: "Last Quarter", Start: 0.72, End: 0.77},
	{Emoji: "🌘", Name: "Waning Crescent", Start: 0.77, End: 1.0},
}

// Unknown is returned by the name and emoji lookups when no phase matches.
const Unknown = "Unknown"

// Contains reports whether fraction falls inside [p.Start, p.End).
func (p Phase) Contains(fraction float64) bool {
	return fraction >= p.Start && fraction < p.End
}

// PhaseFor returns the phase whose range contains fraction.
func PhaseFor(fraction float64) (Phase, bool) {
	for _, p := range Phases {
		if p.Contains(fraction) {
			return p, true
		}
	}
	return Phase{Name: Unknown, Emoji: Unknown}, false
}
