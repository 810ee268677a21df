package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-moon/pkg/lunar"
)

// parseAt resolves the --at flag. Accepted forms are RFC3339, a bare
// YYYY-MM-DD date (midnight UTC), or signed, fractional Unix seconds.
// An empty value means now.
func parseAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --at %q: want RFC3339, YYYY-MM-DD or unix seconds", s)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("parse --at %q: %w", s, lunar.ErrNonFinite)
	}

	whole, frac := math.Modf(secs)
	if whole >= math.MaxInt64 || whole < math.MinInt64 {
		return time.Time{}, fmt.Errorf("parse --at %q: %w", s, lunar.ErrOutOfRange)
	}
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC(), nil
}
