package main

import (
	"errors"
	"testing"
	"time"

	"github.com/litescript/ls-moon/pkg/lunar"
)

func TestParseAt(t *testing.T) {
	now := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"empty is now", "", now},
		{"RFC3339", "2024-04-08T18:21:00Z", time.Date(2024, 4, 8, 18, 21, 0, 0, time.UTC)},
		{"RFC3339 with offset", "2024-04-08T20:21:00+02:00", time.Date(2024, 4, 8, 18, 21, 0, 0, time.UTC)},
		{"Date only", "1969-07-20", time.Date(1969, 7, 20, 0, 0, 0, 0, time.UTC)},
		{"Unix seconds", "947182464", time.Date(2000, 1, 6, 18, 14, 24, 0, time.UTC)},
		{"Negative unix seconds", "-86400.5", time.Date(1969, 12, 30, 23, 59, 59, 500000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAt(tt.in, now)
			if err != nil {
				t.Fatalf("parseAt(%q) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseAt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAt_Errors(t *testing.T) {
	now := time.Now()

	if _, err := parseAt("yesterday", now); err == nil {
		t.Error("parseAt(yesterday) should fail")
	}
	for _, in := range []string{"NaN", "Inf", "-Inf"} {
		if _, err := parseAt(in, now); !errors.Is(err, lunar.ErrNonFinite) {
			t.Errorf("parseAt(%q) error = %v, want ErrNonFinite", in, err)
		}
	}
}

func TestParseAt_OutOfRange(t *testing.T) {
	now := time.Now()

	for _, in := range []string{"1e19", "-1e19", "9.3e18", "1e300"} {
		if _, err := parseAt(in, now); !errors.Is(err, lunar.ErrOutOfRange) {
			t.Errorf("parseAt(%q) error = %v, want ErrOutOfRange", in, err)
		}
	}

	if _, err := parseAt("9.2e18", now); err != nil {
		t.Errorf("parseAt(9.2e18) error = %v, want nil", err)
	}
}
