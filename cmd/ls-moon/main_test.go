package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testInstant = time.Date(2024, 4, 8, 18, 21, 0, 0, time.UTC)

// withFlags sets the headless flag globals for one test and restores them.
func withFlags(t *testing.T, summary, now bool, snapshot string, days int) {
	t.Helper()
	oldSummary, oldNow, oldSnap, oldDays := summaryMode, nowMode, snapshotPath, calendarDays
	summaryMode, nowMode, snapshotPath, calendarDays = summary, now, snapshot, days
	t.Cleanup(func() {
		summaryMode, nowMode, snapshotPath, calendarDays = oldSummary, oldNow, oldSnap, oldDays
	})
}

func TestWriteOutputs_Now(t *testing.T) {
	withFlags(t, true, true, "", 7)

	var buf bytes.Buffer
	if err := writeOutputs(&buf, testInstant); err != nil {
		t.Fatalf("writeOutputs() error = %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("now mode should print one line and nothing else, got %q", buf.String())
	}
}

func TestWriteOutputs_SummaryAndCalendar(t *testing.T) {
	withFlags(t, true, false, "", 7)

	var buf bytes.Buffer
	if err := writeOutputs(&buf, testInstant); err != nil {
		t.Fatalf("writeOutputs() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Moon @") {
		t.Errorf("missing summary:\n%s", out)
	}
	if !strings.Contains(out, "Lunar calendar from 2024-04-08 (7 days)") {
		t.Errorf("missing calendar:\n%s", out)
	}
}

func TestWriteOutputs_SnapshotStdout(t *testing.T) {
	withFlags(t, false, false, "-", 0)

	var buf bytes.Buffer
	if err := writeOutputs(&buf, testInstant); err != nil {
		t.Fatalf("writeOutputs() error = %v", err)
	}

	var decoded struct {
		PhaseName string `json:"phase_name"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, buf.String())
	}
	if decoded.PhaseName == "" {
		t.Error("phase_name is empty")
	}
}

func TestWriteOutputs_SnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moon.json")
	withFlags(t, false, false, path, 0)

	var buf bytes.Buffer
	if err := writeOutputs(&buf, testInstant); err != nil {
		t.Fatalf("writeOutputs() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("stdout should be empty when writing to a file, got %q", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("snapshot file is not valid JSON:\n%s", data)
	}
}
