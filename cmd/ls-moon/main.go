// Command ls-moon shows the Moon's phase, illumination and distance in the
// terminal, either as a live TUI or as plain text and JSON for scripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-moon/internal/logging"
	"github.com/litescript/ls-moon/internal/report"
	"github.com/litescript/ls-moon/internal/state"
	"github.com/litescript/ls-moon/internal/ui"
	"github.com/litescript/ls-moon/internal/version"
)

// CLI flags for headless mode
var (
	atFlag        string
	summaryMode   bool
	nowMode       bool
	snapshotPath  string
	calendarDays  int
	watchInterval time.Duration
	showVersion   bool
)

const (
	defaultRefresh = time.Second
	minRefresh     = 100 * time.Millisecond
	maxRefresh     = 5 * time.Minute

	maxCalendarDays = 3660
)

func main() {
	refresh := flag.Duration("refresh", defaultRefresh, "TUI refresh interval (e.g., 1s, 1m)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&atFlag, "at", "", "Instant to show: RFC3339, YYYY-MM-DD or unix seconds (default now)")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.BoolVar(&nowMode, "now", false, "Single-line status mode")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.IntVar(&calendarDays, "calendar", 0, "Print an N-day lunar calendar")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 1h)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("ls-moon", version.Version)
		return
	}

	if *refresh < minRefresh {
		*refresh = minRefresh
	} else if *refresh > maxRefresh {
		*refresh = maxRefresh
	}

	logger := logging.New(logging.ParseLevel(*logLevel))

	if calendarDays > maxCalendarDays {
		logger.Warn("--calendar %d exceeds %d days, clamping", calendarDays, maxCalendarDays)
		calendarDays = maxCalendarDays
	}

	realNow := time.Now()
	at, err := parseAt(atFlag, realNow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// The clock starts at --at and keeps running from there.
	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = *refresh
	stateCfg.Clock = func() time.Time { return at.Add(time.Since(realNow)) }
	stateMgr := state.NewManager(stateCfg)

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	headless := summaryMode || nowMode || snapshotPath != "" || calendarDays > 0
	if !headless && !isTTY {
		logger.Debug("stdout is not a terminal, falling back to --summary")
		summaryMode = true
		headless = true
	}

	if headless {
		runHeadless(ctx, stateMgr, logger.Named("headless"))
		return
	}

	model := ui.New(stateMgr)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go runRefreshLoop(ctx, stateMgr, p, logger.Named("refresh"))

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runRefreshLoop(ctx context.Context, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	doRefresh(stateMgr, p, logger)

	ticker := time.NewTicker(stateMgr.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Refresh loop shutting down")
			return
		case <-ticker.C:
			doRefresh(stateMgr, p, logger)
		}
	}
}

func doRefresh(stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	if err := stateMgr.Refresh(); err != nil {
		logger.Error("Refresh failed: %v", err)
		p.Send(ui.ErrorMsg{Error: err})
		return
	}
	p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, stateMgr *state.Manager, logger *logging.Logger) {
	outputOnce := func() error {
		if err := stateMgr.Refresh(); err != nil {
			return fmt.Errorf("compute moon: %w", err)
		}
		logEvents(stateMgr, logger)

		return writeOutputs(os.Stdout, stateMgr.Snapshot().At)
	}

	// Single run
	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !nowMode {
				fmt.Println()
			}
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// writeOutputs renders every requested headless format for at.
func writeOutputs(w io.Writer, at time.Time) error {
	if nowMode {
		return report.WriteNowLine(w, at)
	}

	if snapshotPath != "" {
		if err := exportSnapshot(w, at); err != nil {
			return err
		}
	}

	if summaryMode {
		if err := report.WriteSummary(w, at); err != nil {
			return err
		}
	}

	if calendarDays > 0 {
		if summaryMode {
			fmt.Fprintln(w)
		}
		if err := report.WriteCalendar(w, at, calendarDays); err != nil {
			return err
		}
	}
	return nil
}

func exportSnapshot(stdout io.Writer, at time.Time) error {
	export, err := report.ExportSnapshot(at)
	if err != nil {
		return err
	}

	if snapshotPath == "-" {
		if err := export.WriteJSON(stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(snapshotPath)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	if err := export.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

// logEvents reports the most recent refresh's phase changes.
func logEvents(stateMgr *state.Manager, logger *logging.Logger) {
	snap := stateMgr.Snapshot()
	for _, e := range stateMgr.RecentEvents(2) {
		if !e.Timestamp.Equal(snap.At) {
			continue
		}
		switch e.Type {
		case state.EventNewLunation:
			logger.Info("Lunation %d began", e.Lunation)
		default:
			logger.Info("Phase changed: %s -> %s %s", e.OldPhase, e.Emoji, e.NewPhase)
		}
	}
}
