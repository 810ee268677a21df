// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Calendar view, phase transition search, JSON snapshot export
// 0.2.0 - Time travel in the TUI, phase-change events
// 0.1.0 - Initial release: lunar dashboard, headless summary and now-line modes
