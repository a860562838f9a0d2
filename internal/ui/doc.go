// Package ui formats human-readable progress lines for the terminal.
//
// Detailed telemetry continues to flow through structured loggers; the
// reporter only prints one line per completed stage and a closing banner.
package ui
