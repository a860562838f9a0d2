// Package cli constructs the autopush command-line interface, wiring the
// Cobra root command, configuration loader, and structured logging
// primitives, and maps run failures to process exit codes.
package cli
