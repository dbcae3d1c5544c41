// Package logging assembles structured slog loggers for soundmod.
//
// It owns the console and JSON handlers, the per-build log file that mirrors
// console output, and the context helpers that tag log lines with the build
// identifier and pipeline stage. A no-op logger is provided for tests and for
// wiring code that cannot fail.
package logging
