// Package logging assembles structured slog loggers and formatting helpers used
// by the ridefile command and its packages.
//
// It owns the console and JSON handlers, the daily log file with its retention
// pruning, and context helpers that tag every line of one invocation with the
// same run identifier. A no-op logger is provided for tests and for library
// code constructed without a logger.
package logging
