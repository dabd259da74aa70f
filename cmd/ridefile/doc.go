// Package main hosts the ridefile CLI entrypoint and command graph.
//
// The Cobra-based command tree lists, inspects and converts ride files
// through the format registry, imports them into the SQLite catalog, and
// replays the daily log. It centralizes configuration resolution, registry
// construction and structured logging setup so subcommands can focus on
// output instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
