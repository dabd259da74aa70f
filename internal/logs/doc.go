// Package logs reads back the daily JSON log files written by the CLI.
//
// Tail returns the last matching records with bounded memory, and Follow polls
// the file for records appended after a byte offset. Both filter by run
// identifier and minimum level so `ridefile logs --run <id>` can replay one
// invocation. Callers supply context deadlines so polling shuts down cleanly
// when the CLI exits.
package logs
