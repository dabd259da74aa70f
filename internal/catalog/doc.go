// Package catalog keeps a SQLite index of imported ride files.
//
// Each entry is keyed by the absolute path of the source file and carries the
// summary figures shown by the CLI (duration, distance, interval count) so
// listing the catalog never re-reads ride files. Imports are serialized across
// processes with an advisory file lock next to the database.
package catalog
