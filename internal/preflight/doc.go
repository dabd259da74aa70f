// Package preflight provides readiness checks for the filesystem paths that
// ridefile depends on.
//
// The import command runs RunAll before taking the catalog lock so a missing
// or read-only directory fails fast instead of halfway through a batch. The
// "config validate" command prints the same results as a table.
package preflight
