// Package rideformat dispatches ride files to format-specific readers.
//
// A Registry maps a file suffix such as "gc" or "tcx" to exactly one Reader.
// Formats are added purely by registration at startup, so supporting a new
// device never touches the dispatch code. Open picks the reader from the path
// suffix and returns either a Recording or one of the typed errors in
// errors.go; ListMatching enumerates the files in a directory that some
// registered reader can open.
//
// The registry is constructed by the composition root and passed to the code
// that needs it. There is no package-level default instance.
package rideformat
