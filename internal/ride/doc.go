// Package ride defines the in-memory representation of a recorded activity.
//
// A Recording is an ordered series of Samples plus the metadata needed to
// render it back out: the start time, the device that produced it, and the
// nominal sampling period. Readers in internal/formats populate recordings;
// internal/gcxml serializes them. Neither retains a mutable reference to the
// samples after returning.
//
// Validate is the boundary between malformed input and internal invariants:
// code that receives a recording from a reader calls Validate before handing
// it to components that assume ordered, non-negative timestamps.
package ride
