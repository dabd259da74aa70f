package ride

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNegativeTime = errors.New("negative sample time")
	ErrUnordered    = errors.New("sample times out of order")
)

// Sample is one timestamped observation within a recording.
type Sample struct {
	Secs     float64 // elapsed seconds since the recording started
	Cad      float64 // cadence, rpm
	HR       float64 // heart rate, bpm
	KM       float64 // cumulative distance
	KPH      float64 // speed
	Watts    float64
	Nm       float64 // torque; only meaningful when Watts > 0
	Interval int     // caller-assigned label for a contiguous run of samples
}

// Recording is a complete activity session.
type Recording struct {
	StartTime      time.Time
	DeviceType     string
	SamplingPeriod float64 // seconds
	Samples        []Sample
}

// New returns an empty recording with the supplied metadata.
func New(start time.Time, deviceType string, samplingPeriod float64) *Recording {
	return &Recording{
		StartTime:      start,
		DeviceType:     deviceType,
		SamplingPeriod: samplingPeriod,
	}
}

// Append adds a sample to the end of the recording.
func (r *Recording) Append(s Sample) {
	r.Samples = append(r.Samples, s)
}

// Len returns the number of samples.
func (r *Recording) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Samples)
}

// Duration returns the elapsed seconds of the final sample, or zero for an
// empty recording.
func (r *Recording) Duration() float64 {
	if r.Len() == 0 {
		return 0
	}
	return r.Samples[len(r.Samples)-1].Secs
}

// Distance returns the cumulative distance of the final sample.
func (r *Recording) Distance() float64 {
	if r.Len() == 0 {
		return 0
	}
	return r.Samples[len(r.Samples)-1].KM
}

// HasTorque reports whether any sample carries a positive torque value.
func (r *Recording) HasTorque() bool {
	if r == nil {
		return false
	}
	for _, s := range r.Samples {
		if s.Nm > 0 {
			return true
		}
	}
	return false
}

// ValidationError identifies the first sample that breaks the ordering
// contract of a recording.
type ValidationError struct {
	Index int
	Secs  float64
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sample %d (secs=%g): %v", e.Index, e.Secs, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for metrics and status reporting.
func (e *ValidationError) ErrorKind() string { return "validation" }

// Validate checks that sample times are non-negative and non-decreasing.
func (r *Recording) Validate() error {
	if r == nil {
		return errors.New("recording is nil")
	}
	prev := 0.0
	for i, s := range r.Samples {
		if s.Secs < 0 {
			return &ValidationError{Index: i, Secs: s.Secs, Err: ErrNegativeTime}
		}
		if i > 0 && s.Secs < prev {
			return &ValidationError{Index: i, Secs: s.Secs, Err: ErrUnordered}
		}
		prev = s.Secs
	}
	return nil
}
