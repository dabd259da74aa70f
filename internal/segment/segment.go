// Package segment groups a recording's samples into contiguous interval runs.
package segment

import (
	"fmt"

	"ridefile/internal/ride"
)

// Boundary summarizes one contiguous run of samples sharing an interval label.
type Boundary struct {
	Label     int
	BeginSecs float64
	EndSecs   float64
}

// Segmenter accumulates boundaries over a single forward pass. The zero value
// is ready to use and starts its first run at 0.0 with label 0.
type Segmenter struct {
	runStart float64
	current  int
	prev     float64
	seen     bool
	out      []Boundary
}

// Observe feeds the next sample in recording order. A negative timestamp
// means the recording skipped validation and panics.
func (s *Segmenter) Observe(sample ride.Sample) {
	if sample.Secs < 0 {
		panic(fmt.Sprintf("segment: negative sample time %g", sample.Secs))
	}
	if sample.Interval != s.current {
		s.out = append(s.out, Boundary{Label: s.current, BeginSecs: s.runStart, EndSecs: s.prev})
		s.runStart = sample.Secs
		s.current = sample.Interval
	}
	s.prev = sample.Secs
	s.seen = true
}

// Flush closes the open run and returns every boundary collected. An empty
// pass returns nil. The segmenter must not be reused afterwards.
func (s *Segmenter) Flush() []Boundary {
	if !s.seen {
		return nil
	}
	out := append(s.out, Boundary{Label: s.current, BeginSecs: s.runStart, EndSecs: s.prev})
	s.out = nil
	return out
}

// Boundaries runs a full pass over samples.
func Boundaries(samples []ride.Sample) []Boundary {
	var s Segmenter
	for _, sample := range samples {
		s.Observe(sample)
	}
	return s.Flush()
}
