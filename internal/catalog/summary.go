package catalog

import (
	"ridefile/internal/ride"
	"ridefile/internal/segment"
)

// EntryFromRecording builds the catalog row for a decoded ride. The interval
// count is the number of segments the canonical writer would emit.
func EntryFromRecording(path, suffix string, rec *ride.Recording) Entry {
	return Entry{
		Path:           path,
		Suffix:         suffix,
		StartTime:      rec.StartTime,
		DeviceType:     rec.DeviceType,
		SamplingPeriod: rec.SamplingPeriod,
		SampleCount:    rec.Len(),
		IntervalCount:  len(segment.Boundaries(rec.Samples)),
		DurationSecs:   rec.Duration(),
		DistanceKM:     rec.Distance(),
		HasTorque:      rec.HasTorque(),
	}
}
