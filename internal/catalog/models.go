package catalog

import "time"

// Entry is one catalogued ride.
type Entry struct {
	ID             string
	Path           string
	Suffix         string
	StartTime      time.Time
	DeviceType     string
	SamplingPeriod float64
	SampleCount    int
	IntervalCount  int
	DurationSecs   float64
	DistanceKM     float64
	HasTorque      bool
	ExportPath     string
	ImportedAt     time.Time
	UpdatedAt      time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	// Device matches DeviceType ignoring case.
	Device string
	// Suffix matches the source format exactly.
	Suffix string
	// Since excludes rides that started before it.
	Since time.Time
	// Limit caps the number of entries returned when positive.
	Limit int
}

// Upsert outcomes reported to metrics.
const (
	OutcomeInserted = "inserted"
	OutcomeUpdated  = "updated"
)
