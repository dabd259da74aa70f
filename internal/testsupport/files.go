package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ridefile/internal/gcxml"
	"ridefile/internal/ride"
)

// SampleRecording returns a short three-sample ride spanning two intervals.
func SampleRecording() *ride.Recording {
	rec := ride.New(time.Date(2008, 3, 1, 9, 30, 5, 0, time.Local), "SRM", 1.26)
	rec.Append(ride.Sample{Secs: 0, Cad: 90, HR: 140, KM: 0, KPH: 32.4, Watts: 250, Nm: 26.5, Interval: 1})
	rec.Append(ride.Sample{Secs: 1.26, Cad: 91, HR: 141, KM: 0.011, KPH: 32.6, Watts: 255, Nm: 26.9, Interval: 1})
	rec.Append(ride.Sample{Secs: 2.52, Cad: 92, HR: 142, KM: 0.022, KPH: 33.0, Watts: 260, Nm: 27.0, Interval: 2})
	return rec
}

// WriteRide writes rec as a canonical document at path, creating parents.
func WriteRide(t testing.TB, path string, rec *ride.Recording) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := gcxml.WriteFile(path, rec); err != nil {
		t.Fatalf("write ride %s: %v", path, err)
	}
}

// WriteFile writes content to path, creating parents.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
