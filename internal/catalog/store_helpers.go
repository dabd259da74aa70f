package catalog

import (
	"database/sql"
	"fmt"
	"time"
)

const entryColumns = "id, path, suffix, start_time, device_type, sampling_period, sample_count, interval_count, duration_secs, distance_km, has_torque, export_path, imported_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		e           Entry
		startRaw    string
		hasTorque   int64
		exportPath  sql.NullString
		importedRaw string
		updatedRaw  string
	)
	if err := scanner.Scan(
		&e.ID,
		&e.Path,
		&e.Suffix,
		&startRaw,
		&e.DeviceType,
		&e.SamplingPeriod,
		&e.SampleCount,
		&e.IntervalCount,
		&e.DurationSecs,
		&e.DistanceKM,
		&hasTorque,
		&exportPath,
		&importedRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	var err error
	if e.StartTime, err = parseTimestamp(startRaw); err != nil {
		return nil, fmt.Errorf("entry %s start_time: %w", e.ID, err)
	}
	if e.ImportedAt, err = parseTimestamp(importedRaw); err != nil {
		return nil, fmt.Errorf("entry %s imported_at: %w", e.ID, err)
	}
	if e.UpdatedAt, err = parseTimestamp(updatedRaw); err != nil {
		return nil, fmt.Errorf("entry %s updated_at: %w", e.ID, err)
	}
	e.HasTorque = hasTorque != 0
	if exportPath.Valid {
		e.ExportPath = exportPath.String
	}
	return &e, nil
}

// timestampLayout keeps all nine fraction digits so stored values have a fixed
// width and compare lexically in time order. RFC3339Nano trims trailing zeros,
// which sorts ":00.5Z" before ":00Z".
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp also accepts the trimmed form written by older catalogs.
func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
