package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"ridefile/internal/logging"
	"ridefile/internal/observability"
)

// Upsert stores entry keyed by its absolute path. A new path receives a fresh
// UUID; an existing path keeps its ID and original import time while every
// summary column is replaced.
func (s *Store) Upsert(ctx context.Context, entry Entry) (*Entry, error) {
	ctx = ensureContext(ctx)
	path, err := filepath.Abs(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve entry path: %w", err)
	}
	entry.Path = path

	existing, err := s.GetByPath(ctx, path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := formatTimestamp(time.Now())
	outcome := OutcomeUpdated
	id := ""
	if existing != nil {
		id = existing.ID
	} else {
		outcome = OutcomeInserted
		id = uuid.NewString()
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO rides (
            id, path, suffix, start_time, device_type, sampling_period,
            sample_count, interval_count, duration_secs, distance_km,
            has_torque, export_path, imported_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            suffix = excluded.suffix,
            start_time = excluded.start_time,
            device_type = excluded.device_type,
            sampling_period = excluded.sampling_period,
            sample_count = excluded.sample_count,
            interval_count = excluded.interval_count,
            duration_secs = excluded.duration_secs,
            distance_km = excluded.distance_km,
            has_torque = excluded.has_torque,
            export_path = excluded.export_path,
            updated_at = excluded.updated_at`,
		id,
		entry.Path,
		entry.Suffix,
		formatTimestamp(entry.StartTime),
		entry.DeviceType,
		entry.SamplingPeriod,
		entry.SampleCount,
		entry.IntervalCount,
		entry.DurationSecs,
		entry.DistanceKM,
		boolToInt(entry.HasTorque),
		nullableString(entry.ExportPath),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert ride %s: %w", entry.Path, err)
	}

	observability.RecordCatalogUpsert(outcome)
	s.logger.Debug("catalog entry stored",
		logging.String("id", id),
		logging.String(logging.FieldPath, entry.Path),
		logging.String("outcome", outcome),
	)
	return s.Get(ctx, id)
}

// Get returns the entry with the given ID, or a *NotFoundError.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM rides WHERE id = ?", strings.TrimSpace(id))
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return entry, nil
}

// GetByPath returns the entry for an absolute source path.
func (s *Store) GetByPath(ctx context.Context, path string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM rides WHERE path = ?", path)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: path}
	}
	if err != nil {
		return nil, fmt.Errorf("get entry for %s: %w", path, err)
	}
	return entry, nil
}

// ExportOwner returns the entry whose canonical export is exportPath.
func (s *Store) ExportOwner(ctx context.Context, exportPath string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM rides WHERE export_path = ? ORDER BY imported_at LIMIT 1", exportPath)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: exportPath}
	}
	if err != nil {
		return nil, fmt.Errorf("get export owner %s: %w", exportPath, err)
	}
	return entry, nil
}

// List returns entries matching filter ordered by start time, oldest first.
// Device matching uses Unicode case folding, which SQLite's LOWER does not
// provide, so that part of the filter runs after the query.
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	ctx = ensureContext(ctx)

	var (
		clauses []string
		args    []any
	)
	if suffix := strings.TrimSpace(filter.Suffix); suffix != "" {
		clauses = append(clauses, "suffix = ?")
		args = append(args, suffix)
	}
	if !filter.Since.IsZero() {
		clauses = append(clauses, "start_time >= ?")
		args = append(args, formatTimestamp(filter.Since))
	}
	query := "SELECT " + entryColumns + " FROM rides"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY start_time, path"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	folder := cases.Fold()
	device := folder.String(strings.TrimSpace(filter.Device))

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if device != "" && folder.String(entry.DeviceType) != device {
			continue
		}
		entries = append(entries, *entry)
		if filter.Limit > 0 && len(entries) >= filter.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry with the given ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM rides WHERE id = ?", strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("remove entry %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}
	s.logger.Debug("catalog entry removed", logging.String("id", id))
	return nil
}

// Count returns the number of catalogued rides.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM rides").Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}
