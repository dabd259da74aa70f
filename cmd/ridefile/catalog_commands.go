package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ridefile/internal/catalog"
)

type catalogEntryView struct {
	ID             string    `json:"id"`
	Path           string    `json:"path"`
	Suffix         string    `json:"suffix"`
	StartTime      time.Time `json:"start_time"`
	DeviceType     string    `json:"device_type"`
	SamplingPeriod float64   `json:"sampling_period"`
	Samples        int       `json:"samples"`
	Intervals      int       `json:"intervals"`
	DurationSecs   float64   `json:"duration_secs"`
	DistanceKM     float64   `json:"distance_km"`
	HasTorque      bool      `json:"has_torque"`
	ExportPath     string    `json:"export_path,omitempty"`
	ImportedAt     time.Time `json:"imported_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func viewFromEntry(e catalog.Entry) catalogEntryView {
	return catalogEntryView{
		ID:             e.ID,
		Path:           e.Path,
		Suffix:         e.Suffix,
		StartTime:      e.StartTime,
		DeviceType:     e.DeviceType,
		SamplingPeriod: e.SamplingPeriod,
		Samples:        e.SampleCount,
		Intervals:      e.IntervalCount,
		DurationSecs:   e.DurationSecs,
		DistanceKM:     e.DistanceKM,
		HasTorque:      e.HasTorque,
		ExportPath:     e.ExportPath,
		ImportedAt:     e.ImportedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and maintain the ride catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))
	return catalogCmd
}

func (c *commandContext) openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger(cmd.Context())
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg, logger)
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var (
		filter catalog.Filter
		since  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued rides ordered by start time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if since != "" {
				ts, err := time.ParseInLocation("2006-01-02", since, time.Local)
				if err != nil {
					return fmt.Errorf("--since must be YYYY-MM-DD: %w", err)
				}
				filter.Since = ts
			}
			store, err := ctx.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				views := make([]catalogEntryView, 0, len(entries))
				for _, e := range entries {
					views = append(views, viewFromEntry(e))
				}
				return writeJSON(cmd, views)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.ID,
					e.StartTime.Local().Format("2006-01-02 15:04"),
					e.DeviceType,
					formatSeconds(e.DurationSecs),
					strconv.FormatFloat(e.DistanceKM, 'f', 2, 64),
					strconv.Itoa(e.IntervalCount),
					e.Path,
				})
			}
			writeRows(cmd.OutOrStdout(),
				[]string{"ID", "Start", "Device", "Duration", "km", "Intervals", "Path"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Device, "device", "", "Only rides recorded by this device (case-insensitive)")
	cmd.Flags().StringVar(&filter.Suffix, "suffix", "", "Only rides imported from this format")
	cmd.Flags().StringVar(&since, "since", "", "Only rides starting on or after this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of rides to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit entries as JSON")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, viewFromEntry(*entry))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:              %s\n", entry.ID)
			fmt.Fprintf(out, "Path:            %s\n", entry.Path)
			fmt.Fprintf(out, "Format:          %s\n", entry.Suffix)
			fmt.Fprintf(out, "Start:           %s\n", entry.StartTime.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Device:          %s\n", entry.DeviceType)
			fmt.Fprintf(out, "Sampling period: %s s\n", formatNumber(entry.SamplingPeriod))
			fmt.Fprintf(out, "Samples:         %d\n", entry.SampleCount)
			fmt.Fprintf(out, "Intervals:       %d\n", entry.IntervalCount)
			fmt.Fprintf(out, "Duration:        %s\n", formatSeconds(entry.DurationSecs))
			fmt.Fprintf(out, "Distance:        %.3f km\n", entry.DistanceKM)
			fmt.Fprintf(out, "Torque:          %s\n", yesNo(entry.HasTorque))
			if entry.ExportPath != "" {
				fmt.Fprintf(out, "Export:          %s\n", entry.ExportPath)
			}
			fmt.Fprintf(out, "Imported:        %s\n", entry.ImportedAt.Local().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the entry as JSON")
	return cmd
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove entries from the catalog (ride files are left untouched)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Remove(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			}
			return nil
		},
	}
}
