package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ridefile/internal/rideformat"
	"ridefile/internal/ride"
	"ridefile/internal/segment"
)

type intervalReport struct {
	Label     int     `json:"label"`
	BeginSecs float64 `json:"begin_secs"`
	EndSecs   float64 `json:"end_secs"`
}

type inspectReport struct {
	Path           string           `json:"path"`
	Format         string           `json:"format"`
	StartTime      time.Time        `json:"start_time"`
	DeviceType     string           `json:"device_type"`
	SamplingPeriod float64          `json:"sampling_period"`
	Samples        int              `json:"samples"`
	DurationSecs   float64          `json:"duration_secs"`
	DistanceKM     float64          `json:"distance_km"`
	HasTorque      bool             `json:"has_torque"`
	Intervals      []intervalReport `json:"intervals"`
}

func newInspectReport(path string, rec *ride.Recording) inspectReport {
	suffix, _ := rideformat.Suffix(path)
	bounds := segment.Boundaries(rec.Samples)
	intervals := make([]intervalReport, 0, len(bounds))
	for _, b := range bounds {
		intervals = append(intervals, intervalReport{Label: b.Label, BeginSecs: b.BeginSecs, EndSecs: b.EndSecs})
	}
	return inspectReport{
		Path:           path,
		Format:         suffix,
		StartTime:      rec.StartTime,
		DeviceType:     rec.DeviceType,
		SamplingPeriod: rec.SamplingPeriod,
		Samples:        rec.Len(),
		DurationSecs:   rec.Duration(),
		DistanceKM:     rec.Distance(),
		HasTorque:      rec.HasTorque(),
		Intervals:      intervals,
	}
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the header, intervals, and totals of a ride file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.ensureRegistry(cmd.Context())
			if err != nil {
				return err
			}
			path := args[0]
			rec, err := reg.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			report := newInspectReport(path, rec)
			if asJSON {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:            %s\n", report.Path)
			fmt.Fprintf(out, "Format:          %s\n", report.Format)
			fmt.Fprintf(out, "Start:           %s\n", report.StartTime.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Device:          %s\n", report.DeviceType)
			fmt.Fprintf(out, "Sampling period: %s s\n", formatNumber(report.SamplingPeriod))
			fmt.Fprintf(out, "Samples:         %d\n", report.Samples)
			fmt.Fprintf(out, "Duration:        %s\n", formatSeconds(report.DurationSecs))
			fmt.Fprintf(out, "Distance:        %.3f km\n", report.DistanceKM)
			fmt.Fprintf(out, "Torque:          %s\n", yesNo(report.HasTorque))

			rows := make([][]string, 0, len(report.Intervals))
			for _, iv := range report.Intervals {
				rows = append(rows, []string{
					strconv.Itoa(iv.Label),
					strconv.FormatFloat(iv.BeginSecs, 'f', 2, 64),
					strconv.FormatFloat(iv.EndSecs, 'f', 2, 64),
				})
			}
			fmt.Fprintf(out, "Intervals:       %d\n", len(rows))
			writeRows(out, []string{"Interval", "Begin (s)", "End (s)"}, rows,
				[]columnAlignment{alignRight, alignRight, alignRight})
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	return cmd
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatSeconds renders a ride duration rounded to the second, e.g. "1h2m3s".
func formatSeconds(secs float64) string {
	return (time.Duration(secs * float64(time.Second))).Round(time.Second).String()
}
