package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ridefile/internal/logging"
	"ridefile/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		query  logs.Query
		date   string
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show records from the daily log file",
		Long:  "Print records from paths.log_dir. Use --run with an id from an earlier invocation to replay just that run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.LogDir) == "" {
				return errors.New("file logging is disabled; set paths.log_dir")
			}
			day := time.Now()
			if date != "" {
				day, err = time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
			}
			path := logging.LogFilePath(cfg.Paths.LogDir, day)

			entries, offset, err := logs.Tail(path, query)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				printEntry(out, e)
			}
			if !follow {
				return nil
			}
			err = logs.Follow(cmd.Context(), path, offset, query, 0, func(e logs.Entry) {
				printEntry(out, e)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&query.RunID, "run", "", "Only records from this run id")
	cmd.Flags().StringVar(&query.MinLevel, "level", "info", "Minimum level: debug, info, warn, or error")
	cmd.Flags().IntVarP(&query.Limit, "lines", "n", 50, "Number of records to show (0 for all)")
	cmd.Flags().StringVar(&date, "date", "", "Read the file for this day (YYYY-MM-DD) instead of today")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new records until interrupted")
	return cmd
}

func printEntry(w io.Writer, e logs.Entry) {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", strings.ToUpper(e.Level), e.Message)
	for _, key := range e.FieldKeys() {
		fmt.Fprintf(&b, " %s=%v", key, e.Fields[key])
	}
	if e.RunID != "" {
		fmt.Fprintf(&b, " run=%s", e.RunID)
	}
	fmt.Fprintln(w, b.String())
}
