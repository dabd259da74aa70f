package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ridefile/internal/fileutil"
	"ridefile/internal/formats/csv"
	"ridefile/internal/gcxml"
	"ridefile/internal/logging"
	"ridefile/internal/ride"
)

const stdoutTarget = "-"

type rideWriter func(io.Writer, *ride.Recording) error

var outputFormats = map[string]rideWriter{
	"gc":  gcxml.Write,
	"csv": csv.Write,
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a ride file to the canonical document",
		Long: "Read <file> with the reader registered for its suffix and write it as a canonical .gc document.\n" +
			"Without -o the result goes to paths.export_dir under the input's base name; -o - writes to stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			write, ok := outputFormats[strings.ToLower(format)]
			if !ok {
				return fmt.Errorf("unsupported output format %q (want gc or csv)", format)
			}
			reg, err := ctx.ensureRegistry(cmd.Context())
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.Context())
			if err != nil {
				return err
			}

			src := args[0]
			rec, err := reg.Open(cmd.Context(), src)
			if err != nil {
				return err
			}

			if output == stdoutTarget {
				return write(cmd.OutOrStdout(), rec)
			}

			target := output
			if target == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				if strings.TrimSpace(cfg.Paths.ExportDir) == "" {
					return errors.New("paths.export_dir is not set; pass -o")
				}
				if err := os.MkdirAll(cfg.Paths.ExportDir, 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}
				base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
				target = filepath.Join(cfg.Paths.ExportDir, base+"."+strings.ToLower(format))
			}
			if same, _ := samePath(src, target); same {
				return fmt.Errorf("refusing to overwrite input %s; pass -o", src)
			}

			if err := fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error { return write(w, rec) }); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			logger.Info("ride converted",
				logging.String(logging.FieldPath, src),
				logging.String("output", target),
				logging.Int("samples", rec.Len()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, or - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "gc", "Output format: gc or csv")
	return cmd
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
