package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ridefile/internal/catalog"
	"ridefile/internal/config"
	"ridefile/internal/fileutil"
	"ridefile/internal/formats/gc"
	"ridefile/internal/gcxml"
	"ridefile/internal/logging"
	"ridefile/internal/preflight"
	"ridefile/internal/ride"
	"ridefile/internal/rideformat"
)

// exportNameLayout names canonical copies after the ride start time.
const exportNameLayout = "2006_01_02_15_04_05"

type importSummary struct {
	Imported int
	Failed   int
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var noExport bool

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Add every readable ride in a directory to the catalog",
		Long: "Open each file in dir (default paths.ride_dir) whose suffix has a registered reader and record it in the catalog.\n" +
			"Files that fail to decode are reported and skipped. Unless disabled, a canonical copy of each ride is written\n" +
			"to paths.export_dir named after its start time.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if noExport {
				cfg.Import.ExportCanonical = false
			}
			dir, err := ctx.rideDir(args)
			if err != nil {
				return err
			}
			reg, err := ctx.ensureRegistry(cmd.Context())
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.Context())
			if err != nil {
				return err
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			checkCfg := *cfg
			checkCfg.Paths.RideDir = dir
			if err := preflight.Failed(preflight.RunAll(&checkCfg)); err != nil {
				return err
			}

			lock, err := catalog.AcquireImportLock(cmd.Context(), cfg.ImportLockPath(), cfg.ImportLockTimeout())
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					logger.Warn("import lock release failed", logging.Error(err))
				}
			}()

			store, err := catalog.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			started := time.Now()
			summary, err := importDirectory(cmd.Context(), cmd.OutOrStdout(), cfg, reg, store, logger, dir)
			if err != nil {
				return err
			}
			logger.Info("import finished",
				logging.String(logging.FieldPath, dir),
				logging.Int("imported", summary.Imported),
				logging.Int("failed", summary.Failed),
				logging.Duration("elapsed", time.Since(started)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rides (%d failed)\n", summary.Imported, summary.Failed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Skip writing canonical copies to the export directory")
	return cmd
}

func importDirectory(
	ctx context.Context,
	out io.Writer,
	cfg *config.Config,
	reg *rideformat.Registry,
	store *catalog.Store,
	logger *slog.Logger,
	dir string,
) (importSummary, error) {
	var summary importSummary

	names, err := reg.ListMatching(dir)
	if err != nil {
		return summary, err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		path := filepath.Join(dir, name)
		entry, err := importFile(ctx, cfg, reg, store, path)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return summary, err
			}
			summary.Failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
			logging.WarnWithContext(logger, "ride import skipped", "import_file_failed",
				logging.String(logging.FieldPath, path),
				logging.String("error_kind", rideformat.Kind(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run ridefile inspect on the file for details"),
				logging.String(logging.FieldImpact, "ride is missing from the catalog"),
			)
			continue
		}
		summary.Imported++
		fmt.Fprintf(out, "OK   %s %s\n", name, entry.ID)
	}
	return summary, nil
}

func importFile(
	ctx context.Context,
	cfg *config.Config,
	reg *rideformat.Registry,
	store *catalog.Store,
	path string,
) (*catalog.Entry, error) {
	rec, err := reg.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	suffix, _ := rideformat.Suffix(path)
	entry := catalog.EntryFromRecording(path, suffix, rec)

	if cfg.Import.ExportCanonical {
		target, err := exportTarget(ctx, store, cfg.Paths.ExportDir, path, rec.StartTime)
		if err != nil {
			return nil, err
		}
		if err := exportCanonical(path, suffix, target, rec); err != nil {
			return nil, err
		}
		entry.ExportPath = target
	}
	return store.Upsert(ctx, entry)
}

// exportTarget names the canonical copy of the ride at path after its start
// time. When another catalogued ride already owns that name, the source file's
// base name is appended, then a counter.
func exportTarget(ctx context.Context, store *catalog.Store, exportDir, path string, start time.Time) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	stamp := start.Format(exportNameLayout)
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for n := 0; ; n++ {
		name := stamp
		switch {
		case n == 1:
			name += "_" + stem
		case n > 1:
			name += fmt.Sprintf("_%s_%d", stem, n)
		}
		target := filepath.Join(exportDir, name+"."+gc.Suffix)
		owner, err := store.ExportOwner(ctx, target)
		if errors.Is(err, catalog.ErrNotFound) {
			return target, nil
		}
		if err != nil {
			return "", err
		}
		if owner.Path == abs {
			return target, nil
		}
	}
}

// exportCanonical writes the canonical copy of a ride. Files already in the
// canonical format are copied byte for byte rather than re-serialized.
func exportCanonical(src, suffix, target string, rec *ride.Recording) error {
	if suffix == gc.Suffix {
		if same, _ := samePath(src, target); same {
			return nil
		}
		if err := fileutil.CopyFileVerified(src, target); err != nil {
			_ = os.Remove(target)
			return fmt.Errorf("copy %s to export: %w", src, err)
		}
		return nil
	}
	if err := gcxml.WriteFile(target, rec); err != nil {
		return fmt.Errorf("export %s: %w", src, err)
	}
	return nil
}
