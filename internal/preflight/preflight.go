package preflight

import (
	"fmt"
	"strings"

	"ridefile/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks every directory the configuration points at. The ride
// directory only needs to be readable; everything ridefile writes into must
// also be writable. Optional directories are skipped when unset.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Ride directory", cfg.Paths.RideDir, false),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir, true),
	}
	if cfg.Import.ExportCanonical {
		results = append(results, CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir, true))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, true))
	}
	return results
}

// Failed joins the details of every failed result into one error, or returns
// nil when all checks passed.
func Failed(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name+": "+r.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(failed, "; "))
}
