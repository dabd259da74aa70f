// Package formats wires the built-in ride readers into a registry.
package formats

import (
	"fmt"

	"ridefile/internal/formats/csv"
	"ridefile/internal/formats/gc"
	"ridefile/internal/formats/tcx"
	"ridefile/internal/rideformat"
)

// RegisterBuiltins adds every reader shipped with ridefile to reg. It fails
// if any built-in suffix was already registered by the caller.
func RegisterBuiltins(reg *rideformat.Registry) error {
	builtins := []struct {
		suffix string
		reader rideformat.Reader
		desc   string
	}{
		{gc.Suffix, gc.NewReader(), "Canonical ride document"},
		{csv.Suffix, csv.NewReader(), "Comma-separated ride export"},
		{tcx.Suffix, tcx.NewReader(), "Garmin Training Center XML"},
	}
	for _, b := range builtins {
		if err := reg.Register(b.suffix, b.reader, rideformat.WithDescription(b.desc)); err != nil {
			return fmt.Errorf("register %s reader: %w", b.suffix, err)
		}
	}
	return nil
}
