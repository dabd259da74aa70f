package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ridefile/internal/catalog"
)

func TestImportLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "import.lock")
	ctx := context.Background()

	held, err := catalog.AcquireImportLock(ctx, path, 0)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	_, err = catalog.AcquireImportLock(ctx, path, 0)
	if !errors.Is(err, catalog.ErrImportInProgress) {
		t.Fatalf("expected ErrImportInProgress, got %v", err)
	}

	start := time.Now()
	_, err = catalog.AcquireImportLock(ctx, path, 300*time.Millisecond)
	if !errors.Is(err, catalog.ErrImportInProgress) {
		t.Fatalf("expected ErrImportInProgress after waiting, got %v", err)
	}
	if time.Since(start) < 250*time.Millisecond {
		t.Fatal("expected acquire to wait for the timeout")
	}

	if err := held.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := catalog.AcquireImportLock(ctx, path, 0)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestReleaseNilLock(t *testing.T) {
	var l *catalog.ImportLock
	if err := l.Release(); err != nil {
		t.Fatalf("Release on nil lock: %v", err)
	}
}
