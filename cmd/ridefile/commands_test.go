package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ridefile/internal/catalog"
	"ridefile/internal/gcxml"
	"ridefile/internal/testsupport"
)

func TestFormatsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"formats"}, env.configPath)
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	want := "csv\tComma-separated ride export\n" +
		"gc\tCanonical ride document\n" +
		"tcx\tGarmin Training Center XML\n"
	if out != want {
		t.Fatalf("formats output = %q, want %q", out, want)
	}
}

func TestListCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteRide(t, filepath.Join(env.cfg.Paths.RideDir, "b.gc"), testsupport.SampleRecording())
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.RideDir, "a.csv"), sampleCSV)
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.RideDir, "notes.txt"), "not a ride")

	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "a.csv\nb.gc\n" {
		t.Fatalf("list output = %q", out)
	}

	other := filepath.Join(env.baseDir, "other")
	testsupport.WriteFile(t, filepath.Join(other, "c.tcx"), "<TrainingCenterDatabase/>")
	out, _, err = runCLI(t, []string{"list", "--absolute", other}, env.configPath)
	if err != nil {
		t.Fatalf("list dir: %v", err)
	}
	if out != filepath.Join(other, "c.tcx")+"\n" {
		t.Fatalf("list dir output = %q", out)
	}

	if _, _, err := runCLI(t, []string{"list", filepath.Join(env.baseDir, "missing")}, env.configPath); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestInspectCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.cfg.Paths.RideDir, "ride.gc")
	testsupport.WriteRide(t, path, testsupport.SampleRecording())

	out, _, err := runCLI(t, []string{"inspect", path}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Device:          SRM")
	requireContains(t, out, "Samples:         3")
	requireContains(t, out, "Intervals:       3")
	requireContains(t, out, "Torque:          yes")
	requireContains(t, out, "0\t0.00\t0.00\n")
	requireContains(t, out, "1\t0.00\t1.26\n")
	requireContains(t, out, "2\t2.52\t2.52\n")

	out, _, err = runCLI(t, []string{"inspect", "--json", path}, env.configPath)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var report inspectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Format != "gc" || report.Samples != 3 || len(report.Intervals) != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Intervals[2].Label != 2 || report.Intervals[2].BeginSecs != 2.52 {
		t.Fatalf("unexpected intervals %+v", report.Intervals)
	}
}

func TestInspectReportsReaderErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.cfg.Paths.RideDir, "bad.csv")
	testsupport.WriteFile(t, path, "secs,watts\n0,100\nabc,110\n")

	_, _, err := runCLI(t, []string{"inspect", path}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected reader error with line number, got %v", err)
	}

	_, _, err = runCLI(t, []string{"inspect", filepath.Join(env.cfg.Paths.RideDir, "ride.fit")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "fit") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestConvertCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.cfg.Paths.RideDir, "session.csv")
	testsupport.WriteFile(t, src, sampleCSV)

	out, _, err := runCLI(t, []string{"convert", src, "-o", "-"}, env.configPath)
	if err != nil {
		t.Fatalf("convert to stdout: %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE "+gcxml.DocType+">\n<ride>\n") {
		t.Fatalf("unexpected document:\n%s", out)
	}
	requireContains(t, out, `<device_type name="Computrainer"/>`)
	requireContains(t, out, `<interval name="1" begin_secs="2.00" end_secs="2.00"/>`)

	out, _, err = runCLI(t, []string{"convert", src}, env.configPath)
	if err != nil {
		t.Fatalf("convert to export dir: %v", err)
	}
	target := filepath.Join(env.cfg.Paths.ExportDir, "session.gc")
	requireContains(t, out, "Wrote "+target)
	written, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read converted file: %v", err)
	}
	if !strings.HasPrefix(string(written), "<!DOCTYPE "+gcxml.DocType+">") {
		t.Fatalf("unexpected converted file:\n%s", written)
	}

	csvTarget := filepath.Join(env.baseDir, "copy.csv")
	if _, _, err := runCLI(t, []string{"convert", target, "--format", "csv", "-o", csvTarget}, env.configPath); err != nil {
		t.Fatalf("convert to csv: %v", err)
	}
	copied, err := os.ReadFile(csvTarget)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	requireContains(t, string(copied), "# device: Computrainer")
}

func TestConvertRefusesToOverwriteInput(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.cfg.Paths.RideDir, "ride.gc")
	testsupport.WriteRide(t, src, testsupport.SampleRecording())

	if _, _, err := runCLI(t, []string{"convert", src, "-o", src}, env.configPath); err == nil {
		t.Fatal("expected refusal to overwrite input")
	}
	if _, _, err := runCLI(t, []string{"convert", src, "--format", "fit", "-o", "-"}, env.configPath); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestConvertRequiresExportDirWithoutOutput(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutExportDir())
	src := filepath.Join(env.cfg.Paths.RideDir, "session.csv")
	testsupport.WriteFile(t, src, sampleCSV)

	_, _, err := runCLI(t, []string{"convert", src}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "paths.export_dir is not set") {
		t.Fatalf("expected export_dir error, got %v", err)
	}
	if _, err := os.Stat("session.gc"); !os.IsNotExist(err) {
		t.Fatalf("convert wrote into the working directory: %v", err)
	}

	target := filepath.Join(env.baseDir, "session.gc")
	if _, _, err := runCLI(t, []string{"convert", src, "-o", target}, env.configPath); err != nil {
		t.Fatalf("convert with -o: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected %s: %v", target, err)
	}
}

func TestImportKeepsRidesSharingStartTime(t *testing.T) {
	env := setupCLITestEnv(t)
	rideDir := env.cfg.Paths.RideDir
	testsupport.WriteFile(t, filepath.Join(rideDir, "left.csv"), sampleCSV)
	testsupport.WriteFile(t, filepath.Join(rideDir, "right.csv"), strings.Replace(sampleCSV, "Computrainer", "PowerTap", 1))

	out, _, err := runCLI(t, []string{"import"}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 2 rides (0 failed)")

	first := filepath.Join(env.cfg.Paths.ExportDir, "2011_05_04_18_00_00.gc")
	second := filepath.Join(env.cfg.Paths.ExportDir, "2011_05_04_18_00_00_right.gc")
	requireExportDevice(t, first, "Computrainer")
	requireExportDevice(t, second, "PowerTap")

	// A second import maps each ride back to its own export.
	if _, _, err := runCLI(t, []string{"import"}, env.configPath); err != nil {
		t.Fatalf("second import: %v", err)
	}
	out, _, err = runCLI(t, []string{"catalog", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	var views []catalogEntryView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode catalog list: %v\n%s", err, out)
	}
	exports := map[string]string{}
	for _, v := range views {
		exports[filepath.Base(v.Path)] = v.ExportPath
	}
	if len(views) != 2 || exports["left.csv"] != first || exports["right.csv"] != second {
		t.Fatalf("unexpected export paths %v", exports)
	}
	entries, err := os.ReadDir(env.cfg.Paths.ExportDir)
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(entries))
	}
	requireExportDevice(t, first, "Computrainer")
	requireExportDevice(t, second, "PowerTap")
}

func requireExportDevice(t *testing.T, path, device string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(data), `<device_type name="`+device+`"/>`)
}

func TestImportAndCatalogCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	rideDir := env.cfg.Paths.RideDir
	testsupport.WriteRide(t, filepath.Join(rideDir, "morning.gc"), testsupport.SampleRecording())
	testsupport.WriteFile(t, filepath.Join(rideDir, "evening.csv"), sampleCSV)
	testsupport.WriteFile(t, filepath.Join(rideDir, "broken.csv"), "cad,hr\n1,2\n")

	out, _, err := runCLI(t, []string{"import"}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "FAIL broken.csv")
	requireContains(t, out, "Imported 2 rides (1 failed)")

	exported, err := os.ReadDir(env.cfg.Paths.ExportDir)
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	names := make([]string, 0, len(exported))
	for _, e := range exported {
		names = append(names, e.Name())
	}
	if strings.Join(names, ",") != "2008_03_01_09_30_05.gc,2011_05_04_18_00_00.gc" {
		t.Fatalf("unexpected exports %v", names)
	}
	original, _ := os.ReadFile(filepath.Join(rideDir, "morning.gc"))
	copied, _ := os.ReadFile(filepath.Join(env.cfg.Paths.ExportDir, "2008_03_01_09_30_05.gc"))
	if string(original) != string(copied) {
		t.Fatal("canonical input should be copied verbatim")
	}

	out, _, err = runCLI(t, []string{"catalog", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	var views []catalogEntryView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode catalog list: %v\n%s", err, out)
	}
	if len(views) != 2 || views[0].DeviceType != "SRM" || views[1].DeviceType != "Computrainer" {
		t.Fatalf("unexpected catalog %+v", views)
	}
	if views[1].Intervals != 2 || views[1].Suffix != "csv" {
		t.Fatalf("unexpected csv entry %+v", views[1])
	}

	out, _, err = runCLI(t, []string{"catalog", "list", "--device", "computrainer"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list --device: %v", err)
	}
	if strings.Count(out, "\n") != 1 || !strings.HasPrefix(out, views[1].ID+"\t") {
		t.Fatalf("unexpected filtered list %q", out)
	}

	// Re-importing updates in place.
	if _, _, err := runCLI(t, []string{"import", "--no-export"}, env.configPath); err != nil {
		t.Fatalf("second import: %v", err)
	}
	out, _, err = runCLI(t, []string{"catalog", "show", views[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	requireContains(t, out, "ID:              "+views[0].ID)
	requireContains(t, out, "Device:          SRM")

	out, _, err = runCLI(t, []string{"catalog", "remove", views[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("catalog remove: %v", err)
	}
	requireContains(t, out, "Removed "+views[0].ID)

	_, _, err = runCLI(t, []string{"catalog", "show", views[0].ID}, env.configPath)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImportFailsWhileLocked(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutExport())

	lock, err := catalog.AcquireImportLock(t.Context(), env.cfg.ImportLockPath(), 0)
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"import"}, env.configPath)
	if !errors.Is(err, catalog.ErrImportInProgress) {
		t.Fatalf("expected ErrImportInProgress, got %v", err)
	}
}

func TestImportFailsPreflightForMissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"import", filepath.Join(env.baseDir, "nowhere")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "Ride directory") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
}

func TestMetricsFileWrittenAfterCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.cfg.Paths.RideDir, "ride.gc")
	testsupport.WriteRide(t, path, testsupport.SampleRecording())
	metricsPath := filepath.Join(env.baseDir, "ridefile.prom")

	if _, _, err := runCLI(t, []string{"--metrics-file", metricsPath, "inspect", path}, env.configPath); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	requireContains(t, string(data), `ridefile_registry_rides_opened_total{suffix="gc"}`)
}

func TestLogsCommandReplaysRun(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithLogDir())
	env.cfg.Logging.Level = "warn"
	writeTestConfig(t, env.configPath, env.cfg)
	rideDir := env.cfg.Paths.RideDir
	testsupport.WriteFile(t, filepath.Join(rideDir, "broken.csv"), "cad,hr\n1,2\n")

	if _, _, err := runCLI(t, []string{"import", "--no-export"}, env.configPath); err != nil {
		t.Fatalf("import: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--level", "warn"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "WARN  ride import skipped")
	requireContains(t, out, "event_type=import_file_failed")
	requireContains(t, out, "path="+filepath.Join(rideDir, "broken.csv"))

	if out, _, err = runCLI(t, []string{"logs", "--run", "no-such-run"}, env.configPath); err != nil || out != "" {
		t.Fatalf("expected no records for unknown run, got %q (%v)", out, err)
	}
}

func TestLogsCommandRequiresLogDir(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"logs"}, env.configPath); err == nil {
		t.Fatal("expected error when file logging is disabled")
	}
}
