package config

const (
	defaultRideDir           = "~/rides"
	defaultDataDir           = "~/.local/share/ridefile"
	defaultExportDir         = "~/.local/share/ridefile/export"
	defaultLogDir            = "~/.local/share/ridefile/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
	defaultImportLockTimeout = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RideDir:   defaultRideDir,
			DataDir:   defaultDataDir,
			ExportDir: defaultExportDir,
			LogDir:    defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Import: Import{
			LockTimeoutSeconds: defaultImportLockTimeout,
			ExportCanonical:    true,
		},
	}
}
