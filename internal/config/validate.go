package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RideDir) == "" {
		return fmt.Errorf("paths.ride_dir must be set (or set %s)", rideDirEnv)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Import.ExportCanonical && strings.TrimSpace(c.Paths.ExportDir) == "" {
		return errors.New("paths.export_dir must be set when import.export_canonical is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.LockTimeoutSeconds < 0 {
		return errors.New("import.lock_timeout_seconds must be >= 0")
	}
	return nil
}
