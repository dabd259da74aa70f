// Package config loads, normalizes, and validates ridefile configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the RIDEFILE_RIDE_DIR environment
// override. The Config type centralizes the directories and knobs the CLI
// needs so every command resolves the ride, data, export, and log
// directories the same way.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
