package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ridefile/internal/config"
	"ridefile/internal/formats"
	"ridefile/internal/logging"
	"ridefile/internal/rideformat"
)

type commandContext struct {
	configFlag *string
	runID      string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	registryOnce sync.Once
	registry     *rideformat.Registry
	registryErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		runID:      uuid.NewString(),
	}
}

// tagContext attaches the run identifier and command path so every log line
// of this invocation can be correlated.
func (c *commandContext) tagContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, c.runID)
	return logging.WithCommand(ctx, cmd.CommandPath())
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureLogger(ctx context.Context) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		base, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logging.WithContext(ctx, base)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureRegistry(ctx context.Context) (*rideformat.Registry, error) {
	c.registryOnce.Do(func() {
		logger, err := c.ensureLogger(ctx)
		if err != nil {
			c.registryErr = err
			return
		}
		reg := rideformat.NewRegistry(logger)
		if err := formats.RegisterBuiltins(reg); err != nil {
			c.registryErr = err
			return
		}
		c.registry = reg
	})
	return c.registry, c.registryErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// rideDir resolves the optional directory argument, falling back to the
// configured ride directory.
func (c *commandContext) rideDir(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return config.ExpandPath(strings.TrimSpace(args[0]))
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.RideDir, nil
}
