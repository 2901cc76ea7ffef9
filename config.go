package bdd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-bdd/flags"
	"github.com/ethereum/go-ethereum/log"
)

// Config holds the application configuration
type Config struct {
	RunDir      string        // Directory holding archived runs and rendered reports
	RunID       string        // Run to render; empty selects the most recent archive
	Formats     []string      // Report formats to write
	ServeAddr   string        // Report server bind address; empty uses the service default
	RunInterval time.Duration // Interval between report renders
	RunOnce     bool          // Indicates if the service should exit after one render
	Check       bool          // Gate the exit code on the rendered run outcome
	ShowSteps   bool          // Include step rows in the console results table
	Log         log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger, runDir string) (*Config, error) {
	// Parse flags
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	settings, err := LoadSettings(".")
	if err != nil {
		return nil, err
	}

	// CLI wins over the settings file, which wins over the default
	if runDir == "" {
		runDir = settings.RunDir
	}
	if runDir == "" {
		runDir = DefaultRunDir
	}
	absRunDir, err := filepath.Abs(runDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for run directory '%s': %w", runDir, err)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	showSteps := settings.ShowSteps
	if ctx.IsSet(flags.ShowSteps.Name) {
		showSteps = ctx.Bool(flags.ShowSteps.Name)
	}

	return &Config{
		RunDir:      absRunDir,
		RunID:       ctx.String(flags.RunID.Name),
		Formats:     settings.Formats,
		ServeAddr:   settings.ServeAddr,
		RunInterval: runInterval,
		RunOnce:     runOnce,
		Check:       ctx.Bool(flags.Check.Name),
		ShowSteps:   showSteps,
		Log:         log,
	}, nil
}
