package bdd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-bdd/logging"
	"github.com/ethereum-optimism/infra/op-bdd/metrics"
	"github.com/ethereum-optimism/infra/op-bdd/reporting"
	"github.com/ethereum-optimism/infra/op-bdd/runner"
)

// SettingsFile is the optional project file consulted for report settings.
const SettingsFile = "op-bdd.yaml"

// DefaultRunDir is used when neither the CLI nor the settings file name one.
const DefaultRunDir = "logs"

var knownFormats = []string{"xml", "html", "text"}

// Settings configures report generation. The same file serves the render
// service and test processes that construct a feature coordinator.
type Settings struct {
	RunDir  string   `yaml:"runDir"`
	Formats []string `yaml:"formats"`
	// ServeAddr is the report server bind address; empty uses the service
	// default.
	ServeAddr string `yaml:"serveAddr"`
	ShowSteps bool   `yaml:"showSteps"`
}

func DefaultSettings() Settings {
	return Settings{
		RunDir:    DefaultRunDir,
		Formats:   slices.Clone(knownFormats),
		ShowSteps: true,
	}
}

// LoadSettings reads SettingsFile from dir. A missing file yields the
// defaults.
func LoadSettings(dir string) (Settings, error) {
	path := filepath.Join(dir, SettingsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, format := range settings.Formats {
		if !slices.Contains(knownFormats, format) {
			return Settings{}, fmt.Errorf("unknown report format %q in %s", format, path)
		}
	}
	if len(settings.Formats) == 0 {
		settings.Formats = slices.Clone(knownFormats)
	}
	return settings, nil
}

// Coordinator builds a feature coordinator whose results land in the
// configured run directory, with progress logging, metrics and the console
// table wired in. Test mains install it before m.Run and finish it after.
func (s Settings) Coordinator(logger log.Logger) (*runner.FeatureCoordinator, error) {
	runID := uuid.New().String()
	fileLogger, err := logging.NewFileLogger(s.RunDir, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}

	console := reporting.NewConsoleSink()
	if !s.ShowSteps {
		console = console.WithFormatter(reporting.NewTableFormatter("Scenario Results", false))
	}

	return runner.NewFeatureCoordinator(runner.CoordinatorConfig{
		RunID: runID,
		Notifier: runner.CompositeNotifier{
			runner.NewLogNotifier(logger),
			metrics.NewNotifier(runID),
		},
		Sinks: []runner.ResultSink{
			fileLogger,
			console,
			metrics.NewRunSink(),
		},
		Logger: logger,
	}), nil
}
