package bdd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-bdd/exitcodes"
	"github.com/ethereum-optimism/infra/op-bdd/metrics"
	"github.com/ethereum-optimism/infra/op-bdd/reporting"
	"github.com/ethereum-optimism/infra/op-bdd/types"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
)

// bdd implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &bdd{}

// resultStore is the slice of the run archive the render service reads.
type resultStore interface {
	LoadRun(runID string) (*reporting.Run, error)
	LatestRun() (*reporting.Run, error)
}

// bdd renders archived scenario runs into report files and a console table.
type bdd struct {
	ctx     context.Context
	config  *Config
	version string
	store   resultStore
	summary *reporting.Summary

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*bdd, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating op-bdd with config",
		"runDir", config.RunDir,
		"runID", config.RunID,
		"formats", config.Formats,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce,
		"check", config.Check)

	return &bdd{
		ctx:              ctx,
		config:           config,
		version:          version,
		store:            reporting.NewStore(config.RunDir),
		done:             make(chan struct{}),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start renders reports immediately and then periodically at the configured
// interval. Start implements the cliapp.Lifecycle interface.
func (b *bdd) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			b.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	b.ctx = ctx
	b.done = make(chan struct{})
	b.running.Store(true)

	if b.config.RunOnce {
		b.config.Log.Info("Starting op-bdd in run-once mode")
	} else {
		b.config.Log.Info("Starting op-bdd in continuous mode", "interval", b.config.RunInterval)
	}

	// Render immediately on startup
	err := b.render()
	if err != nil {
		// For runtime errors (like a missing archive), return exit code 2
		b.config.Log.Error("Runtime error rendering reports", "error", err)
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	// If in run-once mode, trigger shutdown and return
	if b.config.RunOnce {
		b.config.Log.Info("Render completed, exiting (run-once mode)")

		// Gate the exit code on the rendered outcome when requested
		if b.config.Check && b.summary != nil && b.summary.Status() == types.StatusFailed {
			b.config.Log.Warn("Rendered run contains failures, returning exit code 1")
			return NewTestFailureError(fmt.Sprintf("%d of %d scenarios failed",
				b.summary.Scenarios.Failed, b.summary.Scenarios.Total))
		}

		go func() {
			b.shutdownCallback(nil)
		}()
		return nil // Success (exit code 0)
	}

	// Start a goroutine for periodic rendering
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.config.Log.Debug("Starting periodic render goroutine", "interval", b.config.RunInterval)

		for {
			select {
			case <-time.After(b.config.RunInterval):
				// Check if we should still be running
				if !b.running.Load() {
					b.config.Log.Debug("Service stopped, exiting periodic renderer")
					return
				}

				b.config.Log.Info("Rendering reports")
				if err := b.render(); err != nil {
					b.config.Log.Error("Error rendering reports", "error", err)
				}

			case <-b.done:
				b.config.Log.Debug("Done signal received, stopping periodic renderer")
				return

			case <-ctx.Done():
				b.config.Log.Debug("Context canceled, stopping periodic renderer")
				b.running.Store(false)
				return
			}
		}
	}()
	b.config.Log.Debug("op-bdd started successfully")
	return nil
}

// render loads the selected run from the archive, regenerates its report
// files and prints the results table.
func (b *bdd) render() error {
	run, err := b.loadRun()
	if err != nil {
		// This is a runtime error (not a scenario failure)
		return NewRuntimeError(err)
	}
	features := run.FeatureResults()

	if err := b.writeReports(run.RunID, features); err != nil {
		return NewRuntimeError(err)
	}

	summary := reporting.Summarize(features)
	b.summary = &summary

	b.printResultsTable(run.RunID, features)

	metrics.RecordRun(
		run.RunID,
		summary.Status().String(),
		summary.Scenarios.Total,
		summary.Scenarios.Passed,
		summary.Scenarios.Failed,
		summary.Duration,
	)
	b.config.Log.Info("Render completed", "run_id", run.RunID, "status", summary.Status())
	return nil
}

func (b *bdd) loadRun() (*reporting.Run, error) {
	if b.config.RunID != "" {
		return b.store.LoadRun(b.config.RunID)
	}
	return b.store.LatestRun()
}

// writeReports regenerates the configured report files next to the archive.
func (b *bdd) writeReports(runID string, features []*types.FeatureResult) error {
	for _, format := range b.config.Formats {
		sink, err := b.sinkFor(format)
		if err != nil {
			return err
		}
		for _, feature := range features {
			if err := sink.Consume(feature, runID); err != nil {
				return err
			}
		}
		if err := sink.Complete(runID); err != nil {
			return fmt.Errorf("failed to write %s report: %w", format, err)
		}
	}
	return nil
}

func (b *bdd) sinkFor(format string) (*reporting.ResultsFileSink, error) {
	switch format {
	case "xml":
		return reporting.NewXMLFileSink(b.config.RunDir), nil
	case "html":
		return reporting.NewHTMLFileSink(b.config.RunDir)
	case "text":
		return reporting.NewTextFileSink(b.config.RunDir), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// printResultsTable prints the rendered run to the console.
func (b *bdd) printResultsTable(runID string, features []*types.FeatureResult) {
	formatter := reporting.NewTableFormatter(fmt.Sprintf("Scenario Results (%s)", runID), b.config.ShowSteps)
	content, err := formatter.Format(features)
	if err != nil {
		b.config.Log.Error("Error printing results table", "error", err)
		return
	}
	fmt.Println(content)
}

// Stop stops the op-bdd service.
// Stop implements the cliapp.Lifecycle interface.
func (b *bdd) Stop(ctx context.Context) error {
	b.config.Log.Info("Stopping op-bdd")

	// Check if we're already stopped
	if !b.running.Load() {
		b.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	// Update running state first to prevent new renders
	b.running.Store(false)

	// Signal goroutines to exit
	b.config.Log.Debug("Sending done signal to goroutines")
	close(b.done)

	b.config.Log.Info("op-bdd stopped successfully")
	return nil
}

// Stopped returns true if the op-bdd service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (b *bdd) Stopped() bool {
	return !b.running.Load()
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (b *bdd) WaitForShutdown(ctx context.Context) error {
	b.config.Log.Debug("Waiting for all goroutines to terminate")

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.config.Log.Debug("All goroutines terminated successfully")
		return nil
	case <-ctx.Done():
		b.config.Log.Warn("Timed out waiting for goroutines to terminate", "error", ctx.Err())
		return ctx.Err()
	}
}
