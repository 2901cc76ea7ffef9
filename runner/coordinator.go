package runner

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// ResultSink consumes completed feature results at the end of a run.
type ResultSink interface {
	// Consume processes a single feature result.
	Consume(result *types.FeatureResult, runID string) error
	// Complete is called after all results have been consumed.
	Complete(runID string) error
}

// CoordinatorConfig configures a FeatureCoordinator.
type CoordinatorConfig struct {
	// RunID identifies the run in sinks and report directories.
	// Generated when empty.
	RunID    string
	Notifier ProgressNotifier
	// Sinks receive the collected feature results when the run finishes.
	Sinks       []ResultSink
	Classifier  *Classifier
	Clock       Clock
	ShouldAbort func(error) bool
	Logger      log.Logger
}

// FeatureCoordinator aggregates feature results across test fixtures for a
// whole run. Fixtures obtain runners through RunnerFor; runners for the same
// feature share one result. Finish hands everything to the configured sinks.
type FeatureCoordinator struct {
	runID       string
	notifier    ProgressNotifier
	sinks       []ResultSink
	classifier  *Classifier
	clock       Clock
	shouldAbort func(error) bool
	log         log.Logger
	startedAt   time.Time

	mu       sync.Mutex
	features map[string]*types.FeatureResult
	order    []*types.FeatureResult
	finished bool
}

// NewFeatureCoordinator creates a coordinator from the given config, filling
// in defaults for unset fields.
func NewFeatureCoordinator(cfg CoordinatorConfig) *FeatureCoordinator {
	if cfg.RunID == "" {
		cfg.RunID = uuid.New().String()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.Classifier == nil {
		cfg.Classifier = DefaultClassifier()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.ShouldAbort == nil {
		cfg.ShouldAbort = AbortAlways
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewLogger(log.DiscardHandler())
	}
	return &FeatureCoordinator{
		runID:       cfg.RunID,
		notifier:    cfg.Notifier,
		sinks:       cfg.Sinks,
		classifier:  cfg.Classifier,
		clock:       cfg.Clock,
		shouldAbort: cfg.ShouldAbort,
		log:         cfg.Logger,
		startedAt:   cfg.Clock.Now(),
		features:    make(map[string]*types.FeatureResult),
	}
}

// RunID returns the identifier of the current run.
func (c *FeatureCoordinator) RunID() string {
	return c.runID
}

// StartedAt returns when the coordinator was created.
func (c *FeatureCoordinator) StartedAt() time.Time {
	return c.startedAt
}

// RunnerFor returns a runner bound to the named feature's shared result,
// creating the result on first use. Parallel fixtures of the same feature
// share one accumulator; the first registration's info wins.
func (c *FeatureCoordinator) RunnerFor(feature types.FeatureInfo) *Runner {
	c.mu.Lock()
	result, ok := c.features[feature.Name]
	if !ok {
		result = types.NewFeatureResult(feature)
		c.features[feature.Name] = result
		c.order = append(c.order, result)
	}
	c.mu.Unlock()

	if !ok {
		c.notifier.NotifyFeatureStart(feature)
	}
	return NewRunner(Config{
		Feature:     feature,
		Result:      result,
		Notifier:    c.notifier,
		Classifier:  c.classifier,
		Clock:       c.clock,
		ShouldAbort: c.shouldAbort,
		Logger:      c.log,
	})
}

// Results returns the collected feature results in first-use order.
func (c *FeatureCoordinator) Results() []*types.FeatureResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*types.FeatureResult, len(c.order))
	copy(out, c.order)
	return out
}

// Finish completes the run: it notifies feature completion, feeds every sink
// and clears the collected state. Finishing twice is a no-op.
func (c *FeatureCoordinator) Finish() error {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return nil
	}
	c.finished = true
	features := c.order
	c.order = nil
	c.features = make(map[string]*types.FeatureResult)
	c.mu.Unlock()

	for _, f := range features {
		c.notifier.NotifyFeatureFinished(f)
	}

	var errs []error
	for _, sink := range c.sinks {
		for _, f := range features {
			if err := sink.Consume(f, c.runID); err != nil {
				errs = append(errs, fmt.Errorf("consume feature %q: %w", f.Name, err))
			}
		}
		if err := sink.Complete(c.runID); err != nil {
			errs = append(errs, fmt.Errorf("complete sink: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		c.log.Error("Run completion failed", "run_id", c.runID, "error", err)
		return err
	}

	c.log.Info("Run finished", "run_id", c.runID, "features", len(features))
	return nil
}

// The process-wide coordinator is an explicit, test-main managed resource:
// installed before the run, queried by fixtures, torn down afterwards.
var (
	sharedMu sync.Mutex
	shared   *FeatureCoordinator
)

// Install makes c the process-wide coordinator, replacing any previous one.
func Install(c *FeatureCoordinator) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = c
}

// Current returns the installed coordinator, or nil when none is installed.
func Current() *FeatureCoordinator {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return shared
}

// Uninstall removes and returns the installed coordinator, if any. Callers
// typically Finish it afterwards.
func Uninstall() *FeatureCoordinator {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	c := shared
	shared = nil
	return c
}

// RunnerFor returns a runner from the installed coordinator, or a
// stand-alone runner when none is installed, so scenario code works with and
// without coordinated reporting.
func RunnerFor(feature types.FeatureInfo) *Runner {
	if c := Current(); c != nil {
		return c.RunnerFor(feature)
	}
	return NewRunner(Config{Feature: feature})
}
