package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// Config configures a scenario Runner. Zero values get working defaults:
// discard logging, no-op notifications, the default classifier, the system
// clock and an abort-on-first-failure policy.
type Config struct {
	// Feature identifies the feature the runner's scenarios belong to.
	Feature types.FeatureInfo
	// Result is the shared accumulator the scenario results append to.
	// A fresh one is created when nil.
	Result     *types.FeatureResult
	Notifier   ProgressNotifier
	Classifier *Classifier
	Clock      Clock
	// ShouldAbort decides whether a failed step stops the remaining steps
	// of its group. The default policy always aborts.
	ShouldAbort func(error) bool
	Logger      log.Logger
	// TracerName names the otel tracer scenario and step spans are created
	// from. Defaults to "op-bdd/runner".
	TracerName string
}

// Runner executes scenarios for one feature and appends their results to the
// feature's shared result. Runners are safe for concurrent use; each
// scenario executes on the goroutine that invoked it.
type Runner struct {
	feature     types.FeatureInfo
	result      *types.FeatureResult
	notifier    ProgressNotifier
	classifier  *Classifier
	clock       Clock
	shouldAbort func(error) bool
	log         log.Logger
	tracer      trace.Tracer
}

// ScenarioOptions overrides scenario identification.
type ScenarioOptions struct {
	// Name overrides the name derived from the calling function or test.
	Name string
	// Label is an optional external reference, e.g. a ticket number.
	Label string
}

// NewRunner creates a runner from the given config, filling in defaults for
// unset fields.
func NewRunner(cfg Config) *Runner {
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
	if cfg.TracerName == "" {
		cfg.TracerName = "op-bdd/runner"
	}
	result := cfg.Result
	if result == nil {
		result = types.NewFeatureResult(cfg.Feature)
	}
	return &Runner{
		feature:     cfg.Feature,
		result:      result,
		notifier:    cfg.Notifier,
		classifier:  cfg.Classifier,
		clock:       cfg.Clock,
		shouldAbort: cfg.ShouldAbort,
		log:         cfg.Logger,
		tracer:      otel.Tracer(cfg.TracerName),
	}
}

// AbortAlways is the default abort policy: any failed step stops the
// remaining steps of its group.
func AbortAlways(error) bool {
	return true
}

// Feature returns the feature the runner executes scenarios for.
func (r *Runner) Feature() types.FeatureInfo {
	return r.feature
}

// FeatureResult returns the shared accumulator scenario results append to.
func (r *Runner) FeatureResult() *types.FeatureResult {
	return r.result
}

// RunScenario executes the steps as a scenario named after the calling
// function. It returns nil when the scenario passed or was bypassed,
// the original ignore or inconclusive signal when one aborted the scenario,
// and a *ScenarioError when a step failed.
func (r *Runner) RunScenario(ctx context.Context, steps ...Step) error {
	return r.runScenario(ctx, ScenarioOptions{Name: NameFromTestName(callerFuncName(1))}, steps)
}

// RunScenarioWithOptions is RunScenario with explicit naming.
func (r *Runner) RunScenarioWithOptions(ctx context.Context, opts ScenarioOptions, steps ...Step) error {
	if opts.Name == "" {
		opts.Name = NameFromTestName(callerFuncName(1))
	}
	return r.runScenario(ctx, opts, steps)
}

func (r *Runner) runScenario(ctx context.Context, opts ScenarioOptions, steps []Step) error {
	result := &types.ScenarioResult{Name: opts.Name, Label: opts.Label}

	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("scenario %s", opts.Name))
	defer span.End()

	r.notifier.NotifyScenarioStart(types.ScenarioInfo{
		Name:    opts.Name,
		Label:   opts.Label,
		Feature: r.feature.Name,
	})

	x := &stepExecutor{
		classifier:  r.classifier,
		notifier:    r.notifier,
		clock:       r.clock,
		shouldAbort: r.shouldAbort,
		tracer:      r.tracer,
	}

	runnables := make([]*runnableStep, len(steps))
	for i, s := range steps {
		runnables[i] = newRunnableStep(s, i+1, len(steps), "")
		result.AddStep(runnables[i].result)
	}

	result.ExecutionStart = r.clock.Now()
	var firstErr error
	aborted := false
	for _, rs := range runnables {
		if aborted {
			continue
		}
		err := x.run(ctx, rs)
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		if isAlwaysFatal(err) || r.shouldAbort(err) {
			aborted = true
		}
	}
	result.ExecutionTime = r.clock.Since(result.ExecutionStart)

	result.Status = types.StepsStatus(result.Steps)
	result.Details = scenarioDetails(result.Steps)

	r.result.AddScenario(result)
	r.notifier.NotifyScenarioFinished(result)
	r.log.Debug("Scenario finished",
		"feature", r.feature.Name,
		"scenario", result.Name,
		"status", result.Status,
		"duration", result.ExecutionTime)

	if firstErr == nil {
		return nil
	}
	return r.terminalError(result, firstErr)
}

// terminalError maps the first fatal step error to what the caller sees:
// ignore and inconclusive signals pass through unchanged, anything else is
// wrapped with the scenario's terminal status.
func (r *Runner) terminalError(result *types.ScenarioResult, firstErr error) error {
	var ignore *IgnoreError
	if errors.As(firstErr, &ignore) {
		return ignore
	}
	var inconclusive *InconclusiveError
	if errors.As(firstErr, &inconclusive) {
		return inconclusive
	}
	return &ScenarioError{
		Scenario: result.Name,
		Status:   result.Status,
		Details:  result.Details,
		Err:      firstErr,
	}
}

// scenarioDetails aggregates the non-empty details of all executed steps,
// sub-steps included, each line prefixed with its step path.
func scenarioDetails(steps []*types.StepResult) string {
	var lines []string
	collectDetails(steps, &lines)
	return strings.Join(lines, "\n")
}

func collectDetails(steps []*types.StepResult, lines *[]string) {
	for _, s := range steps {
		if s.Details != "" {
			*lines = append(*lines, fmt.Sprintf("Step %s: %s", s.Info.Path(), s.Details))
		}
		collectDetails(s.SubSteps, lines)
	}
}
