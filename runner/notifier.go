package runner

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// ProgressNotifier receives execution progress events. Notifications are
// push-only and fire on the executing goroutine; implementations must not
// panic and should return quickly.
type ProgressNotifier interface {
	NotifyFeatureStart(feature types.FeatureInfo)
	NotifyFeatureFinished(result *types.FeatureResult)
	NotifyScenarioStart(scenario types.ScenarioInfo)
	NotifyScenarioFinished(result *types.ScenarioResult)
	NotifyStepStart(step types.StepInfo)
	NotifyStepFinished(result *types.StepResult)
	NotifyStepComment(step types.StepInfo, comment string)
}

// NopNotifier discards all progress events.
type NopNotifier struct{}

var _ ProgressNotifier = NopNotifier{}

func (NopNotifier) NotifyFeatureStart(types.FeatureInfo) {}

func (NopNotifier) NotifyFeatureFinished(*types.FeatureResult) {}

func (NopNotifier) NotifyScenarioStart(types.ScenarioInfo) {}

func (NopNotifier) NotifyScenarioFinished(*types.ScenarioResult) {}

func (NopNotifier) NotifyStepStart(types.StepInfo) {}

func (NopNotifier) NotifyStepFinished(*types.StepResult) {}

func (NopNotifier) NotifyStepComment(types.StepInfo, string) {}

// LogNotifier writes progress events to a structured logger. Step events log
// at debug level to keep scenario output readable; failures escalate.
type LogNotifier struct {
	log log.Logger
}

var _ ProgressNotifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier logging through the given logger.
func NewLogNotifier(logger log.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) NotifyFeatureStart(feature types.FeatureInfo) {
	n.log.Info("Feature started", "feature", feature.Name, "label", feature.Label)
}

func (n *LogNotifier) NotifyFeatureFinished(result *types.FeatureResult) {
	n.log.Info("Feature finished",
		"feature", result.Name,
		"status", result.Status(),
		"scenarios", result.ScenarioCount())
}

func (n *LogNotifier) NotifyScenarioStart(scenario types.ScenarioInfo) {
	n.log.Info("Scenario started", "scenario", scenario.Name, "feature", scenario.Feature)
}

func (n *LogNotifier) NotifyScenarioFinished(result *types.ScenarioResult) {
	logFn := n.log.Info
	switch result.Status {
	case types.StatusFailed:
		logFn = n.log.Error
	case types.StatusIgnored, types.StatusBypassed:
		logFn = n.log.Warn
	}
	logFn("Scenario finished",
		"scenario", result.Name,
		"status", result.Status,
		"duration", result.ExecutionTime,
		"steps", len(result.Steps))
}

func (n *LogNotifier) NotifyStepStart(step types.StepInfo) {
	n.log.Debug("Step started", "step", step.Path(), "name", step.Name)
}

func (n *LogNotifier) NotifyStepFinished(result *types.StepResult) {
	logFn := n.log.Debug
	if result.Status == types.StatusFailed {
		logFn = n.log.Error
	}
	logFn("Step finished",
		"step", result.Info.Path(),
		"name", result.Info.Name,
		"status", result.Status,
		"duration", result.ExecutionTime)
}

func (n *LogNotifier) NotifyStepComment(step types.StepInfo, comment string) {
	n.log.Info("Step comment", "step", step.Path(), "comment", comment)
}

// CompositeNotifier fans events out to several notifiers in order.
type CompositeNotifier []ProgressNotifier

var _ ProgressNotifier = CompositeNotifier(nil)

func (c CompositeNotifier) NotifyFeatureStart(feature types.FeatureInfo) {
	for _, n := range c {
		n.NotifyFeatureStart(feature)
	}
}

func (c CompositeNotifier) NotifyFeatureFinished(result *types.FeatureResult) {
	for _, n := range c {
		n.NotifyFeatureFinished(result)
	}
}

func (c CompositeNotifier) NotifyScenarioStart(scenario types.ScenarioInfo) {
	for _, n := range c {
		n.NotifyScenarioStart(scenario)
	}
}

func (c CompositeNotifier) NotifyScenarioFinished(result *types.ScenarioResult) {
	for _, n := range c {
		n.NotifyScenarioFinished(result)
	}
}

func (c CompositeNotifier) NotifyStepStart(step types.StepInfo) {
	for _, n := range c {
		n.NotifyStepStart(step)
	}
}

func (c CompositeNotifier) NotifyStepFinished(result *types.StepResult) {
	for _, n := range c {
		n.NotifyStepFinished(result)
	}
}

func (c CompositeNotifier) NotifyStepComment(step types.StepInfo, comment string) {
	for _, n := range c {
		n.NotifyStepComment(step, comment)
	}
}
