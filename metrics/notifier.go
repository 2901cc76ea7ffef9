package metrics

import (
	"sync"

	"github.com/ethereum-optimism/infra/op-bdd/runner"
	"github.com/ethereum-optimism/infra/op-bdd/types"
)

var _ runner.ProgressNotifier = (*Notifier)(nil)

// Notifier publishes scenario and step progress as prometheus metrics.
// Scenario results carry no feature reference, so the feature name is
// remembered from the matching start event.
type Notifier struct {
	runID string

	mu       sync.Mutex
	features map[string]string
}

// NewNotifier creates a progress notifier labeling all metrics with runID.
func NewNotifier(runID string) *Notifier {
	return &Notifier{
		runID:    runID,
		features: make(map[string]string),
	}
}

func (n *Notifier) NotifyFeatureStart(types.FeatureInfo)       {}
func (n *Notifier) NotifyFeatureFinished(*types.FeatureResult) {}

func (n *Notifier) NotifyScenarioStart(scenario types.ScenarioInfo) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.features[scenario.Name] = scenario.Feature
}

func (n *Notifier) NotifyScenarioFinished(result *types.ScenarioResult) {
	n.mu.Lock()
	feature := n.features[result.Name]
	delete(n.features, result.Name)
	n.mu.Unlock()

	RecordScenario(n.runID, feature, result.Name, result.Status)
}

func (n *Notifier) NotifyStepStart(types.StepInfo) {}

func (n *Notifier) NotifyStepFinished(result *types.StepResult) {
	RecordStep(n.runID, result.Status)
}

func (n *Notifier) NotifyStepComment(types.StepInfo, string) {}
