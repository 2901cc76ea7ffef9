package types

import "sync"

// FeatureInfo describes a feature under test.
type FeatureInfo struct {
	Name string
	// Label is an optional external reference, e.g. a ticket number.
	Label       string
	Description string
}

// FeatureResult accumulates scenario results for one feature. Scenarios may
// finish on different goroutines, so AddScenario is safe for concurrent use;
// results appear in completion order.
type FeatureResult struct {
	Name        string
	Label       string
	Description string

	mu        sync.Mutex
	scenarios []*ScenarioResult
}

// NewFeatureResult creates an empty result for the given feature.
func NewFeatureResult(info FeatureInfo) *FeatureResult {
	return &FeatureResult{
		Name:        info.Name,
		Label:       info.Label,
		Description: info.Description,
	}
}

// Info returns the feature identification fields.
func (r *FeatureResult) Info() FeatureInfo {
	return FeatureInfo{Name: r.Name, Label: r.Label, Description: r.Description}
}

// AddScenario appends a completed scenario result.
func (r *FeatureResult) AddScenario(s *ScenarioResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios = append(r.scenarios, s)
}

// Scenarios returns a snapshot of the collected scenario results.
func (r *FeatureResult) Scenarios() []*ScenarioResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ScenarioResult, len(r.scenarios))
	copy(out, r.scenarios)
	return out
}

// ScenarioCount returns the number of collected scenarios.
func (r *FeatureResult) ScenarioCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scenarios)
}

// Status returns the most severe status among the feature's scenarios.
// A feature with no scenarios counts as Passed.
func (r *FeatureResult) Status() ExecutionStatus {
	status := StatusPassed
	for _, s := range r.Scenarios() {
		status = MostSevere(status, s.Status)
	}
	return status
}
