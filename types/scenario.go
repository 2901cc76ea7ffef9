package types

import "time"

// ScenarioInfo describes a scenario before it runs.
type ScenarioInfo struct {
	Name string
	// Label is an optional external reference, e.g. a ticket number.
	Label string
	// Feature names the feature the scenario belongs to.
	Feature string
}

// ScenarioResult is the execution record of a single scenario.
type ScenarioResult struct {
	Name           string
	Label          string
	Status         ExecutionStatus
	Details        string
	ExecutionStart time.Time
	ExecutionTime  time.Duration
	// Steps holds the immediate scenario steps in declaration order.
	// Composite step internals hang off StepResult.SubSteps.
	Steps []*StepResult
}

// AddStep appends a step result in declaration order.
func (r *ScenarioResult) AddStep(step *StepResult) {
	r.Steps = append(r.Steps, step)
}

// CountSteps tallies the immediate scenario steps with the given status.
func (r *ScenarioResult) CountSteps(status ExecutionStatus) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}
