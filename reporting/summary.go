package reporting

import (
	"time"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// StatusCounts tallies results by execution status.
type StatusCounts struct {
	Total    int
	Passed   int
	Bypassed int
	Ignored  int
	Failed   int
	NotRun   int
}

func (c *StatusCounts) add(status types.ExecutionStatus) {
	c.Total++
	switch status {
	case types.StatusPassed:
		c.Passed++
	case types.StatusBypassed:
		c.Bypassed++
	case types.StatusIgnored:
		c.Ignored++
	case types.StatusFailed:
		c.Failed++
	case types.StatusNotRun:
		c.NotRun++
	}
}

// Summary aggregates counts and timing across a set of feature results.
// Step counts cover immediate scenario steps only; sub-steps of composite
// steps roll into their parent status and are not counted separately.
type Summary struct {
	// Start is the earliest scenario start across all features. Zero when no
	// scenario ran.
	Start time.Time
	// Duration is the sum of all scenario durations.
	Duration  time.Duration
	Features  int
	Scenarios StatusCounts
	Steps     StatusCounts
}

// Status returns the most severe scenario status in the summary. A summary
// with no scenarios counts as Passed.
func (s Summary) Status() types.ExecutionStatus {
	status := types.StatusPassed
	if s.Scenarios.Bypassed > 0 {
		status = types.StatusBypassed
	}
	if s.Scenarios.Ignored > 0 {
		status = types.StatusIgnored
	}
	if s.Scenarios.Failed > 0 {
		status = types.StatusFailed
	}
	return status
}

// Summarize walks the feature results and aggregates counts and timing.
func Summarize(features []*types.FeatureResult) Summary {
	var s Summary
	s.Features = len(features)
	for _, feature := range features {
		for _, scenario := range feature.Scenarios() {
			s.Scenarios.add(scenario.Status)
			s.Duration += scenario.ExecutionTime
			if !scenario.ExecutionStart.IsZero() &&
				(s.Start.IsZero() || scenario.ExecutionStart.Before(s.Start)) {
				s.Start = scenario.ExecutionStart
			}
			for _, step := range scenario.Steps {
				s.Steps.add(step.Status)
			}
		}
	}
	return s
}
