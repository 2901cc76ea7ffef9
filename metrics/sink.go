package metrics

import (
	"sync"
	"time"

	"github.com/ethereum-optimism/infra/op-bdd/runner"
	"github.com/ethereum-optimism/infra/op-bdd/types"
)

var _ runner.ResultSink = (*RunSink)(nil)

// RunSink records whole-run aggregates when the run completes.
type RunSink struct {
	mu    sync.Mutex
	stats map[string]*runStats
}

type runStats struct {
	total    int
	passed   int
	failed   int
	duration time.Duration
	status   types.ExecutionStatus
}

// NewRunSink creates a sink feeding run aggregates into prometheus.
func NewRunSink() *RunSink {
	return &RunSink{stats: make(map[string]*runStats)}
}

// Consume folds the feature's scenarios into the run aggregate.
func (s *RunSink) Consume(result *types.FeatureResult, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.stats[runID]
	if !ok {
		stats = &runStats{status: types.StatusPassed}
		s.stats[runID] = stats
	}
	for _, scenario := range result.Scenarios() {
		stats.total++
		stats.duration += scenario.ExecutionTime
		switch scenario.Status {
		case types.StatusPassed:
			stats.passed++
		case types.StatusFailed:
			stats.failed++
		}
		stats.status = types.MostSevere(stats.status, scenario.Status)
	}
	return nil
}

// Complete publishes the aggregate for the run.
func (s *RunSink) Complete(runID string) error {
	s.mu.Lock()
	stats := s.stats[runID]
	delete(s.stats, runID)
	s.mu.Unlock()

	if stats == nil {
		stats = &runStats{status: types.StatusPassed}
	}
	RecordRun(runID, stats.status.String(), stats.total, stats.passed, stats.failed, stats.duration)
	return nil
}
