package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

const (
	runDirPrefix = "bddrun-"

	// RunFileName is the name of the JSON archive inside a run directory.
	RunFileName = "run.json"
)

// Run is the serialized form of a completed run, suitable for re-rendering
// reports after the fact.
type Run struct {
	RunID     string          `json:"runId"`
	StartedAt time.Time       `json:"startedAt"`
	Duration  time.Duration   `json:"duration"`
	Features  []FeatureRecord `json:"features"`
}

// FeatureRecord archives one feature and its scenarios.
type FeatureRecord struct {
	Name        string           `json:"name"`
	Label       string           `json:"label,omitempty"`
	Description string           `json:"description,omitempty"`
	Scenarios   []ScenarioRecord `json:"scenarios"`
}

// ScenarioRecord archives one scenario run.
type ScenarioRecord struct {
	Name           string                `json:"name"`
	Label          string                `json:"label,omitempty"`
	Status         types.ExecutionStatus `json:"status"`
	Details        string                `json:"details,omitempty"`
	ExecutionStart time.Time             `json:"executionStart"`
	ExecutionTime  time.Duration         `json:"executionTime"`
	Steps          []StepRecord          `json:"steps,omitempty"`
}

// StepRecord archives one step, including composite sub-steps.
type StepRecord struct {
	Number         int                   `json:"number"`
	Name           string                `json:"name"`
	GroupPrefix    string                `json:"groupPrefix,omitempty"`
	Total          int                   `json:"total"`
	Status         types.ExecutionStatus `json:"status"`
	Details        string                `json:"details,omitempty"`
	ExecutionStart time.Time             `json:"executionStart"`
	ExecutionTime  time.Duration         `json:"executionTime"`
	Executed       bool                  `json:"executed"`
	Comments       []string              `json:"comments,omitempty"`
	Parameters     []ParameterRecord     `json:"parameters,omitempty"`
	SubSteps       []StepRecord          `json:"subSteps,omitempty"`
}

// ParameterRecord archives one step parameter outcome.
type ParameterRecord struct {
	Name      string                `json:"name"`
	Value     string                `json:"value,omitempty"`
	Evaluated bool                  `json:"evaluated"`
	Status    types.ExecutionStatus `json:"status"`
	Details   string                `json:"details,omitempty"`
}

// NewRun snapshots feature results into their archival form.
func NewRun(runID string, features []*types.FeatureResult) *Run {
	summary := Summarize(features)
	run := &Run{
		RunID:     runID,
		StartedAt: summary.Start,
		Duration:  summary.Duration,
	}
	for _, feature := range features {
		run.Features = append(run.Features, newFeatureRecord(feature))
	}
	return run
}

func newFeatureRecord(feature *types.FeatureResult) FeatureRecord {
	rec := FeatureRecord{
		Name:        feature.Name,
		Label:       feature.Label,
		Description: feature.Description,
	}
	for _, scenario := range feature.Scenarios() {
		rec.Scenarios = append(rec.Scenarios, newScenarioRecord(scenario))
	}
	return rec
}

func newScenarioRecord(scenario *types.ScenarioResult) ScenarioRecord {
	rec := ScenarioRecord{
		Name:           scenario.Name,
		Label:          scenario.Label,
		Status:         scenario.Status,
		Details:        scenario.Details,
		ExecutionStart: scenario.ExecutionStart,
		ExecutionTime:  scenario.ExecutionTime,
	}
	for _, step := range scenario.Steps {
		rec.Steps = append(rec.Steps, newStepRecord(step))
	}
	return rec
}

func newStepRecord(step *types.StepResult) StepRecord {
	rec := StepRecord{
		Number:         step.Info.Number,
		Name:           step.Info.Name,
		GroupPrefix:    step.Info.GroupPrefix,
		Total:          step.Info.Total,
		Status:         step.Status,
		Details:        step.Details,
		ExecutionStart: step.ExecutionStart,
		ExecutionTime:  step.ExecutionTime,
		Executed:       step.Executed,
		Comments:       step.Comments,
	}
	for _, p := range step.Parameters {
		rec.Parameters = append(rec.Parameters, ParameterRecord{
			Name:      p.Name,
			Value:     p.Value,
			Evaluated: p.Evaluated,
			Status:    p.Status,
			Details:   p.Details,
		})
	}
	for _, sub := range step.SubSteps {
		rec.SubSteps = append(rec.SubSteps, newStepRecord(sub))
	}
	return rec
}

// FeatureResults reconstructs the in-memory result tree from the archive.
func (r *Run) FeatureResults() []*types.FeatureResult {
	out := make([]*types.FeatureResult, 0, len(r.Features))
	for _, fr := range r.Features {
		feature := types.NewFeatureResult(types.FeatureInfo{
			Name:        fr.Name,
			Label:       fr.Label,
			Description: fr.Description,
		})
		for _, sr := range fr.Scenarios {
			feature.AddScenario(sr.scenarioResult())
		}
		out = append(out, feature)
	}
	return out
}

func (r ScenarioRecord) scenarioResult() *types.ScenarioResult {
	scenario := &types.ScenarioResult{
		Name:           r.Name,
		Label:          r.Label,
		Status:         r.Status,
		Details:        r.Details,
		ExecutionStart: r.ExecutionStart,
		ExecutionTime:  r.ExecutionTime,
	}
	for _, step := range r.Steps {
		scenario.AddStep(step.stepResult())
	}
	return scenario
}

func (r StepRecord) stepResult() *types.StepResult {
	step := &types.StepResult{
		Info: types.StepInfo{
			Number:      r.Number,
			Name:        r.Name,
			GroupPrefix: r.GroupPrefix,
			Total:       r.Total,
		},
		Status:         r.Status,
		Details:        r.Details,
		ExecutionStart: r.ExecutionStart,
		ExecutionTime:  r.ExecutionTime,
		Executed:       r.Executed,
		Comments:       r.Comments,
	}
	for _, p := range r.Parameters {
		step.AddParameter(&types.ParameterResult{
			Name:      p.Name,
			Value:     p.Value,
			Evaluated: p.Evaluated,
			Status:    p.Status,
			Details:   p.Details,
		})
	}
	for _, sub := range r.SubSteps {
		step.AddSubStep(sub.stepResult())
	}
	return step
}

// Store persists run archives inside their run directories.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) runFile(runID string) string {
	return filepath.Join(s.baseDir, runDirPrefix+runID, RunFileName)
}

// SaveRun writes the archive into the run's directory, creating it if needed.
func (s *Store) SaveRun(run *Run) error {
	if run.RunID == "" {
		return fmt.Errorf("runID cannot be empty")
	}
	path := s.runFile(run.RunID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.RunID, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run archive: %w", err)
	}
	return nil
}

// LoadRun reads one archived run by ID.
func (s *Store) LoadRun(runID string) (*Run, error) {
	data, err := os.ReadFile(s.runFile(runID))
	if err != nil {
		return nil, fmt.Errorf("failed to read run archive: %w", err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse run archive: %w", err)
	}
	return &run, nil
}

// ListRuns loads all archived runs under the base directory, oldest first.
func (s *Store) ListRuns() ([]*Run, error) {
	matches, err := filepath.Glob(filepath.Join(s.baseDir, runDirPrefix+"*", RunFileName))
	if err != nil {
		return nil, err
	}
	runs := make([]*Run, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read run archive %s: %w", path, err)
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("failed to parse run archive %s: %w", path, err)
		}
		runs = append(runs, &run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.Before(runs[j].StartedAt) })
	return runs, nil
}

// LatestRun returns the most recently started archived run.
func (s *Store) LatestRun() (*Run, error) {
	runs, err := s.ListRuns()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no archived runs under %s", s.baseDir)
	}
	return runs[len(runs)-1], nil
}
