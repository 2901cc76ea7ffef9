package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

func TestStoreSaveAndLoadRun(t *testing.T) {
	store := NewStore(t.TempDir())
	run := NewRun("run-1", []*types.FeatureResult{loginFeature()})

	require.NoError(t, store.SaveRun(run))

	loaded, err := store.LoadRun("run-1")
	require.NoError(t, err)
	require.Equal(t, "run-1", loaded.RunID)
	require.True(t, run.StartedAt.Equal(loaded.StartedAt))
	require.Equal(t, run.Duration, loaded.Duration)
	require.Len(t, loaded.Features, 1)
	require.Equal(t, "Login feature", loaded.Features[0].Name)
	require.Len(t, loaded.Features[0].Scenarios, 2)
}

func TestStoreRoundTripPreservesReports(t *testing.T) {
	store := NewStore(t.TempDir())
	features := []*types.FeatureResult{loginFeature()}
	require.NoError(t, store.SaveRun(NewRun("run-3", features)))

	loaded, err := store.LoadRun("run-3")
	require.NoError(t, err)

	formatter := NewXMLFormatter()
	want, err := formatter.Format(features)
	require.NoError(t, err)
	got, err := formatter.Format(loaded.FeatureResults())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestRunArchiveUsesStatusNames(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.SaveRun(NewRun("run-4", []*types.FeatureResult{loginFeature()})))

	data, err := os.ReadFile(filepath.Join(dir, "bddrun-run-4", RunFileName))
	require.NoError(t, err)
	require.Contains(t, string(data), `"status": "Failed"`)
	require.Contains(t, string(data), `"status": "NotRun"`)
}

func TestStoreListRunsOrdersByStart(t *testing.T) {
	store := NewStore(t.TempDir())

	first := types.NewFeatureResult(types.FeatureInfo{Name: "First"})
	first.AddScenario(&types.ScenarioResult{
		Name:           "a",
		Status:         types.StatusPassed,
		ExecutionStart: testStart,
		ExecutionTime:  time.Second,
	})
	second := types.NewFeatureResult(types.FeatureInfo{Name: "Second"})
	second.AddScenario(&types.ScenarioResult{
		Name:           "b",
		Status:         types.StatusPassed,
		ExecutionStart: testStart.Add(time.Hour),
		ExecutionTime:  time.Second,
	})

	require.NoError(t, store.SaveRun(NewRun("run-b", []*types.FeatureResult{second})))
	require.NoError(t, store.SaveRun(NewRun("run-a", []*types.FeatureResult{first})))

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-a", runs[0].RunID)
	require.Equal(t, "run-b", runs[1].RunID)

	latest, err := store.LatestRun()
	require.NoError(t, err)
	require.Equal(t, "run-b", latest.RunID)
}

func TestStoreLatestRunWithoutArchives(t *testing.T) {
	_, err := NewStore(t.TempDir()).LatestRun()
	require.Error(t, err)
}

func TestStoreRejectsEmptyRunID(t *testing.T) {
	require.Error(t, NewStore(t.TempDir()).SaveRun(&Run{}))
}

func TestStoreLoadMissingRun(t *testing.T) {
	_, err := NewStore(t.TempDir()).LoadRun("missing")
	require.Error(t, err)
}
