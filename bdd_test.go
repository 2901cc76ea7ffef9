package bdd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-bdd/reporting"
	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// trackedMockStore is a mock run store that counts archive reads and provides
// synchronization
type trackedMockStore struct {
	mock.Mock
	loadCount atomic.Int32  // Count of archive reads
	loadCh    chan struct{} // Channel for signaling on each read
}

// newTrackedMockStore creates a new store with read tracking
func newTrackedMockStore() *trackedMockStore {
	return &trackedMockStore{
		loadCh: make(chan struct{}, 100), // Buffer to prevent blocking
	}
}

// LoadRun implements the resultStore interface
func (m *trackedMockStore) LoadRun(runID string) (*reporting.Run, error) {
	m.loadCount.Add(1)
	args := m.Called(runID)

	// Signal that a read has happened
	select {
	case m.loadCh <- struct{}{}:
	default:
		// Non-blocking send, just in case no one is listening
	}

	if run := args.Get(0); run != nil {
		return run.(*reporting.Run), args.Error(1)
	}
	return nil, args.Error(1)
}

// LatestRun implements the resultStore interface
func (m *trackedMockStore) LatestRun() (*reporting.Run, error) {
	m.loadCount.Add(1)
	args := m.Called()

	// Signal that a read has happened
	select {
	case m.loadCh <- struct{}{}:
	default:
		// Non-blocking send, just in case no one is listening
	}

	if run := args.Get(0); run != nil {
		return run.(*reporting.Run), args.Error(1)
	}
	return nil, args.Error(1)
}

// waitForLoads waits for a specific number of archive reads with timeout
func (m *trackedMockStore) waitForLoads(ctx context.Context, count int32) bool {
	// Create a timeout context
	timeoutCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	// Use a ticker to periodically check the read count
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		// Check if we've reached the desired count
		if m.loadCount.Load() >= count {
			return true
		}

		// Wait for either a new read, ticker, or timeout
		select {
		case <-m.loadCh:
			// A read signal received, immediately recheck the count
			continue
		case <-ticker.C:
			// Periodic check, loop back to check the count again
			continue
		case <-timeoutCtx.Done():
			// Timeout expired
			return false
		}
	}
}

// passingRun builds an archived run whose only scenario passed
func passingRun(runID string, start time.Time) *reporting.Run {
	feature := types.NewFeatureResult(types.FeatureInfo{Name: "Login feature"})
	feature.AddScenario(&types.ScenarioResult{
		Name:           "Successful login",
		Status:         types.StatusPassed,
		ExecutionStart: start,
		ExecutionTime:  time.Second,
	})
	return reporting.NewRun(runID, []*types.FeatureResult{feature})
}

// failingRun builds an archived run with one passed and one failed scenario
func failingRun(runID string, start time.Time) *reporting.Run {
	feature := types.NewFeatureResult(types.FeatureInfo{Name: "Login feature"})
	feature.AddScenario(&types.ScenarioResult{
		Name:           "Successful login",
		Status:         types.StatusPassed,
		ExecutionStart: start,
		ExecutionTime:  time.Second,
	})
	feature.AddScenario(&types.ScenarioResult{
		Name:           "Invalid password is rejected",
		Status:         types.StatusFailed,
		Details:        "expected the login to be rejected",
		ExecutionStart: start.Add(time.Second),
		ExecutionTime:  2 * time.Second,
	})
	return reporting.NewRun(runID, []*types.FeatureResult{feature})
}

// setupTest creates a test service with a tracked mock store
func setupTest(t *testing.T) (*trackedMockStore, *bdd, context.Context, context.CancelFunc) {
	t.Helper()

	// Create a clean context for each test with a generous timeout to prevent hangs
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	// Create a tracked mock store
	mockStore := newTrackedMockStore()

	// Create a basic logger
	logger := log.New()

	// Create service with the mock
	service := &bdd{
		ctx: ctx,
		config: &Config{
			Log:         logger,
			RunDir:      t.TempDir(),
			Formats:     []string{"xml"},
			RunInterval: 25 * time.Millisecond, // Short interval for testing
		},
		store: mockStore,
		done:  make(chan struct{}),
		// Add a no-op shutdown callback for tests
		shutdownCallback: func(error) {},
	}

	return mockStore, service, ctx, cancel
}

// teardownTest ensures the service is fully stopped before test completion
func teardownTest(t *testing.T, service *bdd, cancel context.CancelFunc) {
	t.Helper()

	// Cancel context first to stop background activities
	cancel()

	// Then properly stop the service
	if !service.Stopped() {
		err := service.Stop(context.Background())
		assert.NoError(t, err, "Service should stop cleanly during teardown")
	}

	// Ensure all goroutines have terminated
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := service.WaitForShutdown(ctx)
	if err != nil {
		t.Logf("Warning: Service did not shut down cleanly in teardown: %v", err)
	}
}

// TestBDD_Start_RendersImmediately tests that the service renders reports
// immediately when started
func TestBDD_Start_RendersImmediately(t *testing.T) {
	// Setup
	mockStore, service, ctx, cancel := setupTest(t)
	defer teardownTest(t, service, cancel)

	// Configure mock to return an archived run
	mockStore.On("LatestRun").Return(passingRun("run-1", time.Now()), nil)

	// Start the service
	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for first render to complete
	loadCompleted := mockStore.waitForLoads(ctx, 1)
	require.True(t, loadCompleted, "First render should have completed")

	// Verify the archive was read once
	mockStore.AssertNumberOfCalls(t, "LatestRun", 1)
}

// TestBDD_Start_RendersPeriodically tests that the service re-renders at the
// configured interval
func TestBDD_Start_RendersPeriodically(t *testing.T) {
	// Setup
	mockStore, service, ctx, cancel := setupTest(t)
	defer teardownTest(t, service, cancel)

	// Configure mock to return an archived run
	mockStore.On("LatestRun").Return(passingRun("run-1", time.Now()), nil)

	// Start the service
	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for multiple renders (at least 3)
	loadCompleted := mockStore.waitForLoads(ctx, 3)
	require.True(t, loadCompleted, "Multiple renders should have completed")

	// Verify the archive was read multiple times
	loadCount := mockStore.loadCount.Load()
	assert.GreaterOrEqual(t, loadCount, int32(3), "Archive should be read at least 3 times")
}

// TestBDD_Context_Cancellation tests that the service properly handles
// context cancellation
func TestBDD_Context_Cancellation(t *testing.T) {
	// Setup
	mockStore, service, ctx, cancel := setupTest(t)
	defer teardownTest(t, service, cancel)

	// Configure mock to return an archived run
	mockStore.On("LatestRun").Return(passingRun("run-1", time.Now()), nil)

	// Start the service
	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for first render to complete
	loadCompleted := mockStore.waitForLoads(ctx, 1)
	require.True(t, loadCompleted, "First render should have completed")

	// Record the read count before cancellation
	loadCountBeforeCancel := mockStore.loadCount.Load()

	// Cancel the context
	cancel()

	// Wait a moment for the cancellation to propagate
	time.Sleep(50 * time.Millisecond)

	// Verify service is stopped
	assert.True(t, service.Stopped(), "Service should be stopped after context cancellation")

	// Wait more time to ensure no more renders run after stopping
	time.Sleep(3 * service.config.RunInterval)

	// Verify no additional renders occurred after cancellation
	assert.Equal(t, loadCountBeforeCancel, mockStore.loadCount.Load(),
		"No additional renders should occur after context cancellation")
}

// TestBDD_RunOnceMode tests that the service renders once, writes the report
// files and triggers shutdown in run-once mode
func TestBDD_RunOnceMode(t *testing.T) {
	// Setup
	mockStore, service, ctx, cancel := setupTest(t)
	defer cancel()

	// Set run-once mode
	service.config.RunOnce = true

	// Configure mock for 1 call
	mockStore.On("LatestRun").Return(passingRun("run-1", time.Now()), nil).Once()

	// Start the service
	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for render to complete
	loadCompleted := mockStore.waitForLoads(ctx, 1)
	require.True(t, loadCompleted, "Render should have completed")

	// Verify the archive was read exactly once and rendering doesn't continue
	time.Sleep(3 * service.config.RunInterval)
	mockStore.AssertNumberOfCalls(t, "LatestRun", 1)

	// The configured report file was regenerated next to the archive
	require.FileExists(t, filepath.Join(service.config.RunDir, "bddrun-run-1", "results.xml"))

	// The rendered summary is retained for exit code gating
	require.NotNil(t, service.summary)
	assert.Equal(t, types.StatusPassed, service.summary.Status())
}

// TestBDD_RunOnceCheckFailure tests that run-once mode with --check returns a
// test failure error when the rendered run contains failed scenarios
func TestBDD_RunOnceCheckFailure(t *testing.T) {
	// Setup
	mockStore, service, ctx, cancel := setupTest(t)
	defer cancel()

	// Set run-once mode with exit code gating
	service.config.RunOnce = true
	service.config.Check = true

	// Configure mock to return a run with a failed scenario
	mockStore.On("LatestRun").Return(failingRun("run-1", time.Now()), nil).Once()

	// Start the service
	err := service.Start(ctx)
	require.Error(t, err)
	require.True(t, IsTestFailureError(err), "Failed scenarios should surface as a test failure")
	require.ErrorContains(t, err, "1 of 2 scenarios failed")
}

// TestBDD_PinnedRunID tests that a configured run ID selects that archive
// instead of the most recent one
func TestBDD_PinnedRunID(t *testing.T) {
	// Setup
	mockStore, service, ctx, cancel := setupTest(t)
	defer cancel()

	// Pin the run to render
	service.config.RunOnce = true
	service.config.RunID = "run-42"

	// Configure mock for the pinned archive
	mockStore.On("LoadRun", "run-42").Return(passingRun("run-42", time.Now()), nil).Once()

	// Start the service
	err := service.Start(ctx)
	require.NoError(t, err)

	// Verify the pinned archive was read and the latest one never consulted
	mockStore.AssertCalled(t, "LoadRun", "run-42")
	mockStore.AssertNotCalled(t, "LatestRun")
}

// TestBDD_MissingArchive tests that a missing run archive is treated as a
// runtime error with exit code 2
func TestBDD_MissingArchive(t *testing.T) {
	// Setup
	mockStore, service, ctx, cancel := setupTest(t)
	defer cancel()

	service.config.RunOnce = true

	// Configure mock to fail the archive read
	mockStore.On("LatestRun").Return(nil, fmt.Errorf("failed to read run archive: no runs found"))

	// Start the service
	err := service.Start(ctx)
	require.Error(t, err)

	// The error carries exit code 2 for the CLI to propagate
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode())
}
