package metrics

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name: "simple error",
			err:  errors.New("test error"),
		},
		{
			name: "error with special chars",
			err:  errors.New("test@error#123"),
		},
		{
			name: "error with multiple spaces",
			err:  errors.New("test   error"),
		},
		{
			name: "error with multiple underscores",
			err:  errors.New("test__error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := errToLabel(tt.err)
			validLabelRegex := regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)
			if !validLabelRegex.MatchString(result) {
				t.Errorf("errLabel() = %v, is not a valid Prometheus label", result)
			}
		})
	}
}

func TestRecordError(t *testing.T) {
	// just test that it doesn't panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("RecordError panic'd")
		}
	}()

	RecordError("test_error")
}

func TestRecordErrorDetails(t *testing.T) {
	// Test with nil error
	RecordErrorDetails("test", nil)

	// Test with actual error
	RecordErrorDetails("test", errors.New("sample error"))
}

func TestRecordScenario(t *testing.T) {
	RecordScenario("run1", "Login feature", "Successful login", types.StatusPassed)
	RecordScenario("run1", "Login feature", "Failed login", types.StatusFailed)

	// NotRun is not a terminal scenario status and is dropped
	RecordScenario("run1", "Login feature", "Pending", types.StatusNotRun)
}

func TestRecordStep(t *testing.T) {
	RecordStep("run1", types.StatusPassed)
	RecordStep("run1", types.StatusNotRun)
}

func TestRecordRun(t *testing.T) {
	RecordRun("run1", "Passed", 2, 2, 0, time.Second)
	RecordRun("run1", "Failed", 2, 1, 1, 500*time.Millisecond)
}

func TestNotifierTracksFeatureForScenario(t *testing.T) {
	n := NewNotifier("run-notifier")
	n.NotifyScenarioStart(types.ScenarioInfo{Name: "Successful login", Feature: "Login feature"})
	n.NotifyScenarioFinished(&types.ScenarioResult{Name: "Successful login", Status: types.StatusPassed})

	if len(n.features) != 0 {
		t.Errorf("expected feature tracking map to be cleared, got %d entries", len(n.features))
	}
}

func TestRunSinkAggregates(t *testing.T) {
	sink := NewRunSink()

	feature := types.NewFeatureResult(types.FeatureInfo{Name: "Login feature"})
	feature.AddScenario(&types.ScenarioResult{Name: "a", Status: types.StatusPassed, ExecutionTime: time.Second})
	feature.AddScenario(&types.ScenarioResult{Name: "b", Status: types.StatusFailed, ExecutionTime: time.Second})

	if err := sink.Consume(feature, "run-sink"); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if err := sink.Complete("run-sink"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(sink.stats) != 0 {
		t.Errorf("expected run stats to be cleared, got %d entries", len(sink.stats))
	}

	// Completing an unknown run records an empty passed run
	if err := sink.Complete("run-unknown"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
}
