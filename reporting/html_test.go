package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

func TestHTMLFormatterRendersReport(t *testing.T) {
	formatter, err := NewDefaultHTMLFormatter()
	require.NoError(t, err)

	out, err := formatter.Format([]*types.FeatureResult{loginFeature()})
	require.NoError(t, err)

	require.Contains(t, out, "<!DOCTYPE html>")
	require.Contains(t, out, `<span class="failed">FAILED</span>`)
	require.Contains(t, out, "Login feature")
	require.Contains(t, out, "User authentication")
	require.Contains(t, out, "Successful login")
	require.Contains(t, out, "1. GIVEN the user is about to login")
	require.Contains(t, out, `<div class="details">invalid credentials</div>`)
}

func TestHTMLFormatterEscapesContent(t *testing.T) {
	feature := types.NewFeatureResult(types.FeatureInfo{Name: "Escaping feature"})
	feature.AddScenario(&types.ScenarioResult{
		Name:           "Rejects <script>alert(1)</script>",
		Status:         types.StatusPassed,
		ExecutionStart: testStart,
	})

	formatter, err := NewDefaultHTMLFormatter()
	require.NoError(t, err)
	out, err := formatter.Format([]*types.FeatureResult{feature})
	require.NoError(t, err)

	require.NotContains(t, out, "<script>alert(1)</script>")
	require.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestHTMLFormatterRendersSubSteps(t *testing.T) {
	feature := types.NewFeatureResult(types.FeatureInfo{Name: "Composite feature"})
	parent := executedStep(1, 1, "GIVEN the environment is prepared", types.StatusPassed, testStart, time.Second)
	parent.AddSubStep(&types.StepResult{
		Info:     types.StepInfo{Number: 1, Name: "the database is seeded", GroupPrefix: "1.", Total: 1},
		Status:   types.StatusPassed,
		Executed: true,
	})
	scenario := &types.ScenarioResult{
		Name:           "Composite scenario",
		Status:         types.StatusPassed,
		ExecutionStart: testStart,
		ExecutionTime:  time.Second,
	}
	scenario.AddStep(parent)
	feature.AddScenario(scenario)

	out := formatWithDefaultHTML(t, feature)
	require.Contains(t, out, "1.1. the database is seeded")
}

func TestHTMLFormatterCustomTemplate(t *testing.T) {
	formatter, err := NewHTMLFormatter(`{{getStatusText .Status}}: {{len .Features}} feature(s)`)
	require.NoError(t, err)

	out, err := formatter.Format([]*types.FeatureResult{loginFeature()})
	require.NoError(t, err)
	require.Equal(t, "FAILED: 1 feature(s)", out)
}

func TestHTMLFormatterRejectsBadTemplate(t *testing.T) {
	_, err := NewHTMLFormatter(`{{range}}`)
	require.Error(t, err)
}

func formatWithDefaultHTML(t *testing.T, features ...*types.FeatureResult) string {
	t.Helper()
	formatter, err := NewDefaultHTMLFormatter()
	require.NoError(t, err)
	out, err := formatter.Format(features)
	require.NoError(t, err)
	return out
}
